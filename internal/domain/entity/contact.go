package entity

import "time"

// Contact is an owned record in a user's contact book.
// Every contact belongs to exactly one user; all access is scoped by UserID.
type Contact struct {
	ID        int64     `json:"id"`
	FirstName string    `json:"first_name"`
	LastName  string    `json:"last_name"`
	Email     string    `json:"email"`
	Phone     string    `json:"phone"`
	Birthday  time.Time `json:"birthday"`
	Info      string    `json:"info,omitempty"`
	UserID    int64     `json:"-"`
}
