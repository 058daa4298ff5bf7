package entity

import "time"

// Role is the authorization role assigned to a user.
type Role string

const (
	RoleUser  Role = "user"
	RoleAdmin Role = "admin"
)

// Valid reports whether r is one of the known roles.
func (r Role) Valid() bool {
	return r == RoleUser || r == RoleAdmin
}

// User is the aggregate root for the user domain.
// Password holds the bcrypt digest, never the plaintext.
//
// Confirmed is monotonic: it starts false and only ever flips to true.
type User struct {
	ID        int64
	Username  string
	Email     string
	Password  string
	Avatar    string
	Confirmed bool
	Role      Role
	CreatedAt time.Time
}
