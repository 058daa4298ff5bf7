package repository

import (
	"context"
	"time"

	"github.com/andrsolo/contactbook/internal/domain/entity"
)

// ContactUpdate carries a partial update; nil fields are left untouched.
type ContactUpdate struct {
	FirstName *string
	LastName  *string
	Email     *string
	Phone     *string
	Birthday  *time.Time
	Info      *string
}

// ContactRepository defines the persistence contract for the contact store.
// Every operation is scoped to the owning user; a contact that exists but
// belongs to someone else behaves exactly like a missing one.
type ContactRepository interface {
	Create(ctx context.Context, c *entity.Contact) error
	Get(ctx context.Context, id, userID int64) (*entity.Contact, error)
	List(ctx context.Context, skip, limit int, userID int64) ([]entity.Contact, error)
	Update(ctx context.Context, id, userID int64, upd ContactUpdate) (*entity.Contact, error)
	// Delete removes the contact and returns its last state, or (nil, nil)
	// when nothing matched.
	Delete(ctx context.Context, id, userID int64) (*entity.Contact, error)
	Find(ctx context.Context, query string, skip, limit int, userID int64) ([]entity.Contact, error)
	// Birthdays returns contacts whose birthday falls on one of the given
	// month-day keys (format "MM-DD"), in id order.
	Birthdays(ctx context.Context, monthDays []string, skip, limit int, userID int64) ([]entity.Contact, error)
}
