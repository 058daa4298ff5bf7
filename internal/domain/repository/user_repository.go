package repository

import (
	"context"

	"github.com/andrsolo/contactbook/internal/domain/entity"
)

// UserRepository defines the persistence contract for the user directory.
// Implementations return (nil, nil) when no row matches a lookup.
type UserRepository interface {
	Create(ctx context.Context, u *entity.User) error
	GetByID(ctx context.Context, id int64) (*entity.User, error)
	GetByEmail(ctx context.Context, email string) (*entity.User, error)
	GetByUsername(ctx context.Context, username string) (*entity.User, error)
	// ConfirmEmail flips the confirmed flag for the user with the given email.
	ConfirmEmail(ctx context.Context, email string) error
	UpdateAvatar(ctx context.Context, email, avatarURL string) (*entity.User, error)
	UpdatePassword(ctx context.Context, userID int64, passwordHash string) error
}
