package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/andrsolo/contactbook/internal/domain/entity"
	"github.com/andrsolo/contactbook/internal/domain/repository"
)

const userColumns = `id, username, email, password_hash, avatar, confirmed, role, created_at`

type UserRepository struct {
	pool *pgxpool.Pool
}

func NewUserRepository(pool *pgxpool.Pool) *UserRepository {
	return &UserRepository{pool: pool}
}

func scanUser(row pgx.Row) (*entity.User, error) {
	u := &entity.User{}
	if err := row.Scan(&u.ID, &u.Username, &u.Email, &u.Password, &u.Avatar,
		&u.Confirmed, &u.Role, &u.CreatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return u, nil
}

func (r *UserRepository) Create(ctx context.Context, u *entity.User) error {
	row := r.pool.QueryRow(ctx, `
		INSERT INTO users (username, email, password_hash, avatar, confirmed, role)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, created_at
	`, u.Username, u.Email, u.Password, u.Avatar, u.Confirmed, u.Role)

	return row.Scan(&u.ID, &u.CreatedAt)
}

func (r *UserRepository) GetByID(ctx context.Context, id int64) (*entity.User, error) {
	return scanUser(r.pool.QueryRow(ctx, `
		SELECT `+userColumns+` FROM users WHERE id = $1
	`, id))
}

func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*entity.User, error) {
	return scanUser(r.pool.QueryRow(ctx, `
		SELECT `+userColumns+` FROM users WHERE email = $1
	`, email))
}

func (r *UserRepository) GetByUsername(ctx context.Context, username string) (*entity.User, error) {
	return scanUser(r.pool.QueryRow(ctx, `
		SELECT `+userColumns+` FROM users WHERE username = $1
	`, username))
}

func (r *UserRepository) ConfirmEmail(ctx context.Context, email string) error {
	_, err := r.pool.Exec(ctx, `
		UPDATE users SET confirmed = TRUE WHERE email = $1
	`, email)
	return err
}

func (r *UserRepository) UpdateAvatar(ctx context.Context, email, avatarURL string) (*entity.User, error) {
	return scanUser(r.pool.QueryRow(ctx, `
		UPDATE users SET avatar = $1 WHERE email = $2
		RETURNING `+userColumns+`
	`, avatarURL, email))
}

func (r *UserRepository) UpdatePassword(ctx context.Context, userID int64, passwordHash string) error {
	_, err := r.pool.Exec(ctx, `
		UPDATE users SET password_hash = $1 WHERE id = $2
	`, passwordHash, userID)
	return err
}

var _ repository.UserRepository = (*UserRepository)(nil)
