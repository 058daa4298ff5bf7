package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/andrsolo/contactbook/internal/domain/entity"
	"github.com/andrsolo/contactbook/internal/domain/repository"
)

const contactColumns = `id, first_name, last_name, email, phone, birthday, info, user_id`

type ContactRepository struct {
	pool *pgxpool.Pool
}

func NewContactRepository(pool *pgxpool.Pool) *ContactRepository {
	return &ContactRepository{pool: pool}
}

func scanContact(row pgx.Row) (*entity.Contact, error) {
	c := &entity.Contact{}
	if err := row.Scan(&c.ID, &c.FirstName, &c.LastName, &c.Email, &c.Phone,
		&c.Birthday, &c.Info, &c.UserID); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return c, nil
}

func collectContacts(rows pgx.Rows) ([]entity.Contact, error) {
	defer rows.Close()
	out := []entity.Contact{}
	for rows.Next() {
		var c entity.Contact
		if err := rows.Scan(&c.ID, &c.FirstName, &c.LastName, &c.Email, &c.Phone,
			&c.Birthday, &c.Info, &c.UserID); err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

func (r *ContactRepository) Create(ctx context.Context, c *entity.Contact) error {
	row := r.pool.QueryRow(ctx, `
		INSERT INTO contact_book (first_name, last_name, email, phone, birthday, info, user_id)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id
	`, c.FirstName, c.LastName, c.Email, c.Phone, c.Birthday, c.Info, c.UserID)

	return row.Scan(&c.ID)
}

func (r *ContactRepository) Get(ctx context.Context, id, userID int64) (*entity.Contact, error) {
	return scanContact(r.pool.QueryRow(ctx, `
		SELECT `+contactColumns+` FROM contact_book
		WHERE id = $1 AND user_id = $2
	`, id, userID))
}

func (r *ContactRepository) List(ctx context.Context, skip, limit int, userID int64) ([]entity.Contact, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT `+contactColumns+` FROM contact_book
		WHERE user_id = $1
		ORDER BY id
		OFFSET $2 LIMIT $3
	`, userID, skip, limit)
	if err != nil {
		return nil, err
	}
	return collectContacts(rows)
}

func (r *ContactRepository) Update(ctx context.Context, id, userID int64, upd repository.ContactUpdate) (*entity.Contact, error) {
	// COALESCE keeps columns whose input field is nil, so the whole partial
	// update stays a single statement.
	return scanContact(r.pool.QueryRow(ctx, `
		UPDATE contact_book SET
			first_name = COALESCE($1, first_name),
			last_name  = COALESCE($2, last_name),
			email      = COALESCE($3, email),
			phone      = COALESCE($4, phone),
			birthday   = COALESCE($5, birthday),
			info       = COALESCE($6, info)
		WHERE id = $7 AND user_id = $8
		RETURNING `+contactColumns+`
	`, upd.FirstName, upd.LastName, upd.Email, upd.Phone, upd.Birthday, upd.Info, id, userID))
}

func (r *ContactRepository) Delete(ctx context.Context, id, userID int64) (*entity.Contact, error) {
	return scanContact(r.pool.QueryRow(ctx, `
		DELETE FROM contact_book
		WHERE id = $1 AND user_id = $2
		RETURNING `+contactColumns+`
	`, id, userID))
}

func (r *ContactRepository) Find(ctx context.Context, query string, skip, limit int, userID int64) ([]entity.Contact, error) {
	pattern := "%" + query + "%"
	rows, err := r.pool.Query(ctx, `
		SELECT `+contactColumns+` FROM contact_book
		WHERE user_id = $1
		  AND (first_name ILIKE $2 OR last_name ILIKE $2 OR email ILIKE $2 OR phone ILIKE $2)
		ORDER BY id
		OFFSET $3 LIMIT $4
	`, userID, pattern, skip, limit)
	if err != nil {
		return nil, err
	}
	return collectContacts(rows)
}

func (r *ContactRepository) Birthdays(ctx context.Context, monthDays []string, skip, limit int, userID int64) ([]entity.Contact, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT `+contactColumns+` FROM contact_book
		WHERE user_id = $1
		  AND to_char(birthday, 'MM-DD') = ANY($2)
		ORDER BY id
		OFFSET $3 LIMIT $4
	`, userID, monthDays, skip, limit)
	if err != nil {
		return nil, err
	}
	return collectContacts(rows)
}

var _ repository.ContactRepository = (*ContactRepository)(nil)
