package auth

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

var (
	ErrNotFound          = errors.New("auth user not found")
	ErrAlreadyRegistered = errors.New("user already registered")
)

type Repo struct {
	pg *pgxpool.Pool
}

func NewRepo(pg *pgxpool.Pool) *Repo {
	return &Repo{pg: pg}
}

const userColumns = `
  id, email, password_hash, email_confirmed, user_type, full_name, company_name, phone, created_at, updated_at`

func scanUser(row pgx.Row) (*User, error) {
	var u User
	err := row.Scan(
		&u.ID, &u.Email, &u.PasswordHash, &u.EmailConfirmed,
		&u.UserType, &u.FullName, &u.CompanyName, &u.Phone,
		&u.CreatedAt, &u.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &u, nil
}

func (r *Repo) Create(ctx context.Context, email, passwordHash string, confirmed bool, meta Metadata) (*User, error) {
	const q = `
INSERT INTO auth_users (email, password_hash, email_confirmed, user_type, full_name, company_name, phone, created_at, updated_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, now(), now())
RETURNING` + userColumns

	u, err := scanUser(r.pg.QueryRow(ctx, q,
		strings.ToLower(strings.TrimSpace(email)), passwordHash, confirmed,
		meta.UserType, meta.FullName, meta.CompanyName, meta.Phone,
	))
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return nil, ErrAlreadyRegistered
		}
		return nil, err
	}
	return u, nil
}

func (r *Repo) FindByEmail(ctx context.Context, email string) (*User, error) {
	const q = `SELECT` + userColumns + ` FROM auth_users WHERE email = $1 LIMIT 1`
	return scanUser(r.pg.QueryRow(ctx, q, strings.ToLower(strings.TrimSpace(email))))
}

func (r *Repo) FindByID(ctx context.Context, id uuid.UUID) (*User, error) {
	const q = `SELECT` + userColumns + ` FROM auth_users WHERE id = $1 LIMIT 1`
	return scanUser(r.pg.QueryRow(ctx, q, id))
}

// UpdateMetadata patches only the supplied metadata fields.
func (r *Repo) UpdateMetadata(ctx context.Context, id uuid.UUID, meta Metadata) error {
	const q = `
UPDATE auth_users
SET user_type = COALESCE($2, user_type),
    full_name = COALESCE($3, full_name),
    company_name = COALESCE($4, company_name),
    phone = COALESCE($5, phone),
    updated_at = now()
WHERE id = $1`
	_, err := r.pg.Exec(ctx, q, id, meta.UserType, meta.FullName, meta.CompanyName, meta.Phone)
	return err
}
