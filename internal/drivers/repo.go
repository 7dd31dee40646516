package drivers

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

var ErrNotFound = errors.New("driver not found")

type Repo struct {
	pg *pgxpool.Pool
}

func NewRepo(pg *pgxpool.Pool) *Repo {
	return &Repo{pg: pg}
}

const driverColumns = `
  id, user_id, dealer_id, name, email, phone, checkr_status, available, created_at, updated_at`

func scanDriver(row pgx.Row) (*Driver, error) {
	var d Driver
	err := row.Scan(
		&d.ID, &d.UserID, &d.DealerID, &d.Name, &d.Email, &d.Phone,
		&d.CheckrStatus, &d.Available, &d.CreatedAt, &d.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &d, nil
}

type CreateParams struct {
	UserID   *uuid.UUID
	DealerID *uuid.UUID
	Name     string
	Email    *string
	Phone    *string
}

func (r *Repo) Create(ctx context.Context, p CreateParams) (*Driver, error) {
	const q = `
INSERT INTO drivers (user_id, dealer_id, name, email, phone, checkr_status, available, created_at, updated_at)
VALUES ($1, $2, $3, $4, $5, 'pending', true, now(), now())
RETURNING` + driverColumns

	return scanDriver(r.pg.QueryRow(ctx, q, p.UserID, p.DealerID, p.Name, p.Email, p.Phone))
}

func (r *Repo) FindByID(ctx context.Context, id uuid.UUID) (*Driver, error) {
	const q = `SELECT` + driverColumns + ` FROM drivers WHERE id = $1 LIMIT 1`
	return scanDriver(r.pg.QueryRow(ctx, q, id))
}

// ForDealer lists the dealer's roster, newest first.
func (r *Repo) ForDealer(ctx context.Context, dealerID uuid.UUID) ([]Driver, error) {
	const q = `SELECT` + driverColumns + ` FROM drivers WHERE dealer_id = $1 ORDER BY created_at DESC`

	rows, err := r.pg.Query(ctx, q, dealerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Driver
	for rows.Next() {
		d, err := scanDriver(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *d)
	}
	return out, rows.Err()
}

func (r *Repo) SetAvailability(ctx context.Context, id uuid.UUID, available bool) error {
	const q = `UPDATE drivers SET available = $2, updated_at = now() WHERE id = $1`
	_, err := r.pg.Exec(ctx, q, id, available)
	return err
}
