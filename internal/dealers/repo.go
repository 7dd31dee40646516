package dealers

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

var ErrNotFound = errors.New("dealer not found")

type Repo struct {
	pg *pgxpool.Pool
}

func NewRepo(pg *pgxpool.Pool) *Repo {
	return &Repo{pg: pg}
}

const dealerColumns = `
  id, name, email, store, street, city, state, zip, address, phone, website, position, dealership_code, status, created_at, updated_at`

func scanDealer(row pgx.Row) (*Dealer, error) {
	var d Dealer
	err := row.Scan(
		&d.ID, &d.Name, &d.Email, &d.Store, &d.Street, &d.City, &d.State, &d.Zip,
		&d.Address, &d.Phone, &d.Website, &d.Position, &d.DealershipCode, &d.Status,
		&d.CreatedAt, &d.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &d, nil
}

// Create inserts a minimal dealer row; full details arrive later via
// UpdateDetails during registration.
func (r *Repo) Create(ctx context.Context, name, email, store string) (uuid.UUID, error) {
	const q = `
INSERT INTO dealers (name, email, store, status, created_at, updated_at)
VALUES ($1, $2, $3, 'active', now(), now())
RETURNING id`
	var id uuid.UUID
	err := r.pg.QueryRow(ctx, q, name, strings.ToLower(strings.TrimSpace(email)), store).Scan(&id)
	return id, err
}

func (r *Repo) FindByID(ctx context.Context, id uuid.UUID) (*Dealer, error) {
	const q = `SELECT` + dealerColumns + ` FROM dealers WHERE id = $1 LIMIT 1`
	return scanDealer(r.pg.QueryRow(ctx, q, id))
}

// FindByEmail is the repair workflow's duplicate-avoidance lookup.
func (r *Repo) FindByEmail(ctx context.Context, email string) (*Dealer, error) {
	const q = `SELECT` + dealerColumns + ` FROM dealers WHERE lower(email) = lower($1) LIMIT 1`
	return scanDealer(r.pg.QueryRow(ctx, q, strings.TrimSpace(email)))
}

type UpdateDetails struct {
	Name           string
	Street         *string
	City           *string
	State          *string
	Zip            *string
	Address        *string
	Phone          *string
	Website        *string
	Email          *string
	Position       *string
	Store          *string
	DealershipCode *string
	Status         string
}

// UpdateDetails patches the dealer row with the full registration payload.
func (r *Repo) UpdateDetails(ctx context.Context, id uuid.UUID, u UpdateDetails) error {
	const q = `
UPDATE dealers
SET name = $2,
    street = $3,
    city = $4,
    state = $5,
    zip = $6,
    address = $7,
    phone = $8,
    website = $9,
    email = COALESCE($10, email),
    position = $11,
    store = COALESCE($12, store),
    dealership_code = COALESCE($13, dealership_code),
    status = $14,
    updated_at = now()
WHERE id = $1`
	_, err := r.pg.Exec(ctx, q, id,
		u.Name, u.Street, u.City, u.State, u.Zip, u.Address, u.Phone, u.Website,
		u.Email, u.Position, u.Store, u.DealershipCode, u.Status,
	)
	return err
}
