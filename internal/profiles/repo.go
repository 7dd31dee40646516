package profiles

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/Ltancreti7/SwapRunn-Bolt/internal/domain"
)

var ErrNotFound = errors.New("profile not found")

type Repo struct {
	pg *pgxpool.Pool
}

func NewRepo(pg *pgxpool.Pool) *Repo {
	return &Repo{pg: pg}
}

const profileColumns = `
  id, user_id, user_type, dealer_id, full_name, first_name, last_name, phone, created_at, updated_at`

func scanProfile(row pgx.Row) (*Profile, error) {
	var p Profile
	err := row.Scan(
		&p.ID, &p.UserID, &p.UserType, &p.DealerID,
		&p.FullName, &p.FirstName, &p.LastName, &p.Phone,
		&p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &p, nil
}

// CallerProfile is the role/dealer lookup workflows run before writes.
// No rows is (nil, nil), not an error; any other failure is
// domain.ErrProfileLookupFailed so callers can keep the two apart.
func (r *Repo) CallerProfile(ctx context.Context, userID uuid.UUID) (*Profile, error) {
	p, err := r.FindByUserID(ctx, userID)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("%w: %v", domain.ErrProfileLookupFailed, err)
	}
	return p, nil
}

func (r *Repo) FindByUserID(ctx context.Context, userID uuid.UUID) (*Profile, error) {
	const q = `SELECT` + profileColumns + ` FROM profiles WHERE user_id = $1 LIMIT 1`
	return scanProfile(r.pg.QueryRow(ctx, q, userID))
}

// DealerIDByUserID returns the dealer association only; used by the
// registration polling loop.
func (r *Repo) DealerIDByUserID(ctx context.Context, userID uuid.UUID) (*uuid.UUID, error) {
	const q = `SELECT dealer_id FROM profiles WHERE user_id = $1 LIMIT 1`
	var dealerID *uuid.UUID
	if err := r.pg.QueryRow(ctx, q, userID).Scan(&dealerID); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return dealerID, nil
}

func (r *Repo) UpdateUserType(ctx context.Context, userID uuid.UUID, userType string) error {
	const q = `UPDATE profiles SET user_type = $2, updated_at = now() WHERE user_id = $1`
	_, err := r.pg.Exec(ctx, q, userID, userType)
	return err
}

// AttachDealer points a profile at a dealer row and normalizes the role.
func (r *Repo) AttachDealer(ctx context.Context, userID, dealerID uuid.UUID, userType string) error {
	const q = `UPDATE profiles SET dealer_id = $2, user_type = $3, updated_at = now() WHERE user_id = $1`
	_, err := r.pg.Exec(ctx, q, userID, dealerID, userType)
	return err
}

type UpsertParams struct {
	UserID    uuid.UUID
	UserType  string
	DealerID  *uuid.UUID
	FullName  *string
	FirstName *string
	LastName  *string
	Phone     *string
}

// Upsert creates or updates the profile keyed by user_id.
func (r *Repo) Upsert(ctx context.Context, p UpsertParams) (*Profile, error) {
	const q = `
INSERT INTO profiles (user_id, user_type, dealer_id, full_name, first_name, last_name, phone, created_at, updated_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, now(), now())
ON CONFLICT (user_id) DO UPDATE
SET user_type = EXCLUDED.user_type,
    dealer_id = COALESCE(EXCLUDED.dealer_id, profiles.dealer_id),
    full_name = COALESCE(EXCLUDED.full_name, profiles.full_name),
    first_name = COALESCE(EXCLUDED.first_name, profiles.first_name),
    last_name = COALESCE(EXCLUDED.last_name, profiles.last_name),
    phone = COALESCE(EXCLUDED.phone, profiles.phone),
    updated_at = now()
RETURNING` + profileColumns

	return scanProfile(r.pg.QueryRow(ctx, q,
		p.UserID, p.UserType, p.DealerID, p.FullName, p.FirstName, p.LastName, p.Phone,
	))
}

// DriversForDealer lists driver-typed profiles, dealer dashboard view.
func (r *Repo) DriversForDealer(ctx context.Context, dealerID uuid.UUID) ([]Profile, error) {
	const q = `SELECT` + profileColumns + `
FROM profiles
WHERE user_type = 'driver' AND (dealer_id = $1 OR dealer_id IS NULL)
ORDER BY full_name`

	rows, err := r.pg.Query(ctx, q, dealerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Profile
	for rows.Next() {
		p, err := scanProfile(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *p)
	}
	return out, rows.Err()
}
