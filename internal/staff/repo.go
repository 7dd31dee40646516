package staff

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

var ErrNotFound = errors.New("staff record not found")

// Member is a user's role inside one dealership.
type Member struct {
	ID        uuid.UUID  `json:"id"`
	UserID    uuid.UUID  `json:"user_id"`
	DealerID  uuid.UUID  `json:"dealer_id"`
	Role      string     `json:"role"`
	InvitedBy *uuid.UUID `json:"invited_by"`
	JoinedAt  time.Time  `json:"joined_at"`
	IsActive  bool       `json:"is_active"`
}

type Repo struct {
	pg *pgxpool.Pool
}

func NewRepo(pg *pgxpool.Pool) *Repo {
	return &Repo{pg: pg}
}

type UpsertParams struct {
	UserID    uuid.UUID
	DealerID  uuid.UUID
	Role      string
	InvitedBy *uuid.UUID
}

// Upsert creates or refreshes the membership keyed by (user_id, dealer_id).
func (r *Repo) Upsert(ctx context.Context, p UpsertParams) (*Member, error) {
	const q = `
INSERT INTO staff (user_id, dealer_id, role, invited_by, joined_at, is_active)
VALUES ($1, $2, $3, $4, now(), true)
ON CONFLICT (user_id, dealer_id) DO UPDATE
SET role = EXCLUDED.role,
    invited_by = COALESCE(EXCLUDED.invited_by, staff.invited_by),
    is_active = true
RETURNING id, user_id, dealer_id, role, invited_by, joined_at, is_active`

	var m Member
	err := r.pg.QueryRow(ctx, q, p.UserID, p.DealerID, p.Role, p.InvitedBy).
		Scan(&m.ID, &m.UserID, &m.DealerID, &m.Role, &m.InvitedBy, &m.JoinedAt, &m.IsActive)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &m, nil
}
