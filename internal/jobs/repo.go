package jobs

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

var ErrNotFound = errors.New("job not found")

type Repo struct {
	pg *pgxpool.Pool
}

func NewRepo(pg *pgxpool.Pool) *Repo {
	return &Repo{pg: pg}
}

const jobColumns = `
  id, dealer_id, created_by, type, status, pickup_address, delivery_address,
  customer_name, customer_phone, timeframe, notes, vin, year, make, model,
  requires_two, distance_miles, trade_year, trade_make, trade_model, trade_vin,
  trade_transmission, track_token, assigned_driver, created_at`

func scanJob(row pgx.Row) (*Job, error) {
	var j Job
	err := row.Scan(
		&j.ID, &j.DealerID, &j.CreatedBy, &j.Type, &j.Status, &j.PickupAddress, &j.DeliveryAddress,
		&j.CustomerName, &j.CustomerPhone, &j.Timeframe, &j.Notes, &j.VIN, &j.Year, &j.Make, &j.Model,
		&j.RequiresTwo, &j.DistanceMiles, &j.TradeYear, &j.TradeMake, &j.TradeModel, &j.TradeVIN,
		&j.TradeTransmission, &j.TrackToken, &j.AssignedDriver, &j.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &j, nil
}

type InsertParams struct {
	DealerID        uuid.UUID
	CreatedBy       uuid.UUID
	Type            string
	PickupAddress   string
	DeliveryAddress string
	CustomerName    *string
	CustomerPhone   *string
	Timeframe       *string
	Notes           *string
	VIN             *string
	Year            *int
	Make            *string
	Model           *string
	RequiresTwo     bool
	DistanceMiles   int

	TradeYear         *int
	TradeMake         *string
	TradeModel        *string
	TradeVIN          *string
	TradeTransmission *string

	TrackToken string
}

// HasTradeFields reports whether any trade-in value is set; empty strings
// do not count.
func (p InsertParams) HasTradeFields() bool {
	if p.TradeYear != nil {
		return true
	}
	for _, v := range []*string{p.TradeMake, p.TradeModel, p.TradeVIN, p.TradeTransmission} {
		if v != nil && *v != "" {
			return true
		}
	}
	return false
}

// Insert always names the trade columns. On deployments that never ran the
// trade-in migration Postgres rejects the statement with SQLSTATE 42703 and
// a message like `column "trade_year" of relation "jobs" does not exist`;
// that exact text travels up to the creation workflow's fallback heuristic.
func (r *Repo) Insert(ctx context.Context, p InsertParams) (*Job, error) {
	const q = `
INSERT INTO jobs (
  dealer_id, created_by, type, status, pickup_address, delivery_address,
  customer_name, customer_phone, timeframe, notes, vin, year, make, model,
  requires_two, distance_miles, trade_year, trade_make, trade_model, trade_vin,
  trade_transmission, track_token, created_at
)
VALUES ($1, $2, $3, 'open', $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19, $20, $21, now())
RETURNING` + jobColumns

	j, err := scanJob(r.pg.QueryRow(ctx, q,
		p.DealerID, p.CreatedBy, p.Type, p.PickupAddress, p.DeliveryAddress,
		p.CustomerName, p.CustomerPhone, p.Timeframe, p.Notes, p.VIN, p.Year, p.Make, p.Model,
		p.RequiresTwo, p.DistanceMiles, p.TradeYear, p.TradeMake, p.TradeModel, p.TradeVIN,
		p.TradeTransmission, p.TrackToken,
	))
	if err != nil {
		return nil, err
	}
	return j, nil
}

// InsertWithoutTradeColumns is the degraded insert used once a deployment is
// known to lack the trade-in migration.
func (r *Repo) InsertWithoutTradeColumns(ctx context.Context, p InsertParams) (*Job, error) {
	const q = `
INSERT INTO jobs (
  dealer_id, created_by, type, status, pickup_address, delivery_address,
  customer_name, customer_phone, timeframe, notes, vin, year, make, model,
  requires_two, distance_miles, track_token, created_at
)
VALUES ($1, $2, $3, 'open', $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, now())
RETURNING
  id, dealer_id, created_by, type, status, pickup_address, delivery_address,
  customer_name, customer_phone, timeframe, notes, vin, year, make, model,
  requires_two, distance_miles, NULL::int, NULL::text, NULL::text, NULL::text,
  NULL::text, track_token, assigned_driver, created_at`

	return scanJob(r.pg.QueryRow(ctx, q,
		p.DealerID, p.CreatedBy, p.Type, p.PickupAddress, p.DeliveryAddress,
		p.CustomerName, p.CustomerPhone, p.Timeframe, p.Notes, p.VIN, p.Year, p.Make, p.Model,
		p.RequiresTwo, p.DistanceMiles, p.TrackToken,
	))
}

// IsUndefinedColumn reports whether err is Postgres undefined_column.
func IsUndefinedColumn(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "42703"
}

func (r *Repo) FindByID(ctx context.Context, id uuid.UUID) (*Job, error) {
	const q = `SELECT` + jobColumns + ` FROM jobs WHERE id = $1 LIMIT 1`
	return scanJob(r.pg.QueryRow(ctx, q, id))
}

func (r *Repo) FindByTrackToken(ctx context.Context, token string) (*Job, error) {
	const q = `SELECT` + jobColumns + ` FROM jobs WHERE track_token = $1 LIMIT 1`
	return scanJob(r.pg.QueryRow(ctx, q, token))
}

func (r *Repo) UpdateStatus(ctx context.Context, id uuid.UUID, status string) error {
	const q = `UPDATE jobs SET status = $2 WHERE id = $1`
	_, err := r.pg.Exec(ctx, q, id, status)
	return err
}

// MarkAssigned records the winning driver alongside the status flip.
func (r *Repo) MarkAssigned(ctx context.Context, id, driverID uuid.UUID) error {
	const q = `UPDATE jobs SET status = 'assigned', assigned_driver = $2 WHERE id = $1`
	_, err := r.pg.Exec(ctx, q, id, driverID)
	return err
}

// OpenJobView is the restricted listing drivers browse; no customer fields.
type OpenJobView struct {
	ID              uuid.UUID `json:"id"`
	Type            string    `json:"type"`
	Status          string    `json:"status"`
	PickupAddress   string    `json:"pickup_address"`
	DeliveryAddress string    `json:"delivery_address"`
	DistanceMiles   int       `json:"distance_miles"`
	DealerName      *string   `json:"dealer_name"`
	DealerStore     *string   `json:"dealer_store"`
	CreatedAt       string    `json:"created_at"`
}

func (r *Repo) OpenJobsForDrivers(ctx context.Context) ([]OpenJobView, error) {
	const q = `
SELECT j.id, j.type, j.status, j.pickup_address, j.delivery_address, j.distance_miles,
       d.name, d.store, to_char(j.created_at, 'YYYY-MM-DD"T"HH24:MI:SSOF')
FROM jobs j
JOIN dealers d ON d.id = j.dealer_id
WHERE j.status = 'open'
ORDER BY j.created_at DESC`

	rows, err := r.pg.Query(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []OpenJobView
	for rows.Next() {
		var v OpenJobView
		if err := rows.Scan(&v.ID, &v.Type, &v.Status, &v.PickupAddress, &v.DeliveryAddress,
			&v.DistanceMiles, &v.DealerName, &v.DealerStore, &v.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, rows.Err()
}
