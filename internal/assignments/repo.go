package assignments

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

var (
	ErrNotFound = errors.New("assignment not found")
	// ErrAlreadyAssigned maps the unique-constraint loss of an acceptance
	// race; one assignment per job is authoritative.
	ErrAlreadyAssigned = errors.New("job already has an assignment")
)

// Assignment links a job to the driver who accepted it. History is immutable
// apart from the clock-in/clock-out timestamps.
type Assignment struct {
	ID          uuid.UUID  `json:"id"`
	JobID       uuid.UUID  `json:"job_id"`
	DriverID    uuid.UUID  `json:"driver_id"`
	AcceptedAt  time.Time  `json:"accepted_at"`
	StartedAt   *time.Time `json:"started_at"`
	CompletedAt *time.Time `json:"completed_at"`
}

type Repo struct {
	pg *pgxpool.Pool
}

func NewRepo(pg *pgxpool.Pool) *Repo {
	return &Repo{pg: pg}
}

const assignmentColumns = `id, job_id, driver_id, accepted_at, started_at, completed_at`

func scanAssignment(row pgx.Row) (*Assignment, error) {
	var a Assignment
	err := row.Scan(&a.ID, &a.JobID, &a.DriverID, &a.AcceptedAt, &a.StartedAt, &a.CompletedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &a, nil
}

func (r *Repo) FindByJob(ctx context.Context, jobID uuid.UUID) (*Assignment, error) {
	const q = `SELECT ` + assignmentColumns + ` FROM assignments WHERE job_id = $1 LIMIT 1`
	return scanAssignment(r.pg.QueryRow(ctx, q, jobID))
}

func (r *Repo) FindByID(ctx context.Context, id uuid.UUID) (*Assignment, error) {
	const q = `SELECT ` + assignmentColumns + ` FROM assignments WHERE id = $1 LIMIT 1`
	return scanAssignment(r.pg.QueryRow(ctx, q, id))
}

// Create inserts the acceptance record. The unique index on job_id makes the
// first writer win; losers get ErrAlreadyAssigned instead of a raw 23505.
func (r *Repo) Create(ctx context.Context, jobID, driverID uuid.UUID, acceptedAt time.Time) (*Assignment, error) {
	const q = `
INSERT INTO assignments (job_id, driver_id, accepted_at)
VALUES ($1, $2, $3)
RETURNING ` + assignmentColumns

	a, err := scanAssignment(r.pg.QueryRow(ctx, q, jobID, driverID, acceptedAt))
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return nil, ErrAlreadyAssigned
		}
		return nil, err
	}
	return a, nil
}

func (r *Repo) SetStarted(ctx context.Context, id uuid.UUID, t time.Time) error {
	const q = `UPDATE assignments SET started_at = $2 WHERE id = $1`
	_, err := r.pg.Exec(ctx, q, id, t)
	return err
}

func (r *Repo) SetCompleted(ctx context.Context, id uuid.UUID, t time.Time) error {
	const q = `UPDATE assignments SET completed_at = $2 WHERE id = $1`
	_, err := r.pg.Exec(ctx, q, id, t)
	return err
}
