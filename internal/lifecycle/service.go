// Package lifecycle drives job state transitions through assignment records:
// open -> assigned -> in_progress -> completed, linear, first writer wins.
package lifecycle

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/Ltancreti7/SwapRunn-Bolt/internal/assignments"
	"github.com/Ltancreti7/SwapRunn-Bolt/internal/domain"
	"github.com/Ltancreti7/SwapRunn-Bolt/internal/jobs"
	"github.com/Ltancreti7/SwapRunn-Bolt/internal/session"
)

type JobStore interface {
	FindByID(ctx context.Context, id uuid.UUID) (*jobs.Job, error)
	FindByTrackToken(ctx context.Context, token string) (*jobs.Job, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status string) error
	MarkAssigned(ctx context.Context, id, driverID uuid.UUID) error
}

type AssignmentStore interface {
	FindByJob(ctx context.Context, jobID uuid.UUID) (*assignments.Assignment, error)
	FindByID(ctx context.Context, id uuid.UUID) (*assignments.Assignment, error)
	Create(ctx context.Context, jobID, driverID uuid.UUID, acceptedAt time.Time) (*assignments.Assignment, error)
	SetStarted(ctx context.Context, id uuid.UUID, t time.Time) error
	SetCompleted(ctx context.Context, id uuid.UUID, t time.Time) error
}

type Service struct {
	logger      *zap.Logger
	jobs        JobStore
	assignments AssignmentStore
	now         func() time.Time
}

func NewService(logger *zap.Logger, jobStore JobStore, assignmentStore AssignmentStore) *Service {
	return &Service{
		logger:      logger,
		jobs:        jobStore,
		assignments: assignmentStore,
		now:         time.Now,
	}
}

// AcceptJob binds the acting driver to an open job. Accepting a job you
// already hold is an idempotent success; losing the insert race maps to
// ErrJobAlreadyTaken, not a generic database error.
func (s *Service) AcceptJob(ctx context.Context, sess session.Context, jobID uuid.UUID, driverID *uuid.UUID) (*jobs.Job, error) {
	activeDriver := sess.UserID
	if driverID != nil {
		activeDriver = *driverID
	}
	if activeDriver == uuid.Nil {
		return nil, domain.ErrUnauthenticated
	}

	existing, err := s.assignments.FindByJob(ctx, jobID)
	if err != nil && !errors.Is(err, assignments.ErrNotFound) {
		return nil, err
	}
	if existing != nil {
		if existing.DriverID != activeDriver {
			return nil, domain.ErrJobAlreadyTaken
		}
		return s.jobs.FindByID(ctx, jobID)
	}

	if _, err := s.assignments.Create(ctx, jobID, activeDriver, s.now()); err != nil {
		if errors.Is(err, assignments.ErrAlreadyAssigned) {
			return nil, domain.ErrJobAlreadyTaken
		}
		return nil, err
	}

	if err := s.jobs.MarkAssigned(ctx, jobID, activeDriver); err != nil {
		// Assignment row exists but the job status write failed; the
		// inconsistency window is acknowledged, no rollback.
		return nil, err
	}

	return s.jobs.FindByID(ctx, jobID)
}

// ClockIn stamps the assignment start and flips the job to in_progress as
// two dependent writes.
func (s *Service) ClockIn(ctx context.Context, jobID, assignmentID uuid.UUID) (*jobs.Job, error) {
	if err := s.assignments.SetStarted(ctx, assignmentID, s.now()); err != nil {
		return nil, err
	}
	if err := s.jobs.UpdateStatus(ctx, jobID, string(domain.JobStatusInProgress)); err != nil {
		return nil, err
	}
	return s.jobs.FindByID(ctx, jobID)
}

func (s *Service) ClockOut(ctx context.Context, jobID, assignmentID uuid.UUID) (*jobs.Job, error) {
	if err := s.assignments.SetCompleted(ctx, assignmentID, s.now()); err != nil {
		return nil, err
	}
	if err := s.jobs.UpdateStatus(ctx, jobID, string(domain.JobStatusCompleted)); err != nil {
		return nil, err
	}
	return s.jobs.FindByID(ctx, jobID)
}

// TrackingView is everything the public tracking page may see. Customer and
// vehicle identifying fields are present but always null so the response
// shape stays stable without leaking PII.
type TrackingView struct {
	ID              uuid.UUID `json:"id"`
	Type            string    `json:"type"`
	Status          string    `json:"status"`
	CreatedAt       time.Time `json:"created_at"`
	PickupAddress   string    `json:"pickup_address"`
	DeliveryAddress string    `json:"delivery_address"`
	TrackToken      string    `json:"track_token"`

	CustomerName  *string    `json:"customer_name"`
	CustomerPhone *string    `json:"customer_phone"`
	VIN           *string    `json:"vin"`
	Notes         *string    `json:"notes"`
	DriverID      *uuid.UUID `json:"driver_id"`
}

// JobByTrackingToken returns the restricted projection regardless of what
// the backend row contains.
func (s *Service) JobByTrackingToken(ctx context.Context, token string) (*TrackingView, error) {
	job, err := s.jobs.FindByTrackToken(ctx, token)
	if err != nil {
		return nil, err
	}
	return &TrackingView{
		ID:              job.ID,
		Type:            job.Type,
		Status:          job.Status,
		CreatedAt:       job.CreatedAt,
		PickupAddress:   job.PickupAddress,
		DeliveryAddress: job.DeliveryAddress,
		TrackToken:      job.TrackToken,
	}, nil
}
