package lifecycle

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/Ltancreti7/SwapRunn-Bolt/internal/assignments"
	"github.com/Ltancreti7/SwapRunn-Bolt/internal/domain"
	"github.com/Ltancreti7/SwapRunn-Bolt/internal/jobs"
	"github.com/Ltancreti7/SwapRunn-Bolt/internal/session"
)

type memJobs struct {
	byID map[uuid.UUID]*jobs.Job
}

func newMemJobs() *memJobs { return &memJobs{byID: make(map[uuid.UUID]*jobs.Job)} }

func (m *memJobs) add(j *jobs.Job) { m.byID[j.ID] = j }

func (m *memJobs) FindByID(_ context.Context, id uuid.UUID) (*jobs.Job, error) {
	j, ok := m.byID[id]
	if !ok {
		return nil, jobs.ErrNotFound
	}
	cp := *j
	return &cp, nil
}

func (m *memJobs) FindByTrackToken(_ context.Context, token string) (*jobs.Job, error) {
	for _, j := range m.byID {
		if j.TrackToken == token {
			cp := *j
			return &cp, nil
		}
	}
	return nil, jobs.ErrNotFound
}

func (m *memJobs) UpdateStatus(_ context.Context, id uuid.UUID, status string) error {
	j, ok := m.byID[id]
	if !ok {
		return jobs.ErrNotFound
	}
	j.Status = status
	return nil
}

func (m *memJobs) MarkAssigned(_ context.Context, id, driverID uuid.UUID) error {
	j, ok := m.byID[id]
	if !ok {
		return jobs.ErrNotFound
	}
	j.Status = string(domain.JobStatusAssigned)
	d := driverID
	j.AssignedDriver = &d
	return nil
}

// memAssignments enforces the one-assignment-per-job constraint the unique
// index provides in Postgres.
type memAssignments struct {
	byJob map[uuid.UUID]*assignments.Assignment
}

func newMemAssignments() *memAssignments {
	return &memAssignments{byJob: make(map[uuid.UUID]*assignments.Assignment)}
}

func (m *memAssignments) FindByJob(_ context.Context, jobID uuid.UUID) (*assignments.Assignment, error) {
	a, ok := m.byJob[jobID]
	if !ok {
		return nil, assignments.ErrNotFound
	}
	cp := *a
	return &cp, nil
}

func (m *memAssignments) FindByID(_ context.Context, id uuid.UUID) (*assignments.Assignment, error) {
	for _, a := range m.byJob {
		if a.ID == id {
			cp := *a
			return &cp, nil
		}
	}
	return nil, assignments.ErrNotFound
}

func (m *memAssignments) Create(_ context.Context, jobID, driverID uuid.UUID, acceptedAt time.Time) (*assignments.Assignment, error) {
	if _, exists := m.byJob[jobID]; exists {
		return nil, assignments.ErrAlreadyAssigned
	}
	a := &assignments.Assignment{ID: uuid.New(), JobID: jobID, DriverID: driverID, AcceptedAt: acceptedAt}
	m.byJob[jobID] = a
	cp := *a
	return &cp, nil
}

func (m *memAssignments) SetStarted(_ context.Context, id uuid.UUID, ts time.Time) error {
	for _, a := range m.byJob {
		if a.ID == id {
			a.StartedAt = &ts
			return nil
		}
	}
	return assignments.ErrNotFound
}

func (m *memAssignments) SetCompleted(_ context.Context, id uuid.UUID, ts time.Time) error {
	for _, a := range m.byJob {
		if a.ID == id {
			a.CompletedAt = &ts
			return nil
		}
	}
	return assignments.ErrNotFound
}

func openJob() *jobs.Job {
	name := "Jane Customer"
	phone := "5551234567"
	vin := "1HGCM82633A004352"
	notes := "gate code 4411"
	return &jobs.Job{
		ID:              uuid.New(),
		DealerID:        uuid.New(),
		Type:            "delivery",
		Status:          string(domain.JobStatusOpen),
		PickupAddress:   "1 Main St",
		DeliveryAddress: "2 Oak Ave",
		CustomerName:    &name,
		CustomerPhone:   &phone,
		VIN:             &vin,
		Notes:           &notes,
		TrackToken:      "AB12CD34",
		CreatedAt:       time.Now(),
	}
}

func driverSession(id uuid.UUID) session.Context {
	return session.Context{UserID: id, UserType: domain.UserTypeDriver}
}

func TestAcceptJobFirstWriterWins(t *testing.T) {
	js := newMemJobs()
	as := newMemAssignments()
	job := openJob()
	js.add(job)
	s := NewService(zap.NewNop(), js, as)

	winner := uuid.New()
	loser := uuid.New()

	got, err := s.AcceptJob(context.Background(), driverSession(winner), job.ID, nil)
	if err != nil {
		t.Fatalf("winner accept failed: %v", err)
	}
	if got.Status != string(domain.JobStatusAssigned) {
		t.Fatalf("expected assigned status, got %s", got.Status)
	}
	if got.AssignedDriver == nil || *got.AssignedDriver != winner {
		t.Fatal("expected winner recorded on the job")
	}

	_, err = s.AcceptJob(context.Background(), driverSession(loser), job.ID, nil)
	if !errors.Is(err, domain.ErrJobAlreadyTaken) {
		t.Fatalf("expected ErrJobAlreadyTaken, got %v", err)
	}

	// Binding unchanged after the losing attempt.
	a, err := as.FindByJob(context.Background(), job.ID)
	if err != nil {
		t.Fatalf("assignment lookup: %v", err)
	}
	if a.DriverID != winner {
		t.Fatalf("binding changed: expected %s, got %s", winner, a.DriverID)
	}
}

func TestAcceptJobIdempotentForSameDriver(t *testing.T) {
	js := newMemJobs()
	as := newMemAssignments()
	job := openJob()
	js.add(job)
	s := NewService(zap.NewNop(), js, as)

	driver := uuid.New()
	if _, err := s.AcceptJob(context.Background(), driverSession(driver), job.ID, nil); err != nil {
		t.Fatalf("first accept: %v", err)
	}
	got, err := s.AcceptJob(context.Background(), driverSession(driver), job.ID, nil)
	if err != nil {
		t.Fatalf("repeat accept should be idempotent, got %v", err)
	}
	if got.AssignedDriver == nil || *got.AssignedDriver != driver {
		t.Fatal("expected same driver bound")
	}
}

func TestAcceptJobExplicitDriverOverridesSession(t *testing.T) {
	js := newMemJobs()
	as := newMemAssignments()
	job := openJob()
	js.add(job)
	s := NewService(zap.NewNop(), js, as)

	actual := uuid.New()
	got, err := s.AcceptJob(context.Background(), driverSession(uuid.New()), job.ID, &actual)
	if err != nil {
		t.Fatalf("accept failed: %v", err)
	}
	if *got.AssignedDriver != actual {
		t.Fatal("explicit driver id should win over the session identity")
	}
}

func TestClockInClockOutAdvanceStatus(t *testing.T) {
	js := newMemJobs()
	as := newMemAssignments()
	job := openJob()
	js.add(job)
	s := NewService(zap.NewNop(), js, as)

	driver := uuid.New()
	if _, err := s.AcceptJob(context.Background(), driverSession(driver), job.ID, nil); err != nil {
		t.Fatalf("accept: %v", err)
	}
	a, _ := as.FindByJob(context.Background(), job.ID)

	got, err := s.ClockIn(context.Background(), job.ID, a.ID)
	if err != nil {
		t.Fatalf("clock in: %v", err)
	}
	if got.Status != string(domain.JobStatusInProgress) {
		t.Fatalf("expected in_progress, got %s", got.Status)
	}

	got, err = s.ClockOut(context.Background(), job.ID, a.ID)
	if err != nil {
		t.Fatalf("clock out: %v", err)
	}
	if got.Status != string(domain.JobStatusCompleted) {
		t.Fatalf("expected completed, got %s", got.Status)
	}

	a, _ = as.FindByJob(context.Background(), job.ID)
	if a.StartedAt == nil || a.CompletedAt == nil {
		t.Fatal("expected both timestamps stamped")
	}
}

func TestTrackingViewNeverCarriesPII(t *testing.T) {
	js := newMemJobs()
	as := newMemAssignments()
	job := openJob()
	js.add(job)
	s := NewService(zap.NewNop(), js, as)

	view, err := s.JobByTrackingToken(context.Background(), job.TrackToken)
	if err != nil {
		t.Fatalf("tracking lookup: %v", err)
	}

	if view.CustomerName != nil || view.CustomerPhone != nil || view.VIN != nil || view.Notes != nil || view.DriverID != nil {
		t.Fatal("tracking view must null customer, vehicle and driver fields")
	}
	if view.ID != job.ID || view.TrackToken != job.TrackToken {
		t.Fatal("tracking view should keep job identity fields")
	}
	if view.PickupAddress != job.PickupAddress || view.DeliveryAddress != job.DeliveryAddress {
		t.Fatal("tracking view should keep the route")
	}
}

func TestTrackingUnknownToken(t *testing.T) {
	s := NewService(zap.NewNop(), newMemJobs(), newMemAssignments())
	_, err := s.JobByTrackingToken(context.Background(), "NOPE0000")
	if !errors.Is(err, jobs.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}
