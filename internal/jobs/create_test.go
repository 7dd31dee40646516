package jobs

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/Ltancreti7/SwapRunn-Bolt/internal/auth"
	"github.com/Ltancreti7/SwapRunn-Bolt/internal/dealers"
	"github.com/Ltancreti7/SwapRunn-Bolt/internal/domain"
	"github.com/Ltancreti7/SwapRunn-Bolt/internal/profiles"
	"github.com/Ltancreti7/SwapRunn-Bolt/internal/repair"
	"github.com/Ltancreti7/SwapRunn-Bolt/internal/session"
)

type fakeRepairer struct {
	called int
	err    error
}

func (f *fakeRepairer) EnsureDealerProfile(_ context.Context, _ session.Context, _ repair.Options) (repair.Result, error) {
	f.called++
	return repair.Result{OK: true}, f.err
}

type fakeProfiles struct {
	profile *profiles.Profile
	err     error
}

func (f *fakeProfiles) CallerProfile(_ context.Context, _ uuid.UUID) (*profiles.Profile, error) {
	return f.profile, f.err
}

type fakeAPI struct {
	calls    []Payload
	errs     []error
	returned *Job
}

func (f *fakeAPI) CreateJob(_ context.Context, _ string, payload Payload) (*Job, error) {
	f.calls = append(f.calls, payload)
	if len(f.errs) >= len(f.calls) {
		if err := f.errs[len(f.calls)-1]; err != nil {
			return nil, err
		}
	}
	return f.returned, nil
}

func strPtr(s string) *string { return &s }
func intPtr(n int) *int       { return &n }

func dealerProfile() *profiles.Profile {
	dealerID := uuid.New()
	userType := "dealer"
	return &profiles.Profile{UserID: uuid.New(), UserType: &userType, DealerID: &dealerID}
}

func testSession() session.Context {
	return session.Context{
		UserID:   uuid.New(),
		Email:    "dealer@example.com",
		UserType: domain.UserTypeDealer,
		Token:    "tok",
	}
}

func newTestCreator(rep *fakeRepairer, prof *fakeProfiles, api *fakeAPI) *Creator {
	return NewCreator(zap.NewNop(), rep, prof, api)
}

// sharedProfileStore backs both the creation workflow's profile lookup and
// the repair service's profile mutations, so conversions become visible to
// the role check that follows.
type sharedProfileStore struct {
	profile *profiles.Profile
}

func (s *sharedProfileStore) CallerProfile(_ context.Context, _ uuid.UUID) (*profiles.Profile, error) {
	return s.profile, nil
}

func (s *sharedProfileStore) FindByUserID(_ context.Context, _ uuid.UUID) (*profiles.Profile, error) {
	if s.profile == nil {
		return nil, profiles.ErrNotFound
	}
	return s.profile, nil
}

func (s *sharedProfileStore) UpdateUserType(_ context.Context, _ uuid.UUID, userType string) error {
	s.profile.UserType = &userType
	return nil
}

func (s *sharedProfileStore) AttachDealer(_ context.Context, _, dealerID uuid.UUID, userType string) error {
	s.profile.DealerID = &dealerID
	s.profile.UserType = &userType
	return nil
}

func (s *sharedProfileStore) Upsert(_ context.Context, p profiles.UpsertParams) (*profiles.Profile, error) {
	s.profile = &profiles.Profile{UserID: p.UserID, UserType: &p.UserType, DealerID: p.DealerID}
	return s.profile, nil
}

type noopAuthStore struct{}

func (noopAuthStore) UpdateUserMetadata(_ context.Context, _ uuid.UUID, _ auth.Metadata) error {
	return nil
}

type stubDealerStore struct{}

func (stubDealerStore) Create(_ context.Context, _, _, _ string) (uuid.UUID, error) {
	return uuid.New(), nil
}

func (stubDealerStore) FindByEmail(_ context.Context, _ string) (*dealers.Dealer, error) {
	return nil, errors.New("no dealer")
}

func TestCreateDriverSessionNeverRepaired(t *testing.T) {
	userID := uuid.New()
	userType := "driver"
	store := &sharedProfileStore{profile: &profiles.Profile{UserID: userID, UserType: &userType}}
	repairSvc := repair.NewService(zap.NewNop(), noopAuthStore{}, store, stubDealerStore{})
	api := &fakeAPI{}
	c := NewCreator(zap.NewNop(), repairSvc, store, api)

	sess := session.Context{
		UserID:   userID,
		Email:    "driver@example.com",
		UserType: domain.UserTypeDriver,
		Token:    "tok",
	}
	_, err := c.Create(context.Background(), sess, Params{
		Type: "delivery", PickupAddress: "a", DeliveryAddress: "b",
	})
	if !errors.Is(err, domain.ErrPermissionDenied) {
		t.Fatalf("expected ErrPermissionDenied, got %v", err)
	}
	if len(api.calls) != 0 {
		t.Fatalf("expected no API calls, got %d", len(api.calls))
	}
	if store.profile.UserType == nil || *store.profile.UserType != "driver" {
		t.Fatalf("driver role must survive job creation, got %v", store.profile.UserType)
	}
}

func TestCreateRejectsDriverRole(t *testing.T) {
	userType := "driver"
	prof := &fakeProfiles{profile: &profiles.Profile{UserType: &userType}}
	api := &fakeAPI{}
	c := newTestCreator(&fakeRepairer{}, prof, api)

	_, err := c.Create(context.Background(), testSession(), Params{Type: "delivery"})
	if !errors.Is(err, domain.ErrPermissionDenied) {
		t.Fatalf("expected ErrPermissionDenied, got %v", err)
	}
	if len(api.calls) != 0 {
		t.Fatalf("expected no API calls, got %d", len(api.calls))
	}
}

func TestCreateRequiresSessionAndToken(t *testing.T) {
	c := newTestCreator(&fakeRepairer{}, &fakeProfiles{}, &fakeAPI{})

	if _, err := c.Create(context.Background(), session.Context{}, Params{}); !errors.Is(err, domain.ErrUnauthenticated) {
		t.Fatalf("expected ErrUnauthenticated, got %v", err)
	}
	if _, err := c.Create(context.Background(), session.Context{UserID: uuid.New()}, Params{}); !errors.Is(err, domain.ErrSessionTokenMissing) {
		t.Fatalf("expected ErrSessionTokenMissing, got %v", err)
	}
}

func TestCreateRequiresDealerAssociation(t *testing.T) {
	userType := "dealer"
	prof := &fakeProfiles{profile: &profiles.Profile{UserType: &userType}}
	c := newTestCreator(&fakeRepairer{}, prof, &fakeAPI{})

	_, err := c.Create(context.Background(), testSession(), Params{Type: "delivery"})
	if !errors.Is(err, domain.ErrDealerAssociationMissing) {
		t.Fatalf("expected ErrDealerAssociationMissing, got %v", err)
	}
}

func TestCreateRepairFailureIsNonFatal(t *testing.T) {
	rep := &fakeRepairer{err: errors.New("repair broke")}
	api := &fakeAPI{returned: &Job{ID: uuid.New()}}
	c := newTestCreator(rep, &fakeProfiles{profile: dealerProfile()}, api)

	if _, err := c.Create(context.Background(), testSession(), Params{Type: "delivery"}); err != nil {
		t.Fatalf("expected success despite repair failure, got %v", err)
	}
	if rep.called != 1 {
		t.Fatalf("expected repair to be attempted once, got %d", rep.called)
	}
}

func TestCreateTradeDriftRetriesOnceWithFoldedNotes(t *testing.T) {
	driftErr := &APIError{
		StatusCode: 400,
		Message:    `column "trade_year" of relation "jobs" does not exist`,
	}
	api := &fakeAPI{errs: []error{driftErr, nil}, returned: &Job{ID: uuid.New()}}
	c := newTestCreator(&fakeRepairer{}, &fakeProfiles{profile: dealerProfile()}, api)

	params := Params{
		Type:            "swap",
		PickupAddress:   "1 Main St",
		DeliveryAddress: "2 Oak Ave",
		Notes:           strPtr("  handle with care  "),
		TradeYear:       intPtr(2019),
		TradeMake:       strPtr("Honda"),
		TradeModel:      strPtr("Civic"),
	}

	job, err := c.Create(context.Background(), testSession(), params)
	if err != nil {
		t.Fatalf("expected fallback success, got %v", err)
	}
	if job == nil {
		t.Fatal("expected a job back")
	}
	if len(api.calls) != 2 {
		t.Fatalf("expected exactly 2 submissions, got %d", len(api.calls))
	}

	first := api.calls[0]
	if first.TradeYear == nil || *first.TradeYear != 2019 {
		t.Fatal("first attempt should carry discrete trade fields")
	}

	second := api.calls[1]
	if second.TradeYear != nil || second.TradeMake != nil || second.TradeModel != nil {
		t.Fatal("fallback attempt should null the trade columns")
	}
	if second.Notes == nil {
		t.Fatal("fallback attempt should carry folded notes")
	}
	want := "handle with care\n\n[Trade Vehicle]\nYear: 2019 | Make: Honda | Model: Civic"
	if *second.Notes != want {
		t.Fatalf("folded notes mismatch:\nwant %q\ngot  %q", want, *second.Notes)
	}
}

func TestCreateNoTradeFieldsNoFallback(t *testing.T) {
	driftErr := &APIError{Message: `column "trade_year" of relation "jobs" does not exist`}
	api := &fakeAPI{errs: []error{driftErr}}
	c := newTestCreator(&fakeRepairer{}, &fakeProfiles{profile: dealerProfile()}, api)

	_, err := c.Create(context.Background(), testSession(), Params{Type: "delivery", PickupAddress: "a", DeliveryAddress: "b"})
	if err == nil {
		t.Fatal("expected the original error to propagate")
	}
	if len(api.calls) != 1 {
		t.Fatalf("expected a single submission, got %d", len(api.calls))
	}
}

func TestCreateUnrelatedErrorNoFallback(t *testing.T) {
	api := &fakeAPI{errs: []error{&APIError{Message: "dealer not found"}}}
	c := newTestCreator(&fakeRepairer{}, &fakeProfiles{profile: dealerProfile()}, api)

	_, err := c.Create(context.Background(), testSession(), Params{
		Type: "delivery", PickupAddress: "a", DeliveryAddress: "b",
		TradeYear: intPtr(2020),
	})
	if err == nil {
		t.Fatal("expected error to propagate")
	}
	var apiErr *APIError
	if !errors.As(err, &apiErr) || apiErr.Message != "dealer not found" {
		t.Fatalf("expected original API error, got %v", err)
	}
	if len(api.calls) != 1 {
		t.Fatalf("expected a single submission, got %d", len(api.calls))
	}
}

func TestCreateEmptyTradeStringsAreAbsent(t *testing.T) {
	api := &fakeAPI{returned: &Job{ID: uuid.New()}}
	c := newTestCreator(&fakeRepairer{}, &fakeProfiles{profile: dealerProfile()}, api)

	_, err := c.Create(context.Background(), testSession(), Params{
		Type: "delivery", PickupAddress: "a", DeliveryAddress: "b",
		TradeMake: strPtr(""),
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if api.calls[0].TradeMake != nil && *api.calls[0].TradeMake != "" {
		t.Fatal("empty trade strings must not count as trade data")
	}
}

func TestCreateDefaultsDistance(t *testing.T) {
	api := &fakeAPI{returned: &Job{}}
	c := newTestCreator(&fakeRepairer{}, &fakeProfiles{profile: dealerProfile()}, api)

	if _, err := c.Create(context.Background(), testSession(), Params{Type: "delivery", PickupAddress: "a", DeliveryAddress: "b"}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if api.calls[0].DistanceMiles != 25 {
		t.Fatalf("expected default distance 25, got %d", api.calls[0].DistanceMiles)
	}
}
