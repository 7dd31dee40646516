// Package repair restores missing dealer associations for authenticated
// identities. Best-effort by design: the steps are independent network calls
// with no transaction across them, and a concurrent repair for the same
// identity can still race (the lower(email) unique index narrows, but does
// not close, the duplicate-dealer window).
package repair

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/Ltancreti7/SwapRunn-Bolt/internal/auth"
	"github.com/Ltancreti7/SwapRunn-Bolt/internal/dealers"
	"github.com/Ltancreti7/SwapRunn-Bolt/internal/domain"
	"github.com/Ltancreti7/SwapRunn-Bolt/internal/profiles"
	"github.com/Ltancreti7/SwapRunn-Bolt/internal/session"
)

const (
	fallbackName  = "Dealer"
	fallbackStore = "Pending Dealership"
)

type AuthStore interface {
	UpdateUserMetadata(ctx context.Context, id uuid.UUID, meta auth.Metadata) error
}

type ProfileStore interface {
	FindByUserID(ctx context.Context, userID uuid.UUID) (*profiles.Profile, error)
	UpdateUserType(ctx context.Context, userID uuid.UUID, userType string) error
	AttachDealer(ctx context.Context, userID, dealerID uuid.UUID, userType string) error
	Upsert(ctx context.Context, p profiles.UpsertParams) (*profiles.Profile, error)
}

type DealerStore interface {
	Create(ctx context.Context, name, email, store string) (uuid.UUID, error)
	FindByEmail(ctx context.Context, email string) (*dealers.Dealer, error)
}

// Options lets callers supply registration-form values; absent fields fall
// back to literal placeholders.
type Options struct {
	CompanyName *string
	FullName    *string
	Phone       *string
}

// Result.OK is false only when every creation and lookup path was exhausted;
// hard backend failures surface as errors instead.
type Result struct {
	OK       bool
	DealerID *uuid.UUID
}

type Service struct {
	logger   *zap.Logger
	authSt   AuthStore
	profiles ProfileStore
	dealers  DealerStore
}

func NewService(logger *zap.Logger, authSt AuthStore, profileSt ProfileStore, dealerSt DealerStore) *Service {
	return &Service{logger: logger, authSt: authSt, profiles: profileSt, dealers: dealerSt}
}

// EnsureDealerProfile makes sure sess's profile exists, has user_type dealer,
// and points at a dealer row, creating one only after searching by email.
// Calling it twice for the same identity returns the same dealer id.
func (s *Service) EnsureDealerProfile(ctx context.Context, sess session.Context, opts Options) (Result, error) {
	if sess.UserID == uuid.Nil {
		return Result{}, domain.ErrUnauthenticated
	}

	// Best-effort: mark the auth identity as dealer. Non-fatal.
	dealerType := string(domain.UserTypeDealer)
	if err := s.authSt.UpdateUserMetadata(ctx, sess.UserID, auth.Metadata{UserType: &dealerType}); err != nil {
		s.logger.Warn("auth metadata update failed (continuing)", zap.Error(err))
	}

	profile, err := s.profiles.FindByUserID(ctx, sess.UserID)
	if err != nil {
		if errors.Is(err, profiles.ErrNotFound) {
			return s.bootstrapProfile(ctx, sess, opts)
		}
		return Result{}, err
	}

	if profile.UserType == nil || *profile.UserType != dealerType {
		if err := s.profiles.UpdateUserType(ctx, sess.UserID, dealerType); err != nil {
			return Result{}, err
		}
	}

	// Idempotent short-circuit: association already present.
	if profile.DealerID != nil {
		return Result{OK: true, DealerID: profile.DealerID}, nil
	}

	if existing, err := s.dealers.FindByEmail(ctx, sess.Email); err == nil && existing != nil {
		if err := s.profiles.AttachDealer(ctx, sess.UserID, existing.ID, dealerType); err != nil {
			return Result{}, err
		}
		return Result{OK: true, DealerID: &existing.ID}, nil
	}

	name, store := s.synthesize(opts, profile.FullName)
	dealerID, err := s.dealers.Create(ctx, name, sess.Email, store)
	if err != nil {
		s.logger.Warn("dealer create failed, repair exhausted", zap.Error(err))
		return Result{OK: false}, nil
	}
	if err := s.profiles.AttachDealer(ctx, sess.UserID, dealerID, dealerType); err != nil {
		return Result{}, err
	}
	return Result{OK: true, DealerID: &dealerID}, nil
}

// bootstrapProfile handles the profile-row-entirely-absent case: create (or
// adopt) a dealer row, then upsert a minimal dealer profile pointing at it.
func (s *Service) bootstrapProfile(ctx context.Context, sess session.Context, opts Options) (Result, error) {
	name, store := s.synthesize(opts, nil)
	dealerType := string(domain.UserTypeDealer)

	dealerID, err := s.dealers.Create(ctx, name, sess.Email, store)
	if err != nil {
		// Insert rejected; adopt an existing dealer matched by email
		// before giving up.
		existing, findErr := s.dealers.FindByEmail(ctx, sess.Email)
		if findErr != nil || existing == nil {
			s.logger.Warn("dealer bootstrap exhausted",
				zap.Error(err), zap.NamedError("find_error", findErr))
			return Result{OK: false}, nil
		}
		dealerID = existing.ID
	}

	if _, err := s.profiles.Upsert(ctx, profiles.UpsertParams{
		UserID:   sess.UserID,
		UserType: dealerType,
		DealerID: &dealerID,
		FullName: &name,
		Phone:    opts.Phone,
	}); err != nil {
		return Result{}, err
	}
	return Result{OK: true, DealerID: &dealerID}, nil
}

func (s *Service) synthesize(opts Options, profileName *string) (name, store string) {
	name = fallbackName
	if opts.FullName != nil && *opts.FullName != "" {
		name = *opts.FullName
	} else if profileName != nil && *profileName != "" {
		name = *profileName
	}

	store = fallbackStore
	if opts.CompanyName != nil && *opts.CompanyName != "" {
		store = *opts.CompanyName
	}
	return name, store
}
