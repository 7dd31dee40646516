// Package registration runs the multi-step dealership onboarding flow:
// account creation, waiting out the signup trigger, dealer record
// completion, billing setup and the owner staff record. Steps after the
// dealer record is patched are best-effort.
package registration

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/Ltancreti7/SwapRunn-Bolt/internal/audit"
	"github.com/Ltancreti7/SwapRunn-Bolt/internal/auth"
	"github.com/Ltancreti7/SwapRunn-Bolt/internal/dealers"
	"github.com/Ltancreti7/SwapRunn-Bolt/internal/domain"
	"github.com/Ltancreti7/SwapRunn-Bolt/internal/profiles"
	"github.com/Ltancreti7/SwapRunn-Bolt/internal/retry"
	"github.com/Ltancreti7/SwapRunn-Bolt/internal/security"
	"github.com/Ltancreti7/SwapRunn-Bolt/internal/staff"
)

type AuthBackend interface {
	SignUp(ctx context.Context, email, password string, meta auth.Metadata) (auth.SignUpResult, error)
}

type ProfileStore interface {
	DealerIDByUserID(ctx context.Context, userID uuid.UUID) (*uuid.UUID, error)
}

type DealerStore interface {
	UpdateDetails(ctx context.Context, id uuid.UUID, u dealers.UpdateDetails) error
}

type StaffStore interface {
	Upsert(ctx context.Context, p staff.UpsertParams) (*staff.Member, error)
}

type BillingClient interface {
	Setup(ctx context.Context, dealerID uuid.UUID) error
}

type Auditor interface {
	Record(ctx context.Context, e audit.Entry)
}

type Workflow struct {
	logger   *zap.Logger
	auth     AuthBackend
	profiles ProfileStore
	dealers  DealerStore
	staff    StaffStore
	billing  BillingClient
	audit    Auditor

	billingEnabled bool
	poll           retry.Policy
}

func NewWorkflow(
	logger *zap.Logger,
	authBackend AuthBackend,
	profileStore ProfileStore,
	dealerStore DealerStore,
	staffStore StaffStore,
	billing BillingClient,
	auditor Auditor,
	billingEnabled bool,
) *Workflow {
	return &Workflow{
		logger:   logger,
		auth:     authBackend,
		profiles: profileStore,
		dealers:  dealerStore,
		staff:    staffStore,
		billing:  billing,
		audit:    auditor,

		billingEnabled: billingEnabled,
		poll: retry.Policy{
			MaxAttempts: 10,
			BaseDelay:   200 * time.Millisecond,
			Multiplier:  1.5,
		},
	}
}

type Params struct {
	DealershipName  string
	Street          string
	City            string
	State           string
	Zip             string
	DealershipPhone string
	Website         string

	FullName string
	JobTitle string
	Email    string
	Phone    string
	Password string
}

// Result.Tokens is nil when the account awaits email confirmation; in that
// case no dealer record work has run yet.
type Result struct {
	PendingConfirmation bool
	UserID              uuid.UUID
	DealerID            uuid.UUID
	DealershipCode      string
	Tokens              *security.Tokens
}

// Register drives the flow end to end. The first two steps (account,
// dealer row appearing) are fatal on failure; billing and the owner staff
// record are logged and skipped.
func (w *Workflow) Register(ctx context.Context, p Params) (Result, error) {
	userType := string(domain.UserTypeDealer)
	signUp, err := w.auth.SignUp(ctx, p.Email, p.Password, auth.Metadata{
		UserType:    &userType,
		FullName:    &p.FullName,
		CompanyName: &p.DealershipName,
		Phone:       &p.Phone,
	})
	if err != nil {
		if errors.Is(err, domain.ErrEmailAlreadyRegistered) {
			w.record(ctx, p, "failure", "account", err)
			return Result{}, domain.ErrEmailAlreadyRegistered
		}
		w.record(ctx, p, "failure", "account", err)
		return Result{}, fmt.Errorf("create account: %w", err)
	}

	if signUp.Tokens == nil {
		w.record(ctx, p, "success", "pending_confirmation", nil)
		return Result{PendingConfirmation: true, UserID: signUp.User.ID}, nil
	}

	dealerID, err := w.waitForDealer(ctx, signUp.User.ID)
	if err != nil {
		w.record(ctx, p, "failure", "dealer_wait", err)
		return Result{}, err
	}

	code := GenerateDealershipCode(p.DealershipName)
	address := joinAddress(p.Street, p.City, p.State, p.Zip)

	update := dealers.UpdateDetails{
		Name:           p.DealershipName,
		Street:         optional(p.Street),
		City:           optional(p.City),
		State:          optional(p.State),
		Zip:            optional(p.Zip),
		Address:        optional(address),
		Phone:          optional(cleanPhone(p.DealershipPhone)),
		Website:        optional(p.Website),
		Email:          optional(strings.ToLower(strings.TrimSpace(p.Email))),
		Position:       optional(p.JobTitle),
		Store:          optional(p.DealershipName),
		DealershipCode: &code,
		Status:         string(domain.DealerStatusActive),
	}
	if err := w.dealers.UpdateDetails(ctx, dealerID, update); err != nil {
		w.record(ctx, p, "failure", "dealer_details", err)
		return Result{}, fmt.Errorf("update dealer details: %w", err)
	}
	w.record(ctx, p, "success", "dealer_details", nil)

	if w.billingEnabled {
		if err := w.billing.Setup(ctx, dealerID); err != nil {
			w.logger.Warn("billing setup failed",
				zap.String("dealer_id", dealerID.String()), zap.Error(err))
			w.record(ctx, p, "failure", "billing", err)
		} else {
			w.record(ctx, p, "success", "billing", nil)
		}
	}

	if _, err := w.staff.Upsert(ctx, staff.UpsertParams{
		UserID:   signUp.User.ID,
		DealerID: dealerID,
		Role:     string(domain.StaffRoleOwner),
	}); err != nil {
		w.logger.Warn("owner staff record failed",
			zap.String("dealer_id", dealerID.String()), zap.Error(err))
		w.record(ctx, p, "failure", "staff_owner", err)
	} else {
		w.record(ctx, p, "success", "staff_owner", nil)
	}

	w.record(ctx, p, "success", "completed", nil)

	return Result{
		UserID:         signUp.User.ID,
		DealerID:       dealerID,
		DealershipCode: code,
		Tokens:         signUp.Tokens,
	}, nil
}

// waitForDealer polls until the signup trigger has attached a dealer to
// the new profile. Ten attempts with backoff, then a typed timeout.
func (w *Workflow) waitForDealer(ctx context.Context, userID uuid.UUID) (uuid.UUID, error) {
	var dealerID uuid.UUID
	err := w.poll.Do(ctx, func(ctx context.Context, attempt int) (bool, error) {
		id, err := w.profiles.DealerIDByUserID(ctx, userID)
		if err != nil {
			if errors.Is(err, profiles.ErrNotFound) {
				return false, nil
			}
			return false, err
		}
		if id == nil {
			return false, nil
		}
		dealerID = *id
		return true, nil
	})
	if err != nil {
		if errors.Is(err, retry.ErrExhausted) {
			return uuid.Nil, domain.ErrDealerProfileCreationTimeout
		}
		return uuid.Nil, err
	}
	return dealerID, nil
}

func (w *Workflow) record(ctx context.Context, p Params, status, step string, cause error) {
	e := audit.Entry{
		FormType: "dealership_registration",
		Name:     p.FullName,
		Email:    p.Email,
		Message:  p.DealershipName,
		Status:   status,
		Metadata: map[string]any{"step": step},
	}
	if cause != nil {
		e.ErrorMessage = cause.Error()
	}
	w.audit.Record(ctx, e)
}

func optional(s string) *string {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	return &s
}

func joinAddress(street, city, state, zip string) string {
	left := strings.TrimSpace(street)
	right := strings.TrimSpace(strings.TrimSpace(city) + ", " + strings.TrimSpace(state) + " " + strings.TrimSpace(zip))
	right = strings.Trim(right, ", ")
	switch {
	case left == "":
		return right
	case right == "":
		return left
	default:
		return left + ", " + right
	}
}

func cleanPhone(s string) string {
	var b strings.Builder
	for _, r := range s {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}
