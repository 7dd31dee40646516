package jobs

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/Ltancreti7/SwapRunn-Bolt/internal/domain"
	"github.com/Ltancreti7/SwapRunn-Bolt/internal/profiles"
	"github.com/Ltancreti7/SwapRunn-Bolt/internal/repair"
	"github.com/Ltancreti7/SwapRunn-Bolt/internal/session"
)

type Repairer interface {
	EnsureDealerProfile(ctx context.Context, sess session.Context, opts repair.Options) (repair.Result, error)
}

type ProfileFetcher interface {
	CallerProfile(ctx context.Context, userID uuid.UUID) (*profiles.Profile, error)
}

type JobAPI interface {
	CreateJob(ctx context.Context, bearerToken string, payload Payload) (*Job, error)
}

// Creator submits jobs on behalf of dealer-side identities and copes with the
// known trade-column schema drift by degrading the payload once.
type Creator struct {
	logger   *zap.Logger
	repairer Repairer
	profiles ProfileFetcher
	api      JobAPI
}

func NewCreator(logger *zap.Logger, repairer Repairer, profileFetcher ProfileFetcher, api JobAPI) *Creator {
	return &Creator{logger: logger, repairer: repairer, profiles: profileFetcher, api: api}
}

func (c *Creator) Create(ctx context.Context, sess session.Context, params Params) (*Job, error) {
	if sess.UserID == uuid.Nil {
		return nil, domain.ErrUnauthenticated
	}
	if sess.Token == "" {
		return nil, domain.ErrSessionTokenMissing
	}

	// Auto-repair is best-effort and dealer-only. Its bootstrap path converts
	// roles and attaches dealer rows, so any other identity entering it would
	// come out job-capable.
	if sess.UserType == domain.UserTypeDealer {
		if _, err := c.repairer.EnsureDealerProfile(ctx, sess, repair.Options{}); err != nil {
			c.logger.Warn("dealer profile auto-repair failed (continuing)", zap.Error(err))
		}
	}

	profile, err := c.profiles.CallerProfile(ctx, sess.UserID)
	if err != nil {
		return nil, err
	}
	if profile == nil {
		return nil, domain.ErrProfileMissing
	}
	if profile.UserType == nil || *profile.UserType == "" {
		return nil, domain.ErrProfileMissingUserType
	}

	userType := domain.UserType(*profile.UserType)
	if !userType.CanCreateJobs() {
		return nil, domain.ErrPermissionDenied
	}
	if userType != domain.UserTypeAdmin && profile.DealerID == nil {
		return nil, domain.ErrDealerAssociationMissing
	}

	sanitizedNotes := sanitizeNotes(params.Notes)
	tradePresent := tradeFieldsPresent(params)

	payload := buildPayload(params, sanitizedNotes, tradePresent)

	job, err := c.api.CreateJob(ctx, sess.Token, payload)
	if err == nil {
		return job, nil
	}

	if tradePresent && isTradeColumnDrift(err) {
		c.logger.Warn("trade columns missing downstream, retrying with degraded payload",
			zap.String("error", err.Error()))
		fallbackNotes := buildTradeNote(params, sanitizedNotes)
		fallbackPayload := buildPayload(params, fallbackNotes, false)
		return c.api.CreateJob(ctx, sess.Token, fallbackPayload)
	}

	return nil, err
}

func sanitizeNotes(notes *string) *string {
	if notes == nil {
		return nil
	}
	trimmed := strings.TrimSpace(*notes)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}

func tradeFieldsPresent(p Params) bool {
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

func buildPayload(p Params, notes *string, includeTradeFields bool) Payload {
	out := Payload{
		Type:            p.Type,
		PickupAddress:   p.PickupAddress,
		DeliveryAddress: p.DeliveryAddress,
		Year:            p.Year,
		Make:            p.Make,
		Model:           p.Model,
		VIN:             p.VIN,
		CustomerName:    p.CustomerName,
		CustomerPhone:   p.CustomerPhone,
		Timeframe:       p.Timeframe,
		Notes:           notes,
		RequiresTwo:     p.RequiresTwo != nil && *p.RequiresTwo,
		DistanceMiles:   25,
		DealerID:        p.DealerID,
	}
	if p.DistanceMiles != nil {
		out.DistanceMiles = *p.DistanceMiles
	}
	if includeTradeFields {
		out.TradeYear = p.TradeYear
		out.TradeMake = p.TradeMake
		out.TradeModel = p.TradeModel
		out.TradeVIN = p.TradeVIN
		out.TradeTransmission = p.TradeTransmission
	}
	return out
}

// buildTradeNote folds the discrete trade fields into a text block appended
// to the base notes: a header line, then pipe-separated Key: Value pairs.
func buildTradeNote(p Params, baseNotes *string) *string {
	var parts []string
	if p.TradeYear != nil {
		parts = append(parts, fmt.Sprintf("Year: %d", *p.TradeYear))
	}
	if p.TradeMake != nil && *p.TradeMake != "" {
		parts = append(parts, "Make: "+*p.TradeMake)
	}
	if p.TradeModel != nil && *p.TradeModel != "" {
		parts = append(parts, "Model: "+*p.TradeModel)
	}
	if p.TradeVIN != nil && *p.TradeVIN != "" {
		parts = append(parts, "VIN: "+*p.TradeVIN)
	}
	if p.TradeTransmission != nil && *p.TradeTransmission != "" {
		parts = append(parts, "Transmission: "+*p.TradeTransmission)
	}
	if len(parts) == 0 {
		return baseNotes
	}

	tradeNote := "[Trade Vehicle]\n" + strings.Join(parts, " | ")
	if baseNotes != nil && *baseNotes != "" {
		combined := *baseNotes + "\n\n" + tradeNote
		return &combined
	}
	return &tradeNote
}

// isTradeColumnDrift matches the downstream message for a missing trade
// column. String matching is a stopgap: the endpoint contract only exposes a
// message, so the exact wording is load-bearing.
func isTradeColumnDrift(err error) bool {
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "trade_") &&
		strings.Contains(msg, "column") &&
		strings.Contains(msg, "does not exist")
}
