package handlers

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"go.uber.org/zap"

	"github.com/Ltancreti7/SwapRunn-Bolt/internal/auth"
	"github.com/Ltancreti7/SwapRunn-Bolt/internal/domain"
	"github.com/Ltancreti7/SwapRunn-Bolt/internal/drivers"
	"github.com/Ltancreti7/SwapRunn-Bolt/internal/jobs"
	"github.com/Ltancreti7/SwapRunn-Bolt/internal/profiles"
	"github.com/Ltancreti7/SwapRunn-Bolt/internal/session"
	"github.com/Ltancreti7/SwapRunn-Bolt/internal/staff"
	"github.com/Ltancreti7/SwapRunn-Bolt/internal/util"
)

// Notifier publishes job events; nil disables publishing.
type Notifier interface {
	PublishJobCreated(ctx context.Context, job *jobs.Job) error
}

// AdmissionHandler serves the legacy /api endpoints. Their contract predates
// the /v1 envelope: 405 on wrong method, 400 {"error": msg} on failure,
// 200 {"success": true, ...} on success. Error messages are returned verbatim
// because callers inspect them (trade-column drift detection).
type AdmissionHandler struct {
	logger *zap.Logger

	resolver *session.Resolver
	profiles *profiles.Repo
	jobs     *jobs.Repo
	drivers  *drivers.Repo
	staff    *staff.Repo
	authSvc  *auth.Service
	authRepo *auth.Repo
	notify   Notifier
}

func NewAdmissionHandler(
	logger *zap.Logger,
	resolver *session.Resolver,
	profileRepo *profiles.Repo,
	jobRepo *jobs.Repo,
	driverRepo *drivers.Repo,
	staffRepo *staff.Repo,
	authSvc *auth.Service,
	authRepo *auth.Repo,
	notifier Notifier,
) *AdmissionHandler {
	return &AdmissionHandler{
		logger:   logger,
		resolver: resolver,
		profiles: profileRepo,
		jobs:     jobRepo,
		drivers:  driverRepo,
		staff:    staffRepo,
		authSvc:  authSvc,
		authRepo: authRepo,
		notify:   notifier,
	}
}

func legacyError(c *gin.Context, code int, msg string) {
	c.JSON(code, gin.H{"error": msg})
}

// caller authenticates the request and loads the profile the role check
// runs against. Returns (session, profile, ok); on !ok the response is
// already written.
func (h *AdmissionHandler) caller(c *gin.Context) (session.Context, *profiles.Profile, bool) {
	sess, err := h.resolver.Resolve(c.Request.Context(), c.GetHeader("Authorization"))
	if err != nil {
		legacyError(c, http.StatusBadRequest, err.Error())
		return session.Context{}, nil, false
	}

	profile, err := h.profiles.CallerProfile(c.Request.Context(), sess.UserID)
	if err != nil {
		legacyError(c, http.StatusBadRequest, err.Error())
		return session.Context{}, nil, false
	}
	if profile == nil {
		legacyError(c, http.StatusBadRequest, domain.ErrProfileMissing.Error())
		return session.Context{}, nil, false
	}
	if profile.UserType == nil || *profile.UserType == "" {
		legacyError(c, http.StatusBadRequest, domain.ErrProfileMissingUserType.Error())
		return session.Context{}, nil, false
	}
	return sess, profile, true
}

// targetDealer resolves which dealership a dealer-side write lands on:
// admins may name one explicitly, then fall back to their own association;
// everyone else always uses their own.
func targetDealer(role domain.UserType, profile *profiles.Profile, explicit *uuid.UUID) (uuid.UUID, error) {
	if role == domain.UserTypeAdmin {
		if explicit != nil {
			return *explicit, nil
		}
		if profile.DealerID != nil {
			return *profile.DealerID, nil
		}
		return uuid.Nil, errors.New("dealer_id is required for admin requests")
	}
	if profile.DealerID == nil {
		return uuid.Nil, domain.ErrDealerAssociationMissing
	}
	return *profile.DealerID, nil
}

func (h *AdmissionHandler) AddJob(c *gin.Context) {
	if c.Request.Method != http.MethodPost {
		legacyError(c, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}

	sess, profile, ok := h.caller(c)
	if !ok {
		return
	}

	role := domain.UserType(*profile.UserType)
	if !role.CanCreateJobs() {
		legacyError(c, http.StatusBadRequest, domain.ErrPermissionDenied.Error())
		return
	}

	var req jobs.Payload
	if err := c.ShouldBindJSON(&req); err != nil {
		legacyError(c, http.StatusBadRequest, "invalid payload")
		return
	}
	if strings.TrimSpace(req.Type) == "" || strings.TrimSpace(req.PickupAddress) == "" || strings.TrimSpace(req.DeliveryAddress) == "" {
		legacyError(c, http.StatusBadRequest, "type, pickup_address and delivery_address are required")
		return
	}

	dealerID, err := targetDealer(role, profile, req.DealerID)
	if err != nil {
		legacyError(c, http.StatusBadRequest, err.Error())
		return
	}

	distance := req.DistanceMiles
	if distance <= 0 {
		distance = 25
	}

	params := jobs.InsertParams{
		DealerID:          dealerID,
		CreatedBy:         sess.UserID,
		Type:              req.Type,
		PickupAddress:     req.PickupAddress,
		DeliveryAddress:   req.DeliveryAddress,
		CustomerName:      req.CustomerName,
		CustomerPhone:     req.CustomerPhone,
		Timeframe:         req.Timeframe,
		Notes:             req.Notes,
		VIN:               req.VIN,
		Year:              req.Year,
		Make:              req.Make,
		Model:             req.Model,
		RequiresTwo:       req.RequiresTwo,
		DistanceMiles:     distance,
		TradeYear:         req.TradeYear,
		TradeMake:         req.TradeMake,
		TradeModel:        req.TradeModel,
		TradeVIN:          req.TradeVIN,
		TradeTransmission: req.TradeTransmission,
		TrackToken:        jobs.NewTrackToken(),
	}

	job, err := h.jobs.Insert(c.Request.Context(), params)
	if err != nil && jobs.IsUndefinedColumn(err) && !params.HasTradeFields() {
		// Deployment without the trade-in migration. With no trade data on
		// the request nothing is lost by inserting without those columns;
		// requests that do carry trade data get the column error back so the
		// caller can fold and resubmit.
		h.logger.Warn("trade columns missing, degrading insert", zap.String("error", err.Error()))
		job, err = h.jobs.InsertWithoutTradeColumns(c.Request.Context(), params)
	}
	if err != nil {
		// Column errors go back verbatim; clients key off the message.
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) {
			legacyError(c, http.StatusBadRequest, pgErr.Message)
			return
		}
		h.logger.Error("job insert failed", zap.Error(err))
		legacyError(c, http.StatusBadRequest, "Failed to create job.")
		return
	}

	if h.notify != nil {
		if err := h.notify.PublishJobCreated(c.Request.Context(), job); err != nil {
			h.logger.Warn("job created publish failed", zap.String("job_id", job.ID.String()), zap.Error(err))
		}
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "job": job})
}

type addDriverReq struct {
	Name     string     `json:"name"`
	Email    string     `json:"email"`
	Phone    *string    `json:"phone"`
	DealerID *uuid.UUID `json:"dealer_id"`
}

func (h *AdmissionHandler) AddDriver(c *gin.Context) {
	if c.Request.Method != http.MethodPost {
		legacyError(c, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}

	_, profile, ok := h.caller(c)
	if !ok {
		return
	}
	role := domain.UserType(*profile.UserType)
	if !role.CanCreateJobs() {
		legacyError(c, http.StatusBadRequest, domain.ErrPermissionDenied.Error())
		return
	}

	var req addDriverReq
	if err := c.ShouldBindJSON(&req); err != nil {
		legacyError(c, http.StatusBadRequest, "invalid payload")
		return
	}
	if strings.TrimSpace(req.Name) == "" || strings.TrimSpace(req.Email) == "" {
		legacyError(c, http.StatusBadRequest, "name and email are required")
		return
	}

	dealerID, err := targetDealer(role, profile, req.DealerID)
	if err != nil {
		legacyError(c, http.StatusBadRequest, err.Error())
		return
	}

	phone := req.Phone
	if phone != nil && strings.TrimSpace(*phone) != "" {
		normalized, err := util.NormalizeE164(*phone)
		if err != nil {
			legacyError(c, http.StatusBadRequest, err.Error())
			return
		}
		phone = &normalized
	}

	email := strings.ToLower(strings.TrimSpace(req.Email))
	driver, err := h.drivers.Create(c.Request.Context(), drivers.CreateParams{
		DealerID: &dealerID,
		Name:     strings.TrimSpace(req.Name),
		Email:    &email,
		Phone:    phone,
	})
	if err != nil {
		h.logger.Error("driver insert failed", zap.Error(err))
		legacyError(c, http.StatusBadRequest, "Failed to add driver.")
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "driver": driver})
}

type addStaffReq struct {
	Name     string     `json:"name"`
	Email    string     `json:"email"`
	Role     string     `json:"role"`
	DealerID *uuid.UUID `json:"dealer_id"`
}

// AddStaff links an auth identity to a dealership. Unknown emails get an
// account with a generated password; existing ones are attached as-is.
func (h *AdmissionHandler) AddStaff(c *gin.Context) {
	if c.Request.Method != http.MethodPost {
		legacyError(c, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}

	sess, profile, ok := h.caller(c)
	if !ok {
		return
	}
	role := domain.UserType(*profile.UserType)
	if !role.CanCreateJobs() {
		legacyError(c, http.StatusBadRequest, domain.ErrPermissionDenied.Error())
		return
	}

	var req addStaffReq
	if err := c.ShouldBindJSON(&req); err != nil {
		legacyError(c, http.StatusBadRequest, "invalid payload")
		return
	}
	if strings.TrimSpace(req.Email) == "" {
		legacyError(c, http.StatusBadRequest, "email is required")
		return
	}

	dealerID, err := targetDealer(role, profile, req.DealerID)
	if err != nil {
		legacyError(c, http.StatusBadRequest, err.Error())
		return
	}

	ctx := c.Request.Context()
	email := strings.ToLower(strings.TrimSpace(req.Email))
	staffType := string(domain.UserTypeStaff)

	createdUser := false
	target, err := h.authRepo.FindByEmail(ctx, email)
	if err != nil {
		if !errors.Is(err, auth.ErrNotFound) {
			h.logger.Error("staff user lookup failed", zap.Error(err))
			legacyError(c, http.StatusBadRequest, "internal error")
			return
		}
		name := strings.TrimSpace(req.Name)
		result, err := h.authSvc.SignUp(ctx, email, util.GeneratePassword(), auth.Metadata{
			UserType: &staffType,
			FullName: &name,
		})
		if err != nil {
			h.logger.Error("staff user create failed", zap.Error(err))
			legacyError(c, http.StatusBadRequest, "Failed to create staff account.")
			return
		}
		target = result.User
		createdUser = true
	}

	name := strings.TrimSpace(req.Name)
	prof, err := h.profiles.Upsert(ctx, profiles.UpsertParams{
		UserID:   target.ID,
		UserType: staffType,
		DealerID: &dealerID,
		FullName: optionalString(name),
	})
	if err != nil {
		h.logger.Error("staff profile upsert failed", zap.Error(err))
		legacyError(c, http.StatusBadRequest, "internal error")
		return
	}

	staffRole := strings.TrimSpace(req.Role)
	if staffRole == "" {
		staffRole = string(domain.StaffRoleStaff)
	}
	inviter := sess.UserID
	if _, err := h.staff.Upsert(ctx, staff.UpsertParams{
		UserID:    target.ID,
		DealerID:  dealerID,
		Role:      staffRole,
		InvitedBy: &inviter,
	}); err != nil {
		h.logger.Error("staff upsert failed", zap.Error(err))
		legacyError(c, http.StatusBadRequest, "internal error")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":       true,
		"message":       "Staff member added.",
		"createdUser":   createdUser,
		"addedToStaff":  true,
		"profileId":     prof.ID,
		"requesterType": string(role),
	})
}

func optionalString(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
