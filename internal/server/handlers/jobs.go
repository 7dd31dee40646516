package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/Ltancreti7/SwapRunn-Bolt/internal/domain"
	"github.com/Ltancreti7/SwapRunn-Bolt/internal/jobs"
	"github.com/Ltancreti7/SwapRunn-Bolt/internal/server/mw"
	"github.com/Ltancreti7/SwapRunn-Bolt/internal/server/resp"
)

// JobsHandler is the dealer-side job surface: creation runs through the
// workflow (repair, role checks, drift fallback), listing serves the
// restricted driver view.
type JobsHandler struct {
	logger  *zap.Logger
	creator *jobs.Creator
	repo    *jobs.Repo
}

func NewJobsHandler(logger *zap.Logger, creator *jobs.Creator, repo *jobs.Repo) *JobsHandler {
	return &JobsHandler{logger: logger, creator: creator, repo: repo}
}

func (h *JobsHandler) Create(c *gin.Context) {
	sess := mw.Session(c)

	var params jobs.Params
	if err := c.ShouldBindJSON(&params); err != nil {
		resp.Error(c, http.StatusBadRequest, "invalid payload")
		return
	}

	job, err := h.creator.Create(c.Request.Context(), sess, params)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrUnauthenticated),
			errors.Is(err, domain.ErrSessionTokenMissing):
			resp.Error(c, http.StatusUnauthorized, err.Error())
		case errors.Is(err, domain.ErrPermissionDenied):
			resp.Error(c, http.StatusForbidden, err.Error())
		case errors.Is(err, domain.ErrProfileMissing),
			errors.Is(err, domain.ErrProfileMissingUserType),
			errors.Is(err, domain.ErrDealerAssociationMissing):
			resp.Error(c, http.StatusBadRequest, err.Error())
		default:
			var apiErr *jobs.APIError
			if errors.As(err, &apiErr) {
				resp.Error(c, http.StatusBadRequest, apiErr.Message)
				return
			}
			h.logger.Error("job creation failed", zap.Error(err))
			resp.Error(c, http.StatusInternalServerError, "internal error")
		}
		return
	}

	resp.Success(c, http.StatusCreated, "job created", gin.H{"job": job})
}

// OpenJobs lists open work for driver apps; customer fields never appear.
func (h *JobsHandler) OpenJobs(c *gin.Context) {
	views, err := h.repo.OpenJobsForDrivers(c.Request.Context())
	if err != nil {
		h.logger.Error("open jobs query failed", zap.Error(err))
		resp.Error(c, http.StatusInternalServerError, "internal error")
		return
	}
	if views == nil {
		views = []jobs.OpenJobView{}
	}
	resp.OK(c, gin.H{"jobs": views})
}
