package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/Ltancreti7/SwapRunn-Bolt/internal/assignments"
	"github.com/Ltancreti7/SwapRunn-Bolt/internal/domain"
	"github.com/Ltancreti7/SwapRunn-Bolt/internal/jobs"
	"github.com/Ltancreti7/SwapRunn-Bolt/internal/lifecycle"
	"github.com/Ltancreti7/SwapRunn-Bolt/internal/server/mw"
	"github.com/Ltancreti7/SwapRunn-Bolt/internal/server/resp"
)

type LifecycleHandler struct {
	logger      *zap.Logger
	svc         *lifecycle.Service
	assignments *assignments.Repo
}

func NewLifecycleHandler(logger *zap.Logger, svc *lifecycle.Service, assignmentRepo *assignments.Repo) *LifecycleHandler {
	return &LifecycleHandler{logger: logger, svc: svc, assignments: assignmentRepo}
}

type acceptReq struct {
	DriverID *uuid.UUID `json:"driver_id"`
}

func (h *LifecycleHandler) Accept(c *gin.Context) {
	sess := mw.Session(c)

	jobID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		resp.Error(c, http.StatusBadRequest, "invalid job id")
		return
	}

	var req acceptReq
	_ = c.ShouldBindJSON(&req) // body is optional

	job, err := h.svc.AcceptJob(c.Request.Context(), sess, jobID, req.DriverID)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrJobAlreadyTaken):
			resp.Error(c, http.StatusConflict, domain.ErrJobAlreadyTaken.Error())
		case errors.Is(err, jobs.ErrNotFound):
			resp.Error(c, http.StatusNotFound, "job not found")
		case errors.Is(err, domain.ErrUnauthenticated):
			resp.Error(c, http.StatusUnauthorized, err.Error())
		default:
			h.logger.Error("accept job failed", zap.Error(err))
			resp.Error(c, http.StatusInternalServerError, "internal error")
		}
		return
	}

	resp.OK(c, gin.H{"job": job})
}

// ownAssignment loads the job's assignment and checks it belongs to the
// caller. On failure the response is already written.
func (h *LifecycleHandler) ownAssignment(c *gin.Context) (uuid.UUID, *assignments.Assignment, bool) {
	sess := mw.Session(c)

	jobID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		resp.Error(c, http.StatusBadRequest, "invalid job id")
		return uuid.Nil, nil, false
	}

	a, err := h.assignments.FindByJob(c.Request.Context(), jobID)
	if err != nil {
		if errors.Is(err, assignments.ErrNotFound) {
			resp.Error(c, http.StatusConflict, "job has no assignment")
			return uuid.Nil, nil, false
		}
		h.logger.Error("assignment lookup failed", zap.Error(err))
		resp.Error(c, http.StatusInternalServerError, "internal error")
		return uuid.Nil, nil, false
	}
	if a.DriverID != sess.UserID {
		resp.Error(c, http.StatusForbidden, domain.ErrPermissionDenied.Error())
		return uuid.Nil, nil, false
	}
	return jobID, a, true
}

func (h *LifecycleHandler) ClockIn(c *gin.Context) {
	jobID, a, ok := h.ownAssignment(c)
	if !ok {
		return
	}

	job, err := h.svc.ClockIn(c.Request.Context(), jobID, a.ID)
	if err != nil {
		h.logger.Error("clock in failed", zap.Error(err))
		resp.Error(c, http.StatusInternalServerError, "internal error")
		return
	}
	resp.OK(c, gin.H{"job": job})
}

func (h *LifecycleHandler) ClockOut(c *gin.Context) {
	jobID, a, ok := h.ownAssignment(c)
	if !ok {
		return
	}

	job, err := h.svc.ClockOut(c.Request.Context(), jobID, a.ID)
	if err != nil {
		h.logger.Error("clock out failed", zap.Error(err))
		resp.Error(c, http.StatusInternalServerError, "internal error")
		return
	}
	resp.OK(c, gin.H{"job": job})
}
