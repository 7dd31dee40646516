package handlers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/Ltancreti7/SwapRunn-Bolt/internal/jobs"
	"github.com/Ltancreti7/SwapRunn-Bolt/internal/lifecycle"
	"github.com/Ltancreti7/SwapRunn-Bolt/internal/server/resp"
)

// TrackHandler serves the public, unauthenticated tracking page lookup.
type TrackHandler struct {
	logger *zap.Logger
	svc    *lifecycle.Service
}

func NewTrackHandler(logger *zap.Logger, svc *lifecycle.Service) *TrackHandler {
	return &TrackHandler{logger: logger, svc: svc}
}

func (h *TrackHandler) Get(c *gin.Context) {
	token := strings.TrimSpace(c.Param("token"))
	if token == "" {
		resp.Error(c, http.StatusBadRequest, "tracking token is required")
		return
	}

	view, err := h.svc.JobByTrackingToken(c.Request.Context(), token)
	if err != nil {
		if errors.Is(err, jobs.ErrNotFound) {
			resp.Error(c, http.StatusNotFound, "no job found for this tracking token")
			return
		}
		h.logger.Error("tracking lookup failed", zap.Error(err))
		resp.Error(c, http.StatusInternalServerError, "internal error")
		return
	}

	resp.OK(c, gin.H{"job": view})
}
