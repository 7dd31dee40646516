package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/Ltancreti7/SwapRunn-Bolt/internal/auth"
	"github.com/Ltancreti7/SwapRunn-Bolt/internal/domain"
	"github.com/Ltancreti7/SwapRunn-Bolt/internal/server/mw"
	"github.com/Ltancreti7/SwapRunn-Bolt/internal/server/resp"
)

type AuthHandler struct {
	logger *zap.Logger
	svc    *auth.Service
}

func NewAuthHandler(logger *zap.Logger, svc *auth.Service) *AuthHandler {
	return &AuthHandler{logger: logger, svc: svc}
}

type signInReq struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

func (h *AuthHandler) SignIn(c *gin.Context) {
	var req signInReq
	if err := c.ShouldBindJSON(&req); err != nil {
		resp.Error(c, http.StatusBadRequest, "invalid payload")
		return
	}

	user, tokens, err := h.svc.SignIn(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		if errors.Is(err, domain.ErrUnauthenticated) {
			resp.Error(c, http.StatusUnauthorized, "invalid email or password")
			return
		}
		h.logger.Error("sign in failed", zap.Error(err))
		resp.Error(c, http.StatusInternalServerError, "internal error")
		return
	}

	resp.OK(c, gin.H{"user": user, "tokens": tokens})
}

type refreshReq struct {
	RefreshToken string `json:"refresh_token" binding:"required"`
}

func (h *AuthHandler) Refresh(c *gin.Context) {
	var req refreshReq
	if err := c.ShouldBindJSON(&req); err != nil {
		resp.Error(c, http.StatusBadRequest, "invalid payload")
		return
	}

	tokens, err := h.svc.Refresh(c.Request.Context(), req.RefreshToken)
	if err != nil {
		resp.Error(c, http.StatusUnauthorized, "invalid refresh token")
		return
	}

	resp.OK(c, gin.H{"tokens": tokens})
}

func (h *AuthHandler) Logout(c *gin.Context) {
	sess := mw.Session(c)
	if err := h.svc.SignOut(c.Request.Context(), sess.UserID); err != nil {
		h.logger.Error("logout failed", zap.Error(err))
		resp.Error(c, http.StatusInternalServerError, "internal error")
		return
	}
	resp.OK(c, gin.H{"logged_out": true})
}
