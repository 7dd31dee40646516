package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/Ltancreti7/SwapRunn-Bolt/internal/domain"
	"github.com/Ltancreti7/SwapRunn-Bolt/internal/registration"
	"github.com/Ltancreti7/SwapRunn-Bolt/internal/server/resp"
)

type RegistrationHandler struct {
	logger   *zap.Logger
	workflow *registration.Workflow
}

func NewRegistrationHandler(logger *zap.Logger, workflow *registration.Workflow) *RegistrationHandler {
	return &RegistrationHandler{logger: logger, workflow: workflow}
}

type registerReq struct {
	DealershipName  string `json:"dealership_name" binding:"required"`
	Street          string `json:"street"`
	City            string `json:"city"`
	State           string `json:"state"`
	Zip             string `json:"zip"`
	DealershipPhone string `json:"dealership_phone"`
	Website         string `json:"website"`

	FullName string `json:"full_name" binding:"required"`
	JobTitle string `json:"job_title"`
	Email    string `json:"email" binding:"required"`
	Phone    string `json:"phone"`
	Password string `json:"password" binding:"required"`
}

func (h *RegistrationHandler) Register(c *gin.Context) {
	var req registerReq
	if err := c.ShouldBindJSON(&req); err != nil {
		resp.Error(c, http.StatusBadRequest, "invalid payload")
		return
	}

	result, err := h.workflow.Register(c.Request.Context(), registration.Params{
		DealershipName:  req.DealershipName,
		Street:          req.Street,
		City:            req.City,
		State:           req.State,
		Zip:             req.Zip,
		DealershipPhone: req.DealershipPhone,
		Website:         req.Website,
		FullName:        req.FullName,
		JobTitle:        req.JobTitle,
		Email:           req.Email,
		Phone:           req.Phone,
		Password:        req.Password,
	})
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrEmailAlreadyRegistered):
			resp.Error(c, http.StatusConflict, domain.ErrEmailAlreadyRegistered.Error())
		case errors.Is(err, domain.ErrDealerProfileCreationTimeout):
			resp.Error(c, http.StatusInternalServerError, domain.ErrDealerProfileCreationTimeout.Error())
		default:
			h.logger.Error("dealership registration failed", zap.Error(err))
			resp.Error(c, http.StatusInternalServerError, "registration failed")
		}
		return
	}

	if result.PendingConfirmation {
		resp.Success(c, http.StatusAccepted, "confirmation required", gin.H{
			"pending_confirmation": true,
			"user_id":              result.UserID,
		})
		return
	}

	resp.Success(c, http.StatusCreated, "dealership registered", gin.H{
		"user_id":         result.UserID,
		"dealer_id":       result.DealerID,
		"dealership_code": result.DealershipCode,
		"tokens":          result.Tokens,
	})
}
