package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"github.com/JohnEvansOkyere/vexaai-automation-website/internal/models"
	"github.com/JohnEvansOkyere/vexaai-automation-website/internal/repository"
	"github.com/JohnEvansOkyere/vexaai-automation-website/internal/service"
)

type paymentRequest struct {
	Email        string          `json:"email" binding:"required,email"`
	Amount       decimal.Decimal `json:"amount"`
	PurchaseType string          `json:"purchase_type" binding:"required,oneof=single all-access"`
	WorkflowID   *int64          `json:"workflow_id"`
	WorkflowName string          `json:"workflow_name"`
}

func (h HandlerSet) InitializePayment(c *gin.Context) {
	user, ok := requireUser(c)
	if !ok {
		return
	}

	var req paymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		detail(c, http.StatusUnprocessableEntity, err.Error())
		return
	}

	result, err := h.checkoutService.InitializePayment(c.Request.Context(), service.PaymentInput{
		User:         user,
		Email:        req.Email,
		Amount:       req.Amount,
		PurchaseType: models.PurchaseKind(req.PurchaseType),
		WorkflowID:   req.WorkflowID,
		WorkflowName: req.WorkflowName,
	})
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrWorkflowNotFound):
			detail(c, http.StatusNotFound, "Workflow not found")
		case errors.Is(err, service.ErrAmountMismatch), errors.Is(err, service.ErrUnknownPurchaseType):
			detail(c, http.StatusBadRequest, "Invalid payment amount")
		default:
			reqLog(c).Error().Err(err).Msg("initialize payment failed")
			detail(c, http.StatusInternalServerError, "Payment initialization failed")
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":           true,
		"authorization_url": result.AuthorizationURL,
		"access_code":       result.AccessCode,
		"reference":         result.Reference,
	})
}

func (h HandlerSet) SubmitCustomRequest(c *gin.Context) {
	var req models.CustomRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		detail(c, http.StatusUnprocessableEntity, err.Error())
		return
	}

	id, err := h.checkoutService.SubmitCustomRequest(c.Request.Context(), req)
	if err != nil {
		reqLog(c).Error().Err(err).Msg("custom request failed")
		detail(c, http.StatusInternalServerError, "Failed to submit request")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":    true,
		"message":    "Custom request submitted successfully",
		"request_id": id,
	})
}
