package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"revcycle-engine/internal/service"
	"revcycle-engine/pkg/logger"
	"revcycle-engine/pkg/response"
)

type ReconciliationHandler struct {
	service service.ReconciliationService
}

func NewReconciliationHandler(service service.ReconciliationService) *ReconciliationHandler {
	return &ReconciliationHandler{service: service}
}

type ReconcileRequest struct {
	PaymentID string `json:"payment_id" binding:"required,uuid"`
	AccountID string `json:"account_id" binding:"required,uuid"`
}

// Reconcile godoc
// @Summary Reconcile a payment against a medical account
// @Description Allocate a payment's unmatched balance to an account's outstanding balance
// @Tags reconciliation
// @Accept json
// @Produce json
// @Param request body ReconcileRequest true "Reconciliation request"
// @Success 200 {object} response.Response
// @Failure 400 {object} response.Response
// @Failure 404 {object} response.Response
// @Failure 409 {object} response.Response
// @Failure 500 {object} response.Response
// @Router /api/v1/reconcile [post]
func (h *ReconciliationHandler) Reconcile(c *gin.Context) {
	var req ReconcileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.GetLogger().WithError(err).Error("Invalid request")
		response.ValidationError(c, err.Error())
		return
	}

	logger.GetLogger().WithFields(map[string]interface{}{
		"payment_id": req.PaymentID,
		"account_id": req.AccountID,
	}).Info("Starting reconciliation")

	result, err := h.service.Reconcile(req.PaymentID, req.AccountID, actorID(c))
	if err != nil {
		respondError(c, err, "Reconciliation failed")
		return
	}

	response.Success(c, http.StatusOK, "Reconciliation completed successfully", result)
}
