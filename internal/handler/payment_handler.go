package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"revcycle-engine/internal/domain"
	"revcycle-engine/internal/service"
	"revcycle-engine/pkg/logger"
	"revcycle-engine/pkg/response"
)

type PaymentHandler struct {
	service service.PaymentService
}

func NewPaymentHandler(service service.PaymentService) *PaymentHandler {
	return &PaymentHandler{service: service}
}

type CreatePaymentRequest struct {
	PaymentNumber string `json:"payment_number" binding:"required"`
	InsurerName   string `json:"insurer_name" binding:"required"`
	TotalAmount   string `json:"total_amount" binding:"required"`
	ReceivedAt    string `json:"received_at" binding:"required"`
}

// CreatePayment godoc
// @Summary Import an insurer payment
// @Description Record a sum received from an insurer, available to allocate across accounts
// @Tags payments
// @Accept json
// @Produce json
// @Param payment body CreatePaymentRequest true "Payment data"
// @Success 201 {object} response.Response
// @Failure 400 {object} response.Response
// @Failure 500 {object} response.Response
// @Router /api/v1/payments [post]
func (h *PaymentHandler) CreatePayment(c *gin.Context) {
	var req CreatePaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ValidationError(c, err.Error())
		return
	}

	totalAmount, err := decimal.NewFromString(req.TotalAmount)
	if err != nil {
		response.BadRequest(c, "Invalid total_amount", "Use a decimal string, e.g. \"1234.56\"")
		return
	}

	receivedAt, err := time.Parse(time.RFC3339, req.ReceivedAt)
	if err != nil {
		response.BadRequest(c, "Invalid received_at format", "Use RFC3339 format")
		return
	}

	payment := &domain.Payment{
		PaymentNumber: req.PaymentNumber,
		InsurerName:   req.InsurerName,
		TotalAmount:   totalAmount,
		ReceivedAt:    receivedAt,
	}

	if err := h.service.Create(payment); err != nil {
		logger.GetLogger().WithError(err).Error("Failed to create payment")
		respondError(c, err, "Failed to create payment")
		return
	}

	response.Success(c, http.StatusCreated, "Payment created successfully", payment)
}

// GetPayment godoc
// @Summary Get a payment
// @Tags payments
// @Produce json
// @Param payment_id path string true "Payment ID"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /api/v1/payments/{payment_id} [get]
func (h *PaymentHandler) GetPayment(c *gin.Context) {
	payment, err := h.service.GetByID(c.Param("payment_id"))
	if err != nil {
		respondError(c, err, "Failed to get payment")
		return
	}

	response.Success(c, http.StatusOK, "Payment retrieved successfully", payment)
}

// ListPayments godoc
// @Summary List payments
// @Tags payments
// @Produce json
// @Param status query string false "Filter by reconciliation status"
// @Success 200 {object} response.Response
// @Failure 500 {object} response.Response
// @Router /api/v1/payments [get]
func (h *PaymentHandler) ListPayments(c *gin.Context) {
	payments, err := h.service.ListByStatus(domain.ReconciliationStatus(c.Query("status")))
	if err != nil {
		respondError(c, err, "Failed to list payments")
		return
	}

	response.Success(c, http.StatusOK, "Payments retrieved successfully", payments)
}
