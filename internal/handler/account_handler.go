package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"revcycle-engine/internal/domain"
	"revcycle-engine/internal/service"
	"revcycle-engine/pkg/logger"
	"revcycle-engine/pkg/response"
)

type AccountHandler struct {
	service service.AccountService
}

func NewAccountHandler(service service.AccountService) *AccountHandler {
	return &AccountHandler{service: service}
}

type CreateAccountRequest struct {
	AccountNumber  string `json:"account_number" binding:"required"`
	OrganizationID string `json:"organization_id" binding:"required"`
	InsurerName    string `json:"insurer_name" binding:"required"`
	PatientName    string `json:"patient_name"`
	TotalAmount    string `json:"total_amount" binding:"required"`
	ApprovedAmount string `json:"approved_amount"`
}

type TransitionAccountRequest struct {
	Status string `json:"status" binding:"required,oneof=pending validated sent paid glosa appeal"`
}

// CreateAccount godoc
// @Summary Create a medical account
// @Description Register a new billable claim against an insurer
// @Tags accounts
// @Accept json
// @Produce json
// @Param account body CreateAccountRequest true "Account data"
// @Success 201 {object} response.Response
// @Failure 400 {object} response.Response
// @Failure 500 {object} response.Response
// @Router /api/v1/accounts [post]
func (h *AccountHandler) CreateAccount(c *gin.Context) {
	var req CreateAccountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ValidationError(c, err.Error())
		return
	}

	totalAmount, err := decimal.NewFromString(req.TotalAmount)
	if err != nil {
		response.BadRequest(c, "Invalid total_amount", "Use a decimal string, e.g. \"1234.56\"")
		return
	}

	approvedAmount := decimal.Zero
	if req.ApprovedAmount != "" {
		approvedAmount, err = decimal.NewFromString(req.ApprovedAmount)
		if err != nil {
			response.BadRequest(c, "Invalid approved_amount", "Use a decimal string, e.g. \"1234.56\"")
			return
		}
	}

	account := &domain.MedicalAccount{
		AccountNumber:  req.AccountNumber,
		OrganizationID: req.OrganizationID,
		InsurerName:    req.InsurerName,
		PatientName:    req.PatientName,
		TotalAmount:    totalAmount,
		ApprovedAmount: approvedAmount,
	}

	if err := h.service.Create(account); err != nil {
		logger.GetLogger().WithError(err).Error("Failed to create account")
		respondError(c, err, "Failed to create account")
		return
	}

	response.Success(c, http.StatusCreated, "Account created successfully", account)
}

// GetAccount godoc
// @Summary Get a medical account
// @Tags accounts
// @Produce json
// @Param account_id path string true "Account ID"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /api/v1/accounts/{account_id} [get]
func (h *AccountHandler) GetAccount(c *gin.Context) {
	account, err := h.service.GetByID(c.Param("account_id"))
	if err != nil {
		respondError(c, err, "Failed to get account")
		return
	}

	response.Success(c, http.StatusOK, "Account retrieved successfully", account)
}

// ListAccounts godoc
// @Summary List medical accounts
// @Tags accounts
// @Produce json
// @Param status query string false "Filter by claim status"
// @Success 200 {object} response.Response
// @Failure 500 {object} response.Response
// @Router /api/v1/accounts [get]
func (h *AccountHandler) ListAccounts(c *gin.Context) {
	accounts, err := h.service.ListByStatus(domain.AccountStatus(c.Query("status")))
	if err != nil {
		respondError(c, err, "Failed to list accounts")
		return
	}

	response.Success(c, http.StatusOK, "Accounts retrieved successfully", accounts)
}

// TransitionAccountStatus godoc
// @Summary Transition the claim status of an account
// @Description Apply a manual claim-workflow transition, validated against the state machine
// @Tags accounts
// @Accept json
// @Produce json
// @Param account_id path string true "Account ID"
// @Param request body TransitionAccountRequest true "Target status"
// @Success 200 {object} response.Response
// @Failure 400 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /api/v1/accounts/{account_id}/status [patch]
func (h *AccountHandler) TransitionAccountStatus(c *gin.Context) {
	var req TransitionAccountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ValidationError(c, err.Error())
		return
	}

	account, err := h.service.TransitionStatus(c.Param("account_id"), domain.AccountStatus(req.Status))
	if err != nil {
		respondError(c, err, "Failed to transition account status")
		return
	}

	response.Success(c, http.StatusOK, "Account status updated successfully", account)
}
