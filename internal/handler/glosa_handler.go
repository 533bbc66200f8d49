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

type GlosaHandler struct {
	service service.GlosaService
}

func NewGlosaHandler(service service.GlosaService) *GlosaHandler {
	return &GlosaHandler{service: service}
}

type RegisterGlosaRequest struct {
	AccountID      string `json:"account_id" binding:"required,uuid"`
	Reason         string `json:"reason" binding:"required"`
	OriginalAmount string `json:"original_amount" binding:"required"`
	GlosaAmount    string `json:"glosa_amount" binding:"required"`
}

type UpdateAppealRequest struct {
	AppealText string `json:"appeal_text" binding:"required"`
}

type ResolveAppealRequest struct {
	Accepted *bool `json:"accepted" binding:"required"`
}

// RegisterGlosa godoc
// @Summary Register an insurer denial against an account
// @Tags glosas
// @Accept json
// @Produce json
// @Param glosa body RegisterGlosaRequest true "Glosa data"
// @Success 201 {object} response.Response
// @Failure 400 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /api/v1/glosas [post]
func (h *GlosaHandler) RegisterGlosa(c *gin.Context) {
	var req RegisterGlosaRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ValidationError(c, err.Error())
		return
	}

	originalAmount, err := decimal.NewFromString(req.OriginalAmount)
	if err != nil {
		response.BadRequest(c, "Invalid original_amount", "Use a decimal string, e.g. \"1234.56\"")
		return
	}

	glosaAmount, err := decimal.NewFromString(req.GlosaAmount)
	if err != nil {
		response.BadRequest(c, "Invalid glosa_amount", "Use a decimal string, e.g. \"1234.56\"")
		return
	}

	glosa := &domain.Glosa{
		AccountID:      req.AccountID,
		Reason:         req.Reason,
		OriginalAmount: originalAmount,
		GlosaAmount:    glosaAmount,
	}

	if err := h.service.Register(glosa, actorID(c)); err != nil {
		logger.GetLogger().WithError(err).Error("Failed to register glosa")
		respondError(c, err, "Failed to register glosa")
		return
	}

	response.Success(c, http.StatusCreated, "Glosa registered successfully", glosa)
}

// GetGlosa godoc
// @Summary Get a glosa
// @Tags glosas
// @Produce json
// @Param glosa_id path string true "Glosa ID"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /api/v1/glosas/{glosa_id} [get]
func (h *GlosaHandler) GetGlosa(c *gin.Context) {
	glosa, err := h.service.GetByID(c.Param("glosa_id"))
	if err != nil {
		respondError(c, err, "Failed to get glosa")
		return
	}

	response.Success(c, http.StatusOK, "Glosa retrieved successfully", glosa)
}

// ListAccountGlosas godoc
// @Summary List glosas registered against an account
// @Tags glosas
// @Produce json
// @Param account_id path string true "Account ID"
// @Success 200 {object} response.Response
// @Failure 500 {object} response.Response
// @Router /api/v1/accounts/{account_id}/glosas [get]
func (h *GlosaHandler) ListAccountGlosas(c *gin.Context) {
	glosas, err := h.service.ListByAccount(c.Param("account_id"))
	if err != nil {
		respondError(c, err, "Failed to list glosas")
		return
	}

	response.Success(c, http.StatusOK, "Glosas retrieved successfully", glosas)
}

// UpdateAppeal godoc
// @Summary Draft or update the appeal text for a glosa
// @Description Rejected once the appeal has been sent to the insurer
// @Tags glosas
// @Accept json
// @Produce json
// @Param glosa_id path string true "Glosa ID"
// @Param request body UpdateAppealRequest true "Appeal text"
// @Success 200 {object} response.Response
// @Failure 400 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /api/v1/glosas/{glosa_id}/appeal [put]
func (h *GlosaHandler) UpdateAppeal(c *gin.Context) {
	var req UpdateAppealRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ValidationError(c, err.Error())
		return
	}

	glosa, err := h.service.UpdateAppealText(c.Param("glosa_id"), req.AppealText)
	if err != nil {
		respondError(c, err, "Failed to update appeal")
		return
	}

	response.Success(c, http.StatusOK, "Appeal updated successfully", glosa)
}

// SubmitAppeal godoc
// @Summary Submit the appeal to the insurer
// @Description Freezes the appeal text and marks the appeal as sent
// @Tags glosas
// @Produce json
// @Param glosa_id path string true "Glosa ID"
// @Success 200 {object} response.Response
// @Failure 400 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /api/v1/glosas/{glosa_id}/appeal/submit [post]
func (h *GlosaHandler) SubmitAppeal(c *gin.Context) {
	glosa, err := h.service.SubmitAppeal(c.Param("glosa_id"), actorID(c))
	if err != nil {
		respondError(c, err, "Failed to submit appeal")
		return
	}

	response.Success(c, http.StatusOK, "Appeal submitted successfully", glosa)
}

// ResolveAppeal godoc
// @Summary Record the insurer's verdict on an appeal
// @Description An accepted appeal restores the denied amount to the account's payable balance
// @Tags glosas
// @Accept json
// @Produce json
// @Param glosa_id path string true "Glosa ID"
// @Param request body ResolveAppealRequest true "Verdict"
// @Success 200 {object} response.Response
// @Failure 400 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /api/v1/glosas/{glosa_id}/appeal/resolve [post]
func (h *GlosaHandler) ResolveAppeal(c *gin.Context) {
	var req ResolveAppealRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ValidationError(c, err.Error())
		return
	}

	glosa, err := h.service.ResolveAppeal(c.Param("glosa_id"), *req.Accepted, actorID(c))
	if err != nil {
		respondError(c, err, "Failed to resolve appeal")
		return
	}

	response.Success(c, http.StatusOK, "Appeal resolved successfully", glosa)
}
