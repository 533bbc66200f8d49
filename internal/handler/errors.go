package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	"revcycle-engine/internal/domain"
	"revcycle-engine/pkg/response"
)

// respondError maps the domain error taxonomy onto HTTP responses.
func respondError(c *gin.Context, err error, fallback string) {
	switch {
	case errors.Is(err, domain.ErrPaymentNotFound),
		errors.Is(err, domain.ErrAccountNotFound),
		errors.Is(err, domain.ErrGlosaNotFound):
		response.NotFound(c, err.Error())

	case errors.Is(err, domain.ErrPaymentAlreadyReconciled):
		response.Conflict(c, "Payment already reconciled", "Refresh and retry with a different payment")

	case errors.Is(err, domain.ErrConcurrentUpdate):
		response.Conflict(c, "Record was modified concurrently", "Refresh and retry")

	case errors.Is(err, domain.ErrNoAvailableBalance):
		response.BadRequest(c, "No available balance to allocate", "Both sides are already settled")

	case errors.Is(err, domain.ErrInvalidStatusTransition),
		errors.Is(err, domain.ErrAppealImmutable),
		errors.Is(err, domain.ErrAppealTextRequired):
		response.BadRequest(c, err.Error(), "")

	case errors.Is(err, domain.ErrCriticalInconsistency):
		// The alertable path: ledger records are provably out of sync.
		response.Error(c, 500, "CRITICAL_INCONSISTENCY", "Ledger records are inconsistent and require manual reconciliation", err.Error())

	default:
		response.InternalError(c, fallback, err.Error())
	}
}

// actorID returns the authenticated principal stored by the auth middleware.
func actorID(c *gin.Context) string {
	if v, ok := c.Get("actor_id"); ok {
		if id, ok := v.(string); ok {
			return id
		}
	}
	return "anonymous"
}
