package status

import (
	"github.com/shopspring/decimal"

	"revcycle-engine/internal/domain"
)

// DeriveReconciliationStatus computes a payment's reconciliation status from
// its total and cumulative matched amounts. The coordinator never produces
// divergent itself; it only shows up when an external correction pushed
// matched_amount past total_amount.
func DeriveReconciliationStatus(totalAmount, matchedAmount decimal.Decimal) domain.ReconciliationStatus {
	switch {
	case matchedAmount.GreaterThan(totalAmount):
		return domain.PaymentDivergent
	case totalAmount.Sub(matchedAmount).LessThanOrEqual(domain.CentEpsilon):
		return domain.PaymentMatched
	case matchedAmount.LessThanOrEqual(decimal.Zero):
		return domain.PaymentPending
	default:
		return domain.PaymentPartial
	}
}
