package status

import (
	"github.com/shopspring/decimal"

	"revcycle-engine/internal/domain"
)

// claimTransitions lists the allowed manual claim-workflow transitions.
// Appeal can cycle back to sent (resubmission) or straight to paid.
var claimTransitions = map[domain.AccountStatus][]domain.AccountStatus{
	domain.AccountPending:   {domain.AccountValidated},
	domain.AccountValidated: {domain.AccountSent},
	domain.AccountSent:      {domain.AccountPaid, domain.AccountGlosa},
	domain.AccountGlosa:     {domain.AccountAppeal},
	domain.AccountAppeal:    {domain.AccountSent, domain.AccountPaid},
}

// CanTransitionClaim reports whether a manual transition between two claim
// statuses is allowed.
func CanTransitionClaim(from, to domain.AccountStatus) bool {
	for _, next := range claimTransitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// NextAfterAllocation returns the account status after a successful allocation
// raised paid_amount to newPaidAmount. Full payment (outstanding within the
// half-cent tolerance) is the only automatic trigger; a partial payment leaves
// the current status untouched.
func NextAfterAllocation(current domain.AccountStatus, newPaidAmount, totalAmount decimal.Decimal) (domain.AccountStatus, bool) {
	outstanding := totalAmount.Sub(newPaidAmount)
	if outstanding.LessThanOrEqual(domain.CentEpsilon) {
		return domain.AccountPaid, true
	}
	return current, false
}
