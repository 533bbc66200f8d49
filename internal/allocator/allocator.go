package allocator

import "github.com/shopspring/decimal"

// Allocate computes how much of a payment's unmatched balance can be applied
// to an account's outstanding balance. Both operands are rounded to the
// currency's minor unit first so the result never carries a fractional cent.
//
// The second return value is false when there is nothing to allocate (either
// side non-positive). That is a no-op outcome, not an error: the caller must
// surface it distinctly from failure.
func Allocate(unmatchedAmount, outstandingBalance decimal.Decimal) (decimal.Decimal, bool) {
	unmatchedAmount = unmatchedAmount.Round(2)
	outstandingBalance = outstandingBalance.Round(2)

	if unmatchedAmount.LessThanOrEqual(decimal.Zero) || outstandingBalance.LessThanOrEqual(decimal.Zero) {
		return decimal.Zero, false
	}

	// Never over-allocate past either ceiling.
	return decimal.Min(unmatchedAmount, outstandingBalance), true
}
