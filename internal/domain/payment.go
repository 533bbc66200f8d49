package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// ReconciliationStatus represents how much of a payment has been allocated
type ReconciliationStatus string

const (
	PaymentPending   ReconciliationStatus = "pending"
	PaymentPartial   ReconciliationStatus = "partial"
	PaymentMatched   ReconciliationStatus = "matched"
	PaymentDivergent ReconciliationStatus = "divergent"
)

// Payment represents a sum received from an insurer, to be allocated across
// one or more medical accounts
type Payment struct {
	ID                   string               `json:"id" db:"id"`
	PaymentNumber        string               `json:"payment_number" db:"payment_number"`
	InsurerName          string               `json:"insurer_name" db:"insurer_name"`
	TotalAmount          decimal.Decimal      `json:"total_amount" db:"total_amount"`
	MatchedAmount        decimal.Decimal      `json:"matched_amount" db:"matched_amount"`
	UnmatchedAmount      decimal.Decimal      `json:"unmatched_amount" db:"unmatched_amount"`
	ReconciliationStatus ReconciliationStatus `json:"reconciliation_status" db:"reconciliation_status"`
	ReceivedAt           time.Time            `json:"received_at" db:"received_at"`
	ReconciledAt         *time.Time           `json:"reconciled_at,omitempty" db:"reconciled_at"`
	CreatedAt            time.Time            `json:"created_at" db:"created_at"`
	UpdatedAt            time.Time            `json:"updated_at" db:"updated_at"`
}

// ReconciliationResult is the outcome of allocating a payment against an account
type ReconciliationResult struct {
	PaymentID     string          `json:"payment_id"`
	AccountID     string          `json:"account_id"`
	AmountMatched decimal.Decimal `json:"amount_matched"`
	FullyMatched  bool            `json:"fully_matched"`
	Payment       *Payment        `json:"payment,omitempty"`
	Account       *MedicalAccount `json:"account,omitempty"`
}
