package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// AccountStatus represents the claim lifecycle status of a medical account
type AccountStatus string

const (
	AccountPending   AccountStatus = "pending"
	AccountValidated AccountStatus = "validated"
	AccountSent      AccountStatus = "sent"
	AccountPaid      AccountStatus = "paid"
	AccountGlosa     AccountStatus = "glosa"
	AccountAppeal    AccountStatus = "appeal"
)

// CentEpsilon is the half-cent tolerance used when deciding whether a balance
// is fully settled.
var CentEpsilon = decimal.New(1, -2)

// MedicalAccount represents a billable claim against an insurer
type MedicalAccount struct {
	ID             string          `json:"id" db:"id"`
	AccountNumber  string          `json:"account_number" db:"account_number"`
	OrganizationID string          `json:"organization_id" db:"organization_id"`
	InsurerName    string          `json:"insurer_name" db:"insurer_name"`
	PatientName    string          `json:"patient_name" db:"patient_name"`
	TotalAmount    decimal.Decimal `json:"total_amount" db:"total_amount"`
	ApprovedAmount decimal.Decimal `json:"approved_amount" db:"approved_amount"`
	GlosaAmount    decimal.Decimal `json:"glosa_amount" db:"glosa_amount"`
	PaidAmount     decimal.Decimal `json:"paid_amount" db:"paid_amount"`
	Status         AccountStatus   `json:"status" db:"status"`
	PaidAt         *time.Time      `json:"paid_at,omitempty" db:"paid_at"`
	CreatedAt      time.Time       `json:"created_at" db:"created_at"`
	UpdatedAt      time.Time       `json:"updated_at" db:"updated_at"`
}

// OutstandingBalance returns the amount still owed on the account.
func (a *MedicalAccount) OutstandingBalance() decimal.Decimal {
	return a.TotalAmount.Sub(a.PaidAmount)
}

// IsFullyPaid reports whether the outstanding balance is within the half-cent
// tolerance of zero.
func (a *MedicalAccount) IsFullyPaid() bool {
	return a.OutstandingBalance().LessThanOrEqual(CentEpsilon)
}
