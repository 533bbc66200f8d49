package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// AppealStatus represents the appeal sub-lifecycle of a glosa
type AppealStatus string

const (
	AppealPending    AppealStatus = "pending"
	AppealInProgress AppealStatus = "in_progress"
	AppealSent       AppealStatus = "sent"
	AppealAccepted   AppealStatus = "accepted"
	AppealRejected   AppealStatus = "rejected"
)

// Glosa represents an insurer's denial of part of a claim, with its appeal
type Glosa struct {
	ID             string          `json:"id" db:"id"`
	AccountID      string          `json:"account_id" db:"account_id"`
	Reason         string          `json:"reason" db:"reason"`
	OriginalAmount decimal.Decimal `json:"original_amount" db:"original_amount"`
	GlosaAmount    decimal.Decimal `json:"glosa_amount" db:"glosa_amount"`
	AppealStatus   AppealStatus    `json:"appeal_status" db:"appeal_status"`
	AppealText     *string         `json:"appeal_text,omitempty" db:"appeal_text"`
	AppealSentAt   *time.Time      `json:"appeal_sent_at,omitempty" db:"appeal_sent_at"`
	ResolvedAt     *time.Time      `json:"resolved_at,omitempty" db:"resolved_at"`
	CreatedAt      time.Time       `json:"created_at" db:"created_at"`
	UpdatedAt      time.Time       `json:"updated_at" db:"updated_at"`
}
