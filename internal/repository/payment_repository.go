package repository

import (
	"database/sql"

	"github.com/shopspring/decimal"

	"revcycle-engine/internal/domain"
	"revcycle-engine/pkg/logger"
)

type PaymentRepository interface {
	Create(p *domain.Payment) error
	GetByID(id string) (*domain.Payment, error)
	ListByStatus(status domain.ReconciliationStatus) ([]domain.Payment, error)
	// ApplyAllocation writes the allocation outcome with a compare-and-swap on
	// matched_amount: the update only lands if the row still carries
	// expectedMatched and is not already matched. Returns
	// domain.ErrConcurrentUpdate when the row moved underneath the caller.
	ApplyAllocation(p *domain.Payment, expectedMatched decimal.Decimal) error
	// Restore unconditionally rewrites the payment's reconciliation fields
	// from a pre-transaction snapshot. Used by the compensating rollback.
	Restore(snapshot *domain.Payment) error
}

type paymentRepository struct {
	db *sql.DB
}

func NewPaymentRepository(db *sql.DB) PaymentRepository {
	return &paymentRepository{db: db}
}

func (r *paymentRepository) Create(p *domain.Payment) error {
	query := `
		INSERT INTO payments (
			id, payment_number, insurer_name, total_amount,
			matched_amount, unmatched_amount, reconciliation_status, received_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING created_at, updated_at
	`

	err := r.db.QueryRow(
		query,
		p.ID,
		p.PaymentNumber,
		p.InsurerName,
		p.TotalAmount,
		p.MatchedAmount,
		p.UnmatchedAmount,
		p.ReconciliationStatus,
		p.ReceivedAt,
	).Scan(&p.CreatedAt, &p.UpdatedAt)

	if err != nil {
		logger.GetLogger().WithError(err).Error("Failed to create payment")
		return err
	}

	return nil
}

func (r *paymentRepository) GetByID(id string) (*domain.Payment, error) {
	query := `
		SELECT id, payment_number, insurer_name, total_amount,
			   matched_amount, unmatched_amount, reconciliation_status,
			   received_at, reconciled_at, created_at, updated_at
		FROM payments
		WHERE id = $1
	`

	var p domain.Payment
	err := r.db.QueryRow(query, id).Scan(
		&p.ID,
		&p.PaymentNumber,
		&p.InsurerName,
		&p.TotalAmount,
		&p.MatchedAmount,
		&p.UnmatchedAmount,
		&p.ReconciliationStatus,
		&p.ReceivedAt,
		&p.ReconciledAt,
		&p.CreatedAt,
		&p.UpdatedAt,
	)

	if err == sql.ErrNoRows {
		return nil, domain.ErrPaymentNotFound
	}
	if err != nil {
		logger.GetLogger().WithError(err).Error("Failed to get payment")
		return nil, err
	}

	return &p, nil
}

func (r *paymentRepository) ListByStatus(status domain.ReconciliationStatus) ([]domain.Payment, error) {
	query := `
		SELECT id, payment_number, insurer_name, total_amount,
			   matched_amount, unmatched_amount, reconciliation_status,
			   received_at, reconciled_at, created_at, updated_at
		FROM payments
	`
	args := []interface{}{}
	if status != "" {
		query += ` WHERE reconciliation_status = $1`
		args = append(args, status)
	}
	query += ` ORDER BY received_at DESC`

	rows, err := r.db.Query(query, args...)
	if err != nil {
		logger.GetLogger().WithError(err).Error("Failed to query payments")
		return nil, err
	}
	defer rows.Close()

	var payments []domain.Payment
	for rows.Next() {
		var p domain.Payment
		err := rows.Scan(
			&p.ID,
			&p.PaymentNumber,
			&p.InsurerName,
			&p.TotalAmount,
			&p.MatchedAmount,
			&p.UnmatchedAmount,
			&p.ReconciliationStatus,
			&p.ReceivedAt,
			&p.ReconciledAt,
			&p.CreatedAt,
			&p.UpdatedAt,
		)
		if err != nil {
			logger.GetLogger().WithError(err).Error("Failed to scan payment")
			continue
		}
		payments = append(payments, p)
	}

	return payments, rows.Err()
}

func (r *paymentRepository) ApplyAllocation(p *domain.Payment, expectedMatched decimal.Decimal) error {
	query := `
		UPDATE payments
		SET matched_amount = $1, unmatched_amount = $2,
			reconciliation_status = $3, reconciled_at = $4, updated_at = NOW()
		WHERE id = $5
		  AND matched_amount = $6
		  AND reconciliation_status <> $7
	`

	result, err := r.db.Exec(
		query,
		p.MatchedAmount,
		p.UnmatchedAmount,
		p.ReconciliationStatus,
		p.ReconciledAt,
		p.ID,
		expectedMatched,
		domain.PaymentMatched,
	)
	if err != nil {
		logger.GetLogger().WithError(err).WithField("payment_id", p.ID).Error("Failed to apply payment allocation")
		return err
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return domain.ErrConcurrentUpdate
	}

	return nil
}

func (r *paymentRepository) Restore(snapshot *domain.Payment) error {
	query := `
		UPDATE payments
		SET matched_amount = $1, unmatched_amount = $2,
			reconciliation_status = $3, reconciled_at = $4, updated_at = NOW()
		WHERE id = $5
	`

	_, err := r.db.Exec(
		query,
		snapshot.MatchedAmount,
		snapshot.UnmatchedAmount,
		snapshot.ReconciliationStatus,
		snapshot.ReconciledAt,
		snapshot.ID,
	)
	if err != nil {
		logger.GetLogger().WithError(err).WithField("payment_id", snapshot.ID).Error("Failed to restore payment snapshot")
		return err
	}

	return nil
}
