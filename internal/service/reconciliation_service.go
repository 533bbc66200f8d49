package service

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"revcycle-engine/internal/allocator"
	"revcycle-engine/internal/audit"
	"revcycle-engine/internal/domain"
	"revcycle-engine/internal/repository"
	"revcycle-engine/internal/status"
	"revcycle-engine/pkg/logger"
)

type ReconciliationService interface {
	// Reconcile allocates as much of the payment's unmatched balance as the
	// account's outstanding balance can absorb, as one logical operation
	// across two dependent writes.
	Reconcile(paymentID, accountID, actorID string) (*domain.ReconciliationResult, error)
}

type reconciliationService struct {
	payments repository.PaymentRepository
	accounts repository.AccountRepository
	audit    audit.Publisher
	now      func() time.Time
}

func NewReconciliationService(
	payments repository.PaymentRepository,
	accounts repository.AccountRepository,
	auditPub audit.Publisher,
) ReconciliationService {
	return &reconciliationService{
		payments: payments,
		accounts: accounts,
		audit:    auditPub,
		now:      func() time.Time { return time.Now().UTC() },
	}
}

func (s *reconciliationService) Reconcile(paymentID, accountID, actorID string) (*domain.ReconciliationResult, error) {
	payment, err := s.payments.GetByID(paymentID)
	if err != nil {
		return nil, err
	}

	// Optimistic lock check: a payment another operation just closed out
	// rejects further allocations before the account is even read.
	if payment.ReconciliationStatus == domain.PaymentMatched {
		return nil, domain.ErrPaymentAlreadyReconciled
	}

	account, err := s.accounts.GetByID(accountID)
	if err != nil {
		return nil, err
	}

	amountToMatch, ok := allocator.Allocate(payment.UnmatchedAmount, account.OutstandingBalance())
	if !ok {
		return nil, domain.ErrNoAvailableBalance
	}

	now := s.now()
	snapshot := *payment

	newMatched := payment.MatchedAmount.Add(amountToMatch).Round(2)
	newUnmatched := payment.TotalAmount.Sub(newMatched).Round(2)
	if newUnmatched.IsNegative() {
		newUnmatched = decimal.Zero
	}

	payment.MatchedAmount = newMatched
	payment.UnmatchedAmount = newUnmatched
	payment.ReconciliationStatus = status.DeriveReconciliationStatus(payment.TotalAmount, newMatched)

	fullyMatched := payment.ReconciliationStatus == domain.PaymentMatched
	if fullyMatched && payment.ReconciledAt == nil {
		payment.ReconciledAt = &now
	}

	// First write: payment. A lost race on matched_amount aborts here with no
	// account mutation.
	if err := s.payments.ApplyAllocation(payment, snapshot.MatchedAmount); err != nil {
		return nil, fmt.Errorf("payment update failed: %w", err)
	}

	expectedPaid := account.PaidAmount
	account.PaidAmount = account.PaidAmount.Add(amountToMatch).Round(2)

	if next, paidInFull := status.NextAfterAllocation(account.Status, account.PaidAmount, account.TotalAmount); paidInFull {
		account.Status = next
		account.PaidAt = &now
	}

	// Second write: account. On failure the payment update has already
	// committed, so compensate by restoring the pre-transaction snapshot.
	if err := s.accounts.ApplyPayment(account, expectedPaid); err != nil {
		if rbErr := s.payments.Restore(&snapshot); rbErr != nil {
			logger.GetLogger().WithFields(map[string]interface{}{
				"payment_id":             paymentID,
				"account_id":             accountID,
				"account_error":          err.Error(),
				"rollback_error":         rbErr.Error(),
				"critical_inconsistency": true,
			}).Error("Payment rollback failed after account update failure")
			return nil, fmt.Errorf("%w: payment %s, account %s", domain.ErrCriticalInconsistency, paymentID, accountID)
		}

		logger.GetLogger().WithError(err).WithFields(map[string]interface{}{
			"payment_id": paymentID,
			"account_id": accountID,
		}).Warn("Account update failed, payment rolled back")
		return nil, fmt.Errorf("account update failed, payment rolled back: %w", err)
	}

	s.audit.Record(audit.Event{
		ActorID:    actorID,
		Action:     "reconcile.match",
		ResourceID: paymentID,
		Details: map[string]interface{}{
			"account_id":     accountID,
			"amount_matched": amountToMatch.String(),
			"fully_matched":  fullyMatched,
		},
		OccurredAt: now,
	})

	logger.GetLogger().WithFields(map[string]interface{}{
		"payment_id":     paymentID,
		"account_id":     accountID,
		"amount_matched": amountToMatch.String(),
		"fully_matched":  fullyMatched,
	}).Info("Reconciliation completed")

	return &domain.ReconciliationResult{
		PaymentID:     paymentID,
		AccountID:     accountID,
		AmountMatched: amountToMatch,
		FullyMatched:  fullyMatched,
		Payment:       payment,
		Account:       account,
	}, nil
}
