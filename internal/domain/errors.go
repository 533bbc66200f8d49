package domain

import "errors"

// Error taxonomy for the reconciliation and glosa lifecycle. Handlers map these
// to HTTP statuses; services wrap them with context via fmt.Errorf and %w.
var (
	ErrAccountNotFound = errors.New("medical account not found")
	ErrPaymentNotFound = errors.New("payment not found")
	ErrGlosaNotFound   = errors.New("glosa not found")

	// ErrPaymentAlreadyReconciled rejects allocation against a payment whose
	// reconciliation already closed out. The caller holds a stale view and
	// must refresh before retrying.
	ErrPaymentAlreadyReconciled = errors.New("payment already fully reconciled")

	// ErrConcurrentUpdate means a conditional write found the row changed
	// since it was read. Safe to retry from a fresh read.
	ErrConcurrentUpdate = errors.New("record was modified concurrently")

	// ErrNoAvailableBalance means both sides are already settled or an input
	// amount is non-positive. Terminal for the request, not a system fault.
	ErrNoAvailableBalance = errors.New("no available balance to allocate")

	// ErrCriticalInconsistency means the payment update committed, the account
	// update failed, and the compensating payment rollback failed too. The
	// ledger is provably out of sync and needs manual intervention.
	ErrCriticalInconsistency = errors.New("ledger inconsistency: payment and account records are out of sync")

	ErrInvalidStatusTransition = errors.New("invalid status transition")
	ErrAppealImmutable         = errors.New("appeal can no longer be modified")
	ErrAppealTextRequired      = errors.New("appeal text is required before submission")
)
