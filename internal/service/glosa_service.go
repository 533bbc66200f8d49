package service

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"revcycle-engine/internal/audit"
	"revcycle-engine/internal/domain"
	"revcycle-engine/internal/repository"
	"revcycle-engine/internal/status"
	"revcycle-engine/pkg/logger"
)

type GlosaService interface {
	// Register records an insurer denial against an account, raising the
	// account's glosa_amount and moving it to the glosa status.
	Register(g *domain.Glosa, actorID string) error
	GetByID(id string) (*domain.Glosa, error)
	ListByAccount(accountID string) ([]domain.Glosa, error)
	// UpdateAppealText drafts or edits the appeal text. Rejected once the
	// appeal has been sent.
	UpdateAppealText(id, text string) (*domain.Glosa, error)
	// SubmitAppeal sends the appeal to the insurer; the text freezes here.
	SubmitAppeal(id, actorID string) (*domain.Glosa, error)
	// ResolveAppeal records the insurer's verdict. An accepted appeal reduces
	// the account's effective glosa_amount and returns the account to the
	// sent status so the recovered balance can be reconciled.
	ResolveAppeal(id string, accepted bool, actorID string) (*domain.Glosa, error)
}

type glosaService struct {
	glosas   repository.GlosaRepository
	accounts repository.AccountRepository
	audit    audit.Publisher
	now      func() time.Time
}

func NewGlosaService(
	glosas repository.GlosaRepository,
	accounts repository.AccountRepository,
	auditPub audit.Publisher,
) GlosaService {
	return &glosaService{
		glosas:   glosas,
		accounts: accounts,
		audit:    auditPub,
		now:      func() time.Time { return time.Now().UTC() },
	}
}

func (s *glosaService) Register(g *domain.Glosa, actorID string) error {
	if err := s.validate(g); err != nil {
		return err
	}

	if g.ID == "" {
		g.ID = uuid.New().String()
	}
	g.OriginalAmount = g.OriginalAmount.Round(2)
	g.GlosaAmount = g.GlosaAmount.Round(2)
	g.AppealStatus = domain.AppealPending

	account, err := s.accounts.GetByID(g.AccountID)
	if err != nil {
		return err
	}

	// No business rule rejects a denial against an already paid account;
	// flag it so operators can follow up.
	if account.Status == domain.AccountPaid {
		logger.GetLogger().WithFields(map[string]interface{}{
			"account_id": account.ID,
			"glosa_id":   g.ID,
		}).Warn("Glosa registered against a paid account")
	}

	if err := s.glosas.Create(g); err != nil {
		return err
	}

	account.GlosaAmount = account.GlosaAmount.Add(g.GlosaAmount).Round(2)
	account.Status = domain.AccountGlosa

	// Second write: account. On failure discard the glosa row so the ledger
	// does not carry a denial the account never absorbed.
	if err := s.accounts.ApplyGlosa(account); err != nil {
		if delErr := s.glosas.Delete(g.ID); delErr != nil {
			logger.GetLogger().WithFields(map[string]interface{}{
				"glosa_id":               g.ID,
				"account_id":             account.ID,
				"account_error":          err.Error(),
				"rollback_error":         delErr.Error(),
				"critical_inconsistency": true,
			}).Error("Glosa rollback failed after account update failure")
			return fmt.Errorf("%w: glosa %s, account %s", domain.ErrCriticalInconsistency, g.ID, account.ID)
		}
		return fmt.Errorf("account update failed, glosa discarded: %w", err)
	}

	s.audit.Record(audit.Event{
		ActorID:    actorID,
		Action:     "glosa.register",
		ResourceID: g.ID,
		Details: map[string]interface{}{
			"account_id":   g.AccountID,
			"glosa_amount": g.GlosaAmount.String(),
		},
		OccurredAt: s.now(),
	})

	return nil
}

func (s *glosaService) GetByID(id string) (*domain.Glosa, error) {
	if id == "" {
		return nil, fmt.Errorf("glosa id is required")
	}
	return s.glosas.GetByID(id)
}

func (s *glosaService) ListByAccount(accountID string) ([]domain.Glosa, error) {
	if accountID == "" {
		return nil, fmt.Errorf("account id is required")
	}
	return s.glosas.ListByAccount(accountID)
}

func (s *glosaService) UpdateAppealText(id, text string) (*domain.Glosa, error) {
	glosa, err := s.glosas.GetByID(id)
	if err != nil {
		return nil, err
	}

	if !status.AppealTextMutable(glosa.AppealStatus) {
		return nil, domain.ErrAppealImmutable
	}

	glosa.AppealText = &text
	if glosa.AppealStatus == domain.AppealPending {
		glosa.AppealStatus = domain.AppealInProgress
	}

	if err := s.glosas.UpdateAppeal(glosa); err != nil {
		return nil, err
	}

	return glosa, nil
}

func (s *glosaService) SubmitAppeal(id, actorID string) (*domain.Glosa, error) {
	glosa, err := s.glosas.GetByID(id)
	if err != nil {
		return nil, err
	}

	if !status.CanTransitionAppeal(glosa.AppealStatus, domain.AppealSent) {
		return nil, fmt.Errorf("%w: %s -> %s", domain.ErrInvalidStatusTransition, glosa.AppealStatus, domain.AppealSent)
	}

	if glosa.AppealText == nil || *glosa.AppealText == "" {
		return nil, domain.ErrAppealTextRequired
	}

	now := s.now()
	glosa.AppealStatus = domain.AppealSent
	glosa.AppealSentAt = &now

	if err := s.glosas.UpdateAppeal(glosa); err != nil {
		return nil, err
	}

	s.audit.Record(audit.Event{
		ActorID:    actorID,
		Action:     "glosa.appeal",
		ResourceID: glosa.ID,
		Details:    map[string]interface{}{"account_id": glosa.AccountID},
		OccurredAt: now,
	})

	return glosa, nil
}

func (s *glosaService) ResolveAppeal(id string, accepted bool, actorID string) (*domain.Glosa, error) {
	glosa, err := s.glosas.GetByID(id)
	if err != nil {
		return nil, err
	}

	verdict := domain.AppealRejected
	if accepted {
		verdict = domain.AppealAccepted
	}

	if !status.CanTransitionAppeal(glosa.AppealStatus, verdict) {
		return nil, fmt.Errorf("%w: %s -> %s", domain.ErrInvalidStatusTransition, glosa.AppealStatus, verdict)
	}

	now := s.now()
	glosa.AppealStatus = verdict
	glosa.ResolvedAt = &now

	if err := s.glosas.UpdateAppeal(glosa); err != nil {
		return nil, err
	}

	if accepted {
		if err := s.restoreAccountBalance(glosa); err != nil {
			// The verdict is recorded; the balance restore is retried by
			// operators from the audit trail.
			logger.GetLogger().WithError(err).WithField("glosa_id", glosa.ID).Error("Failed to restore account balance after accepted appeal")
		}
	}

	s.audit.Record(audit.Event{
		ActorID:    actorID,
		Action:     "glosa.resolve",
		ResourceID: glosa.ID,
		Details: map[string]interface{}{
			"account_id": glosa.AccountID,
			"accepted":   accepted,
		},
		OccurredAt: now,
	})

	return glosa, nil
}

// restoreAccountBalance reduces the account's effective glosa_amount by the
// recovered amount and returns the claim to the sent status so the freed
// balance can be reconciled.
func (s *glosaService) restoreAccountBalance(glosa *domain.Glosa) error {
	account, err := s.accounts.GetByID(glosa.AccountID)
	if err != nil {
		return err
	}

	account.GlosaAmount = account.GlosaAmount.Sub(glosa.GlosaAmount).Round(2)
	if account.GlosaAmount.IsNegative() {
		account.GlosaAmount = decimal.Zero
	}
	if account.Status == domain.AccountGlosa || account.Status == domain.AccountAppeal {
		account.Status = domain.AccountSent
	}

	return s.accounts.ApplyGlosa(account)
}

func (s *glosaService) validate(g *domain.Glosa) error {
	if g.AccountID == "" {
		return fmt.Errorf("account id is required")
	}

	if g.GlosaAmount.LessThanOrEqual(decimal.Zero) {
		return fmt.Errorf("glosa amount must be positive")
	}

	if g.OriginalAmount.LessThanOrEqual(decimal.Zero) {
		return fmt.Errorf("original amount must be positive")
	}

	if g.GlosaAmount.GreaterThan(g.OriginalAmount) {
		return fmt.Errorf("glosa amount cannot exceed original amount")
	}

	return nil
}
