package service

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"revcycle-engine/internal/domain"
	"revcycle-engine/internal/repository"
	"revcycle-engine/internal/status"
)

type AccountService interface {
	Create(a *domain.MedicalAccount) error
	GetByID(id string) (*domain.MedicalAccount, error)
	ListByStatus(s domain.AccountStatus) ([]domain.MedicalAccount, error)
	// TransitionStatus applies a manual claim-workflow transition, validated
	// against the claim state machine.
	TransitionStatus(id string, to domain.AccountStatus) (*domain.MedicalAccount, error)
}

type accountService struct {
	repo repository.AccountRepository
}

func NewAccountService(repo repository.AccountRepository) AccountService {
	return &accountService{repo: repo}
}

func (s *accountService) Create(a *domain.MedicalAccount) error {
	if err := s.validate(a); err != nil {
		return err
	}

	if a.ID == "" {
		a.ID = uuid.New().String()
	}
	if a.Status == "" {
		a.Status = domain.AccountPending
	}
	a.TotalAmount = a.TotalAmount.Round(2)
	a.ApprovedAmount = a.ApprovedAmount.Round(2)
	a.GlosaAmount = a.GlosaAmount.Round(2)
	a.PaidAmount = a.PaidAmount.Round(2)

	return s.repo.Create(a)
}

func (s *accountService) GetByID(id string) (*domain.MedicalAccount, error) {
	if id == "" {
		return nil, fmt.Errorf("account id is required")
	}
	return s.repo.GetByID(id)
}

func (s *accountService) ListByStatus(st domain.AccountStatus) ([]domain.MedicalAccount, error) {
	return s.repo.ListByStatus(st)
}

func (s *accountService) TransitionStatus(id string, to domain.AccountStatus) (*domain.MedicalAccount, error) {
	account, err := s.repo.GetByID(id)
	if err != nil {
		return nil, err
	}

	if !status.CanTransitionClaim(account.Status, to) {
		return nil, fmt.Errorf("%w: %s -> %s", domain.ErrInvalidStatusTransition, account.Status, to)
	}

	if err := s.repo.UpdateStatus(id, to); err != nil {
		return nil, err
	}

	account.Status = to
	return account, nil
}

func (s *accountService) validate(a *domain.MedicalAccount) error {
	if a.AccountNumber == "" {
		return fmt.Errorf("account number is required")
	}

	if a.TotalAmount.LessThanOrEqual(decimal.Zero) {
		return fmt.Errorf("total amount must be positive")
	}

	if a.ApprovedAmount.IsNegative() || a.GlosaAmount.IsNegative() || a.PaidAmount.IsNegative() {
		return fmt.Errorf("amounts must be non-negative")
	}

	if a.PaidAmount.GreaterThan(a.TotalAmount) {
		return fmt.Errorf("paid amount cannot exceed total amount")
	}

	return nil
}
