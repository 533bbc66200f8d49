package service

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"revcycle-engine/internal/domain"
	"revcycle-engine/internal/repository"
)

type PaymentService interface {
	Create(p *domain.Payment) error
	GetByID(id string) (*domain.Payment, error)
	ListByStatus(s domain.ReconciliationStatus) ([]domain.Payment, error)
}

type paymentService struct {
	repo repository.PaymentRepository
}

func NewPaymentService(repo repository.PaymentRepository) PaymentService {
	return &paymentService{repo: repo}
}

func (s *paymentService) Create(p *domain.Payment) error {
	if err := s.validate(p); err != nil {
		return err
	}

	if p.ID == "" {
		p.ID = uuid.New().String()
	}

	// Imported payments start with the whole amount available to allocate.
	p.TotalAmount = p.TotalAmount.Round(2)
	p.MatchedAmount = decimal.Zero
	p.UnmatchedAmount = p.TotalAmount
	p.ReconciliationStatus = domain.PaymentPending

	return s.repo.Create(p)
}

func (s *paymentService) GetByID(id string) (*domain.Payment, error) {
	if id == "" {
		return nil, fmt.Errorf("payment id is required")
	}
	return s.repo.GetByID(id)
}

func (s *paymentService) ListByStatus(st domain.ReconciliationStatus) ([]domain.Payment, error) {
	return s.repo.ListByStatus(st)
}

func (s *paymentService) validate(p *domain.Payment) error {
	if p.PaymentNumber == "" {
		return fmt.Errorf("payment number is required")
	}

	if p.TotalAmount.LessThanOrEqual(decimal.Zero) {
		return fmt.Errorf("total amount must be positive")
	}

	if p.ReceivedAt.IsZero() {
		return fmt.Errorf("received time is required")
	}

	return nil
}
