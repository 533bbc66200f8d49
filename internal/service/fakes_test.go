package service

import (
	"sync"

	"github.com/shopspring/decimal"

	"revcycle-engine/internal/audit"
	"revcycle-engine/internal/domain"
)

// In-memory repository fakes. They mirror the conditional-update semantics of
// the real Postgres repositories so the coordinator's race handling and
// rollback paths can be exercised without a database.

type fakePaymentRepo struct {
	mu       sync.Mutex
	payments map[string]*domain.Payment

	applyErr     error
	restoreErr   error
	applyCalls   int
	restoreCalls int
}

func newFakePaymentRepo() *fakePaymentRepo {
	return &fakePaymentRepo{payments: make(map[string]*domain.Payment)}
}

func (f *fakePaymentRepo) put(p domain.Payment) {
	f.mu.Lock()
	defer f.mu.Unlock()
	cp := p
	f.payments[p.ID] = &cp
}

func (f *fakePaymentRepo) get(id string) domain.Payment {
	f.mu.Lock()
	defer f.mu.Unlock()
	return *f.payments[id]
}

func (f *fakePaymentRepo) Create(p *domain.Payment) error {
	f.put(*p)
	return nil
}

func (f *fakePaymentRepo) GetByID(id string) (*domain.Payment, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	stored, ok := f.payments[id]
	if !ok {
		return nil, domain.ErrPaymentNotFound
	}
	cp := *stored
	return &cp, nil
}

func (f *fakePaymentRepo) ListByStatus(status domain.ReconciliationStatus) ([]domain.Payment, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []domain.Payment
	for _, p := range f.payments {
		if status == "" || p.ReconciliationStatus == status {
			out = append(out, *p)
		}
	}
	return out, nil
}

func (f *fakePaymentRepo) ApplyAllocation(p *domain.Payment, expectedMatched decimal.Decimal) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.applyCalls++
	if f.applyErr != nil {
		return f.applyErr
	}
	stored, ok := f.payments[p.ID]
	if !ok {
		return domain.ErrPaymentNotFound
	}
	if !stored.MatchedAmount.Equal(expectedMatched) || stored.ReconciliationStatus == domain.PaymentMatched {
		return domain.ErrConcurrentUpdate
	}
	cp := *p
	f.payments[p.ID] = &cp
	return nil
}

func (f *fakePaymentRepo) Restore(snapshot *domain.Payment) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.restoreCalls++
	if f.restoreErr != nil {
		return f.restoreErr
	}
	cp := *snapshot
	f.payments[snapshot.ID] = &cp
	return nil
}

type fakeAccountRepo struct {
	mu       sync.Mutex
	accounts map[string]*domain.MedicalAccount

	applyPaymentErr error
	applyGlosaErr   error
}

func newFakeAccountRepo() *fakeAccountRepo {
	return &fakeAccountRepo{accounts: make(map[string]*domain.MedicalAccount)}
}

func (f *fakeAccountRepo) put(a domain.MedicalAccount) {
	f.mu.Lock()
	defer f.mu.Unlock()
	cp := a
	f.accounts[a.ID] = &cp
}

func (f *fakeAccountRepo) get(id string) domain.MedicalAccount {
	f.mu.Lock()
	defer f.mu.Unlock()
	return *f.accounts[id]
}

func (f *fakeAccountRepo) Create(a *domain.MedicalAccount) error {
	f.put(*a)
	return nil
}

func (f *fakeAccountRepo) GetByID(id string) (*domain.MedicalAccount, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	stored, ok := f.accounts[id]
	if !ok {
		return nil, domain.ErrAccountNotFound
	}
	cp := *stored
	return &cp, nil
}

func (f *fakeAccountRepo) ListByStatus(status domain.AccountStatus) ([]domain.MedicalAccount, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []domain.MedicalAccount
	for _, a := range f.accounts {
		if status == "" || a.Status == status {
			out = append(out, *a)
		}
	}
	return out, nil
}

func (f *fakeAccountRepo) ApplyPayment(a *domain.MedicalAccount, expectedPaid decimal.Decimal) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.applyPaymentErr != nil {
		return f.applyPaymentErr
	}
	stored, ok := f.accounts[a.ID]
	if !ok {
		return domain.ErrAccountNotFound
	}
	if !stored.PaidAmount.Equal(expectedPaid) {
		return domain.ErrConcurrentUpdate
	}
	cp := *a
	f.accounts[a.ID] = &cp
	return nil
}

func (f *fakeAccountRepo) UpdateStatus(id string, status domain.AccountStatus) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	stored, ok := f.accounts[id]
	if !ok {
		return domain.ErrAccountNotFound
	}
	stored.Status = status
	return nil
}

func (f *fakeAccountRepo) ApplyGlosa(a *domain.MedicalAccount) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.applyGlosaErr != nil {
		return f.applyGlosaErr
	}
	if _, ok := f.accounts[a.ID]; !ok {
		return domain.ErrAccountNotFound
	}
	cp := *a
	f.accounts[a.ID] = &cp
	return nil
}

type fakeGlosaRepo struct {
	mu     sync.Mutex
	glosas map[string]*domain.Glosa

	deleteErr   error
	deleteCalls int
}

func newFakeGlosaRepo() *fakeGlosaRepo {
	return &fakeGlosaRepo{glosas: make(map[string]*domain.Glosa)}
}

func (f *fakeGlosaRepo) Create(g *domain.Glosa) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	cp := *g
	f.glosas[g.ID] = &cp
	return nil
}

func (f *fakeGlosaRepo) GetByID(id string) (*domain.Glosa, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	stored, ok := f.glosas[id]
	if !ok {
		return nil, domain.ErrGlosaNotFound
	}
	cp := *stored
	return &cp, nil
}

func (f *fakeGlosaRepo) ListByAccount(accountID string) ([]domain.Glosa, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []domain.Glosa
	for _, g := range f.glosas {
		if g.AccountID == accountID {
			out = append(out, *g)
		}
	}
	return out, nil
}

func (f *fakeGlosaRepo) Delete(id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.deleteCalls++
	if f.deleteErr != nil {
		return f.deleteErr
	}
	if _, ok := f.glosas[id]; !ok {
		return domain.ErrGlosaNotFound
	}
	delete(f.glosas, id)
	return nil
}

func (f *fakeGlosaRepo) UpdateAppeal(g *domain.Glosa) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.glosas[g.ID]; !ok {
		return domain.ErrGlosaNotFound
	}
	cp := *g
	f.glosas[g.ID] = &cp
	return nil
}

type fakeAudit struct {
	mu     sync.Mutex
	events []audit.Event
}

func (f *fakeAudit) Record(event audit.Event) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.events = append(f.events, event)
}

func (f *fakeAudit) recorded() []audit.Event {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]audit.Event(nil), f.events...)
}
