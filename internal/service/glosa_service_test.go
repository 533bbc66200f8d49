package service

import (
	"errors"
	"testing"

	"github.com/sirupsen/logrus"
	logtest "github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"revcycle-engine/internal/domain"
	"revcycle-engine/pkg/logger"
)

func newGlosaFixture(t *testing.T) (*fakeGlosaRepo, *fakeAccountRepo, *fakeAudit, GlosaService) {
	t.Helper()
	glosas := newFakeGlosaRepo()
	accounts := newFakeAccountRepo()
	auditPub := &fakeAudit{}
	svc := NewGlosaService(glosas, accounts, auditPub)
	return glosas, accounts, auditPub, svc
}

func TestGlosaRegister(t *testing.T) {
	_, accounts, auditPub, svc := newGlosaFixture(t)
	seedAccount(accounts, "8000.00", "0")

	glosa := &domain.Glosa{
		AccountID:      testAccountID,
		Reason:         "procedimento sem autorizacao",
		OriginalAmount: dec("8000.00"),
		GlosaAmount:    dec("1500.00"),
	}

	require.NoError(t, svc.Register(glosa, "operator-1"))
	assert.NotEmpty(t, glosa.ID)
	assert.Equal(t, domain.AppealPending, glosa.AppealStatus)

	account := accounts.get(testAccountID)
	assert.True(t, account.GlosaAmount.Equal(dec("1500.00")))
	assert.Equal(t, domain.AccountGlosa, account.Status)

	events := auditPub.recorded()
	require.Len(t, events, 1)
	assert.Equal(t, "glosa.register", events[0].Action)
}

func TestGlosaRegister_OnPaidAccountIsNotRejected(t *testing.T) {
	_, accounts, _, svc := newGlosaFixture(t)
	seedAccount(accounts, "8000.00", "8000.00")
	a := accounts.get(testAccountID)
	a.Status = domain.AccountPaid
	accounts.put(a)

	glosa := &domain.Glosa{
		AccountID:      testAccountID,
		Reason:         "divergencia de tabela",
		OriginalAmount: dec("8000.00"),
		GlosaAmount:    dec("500.00"),
	}

	require.NoError(t, svc.Register(glosa, "operator-1"))
	assert.Equal(t, domain.AccountGlosa, accounts.get(testAccountID).Status)
}

func TestGlosaRegister_OnPaidAccountWarnsWithGlosaID(t *testing.T) {
	_, accounts, _, svc := newGlosaFixture(t)
	seedAccount(accounts, "8000.00", "8000.00")
	a := accounts.get(testAccountID)
	a.Status = domain.AccountPaid
	accounts.put(a)

	hook := logtest.NewLocal(logger.GetLogger())
	defer hook.Reset()

	glosa := &domain.Glosa{
		AccountID:      testAccountID,
		Reason:         "cobranca duplicada",
		OriginalAmount: dec("8000.00"),
		GlosaAmount:    dec("300.00"),
	}
	require.NoError(t, svc.Register(glosa, "operator-1"))

	var warn *logrus.Entry
	for _, e := range hook.AllEntries() {
		if e.Level == logrus.WarnLevel && e.Message == "Glosa registered against a paid account" {
			warn = e
			break
		}
	}
	require.NotNil(t, warn)
	assert.Equal(t, glosa.ID, warn.Data["glosa_id"])
	assert.NotEmpty(t, warn.Data["glosa_id"])
}

func TestGlosaRegister_AccountFailureDiscardsGlosa(t *testing.T) {
	glosas, accounts, auditPub, svc := newGlosaFixture(t)
	seedAccount(accounts, "8000.00", "0")
	accounts.applyGlosaErr = errors.New("account write failed")

	glosa := &domain.Glosa{
		AccountID:      testAccountID,
		Reason:         "procedimento sem autorizacao",
		OriginalAmount: dec("8000.00"),
		GlosaAmount:    dec("1500.00"),
	}

	err := svc.Register(glosa, "operator-1")
	require.Error(t, err)
	assert.NotErrorIs(t, err, domain.ErrCriticalInconsistency)
	assert.Equal(t, 1, glosas.deleteCalls)

	_, getErr := glosas.GetByID(glosa.ID)
	assert.ErrorIs(t, getErr, domain.ErrGlosaNotFound)

	account := accounts.get(testAccountID)
	assert.True(t, account.GlosaAmount.IsZero())
	assert.Empty(t, auditPub.recorded())
}

func TestGlosaRegister_RollbackFailureEscalates(t *testing.T) {
	glosas, accounts, _, svc := newGlosaFixture(t)
	seedAccount(accounts, "8000.00", "0")
	accounts.applyGlosaErr = errors.New("account write failed")
	glosas.deleteErr = errors.New("delete failed")

	glosa := &domain.Glosa{
		AccountID:      testAccountID,
		Reason:         "procedimento sem autorizacao",
		OriginalAmount: dec("8000.00"),
		GlosaAmount:    dec("1500.00"),
	}

	err := svc.Register(glosa, "operator-1")
	assert.ErrorIs(t, err, domain.ErrCriticalInconsistency)
}

func TestGlosaRegister_Validation(t *testing.T) {
	_, accounts, _, svc := newGlosaFixture(t)
	seedAccount(accounts, "8000.00", "0")

	err := svc.Register(&domain.Glosa{
		AccountID:      testAccountID,
		OriginalAmount: dec("1000.00"),
		GlosaAmount:    dec("1500.00"),
	}, "operator-1")
	assert.Error(t, err, "glosa amount above original amount")

	err = svc.Register(&domain.Glosa{
		AccountID:      testAccountID,
		OriginalAmount: dec("1000.00"),
		GlosaAmount:    dec("0"),
	}, "operator-1")
	assert.Error(t, err, "non-positive glosa amount")
}

func TestGlosaAppealLifecycle(t *testing.T) {
	glosas, accounts, _, svc := newGlosaFixture(t)
	seedAccount(accounts, "8000.00", "0")

	glosa := &domain.Glosa{
		AccountID:      testAccountID,
		Reason:         "codigo de procedimento invalido",
		OriginalAmount: dec("8000.00"),
		GlosaAmount:    dec("2000.00"),
	}
	require.NoError(t, svc.Register(glosa, "operator-1"))

	// Submitting without text fails.
	_, err := svc.SubmitAppeal(glosa.ID, "operator-1")
	assert.ErrorIs(t, err, domain.ErrAppealTextRequired)

	// Draft the appeal.
	updated, err := svc.UpdateAppealText(glosa.ID, "laudo anexado comprova autorizacao previa")
	require.NoError(t, err)
	assert.Equal(t, domain.AppealInProgress, updated.AppealStatus)

	// Submit freezes the text.
	sent, err := svc.SubmitAppeal(glosa.ID, "operator-1")
	require.NoError(t, err)
	assert.Equal(t, domain.AppealSent, sent.AppealStatus)
	assert.NotNil(t, sent.AppealSentAt)

	_, err = svc.UpdateAppealText(glosa.ID, "texto alterado")
	assert.ErrorIs(t, err, domain.ErrAppealImmutable)

	// Accepting restores the account's payable balance.
	resolved, err := svc.ResolveAppeal(glosa.ID, true, "operator-1")
	require.NoError(t, err)
	assert.Equal(t, domain.AppealAccepted, resolved.AppealStatus)
	assert.NotNil(t, resolved.ResolvedAt)

	account := accounts.get(testAccountID)
	assert.True(t, account.GlosaAmount.IsZero())
	assert.Equal(t, domain.AccountSent, account.Status)

	// Terminal: no further transitions.
	_, err = svc.ResolveAppeal(glosa.ID, false, "operator-1")
	assert.ErrorIs(t, err, domain.ErrInvalidStatusTransition)

	stored, err := glosas.GetByID(glosa.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.AppealAccepted, stored.AppealStatus)
}

func TestGlosaResolveRejected_LeavesBalanceUntouched(t *testing.T) {
	_, accounts, _, svc := newGlosaFixture(t)
	seedAccount(accounts, "8000.00", "0")

	glosa := &domain.Glosa{
		AccountID:      testAccountID,
		Reason:         "material nao coberto",
		OriginalAmount: dec("8000.00"),
		GlosaAmount:    dec("750.00"),
	}
	require.NoError(t, svc.Register(glosa, "operator-1"))

	_, err := svc.UpdateAppealText(glosa.ID, "recurso")
	require.NoError(t, err)
	_, err = svc.SubmitAppeal(glosa.ID, "operator-1")
	require.NoError(t, err)

	resolved, err := svc.ResolveAppeal(glosa.ID, false, "operator-1")
	require.NoError(t, err)
	assert.Equal(t, domain.AppealRejected, resolved.AppealStatus)

	account := accounts.get(testAccountID)
	assert.True(t, account.GlosaAmount.Equal(dec("750.00")))
	assert.Equal(t, domain.AccountGlosa, account.Status)
}
