package repository

import (
	"database/sql"

	"github.com/shopspring/decimal"

	"revcycle-engine/internal/domain"
	"revcycle-engine/pkg/logger"
)

type AccountRepository interface {
	Create(a *domain.MedicalAccount) error
	GetByID(id string) (*domain.MedicalAccount, error)
	ListByStatus(status domain.AccountStatus) ([]domain.MedicalAccount, error)
	// ApplyPayment writes the new paid_amount/status with a compare-and-swap
	// on paid_amount so two concurrent reconciliations against the same
	// account cannot both land. Returns domain.ErrConcurrentUpdate on a
	// lost race.
	ApplyPayment(a *domain.MedicalAccount, expectedPaid decimal.Decimal) error
	UpdateStatus(id string, status domain.AccountStatus) error
	// ApplyGlosa writes glosa_amount and status after a denial is registered
	// or an appeal resolved.
	ApplyGlosa(a *domain.MedicalAccount) error
}

type accountRepository struct {
	db *sql.DB
}

func NewAccountRepository(db *sql.DB) AccountRepository {
	return &accountRepository{db: db}
}

const accountColumns = `
	id, account_number, organization_id, insurer_name, patient_name,
	total_amount, approved_amount, glosa_amount, paid_amount,
	status, paid_at, created_at, updated_at
`

func (r *accountRepository) Create(a *domain.MedicalAccount) error {
	query := `
		INSERT INTO medical_accounts (
			id, account_number, organization_id, insurer_name, patient_name,
			total_amount, approved_amount, glosa_amount, paid_amount, status
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING created_at, updated_at
	`

	err := r.db.QueryRow(
		query,
		a.ID,
		a.AccountNumber,
		a.OrganizationID,
		a.InsurerName,
		a.PatientName,
		a.TotalAmount,
		a.ApprovedAmount,
		a.GlosaAmount,
		a.PaidAmount,
		a.Status,
	).Scan(&a.CreatedAt, &a.UpdatedAt)

	if err != nil {
		logger.GetLogger().WithError(err).Error("Failed to create medical account")
		return err
	}

	return nil
}

func (r *accountRepository) GetByID(id string) (*domain.MedicalAccount, error) {
	query := `SELECT ` + accountColumns + ` FROM medical_accounts WHERE id = $1`

	a, err := r.scanAccount(r.db.QueryRow(query, id))
	if err == sql.ErrNoRows {
		return nil, domain.ErrAccountNotFound
	}
	if err != nil {
		logger.GetLogger().WithError(err).Error("Failed to get medical account")
		return nil, err
	}

	return a, nil
}

func (r *accountRepository) ListByStatus(status domain.AccountStatus) ([]domain.MedicalAccount, error) {
	query := `SELECT ` + accountColumns + ` FROM medical_accounts`
	args := []interface{}{}
	if status != "" {
		query += ` WHERE status = $1`
		args = append(args, status)
	}
	query += ` ORDER BY created_at DESC`

	rows, err := r.db.Query(query, args...)
	if err != nil {
		logger.GetLogger().WithError(err).Error("Failed to query medical accounts")
		return nil, err
	}
	defer rows.Close()

	var accounts []domain.MedicalAccount
	for rows.Next() {
		a, err := r.scanAccount(rows)
		if err != nil {
			logger.GetLogger().WithError(err).Error("Failed to scan medical account")
			continue
		}
		accounts = append(accounts, *a)
	}

	return accounts, rows.Err()
}

func (r *accountRepository) ApplyPayment(a *domain.MedicalAccount, expectedPaid decimal.Decimal) error {
	query := `
		UPDATE medical_accounts
		SET paid_amount = $1, status = $2, paid_at = $3, updated_at = NOW()
		WHERE id = $4
		  AND paid_amount = $5
	`

	result, err := r.db.Exec(query, a.PaidAmount, a.Status, a.PaidAt, a.ID, expectedPaid)
	if err != nil {
		logger.GetLogger().WithError(err).WithField("account_id", a.ID).Error("Failed to apply account payment")
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

func (r *accountRepository) UpdateStatus(id string, status domain.AccountStatus) error {
	query := `UPDATE medical_accounts SET status = $1, updated_at = NOW() WHERE id = $2`

	result, err := r.db.Exec(query, status, id)
	if err != nil {
		logger.GetLogger().WithError(err).WithField("account_id", id).Error("Failed to update account status")
		return err
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return domain.ErrAccountNotFound
	}

	return nil
}

func (r *accountRepository) ApplyGlosa(a *domain.MedicalAccount) error {
	query := `
		UPDATE medical_accounts
		SET glosa_amount = $1, status = $2, updated_at = NOW()
		WHERE id = $3
	`

	result, err := r.db.Exec(query, a.GlosaAmount, a.Status, a.ID)
	if err != nil {
		logger.GetLogger().WithError(err).WithField("account_id", a.ID).Error("Failed to apply glosa to account")
		return err
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return domain.ErrAccountNotFound
	}

	return nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func (r *accountRepository) scanAccount(row rowScanner) (*domain.MedicalAccount, error) {
	var a domain.MedicalAccount
	var paidAt sql.NullTime

	err := row.Scan(
		&a.ID,
		&a.AccountNumber,
		&a.OrganizationID,
		&a.InsurerName,
		&a.PatientName,
		&a.TotalAmount,
		&a.ApprovedAmount,
		&a.GlosaAmount,
		&a.PaidAmount,
		&a.Status,
		&paidAt,
		&a.CreatedAt,
		&a.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	if paidAt.Valid {
		t := paidAt.Time.UTC()
		a.PaidAt = &t
	}

	return &a, nil
}
