package repository

import (
	"database/sql"

	"revcycle-engine/internal/domain"
	"revcycle-engine/pkg/logger"
)

type GlosaRepository interface {
	Create(g *domain.Glosa) error
	GetByID(id string) (*domain.Glosa, error)
	ListByAccount(accountID string) ([]domain.Glosa, error)
	UpdateAppeal(g *domain.Glosa) error
	Delete(id string) error
}

type glosaRepository struct {
	db *sql.DB
}

func NewGlosaRepository(db *sql.DB) GlosaRepository {
	return &glosaRepository{db: db}
}

func (r *glosaRepository) Create(g *domain.Glosa) error {
	query := `
		INSERT INTO glosas (
			id, account_id, reason, original_amount, glosa_amount, appeal_status
		) VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING created_at, updated_at
	`

	err := r.db.QueryRow(
		query,
		g.ID,
		g.AccountID,
		g.Reason,
		g.OriginalAmount,
		g.GlosaAmount,
		g.AppealStatus,
	).Scan(&g.CreatedAt, &g.UpdatedAt)

	if err != nil {
		logger.GetLogger().WithError(err).Error("Failed to create glosa")
		return err
	}

	return nil
}

func (r *glosaRepository) GetByID(id string) (*domain.Glosa, error) {
	query := `
		SELECT id, account_id, reason, original_amount, glosa_amount,
			   appeal_status, appeal_text, appeal_sent_at, resolved_at,
			   created_at, updated_at
		FROM glosas
		WHERE id = $1
	`

	var g domain.Glosa
	err := r.db.QueryRow(query, id).Scan(
		&g.ID,
		&g.AccountID,
		&g.Reason,
		&g.OriginalAmount,
		&g.GlosaAmount,
		&g.AppealStatus,
		&g.AppealText,
		&g.AppealSentAt,
		&g.ResolvedAt,
		&g.CreatedAt,
		&g.UpdatedAt,
	)

	if err == sql.ErrNoRows {
		return nil, domain.ErrGlosaNotFound
	}
	if err != nil {
		logger.GetLogger().WithError(err).Error("Failed to get glosa")
		return nil, err
	}

	return &g, nil
}

func (r *glosaRepository) ListByAccount(accountID string) ([]domain.Glosa, error) {
	query := `
		SELECT id, account_id, reason, original_amount, glosa_amount,
			   appeal_status, appeal_text, appeal_sent_at, resolved_at,
			   created_at, updated_at
		FROM glosas
		WHERE account_id = $1
		ORDER BY created_at
	`

	rows, err := r.db.Query(query, accountID)
	if err != nil {
		logger.GetLogger().WithError(err).Error("Failed to query glosas")
		return nil, err
	}
	defer rows.Close()

	var glosas []domain.Glosa
	for rows.Next() {
		var g domain.Glosa
		err := rows.Scan(
			&g.ID,
			&g.AccountID,
			&g.Reason,
			&g.OriginalAmount,
			&g.GlosaAmount,
			&g.AppealStatus,
			&g.AppealText,
			&g.AppealSentAt,
			&g.ResolvedAt,
			&g.CreatedAt,
			&g.UpdatedAt,
		)
		if err != nil {
			logger.GetLogger().WithError(err).Error("Failed to scan glosa")
			continue
		}
		glosas = append(glosas, g)
	}

	return glosas, rows.Err()
}

func (r *glosaRepository) UpdateAppeal(g *domain.Glosa) error {
	query := `
		UPDATE glosas
		SET appeal_status = $1, appeal_text = $2, appeal_sent_at = $3,
			resolved_at = $4, updated_at = NOW()
		WHERE id = $5
	`

	result, err := r.db.Exec(
		query,
		g.AppealStatus,
		g.AppealText,
		g.AppealSentAt,
		g.ResolvedAt,
		g.ID,
	)
	if err != nil {
		logger.GetLogger().WithError(err).WithField("glosa_id", g.ID).Error("Failed to update glosa appeal")
		return err
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return domain.ErrGlosaNotFound
	}

	return nil
}

func (r *glosaRepository) Delete(id string) error {
	result, err := r.db.Exec(`DELETE FROM glosas WHERE id = $1`, id)
	if err != nil {
		logger.GetLogger().WithError(err).WithField("glosa_id", id).Error("Failed to delete glosa")
		return err
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return domain.ErrGlosaNotFound
	}

	return nil
}
