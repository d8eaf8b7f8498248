package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/labsyncpro/labsync-api/internal/models"
)

// GradeScaleRepository persists the institution-wide grading scale.
type GradeScaleRepository struct {
	db *sqlx.DB
}

// NewGradeScaleRepository constructs the repository.
func NewGradeScaleRepository(db *sqlx.DB) *GradeScaleRepository {
	return &GradeScaleRepository{db: db}
}

// List returns the grade scale ordered from highest band down.
func (r *GradeScaleRepository) List(ctx context.Context) ([]models.GradeScale, error) {
	const query = `SELECT id, grade_label, min_score, max_score, grade_point, created_at, updated_at
FROM grade_scales ORDER BY min_score DESC`
	var scales []models.GradeScale
	if err := r.db.SelectContext(ctx, &scales, query); err != nil {
		return nil, fmt.Errorf("list grade scales: %w", err)
	}
	return scales, nil
}

// Replace swaps the entire grade scale atomically.
func (r *GradeScaleRepository) Replace(ctx context.Context, exec sqlx.ExtContext, scales []models.GradeScale) error {
	target := sqlx.ExtContext(r.db)
	if exec != nil {
		target = exec
	}
	if _, err := target.ExecContext(ctx, `DELETE FROM grade_scales`); err != nil {
		return fmt.Errorf("clear grade scales: %w", err)
	}
	now := time.Now().UTC()
	for i := range scales {
		payload := scales[i]
		if payload.ID == "" {
			payload.ID = uuid.NewString()
		}
		if payload.CreatedAt.IsZero() {
			payload.CreatedAt = now
		}
		payload.UpdatedAt = now

		const query = `
INSERT INTO grade_scales (id, grade_label, min_score, max_score, grade_point, created_at, updated_at)
VALUES (:id, :grade_label, :min_score, :max_score, :grade_point, :created_at, :updated_at)`
		if _, err := sqlx.NamedExecContext(ctx, target, query, &payload); err != nil {
			return fmt.Errorf("insert grade scale %s: %w", payload.GradeLabel, err)
		}
		scales[i] = payload
	}
	return nil
}
