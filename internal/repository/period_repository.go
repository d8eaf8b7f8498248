package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/labsyncpro/labsync-api/internal/models"
)

// PeriodRepository persists the period set owned by each timetable version.
type PeriodRepository struct {
	db *sqlx.DB
}

// NewPeriodRepository constructs the repository.
func NewPeriodRepository(db *sqlx.DB) *PeriodRepository {
	return &PeriodRepository{db: db}
}

func (r *PeriodRepository) exec(exec sqlx.ExtContext) sqlx.ExtContext {
	if exec != nil {
		return exec
	}
	return r.db
}

const periodColumns = `id, version_id, period_number, period_name, start_time, end_time, is_break, break_duration_minutes, display_order, created_at, updated_at`

// ListByVersion returns a version's periods in display order.
func (r *PeriodRepository) ListByVersion(ctx context.Context, versionID string) ([]models.Period, error) {
	query := fmt.Sprintf(`SELECT %s FROM periods WHERE version_id = $1 ORDER BY display_order ASC`, periodColumns)
	var periods []models.Period
	if err := r.db.SelectContext(ctx, &periods, query, versionID); err != nil {
		return nil, fmt.Errorf("list periods for version: %w", err)
	}
	return periods, nil
}

// FindByID loads a period by id.
func (r *PeriodRepository) FindByID(ctx context.Context, id string) (*models.Period, error) {
	query := fmt.Sprintf(`SELECT %s FROM periods WHERE id = $1`, periodColumns)
	var period models.Period
	if err := r.db.GetContext(ctx, &period, query, id); err != nil {
		return nil, err
	}
	return &period, nil
}

// ReplaceForVersion swaps a version's full period set inside one transaction
// scope provided by the caller.
func (r *PeriodRepository) ReplaceForVersion(ctx context.Context, exec sqlx.ExtContext, versionID string, periods []models.Period) error {
	target := r.exec(exec)
	if _, err := target.ExecContext(ctx, `DELETE FROM periods WHERE version_id = $1`, versionID); err != nil {
		return fmt.Errorf("clear periods for version: %w", err)
	}
	return r.insertPeriods(ctx, target, versionID, periods)
}

// CopyToVersion duplicates every period of one version into another.
func (r *PeriodRepository) CopyToVersion(ctx context.Context, exec sqlx.ExtContext, fromVersionID, toVersionID string) error {
	target := r.exec(exec)
	const query = `
INSERT INTO periods (id, version_id, period_number, period_name, start_time, end_time, is_break, break_duration_minutes, display_order, created_at, updated_at)
SELECT uuid_generate_v4(), $2, period_number, period_name, start_time, end_time, is_break, break_duration_minutes, display_order, NOW(), NOW()
FROM periods WHERE version_id = $1`
	if _, err := target.ExecContext(ctx, query, fromVersionID, toVersionID); err != nil {
		return fmt.Errorf("copy periods to version: %w", err)
	}
	return nil
}

func (r *PeriodRepository) insertPeriods(ctx context.Context, exec sqlx.ExtContext, versionID string, periods []models.Period) error {
	now := time.Now().UTC()
	for i := range periods {
		payload := periods[i]
		payload.VersionID = versionID
		if payload.ID == "" {
			payload.ID = uuid.NewString()
		}
		if payload.CreatedAt.IsZero() {
			payload.CreatedAt = now
		}
		payload.UpdatedAt = now

		const query = `
INSERT INTO periods (id, version_id, period_number, period_name, start_time, end_time, is_break, break_duration_minutes, display_order, created_at, updated_at)
VALUES (:id, :version_id, :period_number, :period_name, :start_time, :end_time, :is_break, :break_duration_minutes, :display_order, :created_at, :updated_at)`
		if _, err := sqlx.NamedExecContext(ctx, exec, query, &payload); err != nil {
			return fmt.Errorf("insert period %d: %w", payload.PeriodNumber, err)
		}
		periods[i] = payload
	}
	return nil
}
