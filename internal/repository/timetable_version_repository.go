package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/labsyncpro/labsync-api/internal/models"
)

// TimetableVersionRepository persists the append-only version history.
type TimetableVersionRepository struct {
	db *sqlx.DB
}

// NewTimetableVersionRepository constructs the repository.
func NewTimetableVersionRepository(db *sqlx.DB) *TimetableVersionRepository {
	return &TimetableVersionRepository{db: db}
}

func (r *TimetableVersionRepository) exec(exec sqlx.ExtContext) sqlx.ExtContext {
	if exec != nil {
		return exec
	}
	return r.db
}

const versionColumns = `id, version_number, version_name, description, effective_from, effective_until, created_by, created_at, updated_at`

// List returns all versions ordered by effective_from descending.
func (r *TimetableVersionRepository) List(ctx context.Context) ([]models.TimetableVersion, error) {
	query := fmt.Sprintf(`SELECT %s FROM timetable_versions ORDER BY effective_from DESC`, versionColumns)
	var versions []models.TimetableVersion
	if err := r.db.SelectContext(ctx, &versions, query); err != nil {
		return nil, fmt.Errorf("list timetable versions: %w", err)
	}
	return versions, nil
}

// FindByID loads a version by its identifier.
func (r *TimetableVersionRepository) FindByID(ctx context.Context, id string) (*models.TimetableVersion, error) {
	query := fmt.Sprintf(`SELECT %s FROM timetable_versions WHERE id = $1`, versionColumns)
	var version models.TimetableVersion
	if err := r.db.GetContext(ctx, &version, query, id); err != nil {
		return nil, err
	}
	return &version, nil
}

// Create inserts a version assigning the next sequential version number.
func (r *TimetableVersionRepository) Create(ctx context.Context, exec sqlx.ExtContext, version *models.TimetableVersion) error {
	if version == nil {
		return fmt.Errorf("version payload is nil")
	}
	if version.ID == "" {
		version.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	if version.CreatedAt.IsZero() {
		version.CreatedAt = now
	}
	version.UpdatedAt = now

	target := r.exec(exec)

	const nextNumberQuery = `SELECT COALESCE(MAX(version_number), 0) + 1 FROM timetable_versions`
	if err := sqlx.GetContext(ctx, target, &version.VersionNumber, nextNumberQuery); err != nil {
		return fmt.Errorf("compute next version number: %w", err)
	}

	const insertQuery = `
INSERT INTO timetable_versions (id, version_number, version_name, description, effective_from, effective_until, created_by, created_at, updated_at)
VALUES (:id, :version_number, :version_name, :description, :effective_from, :effective_until, :created_by, :created_at, :updated_at)`
	if _, err := sqlx.NamedExecContext(ctx, target, insertQuery, version); err != nil {
		return fmt.Errorf("insert timetable version: %w", err)
	}
	return nil
}

// UpdateEffectiveRange re-dates a version's coverage window.
func (r *TimetableVersionRepository) UpdateEffectiveRange(ctx context.Context, exec sqlx.ExtContext, id string, from time.Time, until *time.Time) error {
	target := r.exec(exec)
	const query = `UPDATE timetable_versions SET effective_from = $1, effective_until = $2, updated_at = $3 WHERE id = $4`
	result, err := target.ExecContext(ctx, query, from, until, time.Now().UTC(), id)
	if err != nil {
		return fmt.Errorf("update version effective range: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("version effective range rows affected: %w", err)
	}
	if affected == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// SetEffectiveUntil caps a version's coverage at the given date.
func (r *TimetableVersionRepository) SetEffectiveUntil(ctx context.Context, exec sqlx.ExtContext, id string, until time.Time) error {
	target := r.exec(exec)
	const query = `UPDATE timetable_versions SET effective_until = $1, updated_at = $2 WHERE id = $3`
	result, err := target.ExecContext(ctx, query, until, time.Now().UTC(), id)
	if err != nil {
		return fmt.Errorf("cap version effective until: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("cap version rows affected: %w", err)
	}
	if affected == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// Delete removes a version; owned periods go with it via cascade.
func (r *TimetableVersionRepository) Delete(ctx context.Context, id string) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM timetable_versions WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete timetable version: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete version rows affected: %w", err)
	}
	if affected == 0 {
		return sql.ErrNoRows
	}
	return nil
}
