package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/labsyncpro/labsync-api/internal/models"
)

// SessionRepository provides persistence for scheduled sessions.
type SessionRepository struct {
	db *sqlx.DB
}

// NewSessionRepository creates a new session repository.
func NewSessionRepository(db *sqlx.DB) *SessionRepository {
	return &SessionRepository{db: db}
}

func (r *SessionRepository) exec(exec sqlx.ExtContext) sqlx.ExtContext {
	if exec != nil {
		return exec
	}
	return r.db
}

const sessionColumns = `id, version_id, period_id, schedule_date, session_title, session_type, lab_id, instructor_id, class_id, group_id, status, notes, created_at, updated_at`

// List returns sessions with optional filtering and pagination.
func (r *SessionRepository) List(ctx context.Context, filter models.SessionFilter) ([]models.Session, int, error) {
	base := "FROM sessions WHERE 1=1"
	var conditions []string
	var args []interface{}

	if filter.VersionID != "" {
		conditions = append(conditions, fmt.Sprintf("version_id = $%d", len(args)+1))
		args = append(args, filter.VersionID)
	}
	if filter.PeriodID != "" {
		conditions = append(conditions, fmt.Sprintf("period_id = $%d", len(args)+1))
		args = append(args, filter.PeriodID)
	}
	if filter.LabID != "" {
		conditions = append(conditions, fmt.Sprintf("lab_id = $%d", len(args)+1))
		args = append(args, filter.LabID)
	}
	if filter.InstructorID != "" {
		conditions = append(conditions, fmt.Sprintf("instructor_id = $%d", len(args)+1))
		args = append(args, filter.InstructorID)
	}
	if filter.ClassID != "" {
		conditions = append(conditions, fmt.Sprintf("class_id = $%d", len(args)+1))
		args = append(args, filter.ClassID)
	}
	if filter.Status != "" {
		conditions = append(conditions, fmt.Sprintf("status = $%d", len(args)+1))
		args = append(args, filter.Status)
	}
	if filter.DateFrom != nil {
		conditions = append(conditions, fmt.Sprintf("schedule_date >= $%d", len(args)+1))
		args = append(args, *filter.DateFrom)
	}
	if filter.DateTo != nil {
		conditions = append(conditions, fmt.Sprintf("schedule_date <= $%d", len(args)+1))
		args = append(args, *filter.DateTo)
	}

	if len(conditions) > 0 {
		base += " AND " + strings.Join(conditions, " AND ")
	}

	sortBy := filter.SortBy
	allowedSorts := map[string]bool{
		"schedule_date": true,
		"session_title": true,
		"status":        true,
		"created_at":    true,
	}
	if !allowedSorts[sortBy] {
		sortBy = "schedule_date"
	}
	order := strings.ToUpper(filter.SortOrder)
	if order != "ASC" && order != "DESC" {
		order = "ASC"
	}

	page := filter.Page
	if page < 1 {
		page = 1
	}
	size := filter.PageSize
	if size <= 0 || size > 100 {
		size = 20
	}
	offset := (page - 1) * size

	query := fmt.Sprintf("SELECT %s %s ORDER BY %s %s LIMIT %d OFFSET %d", sessionColumns, base, sortBy, order, size, offset)
	var sessions []models.Session
	if err := r.db.SelectContext(ctx, &sessions, query, args...); err != nil {
		return nil, 0, fmt.Errorf("list sessions: %w", err)
	}

	countQuery := fmt.Sprintf("SELECT COUNT(*) %s", base)
	var total int
	if err := r.db.GetContext(ctx, &total, countQuery, args...); err != nil {
		return nil, 0, fmt.Errorf("count sessions: %w", err)
	}

	return sessions, total, nil
}

// FindByID loads a session by id.
func (r *SessionRepository) FindByID(ctx context.Context, id string) (*models.Session, error) {
	query := fmt.Sprintf(`SELECT %s FROM sessions WHERE id = $1`, sessionColumns)
	var session models.Session
	if err := r.db.GetContext(ctx, &session, query, id); err != nil {
		return nil, err
	}
	return &session, nil
}

// ListDetailByDate returns non-deleted sessions on a date joined with their
// period time ranges, for conflict evaluation and timetable rendering.
func (r *SessionRepository) ListDetailByDate(ctx context.Context, date time.Time) ([]models.SessionDetail, error) {
	const query = `
SELECT s.id, s.version_id, s.period_id, s.schedule_date, s.session_title, s.session_type,
       s.lab_id, s.instructor_id, s.class_id, s.group_id, s.status, s.notes, s.created_at, s.updated_at,
       p.period_number, p.period_name, p.start_time, p.end_time
FROM sessions s
JOIN periods p ON p.id = s.period_id
WHERE s.schedule_date = $1
ORDER BY p.display_order ASC`
	var details []models.SessionDetail
	if err := r.db.SelectContext(ctx, &details, query, date); err != nil {
		return nil, fmt.Errorf("list session detail by date: %w", err)
	}
	return details, nil
}

// CountByVersion returns the number of sessions pointing at a version.
func (r *SessionRepository) CountByVersion(ctx context.Context, versionID string) (int, error) {
	var total int
	if err := r.db.GetContext(ctx, &total, `SELECT COUNT(*) FROM sessions WHERE version_id = $1`, versionID); err != nil {
		return 0, fmt.Errorf("count sessions by version: %w", err)
	}
	return total, nil
}

// Create stores a new session record.
func (r *SessionRepository) Create(ctx context.Context, session *models.Session) error {
	if session.ID == "" {
		session.ID = uuid.NewString()
	}
	if session.Status == "" {
		session.Status = models.SessionStatusScheduled
	}
	now := time.Now().UTC()
	if session.CreatedAt.IsZero() {
		session.CreatedAt = now
	}
	session.UpdatedAt = now

	const query = `
INSERT INTO sessions (id, version_id, period_id, schedule_date, session_title, session_type, lab_id, instructor_id, class_id, group_id, status, notes, created_at, updated_at)
VALUES (:id, :version_id, :period_id, :schedule_date, :session_title, :session_type, :lab_id, :instructor_id, :class_id, :group_id, :status, :notes, :created_at, :updated_at)`
	if _, err := r.db.NamedExecContext(ctx, query, session); err != nil {
		return fmt.Errorf("create session: %w", err)
	}
	return nil
}

// Update modifies a session record.
func (r *SessionRepository) Update(ctx context.Context, session *models.Session) error {
	session.UpdatedAt = time.Now().UTC()
	const query = `
UPDATE sessions SET version_id = :version_id, period_id = :period_id, schedule_date = :schedule_date,
       session_title = :session_title, session_type = :session_type, lab_id = :lab_id,
       instructor_id = :instructor_id, class_id = :class_id, group_id = :group_id,
       status = :status, notes = :notes, updated_at = :updated_at
WHERE id = :id`
	result, err := r.db.NamedExecContext(ctx, query, session)
	if err != nil {
		return fmt.Errorf("update session: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("update session rows affected: %w", err)
	}
	if affected == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// Delete removes a session by id.
func (r *SessionRepository) Delete(ctx context.Context, id string) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM sessions WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete session: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete session rows affected: %w", err)
	}
	if affected == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// RepointFromDate moves sessions dated on/after the pivot onto a new version,
// remapping period references by period_number. Sessions whose period number
// has no counterpart in the target version are left untouched.
func (r *SessionRepository) RepointFromDate(ctx context.Context, exec sqlx.ExtContext, fromVersionID, toVersionID string, pivot time.Time) (int64, error) {
	target := r.exec(exec)
	const query = `
UPDATE sessions s
SET version_id = $2,
    period_id = np.id,
    updated_at = NOW()
FROM periods op
JOIN periods np ON np.version_id = $2 AND np.period_number = op.period_number
WHERE s.period_id = op.id
  AND s.version_id = $1
  AND s.schedule_date >= $3`
	result, err := target.ExecContext(ctx, query, fromVersionID, toVersionID, pivot)
	if err != nil {
		return 0, fmt.Errorf("repoint sessions to version: %w", err)
	}
	moved, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("repoint sessions rows affected: %w", err)
	}
	return moved, nil
}
