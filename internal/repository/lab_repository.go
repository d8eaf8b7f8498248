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

// LabRepository handles persistence for labs and their computers.
type LabRepository struct {
	db *sqlx.DB
}

// NewLabRepository instantiates a lab repository.
func NewLabRepository(db *sqlx.DB) *LabRepository {
	return &LabRepository{db: db}
}

const labColumns = `id, name, location, capacity, description, is_available, created_at, updated_at`

// List returns labs matching provided filters.
func (r *LabRepository) List(ctx context.Context, filter models.LabFilter) ([]models.Lab, int, error) {
	base := "FROM labs WHERE 1=1"
	var conditions []string
	var args []interface{}

	if filter.Available != nil {
		conditions = append(conditions, fmt.Sprintf("is_available = $%d", len(args)+1))
		args = append(args, *filter.Available)
	}
	if filter.Search != "" {
		conditions = append(conditions, fmt.Sprintf("(name ILIKE $%d OR location ILIKE $%d)", len(args)+1, len(args)+1))
		args = append(args, "%"+filter.Search+"%")
	}

	if len(conditions) > 0 {
		base += " AND " + strings.Join(conditions, " AND ")
	}

	sortBy := filter.SortBy
	allowedSorts := map[string]bool{
		"name":       true,
		"location":   true,
		"capacity":   true,
		"created_at": true,
	}
	if !allowedSorts[sortBy] {
		sortBy = "name"
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

	query := fmt.Sprintf("SELECT %s %s ORDER BY %s %s LIMIT %d OFFSET %d", labColumns, base, sortBy, order, size, offset)
	var labs []models.Lab
	if err := r.db.SelectContext(ctx, &labs, query, args...); err != nil {
		return nil, 0, fmt.Errorf("list labs: %w", err)
	}

	countQuery := fmt.Sprintf("SELECT COUNT(*) %s", base)
	var total int
	if err := r.db.GetContext(ctx, &total, countQuery, args...); err != nil {
		return nil, 0, fmt.Errorf("count labs: %w", err)
	}

	return labs, total, nil
}

// FindByID loads a lab by identifier.
func (r *LabRepository) FindByID(ctx context.Context, id string) (*models.Lab, error) {
	query := fmt.Sprintf(`SELECT %s FROM labs WHERE id = $1`, labColumns)
	var lab models.Lab
	if err := r.db.GetContext(ctx, &lab, query, id); err != nil {
		return nil, err
	}
	return &lab, nil
}

// Create stores a new lab.
func (r *LabRepository) Create(ctx context.Context, lab *models.Lab) error {
	if lab.ID == "" {
		lab.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	if lab.CreatedAt.IsZero() {
		lab.CreatedAt = now
	}
	lab.UpdatedAt = now

	const query = `
INSERT INTO labs (id, name, location, capacity, description, is_available, created_at, updated_at)
VALUES (:id, :name, :location, :capacity, :description, :is_available, :created_at, :updated_at)`
	if _, err := r.db.NamedExecContext(ctx, query, lab); err != nil {
		return fmt.Errorf("create lab: %w", err)
	}
	return nil
}

// Update modifies a lab record.
func (r *LabRepository) Update(ctx context.Context, lab *models.Lab) error {
	lab.UpdatedAt = time.Now().UTC()
	const query = `
UPDATE labs SET name = :name, location = :location, capacity = :capacity,
       description = :description, is_available = :is_available, updated_at = :updated_at
WHERE id = :id`
	result, err := r.db.NamedExecContext(ctx, query, lab)
	if err != nil {
		return fmt.Errorf("update lab: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("update lab rows affected: %w", err)
	}
	if affected == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// Delete removes a lab by id.
func (r *LabRepository) Delete(ctx context.Context, id string) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM labs WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete lab: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete lab rows affected: %w", err)
	}
	if affected == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// ListComputers returns the computers inventoried in a lab.
func (r *LabRepository) ListComputers(ctx context.Context, labID string) ([]models.Computer, error) {
	const query = `SELECT id, lab_id, computer_name, computer_number, status, specifications, created_at, updated_at
FROM computers WHERE lab_id = $1 ORDER BY computer_number ASC`
	var computers []models.Computer
	if err := r.db.SelectContext(ctx, &computers, query, labID); err != nil {
		return nil, fmt.Errorf("list computers for lab: %w", err)
	}
	return computers, nil
}

// UpsertComputer creates or updates a computer row keyed on lab + number.
func (r *LabRepository) UpsertComputer(ctx context.Context, computer *models.Computer) error {
	if computer.ID == "" {
		computer.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	if computer.CreatedAt.IsZero() {
		computer.CreatedAt = now
	}
	computer.UpdatedAt = now

	const query = `
INSERT INTO computers (id, lab_id, computer_name, computer_number, status, specifications, created_at, updated_at)
VALUES (:id, :lab_id, :computer_name, :computer_number, :status, :specifications, :created_at, :updated_at)
ON CONFLICT (lab_id, computer_number) DO UPDATE
SET computer_name = EXCLUDED.computer_name, status = EXCLUDED.status,
    specifications = EXCLUDED.specifications, updated_at = EXCLUDED.updated_at`
	if _, err := r.db.NamedExecContext(ctx, query, computer); err != nil {
		return fmt.Errorf("upsert computer: %w", err)
	}
	return nil
}
