package service

import (
	"context"
	"database/sql"
	"errors"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/labsyncpro/labsync-api/internal/models"
	appErrors "github.com/labsyncpro/labsync-api/pkg/errors"
)

type labRepository interface {
	List(ctx context.Context, filter models.LabFilter) ([]models.Lab, int, error)
	FindByID(ctx context.Context, id string) (*models.Lab, error)
	Create(ctx context.Context, lab *models.Lab) error
	Update(ctx context.Context, lab *models.Lab) error
	Delete(ctx context.Context, id string) error
	ListComputers(ctx context.Context, labID string) ([]models.Computer, error)
	UpsertComputer(ctx context.Context, computer *models.Computer) error
}

// LabRequest captures create/update payloads for labs.
type LabRequest struct {
	Name        string `json:"name" validate:"required"`
	Location    string `json:"location"`
	Capacity    int    `json:"capacity" validate:"min=0"`
	Description string `json:"description"`
	IsAvailable *bool  `json:"is_available"`
}

// ComputerRequest captures upsert payloads for lab computers.
type ComputerRequest struct {
	ComputerName   string `json:"computer_name" validate:"required"`
	ComputerNumber int    `json:"computer_number" validate:"required,min=1"`
	Status         string `json:"status" validate:"omitempty,oneof=FUNCTIONAL MAINTENANCE RETIRED"`
	Specifications string `json:"specifications"`
}

// LabService manages laboratories and their workstation inventory.
type LabService struct {
	repo      labRepository
	validator *validator.Validate
	logger    *zap.Logger
}

// NewLabService constructs a LabService.
func NewLabService(repo labRepository, validate *validator.Validate, logger *zap.Logger) *LabService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &LabService{repo: repo, validator: validate, logger: logger}
}

// List returns labs matching the filter.
func (s *LabService) List(ctx context.Context, filter models.LabFilter) ([]models.Lab, int, error) {
	labs, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, 0, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list labs")
	}
	return labs, total, nil
}

// Get returns a lab by id.
func (s *LabService) Get(ctx context.Context, id string) (*models.Lab, error) {
	lab, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "lab not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load lab")
	}
	return lab, nil
}

// Create registers a new lab.
func (s *LabService) Create(ctx context.Context, req LabRequest) (*models.Lab, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid lab payload")
	}
	lab := &models.Lab{
		Name:        req.Name,
		Location:    req.Location,
		Capacity:    req.Capacity,
		Description: req.Description,
		IsAvailable: true,
	}
	if req.IsAvailable != nil {
		lab.IsAvailable = *req.IsAvailable
	}
	if err := s.repo.Create(ctx, lab); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create lab")
	}
	return lab, nil
}

// Update rewrites a lab record.
func (s *LabService) Update(ctx context.Context, id string, req LabRequest) (*models.Lab, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid lab payload")
	}
	lab, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	lab.Name = req.Name
	lab.Location = req.Location
	lab.Capacity = req.Capacity
	lab.Description = req.Description
	if req.IsAvailable != nil {
		lab.IsAvailable = *req.IsAvailable
	}
	if err := s.repo.Update(ctx, lab); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "lab not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update lab")
	}
	return lab, nil
}

// Delete removes a lab.
func (s *LabService) Delete(ctx context.Context, id string) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return appErrors.Clone(appErrors.ErrNotFound, "lab not found")
		}
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete lab")
	}
	return nil
}

// ListComputers returns the workstation inventory of a lab.
func (s *LabService) ListComputers(ctx context.Context, labID string) ([]models.Computer, error) {
	if _, err := s.Get(ctx, labID); err != nil {
		return nil, err
	}
	computers, err := s.repo.ListComputers(ctx, labID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list computers")
	}
	return computers, nil
}

// UpsertComputer creates or updates a workstation, keyed on lab and number.
func (s *LabService) UpsertComputer(ctx context.Context, labID string, req ComputerRequest) (*models.Computer, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid computer payload")
	}
	if _, err := s.Get(ctx, labID); err != nil {
		return nil, err
	}
	computer := &models.Computer{
		LabID:          labID,
		ComputerName:   req.ComputerName,
		ComputerNumber: req.ComputerNumber,
		Status:         models.ComputerStatusFunctional,
		Specifications: req.Specifications,
	}
	if req.Status != "" {
		computer.Status = models.ComputerStatus(req.Status)
	}
	if err := s.repo.UpsertComputer(ctx, computer); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to upsert computer")
	}
	return computer, nil
}
