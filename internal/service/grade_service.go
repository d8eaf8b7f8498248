package service

import (
	"context"
	"database/sql"
	"fmt"
	"sort"

	"github.com/go-playground/validator/v10"
	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"

	"github.com/labsyncpro/labsync-api/internal/models"
	appErrors "github.com/labsyncpro/labsync-api/pkg/errors"
)

type gradeScaleRepository interface {
	List(ctx context.Context) ([]models.GradeScale, error)
	Replace(ctx context.Context, exec sqlx.ExtContext, scales []models.GradeScale) error
}

type gradeTxProvider interface {
	BeginTxx(ctx context.Context, opts *sql.TxOptions) (*sqlx.Tx, error)
}

// GradeScaleInput is one row in a replace-scale payload.
type GradeScaleInput struct {
	GradeLabel string  `json:"grade_label" validate:"required"`
	MinScore   float64 `json:"min_score" validate:"min=0,max=100"`
	MaxScore   float64 `json:"max_score" validate:"min=0,max=100"`
	GradePoint float64 `json:"grade_point" validate:"min=0"`
}

// ReplaceGradeScaleRequest swaps the whole grading scale atomically.
type ReplaceGradeScaleRequest struct {
	Scales []GradeScaleInput `json:"scales" validate:"required,min=1,dive"`
}

// GradeService manages the school-wide letter grading scale.
type GradeService struct {
	repo      gradeScaleRepository
	tx        gradeTxProvider
	validator *validator.Validate
	logger    *zap.Logger
}

// NewGradeService constructs a GradeService.
func NewGradeService(repo gradeScaleRepository, tx gradeTxProvider, validate *validator.Validate, logger *zap.Logger) *GradeService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &GradeService{repo: repo, tx: tx, validator: validate, logger: logger}
}

// List returns the grading scale ordered from the highest band down.
func (s *GradeService) List(ctx context.Context) ([]models.GradeScale, error) {
	scales, err := s.repo.List(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list grade scales")
	}
	return scales, nil
}

// Replace swaps the full grading scale. Bands must not overlap and each must
// have min below max.
func (s *GradeService) Replace(ctx context.Context, req ReplaceGradeScaleRequest) ([]models.GradeScale, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid grade scale payload")
	}

	scales := make([]models.GradeScale, 0, len(req.Scales))
	for _, in := range req.Scales {
		if in.MinScore >= in.MaxScore {
			return nil, appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("grade %s: min score must be below max score", in.GradeLabel))
		}
		scales = append(scales, models.GradeScale{
			GradeLabel: in.GradeLabel,
			MinScore:   in.MinScore,
			MaxScore:   in.MaxScore,
			GradePoint: in.GradePoint,
		})
	}
	sort.Slice(scales, func(i, j int) bool { return scales[i].MinScore < scales[j].MinScore })
	for i := 1; i < len(scales); i++ {
		if scales[i].MinScore < scales[i-1].MaxScore {
			return nil, appErrors.Clone(appErrors.ErrValidation,
				fmt.Sprintf("grades %s and %s have overlapping score ranges", scales[i-1].GradeLabel, scales[i].GradeLabel))
		}
	}

	tx, err := s.tx.BeginTxx(ctx, nil)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to open transaction")
	}
	defer func() { _ = tx.Rollback() }()

	if err := s.repo.Replace(ctx, tx, scales); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to replace grade scales")
	}
	if err := tx.Commit(); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to commit grade scales")
	}
	return s.List(ctx)
}

// GradeFor maps a score onto the configured scale.
func (s *GradeService) GradeFor(ctx context.Context, score float64) (*models.GradeScale, error) {
	scales, err := s.List(ctx)
	if err != nil {
		return nil, err
	}
	for i := range scales {
		if score >= scales[i].MinScore && score <= scales[i].MaxScore {
			return &scales[i], nil
		}
	}
	return nil, appErrors.Clone(appErrors.ErrNotFound, fmt.Sprintf("no grade band covers score %.2f", score))
}
