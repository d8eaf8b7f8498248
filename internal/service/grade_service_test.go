package service

import (
	"context"
	"testing"

	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/labsyncpro/labsync-api/internal/models"
	appErrors "github.com/labsyncpro/labsync-api/pkg/errors"
)

type gradeScaleRepoStub struct {
	scales []models.GradeScale
}

func (s *gradeScaleRepoStub) List(ctx context.Context) ([]models.GradeScale, error) {
	return s.scales, nil
}

func (s *gradeScaleRepoStub) Replace(ctx context.Context, exec sqlx.ExtContext, scales []models.GradeScale) error {
	s.scales = scales
	return nil
}

func TestGradeReplaceRejectsOverlappingBands(t *testing.T) {
	tx, _ := newVersionTxMock(t)
	svc := NewGradeService(&gradeScaleRepoStub{}, tx, nil, nil)

	_, err := svc.Replace(context.Background(), ReplaceGradeScaleRequest{
		Scales: []GradeScaleInput{
			{GradeLabel: "A", MinScore: 80, MaxScore: 100, GradePoint: 4},
			{GradeLabel: "B", MinScore: 75, MaxScore: 85, GradePoint: 3},
		},
	})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)
}

func TestGradeReplaceAndLookup(t *testing.T) {
	repo := &gradeScaleRepoStub{}
	tx, mock := newVersionTxMock(t)
	mock.ExpectBegin()
	mock.ExpectCommit()
	svc := NewGradeService(repo, tx, nil, nil)

	scales, err := svc.Replace(context.Background(), ReplaceGradeScaleRequest{
		Scales: []GradeScaleInput{
			{GradeLabel: "B", MinScore: 60, MaxScore: 79.99, GradePoint: 3},
			{GradeLabel: "A", MinScore: 80, MaxScore: 100, GradePoint: 4},
		},
	})
	require.NoError(t, err)
	require.Len(t, scales, 2)
	assert.NoError(t, mock.ExpectationsWereMet())

	band, err := svc.GradeFor(context.Background(), 85)
	require.NoError(t, err)
	assert.Equal(t, "A", band.GradeLabel)

	_, err = svc.GradeFor(context.Background(), 200)
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrNotFound.Code, appErrors.FromError(err).Code)
}
