package service

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/labsyncpro/labsync-api/internal/dto"
	"github.com/labsyncpro/labsync-api/internal/models"
	appErrors "github.com/labsyncpro/labsync-api/pkg/errors"
)

type sessionRepoStub struct {
	details []models.SessionDetail
	created *models.Session
	updated *models.Session
}

func (s *sessionRepoStub) List(ctx context.Context, filter models.SessionFilter) ([]models.Session, int, error) {
	sessions := make([]models.Session, 0, len(s.details))
	for _, d := range s.details {
		sessions = append(sessions, d.Session)
	}
	return sessions, len(sessions), nil
}

func (s *sessionRepoStub) FindByID(ctx context.Context, id string) (*models.Session, error) {
	for i := range s.details {
		if s.details[i].ID == id {
			return &s.details[i].Session, nil
		}
	}
	return nil, sql.ErrNoRows
}

func (s *sessionRepoStub) ListDetailByDate(ctx context.Context, date time.Time) ([]models.SessionDetail, error) {
	return s.details, nil
}

func (s *sessionRepoStub) Create(ctx context.Context, session *models.Session) error {
	session.ID = "s-created"
	s.created = session
	return nil
}

func (s *sessionRepoStub) Update(ctx context.Context, session *models.Session) error {
	s.updated = session
	return nil
}

func (s *sessionRepoStub) Delete(ctx context.Context, id string) error {
	for _, d := range s.details {
		if d.ID == id {
			return nil
		}
	}
	return sql.ErrNoRows
}

type periodReaderStub struct {
	periods map[string]models.Period
}

func (s *periodReaderStub) FindByID(ctx context.Context, id string) (*models.Period, error) {
	p, ok := s.periods[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	return &p, nil
}

func strPtr(v string) *string { return &v }

func sessionPeriods() *periodReaderStub {
	return &periodReaderStub{periods: map[string]models.Period{
		"p1": {ID: "p1", VersionID: "v1", PeriodNumber: 1, PeriodName: "Lecture 1", StartTime: "08:00", EndTime: "08:45"},
		"p2": {ID: "p2", VersionID: "v1", PeriodNumber: 2, PeriodName: "Lecture 2", StartTime: "08:45", EndTime: "09:30"},
		"pb": {ID: "pb", VersionID: "v1", PeriodNumber: 3, PeriodName: "Break 1", StartTime: "09:30", EndTime: "09:45", IsBreak: true},
	}}
}

func existingDetail(id, periodID, start, end string, mutate func(*models.SessionDetail)) models.SessionDetail {
	detail := models.SessionDetail{
		Session: models.Session{
			ID:           id,
			VersionID:    "v1",
			PeriodID:     periodID,
			ScheduleDate: date("2026-09-07"),
			SessionTitle: "Existing",
			SessionType:  models.SessionTypeLab,
			Status:       models.SessionStatusScheduled,
		},
		StartTime: start,
		EndTime:   end,
	}
	if mutate != nil {
		mutate(&detail)
	}
	return detail
}

func validCreateRequest() dto.CreateSessionRequest {
	return dto.CreateSessionRequest{
		ScheduleDate: "2026-09-07",
		PeriodID:     "p1",
		SessionTitle: "Networking Lab",
		SessionType:  "LAB",
		LabID:        strPtr("lab-1"),
	}
}

func TestCreateSessionDetectsLabConflict(t *testing.T) {
	repo := &sessionRepoStub{details: []models.SessionDetail{
		existingDetail("s1", "p1", "08:00", "08:45", func(d *models.SessionDetail) {
			d.LabID = strPtr("lab-1")
		}),
	}}
	svc := NewSessionService(repo, sessionPeriods(), false, nil, nil)

	result, err := svc.Create(context.Background(), validCreateRequest())
	require.NoError(t, err)
	require.NotNil(t, repo.created)
	require.Len(t, result.Conflicts, 1)
	assert.Equal(t, models.ConflictDimensionLab, result.Conflicts[0].Dimension)
	assert.Equal(t, "s1", result.Conflicts[0].SessionID)
	assert.Equal(t, "saved with 1 scheduling conflict(s)", result.Warning)
	assert.Equal(t, "v1", result.Session.VersionID)
}

func TestCreateSessionEnforcementRejectsConflicts(t *testing.T) {
	repo := &sessionRepoStub{details: []models.SessionDetail{
		existingDetail("s1", "p1", "08:00", "08:45", func(d *models.SessionDetail) {
			d.LabID = strPtr("lab-1")
		}),
	}}
	svc := NewSessionService(repo, sessionPeriods(), true, nil, nil)

	_, err := svc.Create(context.Background(), validCreateRequest())
	require.Error(t, err)
	var conflictErr *models.SessionConflictError
	require.True(t, errors.As(err, &conflictErr))
	assert.Len(t, conflictErr.Conflicts, 1)
	assert.Nil(t, repo.created)
}

func TestCreateSessionBackToBackPeriodsDoNotConflict(t *testing.T) {
	repo := &sessionRepoStub{details: []models.SessionDetail{
		existingDetail("s1", "p2", "08:45", "09:30", func(d *models.SessionDetail) {
			d.LabID = strPtr("lab-1")
		}),
	}}
	svc := NewSessionService(repo, sessionPeriods(), true, nil, nil)

	result, err := svc.Create(context.Background(), validCreateRequest())
	require.NoError(t, err)
	assert.Empty(t, result.Conflicts)
	assert.Empty(t, result.Warning)
}

func TestCreateSessionCancelledSessionsHoldNoResources(t *testing.T) {
	repo := &sessionRepoStub{details: []models.SessionDetail{
		existingDetail("s1", "p1", "08:00", "08:45", func(d *models.SessionDetail) {
			d.LabID = strPtr("lab-1")
			d.Status = models.SessionStatusCancelled
		}),
	}}
	svc := NewSessionService(repo, sessionPeriods(), true, nil, nil)

	result, err := svc.Create(context.Background(), validCreateRequest())
	require.NoError(t, err)
	assert.Empty(t, result.Conflicts)
}

func TestCreateSessionRejectsBreakPeriods(t *testing.T) {
	svc := NewSessionService(&sessionRepoStub{}, sessionPeriods(), false, nil, nil)

	req := validCreateRequest()
	req.PeriodID = "pb"
	_, err := svc.Create(context.Background(), req)
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)
}

func TestCreateSessionWholeClassBlocksEveryGroup(t *testing.T) {
	repo := &sessionRepoStub{details: []models.SessionDetail{
		existingDetail("s1", "p1", "08:00", "08:45", func(d *models.SessionDetail) {
			d.ClassID = strPtr("class-1")
		}),
	}}
	svc := NewSessionService(repo, sessionPeriods(), true, nil, nil)

	req := validCreateRequest()
	req.LabID = nil
	req.ClassID = strPtr("class-1")
	req.GroupID = strPtr("group-a")
	_, err := svc.Create(context.Background(), req)
	require.Error(t, err)
	var conflictErr *models.SessionConflictError
	require.True(t, errors.As(err, &conflictErr))
	assert.Equal(t, models.ConflictDimensionClass, conflictErr.Conflicts[0].Dimension)
}

func TestCreateSessionDisjointGroupsRunInParallel(t *testing.T) {
	repo := &sessionRepoStub{details: []models.SessionDetail{
		existingDetail("s1", "p1", "08:00", "08:45", func(d *models.SessionDetail) {
			d.ClassID = strPtr("class-1")
			d.GroupID = strPtr("group-a")
		}),
	}}
	svc := NewSessionService(repo, sessionPeriods(), true, nil, nil)

	req := validCreateRequest()
	req.LabID = nil
	req.ClassID = strPtr("class-1")
	req.GroupID = strPtr("group-b")
	result, err := svc.Create(context.Background(), req)
	require.NoError(t, err)
	assert.Empty(t, result.Conflicts)
}

func TestUpdateSessionExcludesItselfFromConflictCheck(t *testing.T) {
	repo := &sessionRepoStub{details: []models.SessionDetail{
		existingDetail("s1", "p1", "08:00", "08:45", func(d *models.SessionDetail) {
			d.LabID = strPtr("lab-1")
		}),
	}}
	svc := NewSessionService(repo, sessionPeriods(), true, nil, nil)

	result, err := svc.Update(context.Background(), "s1", dto.UpdateSessionRequest{
		ScheduleDate: "2026-09-07",
		PeriodID:     "p1",
		SessionTitle: "Networking Lab",
		SessionType:  "LAB",
		LabID:        strPtr("lab-1"),
	})
	require.NoError(t, err)
	assert.Empty(t, result.Conflicts)
	require.NotNil(t, repo.updated)
	assert.Equal(t, "Networking Lab", repo.updated.SessionTitle)
}

func TestProbeConflictsInstructorDimension(t *testing.T) {
	repo := &sessionRepoStub{details: []models.SessionDetail{
		existingDetail("s1", "p1", "08:00", "08:45", func(d *models.SessionDetail) {
			d.InstructorID = strPtr("teacher-1")
		}),
	}}
	svc := NewSessionService(repo, sessionPeriods(), false, nil, nil)

	conflicts, err := svc.ProbeConflicts(context.Background(), dto.ConflictProbeQuery{
		ScheduleDate: "2026-09-07",
		PeriodID:     "p1",
		InstructorID: strPtr("teacher-1"),
	})
	require.NoError(t, err)
	require.Len(t, conflicts, 1)
	assert.Equal(t, models.ConflictDimensionInstructor, conflicts[0].Dimension)
	assert.Nil(t, repo.created)
}

func TestDeleteSessionNotFound(t *testing.T) {
	svc := NewSessionService(&sessionRepoStub{}, sessionPeriods(), false, nil, nil)

	err := svc.Delete(context.Background(), "missing")
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrNotFound.Code, appErrors.FromError(err).Code)
}
