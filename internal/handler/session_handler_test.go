package handler

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/labsyncpro/labsync-api/internal/dto"
	"github.com/labsyncpro/labsync-api/internal/models"
	"github.com/labsyncpro/labsync-api/internal/service"
)

type sessionStoreStub struct {
	details []models.SessionDetail
	created *models.Session
}

func (s *sessionStoreStub) List(ctx context.Context, filter models.SessionFilter) ([]models.Session, int, error) {
	return nil, 0, nil
}

func (s *sessionStoreStub) FindByID(ctx context.Context, id string) (*models.Session, error) {
	return nil, sql.ErrNoRows
}

func (s *sessionStoreStub) ListDetailByDate(ctx context.Context, date time.Time) ([]models.SessionDetail, error) {
	return s.details, nil
}

func (s *sessionStoreStub) Create(ctx context.Context, session *models.Session) error {
	session.ID = "s-created"
	s.created = session
	return nil
}

func (s *sessionStoreStub) Update(ctx context.Context, session *models.Session) error {
	return nil
}

func (s *sessionStoreStub) Delete(ctx context.Context, id string) error {
	return sql.ErrNoRows
}

type periodStoreStub struct{}

func (periodStoreStub) FindByID(ctx context.Context, id string) (*models.Period, error) {
	return &models.Period{
		ID:           id,
		VersionID:    "v1",
		PeriodNumber: 1,
		PeriodName:   "Lecture 1",
		StartTime:    "08:00",
		EndTime:      "08:45",
	}, nil
}

func newSessionHandler(store *sessionStoreStub, enforce bool) *SessionHandler {
	svc := service.NewSessionService(store, periodStoreStub{}, enforce, nil, nil)
	return NewSessionHandler(svc, nil)
}

func labRef(v string) *string { return &v }

func conflictingDetail() models.SessionDetail {
	return models.SessionDetail{
		Session: models.Session{
			ID:           "s1",
			VersionID:    "v1",
			PeriodID:     "p1",
			SessionTitle: "Existing",
			SessionType:  models.SessionTypeLab,
			LabID:        labRef("lab-1"),
			Status:       models.SessionStatusScheduled,
		},
		StartTime: "08:00",
		EndTime:   "08:45",
	}
}

func createSessionBody(t *testing.T) *bytes.Reader {
	t.Helper()
	body, err := json.Marshal(dto.CreateSessionRequest{
		ScheduleDate: "2026-09-07",
		PeriodID:     "p1",
		SessionTitle: "Networking Lab",
		SessionType:  "LAB",
		LabID:        labRef("lab-1"),
	})
	require.NoError(t, err)
	return bytes.NewReader(body)
}

func TestSessionHandlerCreateEnforcedConflictReturns409(t *testing.T) {
	gin.SetMode(gin.TestMode)
	store := &sessionStoreStub{details: []models.SessionDetail{conflictingDetail()}}
	handler := newSessionHandler(store, true)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	req, _ := http.NewRequest(http.MethodPost, "/timetable/schedules", createSessionBody(t))
	req.Header.Set("Content-Type", "application/json")
	c.Request = req

	handler.Create(c)
	require.Equal(t, http.StatusConflict, w.Code)
	assert.Nil(t, store.created)

	var payload struct {
		Conflicts []models.SessionConflict `json:"conflicts"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &payload))
	require.Len(t, payload.Conflicts, 1)
	assert.Equal(t, models.ConflictDimensionLab, payload.Conflicts[0].Dimension)
}

func TestSessionHandlerCreateAdvisoryConflictStillSaves(t *testing.T) {
	gin.SetMode(gin.TestMode)
	store := &sessionStoreStub{details: []models.SessionDetail{conflictingDetail()}}
	handler := newSessionHandler(store, false)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	req, _ := http.NewRequest(http.MethodPost, "/timetable/schedules", createSessionBody(t))
	req.Header.Set("Content-Type", "application/json")
	c.Request = req

	handler.Create(c)
	require.Equal(t, http.StatusCreated, w.Code)
	require.NotNil(t, store.created)

	var envelope struct {
		Data dto.SessionResult `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &envelope))
	assert.Len(t, envelope.Data.Conflicts, 1)
	assert.NotEmpty(t, envelope.Data.Warning)
}

func TestSessionHandlerConflictsProbe(t *testing.T) {
	gin.SetMode(gin.TestMode)
	store := &sessionStoreStub{}
	handler := newSessionHandler(store, false)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	req, _ := http.NewRequest(http.MethodGet, "/timetable/schedules/conflicts?date=2026-09-07&periodId=p1&labId=lab-1", nil)
	c.Request = req

	handler.Conflicts(c)
	require.Equal(t, http.StatusOK, w.Code)

	var envelope struct {
		Data []models.SessionConflict `json:"data"`
		Meta map[string]interface{}   `json:"meta"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &envelope))
	assert.Empty(t, envelope.Data)
	assert.EqualValues(t, 0, envelope.Meta["conflictCount"])
}
