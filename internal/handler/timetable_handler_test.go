package handler

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/labsyncpro/labsync-api/internal/dto"
	"github.com/labsyncpro/labsync-api/internal/service"
)

func newTimetableHandler() *TimetableHandler {
	generator := service.NewPeriodGeneratorService(nil, nil, service.PeriodGeneratorConfig{})
	return NewTimetableHandler(generator, nil)
}

func TestTimetableHandlerGeneratePeriods(t *testing.T) {
	gin.SetMode(gin.TestMode)
	handler := newTimetableHandler()
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	body, _ := json.Marshal(dto.GeneratePeriodsRequest{
		SchoolStartTime:        "08:00",
		SchoolEndTime:          "12:00",
		LectureDurationMinutes: 45,
		BreakConfigurations: []dto.BreakConfiguration{
			{AfterLecture: 2, DurationMinutes: 20},
		},
	})
	req, _ := http.NewRequest(http.MethodPost, "/timetable/config/generate-periods", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	c.Request = req

	handler.GeneratePeriods(c)
	require.Equal(t, http.StatusOK, w.Code)

	var envelope struct {
		Data dto.GeneratePeriodsResponse `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &envelope))
	assert.Equal(t, 4, envelope.Data.TotalLectures)
	assert.Equal(t, 1, envelope.Data.TotalBreaks)
	assert.Equal(t, "08:00", envelope.Data.Periods[0].StartTime)
}

func TestTimetableHandlerGeneratePeriodsInvalidBody(t *testing.T) {
	gin.SetMode(gin.TestMode)
	handler := newTimetableHandler()
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	req, _ := http.NewRequest(http.MethodPost, "/timetable/config/generate-periods", bytes.NewReader([]byte(`invalid`)))
	req.Header.Set("Content-Type", "application/json")
	c.Request = req

	handler.GeneratePeriods(c)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestTimetableHandlerGeneratePeriodsRejectsBadWindow(t *testing.T) {
	gin.SetMode(gin.TestMode)
	handler := newTimetableHandler()
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	body, _ := json.Marshal(dto.GeneratePeriodsRequest{
		SchoolStartTime:        "15:00",
		SchoolEndTime:          "08:00",
		LectureDurationMinutes: 45,
	})
	req, _ := http.NewRequest(http.MethodPost, "/timetable/config/generate-periods", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	c.Request = req

	handler.GeneratePeriods(c)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestTimetableHandlerCompareVersionsRequiresBothIDs(t *testing.T) {
	gin.SetMode(gin.TestMode)
	handler := newTimetableHandler()
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	req, _ := http.NewRequest(http.MethodGet, "/timetable/versions/compare?versionA=v1", nil)
	c.Request = req

	handler.CompareVersions(c)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestTimetableHandlerGetActiveVersionRejectsBadDate(t *testing.T) {
	gin.SetMode(gin.TestMode)
	handler := newTimetableHandler()
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	req, _ := http.NewRequest(http.MethodGet, "/timetable/versions/active?date=07-09-2026", nil)
	c.Request = req

	handler.GetActiveVersion(c)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}
