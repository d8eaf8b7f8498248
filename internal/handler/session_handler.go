package handler

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/labsyncpro/labsync-api/internal/dto"
	"github.com/labsyncpro/labsync-api/internal/models"
	"github.com/labsyncpro/labsync-api/internal/service"
	appErrors "github.com/labsyncpro/labsync-api/pkg/errors"
	"github.com/labsyncpro/labsync-api/pkg/response"
)

// SessionHandler exposes schedule management endpoints.
type SessionHandler struct {
	sessions *service.SessionService
	metrics  *service.MetricsService
}

// NewSessionHandler constructs handler.
func NewSessionHandler(sessions *service.SessionService, metrics *service.MetricsService) *SessionHandler {
	return &SessionHandler{sessions: sessions, metrics: metrics}
}

// List godoc
// @Summary List scheduled sessions
// @Tags Schedules
// @Produce json
// @Param versionId query string false "Filter by timetable version"
// @Param labId query string false "Filter by lab"
// @Param instructorId query string false "Filter by instructor"
// @Param classId query string false "Filter by class"
// @Param status query string false "Filter by status"
// @Param dateFrom query string false "Start date (YYYY-MM-DD)"
// @Param dateTo query string false "End date (YYYY-MM-DD)"
// @Param page query int false "Page number"
// @Param pageSize query int false "Page size"
// @Success 200 {object} response.Envelope
// @Router /timetable/schedules [get]
func (h *SessionHandler) List(c *gin.Context) {
	filter := models.SessionFilter{
		VersionID:    c.Query("versionId"),
		PeriodID:     c.Query("periodId"),
		LabID:        c.Query("labId"),
		InstructorID: c.Query("instructorId"),
		ClassID:      c.Query("classId"),
		Status:       models.SessionStatus(c.Query("status")),
		SortBy:       c.Query("sortBy"),
		SortOrder:    c.Query("sortOrder"),
	}
	if raw := c.Query("dateFrom"); raw != "" {
		parsed, err := time.Parse("2006-01-02", raw)
		if err != nil {
			response.Error(c, appErrors.Clone(appErrors.ErrValidation, "invalid dateFrom, expected YYYY-MM-DD"))
			return
		}
		filter.DateFrom = &parsed
	}
	if raw := c.Query("dateTo"); raw != "" {
		parsed, err := time.Parse("2006-01-02", raw)
		if err != nil {
			response.Error(c, appErrors.Clone(appErrors.ErrValidation, "invalid dateTo, expected YYYY-MM-DD"))
			return
		}
		filter.DateTo = &parsed
	}
	filter.Page, _ = strconv.Atoi(c.DefaultQuery("page", "1"))
	filter.PageSize, _ = strconv.Atoi(c.DefaultQuery("pageSize", "20"))

	sessions, total, err := h.sessions.List(c.Request.Context(), filter)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, sessions, &models.Pagination{
		Page:       filter.Page,
		PageSize:   filter.PageSize,
		TotalCount: total,
	})
}

// Get godoc
// @Summary Get a session
// @Tags Schedules
// @Produce json
// @Param id path string true "Session ID"
// @Success 200 {object} response.Envelope
// @Router /timetable/schedules/{id} [get]
func (h *SessionHandler) Get(c *gin.Context) {
	session, err := h.sessions.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, session, nil)
}

// Create godoc
// @Summary Schedule a session
// @Tags Schedules
// @Accept json
// @Produce json
// @Param payload body dto.CreateSessionRequest true "Session payload"
// @Success 201 {object} response.Envelope
// @Router /timetable/schedules [post]
func (h *SessionHandler) Create(c *gin.Context) {
	var req dto.CreateSessionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	result, err := h.sessions.Create(c.Request.Context(), req)
	if err != nil {
		h.respondError(c, err)
		return
	}
	h.metrics.RecordSessionCreated(string(result.Session.SessionType))
	h.metrics.RecordConflicts(len(result.Conflicts))
	response.Created(c, result)
}

// Update godoc
// @Summary Update a session
// @Tags Schedules
// @Accept json
// @Produce json
// @Param id path string true "Session ID"
// @Param payload body dto.UpdateSessionRequest true "Session payload"
// @Success 200 {object} response.Envelope
// @Router /timetable/schedules/{id} [put]
func (h *SessionHandler) Update(c *gin.Context) {
	var req dto.UpdateSessionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	result, err := h.sessions.Update(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		h.respondError(c, err)
		return
	}
	h.metrics.RecordConflicts(len(result.Conflicts))
	response.JSON(c, http.StatusOK, result, nil)
}

// Delete godoc
// @Summary Delete a session
// @Tags Schedules
// @Param id path string true "Session ID"
// @Success 204
// @Router /timetable/schedules/{id} [delete]
func (h *SessionHandler) Delete(c *gin.Context) {
	if err := h.sessions.Delete(c.Request.Context(), c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}

// Conflicts godoc
// @Summary Probe conflicts for a prospective session
// @Tags Schedules
// @Produce json
// @Param date query string true "Date (YYYY-MM-DD)"
// @Param periodId query string true "Period ID"
// @Param labId query string false "Lab ID"
// @Param instructorId query string false "Instructor ID"
// @Param classId query string false "Class ID"
// @Param groupId query string false "Group ID"
// @Success 200 {object} response.Envelope
// @Router /timetable/schedules/conflicts [get]
func (h *SessionHandler) Conflicts(c *gin.Context) {
	var query dto.ConflictProbeQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid query"))
		return
	}
	conflicts, err := h.sessions.ProbeConflicts(c.Request.Context(), query)
	if err != nil {
		response.Error(c, err)
		return
	}
	if conflicts == nil {
		conflicts = []models.SessionConflict{}
	}
	response.JSON(c, http.StatusOK, conflicts, nil, map[string]interface{}{"conflictCount": len(conflicts)})
}

// Daily godoc
// @Summary Full timetable for one date
// @Tags Schedules
// @Produce json
// @Param date query string false "Date (YYYY-MM-DD)"
// @Success 200 {object} response.Envelope
// @Router /timetable/schedules/daily [get]
func (h *SessionHandler) Daily(c *gin.Context) {
	date := time.Now().UTC()
	if raw := c.Query("date"); raw != "" {
		parsed, err := time.Parse("2006-01-02", raw)
		if err != nil {
			response.Error(c, appErrors.Clone(appErrors.ErrValidation, "invalid date, expected YYYY-MM-DD"))
			return
		}
		date = parsed
	}
	details, err := h.sessions.DailyTimetable(c.Request.Context(), date)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, details, nil)
}

// respondError maps conflict rejections to 409 with the collision list as
// payload; everything else goes through the standard error envelope.
func (h *SessionHandler) respondError(c *gin.Context, err error) {
	var conflictErr *models.SessionConflictError
	if errors.As(err, &conflictErr) {
		h.metrics.RecordConflicts(len(conflictErr.Conflicts))
		c.Header("Cache-Control", "no-store")
		c.JSON(http.StatusConflict, gin.H{
			"error": gin.H{
				"code":    appErrors.ErrConflict.Code,
				"message": conflictErr.Message,
				"status":  http.StatusConflict,
			},
			"conflicts": conflictErr.Conflicts,
		})
		return
	}
	response.Error(c, err)
}
