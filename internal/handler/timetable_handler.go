package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/labsyncpro/labsync-api/internal/dto"
	"github.com/labsyncpro/labsync-api/internal/service"
	appErrors "github.com/labsyncpro/labsync-api/pkg/errors"
	"github.com/labsyncpro/labsync-api/pkg/response"
)

// TimetableHandler exposes period generation and version management endpoints.
type TimetableHandler struct {
	generator *service.PeriodGeneratorService
	versions  *service.TimetableVersionService
}

// NewTimetableHandler constructs handler.
func NewTimetableHandler(generator *service.PeriodGeneratorService, versions *service.TimetableVersionService) *TimetableHandler {
	return &TimetableHandler{generator: generator, versions: versions}
}

// GeneratePeriods godoc
// @Summary Generate a candidate period layout for a school day
// @Tags Timetable
// @Accept json
// @Produce json
// @Param payload body dto.GeneratePeriodsRequest true "Generation parameters"
// @Success 200 {object} response.Envelope
// @Router /timetable/config/generate-periods [post]
func (h *TimetableHandler) GeneratePeriods(c *gin.Context) {
	var req dto.GeneratePeriodsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	result, err := h.generator.Generate(req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, result, nil)
}

// ListVersions godoc
// @Summary List timetable versions
// @Tags Timetable
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /timetable/versions [get]
func (h *TimetableHandler) ListVersions(c *gin.Context) {
	versions, err := h.versions.List(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, versions, nil)
}

// GetVersion godoc
// @Summary Get a timetable version with its periods
// @Tags Timetable
// @Produce json
// @Param id path string true "Version ID"
// @Success 200 {object} response.Envelope
// @Router /timetable/versions/{id} [get]
func (h *TimetableHandler) GetVersion(c *gin.Context) {
	version, err := h.versions.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, version, nil)
}

// CreateVersion godoc
// @Summary Create a new timetable version
// @Tags Timetable
// @Accept json
// @Produce json
// @Param payload body dto.CreateVersionRequest true "Version payload"
// @Success 201 {object} response.Envelope
// @Router /timetable/versions [post]
func (h *TimetableHandler) CreateVersion(c *gin.Context) {
	var req dto.CreateVersionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	var createdBy string
	if claims := claimsFromContext(c); claims != nil {
		createdBy = claims.UserID
	}
	version, err := h.versions.Create(c.Request.Context(), req, createdBy)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, version)
}

// GetActiveVersion godoc
// @Summary Get the version effective on a date (today by default)
// @Tags Timetable
// @Produce json
// @Param date query string false "Date (YYYY-MM-DD)"
// @Success 200 {object} response.Envelope
// @Router /timetable/versions/active [get]
func (h *TimetableHandler) GetActiveVersion(c *gin.Context) {
	date := time.Now().UTC()
	if raw := c.Query("date"); raw != "" {
		parsed, err := time.Parse("2006-01-02", raw)
		if err != nil {
			response.Error(c, appErrors.Clone(appErrors.ErrValidation, "invalid date, expected YYYY-MM-DD"))
			return
		}
		date = parsed
	}
	version, err := h.versions.GetEffective(c.Request.Context(), date)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, version, nil)
}

// ActivateVersion godoc
// @Summary Activate a version from a given date
// @Tags Timetable
// @Accept json
// @Produce json
// @Param id path string true "Version ID"
// @Param payload body dto.ActivateVersionRequest true "Activation payload"
// @Success 200 {object} response.Envelope
// @Router /timetable/versions/{id}/activate [post]
func (h *TimetableHandler) ActivateVersion(c *gin.Context) {
	var req dto.ActivateVersionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	version, err := h.versions.Activate(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, version, nil)
}

// CompareVersions godoc
// @Summary Compare two timetable versions
// @Tags Timetable
// @Produce json
// @Param versionA query string true "Left version ID"
// @Param versionB query string true "Right version ID"
// @Success 200 {object} response.Envelope
// @Router /timetable/versions/compare [get]
func (h *TimetableHandler) CompareVersions(c *gin.Context) {
	versionA := c.Query("versionA")
	versionB := c.Query("versionB")
	if versionA == "" || versionB == "" {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "versionA and versionB query params are required"))
		return
	}
	comparison, err := h.versions.Compare(c.Request.Context(), versionA, versionB)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, comparison, nil)
}

// ValidateVersion godoc
// @Summary Check a version's periods for gaps and overlaps
// @Tags Timetable
// @Produce json
// @Param id path string true "Version ID"
// @Success 200 {object} response.Envelope
// @Router /timetable/versions/{id}/validate [get]
func (h *TimetableHandler) ValidateVersion(c *gin.Context) {
	result, err := h.versions.Validate(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, result, nil)
}

// ReplacePeriods godoc
// @Summary Replace the period set of a draft version
// @Tags Timetable
// @Accept json
// @Produce json
// @Param id path string true "Version ID"
// @Param payload body dto.ReplacePeriodsRequest true "Periods payload"
// @Success 200 {object} response.Envelope
// @Router /timetable/versions/{id}/periods [put]
func (h *TimetableHandler) ReplacePeriods(c *gin.Context) {
	var req dto.ReplacePeriodsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	periods, err := h.versions.ReplacePeriods(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, periods, nil)
}

// DeleteVersion godoc
// @Summary Delete a draft version
// @Tags Timetable
// @Param id path string true "Version ID"
// @Success 204
// @Router /timetable/versions/{id} [delete]
func (h *TimetableHandler) DeleteVersion(c *gin.Context) {
	if err := h.versions.Delete(c.Request.Context(), c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}
