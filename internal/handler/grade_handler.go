package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/labsyncpro/labsync-api/internal/service"
	appErrors "github.com/labsyncpro/labsync-api/pkg/errors"
	"github.com/labsyncpro/labsync-api/pkg/response"
)

// GradeHandler exposes grading scale endpoints.
type GradeHandler struct {
	grades *service.GradeService
}

// NewGradeHandler constructs handler.
func NewGradeHandler(grades *service.GradeService) *GradeHandler {
	return &GradeHandler{grades: grades}
}

// List godoc
// @Summary List the grading scale
// @Tags Grades
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /grades/scale [get]
func (h *GradeHandler) List(c *gin.Context) {
	scales, err := h.grades.List(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, scales, nil)
}

// Replace godoc
// @Summary Replace the grading scale
// @Tags Grades
// @Accept json
// @Produce json
// @Param payload body service.ReplaceGradeScaleRequest true "Scale payload"
// @Success 200 {object} response.Envelope
// @Router /grades/scale [put]
func (h *GradeHandler) Replace(c *gin.Context) {
	var req service.ReplaceGradeScaleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	scales, err := h.grades.Replace(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, scales, nil)
}

// Lookup godoc
// @Summary Map a score onto the grading scale
// @Tags Grades
// @Produce json
// @Param score query number true "Score"
// @Success 200 {object} response.Envelope
// @Router /grades/scale/lookup [get]
func (h *GradeHandler) Lookup(c *gin.Context) {
	score, err := strconv.ParseFloat(c.Query("score"), 64)
	if err != nil {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "score query param must be a number"))
		return
	}
	scale, err := h.grades.GradeFor(c.Request.Context(), score)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, scale, nil)
}
