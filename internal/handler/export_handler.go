package handler

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/labsyncpro/labsync-api/internal/service"
	appErrors "github.com/labsyncpro/labsync-api/pkg/errors"
	"github.com/labsyncpro/labsync-api/pkg/response"
)

// ExportHandler serves downloadable timetable documents.
type ExportHandler struct {
	exports *service.ExportService
}

// NewExportHandler constructs handler.
func NewExportHandler(exports *service.ExportService) *ExportHandler {
	return &ExportHandler{exports: exports}
}

// TimetablePDF godoc
// @Summary Download the daily timetable as PDF
// @Tags Export
// @Produce application/pdf
// @Param date query string false "Date (YYYY-MM-DD)"
// @Success 200 {file} binary
// @Router /timetable/export/pdf [get]
func (h *ExportHandler) TimetablePDF(c *gin.Context) {
	date, ok := h.parseDate(c)
	if !ok {
		return
	}
	payload, err := h.exports.DailyTimetablePDF(c.Request.Context(), date)
	if err != nil {
		response.Error(c, err)
		return
	}
	filename := fmt.Sprintf("timetable-%s.pdf", date.Format("2006-01-02"))
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	c.Data(http.StatusOK, "application/pdf", payload)
}

// TimetableCSV godoc
// @Summary Download the daily timetable as CSV
// @Tags Export
// @Produce text/csv
// @Param date query string false "Date (YYYY-MM-DD)"
// @Success 200 {file} binary
// @Router /timetable/export/csv [get]
func (h *ExportHandler) TimetableCSV(c *gin.Context) {
	date, ok := h.parseDate(c)
	if !ok {
		return
	}
	payload, err := h.exports.DailyTimetableCSV(c.Request.Context(), date)
	if err != nil {
		response.Error(c, err)
		return
	}
	filename := fmt.Sprintf("timetable-%s.csv", date.Format("2006-01-02"))
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	c.Data(http.StatusOK, "text/csv", payload)
}

func (h *ExportHandler) parseDate(c *gin.Context) (time.Time, bool) {
	date := time.Now().UTC()
	if raw := c.Query("date"); raw != "" {
		parsed, err := time.Parse("2006-01-02", raw)
		if err != nil {
			response.Error(c, appErrors.Clone(appErrors.ErrValidation, "invalid date, expected YYYY-MM-DD"))
			return time.Time{}, false
		}
		date = parsed
	}
	return date, true
}
