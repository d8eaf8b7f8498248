package service

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/labsyncpro/labsync-api/internal/models"
	appErrors "github.com/labsyncpro/labsync-api/pkg/errors"
	"github.com/labsyncpro/labsync-api/pkg/export"
)

type timetableFeeder interface {
	DailyTimetable(ctx context.Context, date time.Time) ([]models.SessionDetail, error)
}

// ExportService renders daily timetables as downloadable documents.
type ExportService struct {
	sessions timetableFeeder
	pdf      *export.PDFExporter
	csv      *export.CSVExporter
	logger   *zap.Logger
}

// NewExportService constructs an ExportService.
func NewExportService(sessions timetableFeeder, logger *zap.Logger) *ExportService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ExportService{
		sessions: sessions,
		pdf:      export.NewPDFExporter(),
		csv:      export.NewCSVExporter(),
		logger:   logger,
	}
}

var timetableHeaders = []string{"Period", "Time", "Title", "Type", "Lab", "Instructor", "Class", "Group", "Status"}

// DailyTimetablePDF renders all sessions on a date as a PDF table.
func (s *ExportService) DailyTimetablePDF(ctx context.Context, date time.Time) ([]byte, error) {
	dataset, err := s.dataset(ctx, date)
	if err != nil {
		return nil, err
	}
	payload, err := s.pdf.Render(*dataset, "Daily Timetable", date.Format("Monday, 02 January 2006"))
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render timetable PDF")
	}
	return payload, nil
}

// DailyTimetableCSV renders all sessions on a date as CSV.
func (s *ExportService) DailyTimetableCSV(ctx context.Context, date time.Time) ([]byte, error) {
	dataset, err := s.dataset(ctx, date)
	if err != nil {
		return nil, err
	}
	payload, err := s.csv.Render(*dataset)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render timetable CSV")
	}
	return payload, nil
}

func (s *ExportService) dataset(ctx context.Context, date time.Time) (*export.Dataset, error) {
	details, err := s.sessions.DailyTimetable(ctx, date)
	if err != nil {
		return nil, err
	}
	rows := make([]map[string]string, 0, len(details))
	for _, d := range details {
		rows = append(rows, map[string]string{
			"Period":     fmt.Sprintf("%d. %s", d.PeriodNumber, d.PeriodName),
			"Time":       fmt.Sprintf("%s-%s", d.StartTime, d.EndTime),
			"Title":      d.SessionTitle,
			"Type":       string(d.SessionType),
			"Lab":        deref(d.LabID),
			"Instructor": deref(d.InstructorID),
			"Class":      deref(d.ClassID),
			"Group":      deref(d.GroupID),
			"Status":     string(d.Status),
		})
	}
	return &export.Dataset{Headers: timetableHeaders, Rows: rows}, nil
}

func deref(v *string) string {
	if v == nil {
		return ""
	}
	return *v
}
