package service

import (
	"fmt"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/labsyncpro/labsync-api/internal/dto"
	appErrors "github.com/labsyncpro/labsync-api/pkg/errors"
)

const (
	minLectureDuration = 15
	maxLectureDuration = 180
	minBreakDuration   = 5
	maxBreakDuration   = 120
)

// PeriodGeneratorService slices a school-day window into an ordered sequence
// of lecture and break periods. Generation is pure; persisting the result
// into a timetable version is a separate, explicit step.
type PeriodGeneratorService struct {
	validator *validator.Validate
	logger    *zap.Logger
	maxBreaks int
}

// PeriodGeneratorConfig bounds generator input.
type PeriodGeneratorConfig struct {
	MaxBreaks int
}

// NewPeriodGeneratorService wires the generator.
func NewPeriodGeneratorService(validate *validator.Validate, logger *zap.Logger, cfg PeriodGeneratorConfig) *PeriodGeneratorService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.MaxBreaks <= 0 {
		cfg.MaxBreaks = 8
	}
	return &PeriodGeneratorService{validator: validate, logger: logger, maxBreaks: cfg.MaxBreaks}
}

// Generate walks the time axis from the school start, emitting one lecture per
// increment of the lecture duration and inserting configured breaks after the
// lecture they target. The walk stops once the remaining window can no longer
// fit a full lecture.
func (s *PeriodGeneratorService) Generate(req dto.GeneratePeriodsRequest) (*dto.GeneratePeriodsResponse, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid generate periods payload")
	}

	start, err := parseClock(req.SchoolStartTime)
	if err != nil {
		return nil, appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("invalid schoolStartTime %q", req.SchoolStartTime))
	}
	end, err := parseClock(req.SchoolEndTime)
	if err != nil {
		return nil, appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("invalid schoolEndTime %q", req.SchoolEndTime))
	}
	if start >= end {
		return nil, appErrors.Clone(appErrors.ErrValidation, "schoolStartTime must be before schoolEndTime")
	}
	if req.LectureDurationMinutes < minLectureDuration || req.LectureDurationMinutes > maxLectureDuration {
		return nil, appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("lectureDurationMinutes must be between %d and %d", minLectureDuration, maxLectureDuration))
	}
	if end-start < req.LectureDurationMinutes {
		return nil, appErrors.Clone(appErrors.ErrValidation, "school day is shorter than a single lecture")
	}
	if len(req.BreakConfigurations) > s.maxBreaks {
		return nil, appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("at most %d break configurations are supported", s.maxBreaks))
	}

	breaks, err := indexBreaks(req.BreakConfigurations)
	if err != nil {
		return nil, err
	}

	var (
		periods    []dto.GeneratedPeriod
		cursor     = start
		lectures   = 0
		breakCount = 0
		breakTime  = 0
	)

	emitBreak := func(cfg dto.BreakConfiguration) {
		if cursor+cfg.DurationMinutes > end {
			return
		}
		name := cfg.Name
		if name == "" {
			name = fmt.Sprintf("Break %d", breakCount+1)
		}
		duration := cfg.DurationMinutes
		periods = append(periods, dto.GeneratedPeriod{
			PeriodNumber:         len(periods) + 1,
			PeriodName:           name,
			StartTime:            formatClock(cursor),
			EndTime:              formatClock(cursor + duration),
			IsBreak:              true,
			BreakDurationMinutes: duration,
			DisplayOrder:         len(periods) + 1,
		})
		cursor += duration
		breakCount++
		breakTime += duration
	}

	// Assembly-style break before the first lecture.
	if cfg, ok := breaks[0]; ok {
		emitBreak(cfg)
	}

	for end-cursor >= req.LectureDurationMinutes {
		lectures++
		periods = append(periods, dto.GeneratedPeriod{
			PeriodNumber: len(periods) + 1,
			PeriodName:   fmt.Sprintf("Lecture %d", lectures),
			StartTime:    formatClock(cursor),
			EndTime:      formatClock(cursor + req.LectureDurationMinutes),
			DisplayOrder: len(periods) + 1,
		})
		cursor += req.LectureDurationMinutes

		if cfg, ok := breaks[lectures]; ok {
			emitBreak(cfg)
		}
	}

	schoolDay := end - start
	totalDuration := lectures * req.LectureDurationMinutes
	utilization := 0.0
	if schoolDay > 0 {
		utilization = float64(totalDuration+breakTime) / float64(schoolDay) * 100
	}

	return &dto.GeneratePeriodsResponse{
		Periods:               periods,
		TotalPeriods:          len(periods),
		TotalLectures:         lectures,
		TotalBreaks:           breakCount,
		TotalDuration:         totalDuration,
		TotalBreakTime:        breakTime,
		SchoolDayDuration:     schoolDay,
		UtilizationPercentage: utilization,
	}, nil
}

// indexBreaks keys break configurations by their target lecture, rejecting
// duplicate targets because their emit order would be ambiguous.
func indexBreaks(configs []dto.BreakConfiguration) (map[int]dto.BreakConfiguration, error) {
	breaks := make(map[int]dto.BreakConfiguration, len(configs))
	for _, cfg := range configs {
		if cfg.AfterLecture < 0 {
			return nil, appErrors.Clone(appErrors.ErrValidation, "afterLecture must not be negative")
		}
		if cfg.DurationMinutes < minBreakDuration || cfg.DurationMinutes > maxBreakDuration {
			return nil, appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("break duration must be between %d and %d minutes", minBreakDuration, maxBreakDuration))
		}
		if _, exists := breaks[cfg.AfterLecture]; exists {
			return nil, appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("multiple breaks target afterLecture=%d", cfg.AfterLecture))
		}
		breaks[cfg.AfterLecture] = cfg
	}
	return breaks, nil
}

// parseClock converts "HH:MM" into minutes since midnight.
func parseClock(raw string) (int, error) {
	var hours, minutes int
	if _, err := fmt.Sscanf(raw, "%d:%d", &hours, &minutes); err != nil {
		return 0, fmt.Errorf("parse clock %q: %w", raw, err)
	}
	if hours < 0 || hours > 23 || minutes < 0 || minutes > 59 {
		return 0, fmt.Errorf("clock %q out of range", raw)
	}
	return hours*60 + minutes, nil
}

// formatClock renders minutes since midnight as "HH:MM".
func formatClock(total int) string {
	return fmt.Sprintf("%02d:%02d", total/60, total%60)
}
