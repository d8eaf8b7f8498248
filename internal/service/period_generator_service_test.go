package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/labsyncpro/labsync-api/internal/dto"
	appErrors "github.com/labsyncpro/labsync-api/pkg/errors"
)

func newGenerator(t *testing.T) *PeriodGeneratorService {
	t.Helper()
	return NewPeriodGeneratorService(nil, nil, PeriodGeneratorConfig{})
}

func TestGeneratePeriodsFullDayWithBreaks(t *testing.T) {
	svc := newGenerator(t)

	result, err := svc.Generate(dto.GeneratePeriodsRequest{
		SchoolStartTime:        "08:00",
		SchoolEndTime:          "15:00",
		LectureDurationMinutes: 45,
		BreakConfigurations: []dto.BreakConfiguration{
			{AfterLecture: 2, DurationMinutes: 20, Name: "Morning Break"},
			{AfterLecture: 4, DurationMinutes: 40, Name: "Lunch"},
		},
	})
	require.NoError(t, err)

	assert.Equal(t, 8, result.TotalLectures)
	assert.Equal(t, 2, result.TotalBreaks)
	assert.Equal(t, 10, result.TotalPeriods)
	assert.Equal(t, 8*45, result.TotalDuration)
	assert.Equal(t, 60, result.TotalBreakTime)
	assert.Equal(t, 7*60, result.SchoolDayDuration)

	// Slots are contiguous and sequentially numbered.
	for i, p := range result.Periods {
		assert.Equal(t, i+1, p.PeriodNumber)
		assert.Equal(t, i+1, p.DisplayOrder)
		if i > 0 {
			assert.Equal(t, result.Periods[i-1].EndTime, p.StartTime, "period %d should start where %d ends", i+1, i)
		}
	}

	assert.Equal(t, "08:00", result.Periods[0].StartTime)
	assert.Equal(t, "Lecture 1", result.Periods[0].PeriodName)
	assert.Equal(t, "Morning Break", result.Periods[2].PeriodName)
	assert.True(t, result.Periods[2].IsBreak)
	assert.Equal(t, "09:30", result.Periods[2].StartTime)
	assert.Equal(t, "09:50", result.Periods[2].EndTime)
	assert.Equal(t, "Lunch", result.Periods[5].PeriodName)
}

func TestGeneratePeriodsSingleLectureWindow(t *testing.T) {
	svc := newGenerator(t)

	result, err := svc.Generate(dto.GeneratePeriodsRequest{
		SchoolStartTime:        "08:00",
		SchoolEndTime:          "08:50",
		LectureDurationMinutes: 45,
	})
	require.NoError(t, err)

	// The trailing 5 minutes cannot fit another lecture.
	require.Len(t, result.Periods, 1)
	assert.Equal(t, "08:00", result.Periods[0].StartTime)
	assert.Equal(t, "08:45", result.Periods[0].EndTime)
	assert.Equal(t, 1, result.TotalLectures)
	assert.InDelta(t, 90.0, result.UtilizationPercentage, 0.01)
}

func TestGeneratePeriodsAssemblyBreakBeforeFirstLecture(t *testing.T) {
	svc := newGenerator(t)

	result, err := svc.Generate(dto.GeneratePeriodsRequest{
		SchoolStartTime:        "08:00",
		SchoolEndTime:          "10:00",
		LectureDurationMinutes: 45,
		BreakConfigurations: []dto.BreakConfiguration{
			{AfterLecture: 0, DurationMinutes: 15, Name: "Assembly"},
		},
	})
	require.NoError(t, err)

	require.True(t, result.Periods[0].IsBreak)
	assert.Equal(t, "Assembly", result.Periods[0].PeriodName)
	assert.Equal(t, "08:00", result.Periods[0].StartTime)
	assert.Equal(t, "08:15", result.Periods[0].EndTime)
	assert.Equal(t, "08:15", result.Periods[1].StartTime)
	assert.Equal(t, 2, result.TotalLectures)
}

func TestGeneratePeriodsBreakBeyondWindowIsSkipped(t *testing.T) {
	svc := newGenerator(t)

	result, err := svc.Generate(dto.GeneratePeriodsRequest{
		SchoolStartTime:        "08:00",
		SchoolEndTime:          "09:40",
		LectureDurationMinutes: 45,
		BreakConfigurations: []dto.BreakConfiguration{
			{AfterLecture: 2, DurationMinutes: 30, Name: "Too Late"},
		},
	})
	require.NoError(t, err)

	// Two lectures fill 08:00-09:30; a 30 minute break would overflow 09:40.
	assert.Equal(t, 2, result.TotalLectures)
	assert.Equal(t, 0, result.TotalBreaks)
	for _, p := range result.Periods {
		assert.False(t, p.IsBreak)
	}
}

func TestGeneratePeriodsBreakNamesDefaultWhenOmitted(t *testing.T) {
	svc := newGenerator(t)

	result, err := svc.Generate(dto.GeneratePeriodsRequest{
		SchoolStartTime:        "08:00",
		SchoolEndTime:          "11:00",
		LectureDurationMinutes: 45,
		BreakConfigurations: []dto.BreakConfiguration{
			{AfterLecture: 1, DurationMinutes: 10},
		},
	})
	require.NoError(t, err)
	assert.Equal(t, "Break 1", result.Periods[1].PeriodName)
}

func TestGeneratePeriodsValidation(t *testing.T) {
	svc := newGenerator(t)

	cases := []struct {
		name string
		req  dto.GeneratePeriodsRequest
	}{
		{
			name: "start after end",
			req: dto.GeneratePeriodsRequest{
				SchoolStartTime:        "15:00",
				SchoolEndTime:          "08:00",
				LectureDurationMinutes: 45,
			},
		},
		{
			name: "window shorter than one lecture",
			req: dto.GeneratePeriodsRequest{
				SchoolStartTime:        "08:00",
				SchoolEndTime:          "08:30",
				LectureDurationMinutes: 45,
			},
		},
		{
			name: "lecture duration too short",
			req: dto.GeneratePeriodsRequest{
				SchoolStartTime:        "08:00",
				SchoolEndTime:          "15:00",
				LectureDurationMinutes: 10,
			},
		},
		{
			name: "lecture duration too long",
			req: dto.GeneratePeriodsRequest{
				SchoolStartTime:        "08:00",
				SchoolEndTime:          "15:00",
				LectureDurationMinutes: 200,
			},
		},
		{
			name: "unparseable clock",
			req: dto.GeneratePeriodsRequest{
				SchoolStartTime:        "8 o'clock",
				SchoolEndTime:          "15:00",
				LectureDurationMinutes: 45,
			},
		},
		{
			name: "clock out of range",
			req: dto.GeneratePeriodsRequest{
				SchoolStartTime:        "25:00",
				SchoolEndTime:          "26:00",
				LectureDurationMinutes: 45,
			},
		},
		{
			name: "duplicate break target",
			req: dto.GeneratePeriodsRequest{
				SchoolStartTime:        "08:00",
				SchoolEndTime:          "15:00",
				LectureDurationMinutes: 45,
				BreakConfigurations: []dto.BreakConfiguration{
					{AfterLecture: 2, DurationMinutes: 10},
					{AfterLecture: 2, DurationMinutes: 20},
				},
			},
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := svc.Generate(tc.req)
			require.Error(t, err)
			appErr := appErrors.FromError(err)
			assert.Equal(t, appErrors.ErrValidation.Code, appErr.Code)
		})
	}
}

func TestParseClockRoundTrip(t *testing.T) {
	minutes, err := parseClock("13:05")
	require.NoError(t, err)
	assert.Equal(t, 13*60+5, minutes)
	assert.Equal(t, "13:05", formatClock(minutes))

	_, err = parseClock("13:61")
	assert.Error(t, err)
}
