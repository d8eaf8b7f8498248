package dto

import "github.com/labsyncpro/labsync-api/internal/models"

// BreakConfiguration places one break into the generated day.
// AfterLecture 0 positions the break before the first lecture (assembly);
// AfterLecture k positions it after the k-th generated lecture.
type BreakConfiguration struct {
	AfterLecture    int    `json:"afterLecture" validate:"min=0"`
	DurationMinutes int    `json:"durationMinutes" validate:"required,min=5,max=120"`
	Name            string `json:"name"`
}

// GeneratePeriodsRequest asks the generator to slice a school-day window into
// lecture and break periods.
type GeneratePeriodsRequest struct {
	SchoolStartTime        string               `json:"schoolStartTime" validate:"required"`
	SchoolEndTime          string               `json:"schoolEndTime" validate:"required"`
	LectureDurationMinutes int                  `json:"lectureDurationMinutes" validate:"required"`
	BreakConfigurations    []BreakConfiguration `json:"breakConfigurations" validate:"omitempty,dive"`
}

// GeneratedPeriod is one emitted slot in a generation result.
type GeneratedPeriod struct {
	PeriodNumber         int    `json:"periodNumber"`
	PeriodName           string `json:"periodName"`
	StartTime            string `json:"startTime"`
	EndTime              string `json:"endTime"`
	IsBreak              bool   `json:"isBreak"`
	BreakDurationMinutes int    `json:"breakDurationMinutes,omitempty"`
	DisplayOrder         int    `json:"displayOrder"`
}

// GeneratePeriodsResponse returns the candidate day layout and its totals.
// The result is never persisted by the generator; saving is a separate call.
type GeneratePeriodsResponse struct {
	Periods               []GeneratedPeriod `json:"periods"`
	TotalPeriods          int               `json:"totalPeriods"`
	TotalLectures         int               `json:"totalLectures"`
	TotalBreaks           int               `json:"totalBreaks"`
	TotalDuration         int               `json:"totalDuration"`
	TotalBreakTime        int               `json:"totalBreakTime"`
	SchoolDayDuration     int               `json:"schoolDayDuration"`
	UtilizationPercentage float64           `json:"utilizationPercentage"`
}

// CreateVersionRequest opens a new timetable version effective from a date.
type CreateVersionRequest struct {
	VersionName       string `json:"versionName" validate:"required"`
	Description       string `json:"description"`
	EffectiveFrom     string `json:"effectiveFrom" validate:"required"`
	CopyFromVersionID string `json:"copyFromVersionId"`
	CopySchedules     bool   `json:"copySchedules"`
}

// ActivateVersionRequest re-dates a version and caps its predecessor.
// MoveSchedules opts future sessions into migrating onto the new period set;
// without it they stay on the version they were created under.
type ActivateVersionRequest struct {
	EffectiveFrom string `json:"effectiveFrom" validate:"required"`
	MoveSchedules bool   `json:"moveSchedules"`
}

// PeriodInput is one period row in a replace-periods payload.
type PeriodInput struct {
	PeriodNumber         int    `json:"periodNumber" validate:"required,min=1"`
	PeriodName           string `json:"periodName" validate:"required"`
	StartTime            string `json:"startTime" validate:"required"`
	EndTime              string `json:"endTime" validate:"required"`
	IsBreak              bool   `json:"isBreak"`
	BreakDurationMinutes int    `json:"breakDurationMinutes" validate:"omitempty,min=5,max=120"`
	DisplayOrder         int    `json:"displayOrder" validate:"min=0"`
}

// ReplacePeriodsRequest swaps the full period set of a version.
type ReplacePeriodsRequest struct {
	Periods []PeriodInput `json:"periods" validate:"required,min=1,dive"`
}

// VersionDetail bundles a version with its derived status and periods.
type VersionDetail struct {
	models.TimetableVersion
	Status  models.VersionStatus `json:"status"`
	Periods []models.Period      `json:"periods,omitempty"`
}

// PeriodChange classifies a single period across two versions.
type PeriodChange string

const (
	PeriodAdded     PeriodChange = "added"
	PeriodRemoved   PeriodChange = "removed"
	PeriodModified  PeriodChange = "modified"
	PeriodUnchanged PeriodChange = "unchanged"
)

// PeriodDiff is one row in a version comparison, keyed on period number.
type PeriodDiff struct {
	PeriodNumber int            `json:"periodNumber"`
	Change       PeriodChange   `json:"change"`
	Left         *models.Period `json:"left,omitempty"`
	Right        *models.Period `json:"right,omitempty"`
}

// VersionComparisonSummary aggregates a comparison result.
type VersionComparisonSummary struct {
	PeriodsAdded    int `json:"periodsAdded"`
	PeriodsRemoved  int `json:"periodsRemoved"`
	PeriodsModified int `json:"periodsModified"`
	PeriodsChanged  int `json:"periodsChanged"`
}

// VersionComparison is the full compare-versions payload.
type VersionComparison struct {
	Periods   []PeriodDiff             `json:"periods"`
	Schedules ScheduleCountComparison  `json:"schedules"`
	Summary   VersionComparisonSummary `json:"summary"`
}

// ScheduleCountComparison reports session counts on both sides of a compare.
type ScheduleCountComparison struct {
	CountA int `json:"countA"`
	CountB int `json:"countB"`
}

// ValidationIssueType classifies coverage problems inside one version.
type ValidationIssueType string

const (
	IssueGap     ValidationIssueType = "gap"
	IssueOverlap ValidationIssueType = "overlap"
)

// ValidationIssue is one structured finding from version validation.
type ValidationIssue struct {
	Type        ValidationIssueType `json:"type"`
	Description string              `json:"description"`
	Gaps        []string            `json:"gaps,omitempty"`
	Overlaps    [][2]string         `json:"overlaps,omitempty"`
}

// VersionValidationResult reports gap/overlap findings for a version.
type VersionValidationResult struct {
	IsValid bool              `json:"isValid"`
	Issues  []ValidationIssue `json:"issues"`
}
