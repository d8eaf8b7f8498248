package models

import "time"

// VersionStatus is the lifecycle phase of a timetable version. It is derived
// from the effective date range at read time and never stored.
type VersionStatus string

const (
	VersionStatusDraft      VersionStatus = "DRAFT"
	VersionStatusActive     VersionStatus = "ACTIVE"
	VersionStatusSuperseded VersionStatus = "SUPERSEDED"
)

// TimetableVersion is one dated, school-wide period configuration. Versions
// form an append-only history ordered by effective_from; the version covering
// a calendar date is selected at read time.
type TimetableVersion struct {
	ID             string     `db:"id" json:"id"`
	VersionNumber  int        `db:"version_number" json:"version_number"`
	VersionName    string     `db:"version_name" json:"version_name"`
	Description    string     `db:"description" json:"description"`
	EffectiveFrom  time.Time  `db:"effective_from" json:"effective_from"`
	EffectiveUntil *time.Time `db:"effective_until" json:"effective_until,omitempty"`
	CreatedBy      *string    `db:"created_by" json:"created_by,omitempty"`
	CreatedAt      time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt      time.Time  `db:"updated_at" json:"updated_at"`
}

// StatusAt reports the lifecycle phase of the version as observed on the
// given date.
func (v TimetableVersion) StatusAt(date time.Time) VersionStatus {
	day := date.Truncate(24 * time.Hour)
	if day.Before(v.EffectiveFrom) {
		return VersionStatusDraft
	}
	if v.EffectiveUntil != nil && !day.Before(*v.EffectiveUntil) {
		return VersionStatusSuperseded
	}
	return VersionStatusActive
}

// Covers reports whether the version's [effective_from, effective_until)
// range contains the given date.
func (v TimetableVersion) Covers(date time.Time) bool {
	day := date.Truncate(24 * time.Hour)
	if day.Before(v.EffectiveFrom) {
		return false
	}
	return v.EffectiveUntil == nil || day.Before(*v.EffectiveUntil)
}

// Period is a named time slot (lecture or break) within a version's daily
// schedule. Times are stored as "HH:MM" wall-clock values.
type Period struct {
	ID                   string    `db:"id" json:"id"`
	VersionID            string    `db:"version_id" json:"version_id"`
	PeriodNumber         int       `db:"period_number" json:"period_number"`
	PeriodName           string    `db:"period_name" json:"period_name"`
	StartTime            string    `db:"start_time" json:"start_time"`
	EndTime              string    `db:"end_time" json:"end_time"`
	IsBreak              bool      `db:"is_break" json:"is_break"`
	BreakDurationMinutes *int      `db:"break_duration_minutes" json:"break_duration_minutes,omitempty"`
	DisplayOrder         int       `db:"display_order" json:"display_order"`
	CreatedAt            time.Time `db:"created_at" json:"created_at"`
	UpdatedAt            time.Time `db:"updated_at" json:"updated_at"`
}

