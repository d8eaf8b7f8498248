package models

import "time"

// SessionType enumerates kinds of scheduled sessions.
type SessionType string

const (
	SessionTypeLecture   SessionType = "LECTURE"
	SessionTypeLab       SessionType = "LAB"
	SessionTypeTest      SessionType = "TEST"
	SessionTypePractical SessionType = "PRACTICAL"
)

// SessionStatus enumerates lifecycle states for a scheduled session.
type SessionStatus string

const (
	SessionStatusScheduled   SessionStatus = "SCHEDULED"
	SessionStatusCompleted   SessionStatus = "COMPLETED"
	SessionStatusCancelled   SessionStatus = "CANCELLED"
	SessionStatusRescheduled SessionStatus = "RESCHEDULED"
)

// Session is one concrete class/lab occurrence bound to a date and a period
// of a timetable version. Resource references are all optional.
type Session struct {
	ID           string        `db:"id" json:"id"`
	VersionID    string        `db:"version_id" json:"version_id"`
	PeriodID     string        `db:"period_id" json:"period_id"`
	ScheduleDate time.Time     `db:"schedule_date" json:"schedule_date"`
	SessionTitle string        `db:"session_title" json:"session_title"`
	SessionType  SessionType   `db:"session_type" json:"session_type"`
	LabID        *string       `db:"lab_id" json:"lab_id,omitempty"`
	InstructorID *string       `db:"instructor_id" json:"instructor_id,omitempty"`
	ClassID      *string       `db:"class_id" json:"class_id,omitempty"`
	GroupID      *string       `db:"group_id" json:"group_id,omitempty"`
	Status       SessionStatus `db:"status" json:"status"`
	Notes        string        `db:"notes" json:"notes"`
	CreatedAt    time.Time     `db:"created_at" json:"created_at"`
	UpdatedAt    time.Time     `db:"updated_at" json:"updated_at"`
}

// SessionDetail joins a session with its period's time range for conflict
// evaluation and timetable rendering.
type SessionDetail struct {
	Session
	PeriodNumber int    `db:"period_number" json:"period_number"`
	PeriodName   string `db:"period_name" json:"period_name"`
	StartTime    string `db:"start_time" json:"start_time"`
	EndTime      string `db:"end_time" json:"end_time"`
}

// SessionFilter describes query params for listing sessions.
type SessionFilter struct {
	VersionID    string
	PeriodID     string
	LabID        string
	InstructorID string
	ClassID      string
	DateFrom     *time.Time
	DateTo       *time.Time
	Status       SessionStatus
	Page         int
	PageSize     int
	SortBy       string
	SortOrder    string
}

// ConflictDimension names the shared resource that causes a session conflict.
type ConflictDimension string

const (
	ConflictDimensionLab        ConflictDimension = "LAB"
	ConflictDimensionInstructor ConflictDimension = "INSTRUCTOR"
	ConflictDimensionClass      ConflictDimension = "CLASS"
)

// SessionConflict describes an existing session that collides with a
// candidate on a shared resource and overlapping time range.
type SessionConflict struct {
	SessionID    string            `json:"session_id"`
	SessionTitle string            `json:"session_title"`
	ScheduleDate time.Time         `json:"schedule_date"`
	PeriodID     string            `json:"period_id"`
	StartTime    string            `json:"start_time"`
	EndTime      string            `json:"end_time"`
	LabID        *string           `json:"lab_id,omitempty"`
	InstructorID *string           `json:"instructor_id,omitempty"`
	ClassID      *string           `json:"class_id,omitempty"`
	GroupID      *string           `json:"group_id,omitempty"`
	Dimension    ConflictDimension `json:"dimension"`
}

// SessionConflictError is returned when conflict enforcement rejects a write.
type SessionConflictError struct {
	Message   string            `json:"message"`
	Conflicts []SessionConflict `json:"conflicts"`
}

// Error implements the error interface for conflict errors.
func (e *SessionConflictError) Error() string {
	if e == nil {
		return "<nil>"
	}
	return e.Message
}
