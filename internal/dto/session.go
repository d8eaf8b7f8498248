package dto

import "github.com/labsyncpro/labsync-api/internal/models"

// CreateSessionRequest schedules one class/lab occurrence.
type CreateSessionRequest struct {
	ScheduleDate string  `json:"scheduleDate" validate:"required"`
	PeriodID     string  `json:"periodId" validate:"required"`
	SessionTitle string  `json:"sessionTitle" validate:"required"`
	SessionType  string  `json:"sessionType" validate:"required,oneof=LECTURE LAB TEST PRACTICAL"`
	LabID        *string `json:"labId"`
	InstructorID *string `json:"instructorId"`
	ClassID      *string `json:"classId"`
	GroupID      *string `json:"groupId"`
	Notes        string  `json:"notes"`
}

// UpdateSessionRequest mutates an existing session.
type UpdateSessionRequest struct {
	ScheduleDate string  `json:"scheduleDate" validate:"required"`
	PeriodID     string  `json:"periodId" validate:"required"`
	SessionTitle string  `json:"sessionTitle" validate:"required"`
	SessionType  string  `json:"sessionType" validate:"required,oneof=LECTURE LAB TEST PRACTICAL"`
	LabID        *string `json:"labId"`
	InstructorID *string `json:"instructorId"`
	ClassID      *string `json:"classId"`
	GroupID      *string `json:"groupId"`
	Status       string  `json:"status" validate:"omitempty,oneof=SCHEDULED COMPLETED CANCELLED RESCHEDULED"`
	Notes        string  `json:"notes"`
}

// SessionResult pairs a saved session with any advisory conflicts detected at
// write time. Conflicts do not block the save unless enforcement is enabled.
type SessionResult struct {
	Session   *models.Session          `json:"session"`
	Conflicts []models.SessionConflict `json:"conflicts"`
	Warning   string                   `json:"warning,omitempty"`
}

// ConflictProbeQuery is a dry-run conflict check for a prospective session.
type ConflictProbeQuery struct {
	ScheduleDate string  `form:"date" json:"scheduleDate" validate:"required"`
	PeriodID     string  `form:"periodId" json:"periodId" validate:"required"`
	LabID        *string `form:"labId" json:"labId"`
	InstructorID *string `form:"instructorId" json:"instructorId"`
	ClassID      *string `form:"classId" json:"classId"`
	GroupID      *string `form:"groupId" json:"groupId"`
}
