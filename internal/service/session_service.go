package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/labsyncpro/labsync-api/internal/dto"
	"github.com/labsyncpro/labsync-api/internal/models"
	appErrors "github.com/labsyncpro/labsync-api/pkg/errors"
)

type sessionRepository interface {
	List(ctx context.Context, filter models.SessionFilter) ([]models.Session, int, error)
	FindByID(ctx context.Context, id string) (*models.Session, error)
	ListDetailByDate(ctx context.Context, date time.Time) ([]models.SessionDetail, error)
	Create(ctx context.Context, session *models.Session) error
	Update(ctx context.Context, session *models.Session) error
	Delete(ctx context.Context, id string) error
}

type periodReader interface {
	FindByID(ctx context.Context, id string) (*models.Period, error)
}

// SessionService schedules sessions and flags double bookings. Conflicts are
// advisory by default: the save goes through and the response carries the
// collision list. Enforcement mode turns them into hard rejections.
type SessionService struct {
	sessions         sessionRepository
	periods          periodReader
	enforceConflicts bool
	validator        *validator.Validate
	logger           *zap.Logger
}

// NewSessionService constructs the session scheduler.
func NewSessionService(sessions sessionRepository, periods periodReader, enforceConflicts bool, validate *validator.Validate, logger *zap.Logger) *SessionService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SessionService{
		sessions:         sessions,
		periods:          periods,
		enforceConflicts: enforceConflicts,
		validator:        validate,
		logger:           logger,
	}
}

// List returns sessions matching the filter along with the total count.
func (s *SessionService) List(ctx context.Context, filter models.SessionFilter) ([]models.Session, int, error) {
	sessions, total, err := s.sessions.List(ctx, filter)
	if err != nil {
		return nil, 0, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list sessions")
	}
	return sessions, total, nil
}

// Get loads a single session.
func (s *SessionService) Get(ctx context.Context, id string) (*models.Session, error) {
	session, err := s.sessions.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "session not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load session")
	}
	return session, nil
}

// Create schedules a new session. The owning timetable version is derived
// from the referenced period, never supplied by the caller.
func (s *SessionService) Create(ctx context.Context, req dto.CreateSessionRequest) (*dto.SessionResult, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid session payload")
	}
	scheduleDate, err := time.Parse(dateLayout, req.ScheduleDate)
	if err != nil {
		return nil, appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("invalid scheduleDate %q, expected YYYY-MM-DD", req.ScheduleDate))
	}
	period, err := s.loadPeriod(ctx, req.PeriodID)
	if err != nil {
		return nil, err
	}
	if period.IsBreak {
		return nil, appErrors.Clone(appErrors.ErrValidation, "sessions cannot be scheduled into a break period")
	}

	session := &models.Session{
		VersionID:    period.VersionID,
		PeriodID:     period.ID,
		ScheduleDate: scheduleDate,
		SessionTitle: req.SessionTitle,
		SessionType:  models.SessionType(req.SessionType),
		LabID:        req.LabID,
		InstructorID: req.InstructorID,
		ClassID:      req.ClassID,
		GroupID:      req.GroupID,
		Status:       models.SessionStatusScheduled,
		Notes:        req.Notes,
	}

	conflicts, err := s.findConflicts(ctx, session, period, "")
	if err != nil {
		return nil, err
	}
	if len(conflicts) > 0 && s.enforceConflicts {
		return nil, &models.SessionConflictError{
			Message:   fmt.Sprintf("session collides with %d existing session(s)", len(conflicts)),
			Conflicts: conflicts,
		}
	}

	if err := s.sessions.Create(ctx, session); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create session")
	}

	result := &dto.SessionResult{Session: session, Conflicts: conflicts}
	if len(conflicts) > 0 {
		result.Warning = fmt.Sprintf("saved with %d scheduling conflict(s)", len(conflicts))
		s.logger.Warn("session saved with conflicts",
			zap.String("session_id", session.ID),
			zap.Int("conflicts", len(conflicts)))
	}
	return result, nil
}

// Update rewrites an existing session, re-running conflict detection against
// every other session on the target date.
func (s *SessionService) Update(ctx context.Context, id string, req dto.UpdateSessionRequest) (*dto.SessionResult, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid session payload")
	}
	session, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	scheduleDate, err := time.Parse(dateLayout, req.ScheduleDate)
	if err != nil {
		return nil, appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("invalid scheduleDate %q, expected YYYY-MM-DD", req.ScheduleDate))
	}
	period, err := s.loadPeriod(ctx, req.PeriodID)
	if err != nil {
		return nil, err
	}
	if period.IsBreak {
		return nil, appErrors.Clone(appErrors.ErrValidation, "sessions cannot be scheduled into a break period")
	}

	session.VersionID = period.VersionID
	session.PeriodID = period.ID
	session.ScheduleDate = scheduleDate
	session.SessionTitle = req.SessionTitle
	session.SessionType = models.SessionType(req.SessionType)
	session.LabID = req.LabID
	session.InstructorID = req.InstructorID
	session.ClassID = req.ClassID
	session.GroupID = req.GroupID
	session.Notes = req.Notes
	if req.Status != "" {
		session.Status = models.SessionStatus(req.Status)
	}

	conflicts, err := s.findConflicts(ctx, session, period, session.ID)
	if err != nil {
		return nil, err
	}
	if len(conflicts) > 0 && s.enforceConflicts {
		return nil, &models.SessionConflictError{
			Message:   fmt.Sprintf("session collides with %d existing session(s)", len(conflicts)),
			Conflicts: conflicts,
		}
	}

	if err := s.sessions.Update(ctx, session); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "session not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update session")
	}

	result := &dto.SessionResult{Session: session, Conflicts: conflicts}
	if len(conflicts) > 0 {
		result.Warning = fmt.Sprintf("saved with %d scheduling conflict(s)", len(conflicts))
	}
	return result, nil
}

// Delete removes a session.
func (s *SessionService) Delete(ctx context.Context, id string) error {
	if err := s.sessions.Delete(ctx, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return appErrors.Clone(appErrors.ErrNotFound, "session not found")
		}
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete session")
	}
	return nil
}

// ProbeConflicts dry-runs conflict detection for a prospective session
// without writing anything.
func (s *SessionService) ProbeConflicts(ctx context.Context, query dto.ConflictProbeQuery) ([]models.SessionConflict, error) {
	if err := s.validator.Struct(query); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid conflict probe")
	}
	scheduleDate, err := time.Parse(dateLayout, query.ScheduleDate)
	if err != nil {
		return nil, appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("invalid date %q, expected YYYY-MM-DD", query.ScheduleDate))
	}
	period, err := s.loadPeriod(ctx, query.PeriodID)
	if err != nil {
		return nil, err
	}
	candidate := &models.Session{
		ScheduleDate: scheduleDate,
		LabID:        query.LabID,
		InstructorID: query.InstructorID,
		ClassID:      query.ClassID,
		GroupID:      query.GroupID,
	}
	return s.findConflicts(ctx, candidate, period, "")
}

// DailyTimetable returns all sessions on a date joined with period times, in
// display order, for rendering and export.
func (s *SessionService) DailyTimetable(ctx context.Context, date time.Time) ([]models.SessionDetail, error) {
	details, err := s.sessions.ListDetailByDate(ctx, date)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load daily timetable")
	}
	return details, nil
}

func (s *SessionService) loadPeriod(ctx context.Context, id string) (*models.Period, error) {
	period, err := s.periods.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "period not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load period")
	}
	return period, nil
}

// findConflicts compares the candidate against every other session scheduled
// on the same date. Two sessions conflict when their period time ranges
// overlap (half-open, so back-to-back periods never collide) and they share a
// lab, an instructor, or a class where group scopes intersect. Cancelled
// sessions hold no resources.
func (s *SessionService) findConflicts(ctx context.Context, candidate *models.Session, period *models.Period, excludeID string) ([]models.SessionConflict, error) {
	start, err := parseClock(period.StartTime)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "period has unreadable start time")
	}
	end, err := parseClock(period.EndTime)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "period has unreadable end time")
	}

	existing, err := s.sessions.ListDetailByDate(ctx, candidate.ScheduleDate)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load sessions for conflict check")
	}

	var conflicts []models.SessionConflict
	for _, other := range existing {
		if other.ID == excludeID {
			continue
		}
		if other.Status == models.SessionStatusCancelled {
			continue
		}
		otherStart, err := parseClock(other.StartTime)
		if err != nil {
			continue
		}
		otherEnd, err := parseClock(other.EndTime)
		if err != nil {
			continue
		}
		if start >= otherEnd || otherStart >= end {
			continue
		}

		dimension, collides := collisionDimension(candidate, &other)
		if !collides {
			continue
		}
		conflicts = append(conflicts, models.SessionConflict{
			SessionID:    other.ID,
			SessionTitle: other.SessionTitle,
			ScheduleDate: other.ScheduleDate,
			PeriodID:     other.PeriodID,
			StartTime:    other.StartTime,
			EndTime:      other.EndTime,
			LabID:        other.LabID,
			InstructorID: other.InstructorID,
			ClassID:      other.ClassID,
			GroupID:      other.GroupID,
			Dimension:    dimension,
		})
	}
	return conflicts, nil
}

// collisionDimension reports the first shared resource binding two
// time-overlapping sessions together. A class collision only counts when the
// group scopes intersect: a whole-class session blocks every group, while two
// different groups of the same class may run in parallel.
func collisionDimension(candidate *models.Session, other *models.SessionDetail) (models.ConflictDimension, bool) {
	if stringsMatch(candidate.LabID, other.LabID) {
		return models.ConflictDimensionLab, true
	}
	if stringsMatch(candidate.InstructorID, other.InstructorID) {
		return models.ConflictDimensionInstructor, true
	}
	if stringsMatch(candidate.ClassID, other.ClassID) && groupsIntersect(candidate.GroupID, other.GroupID) {
		return models.ConflictDimensionClass, true
	}
	return "", false
}

func stringsMatch(a, b *string) bool {
	return a != nil && b != nil && *a == *b
}

func groupsIntersect(a, b *string) bool {
	if a == nil || b == nil {
		return true
	}
	return *a == *b
}
