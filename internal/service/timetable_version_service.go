package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"

	"github.com/labsyncpro/labsync-api/internal/dto"
	"github.com/labsyncpro/labsync-api/internal/models"
	appErrors "github.com/labsyncpro/labsync-api/pkg/errors"
)

const dateLayout = "2006-01-02"

type versionRepository interface {
	List(ctx context.Context) ([]models.TimetableVersion, error)
	FindByID(ctx context.Context, id string) (*models.TimetableVersion, error)
	Create(ctx context.Context, exec sqlx.ExtContext, version *models.TimetableVersion) error
	UpdateEffectiveRange(ctx context.Context, exec sqlx.ExtContext, id string, from time.Time, until *time.Time) error
	SetEffectiveUntil(ctx context.Context, exec sqlx.ExtContext, id string, until time.Time) error
	Delete(ctx context.Context, id string) error
}

type periodStore interface {
	ListByVersion(ctx context.Context, versionID string) ([]models.Period, error)
	ReplaceForVersion(ctx context.Context, exec sqlx.ExtContext, versionID string, periods []models.Period) error
	CopyToVersion(ctx context.Context, exec sqlx.ExtContext, fromVersionID, toVersionID string) error
}

type sessionCounter interface {
	CountByVersion(ctx context.Context, versionID string) (int, error)
	RepointFromDate(ctx context.Context, exec sqlx.ExtContext, fromVersionID, toVersionID string, pivot time.Time) (int64, error)
}

type txProvider interface {
	BeginTxx(ctx context.Context, opts *sql.TxOptions) (*sqlx.Tx, error)
}

type versionCache interface {
	Get(ctx context.Context, key string, dest interface{}) error
	Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error
	DeleteByPattern(ctx context.Context, pattern string) error
}

// TimetableVersionService manages the append-only history of period
// configurations. Versions are never edited in place once effective; changes
// land as new versions dated from the day they take effect.
type TimetableVersionService struct {
	versions  versionRepository
	periods   periodStore
	sessions  sessionCounter
	tx        txProvider
	cache     versionCache
	metrics   *MetricsService
	cacheTTL  time.Duration
	validator *validator.Validate
	logger    *zap.Logger
}

// NewTimetableVersionService constructs the version manager.
func NewTimetableVersionService(
	versions versionRepository,
	periods periodStore,
	sessions sessionCounter,
	tx txProvider,
	cache versionCache,
	metrics *MetricsService,
	cacheTTL time.Duration,
	validate *validator.Validate,
	logger *zap.Logger,
) *TimetableVersionService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	if cacheTTL <= 0 {
		cacheTTL = 5 * time.Minute
	}
	return &TimetableVersionService{
		versions:  versions,
		periods:   periods,
		sessions:  sessions,
		tx:        tx,
		cache:     cache,
		metrics:   metrics,
		cacheTTL:  cacheTTL,
		validator: validate,
		logger:    logger,
	}
}

// List returns every version, newest effective date first, with derived status.
func (s *TimetableVersionService) List(ctx context.Context) ([]dto.VersionDetail, error) {
	versions, err := s.versions.List(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list timetable versions")
	}
	today := time.Now().UTC()
	details := make([]dto.VersionDetail, 0, len(versions))
	for _, v := range versions {
		details = append(details, dto.VersionDetail{TimetableVersion: v, Status: v.StatusAt(today)})
	}
	return details, nil
}

// Get returns a version with its full period set.
func (s *TimetableVersionService) Get(ctx context.Context, id string) (*dto.VersionDetail, error) {
	version, err := s.versions.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "timetable version not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load timetable version")
	}
	periods, err := s.periods.ListByVersion(ctx, id)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load version periods")
	}
	return &dto.VersionDetail{
		TimetableVersion: *version,
		Status:           version.StatusAt(time.Now().UTC()),
		Periods:          periods,
	}, nil
}

// Create opens a new version. The effective date must land strictly after
// every existing version so the history stays append-only; period sets may be
// copied from an existing version in the same transaction.
func (s *TimetableVersionService) Create(ctx context.Context, req dto.CreateVersionRequest, createdBy string) (*dto.VersionDetail, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid create version payload")
	}
	effectiveFrom, err := time.Parse(dateLayout, req.EffectiveFrom)
	if err != nil {
		return nil, appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("invalid effectiveFrom %q, expected YYYY-MM-DD", req.EffectiveFrom))
	}

	existing, err := s.versions.List(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to inspect version history")
	}
	for _, v := range existing {
		if !effectiveFrom.After(v.EffectiveFrom) {
			return nil, appErrors.Clone(appErrors.ErrConflict,
				fmt.Sprintf("effectiveFrom must be after %s (version %d)", v.EffectiveFrom.Format(dateLayout), v.VersionNumber))
		}
	}
	if req.CopySchedules && req.CopyFromVersionID == "" {
		return nil, appErrors.Clone(appErrors.ErrValidation, "copySchedules requires copyFromVersionId")
	}
	if req.CopyFromVersionID != "" {
		if _, err := s.versions.FindByID(ctx, req.CopyFromVersionID); err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return nil, appErrors.Clone(appErrors.ErrNotFound, "source version not found")
			}
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load source version")
		}
	}

	version := &models.TimetableVersion{
		VersionName:   req.VersionName,
		Description:   req.Description,
		EffectiveFrom: effectiveFrom,
	}
	if createdBy != "" {
		version.CreatedBy = &createdBy
	}

	tx, err := s.tx.BeginTxx(ctx, nil)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to open transaction")
	}
	defer func() { _ = tx.Rollback() }()

	if err := s.versions.Create(ctx, tx, version); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create timetable version")
	}
	if req.CopyFromVersionID != "" {
		if err := s.periods.CopyToVersion(ctx, tx, req.CopyFromVersionID, version.ID); err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to copy periods")
		}
	}
	if req.CopySchedules {
		if _, err := s.sessions.RepointFromDate(ctx, tx, req.CopyFromVersionID, version.ID, effectiveFrom); err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to carry schedules forward")
		}
	}
	if err := tx.Commit(); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to commit version")
	}

	s.invalidateCache(ctx)
	s.logger.Info("timetable version created",
		zap.String("version_id", version.ID),
		zap.Int("version_number", version.VersionNumber),
		zap.String("effective_from", effectiveFrom.Format(dateLayout)))

	return s.Get(ctx, version.ID)
}

// ReplacePeriods swaps the full period set of a version. Only versions that
// have not yet taken effect may be edited; effective history is immutable.
func (s *TimetableVersionService) ReplacePeriods(ctx context.Context, versionID string, req dto.ReplacePeriodsRequest) ([]models.Period, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid periods payload")
	}
	version, err := s.versions.FindByID(ctx, versionID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "timetable version not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load timetable version")
	}
	if version.StatusAt(time.Now().UTC()) != models.VersionStatusDraft {
		return nil, appErrors.Clone(appErrors.ErrConflict, "periods of an effective version cannot be replaced; create a new version")
	}

	periods := make([]models.Period, 0, len(req.Periods))
	seen := make(map[int]bool, len(req.Periods))
	for _, p := range req.Periods {
		if seen[p.PeriodNumber] {
			return nil, appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("duplicate period number %d", p.PeriodNumber))
		}
		seen[p.PeriodNumber] = true
		start, err := parseClock(p.StartTime)
		if err != nil {
			return nil, appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("period %d: invalid start time %q", p.PeriodNumber, p.StartTime))
		}
		end, err := parseClock(p.EndTime)
		if err != nil {
			return nil, appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("period %d: invalid end time %q", p.PeriodNumber, p.EndTime))
		}
		if start >= end {
			return nil, appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("period %d: start time must be before end time", p.PeriodNumber))
		}
		model := models.Period{
			PeriodNumber: p.PeriodNumber,
			PeriodName:   p.PeriodName,
			StartTime:    p.StartTime,
			EndTime:      p.EndTime,
			IsBreak:      p.IsBreak,
			DisplayOrder: p.DisplayOrder,
		}
		if model.DisplayOrder == 0 {
			model.DisplayOrder = len(periods) + 1
		}
		if p.IsBreak {
			duration := p.BreakDurationMinutes
			if duration == 0 {
				duration = end - start
			}
			model.BreakDurationMinutes = &duration
		}
		periods = append(periods, model)
	}

	tx, err := s.tx.BeginTxx(ctx, nil)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to open transaction")
	}
	defer func() { _ = tx.Rollback() }()

	if err := s.periods.ReplaceForVersion(ctx, tx, versionID, periods); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to replace periods")
	}
	if err := tx.Commit(); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to commit periods")
	}

	s.invalidateCache(ctx)
	return periods, nil
}

// GetEffective selects the version governing the given date: the one with the
// latest effective_from on or before it. Selection is pure; nothing is
// mutated by reads.
func (s *TimetableVersionService) GetEffective(ctx context.Context, date time.Time) (*dto.VersionDetail, error) {
	day := date.Truncate(24 * time.Hour)
	cacheKey := fmt.Sprintf("timetable:effective:%s", day.Format(dateLayout))
	if s.cache != nil {
		var cached dto.VersionDetail
		if err := s.cache.Get(ctx, cacheKey, &cached); err == nil {
			s.metrics.RecordCacheOperation(true)
			return &cached, nil
		}
		s.metrics.RecordCacheOperation(false)
	}

	versions, err := s.versions.List(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list timetable versions")
	}

	// List is ordered by effective_from descending, so the first version
	// dated on or before the target day wins.
	for _, v := range versions {
		if day.Before(v.EffectiveFrom) {
			continue
		}
		detail, err := s.Get(ctx, v.ID)
		if err != nil {
			return nil, err
		}
		detail.Status = v.StatusAt(day)
		if s.cache != nil {
			if err := s.cache.Set(ctx, cacheKey, detail, s.cacheTTL); err != nil {
				s.logger.Warn("failed to cache effective version", zap.Error(err))
			}
		}
		return detail, nil
	}
	return nil, appErrors.Clone(appErrors.ErrNotFound, fmt.Sprintf("no timetable version is effective on %s", day.Format(dateLayout)))
}

// Activate re-dates a version to take effect from the given date and caps the
// version it supersedes. Future-dated sessions stay on their original version
// unless moveSchedules is set, in which case they migrate onto the new period
// set by matching period numbers.
func (s *TimetableVersionService) Activate(ctx context.Context, versionID string, req dto.ActivateVersionRequest) (*dto.VersionDetail, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid activate payload")
	}
	effectiveFrom, err := time.Parse(dateLayout, req.EffectiveFrom)
	if err != nil {
		return nil, appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("invalid effectiveFrom %q, expected YYYY-MM-DD", req.EffectiveFrom))
	}

	version, err := s.versions.FindByID(ctx, versionID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "timetable version not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load timetable version")
	}

	versions, err := s.versions.List(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list timetable versions")
	}

	// The predecessor is whichever other version currently covers the
	// activation date; it gets capped so the ranges stay disjoint.
	var predecessor *models.TimetableVersion
	for i := range versions {
		v := versions[i]
		if v.ID == version.ID {
			continue
		}
		if v.Covers(effectiveFrom) {
			predecessor = &v
			break
		}
	}

	tx, err := s.tx.BeginTxx(ctx, nil)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to open transaction")
	}
	defer func() { _ = tx.Rollback() }()

	if err := s.versions.UpdateEffectiveRange(ctx, tx, version.ID, effectiveFrom, nil); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to re-date version")
	}
	var moved int64
	if predecessor != nil {
		if err := s.versions.SetEffectiveUntil(ctx, tx, predecessor.ID, effectiveFrom); err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to cap superseded version")
		}
		if req.MoveSchedules {
			moved, err = s.sessions.RepointFromDate(ctx, tx, predecessor.ID, version.ID, effectiveFrom)
			if err != nil {
				return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to move future sessions")
			}
		}
	}
	if err := tx.Commit(); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to commit activation")
	}

	s.invalidateCache(ctx)
	s.logger.Info("timetable version activated",
		zap.String("version_id", version.ID),
		zap.String("effective_from", effectiveFrom.Format(dateLayout)),
		zap.Int64("sessions_moved", moved))

	return s.Get(ctx, version.ID)
}

// Compare diffs two versions period by period, keyed on period number, and
// reports session counts on both sides.
func (s *TimetableVersionService) Compare(ctx context.Context, versionAID, versionBID string) (*dto.VersionComparison, error) {
	if versionAID == versionBID {
		return nil, appErrors.Clone(appErrors.ErrValidation, "cannot compare a version with itself")
	}
	for _, id := range []string{versionAID, versionBID} {
		if _, err := s.versions.FindByID(ctx, id); err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return nil, appErrors.Clone(appErrors.ErrNotFound, "timetable version not found")
			}
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load timetable version")
		}
	}

	periodsA, err := s.periods.ListByVersion(ctx, versionAID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load periods")
	}
	periodsB, err := s.periods.ListByVersion(ctx, versionBID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load periods")
	}

	byNumberA := make(map[int]*models.Period, len(periodsA))
	for i := range periodsA {
		byNumberA[periodsA[i].PeriodNumber] = &periodsA[i]
	}
	byNumberB := make(map[int]*models.Period, len(periodsB))
	for i := range periodsB {
		byNumberB[periodsB[i].PeriodNumber] = &periodsB[i]
	}

	numbers := make([]int, 0, len(byNumberA)+len(byNumberB))
	for n := range byNumberA {
		numbers = append(numbers, n)
	}
	for n := range byNumberB {
		if _, ok := byNumberA[n]; !ok {
			numbers = append(numbers, n)
		}
	}
	sort.Ints(numbers)

	comparison := &dto.VersionComparison{}
	for _, n := range numbers {
		left, inA := byNumberA[n]
		right, inB := byNumberB[n]
		diff := dto.PeriodDiff{PeriodNumber: n, Left: left, Right: right}
		switch {
		case inA && !inB:
			diff.Change = dto.PeriodRemoved
			comparison.Summary.PeriodsRemoved++
		case !inA && inB:
			diff.Change = dto.PeriodAdded
			comparison.Summary.PeriodsAdded++
		case periodsEqual(*left, *right):
			diff.Change = dto.PeriodUnchanged
		default:
			diff.Change = dto.PeriodModified
			comparison.Summary.PeriodsModified++
		}
		comparison.Periods = append(comparison.Periods, diff)
	}
	comparison.Summary.PeriodsChanged = comparison.Summary.PeriodsAdded + comparison.Summary.PeriodsRemoved + comparison.Summary.PeriodsModified

	countA, err := s.sessions.CountByVersion(ctx, versionAID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to count sessions")
	}
	countB, err := s.sessions.CountByVersion(ctx, versionBID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to count sessions")
	}
	comparison.Schedules = dto.ScheduleCountComparison{CountA: countA, CountB: countB}

	return comparison, nil
}

// Validate checks one version's period set for coverage gaps and overlapping
// slots. Findings are advisory; an invalid version can still be saved.
func (s *TimetableVersionService) Validate(ctx context.Context, versionID string) (*dto.VersionValidationResult, error) {
	if _, err := s.versions.FindByID(ctx, versionID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "timetable version not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load timetable version")
	}
	periods, err := s.periods.ListByVersion(ctx, versionID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load periods")
	}

	type slot struct {
		name      string
		start     int
		end       int
		startText string
		endText   string
	}
	slots := make([]slot, 0, len(periods))
	for _, p := range periods {
		start, err := parseClock(p.StartTime)
		if err != nil {
			return nil, appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("period %d has invalid start time %q", p.PeriodNumber, p.StartTime))
		}
		end, err := parseClock(p.EndTime)
		if err != nil {
			return nil, appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("period %d has invalid end time %q", p.PeriodNumber, p.EndTime))
		}
		slots = append(slots, slot{name: p.PeriodName, start: start, end: end, startText: p.StartTime, endText: p.EndTime})
	}
	sort.Slice(slots, func(i, j int) bool {
		if slots[i].start != slots[j].start {
			return slots[i].start < slots[j].start
		}
		return slots[i].end < slots[j].end
	})

	result := &dto.VersionValidationResult{IsValid: true}
	var gaps []string
	var overlaps [][2]string
	for i := 1; i < len(slots); i++ {
		prev, cur := slots[i-1], slots[i]
		if cur.start > prev.end {
			gaps = append(gaps, fmt.Sprintf("%s-%s", prev.endText, cur.startText))
		}
		if cur.start < prev.end {
			overlaps = append(overlaps, [2]string{prev.name, cur.name})
		}
	}
	if len(gaps) > 0 {
		result.IsValid = false
		result.Issues = append(result.Issues, dto.ValidationIssue{
			Type:        dto.IssueGap,
			Description: fmt.Sprintf("%d uncovered time range(s) inside the school day", len(gaps)),
			Gaps:        gaps,
		})
	}
	if len(overlaps) > 0 {
		result.IsValid = false
		result.Issues = append(result.Issues, dto.ValidationIssue{
			Type:        dto.IssueOverlap,
			Description: fmt.Sprintf("%d overlapping period pair(s)", len(overlaps)),
			Overlaps:    overlaps,
		})
	}
	return result, nil
}

// Delete removes a version that never took effect and owns no sessions.
func (s *TimetableVersionService) Delete(ctx context.Context, versionID string) error {
	version, err := s.versions.FindByID(ctx, versionID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return appErrors.Clone(appErrors.ErrNotFound, "timetable version not found")
		}
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load timetable version")
	}
	if version.StatusAt(time.Now().UTC()) != models.VersionStatusDraft {
		return appErrors.Clone(appErrors.ErrConflict, "only versions that never took effect can be deleted")
	}
	count, err := s.sessions.CountByVersion(ctx, versionID)
	if err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to count sessions")
	}
	if count > 0 {
		return appErrors.Clone(appErrors.ErrConflict, fmt.Sprintf("%d session(s) still reference this version", count))
	}
	if err := s.versions.Delete(ctx, versionID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return appErrors.Clone(appErrors.ErrNotFound, "timetable version not found")
		}
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete timetable version")
	}
	s.invalidateCache(ctx)
	return nil
}

func (s *TimetableVersionService) invalidateCache(ctx context.Context) {
	if s.cache == nil {
		return
	}
	if err := s.cache.DeleteByPattern(ctx, "timetable:*"); err != nil {
		s.logger.Warn("failed to invalidate timetable cache", zap.Error(err))
	}
}

func periodsEqual(a, b models.Period) bool {
	if a.PeriodName != b.PeriodName || a.StartTime != b.StartTime || a.EndTime != b.EndTime || a.IsBreak != b.IsBreak {
		return false
	}
	switch {
	case a.BreakDurationMinutes == nil && b.BreakDurationMinutes == nil:
		return true
	case a.BreakDurationMinutes == nil || b.BreakDurationMinutes == nil:
		return false
	default:
		return *a.BreakDurationMinutes == *b.BreakDurationMinutes
	}
}
