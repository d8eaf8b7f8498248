package service

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/labsyncpro/labsync-api/internal/dto"
	"github.com/labsyncpro/labsync-api/internal/models"
	appErrors "github.com/labsyncpro/labsync-api/pkg/errors"
)

type versionRepoStub struct {
	versions []models.TimetableVersion
	created  *models.TimetableVersion
	capped   map[string]time.Time
	redated  map[string]time.Time
}

func (s *versionRepoStub) List(ctx context.Context) ([]models.TimetableVersion, error) {
	return s.versions, nil
}

func (s *versionRepoStub) FindByID(ctx context.Context, id string) (*models.TimetableVersion, error) {
	for i := range s.versions {
		if s.versions[i].ID == id {
			return &s.versions[i], nil
		}
	}
	return nil, sql.ErrNoRows
}

func (s *versionRepoStub) Create(ctx context.Context, exec sqlx.ExtContext, version *models.TimetableVersion) error {
	version.ID = "v-created"
	version.VersionNumber = len(s.versions) + 1
	s.created = version
	s.versions = append(s.versions, *version)
	return nil
}

func (s *versionRepoStub) UpdateEffectiveRange(ctx context.Context, exec sqlx.ExtContext, id string, from time.Time, until *time.Time) error {
	if s.redated == nil {
		s.redated = map[string]time.Time{}
	}
	s.redated[id] = from
	return nil
}

func (s *versionRepoStub) SetEffectiveUntil(ctx context.Context, exec sqlx.ExtContext, id string, until time.Time) error {
	if s.capped == nil {
		s.capped = map[string]time.Time{}
	}
	s.capped[id] = until
	return nil
}

func (s *versionRepoStub) Delete(ctx context.Context, id string) error {
	for _, v := range s.versions {
		if v.ID == id {
			return nil
		}
	}
	return sql.ErrNoRows
}

type periodStoreStub struct {
	byVersion map[string][]models.Period
	replaced  []models.Period
	copied    bool
}

func (s *periodStoreStub) ListByVersion(ctx context.Context, versionID string) ([]models.Period, error) {
	return s.byVersion[versionID], nil
}

func (s *periodStoreStub) ReplaceForVersion(ctx context.Context, exec sqlx.ExtContext, versionID string, periods []models.Period) error {
	s.replaced = periods
	return nil
}

func (s *periodStoreStub) CopyToVersion(ctx context.Context, exec sqlx.ExtContext, fromVersionID, toVersionID string) error {
	s.copied = true
	return nil
}

type sessionCounterStub struct {
	counts    map[string]int
	moved     int64
	repointed bool
}

func (s *sessionCounterStub) CountByVersion(ctx context.Context, versionID string) (int, error) {
	return s.counts[versionID], nil
}

func (s *sessionCounterStub) RepointFromDate(ctx context.Context, exec sqlx.ExtContext, fromVersionID, toVersionID string, pivot time.Time) (int64, error) {
	s.repointed = true
	return s.moved, nil
}

type versionTxMock struct {
	db *sqlx.DB
}

func newVersionTxMock(t *testing.T) (*versionTxMock, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	sqlxDB := sqlx.NewDb(db, "sqlmock")
	t.Cleanup(func() { sqlxDB.Close() })
	return &versionTxMock{db: sqlxDB}, mock
}

func (m *versionTxMock) BeginTxx(ctx context.Context, opts *sql.TxOptions) (*sqlx.Tx, error) {
	return m.db.BeginTxx(ctx, opts)
}

func date(value string) time.Time {
	parsed, err := time.Parse("2006-01-02", value)
	if err != nil {
		panic(err)
	}
	return parsed
}

func datePtr(value string) *time.Time {
	d := date(value)
	return &d
}

func newVersionFixture(t *testing.T, versions *versionRepoStub, periods *periodStoreStub, sessions *sessionCounterStub) (*TimetableVersionService, sqlmock.Sqlmock) {
	t.Helper()
	if periods == nil {
		periods = &periodStoreStub{}
	}
	if sessions == nil {
		sessions = &sessionCounterStub{}
	}
	tx, mock := newVersionTxMock(t)
	svc := NewTimetableVersionService(versions, periods, sessions, tx, nil, nil, 0, nil, nil)
	return svc, mock
}

type versionCacheStub struct {
	entries map[string]dto.VersionDetail
}

func newVersionCacheStub() *versionCacheStub {
	return &versionCacheStub{entries: map[string]dto.VersionDetail{}}
}

func (s *versionCacheStub) Get(ctx context.Context, key string, dest interface{}) error {
	cached, ok := s.entries[key]
	if !ok {
		return appErrors.ErrCacheMiss
	}
	*dest.(*dto.VersionDetail) = cached
	return nil
}

func (s *versionCacheStub) Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	s.entries[key] = *value.(*dto.VersionDetail)
	return nil
}

func (s *versionCacheStub) DeleteByPattern(ctx context.Context, pattern string) error {
	s.entries = map[string]dto.VersionDetail{}
	return nil
}

func TestCreateVersionRejectsNonAppendDates(t *testing.T) {
	repo := &versionRepoStub{versions: []models.TimetableVersion{
		{ID: "v1", VersionNumber: 1, EffectiveFrom: date("2026-09-01")},
	}}
	svc, _ := newVersionFixture(t, repo, nil, nil)

	_, err := svc.Create(context.Background(), dto.CreateVersionRequest{
		VersionName:   "Winter",
		EffectiveFrom: "2026-09-01",
	}, "")
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrConflict.Code, appErrors.FromError(err).Code)

	_, err = svc.Create(context.Background(), dto.CreateVersionRequest{
		VersionName:   "Winter",
		EffectiveFrom: "2026-08-01",
	}, "")
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrConflict.Code, appErrors.FromError(err).Code)
}

func TestCreateVersionCopiesPeriodsInTransaction(t *testing.T) {
	repo := &versionRepoStub{versions: []models.TimetableVersion{
		{ID: "v1", VersionNumber: 1, EffectiveFrom: date("2026-09-01")},
	}}
	periods := &periodStoreStub{}
	svc, mock := newVersionFixture(t, repo, periods, nil)
	mock.ExpectBegin()
	mock.ExpectCommit()

	_, err := svc.Create(context.Background(), dto.CreateVersionRequest{
		VersionName:       "Winter",
		EffectiveFrom:     "2026-11-01",
		CopyFromVersionID: "v1",
	}, "admin-1")
	require.NoError(t, err)
	require.NotNil(t, repo.created)
	assert.Equal(t, 2, repo.created.VersionNumber)
	assert.True(t, periods.copied)
	require.NotNil(t, repo.created.CreatedBy)
	assert.Equal(t, "admin-1", *repo.created.CreatedBy)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetEffectiveSelectsLatestCoveringVersion(t *testing.T) {
	repo := &versionRepoStub{versions: []models.TimetableVersion{
		// Newest effective_from first, matching repository ordering.
		{ID: "v3", VersionNumber: 3, EffectiveFrom: date("2026-11-01")},
		{ID: "v2", VersionNumber: 2, EffectiveFrom: date("2026-10-01"), EffectiveUntil: datePtr("2026-11-01")},
		{ID: "v1", VersionNumber: 1, EffectiveFrom: date("2026-09-01"), EffectiveUntil: datePtr("2026-10-01")},
	}}
	svc, _ := newVersionFixture(t, repo, nil, nil)

	detail, err := svc.GetEffective(context.Background(), date("2026-10-15"))
	require.NoError(t, err)
	assert.Equal(t, "v2", detail.ID)
	assert.Equal(t, models.VersionStatusActive, detail.Status)

	detail, err = svc.GetEffective(context.Background(), date("2026-12-25"))
	require.NoError(t, err)
	assert.Equal(t, "v3", detail.ID)

	_, err = svc.GetEffective(context.Background(), date("2026-08-01"))
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrNotFound.Code, appErrors.FromError(err).Code)
}

func TestGetEffectiveCountsCacheHitsAndMisses(t *testing.T) {
	repo := &versionRepoStub{versions: []models.TimetableVersion{
		{ID: "v1", VersionNumber: 1, EffectiveFrom: date("2026-09-01")},
	}}
	cache := newVersionCacheStub()
	metrics := NewMetricsService()
	tx, _ := newVersionTxMock(t)
	svc := NewTimetableVersionService(repo, &periodStoreStub{}, &sessionCounterStub{}, tx, cache, metrics, time.Minute, nil, nil)

	detail, err := svc.GetEffective(context.Background(), date("2026-10-15"))
	require.NoError(t, err)
	assert.Equal(t, "v1", detail.ID)
	assert.Equal(t, float64(0), testutil.ToFloat64(metrics.cacheHits))
	assert.Equal(t, float64(1), testutil.ToFloat64(metrics.cacheMisses))

	detail, err = svc.GetEffective(context.Background(), date("2026-10-15"))
	require.NoError(t, err)
	assert.Equal(t, "v1", detail.ID)
	assert.Equal(t, float64(1), testutil.ToFloat64(metrics.cacheHits))
	assert.Equal(t, float64(1), testutil.ToFloat64(metrics.cacheMisses))
}

func TestActivateCapsPredecessorAndMovesSessions(t *testing.T) {
	repo := &versionRepoStub{versions: []models.TimetableVersion{
		{ID: "v2", VersionNumber: 2, EffectiveFrom: date("2027-01-01")},
		{ID: "v1", VersionNumber: 1, EffectiveFrom: date("2026-09-01")},
	}}
	sessions := &sessionCounterStub{moved: 7}
	svc, mock := newVersionFixture(t, repo, nil, sessions)
	mock.ExpectBegin()
	mock.ExpectCommit()

	_, err := svc.Activate(context.Background(), "v2", dto.ActivateVersionRequest{
		EffectiveFrom: "2026-11-01",
		MoveSchedules: true,
	})
	require.NoError(t, err)
	assert.Equal(t, date("2026-11-01"), repo.redated["v2"])
	assert.Equal(t, date("2026-11-01"), repo.capped["v1"])
	assert.True(t, sessions.repointed)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestActivateLeavesSessionsUnlessRequested(t *testing.T) {
	repo := &versionRepoStub{versions: []models.TimetableVersion{
		{ID: "v2", VersionNumber: 2, EffectiveFrom: date("2027-01-01")},
		{ID: "v1", VersionNumber: 1, EffectiveFrom: date("2026-09-01")},
	}}
	sessions := &sessionCounterStub{moved: 7}
	svc, mock := newVersionFixture(t, repo, nil, sessions)
	mock.ExpectBegin()
	mock.ExpectCommit()

	_, err := svc.Activate(context.Background(), "v2", dto.ActivateVersionRequest{EffectiveFrom: "2026-11-01"})
	require.NoError(t, err)
	assert.Equal(t, date("2026-11-01"), repo.capped["v1"])
	assert.False(t, sessions.repointed)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCompareVersionsClassifiesDiffs(t *testing.T) {
	repo := &versionRepoStub{versions: []models.TimetableVersion{
		{ID: "va", VersionNumber: 1, EffectiveFrom: date("2026-09-01")},
		{ID: "vb", VersionNumber: 2, EffectiveFrom: date("2026-10-01")},
	}}
	periods := &periodStoreStub{byVersion: map[string][]models.Period{
		"va": {
			{PeriodNumber: 1, PeriodName: "Lecture 1", StartTime: "08:00", EndTime: "08:45"},
			{PeriodNumber: 2, PeriodName: "Lecture 2", StartTime: "08:45", EndTime: "09:30"},
			{PeriodNumber: 3, PeriodName: "Lecture 3", StartTime: "09:30", EndTime: "10:15"},
		},
		"vb": {
			{PeriodNumber: 1, PeriodName: "Lecture 1", StartTime: "08:00", EndTime: "08:45"},
			{PeriodNumber: 2, PeriodName: "Lecture 2", StartTime: "08:45", EndTime: "09:40"},
			{PeriodNumber: 4, PeriodName: "Lecture 4", StartTime: "09:40", EndTime: "10:25"},
		},
	}}
	sessions := &sessionCounterStub{counts: map[string]int{"va": 12, "vb": 3}}
	svc, _ := newVersionFixture(t, repo, periods, sessions)

	comparison, err := svc.Compare(context.Background(), "va", "vb")
	require.NoError(t, err)
	require.Len(t, comparison.Periods, 4)

	byNumber := map[int]dto.PeriodChange{}
	for _, diff := range comparison.Periods {
		byNumber[diff.PeriodNumber] = diff.Change
	}
	assert.Equal(t, dto.PeriodUnchanged, byNumber[1])
	assert.Equal(t, dto.PeriodModified, byNumber[2])
	assert.Equal(t, dto.PeriodRemoved, byNumber[3])
	assert.Equal(t, dto.PeriodAdded, byNumber[4])

	assert.Equal(t, 1, comparison.Summary.PeriodsAdded)
	assert.Equal(t, 1, comparison.Summary.PeriodsRemoved)
	assert.Equal(t, 1, comparison.Summary.PeriodsModified)
	assert.Equal(t, 3, comparison.Summary.PeriodsChanged)
	assert.Equal(t, 12, comparison.Schedules.CountA)
	assert.Equal(t, 3, comparison.Schedules.CountB)
}

func TestCompareVersionsRejectsSelfCompare(t *testing.T) {
	svc, _ := newVersionFixture(t, &versionRepoStub{}, nil, nil)
	_, err := svc.Compare(context.Background(), "va", "va")
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)
}

func TestValidateVersionFindsGapsAndOverlaps(t *testing.T) {
	repo := &versionRepoStub{versions: []models.TimetableVersion{
		{ID: "v1", VersionNumber: 1, EffectiveFrom: date("2026-09-01")},
	}}
	periods := &periodStoreStub{byVersion: map[string][]models.Period{
		"v1": {
			{PeriodNumber: 1, PeriodName: "Lecture 1", StartTime: "08:00", EndTime: "08:45"},
			{PeriodNumber: 2, PeriodName: "Lecture 2", StartTime: "09:00", EndTime: "09:45"},
			{PeriodNumber: 3, PeriodName: "Lecture 3", StartTime: "09:30", EndTime: "10:15"},
		},
	}}
	svc, _ := newVersionFixture(t, repo, periods, nil)

	result, err := svc.Validate(context.Background(), "v1")
	require.NoError(t, err)
	assert.False(t, result.IsValid)
	require.Len(t, result.Issues, 2)

	var gaps, overlaps *dto.ValidationIssue
	for i := range result.Issues {
		switch result.Issues[i].Type {
		case dto.IssueGap:
			gaps = &result.Issues[i]
		case dto.IssueOverlap:
			overlaps = &result.Issues[i]
		}
	}
	require.NotNil(t, gaps)
	assert.Equal(t, []string{"08:45-09:00"}, gaps.Gaps)
	require.NotNil(t, overlaps)
	assert.Equal(t, [2]string{"Lecture 2", "Lecture 3"}, overlaps.Overlaps[0])
}

func TestValidateVersionAcceptsContiguousDay(t *testing.T) {
	repo := &versionRepoStub{versions: []models.TimetableVersion{
		{ID: "v1", VersionNumber: 1, EffectiveFrom: date("2026-09-01")},
	}}
	periods := &periodStoreStub{byVersion: map[string][]models.Period{
		"v1": {
			{PeriodNumber: 1, PeriodName: "Lecture 1", StartTime: "08:00", EndTime: "08:45"},
			{PeriodNumber: 2, PeriodName: "Break 1", StartTime: "08:45", EndTime: "09:00", IsBreak: true},
			{PeriodNumber: 3, PeriodName: "Lecture 2", StartTime: "09:00", EndTime: "09:45"},
		},
	}}
	svc, _ := newVersionFixture(t, repo, periods, nil)

	result, err := svc.Validate(context.Background(), "v1")
	require.NoError(t, err)
	assert.True(t, result.IsValid)
	assert.Empty(t, result.Issues)
}

func TestReplacePeriodsRejectsEffectiveVersions(t *testing.T) {
	repo := &versionRepoStub{versions: []models.TimetableVersion{
		{ID: "v1", VersionNumber: 1, EffectiveFrom: date("2020-01-01")},
	}}
	svc, _ := newVersionFixture(t, repo, nil, nil)

	_, err := svc.ReplacePeriods(context.Background(), "v1", dto.ReplacePeriodsRequest{
		Periods: []dto.PeriodInput{
			{PeriodNumber: 1, PeriodName: "Lecture 1", StartTime: "08:00", EndTime: "08:45"},
		},
	})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrConflict.Code, appErrors.FromError(err).Code)
}

func TestReplacePeriodsRejectsDuplicateNumbers(t *testing.T) {
	repo := &versionRepoStub{versions: []models.TimetableVersion{
		{ID: "v1", VersionNumber: 1, EffectiveFrom: date("2100-01-01")},
	}}
	svc, _ := newVersionFixture(t, repo, nil, nil)

	_, err := svc.ReplacePeriods(context.Background(), "v1", dto.ReplacePeriodsRequest{
		Periods: []dto.PeriodInput{
			{PeriodNumber: 1, PeriodName: "Lecture 1", StartTime: "08:00", EndTime: "08:45"},
			{PeriodNumber: 1, PeriodName: "Lecture 1 again", StartTime: "08:45", EndTime: "09:30"},
		},
	})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)
}

func TestDeleteVersionRejectsVersionsWithSessions(t *testing.T) {
	repo := &versionRepoStub{versions: []models.TimetableVersion{
		{ID: "v1", VersionNumber: 1, EffectiveFrom: date("2100-01-01")},
	}}
	sessions := &sessionCounterStub{counts: map[string]int{"v1": 4}}
	svc, _ := newVersionFixture(t, repo, nil, sessions)

	err := svc.Delete(context.Background(), "v1")
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrConflict.Code, appErrors.FromError(err).Code)
}
