package repository

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/labsyncpro/labsync-api/internal/models"
)

func TestSessionRepositoryListAppliesFilters(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()

	repo := NewSessionRepository(db)
	now := time.Now()
	rows := sqlmock.NewRows([]string{"id", "version_id", "period_id", "schedule_date", "session_title", "session_type", "lab_id", "instructor_id", "class_id", "group_id", "status", "notes", "created_at", "updated_at"}).
		AddRow("s1", "v1", "p1", now, "Networking Lab", "LAB", nil, nil, nil, nil, "SCHEDULED", "", now, now)
	mock.ExpectQuery("ORDER BY schedule_date ASC LIMIT 20 OFFSET 0").
		WithArgs("v1", models.SessionStatusScheduled).
		WillReturnRows(rows)
	mock.ExpectQuery("SELECT COUNT").
		WithArgs("v1", models.SessionStatusScheduled).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))

	sessions, total, err := repo.List(context.Background(), models.SessionFilter{
		VersionID: "v1",
		Status:    models.SessionStatusScheduled,
	})
	require.NoError(t, err)
	require.Len(t, sessions, 1)
	assert.Equal(t, "s1", sessions[0].ID)
	assert.Equal(t, 1, total)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSessionRepositoryCreateSetsDefaults(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()

	repo := NewSessionRepository(db)
	mock.ExpectExec("INSERT INTO sessions").
		WillReturnResult(sqlmock.NewResult(1, 1))

	session := &models.Session{
		VersionID:    "v1",
		PeriodID:     "p1",
		ScheduleDate: time.Now(),
		SessionTitle: "Networking Lab",
		SessionType:  models.SessionTypeLab,
	}
	require.NoError(t, repo.Create(context.Background(), session))
	assert.NotEmpty(t, session.ID)
	assert.Equal(t, models.SessionStatusScheduled, session.Status)
}

func TestSessionRepositoryUpdateMissing(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()

	repo := NewSessionRepository(db)
	mock.ExpectExec("UPDATE sessions").
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.Update(context.Background(), &models.Session{ID: "missing"})
	assert.ErrorIs(t, err, sql.ErrNoRows)
}

func TestSessionRepositoryRepointFromDate(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()

	repo := NewSessionRepository(db)
	mock.ExpectExec("UPDATE sessions s").
		WithArgs("v1", "v2", sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 5))

	moved, err := repo.RepointFromDate(context.Background(), nil, "v1", "v2", time.Now())
	require.NoError(t, err)
	assert.Equal(t, int64(5), moved)
}
