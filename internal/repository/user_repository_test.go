package repository

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUserRepositoryRevokeRefreshTokenPersistsTimestamp(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()

	repo := NewUserRepository(db)
	revokedAt := time.Now().UTC()
	mock.ExpectExec("UPDATE refresh_tokens SET revoked = TRUE, revoked_at").
		WithArgs("token-1", revokedAt).
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, repo.RevokeRefreshToken(context.Background(), "token-1", revokedAt))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUserRepositoryRevokeRefreshTokenAlreadyRevoked(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()

	repo := NewUserRepository(db)
	mock.ExpectExec("UPDATE refresh_tokens SET revoked = TRUE, revoked_at").
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.RevokeRefreshToken(context.Background(), "token-1", time.Now().UTC())
	assert.ErrorIs(t, err, sql.ErrNoRows)
}
