package service

import (
	"context"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/labsyncpro/labsync-api/internal/models"
	appErrors "github.com/labsyncpro/labsync-api/pkg/errors"
)

type importUserRepoStub struct {
	existing map[string]bool
	created  []models.User
}

func (s *importUserRepoStub) Create(ctx context.Context, user *models.User) error {
	s.created = append(s.created, *user)
	return nil
}

func (s *importUserRepoStub) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	return s.existing[email], nil
}

func TestImportUsersMixedRows(t *testing.T) {
	repo := &importUserRepoStub{existing: map[string]bool{"taken@school.test": true}}
	svc := NewImportService(repo, 0, nil, nil)

	csvBody := strings.Join([]string{
		"email,full_name,role,password,class_id",
		"alice@school.test,Alice Tan,instructor,s3cretpass,",
		"bob@school.test,Bob Lim,STUDENT,longenough,class-9a",
		"not-an-email,Carol Ng,STUDENT,longenough,",
		"taken@school.test,Dan Oh,ADMIN,longenough,",
		"dave@school.test,Dave Yu,STUDENT,short,",
	}, "\n")

	summary, err := svc.ImportUsers(context.Background(), strings.NewReader(csvBody))
	require.NoError(t, err)
	assert.Equal(t, 5, summary.Processed)
	assert.Equal(t, 2, summary.Successful)
	assert.Equal(t, 3, summary.Failed)
	require.Len(t, summary.Errors, 3)
	assert.Equal(t, 3, summary.Errors[0].Row)
	assert.Equal(t, 4, summary.Errors[1].Row)
	assert.Contains(t, summary.Errors[1].Message, "taken@school.test")
	assert.Equal(t, 5, summary.Errors[2].Row)

	require.Len(t, repo.created, 2)
	assert.Equal(t, models.RoleInstructor, repo.created[0].Role)
	assert.True(t, repo.created[0].Active)
	assert.NotEqual(t, "s3cretpass", repo.created[0].PasswordHash)
	require.NotNil(t, repo.created[1].ClassID)
	assert.Equal(t, "class-9a", *repo.created[1].ClassID)
}

func TestImportUsersMissingColumn(t *testing.T) {
	svc := NewImportService(&importUserRepoStub{}, 0, nil, nil)

	_, err := svc.ImportUsers(context.Background(), strings.NewReader("email,full_name,role\na@b.test,A,STUDENT"))
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)
}

func TestImportUsersEmptyFile(t *testing.T) {
	svc := NewImportService(&importUserRepoStub{}, 0, nil, nil)

	_, err := svc.ImportUsers(context.Background(), strings.NewReader(""))
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)
}

func TestImportUsersRowLimitKeepsEarlierRows(t *testing.T) {
	repo := &importUserRepoStub{}
	svc := NewImportService(repo, 1, nil, nil)

	csvBody := strings.Join([]string{
		"email,full_name,role,password",
		"a@school.test,A,STUDENT,longenough",
		"b@school.test,B,STUDENT,longenough",
		"c@school.test,C,STUDENT,longenough",
	}, "\n")

	summary, err := svc.ImportUsers(context.Background(), strings.NewReader(csvBody))
	require.NoError(t, err)
	assert.Equal(t, 1, summary.Processed)
	assert.Equal(t, 1, summary.Successful)
	require.Len(t, repo.created, 1)
	require.Len(t, summary.Errors, 1)
	assert.Contains(t, summary.Errors[0].Message, "row limit of 1")
}

// brokenReader yields its prefix once, then fails every subsequent read the
// way an aborted upload body does.
type brokenReader struct {
	prefix []byte
	served bool
}

func (r *brokenReader) Read(p []byte) (int, error) {
	if !r.served {
		r.served = true
		return copy(p, r.prefix), nil
	}
	return 0, fmt.Errorf("connection reset")
}

func TestImportUsersStickyReadErrorStops(t *testing.T) {
	repo := &importUserRepoStub{}
	svc := NewImportService(repo, 0, nil, nil)

	reader := &brokenReader{prefix: []byte("email,full_name,role,password\na@school.test,A,STUDENT,longenough\n")}
	summary, err := svc.ImportUsers(context.Background(), reader)
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrInternal.Code, appErrors.FromError(err).Code)
	require.NotNil(t, summary)
	assert.Equal(t, 1, summary.Successful)
	assert.Len(t, repo.created, 1)
}

func TestImportUsersCancelledContext(t *testing.T) {
	svc := NewImportService(&importUserRepoStub{}, 0, nil, nil)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	csvBody := "email,full_name,role,password\na@school.test,A,STUDENT,longenough"
	summary, err := svc.ImportUsers(ctx, strings.NewReader(csvBody))
	require.Error(t, err)
	require.NotNil(t, summary)
	assert.Zero(t, summary.Successful)
}
