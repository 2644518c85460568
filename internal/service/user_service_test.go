package service

import (
	"context"
	"net/http"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/job-board/internal/domain"
	"github.com/spec-kit/job-board/internal/repository"
)

func TestUpdateProfileChangesOnlyProvidedFields(t *testing.T) {
	f := newFixture(t)
	applicant := f.user(t, "Alex", domain.RoleApplicant, "old.pdf")

	bio := "Gopher"
	updated, err := f.users.UpdateProfile(context.Background(), applicant, ProfileUpdate{
		Bio:    &bio,
		Skills: []string{"go", "sql"},
	})
	require.NoError(t, err)
	assert.Equal(t, "Alex", updated.Name)
	assert.Equal(t, "Gopher", updated.Profile.Bio)
	assert.Equal(t, []string{"go", "sql"}, updated.Profile.Skills)
	assert.Equal(t, "old.pdf", updated.Profile.Resume)
}

func TestUploadResumeBecomesApplicationDefault(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	employer := f.user(t, "Erin", domain.RoleEmployer, "")
	applicant := f.user(t, "Alex", domain.RoleApplicant, "")
	job := f.job(t, employer, nil)

	user, err := f.users.UploadResume(ctx, applicant, &ResumeUpload{FileName: "cv.docx", Size: 4, Content: strings.NewReader("docx")})
	require.NoError(t, err)
	require.NotEmpty(t, user.Profile.Resume)

	detail, err := f.applications.Apply(ctx, applicant, ApplyInput{JobID: job.ID})
	require.NoError(t, err)
	assert.Equal(t, user.Profile.Resume, detail.Resume)
}

func TestAdminUserManagement(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	admin := f.user(t, "Ada", domain.RoleAdmin, "")
	employer := f.user(t, "Erin", domain.RoleEmployer, "")
	f.user(t, "Alex", domain.RoleApplicant, "")

	_, err := f.users.List(ctx, employer, UserQuery{})
	requireDomainError(t, err, http.StatusForbidden, "Not authorized to manage users")

	page, err := f.users.List(ctx, admin, UserQuery{Role: domain.RoleApplicant})
	require.NoError(t, err)
	assert.Equal(t, 1, page.Total)

	_, err = f.users.SetActive(ctx, admin, admin.ID, false)
	requireDomainError(t, err, http.StatusBadRequest, "You cannot deactivate your own account")

	updated, err := f.users.SetActive(ctx, admin, employer.ID, false)
	require.NoError(t, err)
	assert.False(t, updated.IsActive)

	inactive := false
	page, err = f.users.List(ctx, admin, UserQuery{IsActive: &inactive})
	require.NoError(t, err)
	require.Len(t, page.Items, 1)
	assert.Equal(t, employer.ID, page.Items[0].ID)
}

// interleavedUsers runs between once, right after the first GetByID, to
// simulate another request writing between a service's read and its write.
type interleavedUsers struct {
	repository.UserRepository
	between func()
}

func (r *interleavedUsers) GetByID(ctx context.Context, id string) (*domain.User, error) {
	user, err := r.UserRepository.GetByID(ctx, id)
	if r.between != nil {
		between := r.between
		r.between = nil
		between()
	}
	return user, err
}

func TestProfileEditDoesNotUndoConcurrentDeactivation(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	admin := f.user(t, "Ada", domain.RoleAdmin, "")
	applicant := f.user(t, "Alex", domain.RoleApplicant, "cv.pdf")

	users := &interleavedUsers{UserRepository: f.store.Users()}
	users.between = func() {
		_, err := f.users.SetActive(ctx, admin, applicant.ID, false)
		require.NoError(t, err)
		_, err = f.store.Users().SetResume(ctx, applicant.ID, "new.pdf")
		require.NoError(t, err)
	}
	svc := NewUserService(users, nil, nil)

	bio := "Gopher"
	updated, err := svc.UpdateProfile(ctx, applicant, ProfileUpdate{Bio: &bio})
	require.NoError(t, err)
	assert.Equal(t, "Gopher", updated.Profile.Bio)
	assert.False(t, updated.IsActive)
	assert.Equal(t, "new.pdf", updated.Profile.Resume)

	stored, err := f.store.Users().GetByID(ctx, applicant.ID)
	require.NoError(t, err)
	assert.False(t, stored.IsActive)
	assert.Equal(t, "new.pdf", stored.Profile.Resume)
}

func TestDeactivationDoesNotUndoConcurrentProfileEdit(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	admin := f.user(t, "Ada", domain.RoleAdmin, "")
	applicant := f.user(t, "Alex", domain.RoleApplicant, "")

	users := &interleavedUsers{UserRepository: f.store.Users()}
	users.between = func() {
		bio := "Gopher"
		_, err := f.users.UpdateProfile(ctx, applicant, ProfileUpdate{Bio: &bio})
		require.NoError(t, err)
	}
	svc := NewUserService(users, nil, nil)

	updated, err := svc.SetActive(ctx, admin, applicant.ID, false)
	require.NoError(t, err)
	assert.False(t, updated.IsActive)
	assert.Equal(t, "Gopher", updated.Profile.Bio)
}
