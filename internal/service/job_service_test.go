package service

import (
	"context"
	"net/http"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/job-board/internal/domain"
	"github.com/spec-kit/job-board/internal/events"
	"github.com/spec-kit/job-board/internal/repository"
)

func validJobInput() JobInput {
	return JobInput{
		Title:           "Senior Go Developer",
		Description:     "Own the platform",
		Requirements:    "5 years of Go",
		Company:         "Acme",
		Location:        "Remote",
		JobType:         domain.JobTypeFullTime,
		Category:        "Technology",
		ExperienceLevel: domain.ExperienceSenior,
		Salary:          domain.Salary{Min: 100, Max: 200},
	}
}

func TestCreateJobDefaultsAndSlug(t *testing.T) {
	f := newFixture(t)
	employer := f.user(t, "Erin", domain.RoleEmployer, "")

	job, err := f.jobs.Create(context.Background(), employer, validJobInput())
	require.NoError(t, err)

	assert.Equal(t, employer.ID, job.PostedBy)
	assert.Equal(t, domain.JobStatusActive, job.Status)
	assert.Equal(t, domain.DefaultCurrency, job.Salary.Currency)
	assert.Zero(t, job.ApplicationsCount)
	suffix := strings.ReplaceAll(job.ID, "-", "")
	assert.Equal(t, "senior-go-developer-"+suffix[len(suffix)-6:], job.Slug)

	require.Len(t, f.published, 1)
	assert.Equal(t, events.EventJobCreated, f.published[0].Type)
}

func TestCreateJobRejectsInvertedSalary(t *testing.T) {
	f := newFixture(t)
	employer := f.user(t, "Erin", domain.RoleEmployer, "")
	input := validJobInput()
	input.Salary = domain.Salary{Min: 300, Max: 200}

	_, err := f.jobs.Create(context.Background(), employer, input)
	requireDomainError(t, err, http.StatusBadRequest, "Validation failed")
}

func TestGetJobBySlugCountsViews(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	employer := f.user(t, "Erin", domain.RoleEmployer, "")
	job, err := f.jobs.Create(ctx, employer, validJobInput())
	require.NoError(t, err)

	bySlug, err := f.jobs.Get(ctx, job.Slug)
	require.NoError(t, err)
	assert.Equal(t, job.ID, bySlug.ID)
	assert.Equal(t, 1, bySlug.Views)

	byID, err := f.jobs.Get(ctx, job.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, byID.Views)

	_, err = f.jobs.Get(ctx, "missing-slug")
	requireDomainError(t, err, http.StatusNotFound, "Job not found")
}

func TestUpdateJobKeepsSlugAndChecksOwnership(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	employer := f.user(t, "Erin", domain.RoleEmployer, "")
	stranger := f.user(t, "Sam", domain.RoleEmployer, "")
	admin := f.user(t, "Ada", domain.RoleAdmin, "")
	job, err := f.jobs.Create(ctx, employer, validJobInput())
	require.NoError(t, err)

	title := "Staff Go Developer"
	_, err = f.jobs.Update(ctx, stranger, job.ID, JobPatch{Title: &title})
	requireDomainError(t, err, http.StatusUnauthorized, "Not authorized to update this job")

	updated, err := f.jobs.Update(ctx, employer, job.ID, JobPatch{Title: &title})
	require.NoError(t, err)
	assert.Equal(t, title, updated.Title)
	assert.Equal(t, job.Slug, updated.Slug)

	closed := domain.JobStatusClosed
	updated, err = f.jobs.Update(ctx, admin, job.ID, JobPatch{Status: &closed})
	require.NoError(t, err)
	assert.Equal(t, domain.JobStatusClosed, updated.Status)

	err = f.jobs.Delete(ctx, stranger, job.ID)
	requireDomainError(t, err, http.StatusUnauthorized, "Not authorized to delete this job")
}

func TestListJobsShowsActiveOnlyWithFilters(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	employer := f.user(t, "Erin", domain.RoleEmployer, "")

	f.job(t, employer, func(j *domain.Job) { j.Title = "Go Engineer"; j.IsRemote = true })
	f.job(t, employer, func(j *domain.Job) { j.Title = "Accountant"; j.Category = "Finance" })
	f.job(t, employer, func(j *domain.Job) { j.Title = "Go Intern"; j.Status = domain.JobStatusDraft })

	all, err := f.jobs.List(ctx, JobQuery{})
	require.NoError(t, err)
	assert.Equal(t, 2, all.Total)

	search, err := f.jobs.List(ctx, JobQuery{Search: "go"})
	require.NoError(t, err)
	require.Len(t, search.Items, 1)
	assert.Equal(t, "Go Engineer", search.Items[0].Title)

	finance, err := f.jobs.List(ctx, JobQuery{Category: "Finance"})
	require.NoError(t, err)
	require.Len(t, finance.Items, 1)

	remote := true
	remoteOnly, err := f.jobs.List(ctx, JobQuery{IsRemote: &remote})
	require.NoError(t, err)
	assert.Equal(t, 1, remoteOnly.Total)

	mine, err := f.jobs.ListMine(ctx, employer, Pagination{})
	require.NoError(t, err)
	assert.Equal(t, 3, mine.Total)
}

func TestBackfillSlugsFillsOnlyMissing(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	employer := f.user(t, "Erin", domain.RoleEmployer, "")
	withSlug := f.job(t, employer, nil)

	count, err := f.jobs.BackfillSlugs(ctx)
	require.NoError(t, err)
	assert.Zero(t, count)

	stored, err := f.store.Jobs().GetByID(ctx, withSlug.ID)
	require.NoError(t, err)
	assert.Equal(t, withSlug.Slug, stored.Slug)
}

// collidingJobs rejects the first collisions inserts as slug duplicates.
type collidingJobs struct {
	repository.JobRepository
	collisions int
	slugs      []string
}

func (r *collidingJobs) Create(ctx context.Context, job *domain.Job) error {
	if r.collisions > 0 {
		r.collisions--
		job.ID = "0b8f0c52-3c1d-4a55-9f0e-1d2c3b4a5968"
		job.EnsureSlug()
		r.slugs = append(r.slugs, job.Slug)
		return repository.ErrDuplicate
	}
	err := r.JobRepository.Create(ctx, job)
	r.slugs = append(r.slugs, job.Slug)
	return err
}

func TestCreateJobRetriesSlugCollisionOnce(t *testing.T) {
	f := newFixture(t)
	employer := f.user(t, "Erin", domain.RoleEmployer, "")
	jobs := &collidingJobs{JobRepository: f.store.Jobs(), collisions: 1}
	svc := NewJobService(JobDependencies{JobRepo: jobs})

	job, err := svc.Create(context.Background(), employer, validJobInput())
	require.NoError(t, err)
	require.Len(t, jobs.slugs, 2)
	assert.NotEqual(t, jobs.slugs[0], job.Slug)
	assert.Equal(t, jobs.slugs[1], job.Slug)

	stored, err := f.store.Jobs().GetBySlug(context.Background(), job.Slug)
	require.NoError(t, err)
	assert.Equal(t, job.ID, stored.ID)
}

func TestCreateJobReportsRepeatedSlugCollisionAsConflict(t *testing.T) {
	f := newFixture(t)
	employer := f.user(t, "Erin", domain.RoleEmployer, "")
	svc := NewJobService(JobDependencies{JobRepo: &collidingJobs{JobRepository: f.store.Jobs(), collisions: 2}})

	_, err := svc.Create(context.Background(), employer, validJobInput())
	requireDomainError(t, err, http.StatusConflict, "A job with this slug already exists")
}
