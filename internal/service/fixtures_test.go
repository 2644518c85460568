package service

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/spec-kit/job-board/internal/auth"
	"github.com/spec-kit/job-board/internal/domain"
	"github.com/spec-kit/job-board/internal/events"
	"github.com/spec-kit/job-board/internal/repository/memory"
	"github.com/spec-kit/job-board/internal/storage"
	apperrors "github.com/spec-kit/job-board/pkg/util"
)

type fixture struct {
	store        *memory.Store
	dispatcher   events.Dispatcher
	published    []events.Event
	jobs         *JobService
	applications *ApplicationService
	users        *UserService
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	local, err := storage.NewLocalStorage(t.TempDir())
	require.NoError(t, err)

	f := &fixture{store: memory.NewStore(), dispatcher: events.NewInMemoryDispatcher()}
	record := func(_ context.Context, e events.Event) error {
		f.published = append(f.published, e)
		return nil
	}
	for _, et := range []events.EventType{
		events.EventJobCreated,
		events.EventApplicationSubmitted,
		events.EventApplicationStatusChanged,
		events.EventApplicationWithdrawn,
	} {
		f.dispatcher.Subscribe(et, record)
	}

	resumes := NewResumeStore(local, 1024)
	f.jobs = NewJobService(JobDependencies{JobRepo: f.store.Jobs(), Dispatcher: f.dispatcher})
	f.applications = NewApplicationService(ApplicationDependencies{
		ApplicationRepo: f.store.Applications(),
		JobRepo:         f.store.Jobs(),
		UserRepo:        f.store.Users(),
		Resumes:         resumes,
		Dispatcher:      f.dispatcher,
	})
	f.users = NewUserService(f.store.Users(), resumes, nil)
	return f
}

func (f *fixture) user(t *testing.T, name string, role domain.Role, resume string) auth.Actor {
	t.Helper()
	u := &domain.User{
		Name:     name,
		Email:    strings.ToLower(name) + "@example.com",
		Role:     role,
		IsActive: true,
		Profile:  domain.Profile{Resume: resume},
	}
	require.NoError(t, f.store.Users().Create(context.Background(), u))
	return auth.Actor{ID: u.ID, Role: u.Role}
}

func (f *fixture) job(t *testing.T, poster auth.Actor, mutate func(*domain.Job)) *domain.Job {
	t.Helper()
	j := &domain.Job{
		Title:           "Backend Engineer",
		Description:     "Build APIs",
		Requirements:    "Go",
		Company:         "Acme",
		Location:        "Berlin",
		JobType:         domain.JobTypeFullTime,
		Category:        "Technology",
		ExperienceLevel: domain.ExperienceMid,
		Salary:          domain.Salary{Min: 1, Max: 2, Currency: domain.DefaultCurrency},
		PostedBy:        poster.ID,
		Status:          domain.JobStatusActive,
	}
	if mutate != nil {
		mutate(j)
	}
	require.NoError(t, f.store.Jobs().Create(context.Background(), j))
	return j
}

func (f *fixture) applicationsCount(t *testing.T, jobID string) int {
	t.Helper()
	j, err := f.store.Jobs().GetByID(context.Background(), jobID)
	require.NoError(t, err)
	return j.ApplicationsCount
}

func requireDomainError(t *testing.T, err error, status int, message string) {
	t.Helper()
	require.Error(t, err)
	de := apperrors.ToDomainError(err)
	require.Equal(t, status, de.HTTPStatus, de.Message)
	require.Equal(t, message, de.Message)
}

func pastTime() *time.Time {
	at := time.Now().Add(-time.Hour)
	return &at
}
