package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/spec-kit/job-board/internal/auth"
	"github.com/spec-kit/job-board/internal/domain"
	"github.com/spec-kit/job-board/internal/events"
	"github.com/spec-kit/job-board/internal/repository"
	apperrors "github.com/spec-kit/job-board/pkg/util"
)

// JobService coordinates posting workflows.
type JobService struct {
	jobs       repository.JobRepository
	dispatcher events.Dispatcher
	logger     *zap.Logger
}

// JobDependencies bundles collaborators for the job service.
type JobDependencies struct {
	JobRepo    repository.JobRepository
	Dispatcher events.Dispatcher
	Logger     *zap.Logger
}

// JobInput describes a new posting.
type JobInput struct {
	Title               string
	Description         string
	Requirements        string
	Company             string
	Location            string
	JobType             domain.JobType
	Category            string
	ExperienceLevel     domain.ExperienceLevel
	Salary              domain.Salary
	Skills              []string
	Benefits            []string
	Tags                []string
	IsRemote            bool
	ApplicationDeadline *time.Time
	Status              domain.JobStatus
}

// JobPatch carries the fields of a partial update; nil means unchanged.
type JobPatch struct {
	Title               *string
	Description         *string
	Requirements        *string
	Company             *string
	Location            *string
	JobType             *domain.JobType
	Category            *string
	ExperienceLevel     *domain.ExperienceLevel
	Salary              *domain.Salary
	Skills              []string
	Benefits            []string
	Tags                []string
	IsRemote            *bool
	ApplicationDeadline *time.Time
	Status              *domain.JobStatus
}

// JobQuery describes the public listing filters.
type JobQuery struct {
	Category        string
	JobType         domain.JobType
	ExperienceLevel domain.ExperienceLevel
	Location        string
	Search          string
	IsRemote        *bool
	Pagination
}

// NewJobService constructs the service.
func NewJobService(deps JobDependencies) *JobService {
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &JobService{jobs: deps.JobRepo, dispatcher: deps.Dispatcher, logger: logger}
}

// Create stores a posting owned by the actor.
func (s *JobService) Create(ctx context.Context, actor auth.Actor, input JobInput) (*domain.Job, error) {
	if input.Salary.Min > input.Salary.Max {
		return nil, apperrors.NewValidationError("Validation failed", map[string]any{"salary.max": "Must be greater than or equal to salary.min"})
	}
	job := &domain.Job{
		Title:               strings.TrimSpace(input.Title),
		Description:         input.Description,
		Requirements:        input.Requirements,
		Company:             strings.TrimSpace(input.Company),
		Location:            strings.TrimSpace(input.Location),
		JobType:             input.JobType,
		Category:            input.Category,
		ExperienceLevel:     input.ExperienceLevel,
		Salary:              input.Salary,
		Skills:              input.Skills,
		Benefits:            input.Benefits,
		Tags:                input.Tags,
		IsRemote:            input.IsRemote,
		ApplicationDeadline: input.ApplicationDeadline,
		PostedBy:            actor.ID,
		Status:              input.Status,
	}
	if job.Salary.Currency == "" {
		job.Salary.Currency = domain.DefaultCurrency
	}
	if job.Status == "" {
		job.Status = domain.JobStatusActive
	}

	err := s.jobs.Create(ctx, job)
	if errors.Is(err, repository.ErrDuplicate) {
		// slug suffix collided; a fresh id gives a fresh suffix
		job.ID, job.Slug = "", ""
		err = s.jobs.Create(ctx, job)
	}
	if errors.Is(err, repository.ErrDuplicate) {
		return nil, apperrors.NewConflict("A job with this slug already exists", nil)
	}
	if err != nil {
		return nil, err
	}
	publishEvent(ctx, s.dispatcher, s.logger, events.Event{
		Type:    events.EventJobCreated,
		Subject: job.ID,
		Actor:   actorOf(actor),
		Payload: events.JobCreatedPayload{Title: job.Title, Company: job.Company, Slug: job.Slug},
	})
	return job, nil
}

// Get resolves a posting by id or slug and counts the view.
func (s *JobService) Get(ctx context.Context, idOrSlug string) (*domain.Job, error) {
	var (
		job *domain.Job
		err error
	)
	if validID(idOrSlug) {
		job, err = s.jobs.GetByID(ctx, idOrSlug)
	} else {
		job, err = s.jobs.GetBySlug(ctx, idOrSlug)
	}
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperrors.NewNotFound("Job", nil)
		}
		return nil, err
	}
	if err := s.jobs.IncrementViews(ctx, job.ID); err != nil {
		return nil, err
	}
	job.Views++
	return job, nil
}

// List returns active postings matching the query, newest first.
func (s *JobService) List(ctx context.Context, query JobQuery) (PageResult[domain.Job], error) {
	active := domain.JobStatusActive
	filter := repository.JobFilter{
		Status:   &active,
		IsRemote: query.IsRemote,
		Page:     query.Pagination.repoPage(),
	}
	if query.Category != "" {
		filter.Category = &query.Category
	}
	if query.JobType != "" {
		filter.JobType = &query.JobType
	}
	if query.ExperienceLevel != "" {
		filter.ExperienceLevel = &query.ExperienceLevel
	}
	if query.Location != "" {
		filter.Location = &query.Location
	}
	if query.Search != "" {
		filter.SearchTerm = &query.Search
	}

	jobs, total, err := s.jobs.List(ctx, filter)
	if err != nil {
		return PageResult[domain.Job]{}, err
	}
	return newPageResult(jobs, total, query.Pagination), nil
}

// ListMine returns every posting of the actor regardless of status.
func (s *JobService) ListMine(ctx context.Context, actor auth.Actor, page Pagination) (PageResult[domain.Job], error) {
	filter := repository.JobFilter{PostedBy: &actor.ID, Page: page.repoPage()}
	jobs, total, err := s.jobs.List(ctx, filter)
	if err != nil {
		return PageResult[domain.Job]{}, err
	}
	return newPageResult(jobs, total, page), nil
}

// Update applies a partial update. The slug is kept even when the title changes.
func (s *JobService) Update(ctx context.Context, actor auth.Actor, id string, patch JobPatch) (*domain.Job, error) {
	job, err := s.loadManaged(ctx, actor, id, "Not authorized to update this job")
	if err != nil {
		return nil, err
	}

	if patch.Title != nil {
		job.Title = strings.TrimSpace(*patch.Title)
	}
	if patch.Description != nil {
		job.Description = *patch.Description
	}
	if patch.Requirements != nil {
		job.Requirements = *patch.Requirements
	}
	if patch.Company != nil {
		job.Company = strings.TrimSpace(*patch.Company)
	}
	if patch.Location != nil {
		job.Location = strings.TrimSpace(*patch.Location)
	}
	if patch.JobType != nil {
		job.JobType = *patch.JobType
	}
	if patch.Category != nil {
		job.Category = *patch.Category
	}
	if patch.ExperienceLevel != nil {
		job.ExperienceLevel = *patch.ExperienceLevel
	}
	if patch.Salary != nil {
		job.Salary = *patch.Salary
		if job.Salary.Currency == "" {
			job.Salary.Currency = domain.DefaultCurrency
		}
	}
	if patch.Skills != nil {
		job.Skills = patch.Skills
	}
	if patch.Benefits != nil {
		job.Benefits = patch.Benefits
	}
	if patch.Tags != nil {
		job.Tags = patch.Tags
	}
	if patch.IsRemote != nil {
		job.IsRemote = *patch.IsRemote
	}
	if patch.ApplicationDeadline != nil {
		job.ApplicationDeadline = patch.ApplicationDeadline
	}
	if patch.Status != nil {
		job.Status = *patch.Status
	}
	if job.Salary.Min > job.Salary.Max {
		return nil, apperrors.NewValidationError("Validation failed", map[string]any{"salary.max": "Must be greater than or equal to salary.min"})
	}

	if err := s.jobs.Update(ctx, job); err != nil {
		return nil, err
	}
	return job, nil
}

// Delete removes a posting together with its applications.
func (s *JobService) Delete(ctx context.Context, actor auth.Actor, id string) error {
	job, err := s.loadManaged(ctx, actor, id, "Not authorized to delete this job")
	if err != nil {
		return err
	}
	return s.jobs.Delete(ctx, job.ID)
}

func (s *JobService) loadManaged(ctx context.Context, actor auth.Actor, id, deniedMessage string) (*domain.Job, error) {
	if !validID(id) {
		return nil, apperrors.NewNotFound("Job", nil)
	}
	job, err := s.jobs.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperrors.NewNotFound("Job", nil)
		}
		return nil, err
	}
	if !auth.CanManageJob(actor, job.PostedBy) {
		return nil, apperrors.NewUnauthorized(deniedMessage)
	}
	return job, nil
}

// BackfillSlugs assigns slugs to postings saved before slugs existed and
// returns how many were updated.
func (s *JobService) BackfillSlugs(ctx context.Context) (int, error) {
	jobs, err := s.jobs.ListMissingSlug(ctx)
	if err != nil {
		return 0, err
	}
	updated := 0
	for i := range jobs {
		job := &jobs[i]
		job.EnsureSlug()
		if job.Slug == "" {
			continue
		}
		if err := s.jobs.SetSlug(ctx, job.ID, job.Slug); err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				continue
			}
			return updated, err
		}
		s.logger.Info("generated slug", zap.String("job_id", job.ID), zap.String("slug", job.Slug))
		updated++
	}
	return updated, nil
}
