package memory

import (
	"context"
	"time"

	"github.com/spec-kit/job-board/internal/domain"
	"github.com/spec-kit/job-board/internal/repository"
)

type jobRepository struct {
	store *Store
}

func (r *jobRepository) Create(_ context.Context, job *domain.Job) error {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()

	if job.ID == "" {
		job.ID = newID()
	}
	job.EnsureSlug()
	if job.Slug != "" {
		for _, existing := range s.jobs {
			if existing.Slug == job.Slug {
				return repository.ErrDuplicate
			}
		}
	}
	now := s.now()
	job.ApplicationsCount = 0
	job.Views = 0
	job.CreatedAt = now
	job.UpdatedAt = now
	job.Skills = cloneStrings(job.Skills)
	job.Benefits = cloneStrings(job.Benefits)
	job.Tags = cloneStrings(job.Tags)
	s.jobs[job.ID] = *job
	return nil
}

func (r *jobRepository) Update(_ context.Context, job *domain.Job) error {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()

	stored, ok := s.jobs[job.ID]
	if !ok {
		return repository.ErrNotFound
	}
	updated := *job
	updated.Slug = stored.Slug
	updated.ApplicationsCount = stored.ApplicationsCount
	updated.Views = stored.Views
	updated.PostedBy = stored.PostedBy
	updated.CreatedAt = stored.CreatedAt
	updated.UpdatedAt = s.now()
	updated.Skills = cloneStrings(job.Skills)
	updated.Benefits = cloneStrings(job.Benefits)
	updated.Tags = cloneStrings(job.Tags)
	s.jobs[job.ID] = updated
	job.UpdatedAt = updated.UpdatedAt
	return nil
}

func (r *jobRepository) Delete(_ context.Context, id string) error {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.jobs[id]; !ok {
		return repository.ErrNotFound
	}
	delete(s.jobs, id)
	for appID, app := range s.applications {
		if app.JobID == id {
			delete(s.applications, appID)
		}
	}
	return nil
}

func (r *jobRepository) GetByID(_ context.Context, id string) (*domain.Job, error) {
	s := r.store
	s.mu.RLock()
	defer s.mu.RUnlock()

	job, ok := s.jobs[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &job, nil
}

func (r *jobRepository) GetBySlug(_ context.Context, slug string) (*domain.Job, error) {
	s := r.store
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, job := range s.jobs {
		if slug != "" && job.Slug == slug {
			j := job
			return &j, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (r *jobRepository) IncrementViews(_ context.Context, id string) error {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()

	job, ok := s.jobs[id]
	if !ok {
		return nil
	}
	job.Views++
	s.jobs[id] = job
	return nil
}

func (r *jobRepository) List(_ context.Context, filter repository.JobFilter) ([]domain.Job, int, error) {
	s := r.store
	s.mu.RLock()
	defer s.mu.RUnlock()

	matched := make([]domain.Job, 0, len(s.jobs))
	for _, job := range s.jobs {
		if !jobMatches(job, filter) {
			continue
		}
		matched = append(matched, job)
	}
	sortByTimeDesc(matched, func(j domain.Job) time.Time { return j.CreatedAt }, func(j domain.Job) string { return j.ID })
	return paginate(matched, filter.Page), len(matched), nil
}

func jobMatches(job domain.Job, filter repository.JobFilter) bool {
	if filter.Status != nil && job.Status != *filter.Status {
		return false
	}
	if filter.PostedBy != nil && job.PostedBy != *filter.PostedBy {
		return false
	}
	if filter.Category != nil && job.Category != *filter.Category {
		return false
	}
	if filter.JobType != nil && job.JobType != *filter.JobType {
		return false
	}
	if filter.ExperienceLevel != nil && job.ExperienceLevel != *filter.ExperienceLevel {
		return false
	}
	if filter.IsRemote != nil && job.IsRemote != *filter.IsRemote {
		return false
	}
	if filter.Location != nil && !containsFold(job.Location, *filter.Location) {
		return false
	}
	if filter.SearchTerm != nil {
		term := *filter.SearchTerm
		if !containsFold(job.Title, term) && !containsFold(job.Description, term) && !containsFold(job.Company, term) {
			return false
		}
	}
	return true
}

func (r *jobRepository) ListMissingSlug(_ context.Context) ([]domain.Job, error) {
	s := r.store
	s.mu.RLock()
	defer s.mu.RUnlock()

	var result []domain.Job
	for _, job := range s.jobs {
		if job.Slug == "" {
			result = append(result, job)
		}
	}
	return result, nil
}

func (r *jobRepository) SetSlug(_ context.Context, id, slug string) error {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()

	job, ok := s.jobs[id]
	if !ok || job.Slug != "" {
		return repository.ErrNotFound
	}
	for otherID, other := range s.jobs {
		if otherID != id && other.Slug == slug {
			return repository.ErrDuplicate
		}
	}
	job.Slug = slug
	s.jobs[id] = job
	return nil
}
