package memory

import (
	"context"
	"time"

	"github.com/spec-kit/job-board/internal/domain"
	"github.com/spec-kit/job-board/internal/repository"
)

type applicationRepository struct {
	store *Store
}

func (r *applicationRepository) Submit(_ context.Context, app *domain.Application) error {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()

	job, ok := s.jobs[app.JobID]
	if !ok {
		return repository.ErrNotFound
	}
	for _, existing := range s.applications {
		if existing.JobID == app.JobID && existing.ApplicantID == app.ApplicantID {
			return repository.ErrDuplicate
		}
	}

	app.ID = newID()
	app.AppliedAt = s.now()
	s.applications[app.ID] = *app
	job.ApplicationsCount++
	s.jobs[job.ID] = job
	return nil
}

func (r *applicationRepository) Withdraw(_ context.Context, app *domain.Application) error {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()

	stored, ok := s.applications[app.ID]
	if !ok {
		return repository.ErrNotFound
	}
	delete(s.applications, app.ID)
	if job, ok := s.jobs[stored.JobID]; ok {
		job.ApplicationsCount--
		if job.ApplicationsCount < 0 {
			job.ApplicationsCount = 0
		}
		s.jobs[job.ID] = job
	}
	return nil
}

func (r *applicationRepository) UpdateReview(_ context.Context, app *domain.Application) error {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()

	stored, ok := s.applications[app.ID]
	if !ok {
		return repository.ErrNotFound
	}
	stored.Status = app.Status
	stored.ReviewedAt = app.ReviewedAt
	stored.ReviewedBy = app.ReviewedBy
	stored.Notes = app.Notes
	s.applications[app.ID] = stored
	return nil
}

func (r *applicationRepository) GetByID(_ context.Context, id string) (*domain.Application, error) {
	s := r.store
	s.mu.RLock()
	defer s.mu.RUnlock()

	app, ok := s.applications[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &app, nil
}

func (r *applicationRepository) FindByJobAndApplicant(_ context.Context, jobID, applicantID string) (*domain.Application, error) {
	s := r.store
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, app := range s.applications {
		if app.JobID == jobID && app.ApplicantID == applicantID {
			a := app
			return &a, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (r *applicationRepository) GetDetail(_ context.Context, id string) (*domain.ApplicationDetail, error) {
	s := r.store
	s.mu.RLock()
	defer s.mu.RUnlock()

	app, ok := s.applications[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	detail := s.detailLocked(app)
	return &detail, nil
}

func (r *applicationRepository) List(_ context.Context, filter repository.ApplicationFilter) ([]domain.ApplicationDetail, int, error) {
	s := r.store
	s.mu.RLock()
	defer s.mu.RUnlock()

	matched := make([]domain.Application, 0)
	for _, app := range s.applications {
		if filter.ApplicantID != nil && app.ApplicantID != *filter.ApplicantID {
			continue
		}
		if filter.JobID != nil && app.JobID != *filter.JobID {
			continue
		}
		if filter.Status != nil && app.Status != *filter.Status {
			continue
		}
		matched = append(matched, app)
	}
	sortByTimeDesc(matched,
		func(a domain.Application) time.Time { return a.AppliedAt },
		func(a domain.Application) string { return a.ID })

	page := paginate(matched, filter.Page)
	details := make([]domain.ApplicationDetail, 0, len(page))
	for _, app := range page {
		details = append(details, s.detailLocked(app))
	}
	return details, len(matched), nil
}

// detailLocked resolves references; callers hold at least the read lock.
func (s *Store) detailLocked(app domain.Application) domain.ApplicationDetail {
	detail := domain.ApplicationDetail{Application: app}
	if job, ok := s.jobs[app.JobID]; ok {
		detail.Job = domain.JobSummary{
			ID:                  job.ID,
			Title:               job.Title,
			Company:             job.Company,
			Location:            job.Location,
			Requirements:        job.Requirements,
			Salary:              job.Salary,
			Status:              job.Status,
			ApplicationDeadline: job.ApplicationDeadline,
			PostedBy:            job.PostedBy,
		}
	}
	if user, ok := s.users[app.ApplicantID]; ok {
		detail.Applicant = domain.ApplicantSummary{
			ID:      user.ID,
			Name:    user.Name,
			Email:   user.Email,
			Phone:   user.Phone,
			Profile: user.Profile,
		}
	}
	if app.ReviewedBy != nil {
		if reviewer, ok := s.users[*app.ReviewedBy]; ok {
			detail.Reviewer = &domain.ReviewerSummary{ID: reviewer.ID, Name: reviewer.Name}
		}
	}
	return detail
}
