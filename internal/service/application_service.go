package service

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"

	"github.com/spec-kit/job-board/internal/auth"
	"github.com/spec-kit/job-board/internal/domain"
	"github.com/spec-kit/job-board/internal/events"
	"github.com/spec-kit/job-board/internal/repository"
	apperrors "github.com/spec-kit/job-board/pkg/util"
)

const alreadyAppliedMessage = "You have already applied for this job"

// ApplicationService runs the application lifecycle: apply, review, withdraw.
type ApplicationService struct {
	applications repository.ApplicationRepository
	jobs         repository.JobRepository
	users        repository.UserRepository
	resumes      *ResumeStore
	dispatcher   events.Dispatcher
	logger       *zap.Logger
	now          func() time.Time
}

// ApplicationDependencies bundles collaborators for the application service.
type ApplicationDependencies struct {
	ApplicationRepo repository.ApplicationRepository
	JobRepo         repository.JobRepository
	UserRepo        repository.UserRepository
	Resumes         *ResumeStore
	Dispatcher      events.Dispatcher
	Logger          *zap.Logger
}

// ApplyInput describes an application submission.
type ApplyInput struct {
	JobID       string
	CoverLetter string
	Resume      *ResumeUpload
}

// ApplicationQuery filters a listing by optional status.
type ApplicationQuery struct {
	Status domain.ApplicationStatus
	Pagination
}

// StatusUpdate is a reviewer decision on an application.
type StatusUpdate struct {
	Status domain.ApplicationStatus
	Notes  *string
}

// NewApplicationService constructs the service.
func NewApplicationService(deps ApplicationDependencies) *ApplicationService {
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ApplicationService{
		applications: deps.ApplicationRepo,
		jobs:         deps.JobRepo,
		users:        deps.UserRepo,
		resumes:      deps.Resumes,
		dispatcher:   deps.Dispatcher,
		logger:       logger,
		now:          time.Now,
	}
}

// Apply checks, in order: the job exists, is active, its deadline has not
// passed, the caller has not applied yet, the caller is not the poster, and a
// resume is available. The application and the job counter are written together.
func (s *ApplicationService) Apply(ctx context.Context, actor auth.Actor, input ApplyInput) (*domain.ApplicationDetail, error) {
	if !validID(input.JobID) {
		return nil, apperrors.NewNotFound("Job", nil)
	}
	job, err := s.jobs.GetByID(ctx, input.JobID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperrors.NewNotFound("Job", nil)
		}
		return nil, err
	}
	if job.Status != domain.JobStatusActive {
		return nil, apperrors.NewBusinessRule("Job is not currently active")
	}
	if job.DeadlinePassed(s.now()) {
		return nil, apperrors.NewBusinessRule("Application deadline has passed")
	}
	if _, err := s.applications.FindByJobAndApplicant(ctx, job.ID, actor.ID); err == nil {
		return nil, apperrors.NewBusinessRule(alreadyAppliedMessage)
	} else if !errors.Is(err, repository.ErrNotFound) {
		return nil, err
	}
	if job.PostedBy == actor.ID {
		return nil, apperrors.NewBusinessRule("You cannot apply for your own job")
	}

	resumePath, uploaded, err := s.resolveResume(ctx, actor, input.Resume)
	if err != nil {
		return nil, err
	}

	app := &domain.Application{
		JobID:       job.ID,
		ApplicantID: actor.ID,
		CoverLetter: input.CoverLetter,
		Resume:      resumePath,
		Status:      domain.ApplicationPending,
	}
	if err := s.applications.Submit(ctx, app); err != nil {
		if uploaded {
			s.resumes.Discard(ctx, resumePath)
		}
		switch {
		case errors.Is(err, repository.ErrDuplicate):
			return nil, apperrors.NewBusinessRule(alreadyAppliedMessage)
		case errors.Is(err, repository.ErrNotFound):
			return nil, apperrors.NewNotFound("Job", nil)
		}
		return nil, err
	}

	publishEvent(ctx, s.dispatcher, s.logger, events.Event{
		Type:    events.EventApplicationSubmitted,
		Subject: app.ID,
		Actor:   actorOf(actor),
		Payload: events.ApplicationSubmittedPayload{
			JobID:       job.ID,
			JobTitle:    job.Title,
			PostedBy:    job.PostedBy,
			ApplicantID: actor.ID,
		},
	})
	return s.applications.GetDetail(ctx, app.ID)
}

func (s *ApplicationService) resolveResume(ctx context.Context, actor auth.Actor, upload *ResumeUpload) (string, bool, error) {
	if upload != nil {
		path, err := s.resumes.Save(ctx, actor.ID, upload)
		if err != nil {
			return "", false, err
		}
		return path, true, nil
	}
	user, err := s.users.GetByID(ctx, actor.ID)
	if err != nil && !errors.Is(err, repository.ErrNotFound) {
		return "", false, err
	}
	if user == nil || user.Profile.Resume == "" {
		return "", false, apperrors.NewBusinessRule("Resume is required to apply for a job")
	}
	return user.Profile.Resume, false, nil
}

// ListMine returns the caller's applications, newest first.
func (s *ApplicationService) ListMine(ctx context.Context, actor auth.Actor, query ApplicationQuery) (PageResult[domain.ApplicationDetail], error) {
	filter := repository.ApplicationFilter{ApplicantID: &actor.ID, Page: query.Pagination.repoPage()}
	if query.Status != "" {
		filter.Status = &query.Status
	}
	items, total, err := s.applications.List(ctx, filter)
	if err != nil {
		return PageResult[domain.ApplicationDetail]{}, err
	}
	return newPageResult(items, total, query.Pagination), nil
}

// ListForJob returns the applications to a job; only its poster or an admin may look.
func (s *ApplicationService) ListForJob(ctx context.Context, actor auth.Actor, jobID string, query ApplicationQuery) (PageResult[domain.ApplicationDetail], error) {
	if !validID(jobID) {
		return PageResult[domain.ApplicationDetail]{}, apperrors.NewNotFound("Job", nil)
	}
	job, err := s.jobs.GetByID(ctx, jobID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return PageResult[domain.ApplicationDetail]{}, apperrors.NewNotFound("Job", nil)
		}
		return PageResult[domain.ApplicationDetail]{}, err
	}
	if !auth.CanViewJobApplications(actor, job) {
		return PageResult[domain.ApplicationDetail]{}, apperrors.NewUnauthorized("Not authorized to view these applications")
	}

	filter := repository.ApplicationFilter{JobID: &job.ID, Page: query.Pagination.repoPage()}
	if query.Status != "" {
		filter.Status = &query.Status
	}
	items, total, err := s.applications.List(ctx, filter)
	if err != nil {
		return PageResult[domain.ApplicationDetail]{}, err
	}
	return newPageResult(items, total, query.Pagination), nil
}

// UpdateStatus records a review decision by the job poster or an admin.
func (s *ApplicationService) UpdateStatus(ctx context.Context, actor auth.Actor, id string, update StatusUpdate) (*domain.ApplicationDetail, error) {
	if !update.Status.Valid() {
		return nil, apperrors.NewValidationError("Invalid status provided", nil)
	}
	detail, err := s.loadDetail(ctx, id)
	if err != nil {
		return nil, err
	}
	if !auth.CanReviewApplication(actor, detail.Job.PostedBy) {
		return nil, apperrors.NewUnauthorized("Not authorized to update this application")
	}

	oldStatus := detail.Status
	now := s.now()
	reviewer := actor.ID
	app := detail.Application
	app.Status = update.Status
	app.ReviewedAt = &now
	app.ReviewedBy = &reviewer
	if update.Notes != nil && *update.Notes != "" {
		app.Notes = *update.Notes
	}
	if err := s.applications.UpdateReview(ctx, &app); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperrors.NewNotFound("Application", nil)
		}
		return nil, err
	}

	publishEvent(ctx, s.dispatcher, s.logger, events.Event{
		Type:    events.EventApplicationStatusChanged,
		Subject: app.ID,
		Actor:   actorOf(actor),
		Payload: events.ApplicationStatusChangedPayload{
			JobID:       app.JobID,
			ApplicantID: app.ApplicantID,
			OldStatus:   oldStatus,
			NewStatus:   app.Status,
		},
	})
	return s.applications.GetDetail(ctx, app.ID)
}

// Withdraw deletes the caller's own application unless a decision was made.
func (s *ApplicationService) Withdraw(ctx context.Context, actor auth.Actor, id string) error {
	if !validID(id) {
		return apperrors.NewNotFound("Application", nil)
	}
	app, err := s.applications.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return apperrors.NewNotFound("Application", nil)
		}
		return err
	}
	if !auth.CanWithdrawApplication(actor, app) {
		return apperrors.NewUnauthorized("Not authorized to withdraw this application")
	}
	if app.Status.Final() {
		return apperrors.NewBusinessRule("Cannot withdraw application with current status")
	}
	if err := s.applications.Withdraw(ctx, app); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return apperrors.NewNotFound("Application", nil)
		}
		return err
	}

	publishEvent(ctx, s.dispatcher, s.logger, events.Event{
		Type:    events.EventApplicationWithdrawn,
		Subject: app.ID,
		Actor:   actorOf(actor),
		Payload: events.ApplicationWithdrawnPayload{JobID: app.JobID},
	})
	return nil
}

// Get returns one application to its applicant, the job poster or an admin.
func (s *ApplicationService) Get(ctx context.Context, actor auth.Actor, id string) (*domain.ApplicationDetail, error) {
	if !validID(id) {
		return nil, apperrors.NewValidationError("Invalid application id", nil)
	}
	detail, err := s.loadDetail(ctx, id)
	if err != nil {
		return nil, err
	}
	if !auth.CanViewApplication(actor, &detail.Application, detail.Job.PostedBy) {
		return nil, apperrors.NewUnauthorized("Not authorized to view this application")
	}
	return detail, nil
}

func (s *ApplicationService) loadDetail(ctx context.Context, id string) (*domain.ApplicationDetail, error) {
	if !validID(id) {
		return nil, apperrors.NewNotFound("Application", nil)
	}
	detail, err := s.applications.GetDetail(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperrors.NewNotFound("Application", nil)
		}
		return nil, err
	}
	return detail, nil
}
