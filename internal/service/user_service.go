package service

import (
	"context"
	"errors"
	"strings"

	"go.uber.org/zap"

	"github.com/spec-kit/job-board/internal/auth"
	"github.com/spec-kit/job-board/internal/domain"
	"github.com/spec-kit/job-board/internal/repository"
	apperrors "github.com/spec-kit/job-board/pkg/util"
)

// UserService covers self-service profile edits and admin account management.
type UserService struct {
	users   repository.UserRepository
	resumes *ResumeStore
	logger  *zap.Logger
}

// ProfileUpdate carries the editable account fields; nil means unchanged.
type ProfileUpdate struct {
	Name       *string
	Phone      *string
	Bio        *string
	Location   *string
	Skills     []string
	Experience *string
	Education  *string
	Website    *string
}

// UserQuery filters the admin user listing.
type UserQuery struct {
	Role     domain.Role
	IsActive *bool
	Pagination
}

// NewUserService constructs the service.
func NewUserService(users repository.UserRepository, resumes *ResumeStore, logger *zap.Logger) *UserService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &UserService{users: users, resumes: resumes, logger: logger}
}

// UpdateProfile edits the caller's own account.
func (s *UserService) UpdateProfile(ctx context.Context, actor auth.Actor, update ProfileUpdate) (*domain.User, error) {
	user, err := s.load(ctx, actor.ID)
	if err != nil {
		return nil, err
	}
	changes := repository.ProfileChanges{Name: user.Name, Phone: user.Phone, Profile: user.Profile}
	if update.Name != nil {
		changes.Name = strings.TrimSpace(*update.Name)
	}
	if update.Phone != nil {
		changes.Phone = strings.TrimSpace(*update.Phone)
	}
	if update.Bio != nil {
		changes.Profile.Bio = *update.Bio
	}
	if update.Location != nil {
		changes.Profile.Location = *update.Location
	}
	if update.Skills != nil {
		changes.Profile.Skills = update.Skills
	}
	if update.Experience != nil {
		changes.Profile.Experience = *update.Experience
	}
	if update.Education != nil {
		changes.Profile.Education = *update.Education
	}
	if update.Website != nil {
		changes.Profile.Website = *update.Website
	}
	return s.write(s.users.UpdateProfile(ctx, user.ID, changes))
}

// UploadResume stores a resume and makes it the default for future applications.
func (s *UserService) UploadResume(ctx context.Context, actor auth.Actor, upload *ResumeUpload) (*domain.User, error) {
	if upload == nil {
		return nil, apperrors.NewValidationError("Please upload a resume file", nil)
	}
	user, err := s.load(ctx, actor.ID)
	if err != nil {
		return nil, err
	}
	location, err := s.resumes.Save(ctx, user.ID, upload)
	if err != nil {
		return nil, err
	}
	// the previous file stays: applications submitted with it still reference it
	updated, err := s.write(s.users.SetResume(ctx, user.ID, location))
	if err != nil {
		s.resumes.Discard(ctx, location)
		return nil, err
	}
	return updated, nil
}

// List returns accounts for administrators.
func (s *UserService) List(ctx context.Context, actor auth.Actor, query UserQuery) (PageResult[domain.User], error) {
	if !auth.CanManageUsers(actor) {
		return PageResult[domain.User]{}, apperrors.NewForbidden("Not authorized to manage users")
	}
	filter := repository.UserFilter{IsActive: query.IsActive, Page: query.Pagination.repoPage()}
	if query.Role != "" {
		filter.Role = &query.Role
	}
	users, total, err := s.users.List(ctx, filter)
	if err != nil {
		return PageResult[domain.User]{}, err
	}
	return newPageResult(users, total, query.Pagination), nil
}

// SetActive activates or deactivates an account. Deactivated accounts fail
// authentication on every protected route, including with tokens issued earlier.
func (s *UserService) SetActive(ctx context.Context, actor auth.Actor, userID string, active bool) (*domain.User, error) {
	if !auth.CanManageUsers(actor) {
		return nil, apperrors.NewForbidden("Not authorized to manage users")
	}
	if userID == actor.ID && !active {
		return nil, apperrors.NewBusinessRule("You cannot deactivate your own account")
	}
	if _, err := s.load(ctx, userID); err != nil {
		return nil, err
	}
	user, err := s.write(s.users.SetActive(ctx, userID, active))
	if err != nil {
		return nil, err
	}
	s.logger.Info("user activation changed",
		zap.String("user_id", user.ID),
		zap.Bool("active", active),
		zap.String("admin_id", actor.ID))
	return user, nil
}

func (s *UserService) write(user *domain.User, err error) (*domain.User, error) {
	if errors.Is(err, repository.ErrNotFound) {
		return nil, apperrors.NewNotFound("User", nil)
	}
	return user, err
}

func (s *UserService) load(ctx context.Context, id string) (*domain.User, error) {
	if !validID(id) {
		return nil, apperrors.NewNotFound("User", nil)
	}
	user, err := s.users.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperrors.NewNotFound("User", nil)
		}
		return nil, err
	}
	return user, nil
}
