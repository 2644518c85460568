package memory

import (
	"context"
	"strings"
	"time"

	"github.com/spec-kit/job-board/internal/domain"
	"github.com/spec-kit/job-board/internal/repository"
)

type userRepository struct {
	store *Store
}

func (r *userRepository) Create(_ context.Context, user *domain.User) error {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()

	email := strings.ToLower(strings.TrimSpace(user.Email))
	for _, existing := range s.users {
		if existing.Email == email {
			return repository.ErrDuplicate
		}
	}
	now := s.now()
	user.ID = newID()
	user.Email = email
	user.CreatedAt = now
	user.UpdatedAt = now
	s.users[user.ID] = *user
	return nil
}

func (r *userRepository) UpdateProfile(_ context.Context, id string, changes repository.ProfileChanges) (*domain.User, error) {
	return r.modify(id, func(user *domain.User) {
		resume := user.Profile.Resume
		user.Name = changes.Name
		user.Phone = changes.Phone
		user.Profile = changes.Profile
		user.Profile.Skills = cloneStrings(changes.Profile.Skills)
		user.Profile.Resume = resume
	})
}

func (r *userRepository) SetResume(_ context.Context, id, location string) (*domain.User, error) {
	return r.modify(id, func(user *domain.User) { user.Profile.Resume = location })
}

func (r *userRepository) SetActive(_ context.Context, id string, active bool) (*domain.User, error) {
	return r.modify(id, func(user *domain.User) { user.IsActive = active })
}

func (r *userRepository) modify(id string, apply func(*domain.User)) (*domain.User, error) {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()

	user, ok := s.users[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	apply(&user)
	user.UpdatedAt = s.now()
	s.users[id] = user
	return &user, nil
}

func (r *userRepository) GetByID(_ context.Context, id string) (*domain.User, error) {
	s := r.store
	s.mu.RLock()
	defer s.mu.RUnlock()

	user, ok := s.users[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &user, nil
}

func (r *userRepository) GetByEmail(_ context.Context, email string) (*domain.User, error) {
	s := r.store
	s.mu.RLock()
	defer s.mu.RUnlock()

	email = strings.ToLower(strings.TrimSpace(email))
	for _, user := range s.users {
		if user.Email == email {
			u := user
			return &u, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (r *userRepository) TouchLastLogin(_ context.Context, id string, at time.Time) error {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()

	user, ok := s.users[id]
	if !ok {
		return repository.ErrNotFound
	}
	user.LastLogin = &at
	user.UpdatedAt = s.now()
	s.users[id] = user
	return nil
}

func (r *userRepository) List(_ context.Context, filter repository.UserFilter) ([]domain.User, int, error) {
	s := r.store
	s.mu.RLock()
	defer s.mu.RUnlock()

	matched := make([]domain.User, 0, len(s.users))
	for _, user := range s.users {
		if filter.Role != nil && user.Role != *filter.Role {
			continue
		}
		if filter.IsActive != nil && user.IsActive != *filter.IsActive {
			continue
		}
		matched = append(matched, user)
	}
	sortByTimeDesc(matched, func(u domain.User) time.Time { return u.CreatedAt }, func(u domain.User) string { return u.ID })
	return paginate(matched, filter.Page), len(matched), nil
}
