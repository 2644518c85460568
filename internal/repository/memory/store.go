// Package memory keeps board data in process memory. It backs the service
// when no Postgres DSN is configured and is the fixture store for tests.
package memory

import (
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/spec-kit/job-board/internal/domain"
	"github.com/spec-kit/job-board/internal/repository"
)

// Store holds every collection behind one lock so cross-collection writes stay atomic.
type Store struct {
	mu           sync.RWMutex
	users        map[string]domain.User
	jobs         map[string]domain.Job
	applications map[string]domain.Application
	now          func() time.Time
}

// NewStore builds an empty store.
func NewStore() *Store {
	return &Store{
		users:        make(map[string]domain.User),
		jobs:         make(map[string]domain.Job),
		applications: make(map[string]domain.Application),
		now:          time.Now,
	}
}

// Users returns the user collection.
func (s *Store) Users() repository.UserRepository { return &userRepository{store: s} }

// Jobs returns the job collection.
func (s *Store) Jobs() repository.JobRepository { return &jobRepository{store: s} }

// Applications returns the application collection.
func (s *Store) Applications() repository.ApplicationRepository {
	return &applicationRepository{store: s}
}

func paginate[T any](items []T, page repository.Page) []T {
	if page.Limit <= 0 {
		page.Limit = 10
	}
	if page.Offset < 0 {
		page.Offset = 0
	}
	if page.Offset >= len(items) {
		return []T{}
	}
	end := page.Offset + page.Limit
	if end > len(items) {
		end = len(items)
	}
	return items[page.Offset:end]
}

func containsFold(haystack, needle string) bool {
	return strings.Contains(strings.ToLower(haystack), strings.ToLower(strings.TrimSpace(needle)))
}

func cloneStrings(values []string) []string {
	if values == nil {
		return []string{}
	}
	out := make([]string, len(values))
	copy(out, values)
	return out
}

func newID() string { return uuid.NewString() }

// newest-first ordering with id as a tie breaker keeps pagination stable
func sortByTimeDesc[T any](items []T, at func(T) time.Time, id func(T) string) {
	sort.SliceStable(items, func(i, j int) bool {
		ti, tj := at(items[i]), at(items[j])
		if ti.Equal(tj) {
			return id(items[i]) > id(items[j])
		}
		return ti.After(tj)
	})
}
