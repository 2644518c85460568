package auth

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/job-board/internal/domain"
	"github.com/spec-kit/job-board/internal/repository"
	"github.com/spec-kit/job-board/internal/repository/memory"
	apperrors "github.com/spec-kit/job-board/pkg/util"
)

type mockRevocationStore struct {
	mock.Mock
}

func (m *mockRevocationStore) Revoke(ctx context.Context, tokenID string, until time.Time) error {
	return m.Called(ctx, tokenID, until).Error(0)
}

func (m *mockRevocationStore) IsRevoked(ctx context.Context, tokenID string) (bool, error) {
	args := m.Called(ctx, tokenID)
	return args.Bool(0), args.Error(1)
}

type middlewareHarness struct {
	app    *fiber.App
	tokens *TokenManager
	store  *memory.Store
}

func newMiddlewareHarness(t *testing.T, revoked RevocationStore) *middlewareHarness {
	t.Helper()
	h := &middlewareHarness{
		tokens: NewTokenManager("test-secret", time.Hour),
		store:  memory.NewStore(),
	}
	mw := NewAuthMiddleware(h.tokens, h.store.Users(), revoked, "token", nil)

	h.app = fiber.New(fiber.Config{
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			de := apperrors.ToDomainError(err)
			return c.Status(de.HTTPStatus).SendString(de.Message)
		},
	})
	h.app.Get("/me", mw.Handle, func(c *fiber.Ctx) error {
		principal, ok := PrincipalFromContext(c)
		require.True(t, ok)
		return c.SendString(principal.ID)
	})
	h.app.Get("/employers", mw.Handle, RequireRoles(domain.RoleEmployer, domain.RoleAdmin), func(c *fiber.Ctx) error {
		return c.SendStatus(http.StatusNoContent)
	})
	return h
}

func (h *middlewareHarness) createUser(t *testing.T, role domain.Role, active bool) (*domain.User, *domain.Session) {
	t.Helper()
	user := &domain.User{Name: "U", Email: string(role) + "@example.com", Role: role, IsActive: active}
	require.NoError(t, h.store.Users().Create(context.Background(), user))
	session, err := h.tokens.GenerateToken(user.ID, user.Role)
	require.NoError(t, err)
	return user, session
}

func (h *middlewareHarness) do(t *testing.T, path string, prepare func(*http.Request)) (int, string) {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if prepare != nil {
		prepare(req)
	}
	resp, err := h.app.Test(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp.StatusCode, string(body)
}

func bearer(token string) func(*http.Request) {
	return func(r *http.Request) { r.Header.Set("Authorization", "Bearer "+token) }
}

func TestMiddlewareAcceptsHeaderAndCookie(t *testing.T) {
	h := newMiddlewareHarness(t, NewMemoryRevocationStore())
	user, session := h.createUser(t, domain.RoleApplicant, true)

	status, body := h.do(t, "/me", bearer(session.Token))
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, user.ID, body)

	status, body = h.do(t, "/me", func(r *http.Request) {
		r.AddCookie(&http.Cookie{Name: "token", Value: session.Token})
	})
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, user.ID, body)
}

func TestMiddlewarePrefersHeaderOverCookie(t *testing.T) {
	h := newMiddlewareHarness(t, nil)
	_, session := h.createUser(t, domain.RoleApplicant, true)

	status, _ := h.do(t, "/me", func(r *http.Request) {
		r.Header.Set("Authorization", "Bearer garbage")
		r.AddCookie(&http.Cookie{Name: "token", Value: session.Token})
	})
	assert.Equal(t, http.StatusUnauthorized, status)
}

func TestMiddlewareRejections(t *testing.T) {
	revoked := NewMemoryRevocationStore()
	h := newMiddlewareHarness(t, revoked)
	_, inactiveSession := h.createUser(t, domain.RoleEmployer, false)
	_, session := h.createUser(t, domain.RoleApplicant, true)
	orphan, err := h.tokens.GenerateToken("0b8f0c52-3c1d-4a55-9f0e-1d2c3b4a5968", domain.RoleApplicant)
	require.NoError(t, err)
	loggedOut, err := h.tokens.GenerateToken(session.UserID, session.Role)
	require.NoError(t, err)
	require.NoError(t, revoked.Revoke(context.Background(), loggedOut.TokenID, loggedOut.ExpiresAt))

	cases := []struct {
		name    string
		prepare func(*http.Request)
		message string
	}{
		{"missing", nil, "Not authorized to access this route"},
		{"malformed", bearer("not-a-jwt"), "Not authorized to access this route"},
		{"revoked", bearer(loggedOut.Token), "Not authorized to access this route"},
		{"unknown user", bearer(orphan.Token), "User not found"},
		{"deactivated", bearer(inactiveSession.Token), "User account is deactivated"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			status, body := h.do(t, "/me", tc.prepare)
			assert.Equal(t, http.StatusUnauthorized, status)
			assert.Equal(t, tc.message, body)
		})
	}
}

func TestMiddlewareFailsOpenWhenRevocationStoreErrors(t *testing.T) {
	store := new(mockRevocationStore)
	store.On("IsRevoked", mock.Anything, mock.AnythingOfType("string")).Return(false, errors.New("redis down"))
	h := newMiddlewareHarness(t, store)
	_, session := h.createUser(t, domain.RoleApplicant, true)

	status, _ := h.do(t, "/me", bearer(session.Token))
	assert.Equal(t, http.StatusOK, status)
	store.AssertExpectations(t)
}

func TestRequireRoles(t *testing.T) {
	h := newMiddlewareHarness(t, nil)
	_, applicant := h.createUser(t, domain.RoleApplicant, true)
	_, employer := h.createUser(t, domain.RoleEmployer, true)

	status, body := h.do(t, "/employers", bearer(applicant.Token))
	assert.Equal(t, http.StatusForbidden, status)
	assert.Equal(t, "Role applicant is not authorized to access this route", body)

	status, _ = h.do(t, "/employers", bearer(employer.Token))
	assert.Equal(t, http.StatusNoContent, status)
}

type failingUsers struct {
	repository.UserRepository
}

func (failingUsers) GetByID(context.Context, string) (*domain.User, error) {
	return nil, errors.New("connection reset")
}

func TestMiddlewareMapsUserLookupFailureToServerError(t *testing.T) {
	h := newMiddlewareHarness(t, nil)
	_, session := h.createUser(t, domain.RoleApplicant, true)
	h.app = fiber.New(fiber.Config{
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			de := apperrors.ToDomainError(err)
			return c.Status(de.HTTPStatus).SendString(de.Message)
		},
	})
	mw := NewAuthMiddleware(h.tokens, failingUsers{UserRepository: h.store.Users()}, nil, "token", nil)
	h.app.Get("/me", mw.Handle, func(c *fiber.Ctx) error { return c.SendStatus(http.StatusNoContent) })

	status, body := h.do(t, "/me", bearer(session.Token))
	assert.Equal(t, http.StatusInternalServerError, status)
	assert.Equal(t, "Server error", body)
}
