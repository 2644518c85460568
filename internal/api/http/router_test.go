package http

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"mime/multipart"
	nethttp "net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/job-board/internal/api/http/handlers"
	"github.com/spec-kit/job-board/internal/auth"
	"github.com/spec-kit/job-board/internal/config"
	"github.com/spec-kit/job-board/internal/domain"
	"github.com/spec-kit/job-board/internal/events"
	"github.com/spec-kit/job-board/internal/observability"
	"github.com/spec-kit/job-board/internal/repository/memory"
	"github.com/spec-kit/job-board/internal/service"
	"github.com/spec-kit/job-board/internal/storage"
	"github.com/spec-kit/job-board/internal/validation"
)

type testServer struct {
	app   *fiber.App
	store *memory.Store
	auth  *service.AuthService
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	store := memory.NewStore()
	files, err := storage.NewLocalStorage(t.TempDir())
	require.NoError(t, err)
	resumes := service.NewResumeStore(files, 1024*1024)
	dispatcher := events.NewInMemoryDispatcher()
	revocations := auth.NewMemoryRevocationStore()
	authCfg := config.AuthConfig{JWTSecret: "test-secret", AccessTokenTTLMinutes: 60, BcryptCost: 4, CookieName: "token"}

	authService := service.NewAuthService(authCfg, service.AuthDependencies{UserRepo: store.Users(), Revocation: revocations})
	jobService := service.NewJobService(service.JobDependencies{JobRepo: store.Jobs(), Dispatcher: dispatcher})
	applicationService := service.NewApplicationService(service.ApplicationDependencies{
		ApplicationRepo: store.Applications(),
		JobRepo:         store.Jobs(),
		UserRepo:        store.Users(),
		Resumes:         resumes,
		Dispatcher:      dispatcher,
	})
	userService := service.NewUserService(store.Users(), resumes, nil)
	validator := validation.New()
	metrics := observability.NewMetrics()

	app := NewServer(ServerConfig{
		AppName:    "job-board-test",
		Middleware: MiddlewareConfig{Metrics: metrics},
		Routes: RouteConfig{
			Health:         handlers.NewHealthHandler("job-board", "test", nil, metrics),
			Auth:           handlers.NewAuthHandler(authService, validator, authCfg),
			Jobs:           handlers.NewJobsHandler(jobService, validator),
			Applications:   handlers.NewApplicationsHandler(applicationService, validator),
			Users:          handlers.NewUsersHandler(userService, validator),
			AuthMiddleware: auth.NewAuthMiddleware(authService.TokenManager(), store.Users(), revocations, "token", nil),
		},
	})
	return &testServer{app: app, store: store, auth: authService}
}

type response struct {
	status  int
	body    map[string]any
	cookies []*nethttp.Cookie
}

func (s *testServer) do(t *testing.T, req *nethttp.Request) response {
	t.Helper()
	resp, err := s.app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()
	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	out := response{status: resp.StatusCode, cookies: resp.Cookies()}
	if len(raw) > 0 {
		require.NoError(t, json.Unmarshal(raw, &out.body), string(raw))
	}
	return out
}

func (s *testServer) json(t *testing.T, method, path, token string, payload any) response {
	t.Helper()
	var body io.Reader
	if payload != nil {
		encoded, err := json.Marshal(payload)
		require.NoError(t, err)
		body = bytes.NewReader(encoded)
	}
	req := httptest.NewRequest(method, path, body)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	return s.do(t, req)
}

func (s *testServer) register(t *testing.T, name, email string, role domain.Role) string {
	t.Helper()
	resp := s.json(t, nethttp.MethodPost, "/auth/register", "", map[string]any{
		"name": name, "email": email, "password": "secret123", "role": role,
	})
	require.Equal(t, nethttp.StatusCreated, resp.status, resp.body)
	return resp.body["token"].(string)
}

func (s *testServer) admin(t *testing.T) string {
	t.Helper()
	hash, err := auth.HashPassword("secret123", 4)
	require.NoError(t, err)
	user := &domain.User{Name: "Admin", Email: "admin@example.com", PasswordHash: hash, Role: domain.RoleAdmin, IsActive: true}
	require.NoError(t, s.store.Users().Create(context.Background(), user))
	session, err := s.auth.TokenManager().GenerateToken(user.ID, user.Role)
	require.NoError(t, err)
	return session.Token
}

func jobPayload() map[string]any {
	return map[string]any{
		"title":           "Backend Engineer",
		"description":     "Build the API",
		"requirements":    "Go and SQL",
		"company":         "Acme",
		"location":        "Berlin",
		"jobType":         "full-time",
		"category":        "Technology",
		"experienceLevel": "mid-level",
		"salary":          map[string]any{"min": 50000, "max": 70000},
	}
}

func (s *testServer) createJob(t *testing.T, token string) string {
	t.Helper()
	resp := s.json(t, nethttp.MethodPost, "/jobs", token, jobPayload())
	require.Equal(t, nethttp.StatusCreated, resp.status, resp.body)
	return resp.body["job"].(map[string]any)["id"].(string)
}

func multipartApply(t *testing.T, path, token, coverLetter, fileName string) *nethttp.Request {
	t.Helper()
	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	require.NoError(t, writer.WriteField("coverLetter", coverLetter))
	if fileName != "" {
		part, err := writer.CreateFormFile("resume", fileName)
		require.NoError(t, err)
		_, err = part.Write([]byte("%PDF-1.4 resume"))
		require.NoError(t, err)
	}
	require.NoError(t, writer.Close())
	req := httptest.NewRequest(nethttp.MethodPost, path, &buf)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	req.Header.Set("Authorization", "Bearer "+token)
	return req
}

func TestHealthAndUnknownRoute(t *testing.T) {
	s := newTestServer(t)

	resp := s.json(t, nethttp.MethodGet, "/health", "", nil)
	assert.Equal(t, nethttp.StatusOK, resp.status)
	assert.Equal(t, true, resp.body["success"])
	assert.Equal(t, "API is running", resp.body["message"])
	assert.NotEmpty(t, resp.body["timestamp"])

	resp = s.json(t, nethttp.MethodGet, "/nope", "", nil)
	assert.Equal(t, nethttp.StatusNotFound, resp.status)
	assert.Equal(t, false, resp.body["success"])
	assert.Equal(t, "Route /nope not found", resp.body["message"])
}

func TestRegisterValidationErrors(t *testing.T) {
	s := newTestServer(t)

	resp := s.json(t, nethttp.MethodPost, "/auth/register", "", map[string]any{"name": "A", "email": "bad", "password": "123"})
	assert.Equal(t, nethttp.StatusBadRequest, resp.status)
	assert.Equal(t, "Validation failed", resp.body["message"])
	errs, ok := resp.body["errors"].(map[string]any)
	require.True(t, ok)
	assert.Contains(t, errs, "name")
	assert.Contains(t, errs, "email")
	assert.Contains(t, errs, "password")
}

func TestSessionLifecycle(t *testing.T) {
	s := newTestServer(t)

	resp := s.json(t, nethttp.MethodPost, "/auth/register", "", map[string]any{
		"name": "Alex", "email": "alex@example.com", "password": "secret123",
	})
	require.Equal(t, nethttp.StatusCreated, resp.status)
	user := resp.body["user"].(map[string]any)
	assert.Equal(t, "applicant", user["role"])
	assert.NotContains(t, user, "password")
	assert.NotContains(t, user, "passwordHash")
	require.NotEmpty(t, resp.cookies)
	assert.Equal(t, "token", resp.cookies[0].Name)
	assert.True(t, resp.cookies[0].HttpOnly)

	resp = s.json(t, nethttp.MethodPost, "/auth/login", "", map[string]any{"email": "alex@example.com", "password": "wrong"})
	assert.Equal(t, nethttp.StatusUnauthorized, resp.status)
	assert.Equal(t, "Invalid credentials", resp.body["message"])

	resp = s.json(t, nethttp.MethodPost, "/auth/login", "", map[string]any{"email": "alex@example.com", "password": "secret123"})
	require.Equal(t, nethttp.StatusOK, resp.status)
	token := resp.body["token"].(string)

	resp = s.json(t, nethttp.MethodGet, "/auth/me", token, nil)
	assert.Equal(t, nethttp.StatusOK, resp.status)

	resp = s.json(t, nethttp.MethodPost, "/auth/logout", token, nil)
	assert.Equal(t, nethttp.StatusOK, resp.status)
	require.NotEmpty(t, resp.cookies)
	assert.Equal(t, "none", resp.cookies[0].Value)

	resp = s.json(t, nethttp.MethodGet, "/auth/me", token, nil)
	assert.Equal(t, nethttp.StatusUnauthorized, resp.status)
	assert.Equal(t, "Not authorized to access this route", resp.body["message"])
}

func TestApplicationFlow(t *testing.T) {
	s := newTestServer(t)
	employer := s.register(t, "Erin", "erin@example.com", domain.RoleEmployer)
	applicant := s.register(t, "Alex", "alex@example.com", domain.RoleApplicant)
	stranger := s.register(t, "Sam", "sam@example.com", domain.RoleApplicant)
	jobID := s.createJob(t, employer)

	resp := s.json(t, nethttp.MethodPost, "/jobs", applicant, map[string]any{"title": "x"})
	assert.Equal(t, nethttp.StatusForbidden, resp.status)
	assert.Equal(t, "Role applicant is not authorized to access this route", resp.body["message"])

	resp = s.json(t, nethttp.MethodPost, "/jobs/"+jobID+"/apply", applicant, map[string]any{"coverLetter": "hello"})
	assert.Equal(t, nethttp.StatusBadRequest, resp.status)
	assert.Equal(t, "Resume is required to apply for a job", resp.body["message"])

	resp = s.do(t, multipartApply(t, "/jobs/"+jobID+"/apply", applicant, "hello", "cv.pdf"))
	require.Equal(t, nethttp.StatusCreated, resp.status, resp.body)
	assert.Equal(t, "Application submitted successfully", resp.body["message"])
	application := resp.body["application"].(map[string]any)
	applicationID := application["id"].(string)
	assert.Equal(t, "pending", application["status"])
	assert.Equal(t, "Backend Engineer", application["job"].(map[string]any)["title"])
	assert.Equal(t, "Alex", application["applicant"].(map[string]any)["name"])

	resp = s.do(t, multipartApply(t, "/jobs/"+jobID+"/apply", applicant, "again", "cv.pdf"))
	assert.Equal(t, nethttp.StatusBadRequest, resp.status)
	assert.Equal(t, "You have already applied for this job", resp.body["message"])

	resp = s.json(t, nethttp.MethodGet, "/jobs/"+jobID, "", nil)
	require.Equal(t, nethttp.StatusOK, resp.status)
	assert.Equal(t, float64(1), resp.body["job"].(map[string]any)["applicationsCount"])

	resp = s.json(t, nethttp.MethodGet, "/applications/"+applicationID, stranger, nil)
	assert.Equal(t, nethttp.StatusUnauthorized, resp.status)
	assert.Equal(t, "Not authorized to view this application", resp.body["message"])

	resp = s.json(t, nethttp.MethodGet, "/applications/not-an-id", applicant, nil)
	assert.Equal(t, nethttp.StatusBadRequest, resp.status)
	assert.Equal(t, "Invalid application id", resp.body["message"])

	resp = s.json(t, nethttp.MethodGet, "/applications/job/"+jobID, employer, nil)
	require.Equal(t, nethttp.StatusOK, resp.status)
	assert.Equal(t, float64(1), resp.body["total"])
	assert.Equal(t, float64(1), resp.body["count"])
	assert.Equal(t, float64(1), resp.body["currentPage"])
	assert.Equal(t, float64(1), resp.body["totalPages"])

	resp = s.json(t, nethttp.MethodPatch, "/applications/"+applicationID+"/status", employer, map[string]any{"status": "nope"})
	assert.Equal(t, nethttp.StatusBadRequest, resp.status)
	assert.Equal(t, "Invalid status provided", resp.body["message"])

	resp = s.json(t, nethttp.MethodPatch, "/applications/"+applicationID+"/status", employer, map[string]any{"status": "hired", "notes": "welcome"})
	require.Equal(t, nethttp.StatusOK, resp.status)
	assert.Equal(t, "Erin", resp.body["application"].(map[string]any)["reviewedBy"].(map[string]any)["name"])

	resp = s.json(t, nethttp.MethodDelete, "/applications/"+applicationID, applicant, nil)
	assert.Equal(t, nethttp.StatusBadRequest, resp.status)
	assert.Equal(t, "Cannot withdraw application with current status", resp.body["message"])

	resp = s.json(t, nethttp.MethodGet, "/applications/me", applicant, nil)
	require.Equal(t, nethttp.StatusOK, resp.status)
	assert.Len(t, resp.body["applications"], 1)
}

func TestDeactivatedUserLosesAccess(t *testing.T) {
	s := newTestServer(t)
	adminToken := s.admin(t)
	employer := s.register(t, "Erin", "erin@example.com", domain.RoleEmployer)

	resp := s.json(t, nethttp.MethodGet, "/admin/users?role=employer", adminToken, nil)
	require.Equal(t, nethttp.StatusOK, resp.status)
	users := resp.body["users"].([]any)
	require.Len(t, users, 1)
	employerID := users[0].(map[string]any)["id"].(string)

	resp = s.json(t, nethttp.MethodGet, "/admin/users", employer, nil)
	assert.Equal(t, nethttp.StatusForbidden, resp.status)

	resp = s.json(t, nethttp.MethodPatch, "/admin/users/"+employerID+"/status", adminToken, map[string]any{"isActive": false})
	require.Equal(t, nethttp.StatusOK, resp.status)

	resp = s.json(t, nethttp.MethodGet, "/auth/me", employer, nil)
	assert.Equal(t, nethttp.StatusUnauthorized, resp.status)
	assert.Equal(t, "User account is deactivated", resp.body["message"])

	resp = s.json(t, nethttp.MethodPost, "/auth/login", "", map[string]any{"email": "erin@example.com", "password": "secret123"})
	assert.Equal(t, nethttp.StatusForbidden, resp.status)
}

func TestJobsListingAndSlugLookup(t *testing.T) {
	s := newTestServer(t)
	employer := s.register(t, "Erin", "erin@example.com", domain.RoleEmployer)
	jobID := s.createJob(t, employer)

	resp := s.json(t, nethttp.MethodGet, "/jobs?search=backend&limit=abc", "", nil)
	require.Equal(t, nethttp.StatusOK, resp.status)
	assert.Equal(t, float64(1), resp.body["total"])
	jobs := resp.body["jobs"].([]any)
	require.Len(t, jobs, 1)
	slug := jobs[0].(map[string]any)["slug"].(string)

	resp = s.json(t, nethttp.MethodGet, "/jobs/"+slug, "", nil)
	require.Equal(t, nethttp.StatusOK, resp.status)
	assert.Equal(t, jobID, resp.body["job"].(map[string]any)["id"])
	assert.Equal(t, float64(1), resp.body["job"].(map[string]any)["views"])

	resp = s.json(t, nethttp.MethodPut, "/jobs/"+jobID, employer, map[string]any{"title": "Platform Engineer"})
	require.Equal(t, nethttp.StatusOK, resp.status)
	assert.Equal(t, slug, resp.body["job"].(map[string]any)["slug"])
}

func TestJobTextLimits(t *testing.T) {
	s := newTestServer(t)
	employer := s.register(t, "Erin", "erin@example.com", domain.RoleEmployer)

	tooLong := jobPayload()
	tooLong["description"] = strings.Repeat("d", 2001)
	resp := s.json(t, nethttp.MethodPost, "/jobs", employer, tooLong)
	assert.Equal(t, nethttp.StatusBadRequest, resp.status)
	assert.Equal(t, "Cannot exceed 2000 characters", resp.body["errors"].(map[string]any)["description"])

	long := jobPayload()
	long["description"] = strings.Repeat("d", 2000)
	long["requirements"] = strings.Repeat("r", 3000)
	resp = s.json(t, nethttp.MethodPost, "/jobs", employer, long)
	require.Equal(t, nethttp.StatusCreated, resp.status, resp.body)
	jobID := resp.body["job"].(map[string]any)["id"].(string)

	resp = s.json(t, nethttp.MethodPut, "/jobs/"+jobID, employer, map[string]any{"description": strings.Repeat("d", 2001)})
	assert.Equal(t, nethttp.StatusBadRequest, resp.status)
	assert.Contains(t, resp.body["errors"], "description")

	resp = s.json(t, nethttp.MethodPut, "/jobs/"+jobID, employer, map[string]any{"requirements": strings.Repeat("r", 5000)})
	assert.Equal(t, nethttp.StatusOK, resp.status)
}
