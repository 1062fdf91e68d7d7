package handler

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"docportal/internal/http/middleware"
	"docportal/internal/model"
	"docportal/internal/service"
	serviceMocks "docportal/internal/service/mocks"
)

var (
	adminP   = &model.Principal{Subject: "admin", Role: model.RoleAdmin, Email: "admin@portal.test"}
	companyP = &model.Principal{Subject: "c1", Role: model.RoleCompany, CompanyID: "c1", Email: "c@acme.com", Name: "Acme"}
)

type testEnv struct {
	app           *fiber.App
	auth          *serviceMocks.MockAuthService
	companies     *serviceMocks.MockCompanyService
	files         *serviceMocks.MockFileService
	notifications *serviceMocks.MockNotificationService
	requests      *serviceMocks.MockRequestService
	activity      *serviceMocks.MockActivityService
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	e := &testEnv{
		auth:          new(serviceMocks.MockAuthService),
		companies:     new(serviceMocks.MockCompanyService),
		files:         new(serviceMocks.MockFileService),
		notifications: new(serviceMocks.MockNotificationService),
		requests:      new(serviceMocks.MockRequestService),
		activity:      new(serviceMocks.MockActivityService),
	}
	e.auth.On("Authenticate", "admin-token").Return(adminP, nil).Maybe()
	e.auth.On("Authenticate", "company-token").Return(companyP, nil).Maybe()

	e.app = fiber.New(fiber.Config{ErrorHandler: ErrorHandler(zerolog.Nop())})
	e.app.Use(middleware.RequestID())
	RegisterRoutes(e.app, Deps{
		Auth:          e.auth,
		Companies:     e.companies,
		Files:         e.files,
		Notifications: e.notifications,
		Requests:      e.requests,
		Activity:      e.activity,
	})
	t.Cleanup(func() {
		e.companies.AssertExpectations(t)
		e.files.AssertExpectations(t)
		e.notifications.AssertExpectations(t)
		e.requests.AssertExpectations(t)
		e.activity.AssertExpectations(t)
	})
	return e
}

func (e *testEnv) do(t *testing.T, method, path, token string, body io.Reader, contentType string) (*http.Response, envelope) {
	t.Helper()
	req := httptest.NewRequest(method, path, body)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	resp, err := e.app.Test(req, -1)
	require.NoError(t, err)

	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	var env envelope
	if strings.HasPrefix(resp.Header.Get("Content-Type"), fiber.MIMEApplicationJSON) {
		require.NoError(t, json.Unmarshal(raw, &env), string(raw))
	}
	return resp, env
}

func (e *testEnv) json(t *testing.T, method, path, token string, body any) (*http.Response, envelope) {
	t.Helper()
	var r io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		require.NoError(t, err)
		r = bytes.NewReader(b)
	}
	return e.do(t, method, path, token, r, fiber.MIMEApplicationJSON)
}

func TestHealthCheck(t *testing.T) {
	db, dbMock, err := sqlmock.New(sqlmock.MonitorPingsOption(true))
	require.NoError(t, err)
	defer db.Close()

	app := fiber.New()
	app.Get("/health", HealthCheck(db))

	t.Run("healthy", func(t *testing.T) {
		dbMock.ExpectPing().WillReturnError(nil)

		resp, _ := app.Test(httptest.NewRequest(http.MethodGet, "/health", nil))
		assert.Equal(t, http.StatusOK, resp.StatusCode)

		var body map[string]any
		json.NewDecoder(resp.Body).Decode(&body)
		assert.Equal(t, "OK", body["status"])
		assert.Equal(t, "Server is running", body["message"])
		assert.Equal(t, true, body["success"])
	})

	t.Run("unhealthy", func(t *testing.T) {
		dbMock.ExpectPing().WillReturnError(errors.New("db error"))

		resp, _ := app.Test(httptest.NewRequest(http.MethodGet, "/health", nil))
		assert.Equal(t, http.StatusServiceUnavailable, resp.StatusCode)

		var body envelope
		json.NewDecoder(resp.Body).Decode(&body)
		assert.False(t, body.Success)
		assert.Equal(t, "SERVICE_UNAVAILABLE", body.Code)
	})
}

func TestLiveness(t *testing.T) {
	app := fiber.New()
	app.Get("/healthz", Liveness())

	resp, _ := app.Test(httptest.NewRequest(http.MethodGet, "/healthz", nil))
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestErrorHandler(t *testing.T) {
	cases := []struct {
		name   string
		err    error
		status int
		code   string
	}{
		{"validation", &service.ValidationError{Field: "name", Message: "is required"}, 400, "VALIDATION_ERROR"},
		{"bad body", badRequest("INVALID_BODY", "malformed request body"), 400, "INVALID_BODY"},
		{"credentials", service.ErrInvalidCredentials, 401, "INVALID_CREDENTIALS"},
		{"forbidden", fmt.Errorf("wrap: %w", service.ErrForbidden), 403, "FORBIDDEN"},
		{"not found", service.ErrNotFound, 404, "NOT_FOUND"},
		{"already completed", service.ErrAlreadyCompleted, 409, "CONFLICT"},
		{"conflict", service.ErrConflict, 409, "CONFLICT"},
		{"unauthorized", fiber.NewError(fiber.StatusUnauthorized, "missing bearer token"), 401, "UNAUTHORIZED"},
		{"rate limited", fiber.NewError(fiber.StatusTooManyRequests, "slow down"), 429, "RATE_LIMITED"},
		{"internal", errors.New("pq: connection reset"), 500, "INTERNAL_ERROR"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			app := fiber.New(fiber.Config{ErrorHandler: ErrorHandler(zerolog.Nop())})
			app.Use(middleware.RequestID())
			app.Get("/x", func(c *fiber.Ctx) error { return tc.err })

			resp, _ := app.Test(httptest.NewRequest(http.MethodGet, "/x", nil))
			assert.Equal(t, tc.status, resp.StatusCode)

			var body envelope
			require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
			assert.False(t, body.Success)
			assert.Equal(t, tc.code, body.Code)
			assert.NotEmpty(t, body.RequestID)
			assert.NotContains(t, body.Message, "pq:")
		})
	}
}

func TestLogin(t *testing.T) {
	e := newTestEnv(t)

	t.Run("success needs no token", func(t *testing.T) {
		res := &service.LoginResult{
			User:    *companyP,
			Session: service.Session{AccessToken: "tok", TokenType: "Bearer", ExpiresAt: time.Now().Add(time.Hour)},
		}
		e.auth.On("Login", mock.Anything, "c@acme.com", "secret1").Return(res, nil).Once()

		resp, env := e.json(t, http.MethodPost, "/api/auth/login", "", fiber.Map{"email": "c@acme.com", "password": "secret1"})
		assert.Equal(t, http.StatusOK, resp.StatusCode)
		assert.True(t, env.Success)

		data := env.Data.(map[string]any)
		assert.Equal(t, "tok", data["session"].(map[string]any)["access_token"])
		assert.NotContains(t, data["user"], "password")
	})

	t.Run("invalid credentials", func(t *testing.T) {
		e.auth.On("Login", mock.Anything, "c@acme.com", "nope").Return(nil, service.ErrInvalidCredentials).Once()

		resp, env := e.json(t, http.MethodPost, "/api/auth/login", "", fiber.Map{"email": "c@acme.com", "password": "nope"})
		assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
		assert.Equal(t, "INVALID_CREDENTIALS", env.Code)
	})

	t.Run("missing email", func(t *testing.T) {
		resp, env := e.json(t, http.MethodPost, "/api/auth/login", "", fiber.Map{"password": "x"})
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
		assert.Equal(t, "VALIDATION_ERROR", env.Code)
		assert.Equal(t, "email is required", env.Message)
	})

	t.Run("malformed body", func(t *testing.T) {
		resp, env := e.do(t, http.MethodPost, "/api/auth/login", "", strings.NewReader("{"), fiber.MIMEApplicationJSON)
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
		assert.Equal(t, "INVALID_BODY", env.Code)
	})
}

func TestAuthGate(t *testing.T) {
	e := newTestEnv(t)
	e.auth.On("Authenticate", "stale").Return(nil, errors.New("token expired")).Maybe()

	t.Run("missing token", func(t *testing.T) {
		resp, env := e.json(t, http.MethodGet, "/api/files", "", nil)
		assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
		assert.Equal(t, "UNAUTHORIZED", env.Code)
	})

	t.Run("expired token", func(t *testing.T) {
		resp, env := e.json(t, http.MethodGet, "/api/files", "stale", nil)
		assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
		assert.Equal(t, "UNAUTHORIZED", env.Code)
	})

	t.Run("company cannot create companies", func(t *testing.T) {
		resp, env := e.json(t, http.MethodPost, "/api/companies", "company-token", fiber.Map{"name": "x"})
		assert.Equal(t, http.StatusForbidden, resp.StatusCode)
		assert.Equal(t, "FORBIDDEN", env.Code)
	})

	t.Run("admin cannot create requests", func(t *testing.T) {
		resp, _ := e.json(t, http.MethodPost, "/api/requests", "admin-token", fiber.Map{"doc_type": "Tax"})
		assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	})
}

func TestLogoutAndChangePassword(t *testing.T) {
	e := newTestEnv(t)

	e.auth.On("Logout", mock.Anything, companyP).Return(nil).Once()
	resp, env := e.json(t, http.MethodPost, "/api/auth/logout", "company-token", nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "Logged out", env.Message)

	// Legacy camelCase fields are folded in.
	e.auth.On("ChangePassword", mock.Anything, companyP, "old-pass", "new-pass").Return(nil).Once()
	resp, _ = e.json(t, http.MethodPost, "/api/auth/change-password", "company-token",
		fiber.Map{"currentPassword": "old-pass", "newPassword": "new-pass"})
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	e.auth.On("ChangePassword", mock.Anything, companyP, "old-pass", "abc").
		Return(&service.ValidationError{Field: "new_password", Message: "must be at least 6 characters"}).Once()
	resp, env = e.json(t, http.MethodPost, "/api/auth/change-password", "company-token",
		fiber.Map{"current_password": "old-pass", "new_password": "abc"})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "new_password: must be at least 6 characters", env.Message)

	e.auth.AssertExpectations(t)
}

func TestCompanies(t *testing.T) {
	e := newTestEnv(t)
	id := uuid.NewString()

	t.Run("create", func(t *testing.T) {
		in := service.CompanyInput{Name: "Acme", Email: "c@acme.com", Password: "secret1", Phone: "555"}
		e.companies.On("Create", mock.Anything, adminP, in).
			Return(&model.Company{ID: id, Name: "Acme", Email: "c@acme.com", PasswordHash: "$2a$hash"}, nil).Once()

		resp, env := e.json(t, http.MethodPost, "/api/companies", "admin-token",
			fiber.Map{"name": "Acme", "email": "c@acme.com", "password": "secret1", "phone": "555"})
		assert.Equal(t, http.StatusCreated, resp.StatusCode)
		data := env.Data.(map[string]any)
		assert.Equal(t, id, data["id"])
		assert.NotContains(t, data, "password_hash")
	})

	t.Run("create with bad email", func(t *testing.T) {
		resp, env := e.json(t, http.MethodPost, "/api/companies", "admin-token",
			fiber.Map{"name": "Acme", "email": "nope", "password": "secret1"})
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
		assert.Equal(t, "email must be a valid email", env.Message)
	})

	t.Run("duplicate email", func(t *testing.T) {
		e.companies.On("Create", mock.Anything, adminP, mock.Anything).Return(nil, service.ErrConflict).Once()

		resp, env := e.json(t, http.MethodPost, "/api/companies", "admin-token",
			fiber.Map{"name": "Acme", "email": "c@acme.com", "password": "secret1"})
		assert.Equal(t, http.StatusConflict, resp.StatusCode)
		assert.Equal(t, "CONFLICT", env.Code)
	})

	t.Run("list", func(t *testing.T) {
		e.companies.On("List", mock.Anything, adminP).
			Return([]service.CompanySummary{{Company: model.Company{ID: id, Name: "Acme"}, FileCount: 3}}, nil).Once()

		resp, env := e.json(t, http.MethodGet, "/api/companies", "admin-token", nil)
		assert.Equal(t, http.StatusOK, resp.StatusCode)
		items := env.Data.([]any)
		require.Len(t, items, 1)
		assert.Equal(t, float64(3), items[0].(map[string]any)["file_count"])
	})

	t.Run("export", func(t *testing.T) {
		e.companies.On("Export", mock.Anything, adminP, mock.Anything).
			Return("Name,Email,Phone,Files,Created\nAcme,c@acme.com,555,3,2026-03-01\n", nil).Once()

		resp, _ := e.do(t, http.MethodGet, "/api/companies/export", "admin-token", nil, "")
		assert.Equal(t, http.StatusOK, resp.StatusCode)
		assert.Contains(t, resp.Header.Get("Content-Type"), "text/csv")
		assert.Contains(t, resp.Header.Get("Content-Disposition"), "companies.csv")
	})

	t.Run("get with invalid id", func(t *testing.T) {
		resp, env := e.json(t, http.MethodGet, "/api/companies/not-a-uuid", "admin-token", nil)
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
		assert.Equal(t, "INVALID_ID", env.Code)
	})

	t.Run("update", func(t *testing.T) {
		up := service.CompanyUpdate{Name: "Acme 2", Email: "c@acme.com"}
		e.companies.On("Update", mock.Anything, adminP, id, up).Return(&model.Company{ID: id, Name: "Acme 2"}, nil).Once()

		resp, _ := e.json(t, http.MethodPut, "/api/companies/"+id, "admin-token", fiber.Map{"name": "Acme 2", "email": "c@acme.com"})
		assert.Equal(t, http.StatusOK, resp.StatusCode)
	})

	t.Run("delete missing", func(t *testing.T) {
		e.companies.On("Delete", mock.Anything, adminP, id).Return(service.ErrNotFound).Once()

		resp, env := e.json(t, http.MethodDelete, "/api/companies/"+id, "admin-token", nil)
		assert.Equal(t, http.StatusNotFound, resp.StatusCode)
		assert.Equal(t, "NOT_FOUND", env.Code)
	})
}

func TestListFiles(t *testing.T) {
	e := newTestEnv(t)

	const companyID = "7d9f2c3e-5b1a-4c8e-9f00-2a6b8c1d4e5f"
	q := service.FileQuery{CompanyID: companyID, Category: model.CategoryTax, Search: "return"}
	e.files.On("List", mock.Anything, adminP, q).Return([]model.File{{ID: "f1", Name: "return.pdf"}}, nil).Once()

	resp, env := e.json(t, http.MethodGet, "/api/files?companyId="+companyID+"&category=Tax&q=%20return%20", "admin-token", nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Len(t, env.Data, 1)

	t.Run("malformed company id", func(t *testing.T) {
		resp, env := e.json(t, http.MethodGet, "/api/files?company_id=not-a-uuid", "admin-token", nil)
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
		assert.Equal(t, "INVALID_ID", env.Code)
		e.files.AssertNumberOfCalls(t, "List", 1)
	})
}

type formFile struct {
	name, contentType, body string
}

func multipartBody(t *testing.T, fields map[string]string, files []formFile) (io.Reader, string) {
	t.Helper()
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	for k, v := range fields {
		require.NoError(t, w.WriteField(k, v))
	}
	for _, f := range files {
		h := make(map[string][]string)
		h["Content-Disposition"] = []string{fmt.Sprintf(`form-data; name="files"; filename="%s"`, f.name)}
		if f.contentType != "" {
			h["Content-Type"] = []string{f.contentType}
		}
		part, err := w.CreatePart(h)
		require.NoError(t, err)
		_, err = io.WriteString(part, f.body)
		require.NoError(t, err)
	}
	require.NoError(t, w.Close())
	return &buf, w.FormDataContentType()
}

const uploadCompanyID = "3f1e8a52-9c4d-4b7a-8e21-6d0c5b9a7f13"

func TestUploadFiles(t *testing.T) {
	fields := map[string]string{"companyId": uploadCompanyID, "category": "Tax", "expiry_date": "2026-12-31"}
	files := []formFile{{"a.pdf", "application/pdf", "%PDF-a"}, {"b.txt", "", "bee"}}

	matchBatch := mock.MatchedBy(func(r service.UploadRequest) bool {
		if r.CompanyID != uploadCompanyID || r.Category != model.CategoryTax || r.ExpiryDate == nil || len(r.Files) != 2 {
			return false
		}
		if !r.ExpiryDate.Equal(time.Date(2026, 12, 31, 0, 0, 0, 0, time.UTC)) {
			return false
		}
		rc, err := r.Files[0].Open()
		if err != nil {
			return false
		}
		defer rc.Close()
		b, _ := io.ReadAll(rc)
		return r.Files[0].Name == "a.pdf" && r.Files[0].ContentType == "application/pdf" &&
			string(b) == "%PDF-a" && r.Files[1].ContentType == defaultContentType
	})

	cases := []struct {
		name   string
		result *service.UploadResult
		status int
	}{
		{"all stored", &service.UploadResult{Uploaded: []model.File{{Name: "a.pdf"}, {Name: "b.txt"}}, Failed: []service.UploadFailure{}}, http.StatusCreated},
		{"partial", &service.UploadResult{Uploaded: []model.File{{Name: "a.pdf"}}, Failed: []service.UploadFailure{{Name: "b.txt", Error: "storage upload failed"}}}, http.StatusMultiStatus},
		{"all failed", &service.UploadResult{Uploaded: []model.File{}, Failed: []service.UploadFailure{{Name: "a.pdf"}, {Name: "b.txt"}}}, http.StatusBadGateway},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			e := newTestEnv(t)
			e.files.On("Upload", mock.Anything, adminP, matchBatch).Return(tc.result, nil).Once()

			body, ct := multipartBody(t, fields, files)
			resp, env := e.do(t, http.MethodPost, "/api/files/upload", "admin-token", body, ct)
			assert.Equal(t, tc.status, resp.StatusCode)

			data := env.Data.(map[string]any)
			assert.Len(t, data["uploaded"], len(tc.result.Uploaded))
			assert.Len(t, data["failed"], len(tc.result.Failed))
			assert.Equal(t, tc.status != http.StatusBadGateway, env.Success)
		})
	}

	t.Run("bad expiry never reaches the service", func(t *testing.T) {
		e := newTestEnv(t)
		body, ct := multipartBody(t, map[string]string{"company_id": uploadCompanyID, "category": "Tax", "expiry_date": "31/12/2026"}, files)

		resp, env := e.do(t, http.MethodPost, "/api/files/upload", "admin-token", body, ct)
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
		assert.Equal(t, "VALIDATION_ERROR", env.Code)
		e.files.AssertNotCalled(t, "Upload", mock.Anything, mock.Anything, mock.Anything)
	})

	for _, key := range []string{"company_id", "companyId"} {
		t.Run("malformed "+key+" never reaches the service", func(t *testing.T) {
			e := newTestEnv(t)
			body, ct := multipartBody(t, map[string]string{key: "not-a-uuid", "category": "Tax"}, files)

			resp, env := e.do(t, http.MethodPost, "/api/files/upload", "admin-token", body, ct)
			assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
			assert.Equal(t, "VALIDATION_ERROR", env.Code)
			assert.Contains(t, env.Message, "company_id")
			e.files.AssertNotCalled(t, "Upload", mock.Anything, mock.Anything, mock.Anything)
		})
	}

	t.Run("not multipart", func(t *testing.T) {
		e := newTestEnv(t)
		resp, env := e.json(t, http.MethodPost, "/api/files/upload", "admin-token", fiber.Map{})
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
		assert.Equal(t, "INVALID_BODY", env.Code)
	})
}

func TestParseExpiry(t *testing.T) {
	got, err := parseExpiry("")
	require.NoError(t, err)
	assert.Nil(t, got)

	got, err = parseExpiry("2026-05-01T10:00:00+05:30")
	require.NoError(t, err)
	assert.Equal(t, time.Date(2026, 5, 1, 4, 30, 0, 0, time.UTC), *got)

	_, err = parseExpiry("tomorrow")
	var ve *service.ValidationError
	assert.ErrorAs(t, err, &ve)
	assert.Equal(t, "expiry_date", ve.Field)
}

func TestFileByID(t *testing.T) {
	e := newTestEnv(t)
	id := uuid.NewString()
	f := &model.File{ID: id, Name: "Q1 report.pdf", ContentType: "application/pdf", Size: 5, CompanyID: "c1"}

	t.Run("other company sees not found", func(t *testing.T) {
		e.files.On("Get", mock.Anything, companyP, id).Return(nil, service.ErrNotFound).Once()

		resp, env := e.json(t, http.MethodGet, "/api/files/"+id, "company-token", nil)
		assert.Equal(t, http.StatusNotFound, resp.StatusCode)
		assert.Equal(t, "NOT_FOUND", env.Code)
	})

	t.Run("mark read", func(t *testing.T) {
		read := *f
		read.ReadBy = []string{"c1"}
		e.files.On("MarkRead", mock.Anything, companyP, id).Return(&read, nil).Once()

		resp, env := e.json(t, http.MethodPost, "/api/files/"+id+"/mark-read", "company-token", nil)
		assert.Equal(t, http.StatusOK, resp.StatusCode)
		assert.Equal(t, []any{"c1"}, env.Data.(map[string]any)["read_by"])
	})

	t.Run("download url", func(t *testing.T) {
		link := &service.DownloadLink{URL: "https://minio.local/bucket/x?X-Amz-Signature=abc", ExpiresAt: time.Now().Add(15 * time.Minute)}
		e.files.On("DownloadURL", mock.Anything, companyP, id).Return(link, nil).Once()

		resp, env := e.json(t, http.MethodGet, "/api/files/"+id+"/download-url", "company-token", nil)
		assert.Equal(t, http.StatusOK, resp.StatusCode)
		assert.Equal(t, link.URL, env.Data.(map[string]any)["url"])
	})

	t.Run("content streams as attachment", func(t *testing.T) {
		e.files.On("Open", mock.Anything, companyP, id).Return(io.NopCloser(strings.NewReader("%PDF-")), f, nil).Once()

		req := httptest.NewRequest(http.MethodGet, "/api/files/"+id+"/content", nil)
		req.Header.Set("Authorization", "Bearer company-token")
		resp, err := e.app.Test(req, -1)
		require.NoError(t, err)

		assert.Equal(t, http.StatusOK, resp.StatusCode)
		assert.Equal(t, "application/pdf", resp.Header.Get("Content-Type"))
		assert.Equal(t, `attachment; filename="Q1 report.pdf"`, resp.Header.Get("Content-Disposition"))
		b, _ := io.ReadAll(resp.Body)
		assert.Equal(t, "%PDF-", string(b))
	})

	t.Run("company cannot delete", func(t *testing.T) {
		resp, _ := e.json(t, http.MethodDelete, "/api/files/"+id, "company-token", nil)
		assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	})

	t.Run("admin deletes", func(t *testing.T) {
		e.files.On("Delete", mock.Anything, adminP, id).Return(nil).Once()

		resp, _ := e.json(t, http.MethodDelete, "/api/files/"+id, "admin-token", nil)
		assert.Equal(t, http.StatusOK, resp.StatusCode)
	})
}

func TestNotifications(t *testing.T) {
	e := newTestEnv(t)
	target := uuid.NewString()
	id := uuid.NewString()

	t.Run("send with legacy company id", func(t *testing.T) {
		in := service.NotificationInput{CompanyID: target, Subject: "Hi", Message: "Files ready"}
		e.notifications.On("Send", mock.Anything, adminP, in).Return([]model.Notification{{ID: id, CompanyID: target}}, nil).Once()

		resp, env := e.json(t, http.MethodPost, "/api/notifications", "admin-token",
			fiber.Map{"companyId": target, "subject": "Hi", "message": "Files ready"})
		assert.Equal(t, http.StatusCreated, resp.StatusCode)
		assert.Len(t, env.Data, 1)
	})

	t.Run("broadcast", func(t *testing.T) {
		in := service.NotificationInput{Subject: "All", Message: "Maintenance"}
		e.notifications.On("Send", mock.Anything, adminP, in).
			Return([]model.Notification{{CompanyID: "a"}, {CompanyID: "b"}}, nil).Once()

		resp, env := e.json(t, http.MethodPost, "/api/notifications", "admin-token", fiber.Map{"subject": "All", "message": "Maintenance"})
		assert.Equal(t, http.StatusCreated, resp.StatusCode)
		assert.Len(t, env.Data, 2)
	})

	t.Run("read one", func(t *testing.T) {
		e.notifications.On("MarkRead", mock.Anything, companyP, id).Return(&model.Notification{ID: id, Read: true}, nil).Once()

		resp, _ := e.json(t, http.MethodPost, "/api/notifications/"+id+"/read", "company-token", nil)
		assert.Equal(t, http.StatusOK, resp.StatusCode)
	})

	t.Run("read all", func(t *testing.T) {
		e.notifications.On("MarkAllRead", mock.Anything, companyP).Return(int64(4), nil).Once()

		resp, env := e.json(t, http.MethodPost, "/api/notifications/read-all", "company-token", nil)
		assert.Equal(t, http.StatusOK, resp.StatusCode)
		assert.Equal(t, float64(4), env.Data.(map[string]any)["updated"])
	})
}

func TestRequests(t *testing.T) {
	e := newTestEnv(t)
	id := uuid.NewString()

	t.Run("create with legacy doc type", func(t *testing.T) {
		e.requests.On("Create", mock.Anything, companyP, "GST Return", "for March").
			Return(&model.DocumentRequest{ID: id, Status: model.RequestPending}, nil).Once()

		resp, _ := e.json(t, http.MethodPost, "/api/requests", "company-token", fiber.Map{"docType": "GST Return", "description": "for March"})
		assert.Equal(t, http.StatusCreated, resp.StatusCode)
	})

	t.Run("complete twice", func(t *testing.T) {
		e.requests.On("UpdateStatus", mock.Anything, adminP, id, model.RequestCompleted).
			Return(&model.DocumentRequest{ID: id, Status: model.RequestCompleted}, nil).Once()
		e.requests.On("UpdateStatus", mock.Anything, adminP, id, model.RequestCompleted).
			Return(nil, service.ErrAlreadyCompleted).Once()

		resp, _ := e.json(t, http.MethodPut, "/api/requests/"+id, "admin-token", fiber.Map{"status": "completed"})
		assert.Equal(t, http.StatusOK, resp.StatusCode)

		resp, env := e.json(t, http.MethodPut, "/api/requests/"+id, "admin-token", fiber.Map{"status": "completed"})
		assert.Equal(t, http.StatusConflict, resp.StatusCode)
		assert.Equal(t, "request already completed", env.Message)
	})

	t.Run("missing status", func(t *testing.T) {
		resp, env := e.json(t, http.MethodPut, "/api/requests/"+id, "admin-token", fiber.Map{})
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
		assert.Equal(t, "status is required", env.Message)
	})
}

func TestActivity(t *testing.T) {
	e := newTestEnv(t)

	e.activity.On("List", mock.Anything, companyP, 5, "login").
		Return([]model.ActivityEntry{{Action: "login", User: "c@acme.com"}}, nil).Once()
	resp, env := e.json(t, http.MethodGet, "/api/activity?limit=5&action=login", "company-token", nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Len(t, env.Data, 1)

	e.activity.On("Clear", mock.Anything, adminP).Return(int64(12), nil).Once()
	resp, env = e.json(t, http.MethodDelete, "/api/activity", "admin-token", nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, float64(12), env.Data.(map[string]any)["deleted"])

	resp, _ = e.json(t, http.MethodDelete, "/api/activity", "company-token", nil)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
}
