package middleware

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"docportal/internal/model"
)

func TestRequestID(t *testing.T) {
	app := fiber.New()
	app.Use(RequestID())

	app.Get("/test", func(c *fiber.Ctx) error {
		return c.SendString(GetRequestID(c))
	})

	t.Run("should generate new request id if not present", func(t *testing.T) {
		req := httptest.NewRequest("GET", "/test", nil)
		resp, _ := app.Test(req)

		assert.Equal(t, fiber.StatusOK, resp.StatusCode)

		ridHeader := resp.Header.Get(RequestIDHeader)
		assert.NotEmpty(t, ridHeader)

		body, _ := io.ReadAll(resp.Body)
		assert.Equal(t, ridHeader, string(body))
	})

	t.Run("should preserve existing request id", func(t *testing.T) {
		existingID := "test-id-123"
		req := httptest.NewRequest("GET", "/test", nil)
		req.Header.Set(RequestIDHeader, existingID)

		resp, _ := app.Test(req)

		assert.Equal(t, existingID, resp.Header.Get(RequestIDHeader))
		body, _ := io.ReadAll(resp.Body)
		assert.Equal(t, existingID, string(body))
	})

	t.Run("should replace oversized request id", func(t *testing.T) {
		req := httptest.NewRequest("GET", "/test", nil)
		req.Header.Set(RequestIDHeader, strings.Repeat("a", 200))

		resp, _ := app.Test(req)

		rid := resp.Header.Get(RequestIDHeader)
		assert.Len(t, rid, 36)
	})
}

func TestLogger(t *testing.T) {
	var buf bytes.Buffer
	app := fiber.New()

	app.Use(RequestID())
	app.Use(Logger(zerolog.New(&buf).With().Timestamp().Logger()))

	app.Get("/test", func(c *fiber.Ctx) error {
		return c.SendStatus(fiber.StatusAccepted)
	})
	app.Get("/missing", func(c *fiber.Ctx) error {
		return fiber.NewError(fiber.StatusNotFound, "nope")
	})

	t.Run("success line", func(t *testing.T) {
		buf.Reset()
		resp, _ := app.Test(httptest.NewRequest("GET", "/test", nil))
		assert.Equal(t, fiber.StatusAccepted, resp.StatusCode)

		var logData map[string]any
		require.NoError(t, json.Unmarshal(buf.Bytes(), &logData))

		assert.NotEmpty(t, logData["request_id"])
		assert.Equal(t, "GET", logData["method"])
		assert.Equal(t, "/test", logData["path"])
		assert.Equal(t, float64(fiber.StatusAccepted), logData["status"])
		assert.Equal(t, "info", logData["level"])
		assert.NotNil(t, logData["latency"])
		assert.NotEmpty(t, logData["time"])
	})

	t.Run("error status comes from the returned error", func(t *testing.T) {
		buf.Reset()
		app.Test(httptest.NewRequest("GET", "/missing", nil))

		var logData map[string]any
		require.NoError(t, json.Unmarshal(buf.Bytes(), &logData))
		assert.Equal(t, float64(fiber.StatusNotFound), logData["status"])
		assert.Equal(t, "warn", logData["level"])
	})
}

type stubVerifier struct {
	p   *model.Principal
	err error
}

func (s stubVerifier) Authenticate(string) (*model.Principal, error) { return s.p, s.err }

func TestAuthenticate(t *testing.T) {
	company := &model.Principal{Subject: "c1", Role: model.RoleCompany, CompanyID: "c1", Email: "c@acme.com"}

	newApp := func(v TokenVerifier) *fiber.App {
		app := fiber.New()
		app.Use(Authenticate(v))
		app.Get("/me", RequireRole(model.RoleCompany), func(c *fiber.Ctx) error {
			return c.SendString(GetPrincipal(c).CompanyID)
		})
		app.Get("/admin", RequireRole(model.RoleAdmin), func(c *fiber.Ctx) error {
			return c.SendStatus(fiber.StatusOK)
		})
		return app
	}

	t.Run("valid token", func(t *testing.T) {
		req := httptest.NewRequest("GET", "/me", nil)
		req.Header.Set("Authorization", "Bearer good")
		resp, _ := newApp(stubVerifier{p: company}).Test(req)

		assert.Equal(t, fiber.StatusOK, resp.StatusCode)
		body, _ := io.ReadAll(resp.Body)
		assert.Equal(t, "c1", string(body))
	})

	t.Run("missing header", func(t *testing.T) {
		resp, _ := newApp(stubVerifier{p: company}).Test(httptest.NewRequest("GET", "/me", nil))
		assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
	})

	t.Run("wrong scheme", func(t *testing.T) {
		req := httptest.NewRequest("GET", "/me", nil)
		req.Header.Set("Authorization", "Basic Zm9vOmJhcg==")
		resp, _ := newApp(stubVerifier{p: company}).Test(req)
		assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
	})

	t.Run("rejected token", func(t *testing.T) {
		req := httptest.NewRequest("GET", "/me", nil)
		req.Header.Set("Authorization", "Bearer bad")
		resp, _ := newApp(stubVerifier{err: errors.New("expired")}).Test(req)
		assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
	})

	t.Run("wrong role", func(t *testing.T) {
		req := httptest.NewRequest("GET", "/admin", nil)
		req.Header.Set("Authorization", "bearer good")
		resp, _ := newApp(stubVerifier{p: company}).Test(req)
		assert.Equal(t, fiber.StatusForbidden, resp.StatusCode)
	})
}

func TestRequireRoleWithoutPrincipal(t *testing.T) {
	app := fiber.New()
	app.Get("/x", RequireRole(model.RoleAdmin), func(c *fiber.Ctx) error { return nil })

	resp, _ := app.Test(httptest.NewRequest("GET", "/x", nil))
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
}

func TestRateLimit(t *testing.T) {
	app := fiber.New()
	app.Use(RateLimit(RateLimitConfig{Max: 2, Window: time.Minute}))
	app.Get("/x", func(c *fiber.Ctx) error { return c.SendStatus(fiber.StatusOK) })

	for i := 0; i < 2; i++ {
		resp, err := app.Test(httptest.NewRequest("GET", "/x", nil))
		require.NoError(t, err)
		assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	}

	resp, err := app.Test(httptest.NewRequest("GET", "/x", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusTooManyRequests, resp.StatusCode)
}
