package middleware

import (
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel/trace"
)

// Logger writes one structured line per request:
// request_id, method, path, status and latency in milliseconds, plus the
// trace id when otelfiber started a span.
// 5xx responses log at error level, 4xx at warn.
func Logger(logger zerolog.Logger) fiber.Handler {
	l := logger.With().Str("component", "http").Logger()

	return func(c *fiber.Ctx) error {
		start := time.Now()

		err := c.Next()

		status := statusOf(c, err)
		ev := l.Info()
		switch {
		case status >= fiber.StatusInternalServerError:
			ev = l.Error()
		case status >= fiber.StatusBadRequest:
			ev = l.Warn()
		}
		if p := GetPrincipal(c); p != nil {
			ev = ev.Str("user", p.Email)
		}
		if sc := trace.SpanContextFromContext(c.UserContext()); sc.HasTraceID() {
			ev = ev.Str("trace_id", sc.TraceID().String())
		}

		ev.Str("request_id", GetRequestID(c)).
			Str("method", c.Method()).
			Str("path", c.Path()).
			Int("status", status).
			Float64("latency", float64(time.Since(start).Microseconds())/1000).
			Msg("request")

		return err
	}
}

// statusOf reports the status the error handler will send for err.
func statusOf(c *fiber.Ctx, err error) int {
	if err == nil {
		return c.Response().StatusCode()
	}
	var fe *fiber.Error
	if errors.As(err, &fe) {
		return fe.Code
	}
	return fiber.StatusInternalServerError
}
