package main

import (
	"strings"

	"github.com/gofiber/contrib/otelfiber"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/helmet"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/swagger"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"docportal/docs"
	"docportal/internal/config"
	handlers "docportal/internal/http/handler"
	"docportal/internal/http/middleware"
)

// newApp wires global middleware, the API routes, /metrics and /swagger.
// reg must also be a prometheus.Gatherer to serve /metrics.
func newApp(cfg *config.AppConfig, deps handlers.Deps, log zerolog.Logger, reg prometheus.Registerer) (*fiber.App, error) {
	app := fiber.New(fiber.Config{
		AppName:      "docportal",
		ErrorHandler: handlers.ErrorHandler(log),
		BodyLimit:    cfg.Upload.BodyLimitMB * 1024 * 1024,
	})

	prom, err := middleware.NewPrometheusMiddleware(reg)
	if err != nil {
		return nil, err
	}

	app.Use(recover.New(recover.Config{EnableStackTrace: cfg.AppEnv == "development"}))
	app.Use(helmet.New())
	app.Use(cors.New(corsConfig(cfg.CORSOrigins)))
	// RequestID middleware adds/propagates X-Request-ID and stores it in context
	app.Use(middleware.RequestID())
	app.Use(otelfiber.Middleware(otelfiber.WithNext(func(c *fiber.Ctx) bool {
		return c.Path() == "/metrics" || c.Path() == "/healthz"
	})))
	app.Use(middleware.Logger(log))
	app.Use(prom.Handler())

	if g, ok := reg.(prometheus.Gatherer); ok {
		app.Get("/metrics", adaptor.HTTPHandler(promhttp.HandlerFor(g, promhttp.HandlerOpts{})))
	}

	handlers.RegisterRoutes(app, deps)

	// Swagger UI with dynamic host and scheme
	app.Get("/swagger/*", func(c *fiber.Ctx) error {
		scheme := c.Protocol()
		if proto := c.Get("X-Forwarded-Proto"); proto != "" {
			scheme = strings.TrimSpace(strings.Split(proto, ",")[0])
		}

		docs.SwaggerInfo.Host = c.Get("Host")
		docs.SwaggerInfo.Schemes = []string{scheme}

		return swagger.HandlerDefault(c)
	})

	return app, nil
}

// corsConfig allows every origin when none are configured.
func corsConfig(origins []string) cors.Config {
	c := cors.Config{
		AllowHeaders:  "Origin, Content-Type, Accept, Authorization, X-Request-ID",
		AllowMethods:  "GET,POST,PUT,DELETE,OPTIONS",
		ExposeHeaders: "X-Request-ID, Content-Disposition",
	}
	if len(origins) == 0 {
		c.AllowOrigins = "*"
	} else {
		c.AllowOrigins = strings.Join(origins, ",")
	}
	return c
}
