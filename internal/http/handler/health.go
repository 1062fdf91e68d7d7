package handler

import (
	"database/sql"

	"github.com/gofiber/fiber/v2"

	"docportal/internal/database"
)

// HealthCheck godoc
// @Summary Database health check
// @Tags health
// @Produce json
// @Success 200 "OK"
// @Failure 503 "Database unreachable"
// @Router /health [get]
func HealthCheck(db *sql.DB) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if err := database.Ping(c.UserContext(), db); err != nil {
			return writeError(c, fiber.StatusServiceUnavailable, "SERVICE_UNAVAILABLE", "dependency unavailable")
		}
		return c.Status(fiber.StatusOK).JSON(fiber.Map{
			"success": true,
			"status":  "OK",
			"message": "Server is running",
		})
	}
}

// Liveness godoc
// @Summary Liveness check
// @Tags health
// @Produce plain
// @Success 200 "OK"
// @Router /healthz [get]
func Liveness() fiber.Handler {
	return func(c *fiber.Ctx) error {
		return c.SendStatus(fiber.StatusOK)
	}
}
