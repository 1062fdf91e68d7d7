package handler

import (
	"github.com/gofiber/fiber/v2"

	"docportal/internal/service"
)

// ListActivity godoc
// @Summary List the newest activity entries
// @Tags activity
// @Produce json
// @Param limit query int false "At most 100"
// @Param action query string false "Filter by action"
// @Success 200 "OK"
// @Security BearerAuth
// @Router /api/activity [get]
func ListActivity(svc service.ActivityService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		limit := c.QueryInt("limit", 0)
		res, err := svc.List(c.UserContext(), principal(c), limit, c.Query("action"))
		if err != nil {
			return err
		}
		return writeData(c, fiber.StatusOK, res)
	}
}

// ClearActivity godoc
// @Summary Clear the activity log
// @Tags activity
// @Produce json
// @Success 200 "OK"
// @Security BearerAuth
// @Router /api/activity [delete]
func ClearActivity(svc service.ActivityService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		n, err := svc.Clear(c.UserContext(), principal(c))
		if err != nil {
			return err
		}
		return writeData(c, fiber.StatusOK, fiber.Map{"deleted": n})
	}
}
