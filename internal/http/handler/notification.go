package handler

import (
	"github.com/gofiber/fiber/v2"

	"docportal/internal/service"
)

// ListNotifications godoc
// @Summary List notifications
// @Tags notifications
// @Produce json
// @Success 200 "OK"
// @Security BearerAuth
// @Router /api/notifications [get]
func ListNotifications(svc service.NotificationService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		res, err := svc.List(c.UserContext(), principal(c))
		if err != nil {
			return err
		}
		return writeData(c, fiber.StatusOK, res)
	}
}

// SendNotification godoc
// @Summary Send a notification to one company, or to all when company_id is empty
// @Tags notifications
// @Accept json
// @Produce json
// @Success 201 "Created"
// @Security BearerAuth
// @Router /api/notifications [post]
func SendNotification(svc service.NotificationService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var req notificationRequest
		if err := bind(c, &req); err != nil {
			return err
		}
		res, err := svc.Send(c.UserContext(), principal(c), service.NotificationInput{
			CompanyID: req.CompanyID,
			Subject:   req.Subject,
			Message:   req.Message,
		})
		if err != nil {
			return err
		}
		return writeData(c, fiber.StatusCreated, res)
	}
}

// MarkNotificationRead godoc
// @Summary Acknowledge one notification
// @Tags notifications
// @Produce json
// @Param id path string true "Notification id"
// @Success 200 "OK"
// @Failure 404 "Not found"
// @Security BearerAuth
// @Router /api/notifications/{id}/read [post]
func MarkNotificationRead(svc service.NotificationService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := idParam(c)
		if err != nil {
			return err
		}
		res, err := svc.MarkRead(c.UserContext(), principal(c), id)
		if err != nil {
			return err
		}
		return writeData(c, fiber.StatusOK, res)
	}
}

// MarkAllNotificationsRead godoc
// @Summary Acknowledge every unread notification
// @Tags notifications
// @Produce json
// @Success 200 "OK"
// @Security BearerAuth
// @Router /api/notifications/read-all [post]
func MarkAllNotificationsRead(svc service.NotificationService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		n, err := svc.MarkAllRead(c.UserContext(), principal(c))
		if err != nil {
			return err
		}
		return writeData(c, fiber.StatusOK, fiber.Map{"updated": n})
	}
}
