package handler

import (
	"github.com/gofiber/fiber/v2"

	"docportal/internal/model"
	"docportal/internal/service"
)

// ListRequests godoc
// @Summary List document requests
// @Tags requests
// @Produce json
// @Success 200 "OK"
// @Security BearerAuth
// @Router /api/requests [get]
func ListRequests(svc service.RequestService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		res, err := svc.List(c.UserContext(), principal(c))
		if err != nil {
			return err
		}
		return writeData(c, fiber.StatusOK, res)
	}
}

// CreateRequest godoc
// @Summary Ask the admin for a document
// @Tags requests
// @Accept json
// @Produce json
// @Success 201 "Created"
// @Security BearerAuth
// @Router /api/requests [post]
func CreateRequest(svc service.RequestService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var req documentRequestRequest
		if err := bind(c, &req); err != nil {
			return err
		}
		res, err := svc.Create(c.UserContext(), principal(c), req.DocType, req.Description)
		if err != nil {
			return err
		}
		return writeData(c, fiber.StatusCreated, res)
	}
}

// UpdateRequest godoc
// @Summary Complete a document request
// @Description A second completion is a 409.
// @Tags requests
// @Accept json
// @Produce json
// @Param id path string true "Request id"
// @Success 200 "OK"
// @Failure 409 "Already completed"
// @Security BearerAuth
// @Router /api/requests/{id} [put]
func UpdateRequest(svc service.RequestService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := idParam(c)
		if err != nil {
			return err
		}
		var req requestStatusRequest
		if err := bind(c, &req); err != nil {
			return err
		}
		res, err := svc.UpdateStatus(c.UserContext(), principal(c), id, model.RequestStatus(req.Status))
		if err != nil {
			return err
		}
		return writeData(c, fiber.StatusOK, res)
	}
}
