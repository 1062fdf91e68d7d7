package handler

import (
	"github.com/gofiber/fiber/v2"

	"docportal/internal/service"
)

// Login godoc
// @Summary Log in as the admin or a company
// @Tags auth
// @Accept json
// @Produce json
// @Success 200 "OK"
// @Failure 401 "Invalid credentials"
// @Router /api/auth/login [post]
func Login(svc service.AuthService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var req loginRequest
		if err := bind(c, &req); err != nil {
			return err
		}
		res, err := svc.Login(c.UserContext(), req.Email, req.Password)
		if err != nil {
			return err
		}
		return writeData(c, fiber.StatusOK, res)
	}
}

// Logout godoc
// @Summary Record a logout
// @Description The token stays valid until it expires.
// @Tags auth
// @Produce json
// @Success 200 "OK"
// @Security BearerAuth
// @Router /api/auth/logout [post]
func Logout(svc service.AuthService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if err := svc.Logout(c.UserContext(), principal(c)); err != nil {
			return err
		}
		return writeMessage(c, fiber.StatusOK, "Logged out")
	}
}

// ChangePassword godoc
// @Summary Change the calling company's password
// @Tags auth
// @Accept json
// @Produce json
// @Success 200 "OK"
// @Failure 400 "Validation error"
// @Failure 401 "Wrong current password"
// @Security BearerAuth
// @Router /api/auth/change-password [post]
func ChangePassword(svc service.AuthService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var req changePasswordRequest
		if err := bind(c, &req); err != nil {
			return err
		}
		if err := svc.ChangePassword(c.UserContext(), principal(c), req.CurrentPassword, req.NewPassword); err != nil {
			return err
		}
		return writeMessage(c, fiber.StatusOK, "Password updated")
	}
}
