package handler

import (
	"bytes"

	"github.com/gofiber/fiber/v2"

	"docportal/internal/service"
)

// ListCompanies godoc
// @Summary List companies with their file counts
// @Tags companies
// @Produce json
// @Success 200 "OK"
// @Security BearerAuth
// @Router /api/companies [get]
func ListCompanies(svc service.CompanyService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		res, err := svc.List(c.UserContext(), principal(c))
		if err != nil {
			return err
		}
		return writeData(c, fiber.StatusOK, res)
	}
}

// ExportCompanies godoc
// @Summary Download every company as CSV
// @Tags companies
// @Produce text/csv
// @Success 200 "OK"
// @Security BearerAuth
// @Router /api/companies/export [get]
func ExportCompanies(svc service.CompanyService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		// Buffered so a failure can still be reported as JSON.
		var buf bytes.Buffer
		if err := svc.Export(c.UserContext(), principal(c), &buf); err != nil {
			return err
		}
		c.Set(fiber.HeaderContentType, "text/csv; charset=utf-8")
		c.Set(fiber.HeaderContentDisposition, `attachment; filename="companies.csv"`)
		return c.Status(fiber.StatusOK).Send(buf.Bytes())
	}
}

// GetCompany godoc
// @Summary Get a company
// @Tags companies
// @Produce json
// @Param id path string true "Company id"
// @Success 200 "OK"
// @Failure 404 "Not found"
// @Security BearerAuth
// @Router /api/companies/{id} [get]
func GetCompany(svc service.CompanyService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := idParam(c)
		if err != nil {
			return err
		}
		res, err := svc.Get(c.UserContext(), principal(c), id)
		if err != nil {
			return err
		}
		return writeData(c, fiber.StatusOK, res)
	}
}

// CreateCompany godoc
// @Summary Create a company account
// @Tags companies
// @Accept json
// @Produce json
// @Success 201 "Created"
// @Failure 409 "Email already in use"
// @Security BearerAuth
// @Router /api/companies [post]
func CreateCompany(svc service.CompanyService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var req companyRequest
		if err := bind(c, &req); err != nil {
			return err
		}
		res, err := svc.Create(c.UserContext(), principal(c), service.CompanyInput{
			Name:     req.Name,
			Email:    req.Email,
			Password: req.Password,
			Phone:    req.Phone,
		})
		if err != nil {
			return err
		}
		return writeData(c, fiber.StatusCreated, res)
	}
}

// UpdateCompany godoc
// @Summary Update a company
// @Tags companies
// @Accept json
// @Produce json
// @Param id path string true "Company id"
// @Success 200 "OK"
// @Failure 404 "Not found"
// @Security BearerAuth
// @Router /api/companies/{id} [put]
func UpdateCompany(svc service.CompanyService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := idParam(c)
		if err != nil {
			return err
		}
		var req companyUpdateRequest
		if err := bind(c, &req); err != nil {
			return err
		}
		res, err := svc.Update(c.UserContext(), principal(c), id, service.CompanyUpdate{
			Name:     req.Name,
			Email:    req.Email,
			Phone:    req.Phone,
			Password: req.Password,
		})
		if err != nil {
			return err
		}
		return writeData(c, fiber.StatusOK, res)
	}
}

// DeleteCompany godoc
// @Summary Delete a company and everything it owns
// @Tags companies
// @Produce json
// @Param id path string true "Company id"
// @Success 200 "OK"
// @Failure 404 "Not found"
// @Security BearerAuth
// @Router /api/companies/{id} [delete]
func DeleteCompany(svc service.CompanyService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := idParam(c)
		if err != nil {
			return err
		}
		if err := svc.Delete(c.UserContext(), principal(c), id); err != nil {
			return err
		}
		return writeMessage(c, fiber.StatusOK, "Company deleted")
	}
}
