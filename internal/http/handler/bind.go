package handler

import (
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"docportal/internal/http/middleware"
	"docportal/internal/model"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	// Report json names so messages match the request body.
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// normalizer folds legacy field aliases into the canonical fields.
type normalizer interface {
	normalize()
}

// bind parses a JSON body into dst, folds aliases and validates it.
func bind(c *fiber.Ctx, dst any) error {
	if err := c.BodyParser(dst); err != nil {
		return badRequest("INVALID_BODY", "malformed request body")
	}
	if n, ok := dst.(normalizer); ok {
		n.normalize()
	}
	return validate.Struct(dst)
}

// idParam returns the :id route parameter, rejecting anything but a UUID.
func idParam(c *fiber.Ctx) (string, error) {
	id := c.Params("id")
	if !isUUID(id) {
		return "", errInvalidID
	}
	return id, nil
}

var errInvalidID = badRequest("INVALID_ID", "invalid id format")

func isUUID(s string) bool {
	_, err := uuid.Parse(s)
	return err == nil
}

func principal(c *fiber.Ctx) *model.Principal {
	return middleware.GetPrincipal(c)
}

// firstNonEmpty returns the canonical value, or the legacy alias when it is empty.
func firstNonEmpty(canonical, alias string) string {
	if canonical != "" {
		return canonical
	}
	return alias
}
