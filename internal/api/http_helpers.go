package api

import (
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/terraincognita07/budgetplanner/internal/services"
)

func parseBody(c *fiber.Ctx, out any) error {
	if err := c.BodyParser(out); err != nil {
		return bodyError(err)
	}
	return nil
}

func parseIDParam(c *fiber.Ctx) (uint, error) {
	raw := strings.TrimSpace(c.Params("id"))
	value, err := strconv.ParseUint(raw, 10, 0)
	if err != nil || value == 0 {
		return 0, &services.FieldError{Field: "id", Message: "must be a positive integer"}
	}
	return uint(value), nil
}

func queryInt(c *fiber.Ctx, name string) (*int, error) {
	raw := strings.TrimSpace(c.Query(name))
	if raw == "" {
		return nil, nil
	}
	value, err := strconv.Atoi(raw)
	if err != nil {
		return nil, &services.FieldError{Field: name, Message: "must be an integer"}
	}
	return &value, nil
}

func queryUint(c *fiber.Ctx, name string) (*uint, error) {
	raw := strings.TrimSpace(c.Query(name))
	if raw == "" {
		return nil, nil
	}
	value, err := strconv.ParseUint(raw, 10, 0)
	if err != nil {
		return nil, &services.FieldError{Field: name, Message: "must be a non-negative integer"}
	}
	parsed := uint(value)
	return &parsed, nil
}

func intOrZero(value *int) int {
	if value == nil {
		return 0
	}
	return *value
}
