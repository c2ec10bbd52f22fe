package api

import (
	"github.com/gofiber/fiber/v2"
	"github.com/terraincognita07/budgetplanner/internal/services"
)

func (handler *Handler) SuperuserOnly(c *fiber.Ctx) error {
	user, ok := currentUser(c)
	if !ok {
		return handler.respondError(c, services.ErrUnauthenticated)
	}
	if !user.IsSuperuser {
		return handler.respondError(c, services.ErrForbidden)
	}
	return c.Next()
}
