package api

import "github.com/gofiber/fiber/v2"

func (handler *Handler) CountUsers(c *fiber.Ctx) error {
	count, err := handler.auth.CountUsers()
	if err != nil {
		return handler.respondError(c, err)
	}
	return c.JSON(fiber.Map{"count": count})
}
