package api

import (
	"github.com/gofiber/fiber/v2"
	"github.com/terraincognita07/budgetplanner/internal/services"
)

func (handler *Handler) ListCategories(c *fiber.Ctx) error {
	user, ok := currentUser(c)
	if !ok {
		return handler.respondError(c, services.ErrUnauthenticated)
	}

	categories, err := handler.ledger.ListCategories(user.ID)
	if err != nil {
		return handler.respondError(c, err)
	}
	return c.JSON(categories)
}

func (handler *Handler) CreateCategory(c *fiber.Ctx) error {
	user, ok := currentUser(c)
	if !ok {
		return handler.respondError(c, services.ErrUnauthenticated)
	}

	var payload categoryPayload
	if err := parseBody(c, &payload); err != nil {
		return handler.respondError(c, err)
	}

	category, err := handler.ledger.CreateCategory(user.ID, services.CategoryInput{
		Name:  payload.Name,
		Color: payload.Color,
	})
	if err != nil {
		return handler.respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(category)
}

func (handler *Handler) GetCategory(c *fiber.Ctx) error {
	user, ok := currentUser(c)
	if !ok {
		return handler.respondError(c, services.ErrUnauthenticated)
	}
	categoryID, err := parseIDParam(c)
	if err != nil {
		return handler.respondError(c, err)
	}

	category, err := handler.ledger.GetCategory(user.ID, categoryID)
	if err != nil {
		return handler.respondError(c, err)
	}
	return c.JSON(category)
}

func (handler *Handler) UpdateCategory(c *fiber.Ctx) error {
	user, ok := currentUser(c)
	if !ok {
		return handler.respondError(c, services.ErrUnauthenticated)
	}
	categoryID, err := parseIDParam(c)
	if err != nil {
		return handler.respondError(c, err)
	}

	var payload categoryUpdatePayload
	if err := parseBody(c, &payload); err != nil {
		return handler.respondError(c, err)
	}

	patch := services.CategoryPatch{Name: payload.Name}
	if payload.Color.Set {
		color := ""
		if payload.Color.Value != nil {
			color = *payload.Color.Value
		}
		patch.Color = &color
	}

	category, err := handler.ledger.UpdateCategory(user.ID, categoryID, patch)
	if err != nil {
		return handler.respondError(c, err)
	}
	return c.JSON(category)
}

func (handler *Handler) DeleteCategory(c *fiber.Ctx) error {
	user, ok := currentUser(c)
	if !ok {
		return handler.respondError(c, services.ErrUnauthenticated)
	}
	categoryID, err := parseIDParam(c)
	if err != nil {
		return handler.respondError(c, err)
	}

	if err := handler.ledger.DeleteCategory(user.ID, categoryID); err != nil {
		return handler.respondError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}
