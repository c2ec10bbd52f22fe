package api

import (
	"github.com/gofiber/fiber/v2"
	"github.com/terraincognita07/budgetplanner/internal/services"
)

func (handler *Handler) SeedDemo(c *fiber.Ctx) error {
	user, ok := currentUser(c)
	if !ok {
		return handler.respondError(c, services.ErrUnauthenticated)
	}

	result, err := handler.demo.SeedDemo(user.ID)
	if err != nil {
		return handler.respondError(c, err)
	}
	handler.logger.Info("demo data seeded",
		"user_id", user.ID,
		"categories_created", result.CategoriesCreated,
		"transactions_created", result.TransactionsCreated,
	)
	return c.JSON(result)
}

func (handler *Handler) ClearLedger(c *fiber.Ctx) error {
	user, ok := currentUser(c)
	if !ok {
		return handler.respondError(c, services.ErrUnauthenticated)
	}

	result, err := handler.ledger.ClearAll(user.ID)
	if err != nil {
		return handler.respondError(c, err)
	}
	handler.logger.Info("ledger cleared", "user_id", user.ID)
	return c.JSON(result)
}
