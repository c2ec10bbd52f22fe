package api

import (
	"github.com/gofiber/fiber/v2"
	"github.com/terraincognita07/budgetplanner/internal/services"
)

func (handler *Handler) BalanceReport(c *fiber.Ctx) error {
	user, ok := currentUser(c)
	if !ok {
		return handler.respondError(c, services.ErrUnauthenticated)
	}

	balance, err := handler.reports.Balance(user.ID)
	if err != nil {
		return handler.respondError(c, err)
	}
	return c.JSON(balance)
}

func (handler *Handler) MonthlyReport(c *fiber.Ctx) error {
	user, ok := currentUser(c)
	if !ok {
		return handler.respondError(c, services.ErrUnauthenticated)
	}
	year, err := queryInt(c, "year")
	if err != nil {
		return handler.respondError(c, err)
	}
	month, err := queryInt(c, "month")
	if err != nil {
		return handler.respondError(c, err)
	}

	report, err := handler.reports.Monthly(user.ID, year, month)
	if err != nil {
		return handler.respondError(c, err)
	}
	return c.JSON(report)
}

func (handler *Handler) CategoryReport(c *fiber.Ctx) error {
	user, ok := currentUser(c)
	if !ok {
		return handler.respondError(c, services.ErrUnauthenticated)
	}

	rows, err := handler.reports.ByCategory(user.ID)
	if err != nil {
		return handler.respondError(c, err)
	}
	return c.JSON(rows)
}
