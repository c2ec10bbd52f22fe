package api

import (
	"github.com/gofiber/fiber/v2"
	"github.com/terraincognita07/budgetplanner/internal/services"
)

func (handler *Handler) ListTransactions(c *fiber.Ctx) error {
	user, ok := currentUser(c)
	if !ok {
		return handler.respondError(c, services.ErrUnauthenticated)
	}

	query, err := transactionQueryFromRequest(c)
	if err != nil {
		return handler.respondError(c, err)
	}

	transactions, err := handler.ledger.ListTransactions(user.ID, query)
	if err != nil {
		return handler.respondError(c, err)
	}
	return c.JSON(transactions)
}

func transactionQueryFromRequest(c *fiber.Ctx) (services.TransactionQuery, error) {
	categoryID, err := queryUint(c, "category_id")
	if err != nil {
		return services.TransactionQuery{}, err
	}
	skip, err := queryInt(c, "skip")
	if err != nil {
		return services.TransactionQuery{}, err
	}
	limit, err := queryInt(c, "limit")
	if err != nil {
		return services.TransactionQuery{}, err
	}

	return services.TransactionQuery{
		Type:       c.Query("type"),
		CategoryID: categoryID,
		DateFrom:   c.Query("date_from"),
		DateTo:     c.Query("date_to"),
		Search:     c.Query("q"),
		Skip:       intOrZero(skip),
		Limit:      intOrZero(limit),
	}, nil
}

func (handler *Handler) CreateTransaction(c *fiber.Ctx) error {
	user, ok := currentUser(c)
	if !ok {
		return handler.respondError(c, services.ErrUnauthenticated)
	}

	var payload transactionPayload
	if err := parseBody(c, &payload); err != nil {
		return handler.respondError(c, err)
	}
	amount, err := requiredAmount(payload.Amount)
	if err != nil {
		return handler.respondError(c, err)
	}

	transaction, err := handler.ledger.CreateTransaction(user.ID, services.TransactionInput{
		CategoryID:  payload.CategoryID,
		Type:        payload.Type,
		Amount:      amount,
		Description: payload.Description,
		Date:        payload.Date.timePointer(),
		IsPlanned:   payload.IsPlanned,
	})
	if err != nil {
		return handler.respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(transaction)
}

func (handler *Handler) GetTransaction(c *fiber.Ctx) error {
	user, ok := currentUser(c)
	if !ok {
		return handler.respondError(c, services.ErrUnauthenticated)
	}
	transactionID, err := parseIDParam(c)
	if err != nil {
		return handler.respondError(c, err)
	}

	transaction, err := handler.ledger.GetTransaction(user.ID, transactionID)
	if err != nil {
		return handler.respondError(c, err)
	}
	return c.JSON(transaction)
}

func (handler *Handler) UpdateTransaction(c *fiber.Ctx) error {
	user, ok := currentUser(c)
	if !ok {
		return handler.respondError(c, services.ErrUnauthenticated)
	}
	transactionID, err := parseIDParam(c)
	if err != nil {
		return handler.respondError(c, err)
	}

	var payload transactionUpdatePayload
	if err := parseBody(c, &payload); err != nil {
		return handler.respondError(c, err)
	}

	patch := services.TransactionPatch{
		CategoryIDSet: payload.CategoryID.Set,
		CategoryID:    payload.CategoryID.Value,
		Type:          payload.Type,
		Amount:        payload.Amount,
		Date:          payload.Date.timePointer(),
		IsPlanned:     payload.IsPlanned,
	}
	if payload.Description.Set {
		description := ""
		if payload.Description.Value != nil {
			description = *payload.Description.Value
		}
		patch.Description = &description
	}

	transaction, err := handler.ledger.UpdateTransaction(user.ID, transactionID, patch)
	if err != nil {
		return handler.respondError(c, err)
	}
	return c.JSON(transaction)
}

func (handler *Handler) DeleteTransaction(c *fiber.Ctx) error {
	user, ok := currentUser(c)
	if !ok {
		return handler.respondError(c, services.ErrUnauthenticated)
	}
	transactionID, err := parseIDParam(c)
	if err != nil {
		return handler.respondError(c, err)
	}

	if err := handler.ledger.DeleteTransaction(user.ID, transactionID); err != nil {
		return handler.respondError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}
