package api

import (
	"errors"
	"log/slog"

	"github.com/gofiber/fiber/v2"
	"github.com/terraincognita07/budgetplanner/internal/services"
)

type errorResponse struct {
	Error  string `json:"error"`
	Detail string `json:"detail"`
}

func statusForKind(kind string) int {
	switch kind {
	case services.KindNotFound:
		return fiber.StatusNotFound
	case services.KindValidation, services.KindDomain, services.KindConflict:
		return fiber.StatusBadRequest
	case services.KindAuthentication:
		return fiber.StatusUnauthorized
	case services.KindForbidden:
		return fiber.StatusForbidden
	default:
		return fiber.StatusInternalServerError
	}
}

// respondError writes the JSON error body for err. Unclassified errors are
// logged and reported as a generic internal error.
func (handler *Handler) respondError(c *fiber.Ctx, err error) error {
	classified := services.Classify(err)
	status := statusForKind(classified.Kind)

	if status == fiber.StatusInternalServerError {
		handler.logger.Error("request failed",
			slog.String("method", c.Method()),
			slog.String("path", c.Path()),
			slog.Any("error", err),
		)
	}
	if status == fiber.StatusUnauthorized {
		c.Set(fiber.HeaderWWWAuthenticate, "Bearer")
	}
	return apiError(c, status, classified.Code, classified.Message)
}

func apiError(c *fiber.Ctx, status int, code string, detail string) error {
	return c.Status(status).JSON(errorResponse{Error: code, Detail: detail})
}

// ErrorHandler is installed as the fiber error handler. It covers errors that
// never reach a handler, such as unknown routes and recovered panics.
func (handler *Handler) ErrorHandler(c *fiber.Ctx, err error) error {
	var fiberErr *fiber.Error
	if errors.As(err, &fiberErr) {
		switch fiberErr.Code {
		case fiber.StatusNotFound:
			return apiError(c, fiberErr.Code, services.ErrNotFound.Code, fiberErr.Message)
		case fiber.StatusMethodNotAllowed:
			return apiError(c, fiberErr.Code, "method_not_allowed", fiberErr.Message)
		}
		if fiberErr.Code < fiber.StatusInternalServerError {
			return apiError(c, fiberErr.Code, services.ErrValidation.Code, fiberErr.Message)
		}
	}
	return handler.respondError(c, err)
}

func (handler *Handler) NotFound(c *fiber.Ctx) error {
	return apiError(c, fiber.StatusNotFound, services.ErrNotFound.Code, "Not Found")
}
