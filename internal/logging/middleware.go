package logging

import (
	"log/slog"
	"time"

	"github.com/gofiber/fiber/v2"
)

// RequestIDLocalsKey is where the fiber requestid middleware stores the id.
const RequestIDLocalsKey = "requestid"

// RequestLogger logs one record per request once the handler chain returns.
// 4xx responses are logged at warn and 5xx at error.
func RequestLogger(logger *slog.Logger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		started := time.Now()
		chainErr := c.Next()

		status := c.Response().StatusCode()
		if chainErr != nil {
			if fiberErr, ok := chainErr.(*fiber.Error); ok {
				status = fiberErr.Code
			} else {
				status = fiber.StatusInternalServerError
			}
		}

		level := slog.LevelInfo
		switch {
		case status >= 500:
			level = slog.LevelError
		case status >= 400:
			level = slog.LevelWarn
		}

		attrs := []any{
			FieldComponent, "http",
			FieldMethod, c.Method(),
			FieldPath, c.Path(),
			FieldStatusCode, status,
			FieldDuration, time.Since(started).Milliseconds(),
			FieldClientIP, c.IP(),
		}
		if requestID, ok := c.Locals(RequestIDLocalsKey).(string); ok && requestID != "" {
			attrs = append(attrs, FieldRequestID, requestID)
		}
		if chainErr != nil {
			attrs = append(attrs, FieldError, chainErr.Error())
		}

		logger.Log(c.UserContext(), level, "http request completed", attrs...)
		return chainErr
	}
}
