package api

import (
	"errors"
	"strconv"

	"github.com/gofiber/fiber/v2"
	"github.com/terraincognita07/budgetplanner/internal/services"
)

func (handler *Handler) Register(c *fiber.Ctx) error {
	var input credentialsInput
	if err := parseBody(c, &input); err != nil {
		return handler.respondError(c, err)
	}

	user, err := handler.auth.Register(input.Email, input.Password)
	if err != nil {
		return handler.respondError(c, err)
	}
	handler.logger.Info("user registered", "user_id", user.ID)
	return c.Status(fiber.StatusCreated).JSON(user)
}

// Login accepts an OAuth2 password form or a JSON body. Repeated failures
// from one client for one email are throttled.
func (handler *Handler) Login(c *fiber.Ctx) error {
	var input loginInput
	if err := parseBody(c, &input); err != nil {
		return handler.respondError(c, err)
	}

	login := input.login()
	throttleKey := loginThrottleKey(c, login)
	now := handler.now()
	if blocked, wait := handler.loginThrottle.blocked(throttleKey, now); blocked {
		c.Set(fiber.HeaderRetryAfter, strconv.Itoa(retryAfterSeconds(wait)))
		return apiError(c, fiber.StatusTooManyRequests, "too_many_attempts", "Too many login attempts, try again later")
	}

	credential, err := handler.auth.Login(login, input.Password)
	if err != nil {
		if errors.Is(err, services.ErrInvalidCredentials) {
			handler.loginThrottle.recordFailure(throttleKey, now)
		}
		return handler.respondError(c, err)
	}

	handler.loginThrottle.clear(throttleKey)
	return c.JSON(credential)
}

func (handler *Handler) Me(c *fiber.Ctx) error {
	user, ok := currentUser(c)
	if !ok {
		return handler.respondError(c, services.ErrUnauthenticated)
	}
	return c.JSON(user)
}
