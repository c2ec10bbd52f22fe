package api

import (
	"github.com/gofiber/fiber/v2"
	"github.com/terraincognita07/budgetplanner/internal/models"
)

const (
	oauthStateCookieName = "budget_oauth_state"
	oauthStateCookiePath = "/api/auth/google"
	contextUserKey       = "current_user"
)

func currentUser(c *fiber.Ctx) (*models.User, bool) {
	user, ok := c.Locals(contextUserKey).(*models.User)
	return user, ok
}
