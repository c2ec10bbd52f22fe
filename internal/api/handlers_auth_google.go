package api

import (
	"crypto/subtle"
	"errors"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/terraincognita07/budgetplanner/internal/identity"
	"github.com/terraincognita07/budgetplanner/internal/security"
)

const oauthStateTTL = 10 * time.Minute

// GoogleLogin redirects to the provider's consent page with a fresh state
// value that is also kept in a short-lived cookie.
func (handler *Handler) GoogleLogin(c *fiber.Ctx) error {
	if handler.identity == nil {
		return apiError(c, fiber.StatusServiceUnavailable, "oauth_not_configured", "Google login is not configured")
	}

	state, err := security.URLToken(32)
	if err != nil {
		return handler.respondError(c, err)
	}
	handler.setOAuthStateCookie(c, state)
	return c.Redirect(handler.identity.AuthCodeURL(state), fiber.StatusTemporaryRedirect)
}

func (handler *Handler) GoogleCallback(c *fiber.Ctx) error {
	if handler.identity == nil {
		return apiError(c, fiber.StatusServiceUnavailable, "oauth_not_configured", "Google login is not configured")
	}

	expectedState := c.Cookies(oauthStateCookieName)
	handler.clearOAuthStateCookie(c)

	state := strings.TrimSpace(c.Query("state"))
	if expectedState == "" || subtle.ConstantTimeCompare([]byte(state), []byte(expectedState)) != 1 {
		return apiError(c, fiber.StatusBadRequest, "oauth_error", "OAuth state mismatch")
	}
	if providerError := strings.TrimSpace(c.Query("error")); providerError != "" {
		return apiError(c, fiber.StatusBadRequest, "oauth_error", "Provider returned "+providerError)
	}
	code := strings.TrimSpace(c.Query("code"))
	if code == "" {
		return apiError(c, fiber.StatusBadRequest, "oauth_error", "Missing authorization code")
	}

	external, err := handler.identity.Resolve(c.UserContext(), code)
	if err != nil {
		if errors.Is(err, identity.ErrExchangeFailed) || errors.Is(err, identity.ErrProfileFailed) {
			handler.logger.Warn("federated login failed", "provider", handler.identity.Name(), "error", err)
			return apiError(c, fiber.StatusBadRequest, "oauth_error", "Could not complete Google login")
		}
		return handler.respondError(c, err)
	}

	credential, err := handler.auth.FederatedLogin(c.UserContext(), external)
	if err != nil {
		return handler.respondError(c, err)
	}
	return c.JSON(credential)
}

func (handler *Handler) setOAuthStateCookie(c *fiber.Ctx, state string) {
	c.Cookie(&fiber.Cookie{
		Name:     oauthStateCookieName,
		Value:    state,
		Path:     oauthStateCookiePath,
		Expires:  handler.now().Add(oauthStateTTL),
		HTTPOnly: true,
		Secure:   handler.cookieSecure,
		SameSite: "Lax",
	})
}

func (handler *Handler) clearOAuthStateCookie(c *fiber.Ctx) {
	c.Cookie(&fiber.Cookie{
		Name:     oauthStateCookieName,
		Value:    "",
		Path:     oauthStateCookiePath,
		Expires:  time.Unix(0, 0),
		HTTPOnly: true,
		Secure:   handler.cookieSecure,
		SameSite: "Lax",
	})
}
