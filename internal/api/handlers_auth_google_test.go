package api

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/terraincognita07/budgetplanner/internal/identity"
	"github.com/terraincognita07/budgetplanner/internal/services"
)

type stubIdentityProvider struct {
	external identity.ExternalIdentity
	err      error
	codes    []string
}

func (stub *stubIdentityProvider) Name() string {
	return "stub"
}

func (stub *stubIdentityProvider) AuthCodeURL(state string) string {
	return "https://accounts.example.com/auth?state=" + url.QueryEscape(state)
}

func (stub *stubIdentityProvider) Resolve(_ context.Context, code string) (identity.ExternalIdentity, error) {
	stub.codes = append(stub.codes, code)
	if stub.err != nil {
		return identity.ExternalIdentity{}, stub.err
	}
	return stub.external, nil
}

func startGoogleLogin(t *testing.T, env *apiTestEnv) string {
	t.Helper()

	response := env.do(t, http.MethodGet, "/api/auth/google/login", "", nil)
	expectStatus(t, response, http.StatusTemporaryRedirect)

	location, err := url.Parse(response.Header.Get("Location"))
	if err != nil {
		t.Fatalf("parse redirect location: %v", err)
	}
	state := location.Query().Get("state")
	if state == "" {
		t.Fatal("expected state in redirect url")
	}

	var cookieValue string
	for _, cookie := range response.Cookies() {
		if cookie.Name == oauthStateCookieName {
			cookieValue = cookie.Value
			if !cookie.HttpOnly {
				t.Fatal("expected state cookie to be httpOnly")
			}
		}
	}
	if cookieValue != state {
		t.Fatalf("expected state cookie %q to match redirect state %q", cookieValue, state)
	}
	return state
}

func googleCallback(t *testing.T, env *apiTestEnv, cookieState string, queryState string, code string) *http.Response {
	t.Helper()

	path := fmt.Sprintf("/api/auth/google/callback?state=%s&code=%s", url.QueryEscape(queryState), url.QueryEscape(code))
	request := httptest.NewRequest(http.MethodGet, path, nil)
	if cookieState != "" {
		request.AddCookie(&http.Cookie{Name: oauthStateCookieName, Value: cookieState})
	}
	response, err := env.app.Test(request, -1)
	if err != nil {
		t.Fatalf("google callback: %v", err)
	}
	t.Cleanup(func() {
		_ = response.Body.Close()
	})
	return response
}

func TestGoogleLoginCreatesAccountAndIssuesCredential(t *testing.T) {
	provider := &stubIdentityProvider{external: identity.ExternalIdentity{
		Provider:      "stub",
		Subject:       "1234",
		Email:         "Federated@Example.com",
		EmailVerified: true,
	}}
	env := newAPITestEnv(t, func(deps *Dependencies) {
		deps.Identity = provider
	})

	state := startGoogleLogin(t, env)
	response := googleCallback(t, env, state, state, "auth-code")
	expectStatus(t, response, http.StatusOK)

	var credential services.Credential
	decodeJSON(t, response, &credential)
	if credential.AccessToken == "" || credential.TokenType != services.TokenTypeBearer {
		t.Fatalf("unexpected credential %+v", credential)
	}
	if len(provider.codes) != 1 || provider.codes[0] != "auth-code" {
		t.Fatalf("expected provider to receive the code once, got %v", provider.codes)
	}

	me := env.do(t, http.MethodGet, "/api/auth/me", credential.AccessToken, nil)
	expectStatus(t, me, http.StatusOK)
	var current map[string]any
	decodeJSON(t, me, &current)
	if current["email"] != "federated@example.com" {
		t.Fatalf("expected normalized federated email, got %v", current["email"])
	}

	again := googleCallback(t, env, state, state, "second-code")
	expectStatus(t, again, http.StatusOK)
	count, err := env.users.CountUsers()
	if err != nil {
		t.Fatalf("count users: %v", err)
	}
	if count != 1 {
		t.Fatalf("expected federated login to reuse the account, got %d users", count)
	}
}

func TestGoogleCallbackRejectsStateMismatch(t *testing.T) {
	provider := &stubIdentityProvider{external: identity.ExternalIdentity{Email: "x@example.com"}}
	env := newAPITestEnv(t, func(deps *Dependencies) {
		deps.Identity = provider
	})

	missingCookie := googleCallback(t, env, "", "state", "code")
	expectStatus(t, missingCookie, http.StatusBadRequest)

	mismatch := googleCallback(t, env, "expected", "forged", "code")
	expectStatus(t, mismatch, http.StatusBadRequest)
	if payload := readAPIError(t, mismatch); payload.Error != "oauth_error" {
		t.Fatalf("expected oauth_error, got %+v", payload)
	}
	if len(provider.codes) != 0 {
		t.Fatal("expected provider not to be called on state mismatch")
	}
}

func TestGoogleCallbackErrors(t *testing.T) {
	provider := &stubIdentityProvider{}
	env := newAPITestEnv(t, func(deps *Dependencies) {
		deps.Identity = provider
	})

	missingEmail := googleCallback(t, env, "s", "s", "code")
	expectStatus(t, missingEmail, http.StatusBadRequest)
	if payload := readAPIError(t, missingEmail); payload.Error != "missing_email_claim" {
		t.Fatalf("expected missing_email_claim, got %+v", payload)
	}

	provider.err = fmt.Errorf("%w: boom", identity.ErrExchangeFailed)
	exchangeFailed := googleCallback(t, env, "s", "s", "code")
	expectStatus(t, exchangeFailed, http.StatusBadRequest)
	if payload := readAPIError(t, exchangeFailed); payload.Error != "oauth_error" {
		t.Fatalf("expected oauth_error, got %+v", payload)
	}

	provider.err = nil
	provider.external = identity.ExternalIdentity{Email: "disabled@example.com"}
	env.register(t, "disabled@example.com")
	user, err := env.users.FindByNormalizedEmail("disabled@example.com")
	if err != nil {
		t.Fatalf("load user: %v", err)
	}
	if err := env.users.UpdateStatus(user.ID, false, false); err != nil {
		t.Fatalf("deactivate user: %v", err)
	}
	disabled := googleCallback(t, env, "s", "s", "code")
	expectStatus(t, disabled, http.StatusForbidden)
	if payload := readAPIError(t, disabled); payload.Error != "account_disabled" {
		t.Fatalf("expected account_disabled, got %+v", payload)
	}
}

func TestGoogleRoutesUnavailableWithoutProvider(t *testing.T) {
	env := newAPITestEnv(t)

	login := env.do(t, http.MethodGet, "/api/auth/google/login", "", nil)
	expectStatus(t, login, http.StatusServiceUnavailable)

	callback := env.do(t, http.MethodGet, "/api/auth/google/callback?state=a&code=b", "", nil)
	expectStatus(t, callback, http.StatusServiceUnavailable)
}
