package api

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/terraincognita07/budgetplanner/internal/db"
	"github.com/terraincognita07/budgetplanner/internal/logging"
	"github.com/terraincognita07/budgetplanner/internal/services"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

const (
	testSecretKey = "0123456789abcdef0123456789abcdef"
	testPassword  = "Passw0rd!"
)

type apiTestEnv struct {
	app      *fiber.App
	database *gorm.DB
	users    *db.UserRepository
	tokens   *services.TokenCodec
}

func newAPITestEnv(t *testing.T, configure ...func(*Dependencies)) *apiTestEnv {
	t.Helper()

	databasePath := filepath.Join(t.TempDir(), "budget-api-test.db")
	database, err := db.OpenAndMigrate(databasePath, logging.Discard())
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	sqlDB, err := database.DB()
	if err != nil {
		t.Fatalf("open sql db: %v", err)
	}
	t.Cleanup(func() {
		_ = sqlDB.Close()
	})

	tokens := services.NewTokenCodec([]byte(testSecretKey), time.Hour)
	deps := ServiceDependencies(database, tokens)
	deps.Auth.WithHashCost(bcrypt.MinCost)
	deps.Logger = logging.Discard()
	deps.DebugRoutes = true
	for _, apply := range configure {
		apply(&deps)
	}

	handler, err := NewHandler(deps)
	if err != nil {
		t.Fatalf("init handler: %v", err)
	}

	app := fiber.New(fiber.Config{ErrorHandler: handler.ErrorHandler})
	app.Use(recover.New())
	RegisterRoutes(app, handler)
	app.Use(handler.NotFound)

	return &apiTestEnv{
		app:      app,
		database: database,
		users:    db.NewUserRepository(database),
		tokens:   tokens,
	}
}

// do sends body as JSON unless it is already a string, in which case it is
// sent as an urlencoded form.
func (env *apiTestEnv) do(t *testing.T, method string, path string, token string, body any) *http.Response {
	t.Helper()

	var reader io.Reader
	contentType := ""
	switch value := body.(type) {
	case nil:
	case string:
		reader = strings.NewReader(value)
		contentType = fiber.MIMEApplicationForm
	default:
		encoded, err := json.Marshal(value)
		if err != nil {
			t.Fatalf("encode request body: %v", err)
		}
		reader = bytes.NewReader(encoded)
		contentType = fiber.MIMEApplicationJSON
	}

	request := httptest.NewRequest(method, path, reader)
	if contentType != "" {
		request.Header.Set(fiber.HeaderContentType, contentType)
	}
	if token != "" {
		request.Header.Set(fiber.HeaderAuthorization, "Bearer "+token)
	}

	response, err := env.app.Test(request, -1)
	if err != nil {
		t.Fatalf("%s %s: %v", method, path, err)
	}
	t.Cleanup(func() {
		_ = response.Body.Close()
	})
	return response
}

func (env *apiTestEnv) register(t *testing.T, email string) {
	t.Helper()

	response := env.do(t, http.MethodPost, "/api/auth/register", "", map[string]string{
		"email":    email,
		"password": testPassword,
	})
	expectStatus(t, response, http.StatusCreated)
}

func (env *apiTestEnv) login(t *testing.T, email string) string {
	t.Helper()

	response := env.do(t, http.MethodPost, "/api/auth/login", "", "username="+email+"&password="+testPassword)
	expectStatus(t, response, http.StatusOK)

	var credential services.Credential
	decodeJSON(t, response, &credential)
	if credential.AccessToken == "" || credential.TokenType != services.TokenTypeBearer {
		t.Fatalf("unexpected credential %+v", credential)
	}
	return credential.AccessToken
}

func (env *apiTestEnv) registerAndLogin(t *testing.T, email string) string {
	t.Helper()

	env.register(t, email)
	return env.login(t, email)
}

func expectStatus(t *testing.T, response *http.Response, status int) {
	t.Helper()

	if response.StatusCode != status {
		body, _ := io.ReadAll(response.Body)
		t.Fatalf("expected status %d, got %d: %s", status, response.StatusCode, body)
	}
}

func decodeJSON(t *testing.T, response *http.Response, out any) {
	t.Helper()

	body, err := io.ReadAll(response.Body)
	if err != nil {
		t.Fatalf("read response body: %v", err)
	}
	if err := json.Unmarshal(body, out); err != nil {
		t.Fatalf("decode response body %q: %v", body, err)
	}
}

func readAPIError(t *testing.T, response *http.Response) errorResponse {
	t.Helper()

	var payload errorResponse
	decodeJSON(t, response, &payload)
	return payload
}

type categoryView struct {
	ID    uint    `json:"id"`
	Name  string  `json:"name"`
	Color *string `json:"color"`
}

type transactionView struct {
	ID          uint    `json:"id"`
	CategoryID  *uint   `json:"category_id"`
	Type        string  `json:"type"`
	Amount      string  `json:"amount"`
	Description *string `json:"description"`
	Date        string  `json:"date"`
	IsPlanned   bool    `json:"is_planned"`
}

type totalsView struct {
	Year    int    `json:"year"`
	Month   int    `json:"month"`
	Income  string `json:"income"`
	Expense string `json:"expense"`
	Net     string `json:"net"`
}

type categoryReportView struct {
	CategoryID   *uint  `json:"category_id"`
	CategoryName string `json:"category_name"`
	Income       string `json:"income"`
	Expense      string `json:"expense"`
	Total        string `json:"total"`
}

func (env *apiTestEnv) createCategory(t *testing.T, token string, name string) categoryView {
	t.Helper()

	response := env.do(t, http.MethodPost, "/api/categories", token, map[string]any{"name": name})
	expectStatus(t, response, http.StatusCreated)
	var category categoryView
	decodeJSON(t, response, &category)
	return category
}

func (env *apiTestEnv) createTransaction(t *testing.T, token string, payload map[string]any) transactionView {
	t.Helper()

	response := env.do(t, http.MethodPost, "/api/transactions", token, payload)
	expectStatus(t, response, http.StatusCreated)
	var transaction transactionView
	decodeJSON(t, response, &transaction)
	return transaction
}
