package api

import (
	"log/slog"
	"time"

	"github.com/terraincognita07/budgetplanner/internal/identity"
	"github.com/terraincognita07/budgetplanner/internal/services"
)

const (
	defaultLoginAttemptsLimit  = 8
	defaultLoginAttemptsWindow = 15 * time.Minute
)

type Handler struct {
	auth    *services.AuthService
	ledger  *services.LedgerService
	reports *services.ReportService
	demo    *services.DemoService

	identity     identity.Provider
	logger       *slog.Logger
	cookieSecure bool
	debugRoutes  bool

	loginThrottle *loginThrottle
	now           func() time.Time
}

// Dependencies lists everything a Handler needs. Identity may be nil, which
// disables federated login.
type Dependencies struct {
	Auth    *services.AuthService
	Ledger  *services.LedgerService
	Reports *services.ReportService
	Demo    *services.DemoService

	Identity identity.Provider
	Logger   *slog.Logger

	CookieSecure        bool
	DebugRoutes         bool
	LoginAttemptsLimit  int
	LoginAttemptsWindow time.Duration
}
