package api

import (
	"errors"
	"log/slog"
	"time"

	"github.com/terraincognita07/budgetplanner/internal/db"
	"github.com/terraincognita07/budgetplanner/internal/services"
	"gorm.io/gorm"
)

// ServiceDependencies wires repositories and services over one database.
// Callers fill in the transport settings on the returned value.
func ServiceDependencies(database *gorm.DB, tokens *services.TokenCodec) Dependencies {
	repositories := db.NewRepositories(database)
	scope := services.ScopeLedger(repositories.Ledger)

	return Dependencies{
		Auth:    services.NewAuthService(repositories.Users, tokens),
		Ledger:  services.NewLedgerService(scope),
		Reports: services.NewReportService(scope),
		Demo:    services.NewDemoService(scope),
	}
}

func NewHandler(deps Dependencies) (*Handler, error) {
	if deps.Auth == nil {
		return nil, errors.New("auth service is required")
	}
	if deps.Ledger == nil || deps.Reports == nil || deps.Demo == nil {
		return nil, errors.New("ledger, report and demo services are required")
	}

	logger := deps.Logger
	if logger == nil {
		logger = slog.Default()
	}

	return &Handler{
		auth:          deps.Auth,
		ledger:        deps.Ledger,
		reports:       deps.Reports,
		demo:          deps.Demo,
		identity:      deps.Identity,
		logger:        logger.With("component", "api"),
		cookieSecure:  deps.CookieSecure,
		debugRoutes:   deps.DebugRoutes,
		loginThrottle: newLoginThrottle(deps.LoginAttemptsLimit, deps.LoginAttemptsWindow),
		now:           time.Now,
	}, nil
}
