package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/spf13/cobra"
	"github.com/terraincognita07/budgetplanner/internal/api"
	"github.com/terraincognita07/budgetplanner/internal/config"
	"github.com/terraincognita07/budgetplanner/internal/db"
	"github.com/terraincognita07/budgetplanner/internal/identity"
	"github.com/terraincognita07/budgetplanner/internal/logging"
	"github.com/terraincognita07/budgetplanner/internal/services"
	"golang.org/x/sync/errgroup"
	"gorm.io/gorm"
)

const shutdownTimeout = 10 * time.Second

func main() {
	if err := newRootCommand(os.Stdout).ExecuteContext(context.Background()); err != nil {
		os.Exit(1)
	}
}

type app struct {
	configPath string
	out        io.Writer
}

func newRootCommand(out io.Writer) *cobra.Command {
	state := &app{out: out}

	root := &cobra.Command{
		Use:          "budgetplanner",
		Short:        "Personal budget tracking API",
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return state.serve(cmd.Context())
		},
	}
	root.SetOut(out)
	root.PersistentFlags().StringVar(&state.configPath, "config", "", "path to a TOML config file (default $"+config.ConfigPathEnv+")")

	root.AddCommand(
		&cobra.Command{
			Use:   "serve",
			Short: "Run the HTTP API",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, _ []string) error {
				return state.serve(cmd.Context())
			},
		},
		&cobra.Command{
			Use:   "migrate",
			Short: "Apply pending database migrations and exit",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, _ []string) error {
				return state.migrate()
			},
		},
		state.resetPasswordCommand(),
		state.setStatusCommand(),
	)
	return root
}

// loadConfig reads and validates configuration and builds the logger.
func (state *app) loadConfig() (config.Config, *slog.Logger, error) {
	cfg, err := config.Load(state.configPath)
	if err != nil {
		return config.Config{}, nil, err
	}
	if err := cfg.Validate(); err != nil {
		return config.Config{}, nil, err
	}
	level, err := logging.ParseLevel(cfg.Log.Level)
	if err != nil {
		return config.Config{}, nil, err
	}
	logger := logging.New(level, cfg.Log.Format, state.out)
	slog.SetDefault(logger)
	return cfg, logger, nil
}

func (state *app) serve(ctx context.Context) error {
	cfg, logger, err := state.loadConfig()
	if err != nil {
		return err
	}

	database, err := db.OpenSQLite(cfg.Database.Path, logger)
	if err != nil {
		return fmt.Errorf("database init failed: %w", err)
	}
	defer closeDatabase(database, logger)

	// Serving continues on a failed migration so the health endpoint stays up.
	if applied, err := db.Migrate(database); err != nil {
		logger.Error("database migration failed", "error", err)
	} else if len(applied) > 0 {
		logger.Info("database migrations applied", "versions", applied)
	}

	handler, err := newHandler(cfg, database, logger)
	if err != nil {
		return err
	}

	server := newFiberApp(handler, logger)

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	group, groupCtx := errgroup.WithContext(ctx)
	group.Go(func() error {
		logger.Info("listening", "address", cfg.ListenAddress(), "env", cfg.Env, "debug_routes", cfg.DebugRoutesEnabled())
		return server.Listen(cfg.ListenAddress())
	})
	group.Go(func() error {
		<-groupCtx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		logger.Info("shutting down")
		return server.ShutdownWithContext(shutdownCtx)
	})

	if err := group.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	return nil
}

func newHandler(cfg config.Config, database *gorm.DB, logger *slog.Logger) (*api.Handler, error) {
	tokens := services.NewTokenCodec([]byte(cfg.Auth.SecretKey), cfg.Auth.TokenTTL.Duration)
	deps := api.ServiceDependencies(database, tokens)
	deps.Logger = logger
	deps.CookieSecure = cfg.Server.CookieSecure
	deps.DebugRoutes = cfg.DebugRoutesEnabled()
	deps.LoginAttemptsLimit = cfg.Auth.LoginAttemptsLimit
	deps.LoginAttemptsWindow = cfg.Auth.LoginAttemptsWindow.Duration

	if cfg.GoogleEnabled() {
		provider, err := identity.NewGoogleProvider(identity.GoogleConfig{
			ClientID:     cfg.Google.ClientID,
			ClientSecret: cfg.Google.ClientSecret,
			BaseURL:      cfg.Server.BaseURL,
		})
		if err != nil {
			return nil, fmt.Errorf("google login: %w", err)
		}
		deps.Identity = provider
	}

	return api.NewHandler(deps)
}

func newFiberApp(handler *api.Handler, logger *slog.Logger) *fiber.App {
	server := fiber.New(fiber.Config{
		AppName:               "budgetplanner",
		DisableStartupMessage: true,
		ErrorHandler:          handler.ErrorHandler,
	})
	server.Use(requestid.New())
	server.Use(recover.New())
	server.Use(logging.RequestLogger(logger))
	api.RegisterRoutes(server, handler)
	server.Use(handler.NotFound)
	return server
}

func (state *app) migrate() error {
	cfg, logger, err := state.loadConfig()
	if err != nil {
		return err
	}

	database, err := db.OpenSQLite(cfg.Database.Path, logger)
	if err != nil {
		return fmt.Errorf("database init failed: %w", err)
	}
	defer closeDatabase(database, logger)

	applied, err := db.Migrate(database)
	if err != nil {
		return err
	}
	if len(applied) == 0 {
		fmt.Fprintln(state.out, "Database is up to date")
		return nil
	}
	for _, version := range applied {
		fmt.Fprintf(state.out, "Applied %s\n", version)
	}
	return nil
}

func closeDatabase(database *gorm.DB, logger *slog.Logger) {
	sqlDB, err := database.DB()
	if err != nil {
		return
	}
	if err := sqlDB.Close(); err != nil {
		logger.Warn("close database", "error", err)
	}
}
