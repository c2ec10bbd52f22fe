package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/terraincognita07/budgetplanner/internal/cli"
	"github.com/terraincognita07/budgetplanner/internal/db"
	"github.com/terraincognita07/budgetplanner/internal/services"
)

// openAccountAdmin opens and migrates the configured database and returns an
// auth service over it plus a function that closes the database.
func (state *app) openAccountAdmin() (*services.AuthService, func(), error) {
	cfg, logger, err := state.loadConfig()
	if err != nil {
		return nil, nil, err
	}

	database, err := db.OpenAndMigrate(cfg.Database.Path, logger)
	if err != nil {
		return nil, nil, fmt.Errorf("database init failed: %w", err)
	}

	tokens := services.NewTokenCodec([]byte(cfg.Auth.SecretKey), cfg.Auth.TokenTTL.Duration)
	auth := services.NewAuthService(db.NewUserRepository(database), tokens)
	return auth, func() { closeDatabase(database, logger) }, nil
}

func (state *app) resetPasswordCommand() *cobra.Command {
	var options cli.ResetPasswordOptions

	command := &cobra.Command{
		Use:   "reset-password",
		Short: "Set a new password for an account",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			auth, closeDB, err := state.openAccountAdmin()
			if err != nil {
				return err
			}
			defer closeDB()

			prompt := cli.TerminalPasswordPrompt(os.Stdin, cmd.OutOrStdout())
			return cli.RunResetPasswordCommand(auth, options, prompt, cmd.OutOrStdout())
		},
	}
	command.Flags().StringVar(&options.Email, "email", "", "account email")
	command.Flags().BoolVar(&options.Generate, "generate", false, "generate and print a temporary password instead of prompting")
	_ = command.MarkFlagRequired("email")
	return command
}

func (state *app) setStatusCommand() *cobra.Command {
	var (
		email     string
		active    bool
		superuser bool
	)

	command := &cobra.Command{
		Use:   "set-status",
		Short: "Activate, deactivate, promote or demote an account",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			var change services.StatusChange
			if cmd.Flags().Changed("active") {
				change.IsActive = &active
			}
			if cmd.Flags().Changed("superuser") {
				change.IsSuperuser = &superuser
			}

			auth, closeDB, err := state.openAccountAdmin()
			if err != nil {
				return err
			}
			defer closeDB()

			return cli.RunSetStatusCommand(auth, email, change, cmd.OutOrStdout())
		},
	}
	command.Flags().StringVar(&email, "email", "", "account email")
	command.Flags().BoolVar(&active, "active", true, "whether the account may sign in")
	command.Flags().BoolVar(&superuser, "superuser", false, "whether the account has administrator rights")
	_ = command.MarkFlagRequired("email")
	return command
}
