// Package cli holds the account maintenance commands run from the terminal.
package cli

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/terraincognita07/budgetplanner/internal/models"
	"github.com/terraincognita07/budgetplanner/internal/security"
	"github.com/terraincognita07/budgetplanner/internal/services"
)

const (
	temporaryPasswordLength   = 12
	temporaryPasswordAttempts = 32
)

// AccountAdmin is the part of the auth service the commands need.
type AccountAdmin interface {
	ResetPassword(email string, password string) (models.User, error)
	SetStatus(email string, change services.StatusChange) (models.User, error)
}

// PasswordPrompt asks for a secret and returns what was typed.
type PasswordPrompt func(label string) (string, error)

// TerminalPasswordPrompt reads from stdin with echo disabled.
func TerminalPasswordPrompt(stdin *os.File, out io.Writer) PasswordPrompt {
	return func(label string) (string, error) {
		fmt.Fprint(out, label)
		password, err := readPasswordNoEcho(stdin)
		fmt.Fprintln(out)
		if err != nil {
			return "", fmt.Errorf("read password: %w", err)
		}
		return string(password), nil
	}
}

type ResetPasswordOptions struct {
	Email string
	// Generate replaces the password with a random one and prints it instead
	// of prompting.
	Generate bool
}

func RunResetPasswordCommand(admin AccountAdmin, options ResetPasswordOptions, prompt PasswordPrompt, out io.Writer) error {
	email := strings.TrimSpace(options.Email)
	if email == "" {
		return errors.New("email is required")
	}

	var password string
	if options.Generate {
		generated, err := generateTemporaryPassword(temporaryPasswordLength)
		if err != nil {
			return fmt.Errorf("generate temporary password: %w", err)
		}
		password = generated
	} else {
		if prompt == nil {
			return errors.New("password prompt unavailable")
		}
		entered, err := prompt("New password: ")
		if err != nil {
			return err
		}
		confirmed, err := prompt("Repeat password: ")
		if err != nil {
			return err
		}
		if entered != confirmed {
			return errors.New("passwords do not match")
		}
		password = entered
	}

	user, err := admin.ResetPassword(email, password)
	if err != nil {
		return describeAccountError(email, err)
	}

	fmt.Fprintf(out, "Password reset for %s\n", user.Email)
	if options.Generate {
		fmt.Fprintf(out, "Temporary password: %s\n", password)
	}
	return nil
}

// generateTemporaryPassword draws from an unambiguous alphabet until the
// result satisfies the password policy.
func generateTemporaryPassword(length int) (string, error) {
	if length < 8 {
		length = 8
	}

	for attempt := 0; attempt < temporaryPasswordAttempts; attempt++ {
		candidate, err := security.RandomString(length, security.PasswordAlphabet)
		if err != nil {
			return "", err
		}
		if services.ValidatePasswordStrength(candidate) == nil {
			return candidate, nil
		}
	}
	return "", errors.New("could not generate a password that satisfies the policy")
}

func describeAccountError(email string, err error) error {
	if errors.Is(err, services.ErrNotFound) {
		return fmt.Errorf("user %s not found", strings.ToLower(email))
	}
	return err
}
