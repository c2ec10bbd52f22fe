package cli

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/terraincognita07/budgetplanner/internal/services"
)

func RunSetStatusCommand(admin AccountAdmin, email string, change services.StatusChange, out io.Writer) error {
	if strings.TrimSpace(email) == "" {
		return errors.New("email is required")
	}
	if change.IsActive == nil && change.IsSuperuser == nil {
		return errors.New("nothing to change: pass --active and/or --superuser")
	}

	user, err := admin.SetStatus(email, change)
	if err != nil {
		return describeAccountError(email, err)
	}

	fmt.Fprintf(out, "%s: active=%t superuser=%t\n", user.Email, user.IsActive, user.IsSuperuser)
	return nil
}
