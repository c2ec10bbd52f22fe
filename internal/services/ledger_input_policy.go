package services

import (
	"strings"
	"time"
	"unicode/utf8"

	"github.com/terraincognita07/budgetplanner/internal/models"
)

const (
	DefaultTransactionLimit = 100
	MaxTransactionLimit     = 500
)

const dateOnlyLayout = "2006-01-02"

var dateTimeLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
}

func normalizeCategoryName(raw string) (string, error) {
	name := strings.TrimSpace(raw)
	if name == "" {
		return "", fieldError("name", "must not be empty")
	}
	if utf8.RuneCountInString(name) > models.CategoryNameMaxLength {
		return "", fieldError("name", "must be at most %d characters", models.CategoryNameMaxLength)
	}
	return name, nil
}

// normalizeCategoryColor treats a blank color as no color.
func normalizeCategoryColor(raw *string) (*string, error) {
	if raw == nil {
		return nil, nil
	}
	color := strings.TrimSpace(*raw)
	if color == "" {
		return nil, nil
	}
	if utf8.RuneCountInString(color) > models.CategoryColorMaxLength {
		return nil, fieldError("color", "must be at most %d characters", models.CategoryColorMaxLength)
	}
	return &color, nil
}

func normalizeDescription(raw *string) (*string, error) {
	if raw == nil {
		return nil, nil
	}
	description := strings.TrimSpace(*raw)
	if description == "" {
		return nil, nil
	}
	if utf8.RuneCountInString(description) > models.TransactionDescriptionMaxLength {
		return nil, fieldError("description", "must be at most %d characters", models.TransactionDescriptionMaxLength)
	}
	return &description, nil
}

func ParseTransactionType(raw string) (models.TransactionType, error) {
	kind := models.TransactionType(strings.ToLower(strings.TrimSpace(raw)))
	if !kind.Valid() {
		return "", fieldError("type", "must be one of income, expense")
	}
	return kind, nil
}

// ParseDateParam accepts RFC 3339 timestamps and plain YYYY-MM-DD dates. The
// second return value reports whether raw was a plain date. Timestamps
// without an offset are read as UTC.
func ParseDateParam(field string, raw string) (time.Time, bool, error) {
	value := strings.TrimSpace(raw)
	if parsed, err := time.Parse(dateOnlyLayout, value); err == nil {
		return parsed.UTC(), true, nil
	}
	for _, layout := range dateTimeLayouts {
		if parsed, err := time.Parse(layout, value); err == nil {
			return parsed.UTC(), false, nil
		}
	}
	return time.Time{}, false, fieldError(field, "must be a date (YYYY-MM-DD) or an RFC 3339 timestamp")
}

func normalizePage(skip int, limit int) (int, int, error) {
	if skip < 0 {
		return 0, 0, fieldError("skip", "must be greater than or equal to 0")
	}
	if limit == 0 {
		limit = DefaultTransactionLimit
	}
	if limit < 1 || limit > MaxTransactionLimit {
		return 0, 0, fieldError("limit", "must be between 1 and %d", MaxTransactionLimit)
	}
	return skip, limit, nil
}
