package api

import (
	"bytes"
	"encoding/json"
	"errors"
	"time"

	"github.com/terraincognita07/budgetplanner/internal/money"
	"github.com/terraincognita07/budgetplanner/internal/services"
)

type credentialsInput struct {
	Email    string `json:"email" form:"email"`
	Password string `json:"password" form:"password"`
}

// loginInput accepts the OAuth2 password form field "username" as well as "email".
type loginInput struct {
	Username string `json:"username" form:"username"`
	Email    string `json:"email" form:"email"`
	Password string `json:"password" form:"password"`
}

func (input loginInput) login() string {
	if input.Username != "" {
		return input.Username
	}
	return input.Email
}

type categoryPayload struct {
	Name  string  `json:"name"`
	Color *string `json:"color"`
}

type categoryUpdatePayload struct {
	Name  *string          `json:"name"`
	Color optional[string] `json:"color"`
}

type transactionPayload struct {
	CategoryID  *uint         `json:"category_id"`
	Type        string        `json:"type"`
	Amount      *money.Amount `json:"amount"`
	Description *string       `json:"description"`
	Date        *dateValue    `json:"date"`
	IsPlanned   bool          `json:"is_planned"`
}

type transactionUpdatePayload struct {
	CategoryID  optional[uint]   `json:"category_id"`
	Type        *string          `json:"type"`
	Amount      *money.Amount    `json:"amount"`
	Description optional[string] `json:"description"`
	Date        *dateValue       `json:"date"`
	IsPlanned   *bool            `json:"is_planned"`
}

// optional tells an absent key (Set false) apart from an explicit null
// (Set true, Value nil).
type optional[T any] struct {
	Set   bool
	Value *T
}

func (field *optional[T]) UnmarshalJSON(data []byte) error {
	field.Set = true
	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		field.Value = nil
		return nil
	}
	var value T
	if err := json.Unmarshal(data, &value); err != nil {
		return err
	}
	field.Value = &value
	return nil
}

// dateValue accepts a calendar date or a timestamp, with or without offset.
type dateValue struct {
	time.Time
}

func (value *dateValue) UnmarshalJSON(data []byte) error {
	var raw string
	if err := json.Unmarshal(data, &raw); err != nil {
		return &services.FieldError{Field: "date", Message: "must be a string"}
	}
	parsed, _, err := services.ParseDateParam("date", raw)
	if err != nil {
		return err
	}
	value.Time = parsed
	return nil
}

func (value *dateValue) timePointer() *time.Time {
	if value == nil {
		return nil
	}
	parsed := value.Time
	return &parsed
}

func requiredAmount(amount *money.Amount) (money.Amount, error) {
	if amount == nil {
		return 0, &services.FieldError{Field: "amount", Message: "field required"}
	}
	return *amount, nil
}

// bodyError turns a decoding failure into a validation error that names the
// offending field when possible.
func bodyError(err error) error {
	var fieldErr *services.FieldError
	if errors.As(err, &fieldErr) {
		return fieldErr
	}
	if errors.Is(err, money.ErrInvalidAmount) || errors.Is(err, money.ErrAmountPrecision) || errors.Is(err, money.ErrAmountTooLarge) {
		return &services.FieldError{Field: "amount", Message: err.Error()}
	}
	var typeErr *json.UnmarshalTypeError
	if errors.As(err, &typeErr) && typeErr.Field != "" {
		return &services.FieldError{Field: typeErr.Field, Message: "must be of type " + typeErr.Type.String()}
	}
	return &services.FieldError{Field: "body", Message: "malformed request body"}
}
