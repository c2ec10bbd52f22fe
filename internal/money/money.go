// Package money holds fixed-point monetary amounts.
//
// Amounts are kept as a whole number of hundredths so that storage and
// summation never touch binary floating point. Parsing and formatting go
// through shopspring/decimal.
package money

import (
	"bytes"
	"database/sql/driver"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
)

// Scale is the number of fractional digits carried by an Amount.
const Scale = 2

// MaxDigits bounds the total number of significant digits an Amount may carry.
const MaxDigits = 10

var (
	ErrInvalidAmount   = errors.New("invalid amount")
	ErrAmountPrecision = errors.New("amount must have at most 2 decimal places")
	ErrAmountTooLarge  = errors.New("amount must have at most 10 digits")
)

var upperBound = decimal.New(1, MaxDigits-Scale)

// Amount is a monetary value in hundredths of the currency unit.
type Amount int64

// Zero is the zero amount.
const Zero Amount = 0

// Parse reads a decimal string such as "25.50" or "-3".
func Parse(raw string) (Amount, error) {
	value := strings.TrimSpace(raw)
	if value == "" {
		return 0, ErrInvalidAmount
	}
	parsed, err := decimal.NewFromString(value)
	if err != nil {
		return 0, ErrInvalidAmount
	}
	return FromDecimal(parsed)
}

// FromDecimal converts an exact decimal, rejecting values that would lose precision.
func FromDecimal(value decimal.Decimal) (Amount, error) {
	if !value.Equal(value.Round(Scale)) {
		return 0, ErrAmountPrecision
	}
	if value.Abs().GreaterThanOrEqual(upperBound) {
		return 0, ErrAmountTooLarge
	}
	return Amount(value.Shift(Scale).IntPart()), nil
}

// FromCents builds an Amount from a count of hundredths.
func FromCents(cents int64) Amount {
	return Amount(cents)
}

func (amount Amount) Cents() int64 {
	return int64(amount)
}

func (amount Amount) Decimal() decimal.Decimal {
	return decimal.New(int64(amount), -Scale)
}

// String formats the amount with exactly two fractional digits.
func (amount Amount) String() string {
	return amount.Decimal().StringFixed(Scale)
}

func (amount Amount) Add(other Amount) Amount {
	return amount + other
}

func (amount Amount) Sub(other Amount) Amount {
	return amount - other
}

func (amount Amount) IsZero() bool {
	return amount == 0
}

func (amount Amount) MarshalJSON() ([]byte, error) {
	return json.Marshal(amount.String())
}

// UnmarshalJSON accepts both JSON strings and bare JSON numbers. Numbers are
// read from their literal text, never through float64.
func (amount *Amount) UnmarshalJSON(data []byte) error {
	trimmed := bytes.TrimSpace(data)
	if bytes.Equal(trimmed, []byte("null")) {
		return ErrInvalidAmount
	}

	literal := string(trimmed)
	if len(trimmed) > 0 && trimmed[0] == '"' {
		if err := json.Unmarshal(trimmed, &literal); err != nil {
			return ErrInvalidAmount
		}
	}

	parsed, err := Parse(literal)
	if err != nil {
		return err
	}
	*amount = parsed
	return nil
}

// Value stores the amount as an integer count of hundredths.
func (amount Amount) Value() (driver.Value, error) {
	return int64(amount), nil
}

func (amount *Amount) Scan(src any) error {
	switch value := src.(type) {
	case int64:
		*amount = Amount(value)
	case nil:
		*amount = 0
	case []byte:
		return amount.scanText(string(value))
	case string:
		return amount.scanText(value)
	default:
		return fmt.Errorf("scan amount: unsupported type %T", src)
	}
	return nil
}

func (amount *Amount) scanText(raw string) error {
	cents, err := strconv.ParseInt(strings.TrimSpace(raw), 10, 64)
	if err != nil {
		return fmt.Errorf("scan amount: %w", err)
	}
	*amount = Amount(cents)
	return nil
}
