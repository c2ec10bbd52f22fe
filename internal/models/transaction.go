package models

import (
	"database/sql/driver"
	"time"

	"github.com/terraincognita07/budgetplanner/internal/money"
)

type TransactionType string

const (
	TransactionIncome  TransactionType = "income"
	TransactionExpense TransactionType = "expense"
)

const TransactionDescriptionMaxLength = 255

func (kind TransactionType) Valid() bool {
	return kind == TransactionIncome || kind == TransactionExpense
}

func (kind TransactionType) Value() (driver.Value, error) {
	return string(kind), nil
}

type Transaction struct {
	ID          uint            `gorm:"primaryKey" json:"id"`
	UserID      uint            `gorm:"not null;index" json:"-"`
	CategoryID  *uint           `gorm:"index" json:"category_id"`
	Type        TransactionType `gorm:"not null" json:"type"`
	Amount      money.Amount    `gorm:"column:amount_cents;not null" json:"amount"`
	Description *string         `json:"description"`
	Date        time.Time       `gorm:"not null;index" json:"date"`
	IsPlanned   bool            `gorm:"not null;default:false" json:"is_planned"`
	CreatedAt   time.Time       `gorm:"not null" json:"created_at"`
	UpdatedAt   time.Time       `gorm:"not null" json:"updated_at"`
}
