package models

import "time"

const (
	CategoryNameMaxLength  = 100
	CategoryColorMaxLength = 32
)

type Category struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	UserID    uint      `gorm:"not null;index" json:"-"`
	Name      string    `gorm:"not null" json:"name"`
	Color     *string   `json:"color"`
	CreatedAt time.Time `gorm:"not null" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null" json:"updated_at"`
}

type DefaultCategory struct {
	Name  string
	Color string
}

// DefaultDemoCategories lists the categories created by demo seeding.
func DefaultDemoCategories() []DefaultCategory {
	return []DefaultCategory{
		{Name: "Jedzenie", Color: "#f59e0b"},
		{Name: "Transport", Color: "#3b82f6"},
		{Name: "Rachunki", Color: "#ef4444"},
		{Name: "Wypłata", Color: "#10b981"},
	}
}
