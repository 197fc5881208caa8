package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Category is the enumerated product category
type Category string

const (
	CategorySharpener Category = "sharpener"
	CategoryAccessory Category = "accessory"
	CategoryStone     Category = "stone"
)

// Categories lists every category in display order
func Categories() []Category {
	return []Category{CategorySharpener, CategoryAccessory, CategoryStone}
}

// Valid reports whether c is one of the known categories
func (c Category) Valid() bool {
	switch c {
	case CategorySharpener, CategoryAccessory, CategoryStone:
		return true
	}
	return false
}

// Product represents a product in the catalog. Price is in USD.
type Product struct {
	ID          int64           `json:"id" db:"id"`
	Title       string          `json:"title" db:"title"`
	Price       decimal.Decimal `json:"price" db:"price"`
	Images      []string        `json:"images" db:"images"`
	Category    Category        `json:"category" db:"category"`
	Description string          `json:"description,omitempty" db:"description"`
	CreatedAt   time.Time       `json:"created_at" db:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at" db:"updated_at"`
}
