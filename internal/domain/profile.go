package domain

import (
	"time"

	"github.com/google/uuid"
)

// Profile holds storefront data for a user whose identity lives in the auth backend
type Profile struct {
	UserID      uuid.UUID `json:"user_id" db:"user_id"`
	FullName    string    `json:"full_name" db:"full_name"`
	Phone       string    `json:"phone" db:"phone"`
	CountryCode string    `json:"country_code" db:"country_code"`
	CreatedAt   time.Time `json:"created_at" db:"created_at"`
	UpdatedAt   time.Time `json:"updated_at" db:"updated_at"`
}

// WishlistItem links a user to a saved product
type WishlistItem struct {
	UserID    uuid.UUID `json:"user_id" db:"user_id"`
	Product   Product   `json:"product"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}
