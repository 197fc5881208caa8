package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"sharpshop/internal/domain"

	"github.com/google/uuid"
)

var (
	ErrProfileNotFound = errors.New("profile not found")
)

// ProfileRepository defines the interface for storefront profile data access
type ProfileRepository interface {
	FindByUserID(ctx context.Context, userID uuid.UUID) (*domain.Profile, error)
	Upsert(ctx context.Context, profile *domain.Profile) error
}

type profileRepository struct {
	db *sql.DB
}

// NewProfileRepository creates a new instance of ProfileRepository
func NewProfileRepository(db *sql.DB) ProfileRepository {
	return &profileRepository{db: db}
}

// FindByUserID retrieves the profile of an authenticated user
func (r *profileRepository) FindByUserID(ctx context.Context, userID uuid.UUID) (*domain.Profile, error) {
	query := `
		SELECT user_id, full_name, phone, country_code, created_at, updated_at
		FROM profiles
		WHERE user_id = $1
	`

	profile := &domain.Profile{}
	err := r.db.QueryRowContext(ctx, query, userID).Scan(
		&profile.UserID,
		&profile.FullName,
		&profile.Phone,
		&profile.CountryCode,
		&profile.CreatedAt,
		&profile.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrProfileNotFound
		}
		return nil, fmt.Errorf("failed to find profile: %w", err)
	}

	return profile, nil
}

// Upsert creates the profile on first save and overwrites it afterwards
func (r *profileRepository) Upsert(ctx context.Context, profile *domain.Profile) error {
	query := `
		INSERT INTO profiles (user_id, full_name, phone, country_code)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (user_id) DO UPDATE
		SET full_name = EXCLUDED.full_name,
		    phone = EXCLUDED.phone,
		    country_code = EXCLUDED.country_code
		RETURNING created_at, updated_at
	`

	err := r.db.QueryRowContext(
		ctx,
		query,
		profile.UserID,
		profile.FullName,
		profile.Phone,
		profile.CountryCode,
	).Scan(&profile.CreatedAt, &profile.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to save profile: %w", err)
	}

	return nil
}
