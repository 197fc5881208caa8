package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"sharpshop/internal/delivery"
	"sharpshop/internal/domain"
	"sharpshop/internal/repository"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// ProfileInput carries the editable profile fields
type ProfileInput struct {
	FullName    string
	Phone       string
	CountryCode string
}

// ProfileService defines customer profile operations
type ProfileService interface {
	Get(ctx context.Context, userID uuid.UUID) (*domain.Profile, error)
	Save(ctx context.Context, userID uuid.UUID, input ProfileInput) (*domain.Profile, error)
}

type profileService struct {
	profileRepo repository.ProfileRepository
	logger      *zap.Logger
}

// NewProfileService creates a new instance of ProfileService
func NewProfileService(profileRepo repository.ProfileRepository, logger *zap.Logger) ProfileService {
	return &profileService{
		profileRepo: profileRepo,
		logger:      logger,
	}
}

// Get returns the stored profile, or an empty one for users who never saved it
func (s *profileService) Get(ctx context.Context, userID uuid.UUID) (*domain.Profile, error) {
	profile, err := s.profileRepo.FindByUserID(ctx, userID)
	if errors.Is(err, repository.ErrProfileNotFound) {
		return &domain.Profile{UserID: userID}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get profile: %w", err)
	}
	return profile, nil
}

func (s *profileService) Save(ctx context.Context, userID uuid.UUID, input ProfileInput) (*domain.Profile, error) {
	profile := &domain.Profile{
		UserID:      userID,
		FullName:    strings.TrimSpace(input.FullName),
		Phone:       strings.TrimSpace(input.Phone),
		CountryCode: delivery.NormalizeCountry(input.CountryCode),
	}

	if err := s.profileRepo.Upsert(ctx, profile); err != nil {
		return nil, fmt.Errorf("failed to save profile: %w", err)
	}

	s.logger.Debug("Profile saved", zap.String("user_id", userID.String()))
	return profile, nil
}
