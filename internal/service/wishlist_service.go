package service

import (
	"context"
	"errors"
	"fmt"

	"sharpshop/internal/domain"
	"sharpshop/internal/repository"

	"github.com/google/uuid"
)

// WishlistService defines saved-product operations
type WishlistService interface {
	List(ctx context.Context, userID uuid.UUID) ([]domain.WishlistItem, error)
	Add(ctx context.Context, userID uuid.UUID, productID int64) error
	Remove(ctx context.Context, userID uuid.UUID, productID int64) error
}

type wishlistService struct {
	wishlistRepo repository.WishlistRepository
}

// NewWishlistService creates a new instance of WishlistService
func NewWishlistService(wishlistRepo repository.WishlistRepository) WishlistService {
	return &wishlistService{wishlistRepo: wishlistRepo}
}

func (s *wishlistService) List(ctx context.Context, userID uuid.UUID) ([]domain.WishlistItem, error) {
	items, err := s.wishlistRepo.List(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list wishlist: %w", err)
	}
	return items, nil
}

// Add is idempotent; unknown products fail with repository.ErrProductNotFound
func (s *wishlistService) Add(ctx context.Context, userID uuid.UUID, productID int64) error {
	if err := s.wishlistRepo.Add(ctx, userID, productID); err != nil {
		if errors.Is(err, repository.ErrProductNotFound) {
			return err
		}
		return fmt.Errorf("failed to add to wishlist: %w", err)
	}
	return nil
}

func (s *wishlistService) Remove(ctx context.Context, userID uuid.UUID, productID int64) error {
	if err := s.wishlistRepo.Remove(ctx, userID, productID); err != nil {
		if errors.Is(err, repository.ErrWishlistItemNotFound) {
			return err
		}
		return fmt.Errorf("failed to remove from wishlist: %w", err)
	}
	return nil
}
