package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"sharpshop/internal/cache"
	"sharpshop/internal/domain"
	"sharpshop/internal/repository"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

var (
	ErrInvalidCategory = errors.New("invalid category")
	ErrNegativePrice   = errors.New("price must not be negative")
)

// ProductInput carries the editable fields of a product
type ProductInput struct {
	Title       string
	Price       decimal.Decimal
	Images      []string
	Category    domain.Category
	Description string
}

// ProductService defines admin operations on the catalog
type ProductService interface {
	Create(ctx context.Context, input ProductInput) (*domain.Product, error)
	Update(ctx context.Context, id int64, input ProductInput) (*domain.Product, error)
	Delete(ctx context.Context, id int64) error
}

type productService struct {
	productRepo repository.ProductRepository
	cache       *cache.Cache
	logger      *zap.Logger
}

// NewProductService creates a product service that keeps the catalog cache coherent
func NewProductService(productRepo repository.ProductRepository, c *cache.Cache, logger *zap.Logger) ProductService {
	return &productService{
		productRepo: productRepo,
		cache:       c,
		logger:      logger,
	}
}

func (s *productService) Create(ctx context.Context, input ProductInput) (*domain.Product, error) {
	product, err := input.toProduct()
	if err != nil {
		return nil, err
	}

	if err := s.productRepo.Create(ctx, product); err != nil {
		return nil, fmt.Errorf("failed to create product: %w", err)
	}

	invalidateCatalog(ctx, s.cache, s.logger)
	s.logger.Info("Product created", zap.Int64("product_id", product.ID), zap.String("title", product.Title))

	return product, nil
}

func (s *productService) Update(ctx context.Context, id int64, input ProductInput) (*domain.Product, error) {
	product, err := input.toProduct()
	if err != nil {
		return nil, err
	}
	product.ID = id

	if err := s.productRepo.Update(ctx, product); err != nil {
		if errors.Is(err, repository.ErrProductNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to update product: %w", err)
	}

	invalidateCatalog(ctx, s.cache, s.logger)
	s.logger.Info("Product updated", zap.Int64("product_id", id))

	return product, nil
}

func (s *productService) Delete(ctx context.Context, id int64) error {
	if err := s.productRepo.Delete(ctx, id); err != nil {
		if errors.Is(err, repository.ErrProductNotFound) {
			return err
		}
		return fmt.Errorf("failed to delete product: %w", err)
	}

	invalidateCatalog(ctx, s.cache, s.logger)
	s.logger.Info("Product deleted", zap.Int64("product_id", id))

	return nil
}

func (in ProductInput) toProduct() (*domain.Product, error) {
	if !in.Category.Valid() {
		return nil, fmt.Errorf("%w: %q", ErrInvalidCategory, in.Category)
	}
	if in.Price.IsNegative() {
		return nil, ErrNegativePrice
	}

	images := make([]string, 0, len(in.Images))
	for _, img := range in.Images {
		if img = strings.TrimSpace(img); img != "" {
			images = append(images, img)
		}
	}

	return &domain.Product{
		Title:       strings.TrimSpace(in.Title),
		Price:       in.Price.Round(2),
		Images:      images,
		Category:    in.Category,
		Description: strings.TrimSpace(in.Description),
	}, nil
}
