package service

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"sharpshop/internal/cache"
	"sharpshop/internal/catalog"
	"sharpshop/internal/domain"
	"sharpshop/internal/repository"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"golang.org/x/text/language"
)

// ProductQuery is a storefront listing request. Unset price bounds mean
// "from zero" and "up to the most expensive matching product".
type ProductQuery struct {
	Category domain.Category
	Search   string
	MinPrice decimal.NullDecimal
	MaxPrice decimal.NullDecimal
	Sort     catalog.SortKey
	Locale   language.Tag
}

// CatalogService defines the read side of the product catalog
type CatalogService interface {
	ListProducts(ctx context.Context, q ProductQuery) ([]domain.Product, error)
	GetProduct(ctx context.Context, id int64) (*domain.Product, error)
	Categories() []domain.Category
}

type catalogService struct {
	productRepo repository.ProductRepository
	cache       *cache.Cache
	logger      *zap.Logger
}

// NewCatalogService creates a catalog service. A nil cache disables caching.
func NewCatalogService(productRepo repository.ProductRepository, c *cache.Cache, logger *zap.Logger) CatalogService {
	return &catalogService{
		productRepo: productRepo,
		cache:       c,
		logger:      logger,
	}
}

// ListProducts loads the category/search slice of the catalog through the cache
// and applies the price window and ordering in memory.
func (s *catalogService) ListProducts(ctx context.Context, q ProductQuery) ([]domain.Product, error) {
	filter := repository.ProductFilter{
		Category: q.Category,
		Query:    strings.TrimSpace(q.Search),
	}

	products, err := cache.GetOrLoad(ctx, s.cache, listKey(filter), func(ctx context.Context) ([]domain.Product, error) {
		s.logger.Debug("Catalog cache miss", zap.String("category", string(filter.Category)), zap.String("q", filter.Query))
		return s.productRepo.List(ctx, filter)
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list products: %w", err)
	}

	minPrice := decimal.Zero
	if q.MinPrice.Valid {
		minPrice = q.MinPrice.Decimal
	}

	maxPrice := maxProductPrice(products)
	if q.MaxPrice.Valid {
		maxPrice = q.MaxPrice.Decimal
	}

	return catalog.Select(products, catalog.Query{
		MinPrice: minPrice,
		MaxPrice: maxPrice,
		Sort:     q.Sort,
		Locale:   q.Locale,
	}), nil
}

// GetProduct returns one product or repository.ErrProductNotFound
func (s *catalogService) GetProduct(ctx context.Context, id int64) (*domain.Product, error) {
	return cache.GetOrLoad(ctx, s.cache, productKey(id), func(ctx context.Context) (*domain.Product, error) {
		return s.productRepo.FindByID(ctx, id)
	})
}

func (s *catalogService) Categories() []domain.Category {
	return domain.Categories()
}

const catalogKeyPattern = "products:*"

func listKey(f repository.ProductFilter) string {
	return "products:list:" + string(f.Category) + ":" + strings.ToLower(f.Query)
}

func productKey(id int64) string {
	return "products:id:" + strconv.FormatInt(id, 10)
}

func maxProductPrice(products []domain.Product) decimal.Decimal {
	max := decimal.Zero
	for _, p := range products {
		if p.Price.GreaterThan(max) {
			max = p.Price
		}
	}
	return max
}

// invalidateCatalog drops every cached listing and product. Failures are logged:
// entries still expire on their TTL.
func invalidateCatalog(ctx context.Context, c *cache.Cache, logger *zap.Logger) {
	if c == nil {
		return
	}
	if err := c.DeletePattern(ctx, catalogKeyPattern); err != nil {
		logger.Warn("Failed to invalidate catalog cache", zap.Error(err))
	}
}
