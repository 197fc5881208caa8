package transport

import (
	"errors"
	"net/http"

	"sharpshop/internal/catalog"
	"sharpshop/internal/domain"
	"sharpshop/internal/middleware"
	"sharpshop/internal/repository"
	"sharpshop/internal/service"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// ProductListResponse is a page of the storefront catalog
type ProductListResponse struct {
	Products []domain.Product `json:"products"`
	Count    int              `json:"count"`
	Locale   string           `json:"locale"`
}

// CatalogHandler serves the public catalog
type CatalogHandler struct {
	catalogService service.CatalogService
	logger         *zap.Logger
}

// NewCatalogHandler creates a new CatalogHandler
func NewCatalogHandler(catalogService service.CatalogService, logger *zap.Logger) *CatalogHandler {
	return &CatalogHandler{
		catalogService: catalogService,
		logger:         logger,
	}
}

// RegisterRoutes registers the catalog routes
func (h *CatalogHandler) RegisterRoutes(r chi.Router) {
	r.Get("/api/products", h.ListProducts)
	r.Get("/api/products/{id}", h.GetProduct)
	r.Get("/api/categories", h.ListCategories)
}

// ListProducts handles GET /api/products?category=&q=&min_price=&max_price=&sort=&lang=
func (h *CatalogHandler) ListProducts(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	category := domain.Category(q.Get("category"))
	if category != "" && !category.Valid() {
		middleware.RespondWithError(w, http.StatusBadRequest, "unknown category")
		return
	}

	minPrice, err := queryDecimal(r, "min_price")
	if err != nil {
		middleware.RespondWithError(w, http.StatusBadRequest, err.Error())
		return
	}
	maxPrice, err := queryDecimal(r, "max_price")
	if err != nil {
		middleware.RespondWithError(w, http.StatusBadRequest, err.Error())
		return
	}

	locale := catalog.NegotiateLocale(q.Get("lang"), r.Header.Get("Accept-Language"))

	products, err := h.catalogService.ListProducts(r.Context(), service.ProductQuery{
		Category: category,
		Search:   q.Get("q"),
		MinPrice: minPrice,
		MaxPrice: maxPrice,
		Sort:     catalog.SortKey(q.Get("sort")),
		Locale:   locale,
	})
	if err != nil {
		h.logger.Error("Failed to list products", zap.Error(err))
		middleware.RespondWithError(w, http.StatusInternalServerError, "failed to list products")
		return
	}

	w.Header().Set("Content-Language", locale.String())
	middleware.RespondWithJSON(w, http.StatusOK, ProductListResponse{
		Products: products,
		Count:    len(products),
		Locale:   locale.String(),
	})
}

// GetProduct handles GET /api/products/{id}
func (h *CatalogHandler) GetProduct(w http.ResponseWriter, r *http.Request) {
	id, err := pathInt64(r, "id")
	if err != nil {
		middleware.RespondWithError(w, http.StatusBadRequest, err.Error())
		return
	}

	product, err := h.catalogService.GetProduct(r.Context(), id)
	if err != nil {
		if errors.Is(err, repository.ErrProductNotFound) {
			middleware.RespondWithError(w, http.StatusNotFound, "product not found")
			return
		}
		h.logger.Error("Failed to get product", zap.Int64("product_id", id), zap.Error(err))
		middleware.RespondWithError(w, http.StatusInternalServerError, "failed to get product")
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, product)
}

// ListCategories handles GET /api/categories
func (h *CatalogHandler) ListCategories(w http.ResponseWriter, r *http.Request) {
	middleware.RespondWithJSON(w, http.StatusOK, map[string]any{
		"categories": h.catalogService.Categories(),
	})
}
