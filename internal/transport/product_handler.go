package transport

import (
	"errors"
	"net/http"

	"sharpshop/internal/domain"
	"sharpshop/internal/middleware"
	"sharpshop/internal/repository"
	"sharpshop/internal/service"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// ProductRequest is the admin create/update payload
type ProductRequest struct {
	Title       string          `json:"title" validate:"required,max=200"`
	Price       decimal.Decimal `json:"price" validate:"gte=0"`
	Images      []string        `json:"images" validate:"max=10,dive,url"`
	Category    domain.Category `json:"category" validate:"required,oneof=sharpener accessory stone"`
	Description string          `json:"description" validate:"max=5000"`
}

func (req ProductRequest) input() service.ProductInput {
	return service.ProductInput{
		Title:       req.Title,
		Price:       req.Price,
		Images:      req.Images,
		Category:    req.Category,
		Description: req.Description,
	}
}

// ProductHandler handles admin catalog management
type ProductHandler struct {
	productService service.ProductService
	logger         *zap.Logger
}

// NewProductHandler creates a new ProductHandler
func NewProductHandler(productService service.ProductService, logger *zap.Logger) *ProductHandler {
	return &ProductHandler{
		productService: productService,
		logger:         logger,
	}
}

// RegisterRoutes registers the admin product routes behind auth and admin checks
func (h *ProductHandler) RegisterRoutes(r chi.Router, authMiddleware, adminMiddleware func(http.Handler) http.Handler) {
	r.Route("/api/admin/products", func(r chi.Router) {
		r.Use(authMiddleware)
		r.Use(adminMiddleware)

		r.Post("/", h.CreateProduct)
		r.Put("/{id}", h.UpdateProduct)
		r.Delete("/{id}", h.DeleteProduct)
	})
}

// CreateProduct handles POST /api/admin/products
func (h *ProductHandler) CreateProduct(w http.ResponseWriter, r *http.Request) {
	var req ProductRequest
	if err := middleware.DecodeAndValidate(r, &req); err != nil {
		h.logger.Debug("Product validation failed", zap.Error(err))
		middleware.HandleDecodeError(w, err)
		return
	}

	product, err := h.productService.Create(r.Context(), req.input())
	if err != nil {
		h.respondServiceError(w, err, "failed to create product")
		return
	}

	middleware.RespondWithJSON(w, http.StatusCreated, product)
}

// UpdateProduct handles PUT /api/admin/products/{id}
func (h *ProductHandler) UpdateProduct(w http.ResponseWriter, r *http.Request) {
	id, err := pathInt64(r, "id")
	if err != nil {
		middleware.RespondWithError(w, http.StatusBadRequest, err.Error())
		return
	}

	var req ProductRequest
	if err := middleware.DecodeAndValidate(r, &req); err != nil {
		h.logger.Debug("Product validation failed", zap.Error(err))
		middleware.HandleDecodeError(w, err)
		return
	}

	product, err := h.productService.Update(r.Context(), id, req.input())
	if err != nil {
		h.respondServiceError(w, err, "failed to update product")
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, product)
}

// DeleteProduct handles DELETE /api/admin/products/{id}
func (h *ProductHandler) DeleteProduct(w http.ResponseWriter, r *http.Request) {
	id, err := pathInt64(r, "id")
	if err != nil {
		middleware.RespondWithError(w, http.StatusBadRequest, err.Error())
		return
	}

	if err := h.productService.Delete(r.Context(), id); err != nil {
		h.respondServiceError(w, err, "failed to delete product")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *ProductHandler) respondServiceError(w http.ResponseWriter, err error, message string) {
	switch {
	case errors.Is(err, repository.ErrProductNotFound):
		middleware.RespondWithError(w, http.StatusNotFound, "product not found")
	case errors.Is(err, service.ErrInvalidCategory), errors.Is(err, service.ErrNegativePrice):
		middleware.RespondWithError(w, http.StatusBadRequest, err.Error())
	default:
		h.logger.Error("Product operation failed", zap.Error(err))
		middleware.RespondWithError(w, http.StatusInternalServerError, message)
	}
}
