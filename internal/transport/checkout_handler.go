package transport

import (
	"errors"
	"net/http"

	"sharpshop/internal/delivery"
	"sharpshop/internal/middleware"
	"sharpshop/internal/repository"
	"sharpshop/internal/service"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// QuoteItemRequest is one cart line
type QuoteItemRequest struct {
	ProductID int64 `json:"product_id" validate:"required,gt=0"`
	Quantity  int   `json:"quantity" validate:"gte=1,lte=99"`
}

// QuoteRequest is the checkout quote payload
type QuoteRequest struct {
	Items    []QuoteItemRequest `json:"items" validate:"required,min=1,max=50,dive"`
	Country  string             `json:"country" validate:"required,max=3"`
	Tier     string             `json:"tier" validate:"omitempty,oneof=standard express"`
	Currency string             `json:"currency" validate:"omitempty,len=3,alpha"`
}

// CheckoutHandler prices carts
type CheckoutHandler struct {
	checkoutService service.CheckoutService
	logger          *zap.Logger
}

// NewCheckoutHandler creates a new CheckoutHandler
func NewCheckoutHandler(checkoutService service.CheckoutService, logger *zap.Logger) *CheckoutHandler {
	return &CheckoutHandler{
		checkoutService: checkoutService,
		logger:          logger,
	}
}

// RegisterRoutes registers checkout routes behind the rate limiter
func (h *CheckoutHandler) RegisterRoutes(r chi.Router, rateLimitMiddleware func(http.Handler) http.Handler) {
	r.With(rateLimitMiddleware).Post("/api/checkout/quote", h.CreateQuote)
}

// CreateQuote handles POST /api/checkout/quote
func (h *CheckoutHandler) CreateQuote(w http.ResponseWriter, r *http.Request) {
	var req QuoteRequest
	if err := middleware.DecodeAndValidate(r, &req); err != nil {
		h.logger.Debug("Quote validation failed", zap.Error(err))
		middleware.HandleDecodeError(w, err)
		return
	}

	items := make([]service.CartItem, len(req.Items))
	for i, item := range req.Items {
		items[i] = service.CartItem{ProductID: item.ProductID, Quantity: item.Quantity}
	}

	quote, err := h.checkoutService.Quote(r.Context(), service.QuoteRequest{
		Items:    items,
		Country:  req.Country,
		Tier:     delivery.Tier(req.Tier),
		Currency: req.Currency,
	})
	if err != nil {
		switch {
		case errors.Is(err, service.ErrShippingUnavailable):
			middleware.RespondWithErrorDetails(w, http.StatusUnprocessableEntity, "delivery to this destination is unavailable", map[string]any{
				"country": delivery.NormalizeCountry(req.Country),
			})
		case errors.Is(err, repository.ErrProductNotFound):
			middleware.RespondWithError(w, http.StatusNotFound, err.Error())
		case errors.Is(err, service.ErrEmptyCart),
			errors.Is(err, service.ErrInvalidQuantity),
			errors.Is(err, service.ErrInvalidTier),
			errors.Is(err, service.ErrUnsupportedCurrency):
			middleware.RespondWithError(w, http.StatusBadRequest, err.Error())
		case errors.Is(err, service.ErrRatesUnavailable):
			middleware.RespondWithError(w, http.StatusServiceUnavailable, "currency conversion is temporarily unavailable")
		default:
			h.logger.Error("Quote failed", zap.Error(err))
			middleware.RespondWithError(w, http.StatusInternalServerError, "failed to create quote")
		}
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, quote)
}
