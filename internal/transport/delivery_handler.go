package transport

import (
	"errors"
	"net/http"

	"sharpshop/internal/delivery"
	"sharpshop/internal/domain"
	"sharpshop/internal/middleware"
	"sharpshop/internal/repository"
	"sharpshop/internal/service"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// DeliveryOptionsResponse lists the options for a destination.
// ResolvedFrom is "*" when the country has no entry of its own.
type DeliveryOptionsResponse struct {
	Country      string                  `json:"country"`
	ResolvedFrom string                  `json:"resolved_from"`
	Options      []domain.DeliveryOption `json:"options"`
}

// DeliveryPriceResponse is a resolved shipping price. Price is omitted when unavailable.
type DeliveryPriceResponse struct {
	Country   string `json:"country"`
	Tier      string `json:"tier"`
	Service   string `json:"service"`
	Estimate  string `json:"estimate"`
	Price     string `json:"price,omitempty"`
	Available bool   `json:"available"`
}

// DeliveryOptionRequest is one option of the admin payload
type DeliveryOptionRequest struct {
	Service  string                `json:"service" validate:"required,max=120"`
	Price    *domain.DeliveryPrice `json:"price" validate:"required"`
	Estimate string                `json:"estimate" validate:"max=60"`
}

// ReplaceDeliveryRequest replaces every option of a country
type ReplaceDeliveryRequest struct {
	Options []DeliveryOptionRequest `json:"options" validate:"required,min=1,max=2,dive"`
}

// DeliveryHandler serves shipping options and prices
type DeliveryHandler struct {
	deliveryService service.DeliveryService
	logger          *zap.Logger
}

// NewDeliveryHandler creates a new DeliveryHandler
func NewDeliveryHandler(deliveryService service.DeliveryService, logger *zap.Logger) *DeliveryHandler {
	return &DeliveryHandler{
		deliveryService: deliveryService,
		logger:          logger,
	}
}

// RegisterRoutes registers public delivery routes and the admin table editor
func (h *DeliveryHandler) RegisterRoutes(r chi.Router, authMiddleware, adminMiddleware func(http.Handler) http.Handler) {
	r.Route("/api/delivery", func(r chi.Router) {
		r.Get("/", h.ListCountries)
		r.Get("/{country}", h.GetOptions)
		r.Get("/{country}/price", h.GetPrice)
	})

	r.Route("/api/admin/delivery", func(r chi.Router) {
		r.Use(authMiddleware)
		r.Use(adminMiddleware)

		r.Put("/{country}", h.ReplaceCountry)
		r.Delete("/{country}", h.DeleteCountry)
	})
}

// ListCountries handles GET /api/delivery
func (h *DeliveryHandler) ListCountries(w http.ResponseWriter, r *http.Request) {
	middleware.RespondWithJSON(w, http.StatusOK, map[string]any{
		"countries": h.deliveryService.Countries(),
	})
}

// GetOptions handles GET /api/delivery/{country}
func (h *DeliveryHandler) GetOptions(w http.ResponseWriter, r *http.Request) {
	country := delivery.NormalizeCountry(chi.URLParam(r, "country"))
	options := h.deliveryService.Options(country)

	resp := DeliveryOptionsResponse{
		Country:      country,
		ResolvedFrom: country,
		Options:      options,
	}
	if len(options) > 0 {
		resp.ResolvedFrom = options[0].CountryCode
	}

	middleware.RespondWithJSON(w, http.StatusOK, resp)
}

// GetPrice handles GET /api/delivery/{country}/price?tier=standard|express
func (h *DeliveryHandler) GetPrice(w http.ResponseWriter, r *http.Request) {
	country := delivery.NormalizeCountry(chi.URLParam(r, "country"))
	tier := delivery.Tier(r.URL.Query().Get("tier"))
	if tier == "" {
		tier = delivery.TierStandard
	}

	quote, err := h.deliveryService.Quote(country, tier)
	if err != nil {
		middleware.RespondWithError(w, http.StatusBadRequest, err.Error())
		return
	}

	resp := DeliveryPriceResponse{
		Country:   country,
		Tier:      string(tier),
		Service:   quote.Option.Service,
		Estimate:  quote.Option.Estimate,
		Available: quote.Available,
	}
	if quote.Available {
		resp.Price = quote.Price.StringFixed(2)
	}

	middleware.RespondWithJSON(w, http.StatusOK, resp)
}

// ReplaceCountry handles PUT /api/admin/delivery/{country}
func (h *DeliveryHandler) ReplaceCountry(w http.ResponseWriter, r *http.Request) {
	var req ReplaceDeliveryRequest
	if err := middleware.DecodeAndValidate(r, &req); err != nil {
		h.logger.Debug("Delivery options validation failed", zap.Error(err))
		middleware.HandleDecodeError(w, err)
		return
	}

	options := make([]domain.DeliveryOption, len(req.Options))
	for i, o := range req.Options {
		options[i] = domain.DeliveryOption{
			Service:  o.Service,
			Price:    *o.Price,
			Estimate: o.Estimate,
		}
	}

	country := chi.URLParam(r, "country")
	if err := h.deliveryService.ReplaceCountry(r.Context(), country, options); err != nil {
		h.respondServiceError(w, err)
		return
	}

	code := delivery.NormalizeCountry(country)
	middleware.RespondWithJSON(w, http.StatusOK, DeliveryOptionsResponse{
		Country:      code,
		ResolvedFrom: code,
		Options:      h.deliveryService.Options(code),
	})
}

// DeleteCountry handles DELETE /api/admin/delivery/{country}
func (h *DeliveryHandler) DeleteCountry(w http.ResponseWriter, r *http.Request) {
	if err := h.deliveryService.DeleteCountry(r.Context(), chi.URLParam(r, "country")); err != nil {
		h.respondServiceError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *DeliveryHandler) respondServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, service.ErrInvalidCountryCode), errors.Is(err, service.ErrInvalidDeliveryOptions):
		middleware.RespondWithError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, service.ErrRestOfWorldRequired):
		middleware.RespondWithError(w, http.StatusConflict, err.Error())
	case errors.Is(err, repository.ErrDeliveryCountryNotFound):
		middleware.RespondWithError(w, http.StatusNotFound, "country has no delivery options")
	default:
		h.logger.Error("Delivery table update failed", zap.Error(err))
		middleware.RespondWithError(w, http.StatusInternalServerError, "failed to update delivery options")
	}
}
