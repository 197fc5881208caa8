package transport

import (
	"net/http"

	"sharpshop/internal/middleware"
	"sharpshop/internal/rates"
	"sharpshop/internal/service"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// RatesResponse lists the exchange rates used for display prices
type RatesResponse struct {
	Base       string       `json:"base"`
	Rates      []rates.Rate `json:"rates"`
	Currencies []string     `json:"currencies"`
}

// RatesHandler serves exchange rates
type RatesHandler struct {
	ratesService service.RatesService
	logger       *zap.Logger
}

// NewRatesHandler creates a new RatesHandler
func NewRatesHandler(ratesService service.RatesService, logger *zap.Logger) *RatesHandler {
	return &RatesHandler{
		ratesService: ratesService,
		logger:       logger,
	}
}

func (h *RatesHandler) RegisterRoutes(r chi.Router) {
	r.Get("/api/rates", h.GetRates)
}

// GetRates handles GET /api/rates
func (h *RatesHandler) GetRates(w http.ResponseWriter, r *http.Request) {
	latest, err := h.ratesService.Latest(r.Context())
	if err != nil {
		h.logger.Warn("Exchange rates unavailable", zap.Error(err))
		middleware.RespondWithError(w, http.StatusServiceUnavailable, "exchange rates are unavailable")
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, RatesResponse{
		Base:       "UAH",
		Rates:      latest,
		Currencies: h.ratesService.SupportedCurrencies(),
	})
}
