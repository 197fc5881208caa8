package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"sharpshop/internal/delivery"
	"sharpshop/internal/domain"
	"sharpshop/internal/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

var (
	ErrEmptyCart           = errors.New("cart is empty")
	ErrInvalidQuantity     = errors.New("quantity must be positive")
	ErrShippingUnavailable = errors.New("delivery to this destination is unavailable")
)

// CartItem is one requested product line
type CartItem struct {
	ProductID int64
	Quantity  int
}

// QuoteRequest describes a cart and its destination
type QuoteRequest struct {
	Items    []CartItem
	Country  string
	Tier     delivery.Tier
	Currency string
}

// QuoteLine is a priced cart line
type QuoteLine struct {
	Product   domain.Product  `json:"product"`
	Quantity  int             `json:"quantity"`
	LineTotal decimal.Decimal `json:"line_total"`
}

// Conversion restates the totals in the requested display currency
type Conversion struct {
	Currency string          `json:"currency"`
	Rate     decimal.Decimal `json:"rate"`
	Subtotal decimal.Decimal `json:"subtotal"`
	Shipping decimal.Decimal `json:"shipping"`
	Total    decimal.Decimal `json:"total"`
}

// Quote is a priced cart. Amounts are in BaseCurrency.
type Quote struct {
	ID        uuid.UUID             `json:"quote_id"`
	Lines     []QuoteLine           `json:"lines"`
	Country   string                `json:"country"`
	Delivery  domain.DeliveryOption `json:"delivery"`
	Currency  string                `json:"currency"`
	Subtotal  decimal.Decimal       `json:"subtotal"`
	Shipping  decimal.Decimal       `json:"shipping"`
	Total     decimal.Decimal       `json:"total"`
	Converted *Conversion           `json:"converted,omitempty"`
	CreatedAt time.Time             `json:"created_at"`
}

// CheckoutService defines cart pricing
type CheckoutService interface {
	Quote(ctx context.Context, req QuoteRequest) (*Quote, error)
}

type checkoutService struct {
	productRepo repository.ProductRepository
	delivery    DeliveryService
	rates       RatesService
	logger      *zap.Logger
}

// NewCheckoutService creates a checkout service
func NewCheckoutService(productRepo repository.ProductRepository, deliveryService DeliveryService, ratesService RatesService, logger *zap.Logger) CheckoutService {
	return &checkoutService{
		productRepo: productRepo,
		delivery:    deliveryService,
		rates:       ratesService,
		logger:      logger,
	}
}

// Quote prices the cart. Repeated products are merged into one line.
// Destinations marked unavailable fail with ErrShippingUnavailable.
func (s *checkoutService) Quote(ctx context.Context, req QuoteRequest) (*Quote, error) {
	items, err := mergeItems(req.Items)
	if err != nil {
		return nil, err
	}

	shipping, err := s.delivery.Quote(req.Country, req.Tier)
	if err != nil {
		return nil, err
	}
	if !shipping.Available {
		s.logger.Info("Checkout blocked for destination", zap.String("country", req.Country))
		return nil, fmt.Errorf("%w: %s", ErrShippingUnavailable, delivery.NormalizeCountry(req.Country))
	}

	ids := make([]int64, len(items))
	for i, item := range items {
		ids[i] = item.ProductID
	}

	products, err := s.productRepo.FindByIDs(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("failed to load cart products: %w", err)
	}

	byID := make(map[int64]domain.Product, len(products))
	for _, p := range products {
		byID[p.ID] = p
	}

	quote := &Quote{
		ID:        uuid.New(),
		Lines:     make([]QuoteLine, 0, len(items)),
		Country:   delivery.NormalizeCountry(req.Country),
		Delivery:  shipping.Option,
		Currency:  BaseCurrency,
		Subtotal:  decimal.Zero,
		Shipping:  shipping.Price,
		CreatedAt: time.Now().UTC(),
	}

	for _, item := range items {
		product, ok := byID[item.ProductID]
		if !ok {
			return nil, fmt.Errorf("%w: %d", repository.ErrProductNotFound, item.ProductID)
		}

		lineTotal := product.Price.Mul(decimal.NewFromInt(int64(item.Quantity)))
		quote.Lines = append(quote.Lines, QuoteLine{
			Product:   product,
			Quantity:  item.Quantity,
			LineTotal: lineTotal,
		})
		quote.Subtotal = quote.Subtotal.Add(lineTotal)
	}
	quote.Total = quote.Subtotal.Add(quote.Shipping)

	if currency := strings.ToUpper(strings.TrimSpace(req.Currency)); currency != "" && currency != BaseCurrency {
		conv, err := s.convert(ctx, quote, currency)
		if err != nil {
			return nil, err
		}
		quote.Converted = conv
	}

	s.logger.Debug("Quote computed",
		zap.String("quote_id", quote.ID.String()),
		zap.String("country", quote.Country),
		zap.String("total", quote.Total.StringFixed(2)),
	)

	return quote, nil
}

func (s *checkoutService) convert(ctx context.Context, q *Quote, currency string) (*Conversion, error) {
	subtotal, rate, err := s.rates.Convert(ctx, q.Subtotal, currency)
	if err != nil {
		return nil, err
	}
	shipping, _, err := s.rates.Convert(ctx, q.Shipping, currency)
	if err != nil {
		return nil, err
	}

	return &Conversion{
		Currency: currency,
		Rate:     rate,
		Subtotal: subtotal,
		Shipping: shipping,
		Total:    subtotal.Add(shipping),
	}, nil
}

func mergeItems(items []CartItem) ([]CartItem, error) {
	if len(items) == 0 {
		return nil, ErrEmptyCart
	}

	merged := make([]CartItem, 0, len(items))
	index := make(map[int64]int, len(items))

	for _, item := range items {
		if item.Quantity <= 0 {
			return nil, fmt.Errorf("%w: product %d", ErrInvalidQuantity, item.ProductID)
		}
		if i, ok := index[item.ProductID]; ok {
			merged[i].Quantity += item.Quantity
			continue
		}
		index[item.ProductID] = len(merged)
		merged = append(merged, item)
	}

	return merged, nil
}
