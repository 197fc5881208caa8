package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"sharpshop/internal/cache"
	"sharpshop/internal/rates"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

var (
	ErrUnsupportedCurrency = errors.New("unsupported currency")
	ErrRatesUnavailable    = errors.New("exchange rates are unavailable")
)

// BaseCurrency is the currency catalog prices are stored in
const BaseCurrency = "USD"

// RatesFetcher loads current rates against UAH
type RatesFetcher interface {
	Fetch(ctx context.Context) ([]rates.Rate, error)
}

// RatesService defines access to exchange rates and price conversion
type RatesService interface {
	Latest(ctx context.Context) ([]rates.Rate, error)
	// Convert turns a USD amount into currency and returns the amount and the rate applied
	Convert(ctx context.Context, amount decimal.Decimal, currency string) (decimal.Decimal, decimal.Decimal, error)
	SupportedCurrencies() []string
}

type ratesService struct {
	fetcher RatesFetcher
	cache   *cache.Cache
	logger  *zap.Logger

	mu        sync.RWMutex
	lastKnown []rates.Rate
}

// NewRatesService caches upstream rates. When the upstream fails the last
// successfully fetched rates are served.
func NewRatesService(fetcher RatesFetcher, c *cache.Cache, logger *zap.Logger) RatesService {
	return &ratesService{
		fetcher: fetcher,
		cache:   c,
		logger:  logger,
	}
}

const ratesKey = "latest"

func (s *ratesService) Latest(ctx context.Context) ([]rates.Rate, error) {
	latest, err := cache.GetOrLoad(ctx, s.cache, ratesKey, s.fetcher.Fetch)
	if err == nil && len(latest) > 0 {
		s.mu.Lock()
		s.lastKnown = latest
		s.mu.Unlock()
		return latest, nil
	}

	s.mu.RLock()
	stale := s.lastKnown
	s.mu.RUnlock()

	if stale != nil {
		s.logger.Warn("Serving stale exchange rates", zap.Error(err))
		return stale, nil
	}

	if err == nil {
		err = errors.New("empty rates feed")
	}
	return nil, fmt.Errorf("%w: %v", ErrRatesUnavailable, err)
}

func (s *ratesService) Convert(ctx context.Context, amount decimal.Decimal, currency string) (decimal.Decimal, decimal.Decimal, error) {
	currency = strings.ToUpper(strings.TrimSpace(currency))
	if currency == "" || currency == BaseCurrency {
		return amount, decimal.NewFromInt(1), nil
	}
	if currency != "UAH" && currency != "EUR" {
		return decimal.Zero, decimal.Zero, fmt.Errorf("%w: %s", ErrUnsupportedCurrency, currency)
	}

	latest, err := s.Latest(ctx)
	if err != nil {
		return decimal.Zero, decimal.Zero, err
	}

	usd, ok := findRate(latest, BaseCurrency)
	if !ok {
		return decimal.Zero, decimal.Zero, fmt.Errorf("%w: no %s rate", ErrRatesUnavailable, BaseCurrency)
	}

	rate := usd.Sell
	if currency == "EUR" {
		eur, ok := findRate(latest, "EUR")
		if !ok {
			return decimal.Zero, decimal.Zero, fmt.Errorf("%w: no EUR rate", ErrRatesUnavailable)
		}
		// USD -> UAH -> EUR
		rate = usd.Sell.DivRound(eur.Sell, 6)
	}

	return amount.Mul(rate).Round(2), rate, nil
}

func (s *ratesService) SupportedCurrencies() []string {
	return []string{BaseCurrency, "UAH", "EUR"}
}

func findRate(list []rates.Rate, currency string) (rates.Rate, bool) {
	for _, r := range list {
		if r.Currency == currency {
			return r, true
		}
	}
	return rates.Rate{}, false
}
