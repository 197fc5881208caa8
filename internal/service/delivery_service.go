package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync/atomic"

	"sharpshop/internal/delivery"
	"sharpshop/internal/domain"
	"sharpshop/internal/repository"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

var (
	ErrInvalidCountryCode     = errors.New("country code must be two letters or \"*\"")
	ErrInvalidDeliveryOptions = errors.New("a country needs one or two delivery options")
	ErrRestOfWorldRequired    = errors.New("the rest-of-world entry cannot be removed")
	ErrInvalidTier            = errors.New("unknown delivery tier")
)

// maxOptionsPerCountry is the standard + express pair
const maxOptionsPerCountry = 2

// ShippingQuote is the option chosen for a destination and its resolved price
type ShippingQuote struct {
	Option    domain.DeliveryOption
	Price     decimal.Decimal
	Available bool
}

// DeliveryService serves shipping prices from an in-memory snapshot of the stored table
type DeliveryService interface {
	Reload(ctx context.Context) error
	Countries() []string
	Options(country string) []domain.DeliveryOption
	Quote(country string, tier delivery.Tier) (ShippingQuote, error)
	ReplaceCountry(ctx context.Context, country string, options []domain.DeliveryOption) error
	DeleteCountry(ctx context.Context, country string) error
}

type deliveryService struct {
	deliveryRepo repository.DeliveryRepository
	table        atomic.Pointer[delivery.Table]
	logger       *zap.Logger
}

// NewDeliveryService starts with the built-in table until Reload succeeds
func NewDeliveryService(deliveryRepo repository.DeliveryRepository, logger *zap.Logger) DeliveryService {
	s := &deliveryService{
		deliveryRepo: deliveryRepo,
		logger:       logger,
	}
	s.table.Store(delivery.DefaultTable())
	return s
}

// Reload swaps in a fresh snapshot. On failure the previous snapshot stays active.
func (s *deliveryService) Reload(ctx context.Context) error {
	entries, err := s.deliveryRepo.ListAll(ctx)
	if err != nil {
		return fmt.Errorf("failed to load delivery table: %w", err)
	}

	if !delivery.HasFallback(entries) {
		s.logger.Warn("Stored delivery table has no rest-of-world entry, using the built-in one")
	}

	table := delivery.NewTable(entries)
	s.table.Store(table)

	s.logger.Info("Delivery table loaded", zap.Int("countries", len(table.Countries())))
	return nil
}

func (s *deliveryService) Countries() []string {
	return s.table.Load().Countries()
}

func (s *deliveryService) Options(country string) []domain.DeliveryOption {
	return s.table.Load().Options(country)
}

// Quote picks the option for tier; an empty tier means standard
func (s *deliveryService) Quote(country string, tier delivery.Tier) (ShippingQuote, error) {
	if tier == "" {
		tier = delivery.TierStandard
	}
	if !tier.Valid() {
		return ShippingQuote{}, fmt.Errorf("%w: %q", ErrInvalidTier, tier)
	}

	// both lookups must see the same snapshot
	table := s.table.Load()
	price, ok := table.Resolve(country, tier)

	return ShippingQuote{
		Option:    table.Option(country, tier),
		Price:     price,
		Available: ok,
	}, nil
}

func (s *deliveryService) ReplaceCountry(ctx context.Context, country string, options []domain.DeliveryOption) error {
	code, err := validCountryKey(country)
	if err != nil {
		return err
	}

	if len(options) == 0 || len(options) > maxOptionsPerCountry {
		return ErrInvalidDeliveryOptions
	}
	for _, o := range options {
		if strings.TrimSpace(o.Service) == "" {
			return fmt.Errorf("%w: service label is required", ErrInvalidDeliveryOptions)
		}
		if o.Price.Kind == domain.PriceAmount && o.Price.Amount.IsNegative() {
			return fmt.Errorf("%w: negative price", ErrInvalidDeliveryOptions)
		}
	}

	if err := s.deliveryRepo.ReplaceCountry(ctx, code, options); err != nil {
		return fmt.Errorf("failed to save delivery options: %w", err)
	}

	s.logger.Info("Delivery options replaced", zap.String("country", code), zap.Int("options", len(options)))
	return s.Reload(ctx)
}

func (s *deliveryService) DeleteCountry(ctx context.Context, country string) error {
	code, err := validCountryKey(country)
	if err != nil {
		return err
	}
	if code == domain.RestOfWorld {
		return ErrRestOfWorldRequired
	}

	if err := s.deliveryRepo.DeleteCountry(ctx, code); err != nil {
		if errors.Is(err, repository.ErrDeliveryCountryNotFound) {
			return err
		}
		return fmt.Errorf("failed to delete delivery options: %w", err)
	}

	s.logger.Info("Delivery options removed", zap.String("country", code))
	return s.Reload(ctx)
}

func validCountryKey(country string) (string, error) {
	code := delivery.NormalizeCountry(country)
	if code == domain.RestOfWorld {
		return code, nil
	}
	if len(code) != 2 || code[0] < 'A' || code[0] > 'Z' || code[1] < 'A' || code[1] > 'Z' {
		return "", fmt.Errorf("%w: %q", ErrInvalidCountryCode, country)
	}
	return code, nil
}
