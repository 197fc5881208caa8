package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"sharpshop/internal/domain"

	"github.com/shopspring/decimal"
)

var (
	ErrDeliveryCountryNotFound = errors.New("delivery country not found")
)

// DeliveryRepository defines the interface for the per-country shipping table
type DeliveryRepository interface {
	ListAll(ctx context.Context) (map[string][]domain.DeliveryOption, error)
	ListByCountry(ctx context.Context, countryCode string) ([]domain.DeliveryOption, error)
	ReplaceCountry(ctx context.Context, countryCode string, options []domain.DeliveryOption) error
	DeleteCountry(ctx context.Context, countryCode string) error
}

type deliveryRepository struct {
	db *sql.DB
}

// NewDeliveryRepository creates a new instance of DeliveryRepository
func NewDeliveryRepository(db *sql.DB) DeliveryRepository {
	return &deliveryRepository{db: db}
}

const deliveryColumns = `country_code, service, price_kind, amount, estimate`

func scanDeliveryOption(row rowScanner) (domain.DeliveryOption, error) {
	var (
		option domain.DeliveryOption
		kind   string
		amount decimal.NullDecimal
	)
	if err := row.Scan(&option.CountryCode, &option.Service, &kind, &amount, &option.Estimate); err != nil {
		return option, err
	}

	switch domain.PriceKind(kind) {
	case domain.PriceFree:
		option.Price = domain.Free()
	case domain.PriceUnavailable:
		option.Price = domain.Unavailable()
	case domain.PriceAmount:
		if !amount.Valid {
			return option, fmt.Errorf("delivery option %s/%q has no amount", option.CountryCode, option.Service)
		}
		option.Price = domain.Amount(amount.Decimal)
	default:
		return option, fmt.Errorf("unknown delivery price kind %q", kind)
	}

	return option, nil
}

// ListAll loads the whole table grouped by country, options in position order
func (r *deliveryRepository) ListAll(ctx context.Context) (map[string][]domain.DeliveryOption, error) {
	query := `SELECT ` + deliveryColumns + ` FROM delivery_options ORDER BY country_code, position`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list delivery options: %w", err)
	}
	defer rows.Close()

	table := map[string][]domain.DeliveryOption{}
	for rows.Next() {
		option, err := scanDeliveryOption(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan delivery option: %w", err)
		}
		table[option.CountryCode] = append(table[option.CountryCode], option)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating delivery options: %w", err)
	}

	return table, nil
}

// ListByCountry returns the stored options of one country without fallback
func (r *deliveryRepository) ListByCountry(ctx context.Context, countryCode string) ([]domain.DeliveryOption, error) {
	query := `SELECT ` + deliveryColumns + ` FROM delivery_options WHERE country_code = $1 ORDER BY position`

	rows, err := r.db.QueryContext(ctx, query, countryCode)
	if err != nil {
		return nil, fmt.Errorf("failed to list delivery options: %w", err)
	}
	defer rows.Close()

	options := []domain.DeliveryOption{}
	for rows.Next() {
		option, err := scanDeliveryOption(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan delivery option: %w", err)
		}
		options = append(options, option)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating delivery options: %w", err)
	}

	if len(options) == 0 {
		return nil, ErrDeliveryCountryNotFound
	}

	return options, nil
}

// ReplaceCountry swaps a country's options atomically
func (r *deliveryRepository) ReplaceCountry(ctx context.Context, countryCode string, options []domain.DeliveryOption) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM delivery_options WHERE country_code = $1`, countryCode); err != nil {
		return fmt.Errorf("failed to clear delivery options: %w", err)
	}

	insert := `
		INSERT INTO delivery_options (country_code, position, service, price_kind, amount, estimate)
		VALUES ($1, $2, $3, $4, $5, $6)
	`
	for i, option := range options {
		amount := decimal.NullDecimal{}
		if option.Price.Kind == domain.PriceAmount {
			amount = decimal.NewNullDecimal(option.Price.Amount)
		}

		_, err := tx.ExecContext(ctx, insert,
			countryCode,
			i,
			option.Service,
			string(option.Price.Kind),
			amount,
			option.Estimate,
		)
		if err != nil {
			return fmt.Errorf("failed to insert delivery option: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit delivery options: %w", err)
	}

	return nil
}

// DeleteCountry removes every option of a country
func (r *deliveryRepository) DeleteCountry(ctx context.Context, countryCode string) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM delivery_options WHERE country_code = $1`, countryCode)
	if err != nil {
		return fmt.Errorf("failed to delete delivery options: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rowsAffected == 0 {
		return ErrDeliveryCountryNotFound
	}

	return nil
}
