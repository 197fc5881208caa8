// Package rates fetches hryvnia exchange rates from the Monobank public API.
package rates

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/sethvargo/go-retry"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// ISO 4217 numeric codes used by the upstream feed
const (
	codeUAH = 980
	codeUSD = 840
	codeEUR = 978
)

var currencyNames = map[int]string{
	codeUAH: "UAH",
	codeUSD: "USD",
	codeEUR: "EUR",
}

var ErrUpstream = errors.New("rates upstream error")

// Rate is the price of one unit of Currency in Base
type Rate struct {
	Currency  string          `json:"currency"`
	Base      string          `json:"base"`
	Buy       decimal.Decimal `json:"buy"`
	Sell      decimal.Decimal `json:"sell"`
	UpdatedAt time.Time       `json:"updated_at"`
}

// upstreamRate mirrors one element of GET /bank/currency
type upstreamRate struct {
	CurrencyCodeA int                 `json:"currencyCodeA"`
	CurrencyCodeB int                 `json:"currencyCodeB"`
	Date          int64               `json:"date"`
	RateBuy       decimal.NullDecimal `json:"rateBuy"`
	RateSell      decimal.NullDecimal `json:"rateSell"`
	RateCross     decimal.NullDecimal `json:"rateCross"`
}

// Client calls the rates endpoint with retries on throttling and server errors
type Client struct {
	baseURL    string
	httpClient *http.Client
	retries    uint64
	backoff    time.Duration
	logger     *zap.Logger
}

// NewClient creates a client. retries is the number of extra attempts after the first.
func NewClient(baseURL string, timeout time.Duration, retries uint64, logger *zap.Logger) *Client {
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: timeout},
		retries:    retries,
		backoff:    500 * time.Millisecond,
		logger:     logger,
	}
}

// Fetch returns USD and EUR rates against UAH
func (c *Client) Fetch(ctx context.Context) ([]Rate, error) {
	var raw []upstreamRate

	backoff := retry.WithMaxRetries(c.retries, retry.WithJitterPercent(20, retry.NewExponential(c.backoff)))

	err := retry.Do(ctx, backoff, func(ctx context.Context) error {
		body, err := c.get(ctx, "/bank/currency")
		if err != nil {
			return err
		}
		raw = raw[:0]
		if err := json.Unmarshal(body, &raw); err != nil {
			return fmt.Errorf("failed to decode rates: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return convert(raw), nil
}

func (c *Client) get(ctx context.Context, path string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Warn("Rates request failed", zap.Error(err))
		return nil, retry.RetryableError(fmt.Errorf("%w: %v", ErrUpstream, err))
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return nil, retry.RetryableError(fmt.Errorf("%w: reading body: %v", ErrUpstream, err))
	}

	switch {
	case resp.StatusCode == http.StatusOK:
		return body, nil
	case resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= http.StatusInternalServerError:
		c.logger.Warn("Rates upstream unavailable, retrying", zap.Int("status", resp.StatusCode))
		return nil, retry.RetryableError(fmt.Errorf("%w: status %d", ErrUpstream, resp.StatusCode))
	default:
		return nil, fmt.Errorf("%w: status %d", ErrUpstream, resp.StatusCode)
	}
}

// convert keeps the foreign/UAH pairs we price in. Sell falls back to the cross rate
// for pairs the bank quotes without buy/sell.
func convert(raw []upstreamRate) []Rate {
	out := make([]Rate, 0, 2)
	for _, r := range raw {
		if r.CurrencyCodeB != codeUAH {
			continue
		}
		name, ok := currencyNames[r.CurrencyCodeA]
		if !ok || r.CurrencyCodeA == codeUAH {
			continue
		}

		sell := r.RateSell
		if !sell.Valid || sell.Decimal.IsZero() {
			sell = r.RateCross
		}
		if !sell.Valid || !sell.Decimal.IsPositive() {
			continue
		}

		buy := r.RateBuy.Decimal
		if !r.RateBuy.Valid {
			buy = sell.Decimal
		}

		out = append(out, Rate{
			Currency:  name,
			Base:      "UAH",
			Buy:       buy,
			Sell:      sell.Decimal,
			UpdatedAt: time.Unix(r.Date, 0).UTC(),
		})
	}
	return out
}
