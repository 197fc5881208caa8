package domain

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// RestOfWorld is the reserved country key used when a country has no entry
const RestOfWorld = "*"

// PriceKind distinguishes a literal amount from the free/unavailable sentinels
type PriceKind string

const (
	PriceAmount      PriceKind = "amount"
	PriceFree        PriceKind = "free"
	PriceUnavailable PriceKind = "unavailable"
)

// DeliveryPrice is either a non-negative amount or one of the sentinels.
// In JSON it is a decimal string, "free" or "unavailable".
type DeliveryPrice struct {
	Kind   PriceKind
	Amount decimal.Decimal
}

// Amount returns a literal delivery price
func Amount(d decimal.Decimal) DeliveryPrice {
	return DeliveryPrice{Kind: PriceAmount, Amount: d}
}

// Free returns the zero-cost sentinel
func Free() DeliveryPrice {
	return DeliveryPrice{Kind: PriceFree}
}

// Unavailable returns the no-shipping sentinel
func Unavailable() DeliveryPrice {
	return DeliveryPrice{Kind: PriceUnavailable}
}

func (p DeliveryPrice) String() string {
	if p.Kind == PriceAmount {
		return p.Amount.StringFixed(2)
	}
	return string(p.Kind)
}

// MarshalJSON encodes sentinels as bare words and amounts as decimal strings
func (p DeliveryPrice) MarshalJSON() ([]byte, error) {
	return json.Marshal(p.String())
}

// UnmarshalJSON accepts "free", "unavailable", a decimal string or a JSON number
func (p *DeliveryPrice) UnmarshalJSON(data []byte) error {
	var raw string
	if err := json.Unmarshal(data, &raw); err != nil {
		// plain JSON number
		raw = string(data)
	}

	parsed, err := ParseDeliveryPrice(raw)
	if err != nil {
		return err
	}
	*p = parsed
	return nil
}

// ParseDeliveryPrice parses the textual form used in JSON and in the admin API
func ParseDeliveryPrice(s string) (DeliveryPrice, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case string(PriceFree):
		return Free(), nil
	case string(PriceUnavailable):
		return Unavailable(), nil
	}

	amount, err := decimal.NewFromString(strings.TrimSpace(s))
	if err != nil {
		return DeliveryPrice{}, fmt.Errorf("invalid delivery price %q: %w", s, err)
	}
	if amount.IsNegative() {
		return DeliveryPrice{}, fmt.Errorf("invalid delivery price %q: must not be negative", s)
	}
	return Amount(amount), nil
}

// DeliveryOption is one shipping service offered for a country
type DeliveryOption struct {
	CountryCode string        `json:"country_code"`
	Service     string        `json:"service"`
	Price       DeliveryPrice `json:"price"`
	Estimate    string        `json:"estimate"`
}
