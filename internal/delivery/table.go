// Package delivery resolves shipping prices from an immutable per-country table.
package delivery

import (
	"slices"
	"strings"

	"sharpshop/internal/domain"

	"github.com/shopspring/decimal"
)

// Tier is the shipping speed class
type Tier string

const (
	TierStandard Tier = "standard"
	TierExpress  Tier = "express"
)

// Valid reports whether t is a known tier
func (t Tier) Valid() bool {
	return t == TierStandard || t == TierExpress
}

// Table maps normalized country codes to their ordered delivery options.
// A Table is never mutated after construction and always has a non-empty
// rest-of-world entry, so every lookup resolves.
type Table struct {
	entries map[string][]domain.DeliveryOption
}

// NewTable copies entries into a Table. Keys are normalized, empty lists are
// dropped and a missing rest-of-world entry is taken from the default table.
func NewTable(entries map[string][]domain.DeliveryOption) *Table {
	t := &Table{entries: make(map[string][]domain.DeliveryOption, len(entries)+1)}

	for code, options := range entries {
		if len(options) == 0 {
			continue
		}
		key := NormalizeCountry(code)
		copied := make([]domain.DeliveryOption, len(options))
		for i, o := range options {
			o.CountryCode = key
			copied[i] = o
		}
		t.entries[key] = copied
	}

	if _, ok := t.entries[domain.RestOfWorld]; !ok {
		t.entries[domain.RestOfWorld] = slices.Clone(defaultTable.entries[domain.RestOfWorld])
	}

	return t
}

// NormalizeCountry trims and upper-cases a country code
func NormalizeCountry(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}

// HasFallback reports whether entries carries its own rest-of-world list
func HasFallback(entries map[string][]domain.DeliveryOption) bool {
	for code, options := range entries {
		if NormalizeCountry(code) == domain.RestOfWorld && len(options) > 0 {
			return true
		}
	}
	return false
}

// Options returns the option list for country, falling back to rest-of-world.
// The returned slice is a copy.
func (t *Table) Options(country string) []domain.DeliveryOption {
	return slices.Clone(t.lookup(country))
}

// Countries returns the explicitly mapped country codes, sorted, rest-of-world included
func (t *Table) Countries() []string {
	codes := make([]string, 0, len(t.entries))
	for code := range t.entries {
		codes = append(codes, code)
	}
	slices.Sort(codes)
	return codes
}

// Option picks the first option whose service label mentions the tier,
// or the first option of the list when none does.
func (t *Table) Option(country string, tier Tier) domain.DeliveryOption {
	options := t.lookup(country)
	want := strings.ToLower(string(tier))

	for _, o := range options {
		if strings.Contains(strings.ToLower(o.Service), want) {
			return o
		}
	}
	return options[0]
}

// Resolve returns the shipping price for country and tier. ok is false when the
// destination cannot be shipped to; the free sentinel resolves to zero.
func (t *Table) Resolve(country string, tier Tier) (price decimal.Decimal, ok bool) {
	selected := t.Option(country, tier)

	switch selected.Price.Kind {
	case domain.PriceUnavailable:
		return decimal.Zero, false
	case domain.PriceFree:
		return decimal.Zero, true
	default:
		return selected.Price.Amount, true
	}
}

func (t *Table) lookup(country string) []domain.DeliveryOption {
	if t == nil {
		t = defaultTable
	}
	if options, ok := t.entries[NormalizeCountry(country)]; ok {
		return options
	}
	return t.entries[domain.RestOfWorld]
}

// ResolveShippingPrice resolves against the built-in shop table
func ResolveShippingPrice(country string, tier Tier) (decimal.Decimal, bool) {
	return defaultTable.Resolve(country, tier)
}
