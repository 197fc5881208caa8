package delivery

import (
	"sharpshop/internal/domain"

	"github.com/shopspring/decimal"
)

func usd(s string) domain.DeliveryPrice {
	return domain.Amount(decimal.RequireFromString(s))
}

func opt(service string, price domain.DeliveryPrice, estimate string) domain.DeliveryOption {
	return domain.DeliveryOption{Service: service, Price: price, Estimate: estimate}
}

// DefaultEntries is the shop's shipping table as shipped with the binary.
// The database seed mirrors it.
func DefaultEntries() map[string][]domain.DeliveryOption {
	return map[string][]domain.DeliveryOption{
		"UA": {
			opt("Nova Poshta standard", domain.Free(), "1-3 days"),
			opt("Nova Poshta express courier", usd("5.00"), "1 day"),
		},
		"PL": {
			opt("Standard international", usd("12.00"), "5-8 days"),
			opt("Express DHL", usd("30.00"), "2-4 days"),
		},
		"DE": {
			opt("Standard international", usd("14.00"), "5-9 days"),
			opt("Express DHL", usd("35.00"), "2-4 days"),
		},
		"GB": {
			opt("Standard international", usd("18.00"), "7-12 days"),
			opt("Express DHL", usd("40.00"), "3-5 days"),
		},
		"US": {
			opt("Standard USPS", usd("20.00"), "10-18 days"),
			opt("Express DHL", usd("45.00"), "3-6 days"),
		},
		"CA": {
			opt("Ukrposhta international parcel", usd("22.00"), "12-25 days"),
		},
		"RU": {
			opt("Standard", domain.Unavailable(), "-"),
			opt("Express", domain.Unavailable(), "-"),
		},
		"BY": {
			opt("Standard", domain.Unavailable(), "-"),
			opt("Express", domain.Unavailable(), "-"),
		},
		domain.RestOfWorld: {
			opt("Standard international", usd("25.00"), "10-21 days"),
			opt("Express international", usd("50.00"), "3-7 days"),
		},
	}
}

var defaultTable = newDefaultTable()

func newDefaultTable() *Table {
	entries := DefaultEntries()
	t := &Table{entries: make(map[string][]domain.DeliveryOption, len(entries))}
	for code, options := range entries {
		for i := range options {
			options[i].CountryCode = code
		}
		t.entries[code] = options
	}
	return t
}

// DefaultTable returns the built-in table
func DefaultTable() *Table {
	return defaultTable
}
