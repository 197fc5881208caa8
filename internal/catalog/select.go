// Package catalog filters and orders product listings in memory.
package catalog

import (
	"slices"

	"sharpshop/internal/domain"

	"github.com/shopspring/decimal"
	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

// SortKey selects the listing order
type SortKey string

const (
	SortPriceAsc  SortKey = "price-asc"
	SortPriceDesc SortKey = "price-desc"
	SortTitleAsc  SortKey = "title-asc"
	SortTitleDesc SortKey = "title-desc"
)

// Valid reports whether k is a known sort key
func (k SortKey) Valid() bool {
	switch k {
	case SortPriceAsc, SortPriceDesc, SortTitleAsc, SortTitleDesc:
		return true
	}
	return false
}

// Query describes a price window, an order and the locale used for title collation.
// The zero Locale collates with the root (language-neutral) order.
type Query struct {
	MinPrice decimal.Decimal
	MaxPrice decimal.Decimal
	Sort     SortKey
	Locale   language.Tag
}

// SelectProducts keeps products priced within [minPrice, maxPrice] and orders them by key.
// Titles are collated with the root locale.
func SelectProducts(products []domain.Product, minPrice, maxPrice decimal.Decimal, key SortKey) []domain.Product {
	return Select(products, Query{MinPrice: minPrice, MaxPrice: maxPrice, Sort: key})
}

// Select applies q to products and returns a fresh slice. The input is not modified.
// An inverted price window yields an empty result; an unknown sort key keeps input order.
func Select(products []domain.Product, q Query) []domain.Product {
	out := make([]domain.Product, 0, len(products))
	if q.MinPrice.GreaterThan(q.MaxPrice) {
		return out
	}

	for _, p := range products {
		if p.Price.LessThan(q.MinPrice) || p.Price.GreaterThan(q.MaxPrice) {
			continue
		}
		out = append(out, p)
	}

	switch q.Sort {
	case SortPriceAsc:
		slices.SortStableFunc(out, func(a, b domain.Product) int {
			return a.Price.Cmp(b.Price)
		})
	case SortPriceDesc:
		slices.SortStableFunc(out, func(a, b domain.Product) int {
			return b.Price.Cmp(a.Price)
		})
	case SortTitleAsc, SortTitleDesc:
		// collators carry scratch buffers, so each call gets its own
		c := collate.New(q.Locale)
		desc := q.Sort == SortTitleDesc
		slices.SortStableFunc(out, func(a, b domain.Product) int {
			if desc {
				return c.CompareString(b.Title, a.Title)
			}
			return c.CompareString(a.Title, b.Title)
		})
	}

	return out
}
