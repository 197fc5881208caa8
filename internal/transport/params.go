package transport

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"
)

// pathInt64 parses a positive integer URL parameter
func pathInt64(r *http.Request, name string) (int64, error) {
	raw := chi.URLParam(r, name)
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid %s %q", name, raw)
	}
	return id, nil
}

// queryDecimal parses an optional decimal query parameter
func queryDecimal(r *http.Request, name string) (decimal.NullDecimal, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return decimal.NullDecimal{}, nil
	}
	d, err := decimal.NewFromString(raw)
	if err != nil {
		return decimal.NullDecimal{}, fmt.Errorf("invalid %s %q", name, raw)
	}
	return decimal.NewNullDecimal(d), nil
}
