package transport

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sort"
	"sync"
	"testing"
	"time"

	"sharpshop/internal/domain"
	"sharpshop/internal/middleware"
	"sharpshop/internal/rates"
	"sharpshop/internal/repository"
	"sharpshop/internal/service"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

var sampleUserID = uuid.MustParse("5b0c7a3e-4d2f-4f0e-9a51-2c1d7f3b9e10")

// withUser stands in for the auth middleware
func withUser(id uuid.UUID) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := context.WithValue(r.Context(), middleware.UserIDKey, id)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func passThrough(next http.Handler) http.Handler { return next }

func doJSON(t *testing.T, router http.Handler, method, target string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		switch b := body.(type) {
		case string:
			buf.WriteString(b)
		default:
			if err := json.NewEncoder(&buf).Encode(b); err != nil {
				t.Fatalf("failed to encode body: %v", err)
			}
		}
	}

	req := httptest.NewRequest(method, target, &buf)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) middleware.ErrorResponse {
	t.Helper()
	var resp middleware.ErrorResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("response is not an error envelope: %v (%s)", err, rec.Body.String())
	}
	return resp
}

func newRouter() chi.Router {
	return chi.NewRouter()
}

func testLogger() *zap.Logger {
	return zap.NewNop()
}

// memoryProductRepo is an in-memory repository.ProductRepository
type memoryProductRepo struct {
	mu       sync.Mutex
	products map[int64]*domain.Product
	nextID   int64
}

func newMemoryProductRepo(products ...domain.Product) *memoryProductRepo {
	m := &memoryProductRepo{products: make(map[int64]*domain.Product)}
	for i := range products {
		p := products[i]
		m.products[p.ID] = &p
		if p.ID > m.nextID {
			m.nextID = p.ID
		}
	}
	return m
}

func (m *memoryProductRepo) Create(ctx context.Context, product *domain.Product) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.nextID++
	product.ID = m.nextID
	p := *product
	m.products[p.ID] = &p
	return nil
}

func (m *memoryProductRepo) Update(ctx context.Context, product *domain.Product) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.products[product.ID]; !ok {
		return repository.ErrProductNotFound
	}
	p := *product
	m.products[p.ID] = &p
	return nil
}

func (m *memoryProductRepo) Delete(ctx context.Context, id int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.products[id]; !ok {
		return repository.ErrProductNotFound
	}
	delete(m.products, id)
	return nil
}

func (m *memoryProductRepo) FindByID(ctx context.Context, id int64) (*domain.Product, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.products[id]
	if !ok {
		return nil, repository.ErrProductNotFound
	}
	cp := *p
	return &cp, nil
}

func (m *memoryProductRepo) FindByIDs(ctx context.Context, ids []int64) ([]domain.Product, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []domain.Product
	for _, id := range ids {
		if p, ok := m.products[id]; ok {
			out = append(out, *p)
		}
	}
	return out, nil
}

func (m *memoryProductRepo) List(ctx context.Context, filter repository.ProductFilter) ([]domain.Product, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]domain.Product, 0, len(m.products))
	for _, p := range m.products {
		if filter.Category != "" && p.Category != filter.Category {
			continue
		}
		out = append(out, *p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

// memoryDeliveryRepo is an in-memory repository.DeliveryRepository
type memoryDeliveryRepo struct {
	mu      sync.Mutex
	entries map[string][]domain.DeliveryOption
}

func newMemoryDeliveryRepo(entries map[string][]domain.DeliveryOption) *memoryDeliveryRepo {
	m := &memoryDeliveryRepo{entries: make(map[string][]domain.DeliveryOption)}
	for code, options := range entries {
		m.entries[code] = stamp(code, options)
	}
	return m
}

func stamp(code string, options []domain.DeliveryOption) []domain.DeliveryOption {
	out := make([]domain.DeliveryOption, len(options))
	for i, o := range options {
		o.CountryCode = code
		out[i] = o
	}
	return out
}

func (m *memoryDeliveryRepo) ListAll(ctx context.Context) (map[string][]domain.DeliveryOption, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make(map[string][]domain.DeliveryOption, len(m.entries))
	for code, options := range m.entries {
		out[code] = append([]domain.DeliveryOption(nil), options...)
	}
	return out, nil
}

func (m *memoryDeliveryRepo) ListByCountry(ctx context.Context, countryCode string) ([]domain.DeliveryOption, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	options, ok := m.entries[countryCode]
	if !ok {
		return nil, repository.ErrDeliveryCountryNotFound
	}
	return append([]domain.DeliveryOption(nil), options...), nil
}

func (m *memoryDeliveryRepo) ReplaceCountry(ctx context.Context, countryCode string, options []domain.DeliveryOption) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries[countryCode] = stamp(countryCode, options)
	return nil
}

func (m *memoryDeliveryRepo) DeleteCountry(ctx context.Context, countryCode string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.entries[countryCode]; !ok {
		return repository.ErrDeliveryCountryNotFound
	}
	delete(m.entries, countryCode)
	return nil
}

// stubRates serves a fixed USD/EUR rate set, or fails when err is set
type stubRates struct {
	err error
}

func (s stubRates) Latest(ctx context.Context) ([]rates.Rate, error) {
	if s.err != nil {
		return nil, s.err
	}
	return sampleRates(), nil
}

func (s stubRates) Convert(ctx context.Context, amount decimal.Decimal, currency string) (decimal.Decimal, decimal.Decimal, error) {
	if s.err != nil {
		return decimal.Zero, decimal.Zero, s.err
	}
	switch currency {
	case "USD":
		return amount, decimal.NewFromInt(1), nil
	case "UAH":
		rate := decimal.RequireFromString("41.5")
		return amount.Mul(rate).Round(2), rate, nil
	}
	return decimal.Zero, decimal.Zero, service.ErrUnsupportedCurrency
}

func (s stubRates) SupportedCurrencies() []string {
	return []string{"USD", "UAH", "EUR"}
}

func sampleRates() []rates.Rate {
	now := time.Date(2026, 10, 1, 9, 0, 0, 0, time.UTC)
	return []rates.Rate{
		{Currency: "USD", Base: "UAH", Buy: price("41.10"), Sell: price("41.50"), UpdatedAt: now},
		{Currency: "EUR", Base: "UAH", Buy: price("47.80"), Sell: price("48.40"), UpdatedAt: now},
	}
}

func price(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func sampleProducts() []domain.Product {
	return []domain.Product{
		{ID: 1, Title: "Whetstone 1000/6000", Price: price("24.50"), Category: domain.CategoryStone, Images: []string{}},
		{ID: 2, Title: "Guided sharpener", Price: price("89.00"), Category: domain.CategorySharpener, Images: []string{}},
		{ID: 3, Title: "Leather strop", Price: price("15.00"), Category: domain.CategoryAccessory, Images: []string{}},
	}
}
