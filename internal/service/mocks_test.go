package service

import (
	"context"
	"errors"
	"slices"
	"strings"
	"sync"
	"time"

	"sharpshop/internal/domain"
	"sharpshop/internal/repository"

	"github.com/google/uuid"
)

// Mock repositories for testing
type mockProductRepository struct {
	mu        sync.Mutex
	products  map[int64]domain.Product
	nextID    int64
	listCalls int
	err       error
}

func newMockProductRepository(products ...domain.Product) *mockProductRepository {
	m := &mockProductRepository{products: make(map[int64]domain.Product), nextID: 1}
	for _, p := range products {
		m.products[p.ID] = p
		if p.ID >= m.nextID {
			m.nextID = p.ID + 1
		}
	}
	return m
}

func (m *mockProductRepository) Create(ctx context.Context, product *domain.Product) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	product.ID = m.nextID
	m.nextID++
	product.CreatedAt = time.Now()
	product.UpdatedAt = product.CreatedAt
	m.products[product.ID] = *product
	return nil
}

func (m *mockProductRepository) Update(ctx context.Context, product *domain.Product) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.products[product.ID]; !ok {
		return repository.ErrProductNotFound
	}
	m.products[product.ID] = *product
	return nil
}

func (m *mockProductRepository) Delete(ctx context.Context, id int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.products[id]; !ok {
		return repository.ErrProductNotFound
	}
	delete(m.products, id)
	return nil
}

func (m *mockProductRepository) FindByID(ctx context.Context, id int64) (*domain.Product, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.products[id]
	if !ok {
		return nil, repository.ErrProductNotFound
	}
	return &p, nil
}

func (m *mockProductRepository) FindByIDs(ctx context.Context, ids []int64) ([]domain.Product, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return nil, m.err
	}
	var out []domain.Product
	for _, p := range m.sorted() {
		if slices.Contains(ids, p.ID) {
			out = append(out, p)
		}
	}
	return out, nil
}

func (m *mockProductRepository) List(ctx context.Context, filter repository.ProductFilter) ([]domain.Product, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.listCalls++
	if m.err != nil {
		return nil, m.err
	}
	out := []domain.Product{}
	for _, p := range m.sorted() {
		if filter.Category != "" && p.Category != filter.Category {
			continue
		}
		if filter.Query != "" && !strings.Contains(strings.ToLower(p.Title+" "+p.Description), strings.ToLower(filter.Query)) {
			continue
		}
		out = append(out, p)
	}
	return out, nil
}

func (m *mockProductRepository) sorted() []domain.Product {
	out := make([]domain.Product, 0, len(m.products))
	for _, p := range m.products {
		out = append(out, p)
	}
	slices.SortFunc(out, func(a, b domain.Product) int { return int(a.ID - b.ID) })
	return out
}

type mockDeliveryRepository struct {
	mu      sync.Mutex
	entries map[string][]domain.DeliveryOption
	err     error
}

func newMockDeliveryRepository(entries map[string][]domain.DeliveryOption) *mockDeliveryRepository {
	if entries == nil {
		entries = map[string][]domain.DeliveryOption{}
	}
	return &mockDeliveryRepository{entries: entries}
}

func (m *mockDeliveryRepository) ListAll(ctx context.Context) (map[string][]domain.DeliveryOption, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return nil, m.err
	}
	out := make(map[string][]domain.DeliveryOption, len(m.entries))
	for k, v := range m.entries {
		out[k] = slices.Clone(v)
	}
	return out, nil
}

func (m *mockDeliveryRepository) ListByCountry(ctx context.Context, code string) ([]domain.DeliveryOption, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	options, ok := m.entries[code]
	if !ok {
		return nil, repository.ErrDeliveryCountryNotFound
	}
	return slices.Clone(options), nil
}

func (m *mockDeliveryRepository) ReplaceCountry(ctx context.Context, code string, options []domain.DeliveryOption) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries[code] = slices.Clone(options)
	return nil
}

func (m *mockDeliveryRepository) DeleteCountry(ctx context.Context, code string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.entries[code]; !ok {
		return repository.ErrDeliveryCountryNotFound
	}
	delete(m.entries, code)
	return nil
}

type mockProfileRepository struct {
	profiles map[uuid.UUID]domain.Profile
	err      error
}

func newMockProfileRepository() *mockProfileRepository {
	return &mockProfileRepository{profiles: make(map[uuid.UUID]domain.Profile)}
}

func (m *mockProfileRepository) FindByUserID(ctx context.Context, userID uuid.UUID) (*domain.Profile, error) {
	if m.err != nil {
		return nil, m.err
	}
	p, ok := m.profiles[userID]
	if !ok {
		return nil, repository.ErrProfileNotFound
	}
	return &p, nil
}

func (m *mockProfileRepository) Upsert(ctx context.Context, profile *domain.Profile) error {
	if m.err != nil {
		return m.err
	}
	now := time.Now()
	if existing, ok := m.profiles[profile.UserID]; ok {
		profile.CreatedAt = existing.CreatedAt
	} else {
		profile.CreatedAt = now
	}
	profile.UpdatedAt = now
	m.profiles[profile.UserID] = *profile
	return nil
}

type mockWishlistRepository struct {
	products *mockProductRepository
	saved    map[uuid.UUID][]int64
}

func newMockWishlistRepository(products *mockProductRepository) *mockWishlistRepository {
	return &mockWishlistRepository{products: products, saved: make(map[uuid.UUID][]int64)}
}

func (m *mockWishlistRepository) Add(ctx context.Context, userID uuid.UUID, productID int64) error {
	if _, err := m.products.FindByID(ctx, productID); err != nil {
		return err
	}
	if !slices.Contains(m.saved[userID], productID) {
		m.saved[userID] = append(m.saved[userID], productID)
	}
	return nil
}

func (m *mockWishlistRepository) Remove(ctx context.Context, userID uuid.UUID, productID int64) error {
	i := slices.Index(m.saved[userID], productID)
	if i < 0 {
		return repository.ErrWishlistItemNotFound
	}
	m.saved[userID] = slices.Delete(m.saved[userID], i, i+1)
	return nil
}

func (m *mockWishlistRepository) List(ctx context.Context, userID uuid.UUID) ([]domain.WishlistItem, error) {
	items := []domain.WishlistItem{}
	for _, id := range m.saved[userID] {
		p, err := m.products.FindByID(ctx, id)
		if err != nil {
			continue
		}
		items = append(items, domain.WishlistItem{UserID: userID, Product: *p})
	}
	return items, nil
}

var errDatabaseDown = errors.New("database down")

var sampleUserID = uuid.MustParse("5f0c7a3e-2b1d-4c8e-9a6f-1d2e3f4a5b6c")
