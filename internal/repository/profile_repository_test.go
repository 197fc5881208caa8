package repository

import (
	"context"
	"testing"

	"sharpshop/internal/domain"

	"github.com/google/uuid"
	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProperty_ProfileUpsertIsLastWriteWins(t *testing.T) {
	repo := NewProfileRepository(testDB)

	properties := gopter.NewProperties(nil)

	properties.Property("saving twice keeps the second version and the first creation time", prop.ForAll(
		func(name1, name2, phone, country string) bool {
			ctx := context.Background()
			userID := uuid.New()

			first := &domain.Profile{UserID: userID, FullName: name1, Phone: phone, CountryCode: country}
			if err := repo.Upsert(ctx, first); err != nil {
				t.Logf("FAIL: first save: %v", err)
				return false
			}

			second := &domain.Profile{UserID: userID, FullName: name2, Phone: phone, CountryCode: country}
			if err := repo.Upsert(ctx, second); err != nil {
				t.Logf("FAIL: second save: %v", err)
				return false
			}

			stored, err := repo.FindByUserID(ctx, userID)
			if err != nil {
				t.Logf("FAIL: find: %v", err)
				return false
			}

			return stored.FullName == name2 &&
				stored.Phone == phone &&
				stored.CountryCode == country &&
				stored.CreatedAt.Equal(first.CreatedAt)
		},
		gen.RegexMatch(`[A-Z][a-z]{2,15} [A-Z][a-z]{2,15}`),
		gen.RegexMatch(`[A-Z][a-z]{2,15} [A-Z][a-z]{2,15}`),
		gen.RegexMatch(`\+380[0-9]{9}`),
		gen.RegexMatch(`[A-Z]{2}`),
	))

	properties.TestingRun(t, gopter.ConsoleReporter(false))
}

func TestProfileRepository_NotFound(t *testing.T) {
	_, err := NewProfileRepository(testDB).FindByUserID(context.Background(), uuid.New())
	assert.ErrorIs(t, err, ErrProfileNotFound)
}

func TestWishlistRepository(t *testing.T) {
	ctx := context.Background()
	products := NewProductRepository(testDB)
	wishlist := NewWishlistRepository(testDB)
	userID := uuid.New()

	stone := &domain.Product{Title: "Arkansas stone", Price: decimal.RequireFromString("45.00"), Category: domain.CategoryStone}
	strop := &domain.Product{Title: "Paddle strop", Price: decimal.RequireFromString("19.00"), Category: domain.CategoryAccessory}
	require.NoError(t, products.Create(ctx, stone))
	require.NoError(t, products.Create(ctx, strop))

	require.NoError(t, wishlist.Add(ctx, userID, stone.ID))
	require.NoError(t, wishlist.Add(ctx, userID, strop.ID))
	// duplicate save is ignored
	require.NoError(t, wishlist.Add(ctx, userID, stone.ID))

	items, err := wishlist.List(ctx, userID)
	require.NoError(t, err)
	require.Len(t, items, 2)
	for _, item := range items {
		assert.Equal(t, userID, item.UserID)
		assert.NotZero(t, item.Product.ID)
	}

	assert.ErrorIs(t, wishlist.Add(ctx, userID, 987654321), ErrProductNotFound)

	require.NoError(t, wishlist.Remove(ctx, userID, strop.ID))
	assert.ErrorIs(t, wishlist.Remove(ctx, userID, strop.ID), ErrWishlistItemNotFound)

	// deleting the product drops it from every wishlist
	require.NoError(t, products.Delete(ctx, stone.ID))
	items, err = wishlist.List(ctx, userID)
	require.NoError(t, err)
	assert.Empty(t, items)

	require.NoError(t, products.Delete(ctx, strop.ID))
}
