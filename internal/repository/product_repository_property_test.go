package repository

import (
	"context"
	"testing"

	"sharpshop/internal/domain"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func genCategory() gopter.Gen {
	return gen.OneConstOf(domain.CategorySharpener, domain.CategoryAccessory, domain.CategoryStone)
}

func TestProperty_ProductCreationPreservesAttributes(t *testing.T) {
	productRepo := NewProductRepository(testDB)

	properties := gopter.NewProperties(nil)

	properties.Property("creating and retrieving a product preserves all attributes", prop.ForAll(
		func(title string, description string, cents int64, image string, category domain.Category) bool {
			ctx := context.Background()

			product := &domain.Product{
				Title:       title,
				Description: description,
				Price:       decimal.New(cents, -2),
				Images:      []string{image, image + "?thumb=1"},
				Category:    category,
			}

			if err := productRepo.Create(ctx, product); err != nil {
				t.Logf("FAIL: Failed to create product: %v", err)
				return false
			}
			defer productRepo.Delete(ctx, product.ID)

			if product.ID == 0 || product.CreatedAt.IsZero() {
				t.Logf("FAIL: generated columns were not returned")
				return false
			}

			retrieved, err := productRepo.FindByID(ctx, product.ID)
			if err != nil {
				t.Logf("FAIL: Failed to retrieve product: %v", err)
				return false
			}

			if retrieved.Title != product.Title || retrieved.Description != product.Description {
				t.Logf("FAIL: text mismatch: %+v vs %+v", retrieved, product)
				return false
			}

			// DECIMAL(10, 2) keeps cents exactly
			if !retrieved.Price.Equal(product.Price) {
				t.Logf("FAIL: Price mismatch. Expected %s, got %s", product.Price, retrieved.Price)
				return false
			}

			if retrieved.Category != category {
				t.Logf("FAIL: Category mismatch. Expected %s, got %s", category, retrieved.Category)
				return false
			}

			if len(retrieved.Images) != 2 || retrieved.Images[0] != image {
				t.Logf("FAIL: Images mismatch: %v", retrieved.Images)
				return false
			}

			return true
		},
		gen.RegexMatch(`[A-Za-z0-9 ]{3,50}`),
		gen.RegexMatch(`[A-Za-z0-9 .,!?]{0,200}`),
		gen.Int64Range(0, 99999999),
		gen.RegexMatch(`https://cdn\.example\.com/[a-z0-9/_-]{1,40}\.jpg`),
		genCategory(),
	))

	properties.TestingRun(t, gopter.ConsoleReporter(false))
}

func TestProperty_ProductUpdatesAreReflected(t *testing.T) {
	productRepo := NewProductRepository(testDB)

	properties := gopter.NewProperties(nil)

	properties.Property("updating a product and retrieving it shows the updated values", prop.ForAll(
		func(title1, title2 string, cents1, cents2 int64, category domain.Category) bool {
			ctx := context.Background()

			product := &domain.Product{
				Title:    title1,
				Price:    decimal.New(cents1, -2),
				Category: domain.CategoryStone,
			}
			if err := productRepo.Create(ctx, product); err != nil {
				t.Logf("FAIL: Failed to create product: %v", err)
				return false
			}
			defer productRepo.Delete(ctx, product.ID)

			product.Title = title2
			product.Price = decimal.New(cents2, -2)
			product.Category = category
			product.Description = "updated"

			if err := productRepo.Update(ctx, product); err != nil {
				t.Logf("FAIL: Failed to update product: %v", err)
				return false
			}

			retrieved, err := productRepo.FindByID(ctx, product.ID)
			if err != nil {
				t.Logf("FAIL: Failed to retrieve product: %v", err)
				return false
			}

			return retrieved.Title == title2 &&
				retrieved.Price.Equal(product.Price) &&
				retrieved.Category == category &&
				retrieved.Description == "updated"
		},
		gen.RegexMatch(`[A-Za-z0-9 ]{3,50}`),
		gen.RegexMatch(`[A-Za-z0-9 ]{3,50}`),
		gen.Int64Range(0, 99999999),
		gen.Int64Range(0, 99999999),
		genCategory(),
	))

	properties.TestingRun(t, gopter.ConsoleReporter(false))
}

func TestProperty_ProductDeletionRemovesFromCatalog(t *testing.T) {
	productRepo := NewProductRepository(testDB)

	properties := gopter.NewProperties(nil)

	properties.Property("deleting a product makes it not retrievable", prop.ForAll(
		func(title string, cents int64) bool {
			ctx := context.Background()

			product := &domain.Product{Title: title, Price: decimal.New(cents, -2), Category: domain.CategoryAccessory}
			if err := productRepo.Create(ctx, product); err != nil {
				t.Logf("FAIL: Failed to create product: %v", err)
				return false
			}

			if err := productRepo.Delete(ctx, product.ID); err != nil {
				t.Logf("FAIL: Failed to delete product: %v", err)
				return false
			}

			_, err := productRepo.FindByID(ctx, product.ID)
			if err != ErrProductNotFound {
				t.Logf("FAIL: Expected ErrProductNotFound after deletion, got: %v", err)
				return false
			}

			return productRepo.Delete(ctx, product.ID) == ErrProductNotFound
		},
		gen.RegexMatch(`[A-Za-z0-9 ]{3,50}`),
		gen.Int64Range(0, 99999999),
	))

	properties.TestingRun(t, gopter.ConsoleReporter(false))
}

func TestProductRepository_ListFilters(t *testing.T) {
	ctx := context.Background()
	productRepo := NewProductRepository(testDB)

	_, err := testDB.Exec(`TRUNCATE products RESTART IDENTITY CASCADE`)
	require.NoError(t, err)

	seed := []*domain.Product{
		{Title: "Diamond bench stone", Price: decimal.RequireFromString("39.90"), Category: domain.CategoryStone, Description: "coarse 400 grit"},
		{Title: "Guided sharpener kit", Price: decimal.RequireFromString("129.00"), Category: domain.CategorySharpener},
		{Title: "Leather strop", Price: decimal.RequireFromString("24.50"), Category: domain.CategoryAccessory, Description: "finishing after the stone"},
	}
	for _, p := range seed {
		require.NoError(t, productRepo.Create(ctx, p))
	}

	all, err := productRepo.List(ctx, ProductFilter{})
	require.NoError(t, err)
	assert.Len(t, all, 3)
	assert.Equal(t, seed[0].ID, all[0].ID)

	stones, err := productRepo.List(ctx, ProductFilter{Category: domain.CategoryStone})
	require.NoError(t, err)
	require.Len(t, stones, 1)
	assert.Equal(t, "Diamond bench stone", stones[0].Title)

	matches, err := productRepo.List(ctx, ProductFilter{Query: "STONE"})
	require.NoError(t, err)
	assert.Len(t, matches, 2)

	both, err := productRepo.List(ctx, ProductFilter{Query: "stone", Category: domain.CategoryAccessory})
	require.NoError(t, err)
	require.Len(t, both, 1)
	assert.Equal(t, "Leather strop", both[0].Title)

	found, err := productRepo.FindByIDs(ctx, []int64{seed[2].ID, seed[0].ID, 9999})
	require.NoError(t, err)
	require.Len(t, found, 2)
	assert.Equal(t, seed[0].ID, found[0].ID)
	assert.Equal(t, seed[2].ID, found[1].ID)

	empty, err := productRepo.FindByIDs(ctx, nil)
	require.NoError(t, err)
	assert.Empty(t, empty)
}

func TestProductRepository_UpdateMissing(t *testing.T) {
	productRepo := NewProductRepository(testDB)

	err := productRepo.Update(context.Background(), &domain.Product{
		ID:       987654321,
		Title:    "ghost",
		Price:    decimal.NewFromInt(1),
		Category: domain.CategoryStone,
	})
	assert.ErrorIs(t, err, ErrProductNotFound)
}
