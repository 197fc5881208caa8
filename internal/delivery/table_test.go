package delivery

import (
	"testing"

	"sharpshop/internal/domain"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolveShippingPrice_KnownCountries(t *testing.T) {
	tests := []struct {
		name      string
		country   string
		tier      Tier
		wantPrice string
		wantOK    bool
	}{
		{name: "ukraine standard is free", country: "UA", tier: TierStandard, wantPrice: "0", wantOK: true},
		{name: "ukraine express", country: "UA", tier: TierExpress, wantPrice: "5", wantOK: true},
		{name: "lower-case code", country: "ua", tier: TierStandard, wantPrice: "0", wantOK: true},
		{name: "padded code", country: " pl ", tier: TierExpress, wantPrice: "30", wantOK: true},
		{name: "russia blocked", country: "RU", tier: TierStandard, wantOK: false},
		{name: "belarus blocked express", country: "BY", tier: TierExpress, wantOK: false},
		{name: "single unlabeled option serves express", country: "CA", tier: TierExpress, wantPrice: "22", wantOK: true},
		{name: "unknown tier takes first option", country: "US", tier: Tier("overnight"), wantPrice: "20", wantOK: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			price, ok := ResolveShippingPrice(tt.country, tt.tier)
			require.Equal(t, tt.wantOK, ok)
			if tt.wantOK {
				assert.True(t, price.Equal(decimal.RequireFromString(tt.wantPrice)), "got %s", price)
			}
		})
	}
}

func TestProperty_UnknownCountriesUseRestOfWorld(t *testing.T) {
	properties := gopter.NewProperties(nil)

	properties.Property("unmapped codes resolve like the rest-of-world entry", prop.ForAll(
		func(code string, tier Tier) bool {
			if _, mapped := DefaultEntries()[NormalizeCountry(code)]; mapped {
				return true
			}
			gotPrice, gotOK := ResolveShippingPrice(code, tier)
			wantPrice, wantOK := ResolveShippingPrice(domain.RestOfWorld, tier)
			return gotOK == wantOK && gotPrice.Equal(wantPrice)
		},
		gen.RegexMatch(`[A-Za-z]{0,3}`),
		gen.OneConstOf(TierStandard, TierExpress),
	))

	properties.TestingRun(t, gopter.ConsoleReporter(false))
}

func TestResolveShippingPrice_ZZExpressMatchesFallback(t *testing.T) {
	price, ok := ResolveShippingPrice("ZZ", TierExpress)
	want, wantOK := ResolveShippingPrice(domain.RestOfWorld, TierExpress)

	assert.Equal(t, wantOK, ok)
	assert.True(t, price.Equal(want))
	assert.True(t, price.Equal(decimal.NewFromInt(50)))
}

func TestProperty_ResolveIsTotal(t *testing.T) {
	properties := gopter.NewProperties(nil)

	properties.Property("any string resolves without panicking", prop.ForAll(
		func(code string, tier string) (ok bool) {
			defer func() {
				if r := recover(); r != nil {
					t.Logf("FAIL: panic for %q/%q: %v", code, tier, r)
					ok = false
				}
			}()
			price, _ := ResolveShippingPrice(code, Tier(tier))
			return !price.IsNegative()
		},
		gen.AnyString(),
		gen.AnyString(),
	))

	properties.TestingRun(t, gopter.ConsoleReporter(false))
}

func TestNewTable_KeepsInvariant(t *testing.T) {
	table := NewTable(map[string][]domain.DeliveryOption{
		"ua": {{Service: "Pickup standard", Price: domain.Free(), Estimate: "same day"}},
		"PL": {},
	})

	// lower-case key is normalized
	price, ok := table.Resolve("UA", TierStandard)
	require.True(t, ok)
	assert.True(t, price.IsZero())

	// empty list dropped, so PL falls back to the default rest-of-world
	price, ok = table.Resolve("PL", TierStandard)
	require.True(t, ok)
	assert.True(t, price.Equal(decimal.NewFromInt(25)))

	assert.NotEmpty(t, table.Options(""))
	assert.Equal(t, []string{domain.RestOfWorld, "UA"}, table.Countries())
}

func TestNewTable_OwnFallbackWins(t *testing.T) {
	entries := map[string][]domain.DeliveryOption{
		domain.RestOfWorld: {{Service: "Standard", Price: domain.Unavailable()}},
	}
	require.True(t, HasFallback(entries))

	table := NewTable(entries)
	_, ok := table.Resolve("JP", TierExpress)
	assert.False(t, ok)
}

func TestTable_OptionsAreCopies(t *testing.T) {
	table := DefaultTable()

	options := table.Options("UA")
	options[0].Price = domain.Unavailable()

	_, ok := table.Resolve("UA", TierStandard)
	assert.True(t, ok)
	assert.Equal(t, "UA", table.Options("ua")[0].CountryCode)
}
