package engine

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func dealZoneStores() []Store {
	return []Store{
		storeAt("home", "Home", 48.85, 2.35),
		storeAt("n1", "Neighbor 1", 48.86, 2.35),
		storeAt("n2", "Neighbor 2", 48.87, 2.35),
		storeAt("n3", "Neighbor 3", 48.88, 2.35),
	}
}

// TestHotDealsThresholdInclusive verifies that a saving of exactly the
// threshold percentage qualifies.
func TestHotDealsThresholdInclusive(t *testing.T) {
	catalog := &fakeCatalog{
		stores: dealZoneStores(),
		products: []PricedProduct{
			{
				// round((10.00-9.50)/10.00*100) = 5, exactly at threshold.
				Product: Product{EAN: "111", Name: "Café moulu"},
				Prices:  []Price{priceAt("home", "Home", 9.50), priceAt("n1", "Neighbor 1", 10.00)},
			},
			{
				// round((10.00-9.60)/10.00*100) = 4, below threshold.
				Product: Product{EAN: "222", Name: "Thé vert"},
				Prices:  []Price{priceAt("home", "Home", 9.60), priceAt("n1", "Neighbor 1", 10.00)},
			},
		},
	}
	detector := NewDetector(catalog, NewResolver(catalog), Defaults())

	deals, err := detector.HotDeals(context.Background(), "home", 0)
	require.NoError(t, err)

	require.Len(t, deals, 1)
	assert.Equal(t, "111", deals[0].EAN)
	assert.Equal(t, 5, deals[0].SavingsPercent)
	assert.Equal(t, 9.50, deals[0].HomePrice)
	assert.Equal(t, 10.00, deals[0].NeighborPrice)
	assert.InDelta(t, 0.50, deals[0].SavingsAmount, 1e-9)
}

// TestHotDealsWorstNeighborComparison verifies the comparison runs against
// the most expensive neighbor, not the cheapest.
func TestHotDealsWorstNeighborComparison(t *testing.T) {
	catalog := &fakeCatalog{
		stores: dealZoneStores(),
		products: []PricedProduct{{
			Product: Product{EAN: "111", Name: "Jus d'orange"},
			Prices: []Price{
				priceAt("home", "Home", 2.00),
				priceAt("n1", "Neighbor 1", 1.90), // a neighbor undercuts home
				priceAt("n2", "Neighbor 2", 4.00),
			},
		}},
	}
	detector := NewDetector(catalog, NewResolver(catalog), Defaults())

	deals, err := detector.HotDeals(context.Background(), "home", 0)
	require.NoError(t, err)

	require.Len(t, deals, 1)
	assert.Equal(t, 4.00, deals[0].NeighborPrice)
	assert.Equal(t, 50, deals[0].SavingsPercent)
}

// TestHotDealsDescendingAndLimit verifies ordering and the limit semantics.
func TestHotDealsDescendingAndLimit(t *testing.T) {
	catalog := &fakeCatalog{
		stores: dealZoneStores(),
		products: []PricedProduct{
			{
				Product: Product{EAN: "low", Name: "Pâtes"},
				Prices:  []Price{priceAt("home", "Home", 9.00), priceAt("n1", "Neighbor 1", 10.00)},
			},
			{
				Product: Product{EAN: "high", Name: "Riz"},
				Prices:  []Price{priceAt("home", "Home", 5.00), priceAt("n1", "Neighbor 1", 10.00)},
			},
		},
	}
	detector := NewDetector(catalog, NewResolver(catalog), Defaults())

	all, err := detector.HotDeals(context.Background(), "home", 0)
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, "high", all[0].EAN)
	assert.Equal(t, "low", all[1].EAN)

	one, err := detector.HotDeals(context.Background(), "home", 1)
	require.NoError(t, err)
	require.Len(t, one, 1)
	assert.Equal(t, "high", one[0].EAN)
}

// TestHotDealsUnknownStore verifies graceful degradation to no deals.
func TestHotDealsUnknownStore(t *testing.T) {
	detector := NewDetector(&fakeCatalog{}, NewResolver(&fakeCatalog{}), Defaults())

	deals, err := detector.HotDeals(context.Background(), "nope", 0)

	require.NoError(t, err)
	assert.Empty(t, deals)
}

// TestHotDealsNoNeighbors verifies that a store without any ranked neighbor
// yields no deals.
func TestHotDealsNoNeighbors(t *testing.T) {
	catalog := &fakeCatalog{
		stores: []Store{{ID: "blind", Name: "No Coords"}},
		products: []PricedProduct{{
			Product: Product{EAN: "111", Name: "Eau"},
			Prices:  []Price{priceAt("blind", "No Coords", 1.00)},
		}},
	}
	detector := NewDetector(catalog, NewResolver(catalog), Defaults())

	deals, err := detector.HotDeals(context.Background(), "blind", 0)

	require.NoError(t, err)
	assert.Empty(t, deals)
}

// TestHotDealsHomeNotCheapest verifies that home prices at or above the
// worst neighbor never qualify.
func TestHotDealsHomeNotCheapest(t *testing.T) {
	catalog := &fakeCatalog{
		stores: dealZoneStores(),
		products: []PricedProduct{
			{
				Product: Product{EAN: "equal", Name: "Sel"},
				Prices:  []Price{priceAt("home", "Home", 1.00), priceAt("n1", "Neighbor 1", 1.00)},
			},
			{
				Product: Product{EAN: "worse", Name: "Poivre"},
				Prices:  []Price{priceAt("home", "Home", 2.00), priceAt("n1", "Neighbor 1", 1.50)},
			},
		},
	}
	detector := NewDetector(catalog, NewResolver(catalog), Defaults())

	deals, err := detector.HotDeals(context.Background(), "home", 0)

	require.NoError(t, err)
	assert.Empty(t, deals)
}
