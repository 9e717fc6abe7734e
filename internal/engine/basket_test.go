package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func offer(storeName string, price float64) Offer {
	return Offer{StoreID: storeName, StoreName: storeName, Price: price}
}

// TestCompareTwoStores verifies totals, ranking and savings for a cart with
// one item priced at two stores.
func TestCompareTwoStores(t *testing.T) {
	c := NewComparator()

	result := c.Compare([]CartItem{{
		EAN:      "111",
		Name:     "Lait",
		Quantity: 2,
		Offers:   []Offer{offer("StoreA", 2.00), offer("StoreB", 3.00)},
	}})

	require.NotNil(t, result)
	require.Len(t, result.Totals, 2)
	assert.Equal(t, "StoreA", result.Cheapest.StoreName)
	assert.Equal(t, 4.00, result.Cheapest.Total)
	assert.Equal(t, 6.00, result.Totals[1].Total)
	assert.Equal(t, 2.00, result.Savings)
	assert.Nil(t, result.BestAlternative)
}

// TestCompareMissingItemSubstitution verifies the mean substitution for a
// store that does not carry one of the items.
func TestCompareMissingItemSubstitution(t *testing.T) {
	c := NewComparator()

	result := c.Compare([]CartItem{
		{
			EAN:      "111",
			Name:     "Café",
			Quantity: 1,
			Offers:   []Offer{offer("StoreA", 2.00), offer("StoreB", 4.00)},
		},
		{
			EAN:      "222",
			Name:     "Sucre",
			Quantity: 1,
			Offers:   []Offer{offer("StoreA", 1.00), offer("StoreB", 1.00), offer("StoreC", 1.00)},
		},
	})

	require.NotNil(t, result)

	var storeC *StoreTotal
	for i := range result.Totals {
		if result.Totals[i].StoreName == "StoreC" {
			storeC = &result.Totals[i]
		}
	}
	require.NotNil(t, storeC)

	// Café is missing at StoreC, charged at its 3.00 mean.
	assert.Equal(t, 4.00, storeC.Total)
	assert.Equal(t, 1, storeC.MissingCount)
	require.Len(t, storeC.Missing, 1)
	assert.Equal(t, "111", storeC.Missing[0].EAN)
	assert.Equal(t, 3.00, storeC.Missing[0].EstimatedPrice)
}

// TestCompareBestAlternative verifies that the alternative is the cheapest
// store carrying strictly more of the basket than the winner.
func TestCompareBestAlternative(t *testing.T) {
	c := NewComparator()

	// StoreA wins on total but misses the second item; StoreB carries
	// everything at a slightly higher total.
	result := c.Compare([]CartItem{
		{
			EAN:      "111",
			Quantity: 1,
			Offers:   []Offer{offer("StoreA", 1.00), offer("StoreB", 3.00)},
		},
		{
			EAN:      "222",
			Quantity: 1,
			Offers:   []Offer{offer("StoreB", 2.00)},
		},
	})

	require.NotNil(t, result)
	assert.Equal(t, "StoreA", result.Cheapest.StoreName)
	assert.Equal(t, 1, result.Cheapest.MissingCount)
	require.NotNil(t, result.BestAlternative)
	assert.Equal(t, "StoreB", result.BestAlternative.StoreName)
	assert.Equal(t, 0, result.BestAlternative.MissingCount)
	assert.Equal(t, 5.00, result.BestAlternative.Total)
}

// TestCompareEmptyCart verifies the nil sentinel.
func TestCompareEmptyCart(t *testing.T) {
	c := NewComparator()

	assert.Nil(t, c.Compare(nil))
	assert.Nil(t, c.Compare([]CartItem{}))
	assert.Nil(t, c.Compare([]CartItem{{EAN: "111", Quantity: 1}}))
}

// TestCompareRankStabilityOnTies verifies that equal totals keep first-seen
// store order.
func TestCompareRankStabilityOnTies(t *testing.T) {
	c := NewComparator()

	result := c.Compare([]CartItem{{
		EAN:      "111",
		Quantity: 1,
		Offers:   []Offer{offer("First", 2.00), offer("Second", 2.00)},
	}})

	require.NotNil(t, result)
	assert.Equal(t, "First", result.Totals[0].StoreName)
	assert.Equal(t, "Second", result.Totals[1].StoreName)
	assert.Equal(t, 0.0, result.Savings)
}

// TestCompareCheaperOfferNeverRaisesTotal verifies basket total monotonicity
// when a cheaper duplicate offer appears for an available item.
func TestCompareCheaperOfferNeverRaisesTotal(t *testing.T) {
	c := NewComparator()

	base := []CartItem{{
		EAN:      "111",
		Quantity: 1,
		Offers:   []Offer{offer("StoreA", 3.00), offer("StoreB", 4.00)},
	}}
	before := c.Compare(base)
	require.NotNil(t, before)

	withCheaper := []CartItem{{
		EAN:      "111",
		Quantity: 1,
		Offers:   []Offer{offer("StoreA", 3.00), offer("StoreB", 4.00), offer("StoreA", 2.00)},
	}}
	after := c.Compare(withCheaper)
	require.NotNil(t, after)

	totalA := func(r *BasketComparison) float64 {
		for _, st := range r.Totals {
			if st.StoreName == "StoreA" {
				return st.Total
			}
		}
		t.Fatalf("StoreA missing from totals")
		return 0
	}
	assert.LessOrEqual(t, totalA(after), totalA(before))
}

// TestCompareDefaultQuantity verifies that a zero quantity counts as one.
func TestCompareDefaultQuantity(t *testing.T) {
	c := NewComparator()

	result := c.Compare([]CartItem{{
		EAN:    "111",
		Offers: []Offer{offer("StoreA", 2.50)},
	}})

	require.NotNil(t, result)
	assert.Equal(t, 2.50, result.Cheapest.Total)
}
