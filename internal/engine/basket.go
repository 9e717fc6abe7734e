package engine

import (
	"sort"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// CartItem is one basket line with the offers already gathered for it.
type CartItem struct {
	EAN      string
	Name     string
	Quantity int
	Offers   []Offer
}

// MissingItem records a basket line a store does not carry, with the
// estimated price charged to that store's total in its place.
type MissingItem struct {
	EAN            string
	Name           string
	EstimatedPrice float64
}

// StoreTotal is one store's projected basket total. Missing items are
// charged at their cross-store mean so partial catalogs stay comparable.
type StoreTotal struct {
	StoreName    string
	Total        float64
	Distance     float64
	MissingCount int
	Missing      []MissingItem
}

// BasketComparison ranks every store seen in the cart's offers.
// BestAlternative is the cheapest store carrying strictly more of the
// basket than the winner, nil when the winner already carries the most.
type BasketComparison struct {
	Totals          []StoreTotal
	Cheapest        StoreTotal
	BestAlternative *StoreTotal
	Savings         float64
	ItemCount       int
}

// Comparator computes per-store basket totals.
type Comparator struct {
	metrics *MetricsRecorder
	logger  zerolog.Logger
}

// NewComparator creates a new basket comparator.
func NewComparator() *Comparator {
	return &Comparator{
		metrics: NewMetricsRecorder(),
		logger:  log.With().Str("component", "basket_comparator").Logger(),
	}
}

// Compare ranks every store mentioned in the cart's offers by projected
// basket total, ascending. An empty cart (or a cart whose items carry no
// offers at all) yields nil, never an error.
func (c *Comparator) Compare(items []CartItem) *BasketComparison {
	start := time.Now()

	// Store union in first-seen order keeps ranking deterministic when
	// totals tie.
	var storeNames []string
	distances := make(map[string]float64)
	seen := make(map[string]struct{})
	for _, item := range items {
		for _, o := range item.Offers {
			if _, ok := seen[o.StoreName]; ok {
				continue
			}
			seen[o.StoreName] = struct{}{}
			storeNames = append(storeNames, o.StoreName)
			distances[o.StoreName] = o.Distance
		}
	}
	if len(items) == 0 || len(storeNames) == 0 {
		return nil
	}

	means := make([]float64, len(items))
	for i, item := range items {
		means[i] = MeanOfferPrice(item.Offers)
	}

	totals := make([]StoreTotal, 0, len(storeNames))
	for _, name := range storeNames {
		st := StoreTotal{StoreName: name, Distance: distances[name]}
		for i, item := range items {
			qty := item.Quantity
			if qty <= 0 {
				qty = 1
			}
			price, ok := offerPriceAt(item.Offers, name)
			if !ok {
				price = means[i]
				st.MissingCount++
				st.Missing = append(st.Missing, MissingItem{
					EAN:            item.EAN,
					Name:           item.Name,
					EstimatedPrice: means[i],
				})
			}
			st.Total += price * float64(qty)
		}
		totals = append(totals, st)
	}

	sort.SliceStable(totals, func(i, j int) bool {
		return totals[i].Total < totals[j].Total
	})

	result := &BasketComparison{
		Totals:    totals,
		Cheapest:  totals[0],
		Savings:   totals[len(totals)-1].Total - totals[0].Total,
		ItemCount: len(items),
	}
	for i := 1; i < len(totals); i++ {
		if totals[i].MissingCount < result.Cheapest.MissingCount {
			alt := totals[i]
			result.BestAlternative = &alt
			break
		}
	}

	c.metrics.RecordBasketCompare(time.Since(start), len(items), len(totals))
	c.logger.Debug().
		Int("items", len(items)).
		Int("stores", len(totals)).
		Float64("savings", result.Savings).
		Msg("basket compared")
	return result
}

// offerPriceAt returns the lowest offer price a store quotes for an item.
// Taking the minimum keeps a store's total from rising when a cheaper
// duplicate offer appears.
func offerPriceAt(offers []Offer, storeName string) (float64, bool) {
	var best float64
	found := false
	for _, o := range offers {
		if o.StoreName != storeName {
			continue
		}
		if !found || o.Price < best {
			best = o.Price
		}
		found = true
	}
	return best, found
}
