package engine

import (
	"context"
	"math"
	"sort"
	"strings"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Offer is a store-scoped price for one product as consumed by comparison
// logic and presentation. Coordinates and distance are call-time projections,
// never persisted.
type Offer struct {
	StoreID     string
	StoreName   string
	Price       float64
	Lat         *float64
	Lng         *float64
	Distance    float64 // km from the home store, 0 when unknown
	IsHomeStore bool
}

// OfferSet is the aggregate view of one product's offers: sorted ascending
// by price with the derived best/worst/savings figures.
type OfferSet struct {
	Available       bool
	Offers          []Offer
	BestPrice       float64
	WorstPrice      float64
	SavingsPercent  int
	BestStoreName   string
	BestIsHomeStore bool
}

// AggregateOffers turns raw price observations into an OfferSet. The home
// store (may be nil) drives the per-offer distance projection and the
// "my store vs neighbor" labelling of the winning offer.
func AggregateOffers(prices []Price, home *Store) OfferSet {
	if len(prices) == 0 {
		return OfferSet{}
	}

	offers := make([]Offer, len(prices))
	for i, p := range prices {
		o := Offer{
			StoreID:   p.StoreID,
			StoreName: p.StoreName,
			Price:     p.Value,
			Lat:       p.Lat,
			Lng:       p.Lng,
		}
		if home != nil {
			o.IsHomeStore = p.StoreID == home.ID
			if home.HasCoordinates() && p.Lat != nil && p.Lng != nil {
				o.Distance = HaversineKm(*home.Lat, *home.Lng, *p.Lat, *p.Lng)
			}
		}
		offers[i] = o
	}
	sort.SliceStable(offers, func(i, j int) bool {
		return offers[i].Price < offers[j].Price
	})

	best := offers[0]
	worst := offers[len(offers)-1]
	return OfferSet{
		Available:       true,
		Offers:          offers,
		BestPrice:       best.Price,
		WorstPrice:      worst.Price,
		SavingsPercent:  SavingsPercent(best.Price, worst.Price),
		BestStoreName:   best.StoreName,
		BestIsHomeStore: best.IsHomeStore,
	}
}

// SavingsPercent is the rounded percentage gap between the worst and best
// price. Defined as 0 when worst is 0 so callers never see NaN.
func SavingsPercent(best, worst float64) int {
	if worst <= 0 {
		return 0
	}
	return int(math.Round((worst - best) / worst * 100))
}

// MeanOfferPrice is the mean over an item's own offers, used as the
// missing-item substitution in basket comparison. Zero for no offers.
//
// This is deliberately NOT the same operation as ReferenceBrandAverage:
// the two "averages" have different scopes and must not be conflated.
func MeanOfferPrice(offers []Offer) float64 {
	if len(offers) == 0 {
		return 0
	}
	var sum float64
	for _, o := range offers {
		sum += o.Price
	}
	return sum / float64(len(offers))
}

// ReferenceBrandAverage is the mean over the observations belonging to the
// designated reference chain, used as the "national price" indicator.
// Zero when no observation matches the brand.
func ReferenceBrandAverage(prices []Price, brand string) float64 {
	needle := strings.ToLower(brand)
	var sum float64
	var n int
	for _, p := range prices {
		if strings.Contains(strings.ToLower(p.StoreName), needle) {
			sum += p.Value
			n++
		}
	}
	if n == 0 {
		return 0
	}
	return sum / float64(n)
}

// ProductView is the presentation-ready aggregate for one product.
type ProductView struct {
	EAN            string
	Name           string
	Category       string
	Image          *string
	Offers         []Offer
	Available      bool
	BestPrice      float64
	WorstPrice     float64
	SavingsPercent int
	AveragePrice   float64
	StoreLabel     string
	IsHomeStore    bool
}

// BrowseResult is a set of product views scoped to a resolved zone.
// StoreFound distinguishes "you typed an unknown code" (false, zero
// products) from "this code is valid but nothing matched".
type BrowseResult struct {
	StoreFound bool
	Home       *Store
	Products   []ProductView
}

// Aggregator builds zone-scoped product views for browse and favorites.
type Aggregator struct {
	catalog  Catalog
	resolver *Resolver
	config   *Config
	logger   zerolog.Logger
}

// NewAggregator creates a new offer aggregator.
func NewAggregator(catalog Catalog, resolver *Resolver, config *Config) *Aggregator {
	return &Aggregator{
		catalog:  catalog,
		resolver: resolver,
		config:   config,
		logger:   log.With().Str("component", "offer_aggregator").Logger(),
	}
}

// ProductsByEAN returns zone-scoped views for an explicit product set
// (the favorites use case). An empty ean list yields an empty result.
func (a *Aggregator) ProductsByEAN(ctx context.Context, eans []string, storeRef string) (*BrowseResult, error) {
	if len(eans) == 0 {
		return &BrowseResult{StoreFound: true}, nil
	}

	home, zoneIDs, found, err := a.resolveScope(ctx, storeRef)
	if err != nil {
		return nil, err
	}
	if !found {
		return &BrowseResult{}, nil
	}

	products, err := a.catalog.ProductsByEAN(ctx, eans)
	if err != nil {
		return nil, err
	}
	return a.buildResult(home, zoneIDs, products), nil
}

// SearchProducts returns zone-scoped views for a name substring query
// (the browse use case).
func (a *Aggregator) SearchProducts(ctx context.Context, query, storeRef string) (*BrowseResult, error) {
	home, zoneIDs, found, err := a.resolveScope(ctx, storeRef)
	if err != nil {
		return nil, err
	}
	if !found {
		return &BrowseResult{}, nil
	}

	products, err := a.catalog.SearchProducts(ctx, query, zoneIDs, a.config.BrowseResultCap)
	if err != nil {
		return nil, err
	}
	return a.buildResult(home, zoneIDs, products), nil
}

// resolveScope resolves the optional store ref into a home store and zone
// id set. An empty ref means no zone restriction. found=false reports an
// unknown ref, which blocks results rather than erroring.
func (a *Aggregator) resolveScope(ctx context.Context, storeRef string) (home *Store, zoneIDs []string, found bool, err error) {
	if storeRef == "" {
		return nil, nil, true, nil
	}
	zone, err := a.resolver.Zone(ctx, storeRef, a.config.ZoneSizeBrowse)
	if err != nil {
		if err == ErrStoreNotFound {
			return nil, nil, false, nil
		}
		return nil, nil, false, err
	}
	return &zone.Home, zone.StoreIDs(), true, nil
}

func (a *Aggregator) buildResult(home *Store, zoneIDs []string, products []PricedProduct) *BrowseResult {
	result := &BrowseResult{
		StoreFound: true,
		Home:       home,
		Products:   make([]ProductView, 0, len(products)),
	}

	for _, p := range products {
		// The reference average scans every observation; the offers are
		// restricted to the zone.
		avg := ReferenceBrandAverage(p.Prices, a.config.ReferenceBrand)
		local := p.Prices
		if len(zoneIDs) > 0 {
			local = filterPricesToStores(p.Prices, zoneIDs)
		}
		set := AggregateOffers(local, home)

		view := ProductView{
			EAN:            p.EAN,
			Name:           p.Name,
			Category:       derefOr(p.Category, "Non catégorisé"),
			Image:          p.ImageURL,
			Offers:         set.Offers,
			Available:      set.Available,
			BestPrice:      set.BestPrice,
			WorstPrice:     set.WorstPrice,
			SavingsPercent: set.SavingsPercent,
			AveragePrice:   avg,
			StoreLabel:     "Indisponible",
			IsHomeStore:    set.BestIsHomeStore,
		}
		if set.Available {
			view.StoreLabel = set.BestStoreName
		}
		result.Products = append(result.Products, view)
	}
	return result
}

func filterPricesToStores(prices []Price, storeIDs []string) []Price {
	keep := make(map[string]struct{}, len(storeIDs))
	for _, id := range storeIDs {
		keep[id] = struct{}{}
	}
	out := make([]Price, 0, len(prices))
	for _, p := range prices {
		if _, ok := keep[p.StoreID]; ok {
			out = append(out, p)
		}
	}
	return out
}

func derefOr(s *string, fallback string) string {
	if s == nil || *s == "" {
		return fallback
	}
	return *s
}
