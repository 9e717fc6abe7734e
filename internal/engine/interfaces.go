package engine

import (
	"context"
	"time"
)

// Store is a physical store as seen by the comparison engine.
// NoPL and NoPR are alternate identifiers used interchangeably by the
// upstream portal; either may stand in for ID in user-supplied input.
type Store struct {
	ID            string
	Name          string
	NoPL          *string
	NoPR          *string
	Lat           *float64
	Lng           *float64
	LastScrapedAt *time.Time
}

// HasCoordinates reports whether the store can participate in zone ranking.
func (s *Store) HasCoordinates() bool {
	return s != nil && s.Lat != nil && s.Lng != nil
}

// Product is a catalog product, keyed by EAN.
type Product struct {
	EAN      string
	Name     string
	Category *string
	ImageURL *string
}

// Price is a single price observation for a product at a store, carrying
// enough store context (name, coordinates) for presentation projections.
// Promo is the crossed-out reference price; it only counts as a promotion
// signal when it exceeds Value.
type Price struct {
	StoreID   string
	StoreName string
	Value     float64
	Promo     *float64
	UpdatedAt time.Time
	Lat       *float64
	Lng       *float64
}

// HasPromo reports whether this observation carries an active promotion.
func (p Price) HasPromo() bool {
	return p.Promo != nil && *p.Promo > p.Value
}

// PricedProduct is a product joined with its price observations.
// The catalog contract is that Prices are sorted ascending by Value.
type PricedProduct struct {
	Product
	Prices []Price
}

// Catalog is the read-only persistence collaborator the engine consumes.
// Implementations must return Prices sorted ascending by value. A failed
// query is a hard failure; "nothing matched" is an empty slice (or nil
// store for StoreByRef), never an error.
type Catalog interface {
	// StoreByRef finds a store whose id, noPL or noPR matches any of the
	// given identifier variants. Returns (nil, nil) when no store matches.
	StoreByRef(ctx context.Context, refs []string) (*Store, error)

	// StoresWithCoordinates lists every store that has a coordinate,
	// in catalog order.
	StoresWithCoordinates(ctx context.Context) ([]Store, error)

	// ProductsByEAN fetches the given products with all their price
	// observations.
	ProductsByEAN(ctx context.Context, eans []string) ([]PricedProduct, error)

	// SearchProducts fetches products whose name contains query
	// (case-insensitive), with all their price observations. When
	// zoneStoreIDs is non-empty only products priced in at least one of
	// those stores are returned.
	SearchProducts(ctx context.Context, query string, zoneStoreIDs []string, limit int) ([]PricedProduct, error)

	// ProductsSoldAt fetches products that have a price at homeStoreID,
	// with observations restricted to zoneStoreIDs.
	ProductsSoldAt(ctx context.Context, homeStoreID string, zoneStoreIDs []string, limit int) ([]PricedProduct, error)

	// ProductsPricedIn fetches products with at least one observation in
	// the zone, observations restricted to zoneStoreIDs.
	ProductsPricedIn(ctx context.Context, zoneStoreIDs []string) ([]PricedProduct, error)
}
