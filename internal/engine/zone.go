package engine

import (
	"context"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// RankedStore is a zone member with its distance from the seed store.
type RankedStore struct {
	Store
	Distance float64 // km from the seed, 0 for the seed itself
}

// Zone is the ranked candidate set around a seed store: the seed first,
// then its nearest neighbors ascending by distance.
type Zone struct {
	Home   Store
	Stores []RankedStore
}

// StoreIDs returns the zone's store ids in rank order.
func (z *Zone) StoreIDs() []string {
	ids := make([]string, len(z.Stores))
	for i, s := range z.Stores {
		ids[i] = s.ID
	}
	return ids
}

// Resolver turns a raw store identifier into a zone of candidate stores.
type Resolver struct {
	catalog Catalog
	metrics *MetricsRecorder
	logger  zerolog.Logger
}

// NewResolver creates a new zone resolver.
func NewResolver(catalog Catalog) *Resolver {
	return &Resolver{
		catalog: catalog,
		metrics: NewMetricsRecorder(),
		logger:  log.With().Str("component", "zone_resolver").Logger(),
	}
}

// Zone resolves the seed identifier and ranks the zone around it.
// It returns ErrStoreNotFound when the identifier matches nothing, which is
// distinct from a resolved store with an empty neighborhood. A seed without
// coordinates yields a singleton zone: the store itself is still a valid
// candidate even though it cannot be geographically ranked.
func (r *Resolver) Zone(ctx context.Context, storeRef string, size int) (*Zone, error) {
	seed, err := r.catalog.StoreByRef(ctx, IdentifierVariants(storeRef))
	if err != nil {
		r.metrics.RecordZoneResolution("error")
		return nil, err
	}
	if seed == nil {
		r.metrics.RecordZoneResolution("not_found")
		return nil, ErrStoreNotFound
	}

	if !seed.HasCoordinates() {
		r.metrics.RecordZoneResolution("no_coordinates")
		r.logger.Debug().Str("store", seed.ID).Msg("Seed store has no coordinates, singleton zone")
		return &Zone{Home: *seed, Stores: []RankedStore{{Store: *seed}}}, nil
	}

	all, err := r.catalog.StoresWithCoordinates(ctx)
	if err != nil {
		r.metrics.RecordZoneResolution("error")
		return nil, err
	}

	neighbors := make([]RankedStore, 0, len(all))
	for _, s := range all {
		if s.ID == seed.ID {
			continue
		}
		neighbors = append(neighbors, RankedStore{
			Store:    s,
			Distance: HaversineKm(*seed.Lat, *seed.Lng, *s.Lat, *s.Lng),
		})
	}
	sortByDistance(neighbors)

	if size < 1 {
		size = 1
	}
	if len(neighbors) > size-1 {
		neighbors = neighbors[:size-1]
	}

	zone := &Zone{
		Home:   *seed,
		Stores: append([]RankedStore{{Store: *seed}}, neighbors...),
	}

	r.metrics.RecordZoneResolution("ok")
	if len(neighbors) > 0 {
		r.metrics.RecordZoneRadius(neighbors[len(neighbors)-1].Distance)
	}
	return zone, nil
}
