package engine

import (
	"context"
	"math"
	"sort"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// HotDeal is a product the home store sells cheaper than the most
// expensive neighbor carrying it.
type HotDeal struct {
	EAN            string
	Name           string
	Category       string
	Image          *string
	HomePrice      float64
	NeighborPrice  float64
	SavingsPercent int
	SavingsAmount  float64
}

// Detector finds hot deals and zone promotions around a store.
type Detector struct {
	catalog  Catalog
	resolver *Resolver
	config   *Config
	cache    *promoCache
	metrics  *MetricsRecorder
	logger   zerolog.Logger
}

// NewDetector creates a new deal detector.
func NewDetector(catalog Catalog, resolver *Resolver, config *Config) *Detector {
	return &Detector{
		catalog:  catalog,
		resolver: resolver,
		config:   config,
		cache:    newPromoCache(config.PromoCacheTTL),
		metrics:  NewMetricsRecorder(),
		logger:   log.With().Str("component", "deal_detector").Logger(),
	}
}

// HotDeals scans products sold at the home store and keeps those priced
// strictly below the worst neighbor, with a saving of at least the
// configured threshold. Results are sorted by percentage descending;
// limit <= 0 returns all. An unknown store ref yields no deals.
func (d *Detector) HotDeals(ctx context.Context, storeRef string, limit int) ([]HotDeal, error) {
	start := time.Now()

	zone, err := d.resolver.Zone(ctx, storeRef, d.config.ZoneSizeHotDeals)
	if err != nil {
		if err == ErrStoreNotFound {
			d.logger.Debug().Str("store_ref", storeRef).Msg("hot deals for unknown store")
			return []HotDeal{}, nil
		}
		d.metrics.RecordDealScan("hot_deals", time.Since(start), 0, false)
		return nil, err
	}
	if len(zone.Stores) < 2 {
		// No neighbors means nothing to undercut.
		return []HotDeal{}, nil
	}

	products, err := d.catalog.ProductsSoldAt(ctx, zone.Home.ID, zone.StoreIDs(), d.config.HotDealScanCap)
	if err != nil {
		d.metrics.RecordDealScan("hot_deals", time.Since(start), 0, false)
		return nil, err
	}

	deals := make([]HotDeal, 0)
	for _, p := range products {
		var home *Price
		var worstNeighbor *Price
		for i := range p.Prices {
			pr := &p.Prices[i]
			if pr.StoreID == zone.Home.ID {
				home = pr
				continue
			}
			if worstNeighbor == nil || pr.Value > worstNeighbor.Value {
				worstNeighbor = pr
			}
		}
		if home == nil || worstNeighbor == nil || home.Value >= worstNeighbor.Value {
			continue
		}

		percent := int(math.Round((worstNeighbor.Value - home.Value) / worstNeighbor.Value * 100))
		if percent < d.config.HotDealThresholdPct {
			continue
		}
		deals = append(deals, HotDeal{
			EAN:            p.EAN,
			Name:           p.Name,
			Category:       derefOr(p.Category, "Non catégorisé"),
			Image:          p.ImageURL,
			HomePrice:      home.Value,
			NeighborPrice:  worstNeighbor.Value,
			SavingsPercent: percent,
			SavingsAmount:  worstNeighbor.Value - home.Value,
		})
	}

	sort.SliceStable(deals, func(i, j int) bool {
		return deals[i].SavingsPercent > deals[j].SavingsPercent
	})
	if limit > 0 && len(deals) > limit {
		deals = deals[:limit]
	}

	d.metrics.RecordDealScan("hot_deals", time.Since(start), len(deals), true)
	d.logger.Debug().
		Str("store_id", zone.Home.ID).
		Int("deals", len(deals)).
		Msg("hot deal scan complete")
	return deals, nil
}
