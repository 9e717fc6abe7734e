package engine

import (
	"context"
	"math"
	"sort"
	"time"
)

// ZonePromo is a zone-wide promotion: the best current price observed in
// the zone against a reference old price.
type ZonePromo struct {
	EAN            string
	Name           string
	Category       string
	Image          *string
	Price          float64
	OldPrice       float64
	SavingsPercent int
	StoreName      string
	Distance       float64
	UpdatedAt      time.Time
}

// ZonePromos returns the promotions for the zone around storeRef, served
// from the snapshot cache when one is still inside its validity window.
// An unknown store ref yields no promos.
func (d *Detector) ZonePromos(ctx context.Context, storeRef string) ([]ZonePromo, error) {
	zone, err := d.resolver.Zone(ctx, storeRef, d.config.ZoneSizePromos)
	if err != nil {
		if err == ErrStoreNotFound {
			return []ZonePromo{}, nil
		}
		return nil, err
	}

	promos, hit, err := d.cache.Get(ctx, zone.Home.ID, func(ctx context.Context) ([]ZonePromo, error) {
		return d.scanZonePromos(ctx, zone)
	})
	if err != nil {
		return nil, err
	}
	if hit {
		d.metrics.RecordPromoCacheHit()
	} else {
		d.metrics.RecordPromoCacheMiss()
	}
	return promos, nil
}

// ZonePromosFresh recomputes the zone promos, bypassing and replacing the
// cached snapshot.
func (d *Detector) ZonePromosFresh(ctx context.Context, storeRef string) ([]ZonePromo, error) {
	zone, err := d.resolver.Zone(ctx, storeRef, d.config.ZoneSizePromos)
	if err != nil {
		if err == ErrStoreNotFound {
			return []ZonePromo{}, nil
		}
		return nil, err
	}

	d.metrics.RecordPromoCacheMiss()
	promos, err := d.scanZonePromos(ctx, zone)
	if err != nil {
		return nil, err
	}
	d.cache.Put(zone.Home.ID, promos)
	return promos, nil
}

// scanZonePromos walks every product priced in the zone. The reference old
// price is the best observation's crossed-out promo value when it is a real
// promotion, otherwise the worst observation's value when at least two
// stores price the product; single-observation products without a promo
// carry no reference and are skipped.
func (d *Detector) scanZonePromos(ctx context.Context, zone *Zone) ([]ZonePromo, error) {
	start := time.Now()

	products, err := d.catalog.ProductsPricedIn(ctx, zone.StoreIDs())
	if err != nil {
		d.metrics.RecordDealScan("zone_promos", time.Since(start), 0, false)
		return nil, err
	}

	distances := make(map[string]float64, len(zone.Stores))
	for _, s := range zone.Stores {
		distances[s.ID] = s.Distance
	}

	promos := make([]ZonePromo, 0)
	for _, p := range products {
		if len(p.Prices) == 0 {
			continue
		}
		best := p.Prices[0]

		var oldPrice float64
		switch {
		case best.HasPromo():
			oldPrice = *best.Promo
		case len(p.Prices) >= 2:
			oldPrice = p.Prices[len(p.Prices)-1].Value
		default:
			continue
		}
		if oldPrice <= 0 {
			continue
		}

		percent := int(math.Round((oldPrice - best.Value) / oldPrice * 100))
		if percent < d.config.ZonePromoThresholdPct {
			continue
		}
		promos = append(promos, ZonePromo{
			EAN:            p.EAN,
			Name:           p.Name,
			Category:       derefOr(p.Category, "Non catégorisé"),
			Image:          p.ImageURL,
			Price:          best.Value,
			OldPrice:       oldPrice,
			SavingsPercent: percent,
			StoreName:      best.StoreName,
			Distance:       distances[best.StoreID],
			UpdatedAt:      best.UpdatedAt,
		})
	}

	sort.SliceStable(promos, func(i, j int) bool {
		return promos[i].SavingsPercent > promos[j].SavingsPercent
	})

	d.metrics.RecordDealScan("zone_promos", time.Since(start), len(promos), true)
	return promos, nil
}
