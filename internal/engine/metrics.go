package engine

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// zoneResolutions tracks zone resolution attempts per outcome.
	zoneResolutions = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "engine_zone_resolutions_total",
		Help: "Total number of zone resolutions by outcome",
	}, []string{"outcome"}) // outcome: ok, not_found, no_coordinates, error

	// zoneRadius tracks the distance to the farthest neighbor in a resolved zone.
	zoneRadius = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "engine_zone_radius_km",
		Help:    "Distance to the farthest zone neighbor in kilometers",
		Buckets: []float64{1, 2, 5, 10, 20, 50, 100},
	})

	// promoCacheHits tracks promo snapshot cache hits.
	promoCacheHits = promauto.NewCounter(prometheus.CounterOpts{
		Name: "engine_promo_cache_hits_total",
		Help: "Total number of zone promo cache hits",
	})

	// promoCacheMisses tracks promo snapshot cache misses.
	promoCacheMisses = promauto.NewCounter(prometheus.CounterOpts{
		Name: "engine_promo_cache_misses_total",
		Help: "Total number of zone promo cache misses",
	})

	// dealScanDuration tracks the time taken for deal detection scans.
	dealScanDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "engine_deal_scan_duration_seconds",
		Help:    "Time taken for deal detection scans by type",
		Buckets: []float64{0.01, 0.05, 0.1, 0.2, 0.5, 1, 2, 5},
	}, []string{"type"}) // type: hot_deals, zone_promos

	// dealScanErrors tracks deal detection scan errors.
	dealScanErrors = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "engine_deal_scan_errors_total",
		Help: "Total number of deal detection scan errors by type",
	}, []string{"type"})

	// dealsFound tracks how many deals each scan surfaces.
	dealsFound = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "engine_deals_found_count",
		Help:    "Number of deals surfaced per scan by type",
		Buckets: []float64{0, 1, 5, 10, 20, 50, 100},
	}, []string{"type"})

	// basketCompareDuration tracks the time taken for basket comparisons.
	basketCompareDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "engine_basket_compare_duration_seconds",
		Help:    "Time taken for basket comparison",
		Buckets: []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1},
	})

	// basketItemCount tracks the distribution of compared basket sizes.
	basketItemCount = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "engine_basket_items_count",
		Help:    "Number of items in basket comparison requests",
		Buckets: []float64{1, 5, 10, 20, 50, 100},
	})

	// basketStoreCount tracks the number of stores per basket comparison.
	basketStoreCount = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "engine_basket_stores_count",
		Help:    "Number of stores covered by a basket comparison",
		Buckets: []float64{1, 2, 3, 5, 10, 20},
	})
)

// MetricsRecorder provides methods to record engine metrics.
type MetricsRecorder struct{}

// NewMetricsRecorder creates a new metrics recorder.
func NewMetricsRecorder() *MetricsRecorder {
	return &MetricsRecorder{}
}

// RecordZoneResolution records a zone resolution attempt.
func (m *MetricsRecorder) RecordZoneResolution(outcome string) {
	zoneResolutions.WithLabelValues(outcome).Inc()
}

// RecordZoneRadius records the farthest-neighbor distance of a resolved zone.
func (m *MetricsRecorder) RecordZoneRadius(distanceKm float64) {
	zoneRadius.Observe(distanceKm)
}

// RecordPromoCacheHit records a zone promo cache hit.
func (m *MetricsRecorder) RecordPromoCacheHit() {
	promoCacheHits.Inc()
}

// RecordPromoCacheMiss records a zone promo cache miss.
func (m *MetricsRecorder) RecordPromoCacheMiss() {
	promoCacheMisses.Inc()
}

// RecordDealScan records a deal detection scan.
func (m *MetricsRecorder) RecordDealScan(scanType string, duration time.Duration, found int, success bool) {
	dealScanDuration.WithLabelValues(scanType).Observe(duration.Seconds())
	if success {
		dealsFound.WithLabelValues(scanType).Observe(float64(found))
	} else {
		dealScanErrors.WithLabelValues(scanType).Inc()
	}
}

// RecordBasketCompare records a basket comparison operation.
func (m *MetricsRecorder) RecordBasketCompare(duration time.Duration, items, stores int) {
	basketCompareDuration.Observe(duration.Seconds())
	basketItemCount.Observe(float64(items))
	basketStoreCount.Observe(float64(stores))
}
