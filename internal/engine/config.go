package engine

import "time"

// Config holds the tunable knobs of the comparison engine. Zone sizes and
// thresholds deliberately stay separate per use case: browse, hot deals and
// zone promos evolved with different values and unifying them would change
// observable results.
type Config struct {
	// Zone sizes (seed store included)
	ZoneSizeBrowse   int `mapstructure:"zone_size_browse"`
	ZoneSizeHotDeals int `mapstructure:"zone_size_hot_deals"`
	ZoneSizePromos   int `mapstructure:"zone_size_promos"`

	// Qualification thresholds, in whole percent
	HotDealThresholdPct   int `mapstructure:"hot_deal_threshold_pct"`
	ZonePromoThresholdPct int `mapstructure:"zone_promo_threshold_pct"`

	// Zone-promo result cache
	PromoCacheTTL time.Duration `mapstructure:"promo_cache_ttl"`

	// Scan bounds
	HotDealScanCap  int `mapstructure:"hot_deal_scan_cap"`
	BrowseResultCap int `mapstructure:"browse_result_cap"`

	// Chain whose observations feed the reference ("national") average
	ReferenceBrand string `mapstructure:"reference_brand"`
}

// Defaults returns the default engine configuration.
func Defaults() *Config {
	return &Config{
		ZoneSizeBrowse:        4,
		ZoneSizeHotDeals:      4,
		ZoneSizePromos:        5,
		HotDealThresholdPct:   5,
		ZonePromoThresholdPct: 10,
		PromoCacheTTL:         1 * time.Hour,
		HotDealScanCap:        500,
		BrowseResultCap:       50,
		ReferenceBrand:        "Leclerc",
	}
}

// Validate validates the configuration and returns an error if invalid.
func (c *Config) Validate() error {
	if c.ZoneSizeBrowse < 1 {
		return ErrInvalidConfig{Field: "zone_size_browse", Reason: "must be at least 1"}
	}
	if c.ZoneSizeHotDeals < 1 {
		return ErrInvalidConfig{Field: "zone_size_hot_deals", Reason: "must be at least 1"}
	}
	if c.ZoneSizePromos < 1 {
		return ErrInvalidConfig{Field: "zone_size_promos", Reason: "must be at least 1"}
	}
	if c.HotDealThresholdPct < 0 || c.HotDealThresholdPct > 100 {
		return ErrInvalidConfig{Field: "hot_deal_threshold_pct", Reason: "must be between 0 and 100"}
	}
	if c.ZonePromoThresholdPct < 0 || c.ZonePromoThresholdPct > 100 {
		return ErrInvalidConfig{Field: "zone_promo_threshold_pct", Reason: "must be between 0 and 100"}
	}
	if c.PromoCacheTTL <= 0 {
		return ErrInvalidConfig{Field: "promo_cache_ttl", Reason: "must be positive"}
	}
	if c.HotDealScanCap < 1 {
		return ErrInvalidConfig{Field: "hot_deal_scan_cap", Reason: "must be at least 1"}
	}
	if c.BrowseResultCap < 1 {
		return ErrInvalidConfig{Field: "browse_result_cap", Reason: "must be at least 1"}
	}
	if c.ReferenceBrand == "" {
		return ErrInvalidConfig{Field: "reference_brand", Reason: "cannot be empty"}
	}
	return nil
}
