package handlers

import (
	"github.com/yoopan/compare-service/internal/engine"
	"github.com/yoopan/compare-service/internal/matching"
)

// Global component instances (initialized by the application)
var (
	zoneResolver     *engine.Resolver
	offerAggregator  *engine.Aggregator
	basketComparator *engine.Comparator
	dealDetector     *engine.Detector
	ingredientMatch  *matching.Matcher
	engineConfig     *engine.Config
)

// Catalog is the combined persistence surface the handlers wire up.
type Catalog interface {
	engine.Catalog
	matching.Catalog
}

// InitComponents initializes the engine components.
// This should be called during application startup.
func InitComponents(catalog Catalog, engineCfg *engine.Config, matchingCfg matching.Config) {
	engineConfig = engineCfg
	zoneResolver = engine.NewResolver(catalog)
	offerAggregator = engine.NewAggregator(catalog, zoneResolver, engineCfg)
	basketComparator = engine.NewComparator()
	dealDetector = engine.NewDetector(catalog, zoneResolver, engineCfg)
	ingredientMatch = matching.NewMatcher(catalog, matchingCfg)
}
