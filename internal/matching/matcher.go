package matching

import (
	"context"
	"sort"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"

	"github.com/yoopan/compare-service/internal/engine"
)

var (
	// termsMatched tracks matched ingredient terms by outcome.
	termsMatched = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "matching_terms_total",
		Help: "Total number of ingredient terms matched by outcome",
	}, []string{"outcome"}) // outcome: ok, empty, error

	// matchDuration tracks the duration of full multi-term match calls.
	matchDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "matching_request_duration_seconds",
		Help:    "Time taken for a full ingredient match request",
		Buckets: []float64{0.01, 0.05, 0.1, 0.5, 1, 2, 5},
	})
)

// Catalog is the read-only persistence collaborator for ingredient matching.
type Catalog interface {
	// StoreByRef finds a store by any of the given identifier variants,
	// (nil, nil) when none matches.
	StoreByRef(ctx context.Context, refs []string) (*engine.Store, error)

	// SearchPricedAt fetches up to limit products whose name contains term
	// (case-insensitive) and that carry a price at storeID, with prices
	// restricted to that store.
	SearchPricedAt(ctx context.Context, term, storeID string, limit int) ([]engine.PricedProduct, error)
}

// Config holds the tunable knobs of ingredient matching.
type Config struct {
	// ScanCap bounds how many candidate products one term scans.
	ScanCap int `mapstructure:"scan_cap"`
	// ResultCap bounds how many ranked candidates one term returns.
	ResultCap int `mapstructure:"result_cap"`
}

// Defaults returns the default matching configuration.
func Defaults() Config {
	return Config{ScanCap: 500, ResultCap: 20}
}

// Ingredient is one free-text recipe line to match.
type Ingredient struct {
	Term     string
	Quantity int
}

// Candidate is one ranked product match with its store-scoped price.
type Candidate struct {
	EAN      string
	Name     string
	Image    *string
	Price    float64
	Promo    *float64
	HasPromo bool
	Brand    string
	score    int
}

// Match is the ranked candidate list for one ingredient term. Results keep
// the positional order of the input terms.
type Match struct {
	Term       string
	Quantity   int
	Candidates []Candidate
}

// Matcher ranks store-scoped product candidates for recipe ingredients.
type Matcher struct {
	catalog Catalog
	config  Config
	logger  zerolog.Logger
}

// NewMatcher creates a new ingredient matcher.
func NewMatcher(catalog Catalog, config Config) *Matcher {
	return &Matcher{
		catalog: catalog,
		config:  config,
		logger:  log.With().Str("component", "ingredient_matcher").Logger(),
	}
}

// Match resolves the store once and ranks candidates for every ingredient
// concurrently. All terms share the store, so an unresolvable store ref
// fails the whole call with engine.ErrStoreNotFound. Results are positional:
// output index i always answers ingredients[i].
func (m *Matcher) Match(ctx context.Context, storeRef string, ingredients []Ingredient) ([]Match, error) {
	if len(ingredients) == 0 {
		return []Match{}, nil
	}

	start := time.Now()
	store, err := m.catalog.StoreByRef(ctx, engine.IdentifierVariants(storeRef))
	if err != nil {
		return nil, err
	}
	if store == nil {
		return nil, engine.ErrStoreNotFound
	}

	results := make([]Match, len(ingredients))
	g, ctx := errgroup.WithContext(ctx)
	for i, ing := range ingredients {
		g.Go(func() error {
			candidates, err := m.matchTerm(ctx, store.ID, ing.Term)
			if err != nil {
				termsMatched.WithLabelValues("error").Inc()
				return err
			}
			if len(candidates) == 0 {
				termsMatched.WithLabelValues("empty").Inc()
			} else {
				termsMatched.WithLabelValues("ok").Inc()
			}
			results[i] = Match{Term: ing.Term, Quantity: ing.Quantity, Candidates: candidates}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	matchDuration.Observe(time.Since(start).Seconds())
	m.logger.Debug().
		Str("store_id", store.ID).
		Int("terms", len(ingredients)).
		Msg("ingredients matched")
	return results, nil
}

func (m *Matcher) matchTerm(ctx context.Context, storeID, term string) ([]Candidate, error) {
	products, err := m.catalog.SearchPricedAt(ctx, term, storeID, m.config.ScanCap)
	if err != nil {
		return nil, err
	}

	candidates := make([]Candidate, 0, len(products))
	for _, p := range products {
		if len(p.Prices) == 0 || Blacklisted(p.Name) {
			continue
		}
		price := p.Prices[0]

		c := Candidate{
			EAN:      p.EAN,
			Name:     p.Name,
			Image:    p.ImageURL,
			Price:    price.Value,
			Promo:    price.Promo,
			HasPromo: price.HasPromo(),
			Brand:    firstToken(p.Name),
		}
		c.score = scoreCandidate(p.Name, term, c.HasPromo)
		candidates = append(candidates, c)
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		a, b := candidates[i], candidates[j]
		// Promotions outrank every lexical signal.
		if a.HasPromo != b.HasPromo {
			return a.HasPromo
		}
		if a.score != b.score {
			return a.score > b.score
		}
		return a.Price < b.Price
	})

	if len(candidates) > m.config.ResultCap {
		candidates = candidates[:m.config.ResultCap]
	}
	return candidates, nil
}

// scoreCandidate combines the promotion boost with lexical relevance:
// prefix beats whole-word, and shorter names (raw ingredients rather than
// branded composites) earn a length bonus.
func scoreCandidate(name, term string, hasPromo bool) int {
	score := 0
	if hasPromo {
		score += 1_000_000
	}
	if hasPrefixFold(name, term) {
		score += 100
	} else if containsWholeWordFold(name, term) {
		score += 50
	}
	if bonus := 100 - len([]rune(name)); bonus > 0 {
		score += bonus
	}
	return score
}

// firstToken derives a display brand from the leading word of the product
// name. A heuristic, not a verified brand attribute.
func firstToken(name string) string {
	if i := strings.IndexByte(name, ' '); i > 0 {
		return name[:i]
	}
	return name
}
