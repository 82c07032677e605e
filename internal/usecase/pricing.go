package usecase

import (
	"context"
	"crypto/md5"
	"encoding/hex"
	"encoding/json"
	"math"
	"sort"
	"strings"
	"time"

	"CardSight/internal/domain/models"
	"CardSight/internal/domain/repository"
	"CardSight/internal/domain/service"
	applogger "CardSight/pkg/logger"
)

// ResolverConfig tunes the price resolver.
type ResolverConfig struct {
	MaxComparables      int
	SimilarityThreshold float64
}

// Resolver turns an identity into a market price snapshot. Results are
// cached by identity hash; search transport failures degrade to an
// empty snapshot rather than an error.
type Resolver struct {
	cache    repository.PriceCache
	searcher repository.ListingSearcher
	advisor  service.Advisor
	metrics  repository.Metrics
	logger   *applogger.Logger
	cfg      ResolverConfig
}

func NewResolver(
	cache repository.PriceCache,
	searcher repository.ListingSearcher,
	advisor service.Advisor,
	metrics repository.Metrics,
	l *applogger.Logger,
	cfg ResolverConfig,
) *Resolver {
	if cfg.MaxComparables <= 0 {
		cfg.MaxComparables = 10
	}
	if cfg.SimilarityThreshold <= 0 {
		cfg.SimilarityThreshold = 0.45
	}
	return &Resolver{
		cache:    cache,
		searcher: searcher,
		advisor:  advisor,
		metrics:  metrics,
		logger:   l,
		cfg:      cfg,
	}
}

// Resolve returns the price snapshot for the identity, computing and
// caching one when absent.
func (r *Resolver) Resolve(ctx context.Context, id models.Identity) *models.PriceSnapshot {
	key := CacheKey(id)

	if snap, ok, err := r.cache.Get(ctx, key); err == nil && ok {
		r.metrics.RecordCache(true)
		return snap
	} else if err != nil {
		r.logger.Warn("price cache read failed", applogger.Error(err))
	}
	r.metrics.RecordCache(false)

	query := r.buildSearchQuery(ctx, id)
	comps := r.search(ctx, query)

	// Broaden once: a graded, numbered query can be too narrow for a
	// sold-listings search.
	if len(comps) == 0 && (id.Grade != "" || id.ItemNumber != "") {
		broad := id
		broad.Grade = ""
		broad.GradingCompany = ""
		broad.ItemNumber = ""
		query = plainQuery(broad)
		comps = r.search(ctx, query)
	}

	snap := r.summarize(comps, query)

	if err := r.cache.Set(ctx, key, snap); err != nil {
		r.logger.Warn("price cache write failed", applogger.Error(err))
	}
	return snap
}

func (r *Resolver) buildSearchQuery(ctx context.Context, id models.Identity) string {
	if r.advisor != nil && r.advisor.Available() {
		if q, err := r.advisor.CompactQuery(ctx, id); err == nil && q != "" {
			return q
		}
	}
	return plainQuery(id)
}

func (r *Resolver) search(ctx context.Context, query string) []models.Comparable {
	if query == "" {
		return nil
	}
	comps, err := r.searcher.Search(ctx, query)
	if err != nil {
		r.logger.Warn("listings search failed",
			applogger.String("source", r.searcher.Name()),
			applogger.String("query", query),
			applogger.Error(err),
		)
		r.metrics.RecordError("listings_search")
		return nil
	}
	return comps
}

// summarize filters comparables against the query and computes stats.
func (r *Resolver) summarize(comps []models.Comparable, query string) *models.PriceSnapshot {
	snap := &models.PriceSnapshot{Query: query, CachedAt: time.Now()}
	if len(comps) == 0 {
		return snap
	}

	filtered := make([]models.Comparable, 0, len(comps))
	for _, c := range comps {
		if tokenSetSimilarity(c.Title, query) >= r.cfg.SimilarityThreshold {
			filtered = append(filtered, c)
		}
	}
	if len(filtered) == 0 {
		// Filtering away all evidence is worse than noisy evidence;
		// keep everything and flag the snapshot.
		filtered = comps
		snap.Filtered = false
	} else {
		snap.Filtered = true
	}

	if len(filtered) > r.cfg.MaxComparables {
		filtered = filtered[:r.cfg.MaxComparables]
	}

	prices := make([]float64, 0, len(filtered))
	for _, c := range filtered {
		prices = append(prices, c.Price)
	}
	sort.Float64s(prices)

	snap.Count = len(prices)
	snap.Prices = prices
	snap.Min = prices[0]
	snap.Max = prices[len(prices)-1]
	snap.Median = median(prices)

	var sum float64
	for _, p := range prices {
		sum += p
	}
	snap.Mean = sum / float64(len(prices))

	var sq float64
	for _, p := range prices {
		d := p - snap.Mean
		sq += d * d
	}
	snap.StdDev = math.Sqrt(sq / float64(len(prices)))

	return snap
}

// CacheKey derives the price cache key from the identity's canonical
// JSON form.
func CacheKey(id models.Identity) string {
	canonical := struct {
		Name       string `json:"name"`
		Year       string `json:"year"`
		Set        string `json:"set"`
		Grade      string `json:"grade"`
		ItemNumber string `json:"item_number"`
	}{
		Name:       strings.ToLower(id.Name),
		Year:       id.Year,
		Set:        strings.ToLower(id.SetName),
		Grade:      strings.ToLower(id.Grade),
		ItemNumber: strings.ToLower(id.ItemNumber),
	}
	b, _ := json.Marshal(canonical)
	sum := md5.Sum(b)
	return hex.EncodeToString(sum[:])
}

func plainQuery(id models.Identity) string {
	parts := make([]string, 0, 5)
	if id.Name != "" {
		parts = append(parts, id.Name)
	}
	if id.Year != "" {
		parts = append(parts, id.Year)
	}
	if id.SetName != "" {
		parts = append(parts, id.SetName)
	}
	if id.ItemNumber != "" {
		parts = append(parts, "#"+id.ItemNumber)
	}
	if id.Grade != "" {
		parts = append(parts, id.Grade)
	}
	return strings.Join(parts, " ")
}

func median(sorted []float64) float64 {
	n := len(sorted)
	if n == 0 {
		return 0
	}
	if n%2 == 1 {
		return sorted[n/2]
	}
	return (sorted[n/2-1] + sorted[n/2]) / 2
}

// tokenSetSimilarity is the Jaccard similarity of lowercase token sets,
// insensitive to order and repetition.
func tokenSetSimilarity(a, b string) float64 {
	as := tokenSet(a)
	bs := tokenSet(b)
	if len(as) == 0 || len(bs) == 0 {
		return 0
	}

	var inter int
	for tok := range as {
		if bs[tok] {
			inter++
		}
	}
	union := len(as) + len(bs) - inter
	return float64(inter) / float64(union)
}

func tokenSet(s string) map[string]bool {
	set := make(map[string]bool)
	for _, tok := range strings.Fields(strings.ToLower(s)) {
		tok = strings.Trim(tok, ".,#$()[]")
		if tok != "" {
			set[tok] = true
		}
	}
	return set
}
