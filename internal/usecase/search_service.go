package usecase

import (
	"context"
	"fmt"
	"regexp"
	"strings"
	"sync"
	"time"

	"github.com/pricelens/backend/internal/domain"
)

// Package-level compiled regex patterns for cache key normalization
var (
	nonAlphanumericRegex = regexp.MustCompile(`[^a-z0-9\s]`)
	multipleSpacesRegex  = regexp.MustCompile(`\s+`)
)

const defaultMaxPerRegion = 5

// SearchServiceConfig holds configuration for the search service
type SearchServiceConfig struct {
	CacheTTL time.Duration
}

// SearchService fans a query out to every requested region concurrently and
// merges the per-region results in request order.
type SearchService struct {
	searcher domain.RegionSearcher
	cache    domain.CacheRepository
	cacheTTL time.Duration
}

// NewSearchService creates a search service. The cache is optional; pass nil
// to always hit the marketplace.
func NewSearchService(searcher domain.RegionSearcher, cache domain.CacheRepository, config SearchServiceConfig) *SearchService {
	cacheTTL := config.CacheTTL
	if cacheTTL == 0 {
		cacheTTL = 15 * time.Minute
	}

	return &SearchService{
		searcher: searcher,
		cache:    cache,
		cacheTTL: cacheTTL,
	}
}

// Search runs one fetch per region concurrently and concatenates the results
// in the order the regions were requested. A failed region contributes an
// empty slice; only malformed input is an error. An all-empty outcome is a
// valid result, not an error — the caller decides how to surface it.
func (s *SearchService) Search(ctx context.Context, request *domain.SearchRequest) ([]domain.Product, error) {
	if request == nil {
		return nil, domain.ErrEmptyQuery
	}

	query := strings.TrimSpace(request.Query)
	if query == "" {
		return nil, domain.ErrEmptyQuery
	}
	if len(request.Regions) == 0 {
		return nil, domain.ErrNoRegions
	}

	regions := dedupeRegions(request.Regions)

	maxPerRegion := request.MaxPerRegion
	if maxPerRegion <= 0 {
		maxPerRegion = defaultMaxPerRegion
	}

	// One goroutine per region, each writing only its own slot. The join
	// happens on the WaitGroup, so no shared accumulator needs locking.
	results := make([][]domain.Product, len(regions))
	var wg sync.WaitGroup
	for i, region := range regions {
		wg.Add(1)
		go func(i int, region domain.Region) {
			defer wg.Done()
			results[i] = s.searchRegion(ctx, query, region, maxPerRegion)
		}(i, region)
	}
	wg.Wait()

	var products []domain.Product
	for _, regionProducts := range results {
		products = append(products, regionProducts...)
	}

	return products, nil
}

// searchRegion fetches one region's products, consulting the cache first.
func (s *SearchService) searchRegion(ctx context.Context, query string, region domain.Region, maxPerRegion int) []domain.Product {
	cacheKey := s.cacheKey(query, region, maxPerRegion)

	if cached, ok := s.getFromCache(ctx, cacheKey); ok {
		return cached
	}

	products := s.searcher.SearchRegion(ctx, query, region, maxPerRegion)

	// An empty slice may be a transient region failure; caching it would
	// pin the failure for the whole TTL.
	if len(products) > 0 {
		s.setInCache(ctx, cacheKey, products)
	}

	return products
}

// cacheKey builds a normalized cache key, e.g. "search:us:5:vintage camera".
func (s *SearchService) cacheKey(query string, region domain.Region, maxPerRegion int) string {
	normalized := strings.ToLower(query)
	normalized = nonAlphanumericRegex.ReplaceAllString(normalized, "")
	normalized = multipleSpacesRegex.ReplaceAllString(normalized, " ")
	return fmt.Sprintf("search:%s:%d:%s", region, maxPerRegion, strings.TrimSpace(normalized))
}

func (s *SearchService) getFromCache(ctx context.Context, key string) ([]domain.Product, bool) {
	if s.cache == nil {
		return nil, false
	}

	value, err := s.cache.Get(ctx, key)
	if err != nil {
		return nil, false
	}

	products, ok := value.([]domain.Product)
	return products, ok
}

func (s *SearchService) setInCache(ctx context.Context, key string, products []domain.Product) {
	if s.cache == nil {
		return
	}
	// A failed cache write only costs a refetch next time.
	_ = s.cache.Set(ctx, key, products, s.cacheTTL)
}

// dedupeRegions collapses duplicate regions, keeping the first occurrence's
// position so the merge order stays deterministic.
func dedupeRegions(regions []domain.Region) []domain.Region {
	seen := make(map[domain.Region]bool, len(regions))
	deduped := make([]domain.Region, 0, len(regions))
	for _, r := range regions {
		if seen[r] {
			continue
		}
		seen[r] = true
		deduped = append(deduped, r)
	}
	return deduped
}
