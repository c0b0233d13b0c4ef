package usecase

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/pricelens/backend/internal/domain"
	"github.com/pricelens/backend/internal/infrastructure/cache"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// stubSearcher fakes per-region results and counts calls.
type stubSearcher struct {
	mu      sync.Mutex
	results map[domain.Region][]domain.Product
	delay   time.Duration
	calls   []domain.Region
}

func (s *stubSearcher) SearchRegion(ctx context.Context, query string, region domain.Region, maxProducts int) []domain.Product {
	s.mu.Lock()
	s.calls = append(s.calls, region)
	s.mu.Unlock()

	if s.delay > 0 {
		time.Sleep(s.delay)
	}

	products := s.results[region]
	if maxProducts > 0 && maxProducts < len(products) {
		products = products[:maxProducts]
	}
	return products
}

func (s *stubSearcher) callCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.calls)
}

func product(name, site string) domain.Product {
	return domain.Product{Name: name, Price: "$10.00", URL: "https://www.ebay.com/itm/x", Site: site}
}

func TestSearch_ValidationErrors(t *testing.T) {
	service := NewSearchService(&stubSearcher{}, nil, SearchServiceConfig{})
	ctx := context.Background()

	_, err := service.Search(ctx, nil)
	assert.ErrorIs(t, err, domain.ErrEmptyQuery)

	_, err = service.Search(ctx, &domain.SearchRequest{Query: "   ", Regions: []domain.Region{domain.RegionUS}})
	assert.ErrorIs(t, err, domain.ErrEmptyQuery)

	_, err = service.Search(ctx, &domain.SearchRequest{Query: "camera"})
	assert.ErrorIs(t, err, domain.ErrNoRegions)
}

func TestSearch_MergesInRequestOrder(t *testing.T) {
	searcher := &stubSearcher{
		results: map[domain.Region][]domain.Product{
			domain.RegionUK: {product("UK Item One", "eBay (UK)")},
			domain.RegionUS: {product("US Item One", "eBay (US)"), product("US Item Two", "eBay (US)")},
		},
	}
	service := NewSearchService(searcher, nil, SearchServiceConfig{})

	products, err := service.Search(context.Background(), &domain.SearchRequest{
		Query:   "camera",
		Regions: []domain.Region{domain.RegionUK, domain.RegionUS},
	})

	require.NoError(t, err)
	require.Len(t, products, 3)
	assert.Equal(t, "UK Item One", products[0].Name)
	assert.Equal(t, "US Item One", products[1].Name)
	assert.Equal(t, "US Item Two", products[2].Name)
}

func TestSearch_FailedRegionDoesNotAffectSiblings(t *testing.T) {
	// "uk" yields nothing (as after a 500); the "us" results are unaffected.
	searcher := &stubSearcher{
		results: map[domain.Region][]domain.Product{
			domain.RegionUS: {product("US Item One", "eBay (US)"), product("US Item Two", "eBay (US)")},
		},
	}
	service := NewSearchService(searcher, nil, SearchServiceConfig{})

	products, err := service.Search(context.Background(), &domain.SearchRequest{
		Query:   "camera",
		Regions: []domain.Region{domain.RegionUS, domain.RegionUK},
	})

	require.NoError(t, err)
	require.Len(t, products, 2)
	assert.Equal(t, "US Item One", products[0].Name)
	assert.Equal(t, "US Item Two", products[1].Name)
}

func TestSearch_AllRegionsEmptyIsNotAnError(t *testing.T) {
	service := NewSearchService(&stubSearcher{}, nil, SearchServiceConfig{})

	products, err := service.Search(context.Background(), &domain.SearchRequest{
		Query:   "camera",
		Regions: []domain.Region{domain.RegionUS, domain.RegionDE},
	})

	require.NoError(t, err)
	assert.Empty(t, products)
}

func TestSearch_CollapsesDuplicateRegions(t *testing.T) {
	searcher := &stubSearcher{
		results: map[domain.Region][]domain.Product{
			domain.RegionUS: {product("US Item One", "eBay (US)")},
		},
	}
	service := NewSearchService(searcher, nil, SearchServiceConfig{})

	products, err := service.Search(context.Background(), &domain.SearchRequest{
		Query:   "camera",
		Regions: []domain.Region{domain.RegionUS, domain.RegionUS, domain.RegionUS},
	})

	require.NoError(t, err)
	assert.Len(t, products, 1)
	assert.Equal(t, 1, searcher.callCount())
}

func TestSearch_RegionsRunConcurrently(t *testing.T) {
	// With five regions at 100ms each, sequential execution would take
	// 500ms; the fan-out should approximate the slowest single region.
	searcher := &stubSearcher{delay: 100 * time.Millisecond}
	service := NewSearchService(searcher, nil, SearchServiceConfig{})

	start := time.Now()
	_, err := service.Search(context.Background(), &domain.SearchRequest{
		Query: "camera",
		Regions: []domain.Region{
			domain.RegionUS, domain.RegionUK, domain.RegionDE, domain.RegionFR, domain.RegionIT,
		},
	})
	elapsed := time.Since(start)

	require.NoError(t, err)
	assert.Equal(t, 5, searcher.callCount())
	assert.Less(t, elapsed, 300*time.Millisecond, "regions must be fetched in parallel")
}

func TestSearch_CachesRegionResults(t *testing.T) {
	searcher := &stubSearcher{
		results: map[domain.Region][]domain.Product{
			domain.RegionUS: {product("US Item One", "eBay (US)")},
		},
	}
	service := NewSearchService(searcher, cache.NewMemoryCache(), SearchServiceConfig{CacheTTL: time.Minute})
	request := &domain.SearchRequest{Query: "camera", Regions: []domain.Region{domain.RegionUS}}

	first, err := service.Search(context.Background(), request)
	require.NoError(t, err)

	second, err := service.Search(context.Background(), request)
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Equal(t, 1, searcher.callCount(), "second search should be served from cache")
}

func TestSearch_DoesNotCacheEmptyRegions(t *testing.T) {
	searcher := &stubSearcher{}
	service := NewSearchService(searcher, cache.NewMemoryCache(), SearchServiceConfig{CacheTTL: time.Minute})
	request := &domain.SearchRequest{Query: "camera", Regions: []domain.Region{domain.RegionUS}}

	_, err := service.Search(context.Background(), request)
	require.NoError(t, err)
	_, err = service.Search(context.Background(), request)
	require.NoError(t, err)

	assert.Equal(t, 2, searcher.callCount(), "empty results must not be pinned in cache")
}

func TestSearch_AppliesDefaultMaxPerRegion(t *testing.T) {
	many := make([]domain.Product, 10)
	for i := range many {
		many[i] = product("US Item", "eBay (US)")
	}
	searcher := &stubSearcher{results: map[domain.Region][]domain.Product{domain.RegionUS: many}}
	service := NewSearchService(searcher, nil, SearchServiceConfig{})

	products, err := service.Search(context.Background(), &domain.SearchRequest{
		Query:   "camera",
		Regions: []domain.Region{domain.RegionUS},
	})

	require.NoError(t, err)
	assert.Len(t, products, defaultMaxPerRegion)
}

func TestCacheKey_NormalizesQuery(t *testing.T) {
	service := NewSearchService(&stubSearcher{}, nil, SearchServiceConfig{})

	a := service.cacheKey("Vintage Camera!", domain.RegionUS, 5)
	b := service.cacheKey("vintage   camera", domain.RegionUS, 5)

	assert.Equal(t, a, b)
	assert.Equal(t, "search:us:5:vintage camera", a)
}
