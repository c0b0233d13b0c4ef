package domain

import (
	"context"
	"net/http"
	"time"
)

// RegionSearcher fetches and extracts the listings for a single region.
// Implementations never return an error for region-level failures; a failed
// region degrades to an empty slice so sibling regions are unaffected.
type RegionSearcher interface {
	SearchRegion(ctx context.Context, query string, region Region, maxProducts int) []Product
}

// CacheRepository defines the interface for caching operations
type CacheRepository interface {
	Get(ctx context.Context, key string) (interface{}, error)
	Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
	Exists(ctx context.Context, key string) (bool, error)
}

// HeaderProvider supplies the browser-like headers attached to every
// marketplace request. Pluggable so tests can inject a fixed set.
type HeaderProvider interface {
	Headers() http.Header
}

// Exporter writes a product batch to a durable artifact and returns its path.
// It must refuse an empty batch rather than produce a zero-row artifact.
type Exporter interface {
	Export(products []Product, query string, outputFile string) (string, error)
}
