package ai

import (
	"context"

	lru "github.com/hashicorp/golang-lru"

	"github.com/custodia-labs/sercha-docchat/internal/core/ports/driven"
	"github.com/custodia-labs/sercha-docchat/internal/metrics"
)

// Ensure CachedEmbedding implements EmbeddingService
var _ driven.EmbeddingService = (*CachedEmbedding)(nil)

// CachedEmbedding memoises query embeddings in an LRU cache.
// Document embeddings (Embed) always go to the provider.
type CachedEmbedding struct {
	driven.EmbeddingService
	cache *lru.Cache
}

// NewCachedEmbedding wraps svc with a query cache of size entries.
// A size of zero or less returns svc unchanged.
func NewCachedEmbedding(svc driven.EmbeddingService, size int) (driven.EmbeddingService, error) {
	if svc == nil || size <= 0 {
		return svc, nil
	}
	cache, err := lru.New(size)
	if err != nil {
		return nil, err
	}
	return &CachedEmbedding{EmbeddingService: svc, cache: cache}, nil
}

// EmbedQuery returns a cached vector when the same query was embedded before
func (c *CachedEmbedding) EmbedQuery(ctx context.Context, query string) ([]float32, error) {
	if val, ok := c.cache.Get(query); ok {
		metrics.CacheHitsTotal.Inc()
		return val.([]float32), nil
	}
	metrics.CacheMissesTotal.Inc()

	vector, err := c.EmbeddingService.EmbedQuery(ctx, query)
	if err != nil {
		return nil, err
	}
	c.cache.Add(query, vector)
	return vector, nil
}

// Len returns the number of cached queries
func (c *CachedEmbedding) Len() int {
	return c.cache.Len()
}

// Close purges the cache and closes the wrapped service
func (c *CachedEmbedding) Close() error {
	c.cache.Purge()
	return c.EmbeddingService.Close()
}
