package cache

import (
	"context"
	"time"

	"github.com/nhiennh/supply-chain-analytics/internal/config"
)

// Key namespaces. Upload invalidates all of them, since new data makes
// every derived result stale.
const (
	PrefixForecast = "forecast:"
	PrefixReorder  = "reorder:"
	PrefixAnalyze  = "analyze:"
	PrefixSegment  = "segment:"
)

// Prefixes lists every cache namespace, in invalidation order.
var Prefixes = []string{PrefixForecast, PrefixReorder, PrefixAnalyze, PrefixSegment}

// ResultCache stores JSON-encoded computation results under namespaced
// keys. A miss is (nil, false, nil); expired entries read as absent.
type ResultCache interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, payload []byte, ttl time.Duration) error
	DeletePrefix(ctx context.Context, prefix string) error
}

// New selects a backend: redis when cache is enabled and reachable, the
// in-process map otherwise.
func New(cfg config.CacheConfig) (ResultCache, error) {
	if !cfg.Enabled {
		return NewMemoryCache(), nil
	}
	return NewRedisCache(cfg)
}
