package history

import (
	"context"

	"github.com/nhiennh/supply-chain-analytics/internal/domain"
)

// Store persists analysis outputs so the dashboard can re-read the last
// run instead of recomputing. Collections keyed by category or seller
// are upserted wholesale on every recomputation; EDA summaries are an
// insert-only log. Implementations must treat persistence failures as
// non-fatal for the request that triggered them.
type Store interface {
	SaveForecasts(ctx context.Context, results map[string]*domain.ForecastResult) error
	SavePolicies(ctx context.Context, policies []domain.ReorderPolicy) error
	SaveRecommendations(ctx context.Context, recs []domain.Recommendation) error
	SaveClusters(ctx context.Context, clusters []domain.SupplierCluster) error
	SaveBottlenecks(ctx context.Context, bottlenecks []domain.Bottleneck) error
	SaveEDASummary(ctx context.Context, summary *domain.EDASummary) error
	RecentForecasts(ctx context.Context, limit int) ([]domain.ForecastResult, error)
	Close(ctx context.Context) error
}

type noopStore struct{}

// NewNoopStore is the store used when no document database is
// configured. Reads return empty history.
func NewNoopStore() Store {
	return noopStore{}
}

func (noopStore) SaveForecasts(context.Context, map[string]*domain.ForecastResult) error {
	return nil
}
func (noopStore) SavePolicies(context.Context, []domain.ReorderPolicy) error { return nil }
func (noopStore) SaveRecommendations(context.Context, []domain.Recommendation) error { return nil }
func (noopStore) SaveClusters(context.Context, []domain.SupplierCluster) error { return nil }
func (noopStore) SaveBottlenecks(context.Context, []domain.Bottleneck) error { return nil }
func (noopStore) SaveEDASummary(context.Context, *domain.EDASummary) error { return nil }
func (noopStore) RecentForecasts(context.Context, int) ([]domain.ForecastResult, error) {
	return []domain.ForecastResult{}, nil
}
func (noopStore) Close(context.Context) error { return nil }
