package service

import (
	"context"
	"time"

	"github.com/nhiennh/supply-chain-analytics/internal/cache"
	"github.com/nhiennh/supply-chain-analytics/internal/domain"
	"github.com/nhiennh/supply-chain-analytics/internal/eda"
	"github.com/nhiennh/supply-chain-analytics/internal/history"
	"github.com/nhiennh/supply-chain-analytics/internal/segment"
	"github.com/rs/zerolog/log"
)

type AnalyzeService struct {
	provider *DatasetProvider
	analyzer *segment.Analyzer
	cache    cache.ResultCache
	store    history.Store
	ttl      time.Duration
}

func NewAnalyzeService(provider *DatasetProvider, analyzer *segment.Analyzer, cacheImpl cache.ResultCache, store history.Store, ttl time.Duration) *AnalyzeService {
	if cacheImpl == nil {
		cacheImpl = cache.NewMemoryCache()
	}
	if store == nil {
		store = history.NewNoopStore()
	}
	return &AnalyzeService{
		provider: provider,
		analyzer: analyzer,
		cache:    cacheImpl,
		store:    store,
		ttl:      ttl,
	}
}

// Summary builds (or re-reads) the EDA dashboard summary. Every fresh
// computation is appended to the insert-only summary log.
func (s *AnalyzeService) Summary(ctx context.Context) (*domain.EDASummary, error) {
	key := cache.PrefixAnalyze + "summary"
	if cached, ok := getCached[domain.EDASummary](ctx, s.cache, key); ok {
		return cached, nil
	}

	ds, err := s.provider.Dataset(ctx)
	if err != nil {
		return nil, err
	}

	summary := eda.Summarize(ds)
	setCached(ctx, s.cache, key, summary, s.ttl)
	if err := s.store.SaveEDASummary(ctx, summary); err != nil {
		log.Warn().Err(err).Msg("persist eda summary failed")
	}
	return summary, nil
}

func (s *AnalyzeService) MonthlyOrders(ctx context.Context) ([]domain.MonthlyCount, error) {
	summary, err := s.Summary(ctx)
	if err != nil {
		return nil, err
	}
	return summary.OrdersByMonth, nil
}

func (s *AnalyzeService) TopCategories(ctx context.Context) ([]domain.NamedValue, error) {
	summary, err := s.Summary(ctx)
	if err != nil {
		return nil, err
	}
	return summary.TopCategories, nil
}

func (s *AnalyzeService) DeliveryDelay(ctx context.Context) (float64, error) {
	summary, err := s.Summary(ctx)
	if err != nil {
		return 0, err
	}
	return summary.DeliveryDelayRate, nil
}

func (s *AnalyzeService) SellerShipping(ctx context.Context) ([]domain.NamedValue, error) {
	summary, err := s.Summary(ctx)
	if err != nil {
		return nil, err
	}
	return summary.AvgShippingBySeller, nil
}

func (s *AnalyzeService) CategoryFreight(ctx context.Context) ([]domain.NamedValue, error) {
	summary, err := s.Summary(ctx)
	if err != nil {
		return nil, err
	}
	return summary.AvgFreightByCategory, nil
}

// Clustering segments suppliers, persisting the assignment per seller.
func (s *AnalyzeService) Clustering(ctx context.Context) ([]domain.SupplierCluster, error) {
	key := cache.PrefixSegment + "clusters"
	if cached, ok := getCached[[]domain.SupplierCluster](ctx, s.cache, key); ok {
		return *cached, nil
	}

	ds, err := s.provider.Dataset(ctx)
	if err != nil {
		return nil, err
	}

	clusters := s.analyzer.ClusterSuppliers(ds)
	setCached(ctx, s.cache, key, clusters, s.ttl)
	if err := s.store.SaveClusters(ctx, clusters); err != nil {
		log.Warn().Err(err).Msg("persist supplier clusters failed")
	}
	return clusters, nil
}

// Bottlenecks flags the suppliers with the worst late-delivery rates.
func (s *AnalyzeService) Bottlenecks(ctx context.Context) ([]domain.Bottleneck, error) {
	key := cache.PrefixSegment + "bottlenecks"
	if cached, ok := getCached[[]domain.Bottleneck](ctx, s.cache, key); ok {
		return *cached, nil
	}

	ds, err := s.provider.Dataset(ctx)
	if err != nil {
		return nil, err
	}

	bottlenecks := s.analyzer.DetectBottlenecks(ds)
	setCached(ctx, s.cache, key, bottlenecks, s.ttl)
	if err := s.store.SaveBottlenecks(ctx, bottlenecks); err != nil {
		log.Warn().Err(err).Msg("persist shipping bottlenecks failed")
	}
	return bottlenecks, nil
}
