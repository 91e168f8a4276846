package service

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/nhiennh/supply-chain-analytics/internal/cache"
	"github.com/nhiennh/supply-chain-analytics/internal/domain"
	"github.com/nhiennh/supply-chain-analytics/internal/export"
	"github.com/nhiennh/supply-chain-analytics/internal/history"
	"github.com/nhiennh/supply-chain-analytics/internal/reorder"
	"github.com/rs/zerolog/log"
)

const chartTopN = 10

type ReorderService struct {
	engine    *reorder.Engine
	forecasts *ForecastService
	provider  *DatasetProvider
	cache     cache.ResultCache
	store     history.Store
	ttl       time.Duration
}

func NewReorderService(engine *reorder.Engine, forecasts *ForecastService, provider *DatasetProvider, cacheImpl cache.ResultCache, store history.Store, ttl time.Duration) *ReorderService {
	if cacheImpl == nil {
		cacheImpl = cache.NewMemoryCache()
	}
	if store == nil {
		store = history.NewNoopStore()
	}
	return &ReorderService{
		engine:    engine,
		forecasts: forecasts,
		provider:  provider,
		cache:     cacheImpl,
		store:     store,
		ttl:       ttl,
	}
}

// Strategy derives the policy list from the full batch forecast and the
// historical lead times.
func (s *ReorderService) Strategy(ctx context.Context, force bool) ([]domain.ReorderPolicy, error) {
	key := cache.PrefixReorder + "strategy"
	if !force {
		if cached, ok := getCached[[]domain.ReorderPolicy](ctx, s.cache, key); ok {
			return *cached, nil
		}
	}

	batch, err := s.forecasts.Batch(ctx, 0, force)
	if err != nil {
		return nil, err
	}
	ds, err := s.provider.Dataset(ctx)
	if err != nil {
		return nil, err
	}

	policies := s.engine.ComputeStrategy(batch.Categories, ds.AvgLeadTimeByCategory())
	policies = s.engine.Annotate(policies)

	setCached(ctx, s.cache, key, policies, s.ttl)
	if err := s.store.SavePolicies(ctx, policies); err != nil {
		log.Warn().Err(err).Msg("persist reorder policies failed")
	}
	return policies, nil
}

// Recommendations evaluates the fixed-perturbation alternatives for the
// costliest policies.
func (s *ReorderService) Recommendations(ctx context.Context) ([]domain.Recommendation, error) {
	key := cache.PrefixReorder + "recommendations"
	if cached, ok := getCached[[]domain.Recommendation](ctx, s.cache, key); ok {
		return *cached, nil
	}

	policies, err := s.Strategy(ctx, false)
	if err != nil {
		return nil, err
	}
	recs := s.engine.GenerateRecommendations(policies)

	setCached(ctx, s.cache, key, recs, s.ttl)
	if err := s.store.SaveRecommendations(ctx, recs); err != nil {
		log.Warn().Err(err).Msg("persist recommendations failed")
	}
	return recs, nil
}

// RecommendationsWorkbook renders the current recommendations as xlsx
// bytes for download.
func (s *ReorderService) RecommendationsWorkbook(ctx context.Context) ([]byte, error) {
	recs, err := s.Recommendations(ctx)
	if err != nil {
		return nil, err
	}
	return export.RecommendationsWorkbook(recs)
}

// Chart metrics selectable on the reorder dashboard.
const (
	ChartReorderPoint    = "reorder"
	ChartSafetyStock     = "safety-stock"
	ChartLeadTime        = "lead-time"
	ChartInventory       = "inventory"
	ChartHoldingCost     = "holding-cost"
	ChartPotentialSaving = "potential-saving"
)

// Chart returns the top categories by the requested policy metric.
func (s *ReorderService) Chart(ctx context.Context, metric string) ([]domain.NamedValue, error) {
	if metric == ChartPotentialSaving {
		recs, err := s.Recommendations(ctx)
		if err != nil {
			return nil, err
		}
		values := make([]domain.NamedValue, 0, len(recs))
		for _, r := range recs {
			values = append(values, domain.NamedValue{Name: r.Category, Value: r.PotentialSaving})
		}
		return topValues(values), nil
	}

	policies, err := s.Strategy(ctx, false)
	if err != nil {
		return nil, err
	}

	values := make([]domain.NamedValue, 0, len(policies))
	for _, p := range policies {
		var v float64
		switch metric {
		case ChartReorderPoint:
			v = float64(p.ReorderPoint)
		case ChartSafetyStock:
			v = float64(p.SafetyStock)
		case ChartLeadTime:
			v = p.AvgLeadTimeDays
		case ChartInventory:
			v = float64(p.OptimalInventory)
		case ChartHoldingCost:
			v = p.HoldingCost
		default:
			return nil, fmt.Errorf("unknown chart metric %q", metric)
		}
		values = append(values, domain.NamedValue{Name: p.Category, Value: v})
	}
	return topValues(values), nil
}

func topValues(values []domain.NamedValue) []domain.NamedValue {
	sort.Slice(values, func(i, j int) bool {
		if values[i].Value != values[j].Value {
			return values[i].Value > values[j].Value
		}
		return values[i].Name < values[j].Name
	})
	if len(values) > chartTopN {
		values = values[:chartTopN]
	}
	return values
}
