package service

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/nhiennh/supply-chain-analytics/internal/cache"
	"github.com/nhiennh/supply-chain-analytics/internal/domain"
	"github.com/nhiennh/supply-chain-analytics/internal/forecast"
	"github.com/nhiennh/supply-chain-analytics/internal/history"
	"github.com/rs/zerolog/log"
)

type ForecastService struct {
	provider   *DatasetProvider
	forecaster *forecast.Forecaster
	cache      cache.ResultCache
	store      history.Store
	ttl        time.Duration
}

func NewForecastService(provider *DatasetProvider, forecaster *forecast.Forecaster, cacheImpl cache.ResultCache, store history.Store, ttl time.Duration) *ForecastService {
	if cacheImpl == nil {
		cacheImpl = cache.NewMemoryCache()
	}
	if store == nil {
		store = history.NewNoopStore()
	}
	return &ForecastService{
		provider:   provider,
		forecaster: forecaster,
		cache:      cacheImpl,
		store:      store,
		ttl:        ttl,
	}
}

// Overall forecasts the aggregate demand series.
func (s *ForecastService) Overall(ctx context.Context, force bool) (*domain.ForecastResult, error) {
	key := cache.PrefixForecast + "overall"
	if !force {
		if cached, ok := getCached[domain.ForecastResult](ctx, s.cache, key); ok {
			return cached, nil
		}
	}

	ds, err := s.provider.Dataset(ctx)
	if err != nil {
		return nil, err
	}

	result := s.forecaster.Forecast(ds, "")
	setCached(ctx, s.cache, key, result, s.ttl)
	return result, nil
}

// All returns the aggregate result plus every per-category result up to
// limit, success entries only. Failed categories are dropped from the
// response, never fatal to the batch.
func (s *ForecastService) All(ctx context.Context, limit int, force bool) ([]*domain.ForecastResult, error) {
	batch, err := s.Batch(ctx, limit, force)
	if err != nil {
		return nil, err
	}

	out := make([]*domain.ForecastResult, 0, len(batch.Categories)+1)
	if batch.Overall.Status == domain.StatusSuccess {
		out = append(out, batch.Overall)
	}
	ds, err := s.provider.Dataset(ctx)
	if err != nil {
		return nil, err
	}
	for _, category := range ds.Categories() {
		result, ok := batch.Categories[category]
		if ok && result.Status == domain.StatusSuccess {
			out = append(out, result)
		}
	}
	return out, nil
}

// Batch runs (or re-reads) the full batch forecast, including failed
// categories. The reorder engine consumes this form.
func (s *ForecastService) Batch(ctx context.Context, limit int, force bool) (*forecast.BatchResult, error) {
	key := fmt.Sprintf("%sbatch:limit=%d", cache.PrefixForecast, limit)
	if !force {
		if cached, ok := getCached[forecast.BatchResult](ctx, s.cache, key); ok {
			return cached, nil
		}
	}

	ds, err := s.provider.Dataset(ctx)
	if err != nil {
		return nil, err
	}

	batch, err := s.forecaster.ForecastAll(ctx, ds, limit)
	if err != nil {
		return nil, err
	}
	setCached(ctx, s.cache, key, batch, s.ttl)

	persisted := make(map[string]*domain.ForecastResult, len(batch.Categories)+1)
	persisted[domain.OverallCategory] = batch.Overall
	for category, result := range batch.Categories {
		persisted[category] = result
	}
	if err := s.store.SaveForecasts(ctx, persisted); err != nil {
		log.Warn().Err(err).Msg("persist forecasts failed")
	}

	return batch, nil
}

// Category forecasts a single category by name.
func (s *ForecastService) Category(ctx context.Context, name string, force bool) (*domain.ForecastResult, error) {
	key := cache.PrefixForecast + "category:" + name
	if !force {
		if cached, ok := getCached[domain.ForecastResult](ctx, s.cache, key); ok {
			return cached, nil
		}
	}

	ds, err := s.provider.Dataset(ctx)
	if err != nil {
		return nil, err
	}

	result := s.forecaster.Forecast(ds, name)
	setCached(ctx, s.cache, key, result, s.ttl)
	return result, nil
}

// Recent reads the persisted forecast history.
func (s *ForecastService) Recent(ctx context.Context, limit int) ([]domain.ForecastResult, error) {
	return s.store.RecentForecasts(ctx, limit)
}

// getCached and setCached are the shared cache-aside helpers. Cache
// failures are logged and treated as misses; they never fail a request.
func getCached[T any](ctx context.Context, c cache.ResultCache, key string) (*T, bool) {
	payload, ok, err := c.Get(ctx, key)
	if err != nil {
		log.Warn().Err(err).Str("key", key).Msg("cache get failed")
		return nil, false
	}
	if !ok {
		return nil, false
	}

	var value T
	if err := json.Unmarshal(payload, &value); err != nil {
		log.Warn().Err(err).Str("key", key).Msg("cache decode failed")
		return nil, false
	}
	return &value, true
}

func setCached[T any](ctx context.Context, c cache.ResultCache, key string, value T, ttl time.Duration) {
	payload, err := json.Marshal(value)
	if err != nil {
		log.Warn().Err(err).Str("key", key).Msg("cache encode failed")
		return
	}
	if err := c.Set(ctx, key, payload, ttl); err != nil {
		log.Warn().Err(err).Str("key", key).Msg("cache set failed")
	}
}
