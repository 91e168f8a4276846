package forecast

import (
	"context"

	"github.com/nhiennh/supply-chain-analytics/internal/dataset"
	"github.com/nhiennh/supply-chain-analytics/internal/domain"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"
)

// BatchResult bundles the aggregate forecast with per-category results.
// Categories that fail keep an error-status entry so callers can report
// partial coverage.
type BatchResult struct {
	Overall    *domain.ForecastResult            `json:"overall"`
	Categories map[string]*domain.ForecastResult `json:"categories"`
}

// ForecastAll runs the aggregate forecast and then every category up to
// limit, ordered by record count. Category runs share nothing but the
// dataset, so they fan out over a bounded worker group.
func (f *Forecaster) ForecastAll(ctx context.Context, ds *dataset.Dataset, limit int) (*BatchResult, error) {
	batch := &BatchResult{
		Overall:    f.Forecast(ds, ""),
		Categories: make(map[string]*domain.ForecastResult),
	}

	categories := ds.Categories()
	if limit > 0 && len(categories) > limit {
		categories = categories[:limit]
	}

	results := make([]*domain.ForecastResult, len(categories))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(f.cfg.WorkerCount)
	for i, category := range categories {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			results[i] = f.Forecast(ds, category)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	succeeded := 0
	for i, category := range categories {
		batch.Categories[category] = results[i]
		if results[i].Status == domain.StatusSuccess {
			succeeded++
		}
	}
	log.Info().
		Int("categories", len(categories)).
		Int("succeeded", succeeded).
		Msg("batch forecast complete")

	return batch, nil
}
