package main

import (
	"context"
	"time"

	"github.com/nhiennh/supply-chain-analytics/internal/config"
	"github.com/nhiennh/supply-chain-analytics/internal/currency"
	"github.com/nhiennh/supply-chain-analytics/internal/dataset"
	"github.com/nhiennh/supply-chain-analytics/internal/domain"
	"github.com/nhiennh/supply-chain-analytics/internal/eda"
	"github.com/nhiennh/supply-chain-analytics/internal/forecast"
	"github.com/nhiennh/supply-chain-analytics/internal/history"
	"github.com/nhiennh/supply-chain-analytics/internal/reorder"
	"github.com/nhiennh/supply-chain-analytics/internal/segment"
	"github.com/nhiennh/supply-chain-analytics/pkg/logger"
	"github.com/urfave/cli/v2"
)

func runCommand() *cli.Command {
	return &cli.Command{
		Name:  "run",
		Usage: "run the full analytics batch offline and persist the results",
		Flags: []cli.Flag{
			&cli.IntFlag{
				Name:  "limit",
				Usage: "maximum number of categories to forecast (0 = all)",
				Value: 0,
			},
			&cli.BoolFlag{
				Name:  "persist",
				Usage: "write results to the configured document store",
				Value: true,
			},
		},
		Action: runBatch,
	}
}

// runBatch executes the same pipeline the HTTP endpoints expose, end to
// end: load, forecast, policy derivation, segmentation and EDA.
func runBatch(c *cli.Context) error {
	cfg := config.Load()
	logger.SetLevel(cfg.Server.Mode)

	ctx := context.Background()

	converter := currency.NewConverter(cfg.App.ExchangeRate)
	loader := dataset.NewLoader(cfg.App.UploadDir, converter, cfg.App.LargeDatasetBytes)

	started := time.Now()
	ds, err := loader.Load(ctx)
	if err != nil {
		return err
	}
	logger.Log.Info().
		Int("records", len(ds.Records)).
		Dur("took", time.Since(started)).
		Msg("dataset loaded")

	unitHoldingCostVND := converter.ToVND(cfg.Reorder.UnitHoldingCostBRL)
	forecaster := forecast.NewForecaster(cfg.Forecast, unitHoldingCostVND)

	batch, err := forecaster.ForecastAll(ctx, ds, c.Int("limit"))
	if err != nil {
		return err
	}

	engine := reorder.NewEngine(cfg.Reorder, unitHoldingCostVND)
	policies := engine.Annotate(engine.ComputeStrategy(batch.Categories, ds.AvgLeadTimeByCategory()))
	recs := engine.GenerateRecommendations(policies)

	analyzer := segment.NewAnalyzer(cfg.Segment, converter.ToVND(cfg.Segment.CheapFreightBRL))
	clusters := analyzer.ClusterSuppliers(ds)
	bottlenecks := analyzer.DetectBottlenecks(ds)
	summary := eda.Summarize(ds)

	logger.Log.Info().
		Int("policies", len(policies)).
		Int("recommendations", len(recs)).
		Int("clusters", len(clusters)).
		Int("bottlenecks", len(bottlenecks)).
		Msg("analytics batch complete")

	if !c.Bool("persist") || !cfg.Mongo.Enabled {
		logger.Log.Info().Msg("persistence skipped")
		return nil
	}

	store, err := history.NewMongoStore(cfg.Mongo)
	if err != nil {
		return err
	}
	defer func() {
		closeCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := store.Close(closeCtx); err != nil {
			logger.Log.Warn().Err(err).Msg("history store close failed")
		}
	}()

	results := make(map[string]*domain.ForecastResult, len(batch.Categories)+1)
	results[domain.OverallCategory] = batch.Overall
	for category, result := range batch.Categories {
		results[category] = result
	}

	if err := store.SaveForecasts(ctx, results); err != nil {
		return err
	}
	if err := store.SavePolicies(ctx, policies); err != nil {
		return err
	}
	if err := store.SaveRecommendations(ctx, recs); err != nil {
		return err
	}
	if err := store.SaveClusters(ctx, clusters); err != nil {
		return err
	}
	if err := store.SaveBottlenecks(ctx, bottlenecks); err != nil {
		return err
	}
	if err := store.SaveEDASummary(ctx, summary); err != nil {
		return err
	}

	logger.Log.Info().Msg("results persisted")
	return nil
}
