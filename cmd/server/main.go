package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/nhiennh/supply-chain-analytics/internal/api"
	"github.com/nhiennh/supply-chain-analytics/internal/cache"
	"github.com/nhiennh/supply-chain-analytics/internal/config"
	"github.com/nhiennh/supply-chain-analytics/internal/currency"
	"github.com/nhiennh/supply-chain-analytics/internal/dataset"
	"github.com/nhiennh/supply-chain-analytics/internal/forecast"
	"github.com/nhiennh/supply-chain-analytics/internal/history"
	"github.com/nhiennh/supply-chain-analytics/internal/reorder"
	"github.com/nhiennh/supply-chain-analytics/internal/segment"
	"github.com/nhiennh/supply-chain-analytics/internal/service"
	"github.com/nhiennh/supply-chain-analytics/internal/storage"
	"github.com/nhiennh/supply-chain-analytics/pkg/logger"
)

func main() {
	cfg := config.Load()

	logger.SetLevel(cfg.Server.Mode)
	if cfg.Server.Mode == "debug" {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}

	resultCache, err := cache.New(cfg.Cache)
	if err != nil {
		logger.Log.Fatal().Err(err).Msg("failed to initialize cache")
	}

	store := history.NewNoopStore()
	if cfg.Mongo.Enabled {
		store, err = history.NewMongoStore(cfg.Mongo)
		if err != nil {
			logger.Log.Fatal().Err(err).Msg("failed to connect to mongodb")
		}
	}
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := store.Close(ctx); err != nil {
			logger.Log.Warn().Err(err).Msg("history store close failed")
		}
	}()

	archive := storage.NewNoopStorage()
	if cfg.Archive.Enabled {
		archive, err = storage.NewMinioStorage(cfg.Archive)
		if err != nil {
			logger.Log.Fatal().Err(err).Msg("failed to initialize upload archive")
		}
	}

	converter := currency.NewConverter(cfg.App.ExchangeRate)
	loader := dataset.NewLoader(cfg.App.UploadDir, converter, cfg.App.LargeDatasetBytes)
	provider := service.NewDatasetProvider(loader)

	unitHoldingCostVND := converter.ToVND(cfg.Reorder.UnitHoldingCostBRL)
	forecaster := forecast.NewForecaster(cfg.Forecast, unitHoldingCostVND)
	engine := reorder.NewEngine(cfg.Reorder, unitHoldingCostVND)
	analyzer := segment.NewAnalyzer(cfg.Segment, converter.ToVND(cfg.Segment.CheapFreightBRL))

	forecastTTL := time.Duration(cfg.Cache.ForecastTTLSeconds) * time.Second
	analyzeTTL := time.Duration(cfg.Cache.AnalyzeTTLSeconds) * time.Second

	forecastService := service.NewForecastService(provider, forecaster, resultCache, store, forecastTTL)
	services := &api.Services{
		Upload:   service.NewUploadService(cfg.App.UploadDir, provider, resultCache, archive),
		Analyze:  service.NewAnalyzeService(provider, analyzer, resultCache, store, analyzeTTL),
		Forecast: forecastService,
		Reorder:  service.NewReorderService(engine, forecastService, provider, resultCache, store, forecastTTL),
	}

	router := api.NewRouter(services, cfg.Server.AllowedOrigins)
	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      router,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
	}

	go func() {
		logger.Log.Info().Str("port", cfg.Server.Port).Msg("starting server")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Log.Fatal().Err(err).Msg("failed to start server")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Log.Info().Msg("shutting down server")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Log.Fatal().Err(err).Msg("server forced to shutdown")
	}

	logger.Log.Info().Msg("server exiting")
}
