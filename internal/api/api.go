package api

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/nhiennh/supply-chain-analytics/internal/api/handlers"
	"github.com/nhiennh/supply-chain-analytics/internal/api/middleware"
	"github.com/nhiennh/supply-chain-analytics/internal/service"
)

type Services struct {
	Upload   *service.UploadService
	Analyze  *service.AnalyzeService
	Forecast *service.ForecastService
	Reorder  *service.ReorderService
}

func NewRouter(services *Services, allowedOrigins []string) *gin.Engine {
	router := gin.New()

	router.Use(middleware.Logger())
	router.Use(middleware.Recovery())

	corsConfig := cors.Config{
		AllowOrigins:     []string{"http://localhost:3000", "http://127.0.0.1:3000"},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization"},
		ExposeHeaders:    []string{"Content-Length", "Content-Disposition"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}
	if len(allowedOrigins) > 0 {
		normalized, allowAll := normalizeAllowedOrigins(allowedOrigins)
		if allowAll {
			corsConfig.AllowOrigins = nil
			corsConfig.AllowOriginFunc = func(origin string) bool { return true }
		} else if len(normalized) > 0 {
			corsConfig.AllowOrigins = normalized
		}
	}
	router.Use(cors.New(corsConfig))

	apiGroup := router.Group("/api/v1")

	apiGroup.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	if services == nil {
		return router
	}

	if services.Upload != nil {
		uploadHandler := handlers.NewUploadHandler(services.Upload)
		apiGroup.POST("/upload", uploadHandler.Upload)
	}

	if services.Analyze != nil {
		analyzeHandler := handlers.NewAnalyzeHandler(services.Analyze)
		analyzeGroup := apiGroup.Group("/analyze")
		{
			analyzeGroup.GET("/summary", analyzeHandler.Summary)
			analyzeGroup.GET("/chart/monthly-orders", analyzeHandler.MonthlyOrders)
			analyzeGroup.GET("/chart/top-categories", analyzeHandler.TopCategories)
			analyzeGroup.GET("/chart/delivery-delay", analyzeHandler.DeliveryDelay)
			analyzeGroup.GET("/chart/seller-shipping", analyzeHandler.SellerShipping)
			analyzeGroup.GET("/chart/shipping-cost-category", analyzeHandler.CategoryFreight)
			analyzeGroup.GET("/bottlenecks", analyzeHandler.Bottlenecks)
		}
	}

	if services.Forecast != nil {
		forecastHandler := handlers.NewForecastHandler(services.Forecast)
		forecastGroup := apiGroup.Group("/forecast")
		{
			forecastGroup.GET("/demand", forecastHandler.Overall)
			forecastGroup.GET("/demand/all", forecastHandler.All)
			forecastGroup.GET("/demand/category/:name", forecastHandler.Category)
		}
		apiGroup.GET("/history/forecast", forecastHandler.History)
	}

	if services.Reorder != nil {
		reorderHandler := handlers.NewReorderHandler(services.Reorder).WithAnalyze(services.Analyze)
		reorderGroup := apiGroup.Group("/reorder")
		{
			reorderGroup.GET("/strategy", reorderHandler.Strategy)
			reorderGroup.GET("/recommendations", reorderHandler.Recommendations)
			reorderGroup.GET("/charts/:metric", reorderHandler.Chart)
			reorderGroup.GET("/download/recommendations", reorderHandler.DownloadRecommendations)
			reorderGroup.GET("/analysis/clustering", reorderHandler.Clustering)
		}
	}

	return router
}

func normalizeAllowedOrigins(origins []string) ([]string, bool) {
	var (
		parsed   []string
		allowAll bool
	)
	for _, origin := range origins {
		for _, part := range strings.Split(origin, ",") {
			trimmed := strings.TrimSpace(part)
			if trimmed == "" {
				continue
			}
			if trimmed == "*" {
				allowAll = true
				continue
			}
			parsed = append(parsed, trimmed)
		}
	}
	return parsed, allowAll
}
