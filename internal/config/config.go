package config

import (
	"log"
	"os"
	"sync"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type Config struct {
	Server   ServerConfig
	App      AppConfig
	Forecast ForecastConfig
	Reorder  ReorderConfig
	Segment  SegmentConfig
	Cache    CacheConfig
	Mongo    MongoConfig
	Archive  ArchiveConfig
}

type ServerConfig struct {
	Port           string
	Mode           string
	ReadTimeout    int
	WriteTimeout   int
	AllowedOrigins []string
}

type AppConfig struct {
	UploadDir         string
	ExchangeRate      float64
	LargeDatasetBytes int64
}

// ForecastConfig carries the empirical thresholds of the forecasting
// pipeline. They are env-tunable rather than hardcoded on purpose.
type ForecastConfig struct {
	Horizon              int
	MinCategoryRecords   int
	OutlierSigma         float64
	MinMonthsAfterTrim   int
	AggregateDemandFloor float64
	WorkerCount          int
}

type ReorderConfig struct {
	ServiceLevelZ        float64
	UnitHoldingCostBRL   float64
	HoldingCostThreshold float64
	TopRecommendations   int
}

type SegmentConfig struct {
	Clusters          int
	MinSupplierOrders int
	LateThresholdDays float64
	FastShippingDays  float64
	CheapFreightBRL   float64
}

type CacheConfig struct {
	Enabled            bool
	RedisURL           string
	RedisHost          string
	RedisPort          string
	RedisPassword      string
	RedisDB            int
	ForecastTTLSeconds int
	AnalyzeTTLSeconds  int
}

type MongoConfig struct {
	Enabled bool
	URI     string
	DBName  string
}

type ArchiveConfig struct {
	Enabled   bool
	Endpoint  string
	AccessKey string
	SecretKey string
	Bucket    string
	UseSSL    bool
}

var (
	once     sync.Once
	instance *Config
)

func Load() *Config {
	once.Do(func() {
		// Load .env file if it exists
		_ = godotenv.Load()

		// Set default values
		viper.SetDefault("SERVER_PORT", "8000")
		viper.SetDefault("SERVER_MODE", "debug")
		viper.SetDefault("SERVER_READ_TIMEOUT", 30)
		viper.SetDefault("SERVER_WRITE_TIMEOUT", 120)
		viper.SetDefault("SERVER_ALLOWED_ORIGINS", []string{"*"})
		viper.SetDefault("APP_UPLOAD_DIR", "./data/uploads")
		viper.SetDefault("APP_BRL_VND_RATE", 5200.0)
		viper.SetDefault("APP_LARGE_DATASET_BYTES", int64(500*1024*1024))
		viper.SetDefault("FORECAST_HORIZON", 6)
		viper.SetDefault("FORECAST_MIN_CATEGORY_RECORDS", 10)
		viper.SetDefault("FORECAST_OUTLIER_SIGMA", 3.0)
		viper.SetDefault("FORECAST_MIN_MONTHS_AFTER_TRIM", 5)
		viper.SetDefault("FORECAST_AGGREGATE_FLOOR", 100.0)
		viper.SetDefault("FORECAST_WORKER_COUNT", 4)
		viper.SetDefault("REORDER_SERVICE_LEVEL_Z", 1.65)
		viper.SetDefault("REORDER_UNIT_HOLDING_COST_BRL", 5.0)
		viper.SetDefault("REORDER_HOLDING_COST_THRESHOLD", 50000000.0)
		viper.SetDefault("REORDER_TOP_RECOMMENDATIONS", 5)
		viper.SetDefault("SEGMENT_CLUSTERS", 3)
		viper.SetDefault("SEGMENT_MIN_SUPPLIER_ORDERS", 5)
		viper.SetDefault("SEGMENT_LATE_THRESHOLD_DAYS", 20.0)
		viper.SetDefault("SEGMENT_FAST_SHIPPING_DAYS", 12.0)
		viper.SetDefault("SEGMENT_CHEAP_FREIGHT_BRL", 20.0)
		viper.SetDefault("CACHE_ENABLED", false)
		viper.SetDefault("REDIS_URL", "")
		viper.SetDefault("REDIS_HOST", "127.0.0.1")
		viper.SetDefault("REDIS_PORT", "6379")
		viper.SetDefault("REDIS_PASSWORD", "")
		viper.SetDefault("REDIS_DB", 0)
		viper.SetDefault("CACHE_FORECAST_TTL_SECONDS", 1800)
		viper.SetDefault("CACHE_ANALYZE_TTL_SECONDS", 3600)
		viper.SetDefault("MONGO_ENABLED", false)
		viper.SetDefault("MONGO_URI", "mongodb://localhost:27017")
		viper.SetDefault("MONGO_DB_NAME", "supply_chain")
		viper.SetDefault("ARCHIVE_ENABLED", false)
		viper.SetDefault("ARCHIVE_ENDPOINT", "")
		viper.SetDefault("ARCHIVE_ACCESS_KEY", "")
		viper.SetDefault("ARCHIVE_SECRET_KEY", "")
		viper.SetDefault("ARCHIVE_BUCKET", "supply-chain-uploads")
		viper.SetDefault("ARCHIVE_USE_SSL", true)

		// Read from environment variables
		viper.AutomaticEnv()

		// Ensure the upload directory exists
		ensureDir(viper.GetString("APP_UPLOAD_DIR"))

		instance = &Config{
			Server: ServerConfig{
				Port:           viper.GetString("SERVER_PORT"),
				Mode:           viper.GetString("SERVER_MODE"),
				ReadTimeout:    viper.GetInt("SERVER_READ_TIMEOUT"),
				WriteTimeout:   viper.GetInt("SERVER_WRITE_TIMEOUT"),
				AllowedOrigins: viper.GetStringSlice("SERVER_ALLOWED_ORIGINS"),
			},
			App: AppConfig{
				UploadDir:         viper.GetString("APP_UPLOAD_DIR"),
				ExchangeRate:      viper.GetFloat64("APP_BRL_VND_RATE"),
				LargeDatasetBytes: viper.GetInt64("APP_LARGE_DATASET_BYTES"),
			},
			Forecast: ForecastConfig{
				Horizon:              viper.GetInt("FORECAST_HORIZON"),
				MinCategoryRecords:   viper.GetInt("FORECAST_MIN_CATEGORY_RECORDS"),
				OutlierSigma:         viper.GetFloat64("FORECAST_OUTLIER_SIGMA"),
				MinMonthsAfterTrim:   viper.GetInt("FORECAST_MIN_MONTHS_AFTER_TRIM"),
				AggregateDemandFloor: viper.GetFloat64("FORECAST_AGGREGATE_FLOOR"),
				WorkerCount:          viper.GetInt("FORECAST_WORKER_COUNT"),
			},
			Reorder: ReorderConfig{
				ServiceLevelZ:        viper.GetFloat64("REORDER_SERVICE_LEVEL_Z"),
				UnitHoldingCostBRL:   viper.GetFloat64("REORDER_UNIT_HOLDING_COST_BRL"),
				HoldingCostThreshold: viper.GetFloat64("REORDER_HOLDING_COST_THRESHOLD"),
				TopRecommendations:   viper.GetInt("REORDER_TOP_RECOMMENDATIONS"),
			},
			Segment: SegmentConfig{
				Clusters:          viper.GetInt("SEGMENT_CLUSTERS"),
				MinSupplierOrders: viper.GetInt("SEGMENT_MIN_SUPPLIER_ORDERS"),
				LateThresholdDays: viper.GetFloat64("SEGMENT_LATE_THRESHOLD_DAYS"),
				FastShippingDays:  viper.GetFloat64("SEGMENT_FAST_SHIPPING_DAYS"),
				CheapFreightBRL:   viper.GetFloat64("SEGMENT_CHEAP_FREIGHT_BRL"),
			},
			Cache: CacheConfig{
				Enabled:            viper.GetBool("CACHE_ENABLED"),
				RedisURL:           viper.GetString("REDIS_URL"),
				RedisHost:          viper.GetString("REDIS_HOST"),
				RedisPort:          viper.GetString("REDIS_PORT"),
				RedisPassword:      viper.GetString("REDIS_PASSWORD"),
				RedisDB:            viper.GetInt("REDIS_DB"),
				ForecastTTLSeconds: viper.GetInt("CACHE_FORECAST_TTL_SECONDS"),
				AnalyzeTTLSeconds:  viper.GetInt("CACHE_ANALYZE_TTL_SECONDS"),
			},
			Mongo: MongoConfig{
				Enabled: viper.GetBool("MONGO_ENABLED"),
				URI:     viper.GetString("MONGO_URI"),
				DBName:  viper.GetString("MONGO_DB_NAME"),
			},
			Archive: ArchiveConfig{
				Enabled:   viper.GetBool("ARCHIVE_ENABLED"),
				Endpoint:  viper.GetString("ARCHIVE_ENDPOINT"),
				AccessKey: viper.GetString("ARCHIVE_ACCESS_KEY"),
				SecretKey: viper.GetString("ARCHIVE_SECRET_KEY"),
				Bucket:    viper.GetString("ARCHIVE_BUCKET"),
				UseSSL:    viper.GetBool("ARCHIVE_USE_SSL"),
			},
		}
	})

	return instance
}

func ensureDir(dir string) {
	if _, err := os.Stat(dir); os.IsNotExist(err) {
		if err := os.MkdirAll(dir, 0755); err != nil {
			log.Fatalf("Failed to create directory %s: %v", dir, err)
		}
	}
}
