package config

import (
	"log"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds application configuration.
type Config struct {
	DatabaseURL   string
	Port          string
	IsProduction  bool
	EnableDBCheck bool

	// Rate synchronization
	SyncEnabled          bool
	SyncHour             int
	SyncMinute           int
	QuoteAPIBaseURL      string
	QuoteTimeout         time.Duration
	RateCacheMaxAge      time.Duration
	SyncTriggerRateLimit string // ulule/limiter format, e.g. "10-M"

	// Currency pair the synchronizer maintains
	BaseCurrency      string
	ReportingCurrency string
}

// LoadConfig loads configuration from environment variables and .env file if present.
func LoadConfig() (*Config, error) {
	// Attempt to load .env file, ignore error if it doesn't exist
	_ = godotenv.Load()

	viper.SetDefault("PGSQL_URL", "")
	viper.SetDefault("PORT", "8080")
	viper.SetDefault("IS_PRODUCTION", false)
	viper.SetDefault("ENABLE_DB_CHECK", false)
	viper.SetDefault("SYNC_ENABLED", true)
	viper.SetDefault("SYNC_HOUR", 6)
	viper.SetDefault("SYNC_MINUTE", 0)
	viper.SetDefault("QUOTE_API_BASE_URL", "https://economia.awesomeapi.com.br/json")
	viper.SetDefault("QUOTE_TIMEOUT", "10s")
	viper.SetDefault("RATE_CACHE_MAX_AGE", "5m")
	viper.SetDefault("SYNC_TRIGGER_RATE_LIMIT", "10-M")
	viper.SetDefault("BASE_CURRENCY", "USD")
	viper.SetDefault("REPORTING_CURRENCY", "BRL")

	viper.AutomaticEnv()

	cfg := &Config{}

	cfg.DatabaseURL = viper.GetString("PGSQL_URL")
	if cfg.DatabaseURL == "" {
		log.Println("Warning: PGSQL_URL environment variable not set.")
	}

	cfg.Port = viper.GetString("PORT")
	if cfg.Port == "" {
		cfg.Port = "8080"
		log.Printf("Warning: PORT environment variable not set. Defaulting to %s\n", cfg.Port)
	}

	cfg.IsProduction = viper.GetBool("IS_PRODUCTION")
	cfg.EnableDBCheck = viper.GetBool("ENABLE_DB_CHECK")

	cfg.SyncEnabled = viper.GetBool("SYNC_ENABLED")

	cfg.SyncHour = viper.GetInt("SYNC_HOUR")
	if cfg.SyncHour < 0 || cfg.SyncHour > 23 {
		log.Printf("Warning: Invalid value for SYNC_HOUR (%d). Defaulting to 6.\n", cfg.SyncHour)
		cfg.SyncHour = 6
	}

	cfg.SyncMinute = viper.GetInt("SYNC_MINUTE")
	if cfg.SyncMinute < 0 || cfg.SyncMinute > 59 {
		log.Printf("Warning: Invalid value for SYNC_MINUTE (%d). Defaulting to 0.\n", cfg.SyncMinute)
		cfg.SyncMinute = 0
	}

	cfg.QuoteAPIBaseURL = viper.GetString("QUOTE_API_BASE_URL")

	quoteTimeoutStr := viper.GetString("QUOTE_TIMEOUT")
	quoteTimeout, err := time.ParseDuration(quoteTimeoutStr)
	if err != nil {
		quoteTimeout = 10 * time.Second
		log.Printf("Warning: Invalid value for QUOTE_TIMEOUT ('%s'). Defaulting to %s.\n", quoteTimeoutStr, quoteTimeout)
	}
	cfg.QuoteTimeout = quoteTimeout

	cacheMaxAgeStr := viper.GetString("RATE_CACHE_MAX_AGE")
	cacheMaxAge, err := time.ParseDuration(cacheMaxAgeStr)
	if err != nil {
		cacheMaxAge = 5 * time.Minute
		log.Printf("Warning: Invalid value for RATE_CACHE_MAX_AGE ('%s'). Defaulting to %s.\n", cacheMaxAgeStr, cacheMaxAge)
	}
	cfg.RateCacheMaxAge = cacheMaxAge

	cfg.SyncTriggerRateLimit = viper.GetString("SYNC_TRIGGER_RATE_LIMIT")

	cfg.BaseCurrency = viper.GetString("BASE_CURRENCY")
	cfg.ReportingCurrency = viper.GetString("REPORTING_CURRENCY")
	if cfg.BaseCurrency == cfg.ReportingCurrency {
		log.Printf("Warning: BASE_CURRENCY and REPORTING_CURRENCY are both %s. Synchronization will reject same-pair quotes.\n", cfg.BaseCurrency)
	}

	return cfg, nil
}
