package config

import (
	"log"
	"strconv"
	"strings"
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
	JWTSecret     string

	// Currency registry
	BaseCurrencyCode  string
	CurrencyAliases   map[string]string // legacy code -> ISO code, e.g. FRW -> RWF
	CountryCurrencies map[string]string // ISO country -> currency code, e.g. RW -> RWF

	// Exchange rate provider
	RateAPIKey        string
	RateAPIBaseURL    string
	RateAPITimeout    time.Duration
	RateAPIRetries    int
	RateAPIRetryDelay time.Duration
	RateCacheTTL      time.Duration
	RateCacheBackend  string // "memory" or "redis"
	RedisAddr         string
	FallbackRates     map[string]float64 // "USD_TO_RWF" -> 1350.0

	// Scheduled activation sweep
	SweepInterval time.Duration

	// Public endpoint rate limit, ulule/limiter format (e.g. "60-M")
	RateLimit string
}

// LoadConfig loads configuration from environment variables and .env file if present.
func LoadConfig() (*Config, error) {
	// Attempt to load .env file, ignore error if it doesn't exist
	_ = godotenv.Load()

	viper.SetDefault("PGSQL_URL", "")
	viper.SetDefault("PORT", "8080")
	viper.SetDefault("IS_PRODUCTION", false)
	viper.SetDefault("ENABLE_DB_CHECK", false)
	viper.SetDefault("JWT_SECRET", "a-very-secret-key-should-be-longer-and-random")
	viper.SetDefault("BASE_CURRENCY", "USD")
	viper.SetDefault("CURRENCY_ALIASES", "FRW=RWF")
	viper.SetDefault("COUNTRY_CURRENCIES", "RW=RWF")
	viper.SetDefault("EXCHANGE_RATE_API_KEY", "")
	viper.SetDefault("EXCHANGE_RATE_API_BASE_URL", "https://v6.exchangerate-api.com/v6")
	viper.SetDefault("EXCHANGE_RATE_API_TIMEOUT", "30s")
	viper.SetDefault("EXCHANGE_RATE_API_RETRY", 2)
	viper.SetDefault("EXCHANGE_RATE_API_RETRY_DELAY", "1s")
	viper.SetDefault("EXCHANGE_RATE_CACHE_TTL", "1h")
	viper.SetDefault("EXCHANGE_RATE_CACHE_BACKEND", "memory")
	viper.SetDefault("REDIS_ADDR", "localhost:6379")
	viper.SetDefault("FALLBACK_RATES", "USD_TO_RWF=1350.0,RWF_TO_USD=0.00074074")
	viper.SetDefault("ACTIVATION_SWEEP_INTERVAL", "24h")
	viper.SetDefault("RATE_LIMIT", "60-M")

	viper.AutomaticEnv()

	cfg := &Config{}

	cfg.DatabaseURL = viper.GetString("PGSQL_URL")
	if cfg.DatabaseURL == "" {
		log.Println("Warning: PGSQL_URL environment variable not set.")
	}

	cfg.Port = viper.GetString("PORT")
	cfg.IsProduction = viper.GetBool("IS_PRODUCTION")
	cfg.EnableDBCheck = viper.GetBool("ENABLE_DB_CHECK")

	cfg.JWTSecret = viper.GetString("JWT_SECRET")
	if cfg.JWTSecret == "a-very-secret-key-should-be-longer-and-random" {
		log.Println("Warning: JWT_SECRET environment variable not set. Using default insecure key.")
	}

	cfg.BaseCurrencyCode = strings.ToUpper(viper.GetString("BASE_CURRENCY"))
	cfg.CurrencyAliases = parseStringPairs(viper.GetString("CURRENCY_ALIASES"))
	cfg.CountryCurrencies = parseStringPairs(viper.GetString("COUNTRY_CURRENCIES"))

	cfg.RateAPIKey = viper.GetString("EXCHANGE_RATE_API_KEY")
	if cfg.RateAPIKey == "" {
		log.Println("Warning: EXCHANGE_RATE_API_KEY not set. Live rates unavailable; static fallback rates will be used.")
	}
	cfg.RateAPIBaseURL = viper.GetString("EXCHANGE_RATE_API_BASE_URL")
	cfg.RateAPITimeout = parseDuration("EXCHANGE_RATE_API_TIMEOUT", 30*time.Second)
	cfg.RateAPIRetries = viper.GetInt("EXCHANGE_RATE_API_RETRY")
	cfg.RateAPIRetryDelay = parseDuration("EXCHANGE_RATE_API_RETRY_DELAY", time.Second)
	cfg.RateCacheTTL = parseDuration("EXCHANGE_RATE_CACHE_TTL", time.Hour)
	cfg.RateCacheBackend = viper.GetString("EXCHANGE_RATE_CACHE_BACKEND")
	cfg.RedisAddr = viper.GetString("REDIS_ADDR")
	cfg.FallbackRates = parseRatePairs(viper.GetString("FALLBACK_RATES"))

	cfg.SweepInterval = parseDuration("ACTIVATION_SWEEP_INTERVAL", 24*time.Hour)
	cfg.RateLimit = viper.GetString("RATE_LIMIT")

	return cfg, nil
}

// parseDuration reads a duration key, warning and defaulting on bad input.
func parseDuration(key string, fallback time.Duration) time.Duration {
	raw := viper.GetString(key)
	d, err := time.ParseDuration(raw)
	if err != nil {
		log.Printf("Warning: Invalid value for %s ('%s'). Defaulting to %s.\n", key, raw, fallback)
		return fallback
	}
	return d
}

// parseStringPairs parses "A=B,C=D" into a map, upper-casing both sides.
func parseStringPairs(raw string) map[string]string {
	out := map[string]string{}
	for _, pair := range strings.Split(raw, ",") {
		pair = strings.TrimSpace(pair)
		if pair == "" {
			continue
		}
		parts := strings.SplitN(pair, "=", 2)
		if len(parts) != 2 {
			log.Printf("Warning: skipping malformed pair %q\n", pair)
			continue
		}
		out[strings.ToUpper(strings.TrimSpace(parts[0]))] = strings.ToUpper(strings.TrimSpace(parts[1]))
	}
	return out
}

// parseRatePairs parses "USD_TO_RWF=1350.0,..." into a fallback rate table.
func parseRatePairs(raw string) map[string]float64 {
	out := map[string]float64{}
	for _, pair := range strings.Split(raw, ",") {
		pair = strings.TrimSpace(pair)
		if pair == "" {
			continue
		}
		parts := strings.SplitN(pair, "=", 2)
		if len(parts) != 2 {
			log.Printf("Warning: skipping malformed fallback rate %q\n", pair)
			continue
		}
		rate, err := strconv.ParseFloat(strings.TrimSpace(parts[1]), 64)
		if err != nil || rate <= 0 {
			log.Printf("Warning: skipping invalid fallback rate %q\n", pair)
			continue
		}
		out[strings.ToUpper(strings.TrimSpace(parts[0]))] = rate
	}
	return out
}
