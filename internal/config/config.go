// Package config loads runtime settings from the environment, with a
// .env file for local development.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config is the full runtime configuration
type Config struct {
	// marketplace API
	MarketplaceBaseURL string
	MarketplaceToken   string
	MarketplaceID      string
	SellerID           string
	RequestsPerSec     float64

	// supplier feed
	SupplierFeedPath  string
	SupplierPortalURL string

	// seller inventory snapshot
	InventoryReportPath string

	// resolution cache
	CacheBackend  string // file or redis
	CacheFilePath string
	RedisAddr     string
	RedisPassword string
	RedisDB       int

	// classification
	MaxCandidates  int
	BrandBlocklist []string

	// outputs
	ReportPath string

	// service surface
	ListenAddr   string
	CronSpec     string
	LogLevel     string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

// Load reads configuration from the environment. A missing .env file
// is not an error.
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		MarketplaceBaseURL: getEnv("MARKETPLACE_BASE_URL", "https://api.marketplace.example"),
		MarketplaceToken:   getEnv("MARKETPLACE_TOKEN", ""),
		MarketplaceID:      getEnv("MARKETPLACE_ID", "ESMP1"),
		SellerID:           getEnv("SELLER_ID", ""),
		RequestsPerSec:     getEnvFloat("MARKETPLACE_RPS", 2),

		SupplierFeedPath:  getEnv("SUPPLIER_FEED_PATH", ""),
		SupplierPortalURL: getEnv("SUPPLIER_PORTAL_URL", ""),

		InventoryReportPath: getEnv("INVENTORY_REPORT_PATH", ""),

		CacheBackend:  getEnv("CACHE_BACKEND", "file"),
		CacheFilePath: getEnv("CACHE_FILE_PATH", "data/resolutions.json"),
		RedisAddr:     getEnv("REDIS_ADDR", "localhost:6379"),
		RedisPassword: getEnv("REDIS_PASSWORD", ""),
		RedisDB:       getEnvInt("REDIS_DB", 0),

		MaxCandidates:  getEnvInt("MAX_CANDIDATES", 5),
		BrandBlocklist: getEnvList("BRAND_BLOCKLIST"),

		ReportPath: getEnv("REPORT_PATH", "data/classified.csv"),

		ListenAddr:   getEnv("LISTEN_ADDR", ":8080"),
		CronSpec:     getEnv("BATCH_CRON", ""),
		LogLevel:     getEnv("LOG_LEVEL", "info"),
		ReadTimeout:  getEnvDuration("READ_TIMEOUT", 15*time.Second),
		WriteTimeout: getEnvDuration("WRITE_TIMEOUT", 60*time.Second),
	}

	if cfg.CacheBackend != "file" && cfg.CacheBackend != "redis" && cfg.CacheBackend != "none" {
		return nil, fmt.Errorf("invalid CACHE_BACKEND %q", cfg.CacheBackend)
	}
	return cfg, nil
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func getEnvFloat(key string, fallback float64) float64 {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return fallback
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return fallback
}

func getEnvList(key string) []string {
	v := os.Getenv(key)
	if strings.TrimSpace(v) == "" {
		return nil
	}
	var out []string
	for _, part := range strings.Split(v, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
