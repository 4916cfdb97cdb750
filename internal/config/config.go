// Package config provides configuration management functionality.
package config

import (
	"fmt"
	"net/url"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"

	"github.com/aristath/stockpulse/internal/domain"
	"github.com/aristath/stockpulse/internal/utils"
)

// DefaultStockAPIBaseURL is the evaluation service the dashboard was built against
const DefaultStockAPIBaseURL = "http://20.244.56.144/evaluation-service"

// Config holds application configuration
type Config struct {
	Port      int
	DevMode   bool
	LogLevel  string
	LogPretty bool

	StockAPIBaseURL string
	StockAPITimeout time.Duration

	RefreshSchedule  string              // cron spec, e.g. "@every 60s"
	RefreshWindows   []domain.TimeWindow // windows refreshed by the scheduler
	RefreshTimeout   time.Duration       // per window
	DefaultWindow    domain.TimeWindow
	SnapshotMaxAge   time.Duration // older snapshots are refreshed on request
	FetchConcurrency int
}

// Load reads configuration from environment variables
func Load() (*Config, error) {
	// Load .env file if it exists
	_ = godotenv.Load()

	refreshWindows, err := parseWindows(getEnv("REFRESH_WINDOWS", "5"))
	if err != nil {
		return nil, fmt.Errorf("REFRESH_WINDOWS: %w", err)
	}

	defaultWindow, err := domain.ParseTimeWindow(getEnv("DEFAULT_WINDOW", "5"))
	if err != nil {
		return nil, fmt.Errorf("DEFAULT_WINDOW: %w", err)
	}

	cfg := &Config{
		Port:             getEnvAsInt("GO_PORT", 8001),
		DevMode:          getEnvAsBool("DEV_MODE", false),
		LogLevel:         getEnv("LOG_LEVEL", "info"),
		LogPretty:        getEnvAsBool("LOG_PRETTY", true),
		StockAPIBaseURL:  getEnv("STOCK_API_BASE_URL", DefaultStockAPIBaseURL),
		StockAPITimeout:  getEnvAsDuration("STOCK_API_TIMEOUT", 10*time.Second),
		RefreshSchedule:  getEnv("REFRESH_SCHEDULE", "@every 60s"),
		RefreshWindows:   refreshWindows,
		RefreshTimeout:   getEnvAsDuration("REFRESH_TIMEOUT", 45*time.Second),
		DefaultWindow:    defaultWindow,
		SnapshotMaxAge:   getEnvAsDuration("SNAPSHOT_MAX_AGE", 60*time.Second),
		FetchConcurrency: getEnvAsInt("FETCH_CONCURRENCY", 8),
	}

	// Validate required fields
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate checks if required configuration is present and consistent
func (c *Config) Validate() error {
	if c.Port < 1 || c.Port > 65535 {
		return fmt.Errorf("invalid port %d", c.Port)
	}

	u, err := url.Parse(c.StockAPIBaseURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("invalid stock API base URL %q", c.StockAPIBaseURL)
	}

	if c.StockAPITimeout <= 0 {
		return fmt.Errorf("stock API timeout must be positive, got %s", c.StockAPITimeout)
	}
	if c.RefreshTimeout <= 0 {
		return fmt.Errorf("refresh timeout must be positive, got %s", c.RefreshTimeout)
	}
	if c.SnapshotMaxAge <= 0 {
		return fmt.Errorf("snapshot max age must be positive, got %s", c.SnapshotMaxAge)
	}
	if c.RefreshSchedule == "" {
		return fmt.Errorf("refresh schedule is required")
	}
	if c.FetchConcurrency < 1 {
		return fmt.Errorf("fetch concurrency must be at least 1, got %d", c.FetchConcurrency)
	}

	if !c.DefaultWindow.Valid() {
		return fmt.Errorf("%w: default window %d", domain.ErrInvalidTimeWindow, c.DefaultWindow)
	}
	for _, w := range c.RefreshWindows {
		if !w.Valid() {
			return fmt.Errorf("%w: refresh window %d", domain.ErrInvalidTimeWindow, w)
		}
	}

	return nil
}

// parseWindows parses a comma-separated list of windows, dropping duplicates
func parseWindows(s string) ([]domain.TimeWindow, error) {
	var windows []domain.TimeWindow
	seen := make(map[domain.TimeWindow]bool)
	for _, v := range utils.ParseCSV(s) {
		w, err := domain.ParseTimeWindow(v)
		if err != nil {
			return nil, err
		}
		if seen[w] {
			continue
		}
		seen[w] = true
		windows = append(windows, w)
	}
	return windows, nil
}

// Helper functions
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func getEnvAsBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolVal, err := strconv.ParseBool(value); err == nil {
			return boolVal
		}
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}
