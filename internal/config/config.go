package config

import (
	"fmt"
	"net"
	"os"
	"path/filepath"
	"slices"
	"strconv"
	"strings"
	"time"

	"donations/internal/dataset"
)

type Config struct {
	// HTTP Server
	Port string

	// Dataset
	DataBackend string
	DatasetFile string

	// Preferences
	PrefsBackend string
	SQLiteDBPath string
	DefaultTheme string

	// Dashboard
	DefaultWindow  int
	CurrencySymbol string
	ExportFilename string

	// Charts
	ChartCacheSize int
	ChartCacheTTL  time.Duration

	// Middleware
	RateLimitPerMinute int
	TrustedProxies     []string // CIDRs added to the built-in private ranges

	// Logging
	LogLevel string
}

var (
	validDataBackends  = []string{"memory", "file", "sqlite"}
	validPrefsBackends = []string{"memory", "sqlite"}
	validThemes        = []string{"light", "dark"}
	validWindows       = []int{3, 6, 12}
	validLogLevels     = []string{"debug", "info", "warn", "error"}
)

func Load() *Config {
	cfg := &Config{
		Port: getEnv("PORT", "8081"),

		DataBackend: getEnv("DATA_BACKEND", "memory"),
		DatasetFile: getEnv("DATASET_FILE", ""),

		PrefsBackend: getEnv("PREFS_BACKEND", "sqlite"),
		SQLiteDBPath: getEnv("SQLITE_DB_PATH", "./data/donations.db"),
		DefaultTheme: strings.ToLower(getEnv("THEME_DEFAULT", "light")),

		DefaultWindow:  getEnvInt("DEFAULT_WINDOW", 12),
		CurrencySymbol: getEnv("CURRENCY_SYMBOL", "₹"),
		ExportFilename: getEnv("EXPORT_FILENAME", "donations.csv"),

		ChartCacheSize: getEnvInt("CHART_CACHE_SIZE", 64),
		ChartCacheTTL:  getEnvDuration("CHART_CACHE_TTL", 10*time.Minute),

		RateLimitPerMinute: getEnvInt("RATE_LIMIT_PER_MINUTE", 60),
		TrustedProxies:     getEnvList("TRUSTED_PROXIES"),

		LogLevel: strings.ToLower(getEnv("LOG_LEVEL", "info")),
	}

	return cfg
}

// Validate validates the configuration and returns an error if invalid
func (c *Config) Validate() error {
	var errors []string

	// Validate port
	if port, err := strconv.Atoi(c.Port); err != nil {
		errors = append(errors, fmt.Sprintf("invalid port '%s': must be a number", c.Port))
	} else if port < 1 || port > 65535 {
		errors = append(errors, fmt.Sprintf("invalid port %d: must be between 1 and 65535", port))
	}

	// Validate backends
	if !slices.Contains(validDataBackends, c.DataBackend) {
		errors = append(errors, fmt.Sprintf("invalid data backend '%s': must be one of %v", c.DataBackend, validDataBackends))
	}
	if !slices.Contains(validPrefsBackends, c.PrefsBackend) {
		errors = append(errors, fmt.Sprintf("invalid preferences backend '%s': must be one of %v", c.PrefsBackend, validPrefsBackends))
	}

	// The file backend needs a readable file; sqlite may import one.
	if c.DataBackend == "file" && c.DatasetFile == "" {
		errors = append(errors, "DATASET_FILE is required when using file backend")
	}
	if c.DatasetFile != "" {
		ext := strings.ToLower(filepath.Ext(c.DatasetFile))
		if exts := dataset.SupportedExtensions(); !slices.Contains(exts, ext) {
			errors = append(errors, fmt.Sprintf("unsupported dataset file extension '%s': must be one of %v", ext, exts))
		}
		if _, err := os.Stat(c.DatasetFile); os.IsNotExist(err) {
			errors = append(errors, fmt.Sprintf("dataset file does not exist: %s", c.DatasetFile))
		}
	}

	// Validate SQLite configuration if any backend uses it
	if c.DataBackend == "sqlite" || c.PrefsBackend == "sqlite" {
		if c.SQLiteDBPath == "" {
			errors = append(errors, "SQLite database path cannot be empty when using sqlite backend")
		} else {
			dir := filepath.Dir(c.SQLiteDBPath)
			if dir != "." && dir != "" {
				if _, err := os.Stat(dir); os.IsNotExist(err) {
					if err := os.MkdirAll(dir, 0755); err != nil {
						errors = append(errors, fmt.Sprintf("cannot create SQLite database directory '%s': %v", dir, err))
					}
				}
			}
		}
	}

	// Validate dashboard defaults
	if !slices.Contains(validThemes, c.DefaultTheme) {
		errors = append(errors, fmt.Sprintf("invalid default theme '%s': must be one of %v", c.DefaultTheme, validThemes))
	}
	if !slices.Contains(validWindows, c.DefaultWindow) {
		errors = append(errors, fmt.Sprintf("invalid default window %d: must be one of %v", c.DefaultWindow, validWindows))
	}
	if strings.TrimSpace(c.ExportFilename) == "" {
		errors = append(errors, "export filename cannot be empty")
	} else if strings.ContainsAny(c.ExportFilename, `/\"`) {
		errors = append(errors, fmt.Sprintf("invalid export filename '%s': must not contain path separators or quotes", c.ExportFilename))
	}

	// Validate chart cache
	if c.ChartCacheSize < 1 {
		errors = append(errors, fmt.Sprintf("invalid chart cache size %d: must be at least 1", c.ChartCacheSize))
	} else if c.ChartCacheSize > 10000 {
		errors = append(errors, fmt.Sprintf("invalid chart cache size %d: must be at most 10000", c.ChartCacheSize))
	}
	if c.ChartCacheTTL < time.Second {
		errors = append(errors, fmt.Sprintf("invalid chart cache TTL %v: must be at least 1 second", c.ChartCacheTTL))
	} else if c.ChartCacheTTL > 24*time.Hour {
		errors = append(errors, fmt.Sprintf("invalid chart cache TTL %v: must be at most 24 hours", c.ChartCacheTTL))
	}

	// Validate rate limiting
	if c.RateLimitPerMinute < 1 {
		errors = append(errors, fmt.Sprintf("invalid rate limit %d: must be at least 1 request per minute", c.RateLimitPerMinute))
	}
	for _, cidr := range c.TrustedProxies {
		if _, _, err := net.ParseCIDR(cidr); err != nil {
			errors = append(errors, fmt.Sprintf("invalid trusted proxy '%s': must be a CIDR such as 203.0.113.0/24", cidr))
		}
	}

	if !slices.Contains(validLogLevels, c.LogLevel) {
		errors = append(errors, fmt.Sprintf("invalid log level '%s': must be one of %v", c.LogLevel, validLogLevels))
	}

	// Return combined errors
	if len(errors) > 0 {
		return fmt.Errorf("configuration validation failed:\n- %s", strings.Join(errors, "\n- "))
	}

	return nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if i, err := strconv.Atoi(value); err == nil {
			return i
		}
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}

// getEnvList splits a comma separated value, dropping blank entries.
func getEnvList(key string) []string {
	var out []string
	for _, part := range strings.Split(os.Getenv(key), ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
