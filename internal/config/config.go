// Package config centralizes runtime configuration for the growfin binaries.
//
// Values resolve in three layers: built-in defaults, an optional YAML file
// named by GROWFIN_CONFIG, and finally environment variables. Later layers
// win. Secrets (OAuth client and token JSON) are env-only and never read
// from the YAML file.
package config

import (
	"fmt"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Config holds all runtime configuration for the web server and the
// export worker. A single struct keeps both binaries on the same keys.
type Config struct {
	// Server configuration
	Port string

	// SQLite configuration
	SQLiteDBPath string

	// AMQP configuration. An empty URL disables event publishing; the
	// web server then runs standalone and the worker refuses to start.
	AMQPURL      string
	AMQPExchange string
	AMQPQueue    string

	// Google Sheets mirror configuration. An empty spreadsheet ID
	// disables the mirror entirely.
	GoogleSpreadsheetID   string
	GoogleSheetName       string
	GoogleOAuthClientFile string
	GoogleOAuthClientJSON string
	GoogleOAuthTokenFile  string
	GoogleOAuthTokenJSON  string

	// Worker configuration
	SyncBatchSize int
	SyncInterval  time.Duration

	// Dashboard cache configuration
	CacheTTL  time.Duration
	CacheSize int

	// Rate limiting for mutating HTTP endpoints
	RateLimitPerMinute int

	// Logging
	LogLevel  string
	LogFormat string
}

// fileConfig mirrors Config for the YAML overlay. Durations are Go
// duration strings ("30s", "5m"). OAuth secrets are deliberately absent.
type fileConfig struct {
	Port                  string `yaml:"port"`
	SQLiteDBPath          string `yaml:"sqlite_db_path"`
	AMQPURL               string `yaml:"amqp_url"`
	AMQPExchange          string `yaml:"amqp_exchange"`
	AMQPQueue             string `yaml:"amqp_queue"`
	GoogleSpreadsheetID   string `yaml:"google_spreadsheet_id"`
	GoogleSheetName       string `yaml:"google_sheet_name"`
	GoogleOAuthClientFile string `yaml:"google_oauth_client_file"`
	GoogleOAuthTokenFile  string `yaml:"google_oauth_token_file"`
	SyncBatchSize         int    `yaml:"sync_batch_size"`
	SyncInterval          string `yaml:"sync_interval"`
	CacheTTL              string `yaml:"cache_ttl"`
	CacheSize             int    `yaml:"cache_size"`
	RateLimitPerMinute    int    `yaml:"rate_limit_per_minute"`
	LogLevel              string `yaml:"log_level"`
	LogFormat             string `yaml:"log_format"`
}

func defaults() *Config {
	return &Config{
		Port:               "8080",
		SQLiteDBPath:       "./data/growfin.db",
		AMQPExchange:       "growfin.records",
		AMQPQueue:          "growfin.records.export",
		GoogleSheetName:    "Transactions",
		SyncBatchSize:      10,
		SyncInterval:       30 * time.Second,
		CacheTTL:           30 * time.Second,
		CacheSize:          128,
		RateLimitPerMinute: 60,
		LogLevel:           "info",
		LogFormat:          "text",
	}
}

// Load resolves configuration from defaults, the optional YAML file named
// by GROWFIN_CONFIG, and environment variables, in that order.
func Load() (*Config, error) {
	cfg := defaults()

	if path := os.Getenv("GROWFIN_CONFIG"); path != "" {
		if err := cfg.applyFile(path); err != nil {
			return nil, fmt.Errorf("load config file %q: %w", path, err)
		}
	}
	cfg.applyEnv()

	return cfg, nil
}

func (c *Config) applyFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}

	var fc fileConfig
	if err := yaml.Unmarshal(data, &fc); err != nil {
		return fmt.Errorf("parse yaml: %w", err)
	}

	if fc.Port != "" {
		c.Port = fc.Port
	}
	if fc.SQLiteDBPath != "" {
		c.SQLiteDBPath = fc.SQLiteDBPath
	}
	if fc.AMQPURL != "" {
		c.AMQPURL = fc.AMQPURL
	}
	if fc.AMQPExchange != "" {
		c.AMQPExchange = fc.AMQPExchange
	}
	if fc.AMQPQueue != "" {
		c.AMQPQueue = fc.AMQPQueue
	}
	if fc.GoogleSpreadsheetID != "" {
		c.GoogleSpreadsheetID = fc.GoogleSpreadsheetID
	}
	if fc.GoogleSheetName != "" {
		c.GoogleSheetName = fc.GoogleSheetName
	}
	if fc.GoogleOAuthClientFile != "" {
		c.GoogleOAuthClientFile = fc.GoogleOAuthClientFile
	}
	if fc.GoogleOAuthTokenFile != "" {
		c.GoogleOAuthTokenFile = fc.GoogleOAuthTokenFile
	}
	if fc.SyncBatchSize != 0 {
		c.SyncBatchSize = fc.SyncBatchSize
	}
	if fc.SyncInterval != "" {
		d, err := time.ParseDuration(fc.SyncInterval)
		if err != nil {
			return fmt.Errorf("parse sync_interval: %w", err)
		}
		c.SyncInterval = d
	}
	if fc.CacheTTL != "" {
		d, err := time.ParseDuration(fc.CacheTTL)
		if err != nil {
			return fmt.Errorf("parse cache_ttl: %w", err)
		}
		c.CacheTTL = d
	}
	if fc.CacheSize != 0 {
		c.CacheSize = fc.CacheSize
	}
	if fc.RateLimitPerMinute != 0 {
		c.RateLimitPerMinute = fc.RateLimitPerMinute
	}
	if fc.LogLevel != "" {
		c.LogLevel = fc.LogLevel
	}
	if fc.LogFormat != "" {
		c.LogFormat = fc.LogFormat
	}

	return nil
}

// applyEnv overrides the current values with environment variables. The
// current value acts as the fallback, so file values survive unset vars.
func (c *Config) applyEnv() {
	c.Port = getEnv("PORT", c.Port)
	c.SQLiteDBPath = getEnv("SQLITE_DB_PATH", c.SQLiteDBPath)

	c.AMQPURL = getEnv("AMQP_URL", c.AMQPURL)
	c.AMQPExchange = getEnv("AMQP_EXCHANGE", c.AMQPExchange)
	c.AMQPQueue = getEnv("AMQP_QUEUE", c.AMQPQueue)

	c.GoogleSpreadsheetID = getEnv("GOOGLE_SPREADSHEET_ID", c.GoogleSpreadsheetID)
	c.GoogleSheetName = getEnv("GOOGLE_SHEET_NAME", c.GoogleSheetName)
	c.GoogleOAuthClientFile = getEnv("GOOGLE_OAUTH_CLIENT_FILE", c.GoogleOAuthClientFile)
	c.GoogleOAuthClientJSON = getEnv("GOOGLE_OAUTH_CLIENT_JSON", c.GoogleOAuthClientJSON)
	c.GoogleOAuthTokenFile = getEnv("GOOGLE_OAUTH_TOKEN_FILE", c.GoogleOAuthTokenFile)
	c.GoogleOAuthTokenJSON = getEnv("GOOGLE_OAUTH_TOKEN_JSON", c.GoogleOAuthTokenJSON)

	c.SyncBatchSize = getEnvInt("SYNC_BATCH_SIZE", c.SyncBatchSize)
	c.SyncInterval = getEnvDuration("SYNC_INTERVAL", c.SyncInterval)

	c.CacheTTL = getEnvDuration("CACHE_TTL", c.CacheTTL)
	c.CacheSize = getEnvInt("CACHE_SIZE", c.CacheSize)

	c.RateLimitPerMinute = getEnvInt("RATE_LIMIT_PER_MINUTE", c.RateLimitPerMinute)

	c.LogLevel = getEnv("LOG_LEVEL", c.LogLevel)
	c.LogFormat = getEnv("LOG_FORMAT", c.LogFormat)
}

// SheetsEnabled reports whether the Google Sheets mirror is configured.
func (c *Config) SheetsEnabled() bool {
	return c.GoogleSpreadsheetID != ""
}

// PublishingEnabled reports whether record events should be published.
func (c *Config) PublishingEnabled() bool {
	return c.AMQPURL != ""
}

// Validate checks all configuration values and returns a single error
// listing every problem found.
func (c *Config) Validate() error {
	var errors []string

	if port, err := strconv.Atoi(c.Port); err != nil {
		errors = append(errors, fmt.Sprintf("invalid port '%s': must be a number", c.Port))
	} else if port < 1 || port > 65535 {
		errors = append(errors, fmt.Sprintf("invalid port %d: must be between 1 and 65535", port))
	}

	if c.SQLiteDBPath == "" {
		errors = append(errors, "SQLite database path cannot be empty")
	}

	if c.AMQPURL != "" {
		if parsedURL, err := url.Parse(c.AMQPURL); err != nil {
			errors = append(errors, fmt.Sprintf("invalid AMQP URL '%s': %v", c.AMQPURL, err))
		} else if parsedURL.Scheme != "amqp" && parsedURL.Scheme != "amqps" {
			errors = append(errors, fmt.Sprintf("invalid AMQP URL scheme '%s': must be 'amqp' or 'amqps'", parsedURL.Scheme))
		}
		if c.AMQPExchange == "" {
			errors = append(errors, "AMQP exchange name cannot be empty when AMQP URL is provided")
		}
		if c.AMQPQueue == "" {
			errors = append(errors, "AMQP queue name cannot be empty when AMQP URL is provided")
		}
	}

	if c.SheetsEnabled() {
		if c.GoogleSheetName == "" {
			errors = append(errors, "Google Sheet name is required when a spreadsheet ID is configured")
		}
		if c.GoogleOAuthClientFile == "" && c.GoogleOAuthClientJSON == "" {
			errors = append(errors, "either GOOGLE_OAUTH_CLIENT_FILE or GOOGLE_OAUTH_CLIENT_JSON must be provided for the sheets mirror")
		}
		if c.GoogleOAuthTokenFile == "" && c.GoogleOAuthTokenJSON == "" {
			errors = append(errors, "either GOOGLE_OAUTH_TOKEN_FILE or GOOGLE_OAUTH_TOKEN_JSON must be provided for the sheets mirror")
		}
		if c.GoogleOAuthClientFile != "" {
			if err := validateFileExists(c.GoogleOAuthClientFile); err != nil {
				errors = append(errors, fmt.Sprintf("Google OAuth client file: %v", err))
			}
		}
		if c.GoogleOAuthTokenFile != "" {
			if err := validateFileExists(c.GoogleOAuthTokenFile); err != nil {
				errors = append(errors, fmt.Sprintf("Google OAuth token file: %v", err))
			}
		}
	}

	if c.SyncBatchSize < 1 {
		errors = append(errors, fmt.Sprintf("invalid sync batch size %d: must be at least 1", c.SyncBatchSize))
	} else if c.SyncBatchSize > 1000 {
		errors = append(errors, fmt.Sprintf("invalid sync batch size %d: must be at most 1000", c.SyncBatchSize))
	}

	if c.SyncInterval < time.Second {
		errors = append(errors, fmt.Sprintf("invalid sync interval %v: must be at least 1 second", c.SyncInterval))
	} else if c.SyncInterval > 24*time.Hour {
		errors = append(errors, fmt.Sprintf("invalid sync interval %v: must be at most 24 hours", c.SyncInterval))
	}

	if c.CacheTTL < time.Second {
		errors = append(errors, fmt.Sprintf("invalid cache TTL %v: must be at least 1 second", c.CacheTTL))
	} else if c.CacheTTL > time.Hour {
		errors = append(errors, fmt.Sprintf("invalid cache TTL %v: must be at most 1 hour", c.CacheTTL))
	}

	if c.CacheSize < 1 {
		errors = append(errors, fmt.Sprintf("invalid cache size %d: must be at least 1", c.CacheSize))
	}

	if c.RateLimitPerMinute < 1 {
		errors = append(errors, fmt.Sprintf("invalid rate limit %d: must be at least 1 request per minute", c.RateLimitPerMinute))
	}

	switch strings.ToLower(c.LogLevel) {
	case "debug", "info", "warn", "error":
	default:
		errors = append(errors, fmt.Sprintf("invalid log level '%s': must be debug, info, warn or error", c.LogLevel))
	}

	switch strings.ToLower(c.LogFormat) {
	case "text", "json":
	default:
		errors = append(errors, fmt.Sprintf("invalid log format '%s': must be text or json", c.LogFormat))
	}

	if len(errors) > 0 {
		return fmt.Errorf("configuration validation failed:\n- %s", strings.Join(errors, "\n- "))
	}
	return nil
}

func validateFileExists(path string) error {
	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return fmt.Errorf("file does not exist: %s", path)
		}
		return fmt.Errorf("cannot access file %s: %v", path, err)
	}
	if info.IsDir() {
		return fmt.Errorf("path is a directory, not a file: %s", path)
	}
	return nil
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.Atoi(value); err == nil {
			return parsed
		}
	}
	return fallback
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if parsed, err := time.ParseDuration(value); err == nil {
			return parsed
		}
	}
	return fallback
}
