// Package config provides application configuration management with support for environment variables, command-line flags, and .env files.
package config

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Database drivers.
const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
)

// Config holds the application configuration.
type Config struct {
	App       AppConfig
	Logger    LoggerConfig
	Data      DataConfig
	Database  DatabaseConfig
	Server    ServerConfig
	Webhook   WebhookConfig
	Chapters  ChaptersConfig
	Inbox     InboxConfig
	RateLimit RateLimitConfig
}

// AppConfig holds application-level configuration.
type AppConfig struct {
	Environment string
}

// LoggerConfig holds logging configuration.
type LoggerConfig struct {
	Level string
	// Format is json or pretty. Empty picks json in production.
	Format string
	// Color is auto, always or never.
	Color string
}

// DataConfig locates on-disk state: the sqlite file, the search index and
// the webhook delivery log.
type DataConfig struct {
	BasePath string
}

// SearchPath is the bleve index directory.
func (d DataConfig) SearchPath() string { return filepath.Join(d.BasePath, "search") }

// DedupePath is the badger directory for webhook delivery ids.
func (d DataConfig) DedupePath() string { return filepath.Join(d.BasePath, "webhooks") }

// DatabaseConfig selects the store backend.
type DatabaseConfig struct {
	// Driver is sqlite or postgres. Defaults to postgres when URL is set.
	Driver string
	// URL is a postgres connection string, e.g. a Supabase pooler URL.
	URL string
	// SQLitePath defaults to {data}/platform.db.
	SQLitePath string
}

// ServerConfig holds server configuration.
type ServerConfig struct {
	Name            string
	Port            string        // Server port (default: 8080)
	ReadTimeout     time.Duration // HTTP read timeout (default: 15s)
	WriteTimeout    time.Duration // HTTP write timeout (default: 0, streams stay open)
	IdleTimeout     time.Duration // HTTP idle timeout (default: 60s)
	ShutdownTimeout time.Duration // Graceful shutdown budget (default: 30s)
	CORSOrigins     []string
}

// WebhookConfig holds provider secrets. An empty secret disables that
// provider's endpoint.
type WebhookConfig struct {
	CloudflareSecret string
	MuxSecret        string
	DeepgramToken    string
	// Tolerance bounds the age of a signed timestamp (default: 5m).
	Tolerance time.Duration
	// DedupeTTL is how long delivery ids are remembered (default: 24h).
	DedupeTTL time.Duration
}

// ChaptersConfig tunes the chapter generator.
type ChaptersConfig struct {
	PassageWindow     float64 // Seconds (default: 30)
	TopicWindow       float64 // Seconds (default: 60)
	TopicWordBoundary bool
}

// InboxConfig configures the transcript drop folder. An empty path
// disables the watcher.
type InboxConfig struct {
	Path        string
	SettleDelay time.Duration
}

// RateLimitConfig bounds webhook and preview requests per client IP.
type RateLimitConfig struct {
	PerMinute int // 0 disables limiting
	Burst     int
}

// LoadConfig loads configuration from os.Args. See Load.
func LoadConfig() (*Config, error) {
	return Load(os.Args[1:])
}

// Load loads configuration from multiple sources with precedence:
// 1. Command-line flags (highest priority).
// 2. Environment variables.
// 3. .env file.
// 4. Default values (lowest priority).
func Load(args []string) (*Config, error) {
	fs := flag.NewFlagSet("platform", flag.ContinueOnError)

	env := fs.String("env", "", "Environment (development, staging, production)")
	logLevel := fs.String("log-level", "", "Log level (debug, info, warn, error)")
	logFormat := fs.String("log-format", "", "Log format (json, pretty; default by environment)")
	logColor := fs.String("log-color", "", "Colored pretty logs (auto, always, never)")
	dataPath := fs.String("data-path", "", "Base path for local data")
	dbDriver := fs.String("db-driver", "", "Database driver (sqlite, postgres)")
	dbURL := fs.String("database-url", "", "Postgres connection URL")
	sqlitePath := fs.String("sqlite-path", "", "SQLite database file")

	serverName := fs.String("server-name", "", "Name for the server")
	serverPort := fs.String("port", "", "Server port (default: 8080)")
	readTimeout := fs.String("read-timeout", "", "HTTP read timeout (default: 15s)")
	writeTimeout := fs.String("write-timeout", "", "HTTP write timeout (default: 0)")
	idleTimeout := fs.String("idle-timeout", "", "HTTP idle timeout (default: 60s)")
	shutdownTimeout := fs.String("shutdown-timeout", "", "Graceful shutdown timeout (default: 30s)")
	corsOrigins := fs.String("cors-origins", "", "Comma separated allowed origins (default: *)")

	webhookTolerance := fs.String("webhook-tolerance", "", "Max age of signed webhook timestamps (default: 5m)")
	dedupeTTL := fs.String("webhook-dedupe-ttl", "", "How long webhook deliveries are remembered (default: 24h)")

	passageWindow := fs.String("passage-window", "", "Passage chapter length in seconds (default: 30)")
	topicWindow := fs.String("topic-window", "", "Topic chapter length in seconds (default: 60)")
	wordBoundary := fs.String("topic-word-boundary", "", "Match topic keywords as whole words (default: false)")

	inboxPath := fs.String("inbox-path", "", "Transcript inbox folder (disabled when empty)")
	inboxSettle := fs.String("inbox-settle", "", "Wait after last write before ingesting (default: 2s)")

	rateLimit := fs.String("rate-limit", "", "Webhook and preview requests per minute per IP (default: 120)")
	rateBurst := fs.String("rate-burst", "", "Rate limit burst (default: 20)")

	envFile := fs.String("env-file", ".env", "Path to .env file")

	if err := fs.Parse(args); err != nil {
		return nil, err
	}

	// Missing .env is fine. Existing env vars are never overwritten.
	if err := godotenv.Load(*envFile); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("load env file %s: %w", *envFile, err)
	}

	cfg := &Config{
		App: AppConfig{
			Environment: getConfigValue(*env, "ENV", "development"),
		},
		Logger: LoggerConfig{
			Level:  getConfigValue(*logLevel, "LOG_LEVEL", "info"),
			Format: getConfigValue(*logFormat, "LOG_FORMAT", ""),
			Color:  getConfigValue(*logColor, "LOG_COLOR", "auto"),
		},
		Data: DataConfig{
			BasePath: getConfigValue(*dataPath, "DATA_PATH", ""),
		},
		Database: DatabaseConfig{
			Driver:     getConfigValue(*dbDriver, "DB_DRIVER", ""),
			URL:        getConfigValue(*dbURL, "DATABASE_URL", ""),
			SQLitePath: getConfigValue(*sqlitePath, "SQLITE_PATH", ""),
		},
		Server: ServerConfig{
			Name:        getConfigValue(*serverName, "SERVER_NAME", "Sermon Platform"),
			Port:        getConfigValue(*serverPort, "SERVER_PORT", "8080"),
			CORSOrigins: splitList(getConfigValue(*corsOrigins, "CORS_ORIGINS", "")),
		},
		Webhook: WebhookConfig{
			CloudflareSecret: getConfigValue("", "CLOUDFLARE_WEBHOOK_SECRET", ""),
			MuxSecret:        getConfigValue("", "MUX_WEBHOOK_SECRET", ""),
			DeepgramToken:    getConfigValue("", "DEEPGRAM_CALLBACK_TOKEN", ""),
		},
		Chapters: ChaptersConfig{
			TopicWordBoundary: getBoolConfigValue(*wordBoundary, "TOPIC_WORD_BOUNDARY", false),
		},
		Inbox: InboxConfig{
			Path: getConfigValue(*inboxPath, "INBOX_PATH", ""),
		},
	}

	var err error
	durations := []struct {
		dst      *time.Duration
		flag     string
		env      string
		fallback string
	}{
		{&cfg.Server.ReadTimeout, *readTimeout, "SERVER_READ_TIMEOUT", "15s"},
		{&cfg.Server.WriteTimeout, *writeTimeout, "SERVER_WRITE_TIMEOUT", "0s"},
		{&cfg.Server.IdleTimeout, *idleTimeout, "SERVER_IDLE_TIMEOUT", "60s"},
		{&cfg.Server.ShutdownTimeout, *shutdownTimeout, "SERVER_SHUTDOWN_TIMEOUT", "30s"},
		{&cfg.Webhook.Tolerance, *webhookTolerance, "WEBHOOK_TOLERANCE", "5m"},
		{&cfg.Webhook.DedupeTTL, *dedupeTTL, "WEBHOOK_DEDUPE_TTL", "24h"},
		{&cfg.Inbox.SettleDelay, *inboxSettle, "INBOX_SETTLE_DELAY", "2s"},
	}
	for _, d := range durations {
		if *d.dst, err = getDurationConfigValue(d.flag, d.env, d.fallback); err != nil {
			return nil, err
		}
	}

	if cfg.Chapters.PassageWindow, err = getFloatConfigValue(*passageWindow, "PASSAGE_WINDOW_SECONDS", 30); err != nil {
		return nil, err
	}
	if cfg.Chapters.TopicWindow, err = getFloatConfigValue(*topicWindow, "TOPIC_WINDOW_SECONDS", 60); err != nil {
		return nil, err
	}
	if cfg.RateLimit.PerMinute, err = getIntConfigValue(*rateLimit, "RATE_LIMIT_PER_MINUTE", 120); err != nil {
		return nil, err
	}
	if cfg.RateLimit.Burst, err = getIntConfigValue(*rateBurst, "RATE_LIMIT_BURST", 20); err != nil {
		return nil, err
	}

	if err := cfg.expandPaths(); err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return cfg, nil
}

// Validate checks that all required config values are present and valid.
func (c *Config) Validate() error {
	if c.App.Environment == "" {
		return errors.New("ENV is required")
	}

	validEnvs := map[string]bool{
		"development": true,
		"staging":     true,
		"production":  true,
	}
	if !validEnvs[c.App.Environment] {
		return fmt.Errorf("invalid environment: %s (must be development, staging, or production)", c.App.Environment)
	}

	validLevels := map[string]bool{
		"debug": true,
		"info":  true,
		"warn":  true,
		"error": true,
	}
	if !validLevels[strings.ToLower(c.Logger.Level)] {
		return fmt.Errorf("invalid log level: %s (must be debug, info, warn, or error)", c.Logger.Level)
	}

	switch c.Logger.Format {
	case "", "json", "pretty":
	default:
		return fmt.Errorf("invalid log format: %s (must be json or pretty)", c.Logger.Format)
	}
	switch c.Logger.Color {
	case "", "auto", "always", "never":
	default:
		return fmt.Errorf("invalid log color: %s (must be auto, always, or never)", c.Logger.Color)
	}

	if c.Data.BasePath == "" {
		return errors.New("data base path cannot be empty after expansion")
	}

	switch c.Database.Driver {
	case DriverSQLite:
	case DriverPostgres:
		if c.Database.URL == "" {
			return errors.New("DATABASE_URL is required for the postgres driver")
		}
	default:
		return fmt.Errorf("invalid database driver: %s (must be sqlite or postgres)", c.Database.Driver)
	}

	if c.Chapters.PassageWindow <= 0 || c.Chapters.TopicWindow <= 0 {
		return errors.New("chapter windows must be positive")
	}

	if c.Server.ShutdownTimeout <= 0 {
		return errors.New("SERVER_SHUTDOWN_TIMEOUT must be positive")
	}

	if c.RateLimit.PerMinute < 0 || c.RateLimit.Burst < 0 {
		return errors.New("rate limit values cannot be negative")
	}

	return nil
}

// expandPaths resolves the data directory and everything defaulting into it.
func (c *Config) expandPaths() error {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return fmt.Errorf("failed to get home directory: %w", err)
	}

	if c.Data.BasePath, err = expandPath(c.Data.BasePath, filepath.Join(homeDir, "SermonPlatform", "data")); err != nil {
		return fmt.Errorf("invalid data path: %w", err)
	}

	if c.Database.Driver == "" {
		c.Database.Driver = DriverSQLite
		if c.Database.URL != "" {
			c.Database.Driver = DriverPostgres
		}
	}
	c.Database.Driver = strings.ToLower(c.Database.Driver)

	if c.Database.SQLitePath, err = expandPath(c.Database.SQLitePath, filepath.Join(c.Data.BasePath, "platform.db")); err != nil {
		return fmt.Errorf("invalid sqlite path: %w", err)
	}

	// Inbox stays disabled when unset.
	if c.Inbox.Path != "" {
		if c.Inbox.Path, err = expandPath(c.Inbox.Path, ""); err != nil {
			return fmt.Errorf("invalid inbox path: %w", err)
		}
	}
	return nil
}

// expandPath expands ~ and makes the path absolute.
// If path is empty and defaultPath is provided, uses the default.
func expandPath(path, defaultPath string) (string, error) {
	if path == "" {
		return defaultPath, nil
	}

	if strings.HasPrefix(path, "~/") {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("failed to get home directory: %w", err)
		}
		path = filepath.Join(homeDir, path[2:])
	}

	if !filepath.IsAbs(path) {
		absPath, err := filepath.Abs(path)
		if err != nil {
			return "", fmt.Errorf("failed to get absolute path: %w", err)
		}
		path = absPath
	}

	return filepath.Clean(path), nil
}

// getConfigValue returns the first non-empty value from flag, env var, or default.
func getConfigValue(flagValue, envKey, defaultValue string) string {
	if flagValue != "" {
		return flagValue
	}
	if envValue := os.Getenv(envKey); envValue != "" {
		return envValue
	}
	return defaultValue
}

// getBoolConfigValue returns a bool from flag, env var, or default.
// Accepts: "true", "1", "yes" (case-insensitive) as true; anything else is false.
func getBoolConfigValue(flagValue, envKey string, defaultValue bool) bool {
	strValue := getConfigValue(flagValue, envKey, "")
	if strValue == "" {
		return defaultValue
	}
	strValue = strings.ToLower(strValue)
	return strValue == "true" || strValue == "1" || strValue == "yes"
}

// getIntConfigValue returns an int from flag, env var, or default.
func getIntConfigValue(flagValue, envKey string, defaultValue int) (int, error) {
	strValue := getConfigValue(flagValue, envKey, "")
	if strValue == "" {
		return defaultValue, nil
	}
	n, err := strconv.Atoi(strValue)
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q: %w", envKey, strValue, err)
	}
	return n, nil
}

func getFloatConfigValue(flagValue, envKey string, defaultValue float64) (float64, error) {
	strValue := getConfigValue(flagValue, envKey, "")
	if strValue == "" {
		return defaultValue, nil
	}
	f, err := strconv.ParseFloat(strValue, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q: %w", envKey, strValue, err)
	}
	return f, nil
}

func getDurationConfigValue(flagValue, envKey, defaultValue string) (time.Duration, error) {
	strValue := getConfigValue(flagValue, envKey, defaultValue)
	d, err := time.ParseDuration(strValue)
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q: %w", envKey, strValue, err)
	}
	return d, nil
}

// splitList splits a comma separated value, dropping blanks.
func splitList(s string) []string {
	var out []string
	for part := range strings.SplitSeq(s, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
