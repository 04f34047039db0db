package config

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all configuration for the application.
type Config struct {
	DBPath    string
	APIPort   string
	LogLevel  slog.Level
	LogFormat string

	// TraversalBudget caps the number of notes one cycle check may visit.
	TraversalBudget int
	// CycleCheckTimeout is the deadline applied to a single cycle check.
	CycleCheckTimeout time.Duration
	// ArchiveRefresh is how often the archived-notes index is rebuilt.
	ArchiveRefresh time.Duration
	// FilePreviewLimit is the number of characters kept when showing the
	// content of a file revision.
	FilePreviewLimit int
	// ProtectedSession opens the protected session at startup.
	ProtectedSession bool
}

// Load reads configuration from environment variables and returns a Config struct.
// It applies defaults for optional fields and validates the values it parses.
// If a .env file exists in the current directory or project root, it will be loaded automatically.
// Environment variables already set take precedence over .env file values.
func Load() (*Config, error) {
	// Try to load .env file (ignore error if it doesn't exist)
	_ = godotenv.Load()

	wd, err := os.Getwd()
	if err == nil {
		dir := wd
		for i := 0; i < 5; i++ { // Limit search depth
			envPath := filepath.Join(dir, ".env")
			if _, err := os.Stat(envPath); err == nil {
				_ = godotenv.Load(envPath)
				break
			}
			parent := filepath.Dir(dir)
			if parent == dir {
				break // Reached filesystem root
			}
			dir = parent
		}
	}

	cfg := &Config{
		DBPath:    getEnv("DB_PATH", "./data/notetree.db"),
		APIPort:   getEnv("API_PORT", "9000"),
		LogFormat: strings.ToLower(getEnv("LOG_FORMAT", "text")),
	}

	if cfg.LogLevel, err = parseLevel(getEnv("LOG_LEVEL", "info")); err != nil {
		return nil, err
	}
	if cfg.LogFormat != "text" && cfg.LogFormat != "json" {
		return nil, fmt.Errorf("LOG_FORMAT must be text or json, got %q", cfg.LogFormat)
	}

	if cfg.TraversalBudget, err = getPositiveInt("TRAVERSAL_BUDGET", 100000); err != nil {
		return nil, err
	}
	if cfg.FilePreviewLimit, err = getPositiveInt("FILE_PREVIEW_LIMIT", 10000); err != nil {
		return nil, err
	}
	if cfg.CycleCheckTimeout, err = getDuration("CYCLE_CHECK_TIMEOUT", 5*time.Second); err != nil {
		return nil, err
	}
	if cfg.ArchiveRefresh, err = getDuration("ARCHIVE_REFRESH", 30*time.Second); err != nil {
		return nil, err
	}

	protected := getEnv("PROTECTED_SESSION", "false")
	if cfg.ProtectedSession, err = strconv.ParseBool(protected); err != nil {
		return nil, fmt.Errorf("PROTECTED_SESSION must be a boolean: %w", err)
	}

	// Create ./data directory if it doesn't exist
	dataDir := filepath.Dir(cfg.DBPath)
	if err := os.MkdirAll(dataDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create data directory: %w", err)
	}

	return cfg, nil
}

// NewLogger builds the process logger described by the configuration.
func (c *Config) NewLogger() *slog.Logger {
	opts := &slog.HandlerOptions{Level: c.LogLevel}
	if c.LogFormat == "json" {
		return slog.New(slog.NewJSONHandler(os.Stdout, opts))
	}
	return slog.New(slog.NewTextHandler(os.Stdout, opts))
}

func parseLevel(s string) (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(s)); err != nil {
		return 0, fmt.Errorf("LOG_LEVEL must be one of debug, info, warn, error: %w", err)
	}
	return level, nil
}

func getPositiveInt(key string, defaultValue int) (int, error) {
	raw := getEnv(key, strconv.Itoa(defaultValue))
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("%s must be a valid integer: %w", key, err)
	}
	if n <= 0 {
		return 0, fmt.Errorf("%s must be greater than 0", key)
	}
	return n, nil
}

func getDuration(key string, defaultValue time.Duration) (time.Duration, error) {
	raw := getEnv(key, defaultValue.String())
	d, err := time.ParseDuration(raw)
	if err != nil {
		return 0, fmt.Errorf("%s must be a valid duration: %w", key, err)
	}
	if d <= 0 {
		return 0, fmt.Errorf("%s must be greater than 0", key)
	}
	return d, nil
}

// getEnv gets an environment variable or returns a default value.
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
