package config

import (
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// DefaultDBFile is the database path used when nothing else is configured.
// It matches the layout of a standard Home Assistant installation.
const DefaultDBFile = "config/home-assistant_v2.db"

// Config represents the application configuration
type Config struct {
	DBFile   string `yaml:"db_file"`
	LogLevel string `yaml:"log_level"`
}

// Load loads configuration from multiple sources with precedence:
// 1. Environment variables
// 2. ./.env (dotenv)
// 3. ~/.config/hadbmaint/config.yaml (YAML)
func Load() (*Config, error) {
	cfg := &Config{
		DBFile:   DefaultDBFile,
		LogLevel: "info",
	}

	// Load .env if it exists
	_ = godotenv.Load()

	// YAML config is optional, so we don't fail if it doesn't exist
	_ = loadYAMLConfig(cfg)

	// Override with environment variables
	if dbFile := os.Getenv("HADBMAINT_DB_FILE"); dbFile != "" {
		cfg.DBFile = dbFile
	}
	if logLevel := os.Getenv("HADBMAINT_LOG_LEVEL"); logLevel != "" {
		cfg.LogLevel = logLevel
	}

	return cfg, nil
}

// SlogLevel maps the configured log level to a slog.Level, defaulting to
// info for unknown values.
func (c *Config) SlogLevel() slog.Level {
	switch strings.ToLower(c.LogLevel) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

func loadYAMLConfig(cfg *Config) error {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return err
	}
	path := filepath.Join(homeDir, ".config", "hadbmaint", "config.yaml")
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	return yaml.Unmarshal(data, cfg)
}
