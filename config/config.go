package config

import (
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Env      string
	DBPath   string
	LogLevel string
	// DefaultStores replaces the built-in store catalog when set
	DefaultStores []string
	// PollInterval is how often a watch rereads the database. Zero keeps
	// the service default.
	PollInterval time.Duration
}

var AppConfig *Config

func Load() *Config {
	_ = godotenv.Load()

	AppConfig = &Config{
		Env:           GetEnv("ENV", "development"),
		DBPath:        GetEnv("DB_PATH", "./data/merquelo.db"),
		LogLevel:      GetEnv("LOG_LEVEL", "info"),
		DefaultStores: splitList(GetEnv("MERQUELO_DEFAULT_STORES", "")),
		PollInterval:  parseDuration(GetEnv("MERQUELO_POLL_INTERVAL", "")),
	}

	return AppConfig
}

func (c *Config) IsProduction() bool {
	return c.Env == "production"
}

func GetEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// parseDuration returns zero for empty or malformed values
func parseDuration(value string) time.Duration {
	d, err := time.ParseDuration(value)
	if err != nil || d < 0 {
		return 0
	}
	return d
}

// splitList splits a comma separated value, dropping blank entries
func splitList(value string) []string {
	var out []string
	for _, part := range strings.Split(value, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
