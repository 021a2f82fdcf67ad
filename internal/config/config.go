package config

import (
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// EnvPrefix is prepended to every environment override, e.g. BRACKETWRAP_PORT.
const EnvPrefix = "BRACKETWRAP"

type Config struct {
	Port        string
	Environment string
	LogLevel    slog.Level
	LogFile     string

	RedisURL   string
	APIBaseURL string
	DataDir    string

	CacheTTL   time.Duration
	SessionTTL time.Duration

	Year           int
	SwipeThreshold int

	WorkerID string
}

// IsProduction reports whether the service runs with production logging.
func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}

// Load reads configuration from the optional file named by
// BRACKETWRAP_CONFIG and from BRACKETWRAP_* environment variables.
func Load() (*Config, error) {
	v := viper.New()

	v.SetDefault("port", "8080")
	v.SetDefault("environment", "development")
	v.SetDefault("log_level", "info")
	v.SetDefault("log_file", "bracketwrap.log")
	v.SetDefault("redis_url", "redis://localhost:6379")
	v.SetDefault("api_base_url", "http://localhost:8080")
	v.SetDefault("data_dir", "./data")
	v.SetDefault("cache_ttl", 10*time.Minute)
	v.SetDefault("session_ttl", 7*24*time.Hour)
	v.SetDefault("year", time.Now().Year())
	v.SetDefault("swipe_threshold", 50)
	v.SetDefault("worker_id", "")

	v.SetConfigType("yaml")
	if path := os.Getenv(EnvPrefix + "_CONFIG"); path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config %s: %w", path, err)
		}
	}

	v.SetEnvPrefix(EnvPrefix)
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	cfg := &Config{
		Port:           v.GetString("port"),
		Environment:    v.GetString("environment"),
		LogLevel:       parseLogLevel(v.GetString("log_level")),
		LogFile:        v.GetString("log_file"),
		RedisURL:       v.GetString("redis_url"),
		APIBaseURL:     strings.TrimRight(v.GetString("api_base_url"), "/"),
		DataDir:        v.GetString("data_dir"),
		CacheTTL:       v.GetDuration("cache_ttl"),
		SessionTTL:     v.GetDuration("session_ttl"),
		Year:           v.GetInt("year"),
		SwipeThreshold: v.GetInt("swipe_threshold"),
		WorkerID:       v.GetString("worker_id"),
	}
	if cfg.SwipeThreshold <= 0 {
		return nil, fmt.Errorf("swipe_threshold must be positive, got %d", cfg.SwipeThreshold)
	}
	return cfg, nil
}

func parseLogLevel(level string) slog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
