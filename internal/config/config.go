package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config aggregates all runtime settings required by the application.
type Config struct {
	AppName     string
	Environment string
	Storage     StorageConfig
	Auth        AuthConfig
	Seed        SeedConfig
	Feed        FeedConfig
	Context     ContextConfig
	Logger      LoggerConfig
}

type StorageConfig struct {
	Path string
}

type AuthConfig struct {
	// SimulatedDelay is the artificial latency login and register pause
	// for, so loading-state UI has something to show.
	SimulatedDelay time.Duration
}

type SeedConfig struct {
	Enabled bool
}

type FeedConfig struct {
	Limit int
}

type ContextConfig struct {
	ShutdownTimeout time.Duration
}

type LoggerConfig struct {
	Level    string
	Encoding string
}

// Load reads configuration from environment variables (optionally .env)
// and applies sane defaults so the application can boot in any environment.
func Load() (*Config, error) {
	_ = godotenv.Load(".env")

	cfg := &Config{
		AppName:     getString("APP_NAME", "tasktrophy-hub"),
		Environment: getString("APP_ENV", "development"),
		Storage: StorageConfig{
			Path: getString("HUB_DATA_PATH", "./data/hub.db"),
		},
		Auth: AuthConfig{
			SimulatedDelay: getDuration("AUTH_SIMULATED_DELAY", time.Second),
		},
		Seed: SeedConfig{
			Enabled: getBool("SEED_ENABLED", true),
		},
		Feed: FeedConfig{
			Limit: getInt("FEED_LIMIT", 100),
		},
		Context: ContextConfig{
			ShutdownTimeout: getDuration("SHUTDOWN_TIMEOUT_SECONDS", 15*time.Second),
		},
		Logger: LoggerConfig{
			Level:    getString("LOG_LEVEL", "info"),
			Encoding: getString("LOG_ENCODING", "console"),
		},
	}

	return cfg, nil
}

// MustLoad panics if configuration cannot be loaded.
func MustLoad() *Config {
	cfg, err := Load()
	if err != nil {
		panic(err)
	}
	return cfg
}

func getString(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

func getInt(key string, fallback int) int {
	if val := os.Getenv(key); val != "" {
		if parsed, err := strconv.Atoi(val); err == nil {
			return parsed
		}
	}
	return fallback
}

func getBool(key string, fallback bool) bool {
	if val := os.Getenv(key); val != "" {
		if parsed, err := strconv.ParseBool(val); err == nil {
			return parsed
		}
	}
	return fallback
}

func getDuration(key string, fallback time.Duration) time.Duration {
	if val := os.Getenv(key); val != "" {
		if parsed, err := time.ParseDuration(val); err == nil {
			return parsed
		}
		if seconds, err := strconv.Atoi(val); err == nil {
			return time.Duration(seconds) * time.Second
		}
	}
	return fallback
}
