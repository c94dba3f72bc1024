package config

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Revocation store backends
const (
	RevocationStoreMemory = "memory"
	RevocationStoreBolt   = "bolt"
)

// Config holds the server configuration, loaded from the environment
type Config struct {
	Address          string
	SQLiteDBPath     string
	JWTSecret        string
	RevocationStore  string
	RevocationDBPath string
	LogLevel         slog.Level
	AccessTokenTTL   time.Duration
	RefreshTokenTTL  time.Duration
	RateWindow       time.Duration
	RateLimit        int
	ExpensesPerPage  int
}

// Load reads configuration from environment variables, with defaults
// An optional .env file in the working directory is loaded first
func Load() *Config {
	// Missing .env is fine: env vars take over
	_ = godotenv.Load()

	return &Config{
		Address:          getEnv("ADDRESS", ":8080"),
		SQLiteDBPath:     getEnv("SQLITE_DB_PATH", "./data/expensekeeper.db"),
		JWTSecret:        getEnv("JWT_SECRET", ""),
		AccessTokenTTL:   getEnvDuration("ACCESS_TOKEN_TTL", time.Hour),
		RefreshTokenTTL:  getEnvDuration("REFRESH_TOKEN_TTL", 720*time.Hour),
		LogLevel:         parseLogLevel(getEnv("LOG_LEVEL", "info")),
		RateLimit:        getEnvInt("RATE_LIMIT", 100),
		RateWindow:       getEnvDuration("RATE_WINDOW", time.Minute),
		ExpensesPerPage:  getEnvInt("EXPENSES_PER_PAGE", 10),
		RevocationStore:  getEnv("REVOCATION_STORE", RevocationStoreMemory),
		RevocationDBPath: getEnv("REVOCATION_DB_PATH", "./data/revoked.db"),
	}
}

// Validate checks the configuration and returns an error if invalid
func (c *Config) Validate() error {
	var problems []string

	if c.JWTSecret == "" {
		problems = append(problems, "JWT_SECRET must be set")
	}

	if c.AccessTokenTTL <= 0 {
		problems = append(problems, "ACCESS_TOKEN_TTL must be positive")
	}

	if c.RefreshTokenTTL <= c.AccessTokenTTL {
		problems = append(problems, "REFRESH_TOKEN_TTL must exceed ACCESS_TOKEN_TTL")
	}

	if c.RateLimit < 1 {
		problems = append(problems, "RATE_LIMIT must be at least 1")
	}

	if c.ExpensesPerPage < 1 {
		problems = append(problems, "EXPENSES_PER_PAGE must be at least 1")
	}

	switch c.RevocationStore {
	case RevocationStoreMemory, RevocationStoreBolt:
	default:
		problems = append(problems, fmt.Sprintf("REVOCATION_STORE must be %q or %q",
			RevocationStoreMemory, RevocationStoreBolt))
	}

	if c.RevocationStore == RevocationStoreBolt && c.RevocationDBPath == "" {
		problems = append(problems, "REVOCATION_DB_PATH must be set for the bolt revocation store")
	}

	if len(problems) > 0 {
		return fmt.Errorf("invalid configuration: %s", strings.Join(problems, "; "))
	}

	return nil
}

func parseLogLevel(s string) slog.Level {
	switch strings.ToLower(s) {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if value := os.Getenv(key); value != "" {
		if n, err := strconv.Atoi(value); err == nil {
			return n
		}
	}
	return fallback
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return fallback
}
