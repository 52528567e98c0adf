package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all application configuration loaded from environment variables.
// It is the single source of truth for runtime parameters.
type Config struct {
	Port      string
	Env       string
	JWTSecret string

	DB    DatabaseConfig
	Redis RedisConfig
	Sync  SyncConfig
	Fees  FeeConfig
}

// DatabaseConfig contains PostgreSQL connection parameters.
type DatabaseConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	Name     string
	SSLMode  string
}

// RedisConfig contains Redis connection parameters.
type RedisConfig struct {
	Host     string
	Port     string
	Password string
	DB       int
}

// SyncConfig controls the snapshot orchestrator.
type SyncConfig struct {
	// RefreshInterval is how often the background worker rebuilds the snapshot.
	RefreshInterval time.Duration
	// PaymentWindow caps how many recent payments a refresh pulls in.
	PaymentWindow int
	// FetchTimeout bounds a single refresh call.
	FetchTimeout time.Duration
}

// FeeConfig carries fallback values used when the settings table has no row yet.
type FeeConfig struct {
	RegistrationFee float64
	BoxValue        float64
}

// Load reads configuration from environment variables. If a .env file exists
// in the working directory, it will be loaded first. It returns a populated
// Config or an error with a human-friendly message.
func Load() (*Config, error) {
	// Load .env if present; ignore error if file is missing so that production
	// environments relying solely on real environment variables keep working.
	_ = godotenv.Load()

	cfg := &Config{}

	// Server
	cfg.Port = getEnv("PORT", "8080")
	cfg.Env = getEnv("ENV", "development")
	cfg.JWTSecret = getEnv("JWT_SECRET", "")

	// Database
	cfg.DB = DatabaseConfig{
		Host:     getEnv("DB_HOST", ""),
		Port:     getEnv("DB_PORT", "5432"),
		User:     getEnv("DB_USER", ""),
		Password: getEnv("DB_PASSWORD", ""),
		Name:     getEnv("DB_NAME", ""),
		SSLMode:  getEnv("DB_SSLMODE", "disable"),
	}

	// Redis
	cfg.Redis = RedisConfig{
		Host:     getEnv("REDIS_HOST", "redis"),
		Port:     getEnv("REDIS_PORT", "6379"),
		Password: getEnv("REDIS_PASSWORD", ""),
		DB:       getEnvInt("REDIS_DB", 0),
	}

	// Snapshot sync
	var err error
	if cfg.Sync.RefreshInterval, err = parseDurationEnv("SYNC_REFRESH_INTERVAL", "5m"); err != nil {
		return nil, fmt.Errorf("invalid SYNC_REFRESH_INTERVAL: %w", err)
	}
	if cfg.Sync.FetchTimeout, err = parseDurationEnv("SYNC_FETCH_TIMEOUT", "30s"); err != nil {
		return nil, fmt.Errorf("invalid SYNC_FETCH_TIMEOUT: %w", err)
	}
	cfg.Sync.PaymentWindow = getEnvInt("SYNC_PAYMENT_WINDOW", 500)
	if cfg.Sync.PaymentWindow <= 0 {
		return nil, errors.New("SYNC_PAYMENT_WINDOW must be positive")
	}

	// Fallback fee values, used until an admin saves settings.
	cfg.Fees = FeeConfig{
		RegistrationFee: getEnvFloat("DEFAULT_REGISTRATION_FEE", 50),
		BoxValue:        getEnvFloat("DEFAULT_BOX_VALUE", 10),
	}

	// Basic validation for DB parameters — keeps messages concise and helpful.
	if cfg.DB.Host == "" || cfg.DB.User == "" || cfg.DB.Name == "" {
		return nil, errors.New("database configuration incomplete: ensure DB_HOST, DB_USER, and DB_NAME are set")
	}

	// Validate JWT_SECRET
	if cfg.JWTSecret == "" {
		return nil, errors.New("JWT_SECRET must be set for authentication")
	}

	return cfg, nil
}

// getEnv returns the value of an environment variable or a default if empty.
func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

// getEnvInt returns the value of an environment variable as an integer or a default if empty/invalid.
func getEnvInt(key string, def int) int {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	i, err := strconv.Atoi(v)
	if err != nil {
		return def
	}
	return i
}

// getEnvFloat returns the value of an environment variable as a float or a default if empty/invalid.
func getEnvFloat(key string, def float64) float64 {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return def
	}
	return f
}

// parseDurationEnv reads an environment variable and parses it as time.Duration.
// If the variable is empty, it falls back to the provided default value.
func parseDurationEnv(key, def string) (time.Duration, error) {
	raw := getEnv(key, def)
	d, err := time.ParseDuration(raw)
	if err != nil {
		return 0, err
	}
	if d < 0 {
		return 0, fmt.Errorf("duration must be >= 0")
	}
	return d, nil
}
