// Package config reads service settings from the environment.
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/joho/godotenv"
)

// Ledger store kinds accepted in LEDGER_STORE.
const (
	StorePostgres = "postgres"
	StoreMemory   = "memory"
)

// Idempotency guard backends accepted in IDEMPOTENCY_BACKEND.
const (
	BackendRedis    = "redis"
	BackendDynamoDB = "dynamodb"
	BackendMemory   = "memory"
)

// ErrInvalidConfig wraps every validation failure returned by FromEnv.
var ErrInvalidConfig = errors.New("invalid configuration")

// Config holds everything cmd/app needs to wire the service.
type Config struct {
	HTTPPort string

	LedgerStore string
	DatabaseURL string
	LockTimeout time.Duration

	IdempotencyBackend string
	IdempotencyTTL     time.Duration
	RedisAddr          string
	IdempotencyTable   string

	// Location decides the limit date and the night fee window.
	Location *time.Location

	// SQSQueueURL is optional; empty disables event publishing.
	SQSQueueURL string

	LogLevel slog.Level
}

// Load reads a .env file when present and then the process environment.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		slog.Info("No .env file found, using environment variables")
	}
	return FromEnv(os.Getenv)
}

// FromEnv builds a Config from getenv and validates it.
func FromEnv(getenv func(string) string) (*Config, error) {
	get := func(key, def string) string {
		if v := getenv(key); v != "" {
			return v
		}
		return def
	}

	cfg := &Config{
		HTTPPort:           get("HTTP_PORT", "8080"),
		LedgerStore:        get("LEDGER_STORE", StorePostgres),
		DatabaseURL:        getenv("DATABASE_URL"),
		IdempotencyBackend: get("IDEMPOTENCY_BACKEND", BackendRedis),
		RedisAddr:          get("REDIS_ADDR", "localhost:6379"),
		IdempotencyTable:   getenv("DYNAMODB_IDEMPOTENCY_TABLE_NAME"),
		SQSQueueURL:        getenv("SQS_QUEUE_URL"),
	}

	var errs []error
	var err error
	if cfg.LockTimeout, err = time.ParseDuration(get("LOCK_TIMEOUT", "5s")); err != nil {
		errs = append(errs, fmt.Errorf("LOCK_TIMEOUT: %w", err))
	}
	if cfg.IdempotencyTTL, err = time.ParseDuration(get("IDEMPOTENCY_TTL", "1s")); err != nil {
		errs = append(errs, fmt.Errorf("IDEMPOTENCY_TTL: %w", err))
	}
	if cfg.Location, err = time.LoadLocation(get("LEDGER_TIMEZONE", "Asia/Seoul")); err != nil {
		errs = append(errs, fmt.Errorf("LEDGER_TIMEZONE: %w", err))
	}
	if err := cfg.LogLevel.UnmarshalText([]byte(get("LOG_LEVEL", "INFO"))); err != nil {
		errs = append(errs, fmt.Errorf("LOG_LEVEL: %w", err))
	}

	switch cfg.LedgerStore {
	case StorePostgres:
		if cfg.DatabaseURL == "" {
			errs = append(errs, errors.New("DATABASE_URL is required for the postgres ledger store"))
		}
	case StoreMemory:
	default:
		errs = append(errs, fmt.Errorf("LEDGER_STORE %q is not one of postgres, memory", cfg.LedgerStore))
	}

	switch cfg.IdempotencyBackend {
	case BackendRedis, BackendMemory:
	case BackendDynamoDB:
		if cfg.IdempotencyTable == "" {
			errs = append(errs, errors.New("DYNAMODB_IDEMPOTENCY_TABLE_NAME is required for the dynamodb backend"))
		}
	default:
		errs = append(errs, fmt.Errorf("IDEMPOTENCY_BACKEND %q is not one of redis, dynamodb, memory", cfg.IdempotencyBackend))
	}

	if cfg.LockTimeout <= 0 || cfg.IdempotencyTTL <= 0 {
		errs = append(errs, errors.New("LOCK_TIMEOUT and IDEMPOTENCY_TTL must be positive"))
	}

	if len(errs) > 0 {
		return nil, fmt.Errorf("%w: %w", ErrInvalidConfig, errors.Join(errs...))
	}
	return cfg, nil
}
