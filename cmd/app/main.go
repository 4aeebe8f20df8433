package main

import (
	"context"
	"errors"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/sqs"
	"github.com/chris/remittance-ledger/pkg/accounts"
	"github.com/chris/remittance-ledger/pkg/api"
	"github.com/chris/remittance-ledger/pkg/config"
	"github.com/chris/remittance-ledger/pkg/engine"
	"github.com/chris/remittance-ledger/pkg/events"
	"github.com/chris/remittance-ledger/pkg/fee"
	"github.com/chris/remittance-ledger/pkg/handlers"
	"github.com/chris/remittance-ledger/pkg/handlers/respond"
	"github.com/chris/remittance-ledger/pkg/idempotency"
	dynamoguard "github.com/chris/remittance-ledger/pkg/idempotency/dynamodb"
	memguard "github.com/chris/remittance-ledger/pkg/idempotency/memory"
	redisguard "github.com/chris/remittance-ledger/pkg/idempotency/redis"
	"github.com/chris/remittance-ledger/pkg/limits"
	ledgermw "github.com/chris/remittance-ledger/pkg/middleware"
	"github.com/chris/remittance-ledger/pkg/storage"
	"github.com/chris/remittance-ledger/pkg/storage/memory"
	"github.com/chris/remittance-ledger/pkg/storage/postgres"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-redis/redis/v8"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load configuration: %v", err)
	}

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: cfg.LogLevel}))
	slog.SetDefault(logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Ledger store
	ledger, closeLedger, err := newLedger(ctx, cfg, logger)
	if err != nil {
		log.Fatalf("failed to initialise ledger store: %v", err)
	}
	defer closeLedger()

	guard, err := newGuard(ctx, cfg, logger)
	if err != nil {
		log.Fatalf("failed to initialise idempotency guard: %v", err)
	}

	publisher, err := newPublisher(ctx, cfg)
	if err != nil {
		log.Fatalf("failed to initialise event publisher: %v", err)
	}

	fees := fee.NewStandardEngine(cfg.Location)
	if err := fees.Validate(); err != nil {
		log.Fatalf("invalid fee policies: %v", err)
	}

	eng := engine.New(ledger, guard, fees, limits.NewTracker(cfg.Location), engine.Options{
		GuardTTL:  cfg.IdempotencyTTL,
		Publisher: publisher,
		Logger:    logger,
	})
	accountService := accounts.NewService(ledger, logger)

	handler := handlers.NewApiHandler(accountService, eng, accountService)

	router := chi.NewRouter()
	router.Use(middleware.RequestID)
	router.Use(ledgermw.NewStructuredLogger(logger))
	router.Use(middleware.Recoverer)
	router.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	api.HandlerFromMux(handler, router, respond.Error)

	server := &http.Server{Addr: ":" + cfg.HTTPPort, Handler: router}
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			logger.Error("graceful shutdown failed", "error", err)
		}
	}()

	logger.Info("Starting server", "port", cfg.HTTPPort, "ledger_store", cfg.LedgerStore, "idempotency_backend", cfg.IdempotencyBackend)
	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Fatalf("Failed to start server: %v", err)
	}
}

func newLedger(ctx context.Context, cfg *config.Config, logger *slog.Logger) (storage.Ledger, func(), error) {
	if cfg.LedgerStore == config.StoreMemory {
		logger.Warn("using the in-memory ledger store; balances are lost on restart")
		return memory.New(cfg.LockTimeout), func() {}, nil
	}

	pool, err := postgres.Connect(ctx, cfg.DatabaseURL)
	if err != nil {
		return nil, nil, err
	}
	store := postgres.New(pool, cfg.LockTimeout, logger)
	if err := store.Migrate(ctx); err != nil {
		pool.Close()
		return nil, nil, err
	}
	return store, pool.Close, nil
}

func newGuard(ctx context.Context, cfg *config.Config, logger *slog.Logger) (idempotency.Guard, error) {
	switch cfg.IdempotencyBackend {
	case config.BackendMemory:
		return memguard.New(), nil
	case config.BackendDynamoDB:
		awsCfg, err := awsconfig.LoadDefaultConfig(ctx)
		if err != nil {
			return nil, err
		}
		return dynamoguard.New(dynamodb.NewFromConfig(awsCfg), cfg.IdempotencyTable, logger), nil
	default:
		client := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
		if err := client.Ping(ctx).Err(); err != nil {
			return nil, err
		}
		return redisguard.New(client), nil
	}
}

func newPublisher(ctx context.Context, cfg *config.Config) (events.Publisher, error) {
	if cfg.SQSQueueURL == "" {
		return events.NoopPublisher{}, nil
	}
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx)
	if err != nil {
		return nil, err
	}
	return events.NewSQSPublisher(sqs.NewFromConfig(awsCfg), cfg.SQSQueueURL), nil
}
