package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"farmgate/internal/database/postgresql"
	"farmgate/internal/events"
	"farmgate/internal/indexing"

	"github.com/jackc/pgx/v5/pgxpool"
)

type Config struct {
	Env            string
	Port           string
	DatabaseURL    string
	NatsURL        string
	TypesenseURL   string
	TypesenseKey   string
	PublicFilesURL string
	EventsConfig   *events.EventConfig
}

func main() {
	handler := slog.NewJSONHandler(os.Stdout, nil)
	logger := slog.New(handler)
	slog.SetDefault(logger)

	if err := run(logger); err != nil {
		slog.Error("Application terminated with error", "error", err)
		os.Exit(1)
	}
}

func run(logger *slog.Logger) error {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	cfg := loadConfig()
	logger.Info("Starting index worker", "env", cfg.Env)

	dbPool, err := pgxpool.New(ctx, cfg.DatabaseURL)
	if err != nil {
		return fmt.Errorf("failed to connect to db: %w", err)
	}
	defer dbPool.Close()

	if err := dbPool.Ping(ctx); err != nil {
		return fmt.Errorf("failed to ping db: %w", err)
	}

	bus, err := events.NewNATSBus(cfg.NatsURL, "farmgate-worker", logger)
	if err != nil {
		return fmt.Errorf("failed to connect to nats: %w", err)
	}

	indexer := indexing.NewClient(cfg.TypesenseKey, cfg.TypesenseURL)

	// Create the listings collection on first boot; a no-op afterwards.
	if err := indexer.EnsureCollection(ctx); err != nil {
		return fmt.Errorf("failed to ensure search collection: %w", err)
	}

	queries := postgresql.New(dbPool)
	svc := indexing.NewService(indexer, queries, logger, cfg.PublicFilesURL)

	reader := events.NewEventReader(bus, cfg.EventsConfig, logger)

	err = reader.SubscribeToIndexListingEvents(func(evt events.IndexListingEvent) error {
		return svc.IndexListing(context.Background(), evt.ListingID)
	})
	if err != nil {
		return fmt.Errorf("failed to subscribe to index events: %w", err)
	}

	err = reader.SubscribeToDeleteListingEvents(func(evt events.DeleteListingEvent) error {
		return svc.DeleteListing(context.Background(), evt.ListingID)
	})
	if err != nil {
		return fmt.Errorf("failed to subscribe to delete events: %w", err)
	}

	logger.Info("Worker is running and listening for events...")

	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: healthHandler(dbPool, indexer),
	}

	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("Health server failed", "error", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	sig := <-quit
	logger.Info("Shutting down worker...", "signal", sig.String())

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("Health server shutdown error", "error", err)
	}

	// Drain first so in-flight index jobs finish before the DB goes away.
	if err := bus.Drain(); err != nil {
		logger.Error("NATS drain error", "error", err)
	}

	dbPool.Close()

	logger.Info("Shutdown complete.")
	return nil
}

func loadConfig() Config {
	get := func(key, fallback string) string {
		if v := os.Getenv(key); v != "" {
			return v
		}
		return fallback
	}

	return Config{
		Env:            get("INDEX_WORKER_ENV", "production"),
		Port:           get("INDEX_WORKER_PORT", "8081"),
		DatabaseURL:    os.Getenv("DATABASE_URL"),
		NatsURL:        os.Getenv("NATS_URL"),
		TypesenseURL:   os.Getenv("TYPESENSE_URL"),
		TypesenseKey:   os.Getenv("TYPESENSE_API_KEY"),
		PublicFilesURL: os.Getenv("PUBLIC_FILES_URL"),
		EventsConfig:   events.NewEventConfig(),
	}
}

// healthHandler exposes a readiness probe covering the worker's two hard
// dependencies.
func healthHandler(db *pgxpool.Pool, indexer indexing.Indexer) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()

		if err := db.Ping(ctx); err != nil {
			http.Error(w, "Database unavailable", http.StatusServiceUnavailable)
			return
		}

		if err := indexer.HealthCheck(ctx); err != nil {
			http.Error(w, "Search engine unavailable", http.StatusServiceUnavailable)
			return
		}

		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	}
}
