package main

import (
	"context"
	"log/slog"
	"os"
	"strconv"

	"farmgate/internal/auth"
	"farmgate/internal/cache"
	"farmgate/internal/events"
	"farmgate/internal/storage"
	"farmgate/internal/telemetry"

	"github.com/jackc/pgx/v5/pgxpool"
)

func main() {
	// JSON logs with trace/span IDs stamped on every line.
	baseHandler := slog.NewJSONHandler(os.Stdout, nil)
	logger := slog.New(telemetry.NewTraceHandler(baseHandler))
	slog.SetDefault(logger)

	if otelEndpoint := os.Getenv("OTEL_EXPORTER_OTLP_ENDPOINT"); otelEndpoint != "" {
		shutdown, err := telemetry.InitTracer("farmgate-api", otelEndpoint)
		if err != nil {
			slog.Error("Failed to initialize tracer", "error", err)
			os.Exit(1)
		}
		defer shutdown(context.Background())
	}

	config := config{
		events:         events.NewEventConfig(),
		frontend:       os.Getenv("DOMAIN_NAME"),
		addr:           ":" + os.Getenv("API_PORT"),
		publicFilesURL: os.Getenv("PUBLIC_FILES_URL"),
	}

	poolSize, _ := strconv.Atoi(os.Getenv("REDIS_POOL_SIZE"))
	minIdleConns, _ := strconv.Atoi(os.Getenv("REDIS_MIN_IDLE_CONNS"))

	cacheCfg := cache.Config{
		Addr:         os.Getenv("REDIS_ADDR"),
		Password:     os.Getenv("REDIS_PASSWORD"),
		DB:           0,
		PoolSize:     poolSize,
		MinIdleConns: minIdleConns,
	}
	slog.Info("Connecting to Redis cache", "addr", cacheCfg.Addr)
	rdb, err := cache.NewRedisClient(cacheCfg)
	if err != nil {
		slog.Error("Failed to connect to Redis", "error", err)
		os.Exit(1)
	}

	dsn := os.Getenv("DB_DSN")
	slog.Info("Connecting to database")
	conn, err := pgxpool.New(context.Background(), dsn)
	if err != nil {
		slog.Error("Failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer conn.Close()

	slog.Info("Connecting to object storage", "endpoint", os.Getenv("S3_ENDPOINT"))
	provider, err := storage.NewMinioProvider(
		os.Getenv("S3_ENDPOINT"),
		os.Getenv("S3_ACCESS_KEY_ID"),
		os.Getenv("S3_SECRET_ACCESS_KEY"),
		os.Getenv("S3_USE_SSL") == "true",
	)
	if err != nil {
		slog.Error("Failed to initialize MinIO provider", "error", err)
		os.Exit(1)
	}

	slog.Info("Connecting to event bus", "endpoint", os.Getenv("NATS_ENDPOINT"))
	eventBus, err := events.NewNATSBus(os.Getenv("NATS_ENDPOINT"), "farmgate-api", logger)
	if err != nil {
		slog.Error("Failed to initialize event bus", "error", err)
		os.Exit(1)
	}

	authURL := os.Getenv("AUTHORIZATION_URL")
	slog.Info("Connecting to authorization service", "url", authURL)
	authenticator, err := auth.NewAuthenticator(context.Background(), authURL, os.Getenv("AUTHORIZATION_CLIENT_ID"))
	if err != nil {
		slog.Error("Failed to initialize authenticator", "error", err)
		os.Exit(1)
	}

	app := &application{
		conn:          conn,
		config:        config,
		authenticator: authenticator,
		eventBus:      eventBus,
		storage:       provider,
		logger:        logger,
		cache:         rdb,
	}

	if err := app.run(app.mount()); err != nil {
		slog.Error("Failed to start server", "error", err)
		os.Exit(1)
	}
}
