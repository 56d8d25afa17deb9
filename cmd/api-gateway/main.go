// Package main is the entry point for the catalog shipping service.
// It exposes the product shipping options of the catalog over HTTP.
//
// 12-Factor App compilance:
//   - I. Codebase: Single codebase tracked in version control
//   - II. Dependencies: Managed via go.mod
//   - III. Config: Configuration via environment variables
//   - IV. Backing services: PostgreSQL and Redis attached via URLs
//   - VI. Processes: Stateless processes
//   - VII. Port Binding: Self-contained HTTP server
//   - IX. Disposability: Graceful shutdown
//   - XI. Logs: Structured logging to stdout
//
// Usage:
//
//	go run cmd/api-gateway/main.go
//
// Environment Variables:
//
//	OPS_ENVIRONMENT     - Deployment environment (development, staging, production)
//	OPS_SERVER_PORT     - HTTP server port (default: 8080)
//	OPS_DATABASE_DRIVER - Product store: postgres or memory (default: memory)
//	OPS_DATABASE_URL    - PostgreSQL connection string (also read from DATABASE_URL)
//	OPS_REDIS_ENABLED   - Enables the Redis product cache
package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/hapkiduki/catalog-go/internal/application/handler"
	"github.com/hapkiduki/catalog-go/internal/application/port"
	"github.com/hapkiduki/catalog-go/internal/domain/repository"
	"github.com/hapkiduki/catalog-go/internal/domain/valueobject"
	"github.com/hapkiduki/catalog-go/internal/infrastructure/cache/redis"
	"github.com/hapkiduki/catalog-go/internal/infrastructure/config"
	"github.com/hapkiduki/catalog-go/internal/infrastructure/metrics"
	"github.com/hapkiduki/catalog-go/internal/infrastructure/persistance/memory"
	"github.com/hapkiduki/catalog-go/internal/infrastructure/persistance/postgres"
	"github.com/hapkiduki/catalog-go/internal/infrastructure/persistance/postgres/migrations"
	"github.com/hapkiduki/catalog-go/internal/interfaces/http/middleware"
	"github.com/hapkiduki/catalog-go/internal/interfaces/http/rest"
	"github.com/hapkiduki/catalog-go/pkg/logger"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	goredis "github.com/redis/go-redis/v9"
)

// version is set at build time via ldflags
var version = "dev"

func main() {
	// Load configuration
	cfg := config.MustLoad()

	// Initialize logger
	log := logger.MustNew(logger.Config{
		Level:       cfg.Log.Level,
		Format:      cfg.Log.Format,
		Development: cfg.App.Environment == "development",
	})
	defer log.Sync()

	log.Info("Starting Catalog Shipping Service",
		"version", version,
		"environment", cfg.App.Environment,
		"database_driver", cfg.Database.Driver,
	)

	// Create context that listens for shutdowns signals
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Create a logger adapter that implements port.Logger
	logAdapter := &loggerAdapter{log}

	// Metrics
	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	appMetrics := metrics.NewPrometheus(registry, "catalog")

	// ============================================================================
	// Persistence
	// ============================================================================

	checks := make(map[string]rest.Pinger)

	products, carriers, closeStore, err := openStore(ctx, cfg, logAdapter)
	if err != nil {
		log.Fatal("Failed to open product store", "error", err)
	}
	defer closeStore()
	checks["database"] = products

	if cfg.Redis.Enabled {
		client := goredis.NewClient(&goredis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		defer client.Close()

		cached := redis.NewProductRepository(products, client, cfg.Redis.TTL, &loggerAdapter{log.Named("product_cache")}, appMetrics)
		checks["redis"] = pingerFunc(cached.PingCache)
		products = cached
		log.Info("Product cache enabled", "addr", cfg.Redis.Addr, "ttl", cfg.Redis.TTL.String())
	}

	// ============================================================================
	// Application
	// ============================================================================

	shipping := rest.NewShippingHandler(
		handler.NewUpdateProductShippingHandler(products, carriers, logAdapter, appMetrics),
		handler.NewGetProductShippingHandler(products),
		logAdapter,
	)

	router := rest.NewRouter(rest.RouterConfig{
		Version:            version,
		CORSAllowedOrigins: cfg.Server.CORSAllowedOrigins,
		RequestTimeout:     cfg.Server.RequestTimeout,
		RateLimit: middleware.RateLimiterConfig{
			RequestedPerSecond: cfg.RateLimit.RequestsPerSecond,
			Burst:              cfg.RateLimit.Burst,
		},
		Logger:         logAdapter,
		Metrics:        appMetrics,
		MetricsHandler: promhttp.HandlerFor(registry, promhttp.HandlerOpts{Registry: registry}),
		Health:         rest.NewHealthHandler(version, checks),
		Shipping:       shipping,
	})

	// ============================================================================
	// HTTP server
	// ============================================================================

	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	server := &http.Server{
		Addr:         addr,
		Handler:      http.MaxBytesHandler(router, cfg.Server.MaxRequestSize),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	// Start server in a goroutine
	go func() {
		log.Info("HTTP server starting", "address", addr)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("HTTP server failed", "error", err)
		}
	}()

	// Wait for interrupt signal
	<-ctx.Done()

	log.Info("Shutdown signal received")

	// Create sutdown context with timeout
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	// Graceful shutdown
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error("Server forced to shutdown", "error", err)
	}
	log.Info("Server shutdown complete")
}

// openStore builds the product and carrier repositories for the configured driver.
// The returned func releases the underlying resources.
func openStore(ctx context.Context, cfg *config.Config, log port.Logger) (repository.ProductRepository, repository.CarrierRepository, func(), error) {
	seed, err := valueobject.CarrierReferencesFromInts(cfg.Database.SeedCarriers)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("database.seed_carriers: %w", err)
	}

	if cfg.Database.Driver == config.DriverMemory {
		log.Warn("Using in-memory product store, data is lost on restart")
		return memory.NewProductRepository(), memory.NewCarrierRepository(seed...), func() {}, nil
	}

	poolCfg, err := pgxpool.ParseConfig(cfg.Database.URL)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("parse database url: %w", err)
	}
	if cfg.Database.MaxConns > 0 {
		poolCfg.MaxConns = cfg.Database.MaxConns
	}

	connectCtx, cancel := context.WithTimeout(ctx, cfg.Database.ConnectTimeout)
	defer cancel()

	pool, err := pgxpool.NewWithConfig(connectCtx, poolCfg)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("create pool: %w", err)
	}
	if err := pool.Ping(connectCtx); err != nil {
		pool.Close()
		return nil, nil, nil, fmt.Errorf("%w: %v", repository.ErrConnectionFailed, err)
	}

	if cfg.Database.MigrateOnStart {
		if err := migrations.Apply(connectCtx, pool); err != nil {
			pool.Close()
			return nil, nil, nil, fmt.Errorf("apply migrations: %w", err)
		}
		log.Info("Database migrations applied")
	}

	carriers := postgres.NewCarrierRepository(pool)
	if err := carriers.Ensure(connectCtx, seed...); err != nil {
		pool.Close()
		return nil, nil, nil, fmt.Errorf("seed carriers: %w", err)
	}

	return postgres.NewProductRepository(pool), carriers, pool.Close, nil
}

// pingerFunc adapts a function to rest.Pinger.
type pingerFunc func(ctx context.Context) error

// Ping implements rest.Pinger.
func (f pingerFunc) Ping(ctx context.Context) error { return f(ctx) }

// ============================================================================
// Adapters to implement port interfaces
// ============================================================================

// loggerAdapter adapts the logger.Logger to the port.Logger interface.
type loggerAdapter struct {
	*logger.Logger
}

// Debug implements port.Logger.
func (l *loggerAdapter) Debug(msg string, keysAndValues ...any) {
	l.Logger.Debug(msg, keysAndValues...)
}

// Info implements port.Logger.
func (l *loggerAdapter) Info(msg string, keysAndValues ...any) {
	l.Logger.Info(msg, keysAndValues...)
}

// Warn implements port.Logger.
func (l *loggerAdapter) Warn(msg string, keysAndValues ...any) {
	l.Logger.Warn(msg, keysAndValues...)
}

// Error implements port.Logger.
func (l *loggerAdapter) Error(msg string, keysAndValues ...any) {
	l.Logger.Error(msg, keysAndValues...)
}

// With implements port.Logger.
func (l *loggerAdapter) With(keysAndValues ...any) port.Logger {
	return &loggerAdapter{l.Logger.With(keysAndValues...)}
}

// WithContext implements port.Logger.
func (l *loggerAdapter) WithContext(ctx context.Context) port.Logger {
	return &loggerAdapter{l.Logger.WithContext(ctx)}
}
