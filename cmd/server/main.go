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

	"github.com/jonboulle/clockwork"
	"github.com/prometheus/client_golang/prometheus"
	goredis "github.com/redis/go-redis/v9"

	"github.com/DinuthRashmika/waste-collector/internal/adapter/collection"
	"github.com/DinuthRashmika/waste-collector/internal/adapter/httpserver"
	"github.com/DinuthRashmika/waste-collector/internal/adapter/memory"
	"github.com/DinuthRashmika/waste-collector/internal/adapter/metrics"
	"github.com/DinuthRashmika/waste-collector/internal/adapter/redis"
	"github.com/DinuthRashmika/waste-collector/internal/app"
	"github.com/DinuthRashmika/waste-collector/internal/domain"
	"github.com/DinuthRashmika/waste-collector/internal/platform/config"
	"github.com/DinuthRashmika/waste-collector/internal/platform/crypto"
	"github.com/DinuthRashmika/waste-collector/internal/platform/logging"
	"github.com/DinuthRashmika/waste-collector/internal/platform/version"
)

const viewEvictionInterval = time.Minute

func runGracefulShutdown(srv *httpserver.Server, stopEviction func()) <-chan struct{} {
	done := make(chan struct{})
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	go func() {
		<-sigChan
		slog.Info("Shutdown signal received, cleaning up...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			slog.Error("Server shutdown error", "error", err)
		}

		stopEviction()
		close(done)
	}()

	return done
}

func setupConfig() *config.Config {
	cfg, err := config.Load()
	if err != nil {
		// Use log before slog is initialized
		log.Fatalf("Failed to load config: %v", err)
	}
	return cfg
}

func setupCrypto(cfg *config.Config) crypto.Service {
	if cfg.TokenEncryptionKey == "" {
		slog.Warn("TOKEN_ENCRYPTION_KEY not set, bearer tokens are stored unencrypted")
		return crypto.NoopService{}
	}
	svc, err := crypto.NewAesGcmCryptoService(cfg.TokenEncryptionKey)
	if err != nil {
		slog.Error("Failed to create crypto service", "error", err)
		os.Exit(1)
	}
	return svc
}

func setupRedis(ctx context.Context, cfg *config.Config, reg prometheus.Registerer) *goredis.Client {
	breaker := redis.NewCircuitBreakerHook(redis.DefaultBreakerSettings(), metrics.NewBreakerMetrics(reg))
	client, err := redis.NewClient(ctx, cfg.RedisURL, redis.NewMetricsHook(metrics.NewRedisMetrics(reg)), breaker)
	if err != nil {
		slog.Error("Failed to connect to Redis", "error", err)
		os.Exit(1)
	}
	return client
}

func main() {
	clock := clockwork.NewRealClock()

	cfg := setupConfig()

	// Initialize structured logging
	logging.InitLogger(cfg.LogLevel, cfg.LogFormat)
	slog.Info("Application starting", "env", cfg.AppEnv, "port", cfg.Port, "version", version.Get().String())

	registry := metrics.NewRegistry()

	// Token storage: Redis when configured, process memory otherwise
	var (
		store        domain.SessionStore
		healthChecks []httpserver.HealthCheck
	)
	if cfg.RedisURL != "" {
		redisClient := setupRedis(context.Background(), cfg, registry)
		defer func() { _ = redisClient.Close() }()

		store = redis.NewSessionStore(redisClient, setupCrypto(cfg), cfg.SessionMaxAge)
		healthChecks = append(healthChecks, httpserver.HealthCheck{
			Name:  "redis",
			Check: func(ctx context.Context) error { return redisClient.Ping(ctx).Err() },
		})
	} else {
		slog.Warn("REDIS_URL not set, sessions are kept in memory and lost on restart")
		store = memory.NewSessionStore()
	}

	backend := collection.NewClient(cfg.BackendURL, cfg.BackendTimeout, metrics.NewBackendMetrics(registry))
	healthChecks = append(healthChecks, httpserver.HealthCheck{
		Name:          "collection_backend",
		Check:         backend.Reachable,
		ReadinessOnly: true,
	})

	views := app.NewViews(backend, store, clock, cfg.ViewTTL, metrics.NewViewMetrics(registry))
	stopEviction := views.StartEvictionTimer(viewEvictionInterval)

	srv, err := httpserver.NewServer(cfg, views, store, registry, healthChecks)
	if err != nil {
		slog.Error("Failed to create server", "error", err)
		os.Exit(1)
	}

	done := runGracefulShutdown(srv, stopEviction)

	slog.Info("Server starting", "port", cfg.Port, "backend", cfg.BackendURL)
	if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		slog.Error("Server error", "error", err)
		os.Exit(1)
	}

	<-done
}
