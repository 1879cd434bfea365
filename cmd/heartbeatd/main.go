package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/velomax/partner-client/internal/heartbeat"
	"github.com/velomax/partner-client/internal/partnerapi"
	"github.com/velomax/partner-client/pkg/config"
	"github.com/velomax/partner-client/pkg/enums"
	"github.com/velomax/partner-client/pkg/logger"
	"github.com/velomax/partner-client/pkg/metrics"
	"github.com/velomax/partner-client/pkg/redis"
	"github.com/velomax/partner-client/pkg/retry"
	"github.com/velomax/partner-client/pkg/session"
	"github.com/velomax/partner-client/pkg/store"
)

func main() {
	logg := logger.New(logger.Options{ServiceName: "heartbeatd"})

	if err := godotenv.Load(); err != nil {
		logg.Warn(context.Background(), ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	if err != nil {
		logg.Error(context.Background(), "failed to load config", err)
		os.Exit(1)
	}

	logg = logger.New(logger.Options{
		ServiceName: "heartbeatd",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	sessionStore, closeStore, err := buildStore(ctx, cfg)
	if err != nil {
		logg.Error(ctx, "failed to open session store", err)
		os.Exit(1)
	}
	defer closeStore()

	sess := session.New(sessionStore, logg)

	registry := prometheus.NewRegistry()
	apiMetrics := metrics.NewAPIMetrics(registry)
	heartbeatMetrics := metrics.NewHeartbeatMetrics(registry)

	client, err := partnerapi.New(cfg.API.BaseURL, sess,
		partnerapi.WithHTTPClient(&http.Client{Timeout: cfg.API.Timeout}),
		partnerapi.WithRetryPolicy(retry.Policy{
			MaxAttempts: cfg.Retry.MaxAttempts,
			BaseDelay:   cfg.Retry.BaseDelay,
		}),
		partnerapi.WithMetrics(apiMetrics),
		partnerapi.WithLogger(logg),
	)
	if err != nil {
		logg.Error(ctx, "failed to create api client", err)
		os.Exit(1)
	}

	status, err := enums.ParseAvailabilityStatus(cfg.Heartbeat.Status)
	if err != nil {
		logg.Error(ctx, "invalid heartbeat status", err)
		os.Exit(1)
	}

	service, err := heartbeat.NewService(heartbeat.ServiceParams{
		Logger:   logg,
		Updater:  client,
		Session:  sess,
		Metrics:  heartbeatMetrics,
		Interval: cfg.Heartbeat.Interval,
		Status:   status,
	})
	if err != nil {
		logg.Error(ctx, "failed to create heartbeat service", err)
		os.Exit(1)
	}

	router := chi.NewRouter()
	router.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	router.Handle("/metrics", promhttp.HandlerFor(registry, promhttp.HandlerOpts{}))

	server := &http.Server{
		Addr:    cfg.Heartbeat.ListenAddr,
		Handler: router,
	}
	go func() {
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logg.Error(ctx, "metrics server stopped unexpectedly", err)
		}
	}()

	ctx = logg.WithFields(ctx, map[string]any{
		"env":      cfg.App.Env,
		"addr":     cfg.Heartbeat.ListenAddr,
		"interval": cfg.Heartbeat.Interval.String(),
	})
	logg.Info(ctx, "starting heartbeat daemon")

	if err := service.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		logg.Error(ctx, "heartbeat daemon stopped unexpectedly", err)
		os.Exit(1)
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logg.Error(shutdownCtx, "error shutting down metrics server", err)
	}
	logg.Info(context.Background(), "heartbeat daemon shutting down gracefully")
}

func buildStore(ctx context.Context, cfg *config.Config) (store.Store, func(), error) {
	switch cfg.Store.Backend {
	case config.StoreBackendRedis:
		client, err := redis.New(ctx, cfg.Redis)
		if err != nil {
			return nil, nil, err
		}
		return store.NewRedis(client), func() { _ = client.Close() }, nil
	case config.StoreBackendMemory:
		return store.NewMemory(), func() {}, nil
	default:
		fileStore, err := store.NewFile(cfg.Store.Path)
		if err != nil {
			return nil, nil, err
		}
		return fileStore, func() {}, nil
	}
}
