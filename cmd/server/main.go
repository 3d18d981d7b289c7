package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/storefront/backend/internal/application/store"
	"github.com/storefront/backend/internal/domain/cart"
	"github.com/storefront/backend/internal/infrastructure/cache"
	catalogclient "github.com/storefront/backend/internal/infrastructure/catalog"
	"github.com/storefront/backend/internal/infrastructure/config"
	"github.com/storefront/backend/internal/infrastructure/event"
	"github.com/storefront/backend/internal/infrastructure/logger"
	"github.com/storefront/backend/internal/infrastructure/telemetry"
	"github.com/storefront/backend/internal/interfaces/http/handler"
	"github.com/storefront/backend/internal/interfaces/http/middleware"
	"github.com/storefront/backend/internal/interfaces/http/router"
	"go.uber.org/zap"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("Failed to load configuration: " + err.Error())
	}

	log, err := logger.New(&logger.Config{
		Level:      cfg.Log.Level,
		Format:     cfg.Log.Format,
		Output:     cfg.Log.Output,
		TimeFormat: "2006-01-02T15:04:05.000Z07:00",
	})
	if err != nil {
		panic("Failed to initialize logger: " + err.Error())
	}
	defer func() {
		_ = log.Sync()
	}()

	log.Info("Starting storefront",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Env),
		zap.String("port", cfg.App.Port),
		zap.String("storage_driver", cfg.Storage.Driver),
	)

	ctx := context.Background()

	tracerProvider, err := telemetry.NewTracerProvider(ctx, cfg.Telemetry, log)
	if err != nil {
		log.Fatal("Failed to initialize tracer provider", zap.Error(err))
	}
	meterProvider, err := telemetry.NewMeterProvider(ctx, cfg.Telemetry, log)
	if err != nil {
		log.Fatal("Failed to initialize meter provider", zap.Error(err))
	}

	snapshots, err := cache.NewSnapshotStoreFactory(cfg.Storage, cache.WithLogger(log)).CreateStore(ctx)
	if err != nil {
		log.Fatal("Failed to open snapshot store", zap.Error(err))
	}

	addMode, err := cart.ParseAddMode(cfg.Cart.AddMode)
	if err != nil {
		log.Fatal("Invalid cart add mode", zap.Error(err))
	}

	eventBus := event.NewInMemoryEventBus(log)
	registry := store.NewRegistry(snapshots, eventBus, store.RegistryConfig{
		AddMode:     addMode,
		TaxRate:     cfg.Cart.TaxRate,
		KeyPrefix:   cfg.Cart.KeyPrefix,
		MaxSessions: cfg.Cart.MaxSessions,
	}, log)

	meter := meterProvider.Meter(cfg.Telemetry.ServiceName)
	storeMetrics, err := telemetry.NewStoreMetrics(meter, registry)
	if err != nil {
		log.Fatal("Failed to register store metrics", zap.Error(err))
	}
	eventBus.Subscribe(event.NewActivityLogHandler(log))
	eventBus.Subscribe(storeMetrics)

	products, err := catalogclient.NewClient(catalogclient.Config{
		BaseURL:  cfg.Catalog.BaseURL,
		PageSize: cfg.Catalog.PageSize,
		Timeout:  cfg.Catalog.Timeout,
	}, catalogclient.WithLogger(log), catalogclient.WithMeter(meter))
	if err != nil {
		log.Fatal("Invalid catalog configuration", zap.Error(err))
	}

	var limiter *middleware.RateLimiter
	if cfg.HTTP.RateLimitEnabled {
		limiter = middleware.NewRateLimiter(cfg.HTTP.RateLimitRequests, cfg.HTTP.RateLimitWindow)
		defer limiter.Close()
	}

	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	engine, err := router.NewEngine(router.EngineOptions{
		HTTP:        cfg.HTTP,
		ServiceName: cfg.Telemetry.ServiceName,
		Tracing:     tracerProvider.IsEnabled(),
		RateLimiter: limiter,
	}, log, router.Handlers{
		Health:  handler.NewHealthHandler(snapshots, cfg.Storage.Driver),
		Catalog: handler.NewCatalogHandler(products),
		Counter: handler.NewCounterHandler(store.NewCounterService(registry)),
		Cart:    handler.NewCartHandler(store.NewCartService(registry, products)),
	})
	if err != nil {
		log.Fatal("Failed to build HTTP engine", zap.Error(err))
	}

	srv := &http.Server{
		Addr:           ":" + cfg.App.Port,
		Handler:        engine,
		ReadTimeout:    cfg.HTTP.ReadTimeout,
		WriteTimeout:   cfg.HTTP.WriteTimeout,
		IdleTimeout:    cfg.HTTP.IdleTimeout,
		MaxHeaderBytes: cfg.HTTP.MaxHeaderBytes,
	}

	go func() {
		log.Info("Server starting", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("Server forced to shutdown", zap.Error(err))
	}
	if err := snapshots.Close(); err != nil {
		log.Error("Error closing snapshot store", zap.Error(err))
	}
	if err := meterProvider.Shutdown(shutdownCtx); err != nil {
		log.Error("Error shutting down meter provider", zap.Error(err))
	}
	if err := tracerProvider.Shutdown(shutdownCtx); err != nil {
		log.Error("Error shutting down tracer provider", zap.Error(err))
	}

	log.Info("Server exited gracefully")
}
