package main

import (
	"context"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/jwebster45206/wild-trails/internal/config"
	"github.com/jwebster45206/wild-trails/internal/handlers"
	"github.com/jwebster45206/wild-trails/internal/logger"
	"github.com/jwebster45206/wild-trails/internal/metrics"
	"github.com/jwebster45206/wild-trails/internal/middleware"
	"github.com/jwebster45206/wild-trails/internal/services"
	"github.com/jwebster45206/wild-trails/pkg/content"
	"github.com/jwebster45206/wild-trails/pkg/engine"
	"github.com/jwebster45206/wild-trails/pkg/game"
	"github.com/jwebster45206/wild-trails/pkg/persistence"
	"github.com/jwebster45206/wild-trails/pkg/storage"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}

	log := logger.Setup(cfg)

	log.Info("Starting Wild Trails API",
		"port", cfg.Port,
		"environment", cfg.Environment,
		"storage_backend", cfg.StorageBackend,
		"content_dir", cfg.ContentDir)

	catalog, err := content.LoadDir(cfg.ContentDir, log)
	if err != nil {
		log.Error("Failed to load content", "error", err, "dir", cfg.ContentDir)
		os.Exit(1)
	}
	for _, problem := range catalog.Validate() {
		log.Warn("Content problem", "problem", problem)
	}
	log.Info("Content loaded",
		"events", len(catalog.Events()),
		"collectibles", len(catalog.Collectibles()))

	store, err := openStore(cfg, log)
	if err != nil {
		log.Error("Failed to connect to storage", "error", err, "backend", cfg.StorageBackend)
		os.Exit(1)
	}
	log.Info("Storage connection established successfully")

	summarizer := services.NewOpenAISummarizer(services.OpenAIConfig{
		APIKey:      cfg.OpenAIAPIKey,
		BaseURL:     cfg.OpenAIBaseURL,
		Model:       cfg.OpenAIModel,
		Temperature: cfg.SummaryTemperature,
		MaxTokens:   cfg.SummaryMaxTokens,
		Timeout:     cfg.SummaryTimeout,
		ClosingLine: cfg.SummaryClosingLine,
	}, log)
	if err := summarizer.Ready(context.Background()); err != nil {
		log.Warn("Journey reviews disabled", "reason", err)
	}

	opts := cfg.StateOptions()
	games := game.NewManager(game.Deps{
		Catalog:      catalog,
		Repository:   persistence.NewRepository(store, opts, log),
		Options:      opts,
		Sampler:      engine.NewRandSampler(cfg.RandomSeed),
		StartEventID: cfg.StartEventID,
		Logger:       log,
	})

	mux := http.NewServeMux()

	healthHandler := handlers.NewHealthHandler(store, summarizer, log)
	mux.Handle("/health", healthHandler)
	mux.Handle("/metrics", promhttp.Handler())

	catalogHandler := handlers.NewCatalogHandler(catalog, log)
	mux.Handle("/v1/events", catalogHandler)
	mux.Handle("/v1/events/", catalogHandler)
	mux.Handle("/v1/collectibles", catalogHandler)
	mux.Handle("/v1/collectibles/", catalogHandler)

	sessionHandler := handlers.NewSessionHandler(games, log)
	mux.Handle("/v1/sessions", sessionHandler)
	mux.Handle("/v1/sessions/", sessionHandler)

	reviewHandler := handlers.NewReviewHandler(games, summarizer, log)
	mux.Handle("POST /v1/sessions/{id}/review", reviewHandler)

	handler := middleware.Logger(log)(metrics.Middleware(mux))
	server := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      handler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: cfg.SummaryTimeout + 15*time.Second, // reviews wait on the summarizer
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Info("Server starting", "addr", server.Addr)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error("Server failed to start", "error", err)
			os.Exit(1)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("Server is shutting down...")

	// Graceful shutdown with timeout
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error("Server forced to shutdown", "error", err)
	}

	// Close storage after in-flight saves have finished
	if err := store.Close(); err != nil {
		log.Error("Error closing storage connection", "error", err)
	}

	log.Info("Server exited")
}

// openStore connects the configured storage backend.
func openStore(cfg *config.Config, log *slog.Logger) (storage.Store, error) {
	switch cfg.StorageBackend {
	case config.BackendRedis:
		store, err := storage.NewRedisStore(cfg.RedisURL, log)
		if err != nil {
			return nil, err
		}
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
		defer cancel()
		if err := store.WaitForConnection(ctx, 10, 3*time.Second); err != nil {
			_ = store.Close()
			return nil, err
		}
		return store, nil
	case config.BackendSQLite:
		store, err := storage.OpenSQLite(cfg.SQLitePath, log)
		if err != nil {
			return nil, err
		}
		return store, nil
	case config.BackendMemory:
		log.Warn("Using in-memory storage; progress is lost on restart")
		return storage.NewMemoryStore(), nil
	default:
		return nil, fmt.Errorf("unsupported storage backend %q", cfg.StorageBackend)
	}
}
