package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j"
	"go.uber.org/zap"

	"chat-wordmap/backend/internal/analysis"
	"chat-wordmap/backend/internal/api"
	"chat-wordmap/backend/internal/cache"
	"chat-wordmap/backend/internal/graph"
	"chat-wordmap/backend/pkg/config"
	"chat-wordmap/backend/pkg/logger"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		panic(fmt.Sprintf("Failed to load configuration: %v", err))
	}

	// Initialize logger
	if err := logger.Init(cfg.Env); err != nil {
		panic(fmt.Sprintf("Failed to initialize logger: %v", err))
	}
	defer logger.Sync()

	log := logger.Get()
	log.Info("Starting HTTP API server...", zap.String("env", cfg.Env))

	ctx := context.Background()
	handler, cleanup, err := buildHandler(ctx, cfg, log)
	if err != nil {
		log.Fatal("Failed to initialize dependencies", zap.Error(err))
	}
	defer cleanup()

	router := api.NewRouter(handler, cfg.IsProduction())

	// Start server
	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: router,
	}

	// Graceful shutdown
	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	log.Info("Server started", zap.String("port", cfg.Port))

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Error("Server forced to shutdown", zap.Error(err))
	}

	log.Info("Server exited")
}

// buildHandler connects the optional Redis cache and Neo4j exporter and
// returns the HTTP handler with a cleanup func that releases them.
func buildHandler(ctx context.Context, cfg *config.Config, log *zap.Logger) (*api.Handler, func(), error) {
	var closers []func()
	cleanup := func() {
		for i := len(closers) - 1; i >= 0; i-- {
			closers[i]()
		}
	}

	var resultCache analysis.ResultCache
	if cfg.CacheEnabled() {
		redisCache := cache.NewRedisCache(cache.RedisOptions{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
			TTL:      cfg.CacheTTL,
		})
		closers = append(closers, func() { _ = redisCache.Close() })

		// An unreachable cache only costs recomputation
		if err := redisCache.Ping(ctx); err != nil {
			log.Warn("Redis unavailable, continuing without result cache", zap.Error(err))
		} else {
			resultCache = redisCache
			log.Info("Result cache enabled", zap.String("addr", cfg.RedisAddr), zap.Duration("ttl", cfg.CacheTTL))
		}
	}

	var (
		exporter  analysis.GraphExporter
		summaries api.SummaryFetcher
	)
	if cfg.ExportEnabled() {
		driver, err := neo4j.NewDriverWithContext(
			cfg.Neo4jURI,
			neo4j.BasicAuth(cfg.Neo4jUser, cfg.Neo4jPassword, ""),
		)
		if err != nil {
			cleanup()
			return nil, nil, fmt.Errorf("failed to create Neo4j driver: %w", err)
		}
		closers = append(closers, func() { _ = driver.Close(context.Background()) })

		if err := driver.VerifyConnectivity(ctx); err != nil {
			cleanup()
			return nil, nil, fmt.Errorf("failed to verify Neo4j connectivity: %w", err)
		}

		repo := graph.NewRepository(driver)
		if err := repo.EnsureSchema(ctx); err != nil {
			cleanup()
			return nil, nil, fmt.Errorf("failed to ensure Neo4j schema: %w", err)
		}
		exporter = repo
		summaries = repo
		log.Info("Graph export enabled", zap.String("uri", cfg.Neo4jURI))
	}

	service := analysis.NewService(resultCache, exporter, logger.Named("analysis"))
	handler := api.NewHandler(service, summaries, logger.Named("http"), cfg.NumWordsToDisplay, cfg.MaxUploadBytes())
	return handler, cleanup, nil
}
