// cmd/api/main.go

package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/jackc/pgx/v4/pgxpool"
	"github.com/joho/godotenv"
	"github.com/nats-io/nats.go"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"wavesight/internal/adapter/storage"
	"wavesight/internal/config"
	"wavesight/internal/domain/submission"
	"wavesight/internal/server"
	"wavesight/internal/service/dedupe"
	"wavesight/internal/service/draft"
	"wavesight/internal/service/insights"
	metadataService "wavesight/internal/service/metadata"
	"wavesight/internal/service/scoring"
	"wavesight/internal/service/submit"
)

func main() {
	// Load .env if present; real environments set variables directly
	_ = godotenv.Load()

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	logger, err := initLogger(cfg.Environment)
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer logger.Sync()

	// Setup context with cancellation for graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Setup signal handling for graceful shutdown
	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	// Initialize dependencies
	db, err := initDatabase(ctx, cfg.Database)
	if err != nil {
		logger.Fatal("Failed to initialize database", zap.Error(err))
	}
	defer db.Close()

	natsConn, err := initNATS(cfg.NATS, logger)
	if err != nil {
		logger.Fatal("Failed to connect to NATS", zap.Error(err))
	}
	defer natsConn.Close()

	redisClient := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	if err := redisClient.Ping(ctx).Err(); err != nil {
		logger.Fatal("Failed to connect to Redis", zap.Error(err))
	}
	defer redisClient.Close()

	// Initialize storage adapters
	submissionStore := storage.NewSubmissionStore(db)
	spotterStore := storage.NewSpotterStore(db)
	mediaStore := storage.NewMediaStore(db)

	// Initialize services
	normalizer := metadataService.NewNormalizer(buildExtractors(cfg.Extraction, logger), logger)
	checker := dedupe.NewChecker(submissionStore, dedupe.CheckerConfig{Window: cfg.Dedupe.Window}, logger)
	scorer := scoring.NewScorer()

	draftStore := draft.NewStore(
		draft.NewRedisKV(redisClient),
		draft.StoreConfig{Debounce: cfg.Submission.DraftDebounce},
		logger,
	)

	orchestrator := submit.NewOrchestrator(
		submissionStore,
		draftStore,
		spotterStore,
		scorer,
		natsConn,
		submit.OrchestratorConfig{
			SubmitTimeout: cfg.Submission.SubmitTimeout,
			EventsTopic:   cfg.Submission.EventsTopic,
		},
		logger,
	)

	aggregator := insights.NewAggregator(
		submissionStore,
		natsConn,
		insights.AggregatorConfig{
			Interval:    cfg.Insights.Interval,
			Window:      cfg.Insights.Window,
			EventsTopic: cfg.Insights.EventsTopic,
		},
		logger,
	)

	// Start the insights aggregator
	if err := aggregator.Start(ctx); err != nil {
		logger.Fatal("Failed to start insights aggregator", zap.Error(err))
	}

	// Initialize HTTP server
	httpServer := server.NewServer(cfg, server.Deps{
		Normalizer:   normalizer,
		Checker:      checker,
		Scorer:       scorer,
		Orchestrator: orchestrator,
		Drafts:       draftStore,
		Store:        submissionStore,
		Spotters:     spotterStore,
		Media:        mediaStore,
		Aggregator:   aggregator,
		NATS:         natsConn,
		Logger:       logger,
	})

	// Start HTTP server
	go func() {
		logger.Info("Starting HTTP server",
			zap.String("host", cfg.Server.Host),
			zap.Int("port", cfg.Server.Port),
		)
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("HTTP server error", zap.Error(err))
		}
	}()

	// Wait for shutdown signal
	<-shutdown
	logger.Info("Shutdown signal received")

	// Create shutdown context with timeout
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer shutdownCancel()

	// Graceful shutdown
	logger.Info("Shutting down services...")

	// Shutdown HTTP server
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		logger.Warn("HTTP server shutdown error", zap.Error(err))
	}

	// Stop the insights aggregator
	if err := aggregator.Stop(shutdownCtx); err != nil {
		logger.Warn("Insights aggregator shutdown error", zap.Error(err))
	}

	// Flush any pending drafts before the Redis connection goes away
	draftStore.Close()

	logger.Info("Shutdown complete")
}

// initLogger builds the process logger for the environment
func initLogger(environment string) (*zap.Logger, error) {
	if environment == "production" {
		return zap.NewProduction()
	}
	return zap.NewDevelopment()
}

// buildExtractors wires the per-platform metadata extractors. Platforms
// without an entry still normalize; they just return platform-only metadata.
func buildExtractors(cfg config.ExtractionConfig, logger *zap.Logger) map[submission.Platform]metadataService.Extractor {
	extractors := make(map[submission.Platform]metadataService.Extractor)

	for _, platform := range []submission.Platform{submission.PlatformTikTok, submission.PlatformYouTube} {
		extractor, err := metadataService.NewOEmbedExtractor(platform, cfg.Timeout)
		if err != nil {
			logger.Warn("skipping oEmbed extractor", zap.String("platform", string(platform)), zap.Error(err))
			continue
		}
		extractors[platform] = extractor
	}

	if cfg.TwitterBearerToken != "" {
		extractors[submission.PlatformTwitter] = metadataService.NewTwitterExtractor(cfg.TwitterBearerToken, cfg.Timeout)
	}

	return extractors
}

// Initialize database connection
func initDatabase(ctx context.Context, cfg config.DatabaseConfig) (*pgxpool.Pool, error) {
	connString := fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		cfg.User, cfg.Password, cfg.Host, cfg.Port, cfg.Database, cfg.SSLMode,
	)

	poolConfig, err := pgxpool.ParseConfig(connString)
	if err != nil {
		return nil, fmt.Errorf("unable to parse connection string: %w", err)
	}

	poolConfig.MaxConns = int32(cfg.MaxOpenConns)
	poolConfig.MinConns = int32(cfg.MaxIdleConns)
	poolConfig.MaxConnLifetime = cfg.MaxLifetime

	db, err := pgxpool.ConnectConfig(ctx, poolConfig)
	if err != nil {
		return nil, fmt.Errorf("unable to connect to database: %w", err)
	}

	// Test connection
	if err := db.Ping(ctx); err != nil {
		return nil, fmt.Errorf("unable to ping database: %w", err)
	}

	return db, nil
}

// Initialize NATS connection
func initNATS(cfg config.NATSConfig, logger *zap.Logger) (*nats.Conn, error) {
	options := []nats.Option{
		nats.MaxReconnects(cfg.MaxReconnects),
		nats.ReconnectWait(cfg.ReconnectWait),
		nats.Timeout(cfg.ConnectTimeout),
		nats.DisconnectErrHandler(func(nc *nats.Conn, err error) {
			logger.Warn("NATS disconnected", zap.Error(err))
		}),
		nats.ReconnectHandler(func(nc *nats.Conn) {
			logger.Info("NATS reconnected", zap.String("url", nc.ConnectedUrl()))
		}),
		nats.ClosedHandler(func(nc *nats.Conn) {
			logger.Info("NATS connection closed")
		}),
	}

	nc, err := nats.Connect(cfg.URL, options...)
	if err != nil {
		return nil, fmt.Errorf("unable to connect to NATS: %w", err)
	}

	return nc, nil
}
