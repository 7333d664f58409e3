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
	"github.com/jonboulle/clockwork"
	"github.com/nats-io/nats.go"
	"github.com/redis/go-redis/v9"

	"geonews/internal/adapter/cache"
	"geonews/internal/adapter/openai"
	"geonews/internal/adapter/storage"
	"geonews/internal/config"
	"geonews/internal/logger"
	"geonews/internal/server"
	newsService "geonews/internal/service/news"
	"geonews/internal/service/trending"
)

func main() {
	// .env is optional; real deployments set the environment directly
	_ = godotenv.Load()

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	logger.Setup()

	// Setup context with cancellation for graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Setup signal handling for graceful shutdown
	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	// Initialize dependencies
	db, err := initDatabase(ctx, cfg.Database)
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer db.Close()

	redisClient := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	defer redisClient.Close()

	natsConn, err := initNATS(cfg.NATS)
	if err != nil {
		log.Fatalf("Failed to connect to NATS: %v", err)
	}
	defer natsConn.Close()

	// Initialize storage adapters
	articleStore := storage.NewArticleStore(db)
	eventStore := storage.NewEventStore(db)
	scoreStore := storage.NewScoreStore(db)

	// Initialize caches
	trendingCache := cache.NewRedisCache(redisClient)
	categoryCache := cache.NewCategoryCache(redisClient, articleStore)
	if err := categoryCache.Warm(ctx); err != nil {
		logger.L().Warn("category_cache_warm_failed", "err", err)
	}

	clock := clockwork.NewRealClock()

	// Seed articles from the data file when one is configured
	if cfg.News.DataFile != "" {
		loader := newsService.NewLoader(articleStore, categoryCache, cfg.News.BatchSize)
		if _, err := loader.LoadFromFile(ctx, cfg.News.DataFile); err != nil {
			log.Fatalf("Failed to load article data file: %v", err)
		}
	}

	// Initialize trending pipeline
	aggregator := trending.NewAggregator(cfg.Trending.RadiusKm, cfg.Trending.Window, clock)
	trendingQuery := trending.NewService(scoreStore, articleStore, trendingCache, trending.ServiceConfig{
		DefaultRadiusKm: cfg.Trending.RadiusKm,
		FetchLimit:      cfg.Trending.FetchLimit,
		CacheTTL:        cfg.Trending.CacheTTL,
	})
	scheduler := trending.NewScheduler(eventStore, scoreStore, aggregator, trendingQuery, natsConn,
		trending.SchedulerConfig{
			Interval:         cfg.Trending.Interval,
			Window:           cfg.Trending.Window,
			FetchLimit:       cfg.Trending.FetchLimit,
			CacheTTL:         cfg.Trending.CacheTTL,
			RefreshedSubject: cfg.Trending.RefreshedSubject,
		}, clock)
	simulator := trending.NewSimulator(articleStore, eventStore, cfg.Trending.RadiusKm, clock)

	// Initialize news query service
	openaiClient, err := openai.NewClient(openai.Config{
		APIKey:            cfg.OpenAI.APIKey,
		Model:             cfg.OpenAI.Model,
		BaseURL:           cfg.OpenAI.BaseURL,
		Temperature:       cfg.OpenAI.Temperature,
		PromptDir:         cfg.OpenAI.PromptDir,
		QueryAnalysisFile: cfg.OpenAI.QueryAnalysisFile,
		SummaryFile:       cfg.OpenAI.SummaryFile,
	}, categoryCache)
	if err != nil {
		log.Fatalf("Failed to initialize OpenAI client: %v", err)
	}

	resolver := newsService.NewResolver(
		newsService.NewSearchStrategy(articleStore),
		newsService.NewCategoryStrategy(articleStore),
		newsService.NewScoreStrategy(articleStore, cfg.News.ScoreThreshold),
		newsService.NewSourceStrategy(articleStore),
		newsService.NewNearbyStrategy(articleStore, cfg.Trending.RadiusKm),
	)
	newsQuery := newsService.NewService(openaiClient, openaiClient, resolver, newsService.Config{
		FetchLimit: cfg.News.FetchLimit,
	})

	// Start the trending scheduler
	scheduler.Start(ctx)

	// Initialize HTTP server
	httpServer := server.NewServer(
		cfg.Server,
		trendingQuery,
		simulator,
		newsQuery,
		cfg.Trending.RadiusKm,
	)

	// Start HTTP server
	go func() {
		logger.L().Info("http_server_starting", "host", cfg.Server.Host, "port", cfg.Server.Port)
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("HTTP server error: %v", err)
		}
	}()

	// Wait for shutdown signal
	<-shutdown
	logger.L().Info("shutdown_signal_received")

	// Create shutdown context with timeout
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer shutdownCancel()

	// Shutdown HTTP server
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		logger.L().Error("http_server_shutdown_error", "err", err)
	}

	// Stop the scheduler
	if err := scheduler.Stop(shutdownCtx); err != nil {
		logger.L().Error("scheduler_shutdown_error", "err", err)
	}

	logger.L().Info("shutdown_complete")
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
func initNATS(cfg config.NATSConfig) (*nats.Conn, error) {
	options := []nats.Option{
		nats.MaxReconnects(cfg.MaxReconnects),
		nats.ReconnectWait(cfg.ReconnectWait),
		nats.Timeout(cfg.ConnectTimeout),
		nats.DisconnectErrHandler(func(nc *nats.Conn, err error) {
			logger.L().Warn("nats_disconnected", "err", err)
		}),
		nats.ReconnectHandler(func(nc *nats.Conn) {
			logger.L().Info("nats_reconnected", "url", nc.ConnectedUrl())
		}),
		nats.ClosedHandler(func(nc *nats.Conn) {
			logger.L().Info("nats_connection_closed")
		}),
	}

	nc, err := nats.Connect(cfg.URL, options...)
	if err != nil {
		return nil, fmt.Errorf("unable to connect to NATS: %w", err)
	}

	return nc, nil
}
