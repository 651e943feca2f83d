package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/glebarez/go-sqlite"
	_ "github.com/lib/pq"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/segyhp/coal-settlement/internal/cache"
	"github.com/segyhp/coal-settlement/internal/config"
	"github.com/segyhp/coal-settlement/internal/handler"
	"github.com/segyhp/coal-settlement/internal/repository"
	"github.com/segyhp/coal-settlement/internal/service"
	"github.com/segyhp/coal-settlement/pkg/logger"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	log := logger.Must(logger.New(cfg.Logging.Level))
	defer log.Sync() //nolint:errcheck
	zap.ReplaceGlobals(log)

	// Initialize storage
	store, err := initStore(cfg, log)
	if err != nil {
		log.Fatal("failed to initialize storage", zap.String("driver", cfg.Storage.Driver), zap.Error(err))
	}
	defer store.Close()

	// Initialize Redis
	var (
		redisClient  *redis.Client
		summaryCache service.SummaryCache
	)
	if cfg.RedisEnabled() {
		redisClient = initRedis(cfg)
		defer redisClient.Close()
		summaryCache = cache.NewRedisSummaryCache(redisClient)
	}

	// Initialize services
	batchService := service.NewBatchService(store, logger.Named(log, "service"))
	shipmentService := service.NewShipmentService(store, logger.Named(log, "service"))
	arrivalService := service.NewArrivalService(store, logger.Named(log, "service"))
	paymentService := service.NewPaymentService(store, logger.Named(log, "service"))
	referenceService := service.NewReferenceService(store, logger.Named(log, "service"))
	summaryService := service.NewSummaryService(store, summaryCache, cfg.GetSummaryTTL(), logger.Named(log, "service"))

	handlerLog := logger.Named(log, "handler")
	router := handler.NewRouter(handler.Handlers{
		Batch:     handler.NewBatchHandler(batchService, handlerLog),
		Shipment:  handler.NewShipmentHandler(shipmentService, handlerLog),
		Arrival:   handler.NewArrivalHandler(arrivalService, handlerLog),
		Payment:   handler.NewPaymentHandler(paymentService, handlerLog),
		Reference: handler.NewReferenceHandler(referenceService, handlerLog),
		Summary:   handler.NewSummaryHandler(summaryService, handlerLog),
		Health:    handler.NewHealthHandler(store, redisClient, cfg.GetHealthTimeout()),
	}, cfg.Server.CORSOrigin, logger.Named(log, "http"))

	// Start server
	server := &http.Server{
		Addr:         cfg.Addr(),
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	// Start server in a goroutine
	go func() {
		log.Info("server starting", zap.String("addr", server.Addr), zap.String("storage", cfg.Storage.Driver))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("server failed to start", zap.Error(err))
		}
	}()

	// Wait for interrupt signal to gracefully shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("shutting down server")

	// Graceful shutdown
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		log.Error("server forced to shutdown", zap.Error(err))
	}

	log.Info("server exited")
}

func initStore(cfg *config.Config, log *zap.Logger) (repository.Store, error) {
	storeLog := logger.Named(log, "repository")

	switch cfg.Storage.Driver {
	case config.StorageFile:
		return repository.OpenFile(cfg.Storage.DataFile, storeLog)
	case config.StorageSQLite:
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return repository.OpenSQL(ctx, repository.DriverSQLite, cfg.Storage.DatabaseURL, 1, storeLog)
	default:
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return repository.OpenSQL(ctx, "postgres", cfg.Storage.DatabaseURL, cfg.Storage.MaxOpenConns, storeLog)
	}
}

func initRedis(cfg *config.Config) *redis.Client {
	return redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
}
