package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/glebarez/go-sqlite"
	_ "github.com/lib/pq"
	"github.com/redis/go-redis/v9"
	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"github.com/segyhp/coal-settlement/internal/cache"
	"github.com/segyhp/coal-settlement/internal/config"
	"github.com/segyhp/coal-settlement/internal/domain"
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

	log := logger.Must(logger.New(cfg.Logging.Level)).Named("scheduler")
	defer log.Sync() //nolint:errcheck

	if !cfg.RedisEnabled() {
		log.Fatal("REDIS_ADDR is required to publish summaries")
	}
	redisClient := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	defer redisClient.Close()

	summaryCache := cache.NewRedisSummaryCache(redisClient)

	var publish publishFunc
	if cfg.Storage.Driver == config.StorageFile {
		// the server owns the data file; reload it on every run to see its writes
		publish = func(ctx context.Context) (*domain.AccountSummary, error) {
			store, err := initStore(cfg, log)
			if err != nil {
				return nil, err
			}
			defer store.Close()
			return service.NewSummaryService(store, summaryCache, cfg.GetSummaryTTL(), log).Publish(ctx)
		}
	} else {
		store, err := initStore(cfg, log)
		if err != nil {
			log.Fatal("failed to initialize storage", zap.String("driver", cfg.Storage.Driver), zap.Error(err))
		}
		defer store.Close()
		publish = service.NewSummaryService(store, summaryCache, cfg.GetSummaryTTL(), log).Publish
	}

	// Initialize cron scheduler
	c := cron.New(cron.WithSeconds(), cron.WithChain(cron.SkipIfStillRunning(cron.DiscardLogger)))

	// Schedule tasks
	if err := setupCronJobs(c, cfg.Scheduler.SummaryCron, publish, log); err != nil {
		log.Fatal("failed to schedule jobs", zap.Error(err))
	}

	// Start the scheduler
	c.Start()
	log.Info("scheduler started", zap.String("summary_cron", cfg.Scheduler.SummaryCron))

	// Wait for interrupt signal to gracefully shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("shutting down scheduler")
	<-c.Stop().Done()
	log.Info("scheduler stopped")
}

const jobTimeout = time.Minute

type publishFunc func(ctx context.Context) (*domain.AccountSummary, error)

func setupCronJobs(c *cron.Cron, spec string, publish publishFunc, log *zap.Logger) error {
	_, err := c.AddFunc(spec, func() {
		ctx, cancel := context.WithTimeout(context.Background(), jobTimeout)
		defer cancel()

		start := time.Now()
		summary, err := publish(ctx)
		if err != nil {
			log.Error("summary publish failed", zap.Error(err))
			return
		}
		log.Info("summary published",
			zap.String("net_position", summary.NetPosition.StringFixed(2)),
			zap.Int("batches", summary.BatchCount),
			zap.Int("arrival_records", summary.ArrivalRecordCount),
			zap.Duration("took", time.Since(start)))
	})
	return err
}

func initStore(cfg *config.Config, log *zap.Logger) (repository.Store, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	switch cfg.Storage.Driver {
	case config.StorageFile:
		return repository.OpenFile(cfg.Storage.DataFile, log)
	case config.StorageSQLite:
		return repository.OpenSQL(ctx, repository.DriverSQLite, cfg.Storage.DatabaseURL, 1, log)
	default:
		return repository.OpenSQL(ctx, "postgres", cfg.Storage.DatabaseURL, cfg.Storage.MaxOpenConns, log)
	}
}
