package config

import (
	"fmt"
	"time"

	"github.com/joho/godotenv"
	"github.com/robfig/cron/v3"
	"github.com/spf13/viper"
)

const (
	StoragePostgres = "postgres"
	StorageSQLite   = "sqlite"
	StorageFile     = "file"
)

// Config holds all configuration for our application
type Config struct {
	Server    ServerConfig
	Storage   StorageConfig
	Redis     RedisConfig
	Scheduler SchedulerConfig
	Logging   LoggingConfig
	Health    HealthConfig
}

type ServerConfig struct {
	Port         string
	Host         string
	Env          string
	CORSOrigin   string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

type StorageConfig struct {
	Driver       string
	DatabaseURL  string
	MaxOpenConns int
	DataFile     string
}

// RedisConfig is optional; an empty Addr disables the summary cache.
type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

type SchedulerConfig struct {
	SummaryCron string
	SummaryTTL  string
}

type LoggingConfig struct {
	Level string
}

type HealthConfig struct {
	Timeout string
}

var cronParser = cron.NewParser(cron.Second | cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow | cron.Descriptor)

// Load reads configuration from environment variables. Any envFiles (or
// ./.env when none are given) are loaded first; missing files are ignored
// and variables already set in the environment win.
func Load(envFiles ...string) (*Config, error) {
	if len(envFiles) == 0 {
		_ = godotenv.Load()
	} else {
		for _, f := range envFiles {
			_ = godotenv.Load(f)
		}
	}

	v := viper.New()

	// Set defaults
	v.SetDefault("SERVER_PORT", "8080")
	v.SetDefault("SERVER_HOST", "0.0.0.0")
	v.SetDefault("ENV", "development")
	v.SetDefault("CORS_ORIGIN", "*")
	v.SetDefault("SERVER_READ_TIMEOUT", "15s")
	v.SetDefault("SERVER_WRITE_TIMEOUT", "15s")
	v.SetDefault("STORAGE_DRIVER", StorageFile)
	v.SetDefault("DB_MAX_OPEN_CONNS", 10)
	v.SetDefault("DATA_FILE", "data/coal-settlement.json")
	v.SetDefault("REDIS_DB", 0)
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("SUMMARY_CRON", "0 */5 * * * *")
	v.SetDefault("SUMMARY_TTL", "10m")
	v.SetDefault("HEALTH_CHECK_TIMEOUT", "5s")

	// Read from environment variables
	v.AutomaticEnv()

	config := &Config{
		Server: ServerConfig{
			Port:         v.GetString("SERVER_PORT"),
			Host:         v.GetString("SERVER_HOST"),
			Env:          v.GetString("ENV"),
			CORSOrigin:   v.GetString("CORS_ORIGIN"),
			ReadTimeout:  v.GetDuration("SERVER_READ_TIMEOUT"),
			WriteTimeout: v.GetDuration("SERVER_WRITE_TIMEOUT"),
		},
		Storage: StorageConfig{
			Driver:       v.GetString("STORAGE_DRIVER"),
			DatabaseURL:  v.GetString("DATABASE_URL"),
			MaxOpenConns: v.GetInt("DB_MAX_OPEN_CONNS"),
			DataFile:     v.GetString("DATA_FILE"),
		},
		Redis: RedisConfig{
			Addr:     v.GetString("REDIS_ADDR"),
			Password: v.GetString("REDIS_PASSWORD"),
			DB:       v.GetInt("REDIS_DB"),
		},
		Scheduler: SchedulerConfig{
			SummaryCron: v.GetString("SUMMARY_CRON"),
			SummaryTTL:  v.GetString("SUMMARY_TTL"),
		},
		Logging: LoggingConfig{
			Level: v.GetString("LOG_LEVEL"),
		},
		Health: HealthConfig{
			Timeout: v.GetString("HEALTH_CHECK_TIMEOUT"),
		},
	}

	// Validate configuration
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return config, nil
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	if c.Server.Port == "" {
		return fmt.Errorf("SERVER_PORT is required")
	}

	switch c.Storage.Driver {
	case StoragePostgres, StorageSQLite:
		if c.Storage.DatabaseURL == "" {
			return fmt.Errorf("DATABASE_URL is required for STORAGE_DRIVER=%s", c.Storage.Driver)
		}
	case StorageFile:
		if c.Storage.DataFile == "" {
			return fmt.Errorf("DATA_FILE is required for STORAGE_DRIVER=file")
		}
	default:
		return fmt.Errorf("STORAGE_DRIVER must be one of postgres, sqlite, file; got %q", c.Storage.Driver)
	}

	if c.Storage.MaxOpenConns < 0 {
		return fmt.Errorf("DB_MAX_OPEN_CONNS must not be negative")
	}

	if _, err := cronParser.Parse(c.Scheduler.SummaryCron); err != nil {
		return fmt.Errorf("SUMMARY_CRON must be a valid cron spec with seconds: %w", err)
	}

	ttl, err := time.ParseDuration(c.Scheduler.SummaryTTL)
	if err != nil {
		return fmt.Errorf("SUMMARY_TTL must be a valid duration: %w", err)
	}
	if ttl <= 0 {
		return fmt.Errorf("SUMMARY_TTL must be positive")
	}

	// Validate health check timeout
	if _, err := time.ParseDuration(c.Health.Timeout); err != nil {
		return fmt.Errorf("HEALTH_CHECK_TIMEOUT must be a valid duration: %w", err)
	}

	return nil
}

// IsDevelopment returns true if running in development environment
func (c *Config) IsDevelopment() bool {
	return c.Server.Env == "development" || c.Server.Env == "dev"
}

// IsProduction returns true if running in production environment
func (c *Config) IsProduction() bool {
	return c.Server.Env == "production" || c.Server.Env == "prod"
}

// Addr is the listen address of the HTTP server.
func (c *Config) Addr() string {
	return c.Server.Host + ":" + c.Server.Port
}

// RedisEnabled reports whether a summary cache is configured.
func (c *Config) RedisEnabled() bool {
	return c.Redis.Addr != ""
}

// GetSummaryTTL returns the summary cache lifetime as duration
func (c *Config) GetSummaryTTL() time.Duration {
	ttl, _ := time.ParseDuration(c.Scheduler.SummaryTTL)
	return ttl
}

// GetHealthTimeout returns the health check timeout as duration
func (c *Config) GetHealthTimeout() time.Duration {
	timeout, _ := time.ParseDuration(c.Health.Timeout)
	return timeout
}
