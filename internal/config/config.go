package config

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds application level configuration loaded from .env, environment and flags.
type Config struct {
	RunAddress          string
	DatabaseURI         string
	AMQPURL             string
	AMQPExchange        string
	TableServiceAddress string
	MongoURI            string
	MongoDatabase       string
	SnapshotPath        string
	MenuFile            string
	JWTSecret           string
	AdminLogin          string
	AdminPassword       string
	TickInterval        time.Duration
	PendingThreshold    time.Duration
	PreparingThreshold  time.Duration
	WorkerPoolSize      int
	MaxOrdersBatch      int
	PersistenceRetries  int
	PersistenceBackoff  time.Duration
	ShutdownTimeout     time.Duration
	UPIPayee            string
	UPIMerchant         string
	CORSOrigins         []string
	LogLevel            string
}

const (
	defaultRunAddress         = ":8080"
	defaultAMQPExchange       = "tableside.events"
	defaultMongoDatabase      = "tableside"
	defaultSnapshotPath       = "tableside-snapshots.db"
	defaultJWTSecret          = "change-me-in-production"
	defaultAdminLogin         = "admin"
	defaultAdminPassword      = "admin"
	defaultTickInterval       = time.Second
	defaultPendingThreshold   = 8 * time.Second
	defaultPreparingThreshold = 12 * time.Second
	defaultWorkerPoolSize     = 4
	defaultMaxOrdersBatch     = 32
	defaultPersistenceRetries = 3
	defaultPersistenceBackoff = 100 * time.Millisecond
	defaultShutdownTimeout    = 10 * time.Second
	defaultUPIPayee           = "example@upi"
	defaultUPIMerchant        = "RestaurantMadeEasy"
	defaultCORSOrigins        = "*"
	defaultLogLevel           = "info"
	defaultEnvFile            = ".env"
)

// Load parses configuration from flags, environment variables and an optional .env file.
// Real environment variables take precedence over the file.
func Load() (*Config, error) {
	path := defaultEnvFile
	if v, ok := os.LookupEnv("ENV_FILE"); ok && v != "" {
		path = v
	}
	fileEnv, err := readEnvFile(path)
	if err != nil {
		return nil, err
	}
	return load(os.Args[1:], chain(os.LookupEnv, mapLookup(fileEnv)))
}

type envLookup func(string) (string, bool)

func readEnvFile(path string) (map[string]string, error) {
	values, err := godotenv.Read(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return map[string]string{}, nil
		}
		return nil, fmt.Errorf("read env file: %w", err)
	}
	return values, nil
}

func mapLookup(values map[string]string) envLookup {
	return func(key string) (string, bool) {
		v, ok := values[key]
		return v, ok
	}
}

func chain(lookups ...envLookup) envLookup {
	return func(key string) (string, bool) {
		for _, lookup := range lookups {
			if v, ok := lookup(key); ok && v != "" {
				return v, true
			}
		}
		return "", false
	}
}

func load(args []string, lookup envLookup) (*Config, error) {
	cfg := &Config{
		RunAddress:          getString(lookup, "RUN_ADDRESS", defaultRunAddress),
		DatabaseURI:         getString(lookup, "DATABASE_URI", ""),
		AMQPURL:             getString(lookup, "AMQP_URL", ""),
		AMQPExchange:        getString(lookup, "AMQP_EXCHANGE", defaultAMQPExchange),
		TableServiceAddress: getString(lookup, "TABLE_SERVICE_ADDRESS", ""),
		MongoURI:            getString(lookup, "MONGO_URI", ""),
		MongoDatabase:       getString(lookup, "MONGO_DATABASE", defaultMongoDatabase),
		SnapshotPath:        getString(lookup, "SNAPSHOT_PATH", defaultSnapshotPath),
		MenuFile:            getString(lookup, "MENU_FILE", ""),
		JWTSecret:           getString(lookup, "JWT_SECRET", defaultJWTSecret),
		AdminLogin:          getString(lookup, "ADMIN_LOGIN", defaultAdminLogin),
		AdminPassword:       getString(lookup, "ADMIN_PASSWORD", defaultAdminPassword),
		TickInterval:        getDuration(lookup, "TICK_INTERVAL", defaultTickInterval),
		PendingThreshold:    getDuration(lookup, "PENDING_THRESHOLD", defaultPendingThreshold),
		PreparingThreshold:  getDuration(lookup, "PREPARING_THRESHOLD", defaultPreparingThreshold),
		WorkerPoolSize:      getInt(lookup, "WORKER_POOL_SIZE", defaultWorkerPoolSize),
		MaxOrdersBatch:      getInt(lookup, "MAX_ORDERS_BATCH", defaultMaxOrdersBatch),
		PersistenceRetries:  getInt(lookup, "PERSISTENCE_RETRIES", defaultPersistenceRetries),
		PersistenceBackoff:  getDuration(lookup, "PERSISTENCE_BACKOFF", defaultPersistenceBackoff),
		ShutdownTimeout:     getDuration(lookup, "SHUTDOWN_TIMEOUT", defaultShutdownTimeout),
		UPIPayee:            getString(lookup, "UPI_PAYEE", defaultUPIPayee),
		UPIMerchant:         getString(lookup, "UPI_MERCHANT", defaultUPIMerchant),
		LogLevel:            getString(lookup, "LOG_LEVEL", defaultLogLevel),
	}
	origins := getString(lookup, "CORS_ORIGINS", defaultCORSOrigins)

	fs := flag.NewFlagSet("tableside", flag.ContinueOnError)
	fs.SetOutput(io.Discard)

	var (
		tickStr      = cfg.TickInterval.String()
		pendingStr   = cfg.PendingThreshold.String()
		preparingStr = cfg.PreparingThreshold.String()
		backoffStr   = cfg.PersistenceBackoff.String()
		shutdownStr  = cfg.ShutdownTimeout.String()
	)

	fs.StringVar(&cfg.RunAddress, "a", cfg.RunAddress, "HTTP server listen address")
	fs.StringVar(&cfg.DatabaseURI, "d", cfg.DatabaseURI, "PostgreSQL DSN")
	fs.StringVar(&cfg.AMQPURL, "amqp", cfg.AMQPURL, "RabbitMQ URL, empty disables the broker")
	fs.StringVar(&cfg.AMQPExchange, "amqp-exchange", cfg.AMQPExchange, "RabbitMQ topic exchange for order events")
	fs.StringVar(&cfg.TableServiceAddress, "tables", cfg.TableServiceAddress, "Table management service base URL")
	fs.StringVar(&cfg.MongoURI, "mongo", cfg.MongoURI, "MongoDB URI for feedback, empty keeps feedback in PostgreSQL")
	fs.StringVar(&cfg.SnapshotPath, "snapshots", cfg.SnapshotPath, "SQLite file with last known order snapshots")
	fs.StringVar(&cfg.MenuFile, "menu", cfg.MenuFile, "Menu JSON file, empty uses the bundled menu")
	fs.StringVar(&cfg.JWTSecret, "jwt-secret", cfg.JWTSecret, "Secret for signing auth tokens")
	fs.StringVar(&tickStr, "tick", tickStr, "Interval between elapsed-time checks")
	fs.StringVar(&pendingStr, "pending-after", pendingStr, "Time an order stays pending at medium load")
	fs.StringVar(&preparingStr, "preparing-after", preparingStr, "Time an order stays preparing at medium load")
	fs.IntVar(&cfg.WorkerPoolSize, "worker-pool", cfg.WorkerPoolSize, "Number of concurrent lifecycle workers")
	fs.IntVar(&cfg.MaxOrdersBatch, "batch", cfg.MaxOrdersBatch, "Maximum active orders checked per tick")
	fs.IntVar(&cfg.PersistenceRetries, "retries", cfg.PersistenceRetries, "Attempts per storage call before giving up")
	fs.StringVar(&backoffStr, "backoff", backoffStr, "Initial backoff between storage attempts")
	fs.StringVar(&shutdownStr, "shutdown-timeout", shutdownStr, "Graceful shutdown timeout")
	fs.StringVar(&origins, "cors", origins, "Comma separated list of allowed CORS origins")
	fs.StringVar(&cfg.LogLevel, "log-level", cfg.LogLevel, "Log level: debug, info, warn or error")

	if err := fs.Parse(args); err != nil {
		return nil, fmt.Errorf("parse flags: %w", err)
	}

	var err error

	if cfg.TickInterval, err = time.ParseDuration(tickStr); err != nil {
		return nil, fmt.Errorf("invalid tick interval: %w", err)
	}

	if cfg.PendingThreshold, err = time.ParseDuration(pendingStr); err != nil {
		return nil, fmt.Errorf("invalid pending threshold: %w", err)
	}

	if cfg.PreparingThreshold, err = time.ParseDuration(preparingStr); err != nil {
		return nil, fmt.Errorf("invalid preparing threshold: %w", err)
	}

	if cfg.PersistenceBackoff, err = time.ParseDuration(backoffStr); err != nil {
		return nil, fmt.Errorf("invalid persistence backoff: %w", err)
	}

	if cfg.ShutdownTimeout, err = time.ParseDuration(shutdownStr); err != nil {
		return nil, fmt.Errorf("invalid shutdown timeout: %w", err)
	}

	if secretFile, ok := lookup("JWT_SECRET_FILE"); ok && secretFile != "" {
		content, err := os.ReadFile(secretFile)
		if err != nil {
			return nil, fmt.Errorf("read jwt secret file: %w", err)
		}
		cfg.JWTSecret = strings.TrimSpace(string(content))
	}

	cfg.CORSOrigins = splitList(origins)

	if cfg.WorkerPoolSize <= 0 {
		cfg.WorkerPoolSize = defaultWorkerPoolSize
	}

	if cfg.MaxOrdersBatch <= 0 {
		cfg.MaxOrdersBatch = defaultMaxOrdersBatch
	}

	if cfg.PersistenceRetries <= 0 {
		cfg.PersistenceRetries = defaultPersistenceRetries
	}

	if cfg.TickInterval <= 0 {
		cfg.TickInterval = defaultTickInterval
	}

	if cfg.PendingThreshold <= 0 {
		cfg.PendingThreshold = defaultPendingThreshold
	}

	if cfg.PreparingThreshold <= 0 {
		cfg.PreparingThreshold = defaultPreparingThreshold
	}

	if cfg.PersistenceBackoff < 0 {
		cfg.PersistenceBackoff = defaultPersistenceBackoff
	}

	if cfg.ShutdownTimeout <= 0 {
		cfg.ShutdownTimeout = defaultShutdownTimeout
	}

	if cfg.DatabaseURI == "" {
		return nil, fmt.Errorf("database URI must be provided")
	}

	if cfg.AdminLogin == "" || cfg.AdminPassword == "" {
		return nil, fmt.Errorf("admin credentials must not be empty")
	}

	return cfg, nil
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	if len(out) == 0 {
		return []string{defaultCORSOrigins}
	}
	return out
}

func getString(lookup envLookup, key, def string) string {
	if v, ok := lookup(key); ok && v != "" {
		return v
	}
	return def
}

func getInt(lookup envLookup, key string, def int) int {
	if v, ok := lookup(key); ok && v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return def
}

func getDuration(lookup envLookup, key string, def time.Duration) time.Duration {
	if v, ok := lookup(key); ok && v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return def
}
