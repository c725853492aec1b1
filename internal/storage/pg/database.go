package pg

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/augustdev/amphitheatre/internal/storage/pg/generated/plays"
	pgxdecimal "github.com/jackc/pgx-shopspring-decimal"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/fx"
)

type DbConfig struct {
	URL             string
	MaxConns        int32
	MinConns        int32
	MaxConnLifetime time.Duration
	MaxConnIdleTime time.Duration
	ConnectTimeout  time.Duration
}

type DB struct {
	*pgxpool.Pool
	logger      *slog.Logger
	playQueries plays.Querier
}

func NewDatabase(lc fx.Lifecycle, config DbConfig, logger *slog.Logger) (*DB, error) {
	connectTimeout := config.ConnectTimeout
	if connectTimeout <= 0 {
		connectTimeout = 30 * time.Second
	}
	ctx, cancel := context.WithTimeout(context.Background(), connectTimeout)
	defer cancel()

	poolConfig, err := pgxpool.ParseConfig(config.URL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse database config: %w", err)
	}

	poolConfig.MaxConns = orDefault(config.MaxConns, 10)
	poolConfig.MinConns = orDefault(config.MinConns, 2)
	poolConfig.MaxConnLifetime = orDefault(config.MaxConnLifetime, 30*time.Minute)
	poolConfig.MaxConnIdleTime = orDefault(config.MaxConnIdleTime, 5*time.Minute)

	logger.Info("Database pool configuration",
		"maxConns", poolConfig.MaxConns,
		"minConns", poolConfig.MinConns,
		"maxConnLifetime", poolConfig.MaxConnLifetime,
		"maxConnIdleTime", poolConfig.MaxConnIdleTime,
	)

	poolConfig.AfterConnect = func(ctx context.Context, conn *pgx.Conn) error {
		pgxdecimal.Register(conn.TypeMap())
		return nil
	}

	pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to create connection pool: %w", err)
	}

	if !envTrue("DB_SKIP_PING") {
		if err := pool.Ping(ctx); err != nil {
			pool.Close()
			return nil, fmt.Errorf("failed to ping database: %w", err)
		}
		logger.Info("Successfully connected to database")
	} else {
		logger.Warn("Skipping database startup ping (DB_SKIP_PING enabled)")
	}

	if !envTrue("DB_SKIP_MIGRATIONS") {
		logger.Info("Running database migrations...")
		if err := RunMigrations(ctx, pool, logger); err != nil {
			pool.Close()
			logger.Error("Failed to run database migrations", "error", err)
			return nil, fmt.Errorf("failed to run database migrations: %w", err)
		}
		logger.Info("Database migrations completed successfully")
	} else {
		logger.Warn("Skipping database migrations on startup (DB_SKIP_MIGRATIONS enabled)")
	}

	lc.Append(fx.Hook{
		OnStop: func(ctx context.Context) error {
			logger.Info("Closing database connection pool...")
			pool.Close()
			logger.Info("Database connection pool closed")
			return nil
		},
	})

	return &DB{
		Pool:        pool,
		logger:      logger,
		playQueries: plays.New(pool),
	}, nil
}

func orDefault[T int32 | time.Duration](v, def T) T {
	if v > 0 {
		return v
	}
	return def
}

func envTrue(key string) bool {
	value := strings.ToLower(strings.TrimSpace(os.Getenv(key)))
	return value == "1" || value == "true" || value == "yes" || value == "on"
}

func (db *DB) Health(ctx context.Context) error {
	return db.Ping(ctx)
}

func NewPlayQueries(database *DB) plays.Querier {
	return database.playQueries
}
