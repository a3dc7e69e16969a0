package builder

import (
	"context"
	"fmt"

	"github.com/futig/resource-assistant/internal/config"
	"github.com/futig/resource-assistant/internal/repository"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

// storage bundles the durable repositories with the function releasing them
type storage struct {
	steps    repository.ActionStepRepository
	messages repository.ChatMessageRepository
	close    func()
}

// setupStorage opens the configured driver and prepares its schema
func setupStorage(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*storage, error) {
	switch cfg.StorageDriver {
	case config.StorageDriverPostgres:
		pool, err := setupDatabase(ctx, cfg, logger)
		if err != nil {
			return nil, err
		}

		logger.Info("Running database migrations")
		if err := repository.RunMigrations(cfg.DatabaseURL); err != nil {
			pool.Close()
			return nil, fmt.Errorf("run migrations: %w", err)
		}
		logger.Info("Database migrations completed successfully")

		return &storage{
			steps:    repository.NewActionStepPostgres(pool),
			messages: repository.NewChatMessagePostgres(pool),
			close:    pool.Close,
		}, nil
	default:
		db, err := repository.OpenSQLite(ctx, cfg.SQLiteCfg)
		if err != nil {
			return nil, fmt.Errorf("open sqlite: %w", err)
		}

		logger.Info("sqlite database opened", zap.String("path", cfg.SQLiteCfg.Path))

		return &storage{
			steps:    repository.NewActionStepSQLite(db),
			messages: repository.NewChatMessageSQLite(db),
			close: func() {
				if err := db.Close(); err != nil {
					logger.Error("failed to close sqlite", zap.Error(err))
				}
			},
		}, nil
	}
}

// setupDatabase creates a new postgres connection pool
func setupDatabase(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*pgxpool.Pool, error) {
	poolConfig, err := pgxpool.ParseConfig(cfg.DatabaseURL)
	if err != nil {
		return nil, fmt.Errorf("parse database URL: %w", err)
	}

	poolConfig.MaxConns = int32(cfg.DBMaxConns)
	poolConfig.MinConns = int32(cfg.DBMinConns)
	poolConfig.MaxConnLifetime = cfg.DBMaxConnLifetime
	poolConfig.MaxConnIdleTime = cfg.DBMaxConnIdleTime
	poolConfig.HealthCheckPeriod = cfg.DBHealthCheckPeriod

	pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		return nil, fmt.Errorf("create connection pool: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	logger.Info("database connection pool established",
		zap.Int32("max_conns", poolConfig.MaxConns),
		zap.Int32("min_conns", poolConfig.MinConns),
		zap.Duration("max_conn_lifetime", poolConfig.MaxConnLifetime),
	)

	return pool, nil
}
