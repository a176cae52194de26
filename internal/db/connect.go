package db

import (
	"context"
	"time"

	"liars_dice/internal/logger"

	"github.com/jackc/pgx/v5/pgxpool"
)

func Connect(dsn string) *pgxpool.Pool {
	pool, err := Open(context.Background(), dsn)
	if err != nil {
		logger.Fatal("failed to connect to database", "error", err)
	}
	return pool
}

// Open is Connect without the exit: the console game falls back to local
// storage when the database is unreachable.
func Open(ctx context.Context, dsn string) (*pgxpool.Pool, error) {
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, err
	}

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := pool.Ping(pingCtx); err != nil {
		pool.Close()
		return nil, err
	}

	logger.Info("database connected")
	return pool, nil
}
