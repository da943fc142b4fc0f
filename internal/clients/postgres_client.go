package clients

import (
	"context"
	"log/slog"
	"os"
	"sync"

	"github.com/jackc/pgx/v5/pgxpool"
)

var (
	postgresInstance *PostgresClient
	postgresOnce     sync.Once
)

type PostgresClient struct {
	Pool *pgxpool.Pool
}

func InitPostgres(ctx context.Context) *PostgresClient {
	postgresOnce.Do(func() {
		dsn := os.Getenv("DATABASE_URL")
		if dsn == "" {
			panic("[PostgresClient] Missing DATABASE_URL in environment variables")
		}

		pool, err := pgxpool.New(ctx, dsn)
		if err != nil {
			slog.Error("[PostgresClient] Failed to create pool", slog.String("error", err.Error()))
			panic(err)
		}

		if err := pool.Ping(ctx); err != nil {
			slog.Error("[PostgresClient] Failed to ping PostgreSQL", slog.String("error", err.Error()))
			panic(err)
		}

		slog.Info("[PostgresClient] Successfully connected to PostgreSQL")
		postgresInstance = &PostgresClient{Pool: pool}
	})
	return postgresInstance
}

func GetPostgresClient() *PostgresClient {
	if postgresInstance == nil {
		panic("[PostgresClient] Error: Postgres client is not initialized")
	}
	return postgresInstance
}

func ClosePostgres() {
	if postgresInstance != nil {
		postgresInstance.Pool.Close()
	}
}
