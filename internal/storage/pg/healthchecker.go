package pg

import (
	"context"
	"log/slog"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

const healthTimeout = 2 * time.Second

// HealthChecker reports the store healthy when postgres answers and the
// articles schema has been migrated.
type HealthChecker struct {
	pool *ConnectionPool
}

func NewHealthChecker(pool *ConnectionPool) *HealthChecker {
	return &HealthChecker{pool: pool}
}

func (hc *HealthChecker) Healthy(ctx context.Context) bool {
	if hc.pool == nil {
		return false
	}

	ctx, cancel := context.WithTimeout(ctx, healthTimeout)
	defer cancel()

	var migrated bool
	err := hc.pool.withConn(ctx, func(c *pgxpool.Conn) error {
		return c.QueryRow(ctx,
			"SELECT to_regclass('public.articles') IS NOT NULL AND to_regclass('public.reports') IS NOT NULL",
		).Scan(&migrated)
	})
	if err != nil {
		slog.Warn("Postgres health check failed", "error", err)
		return false
	}
	if !migrated {
		slog.Warn("Postgres schema is missing the articles tables")
	}
	return migrated
}
