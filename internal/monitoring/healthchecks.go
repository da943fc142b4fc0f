package monitoring

import (
	"context"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

const HEALTHCHECK_TIMER = 15

// MonitorStoreHealth pings the content store on a fixed interval and flips
// the shared health bit consumed by the /healthz handler.
func MonitorStoreHealth(ctx context.Context, pool *pgxpool.Pool, healthy *atomic.Bool) {
	ticker := time.NewTicker(time.Second * HEALTHCHECK_TIMER)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			pingCtx, cancel := context.WithTimeout(ctx, 3*time.Second)
			err := pool.Ping(pingCtx)
			cancel()
			healthy.Store(err == nil)
			if err != nil {
				slog.Warn("[HealthCheck] Content store is unhealthy",
					slog.String("error", err.Error()))
			}
		}
	}
}

// MonitorClassifierHealth infers classifier health from the fail-open
// fallback rate instead of probing the model directly; a probe would spend
// real tokens every interval. Any fallback within a window marks the
// classifier degraded for that window.
func MonitorClassifierHealth(ctx context.Context, healthy *atomic.Bool) {
	ticker := time.NewTicker(time.Second * HEALTHCHECK_TIMER)
	defer ticker.Stop()

	last := fallbackCount.Load()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			current := fallbackCount.Load()
			isHealthy := current == last
			last = current
			healthy.Store(isHealthy)
			if !isHealthy {
				slog.Warn("[HealthCheck] Classifier is degraded, fail-open fallbacks observed")
			}
		}
	}
}
