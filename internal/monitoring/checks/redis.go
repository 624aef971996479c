package checks

import (
	"context"
	"time"

	"github.com/ymango/ymango/internal/monitoring"
)

const defaultRedisTimeout = 2 * time.Second

// RedisPinger is the part of the cache client the probe needs.
type RedisPinger interface {
	Ping(ctx context.Context) error
}

// Redis returns a readiness probe for the rate limit cache. A configured but
// unreachable cache is degraded, not down, because limits fall back to memory.
func Redis(client RedisPinger, enabled bool, timeout time.Duration) monitoring.Check {
	return monitoring.NewCheck("redis", func(ctx context.Context) monitoring.ProbeResult {
		start := time.Now()
		if !enabled {
			return monitoring.ProbeResult{Status: monitoring.StatusUp, Details: "redis disabled"}
		}
		if client == nil {
			return monitoring.ProbeResult{Status: monitoring.StatusDegraded, Details: "redis unavailable; using in-memory rate limits"}
		}

		probeCtx, cancel := context.WithTimeout(ctx, chooseTimeout(timeout, defaultRedisTimeout))
		defer cancel()

		result := monitoring.ResultFromError("redis", client.Ping(probeCtx), time.Since(start))
		if result.Status == monitoring.StatusDown {
			result.Status = monitoring.StatusDegraded
		}
		return result
	})
}
