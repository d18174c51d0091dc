package httpx

import (
	"context"
	"net/http"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"
)

// Overall health states reported by HealthHandler.
const (
	HealthOK       = "ok"
	HealthDegraded = "degraded"
	HealthDown     = "down"
)

// HealthChecker is satisfied by any dependency exposing Ping
// (database.Database, cache.RedisClient and events.EventBus all do).
type HealthChecker interface {
	Ping(ctx context.Context) error
}

// Check is one named dependency of a service. A failing Critical check
// takes the service down; any other failure only degrades it.
type Check struct {
	Name     string
	Checker  HealthChecker
	Critical bool
}

// HealthReport is the body served by HealthHandler.
type HealthReport struct {
	Service string            `json:"service"`
	Status  string            `json:"status"`
	Checks  map[string]string `json:"checks"`
}

// RunChecks pings every check concurrently, each bounded by timeout.
// Checks with a nil Checker are reported as "disabled".
func RunChecks(ctx context.Context, service string, timeout time.Duration, checks ...Check) HealthReport {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	report := HealthReport{Service: service, Status: HealthOK, Checks: make(map[string]string, len(checks))}
	var (
		mu sync.Mutex
		g  errgroup.Group
	)
	for _, c := range checks {
		if c.Checker == nil {
			mu.Lock()
			report.Checks[c.Name] = "disabled"
			mu.Unlock()
			continue
		}
		g.Go(func() error {
			err := c.Checker.Ping(ctx)

			mu.Lock()
			defer mu.Unlock()
			if err == nil {
				report.Checks[c.Name] = HealthOK
				return nil
			}
			report.Checks[c.Name] = "unreachable"
			switch {
			case c.Critical:
				report.Status = HealthDown
			case report.Status == HealthOK:
				report.Status = HealthDegraded
			}
			return nil
		})
	}
	_ = g.Wait()
	return report
}

// HealthHandler serves RunChecks for service. The response is 503 only when
// a critical check fails.
func HealthHandler(service string, timeout time.Duration, checks ...Check) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		report := RunChecks(r.Context(), service, timeout, checks...)
		status := http.StatusOK
		if report.Status == HealthDown {
			status = http.StatusServiceUnavailable
		}
		JSON(w, status, report)
	}
}
