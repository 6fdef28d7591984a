package observability

import (
	"context"
	"encoding/json"
	"net/http"
	"slices"
	"strings"
	"sync"
	"time"
)

type HealthStatus string

const (
	HealthStatusHealthy   HealthStatus = "healthy"
	HealthStatusDegraded  HealthStatus = "degraded"
	HealthStatusUnhealthy HealthStatus = "unhealthy"
)

func (s HealthStatus) rank() int {
	switch s {
	case HealthStatusHealthy:
		return 0
	case HealthStatusDegraded:
		return 1
	default:
		return 2
	}
}

type HealthCheckResult struct {
	Status   HealthStatus `json:"status"`
	Message  string       `json:"message,omitempty"`
	Duration int64        `json:"duration_ms"`
}

type HealthChecker func(ctx context.Context) HealthCheckResult

// OverallHealth is the worst status across all checks.
type OverallHealth struct {
	Status    HealthStatus                 `json:"status"`
	Timestamp time.Time                    `json:"timestamp"`
	Checks    map[string]HealthCheckResult `json:"checks,omitempty"`
}

type namedCheck struct {
	name string
	fn   HealthChecker
}

// HealthRegistry holds named checks. Checks run with a per-check timeout.
type HealthRegistry struct {
	mu      sync.RWMutex
	checks  []namedCheck
	timeout time.Duration
}

func NewHealthRegistry() *HealthRegistry {
	return &HealthRegistry{timeout: 3 * time.Second}
}

// Register adds or replaces the check called name.
func (r *HealthRegistry) Register(name string, checker HealthChecker) {
	r.mu.Lock()
	defer r.mu.Unlock()
	i, found := slices.BinarySearchFunc(r.checks, name, func(c namedCheck, n string) int {
		return strings.Compare(c.name, n)
	})
	if found {
		r.checks[i].fn = checker
		return
	}
	r.checks = slices.Insert(r.checks, i, namedCheck{name: name, fn: checker})
}

// Names lists registered checks alphabetically.
func (r *HealthRegistry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]string, len(r.checks))
	for i, c := range r.checks {
		out[i] = c.name
	}
	return out
}

// Check runs every check concurrently.
func (r *HealthRegistry) Check(ctx context.Context) OverallHealth {
	r.mu.RLock()
	checks := slices.Clone(r.checks)
	r.mu.RUnlock()

	results := make([]HealthCheckResult, len(checks))
	var wg sync.WaitGroup
	for i, c := range checks {
		wg.Go(func() {
			checkCtx, cancel := context.WithTimeout(ctx, r.timeout)
			defer cancel()
			started := time.Now()
			res := c.fn(checkCtx)
			res.Duration = time.Since(started).Milliseconds()
			results[i] = res
		})
	}
	wg.Wait()

	overall := OverallHealth{
		Status:    HealthStatusHealthy,
		Timestamp: time.Now().UTC(),
		Checks:    make(map[string]HealthCheckResult, len(checks)),
	}
	for i, c := range checks {
		overall.Checks[c.name] = results[i]
		if results[i].Status.rank() > overall.Status.rank() {
			overall.Status = results[i].Status
		}
	}
	return overall
}

// Handler serves Check as JSON; unhealthy answers 503.
func (r *HealthRegistry) Handler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		report := r.Check(req.Context())
		code := http.StatusOK
		if report.Status == HealthStatusUnhealthy {
			code = http.StatusServiceUnavailable
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(code)
		_ = json.NewEncoder(w).Encode(report)
	})
}

// PingChecker marks the app unhealthy when ping fails.
func PingChecker(component string, ping func(ctx context.Context) error) HealthChecker {
	return pingChecker(component, ping, HealthStatusUnhealthy)
}

// OptionalPingChecker only degrades the app when ping fails, for
// dependencies it can run without.
func OptionalPingChecker(component string, ping func(ctx context.Context) error) HealthChecker {
	return pingChecker(component, ping, HealthStatusDegraded)
}

func pingChecker(component string, ping func(ctx context.Context) error, onFailure HealthStatus) HealthChecker {
	return func(ctx context.Context) HealthCheckResult {
		if err := ping(ctx); err != nil {
			return HealthCheckResult{Status: onFailure, Message: component + ": " + err.Error()}
		}
		return HealthCheckResult{Status: HealthStatusHealthy}
	}
}
