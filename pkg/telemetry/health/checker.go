package health

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"
)

// Status values reported by the endpoints.
const (
	StatusHealthy   = "healthy"
	StatusReady     = "ready"
	StatusDegraded  = "degraded"
	StatusOK        = "ok"
	StatusUnhealthy = "unhealthy"
)

// DefaultCheckTimeout bounds a single readiness check.
const DefaultCheckTimeout = 5 * time.Second

// ErrCheckTimeout is reported when a check does not finish in time.
var ErrCheckTimeout = errors.New("health check timeout")

// CheckFunc reports whether a component is usable. A nil error means healthy.
type CheckFunc func(ctx context.Context) error

// CheckResult is the outcome of one readiness check.
type CheckResult struct {
	// Status is "ok" or "unhealthy".
	Status string `json:"status"`

	// Message explains an unhealthy status.
	Message string `json:"message,omitempty"`

	// DurationMS is how long the check took.
	DurationMS float64 `json:"duration_ms"`
}

// Liveness is the body of the liveness endpoint.
type Liveness struct {
	Status  string `json:"status"`
	Service string `json:"service"`
}

// Readiness is the body of the readiness endpoint.
type Readiness struct {
	Status    string                 `json:"status"`
	Checks    map[string]CheckResult `json:"checks"`
	Timestamp time.Time              `json:"timestamp"`
}

// Ready reports whether every check passed.
func (r Readiness) Ready() bool {
	return r.Status == StatusReady
}

// Checker runs named readiness checks.
type Checker struct {
	mu      sync.RWMutex
	checks  map[string]CheckFunc
	timeout time.Duration
}

// New creates a Checker. A zero timeout uses DefaultCheckTimeout.
func New(timeout time.Duration) *Checker {
	if timeout <= 0 {
		timeout = DefaultCheckTimeout
	}
	return &Checker{
		checks:  make(map[string]CheckFunc),
		timeout: timeout,
	}
}

// Register adds or replaces the check for name.
func (c *Checker) Register(name string, check CheckFunc) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.checks[name] = check
}

// Unregister removes the check for name.
func (c *Checker) Unregister(name string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.checks, name)
}

// Names returns the registered check names in sorted order.
func (c *Checker) Names() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()

	names := make([]string, 0, len(c.checks))
	for name := range c.checks {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// CheckLiveness reports the process as healthy.
func (c *Checker) CheckLiveness(service string) Liveness {
	return Liveness{Status: StatusHealthy, Service: service}
}

// CheckReadiness runs every registered check concurrently. With no checks
// registered the service is ready.
func (c *Checker) CheckReadiness(ctx context.Context) Readiness {
	c.mu.RLock()
	checks := make(map[string]CheckFunc, len(c.checks))
	for name, check := range c.checks {
		checks[name] = check
	}
	c.mu.RUnlock()

	results := make(map[string]CheckResult, len(checks))
	var mu sync.Mutex
	var wg sync.WaitGroup

	for name, check := range checks {
		wg.Add(1)
		go func() {
			defer wg.Done()
			result := c.run(ctx, check)

			mu.Lock()
			results[name] = result
			mu.Unlock()
		}()
	}
	wg.Wait()

	status := StatusReady
	for _, result := range results {
		if result.Status != StatusOK {
			status = StatusDegraded
			break
		}
	}

	return Readiness{
		Status:    status,
		Checks:    results,
		Timestamp: time.Now().UTC(),
	}
}

// run executes check, giving up after the checker timeout even if the check
// ignores its context.
func (c *Checker) run(ctx context.Context, check CheckFunc) CheckResult {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	start := time.Now()
	errCh := make(chan error, 1)
	go func() {
		errCh <- check(ctx)
	}()

	var err error
	select {
	case err = <-errCh:
	case <-ctx.Done():
		err = ErrCheckTimeout
	}

	result := CheckResult{
		Status:     StatusOK,
		DurationMS: float64(time.Since(start).Microseconds()) / 1000,
	}
	if err != nil {
		result.Status = StatusUnhealthy
		result.Message = err.Error()
	}
	return result
}
