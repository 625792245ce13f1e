package ratelimit

import (
	"math"
	"sync"
	"time"

	"ingredient-scout/scout/pkg/config"
)

// Config holds the limiter settings.
type Config struct {
	// RequestsPerSecond is the sustained rate allowed per client.
	RequestsPerSecond float64

	// Burst is the bucket capacity per client.
	Burst int

	// MaxConcurrent caps in-flight requests across all clients. Zero means
	// unlimited.
	MaxConcurrent int

	// IdleTimeout is how long a client's bucket is kept after its last
	// request. Zero keeps buckets until they refill.
	IdleTimeout time.Duration
}

// ConfigFrom converts the server configuration section.
func ConfigFrom(c config.RateLimitConfig) Config {
	return Config{
		RequestsPerSecond: c.RequestsPerSecond,
		Burst:             c.Burst,
		MaxConcurrent:     c.MaxConcurrent,
		IdleTimeout:       c.IdleTimeout,
	}
}

// Result is the outcome of Allow.
type Result struct {
	Allowed bool

	// Limit is the client's burst capacity.
	Limit int64

	// Remaining is the number of tokens left after this request.
	Remaining int64

	// RetryAfter is set on rejection: the wait until one token is available.
	RetryAfter time.Duration
}

// RetryAfterSeconds rounds RetryAfter up to whole seconds, at least 1, for
// the Retry-After header.
func (r Result) RetryAfterSeconds() int {
	s := int(math.Ceil(r.RetryAfter.Seconds()))
	if s < 1 {
		return 1
	}
	return s
}

type client struct {
	bucket   *TokenBucket
	lastSeen time.Time
}

// Limiter keeps one token bucket per client key.
type Limiter struct {
	config     Config
	now        func() time.Time
	concurrent *ConcurrentLimiter

	mu        sync.Mutex
	clients   map[string]*client
	lastSweep time.Time
}

// NewLimiter creates a Limiter. Non-positive Burst is treated as 1.
func NewLimiter(cfg Config) *Limiter {
	return newLimiter(cfg, time.Now)
}

func newLimiter(cfg Config, now func() time.Time) *Limiter {
	if cfg.Burst < 1 {
		cfg.Burst = 1
	}
	l := &Limiter{
		config:    cfg,
		now:       now,
		clients:   make(map[string]*client),
		lastSweep: now(),
	}
	if cfg.MaxConcurrent > 0 {
		l.concurrent = NewConcurrentLimiter(cfg.MaxConcurrent)
	}
	return l
}

// Allow consumes one token from key's bucket.
func (l *Limiter) Allow(key string) Result {
	now := l.now()

	l.mu.Lock()
	l.sweepLocked(now)
	c, ok := l.clients[key]
	if !ok {
		c = &client{bucket: newTokenBucket(int64(l.config.Burst), l.config.RequestsPerSecond, l.now)}
		l.clients[key] = c
	}
	c.lastSeen = now
	l.mu.Unlock()

	ok, remaining, wait := c.bucket.TakeWithState(1)
	return Result{
		Allowed:    ok,
		Limit:      c.bucket.Capacity(),
		Remaining:  remaining,
		RetryAfter: wait,
	}
}

// Acquire takes a concurrency slot. The returned release func must be
// called when ok is true. Without MaxConcurrent it always succeeds.
func (l *Limiter) Acquire() (release func(), ok bool) {
	if l.concurrent == nil {
		return func() {}, true
	}
	if !l.concurrent.Acquire() {
		return nil, false
	}
	var once sync.Once
	return func() { once.Do(l.concurrent.Release) }, true
}

// Clients returns the number of tracked client buckets.
func (l *Limiter) Clients() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.clients)
}

// sweepLocked drops idle clients at most once per IdleTimeout. A bucket
// that has refilled is indistinguishable from a fresh one, so with no
// IdleTimeout full buckets are dropped instead.
// Caller must hold lock.
func (l *Limiter) sweepLocked(now time.Time) {
	interval := l.config.IdleTimeout
	if interval <= 0 {
		interval = time.Minute
	}
	if now.Sub(l.lastSweep) < interval {
		return
	}
	l.lastSweep = now

	for key, c := range l.clients {
		if l.config.IdleTimeout > 0 {
			if now.Sub(c.lastSeen) >= l.config.IdleTimeout {
				delete(l.clients, key)
			}
			continue
		}
		if c.bucket.Full() {
			delete(l.clients, key)
		}
	}
}
