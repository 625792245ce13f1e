package ratelimit

import (
	"sync"
	"testing"
	"time"

	"ingredient-scout/scout/pkg/config"
)

type fakeClock struct {
	mu sync.Mutex
	t  time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{t: time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.t
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.t = c.t.Add(d)
}

// ============================================================================
// Token Bucket Tests
// ============================================================================

func TestTokenBucket_Basic(t *testing.T) {
	bucket := NewTokenBucket(10, 10)

	if !bucket.Take(5) {
		t.Error("Expected to take 5 tokens from full bucket")
	}
	if remaining := bucket.Remaining(); remaining < 5 {
		t.Errorf("Expected at least 5 remaining, got %d", remaining)
	}
	if bucket.Capacity() != 10 {
		t.Errorf("Capacity() = %d, want 10", bucket.Capacity())
	}
}

func TestTokenBucket_Refill(t *testing.T) {
	clock := newFakeClock()
	bucket := newTokenBucket(10, 10, clock.Now)

	if !bucket.Take(10) {
		t.Fatal("Expected to drain full bucket")
	}
	if bucket.Take(1) {
		t.Fatal("Expected bucket to be empty")
	}

	clock.Advance(100 * time.Millisecond)
	if !bucket.Take(1) {
		t.Error("Expected one token after 100ms at 10/sec")
	}
	if bucket.Take(1) {
		t.Error("Expected bucket to be empty again")
	}
}

func TestTokenBucket_CarriesPartialTokens(t *testing.T) {
	clock := newFakeClock()
	bucket := newTokenBucket(5, 1, clock.Now)
	bucket.Take(5)

	// 0.6s + 0.6s = 1.2s earns one token even though neither step does.
	clock.Advance(600 * time.Millisecond)
	if bucket.Take(1) {
		t.Fatal("Expected no token after 0.6s at 1/sec")
	}
	clock.Advance(600 * time.Millisecond)
	if !bucket.Take(1) {
		t.Error("Expected a token after 1.2s at 1/sec")
	}
}

func TestTokenBucket_CapacityLimit(t *testing.T) {
	clock := newFakeClock()
	bucket := newTokenBucket(10, 10, clock.Now)

	clock.Advance(time.Hour)
	if remaining := bucket.Remaining(); remaining != 10 {
		t.Errorf("Remaining() = %d, want capacity 10", remaining)
	}
	if !bucket.Full() {
		t.Error("Expected bucket to be full")
	}
}

func TestTokenBucket_TimeUntilAvailable(t *testing.T) {
	clock := newFakeClock()
	bucket := newTokenBucket(2, 2, clock.Now)

	if d := bucket.TimeUntilAvailable(1); d != 0 {
		t.Errorf("TimeUntilAvailable on full bucket = %v, want 0", d)
	}

	bucket.Take(2)
	if d := bucket.TimeUntilAvailable(1); d != 500*time.Millisecond {
		t.Errorf("TimeUntilAvailable(1) = %v, want 500ms", d)
	}

	clock.Advance(200 * time.Millisecond)
	if d := bucket.TimeUntilAvailable(1); d != 300*time.Millisecond {
		t.Errorf("TimeUntilAvailable(1) after 200ms = %v, want 300ms", d)
	}
}

func TestTokenBucket_TakeWithState(t *testing.T) {
	clock := newFakeClock()
	bucket := newTokenBucket(2, 2, clock.Now)

	ok, remaining, wait := bucket.TakeWithState(1)
	if !ok || remaining != 1 || wait != 0 {
		t.Errorf("TakeWithState(1) = %v, %d, %v, want true, 1, 0", ok, remaining, wait)
	}

	bucket.Take(1)
	ok, remaining, wait = bucket.TakeWithState(1)
	if ok || remaining != 0 || wait != 500*time.Millisecond {
		t.Errorf("TakeWithState(1) on empty bucket = %v, %d, %v, want false, 0, 500ms", ok, remaining, wait)
	}
}

func TestTokenBucket_Reset(t *testing.T) {
	clock := newFakeClock()
	bucket := newTokenBucket(3, 1, clock.Now)
	bucket.Take(3)

	bucket.Reset()
	if remaining := bucket.Remaining(); remaining != 3 {
		t.Errorf("Remaining() after Reset = %d, want 3", remaining)
	}
}

// ============================================================================
// Concurrent Limiter Tests
// ============================================================================

func TestConcurrentLimiter_Basic(t *testing.T) {
	limiter := NewConcurrentLimiter(2)

	if !limiter.Acquire() || !limiter.Acquire() {
		t.Fatal("Expected two slots")
	}
	if limiter.Acquire() {
		t.Error("Expected third Acquire to fail")
	}
	if limiter.Current() != 2 || limiter.Remaining() != 0 {
		t.Errorf("Current=%d Remaining=%d, want 2 and 0", limiter.Current(), limiter.Remaining())
	}

	limiter.Release()
	if !limiter.Acquire() {
		t.Error("Expected Acquire after Release to succeed")
	}
	if limiter.Limit() != 2 {
		t.Errorf("Limit() = %d, want 2", limiter.Limit())
	}
}

func TestConcurrentLimiter_Parallel(t *testing.T) {
	limiter := NewConcurrentLimiter(5)

	var wg sync.WaitGroup
	var mu sync.Mutex
	acquired := 0
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if limiter.Acquire() {
				mu.Lock()
				acquired++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	if acquired != 5 {
		t.Errorf("acquired = %d, want 5", acquired)
	}
	if limiter.Current() != 5 {
		t.Errorf("Current() = %d, want 5", limiter.Current())
	}
}

func TestConcurrentLimiter_ReleaseWithoutAcquire(t *testing.T) {
	limiter := NewConcurrentLimiter(1)
	limiter.Release()
	if limiter.Current() != 0 {
		t.Errorf("Current() = %d, want 0", limiter.Current())
	}
}

// ============================================================================
// Limiter Tests
// ============================================================================

func TestLimiter_PerClient(t *testing.T) {
	clock := newFakeClock()
	l := newLimiter(Config{RequestsPerSecond: 1, Burst: 2}, clock.Now)

	for i := 0; i < 2; i++ {
		res := l.Allow("a")
		if !res.Allowed {
			t.Fatalf("request %d for a rejected", i+1)
		}
		if res.Limit != 2 {
			t.Errorf("Limit = %d, want 2", res.Limit)
		}
	}

	res := l.Allow("a")
	if res.Allowed {
		t.Fatal("third request for a allowed")
	}
	if res.RetryAfter != time.Second {
		t.Errorf("RetryAfter = %v, want 1s", res.RetryAfter)
	}
	if res.RetryAfterSeconds() != 1 {
		t.Errorf("RetryAfterSeconds() = %d, want 1", res.RetryAfterSeconds())
	}

	if !l.Allow("b").Allowed {
		t.Error("client b should have its own bucket")
	}

	clock.Advance(time.Second)
	if !l.Allow("a").Allowed {
		t.Error("client a should be allowed after refill")
	}
}

func TestLimiter_Remaining(t *testing.T) {
	clock := newFakeClock()
	l := newLimiter(Config{RequestsPerSecond: 1, Burst: 3}, clock.Now)

	for want := int64(2); want >= 0; want-- {
		res := l.Allow("a")
		if res.Remaining != want {
			t.Errorf("Remaining = %d, want %d", res.Remaining, want)
		}
	}
}

func TestLimiter_RemainingConcurrent(t *testing.T) {
	const burst = 50
	// No refill, so every allowed request must see a distinct count.
	l := NewLimiter(Config{RequestsPerSecond: 0, Burst: burst})

	var wg sync.WaitGroup
	results := make(chan Result, burst)
	for i := 0; i < burst; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			results <- l.Allow("a")
		}()
	}
	wg.Wait()
	close(results)

	seen := make(map[int64]bool)
	for res := range results {
		if !res.Allowed {
			t.Fatal("request within burst rejected")
		}
		if seen[res.Remaining] {
			t.Errorf("Remaining %d reported twice", res.Remaining)
		}
		seen[res.Remaining] = true
	}
	for want := int64(0); want < burst; want++ {
		if !seen[want] {
			t.Errorf("Remaining %d never reported", want)
		}
	}

	if res := l.Allow("a"); res.Allowed || res.Remaining != 0 {
		t.Errorf("Allow() after burst = %+v, want rejected with 0 remaining", res)
	}
}

func TestLimiter_IdleEviction(t *testing.T) {
	clock := newFakeClock()
	l := newLimiter(Config{RequestsPerSecond: 1, Burst: 1, IdleTimeout: time.Minute}, clock.Now)

	l.Allow("a")
	l.Allow("b")
	if l.Clients() != 2 {
		t.Fatalf("Clients() = %d, want 2", l.Clients())
	}

	clock.Advance(30 * time.Second)
	l.Allow("b")

	clock.Advance(40 * time.Second)
	l.Allow("c")

	// a idle for 70s is dropped; b idle for 40s is kept.
	if got := l.Clients(); got != 2 {
		t.Errorf("Clients() = %d, want 2", got)
	}
}

func TestLimiter_SweepFullBucketsWithoutIdleTimeout(t *testing.T) {
	clock := newFakeClock()
	l := newLimiter(Config{RequestsPerSecond: 10, Burst: 1}, clock.Now)

	l.Allow("a")
	clock.Advance(2 * time.Minute)
	l.Allow("b")

	if got := l.Clients(); got != 1 {
		t.Errorf("Clients() = %d, want 1", got)
	}
}

func TestLimiter_Acquire(t *testing.T) {
	l := NewLimiter(Config{RequestsPerSecond: 1, Burst: 1, MaxConcurrent: 1})

	release, ok := l.Acquire()
	if !ok {
		t.Fatal("first Acquire failed")
	}
	if _, ok := l.Acquire(); ok {
		t.Error("second Acquire succeeded past MaxConcurrent")
	}

	release()
	release()
	if _, ok := l.Acquire(); !ok {
		t.Error("Acquire after release failed")
	}
}

func TestLimiter_AcquireUnlimited(t *testing.T) {
	l := NewLimiter(Config{RequestsPerSecond: 1, Burst: 1})
	for i := 0; i < 100; i++ {
		if _, ok := l.Acquire(); !ok {
			t.Fatal("Acquire failed without MaxConcurrent")
		}
	}
}

func TestLimiter_ZeroBurst(t *testing.T) {
	l := NewLimiter(Config{RequestsPerSecond: 1})
	if !l.Allow("a").Allowed {
		t.Error("zero burst should admit one request")
	}
}

func TestConfigFrom(t *testing.T) {
	got := ConfigFrom(config.RateLimitConfig{
		Enabled:           true,
		RequestsPerSecond: 2.5,
		Burst:             4,
		MaxConcurrent:     8,
		IdleTimeout:       time.Minute,
	})
	want := Config{RequestsPerSecond: 2.5, Burst: 4, MaxConcurrent: 8, IdleTimeout: time.Minute}
	if got != want {
		t.Errorf("ConfigFrom() = %+v, want %+v", got, want)
	}
}
