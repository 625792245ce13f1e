package ratelimit

import (
	"sync"
	"time"
)

// TokenBucket implements the token bucket rate limiting algorithm.
//
// The bucket allows bursts up to its capacity while holding an average
// rate over time. Tokens are added at a constant refill rate and each
// request consumes one or more of them.
//
// Partial tokens are carried between refills: lastRefill only advances by
// the time that the whole tokens added account for.
//
// TokenBucket is safe for concurrent use.
type TokenBucket struct {
	capacity   int64
	tokens     int64
	refillRate float64 // tokens per second
	lastRefill time.Time
	now        func() time.Time
	mu         sync.Mutex
}

// NewTokenBucket creates a full bucket.
//
//	// 5 requests/sec average, burst up to 10
//	bucket := NewTokenBucket(10, 5)
func NewTokenBucket(capacity int64, refillRate float64) *TokenBucket {
	return newTokenBucket(capacity, refillRate, time.Now)
}

func newTokenBucket(capacity int64, refillRate float64, now func() time.Time) *TokenBucket {
	return &TokenBucket{
		capacity:   capacity,
		tokens:     capacity,
		refillRate: refillRate,
		lastRefill: now(),
		now:        now,
	}
}

// Take attempts to consume n tokens and reports whether it did.
func (tb *TokenBucket) Take(n int64) bool {
	ok, _, _ := tb.TakeWithState(n)
	return ok
}

// TakeWithState is Take that also returns the tokens left afterwards and,
// when the take fails, how long until n tokens will be available. All
// three values come from the same locked snapshot of the bucket.
func (tb *TokenBucket) TakeWithState(n int64) (ok bool, remaining int64, wait time.Duration) {
	tb.mu.Lock()
	defer tb.mu.Unlock()

	tb.refillLocked()

	if tb.tokens >= n {
		tb.tokens -= n
		return true, tb.tokens, 0
	}
	return false, tb.tokens, tb.waitLocked(n)
}

// Remaining returns the number of tokens currently available.
func (tb *TokenBucket) Remaining() int64 {
	tb.mu.Lock()
	defer tb.mu.Unlock()

	tb.refillLocked()
	return tb.tokens
}

// Capacity returns the maximum bucket capacity.
func (tb *TokenBucket) Capacity() int64 {
	return tb.capacity
}

// Full reports whether the bucket has refilled to capacity.
func (tb *TokenBucket) Full() bool {
	return tb.Remaining() >= tb.capacity
}

// Reset refills the bucket to capacity.
func (tb *TokenBucket) Reset() {
	tb.mu.Lock()
	defer tb.mu.Unlock()

	tb.tokens = tb.capacity
	tb.lastRefill = tb.now()
}

// TimeUntilAvailable returns how long until n tokens will be available.
// It returns 0 if they are available now.
func (tb *TokenBucket) TimeUntilAvailable(n int64) time.Duration {
	tb.mu.Lock()
	defer tb.mu.Unlock()

	tb.refillLocked()
	return tb.waitLocked(n)
}

// waitLocked returns how long until n tokens will be available.
// Caller must hold lock.
func (tb *TokenBucket) waitLocked(n int64) time.Duration {
	if tb.tokens >= n {
		return 0
	}
	if tb.refillRate <= 0 {
		return time.Duration(1<<63 - 1)
	}

	needed := float64(n-tb.tokens) / tb.refillRate
	wait := time.Duration(needed*float64(time.Second)) - tb.now().Sub(tb.lastRefill)
	if wait < 0 {
		return 0
	}
	return wait
}

// refillLocked adds the whole tokens earned since lastRefill.
// Caller must hold lock.
func (tb *TokenBucket) refillLocked() {
	now := tb.now()
	if tb.tokens >= tb.capacity {
		tb.lastRefill = now
		return
	}
	if tb.refillRate <= 0 {
		return
	}

	elapsed := now.Sub(tb.lastRefill)
	tokensToAdd := int64(elapsed.Seconds() * tb.refillRate)
	if tokensToAdd <= 0 {
		return
	}

	tb.tokens += tokensToAdd
	if tb.tokens >= tb.capacity {
		tb.tokens = tb.capacity
		tb.lastRefill = now
		return
	}
	tb.lastRefill = tb.lastRefill.Add(time.Duration(float64(tokensToAdd) / tb.refillRate * float64(time.Second)))
}
