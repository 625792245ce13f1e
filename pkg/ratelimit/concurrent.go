package ratelimit

import "sync/atomic"

// ConcurrentLimiter limits the number of simultaneous in-flight requests.
// It is a lock-free counting semaphore.
type ConcurrentLimiter struct {
	limit   int64
	current atomic.Int64
}

// NewConcurrentLimiter creates a limiter that admits up to limit requests
// at once.
//
//	if limiter.Acquire() {
//	    defer limiter.Release()
//	    // process request
//	}
func NewConcurrentLimiter(limit int) *ConcurrentLimiter {
	return &ConcurrentLimiter{limit: int64(limit)}
}

// Acquire attempts to take a slot. If it returns true the caller must call
// Release when done.
func (cl *ConcurrentLimiter) Acquire() bool {
	if cl.current.Add(1) > cl.limit {
		cl.current.Add(-1)
		return false
	}
	return true
}

// Release returns a slot taken by Acquire.
func (cl *ConcurrentLimiter) Release() {
	if cl.current.Add(-1) < 0 {
		cl.current.Store(0)
	}
}

// Current returns the number of requests in flight.
func (cl *ConcurrentLimiter) Current() int64 {
	return cl.current.Load()
}

// Limit returns the configured maximum.
func (cl *ConcurrentLimiter) Limit() int64 {
	return cl.limit
}

// Remaining returns the number of free slots.
func (cl *ConcurrentLimiter) Remaining() int64 {
	r := cl.limit - cl.current.Load()
	if r < 0 {
		return 0
	}
	return r
}
