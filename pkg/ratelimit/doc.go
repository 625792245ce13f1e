// Package ratelimit throttles analysis requests per client.
//
// Each client key (normally the remote IP) gets its own TokenBucket: the
// bucket holds up to Burst tokens and refills at RequestsPerSecond. A
// request that finds the bucket empty is rejected with the time until the
// next token.
//
// A ConcurrentLimiter caps the number of analyses in flight across all
// clients when MaxConcurrent is positive.
//
// Buckets of clients that have been idle for IdleTimeout are dropped
// lazily on the next Allow call, so the Limiter needs no background
// goroutine.
//
// # Usage
//
//	l := ratelimit.NewLimiter(ratelimit.ConfigFrom(cfg.Server.RateLimit))
//	res := l.Allow("203.0.113.7")
//	if !res.Allowed {
//	    // reply 429 with Retry-After: res.RetryAfter
//	}
package ratelimit
