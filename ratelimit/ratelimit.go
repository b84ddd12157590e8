// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package ratelimit

import (
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// DefaultIdleTTL is how long a key may go unused before its limiter is dropped.
const DefaultIdleTTL = 10 * time.Minute

type entry struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// KeyedRateLimiter gives each key (client IP) its own token bucket.
type KeyedRateLimiter struct {
	mu        sync.Mutex
	limiters  map[string]*entry
	limit     rate.Limit
	burst     int
	idleTTL   time.Duration
	lastPrune time.Time
	now       func() time.Time
}

// New creates a keyed limiter allowing rps requests per second per key with
// the given burst.
func New(rps float64, burst int) *KeyedRateLimiter {
	return &KeyedRateLimiter{
		limiters:  make(map[string]*entry),
		limit:     rate.Limit(rps),
		burst:     burst,
		idleTTL:   DefaultIdleTTL,
		lastPrune: time.Now(),
		now:       time.Now,
	}
}

// Allow reports whether a request for key may proceed now. It never blocks.
func (krl *KeyedRateLimiter) Allow(key string) bool {
	krl.mu.Lock()
	now := krl.now()
	krl.pruneLocked(now)

	e, ok := krl.limiters[key]
	if !ok {
		e = &entry{limiter: rate.NewLimiter(krl.limit, krl.burst)}
		krl.limiters[key] = e
	}
	e.lastSeen = now
	krl.mu.Unlock()

	return e.limiter.AllowN(now, 1)
}

// Len returns the number of keys currently tracked.
func (krl *KeyedRateLimiter) Len() int {
	krl.mu.Lock()
	defer krl.mu.Unlock()
	return len(krl.limiters)
}

// pruneLocked drops idle keys at most once per idleTTL.
func (krl *KeyedRateLimiter) pruneLocked(now time.Time) {
	if now.Sub(krl.lastPrune) < krl.idleTTL {
		return
	}
	for key, e := range krl.limiters {
		if now.Sub(e.lastSeen) >= krl.idleTTL {
			delete(krl.limiters, key)
		}
	}
	krl.lastPrune = now
}
