// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

// Package ratelimit provides a per-key token bucket limiter built on
// golang.org/x/time/rate. The router uses it to throttle login and
// registration attempts per client IP. Keys idle for DefaultIdleTTL are
// dropped lazily on later calls, so no background goroutine is needed.
package ratelimit
