// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package middleware provides HTTP middleware and response helpers.

# Request Logging

	mux.HandleFunc("GET /buglist", middleware.WithLogging(handler))

Logs completion with method, path, status, duration_ms and the chi request
id. Responses with a 5xx status are logged at error level.

# Metrics

	m := middleware.NewMetrics(registry)
	mux.HandleFunc("GET /buglist", m.Instrument("GET /buglist", handler))

Counts bugtracker_http_requests_total by route, method and code and observes
bugtracker_http_request_duration_seconds by route.

# Rate Limiting

	mux.HandleFunc("POST /login", middleware.RateLimit(limiter, handler))

Answers 429 "Too many requests" once a client IP exceeds its token bucket.

# Responses

	middleware.ErrorResponse(w, http.StatusBadRequest, "No bug title provided")
	middleware.SeeOther(w, r, "/bugs/7")

Errors are plain text. Successful form posts redirect with 303.

# Client IP Extraction

	ip := middleware.GetClientIP(r)

Returns RemoteAddr without its port. Client-supplied X-Forwarded-For and
X-Real-IP headers are not consulted; with -trust-proxy the router runs chi's
RealIP first, which rewrites RemoteAddr from them.
*/
package middleware
