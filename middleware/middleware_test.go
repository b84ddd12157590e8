// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package middleware

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	promtest "github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/danielhkuo/bug-tracker/ratelimit"
)

func TestWithLogging(t *testing.T) {
	// Create a simple handler that returns OK
	handlerCalled := false
	testHandler := func(w http.ResponseWriter, r *http.Request) {
		handlerCalled = true
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("success"))
	}

	// Wrap with logging middleware
	wrappedHandler := WithLogging(testHandler)

	req := httptest.NewRequest("GET", "/test-path", nil)
	w := httptest.NewRecorder()

	wrappedHandler(w, req)

	if !handlerCalled {
		t.Error("Expected handler to be called")
	}
	if w.Code != http.StatusOK {
		t.Errorf("Expected status 200, got %d", w.Code)
	}
	if w.Body.String() != "success" {
		t.Errorf("Expected body 'success', got '%s'", w.Body.String())
	}
}

func TestWithLogging_PreservesResponse(t *testing.T) {
	// Test that logging doesn't interfere with various response codes
	testCases := []struct {
		name       string
		statusCode int
		body       string
	}{
		{"OK", http.StatusOK, "ok"},
		{"SeeOther", http.StatusSeeOther, ""},
		{"BadRequest", http.StatusBadRequest, "No bug title provided"},
		{"NotFound", http.StatusNotFound, "not found"},
		{"InternalError", http.StatusInternalServerError, "error"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			handler := WithLogging(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tc.statusCode)
				w.Write([]byte(tc.body))
			})

			req := httptest.NewRequest("POST", "/createbug", nil)
			w := httptest.NewRecorder()

			handler(w, req)

			if w.Code != tc.statusCode {
				t.Errorf("Expected status %d, got %d", tc.statusCode, w.Code)
			}
			if w.Body.String() != tc.body {
				t.Errorf("Expected body '%s', got '%s'", tc.body, w.Body.String())
			}
		})
	}
}

func TestStatusRecorder(t *testing.T) {
	testCases := []struct {
		name    string
		handler http.HandlerFunc
		want    int
	}{
		{"implicit 200 on write", func(w http.ResponseWriter, r *http.Request) { w.Write([]byte("x")) }, http.StatusOK},
		{"nothing written", func(w http.ResponseWriter, r *http.Request) {}, http.StatusOK},
		{"explicit status", func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(http.StatusTeapot) }, http.StatusTeapot},
		{"first status wins", func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusNotFound)
			w.WriteHeader(http.StatusOK)
		}, http.StatusNotFound},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			rec := &statusRecorder{ResponseWriter: httptest.NewRecorder()}
			tc.handler(rec, httptest.NewRequest("GET", "/", nil))
			if rec.Status() != tc.want {
				t.Errorf("Status() = %d, want %d", rec.Status(), tc.want)
			}
		})
	}
}

func TestErrorResponse(t *testing.T) {
	testCases := []struct {
		name       string
		statusCode int
		message    string
	}{
		{"bad request", http.StatusBadRequest, "No user name provided"},
		{"forbidden", http.StatusForbidden, "invalid CSRF token"},
		{"not found", http.StatusNotFound, "Bug not found"},
		{"internal error", http.StatusInternalServerError, "Failed to update user"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			ErrorResponse(w, tc.statusCode, tc.message)

			if w.Code != tc.statusCode {
				t.Errorf("Expected status %d, got %d", tc.statusCode, w.Code)
			}
			if ct := w.Header().Get("Content-Type"); !strings.HasPrefix(ct, "text/plain") {
				t.Errorf("Expected text/plain, got %s", ct)
			}
			if w.Body.String() != tc.message {
				t.Errorf("Expected body %q, got %q", tc.message, w.Body.String())
			}
		})
	}
}

func TestSeeOther(t *testing.T) {
	w := httptest.NewRecorder()
	SeeOther(w, httptest.NewRequest("POST", "/createbug", nil), "/bugs/7")

	if w.Code != http.StatusSeeOther {
		t.Errorf("Expected status 303, got %d", w.Code)
	}
	if loc := w.Header().Get("Location"); loc != "/bugs/7" {
		t.Errorf("Expected Location /bugs/7, got %q", loc)
	}
}

func TestRateLimit(t *testing.T) {
	limiter := ratelimit.New(0.001, 2)
	calls := 0
	handler := RateLimit(limiter, func(w http.ResponseWriter, r *http.Request) {
		calls++
		w.WriteHeader(http.StatusSeeOther)
	})

	send := func(ip string) *httptest.ResponseRecorder {
		req := httptest.NewRequest("POST", "/login", nil)
		req.RemoteAddr = ip + ":1234"
		w := httptest.NewRecorder()
		handler(w, req)
		return w
	}

	for i := 0; i < 2; i++ {
		if w := send("10.0.0.1"); w.Code != http.StatusSeeOther {
			t.Fatalf("request %d: expected 303, got %d", i+1, w.Code)
		}
	}

	w := send("10.0.0.1")
	if w.Code != http.StatusTooManyRequests {
		t.Errorf("Expected 429, got %d", w.Code)
	}
	if w.Body.String() != "Too many requests" {
		t.Errorf("Expected body 'Too many requests', got %q", w.Body.String())
	}
	if w.Header().Get("Retry-After") == "" {
		t.Error("Expected Retry-After header")
	}

	// A different client is unaffected
	if w := send("10.0.0.2"); w.Code != http.StatusSeeOther {
		t.Errorf("Expected 303 for second client, got %d", w.Code)
	}
	if calls != 3 {
		t.Errorf("Expected handler to be called 3 times, got %d", calls)
	}
}

func TestMetrics_Instrument(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewMetrics(reg)

	ok := m.Instrument("GET /bugs/{bugid}", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("bug"))
	})
	missing := m.Instrument("GET /bugs/{bugid}", func(w http.ResponseWriter, r *http.Request) {
		ErrorResponse(w, http.StatusNotFound, "Bug not found")
	})

	ok(httptest.NewRecorder(), httptest.NewRequest("GET", "/bugs/1", nil))
	ok(httptest.NewRecorder(), httptest.NewRequest("GET", "/bugs/2", nil))
	missing(httptest.NewRecorder(), httptest.NewRequest("GET", "/bugs/3", nil))

	if got := promtest.ToFloat64(m.requests.WithLabelValues("GET /bugs/{bugid}", "GET", "200")); got != 2 {
		t.Errorf("200 count = %v, want 2", got)
	}
	if got := promtest.ToFloat64(m.requests.WithLabelValues("GET /bugs/{bugid}", "GET", "404")); got != 1 {
		t.Errorf("404 count = %v, want 1", got)
	}
	if n := promtest.CollectAndCount(m.duration); n != 1 {
		t.Errorf("duration series = %d, want 1", n)
	}
}

func TestGetClientIP(t *testing.T) {
	testCases := []struct {
		name       string
		headers    map[string]string
		remoteAddr string
		expectedIP string
	}{
		{
			name:       "X-Forwarded-For is ignored",
			headers:    map[string]string{"X-Forwarded-For": "192.168.1.100"},
			remoteAddr: "10.0.0.1:12345",
			expectedIP: "10.0.0.1",
		},
		{
			name:       "X-Real-IP is ignored",
			headers:    map[string]string{"X-Real-IP": "203.0.113.50"},
			remoteAddr: "10.0.0.1:12345",
			expectedIP: "10.0.0.1",
		},
		{
			name:       "RemoteAddr with port",
			headers:    map[string]string{},
			remoteAddr: "192.168.1.50:54321",
			expectedIP: "192.168.1.50",
		},
		{
			name:       "RemoteAddr without port",
			headers:    map[string]string{},
			remoteAddr: "192.168.1.50",
			expectedIP: "192.168.1.50",
		},
		{
			name:       "IPv6 RemoteAddr with port",
			headers:    map[string]string{},
			remoteAddr: "[::1]:12345",
			expectedIP: "::1",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest("GET", "/", nil)
			req.RemoteAddr = tc.remoteAddr

			for k, v := range tc.headers {
				req.Header.Set(k, v)
			}

			result := GetClientIP(req)

			if result != tc.expectedIP {
				t.Errorf("Expected IP '%s', got '%s'", tc.expectedIP, result)
			}
		})
	}
}
