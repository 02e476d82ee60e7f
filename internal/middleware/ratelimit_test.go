// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func TestRateLimiterAllow(t *testing.T) {
	rl := NewRateLimiter(3, 1*time.Second)
	defer rl.Stop()

	for i := 0; i < 3; i++ {
		if !rl.allow("test-ip") {
			t.Fatalf("request %d should be allowed", i+1)
		}
	}

	if rl.allow("test-ip") {
		t.Error("4th request should be rate-limited")
	}

	if !rl.allow("other-ip") {
		t.Error("different IP should be allowed")
	}
}

func TestRateLimiterWindowExpiry(t *testing.T) {
	rl := NewRateLimiter(2, 100*time.Millisecond)
	defer rl.Stop()

	rl.allow("test-ip")
	rl.allow("test-ip")

	if rl.allow("test-ip") {
		t.Error("should be rate-limited")
	}

	time.Sleep(150 * time.Millisecond)

	if !rl.allow("test-ip") {
		t.Error("should be allowed after window expires")
	}
}

func TestRateLimiterMiddleware(t *testing.T) {
	rl := NewRateLimiter(1, 1*time.Second)
	defer rl.Stop()

	handler := rl.Middleware(okHandler())

	req := httptest.NewRequest(http.MethodPost, "/api/auth/login", nil)
	req.RemoteAddr = "10.0.0.1:54321"
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)
	if rr.Code != http.StatusOK {
		t.Fatalf("first request status = %d, want 200", rr.Code)
	}

	rr = httptest.NewRecorder()
	handler.ServeHTTP(rr, req)
	if rr.Code != http.StatusTooManyRequests {
		t.Errorf("second request status = %d, want 429", rr.Code)
	}

	// Another client IP is unaffected.
	req2 := httptest.NewRequest(http.MethodPost, "/api/auth/login", nil)
	req2.RemoteAddr = "10.0.0.2:54321"
	rr = httptest.NewRecorder()
	handler.ServeHTTP(rr, req2)
	if rr.Code != http.StatusOK {
		t.Errorf("other client status = %d, want 200", rr.Code)
	}
}

func TestClientIP(t *testing.T) {
	tests := []struct {
		name       string
		remoteAddr string
		xff        string
		xRealIP    string
		want       string
	}{
		{"remote addr only", "192.168.1.10:5000", "", "", "192.168.1.10"},
		{"x-forwarded-for single", "10.0.0.1:80", "203.0.113.7", "", "203.0.113.7"},
		{"x-forwarded-for chain", "10.0.0.1:80", "203.0.113.7, 10.0.0.2", "", "203.0.113.7"},
		{"x-real-ip", "10.0.0.1:80", "", "203.0.113.9", "203.0.113.9"},
		{"xff wins over x-real-ip", "10.0.0.1:80", "203.0.113.7", "203.0.113.9", "203.0.113.7"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			req.RemoteAddr = tt.remoteAddr
			if tt.xff != "" {
				req.Header.Set("X-Forwarded-For", tt.xff)
			}
			if tt.xRealIP != "" {
				req.Header.Set("X-Real-IP", tt.xRealIP)
			}

			if got := clientIP(req); got != tt.want {
				t.Errorf("clientIP = %q, want %q", got, tt.want)
			}
		})
	}
}
