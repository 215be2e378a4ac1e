package middleware

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"golang.org/x/time/rate"
)

func okHandler(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
}

func TestNewIPRateLimiter(t *testing.T) {
	limiter := NewIPRateLimiter(10, 20)
	defer limiter.Stop()

	if limiter.rate != 10 || limiter.burst != 20 {
		t.Errorf("Expected 10/20, got %v/%d", limiter.rate, limiter.burst)
	}
	if len(limiter.visitors) != 0 {
		t.Errorf("Expected no visitors yet, got %d", len(limiter.visitors))
	}
}

func TestIPRateLimiter_GetLimiter(t *testing.T) {
	limiter := NewIPRateLimiter(10, 20)
	defer limiter.Stop()

	first := limiter.GetLimiter("203.0.113.7")
	if first != limiter.GetLimiter("203.0.113.7") {
		t.Error("Expected one bucket per address")
	}
	if first == limiter.GetLimiter("203.0.113.8") {
		t.Error("Expected a separate bucket for another address")
	}
}

func TestIPRateLimiter_Burst(t *testing.T) {
	tests := []struct {
		name    string
		burst   int
		allowed int
	}{
		{"Single", 1, 1},
		{"Form posts", 3, 3},
		{"Upgrade storm", 5, 5},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			// A slow refill keeps the bucket empty for the whole test
			limiter := NewIPRateLimiter(rate.Every(time.Hour), tc.burst)
			defer limiter.Stop()

			got := 0
			for i := 0; i < tc.burst+2; i++ {
				if limiter.Allow("198.51.100.1") {
					got++
				}
			}
			if got != tc.allowed {
				t.Errorf("Expected %d allowed, got %d", tc.allowed, got)
			}
		})
	}
}

func TestIPRateLimiter_Refill(t *testing.T) {
	limiter := NewIPRateLimiter(rate.Limit(10), 1)
	defer limiter.Stop()

	ip := "198.51.100.2"
	if !limiter.Allow(ip) {
		t.Fatal("Expected first request to pass")
	}
	if limiter.Allow(ip) {
		t.Fatal("Expected empty bucket")
	}

	time.Sleep(150 * time.Millisecond)

	if !limiter.Allow(ip) {
		t.Error("Expected a token after the refill interval")
	}
}

func TestIPRateLimiter_ConcurrentVisitors(t *testing.T) {
	limiter := NewIPRateLimiter(100, 100)
	defer limiter.Stop()

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			limiter.Allow(fmt.Sprintf("10.1.0.%d", i%10))
		}(i)
	}
	wg.Wait()

	limiter.mu.Lock()
	n := len(limiter.visitors)
	limiter.mu.Unlock()
	if n != 10 {
		t.Errorf("Expected 10 tracked visitors, got %d", n)
	}
}

func TestIPRateLimiter_Prune(t *testing.T) {
	limiter := NewIPRateLimiter(10, 20)
	defer limiter.Stop()

	limiter.Allow("192.0.2.1")
	limiter.Allow("192.0.2.2")

	if removed := limiter.prune(time.Now().Add(-time.Minute)); removed != 0 {
		t.Errorf("Expected recent visitors to stay, pruned %d", removed)
	}
	if removed := limiter.prune(time.Now().Add(time.Minute)); removed != 2 {
		t.Errorf("Expected 2 idle visitors pruned, got %d", removed)
	}
	if len(limiter.visitors) != 0 {
		t.Errorf("Expected empty visitor map, got %d", len(limiter.visitors))
	}
}

func TestIPRateLimiter_StopTwice(t *testing.T) {
	limiter := NewIPRateLimiter(1, 1)
	limiter.Stop()
	limiter.Stop()
}

func TestRateLimitMiddleware(t *testing.T) {
	limiter := NewIPRateLimiter(1, 1)
	defer limiter.Stop()
	handler := RateLimitMiddleware(limiter)(http.HandlerFunc(okHandler))

	req := httptest.NewRequest("POST", "/meeting/quick-meet-abcd-1234/intent", nil)
	req.RemoteAddr = "192.0.2.10:40000"

	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("Expected first intent to pass, got %d", w.Code)
	}

	w = httptest.NewRecorder()
	handler.ServeHTTP(w, req)
	if w.Code != http.StatusTooManyRequests {
		t.Errorf("Expected 429, got %d", w.Code)
	}
	if w.Header().Get("Retry-After") == "" {
		t.Error("Expected Retry-After on a limited response")
	}
}

func TestRateLimitMiddleware_SeparateIPs(t *testing.T) {
	limiter := NewIPRateLimiter(1, 1)
	defer limiter.Stop()
	handler := RateLimitMiddleware(limiter)(http.HandlerFunc(okHandler))

	for _, addr := range []string{"10.0.0.1:1000", "10.0.0.2:1000"} {
		req := httptest.NewRequest("POST", "/create", nil)
		req.RemoteAddr = addr
		w := httptest.NewRecorder()
		handler.ServeHTTP(w, req)

		if w.Code != http.StatusOK {
			t.Errorf("Expected first request from %s to pass, got %d", addr, w.Code)
		}
	}
}

func TestRateLimitFunc(t *testing.T) {
	limiter := NewIPRateLimiter(1, 1)
	defer limiter.Stop()
	upgrade := RateLimitFunc(limiter, okHandler)

	codes := make([]int, 0, 2)
	for i := 0; i < 2; i++ {
		req := httptest.NewRequest("GET", "/ws", nil)
		req.RemoteAddr = "192.0.2.20:5000"
		w := httptest.NewRecorder()
		upgrade(w, req)
		codes = append(codes, w.Code)
	}

	if codes[0] != http.StatusOK || codes[1] != http.StatusTooManyRequests {
		t.Errorf("Expected [200 429], got %v", codes)
	}
}

func TestGetIP(t *testing.T) {
	tests := []struct {
		name       string
		forwarded  string
		realIP     string
		remoteAddr string
		want       string
	}{
		{"Forwarded chain uses first hop", "1.2.3.4, 10.0.0.1", "", "192.168.1.1:12345", "1.2.3.4"},
		{"Forwarded beats real ip", "1.2.3.4", "5.6.7.8", "192.168.1.1:12345", "1.2.3.4"},
		{"Real ip", "", "5.6.7.8", "192.168.1.1:12345", "5.6.7.8"},
		{"Remote addr", "", "", "192.168.1.1:12345", "192.168.1.1"},
		{"Remote addr without port", "", "", "192.168.1.1", "192.168.1.1"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest("GET", "/", nil)
			if tc.forwarded != "" {
				req.Header.Set("X-Forwarded-For", tc.forwarded)
			}
			if tc.realIP != "" {
				req.Header.Set("X-Real-IP", tc.realIP)
			}
			req.RemoteAddr = tc.remoteAddr

			if got := getIP(req); got != tc.want {
				t.Errorf("Expected %s, got %s", tc.want, got)
			}
		})
	}
}
