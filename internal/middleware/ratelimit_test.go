package middleware

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
)

// authRouter mounts the limiter the way the real server does: on the
// public auth group only, with /health left unthrottled.
func authRouter(rl *RateLimiter) *gin.Engine {
	r := gin.New()
	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})
	auth := r.Group("/api/auth")
	auth.Use(rl.Middleware())
	auth.POST("/login", func(c *gin.Context) {
		c.JSON(200, gin.H{"token": "stub"})
	})
	return r
}

func postLogin(router *gin.Engine, ip string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req, _ := http.NewRequest("POST", "/api/auth/login",
		strings.NewReader(`{"email":"a@example.com","password":"secret123"}`))
	req.Header.Set("Content-Type", "application/json")
	req.RemoteAddr = ip + ":12345"
	router.ServeHTTP(w, req)
	return w
}

func TestRateLimit_AllowsWithinBurst(t *testing.T) {
	router := authRouter(NewRateLimiter(10, 10))

	for i := 0; i < 3; i++ {
		if w := postLogin(router, "192.168.1.1"); w.Code != http.StatusOK {
			t.Fatalf("request %d: expected %d, got %d", i+1, http.StatusOK, w.Code)
		}
	}
}

func TestRateLimit_BlocksAfterBurst(t *testing.T) {
	router := authRouter(NewRateLimiter(1, 2))

	var lastCode int
	for i := 0; i < 5; i++ {
		lastCode = postLogin(router, "10.0.0.1").Code
	}
	if lastCode != http.StatusTooManyRequests {
		t.Errorf("expected status %d after burst exceeded, got %d", http.StatusTooManyRequests, lastCode)
	}
}

func TestRateLimit_PerIPBuckets(t *testing.T) {
	router := authRouter(NewRateLimiter(1, 1))

	if w := postLogin(router, "10.0.0.1"); w.Code != http.StatusOK {
		t.Fatalf("IP1 first request: expected %d, got %d", http.StatusOK, w.Code)
	}
	if w := postLogin(router, "10.0.0.1"); w.Code != http.StatusTooManyRequests {
		t.Errorf("IP1 second request: expected %d, got %d", http.StatusTooManyRequests, w.Code)
	}

	// A different client still has its own untouched bucket.
	if w := postLogin(router, "10.0.0.2"); w.Code != http.StatusOK {
		t.Errorf("IP2 first request: expected %d, got %d", http.StatusOK, w.Code)
	}
}

func TestRateLimit_HealthNotThrottled(t *testing.T) {
	rl := NewRateLimiter(1, 1)
	router := authRouter(rl)

	// Exhaust the auth bucket for this IP.
	postLogin(router, "10.0.0.9")
	if w := postLogin(router, "10.0.0.9"); w.Code != http.StatusTooManyRequests {
		t.Fatalf("auth bucket not exhausted: got %d", w.Code)
	}

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("GET", "/health", nil)
	req.RemoteAddr = "10.0.0.9:12345"
	router.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Errorf("health check throttled: got %d", w.Code)
	}
}
