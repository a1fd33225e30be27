package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"
)

func testRouter(mw gin.HandlerFunc, userID uint) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	if userID != 0 {
		r.Use(func(c *gin.Context) {
			c.Set(ContextUserID, userID)
		})
	}
	r.Use(mw)
	r.GET("/ping", func(c *gin.Context) {
		c.Status(http.StatusOK)
	})
	return r
}

func get(r *gin.Engine) int {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/ping", nil)
	r.ServeHTTP(w, req)
	return w.Code
}

func TestGeneralLimiterExhaustsBurst(t *testing.T) {
	rl := NewRateLimiter(RateLimiterConfig{
		GeneralRate:     rate.Limit(1.0 / 60.0),
		GeneralBurst:    3,
		MessageRate:     rate.Limit(1.0 / 60.0),
		MessageBurst:    1,
		CleanupInterval: time.Hour,
	})
	r := testRouter(rl.General(), 1)

	for i := 0; i < 3; i++ {
		if code := get(r); code != http.StatusOK {
			t.Fatalf("request %d: status %d", i+1, code)
		}
	}
	if code := get(r); code != http.StatusTooManyRequests {
		t.Fatalf("over-burst request: status %d, want 429", code)
	}
}

func TestLimitersTrackCallersSeparately(t *testing.T) {
	rl := NewRateLimiter(RateLimiterConfig{
		GeneralRate:     rate.Limit(1.0 / 60.0),
		GeneralBurst:    1,
		MessageRate:     rate.Limit(1.0 / 60.0),
		MessageBurst:    1,
		CleanupInterval: time.Hour,
	})

	alice := testRouter(rl.General(), 1)
	bob := testRouter(rl.General(), 2)

	if code := get(alice); code != http.StatusOK {
		t.Fatalf("alice first request: %d", code)
	}
	if code := get(alice); code != http.StatusTooManyRequests {
		t.Fatalf("alice second request: %d, want 429", code)
	}

	// Another caller still has a full budget.
	if code := get(bob); code != http.StatusOK {
		t.Fatalf("bob first request: %d", code)
	}
}

func TestMessageLimiterIsIndependentOfGeneral(t *testing.T) {
	rl := NewRateLimiter(RateLimiterConfig{
		GeneralRate:     rate.Limit(1.0 / 60.0),
		GeneralBurst:    1,
		MessageRate:     rate.Limit(1.0 / 60.0),
		MessageBurst:    1,
		CleanupInterval: time.Hour,
	})

	general := testRouter(rl.General(), 1)
	messages := testRouter(rl.Messages(), 1)

	if code := get(general); code != http.StatusOK {
		t.Fatalf("general: %d", code)
	}
	if code := get(general); code != http.StatusTooManyRequests {
		t.Fatalf("general over budget: %d, want 429", code)
	}

	// The message budget for the same caller is untouched.
	if code := get(messages); code != http.StatusOK {
		t.Fatalf("messages: %d", code)
	}
}
