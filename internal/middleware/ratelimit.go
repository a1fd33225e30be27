package middleware

import (
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"
)

// RateLimiterConfig holds the per-caller limits: one budget for the API
// in general and a tighter one for message creation.
type RateLimiterConfig struct {
	GeneralRate     rate.Limit
	GeneralBurst    int
	MessageRate     rate.Limit
	MessageBurst    int
	CleanupInterval time.Duration
}

// DefaultRateLimiterConfig allows 120 general req/min and 30 message
// sends/min per caller.
func DefaultRateLimiterConfig() RateLimiterConfig {
	return RateLimiterConfig{
		GeneralRate:     rate.Limit(120.0 / 60.0),
		GeneralBurst:    120,
		MessageRate:     rate.Limit(30.0 / 60.0),
		MessageBurst:    30,
		CleanupInterval: 5 * time.Minute,
	}
}

type callerLimiter struct {
	limiter    *rate.Limiter
	lastAccess time.Time
}

type RateLimiter struct {
	config RateLimiterConfig

	mu       sync.Mutex
	general  map[string]*callerLimiter
	messages map[string]*callerLimiter
}

func NewRateLimiter(config RateLimiterConfig) *RateLimiter {
	rl := &RateLimiter{
		config:   config,
		general:  make(map[string]*callerLimiter),
		messages: make(map[string]*callerLimiter),
	}

	go rl.cleanupLoop()
	return rl
}

func (rl *RateLimiter) cleanupLoop() {
	ticker := time.NewTicker(rl.config.CleanupInterval)
	defer ticker.Stop()

	for range ticker.C {
		cutoff := time.Now().Add(-rl.config.CleanupInterval)
		rl.mu.Lock()
		for key, cl := range rl.general {
			if cl.lastAccess.Before(cutoff) {
				delete(rl.general, key)
			}
		}
		for key, cl := range rl.messages {
			if cl.lastAccess.Before(cutoff) {
				delete(rl.messages, key)
			}
		}
		rl.mu.Unlock()
	}
}

func (rl *RateLimiter) take(m map[string]*callerLimiter, key string, limit rate.Limit, burst int) bool {
	rl.mu.Lock()
	cl, ok := m[key]
	if !ok {
		cl = &callerLimiter{limiter: rate.NewLimiter(limit, burst)}
		m[key] = cl
	}
	cl.lastAccess = time.Now()
	rl.mu.Unlock()

	return cl.limiter.Allow()
}

// callerKey prefers the authenticated user id; unauthenticated callers
// fall back to the client address.
func callerKey(c *gin.Context) string {
	if id, ok := c.Get(ContextUserID); ok {
		if uid, ok := id.(uint); ok {
			return "u:" + strconv.FormatUint(uint64(uid), 10)
		}
	}
	return "ip:" + c.ClientIP()
}

func (rl *RateLimiter) General() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !rl.take(rl.general, callerKey(c), rl.config.GeneralRate, rl.config.GeneralBurst) {
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{"error": "rate_limited"})
			return
		}
		c.Next()
	}
}

func (rl *RateLimiter) Messages() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !rl.take(rl.messages, callerKey(c), rl.config.MessageRate, rl.config.MessageBurst) {
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{"error": "rate_limited"})
			return
		}
		c.Next()
	}
}
