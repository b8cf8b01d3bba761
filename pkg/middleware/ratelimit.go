package middleware

import (
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"
)

// RateLimitConfig configures the per-IP rate limiter.
type RateLimitConfig struct {
	// Requests allowed per Window from a single IP.
	Requests int
	Window   time.Duration
	// SkipPaths are exempt from limiting (health checks, metrics).
	SkipPaths []string
	// Message is the client-facing rejection text.
	Message string
}

// DefaultRateLimitConfig allows 5 requests per 15 minutes per IP.
func DefaultRateLimitConfig() RateLimitConfig {
	return RateLimitConfig{
		Requests: 5,
		Window:   15 * time.Minute,
		Message:  "Zu viele Anfragen von dieser IP-Adresse. Bitte versuchen Sie es später erneut.",
	}
}

type ipLimiter struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// RateLimiter tracks request budgets per client IP. Limiters for idle
// IPs are pruned lazily so the map does not grow without bound.
type RateLimiter struct {
	mu       sync.Mutex
	visitors map[string]*ipLimiter
	limit    rate.Limit
	burst    int
	window   time.Duration
	lastGC   time.Time
}

// NewRateLimiter creates a token-bucket limiter refilling the full
// budget once per window.
func NewRateLimiter(requests int, window time.Duration) *RateLimiter {
	if requests <= 0 {
		requests = 1
	}
	if window <= 0 {
		window = time.Minute
	}
	return &RateLimiter{
		visitors: make(map[string]*ipLimiter),
		limit:    rate.Every(window / time.Duration(requests)),
		burst:    requests,
		window:   window,
		lastGC:   time.Now(),
	}
}

// Allow reports whether the given IP still has budget left.
func (rl *RateLimiter) Allow(ip string) bool {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := time.Now()
	if now.Sub(rl.lastGC) > rl.window {
		for key, v := range rl.visitors {
			if now.Sub(v.lastSeen) > 2*rl.window {
				delete(rl.visitors, key)
			}
		}
		rl.lastGC = now
	}

	v, ok := rl.visitors[ip]
	if !ok {
		v = &ipLimiter{limiter: rate.NewLimiter(rl.limit, rl.burst)}
		rl.visitors[ip] = v
	}
	v.lastSeen = now

	return v.limiter.Allow()
}

// RateLimitMiddleware rejects requests exceeding the per-IP budget with
// 429 and a German message.
func RateLimitMiddleware(cfg RateLimitConfig) HandlerFunc {
	if cfg.Requests == 0 {
		cfg = DefaultRateLimitConfig()
	}
	if cfg.Message == "" {
		cfg.Message = DefaultRateLimitConfig().Message
	}

	limiter := NewRateLimiter(cfg.Requests, cfg.Window)
	skip := make(map[string]bool, len(cfg.SkipPaths))
	for _, p := range cfg.SkipPaths {
		skip[p] = true
	}

	return func(c Context) {
		if skip[c.Request.URL.Path] {
			c.Next()
			return
		}

		if !limiter.Allow(RemoteIP(c)) {
			c.AbortWithStatusJSON(http.StatusTooManyRequests, H{
				"error": cfg.Message,
				"code":  "RATE_LIMIT_EXCEEDED",
			})
			return
		}

		c.Next()
	}
}

// RemoteIP resolves the originating client IP, preferring proxy headers
// set by the CDN over the socket address.
func RemoteIP(c *gin.Context) string {
	if cfIP := c.GetHeader("CF-Connecting-IP"); cfIP != "" {
		return cfIP
	}

	if forwarded := c.GetHeader("X-Forwarded-For"); forwarded != "" {
		parts := strings.Split(forwarded, ",")
		return strings.TrimSpace(parts[0])
	}

	return c.ClientIP()
}
