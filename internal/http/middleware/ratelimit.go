package middleware

import (
	"strconv"
	"sync"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/hashicorp/golang-lru/v2/expirable"
	"golang.org/x/time/rate"
)

// RateLimiter keeps a token bucket per client IP. Idle buckets expire from the LRU.
type RateLimiter struct {
	mu       sync.Mutex // guards get-or-create of a client's bucket
	limiters *expirable.LRU[string, *rate.Limiter]
	rate     rate.Limit
	burst    int
	skip     map[string]struct{}
}

// NewRateLimiter allows rps requests per second per client with the given burst.
// At most maxClients buckets are tracked; each lives for ttl after its last use.
func NewRateLimiter(rps float64, burst, maxClients int, ttl time.Duration, skipPaths ...string) *RateLimiter {
	if burst < 1 {
		burst = 1
	}
	skip := make(map[string]struct{}, len(skipPaths))
	for _, p := range skipPaths {
		skip[p] = struct{}{}
	}
	return &RateLimiter{
		limiters: expirable.NewLRU[string, *rate.Limiter](maxClients, nil, ttl),
		rate:     rate.Limit(rps),
		burst:    burst,
		skip:     skip,
	}
}

// Allow consumes a token for key.
func (rl *RateLimiter) Allow(key string) bool {
	return rl.limiter(key).Allow()
}

func (rl *RateLimiter) limiter(key string) *rate.Limiter {
	rl.mu.Lock()
	defer rl.mu.Unlock()
	if limiter, ok := rl.limiters.Get(key); ok {
		return limiter
	}
	limiter := rate.NewLimiter(rl.rate, rl.burst)
	rl.limiters.Add(key, limiter)
	return limiter
}

// Handler rejects over-limit requests with 429 and the standard error envelope.
func (rl *RateLimiter) Handler() fiber.Handler {
	retryAfter := "1"
	if rl.rate > 0 && rl.rate < 1 {
		retryAfter = strconv.Itoa(int(1/float64(rl.rate)) + 1)
	}

	return func(c *fiber.Ctx) error {
		if _, ok := rl.skip[c.Path()]; ok {
			return c.Next()
		}
		if rl.Allow(c.IP()) {
			return c.Next()
		}

		rid, _ := c.Locals(RequestIDLocalKey).(string)
		c.Set(fiber.HeaderRetryAfter, retryAfter)
		return c.Status(fiber.StatusTooManyRequests).JSON(fiber.Map{
			"request_id": rid,
			"error": fiber.Map{
				"code":    "RATE_LIMITED",
				"message": "too many requests",
			},
		})
	}
}
