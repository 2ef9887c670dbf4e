package middlewares

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	lru "github.com/hashicorp/golang-lru"
	"golang.org/x/time/rate"
)

const maxTrackedClients = 10000

// RateLimiter hands out one token bucket per client key.
// Least recently seen clients are evicted once maxTrackedClients is reached.
type RateLimiter struct {
	limit    rate.Limit
	burst    int
	perMin   int
	limiters *lru.Cache
}

// NewRateLimiter allows perMinute requests per client with the given burst.
// A non-positive perMinute disables limiting.
func NewRateLimiter(perMinute, burst int) *RateLimiter {
	if burst <= 0 {
		burst = perMinute
	}
	cache, _ := lru.New(maxTrackedClients)
	return &RateLimiter{
		limit:    rate.Every(time.Minute / time.Duration(max(perMinute, 1))),
		burst:    burst,
		perMin:   perMinute,
		limiters: cache,
	}
}

func (rl *RateLimiter) Allow(key string) bool {
	if rl.perMin <= 0 {
		return true
	}
	if v, ok := rl.limiters.Get(key); ok {
		return v.(*rate.Limiter).Allow()
	}
	l := rate.NewLimiter(rl.limit, rl.burst)
	if prev, ok, _ := rl.limiters.PeekOrAdd(key, l); ok {
		l = prev.(*rate.Limiter)
	}
	return l.Allow()
}

// RateLimit throttles by client IP.
func RateLimit(rl *RateLimiter) gin.HandlerFunc {
	return func(c *gin.Context) {
		if !rl.Allow(c.ClientIP()) {
			c.Header("Retry-After", strconv.Itoa(max(60/rl.perMin, 1)))
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{"detail": "Request was throttled."})
			return
		}
		c.Next()
	}
}
