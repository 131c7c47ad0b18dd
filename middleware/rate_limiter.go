package middleware

import (
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

const limiterIdleTTL = 10 * time.Minute

type limiterEntry struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// rateLimiterStore holds a map of IP addresses to their rate limiters.
type rateLimiterStore struct {
	limiters map[string]*limiterEntry
	mu       sync.Mutex
	every    rate.Limit
	burst    int
	lastGC   time.Time
}

func newRateLimiterStore(perMinute int) *rateLimiterStore {
	if perMinute <= 0 {
		perMinute = 100
	}
	return &rateLimiterStore{
		limiters: make(map[string]*limiterEntry),
		every:    rate.Every(time.Minute / time.Duration(perMinute)),
		burst:    perMinute,
		lastGC:   time.Now(),
	}
}

// getLimiter returns the rate limiter for a given IP, creating one if it doesn't exist.
func (s *rateLimiterStore) getLimiter(ip string, now time.Time) *rate.Limiter {
	s.mu.Lock()
	defer s.mu.Unlock()

	if now.Sub(s.lastGC) > limiterIdleTTL {
		for k, e := range s.limiters {
			if now.Sub(e.lastSeen) > limiterIdleTTL {
				delete(s.limiters, k)
			}
		}
		s.lastGC = now
	}

	e, exists := s.limiters[ip]
	if !exists {
		e = &limiterEntry{limiter: rate.NewLimiter(s.every, s.burst)}
		s.limiters[ip] = e
	}
	e.lastSeen = now
	return e.limiter
}

// RateLimitMiddleware limits requests per IP address to perMinute, with a burst of the same size.
func RateLimitMiddleware(perMinute int, logger *zap.Logger) gin.HandlerFunc {
	store := newRateLimiterStore(perMinute)
	return func(c *gin.Context) {
		ip := getClientIP(c)
		limiter := store.getLimiter(ip, time.Now())
		if !limiter.Allow() {
			logger.Warn("Rate limit exceeded", zap.String("ip", ip))
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{"error": "Rate limit exceeded. Try again later."})
			return
		}
		c.Next()
	}
}
