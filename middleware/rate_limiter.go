package middleware

import (
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"movecall/utils"
)

// limiterStore maps client IPs to their rate limiters.
type limiterStore struct {
	limiters map[string]*rate.Limiter
	mu       sync.Mutex
}

func (s *limiterStore) get(ip string) *rate.Limiter {
	s.mu.Lock()
	defer s.mu.Unlock()

	limiter, ok := s.limiters[ip]
	if !ok {
		// 60 requests per minute with a burst of 20.
		limiter = rate.NewLimiter(rate.Every(time.Minute/60), 20)
		s.limiters[ip] = limiter
	}
	return limiter
}

var apiLimiters = &limiterStore{limiters: make(map[string]*rate.Limiter)}

// RateLimit caps requests per client IP on the JSON API. The voice webhooks
// are not behind this; Twilio retries aggressively and its requests are
// already gated by signature validation.
func RateLimit() gin.HandlerFunc {
	return func(c *gin.Context) {
		ip := c.ClientIP()
		if !apiLimiters.get(ip).Allow() {
			utils.GetLogger().Warn("rate limit exceeded", zap.String("ip", ip))
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{"error": "Rate limit exceeded. Try again later."})
			return
		}
		c.Next()
	}
}
