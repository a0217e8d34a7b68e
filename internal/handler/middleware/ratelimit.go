package middleware

import (
	"errors"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"restaurant-console/internal/handler/httperr"
	"restaurant-console/internal/pkg/config"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"
)

var errRateLimited = errors.New("rate limit exceeded")

// limiterIdleTTL is how long a client bucket may sit unused before it is dropped.
const limiterIdleTTL = 10 * time.Minute

type clientLimiter struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// RateLimiter keeps one token bucket per client IP. X-Staff-ID is not
// authenticated, so it never selects the bucket.
type RateLimiter struct {
	limit rate.Limit
	burst int
	now   func() time.Time

	mu        sync.Mutex
	limiters  map[string]*clientLimiter
	lastSweep time.Time
}

func NewRateLimiter(cfg config.RateLimitConfig) *RateLimiter {
	limit := rate.Inf
	if cfg.RequestsPerMinute > 0 {
		limit = rate.Every(time.Minute / time.Duration(cfg.RequestsPerMinute))
	}
	burst := cfg.Burst
	if burst < 1 {
		burst = 1
	}
	return &RateLimiter{
		limit:     limit,
		burst:     burst,
		now:       time.Now,
		limiters:  make(map[string]*clientLimiter),
		lastSweep: time.Now(),
	}
}

func (r *RateLimiter) limiter(key string) *rate.Limiter {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := r.now()
	if now.Sub(r.lastSweep) >= limiterIdleTTL {
		r.sweep(now)
	}

	cl, ok := r.limiters[key]
	if !ok {
		cl = &clientLimiter{limiter: rate.NewLimiter(r.limit, r.burst)}
		r.limiters[key] = cl
	}
	cl.lastSeen = now
	return cl.limiter
}

// sweep drops buckets idle for limiterIdleTTL. Caller holds mu.
func (r *RateLimiter) sweep(now time.Time) {
	for key, cl := range r.limiters {
		if now.Sub(cl.lastSeen) >= limiterIdleTTL {
			delete(r.limiters, key)
		}
	}
	r.lastSweep = now
}

func (r *RateLimiter) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		ip := c.ClientIP()
		if !r.limiter(ip).Allow() {
			slog.Warn("rate limit exceeded",
				slog.String("client_ip", ip),
				slog.String("staff_id", c.GetHeader(StaffIDHeader)))
			httperr.AbortWithError(c, http.StatusTooManyRequests, errRateLimited, "Rate limit exceeded. Try again later.", nil)
			return
		}
		c.Next()
	}
}
