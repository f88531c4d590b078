package middleware

import (
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"
)

type ipLimiter struct {
	lim  *rate.Limiter
	seen time.Time
}

// RateLimiter hands out a token bucket per client IP and drops buckets
// that have been idle longer than ttl.
type RateLimiter struct {
	mu      sync.Mutex
	buckets map[string]*ipLimiter
	r       rate.Limit
	burst   int
	ttl     time.Duration
	stop    chan struct{}
}

func NewRateLimiter(r rate.Limit, burst int, ttl time.Duration) *RateLimiter {
	rl := &RateLimiter{
		buckets: make(map[string]*ipLimiter),
		r:       r,
		burst:   burst,
		ttl:     ttl,
		stop:    make(chan struct{}),
	}
	go rl.gc()
	return rl
}

func (rl *RateLimiter) get(ip string) *rate.Limiter {
	rl.mu.Lock()
	defer rl.mu.Unlock()
	b, ok := rl.buckets[ip]
	if ok {
		b.seen = time.Now()
		return b.lim
	}
	lim := rate.NewLimiter(rl.r, rl.burst)
	rl.buckets[ip] = &ipLimiter{lim: lim, seen: time.Now()}
	return lim
}

func (rl *RateLimiter) Allow(ip string) bool {
	return rl.get(ip).Allow()
}

func (rl *RateLimiter) gc() {
	ticker := time.NewTicker(30 * time.Second)
	defer ticker.Stop()
	for {
		select {
		case <-rl.stop:
			return
		case <-ticker.C:
			now := time.Now()
			rl.mu.Lock()
			for ip, b := range rl.buckets {
				if now.Sub(b.seen) > rl.ttl {
					delete(rl.buckets, ip)
				}
			}
			rl.mu.Unlock()
		}
	}
}

func (rl *RateLimiter) Stop() {
	select {
	case <-rl.stop:
	default:
		close(rl.stop)
	}
}

func RateLimit(r rate.Limit, burst int) gin.HandlerFunc {
	rl := NewRateLimiter(r, burst, 2*time.Minute)
	return func(c *gin.Context) {
		if !rl.Allow(c.ClientIP()) {
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{"error": "too many requests"})
			return
		}
		c.Next()
	}
}
