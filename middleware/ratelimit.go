package middleware

import (
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"
)

type visitor struct {
	limiter *rate.Limiter
	mu      sync.Mutex
	last    time.Time
}

func (v *visitor) touch(now time.Time) {
	v.mu.Lock()
	v.last = now
	v.mu.Unlock()
}

func (v *visitor) idleSince(now time.Time) time.Duration {
	v.mu.Lock()
	defer v.mu.Unlock()
	return now.Sub(v.last)
}

// RateLimiter allows each client IP a burst of limit requests, refilled
// evenly over window.
type RateLimiter struct {
	limit    int
	window   time.Duration
	visitors sync.Map // client IP -> *visitor
	now      func() time.Time
}

func NewRateLimiter(limit int, window time.Duration) *RateLimiter {
	if limit < 1 {
		limit = 1
	}
	return &RateLimiter{limit: limit, window: window, now: time.Now}
}

func (rl *RateLimiter) lookup(ip string) *visitor {
	if v, ok := rl.visitors.Load(ip); ok {
		return v.(*visitor)
	}
	every := rate.Every(rl.window / time.Duration(rl.limit))
	v, _ := rl.visitors.LoadOrStore(ip, &visitor{
		limiter: rate.NewLimiter(every, rl.limit),
		last:    rl.now(),
	})
	return v.(*visitor)
}

// Allow reports whether ip may make another request now.
func (rl *RateLimiter) Allow(ip string) bool {
	v := rl.lookup(ip)
	now := rl.now()
	v.touch(now)
	return v.limiter.AllowN(now, 1)
}

// Cleanup drops visitors idle for longer than a full window.
func (rl *RateLimiter) Cleanup() {
	now := rl.now()
	rl.visitors.Range(func(key, val any) bool {
		if val.(*visitor).idleSince(now) > rl.window {
			rl.visitors.Delete(key)
		}
		return true
	})
}

// Run calls Cleanup every interval until done is closed.
func (rl *RateLimiter) Run(interval time.Duration, done <-chan struct{}) {
	t := time.NewTicker(interval)
	defer t.Stop()
	for {
		select {
		case <-t.C:
			rl.Cleanup()
		case <-done:
			return
		}
	}
}

func (rl *RateLimiter) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !rl.Allow(c.ClientIP()) {
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{
				"success": false,
				"error":   "Too many requests from this IP, please try again later.",
			})
			return
		}
		c.Next()
	}
}
