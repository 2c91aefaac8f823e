package middelware

import (
	"context"
	"net/http"
	"strconv"
	"sync"
	"time"

	"timeboss-backend/utils/logger"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"
)

// RateLimiter allows each client IP a fixed number of requests per window. The window
// starts with the client's first request and the count resets when it ends.
type RateLimiter struct {
	mu       sync.Mutex
	visitors map[string]*visitor
	requests int
	window   time.Duration
	logger   logger.Logger
	now      func() time.Time
}

type visitor struct {
	windowStart time.Time
	count       int
	lastSeen    time.Time
	// one warning per client and minute while it stays over the limit
	warn rate.Sometimes
}

// NewRateLimiter allows requests per window for every client IP
func NewRateLimiter(requests int, window time.Duration, log logger.Logger) *RateLimiter {
	return &RateLimiter{
		visitors: make(map[string]*visitor),
		requests: requests,
		window:   window,
		logger:   log,
		now:      time.Now,
	}
}

// Allow reports whether ip may make another request now
func (r *RateLimiter) Allow(ip string) bool {
	ok, _ := r.take(ip)
	return ok
}

// take counts a request and returns the time left in the window when it is refused
func (r *RateLimiter) take(ip string) (bool, time.Duration) {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := r.now()
	v, ok := r.visitors[ip]
	if !ok {
		v = &visitor{windowStart: now, warn: rate.Sometimes{First: 1, Interval: time.Minute}}
		r.visitors[ip] = v
	}
	v.lastSeen = now
	if now.Sub(v.windowStart) >= r.window {
		v.windowStart = now
		v.count = 0
	}
	if v.count >= r.requests {
		return false, v.windowStart.Add(r.window).Sub(now)
	}
	v.count++
	return true, 0
}

// Cleanup forgets clients whose window has ended
func (r *RateLimiter) Cleanup() {
	r.mu.Lock()
	defer r.mu.Unlock()

	cutoff := r.now().Add(-r.window)
	for ip, v := range r.visitors {
		if v.lastSeen.Before(cutoff) && v.windowStart.Before(cutoff) {
			delete(r.visitors, ip)
		}
	}
}

// RunCleanup calls Cleanup every interval until ctx is done
func (r *RateLimiter) RunCleanup(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			r.Cleanup()
		}
	}
}

// Middleware rejects requests over the limit with 429 and a Retry-After header
func (r *RateLimiter) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		ip := c.ClientIP()
		ok, retry := r.take(ip)
		if ok {
			c.Next()
			return
		}
		r.warnOnce(ip)
		c.Header("Retry-After", strconv.Itoa(int((retry+time.Second-1)/time.Second)))
		abortWith(c, http.StatusTooManyRequests, "Too many requests, please try again later.", "RateLimitError", "rate limit exceeded")
	}
}

func (r *RateLimiter) warnOnce(ip string) {
	r.mu.Lock()
	v := r.visitors[ip]
	r.mu.Unlock()
	if v == nil {
		return
	}
	v.warn.Do(func() { r.logger.Warnf("Rate limit exceeded for %s", ip) })
}
