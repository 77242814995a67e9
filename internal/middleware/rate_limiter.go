package middleware

import (
	"context"
	"net/http"
	"strconv"
	"sync"
	"time"

	"koalgroup/internal/apierror"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
)

const purgeInterval = 5 * time.Minute

// window tracks one client's requests in the current fixed window.
type window struct {
	count int
	end   time.Time
}

// RateLimiter counts requests per client IP in fixed windows.
type RateLimiter struct {
	name    string
	limit   int
	period  time.Duration
	message string
	now     func() time.Time

	mu      sync.Mutex
	clients map[string]*window
}

// NewRateLimiter allows limit requests per period per IP. A limit below one
// disables the limiter.
func NewRateLimiter(name string, limit int, period time.Duration, message string) *RateLimiter {
	return &RateLimiter{
		name:    name,
		limit:   limit,
		period:  period,
		message: message,
		now:     time.Now,
		clients: make(map[string]*window),
	}
}

// allow records one request from ip and reports whether it is within the
// limit, along with the end of the current window.
func (l *RateLimiter) allow(ip string) (bool, time.Time) {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	w, ok := l.clients[ip]
	if !ok || now.After(w.end) {
		w = &window{end: now.Add(l.period)}
		l.clients[ip] = w
	}
	w.count++
	return w.count <= l.limit, w.end
}

func (l *RateLimiter) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		if l.limit < 1 {
			c.Next()
			return
		}
		ok, end := l.allow(c.ClientIP())
		if !ok {
			secs := int(end.Sub(l.now()).Seconds()) + 1
			c.Header("Retry-After", strconv.Itoa(secs))
			c.AbortWithStatusJSON(http.StatusTooManyRequests, apierror.New(l.message))
			return
		}
		c.Next()
	}
}

// purge drops expired windows and returns how many were removed.
func (l *RateLimiter) purge() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	now := l.now()
	n := 0
	for ip, w := range l.clients {
		if now.After(w.end) {
			delete(l.clients, ip)
			n++
		}
	}
	return n
}

// StartPurge removes idle clients every few minutes until ctx is cancelled,
// so IPs that never come back do not accumulate.
func (l *RateLimiter) StartPurge(ctx context.Context) {
	go func() {
		ticker := time.NewTicker(purgeInterval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				if n := l.purge(); n > 0 {
					log.Debug().Str("limiter", l.name).Int("purged", n).Msg("rate limiter entries purged")
				}
			}
		}
	}()
}
