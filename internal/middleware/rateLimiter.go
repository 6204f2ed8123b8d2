package middleware

import (
	"sync"
	"time"

	"github.com/akolanti/mindsync/internal/config"
	"golang.org/x/time/rate"
)

var limiterInstance = NewIPRateLimiter(rate.Limit(config.RATE_LIMIT_PER_SECOND), config.BURST_RATE_LIMIT_PER_SECOND)

type bucket struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// IPRateLimiter keeps one token bucket per client ip. Buckets idle longer than
// idleAfter are dropped on the next sweep, a returning client starts full again.
type IPRateLimiter struct {
	mu        sync.Mutex
	buckets   map[string]*bucket
	rateLimit rate.Limit
	burstRate int
	idleAfter time.Duration
	lastSweep time.Time
}

func NewIPRateLimiter(r rate.Limit, b int) *IPRateLimiter {
	return &IPRateLimiter{
		buckets:   make(map[string]*bucket),
		rateLimit: r,
		burstRate: b,
		idleAfter: config.RateLimiterIdleTimeout,
		lastSweep: time.Now(),
	}
}

func (i *IPRateLimiter) GetLimiter(ip string) *rate.Limiter {
	now := time.Now()
	i.mu.Lock()
	defer i.mu.Unlock()

	if now.Sub(i.lastSweep) >= i.idleAfter {
		i.sweep(now)
	}

	b, exists := i.buckets[ip]
	if !exists {
		b = &bucket{limiter: rate.NewLimiter(i.rateLimit, i.burstRate)}
		i.buckets[ip] = b
	}
	b.lastSeen = now
	return b.limiter
}

func (i *IPRateLimiter) sweep(now time.Time) {
	for ip, b := range i.buckets {
		if now.Sub(b.lastSeen) >= i.idleAfter {
			delete(i.buckets, ip)
		}
	}
	i.lastSweep = now
}

func (i *IPRateLimiter) size() int {
	i.mu.Lock()
	defer i.mu.Unlock()
	return len(i.buckets)
}
