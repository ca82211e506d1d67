package middleware

import (
	"math"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"

	"resume-analyzer/internal/shared/server/respond"
)

const (
	defaultRateLimitGroup = "DEFAULT"
)

// RateLimitRule is a token bucket: Rate tokens per second, up to Burst.
type RateLimitRule struct {
	Rate  float64
	Burst int
}

type RateLimitConfig struct {
	Rules        map[string]RateLimitRule
	DefaultGroup string
	GroupFor     func(*gin.Context) string
	Limiter      *RateLimiter
}

const (
	defaultLimiterIdleTTL    = 10 * time.Minute
	defaultLimiterMaxEntries = 10000
)

// RateLimiter keeps one limiter per principal and group. Limiters idle for
// IdleTTL are evicted, and the map never holds more than MaxEntries.
type RateLimiter struct {
	IdleTTL    time.Duration
	MaxEntries int

	mu        sync.Mutex
	limiters  map[string]*limiterEntry
	lastSweep time.Time
	now       func() time.Time
}

type limiterEntry struct {
	lim      *rate.Limiter
	lastSeen time.Time
}

func NewRateLimiter(now func() time.Time) *RateLimiter {
	if now == nil {
		now = time.Now
	}
	return &RateLimiter{
		IdleTTL:    defaultLimiterIdleTTL,
		MaxEntries: defaultLimiterMaxEntries,
		limiters:   make(map[string]*limiterEntry),
		now:        now,
	}
}

// Len reports how many limiters are tracked.
func (l *RateLimiter) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.limiters)
}

// RateLimit rejects requests over the group's rule with 429 and Retry-After.
// Callers are keyed by user ID, or client IP for anonymous callers.
func RateLimit(cfg RateLimitConfig) gin.HandlerFunc {
	if cfg.Limiter == nil {
		cfg.Limiter = NewRateLimiter(nil)
	}
	if cfg.DefaultGroup == "" {
		cfg.DefaultGroup = defaultRateLimitGroup
	}
	return func(c *gin.Context) {
		group := cfg.DefaultGroup
		if cfg.GroupFor != nil {
			if g := strings.TrimSpace(cfg.GroupFor(c)); g != "" {
				group = g
			}
		}
		rule, ok := cfg.Rules[group]
		if !ok {
			c.Next()
			return
		}
		principal := strings.TrimSpace(UserIDFromContext(c))
		if principal == "" || principal == AnonymousUser {
			principal = "ip:" + strings.TrimSpace(c.ClientIP())
		}
		allowed, retryAfter := cfg.Limiter.Allow(principal+"|"+group, rule)
		if allowed {
			c.Next()
			return
		}
		retryAfterMs := int(retryAfter / time.Millisecond)
		if retryAfterMs <= 0 {
			retryAfterMs = 1000
		}
		retryAfterSeconds := int(math.Ceil(float64(retryAfterMs) / 1000.0))
		c.Header("Retry-After", strconv.Itoa(retryAfterSeconds))
		respond.Error(c, http.StatusTooManyRequests, "rate_limited", "Too many requests", gin.H{
			"retryAfterMs": retryAfterMs,
		})
	}
}

// Allow takes one token for key. When the bucket is empty it reports how long
// until the next token.
func (l *RateLimiter) Allow(key string, rule RateLimitRule) (bool, time.Duration) {
	if l == nil {
		return true, 0
	}
	if rule.Rate <= 0 || rule.Burst <= 0 {
		return true, 0
	}
	now := l.now()

	l.mu.Lock()
	l.sweepLocked(now)
	entry, ok := l.limiters[key]
	if !ok {
		l.evictOldestLocked()
		entry = &limiterEntry{lim: rate.NewLimiter(rate.Limit(rule.Rate), rule.Burst)}
		l.limiters[key] = entry
	}
	entry.lastSeen = now
	lim := entry.lim
	l.mu.Unlock()

	res := lim.ReserveN(now, 1)
	if !res.OK() {
		return false, time.Second
	}
	delay := res.DelayFrom(now)
	if delay <= 0 {
		return true, 0
	}
	res.CancelAt(now)
	return false, delay
}

// sweepLocked drops idle limiters, at most once per IdleTTL/4.
func (l *RateLimiter) sweepLocked(now time.Time) {
	ttl := l.IdleTTL
	if ttl <= 0 {
		ttl = defaultLimiterIdleTTL
	}
	if !l.lastSweep.IsZero() && now.Sub(l.lastSweep) < ttl/4 {
		return
	}
	l.lastSweep = now
	for key, entry := range l.limiters {
		if now.Sub(entry.lastSeen) >= ttl {
			delete(l.limiters, key)
		}
	}
}

// evictOldestLocked makes room for one more limiter.
func (l *RateLimiter) evictOldestLocked() {
	limit := l.MaxEntries
	if limit <= 0 {
		limit = defaultLimiterMaxEntries
	}
	for len(l.limiters) >= limit {
		var (
			oldestKey string
			oldest    time.Time
			found     bool
		)
		for key, entry := range l.limiters {
			if !found || entry.lastSeen.Before(oldest) {
				oldestKey, oldest, found = key, entry.lastSeen, true
			}
		}
		delete(l.limiters, oldestKey)
	}
}
