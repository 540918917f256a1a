package ratelimiter

import (
	"sync"
	"time"

	"github.com/SeakMengs/AutoQR/internal/config"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

type client struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// TokenBucketRateLimiter gives every key a bucket of cfg.RequestsPerTimeFrame
// tokens, refilled evenly over cfg.TimeFrame.
type TokenBucketRateLimiter struct {
	sync.Mutex
	cfg       config.RateLimiterConfig
	logger    *zap.SugaredLogger
	clients   map[string]*client
	lastSweep time.Time
	now       func() time.Time
}

func NewTokenBucketLimiter(cfg config.RateLimiterConfig, logger *zap.SugaredLogger) *TokenBucketRateLimiter {
	return &TokenBucketRateLimiter{
		cfg:     cfg,
		logger:  logger,
		clients: make(map[string]*client),
		now:     time.Now,
	}
}

func (rl *TokenBucketRateLimiter) Enabled() bool {
	return rl.cfg.Enabled && rl.cfg.RequestsPerTimeFrame > 0 && rl.cfg.TimeFrame > 0
}

func (rl *TokenBucketRateLimiter) limit() rate.Limit {
	return rate.Limit(float64(rl.cfg.RequestsPerTimeFrame) / rl.cfg.TimeFrame.Seconds())
}

// Allow takes one token for key. When the bucket is empty it returns false
// and how long until a token is available.
func (rl *TokenBucketRateLimiter) Allow(key string) (bool, time.Duration) {
	if !rl.Enabled() {
		return true, 0
	}

	rl.Lock()
	defer rl.Unlock()

	now := rl.now()
	rl.sweep(now)

	c, ok := rl.clients[key]
	if !ok {
		c = &client{limiter: rate.NewLimiter(rl.limit(), rl.cfg.RequestsPerTimeFrame)}
		rl.clients[key] = c
	}
	c.lastSeen = now

	r := c.limiter.ReserveN(now, 1)
	if delay := r.DelayFrom(now); delay > 0 {
		r.CancelAt(now)
		rl.logger.Debugw("Rate limit exceeded", "key", key, "retryAfter", delay)
		return false, delay
	}
	return true, 0
}

// sweep drops clients idle for a full time frame, whose buckets are full
// again anyway. It runs at most once per time frame. Caller holds the lock.
func (rl *TokenBucketRateLimiter) sweep(now time.Time) {
	if now.Sub(rl.lastSweep) < rl.cfg.TimeFrame {
		return
	}
	rl.lastSweep = now

	for key, c := range rl.clients {
		if now.Sub(c.lastSeen) >= rl.cfg.TimeFrame {
			delete(rl.clients, key)
		}
	}
}
