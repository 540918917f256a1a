package ratelimiter

import (
	"github.com/SeakMengs/AutoQR/internal/config"
	"github.com/SeakMengs/AutoQR/internal/util"
	"go.uber.org/zap"
)

func NewRateLimiter(cfg config.RateLimiterConfig, logger *zap.SugaredLogger) *TokenBucketRateLimiter {
	// For unit test
	if logger == nil {
		logger = util.NewLogger("test")
	}

	return NewTokenBucketLimiter(cfg, logger)
}
