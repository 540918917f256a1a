package middleware

import (
	appcontext "github.com/SeakMengs/AutoQR/internal/app_context"
	ratelimiter "github.com/SeakMengs/AutoQR/internal/rate_limiter"
)

type Middleware struct {
	rateLimiter *ratelimiter.TokenBucketRateLimiter
	app         *appcontext.Application
}

func NewMiddleware(app *appcontext.Application,
	rateLimiter *ratelimiter.TokenBucketRateLimiter,
) *Middleware {
	return &Middleware{app: app, rateLimiter: rateLimiter}
}
