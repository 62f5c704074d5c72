package ratelimit

import (
	"context"

	"golang.org/x/time/rate"
)

// minLimit is the slowest pace Throttle will back off to.
const minLimit rate.Limit = 0.1

// RateLimiter paces outbound requests to the text-extraction proxy.
type RateLimiter interface {
	Wait(ctx context.Context) error
	// Throttle slows the pace after the upstream asked us to back off.
	Throttle()
}

// TokenBucket allows bursts of up to burst requests and refills at perSecond.
type TokenBucket struct {
	limiter *rate.Limiter
}

// NewTokenBucket returns a limiter. A non-positive perSecond disables pacing.
func NewTokenBucket(perSecond float64, burst int) *TokenBucket {
	return &TokenBucket{limiter: rate.NewLimiter(limitFor(perSecond), normalizeBurst(burst))}
}

func (t *TokenBucket) Wait(ctx context.Context) error {
	return t.limiter.Wait(ctx)
}

// Throttle halves the refill rate and drops the burst to one. An unpaced
// bucket starts pacing at one request per second.
func (t *TokenBucket) Throttle() {
	limit := t.limiter.Limit()
	if limit == rate.Inf {
		limit = 1
	} else {
		limit = max(limit/2, minLimit)
	}
	t.limiter.SetLimit(limit)
	t.limiter.SetBurst(1)
}

func limitFor(perSecond float64) rate.Limit {
	if perSecond <= 0 {
		return rate.Inf
	}
	return rate.Limit(perSecond)
}

func normalizeBurst(burst int) int {
	if burst < 1 {
		return 1
	}
	return burst
}
