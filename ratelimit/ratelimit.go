// Package ratelimit paces outbound requests with a jittered minimum delay.
//
// Both scrape phases share one Limiter so the site never sees two requests
// closer together than the configured floor, regardless of which phase
// issued them.
package ratelimit

import (
	"context"
	"math/rand"
	"time"

	"golang.org/x/time/rate"
)

// jitterFraction is the ± spread applied around the configured delay, so an
// effective spacing of [0.8, 1.2] × delay.
const jitterFraction = 0.2

// Limiter enforces a minimum jittered delay between consecutive returns
// from Wait. The scraper only ever calls it from a single goroutine.
type Limiter struct {
	delay   time.Duration
	limiter *rate.Limiter
}

// New creates a Limiter with the given base delay. A non-positive delay
// disables pacing entirely.
func New(delay time.Duration) *Limiter {
	l := &Limiter{delay: delay}
	if delay > 0 {
		l.limiter = rate.NewLimiter(rate.Every(delay), 1)
	}
	return l
}

// Wait blocks until the jittered delay since the previous return has
// elapsed, or until ctx is done. The first call never blocks.
//
// The jitter is applied by retiming the bucket before each wait, never by
// sleeping after the grant: a grant therefore is a return, and the spacing
// between returns can never drop below (1 - jitterFraction) × delay.
func (l *Limiter) Wait(ctx context.Context) error {
	if l.limiter == nil {
		return nil
	}
	jittered := 1 - jitterFraction + rand.Float64()*2*jitterFraction
	l.limiter.SetLimit(rate.Every(time.Duration(jittered * float64(l.delay))))
	return l.limiter.Wait(ctx)
}
