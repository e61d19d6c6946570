package crawl

import (
	"context"
	"sync"
	"time"

	"github.com/fwojciec/sitetext"
	"golang.org/x/time/rate"
)

// SleepFunc pauses for d or until ctx is done, returning the context error
// in the latter case.
type SleepFunc func(ctx context.Context, d time.Duration) error

// Sleep is the default SleepFunc.
func Sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

// RateController is an adaptive delay between consecutive requests.
// Successes halve the delay down to the floor and failures double it up
// to the ceiling. The delay always stays within [min, max].
type RateController struct {
	mu    sync.Mutex
	delay time.Duration
	min   time.Duration
	max   time.Duration
	sleep SleepFunc
}

// NewRateController creates a controller starting at minDelay.
// A nil sleep uses Sleep.
func NewRateController(minDelay, maxDelay time.Duration, sleep SleepFunc) *RateController {
	if maxDelay < minDelay {
		maxDelay = minDelay
	}
	if sleep == nil {
		sleep = Sleep
	}
	return &RateController{
		delay: minDelay,
		min:   minDelay,
		max:   maxDelay,
		sleep: sleep,
	}
}

// Delay returns the current delay.
func (r *RateController) Delay() time.Duration {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.delay
}

// OnSuccess halves the delay, bounded below by the floor.
func (r *RateController) OnSuccess() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.delay = max(r.min, r.delay/2)
}

// OnFailure doubles the delay, bounded above by the ceiling.
func (r *RateController) OnFailure() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.delay = min(r.max, r.delay*2)
}

// Wait pauses for the current delay. It is the only voluntary yield
// between two requests made by the same worker.
func (r *RateController) Wait(ctx context.Context) error {
	return r.sleep(ctx, r.Delay())
}

var _ sitetext.DomainLimiter = (*DomainLimiter)(nil)

// DomainLimiter provides per-domain rate limiting using token buckets.
// Workers share one DomainLimiter so that their independent adaptive
// delays never add up to more than rps requests per second to one host.
type DomainLimiter struct {
	mu       sync.Mutex
	limiters map[string]*rate.Limiter
	rps      float64
}

// NewDomainLimiter creates a new DomainLimiter with the specified requests per second limit.
// Each domain gets its own limiter with a burst of 1 (no bursting allowed).
func NewDomainLimiter(rps float64) *DomainLimiter {
	return &DomainLimiter{
		limiters: make(map[string]*rate.Limiter),
		rps:      rps,
	}
}

// Wait blocks until the rate limit allows a request to the domain.
// Returns an error if the context is canceled before the wait completes.
func (d *DomainLimiter) Wait(ctx context.Context, domain string) error {
	d.mu.Lock()
	limiter, ok := d.limiters[domain]
	if !ok {
		limiter = rate.NewLimiter(rate.Limit(d.rps), 1)
		d.limiters[domain] = limiter
	}
	d.mu.Unlock()

	return limiter.Wait(ctx)
}
