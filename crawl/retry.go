package crawl

import (
	"context"
	"time"

	"github.com/fwojciec/sitetext"
)

// RetryPolicy bounds the attempts made for a single URL.
type RetryPolicy struct {
	// MaxAttempts is the total number of attempts, including the first.
	MaxAttempts int

	// BaseDelay is the backoff unit. Attempt n waits BaseDelay*2^(n-1).
	BaseDelay time.Duration

	// MaxDelay caps each backoff wait. A server-provided Retry-After is
	// honored as given.
	MaxDelay time.Duration

	// Sleep defaults to the package Sleep.
	Sleep SleepFunc
}

// Attempt describes one completed fetch attempt.
type Attempt struct {
	Number  int
	Outcome sitetext.FetchOutcome

	// Wait is the pause before the next attempt. It is zero when Final.
	Wait  time.Duration
	Final bool
}

// AttemptFunc observes attempts as they complete, before any backoff wait.
type AttemptFunc func(Attempt)

// Backoff returns the wait after the given failed attempt (1-based).
func (p RetryPolicy) Backoff(outcome sitetext.FetchOutcome, attempt int) time.Duration {
	if outcome.HasRetryAfter {
		return outcome.RetryAfter
	}
	wait := p.BaseDelay
	for i := 1; i < attempt && wait < p.MaxDelay; i++ {
		wait *= 2
	}
	if p.MaxDelay > 0 && wait > p.MaxDelay {
		wait = p.MaxDelay
	}
	return wait
}

// FetchWithRetry fetches url until it succeeds, fails fatally, or the
// attempts run out. Retryable failures wait according to the policy
// before the next attempt; there is no wait after the last one.
// When attempts are exhausted the last outcome is returned with an
// EUNAVAILABLE error.
func FetchWithRetry(ctx context.Context, url string, fetcher sitetext.Fetcher, policy RetryPolicy, observe AttemptFunc) sitetext.FetchOutcome {
	attempts := max(1, policy.MaxAttempts)
	sleep := policy.Sleep
	if sleep == nil {
		sleep = Sleep
	}

	var last sitetext.FetchOutcome
	for n := 1; n <= attempts; n++ {
		last = fetcher.Fetch(ctx, url)

		final := last.Kind != sitetext.OutcomeRetryable || n == attempts || ctx.Err() != nil
		var wait time.Duration
		if !final {
			wait = policy.Backoff(last, n)
		}
		if observe != nil {
			observe(Attempt{Number: n, Outcome: last, Wait: wait, Final: final})
		}
		if final {
			break
		}

		if err := sleep(ctx, wait); err != nil {
			return sitetext.RetryableFailure(last.StatusCode, err)
		}
	}

	if last.Kind == sitetext.OutcomeRetryable && ctx.Err() == nil {
		last.Err = sitetext.Errorf(sitetext.EUNAVAILABLE, "giving up on %s after %d attempts: %v", url, attempts, last.Err)
	}
	return last
}
