// Package retry retries transient failures of the optional run integrations
// (history ledger, event publishing) with a bounded backoff.
package retry

import (
	"context"
	"fmt"
	"time"

	"git.home.luguber.info/inful/dumpsite/internal/config"
)

// Policy is a backoff schedule. The zero Policy makes a single attempt.
type Policy struct {
	Mode       config.RetryBackoffMode
	Initial    time.Duration
	Max        time.Duration
	MaxRetries int // attempts after the first failure
}

// DefaultPolicy is linear from 200ms, capped at 2s, with two retries.
func DefaultPolicy() Policy {
	return Policy{Mode: config.RetryBackoffLinear, Initial: 200 * time.Millisecond, Max: 2 * time.Second, MaxRetries: 2}
}

// FromConfig builds a policy from the retry section; unset values keep the
// defaults and a negative max_retries disables retrying.
func FromConfig(c config.RetryConfig) Policy {
	p := DefaultPolicy()
	if c.Backoff != "" {
		p.Mode = config.NormalizeRetryBackoff(c.Backoff)
	}
	if d, err := time.ParseDuration(c.Initial); err == nil && d > 0 {
		p.Initial = d
	}
	if d, err := time.ParseDuration(c.Max); err == nil && d > 0 {
		p.Max = d
	}
	switch {
	case c.MaxRetries < 0:
		p.MaxRetries = 0
	case c.MaxRetries > 0:
		p.MaxRetries = c.MaxRetries
	}
	if p.Initial > p.Max {
		p.Initial = p.Max
	}
	return p
}

// Delay returns the wait before retry n (1-based).
func (p Policy) Delay(n int) time.Duration {
	if n <= 0 || p.Initial <= 0 {
		return 0
	}
	var d time.Duration
	switch p.Mode {
	case config.RetryBackoffFixed:
		d = p.Initial
	case config.RetryBackoffExponential:
		d = p.Initial << (n - 1)
		if d <= 0 { // overflow
			d = p.Max
		}
	default:
		d = time.Duration(n) * p.Initial
	}
	if p.Max > 0 && d > p.Max {
		return p.Max
	}
	return d
}

// Do calls fn until it succeeds, the retries are exhausted or ctx is done.
func (p Policy) Do(ctx context.Context, fn func(context.Context) error) error {
	var err error
	for attempt := 0; ; attempt++ {
		if err = fn(ctx); err == nil {
			return nil
		}
		if attempt >= p.MaxRetries {
			break
		}
		t := time.NewTimer(p.Delay(attempt + 1))
		select {
		case <-ctx.Done():
			t.Stop()
			return fmt.Errorf("%w (gave up after %d attempts: %w)", err, attempt+1, ctx.Err())
		case <-t.C:
		}
	}
	if p.MaxRetries == 0 {
		return err
	}
	return fmt.Errorf("%w (after %d attempts)", err, p.MaxRetries+1)
}
