package uploader

import (
	"fmt"
	"time"
)

// RetryPolicy is the exponential backoff applied to rate limited writes. The attempt
// counter starts at Start and the write is retried while the counter is less than Max,
// waiting Backoff^counter seconds after each rate limited attempt.
type RetryPolicy struct {
	Start   int
	Max     int
	Backoff int
}

const (
	MaxRetryCounter = 16
	MaxRetryDelay   = 24 * time.Hour
)

var DefaultRetryPolicy = RetryPolicy{
	Start:   3,
	Max:     6,
	Backoff: 2,
}

func (p RetryPolicy) Validate() error {
	if p.Start < 0 {
		return fmt.Errorf("invalid retry policy - start (%d) must not be negative", p.Start)
	}

	if p.Max <= p.Start {
		return fmt.Errorf("invalid retry policy - max (%d) must be greater than start (%d)", p.Max, p.Start)
	}

	if p.Max > MaxRetryCounter {
		return fmt.Errorf("invalid retry policy - max (%d) must not exceed %d", p.Max, MaxRetryCounter)
	}

	if p.Backoff < 1 {
		return fmt.Errorf("invalid retry policy - backoff (%d) must be at least 1", p.Backoff)
	}

	return nil
}

// delay returns Backoff^attempt seconds, saturating at MaxRetryDelay.
func (p RetryPolicy) delay(attempt int) time.Duration {
	limit := int64(MaxRetryDelay / time.Second)
	seconds := int64(1)

	for i := 0; i < attempt; i++ {
		if p.Backoff > 1 && seconds > limit/int64(p.Backoff) {
			return MaxRetryDelay
		}

		seconds *= int64(p.Backoff)
	}

	if seconds > limit {
		return MaxRetryDelay
	}

	return time.Duration(seconds) * time.Second
}

// retry invokes f until it succeeds, fails with anything other than a rate limit
// response or the policy is exhausted.
func (c *Client) retry(f func() error) error {
	retries := c.policy.Start

	for retries < c.policy.Max {
		err := f()
		if err == nil {
			return nil
		} else if !IsRateLimited(err) {
			return err
		}

		retries++
		wait := c.policy.delay(retries)

		warnf("Rate limit exceeded. Retrying in %v...", wait)
		c.sleep(wait)
	}

	return ErrRetriesExhausted
}
