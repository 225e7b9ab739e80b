package uploader

import (
	"context"

	"golang.org/x/time/rate"
)

// Pacer spaces out requests to the Sheets API so that bursts of appends stay under
// the per-user quota rather than relying entirely on 429 backoff.
type Pacer struct {
	limiter *rate.Limiter
}

// NewPacer returns a token bucket pacer. A non-positive rate disables pacing.
func NewPacer(requestsPerSecond float64, burst int) *Pacer {
	if requestsPerSecond <= 0 {
		return &Pacer{
			limiter: rate.NewLimiter(rate.Inf, 0),
		}
	}

	if burst < 1 {
		burst = 1
	}

	return &Pacer{
		limiter: rate.NewLimiter(rate.Limit(requestsPerSecond), burst),
	}
}

func (p *Pacer) Wait(ctx context.Context) error {
	if p == nil || p.limiter == nil {
		return nil
	}

	return p.limiter.Wait(ctx)
}
