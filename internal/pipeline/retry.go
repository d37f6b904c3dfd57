package pipeline

import "time"

// RetryPolicy bounds per-chunk transcription retries. Backoff grows by
// Factor each retry and never exceeds MaxBackoff.
type RetryPolicy struct {
	MaxAttempts    int
	InitialBackoff time.Duration
	MaxBackoff     time.Duration
	Factor         float64
}

func DefaultRetryPolicy() RetryPolicy {
	return RetryPolicy{
		MaxAttempts:    3,
		InitialBackoff: time.Second,
		MaxBackoff:     30 * time.Second,
		Factor:         2.0,
	}
}

// Backoff returns the delay before the given retry (0 = first retry).
func (p RetryPolicy) Backoff(retry int) time.Duration {
	backoff := p.InitialBackoff
	for i := 0; i < retry; i++ {
		backoff = time.Duration(float64(backoff) * p.Factor)
		if backoff >= p.MaxBackoff {
			return p.MaxBackoff
		}
	}
	if backoff > p.MaxBackoff {
		return p.MaxBackoff
	}
	return backoff
}
