package providers

import (
	"context"
	"time"
)

// withRetry runs call up to maxRetries times, sleeping 2^attempt seconds
// between attempts. Only errors classified as rate-limit or transient are
// retried; everything else returns immediately.
func withRetry(ctx context.Context, maxRetries int, call func() error) error {
	if maxRetries < 1 {
		maxRetries = 1
	}
	var last error
	for attempt := 0; attempt < maxRetries; attempt++ {
		last = call()
		if last == nil {
			return nil
		}
		if !Retryable(last) {
			return last
		}
		if attempt == maxRetries-1 {
			break
		}
		wait := time.Duration(1<<uint(attempt)) * time.Second
		timer := time.NewTimer(wait)
		select {
		case <-ctx.Done():
			timer.Stop()
			return ctx.Err()
		case <-timer.C:
		}
	}
	return last
}
