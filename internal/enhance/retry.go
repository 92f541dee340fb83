package enhance

import (
	"context"
	"errors"
	"fmt"
	"time"
)

// transportError is a non-auth HTTP failure from the generation API.
// transient marks failures worth one more attempt (rate limits,
// server errors, network faults).
type transportError struct {
	status    int
	transient bool
	message   string
}

func (e *transportError) Error() string {
	if e.status != 0 {
		return fmt.Sprintf("API error (status %d): %s", e.status, e.message)
	}
	return e.message
}

// authError reports an invalid or rejected API key. Never retried.
type authError struct {
	message string
}

func (e *authError) Error() string {
	return fmt.Sprintf("authentication failed: %s", e.message)
}

// IsAuthError reports whether err means the API key was rejected.
func IsAuthError(err error) bool {
	var ae *authError
	return errors.As(err, &ae)
}

func isTransient(err error) bool {
	if errors.Is(err, context.Canceled) {
		return false
	}
	var ae *authError
	if errors.As(err, &ae) {
		return false
	}
	var te *transportError
	if errors.As(err, &te) {
		return te.transient
	}
	// Unclassified failures (timeouts, truncated responses) get the
	// benefit of the doubt.
	return true
}

// retryTransient runs fn up to maxRetries+1 times with exponential
// backoff, retrying only transient failures.
func retryTransient(ctx context.Context, maxRetries int, fn func() error) error {
	var lastErr error

	for attempt := 0; attempt <= maxRetries; attempt++ {
		lastErr = fn()
		if lastErr == nil {
			return nil
		}
		if !isTransient(lastErr) {
			return lastErr
		}
		if attempt < maxRetries {
			backoff := time.Duration(1<<uint(attempt)) * time.Second
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(backoff):
			}
		}
	}

	return lastErr
}
