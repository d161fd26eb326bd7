package dataset

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/mongo"
)

// Retry defaults for reading a remote source.
const (
	loadAttempts = 3
	loadDelay    = 500 * time.Millisecond
)

// transientError marks a failure worth another attempt.
type transientError struct{ err error }

func (e *transientError) Error() string { return e.err.Error() }
func (e *transientError) Unwrap() error { return e.err }

// transient wraps err when the driver reports a network failure or a
// timeout. Other errors pass through unchanged.
func transient(err error) error {
	if err == nil {
		return nil
	}
	if mongo.IsNetworkError(err) || mongo.IsTimeout(err) {
		return &transientError{err: err}
	}
	return err
}

// retry runs fn up to attempts times, doubling delay after each transient
// failure. Non-transient errors return immediately; the last error is
// returned unwrapped once attempts run out.
func retry(ctx context.Context, attempts int, delay time.Duration, fn func() error) error {
	attempts = max(attempts, 1)
	var last error
	for i := range attempts {
		err := fn()
		if err == nil {
			return nil
		}
		var te *transientError
		if !errors.As(err, &te) {
			return err
		}
		last = te.err
		if i < attempts-1 {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(delay):
				delay *= 2
			}
		}
	}
	return last
}
