package cache

import (
	"context"
	"errors"
	"time"
)

// ErrUnavailable reports a remote backend that did not answer. Callers
// fall back to NullCache rather than failing the render.
var ErrUnavailable = errors.New("cache backend unavailable")

// RetryableError marks a backend failure that may succeed on another try,
// such as a refused connection while Redis starts.
type RetryableError struct{ Err error }

// Retryable wraps err; nil stays nil.
func Retryable(err error) error {
	if err == nil {
		return nil
	}
	return &RetryableError{Err: err}
}

func (e *RetryableError) Error() string { return e.Err.Error() }
func (e *RetryableError) Unwrap() error { return e.Err }

// IsRetryable reports whether err carries a RetryableError.
func IsRetryable(err error) bool {
	return errors.As(err, new(*RetryableError))
}

// retryDelay is the first backoff delay; tests shorten it.
var retryDelay = 200 * time.Millisecond

const retryAttempts = 3

// RetryWithBackoff calls fn until it succeeds, returns a non-retryable
// error, or retryAttempts calls have failed. The delay doubles between
// attempts.
func RetryWithBackoff(ctx context.Context, fn func() error) error {
	delay := retryDelay
	var err error
	for attempt := 1; ; attempt++ {
		if err = fn(); err == nil || !IsRetryable(err) || attempt == retryAttempts {
			return err
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(delay):
			delay *= 2
		}
	}
}
