package cache

import (
	"context"
	"errors"
	"time"
)

// ErrUnavailable means a remote backend (Redis) did not answer. Callers
// fall back to running without a cache.
var ErrUnavailable = errors.New("cache backend unavailable")

// RetryableError marks a transient backend failure, such as a dropped Redis
// connection or a MongoDB write that timed out.
type RetryableError struct{ Err error }

// Retryable marks err as transient. A nil err stays nil.
func Retryable(err error) error {
	if err == nil {
		return nil
	}
	return &RetryableError{Err: err}
}

func (e *RetryableError) Error() string { return e.Err.Error() }
func (e *RetryableError) Unwrap() error { return e.Err }

// IsRetryable reports whether err was marked with [Retryable].
func IsRetryable(err error) bool {
	var re *RetryableError
	return errors.As(err, &re)
}

// RetryDelay is the wait before the second attempt; it doubles after that.
var RetryDelay = 200 * time.Millisecond

// retryAttempts bounds [RetryWithBackoff].
const retryAttempts = 3

// RetryWithBackoff calls fn until it succeeds, returns an error not marked
// [Retryable], or has been tried retryAttempts times.
func RetryWithBackoff(ctx context.Context, fn func() error) error {
	delay := RetryDelay
	var err error
	for attempt := 1; ; attempt++ {
		if err = fn(); err == nil || !IsRetryable(err) || attempt == retryAttempts {
			return err
		}
		timer := time.NewTimer(delay)
		select {
		case <-ctx.Done():
			timer.Stop()
			return ctx.Err()
		case <-timer.C:
		}
		delay *= 2
	}
}
