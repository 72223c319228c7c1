// SPDX-License-Identifier: MPL-2.0

package fetch

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/cenkalti/backoff/v4"
)

const (
	// DefaultMaxRetries is the number of additional attempts Retrying makes.
	DefaultMaxRetries = 3

	defaultInitialInterval = 250 * time.Millisecond
	defaultMaxInterval     = 5 * time.Second
)

type (
	// Retrying wraps a Fetcher and repeats failed transfers with exponential
	// backoff. Client errors (4xx) are not retried.
	Retrying struct {
		next       Fetcher
		maxRetries uint64
		initial    time.Duration
	}

	// RetryOption configures a Retrying fetcher.
	RetryOption func(*Retrying)
)

// WithMaxRetries sets how many times a failed fetch is repeated.
func WithMaxRetries(n uint64) RetryOption {
	return func(r *Retrying) {
		r.maxRetries = n
	}
}

// WithInitialInterval sets the delay before the first retry.
func WithInitialInterval(d time.Duration) RetryOption {
	return func(r *Retrying) {
		r.initial = d
	}
}

// NewRetrying wraps next with retry behavior.
func NewRetrying(next Fetcher, opts ...RetryOption) *Retrying {
	r := &Retrying{
		next:       next,
		maxRetries: DefaultMaxRetries,
		initial:    defaultInitialInterval,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Fetch implements Fetcher.
func (r *Retrying) Fetch(ctx context.Context, url, dest string) error {
	policy := backoff.NewExponentialBackOff()
	policy.InitialInterval = r.initial
	policy.MaxInterval = defaultMaxInterval

	op := func() error {
		err := r.next.Fetch(ctx, url, dest)
		if err != nil && !retryable(err) {
			return backoff.Permanent(err)
		}
		return err
	}

	return backoff.Retry(op, backoff.WithContext(backoff.WithMaxRetries(policy, r.maxRetries), ctx))
}

func retryable(err error) bool {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}
	var se *StatusError
	if errors.As(err, &se) {
		return se.Code >= http.StatusInternalServerError || se.Code == http.StatusTooManyRequests
	}
	return true
}
