// SPDX-License-Identifier: MPL-2.0

package fetch

import (
	"context"
	"errors"
	"fmt"
	"net/url"
)

var (
	// ErrUnexpectedStatus is the sentinel wrapped by StatusError.
	ErrUnexpectedStatus = errors.New("unexpected HTTP status")
	// ErrUnknownLength is returned by ContentLength when the server does not report
	// a Content-Length.
	ErrUnknownLength = errors.New("server did not report a content length")
	// ErrTooLarge is returned by Get when a body exceeds the caller's limit.
	ErrTooLarge = errors.New("response body exceeds limit")
)

type (
	// Fetcher downloads url into dest, creating missing parent directories and
	// overwriting any existing file. Transport errors propagate unchanged.
	Fetcher interface {
		Fetch(ctx context.Context, url, dest string) error
	}

	// SizeReader reports the byte length of the resource at url.
	SizeReader interface {
		ContentLength(ctx context.Context, url string) (int64, error)
	}

	// FetcherFunc adapts a function to Fetcher.
	FetcherFunc func(ctx context.Context, url, dest string) error

	// SizeReaderFunc adapts a function to SizeReader.
	SizeReaderFunc func(ctx context.Context, url string) (int64, error)

	// StatusError is returned when a server answers with a non-success status.
	StatusError struct {
		Method string
		URL    string
		Code   int
	}
)

// Fetch implements Fetcher.
func (f FetcherFunc) Fetch(ctx context.Context, url, dest string) error { return f(ctx, url, dest) }

// ContentLength implements SizeReader.
func (f SizeReaderFunc) ContentLength(ctx context.Context, url string) (int64, error) { return f(ctx, url) }

// Error implements the error interface.
func (e *StatusError) Error() string {
	return fmt.Sprintf("%s %s: unexpected status %d", e.Method, redactURL(e.URL), e.Code)
}

// Unwrap returns ErrUnexpectedStatus for errors.Is() compatibility.
func (e *StatusError) Unwrap() error { return ErrUnexpectedStatus }

// redactURL strips query parameters and fragments from a URL for safe inclusion
// in error messages.
func redactURL(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil {
		return "<invalid-url>"
	}
	u.RawQuery = ""
	u.Fragment = ""
	return u.String()
}
