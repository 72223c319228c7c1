// SPDX-License-Identifier: MPL-2.0

package cache

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrFetch is the sentinel wrapped by FetchError.
	ErrFetch = errors.New("fetch failed")
	// ErrSizeUnknown is returned when a requirement is planned for a library
	// whose size was never measured.
	ErrSizeUnknown = errors.New("artifact size unknown")
	// ErrUnsafePath is the sentinel wrapped by UnsafePathError.
	ErrUnsafePath = errors.New("path escapes cache directory")
)

type (
	// FailedItem is one artifact that could not be fetched.
	FailedItem struct {
		Requirement Requirement
		Err         error
	}

	// FetchError reports the artifacts of a batch that failed to transfer.
	FetchError struct {
		Batch string
		Items []FailedItem
	}

	// UnsafePathError reports an upstream path that would resolve outside the
	// directory it belongs to.
	UnsafePathError struct {
		Base string
		Path string
	}
)

// Error implements the error interface.
func (e *FetchError) Error() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "%s: %d item(s) failed", e.Batch, len(e.Items))
	for i, item := range e.Items {
		if i == 3 {
			fmt.Fprintf(&sb, "; and %d more", len(e.Items)-i)
			break
		}
		fmt.Fprintf(&sb, "; %s: %v", item.Requirement.label(), item.Err)
	}
	return sb.String()
}

// Unwrap exposes ErrFetch and every item error to errors.Is/As.
func (e *FetchError) Unwrap() []error {
	errs := make([]error, 0, len(e.Items)+1)
	errs = append(errs, ErrFetch)
	for _, item := range e.Items {
		errs = append(errs, item.Err)
	}
	return errs
}

// Error implements the error interface.
func (e *UnsafePathError) Error() string {
	return fmt.Sprintf("%s: %q under %s", ErrUnsafePath, e.Path, e.Base)
}

// Unwrap returns ErrUnsafePath for errors.Is() compatibility.
func (e *UnsafePathError) Unwrap() error { return ErrUnsafePath }
