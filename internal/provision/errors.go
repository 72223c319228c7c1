// SPDX-License-Identifier: MPL-2.0

package provision

import (
	"errors"
	"fmt"
)

// ErrMissingVersion is the sentinel wrapped by MissingVersionError.
var ErrMissingVersion = errors.New("version not found in manifest index")

// MissingVersionError reports a version id absent from the manifest index.
// Pipeline logs it and returns a nil result; the CLI turns that result back
// into this error.
type MissingVersionError struct {
	ID string
}

// Error implements the error interface.
func (e *MissingVersionError) Error() string {
	return fmt.Sprintf("version %q not found in manifest index", e.ID)
}

// Unwrap returns ErrMissingVersion for errors.Is() compatibility.
func (e *MissingVersionError) Unwrap() error { return ErrMissingVersion }
