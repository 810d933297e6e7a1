// Package ulid generates the identifiers attached to export runs.
// ULIDs sort by creation time, so run IDs in the log order the same way the
// runs happened.
package ulid

import (
	"errors"
	"fmt"

	"github.com/oklog/ulid/v2"
)

// ErrInvalidULID indicates that a ULID string is malformed or invalid
var ErrInvalidULID = errors.New("invalid ULID format")

// Generate returns a new ULID for the current time. IDs generated within the
// same millisecond are strictly increasing.
func Generate() string {
	return ulid.Make().String()
}

// Validate checks that str is a well-formed ULID.
func Validate(str string) error {
	if len(str) != ulid.EncodedSize {
		return fmt.Errorf("%w: expected %d characters, got %d", ErrInvalidULID, ulid.EncodedSize, len(str))
	}
	if _, err := ulid.ParseStrict(str); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidULID, err)
	}
	return nil
}
