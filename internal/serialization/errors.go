package serialization

import (
	"errors"
	"fmt"
)

// Common errors.
var (
	ErrChecksumMismatch   = errors.New("checksum mismatch: file may be corrupted")
	ErrUnsupportedVersion = errors.New("unsupported format version")
	ErrFileTooLarge       = errors.New("file exceeds maximum size")
	ErrNotAutoencoder     = errors.New("checkpoint has no decoder")
)

// ValidationError provides detailed information about validation failures.
type ValidationError struct {
	Type    string // Type of error (e.g., "malformed_layers", "metadata_too_large")
	Field   string // JSON field involved, if any
	Details string // Additional details
	Err     error  // Underlying cause, if any
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("%s: field %q: %s", e.Type, e.Field, e.Details)
	}
	return fmt.Sprintf("%s: %s", e.Type, e.Details)
}

// Unwrap returns the underlying cause.
func (e *ValidationError) Unwrap() error {
	return e.Err
}
