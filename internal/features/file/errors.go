package file

import (
	"errors"
	"fmt"
)

var (
	ErrNotFound           = errors.New("file not found")
	ErrParentNotFound     = errors.New("parent not found")
	ErrParentNotAFolder   = errors.New("parent is not a folder")
	ErrStorageWriteFailed = errors.New("storage write failed")
	ErrMalformedID        = errors.New("malformed id")
)

// ValidationError reports a rejected upload field. Reason is safe to return to clients.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

func missingField(field string) *ValidationError {
	return &ValidationError{Field: field, Reason: "Missing " + field}
}
