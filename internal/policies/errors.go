package policies

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

var (
	// ErrPolicyNotFound is returned when a policy id does not exist or the
	// policy has been soft-deleted.
	ErrPolicyNotFound = errors.New("refund policy not found")

	// ErrPolicyOverlap is returned when a candidate policy's day range
	// intersects an existing enabled policy of the same type at the same
	// priority.
	ErrPolicyOverlap = errors.New("refund policy overlaps an existing policy at the same priority")

	// ErrNoFreePriority is returned when all priority slots for a refund type
	// are taken.
	ErrNoFreePriority = errors.New("no free priority slot for refund type")
)

// ValidationError collects field-level validation failures for policy
// authoring. Nothing is persisted when it is returned.
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, fmt.Sprintf("%s: %s", k, e.Fields[k]))
	}
	return "invalid refund policy: " + strings.Join(parts, "; ")
}

func newValidationError() *ValidationError {
	return &ValidationError{Fields: make(map[string]string)}
}

// AsValidationError unwraps err into a *ValidationError if it is one.
func AsValidationError(err error) (*ValidationError, bool) {
	var ve *ValidationError
	if errors.As(err, &ve) {
		return ve, true
	}
	return nil, false
}
