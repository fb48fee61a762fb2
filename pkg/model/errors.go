package model

import (
	"errors"
	"fmt"
)

// ErrNotInitialized is returned when a session command is issued before
// InitializeTree. This indicates an integration bug, not a user error.
var ErrNotInitialized = errors.New("tree session not initialized")

// MalformedTreeError reports a source tree that violates the structural
// invariants (single root at depth 0, child depth = parent depth + 1,
// unique node IDs). Conversion fails without producing a partial graph.
type MalformedTreeError struct {
	Reason string
}

func (e *MalformedTreeError) Error() string {
	return fmt.Sprintf("malformed tree: %s", e.Reason)
}

// Malformed builds a MalformedTreeError with a formatted reason.
func Malformed(format string, args ...any) error {
	return &MalformedTreeError{Reason: fmt.Sprintf(format, args...)}
}

// IsMalformed reports whether err is (or wraps) a MalformedTreeError.
func IsMalformed(err error) bool {
	var m *MalformedTreeError
	return errors.As(err, &m)
}
