package pattern

import (
	"errors"
	"fmt"
)

// ErrInvalidPattern is matched by every *PatternError via errors.Is.
var ErrInvalidPattern = errors.New("invalid pattern")

// PatternError reports a malformed magic pattern or a regex body the
// engine refused to compile.
type PatternError struct {
	// Pattern is the raw pattern as supplied by the caller.
	Pattern string
	// Reason is the human readable description of the problem.
	Reason string
	// Err is the underlying engine error, if any.
	Err error
}

func (e *PatternError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Reason, e.Err)
	}
	return e.Reason
}

func (e *PatternError) Unwrap() error {
	return e.Err
}

// Is reports whether target is ErrInvalidPattern.
func (e *PatternError) Is(target error) bool {
	return target == ErrInvalidPattern
}

func newPatternError(raw string, format string, args ...interface{}) *PatternError {
	return &PatternError{Pattern: raw, Reason: fmt.Sprintf(format, args...)}
}
