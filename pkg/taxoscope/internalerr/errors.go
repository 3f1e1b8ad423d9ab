package internalerr

import (
	"errors"
	"fmt"
)

// Sentinel errors for common cases
var (
	ErrMissingReport = errors.New("report file not found")
	ErrInvalidFilter = errors.New("invalid filter")
	ErrNoSnapshot    = errors.New("no snapshot available")
	ErrInvalidConfig = errors.New("invalid configuration")
)

// ParseError describes a malformed report row. Line is 1-based.
type ParseError struct {
	Line   int
	Reason string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("report line %d: %s", e.Line, e.Reason)
}

// NewParseError creates a ParseError for the given line.
func NewParseError(line int, format string, args ...any) *ParseError {
	return &ParseError{Line: line, Reason: fmt.Sprintf(format, args...)}
}
