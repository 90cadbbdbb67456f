package errors

import "fmt"

// ParseError wraps a specific error with context about where it occurred.
type ParseError struct {
	Line   int
	Record []string
	Err    error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parse error at line %d: %v (record: %v)", e.Line, e.Err, e.Record)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// Define specific error types for better error handling
var (
	ErrMissingColumns       = fmt.Errorf("missing required columns")
	ErrInvalidFieldCount    = fmt.Errorf("invalid field count")
	ErrInvalidDuration      = fmt.Errorf("invalid duration")
	ErrInvalidTime          = fmt.Errorf("invalid time")
	ErrInvalidTimeOrder     = fmt.Errorf("end time must be after start time")
	ErrInvalidNumberOfCalls = fmt.Errorf("invalid number of calls")
	ErrInvalidPriority      = fmt.Errorf("invalid priority")
	ErrInvalidRecord        = fmt.Errorf("invalid record")
	ErrEmptyInput           = fmt.Errorf("empty input")
)
