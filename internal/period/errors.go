package period

import (
	"fmt"
	"time"
)

// ParseError reports a calendar string that is not a valid period.
type ParseError struct {
	Input  string
	Reason string
	Err    error
}

// Error implements the error interface.
func (e *ParseError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("parse period %q: %s: %v", e.Input, e.Reason, e.Err)
	}
	return fmt.Sprintf("parse period %q: %s", e.Input, e.Reason)
}

// Unwrap returns the underlying time parsing error, if any.
func (e *ParseError) Unwrap() error {
	return e.Err
}

// RangeError reports an interval whose start is not before its end.
type RangeError struct {
	Start time.Time
	End   time.Time
}

// Error implements the error interface.
func (e *RangeError) Error() string {
	return fmt.Sprintf("start date %s is not before end date %s",
		e.Start.Format(time.DateTime), e.End.Format(time.DateTime))
}
