package period

import (
	"fmt"
	"time"
)

// DateInterval is a closed-open interval of instants. A nil Start means
// since the beginning of time, a nil End means towards infinity.
type DateInterval struct {
	Start *time.Time
	End   *time.Time
}

// NewInterval builds an interval, failing with a *RangeError unless
// start < end when both are set.
func NewInterval(start, end *time.Time) (DateInterval, error) {
	if start != nil && end != nil && !start.Before(*end) {
		return DateInterval{}, &RangeError{Start: *start, End: *end}
	}
	return DateInterval{Start: start, End: end}, nil
}

// FromPeriods builds the interval covering start through the end of end.
// The left endpoint is start's instant and the right endpoint is end's
// open right endpoint.
func FromPeriods(start, end *Period) (DateInterval, error) {
	var s, e *time.Time
	if start != nil {
		t := start.Instant
		s = &t
	}
	if end != nil {
		t := end.OpenRightEndpoint()
		e = &t
	}
	return NewInterval(s, e)
}

// Contains reports whether t lies in [Start, End).
func (i DateInterval) Contains(t time.Time) bool {
	if i.Start != nil && t.Before(*i.Start) {
		return false
	}
	if i.End != nil && !t.Before(*i.End) {
		return false
	}
	return true
}

// String renders the interval as "[start, end)".
func (i DateInterval) String() string {
	return fmt.Sprintf("[%s, %s)", endpoint(i.Start), endpoint(i.End))
}

func endpoint(t *time.Time) string {
	if t == nil {
		return "None"
	}
	return t.Format(time.DateTime)
}

// Epoch converts t to whole seconds since the Unix epoch in UTC.
// Sub-second precision is truncated.
func Epoch(t time.Time) int64 {
	return t.Unix()
}

// FromEpoch converts a timestamp in seconds, possibly fractional, to a UTC
// instant.
func FromEpoch(seconds float64) time.Time {
	whole := int64(seconds)
	if float64(whole) > seconds {
		whole--
	}
	nanos := int64((seconds - float64(whole)) * float64(time.Second))
	return time.Unix(whole, nanos).UTC()
}
