// Package period parses calendar strings into spans of time and closed-open
// date intervals.
//
// A Period is a calendar date with a precision: "2014" is the whole of 2014,
// "2014-01" all of January 2014, "2014-01-15" a single day. All instants are
// UTC so that compiled epoch constants and in-memory comparisons share one
// zero point.
package period

import (
	"fmt"
	"strings"
	"time"
)

// Precision is the granularity of a Period.
type Precision int

const (
	Year Precision = iota
	Month
	Day
)

// layouts are indexed by Precision; the precision of an input string is the
// number of '-' separators it contains.
var layouts = [...]string{"2006", "2006-01", "2006-01-02"}

// String returns the precision name.
func (p Precision) String() string {
	switch p {
	case Year:
		return "year"
	case Month:
		return "month"
	case Day:
		return "day"
	default:
		return fmt.Sprintf("precision(%d)", int(p))
	}
}

// Period is a span of time given by its first instant and a precision.
type Period struct {
	Instant   time.Time
	Precision Precision
}

// Parse parses "YYYY", "YYYY-MM" or "YYYY-MM-DD". An empty string yields a
// nil period and no error; it stands for an open interval endpoint.
// Anything else fails with a *ParseError.
func Parse(s string) (*Period, error) {
	if s == "" {
		return nil, nil
	}

	ordinal := strings.Count(s, "-")
	if ordinal >= len(layouts) {
		return nil, &ParseError{
			Input:  s,
			Reason: "date is not in one of the formats " + strings.Join(layouts[:], ", "),
		}
	}

	instant, err := time.ParseInLocation(layouts[ordinal], s, time.UTC)
	if err != nil {
		return nil, &ParseError{Input: s, Reason: "invalid date", Err: err}
	}

	return &Period{Instant: instant, Precision: Precision(ordinal)}, nil
}

// OpenRightEndpoint returns the first instant after the period, for use as
// the excluded end of a closed-open interval.
func (p Period) OpenRightEndpoint() time.Time {
	switch p.Precision {
	case Year:
		return p.Instant.AddDate(1, 0, 0)
	case Month:
		return p.Instant.AddDate(0, 1, 0)
	default:
		return p.Instant.AddDate(0, 0, 1)
	}
}

// String renders the period in its input format.
func (p Period) String() string {
	if int(p.Precision) < len(layouts) {
		return p.Instant.Format(layouts[p.Precision])
	}
	return p.Instant.String()
}

// ParseRange splits a "P1..P2" or "P" pattern into two periods. A bare "P"
// yields the same period for both endpoints. Either side of ".." may be
// empty, giving a nil period for that side.
func ParseRange(pattern string) (start, end *Period, err error) {
	parts := strings.SplitN(pattern, "..", 2)
	if len(parts) == 1 {
		p, err := Parse(parts[0])
		if err != nil {
			return nil, nil, err
		}
		return p, p, nil
	}

	start, err = Parse(parts[0])
	if err != nil {
		return nil, nil, err
	}
	end, err = Parse(parts[1])
	if err != nil {
		return nil, nil, err
	}
	return start, end, nil
}
