package nudge

import (
	"fmt"
	"strings"
	"time"
)

// TimestampLayout is the export format of ApplicationLastModifiedDateTime:
// day/month/year hour:minute with no zone. Day, month and hour may be one or
// two digits.
const TimestampLayout = "2/1/2006 15:04"

// TimestampError reports a last-modified value that could not be parsed.
type TimestampError struct {
	Line  int
	Email string
	Value string
	Err   error
}

func (e *TimestampError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("invalid date on line %d: %s %q", e.Line, FieldLastModified, e.Value)
	}
	return fmt.Sprintf("invalid date: %s %q", FieldLastModified, e.Value)
}

func (e *TimestampError) Unwrap() error { return e.Err }

// ParseTimestamp parses a last-modified value. There is no fallback: any
// value that does not match TimestampLayout is an error.
func ParseTimestamp(s string) (time.Time, error) {
	t, err := time.Parse(TimestampLayout, strings.TrimSpace(s))
	if err != nil {
		return time.Time{}, &TimestampError{Value: s, Err: err}
	}
	return t, nil
}

// TimestampPolicy decides what happens to records whose last-modified value
// cannot be parsed.
type TimestampPolicy int

const (
	// TimestampReject fails the run on the first unparseable value.
	TimestampReject TimestampPolicy = iota
	// TimestampSortLast orders unparseable records after every parseable one,
	// keeping their input order, and reports each as an issue.
	TimestampSortLast
)

// ParseTimestampPolicy converts a configuration value ("reject" or
// "sort-last") to a TimestampPolicy.
func ParseTimestampPolicy(s string) (TimestampPolicy, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "reject":
		return TimestampReject, nil
	case "sort-last", "sort_last", "last":
		return TimestampSortLast, nil
	default:
		return TimestampReject, fmt.Errorf("unknown timestamp policy %q", s)
	}
}

func (p TimestampPolicy) String() string {
	switch p {
	case TimestampSortLast:
		return "sort-last"
	default:
		return "reject"
	}
}
