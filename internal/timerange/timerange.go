package timerange

import (
	"errors"
	"fmt"
	"time"
)

// Sentinel errors for time range construction.
var (
	// ErrInvalidRange indicates that a date or time input could not be parsed.
	ErrInvalidRange = errors.New("invalid time value")

	// ErrStartAfterEnd indicates that the requested range is empty or inverted.
	ErrStartAfterEnd = errors.New("range start must precede end")
)

// quantum is the granularity for the end instant of relative windows.
// It matches the client-side Cache-Control lifetime, so identical
// requests arriving within the same quarter hour resolve to the same
// range and therefore the same cache key.
const quantum = 15 * time.Minute

// Overridable for tests.
var nowFunc = time.Now

// Range is a half-open time window [Start, End).
type Range struct {
	Start time.Time
	End   time.Time
}

// New validates and constructs an explicit range.
func New(start, end time.Time) (Range, error) {
	if !start.Before(end) {
		return Range{}, fmt.Errorf("%w: %s >= %s", ErrStartAfterEnd,
			start.Format(time.RFC3339), end.Format(time.RFC3339))
	}
	return Range{Start: start, End: end}, nil
}

// LastHours returns a window covering the last n hours, ending at the
// most recent quarter-hour boundary.
func LastHours(n int) Range {
	end := nowFunc().Truncate(quantum)
	return Range{Start: end.Add(-time.Duration(n) * time.Hour), End: end}
}

// Week returns a window covering the last seven days, ending at the
// most recent quarter-hour boundary.
func Week() Range {
	return LastHours(7 * 24)
}

// Day returns the window for one calendar day in the local timezone,
// from local midnight to the next local midnight. The date must be
// formatted as YYYY-MM-DD.
func Day(date string) (Range, error) {
	t, err := time.ParseInLocation("2006-01-02", date, time.Local)
	if err != nil {
		return Range{}, fmt.Errorf("%w: %q is not a valid date", ErrInvalidRange, date)
	}
	return Range{Start: t, End: t.AddDate(0, 0, 1)}, nil
}

// Between returns an explicit window from two instant strings.
// RFC3339 is accepted, as are local datetimes and dates without a zone.
func Between(from, to string) (Range, error) {
	start, err := parseInstant(from)
	if err != nil {
		return Range{}, err
	}
	end, err := parseInstant(to)
	if err != nil {
		return Range{}, err
	}
	return New(start, end)
}

// instantLayouts are tried in order by parseInstant. Layouts without a
// zone are interpreted in the local timezone, matching Day.
var instantLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	"2006-01-02",
}

func parseInstant(value string) (time.Time, error) {
	for _, layout := range instantLayouts {
		if t, err := time.ParseInLocation(layout, value, time.Local); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("%w: %q is not a valid instant", ErrInvalidRange, value)
}

// Contains reports whether a Unix timestamp falls within [Start, End).
func (r Range) Contains(unixSeconds int64) bool {
	t := time.Unix(unixSeconds, 0)
	return !t.Before(r.Start) && t.Before(r.End)
}

// String returns the range in UTC RFC3339, suitable for logs and keys.
func (r Range) String() string {
	return r.Start.UTC().Format(time.RFC3339) + "/" + r.End.UTC().Format(time.RFC3339)
}
