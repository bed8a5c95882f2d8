package domain

import "time"

// DateLayout is the ISO calendar date format used on the command line and in cache keys.
const DateLayout = "2006-01-02"

// DateOf returns the calendar date of t (in t's own location) as midnight UTC,
// which is how DATE columns round-trip through the store.
func DateOf(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// DayBounds returns [start, end) of the calendar date in loc.
func DayBounds(date time.Time, loc *time.Location) (time.Time, time.Time) {
	y, m, d := date.Date()
	start := time.Date(y, m, d, 0, 0, 0, 0, loc)

	return start, start.AddDate(0, 0, 1)
}

// ParseDate parses a YYYY-MM-DD string.
func ParseDate(s string) (time.Time, error) {
	return time.Parse(DateLayout, s)
}
