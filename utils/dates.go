// utils/dates.go
package utils

import "time"

const (
	DayLayout        = "2006-01-02"
	BRDateLayout     = "02/01/2006"
	BRDateTimeLayout = "02/01/2006, 15:04:05"
)

func BeginningOfDay(t time.Time) time.Time {
	year, month, day := t.Date()
	return time.Date(year, month, day, 0, 0, 0, 0, t.Location())
}

// EndOfDay returns the last representable instant of t's day.
func EndOfDay(t time.Time) time.Time {
	return BeginningOfDay(t).AddDate(0, 0, 1).Add(-time.Nanosecond)
}

// ParseDay parses a YYYY-MM-DD date as the start of that day in loc.
func ParseDay(s string, loc *time.Location) (time.Time, error) {
	return time.ParseInLocation(DayLayout, s, loc)
}

func DayKey(t time.Time, loc *time.Location) string {
	return t.In(loc).Format(DayLayout)
}

func FormatDateBR(t time.Time, loc *time.Location) string {
	return t.In(loc).Format(BRDateLayout)
}

func FormatDateTimeBR(t time.Time, loc *time.Location) string {
	return t.In(loc).Format(BRDateTimeLayout)
}
