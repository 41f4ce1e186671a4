package util

import "time"

// DayBounds returns the calendar-day start and end surrounding t in t's
// location.
func DayBounds(t time.Time) (time.Time, time.Time) {
	start := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
	return start, start.AddDate(0, 0, 1).Add(-time.Nanosecond)
}

// AiringWindow returns the acceptance window around t: back days before the
// start of t's day through forward days after it.
func AiringWindow(t time.Time, back, forward int) (time.Time, time.Time) {
	dayStart, _ := DayBounds(t)
	return dayStart.AddDate(0, 0, -back), dayStart.AddDate(0, 0, forward+1).Add(-time.Nanosecond)
}

// ParseAirDate parses an ISO calendar date (2006-01-02) in loc. The zero
// time is returned when the value is empty or malformed.
func ParseAirDate(value string, loc *time.Location) time.Time {
	if value == "" {
		return time.Time{}
	}
	t, err := time.ParseInLocation("2006-01-02", value, loc)
	if err != nil {
		return time.Time{}
	}
	return t
}
