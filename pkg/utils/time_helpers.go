package utils

import "time"

const DateLayout = "2006-01-02"

// ParseDate parses a yyyy-mm-dd string in local time.
func ParseDate(s string) (time.Time, error) {
	return time.ParseInLocation(DateLayout, s, time.Local)
}

func FormatDate(t time.Time) string {
	return t.Format(DateLayout)
}

// StartOfDay truncates t to midnight in its own location.
func StartOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

func DatePtr(t time.Time) *time.Time {
	d := StartOfDay(t)
	return &d
}
