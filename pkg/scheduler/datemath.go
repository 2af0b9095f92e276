package scheduler

import "time"

// DaysInMonth returns the number of days in the given month
func DaysInMonth(year int, month time.Month) int {
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

// FirstWeekday returns the weekday of the first day of the month, Sunday being 0
func FirstWeekday(year int, month time.Month) time.Weekday {
	return time.Date(year, month, 1, 0, 0, 0, 0, time.UTC).Weekday()
}

// StartOfDay truncates t to local midnight in its own location
func StartOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

// StartOfWeek returns the Sunday on or before t
func StartOfWeek(t time.Time) time.Time {
	day := StartOfDay(t)
	return day.AddDate(0, 0, -int(day.Weekday()))
}

// AtClock returns the calendar day of day at hour:minute
func AtClock(day time.Time, hour, minute int) time.Time {
	y, m, d := day.Date()
	return time.Date(y, m, d, hour, minute, 0, 0, day.Location())
}

// WithTimeOf returns the calendar day of day with the time of day taken from clock
func WithTimeOf(day, clock time.Time) time.Time {
	y, m, d := day.Date()
	clock = clock.In(day.Location())
	return time.Date(y, m, d, clock.Hour(), clock.Minute(), clock.Second(), clock.Nanosecond(), day.Location())
}

// SameDay reports whether a and b fall on the same calendar day
func SameDay(a, b time.Time) bool {
	return dayKey(a) == dayKey(b)
}

// CompareDay orders a and b by calendar day only
func CompareDay(a, b time.Time) int {
	ka, kb := dayKey(a), dayKey(b)
	switch {
	case ka < kb:
		return -1
	case ka > kb:
		return 1
	}
	return 0
}

func dayKey(t time.Time) int {
	y, m, d := t.Date()
	return y*10000 + int(m)*100 + d
}
