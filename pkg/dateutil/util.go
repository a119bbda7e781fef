package dateutil

import "time"

func BeginningOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

func NextDay(t time.Time) time.Time {
	return BeginningOfDay(t).AddDate(0, 0, 1)
}

func BeginningOfMonth(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, t.Location())
}

func NextMonth(t time.Time) time.Time {
	return BeginningOfMonth(t).AddDate(0, 1, 0)
}

func BeginningOfYear(t time.Time) time.Time {
	return time.Date(t.Year(), 1, 1, 0, 0, 0, 0, t.Location())
}

func NextYear(t time.Time) time.Time {
	return BeginningOfYear(t).AddDate(1, 0, 0)
}

func LastMonth(t time.Time) time.Time {
	return BeginningOfMonth(t).AddDate(0, -1, 0)
}

// IsWeekend reports whether the time falls on Saturday or Sunday.
func IsWeekend(t time.Time) bool {
	return t.Weekday() == time.Saturday || t.Weekday() == time.Sunday
}

// OverlapsHourWindow reports whether any instant of [start, end) falls inside
// the daily window [fromHour, toHour). A window with fromHour > toHour wraps
// midnight, e.g. 22 to 6.
func OverlapsHourWindow(start, end time.Time, fromHour, toHour int) bool {
	if !start.Before(end) {
		return false
	}

	// An interval of a full day or longer covers every window.
	if end.Sub(start) >= 24*time.Hour {
		return true
	}

	for day := BeginningOfDay(start).AddDate(0, 0, -1); day.Before(end); day = day.AddDate(0, 0, 1) {
		windowStart := day.Add(time.Duration(fromHour) * time.Hour)
		windowEnd := day.Add(time.Duration(toHour) * time.Hour)
		if fromHour > toHour {
			windowEnd = windowEnd.AddDate(0, 0, 1)
		}

		if start.Before(windowEnd) && end.After(windowStart) {
			return true
		}
	}

	return false
}
