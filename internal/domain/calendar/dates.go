package calendar

import "time"

// ShiftMonths returns midnight of the first day of the month delta months
// away from t, in t's location.
func ShiftMonths(t time.Time, delta int) time.Time {
	return time.Date(t.Year(), t.Month()+time.Month(delta), 1, 0, 0, 0, 0, t.Location())
}

// AddMonthsKeepDay moves t by delta calendar months keeping its day of month
// and clock. When the target month is shorter the day is clamped to its last
// day, so Jan 31 + 1 is Feb 28 (or 29), never Mar 3.
func AddMonthsKeepDay(t time.Time, delta int) time.Time {
	target := Of(t).AddMonths(delta)
	day := t.Day()
	if last := target.DaysIn(); day > last {
		day = last
	}
	return time.Date(target.year, target.month, day, t.Hour(), t.Minute(), t.Second(), t.Nanosecond(), t.Location())
}

// DaysBetween counts calendar days from from to to, ignoring the clock and
// DST transitions. It is negative when to is before from.
func DaysBetween(from, to time.Time) int {
	a := time.Date(from.Year(), from.Month(), from.Day(), 0, 0, 0, 0, time.UTC)
	b := time.Date(to.Year(), to.Month(), to.Day(), 0, 0, 0, 0, time.UTC)
	return int(b.Sub(a).Hours() / 24)
}
