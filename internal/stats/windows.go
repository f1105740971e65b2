package stats

import "time"

// Window kinds accepted by the reporting endpoints.
const (
	RangeToday  = "today"
	RangeWeek   = "week"
	Range7Days  = "7days"
	RangeMonth  = "month"
	Range30Days = "30days"
	RangeCustom = "custom"
)

// Range resolves a named reporting window to concrete bounds. The calendar
// windows cover whole periods: "today" runs 00:00 to end of day, "week"
// from Sunday to end of Saturday, "month" over the full calendar month.
// "7days" and "30days" are rolling and end at now. A custom window without
// usable bounds falls back to today, and the returned kind reflects the
// fallback.
func Range(kind string, now time.Time, customStart time.Time, customEnd time.Time) (time.Time, time.Time, string) {
	now = now.UTC()
	dayStart := startOfDay(now)

	switch kind {
	case RangeWeek:
		start := dayStart.AddDate(0, 0, -int(now.Weekday()))
		return start, endOfDay(start.AddDate(0, 0, 6)), RangeWeek
	case Range7Days:
		return now.AddDate(0, 0, -7), now, Range7Days
	case RangeMonth:
		start := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC)
		return start, endOfMonth(now), RangeMonth
	case Range30Days:
		return now.AddDate(0, 0, -30), now, Range30Days
	case RangeCustom:
		if customStart.IsZero() || customEnd.IsZero() || customEnd.Before(customStart) {
			return dayStart, endOfDay(now), RangeToday
		}
		start := startOfDay(customStart.UTC())
		end := endOfDay(customEnd.UTC())
		return start, end, RangeCustom
	default:
		return dayStart, endOfDay(now), RangeToday
	}
}

func startOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

func endOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 23, 59, 59, int(time.Second-time.Nanosecond), time.UTC)
}

func endOfMonth(t time.Time) time.Time {
	// Day zero of the next month normalizes to the last day of this one.
	return endOfDay(time.Date(t.Year(), t.Month()+1, 0, 0, 0, 0, 0, time.UTC))
}
