package promotion

import "time"

const minutesPerDay = 24 * 60

// Status derives the coarse, admin-facing lifecycle state. It considers the
// date range only; weekday and time-of-day matching live in WithinWindow so
// the two notions stay distinct.
func Status(p Promotion, now time.Time) Lifecycle {
	if !p.Active {
		return LifecycleInactive
	}
	today := dateOnly(now)
	if dateOnly(p.EndDate).Before(today) {
		return LifecycleExpired
	}
	if dateOnly(p.StartDate).After(today) {
		return LifecycleScheduled
	}
	return LifecycleActive
}

// WithinWindow reports whether the instant falls inside the promotion's
// schedule: date within [StartDate, EndDate], weekday in the day set, and
// time-of-day within [StartMinute, EndMinute].
//
// When EndMinute is below StartMinute the daily window wraps past midnight.
// A minute past midnight up to EndMinute still belongs to the window that
// opened the previous day, so the date-range and weekday checks run against
// that opening day.
func WithinWindow(p Promotion, at time.Time) bool {
	if len(p.Days) == 0 {
		return false
	}
	minute := at.Hour()*60 + at.Minute()
	day := dateOnly(at)

	if p.EndMinute >= p.StartMinute {
		return minute >= p.StartMinute && minute <= p.EndMinute &&
			dateInRange(day, p) && weekdayIn(p.Days, at.Weekday())
	}

	// Overnight window, evaluated against whichever day opened it.
	if minute >= p.StartMinute {
		return dateInRange(day, p) && weekdayIn(p.Days, at.Weekday())
	}
	if minute <= p.EndMinute {
		opened := day.AddDate(0, 0, -1)
		return dateInRange(opened, p) && weekdayIn(p.Days, opened.Weekday())
	}
	return false
}

func dateOnly(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

func dateInRange(day time.Time, p Promotion) bool {
	start := dateOnly(p.StartDate)
	end := dateOnly(p.EndDate)
	return !day.Before(start) && !day.After(end)
}

func weekdayIn(days []time.Weekday, d time.Weekday) bool {
	for _, v := range days {
		if v == d {
			return true
		}
	}
	return false
}
