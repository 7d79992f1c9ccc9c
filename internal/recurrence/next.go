package recurrence

import "time"

// Next computes the next fire instant of a calendar schedule strictly after
// the reference instant. It reads no clock besides ref, so both the
// first-schedule preview and every dispatch tick go through the same math.
// The result carries ref's location. It reports false only for an
// unrecognized schedule kind.
func Next(s Schedule, ref time.Time) (time.Time, bool) {
	loc := ref.Location()
	year, month, day := ref.Date()

	switch s.Kind {
	case Daily:
		next := time.Date(year, month, day, s.Hour, s.Minute, 0, 0, loc)
		if !next.After(ref) {
			next = next.AddDate(0, 0, 1)
		}
		return next, true

	case Weekly:
		delta := (s.DayOfWeek - int(ref.Weekday()) + 7) % 7
		next := time.Date(year, month, day+delta, s.Hour, s.Minute, 0, 0, loc)
		// Same weekday with the time-of-day already passed means a full
		// week out, not today.
		if delta == 0 && !next.After(ref) {
			next = next.AddDate(0, 0, 7)
		}
		return next, true

	case Monthly:
		next := time.Date(year, month, s.DayOfMonth, s.Hour, s.Minute, 0, 0, loc)
		if !next.After(ref) || s.DayOfMonth > daysIn(year, month) {
			dom := s.DayOfMonth
			if last := daysIn(year, month+1); dom > last {
				dom = last
			}
			next = time.Date(year, month+1, dom, s.Hour, s.Minute, 0, 0, loc)
		}
		return next, true

	case Weekdays, Weekends:
		next := time.Date(year, month, day, s.Hour, s.Minute, 0, 0, loc)
		if !next.After(ref) {
			next = next.AddDate(0, 0, 1)
		}
		for !inWeekdayClass(next.Weekday(), s.Kind) {
			next = next.AddDate(0, 0, 1)
		}
		return next, true
	}

	return time.Time{}, false
}

// AdvanceInterval steps an interval recurrence forward from the reminder's
// current due time, not from the wall clock, so late dispatch cycles do not
// drift the series off its original anchor.
func AdvanceInterval(iv Interval, dueAt time.Time) time.Time {
	switch iv.Unit {
	case UnitMinutes:
		return dueAt.Add(time.Duration(iv.Count) * time.Minute)
	case UnitHours:
		return dueAt.Add(time.Duration(iv.Count) * time.Hour)
	case UnitDays:
		return dueAt.AddDate(0, 0, iv.Count)
	case UnitWeeks:
		return dueAt.AddDate(0, 0, iv.Count*7)
	}
	return dueAt
}

func inWeekdayClass(d time.Weekday, kind ScheduleKind) bool {
	weekend := d == time.Saturday || d == time.Sunday
	if kind == Weekends {
		return weekend
	}
	return !weekend
}

// daysIn returns the number of days in a month. The month may be past
// December; time.Date normalizes it into the following year.
func daysIn(year int, month time.Month) int {
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}
