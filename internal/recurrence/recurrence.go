package recurrence

import (
	"encoding/json"
	"fmt"
)

// Unit is the step unit of an interval recurrence.
type Unit string

const (
	UnitMinutes Unit = "minutes"
	UnitHours   Unit = "hours"
	UnitDays    Unit = "days"
	UnitWeeks   Unit = "weeks"
)

// Interval repeats a fixed amount of time after each occurrence.
// A zero count is accepted and degenerates to firing again on the
// next dispatch cycle.
type Interval struct {
	Unit  Unit `json:"unit"`
	Count int  `json:"count"`
}

// ScheduleKind discriminates the calendar recurrence families.
type ScheduleKind string

const (
	Daily    ScheduleKind = "daily"
	Weekly   ScheduleKind = "weekly"
	Monthly  ScheduleKind = "monthly"
	Weekdays ScheduleKind = "weekdays"
	Weekends ScheduleKind = "weekends"
)

// Schedule describes a calendar-based recurrence rule.
// DayOfWeek runs 0-6 with Sunday as 0 and is only meaningful for Weekly.
// DayOfMonth runs 1-31 and is only meaningful for Monthly; days past the
// end of a target month clamp to that month's last day.
type Schedule struct {
	Kind       ScheduleKind `json:"type"`
	DayOfWeek  int          `json:"dayOfWeek,omitempty"`
	DayOfMonth int          `json:"dayOfMonth,omitempty"`
	Hour       int          `json:"hour"`
	Minute     int          `json:"minute"`
}

// Kind discriminates the three recurrence variants.
type Kind string

const (
	KindNone     Kind = "none"
	KindInterval Kind = "interval"
	KindCalendar Kind = "calendar"
)

// Recurrence is the repetition policy of a reminder. Exactly one variant
// is active, selected by Kind: Interval is meaningful only for
// KindInterval, Schedule only for KindCalendar.
type Recurrence struct {
	Kind     Kind
	Interval Interval
	Schedule Schedule
}

// None is the one-off (non repeating) recurrence.
var None = Recurrence{Kind: KindNone}

// NewInterval wraps an interval descriptor as a recurrence.
func NewInterval(iv Interval) Recurrence {
	return Recurrence{Kind: KindInterval, Interval: iv}
}

// NewCalendar wraps a schedule descriptor as a recurrence.
func NewCalendar(s Schedule) Recurrence {
	return Recurrence{Kind: KindCalendar, Schedule: s}
}

// IsNone reports whether the reminder is one-off.
func (r Recurrence) IsNone() bool {
	return r.Kind == KindNone || r.Kind == ""
}

type recurrenceEnvelope struct {
	Kind     Kind      `json:"kind"`
	Unit     Unit      `json:"unit,omitempty"`
	Count    *int      `json:"count,omitempty"`
	Schedule *Schedule `json:"schedule,omitempty"`
}

// MarshalJSON serializes the recurrence so that it round-trips losslessly
// through UnmarshalJSON. The wire shape is otherwise opaque to callers.
func (r Recurrence) MarshalJSON() ([]byte, error) {
	env := recurrenceEnvelope{Kind: r.Kind}
	switch r.Kind {
	case KindNone, "":
		env.Kind = KindNone
	case KindInterval:
		env.Unit = r.Interval.Unit
		count := r.Interval.Count
		env.Count = &count
	case KindCalendar:
		schedule := r.Schedule
		env.Schedule = &schedule
	default:
		return nil, fmt.Errorf("unknown recurrence kind: %q", r.Kind)
	}
	return json.Marshal(env)
}

func (r *Recurrence) UnmarshalJSON(data []byte) error {
	var env recurrenceEnvelope
	if err := json.Unmarshal(data, &env); err != nil {
		return err
	}
	switch env.Kind {
	case KindNone:
		*r = None
	case KindInterval:
		if env.Count == nil {
			return fmt.Errorf("interval recurrence is missing a count")
		}
		*r = NewInterval(Interval{Unit: env.Unit, Count: *env.Count})
	case KindCalendar:
		if env.Schedule == nil {
			return fmt.Errorf("calendar recurrence is missing a schedule")
		}
		*r = NewCalendar(*env.Schedule)
	default:
		return fmt.Errorf("unknown recurrence kind: %q", env.Kind)
	}
	return nil
}
