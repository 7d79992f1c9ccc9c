package timeparse_test

import (
	"testing"

	"github.com/daybreak-labs/remindbot/internal/recurrence"
	"github.com/daybreak-labs/remindbot/internal/timeparse"
)

func TestParseInterval(t *testing.T) {
	table := []struct {
		input string
		want  recurrence.Interval
	}{
		{input: "30분", want: recurrence.Interval{Unit: recurrence.UnitMinutes, Count: 30}},
		{input: "1시간", want: recurrence.Interval{Unit: recurrence.UnitHours, Count: 1}},
		{input: "1일", want: recurrence.Interval{Unit: recurrence.UnitDays, Count: 1}},
		{input: "2주", want: recurrence.Interval{Unit: recurrence.UnitWeeks, Count: 2}},
		{input: "  1시간  ", want: recurrence.Interval{Unit: recurrence.UnitHours, Count: 1}},

		// 간 is optional, so a bare hour marker still reads as hours.
		{input: "3시", want: recurrence.Interval{Unit: recurrence.UnitHours, Count: 3}},

		// The first recognized unit owns the input; trailing units are ignored.
		{input: "1시간 30분", want: recurrence.Interval{Unit: recurrence.UnitMinutes, Count: 30}},

		// A decimal count matches on its fractional digits only.
		{input: "30.5분", want: recurrence.Interval{Unit: recurrence.UnitMinutes, Count: 5}},
	}

	for _, tc := range table {
		t.Run(tc.input, func(t *testing.T) {
			got, ok := timeparse.ParseInterval(tc.input)
			if !ok {
				t.Fatalf("ParseInterval(%q) failed to parse", tc.input)
			}
			if got != tc.want {
				t.Errorf("ParseInterval(%q) = %+v; want %+v", tc.input, got, tc.want)
			}
		})
	}
}

func TestParseIntervalFailure(t *testing.T) {
	table := []string{"", "매일", "abc", "분", "백 분"}

	for _, input := range table {
		t.Run(input, func(t *testing.T) {
			if got, ok := timeparse.ParseInterval(input); ok {
				t.Errorf("ParseInterval(%q) = %+v; want failure", input, got)
			}
		})
	}
}

func TestFormatInterval(t *testing.T) {
	table := []struct {
		iv   recurrence.Interval
		want string
	}{
		{iv: recurrence.Interval{Unit: recurrence.UnitMinutes, Count: 30}, want: "30분"},
		{iv: recurrence.Interval{Unit: recurrence.UnitHours, Count: 2}, want: "2시간"},
		{iv: recurrence.Interval{Unit: recurrence.UnitDays, Count: 1}, want: "1일"},
		{iv: recurrence.Interval{Unit: recurrence.UnitWeeks, Count: 3}, want: "3주"},
		{iv: recurrence.Interval{}, want: "알 수 없음"},
	}

	for _, tc := range table {
		if got := timeparse.FormatInterval(tc.iv); got != tc.want {
			t.Errorf("FormatInterval(%+v) = %q; want %q", tc.iv, got, tc.want)
		}
	}
}
