package timeparse

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/daybreak-labs/remindbot/internal/recurrence"
)

var (
	dailyPattern    = regexp.MustCompile(`매일[-\s]?(오전|오후)(\d+)시`)
	weeklyPattern   = regexp.MustCompile(`매주[-\s]?(월요일|화요일|수요일|목요일|금요일|토요일|일요일)[-\s]?(오전|오후)(\d+)시`)
	monthlyPattern  = regexp.MustCompile(`매월[-\s]?(\d+)일[-\s]?(오전|오후)(\d+)시`)
	weekdaysPattern = regexp.MustCompile(`평일[-\s]?(오전|오후)(\d+)시`)
	weekendsPattern = regexp.MustCompile(`주말[-\s]?(오전|오후)(\d+)시`)
)

// dayOfWeekNames maps Korean weekday names to their 0-6 index, Sunday first.
var dayOfWeekNames = map[string]int{
	"일요일": 0, "월요일": 1, "화요일": 2, "수요일": 3,
	"목요일": 4, "금요일": 5, "토요일": 6,
}

var koreanWeekdays = []string{"일요일", "월요일", "화요일", "수요일", "목요일", "금요일", "토요일"}

// ParseSchedule parses a calendar-recurrence expression such as
// "매주-월요일-오전11시" into a schedule descriptor. Templates are tried in a
// fixed order and the first match owns the input. It reports false for
// unmatched input and for descriptors whose normalized hour or day of month
// falls outside the valid range.
func ParseSchedule(text string) (recurrence.Schedule, bool) {
	input := strings.TrimSpace(text)

	if m := dailyPattern.FindStringSubmatch(input); m != nil {
		return validateSchedule(recurrence.Schedule{
			Kind: recurrence.Daily,
			Hour: scheduleHour(m[1], m[2]),
		})
	}
	if m := weeklyPattern.FindStringSubmatch(input); m != nil {
		return validateSchedule(recurrence.Schedule{
			Kind:      recurrence.Weekly,
			DayOfWeek: dayOfWeekNames[m[1]],
			Hour:      scheduleHour(m[2], m[3]),
		})
	}
	if m := monthlyPattern.FindStringSubmatch(input); m != nil {
		dayOfMonth, _ := strconv.Atoi(m[1])
		return validateSchedule(recurrence.Schedule{
			Kind:       recurrence.Monthly,
			DayOfMonth: dayOfMonth,
			Hour:       scheduleHour(m[2], m[3]),
		})
	}
	if m := weekdaysPattern.FindStringSubmatch(input); m != nil {
		return validateSchedule(recurrence.Schedule{
			Kind: recurrence.Weekdays,
			Hour: scheduleHour(m[1], m[2]),
		})
	}
	if m := weekendsPattern.FindStringSubmatch(input); m != nil {
		return validateSchedule(recurrence.Schedule{
			Kind: recurrence.Weekends,
			Hour: scheduleHour(m[1], m[2]),
		})
	}

	return recurrence.Schedule{}, false
}

func scheduleHour(period, digits string) int {
	hour, _ := strconv.Atoi(digits)
	return normalizeAMPM(period, hour)
}

func validateSchedule(s recurrence.Schedule) (recurrence.Schedule, bool) {
	if s.Hour < 0 || s.Hour > 23 || s.Minute < 0 || s.Minute > 59 {
		return recurrence.Schedule{}, false
	}
	if s.Kind == recurrence.Monthly && (s.DayOfMonth < 1 || s.DayOfMonth > 31) {
		return recurrence.Schedule{}, false
	}
	return s, true
}

// FormatSchedule renders a schedule descriptor for display, e.g.
// "매주 월요일 오전 11시". The rendering is lossy display text, not a
// serialization format.
func FormatSchedule(s recurrence.Schedule) string {
	period, hour := displayHour(s.Hour)
	switch s.Kind {
	case recurrence.Daily:
		return fmt.Sprintf("매일 %s %d시", period, hour)
	case recurrence.Weekly:
		return fmt.Sprintf("매주 %s %s %d시", koreanWeekdays[s.DayOfWeek], period, hour)
	case recurrence.Monthly:
		return fmt.Sprintf("매월 %d일 %s %d시", s.DayOfMonth, period, hour)
	case recurrence.Weekdays:
		return fmt.Sprintf("평일 %s %d시", period, hour)
	case recurrence.Weekends:
		return fmt.Sprintf("주말 %s %d시", period, hour)
	}
	return "알 수 없음"
}

func displayHour(h int) (string, int) {
	period := "오전"
	if h >= 12 {
		period = "오후"
	}
	switch {
	case h > 12:
		h -= 12
	case h == 0:
		h = 12
	}
	return period, h
}
