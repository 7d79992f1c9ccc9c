package timeparse

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
)

var (
	hourMinutePattern = regexp.MustCompile(`(\d+)시\s*(\d+)분`)
	relMinutesPattern = regexp.MustCompile(`^(\d+)분$`)
	relHoursPattern   = regexp.MustCompile(`(\d+)시간`)
	relDaysPattern    = regexp.MustCompile(`(\d+)일`)
	amPmPattern       = regexp.MustCompile(`(오전|오후)\s*(\d+)시`)
	bareHourPattern   = regexp.MustCompile(`(\d+)시`)
)

// timeMatcher pairs a recognizer with the constructor that owns the input
// once the recognizer matches. Later matchers are never consulted after a
// match, even when the constructor rejects the input.
type timeMatcher struct {
	match func(string) bool
	build func(string, time.Time) (time.Time, bool)
}

// The matcher order is a contract: it decides how ambiguous input is read.
// Combined hour+minute wins over everything, relative forms win over
// absolute ones, and 내일 wins over 오늘 and plain hours.
var timeMatchers = []timeMatcher{
	{hourMinutePattern.MatchString, buildHourMinute},
	{relMinutesPattern.MatchString, buildRelativeMinutes},
	{relHoursPattern.MatchString, buildRelativeHours},
	{relDaysPattern.MatchString, buildRelativeDays},
	{matchesTomorrow, buildTomorrow},
	{matchesTodayOrHour, buildTodayOrHour},
}

// ParseTime resolves a free-text time expression against now and returns
// the concrete future instant it names, in now's location. The second
// return is false when no pattern matches or when a matched pattern
// carries an out-of-range hour or minute.
func ParseTime(text string, now time.Time) (time.Time, bool) {
	input := strings.TrimSpace(text)
	for _, m := range timeMatchers {
		if m.match(input) {
			return m.build(input, now)
		}
	}
	return time.Time{}, false
}

func buildHourMinute(input string, now time.Time) (time.Time, bool) {
	m := hourMinutePattern.FindStringSubmatch(input)
	hour, _ := strconv.Atoi(m[1])
	minute, _ := strconv.Atoi(m[2])
	if hour >= 24 || minute >= 60 {
		return time.Time{}, false
	}

	year, month, day := now.Date()
	target := time.Date(year, month, day, hour, minute, 0, 0, now.Location())
	if strings.Contains(input, "내일") {
		// 내일 always means the next day, even for a time that would
		// still be ahead today.
		return target.AddDate(0, 0, 1), true
	}
	if !target.After(now) {
		target = target.AddDate(0, 0, 1)
	}
	return target, true
}

func buildRelativeMinutes(input string, now time.Time) (time.Time, bool) {
	m := relMinutesPattern.FindStringSubmatch(input)
	minutes, _ := strconv.Atoi(m[1])
	return now.Add(time.Duration(minutes) * time.Minute), true
}

func buildRelativeHours(input string, now time.Time) (time.Time, bool) {
	m := relHoursPattern.FindStringSubmatch(input)
	hours, _ := strconv.Atoi(m[1])
	return now.Add(time.Duration(hours) * time.Hour), true
}

func buildRelativeDays(input string, now time.Time) (time.Time, bool) {
	m := relDaysPattern.FindStringSubmatch(input)
	days, _ := strconv.Atoi(m[1])
	return now.AddDate(0, 0, days), true
}

func matchesTomorrow(input string) bool {
	return strings.Contains(input, "내일")
}

func buildTomorrow(input string, now time.Time) (time.Time, bool) {
	hour := 9 // 내일 without a time defaults to 9 AM
	if m := amPmPattern.FindStringSubmatch(input); m != nil {
		h, _ := strconv.Atoi(m[2])
		hour = normalizeAMPM(m[1], h) % 24
	} else if m := bareHourPattern.FindStringSubmatch(input); m != nil {
		h, _ := strconv.Atoi(m[1])
		if h >= 24 {
			return time.Time{}, false
		}
		hour = h
	}

	year, month, day := now.Date()
	return time.Date(year, month, day+1, hour, 0, 0, 0, now.Location()), true
}

func matchesTodayOrHour(input string) bool {
	return strings.Contains(input, "오늘") || bareHourPattern.MatchString(input)
}

func buildTodayOrHour(input string, now time.Time) (time.Time, bool) {
	var hour int
	if m := amPmPattern.FindStringSubmatch(input); m != nil {
		h, _ := strconv.Atoi(m[2])
		hour = normalizeAMPM(m[1], h) % 24
	} else if m := bareHourPattern.FindStringSubmatch(input); m != nil {
		h, _ := strconv.Atoi(m[1])
		if h >= 24 {
			return time.Time{}, false
		}
		hour = h
	} else {
		// 오늘 with no hour at all names no instant.
		return time.Time{}, false
	}

	year, month, day := now.Date()
	target := time.Date(year, month, day, hour, 0, 0, 0, now.Location())
	if !target.After(now) {
		target = target.AddDate(0, 0, 1)
	}
	return target, true
}

// normalizeAMPM converts a 12-hour clock hour to 24-hour form. Hours above
// 12 are treated as already being 24-hour input and pass through unchanged
// with the period word ignored.
func normalizeAMPM(period string, hour int) int {
	if hour > 12 {
		return hour
	}
	if period == "오후" && hour != 12 {
		return hour + 12
	}
	if period == "오전" && hour == 12 {
		return 0
	}
	return hour
}

// IsValidFireTime reports whether t is usable as a reminder fire time:
// strictly in the future and less than a year out, measured against
// midnight of the same calendar day next year.
func IsValidFireTime(t, now time.Time) bool {
	if t.IsZero() {
		return false
	}
	oneYearOut := time.Date(now.Year()+1, now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	return t.After(now) && t.Before(oneYearOut)
}

// FormatTime renders an instant for display, e.g. "2025년 6월 16일 15:30".
func FormatTime(t time.Time) string {
	return fmt.Sprintf("%d년 %d월 %d일 %02d:%02d", t.Year(), int(t.Month()), t.Day(), t.Hour(), t.Minute())
}
