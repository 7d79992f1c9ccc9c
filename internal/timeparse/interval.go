package timeparse

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/daybreak-labs/remindbot/internal/recurrence"
)

// intervalMatchers are tried in fixed unit priority. Input naming several
// units resolves to the first recognized unit only, never to a combined
// duration. The optional 간 lets a bare "3시" read as three hours.
var intervalMatchers = []struct {
	pattern *regexp.Regexp
	unit    recurrence.Unit
}{
	{regexp.MustCompile(`(\d+)분`), recurrence.UnitMinutes},
	{regexp.MustCompile(`(\d+)시간?`), recurrence.UnitHours},
	{regexp.MustCompile(`(\d+)일`), recurrence.UnitDays},
	{regexp.MustCompile(`(\d+)주`), recurrence.UnitWeeks},
}

// ParseInterval parses a recurrence-interval expression such as "30분" or
// "1시간". It reports false when no unit pattern matches.
func ParseInterval(text string) (recurrence.Interval, bool) {
	input := strings.TrimSpace(text)
	for _, m := range intervalMatchers {
		if g := m.pattern.FindStringSubmatch(input); g != nil {
			count, _ := strconv.Atoi(g[1])
			return recurrence.Interval{Unit: m.unit, Count: count}, true
		}
	}
	return recurrence.Interval{}, false
}

// FormatInterval renders an interval for display, e.g. "30분".
func FormatInterval(iv recurrence.Interval) string {
	switch iv.Unit {
	case recurrence.UnitMinutes:
		return fmt.Sprintf("%d분", iv.Count)
	case recurrence.UnitHours:
		return fmt.Sprintf("%d시간", iv.Count)
	case recurrence.UnitDays:
		return fmt.Sprintf("%d일", iv.Count)
	case recurrence.UnitWeeks:
		return fmt.Sprintf("%d주", iv.Count)
	}
	return "알 수 없음"
}
