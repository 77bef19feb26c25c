// Package period turns user-facing date arguments into ordered lists of
// calendar days. All days are UTC midnights.
package period

import (
	"fmt"
	"strings"
	"time"

	"github.com/fakeyudi/ailog/internal/activity"
)

// Period is a named window of days ending today.
type Period string

const (
	Today Period = "today"
	Week  Period = "week"
	Month Period = "month"
	All   Period = "all"
)

// windowDays maps each period to its fixed day count.
var windowDays = map[Period]int{
	Today: 1,
	Week:  7,
	Month: 30,
	All:   365,
}

// ParsePeriod validates a period name. Empty means Today.
func ParsePeriod(s string) (Period, error) {
	if s == "" {
		return Today, nil
	}
	p := Period(strings.ToLower(s))
	if _, ok := windowDays[p]; !ok {
		return "", fmt.Errorf("unknown period %q (want today, week, month or all)", s)
	}
	return p, nil
}

// Days returns the days covered by p, oldest first, ending at now's day.
func (p Period) Days(now time.Time) []time.Time {
	n, ok := windowDays[p]
	if !ok {
		n = 1
	}
	return LastDays(now, n)
}

// Truncate returns the UTC midnight of t's calendar day.
func Truncate(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// LastDays returns n consecutive days ending at now's day, oldest first.
func LastDays(now time.Time, n int) []time.Time {
	if n < 1 {
		return nil
	}
	end := Truncate(now)
	days := make([]time.Time, 0, n)
	for i := n - 1; i >= 0; i-- {
		days = append(days, end.AddDate(0, 0, -i))
	}
	return days
}

// ParseDay resolves "today", "yesterday", or a YYYY-MM-DD date.
func ParseDay(s string, now time.Time) (time.Time, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "today":
		return Truncate(now), nil
	case "yesterday":
		return Truncate(now).AddDate(0, 0, -1), nil
	}
	d, err := time.Parse(activity.DayLayout, strings.TrimSpace(s))
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q (want YYYY-MM-DD, today or yesterday)", s)
	}
	return d, nil
}

// Format renders a day as YYYY-MM-DD.
func Format(day time.Time) string {
	return day.UTC().Format(activity.DayLayout)
}
