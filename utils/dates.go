// utils/dates.go
package utils

import (
	"fmt"
	"time"
)

const DateKeyLayout = "2006-01-02"

func BeginningOfDay(t time.Time) time.Time {
	year, month, day := t.Date()
	return time.Date(year, month, day, 0, 0, 0, 0, t.Location())
}

// Today returns midnight UTC of the current day.
func Today() time.Time {
	return BeginningOfDay(time.Now().UTC())
}

// DateKey formats t as YYYY-MM-DD.
func DateKey(t time.Time) string {
	return t.Format(DateKeyLayout)
}

func ParseDateKey(s string) (time.Time, error) {
	return time.ParseInLocation(DateKeyLayout, s, time.UTC)
}

func DaysBetween(start, end time.Time) int {
	start = BeginningOfDay(start)
	end = BeginningOfDay(end)
	return int(end.Sub(start).Hours() / 24)
}

// Recurring cycles
const (
	CycleDaily   = "daily"
	CycleWeekly  = "weekly"
	CycleMonthly = "monthly"
	CycleYearly  = "yearly"
)

// AdvanceByCycle moves from forward by n units of the cycle.
func AdvanceByCycle(from time.Time, cycle string, n int) (time.Time, error) {
	if n < 1 {
		n = 1
	}
	switch cycle {
	case CycleDaily:
		return from.AddDate(0, 0, n), nil
	case CycleWeekly:
		return from.AddDate(0, 0, 7*n), nil
	case CycleMonthly:
		return from.AddDate(0, n, 0), nil
	case CycleYearly:
		return from.AddDate(n, 0, 0), nil
	default:
		return time.Time{}, fmt.Errorf("unknown recurring cycle %q", cycle)
	}
}
