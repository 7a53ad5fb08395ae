package recurring

import (
	"time"

	"fjacquet/ledgerline/internal/dateutils"
)

// IsOverdueAt reports whether next lies strictly before now, comparing
// calendar dates only. A zero next date is never overdue.
func IsOverdueAt(next, now time.Time) bool {
	if next.IsZero() {
		return false
	}
	return dateutils.CompareDates(next, now) < 0
}

// DaysUntilAt returns the signed number of days from now to next. It is
// negative once the date has passed and zero for a zero next date.
func DaysUntilAt(next, now time.Time) int {
	if next.IsZero() {
		return 0
	}
	return dateutils.DaysBetween(now, next)
}

// IsOverdue is IsOverdueAt against the current date.
func IsOverdue(next time.Time) bool {
	return IsOverdueAt(next, time.Now())
}

// DaysUntil is DaysUntilAt against the current date.
func DaysUntil(next time.Time) int {
	return DaysUntilAt(next, time.Now())
}
