// Package dateutils provides the date parsing and calendar arithmetic used by
// the importer and the recurring detector.
package dateutils

import (
	"fmt"
	"math"
	"regexp"
	"strings"
	"time"
)

// Common date layouts found in US bank and card exports.
const (
	DateLayoutISO      = "2006-01-02"
	DateLayoutUS       = "01/02/2006"
	DateLayoutUSShort  = "1/2/2006"
	DateLayoutUSYY     = "01/02/06"
	DateLayoutFull     = "2006-01-02 15:04:05"
	DateLayoutRFC3339  = time.RFC3339
	DateLayoutEuropean = "02.01.2006"
)

// StatementFormats is the ordered list of layouts tried by ParseDateString.
// Month-first layouts precede day-first ones.
var StatementFormats = []string{
	DateLayoutISO,
	DateLayoutUS,
	DateLayoutUSShort,
	DateLayoutUSYY,
	DateLayoutFull,
	DateLayoutRFC3339,
	"2006-01-02T15:04:05",
	"2006/01/02",
	DateLayoutEuropean,
	"Jan 2, 2006",
	"January 2, 2006",
	"02 Jan 2006",
	"2-Jan-2006",
}

var spacesPattern = regexp.MustCompile(`\s+`)

// CleanDateString trims and collapses whitespace in a raw date string.
func CleanDateString(dateStr string) string {
	return spacesPattern.ReplaceAllString(strings.TrimSpace(dateStr), " ")
}

// ParseDateString parses a statement date with the first matching layout.
// Empty input is an error: an undated row cannot be deduplicated or scheduled.
func ParseDateString(dateStr string) (time.Time, error) {
	clean := CleanDateString(dateStr)
	if clean == "" {
		return time.Time{}, fmt.Errorf("empty date")
	}

	for _, format := range StatementFormats {
		if t, err := time.Parse(format, clean); err == nil {
			return StartOfDay(t), nil
		}
	}

	return time.Time{}, fmt.Errorf("unable to parse date: %s", dateStr)
}

// ToISODate formats a date as YYYY-MM-DD.
func ToISODate(date time.Time) string {
	if date.IsZero() {
		return ""
	}
	return date.Format(DateLayoutISO)
}

// StartOfDay truncates t to midnight UTC of its calendar date.
func StartOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// DaysBetween returns the signed number of calendar days from a to b.
func DaysBetween(a, b time.Time) int {
	hours := StartOfDay(b).Sub(StartOfDay(a)).Hours()
	return int(math.Round(hours / 24))
}

// AddDays shifts a date by n days.
func AddDays(date time.Time, n int) time.Time {
	return date.AddDate(0, 0, n)
}

// AddMonths shifts a date by n calendar months. Day overflow rolls into the
// following month the way time.AddDate does (Jan 31 + 1 month = Mar 2 or 3).
func AddMonths(date time.Time, n int) time.Time {
	return date.AddDate(0, n, 0)
}

// AddYears shifts a date by n calendar years.
func AddYears(date time.Time, n int) time.Time {
	return date.AddDate(n, 0, 0)
}

// CompareDates compares the calendar dates of two times:
//
//	-1 if date1 is before date2
//	 0 if date1 is equal to date2
//	 1 if date1 is after date2
func CompareDates(date1, date2 time.Time) int {
	date1, date2 = StartOfDay(date1), StartOfDay(date2)
	switch {
	case date1.Before(date2):
		return -1
	case date1.After(date2):
		return 1
	default:
		return 0
	}
}
