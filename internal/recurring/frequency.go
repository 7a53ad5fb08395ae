package recurring

import (
	"time"

	"fjacquet/ledgerline/internal/dateutils"
	"fjacquet/ledgerline/internal/models"
)

// bucket is one frequency window. Gap bounds are inclusive, in days.
type bucket struct {
	frequency      models.Frequency
	minGap         float64
	maxGap         float64
	maxDeviation   float64
	baseConfidence int
}

// buckets are tested in order; the first window containing the mean gap and
// tolerating the deviation wins.
var buckets = []bucket{
	{models.FrequencyWeekly, 5, 9, 3, 85},
	{models.FrequencyBiweekly, 12, 16, 4, 80},
	{models.FrequencyMonthly, 25, 35, 5, 90},
	{models.FrequencyQuarterly, 85, 95, 7, 85},
	{models.FrequencyYearly, 350, 380, 15, 80},
}

const (
	minOccurrences     = 3
	occurrenceBonus    = 2
	maxConfidence      = 100
	amountTolerancePct = 15
)

// classify maps interval statistics onto a frequency bucket.
func classify(meanGap, maxDeviation float64) (bucket, bool) {
	for _, b := range buckets {
		if meanGap >= b.minGap && meanGap <= b.maxGap && maxDeviation <= b.maxDeviation {
			return b, true
		}
	}
	return bucket{frequency: models.FrequencyUnknown}, false
}

// confidence adds a bonus per occurrence beyond the minimum, capped at 100.
func confidence(base, occurrences int) int {
	c := base + occurrenceBonus*(occurrences-minOccurrences)
	if c > maxConfidence {
		return maxConfidence
	}
	return c
}

// NextOccurrence adds one period of f to last. Unknown frequencies have no
// next occurrence.
func NextOccurrence(last time.Time, f models.Frequency) (time.Time, bool) {
	switch f {
	case models.FrequencyWeekly:
		return dateutils.AddDays(last, 7), true
	case models.FrequencyBiweekly:
		return dateutils.AddDays(last, 14), true
	case models.FrequencyMonthly:
		return dateutils.AddMonths(last, 1), true
	case models.FrequencyQuarterly:
		return dateutils.AddMonths(last, 3), true
	case models.FrequencyYearly:
		return dateutils.AddYears(last, 1), true
	default:
		return time.Time{}, false
	}
}
