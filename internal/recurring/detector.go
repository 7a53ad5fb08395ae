// Package recurring detects recurring charges in a batch of transactions.
//
// Transactions are grouped by vendor, each group is tested for amount
// stability and interval regularity, and surviving groups are classified into
// a frequency bucket with a confidence score and a predicted next date.
// Detection is stateless: every call builds its patterns from scratch.
package recurring

import (
	"fmt"
	"math"
	"sort"
	"strings"

	"fjacquet/ledgerline/internal/dateutils"
	"fjacquet/ledgerline/internal/logging"
	"fjacquet/ledgerline/internal/models"
	"fjacquet/ledgerline/internal/vendor"

	"github.com/shopspring/decimal"
)

// GroupBy selects the key transactions are grouped on.
type GroupBy string

const (
	// GroupByVendor groups on the raw vendor, falling back to the description.
	GroupByVendor GroupBy = "vendor"
	// GroupByNormalized groups on the normalized vendor name.
	GroupByNormalized GroupBy = "normalized"
)

// ParseGroupBy validates a grouping name.
func ParseGroupBy(s string) (GroupBy, error) {
	switch g := GroupBy(strings.ToLower(strings.TrimSpace(s))); g {
	case GroupByVendor, GroupByNormalized:
		return g, nil
	case "":
		return GroupByVendor, nil
	default:
		return "", fmt.Errorf("invalid recurring group_by %q: must be %q or %q", s, GroupByVendor, GroupByNormalized)
	}
}

// Option configures a Detector.
type Option func(*Detector)

// WithGroupBy sets the grouping key.
func WithGroupBy(g GroupBy) Option {
	return func(d *Detector) {
		d.groupBy = g
	}
}

// WithNormalizer sets the normalizer used by GroupByNormalized for
// transactions that carry no stored normalized vendor.
func WithNormalizer(n *vendor.Normalizer) Option {
	return func(d *Detector) {
		if n != nil {
			d.normalizer = n
		}
	}
}

// Detector finds recurring patterns. It is safe for concurrent use.
type Detector struct {
	logger     logging.Logger
	groupBy    GroupBy
	normalizer *vendor.Normalizer
}

// NewDetector creates a Detector. A nil logger discards output.
func NewDetector(logger logging.Logger, opts ...Option) *Detector {
	if logger == nil {
		logger = logging.NewNopLogger()
	}
	d := &Detector{
		logger:     logger,
		groupBy:    GroupByVendor,
		normalizer: vendor.NewNormalizer(vendor.DefaultRules(), logger),
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// DetectRecurring runs a default Detector over txs.
func DetectRecurring(txs []models.Transaction) []models.RecurringPattern {
	return NewDetector(nil).Detect(txs)
}

// Detect returns one pattern per recurring group, highest confidence first.
// Groups with too little evidence are omitted; nothing in the input can make
// detection fail.
func (d *Detector) Detect(txs []models.Transaction) []models.RecurringPattern {
	groups := make(map[string][]models.Transaction)
	for _, tx := range txs {
		if !tx.HasDate() {
			d.logger.Debug("Skipping undated transaction",
				logging.Field{Key: logging.FieldTransactionID, Value: tx.ID},
				logging.Field{Key: logging.FieldDescription, Value: tx.Description})
			continue
		}
		key := d.groupKey(tx)
		if key == "" {
			continue
		}
		groups[key] = append(groups[key], tx)
	}

	keys := make([]string, 0, len(groups))
	for key := range groups {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	patterns := make([]models.RecurringPattern, 0)
	for _, key := range keys {
		if pattern, ok := d.analyze(key, groups[key]); ok {
			patterns = append(patterns, pattern)
		}
	}

	sort.SliceStable(patterns, func(i, j int) bool {
		return patterns[i].Confidence > patterns[j].Confidence
	})

	d.logger.Debug("Recurring detection finished",
		logging.Field{Key: logging.FieldCount, Value: len(txs)},
		logging.Field{Key: logging.FieldPatterns, Value: len(patterns)})
	return patterns
}

func (d *Detector) groupKey(tx models.Transaction) string {
	raw := tx.Vendor
	if strings.TrimSpace(raw) == "" {
		raw = tx.Description
	}
	if d.groupBy == GroupByNormalized {
		if strings.TrimSpace(tx.NormalizedVendor) != "" {
			raw = tx.NormalizedVendor
		} else {
			raw = d.normalizer.Normalize(raw).Normalized
		}
	}
	return strings.ToLower(strings.TrimSpace(raw))
}

func (d *Detector) reject(key, reason string) {
	d.logger.Debug("Recurring group rejected",
		logging.Field{Key: logging.FieldGroupKey, Value: key},
		logging.Field{Key: logging.FieldReason, Value: reason})
}

func (d *Detector) analyze(key string, members []models.Transaction) (models.RecurringPattern, bool) {
	if len(members) < minOccurrences {
		d.reject(key, "too few occurrences")
		return models.RecurringPattern{}, false
	}

	sorted := make([]models.Transaction, len(members))
	copy(sorted, members)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Date.Before(sorted[j].Date)
	})

	average, stable := amountStability(sorted)
	if !stable {
		d.reject(key, "unstable amounts")
		return models.RecurringPattern{}, false
	}

	meanGap, maxDeviation := intervals(sorted)
	b, ok := classify(meanGap, maxDeviation)
	if !ok {
		d.reject(key, fmt.Sprintf("irregular interval (mean %.1f days, deviation %.1f)", meanGap, maxDeviation))
		return models.RecurringPattern{}, false
	}

	last := sorted[len(sorted)-1].Date
	pattern := models.RecurringPattern{
		GroupKey:      key,
		Transactions:  make([]models.PatternMember, 0, len(sorted)),
		Frequency:     b.frequency,
		AverageAmount: average.Round(2),
		LastDate:      last,
		Confidence:    confidence(b.baseConfidence, len(sorted)),
	}
	for _, tx := range sorted {
		pattern.Transactions = append(pattern.Transactions, models.PatternMember{ID: tx.ID, Date: tx.Date, Amount: tx.Amount})
	}
	if next, ok := NextOccurrence(last, b.frequency); ok {
		pattern.NextExpectedDate = &next
	}

	d.logger.Debug("Recurring pattern detected",
		logging.Field{Key: logging.FieldGroupKey, Value: key},
		logging.Field{Key: logging.FieldFrequency, Value: string(b.frequency)},
		logging.Field{Key: logging.FieldConfidence, Value: pattern.Confidence})
	return pattern, true
}

// amountStability returns the mean absolute amount and whether every member
// lies within the tolerance of it.
func amountStability(members []models.Transaction) (decimal.Decimal, bool) {
	sum := decimal.Zero
	for _, tx := range members {
		sum = sum.Add(tx.Amount.Abs())
	}
	mean := sum.Div(decimal.NewFromInt(int64(len(members))))
	tolerance := mean.Mul(decimal.NewFromInt(amountTolerancePct)).Div(decimal.NewFromInt(100))

	for _, tx := range members {
		if tx.Amount.Abs().Sub(mean).Abs().GreaterThan(tolerance) {
			return mean, false
		}
	}
	return mean, true
}

// intervals returns the mean day gap between consecutive members and the
// largest absolute deviation from it.
func intervals(sorted []models.Transaction) (float64, float64) {
	gaps := make([]float64, 0, len(sorted)-1)
	total := 0.0
	for i := 1; i < len(sorted); i++ {
		gap := float64(dateutils.DaysBetween(sorted[i-1].Date, sorted[i].Date))
		gaps = append(gaps, gap)
		total += gap
	}
	mean := total / float64(len(gaps))

	maxDeviation := 0.0
	for _, gap := range gaps {
		maxDeviation = math.Max(maxDeviation, math.Abs(gap-mean))
	}
	return mean, maxDeviation
}
