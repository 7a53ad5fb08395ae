package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Frequency is the classified period of a recurring charge.
type Frequency string

const (
	FrequencyWeekly    Frequency = "weekly"
	FrequencyBiweekly  Frequency = "biweekly"
	FrequencyMonthly   Frequency = "monthly"
	FrequencyQuarterly Frequency = "quarterly"
	FrequencyYearly    Frequency = "yearly"
	FrequencyUnknown   Frequency = "unknown"
)

// PatternMember is the slice of a transaction kept inside a RecurringPattern.
type PatternMember struct {
	ID     string          `json:"id" yaml:"id"`
	Date   time.Time       `json:"date" yaml:"date"`
	Amount decimal.Decimal `json:"amount" yaml:"amount"`
}

// RecurringPattern is one detected group of same-vendor charges. Patterns are
// rebuilt on every detection run and never persisted.
type RecurringPattern struct {
	GroupKey         string          `json:"group_key" yaml:"group_key"`
	Transactions     []PatternMember `json:"transactions" yaml:"transactions"`
	Frequency        Frequency       `json:"frequency" yaml:"frequency"`
	AverageAmount    decimal.Decimal `json:"average_amount" yaml:"average_amount"`
	LastDate         time.Time       `json:"last_date" yaml:"last_date"`
	NextExpectedDate *time.Time      `json:"next_expected_date,omitempty" yaml:"next_expected_date,omitempty"`
	Confidence       int             `json:"confidence" yaml:"confidence"`
}

// Occurrences returns the number of transactions backing the pattern.
func (p RecurringPattern) Occurrences() int {
	return len(p.Transactions)
}
