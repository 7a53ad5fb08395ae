// Package models defines the value types exchanged between the vendor pipeline,
// the identity hasher, the recurring detector and their storage/import collaborators.
package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Transaction is a single imported statement line.
//
// Display-name precedence is VendorOverride > NormalizedVendor > Vendor >
// extracted description; recomputation only ever writes NormalizedVendor.
type Transaction struct {
	ID               string          `json:"id" yaml:"id"`
	AccountID        string          `json:"account_id,omitempty" yaml:"account_id,omitempty"`
	Date             time.Time       `json:"date" yaml:"date"`
	Description      string          `json:"description" yaml:"description"`
	Amount           decimal.Decimal `json:"amount" yaml:"amount"`
	Vendor           string          `json:"vendor,omitempty" yaml:"vendor,omitempty"`
	NormalizedVendor string          `json:"normalized_vendor,omitempty" yaml:"normalized_vendor,omitempty"`
	VendorOverride   string          `json:"vendor_override,omitempty" yaml:"vendor_override,omitempty"`
	CategoryID       string          `json:"category_id,omitempty" yaml:"category_id,omitempty"`
	Fingerprint      string          `json:"fingerprint,omitempty" yaml:"fingerprint,omitempty"`
}

// HasDate reports whether the transaction carries a usable date.
func (t Transaction) HasDate() bool {
	return !t.Date.IsZero()
}

// IsDebit returns true for outgoing money.
func (t Transaction) IsDebit() bool {
	return t.Amount.IsNegative()
}
