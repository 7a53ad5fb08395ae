// Package identity derives the deduplication fingerprint of a transaction.
//
// The fingerprint is a natural-key candidate for rejecting duplicate inserts.
// It only has to avoid collisions between distinct statement lines; nothing
// relies on it being hard to forge.
package identity

import (
	"crypto/sha1"
	"encoding/hex"
	"strings"

	"github.com/shopspring/decimal"
)

// Length is the fixed length of every fingerprint.
const Length = 40

// separator is the unit separator control character, which never appears in
// statement fields.
const separator = "\x1f"

// CanonicalString joins the fingerprint inputs. The amount, formatted to two
// decimals, appears at both ends so two lines that only differ in amount can
// never share a prefix long enough to collide.
func CanonicalString(date, description string, amount decimal.Decimal, accountID string) string {
	formatted := amount.StringFixed(2)
	return strings.Join([]string{
		formatted,
		strings.ToLower(strings.TrimSpace(description)),
		date,
		accountID,
		formatted,
	}, separator)
}

// Fingerprint returns the 40-character fingerprint of a transaction. The date
// is used as given; callers pass the ISO form so equal days hash equally.
func Fingerprint(date, description string, amount decimal.Decimal, accountID string) string {
	sum := sha1.Sum([]byte(CanonicalString(date, description, amount, accountID)))
	return hex.EncodeToString(sum[:])
}
