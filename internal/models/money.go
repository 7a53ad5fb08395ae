package models

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// ParseAmount converts a statement amount ("-4.50", "$1,234.56", "(12.00)",
// "12,50 EUR") into a decimal. Parenthesised amounts are negative. The caller
// decides what to do with an error; the importer books the row at zero.
func ParseAmount(amountStr string) (decimal.Decimal, error) {
	amount := strings.TrimSpace(amountStr)
	negative := false
	if strings.HasPrefix(amount, "(") && strings.HasSuffix(amount, ")") {
		negative = true
		amount = strings.TrimSuffix(strings.TrimPrefix(amount, "("), ")")
	}

	for _, symbol := range []string{"USD", "EUR", "CHF", "$", "€", " ", "'"} {
		amount = strings.ReplaceAll(amount, symbol, "")
	}

	// Thousands separators vs decimal comma: "1,234.56" and "1,234" drop the
	// comma, "12,50" is a decimal comma.
	if strings.Contains(amount, ",") {
		lastComma := strings.LastIndex(amount, ",")
		if !strings.Contains(amount, ".") && len(amount)-lastComma-1 == 2 {
			amount = amount[:lastComma] + "." + amount[lastComma+1:]
		}
		amount = strings.ReplaceAll(amount, ",", "")
	}

	if amount == "" {
		return decimal.Zero, fmt.Errorf("empty amount")
	}

	dec, err := decimal.NewFromString(amount)
	if err != nil {
		return decimal.Zero, fmt.Errorf("invalid amount string '%s': %w", amountStr, err)
	}
	if negative {
		dec = dec.Neg()
	}
	return dec, nil
}

// FormatAmount renders an amount with exactly two decimal places.
func FormatAmount(amount decimal.Decimal) string {
	return amount.StringFixed(2)
}
