// Package money parses and formats the decimal amounts used across the
// ledger. All user-supplied amounts go through ParsePositive so that a
// malformed or non-positive string never reaches the store.
package money

import (
	"strings"

	"github.com/shopspring/decimal"

	"giftmarket-bot/internal/models"
)

// Parse accepts any finite decimal, including negatives (debits).
func Parse(s string) (decimal.Decimal, error) {
	d, err := decimal.NewFromString(strings.TrimSpace(s))
	if err != nil {
		return decimal.Zero, models.ErrInvalidAmount
	}
	return d, nil
}

// ParsePositive accepts only strictly positive finite decimals.
func ParsePositive(s string) (decimal.Decimal, error) {
	d, err := Parse(s)
	if err != nil {
		return decimal.Zero, err
	}
	if !d.IsPositive() {
		return decimal.Zero, models.ErrInvalidAmount
	}
	return d, nil
}

// Format renders an amount for display with two decimal places, e.g. "40.00".
func Format(d decimal.Decimal) string {
	return d.StringFixed(2)
}

// FormatUSD renders an amount with a dollar sign, e.g. "$40.00".
func FormatUSD(d decimal.Decimal) string {
	return "$" + Format(d)
}

// FormatUSDSigned always carries an explicit sign, e.g. "$+10.00", "$-10.00".
// Used for balance adjustment confirmations.
func FormatUSDSigned(d decimal.Decimal) string {
	if d.IsNegative() {
		return "$-" + Format(d.Neg())
	}
	return "$+" + Format(d)
}
