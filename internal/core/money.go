// Package core provides money parsing and handling utilities.
//
// This file contains functions for parsing monetary amounts from strings.
// Amounts are decimal.Decimal values rounded to two fractional digits.
package core

import (
	"strings"
	"unicode"

	"github.com/shopspring/decimal"
)

// ParseAmount converts a decimal string into a positive amount.
//
// It accepts both dot (12.34) and comma (12,34) decimal separators and
// rounds half-up to two fractional digits. Returns an error for invalid
// formats, negative values, or zero amounts.
//
// Examples:
//
//	ParseAmount("12.34")  -> 12.34, nil
//	ParseAmount("12,34")  -> 12.34, nil
//	ParseAmount("12.345") -> 12.35, nil (rounds up)
//	ParseAmount("-3")     -> error
func ParseAmount(s string) (decimal.Decimal, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return decimal.Zero, ErrInvalidAmount
	}
	// Normalize decimal comma to dot
	s = strings.ReplaceAll(s, ",", ".")
	if strings.HasPrefix(s, "+") || strings.HasPrefix(s, "-") {
		// Only positive values allowed
		return decimal.Zero, ErrInvalidAmount
	}
	for _, r := range s {
		if !unicode.IsDigit(r) && r != '.' {
			return decimal.Zero, ErrInvalidAmount
		}
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, ErrInvalidAmount
	}
	d = d.Round(2)
	if d.LessThanOrEqual(decimal.Zero) {
		return decimal.Zero, ErrInvalidAmount
	}
	return d, nil
}

// ParseLimit is ParseAmount for budget limits, where zero is allowed
// (a zero limit disables the category without deleting it).
func ParseLimit(s string) (decimal.Decimal, error) {
	d, err := ParseAmount(s)
	if err == nil {
		return d, nil
	}
	t := strings.ReplaceAll(strings.TrimSpace(s), ",", ".")
	if z, zerr := decimal.NewFromString(t); zerr == nil && z.IsZero() && !strings.HasPrefix(t, "-") {
		return decimal.Zero, nil
	}
	return decimal.Zero, err
}

// SumAmounts adds up a slice of amounts without losing precision.
func SumAmounts(ds []decimal.Decimal) decimal.Decimal {
	total := decimal.Zero
	for _, d := range ds {
		total = total.Add(d)
	}
	return total
}
