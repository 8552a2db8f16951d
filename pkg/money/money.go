// Package money parses and formats decimal currency amounts as integer cents.
// Prices travel through the API as decimal strings ("49.99") and are stored
// as int64 cents, which keeps arithmetic exact and comparisons cheap.
package money

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrMalformed indicates the input is not a valid decimal amount.
	ErrMalformed = errors.New("malformed amount")
	// ErrTooManyDecimals indicates the input has more than two fractional digits.
	ErrTooManyDecimals = errors.New("more than two decimal places")
)

// Parse converts a decimal string such as "49.99", "-3", or "0.5" to cents.
// It rejects amounts with more than two fractional digits rather than
// rounding them, so "0.005" is an error, not 0 or 1.
func Parse(s string) (int64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, ErrMalformed
	}

	neg := false
	switch s[0] {
	case '-':
		neg = true
		s = s[1:]
	case '+':
		s = s[1:]
	}
	if s == "" || s == "." {
		return 0, ErrMalformed
	}

	whole, frac := s, ""
	if i := strings.IndexByte(s, '.'); i >= 0 {
		whole, frac = s[:i], s[i+1:]
	}
	if len(frac) > 2 {
		return 0, ErrTooManyDecimals
	}

	var cents int64
	for _, c := range whole {
		if c < '0' || c > '9' {
			return 0, ErrMalformed
		}
		cents = cents*10 + int64(c-'0')
		if cents > 1<<53 {
			return 0, ErrMalformed
		}
	}
	cents *= 100

	// Right-pad the fraction to two digits: "5" means 50 cents.
	mult := int64(10)
	for _, c := range frac {
		if c < '0' || c > '9' {
			return 0, ErrMalformed
		}
		cents += int64(c-'0') * mult
		mult /= 10
	}

	if neg {
		cents = -cents
	}
	return cents, nil
}

// Format renders cents as a decimal string with exactly two fractional
// digits, e.g. 5000 -> "50.00".
func Format(cents int64) string {
	sign := ""
	if cents < 0 {
		sign = "-"
		cents = -cents
	}
	return fmt.Sprintf("%s%d.%02d", sign, cents/100, cents%100)
}
