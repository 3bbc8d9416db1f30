package calculator

import (
	"strings"

	"github.com/shopspring/decimal"
)

// RoundUpTo100 rounds d up to the next multiple of 100. Any excess, however
// small, moves to the next hundred. Used for the bill tip only.
func RoundUpTo100(d decimal.Decimal) decimal.Decimal {
	return d.Shift(-2).Ceil().Shift(2)
}

// RoundTo100 rounds d half-up to the nearest multiple of 100. Used once, on
// the bill-wide total shown to the user.
func RoundTo100(d decimal.Decimal) decimal.Decimal {
	return d.Shift(-2).Round(0).Shift(2)
}

// FormatCOP formats an amount as Colombian pesos: rounded to the unit, with
// "." as thousands separator. 23000 becomes "$23.000".
func FormatCOP(d decimal.Decimal) string {
	digits := d.Round(0).Abs().String()

	var b strings.Builder
	if d.Round(0).IsNegative() {
		b.WriteByte('-')
	}
	b.WriteByte('$')
	for i, r := range digits {
		if i > 0 && (len(digits)-i)%3 == 0 {
			b.WriteByte('.')
		}
		b.WriteRune(r)
	}
	return b.String()
}
