package ledger

import "github.com/shopspring/decimal"

// RoundCents rounds a monetary amount to the nearest whole cent using
// round-half-to-even (banker's rounding): an exact half cent goes to the
// even cent count, so repeated 50/50 splits of odd-cent totals carry no
// systematic upward bias. All arithmetic stays in decimal space; binary
// floats never touch the half-cent boundary.
func RoundCents(amount decimal.Decimal) decimal.Decimal {
	return amount.RoundBank(2)
}
