package ledger

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/charettep/splitup/models"
)

var (
	hundred    = decimal.NewFromInt(100)
	fiftyFifty = decimal.NewFromInt(50)
)

// SplitResult is a directional debt: exactly one side is nonzero.
type SplitResult struct {
	OwedToPerson1 decimal.Decimal
	OwedToPerson2 decimal.Decimal
}

// resolveShares picks the percentages that apply to a dated event: a full
// manual override wins outright, then the matching period, then 50/50.
// A half-set override is ignored (validated away at the API boundary).
func resolveShares(date time.Time, manual1, manual2 decimal.NullDecimal, periods []models.SplitPeriod) (p1, p2 decimal.Decimal) {
	if manual1.Valid && manual2.Valid {
		return manual1.Decimal, manual2.Decimal
	}
	if p := ResolvePeriod(date, periods); p != nil {
		return p.Person1SharePct, p.Person2SharePct
	}
	return fiftyFifty, fiftyFifty
}

// SplitExpense computes who owes whom for a single expense.
//
// Person1's share is rounded to the cent; person2's share is the remainder
// of the total, never independently rounded, so the two shares always sum
// to the total amount exactly. The party who did not pay owes their share
// to the payer.
func SplitExpense(expense models.Expense, periods []models.SplitPeriod) SplitResult {
	p1Pct, _ := resolveShares(expense.ExpenseDate, expense.ManualPerson1Pct, expense.ManualPerson2Pct, periods)

	person1Share := RoundCents(expense.TotalAmount.Mul(p1Pct).Div(hundred))
	person2Share := expense.TotalAmount.Sub(person1Share)

	if expense.PaidBy == models.Person1 {
		return SplitResult{OwedToPerson1: person2Share, OwedToPerson2: decimal.Zero}
	}
	return SplitResult{OwedToPerson1: decimal.Zero, OwedToPerson2: person1Share}
}
