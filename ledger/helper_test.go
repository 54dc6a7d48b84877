package ledger

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/charettep/splitup/models"
)

func date(year int, month time.Month, day int) time.Time {
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}

func dec(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return d
}

func pct(s string) decimal.NullDecimal {
	return decimal.NewNullDecimal(dec(s))
}

func period(start time.Time, end *time.Time, p1, p2 string) models.SplitPeriod {
	return models.SplitPeriod{
		StartDate:       start,
		EndDate:         end,
		Person1SharePct: dec(p1),
		Person2SharePct: dec(p2),
	}
}

func datePtr(t time.Time) *time.Time { return &t }

func partyPtr(p models.Party) *models.Party { return &p }
