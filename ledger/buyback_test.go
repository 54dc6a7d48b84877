package ledger

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/charettep/splitup/models"
)

func resolvedAsset(value string, keptBy models.Party) models.Asset {
	return models.Asset{
		Name:                  "dining table",
		PurchaseDate:          date(2024, time.June, 1),
		PurchasePrice:         dec("800.00"),
		PaidBy:                models.Person1,
		CurrentEstimatedValue: decimal.NewNullDecimal(dec(value)),
		ValuationDate:         datePtr(date(2025, time.April, 1)),
		KeptBy:                partyPtr(keptBy),
	}
}

func TestCalculateBuyback(t *testing.T) {
	t.Run("keeper buys out the other party's original stake", func(t *testing.T) {
		// 60/40 at purchase, valued at 500, kept by person1:
		// person1 owes person2 their 40% stake, 200.00.
		periods := []models.SplitPeriod{period(date(2024, time.January, 1), nil, "60", "40")}
		res := CalculateBuyback(resolvedAsset("500.00", models.Person1), periods)

		require.NotNil(t, res)
		assert.True(t, res.Buyback.Equal(dec("200")), "buyback = %s", res.Buyback)
		assert.True(t, res.OwedToPerson2.Equal(dec("200")))
		assert.True(t, res.OwedToPerson1.IsZero())
	})

	t.Run("keeper person2 owes person1", func(t *testing.T) {
		periods := []models.SplitPeriod{period(date(2024, time.January, 1), nil, "60", "40")}
		res := CalculateBuyback(resolvedAsset("500.00", models.Person2), periods)

		require.NotNil(t, res)
		assert.True(t, res.OwedToPerson1.Equal(dec("300")), "owed to person1 = %s", res.OwedToPerson1)
		assert.True(t, res.OwedToPerson2.IsZero())
	})

	t.Run("shares are keyed to the purchase date", func(t *testing.T) {
		// The only period starts after the purchase, so it covers the
		// valuation date but not the purchase. Original stakes default
		// to 50/50 and the later period must not move the buyback.
		periods := []models.SplitPeriod{period(date(2025, time.January, 1), nil, "90", "10")}
		res := CalculateBuyback(resolvedAsset("500.00", models.Person1), periods)

		require.NotNil(t, res)
		assert.True(t, res.OwedToPerson2.Equal(dec("250")), "owed to person2 = %s", res.OwedToPerson2)
	})

	t.Run("manual original shares beat the purchase-date period", func(t *testing.T) {
		periods := []models.SplitPeriod{period(date(2024, time.January, 1), nil, "60", "40")}
		asset := resolvedAsset("500.00", models.Person1)
		asset.ManualOriginalPerson1Pct = pct("75")
		asset.ManualOriginalPerson2Pct = pct("25")
		res := CalculateBuyback(asset, periods)

		require.NotNil(t, res)
		assert.True(t, res.OwedToPerson2.Equal(dec("125")), "owed to person2 = %s", res.OwedToPerson2)
	})

	t.Run("buyback is rounded to the cent", func(t *testing.T) {
		periods := []models.SplitPeriod{period(date(2024, time.January, 1), nil, "66.67", "33.33")}
		res := CalculateBuyback(resolvedAsset("499.99", models.Person1), periods)

		require.NotNil(t, res)
		// 499.99 * 33.33% = 166.646667 -> 166.65
		assert.True(t, res.OwedToPerson2.Equal(dec("166.65")), "owed to person2 = %s", res.OwedToPerson2)
	})

	t.Run("no valuation yet", func(t *testing.T) {
		asset := resolvedAsset("500.00", models.Person1)
		asset.CurrentEstimatedValue = decimal.NullDecimal{}
		assert.Nil(t, CalculateBuyback(asset, nil))
	})

	t.Run("no keeper yet", func(t *testing.T) {
		asset := resolvedAsset("500.00", models.Person1)
		asset.KeptBy = nil
		assert.Nil(t, CalculateBuyback(asset, nil))
	})
}
