package ledger

import (
	"github.com/shopspring/decimal"

	"github.com/charettep/splitup/models"
)

// BuybackResult is the keeper buying out the other party's original stake
// at current valuation. Exactly one owed side is nonzero.
type BuybackResult struct {
	Buyback       decimal.Decimal
	OwedToPerson1 decimal.Decimal
	OwedToPerson2 decimal.Decimal
}

// CalculateBuyback computes the buyback debt for an asset, or nil while the
// asset is unresolved (no current valuation or no keeper yet).
//
// Shares are resolved against the PURCHASE date, not the valuation date:
// the keeper buys out the stake the other party held when the asset was
// bought. Later period changes that don't cover the purchase date never
// move a buyback.
func CalculateBuyback(asset models.Asset, periods []models.SplitPeriod) *BuybackResult {
	if !asset.Resolved() {
		return nil
	}

	p1Pct, p2Pct := resolveShares(asset.PurchaseDate, asset.ManualOriginalPerson1Pct, asset.ManualOriginalPerson2Pct, periods)

	otherPct := p2Pct
	if *asset.KeptBy == models.Person2 {
		otherPct = p1Pct
	}

	buyback := RoundCents(asset.CurrentEstimatedValue.Decimal.Mul(otherPct).Div(hundred))

	res := &BuybackResult{Buyback: buyback, OwedToPerson1: decimal.Zero, OwedToPerson2: decimal.Zero}
	if *asset.KeptBy == models.Person1 {
		res.OwedToPerson2 = buyback
	} else {
		res.OwedToPerson1 = buyback
	}
	return res
}
