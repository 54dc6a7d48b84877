package handlers

import (
	"context"
	"log"

	"github.com/google/uuid"

	"github.com/charettep/splitup/ledger"
)

// Engine is the settlement recalculation engine, wired in main with its
// store injected. Handlers only trigger it and read from it.
var Engine *ledger.Engine

func Init(engine *ledger.Engine) {
	Engine = engine
}

// recalculate rebuilds a settlement's ledger after a mutation and drops
// the cached read view.
func recalculate(ctx context.Context, settlementID uuid.UUID) error {
	if err := Engine.Recalculate(ctx, settlementID); err != nil {
		log.Printf("❌ Ledger recalculation failed for settlement %s: %v", settlementID, err)
		return err
	}
	invalidateLedgerCache(ctx, settlementID)
	return nil
}
