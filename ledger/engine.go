package ledger

import (
	"context"
	"fmt"
	"sync"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/charettep/splitup/models"
)

// Engine maintains the derived debt ledger. The OwedLine set is always the
// full recomputation of the current source records, never an incremental
// patch: a failed rebuild can simply be re-run.
type Engine struct {
	repo Repository

	mu    sync.Mutex
	locks map[uuid.UUID]*sync.Mutex
}

func NewEngine(repo Repository) *Engine {
	return &Engine{
		repo:  repo,
		locks: make(map[uuid.UUID]*sync.Mutex),
	}
}

// settlementLock returns the mutex serializing recomputation of one
// settlement. Two rapid edits must not interleave their delete+insert
// passes.
func (e *Engine) settlementLock(settlementID uuid.UUID) *sync.Mutex {
	e.mu.Lock()
	defer e.mu.Unlock()
	lock, ok := e.locks[settlementID]
	if !ok {
		lock = &sync.Mutex{}
		e.locks[settlementID] = lock
	}
	return lock
}

type sourceKey struct {
	sourceType models.SourceType
	sourceID   uuid.UUID
}

// Recalculate rebuilds every OwedLine of a settlement from its expenses,
// assets and split periods. The rebuild runs inside one store transaction
// so readers never observe a partially rebuilt ledger, and is serialized
// per settlement. Paid flags survive the rebuild: lines are matched on
// (source type, source id) before the old set is dropped.
//
// The call is idempotent; with no intervening data change two runs produce
// identical line sets.
func (e *Engine) Recalculate(ctx context.Context, settlementID uuid.UUID) error {
	lock := e.settlementLock(settlementID)
	lock.Lock()
	defer lock.Unlock()

	return e.repo.InTransaction(ctx, func(tx Repository) error {
		settlement, err := tx.Settlement(ctx, settlementID)
		if err != nil {
			return fmt.Errorf("load settlement: %w", err)
		}

		periods, err := tx.SplitPeriods(ctx, settlementID)
		if err != nil {
			return fmt.Errorf("load split periods: %w", err)
		}
		expenses, err := tx.Expenses(ctx, settlementID)
		if err != nil {
			return fmt.Errorf("load expenses: %w", err)
		}
		assets, err := tx.Assets(ctx, settlementID)
		if err != nil {
			return fmt.Errorf("load assets: %w", err)
		}

		existing, err := tx.OwedLines(ctx, settlementID)
		if err != nil {
			return fmt.Errorf("load owed lines: %w", err)
		}
		paid := make(map[sourceKey]bool, len(existing))
		for _, line := range existing {
			if line.PaidStatus {
				paid[sourceKey{line.SourceType, line.SourceID}] = true
			}
		}

		// Dropping the whole set (rather than per-source) also sweeps lines
		// whose source record has been deleted since the last rebuild.
		if err := tx.DeleteOwedLines(ctx, settlementID); err != nil {
			return fmt.Errorf("clear owed lines: %w", err)
		}

		for _, expense := range expenses {
			res := SplitExpense(expense, periods)
			if res.OwedToPerson1.IsZero() && res.OwedToPerson2.IsZero() {
				// The payer's own share is the whole amount, no debt.
				continue
			}
			line := &models.OwedLine{
				SettlementID:  settlementID,
				SourceType:    models.SourceExpense,
				SourceID:      expense.ID,
				Date:          expense.ExpenseDate,
				Description:   fmt.Sprintf("%s (paid by %s)", expense.Description, settlement.NameOf(expense.PaidBy)),
				Category:      expense.Category,
				TotalAmount:   expense.TotalAmount,
				OwedToPerson1: res.OwedToPerson1,
				OwedToPerson2: res.OwedToPerson2,
				PaidStatus:    paid[sourceKey{models.SourceExpense, expense.ID}],
				Notes:         expense.Notes,
			}
			if err := tx.InsertOwedLine(ctx, line); err != nil {
				return fmt.Errorf("insert expense line: %w", err)
			}
		}

		for _, asset := range assets {
			res := CalculateBuyback(asset, periods)
			if res == nil {
				// Unresolved asset: no ledger presence yet.
				continue
			}
			if res.Buyback.IsZero() {
				// Keeper already owned the full stake, nothing to buy back.
				continue
			}
			line := &models.OwedLine{
				SettlementID:  settlementID,
				SourceType:    models.SourceAsset,
				SourceID:      asset.ID,
				Date:          *asset.ValuationDate,
				Description:   fmt.Sprintf("%s (kept by %s)", asset.Name, settlement.NameOf(*asset.KeptBy)),
				Category:      asset.Category,
				TotalAmount:   asset.CurrentEstimatedValue.Decimal,
				OwedToPerson1: res.OwedToPerson1,
				OwedToPerson2: res.OwedToPerson2,
				PaidStatus:    paid[sourceKey{models.SourceAsset, asset.ID}],
				Notes: fmt.Sprintf("Buyback of original stake; purchased for %s %s on %s",
					settlement.Currency, asset.PurchasePrice.StringFixed(2), asset.PurchaseDate.Format("2006-01-02")),
			}
			if err := tx.InsertOwedLine(ctx, line); err != nil {
				return fmt.Errorf("insert asset line: %w", err)
			}
		}

		return nil
	})
}

// Lines returns the current derived lines of a settlement.
func (e *Engine) Lines(ctx context.Context, settlementID uuid.UUID) ([]models.OwedLine, error) {
	return e.repo.OwedLines(ctx, settlementID)
}

// Summary aggregates unpaid lines into the net position: who owes whom,
// and how much, as an absolute amount.
func (e *Engine) Summary(ctx context.Context, settlementID uuid.UUID) (*models.SettlementSummary, error) {
	settlement, err := e.repo.Settlement(ctx, settlementID)
	if err != nil {
		return nil, fmt.Errorf("load settlement: %w", err)
	}
	lines, err := e.repo.OwedLines(ctx, settlementID)
	if err != nil {
		return nil, fmt.Errorf("load owed lines: %w", err)
	}

	summary := &models.SettlementSummary{
		SettlementID:       settlementID,
		TotalOwedToPerson1: decimal.Zero,
		TotalOwedToPerson2: decimal.Zero,
		Currency:           settlement.Currency,
	}

	for _, line := range lines {
		if line.PaidStatus {
			continue
		}
		summary.TotalOwedToPerson1 = summary.TotalOwedToPerson1.Add(line.OwedToPerson1)
		summary.TotalOwedToPerson2 = summary.TotalOwedToPerson2.Add(line.OwedToPerson2)
		summary.UnpaidLines++
	}

	net := summary.TotalOwedToPerson1.Sub(summary.TotalOwedToPerson2)
	summary.NetAmount = net.Abs()
	switch {
	case net.IsPositive():
		summary.NetDebtor = models.Person2
	case net.IsNegative():
		summary.NetDebtor = models.Person1
	}
	if summary.NetDebtor != "" {
		summary.NetDebtorName = settlement.NameOf(summary.NetDebtor)
	}

	return summary, nil
}

// SetPaidStatus flips the paid flag on one line, outside the recompute
// pipeline. It holds the same per-settlement lock as Recalculate, so the
// update can never land between a rebuild's paid-flag snapshot and its
// delete+reinsert. The flag then survives subsequent rebuilds.
func (e *Engine) SetPaidStatus(ctx context.Context, lineID uuid.UUID, paid bool) (*models.OwedLine, error) {
	line, err := e.repo.OwedLineByID(ctx, lineID)
	if err != nil {
		return nil, err
	}

	lock := e.settlementLock(line.SettlementID)
	lock.Lock()
	defer lock.Unlock()

	// Re-read under the lock: a rebuild may have replaced the line set
	// since the first read.
	line, err = e.repo.OwedLineByID(ctx, lineID)
	if err != nil {
		return nil, err
	}
	if err := e.repo.UpdateOwedLinePaid(ctx, lineID, paid); err != nil {
		return nil, err
	}
	line.PaidStatus = paid
	return line, nil
}
