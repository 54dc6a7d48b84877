package ledger

import (
	"context"

	"github.com/google/uuid"

	"github.com/charettep/splitup/models"
)

// Repository is the engine's view of the store. It is injected rather than
// imported so the engine can be driven by an in-memory fake in tests and
// swapped to another database without touching the derivation logic.
type Repository interface {
	// Settlement returns the settlement with both participants loaded.
	Settlement(ctx context.Context, id uuid.UUID) (*models.Settlement, error)

	// SplitPeriods returns a settlement's periods ordered by start date.
	SplitPeriods(ctx context.Context, settlementID uuid.UUID) ([]models.SplitPeriod, error)

	// Expenses returns all expenses for a settlement.
	Expenses(ctx context.Context, settlementID uuid.UUID) ([]models.Expense, error)

	// Assets returns all assets for a settlement.
	Assets(ctx context.Context, settlementID uuid.UUID) ([]models.Asset, error)

	// OwedLines returns a settlement's derived lines ordered by date.
	OwedLines(ctx context.Context, settlementID uuid.UUID) ([]models.OwedLine, error)

	// OwedLineByID looks up a single line.
	OwedLineByID(ctx context.Context, id uuid.UUID) (*models.OwedLine, error)

	// DeleteOwedLines removes every derived line of a settlement.
	DeleteOwedLines(ctx context.Context, settlementID uuid.UUID) error

	// InsertOwedLine persists one freshly derived line.
	InsertOwedLine(ctx context.Context, line *models.OwedLine) error

	// UpdateOwedLinePaid sets the paid flag on a line.
	UpdateOwedLinePaid(ctx context.Context, id uuid.UUID, paid bool) error

	// InTransaction runs fn against a transactional view of the store.
	// Everything fn writes becomes visible atomically or not at all.
	InTransaction(ctx context.Context, fn func(Repository) error) error
}
