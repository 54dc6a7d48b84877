package ledger

import (
	"context"
	"errors"
	"sort"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/charettep/splitup/models"
)

var errNotFound = errors.New("record not found")

// fakeRepo is an in-memory Repository. It is deliberately simple: a flat
// slice of lines and no real transactionality, which is enough to exercise
// the engine's derivation logic.
type fakeRepo struct {
	settlement models.Settlement
	periods    []models.SplitPeriod
	expenses   []models.Expense
	assets     []models.Asset
	lines      []models.OwedLine
}

func (f *fakeRepo) Settlement(ctx context.Context, id uuid.UUID) (*models.Settlement, error) {
	if id != f.settlement.ID {
		return nil, errNotFound
	}
	s := f.settlement
	return &s, nil
}

func (f *fakeRepo) SplitPeriods(ctx context.Context, settlementID uuid.UUID) ([]models.SplitPeriod, error) {
	return append([]models.SplitPeriod(nil), f.periods...), nil
}

func (f *fakeRepo) Expenses(ctx context.Context, settlementID uuid.UUID) ([]models.Expense, error) {
	return append([]models.Expense(nil), f.expenses...), nil
}

func (f *fakeRepo) Assets(ctx context.Context, settlementID uuid.UUID) ([]models.Asset, error) {
	return append([]models.Asset(nil), f.assets...), nil
}

func (f *fakeRepo) OwedLines(ctx context.Context, settlementID uuid.UUID) ([]models.OwedLine, error) {
	var out []models.OwedLine
	for _, line := range f.lines {
		if line.SettlementID == settlementID {
			out = append(out, line)
		}
	}
	return out, nil
}

func (f *fakeRepo) OwedLineByID(ctx context.Context, id uuid.UUID) (*models.OwedLine, error) {
	for i := range f.lines {
		if f.lines[i].ID == id {
			line := f.lines[i]
			return &line, nil
		}
	}
	return nil, errNotFound
}

func (f *fakeRepo) DeleteOwedLines(ctx context.Context, settlementID uuid.UUID) error {
	kept := f.lines[:0]
	for _, line := range f.lines {
		if line.SettlementID != settlementID {
			kept = append(kept, line)
		}
	}
	f.lines = kept
	return nil
}

func (f *fakeRepo) InsertOwedLine(ctx context.Context, line *models.OwedLine) error {
	if line.ID == uuid.Nil {
		line.ID = uuid.New()
	}
	f.lines = append(f.lines, *line)
	return nil
}

func (f *fakeRepo) UpdateOwedLinePaid(ctx context.Context, id uuid.UUID, paid bool) error {
	for i := range f.lines {
		if f.lines[i].ID == id {
			f.lines[i].PaidStatus = paid
			return nil
		}
	}
	return errNotFound
}

func (f *fakeRepo) InTransaction(ctx context.Context, fn func(Repository) error) error {
	return fn(f)
}

func newFixture() (*fakeRepo, *Engine) {
	repo := &fakeRepo{
		settlement: models.Settlement{
			ID:       uuid.New(),
			Name:     "apartment wind-down",
			Currency: "CAD",
			Person1:  models.User{Name: "Alex"},
		},
	}
	p2 := models.User{Name: "Sam"}
	repo.settlement.Person2 = &p2
	return repo, NewEngine(repo)
}

func addExpense(repo *fakeRepo, total string, paidBy models.Party, day time.Time) models.Expense {
	e := models.Expense{
		ID:           uuid.New(),
		SettlementID: repo.settlement.ID,
		Description:  "rent",
		TotalAmount:  dec(total),
		PaidBy:       paidBy,
		ExpenseDate:  day,
	}
	repo.expenses = append(repo.expenses, e)
	return e
}

func addAsset(repo *fakeRepo, value string, keptBy models.Party) models.Asset {
	a := resolvedAsset(value, keptBy)
	a.ID = uuid.New()
	a.SettlementID = repo.settlement.ID
	repo.assets = append(repo.assets, a)
	return a
}

func lineFor(t *testing.T, lines []models.OwedLine, sourceType models.SourceType, sourceID uuid.UUID) models.OwedLine {
	t.Helper()
	for _, line := range lines {
		if line.SourceType == sourceType && line.SourceID == sourceID {
			return line
		}
	}
	t.Fatalf("no line for %s %s", sourceType, sourceID)
	return models.OwedLine{}
}

func TestEngineRecalculate(t *testing.T) {
	ctx := context.Background()
	day := date(2025, time.March, 10)

	t.Run("derives one line per expense and resolved asset", func(t *testing.T) {
		repo, engine := newFixture()
		e := addExpense(repo, "120.51", models.Person1, day)
		a := addAsset(repo, "500.00", models.Person1)

		unresolved := resolvedAsset("900.00", models.Person2)
		unresolved.ID = uuid.New()
		unresolved.SettlementID = repo.settlement.ID
		unresolved.KeptBy = nil
		repo.assets = append(repo.assets, unresolved)

		require.NoError(t, engine.Recalculate(ctx, repo.settlement.ID))

		lines, err := engine.Lines(ctx, repo.settlement.ID)
		require.NoError(t, err)
		require.Len(t, lines, 2)

		expenseLine := lineFor(t, lines, models.SourceExpense, e.ID)
		assert.True(t, expenseLine.OwedToPerson1.Equal(dec("60.25")))
		assert.Equal(t, "rent (paid by Alex)", expenseLine.Description)
		assert.Equal(t, day, expenseLine.Date)

		assetLine := lineFor(t, lines, models.SourceAsset, a.ID)
		assert.True(t, assetLine.OwedToPerson2.Equal(dec("250")))
		assert.Equal(t, "dining table (kept by Alex)", assetLine.Description)
		assert.Equal(t, *a.ValuationDate, assetLine.Date)
		assert.Contains(t, assetLine.Notes, "800.00")
		assert.Contains(t, assetLine.Notes, "2024-06-01")
	})

	t.Run("recalculation is idempotent", func(t *testing.T) {
		repo, engine := newFixture()
		addExpense(repo, "120.51", models.Person1, day)
		addExpense(repo, "80.00", models.Person2, day.AddDate(0, 0, 3))
		addAsset(repo, "500.00", models.Person2)

		require.NoError(t, engine.Recalculate(ctx, repo.settlement.ID))
		first, err := engine.Lines(ctx, repo.settlement.ID)
		require.NoError(t, err)

		require.NoError(t, engine.Recalculate(ctx, repo.settlement.ID))
		second, err := engine.Lines(ctx, repo.settlement.ID)
		require.NoError(t, err)

		require.Equal(t, len(first), len(second))
		sortLines(first)
		sortLines(second)
		for i := range first {
			assert.Equal(t, first[i].SourceType, second[i].SourceType)
			assert.Equal(t, first[i].SourceID, second[i].SourceID)
			assert.Equal(t, first[i].Description, second[i].Description)
			assert.True(t, first[i].OwedToPerson1.Equal(second[i].OwedToPerson1))
			assert.True(t, first[i].OwedToPerson2.Equal(second[i].OwedToPerson2))
			assert.Equal(t, first[i].PaidStatus, second[i].PaidStatus)
		}
	})

	t.Run("paid flags survive a rebuild", func(t *testing.T) {
		repo, engine := newFixture()
		paid := addExpense(repo, "100.00", models.Person1, day)
		addExpense(repo, "40.00", models.Person1, day)

		require.NoError(t, engine.Recalculate(ctx, repo.settlement.ID))
		lines, err := engine.Lines(ctx, repo.settlement.ID)
		require.NoError(t, err)

		paidLine := lineFor(t, lines, models.SourceExpense, paid.ID)
		_, err = engine.SetPaidStatus(ctx, paidLine.ID, true)
		require.NoError(t, err)

		require.NoError(t, engine.Recalculate(ctx, repo.settlement.ID))
		lines, err = engine.Lines(ctx, repo.settlement.ID)
		require.NoError(t, err)
		require.Len(t, lines, 2)

		assert.True(t, lineFor(t, lines, models.SourceExpense, paid.ID).PaidStatus)
		for _, line := range lines {
			if line.SourceID != paid.ID {
				assert.False(t, line.PaidStatus, "unpaid line flipped to paid")
			}
		}
	})

	t.Run("lines of deleted sources are swept", func(t *testing.T) {
		repo, engine := newFixture()
		keep := addExpense(repo, "100.00", models.Person1, day)
		addExpense(repo, "60.00", models.Person2, day)

		require.NoError(t, engine.Recalculate(ctx, repo.settlement.ID))
		lines, err := engine.Lines(ctx, repo.settlement.ID)
		require.NoError(t, err)
		require.Len(t, lines, 2)

		repo.expenses = []models.Expense{keep}
		require.NoError(t, engine.Recalculate(ctx, repo.settlement.ID))

		lines, err = engine.Lines(ctx, repo.settlement.ID)
		require.NoError(t, err)
		require.Len(t, lines, 1)
		assert.Equal(t, keep.ID, lines[0].SourceID)
	})

	t.Run("source edits are reflected on rebuild", func(t *testing.T) {
		repo, engine := newFixture()
		e := addExpense(repo, "100.00", models.Person1, day)
		require.NoError(t, engine.Recalculate(ctx, repo.settlement.ID))

		repo.expenses[0].TotalAmount = dec("200.00")
		require.NoError(t, engine.Recalculate(ctx, repo.settlement.ID))

		lines, err := engine.Lines(ctx, repo.settlement.ID)
		require.NoError(t, err)
		require.Len(t, lines, 1)
		assert.True(t, lineFor(t, lines, models.SourceExpense, e.ID).OwedToPerson1.Equal(dec("100")))
	})

	t.Run("fully-owned expense produces no line", func(t *testing.T) {
		repo, engine := newFixture()
		e := addExpense(repo, "100.00", models.Person1, day)
		repo.expenses[0].ManualPerson1Pct = pct("100")
		repo.expenses[0].ManualPerson2Pct = pct("0")

		require.NoError(t, engine.Recalculate(ctx, repo.settlement.ID))

		lines, err := engine.Lines(ctx, repo.settlement.ID)
		require.NoError(t, err)
		assert.Empty(t, lines, "expense %s owed nothing yet produced a line", e.ID)
	})

	t.Run("fully-owned asset produces no buyback line", func(t *testing.T) {
		repo, engine := newFixture()
		a := addAsset(repo, "500.00", models.Person1)
		repo.assets[0].ManualOriginalPerson1Pct = pct("100")
		repo.assets[0].ManualOriginalPerson2Pct = pct("0")

		require.NoError(t, engine.Recalculate(ctx, repo.settlement.ID))

		lines, err := engine.Lines(ctx, repo.settlement.ID)
		require.NoError(t, err)
		assert.Empty(t, lines, "asset %s had no stake to buy back yet produced a line", a.ID)
	})

	t.Run("unknown settlement", func(t *testing.T) {
		_, engine := newFixture()
		assert.Error(t, engine.Recalculate(ctx, uuid.New()))
	})
}

// Rapid edits trigger overlapping rebuilds; the per-settlement lock must
// keep the delete+reinsert passes from interleaving into duplicate or
// orphaned lines.
func TestEngineConcurrentRecalculate(t *testing.T) {
	ctx := context.Background()
	repo, engine := newFixture()
	day := date(2025, time.March, 10)
	addExpense(repo, "120.51", models.Person1, day)
	addExpense(repo, "80.00", models.Person2, day.AddDate(0, 0, 3))
	addAsset(repo, "500.00", models.Person2)

	const rebuilds = 8
	errs := make(chan error, rebuilds)
	var wg sync.WaitGroup
	for i := 0; i < rebuilds; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			errs <- engine.Recalculate(ctx, repo.settlement.ID)
		}()
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		require.NoError(t, err)
	}

	lines, err := engine.Lines(ctx, repo.settlement.ID)
	require.NoError(t, err)
	require.Len(t, lines, 3)

	seen := map[sourceKey]int{}
	for _, line := range lines {
		seen[sourceKey{line.SourceType, line.SourceID}]++
	}
	for key, count := range seen {
		assert.Equalf(t, 1, count, "source %s %s has %d lines", key.sourceType, key.sourceID, count)
	}
}

func sortLines(lines []models.OwedLine) {
	sort.Slice(lines, func(i, j int) bool {
		if lines[i].SourceType != lines[j].SourceType {
			return lines[i].SourceType < lines[j].SourceType
		}
		return lines[i].SourceID.String() < lines[j].SourceID.String()
	})
}

func TestEngineSummary(t *testing.T) {
	ctx := context.Background()
	day := date(2025, time.March, 10)

	t.Run("nets the two directions into one absolute amount", func(t *testing.T) {
		repo, engine := newFixture()
		// person2 owes 300 on the first expense, person1 owes 120 on the
		// second: net 180 owed to person1, so person2 is the debtor.
		addExpense(repo, "600.00", models.Person1, day)
		addExpense(repo, "240.00", models.Person2, day)
		require.NoError(t, engine.Recalculate(ctx, repo.settlement.ID))

		summary, err := engine.Summary(ctx, repo.settlement.ID)
		require.NoError(t, err)

		assert.True(t, summary.TotalOwedToPerson1.Equal(dec("300")))
		assert.True(t, summary.TotalOwedToPerson2.Equal(dec("120")))
		assert.True(t, summary.NetAmount.Equal(dec("180")))
		assert.Equal(t, models.Person2, summary.NetDebtor)
		assert.Equal(t, "Sam", summary.NetDebtorName)
		assert.Equal(t, 2, summary.UnpaidLines)
		assert.Equal(t, "CAD", summary.Currency)
	})

	t.Run("net amount is absolute when person1 is the debtor", func(t *testing.T) {
		repo, engine := newFixture()
		addExpense(repo, "240.00", models.Person2, day)
		require.NoError(t, engine.Recalculate(ctx, repo.settlement.ID))

		summary, err := engine.Summary(ctx, repo.settlement.ID)
		require.NoError(t, err)

		assert.True(t, summary.NetAmount.Equal(dec("120")))
		assert.False(t, summary.NetAmount.IsNegative())
		assert.Equal(t, models.Person1, summary.NetDebtor)
		assert.Equal(t, "Alex", summary.NetDebtorName)
	})

	t.Run("paid lines drop out of the totals", func(t *testing.T) {
		repo, engine := newFixture()
		paid := addExpense(repo, "600.00", models.Person1, day)
		addExpense(repo, "240.00", models.Person2, day)
		require.NoError(t, engine.Recalculate(ctx, repo.settlement.ID))

		lines, err := engine.Lines(ctx, repo.settlement.ID)
		require.NoError(t, err)
		_, err = engine.SetPaidStatus(ctx, lineFor(t, lines, models.SourceExpense, paid.ID).ID, true)
		require.NoError(t, err)

		summary, err := engine.Summary(ctx, repo.settlement.ID)
		require.NoError(t, err)

		assert.True(t, summary.TotalOwedToPerson1.IsZero())
		assert.True(t, summary.NetAmount.Equal(dec("120")))
		assert.Equal(t, models.Person1, summary.NetDebtor)
		assert.Equal(t, 1, summary.UnpaidLines)
	})

	t.Run("empty ledger has no debtor", func(t *testing.T) {
		repo, engine := newFixture()
		summary, err := engine.Summary(ctx, repo.settlement.ID)
		require.NoError(t, err)

		assert.True(t, summary.NetAmount.IsZero())
		assert.Empty(t, string(summary.NetDebtor))
		assert.Empty(t, summary.NetDebtorName)
		assert.Equal(t, 0, summary.UnpaidLines)
	})
}

func TestEngineSetPaidStatus(t *testing.T) {
	ctx := context.Background()

	t.Run("toggles and returns the line", func(t *testing.T) {
		repo, engine := newFixture()
		e := addExpense(repo, "100.00", models.Person1, date(2025, time.March, 10))
		require.NoError(t, engine.Recalculate(ctx, repo.settlement.ID))

		lines, err := engine.Lines(ctx, repo.settlement.ID)
		require.NoError(t, err)
		id := lineFor(t, lines, models.SourceExpense, e.ID).ID

		line, err := engine.SetPaidStatus(ctx, id, true)
		require.NoError(t, err)
		assert.True(t, line.PaidStatus)

		stored, err := repo.OwedLineByID(ctx, id)
		require.NoError(t, err)
		assert.True(t, stored.PaidStatus)

		line, err = engine.SetPaidStatus(ctx, id, false)
		require.NoError(t, err)
		assert.False(t, line.PaidStatus)
	})

	t.Run("unknown line", func(t *testing.T) {
		_, engine := newFixture()
		_, err := engine.SetPaidStatus(ctx, uuid.New(), true)
		assert.Error(t, err)
	})

	// A mark-paid arriving while a rebuild holds the settlement lock must
	// wait for it; applied mid-rebuild it would be wiped by the reinsert.
	t.Run("serializes with a rebuild of the same settlement", func(t *testing.T) {
		repo, engine := newFixture()
		e := addExpense(repo, "100.00", models.Person1, date(2025, time.March, 10))
		require.NoError(t, engine.Recalculate(ctx, repo.settlement.ID))

		lines, err := engine.Lines(ctx, repo.settlement.ID)
		require.NoError(t, err)
		id := lineFor(t, lines, models.SourceExpense, e.ID).ID

		lock := engine.settlementLock(repo.settlement.ID)
		lock.Lock()

		done := make(chan error, 1)
		go func() {
			_, err := engine.SetPaidStatus(ctx, id, true)
			done <- err
		}()

		select {
		case <-done:
			lock.Unlock()
			t.Fatal("paid update did not wait for the settlement lock")
		case <-time.After(50 * time.Millisecond):
		}

		lock.Unlock()
		require.NoError(t, <-done)

		stored, err := repo.OwedLineByID(ctx, id)
		require.NoError(t, err)
		assert.True(t, stored.PaidStatus)
	})
}
