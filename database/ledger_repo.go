package database

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/charettep/splitup/ledger"
	"github.com/charettep/splitup/models"
)

// ledgerRepository implements ledger.Repository on GORM.
type ledgerRepository struct {
	db *gorm.DB
}

// NewLedgerRepository wraps a GORM handle as the engine's store.
func NewLedgerRepository(db *gorm.DB) ledger.Repository {
	return &ledgerRepository{db: db}
}

func (r *ledgerRepository) Settlement(ctx context.Context, id uuid.UUID) (*models.Settlement, error) {
	var settlement models.Settlement
	err := r.db.WithContext(ctx).
		Preload("Person1").Preload("Person2").
		First(&settlement, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &settlement, nil
}

func (r *ledgerRepository) SplitPeriods(ctx context.Context, settlementID uuid.UUID) ([]models.SplitPeriod, error) {
	var periods []models.SplitPeriod
	err := r.db.WithContext(ctx).
		Where("settlement_id = ?", settlementID).
		Order("start_date ASC").
		Find(&periods).Error
	return periods, err
}

func (r *ledgerRepository) Expenses(ctx context.Context, settlementID uuid.UUID) ([]models.Expense, error) {
	var expenses []models.Expense
	err := r.db.WithContext(ctx).
		Where("settlement_id = ?", settlementID).
		Order("expense_date ASC, created_at ASC").
		Find(&expenses).Error
	return expenses, err
}

func (r *ledgerRepository) Assets(ctx context.Context, settlementID uuid.UUID) ([]models.Asset, error) {
	var assets []models.Asset
	err := r.db.WithContext(ctx).
		Where("settlement_id = ?", settlementID).
		Order("purchase_date ASC, created_at ASC").
		Find(&assets).Error
	return assets, err
}

func (r *ledgerRepository) OwedLines(ctx context.Context, settlementID uuid.UUID) ([]models.OwedLine, error) {
	var lines []models.OwedLine
	err := r.db.WithContext(ctx).
		Where("settlement_id = ?", settlementID).
		Order("date ASC, created_at ASC").
		Find(&lines).Error
	return lines, err
}

func (r *ledgerRepository) OwedLineByID(ctx context.Context, id uuid.UUID) (*models.OwedLine, error) {
	var line models.OwedLine
	if err := r.db.WithContext(ctx).First(&line, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &line, nil
}

func (r *ledgerRepository) DeleteOwedLines(ctx context.Context, settlementID uuid.UUID) error {
	return r.db.WithContext(ctx).
		Where("settlement_id = ?", settlementID).
		Delete(&models.OwedLine{}).Error
}

func (r *ledgerRepository) InsertOwedLine(ctx context.Context, line *models.OwedLine) error {
	return r.db.WithContext(ctx).Create(line).Error
}

func (r *ledgerRepository) UpdateOwedLinePaid(ctx context.Context, id uuid.UUID, paid bool) error {
	res := r.db.WithContext(ctx).
		Model(&models.OwedLine{}).
		Where("id = ?", id).
		Update("paid_status", paid)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *ledgerRepository) InTransaction(ctx context.Context, fn func(ledger.Repository) error) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&ledgerRepository{db: tx})
	})
}
