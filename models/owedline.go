package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// SourceType identifies the record an OwedLine was derived from.
type SourceType string

const (
	SourceExpense SourceType = "expense"
	SourceAsset   SourceType = "asset"
)

// OwedLine is a derived debt line. The recalculation engine owns the full
// row except PaidStatus, which is toggled by explicit user action and
// survives recomputation. Exactly one of the two owed columns is nonzero.
type OwedLine struct {
	ID            uuid.UUID       `gorm:"type:uuid;primaryKey" json:"id"`
	SettlementID  uuid.UUID       `gorm:"type:uuid;index" json:"settlement_id"`
	SourceType    SourceType      `gorm:"not null;size:10;index:idx_owed_source" json:"source_type"`
	SourceID      uuid.UUID       `gorm:"type:uuid;index:idx_owed_source" json:"source_id"`
	Date          time.Time       `gorm:"type:date;not null" json:"date"`
	Description   string          `gorm:"not null;size:255" json:"description"`
	Category      string          `gorm:"size:50" json:"category,omitempty"`
	TotalAmount   decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"total_amount"`
	OwedToPerson1 decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"owed_to_person1"`
	OwedToPerson2 decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"owed_to_person2"`
	PaidStatus    bool            `gorm:"not null;default:false" json:"paid_status"`
	Notes         string          `json:"notes,omitempty"`
	CreatedAt     time.Time       `json:"created_at"`
}

func (l *OwedLine) BeforeCreate(tx *gorm.DB) error {
	if l.ID == uuid.Nil {
		l.ID = uuid.New()
	}
	return nil
}

// OwedTo returns the creditor side of the line.
func (l *OwedLine) OwedTo() Party {
	if l.OwedToPerson1.IsPositive() {
		return Person1
	}
	return Person2
}

// Amount returns the nonzero owed amount.
func (l *OwedLine) Amount() decimal.Decimal {
	if l.OwedToPerson1.IsPositive() {
		return l.OwedToPerson1
	}
	return l.OwedToPerson2
}

type SetPaidStatusRequest struct {
	Paid *bool `json:"paid" binding:"required"`
}
