package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type Expense struct {
	ID               uuid.UUID           `gorm:"type:uuid;primaryKey" json:"id"`
	SettlementID     uuid.UUID           `gorm:"type:uuid;index" json:"settlement_id"`
	Description      string              `gorm:"not null;size:255" json:"description"`
	Category         string              `gorm:"size:50" json:"category"` // groceries, rent, utilities, leisure, other
	TotalAmount      decimal.Decimal     `gorm:"type:decimal(12,2);not null" json:"total_amount"`
	PaidBy           Party               `gorm:"not null;size:10" json:"paid_by"`
	ExpenseDate      time.Time           `gorm:"type:date;not null" json:"expense_date"`
	ManualPerson1Pct decimal.NullDecimal `gorm:"type:decimal(5,2)" json:"manual_person1_pct,omitempty"`
	ManualPerson2Pct decimal.NullDecimal `gorm:"type:decimal(5,2)" json:"manual_person2_pct,omitempty"`
	ReceiptURL       string              `json:"receipt_url,omitempty"`
	Notes            string              `json:"notes,omitempty"`
	CreatedBy        uuid.UUID           `gorm:"type:uuid" json:"created_by"`
	CreatedAt        time.Time           `json:"created_at"`
	UpdatedAt        time.Time           `json:"updated_at"`
}

func (e *Expense) BeforeCreate(tx *gorm.DB) error {
	if e.ID == uuid.Nil {
		e.ID = uuid.New()
	}
	return nil
}

// HasManualSplit reports whether both manual percentages are present; only
// then do they override period resolution.
func (e *Expense) HasManualSplit() bool {
	return e.ManualPerson1Pct.Valid && e.ManualPerson2Pct.Valid
}

// Request structs
type CreateExpenseRequest struct {
	Description      string `json:"description" binding:"required"`
	Category         string `json:"category"`
	TotalAmount      string `json:"total_amount" binding:"required"`
	PaidBy           string `json:"paid_by" binding:"required,oneof=person1 person2"`
	ExpenseDate      string `json:"expense_date"` // YYYY-MM-DD, defaults to today
	ManualPerson1Pct string `json:"manual_person1_pct"`
	ManualPerson2Pct string `json:"manual_person2_pct"`
	ReceiptURL       string `json:"receipt_url"`
	Notes            string `json:"notes"`
}

type UpdateExpenseRequest struct {
	Description      string `json:"description"`
	Category         string `json:"category"`
	TotalAmount      string `json:"total_amount"`
	PaidBy           string `json:"paid_by"`
	ExpenseDate      string `json:"expense_date"`
	ManualPerson1Pct string `json:"manual_person1_pct"` // "null" clears the override
	ManualPerson2Pct string `json:"manual_person2_pct"`
	ReceiptURL       string `json:"receipt_url"`
	Notes            string `json:"notes"`
}
