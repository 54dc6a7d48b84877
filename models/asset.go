package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Asset is a jointly owned purchase. It has no ledger presence until a
// current valuation is recorded and one party is marked as keeping it.
type Asset struct {
	ID                       uuid.UUID           `gorm:"type:uuid;primaryKey" json:"id"`
	SettlementID             uuid.UUID           `gorm:"type:uuid;index" json:"settlement_id"`
	Name                     string              `gorm:"not null;size:255" json:"name"`
	Category                 string              `gorm:"size:50" json:"category"` // furniture, appliance, vehicle, electronics, other
	PurchaseDate             time.Time           `gorm:"type:date;not null" json:"purchase_date"`
	PurchasePrice            decimal.Decimal     `gorm:"type:decimal(12,2);not null" json:"purchase_price"`
	PaidBy                   Party               `gorm:"not null;size:10" json:"paid_by"`
	ManualOriginalPerson1Pct decimal.NullDecimal `gorm:"type:decimal(5,2)" json:"manual_original_person1_pct,omitempty"`
	ManualOriginalPerson2Pct decimal.NullDecimal `gorm:"type:decimal(5,2)" json:"manual_original_person2_pct,omitempty"`
	CurrentEstimatedValue    decimal.NullDecimal `gorm:"type:decimal(12,2)" json:"current_estimated_value,omitempty"`
	ValuationDate            *time.Time          `gorm:"type:date" json:"valuation_date,omitempty"`
	KeptBy                   *Party              `gorm:"size:10" json:"kept_by,omitempty"`
	Notes                    string              `json:"notes,omitempty"`
	CreatedBy                uuid.UUID           `gorm:"type:uuid" json:"created_by"`
	CreatedAt                time.Time           `json:"created_at"`
	UpdatedAt                time.Time           `json:"updated_at"`
}

func (a *Asset) BeforeCreate(tx *gorm.DB) error {
	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}
	return nil
}

// HasManualSplit reports whether both manual original percentages are set.
func (a *Asset) HasManualSplit() bool {
	return a.ManualOriginalPerson1Pct.Valid && a.ManualOriginalPerson2Pct.Valid
}

// Resolved reports whether the asset carries everything a buyback needs.
func (a *Asset) Resolved() bool {
	return a.CurrentEstimatedValue.Valid && a.ValuationDate != nil && a.KeptBy != nil
}

// Request structs
type CreateAssetRequest struct {
	Name                     string `json:"name" binding:"required"`
	Category                 string `json:"category"`
	PurchaseDate             string `json:"purchase_date" binding:"required"` // YYYY-MM-DD
	PurchasePrice            string `json:"purchase_price" binding:"required"`
	PaidBy                   string `json:"paid_by" binding:"required,oneof=person1 person2"`
	ManualOriginalPerson1Pct string `json:"manual_original_person1_pct"`
	ManualOriginalPerson2Pct string `json:"manual_original_person2_pct"`
	Notes                    string `json:"notes"`
}

type UpdateAssetRequest struct {
	Name                     string `json:"name"`
	Category                 string `json:"category"`
	PurchaseDate             string `json:"purchase_date"`
	PurchasePrice            string `json:"purchase_price"`
	PaidBy                   string `json:"paid_by"`
	ManualOriginalPerson1Pct string `json:"manual_original_person1_pct"` // "null" clears the override
	ManualOriginalPerson2Pct string `json:"manual_original_person2_pct"`
	Notes                    string `json:"notes"`
}

// SetValuationRequest resolves an asset for settlement purposes.
type SetValuationRequest struct {
	CurrentEstimatedValue string `json:"current_estimated_value" binding:"required"`
	ValuationDate         string `json:"valuation_date"` // YYYY-MM-DD, defaults to today
	KeptBy                string `json:"kept_by" binding:"required,oneof=person1 person2"`
}
