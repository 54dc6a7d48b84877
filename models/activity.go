package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Activity struct {
	ID           uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	SettlementID uuid.UUID `gorm:"type:uuid;index" json:"settlement_id"`
	UserID       uuid.UUID `gorm:"type:uuid" json:"user_id"`
	User         User      `gorm:"foreignKey:UserID" json:"user,omitempty"`
	Type         string    `gorm:"not null;size:30" json:"type"` // expense_added, expense_updated, expense_deleted, asset_added, asset_valued, period_changed, debt_paid, partner_joined
	ReferenceID  uuid.UUID `gorm:"type:uuid" json:"reference_id,omitempty"`
	Description  string    `json:"description"`
	CreatedAt    time.Time `json:"created_at"`
}

func (a *Activity) BeforeCreate(tx *gorm.DB) error {
	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}
	return nil
}
