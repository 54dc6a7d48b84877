package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Invitation holds a pending second seat for a settlement. Accepting one
// fills Person2 on the settlement.
type Invitation struct {
	ID           uuid.UUID  `gorm:"type:uuid;primaryKey" json:"id"`
	SettlementID uuid.UUID  `gorm:"type:uuid;index" json:"settlement_id"`
	Settlement   Settlement `gorm:"foreignKey:SettlementID" json:"settlement,omitempty"`
	InvitedBy    uuid.UUID  `gorm:"type:uuid" json:"invited_by"`
	Inviter      User       `gorm:"foreignKey:InvitedBy" json:"inviter,omitempty"`
	Email        string     `gorm:"size:255" json:"email"`
	Status       string     `gorm:"default:pending;size:20" json:"status"` // pending, accepted, declined
	CreatedAt    time.Time  `json:"created_at"`
}

func (i *Invitation) BeforeCreate(tx *gorm.DB) error {
	if i.ID == uuid.Nil {
		i.ID = uuid.New()
	}
	return nil
}

type InviteRequest struct {
	Email string `json:"email" binding:"required,email"`
}
