package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Settlement is the shared scope between exactly two people. Person2 stays
// empty until the invited partner registers and joins.
type Settlement struct {
	ID        uuid.UUID  `gorm:"type:uuid;primaryKey" json:"id"`
	Name      string     `gorm:"not null;size:100" json:"name"`
	Currency  string     `gorm:"default:CAD;size:3" json:"currency"`
	Person1ID uuid.UUID  `gorm:"type:uuid;not null" json:"person1_id"`
	Person1   User       `gorm:"foreignKey:Person1ID" json:"person1,omitempty"`
	Person2ID *uuid.UUID `gorm:"type:uuid" json:"person2_id,omitempty"`
	Person2   *User      `gorm:"foreignKey:Person2ID" json:"person2,omitempty"`
	CreatedBy uuid.UUID  `gorm:"type:uuid" json:"created_by"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
}

func (s *Settlement) BeforeCreate(tx *gorm.DB) error {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	return nil
}

// PartyOf returns which side of the settlement the user is on.
func (s *Settlement) PartyOf(userID uuid.UUID) (Party, bool) {
	if userID == s.Person1ID {
		return Person1, true
	}
	if s.Person2ID != nil && userID == *s.Person2ID {
		return Person2, true
	}
	return "", false
}

// NameOf returns the display name for a party, with a placeholder while
// the second seat is still unclaimed.
func (s *Settlement) NameOf(p Party) string {
	if p == Person1 {
		return s.Person1.Name
	}
	if s.Person2 != nil {
		return s.Person2.Name
	}
	return "Partner"
}

// Request structs
type CreateSettlementRequest struct {
	Name         string `json:"name" binding:"required"`
	Currency     string `json:"currency"`
	PartnerEmail string `json:"partner_email"` // invited as person2
}

type UpdateSettlementRequest struct {
	Name     string `json:"name"`
	Currency string `json:"currency"`
}

// Response structs
type SettlementResponse struct {
	ID          uuid.UUID     `json:"id"`
	Name        string        `json:"name"`
	Currency    string        `json:"currency"`
	Person1     UserResponse  `json:"person1"`
	Person2     *UserResponse `json:"person2,omitempty"`
	PendingWith string        `json:"pending_with,omitempty"` // invited email while person2 is unset
	CreatedAt   time.Time     `json:"created_at"`
}
