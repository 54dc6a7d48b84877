package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// SplitPeriod is a dated range of ownership shares. EndDate nil means the
// period is ongoing. Shares are percentages in [0,100]; the two sides are
// expected to sum to 100 but the engine never enforces that, it is only
// surfaced as a warning by the API.
type SplitPeriod struct {
	ID              uuid.UUID       `gorm:"type:uuid;primaryKey" json:"id"`
	SettlementID    uuid.UUID       `gorm:"type:uuid;index" json:"settlement_id"`
	StartDate       time.Time       `gorm:"type:date;not null" json:"start_date"`
	EndDate         *time.Time      `gorm:"type:date" json:"end_date,omitempty"`
	Person1SharePct decimal.Decimal `gorm:"type:decimal(5,2);not null" json:"person1_share_pct"`
	Person2SharePct decimal.Decimal `gorm:"type:decimal(5,2);not null" json:"person2_share_pct"`
	CreatedAt       time.Time       `json:"created_at"`
	UpdatedAt       time.Time       `json:"updated_at"`
}

func (p *SplitPeriod) BeforeCreate(tx *gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return nil
}

// SharesSumTo100 reports whether the two shares add up to exactly 100.
func (p *SplitPeriod) SharesSumTo100() bool {
	return p.Person1SharePct.Add(p.Person2SharePct).Equal(decimal.NewFromInt(100))
}

// Request structs
type CreatePeriodRequest struct {
	StartDate       string `json:"start_date" binding:"required"` // YYYY-MM-DD
	EndDate         string `json:"end_date"`                      // empty = ongoing
	Person1SharePct string `json:"person1_share_pct" binding:"required"`
	Person2SharePct string `json:"person2_share_pct" binding:"required"`
}

type UpdatePeriodRequest struct {
	StartDate       string `json:"start_date"`
	EndDate         string `json:"end_date"`   // "null" clears the end date
	Person1SharePct string `json:"person1_share_pct"`
	Person2SharePct string `json:"person2_share_pct"`
}
