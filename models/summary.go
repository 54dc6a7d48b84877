package models

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// SettlementSummary is the net position derived from unpaid OwedLines.
// NetAmount is reported as an absolute value; NetDebtor is empty when the
// settlement is even.
type SettlementSummary struct {
	SettlementID       uuid.UUID       `json:"settlement_id"`
	TotalOwedToPerson1 decimal.Decimal `json:"total_owed_to_person1"`
	TotalOwedToPerson2 decimal.Decimal `json:"total_owed_to_person2"`
	NetAmount          decimal.Decimal `json:"net_amount"`
	NetDebtor          Party           `json:"net_debtor,omitempty"`
	NetDebtorName      string          `json:"net_debtor_name,omitempty"`
	UnpaidLines        int             `json:"unpaid_lines"`
	Currency           string          `json:"currency"`
}

// LedgerResponse is returned for GET /api/settlements/:id/ledger.
type LedgerResponse struct {
	SettlementID uuid.UUID         `json:"settlement_id"`
	Lines        []OwedLine        `json:"lines"`
	Summary      SettlementSummary `json:"summary"`
}
