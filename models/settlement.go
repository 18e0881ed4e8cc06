package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Settlement is an append-only record of a payment against a Debt.
type Settlement struct {
	ID          uuid.UUID       `gorm:"type:uuid;primaryKey" json:"id"`
	DebtID      uuid.UUID       `gorm:"type:uuid;not null;index:idx_settlements_debt_date,priority:1" json:"debt_id"`
	Amount      decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"amount"`
	SettledDate time.Time       `gorm:"not null;index:idx_settlements_debt_date,priority:2" json:"settled_date"`
	Notes       string          `gorm:"type:text" json:"notes,omitempty"`
}

func (s *Settlement) BeforeCreate(tx *gorm.DB) error {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	return nil
}

type SettlementResponse struct {
	ID          uuid.UUID `json:"id"`
	Amount      Money     `json:"amount"`
	SettledDate time.Time `json:"settled_date"`
	Notes       string    `json:"notes"`
}

func (s *Settlement) ToResponse() SettlementResponse {
	return SettlementResponse{
		ID:          s.ID,
		Amount:      NewMoney(s.Amount),
		SettledDate: s.SettledDate,
		Notes:       s.Notes,
	}
}
