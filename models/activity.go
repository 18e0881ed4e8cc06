package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

const (
	ActivityDebtCreated     = "debt_created"
	ActivityDebtUpdated     = "debt_updated"
	ActivityDebtSettled     = "debt_settled"
	ActivityDebtClosed      = "debt_closed"
	ActivityDebtDeleted     = "debt_deleted"
	ActivityEMICreated      = "emi_created"
	ActivityInstallmentPaid = "installment_paid"
	ActivityEMICompleted    = "emi_completed"
	ActivityEMIDeleted      = "emi_deleted"
)

type Activity struct {
	ID          uuid.UUID         `gorm:"type:uuid;primaryKey" json:"id"`
	UserID      uuid.UUID         `gorm:"type:uuid;not null;index" json:"user_id"`
	Type        string            `gorm:"not null;size:30" json:"type"`
	ReferenceID uuid.UUID         `gorm:"type:uuid" json:"reference_id,omitempty"`
	Description string            `json:"description"`
	Metadata    datatypes.JSONMap `json:"metadata,omitempty"`
	CreatedAt   time.Time         `gorm:"index" json:"created_at"`
}

func (a *Activity) BeforeCreate(tx *gorm.DB) error {
	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}
	return nil
}
