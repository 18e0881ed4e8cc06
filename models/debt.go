package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type DebtType string

const (
	DebtBorrowed DebtType = "BORROWED"
	DebtGiven    DebtType = "GIVEN"
)

func (t DebtType) Valid() bool {
	return t == DebtBorrowed || t == DebtGiven
}

type DebtStatus string

const (
	DebtPending DebtStatus = "PENDING"
	DebtClosed  DebtStatus = "CLOSED"
)

type Debt struct {
	ID            uuid.UUID       `gorm:"type:uuid;primaryKey" json:"id"`
	UserID        uuid.UUID       `gorm:"type:uuid;not null;index:idx_debts_user_status,priority:1" json:"user_id"`
	PersonName    string          `gorm:"not null;size:100;index" json:"person_name"`
	Amount        decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"amount"`
	Type          DebtType        `gorm:"not null;size:10" json:"type"` // BORROWED, GIVEN
	Status        DebtStatus      `gorm:"not null;size:10;default:PENDING;index:idx_debts_user_status,priority:2" json:"status"`
	AmountSettled decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0" json:"amount_settled"`
	DueDate       *time.Time      `gorm:"type:date" json:"due_date,omitempty"`
	Settlements   []Settlement    `gorm:"foreignKey:DebtID" json:"settlements,omitempty"`
	CreatedAt     time.Time       `json:"created_at"`
	ClosedAt      *time.Time      `json:"closed_at,omitempty"`
}

func (d *Debt) BeforeCreate(tx *gorm.DB) error {
	if d.ID == uuid.Nil {
		d.ID = uuid.New()
	}
	return nil
}

func (d *Debt) Outstanding() decimal.Decimal {
	return d.Amount.Sub(d.AmountSettled)
}

func (d *Debt) IsClosed() bool {
	return d.Status == DebtClosed
}

// DaysPending is the number of whole days since creation, or nil once closed.
func (d *Debt) DaysPending(now time.Time) *int {
	if d.IsClosed() {
		return nil
	}
	days := int(now.Sub(d.CreatedAt).Hours() / 24)
	if days < 0 {
		days = 0
	}
	return &days
}

// CanSettle returns the error a settlement of amount would fail with, if any.
func (d *Debt) CanSettle(amount decimal.Decimal) error {
	if d.IsClosed() {
		return ConflictError("Cannot settle a closed debt")
	}
	if err := ValidateAmount("Settlement amount", amount); err != nil {
		return err
	}
	if amount.GreaterThan(d.Outstanding()) {
		return ValidationError("Settlement amount exceeds outstanding balance of %s", d.Outstanding().StringFixed(2))
	}
	return nil
}

// Settle applies a payment against the debt and returns the audit row for it.
// The debt closes when the settled total reaches the full amount.
func (d *Debt) Settle(amount decimal.Decimal, notes string, now time.Time) (Settlement, error) {
	if err := d.CanSettle(amount); err != nil {
		return Settlement{}, err
	}
	d.AmountSettled = d.AmountSettled.Add(amount)
	d.closeIfSettled(now)
	return Settlement{
		DebtID:      d.ID,
		Amount:      amount,
		Notes:       notes,
		SettledDate: now,
	}, nil
}

func (d *Debt) closeIfSettled(now time.Time) {
	if d.Status == DebtPending && d.AmountSettled.Equal(d.Amount) {
		d.Status = DebtClosed
		closedAt := now
		d.ClosedAt = &closedAt
	}
}

// DebtEdit carries the client-editable fields of a pending debt.
type DebtEdit struct {
	PersonName *string
	Amount     *decimal.Decimal
	Type       *DebtType
	DueDate    *time.Time

	// ClearDueDate removes the due date; it wins over DueDate.
	ClearDueDate bool
}

// Edit applies a client edit. Closed debts and type changes are rejected.
func (d *Debt) Edit(edit DebtEdit, now time.Time) error {
	if d.IsClosed() {
		return ConflictError("Closed debts cannot be modified")
	}
	if edit.Type != nil && *edit.Type != d.Type {
		return ValidationError("Transaction type cannot be changed after creation")
	}
	if edit.PersonName != nil {
		if *edit.PersonName == "" {
			return ValidationError("Person name is required")
		}
		d.PersonName = *edit.PersonName
	}
	if edit.Amount != nil {
		if err := ValidateAmount("Amount", *edit.Amount); err != nil {
			return err
		}
		if edit.Amount.LessThan(d.AmountSettled) {
			return ValidationError("Amount cannot be less than the settled amount of %s", d.AmountSettled.StringFixed(2))
		}
		d.Amount = *edit.Amount
	}
	if edit.ClearDueDate {
		d.DueDate = nil
	} else if edit.DueDate != nil {
		due := *edit.DueDate
		d.DueDate = &due
	}
	d.closeIfSettled(now)
	return nil
}

// Request structs
type CreateDebtRequest struct {
	PersonName string           `json:"person_name" binding:"required,max=100"`
	Amount     *decimal.Decimal `json:"amount" binding:"required"`
	Type       DebtType         `json:"type" binding:"required,oneof=BORROWED GIVEN"`
	DueDate    string           `json:"due_date"` // YYYY-MM-DD
}

type UpdateDebtRequest struct {
	PersonName *string          `json:"person_name" binding:"omitempty,max=100"`
	Amount     *decimal.Decimal `json:"amount"`
	Type       *DebtType        `json:"type"`
	DueDate    *string          `json:"due_date"`
}

type SettleDebtRequest struct {
	Amount *decimal.Decimal `json:"amount" binding:"required"`
	Notes  string           `json:"notes"`
}

// Response structs
type DebtListResponse struct {
	ID                uuid.UUID  `json:"id"`
	PersonName        string     `json:"person_name"`
	Amount            Money      `json:"amount"`
	Type              DebtType   `json:"type"`
	Status            DebtStatus `json:"status"`
	AmountSettled     Money      `json:"amount_settled"`
	OutstandingAmount Money      `json:"outstanding_amount"`
	DueDate           *string    `json:"due_date"`
	CreatedAt         time.Time  `json:"created_at"`
	ClosedAt          *time.Time `json:"closed_at"`
	DaysPending       *int       `json:"days_pending"`
}

type DebtResponse struct {
	DebtListResponse
	Settlements []SettlementResponse `json:"settlements"`
}

func (d *Debt) ToListResponse(now time.Time) DebtListResponse {
	return DebtListResponse{
		ID:                d.ID,
		PersonName:        d.PersonName,
		Amount:            NewMoney(d.Amount),
		Type:              d.Type,
		Status:            d.Status,
		AmountSettled:     NewMoney(d.AmountSettled),
		OutstandingAmount: NewMoney(d.Outstanding()),
		DueDate:           formatDate(d.DueDate),
		CreatedAt:         d.CreatedAt,
		ClosedAt:          d.ClosedAt,
		DaysPending:       d.DaysPending(now),
	}
}

func (d *Debt) ToResponse(now time.Time) DebtResponse {
	settlements := make([]SettlementResponse, 0, len(d.Settlements))
	for _, s := range d.Settlements {
		settlements = append(settlements, s.ToResponse())
	}
	return DebtResponse{
		DebtListResponse: d.ToListResponse(now),
		Settlements:      settlements,
	}
}

type SettleResponse struct {
	Message string       `json:"message"`
	Debt    DebtResponse `json:"debt"`
}

type PendingDebtsResponse struct {
	Count            int                `json:"count"`
	TotalOutstanding Money              `json:"total_outstanding"`
	Results          []DebtListResponse `json:"results"`
}

type ClosedDebtGroup struct {
	Month        string             `json:"month"`         // 2006-01
	MonthDisplay string             `json:"month_display"` // January 2006
	Count        int                `json:"count"`
	Debts        []DebtListResponse `json:"debts"`
}

type DebtBreakdown struct {
	Pending Money `json:"pending"`
	Settled Money `json:"settled"`
}

type DebtSummary struct {
	TotalBorrowed     Money         `json:"total_borrowed"`
	TotalGiven        Money         `json:"total_given"`
	TotalOutstanding  Money         `json:"total_outstanding"`
	TotalSettled      Money         `json:"total_settled"`
	BorrowedBreakdown DebtBreakdown `json:"borrowed_breakdown"`
	GivenBreakdown    DebtBreakdown `json:"given_breakdown"`
}
