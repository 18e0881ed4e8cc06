package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type EMIStatus string

const (
	EMIActive    EMIStatus = "ACTIVE"
	EMICompleted EMIStatus = "COMPLETED"
)

type InstallmentStatus string

const (
	InstallmentPending InstallmentStatus = "PENDING"
	InstallmentPaid    InstallmentStatus = "PAID"
)

// EMI is an installment plan whose schedule is fixed when it is created.
type EMI struct {
	ID                uuid.UUID       `gorm:"type:uuid;primaryKey" json:"id"`
	UserID            uuid.UUID       `gorm:"type:uuid;not null;index" json:"user_id"`
	Title             string          `gorm:"not null;size:100" json:"title"`
	StartDate         time.Time       `gorm:"type:date;not null" json:"start_date"`
	EndDate           time.Time       `gorm:"type:date;not null" json:"end_date"`
	TotalInstallments int             `gorm:"not null" json:"total_installments"`
	InstallmentAmount decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"installment_amount"`
	Status            EMIStatus       `gorm:"not null;size:10;default:ACTIVE" json:"status"` // ACTIVE, COMPLETED
	Installments      []Installment   `gorm:"foreignKey:EMIID" json:"installments,omitempty"`
	CreatedAt         time.Time       `json:"created_at"`
}

func (EMI) TableName() string {
	return "emis"
}

func (e *EMI) BeforeCreate(tx *gorm.DB) error {
	if e.ID == uuid.Nil {
		e.ID = uuid.New()
	}
	return nil
}

type Installment struct {
	ID       uuid.UUID         `gorm:"type:uuid;primaryKey" json:"id"`
	EMIID    uuid.UUID         `gorm:"column:emi_id;type:uuid;not null;uniqueIndex:idx_installments_emi_seq,priority:1" json:"emi_id"`
	Sequence int               `gorm:"not null;uniqueIndex:idx_installments_emi_seq,priority:2" json:"sequence"`
	DueDate  time.Time         `gorm:"type:date;not null;index" json:"due_date"`
	Amount   decimal.Decimal   `gorm:"type:decimal(12,2);not null" json:"amount"`
	Status   InstallmentStatus `gorm:"not null;size:10;default:PENDING" json:"status"` // PENDING, PAID
	PaidDate *time.Time        `gorm:"type:date" json:"paid_date,omitempty"`
}

func (i *Installment) BeforeCreate(tx *gorm.DB) error {
	if i.ID == uuid.Nil {
		i.ID = uuid.New()
	}
	return nil
}

// MaxInstallments bounds a plan to a century of monthly payments.
const MaxInstallments = 1200

const secondsPerDay = 24 * 60 * 60

func (e *EMI) TotalAmount() decimal.Decimal {
	return e.InstallmentAmount.Mul(decimal.NewFromInt(int64(e.TotalInstallments)))
}

// Validate checks the plan parameters before a schedule is generated.
func (e *EMI) Validate() error {
	if e.Title == "" {
		return ValidationError("Title is required")
	}
	if e.TotalInstallments < 1 {
		return ValidationError("Total installments must be at least 1")
	}
	if e.TotalInstallments > MaxInstallments {
		return ValidationError("Total installments cannot exceed %d", MaxInstallments)
	}
	if err := ValidateAmount("Installment amount", e.InstallmentAmount); err != nil {
		return err
	}
	if e.TotalInstallments == 1 {
		if e.EndDate.Before(e.StartDate) {
			return ValidationError("End date cannot be before start date")
		}
		return nil
	}
	if !e.StartDate.Before(e.EndDate) {
		return ValidationError("Start date must be before end date")
	}
	return nil
}

// GenerateInstallments spreads TotalInstallments due dates evenly from StartDate
// to EndDate inclusive. Offsets are rounded to the nearest day, halves rounding up.
func (e *EMI) GenerateInstallments() []Installment {
	start := DateOf(e.StartDate)
	offsets := ScheduleOffsets(daysBetween(start, DateOf(e.EndDate)), e.TotalInstallments)

	installments := make([]Installment, 0, len(offsets))
	for i, offset := range offsets {
		installments = append(installments, Installment{
			EMIID:    e.ID,
			Sequence: i + 1,
			DueDate:  start.AddDate(0, 0, offset),
			Amount:   e.InstallmentAmount,
			Status:   InstallmentPending,
		})
	}
	return installments
}

// ScheduleOffsets returns the day offset of each of n installments over a span of
// totalDays: round(i*totalDays/(n-1)) computed in integers, halves rounding up.
func ScheduleOffsets(totalDays, n int) []int {
	if n < 1 {
		return nil
	}
	if n == 1 {
		return []int{0}
	}
	intervals := n - 1
	offsets := make([]int, n)
	for i := 0; i < n; i++ {
		offsets[i] = (2*i*totalDays + intervals) / (2 * intervals)
	}
	return offsets
}

// daysBetween counts whole days between two UTC midnights. Unix seconds keep
// spans past the range of time.Duration exact.
func daysBetween(from, to time.Time) int {
	return int((to.Unix() - from.Unix()) / secondsPerDay)
}

// CanPay returns the error marking inst as paid would fail with, if any.
func (e *EMI) CanPay(inst *Installment) error {
	if e.Status == EMICompleted {
		return ConflictError("Cannot mark an installment of a completed EMI")
	}
	if inst.Status == InstallmentPaid {
		return ConflictError("Installment is already paid")
	}
	return nil
}

func (i *Installment) MarkPaid(today time.Time) {
	paid := DateOf(today)
	i.Status = InstallmentPaid
	i.PaidDate = &paid
}

// Request structs
type CreateEMIRequest struct {
	Title             string           `json:"title" binding:"required,max=100"`
	StartDate         string           `json:"start_date" binding:"required"` // YYYY-MM-DD
	EndDate           string           `json:"end_date" binding:"required"`   // YYYY-MM-DD
	TotalInstallments int              `json:"total_installments" binding:"required,min=1"`
	InstallmentAmount *decimal.Decimal `json:"installment_amount" binding:"required"`
}

// Response structs
type InstallmentResponse struct {
	ID       uuid.UUID         `json:"id"`
	EMIID    uuid.UUID         `json:"emi_id"`
	Sequence int               `json:"sequence"`
	DueDate  string            `json:"due_date"`
	Amount   Money             `json:"amount"`
	Status   InstallmentStatus `json:"status"`
	PaidDate *string           `json:"paid_date"`
}

func (i *Installment) ToResponse() InstallmentResponse {
	return InstallmentResponse{
		ID:       i.ID,
		EMIID:    i.EMIID,
		Sequence: i.Sequence,
		DueDate:  i.DueDate.Format(DateLayout),
		Amount:   NewMoney(i.Amount),
		Status:   i.Status,
		PaidDate: formatDate(i.PaidDate),
	}
}

type EMIResponse struct {
	ID                uuid.UUID             `json:"id"`
	Title             string                `json:"title"`
	StartDate         string                `json:"start_date"`
	EndDate           string                `json:"end_date"`
	TotalInstallments int                   `json:"total_installments"`
	InstallmentAmount Money                 `json:"installment_amount"`
	TotalAmount       Money                 `json:"total_amount"`
	Status            EMIStatus             `json:"status"`
	PaidCount         int                   `json:"paid_count"`
	Progress          float64               `json:"progress"`
	RemainingAmount   Money                 `json:"remaining_amount"`
	Installments      []InstallmentResponse `json:"installments"`
	CreatedAt         time.Time             `json:"created_at"`
}

// ToResponse expects Installments to be loaded.
func (e *EMI) ToResponse() EMIResponse {
	paid := 0
	installments := make([]InstallmentResponse, 0, len(e.Installments))
	for i := range e.Installments {
		if e.Installments[i].Status == InstallmentPaid {
			paid++
		}
		installments = append(installments, e.Installments[i].ToResponse())
	}

	return EMIResponse{
		ID:                e.ID,
		Title:             e.Title,
		StartDate:         e.StartDate.Format(DateLayout),
		EndDate:           e.EndDate.Format(DateLayout),
		TotalInstallments: e.TotalInstallments,
		InstallmentAmount: NewMoney(e.InstallmentAmount),
		TotalAmount:       NewMoney(e.TotalAmount()),
		Status:            e.Status,
		PaidCount:         paid,
		Progress:          Progress(paid, e.TotalInstallments),
		RemainingAmount:   NewMoney(e.InstallmentAmount.Mul(decimal.NewFromInt(int64(e.TotalInstallments - paid)))),
		Installments:      installments,
		CreatedAt:         e.CreatedAt,
	}
}

// Progress is the paid share of total as a percentage rounded to 2 decimals.
func Progress(paid, total int) float64 {
	if total <= 0 {
		return 0
	}
	return decimal.NewFromInt(int64(paid * 100)).Div(decimal.NewFromInt(int64(total))).Round(2).InexactFloat64()
}

type MarkPaidResponse struct {
	Installment InstallmentResponse `json:"installment"`
	EMI         EMIResponse         `json:"emi"`
}
