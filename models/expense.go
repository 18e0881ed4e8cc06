package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type Category struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	UserID    uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_categories_user_name,priority:1" json:"user_id"`
	Name      string    `gorm:"not null;size:100;uniqueIndex:idx_categories_user_name,priority:2" json:"name"`
	CreatedAt time.Time `json:"created_at"`
}

func (c *Category) BeforeCreate(tx *gorm.DB) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	return nil
}

type Item struct {
	ID         uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	UserID     uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_items_user_name,priority:1" json:"user_id"`
	CategoryID uuid.UUID `gorm:"type:uuid;not null;index" json:"category_id"`
	Category   Category  `gorm:"foreignKey:CategoryID" json:"-"`
	Name       string    `gorm:"not null;size:100;uniqueIndex:idx_items_user_name,priority:2" json:"name"`
	CreatedAt  time.Time `json:"created_at"`
}

func (i *Item) BeforeCreate(tx *gorm.DB) error {
	if i.ID == uuid.Nil {
		i.ID = uuid.New()
	}
	return nil
}

// DailyExpense groups everything spent by one user on one calendar day.
type DailyExpense struct {
	ID        uuid.UUID     `gorm:"type:uuid;primaryKey" json:"id"`
	UserID    uuid.UUID     `gorm:"type:uuid;not null;uniqueIndex:idx_daily_expenses_user_date,priority:1" json:"user_id"`
	Date      time.Time     `gorm:"type:date;not null;uniqueIndex:idx_daily_expenses_user_date,priority:2" json:"date"`
	Expenses  []ExpenseItem `gorm:"foreignKey:DailyExpenseID" json:"expenses,omitempty"`
	CreatedAt time.Time     `json:"created_at"`
}

func (d *DailyExpense) BeforeCreate(tx *gorm.DB) error {
	if d.ID == uuid.Nil {
		d.ID = uuid.New()
	}
	return nil
}

type ExpenseItem struct {
	ID             uuid.UUID       `gorm:"type:uuid;primaryKey" json:"id"`
	DailyExpenseID uuid.UUID       `gorm:"type:uuid;not null;index" json:"daily_expense_id"`
	ItemID         uuid.UUID       `gorm:"type:uuid;not null;index" json:"item_id"`
	Item           Item            `gorm:"foreignKey:ItemID" json:"-"`
	Amount         decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"amount"`
	CreatedAt      time.Time       `json:"created_at"`
}

func (e *ExpenseItem) BeforeCreate(tx *gorm.DB) error {
	if e.ID == uuid.Nil {
		e.ID = uuid.New()
	}
	return nil
}

// Request structs
type CreateCategoryRequest struct {
	Name string `json:"name" binding:"required,max=100"`
}

type CreateItemRequest struct {
	Name       string `json:"name" binding:"required,max=100"`
	CategoryID string `json:"category" binding:"required"`
}

type CreateDailyExpenseRequest struct {
	Date string `json:"date" binding:"required"` // YYYY-MM-DD
}

type AddExpenseItemRequest struct {
	ItemID string           `json:"item" binding:"required"`
	Amount *decimal.Decimal `json:"amount" binding:"required"`
}

// Response structs
type CategoryResponse struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
}

func (c *Category) ToResponse() CategoryResponse {
	return CategoryResponse{ID: c.ID, Name: c.Name, CreatedAt: c.CreatedAt}
}

type ItemResponse struct {
	ID           uuid.UUID `json:"id"`
	Name         string    `json:"name"`
	Category     uuid.UUID `json:"category"`
	CategoryName string    `json:"category_name"`
}

// ToResponse expects Category to be loaded.
func (i *Item) ToResponse() ItemResponse {
	return ItemResponse{
		ID:           i.ID,
		Name:         i.Name,
		Category:     i.CategoryID,
		CategoryName: i.Category.Name,
	}
}

type ExpenseItemResponse struct {
	ID           uuid.UUID `json:"id"`
	Item         uuid.UUID `json:"item"`
	ItemName     string    `json:"item_name"`
	CategoryName string    `json:"category_name"`
	Amount       Money     `json:"amount"`
}

type DailyExpenseResponse struct {
	ID        uuid.UUID             `json:"id"`
	Date      string                `json:"date"`
	Expenses  []ExpenseItemResponse `json:"expenses"`
	Total     Money                 `json:"total"`
	CreatedAt time.Time             `json:"created_at"`
}

// ToResponse expects Expenses, their Item and the Item's Category to be loaded.
func (d *DailyExpense) ToResponse() DailyExpenseResponse {
	total := decimal.Zero
	expenses := make([]ExpenseItemResponse, 0, len(d.Expenses))
	for _, e := range d.Expenses {
		total = total.Add(e.Amount)
		expenses = append(expenses, ExpenseItemResponse{
			ID:           e.ID,
			Item:         e.ItemID,
			ItemName:     e.Item.Name,
			CategoryName: e.Item.Category.Name,
			Amount:       NewMoney(e.Amount),
		})
	}
	return DailyExpenseResponse{
		ID:        d.ID,
		Date:      d.Date.Format(DateLayout),
		Expenses:  expenses,
		Total:     NewMoney(total),
		CreatedAt: d.CreatedAt,
	}
}
