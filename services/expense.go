package services

import (
	"context"
	"errors"
	"fintrack-backend/database"
	"fintrack-backend/models"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type ExpenseService struct {
	db *gorm.DB
}

func NewExpenseService(db *gorm.DB) *ExpenseService {
	return &ExpenseService{db: db}
}

func (s *ExpenseService) CreateCategory(ctx context.Context, userID uuid.UUID, name string) (*models.Category, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, models.ValidationError("Name is required")
	}

	var count int64
	if err := s.db.WithContext(ctx).Model(&models.Category{}).
		Where("user_id = ? AND name = ?", userID, name).
		Count(&count).Error; err != nil {
		return nil, err
	}
	if count > 0 {
		return nil, models.ConflictError("Category \"%s\" already exists", name)
	}

	category := models.Category{UserID: userID, Name: name}
	if err := s.db.WithContext(ctx).Create(&category).Error; err != nil {
		if database.IsUniqueViolation(err) {
			return nil, models.ConflictError("Category \"%s\" already exists", name)
		}
		return nil, err
	}
	return &category, nil
}

func (s *ExpenseService) ListCategories(ctx context.Context, userID uuid.UUID) ([]models.Category, error) {
	categories := []models.Category{}
	err := s.db.WithContext(ctx).Where("user_id = ?", userID).Order("name ASC").Find(&categories).Error
	return categories, err
}

// DeleteCategory removes the category, its items and every expense line for those items.
func (s *ExpenseService) DeleteCategory(ctx context.Context, userID, categoryID uuid.UUID) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var category models.Category
		if err := tx.Where("id = ? AND user_id = ?", categoryID, userID).First(&category).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return models.NotFoundError("Category not found")
			}
			return err
		}

		itemIDs := tx.Model(&models.Item{}).Select("id").Where("category_id = ?", category.ID)
		if err := tx.Where("item_id IN (?)", itemIDs).Delete(&models.ExpenseItem{}).Error; err != nil {
			return err
		}
		if err := tx.Where("category_id = ?", category.ID).Delete(&models.Item{}).Error; err != nil {
			return err
		}
		return tx.Delete(&category).Error
	})
}

func (s *ExpenseService) CreateItem(ctx context.Context, userID uuid.UUID, name string, categoryID uuid.UUID) (*models.Item, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, models.ValidationError("Name is required")
	}

	var category models.Category
	if err := s.db.WithContext(ctx).Where("id = ? AND user_id = ?", categoryID, userID).First(&category).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.ValidationError("Invalid category")
		}
		return nil, err
	}

	var count int64
	if err := s.db.WithContext(ctx).Model(&models.Item{}).
		Where("user_id = ? AND name = ?", userID, name).
		Count(&count).Error; err != nil {
		return nil, err
	}
	if count > 0 {
		return nil, models.ConflictError("Item \"%s\" already exists", name)
	}

	item := models.Item{UserID: userID, CategoryID: category.ID, Name: name}
	if err := s.db.WithContext(ctx).Omit("Category").Create(&item).Error; err != nil {
		if database.IsUniqueViolation(err) {
			return nil, models.ConflictError("Item \"%s\" already exists", name)
		}
		return nil, err
	}
	item.Category = category
	return &item, nil
}

func (s *ExpenseService) ListItems(ctx context.Context, userID uuid.UUID) ([]models.Item, error) {
	items := []models.Item{}
	err := s.db.WithContext(ctx).Preload("Category").Where("user_id = ?", userID).Order("name ASC").Find(&items).Error
	return items, err
}

// DeleteItem removes the item and every expense line recorded against it.
func (s *ExpenseService) DeleteItem(ctx context.Context, userID, itemID uuid.UUID) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var item models.Item
		if err := tx.Where("id = ? AND user_id = ?", itemID, userID).First(&item).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return models.NotFoundError("Item not found")
			}
			return err
		}
		if err := tx.Where("item_id = ?", item.ID).Delete(&models.ExpenseItem{}).Error; err != nil {
			return err
		}
		return tx.Delete(&item).Error
	})
}

func preloadDay(db *gorm.DB) *gorm.DB {
	return db.
		Preload("Expenses", func(db *gorm.DB) *gorm.DB { return db.Order("created_at ASC") }).
		Preload("Expenses.Item").
		Preload("Expenses.Item.Category")
}

// ListDays returns the caller's days newest first.
func (s *ExpenseService) ListDays(ctx context.Context, userID uuid.UUID) ([]models.DailyExpense, error) {
	days := []models.DailyExpense{}
	err := preloadDay(s.db.WithContext(ctx)).Where("user_id = ?", userID).Order("date DESC").Find(&days).Error
	return days, err
}

func (s *ExpenseService) GetDay(ctx context.Context, userID uuid.UUID, date time.Time) (*models.DailyExpense, error) {
	var day models.DailyExpense
	err := preloadDay(s.db.WithContext(ctx)).
		Where("user_id = ? AND date = ?", userID, models.DateOf(date)).
		First(&day).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, models.NotFoundError("No expenses recorded for %s", date.Format(models.DateLayout))
	}
	if err != nil {
		return nil, err
	}
	return &day, nil
}

// GetOrCreateDay returns the caller's day, creating it if needed. The second
// return value is true when the day was created.
func (s *ExpenseService) GetOrCreateDay(ctx context.Context, userID uuid.UUID, date time.Time) (*models.DailyExpense, bool, error) {
	day, err := s.GetDay(ctx, userID, date)
	if err == nil {
		return day, false, nil
	}
	if !models.IsKind(err, models.KindNotFound) {
		return nil, false, err
	}

	created := models.DailyExpense{UserID: userID, Date: models.DateOf(date)}
	if err := s.db.WithContext(ctx).Omit("Expenses").Create(&created).Error; err != nil {
		if database.IsUniqueViolation(err) {
			day, err := s.GetDay(ctx, userID, date)
			return day, false, err
		}
		return nil, false, err
	}
	created.Expenses = []models.ExpenseItem{}
	return &created, true, nil
}

// AddItem appends an expense line to an existing day.
func (s *ExpenseService) AddItem(ctx context.Context, userID uuid.UUID, date time.Time, itemID uuid.UUID, amount decimal.Decimal) (*models.DailyExpense, error) {
	if err := models.ValidateAmount("Amount", amount); err != nil {
		return nil, err
	}

	day, err := s.GetDay(ctx, userID, date)
	if err != nil {
		return nil, err
	}

	var item models.Item
	if err := s.db.WithContext(ctx).Where("id = ? AND user_id = ?", itemID, userID).First(&item).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.ValidationError("Invalid item")
		}
		return nil, err
	}

	line := models.ExpenseItem{DailyExpenseID: day.ID, ItemID: item.ID, Amount: amount}
	if err := s.db.WithContext(ctx).Omit("Item").Create(&line).Error; err != nil {
		return nil, err
	}
	return s.GetDay(ctx, userID, date)
}
