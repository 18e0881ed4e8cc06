package services

import (
	"context"
	"errors"
	"fintrack-backend/models"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type EMIService struct {
	db  *gorm.DB
	now func() time.Time
}

func NewEMIService(db *gorm.DB) *EMIService {
	return &EMIService{db: db, now: time.Now}
}

// Create stores the plan and its complete installment schedule in one transaction.
func (s *EMIService) Create(ctx context.Context, userID uuid.UUID, req models.CreateEMIRequest) (*models.EMI, error) {
	start, err := models.ParseDate(req.StartDate)
	if err != nil {
		return nil, err
	}
	end, err := models.ParseDate(req.EndDate)
	if err != nil {
		return nil, err
	}
	if req.InstallmentAmount == nil {
		return nil, models.ValidationError("Installment amount is required")
	}

	emi := models.EMI{
		UserID:            userID,
		Title:             strings.TrimSpace(req.Title),
		StartDate:         start,
		EndDate:           end,
		TotalInstallments: req.TotalInstallments,
		InstallmentAmount: *req.InstallmentAmount,
		Status:            models.EMIActive,
	}
	if err := emi.Validate(); err != nil {
		return nil, err
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit(clause.Associations).Create(&emi).Error; err != nil {
			return err
		}
		emi.Installments = emi.GenerateInstallments()
		if err := tx.Create(&emi.Installments).Error; err != nil {
			return fmt.Errorf("generate installments: %w", err)
		}
		return recordActivity(tx, userID, models.ActivityEMICreated, emi.ID,
			fmt.Sprintf("Started \"%s\": %d installments of %s", emi.Title, emi.TotalInstallments, emi.InstallmentAmount.StringFixed(2)))
	})
	if err != nil {
		return nil, err
	}
	return &emi, nil
}

func preloadInstallments(db *gorm.DB) *gorm.DB {
	return db.Order("sequence ASC")
}

// List returns the caller's plans newest first, each with its schedule.
func (s *EMIService) List(ctx context.Context, userID uuid.UUID) ([]models.EMI, error) {
	emis := []models.EMI{}
	err := s.db.WithContext(ctx).
		Preload("Installments", preloadInstallments).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&emis).Error
	return emis, err
}

func (s *EMIService) Get(ctx context.Context, userID, emiID uuid.UUID) (*models.EMI, error) {
	var emi models.EMI
	err := s.db.WithContext(ctx).
		Preload("Installments", preloadInstallments).
		Where("id = ? AND user_id = ?", emiID, userID).
		First(&emi).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, models.NotFoundError("EMI not found")
	}
	if err != nil {
		return nil, err
	}
	return &emi, nil
}

// Delete removes a plan together with its installments.
func (s *EMIService) Delete(ctx context.Context, userID, emiID uuid.UUID) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var emi models.EMI
		if err := lockEMI(tx, userID, emiID, &emi); err != nil {
			return err
		}
		if err := tx.Where("emi_id = ?", emi.ID).Delete(&models.Installment{}).Error; err != nil {
			return err
		}
		if err := tx.Delete(&emi).Error; err != nil {
			return err
		}
		return recordActivity(tx, userID, models.ActivityEMIDeleted, emi.ID,
			fmt.Sprintf("Deleted \"%s\"", emi.Title))
	})
}

// ListInstallments returns the caller's installments across plans by due date.
func (s *EMIService) ListInstallments(ctx context.Context, userID uuid.UUID, status models.InstallmentStatus) ([]models.Installment, error) {
	q := s.db.WithContext(ctx).
		Where("emi_id IN (?)", s.db.Model(&models.EMI{}).Select("id").Where("user_id = ?", userID))
	if status != "" {
		q = q.Where("status = ?", status)
	}

	installments := []models.Installment{}
	err := q.Order("due_date ASC").Order("sequence ASC").Find(&installments).Error
	return installments, err
}

// MarkPaid flips one installment to PAID and completes the plan when none remain
// pending. The parent EMI row is locked first so payments on the same plan serialize.
func (s *EMIService) MarkPaid(ctx context.Context, userID, installmentID uuid.UUID) (*models.Installment, *models.EMI, error) {
	var inst models.Installment
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("id = ? AND emi_id IN (?)", installmentID,
			tx.Model(&models.EMI{}).Select("id").Where("user_id = ?", userID)).
			First(&inst).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return models.NotFoundError("Installment not found")
			}
			return err
		}

		var emi models.EMI
		if err := lockEMI(tx, userID, inst.EMIID, &emi); err != nil {
			return err
		}
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("id = ?", installmentID).
			First(&inst).Error; err != nil {
			return err
		}

		if err := emi.CanPay(&inst); err != nil {
			return err
		}
		inst.MarkPaid(s.now())
		if err := tx.Model(&inst).Select("status", "paid_date").Updates(&inst).Error; err != nil {
			return err
		}
		if err := recordActivityMeta(tx, userID, models.ActivityInstallmentPaid, inst.ID,
			fmt.Sprintf("Paid installment %d of %d for \"%s\"", inst.Sequence, emi.TotalInstallments, emi.Title),
			datatypes.JSONMap{
				"emi_id":   emi.ID.String(),
				"sequence": inst.Sequence,
				"amount":   inst.Amount.StringFixed(2),
			}); err != nil {
			return err
		}

		var remaining int64
		if err := tx.Model(&models.Installment{}).
			Where("emi_id = ? AND status = ?", emi.ID, models.InstallmentPending).
			Count(&remaining).Error; err != nil {
			return err
		}
		if remaining > 0 {
			return nil
		}

		if err := tx.Model(&emi).Update("status", models.EMICompleted).Error; err != nil {
			return err
		}
		return recordActivity(tx, userID, models.ActivityEMICompleted, emi.ID,
			fmt.Sprintf("Completed \"%s\"", emi.Title))
	})
	if err != nil {
		return nil, nil, err
	}

	emi, err := s.Get(ctx, userID, inst.EMIID)
	if err != nil {
		return nil, nil, err
	}
	return &inst, emi, nil
}

func lockEMI(tx *gorm.DB, userID, emiID uuid.UUID, emi *models.EMI) error {
	err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("id = ? AND user_id = ?", emiID, userID).
		First(emi).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return models.NotFoundError("EMI not found")
	}
	return err
}
