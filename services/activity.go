package services

import (
	"context"
	"fintrack-backend/models"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// recordActivity appends a feed entry on tx so it commits with the change it describes.
func recordActivity(tx *gorm.DB, userID uuid.UUID, kind string, referenceID uuid.UUID, description string) error {
	return recordActivityMeta(tx, userID, kind, referenceID, description, nil)
}

func recordActivityMeta(tx *gorm.DB, userID uuid.UUID, kind string, referenceID uuid.UUID, description string, meta datatypes.JSONMap) error {
	return tx.Create(&models.Activity{
		UserID:      userID,
		Type:        kind,
		ReferenceID: referenceID,
		Description: description,
		Metadata:    meta,
	}).Error
}

type ActivityService struct {
	db *gorm.DB
}

func NewActivityService(db *gorm.DB) *ActivityService {
	return &ActivityService{db: db}
}

// List returns the caller's feed newest first.
func (s *ActivityService) List(ctx context.Context, userID uuid.UUID, offset, limit int) ([]models.Activity, error) {
	activities := []models.Activity{}
	err := s.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Offset(offset).
		Limit(limit).
		Find(&activities).Error
	return activities, err
}
