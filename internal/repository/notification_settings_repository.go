package repository

import (
	"context"
	"errors"

	"github.com/mowgliph/pacta-api/internal/domain"
	"gorm.io/gorm"
)

// NotificationSettingsRepository persists the single notification settings row
type NotificationSettingsRepository struct {
	db   *gorm.DB
	seed domain.NotificationSettings
}

// NewNotificationSettingsRepository creates the repository. The seed is
// written as the settings row on first access when none exists yet.
func NewNotificationSettingsRepository(db *gorm.DB, seed domain.NotificationSettings) *NotificationSettingsRepository {
	seed.ID = 1
	return &NotificationSettingsRepository{db: db, seed: seed}
}

// Get returns the settings row, creating it from the seed on first access
func (r *NotificationSettingsRepository) Get(ctx context.Context) (*domain.NotificationSettings, error) {
	var settings domain.NotificationSettings
	err := r.db.WithContext(ctx).First(&settings, "id = ?", 1).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		defaults := r.seed
		if err := r.db.WithContext(ctx).Create(&defaults).Error; err != nil {
			return nil, err
		}
		return &defaults, nil
	}
	if err != nil {
		return nil, err
	}
	return &settings, nil
}

func (r *NotificationSettingsRepository) Update(ctx context.Context, settings *domain.NotificationSettings) error {
	settings.ID = 1
	return r.db.WithContext(ctx).Save(settings).Error
}
