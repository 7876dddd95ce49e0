package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/mowgliph/pacta-api/internal/domain"
	"gorm.io/gorm"
)

type NotificationRepository struct {
	db *gorm.DB
}

func NewNotificationRepository(db *gorm.DB) *NotificationRepository {
	return &NotificationRepository{db: db}
}

func (r *NotificationRepository) Create(ctx context.Context, notification *domain.Notification) error {
	return r.db.WithContext(ctx).Create(notification).Error
}

func (r *NotificationRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Notification, error) {
	var notification domain.Notification
	err := r.db.WithContext(ctx).First(&notification, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &notification, nil
}

func (r *NotificationRepository) List(ctx context.Context, page, pageSize int, status *domain.NotificationStatus) ([]domain.Notification, int64, error) {
	var notifications []domain.Notification
	var total int64

	query := r.db.WithContext(ctx).Model(&domain.Notification{})

	if status != nil {
		query = query.Where("status = ?", *status)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * pageSize
	err := query.Offset(offset).Limit(pageSize).Order("created_at DESC").Find(&notifications).Error

	return notifications, total, err
}

func (r *NotificationRepository) ListByContract(ctx context.Context, contractID uuid.UUID) ([]domain.Notification, error) {
	var notifications []domain.Notification
	err := r.db.WithContext(ctx).
		Where("contract_id = ?", contractID).
		Order("created_at DESC").
		Find(&notifications).Error
	return notifications, err
}

// ExistsForThreshold checks whether an alert of the given type already
// exists for a contract. The generator uses this for dedup, so repeated
// scans stay idempotent.
func (r *NotificationRepository) ExistsForThreshold(ctx context.Context, contractID uuid.UUID, notificationType string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&domain.Notification{}).
		Where("contract_id = ? AND type = ?", contractID, notificationType).
		Count(&count).Error
	return count > 0, err
}

func (r *NotificationRepository) UpdateStatus(ctx context.Context, id uuid.UUID, status domain.NotificationStatus, readAt *time.Time) error {
	updates := map[string]interface{}{"status": status}
	if readAt != nil {
		updates["read_at"] = *readAt
	}
	return r.db.WithContext(ctx).
		Model(&domain.Notification{}).
		Where("id = ?", id).
		Updates(updates).Error
}

func (r *NotificationRepository) CountUnread(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&domain.Notification{}).
		Where("status = ?", domain.NotificationStatusUnread).
		Count(&count).Error
	return count, err
}

func (r *NotificationRepository) DeleteByContract(ctx context.Context, contractID uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&domain.Notification{}, "contract_id = ?", contractID).Error
}
