package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/mowgliph/pacta-api/internal/domain"
	"github.com/mowgliph/pacta-api/internal/repository"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

var (
	// ErrNotificationNotFound is returned when a notification does not exist
	ErrNotificationNotFound = errors.New("notification not found")

	// ErrInvalidThreshold is returned when a settings update contains a non-positive threshold
	ErrInvalidThreshold = errors.New("notification thresholds must be positive")
)

// NotificationService manages expiration alerts and their settings.
type NotificationService struct {
	notificationRepo *repository.NotificationRepository
	settingsRepo     *repository.NotificationSettingsRepository
	contractRepo     *repository.ContractRepository
	permissions      *PermissionService
	logger           *zap.Logger
}

// NewNotificationService creates a new notification service
func NewNotificationService(
	notificationRepo *repository.NotificationRepository,
	settingsRepo *repository.NotificationSettingsRepository,
	contractRepo *repository.ContractRepository,
	permissions *PermissionService,
	logger *zap.Logger,
) *NotificationService {
	return &NotificationService{
		notificationRepo: notificationRepo,
		settingsRepo:     settingsRepo,
		contractRepo:     contractRepo,
		permissions:      permissions,
		logger:           logger,
	}
}

// expirationType names the alert emitted for one threshold. One type per
// contract and threshold keeps repeated scans idempotent.
func expirationType(threshold int) string {
	return fmt.Sprintf("expiration_%d", threshold)
}

// daysUntil counts whole days from now until the end date, rounding
// partial days up so a contract expiring later today reports 0.
func daysUntil(endDate, now time.Time) int {
	diff := endDate.Sub(now)
	days := int(diff / (24 * time.Hour))
	if diff%(24*time.Hour) > 0 {
		days++
	}
	return days
}

// GenerateExpirationAlerts scans the given contracts against the
// thresholds in settings and creates one unread alert per contract and
// crossed threshold. Already expired contracts and inactive settings
// produce nothing. Returns the number of alerts created.
func (s *NotificationService) GenerateExpirationAlerts(ctx context.Context, contracts []domain.Contract, settings domain.NotificationSettings) (int, error) {
	if !settings.Enabled {
		return 0, nil
	}

	now := time.Now()
	created := 0

	for i := range contracts {
		contract := &contracts[i]
		if contract.Status != domain.ContractStatusActive {
			continue
		}

		days := daysUntil(contract.EndDate, now)
		if days < 0 {
			continue
		}

		for _, t := range settings.Thresholds {
			threshold := int(t)
			if days > threshold {
				continue
			}

			alertType := expirationType(threshold)
			exists, err := s.notificationRepo.ExistsForThreshold(ctx, contract.ID, alertType)
			if err != nil {
				return created, fmt.Errorf("failed to check existing alert: %w", err)
			}
			if exists {
				continue
			}

			notification := &domain.Notification{
				ContractID:     contract.ID,
				ContractNumber: contract.ContractNumber,
				ContractTitle:  contract.Title,
				Type:           alertType,
				Threshold:      threshold,
				Message:        fmt.Sprintf("Contract %q (%s) will expire in %d days", contract.Title, contract.ContractNumber, days),
				Status:         domain.NotificationStatusUnread,
			}

			if err := s.notificationRepo.Create(ctx, notification); err != nil {
				return created, fmt.Errorf("failed to create expiration alert: %w", err)
			}
			created++
		}
	}

	if created > 0 {
		s.logger.Info("expiration alerts generated",
			zap.Int("count", created),
			zap.Int("contracts_scanned", len(contracts)))
	}
	return created, nil
}

// ScanActiveContracts loads active contracts and current settings and
// runs the expiration alert generator over them.
func (s *NotificationService) ScanActiveContracts(ctx context.Context) (int, error) {
	settings, err := s.settingsRepo.Get(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to load notification settings: %w", err)
	}
	if !settings.Enabled {
		return 0, nil
	}

	contracts, err := s.contractRepo.ListActive(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to load active contracts: %w", err)
	}

	return s.GenerateExpirationAlerts(ctx, contracts, *settings)
}

// List retrieves notifications newest first, optionally filtered by status.
func (s *NotificationService) List(ctx context.Context, page, pageSize int, status *domain.NotificationStatus) (*domain.PaginatedResponse, error) {
	if err := s.permissions.RequirePermission(ctx, domain.RoleViewer); err != nil {
		return nil, err
	}

	page, pageSize = clampPage(page, pageSize)
	notifications, total, err := s.notificationRepo.List(ctx, page, pageSize, status)
	if err != nil {
		return nil, fmt.Errorf("failed to list notifications: %w", err)
	}

	dtos := make([]domain.NotificationDTO, len(notifications))
	for i := range notifications {
		dtos[i] = domain.NewNotificationDTO(&notifications[i])
	}
	return paginated(dtos, total, page, pageSize), nil
}

// ListByContract returns all notifications of one contract.
func (s *NotificationService) ListByContract(ctx context.Context, contractID uuid.UUID) ([]domain.NotificationDTO, error) {
	if err := s.permissions.RequirePermission(ctx, domain.RoleViewer); err != nil {
		return nil, err
	}

	notifications, err := s.notificationRepo.ListByContract(ctx, contractID)
	if err != nil {
		return nil, fmt.Errorf("failed to list notifications: %w", err)
	}

	dtos := make([]domain.NotificationDTO, len(notifications))
	for i := range notifications {
		dtos[i] = domain.NewNotificationDTO(&notifications[i])
	}
	return dtos, nil
}

// CountUnread returns the number of unread notifications.
func (s *NotificationService) CountUnread(ctx context.Context) (int64, error) {
	if err := s.permissions.RequirePermission(ctx, domain.RoleViewer); err != nil {
		return 0, err
	}
	return s.notificationRepo.CountUnread(ctx)
}

// MarkAsRead moves an unread notification to read and stamps ReadAt.
// Calling it on a notification that is already read or acknowledged is
// a no-op; the status never moves backwards.
func (s *NotificationService) MarkAsRead(ctx context.Context, id uuid.UUID) (*domain.NotificationDTO, error) {
	if err := s.permissions.RequirePermission(ctx, domain.RoleViewer); err != nil {
		return nil, err
	}

	notification, err := s.getNotification(ctx, id)
	if err != nil {
		return nil, err
	}

	if notification.Status == domain.NotificationStatusUnread {
		now := time.Now()
		if err := s.notificationRepo.UpdateStatus(ctx, id, domain.NotificationStatusRead, &now); err != nil {
			return nil, fmt.Errorf("failed to mark notification as read: %w", err)
		}
		notification.Status = domain.NotificationStatusRead
		notification.ReadAt = &now
	}

	dto := domain.NewNotificationDTO(notification)
	return &dto, nil
}

// MarkAsAcknowledged moves a notification to acknowledged from either
// unread or read. Acknowledging straight from unread stamps ReadAt so
// an acknowledged notification always carries a read time.
func (s *NotificationService) MarkAsAcknowledged(ctx context.Context, id uuid.UUID) (*domain.NotificationDTO, error) {
	if err := s.permissions.RequirePermission(ctx, domain.RoleViewer); err != nil {
		return nil, err
	}

	notification, err := s.getNotification(ctx, id)
	if err != nil {
		return nil, err
	}

	if notification.Status != domain.NotificationStatusAcknowledged {
		readAt := notification.ReadAt
		if readAt == nil {
			now := time.Now()
			readAt = &now
		}
		if err := s.notificationRepo.UpdateStatus(ctx, id, domain.NotificationStatusAcknowledged, readAt); err != nil {
			return nil, fmt.Errorf("failed to acknowledge notification: %w", err)
		}
		notification.Status = domain.NotificationStatusAcknowledged
		notification.ReadAt = readAt
	}

	dto := domain.NewNotificationDTO(notification)
	return &dto, nil
}

// GetSettings returns the current notification settings.
func (s *NotificationService) GetSettings(ctx context.Context) (*domain.NotificationSettingsDTO, error) {
	if err := s.permissions.RequirePermission(ctx, domain.RoleAdmin); err != nil {
		return nil, err
	}

	settings, err := s.settingsRepo.Get(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load notification settings: %w", err)
	}

	dto := domain.NewNotificationSettingsDTO(settings)
	return &dto, nil
}

// UpdateSettings applies a partial settings update. Thresholds must all
// be positive; an empty threshold list disables alert generation in
// practice even when Enabled stays true.
func (s *NotificationService) UpdateSettings(ctx context.Context, req *domain.UpdateNotificationSettingsRequest) (*domain.NotificationSettingsDTO, error) {
	if err := s.permissions.RequirePermission(ctx, domain.RoleAdmin); err != nil {
		return nil, err
	}

	settings, err := s.settingsRepo.Get(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load notification settings: %w", err)
	}

	if req.Enabled != nil {
		settings.Enabled = *req.Enabled
	}
	if req.Thresholds != nil {
		thresholds := make(pq.Int64Array, 0, len(req.Thresholds))
		for _, t := range req.Thresholds {
			if t <= 0 {
				return nil, fmt.Errorf("%w: got %d", ErrInvalidThreshold, t)
			}
			thresholds = append(thresholds, int64(t))
		}
		settings.Thresholds = thresholds
	}
	if req.Recipients != nil {
		settings.Recipients = pq.StringArray(req.Recipients)
	}

	if err := s.settingsRepo.Update(ctx, settings); err != nil {
		return nil, fmt.Errorf("failed to update notification settings: %w", err)
	}

	s.logger.Info("notification settings updated",
		zap.Bool("enabled", settings.Enabled),
		zap.Int("thresholds", len(settings.Thresholds)))

	dto := domain.NewNotificationSettingsDTO(settings)
	return &dto, nil
}

func (s *NotificationService) getNotification(ctx context.Context, id uuid.UUID) (*domain.Notification, error) {
	notification, err := s.notificationRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotificationNotFound
		}
		return nil, fmt.Errorf("failed to get notification: %w", err)
	}
	return notification, nil
}
