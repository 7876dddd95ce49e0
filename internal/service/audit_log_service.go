package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/mowgliph/pacta-api/internal/auth"
	"github.com/mowgliph/pacta-api/internal/domain"
	"github.com/mowgliph/pacta-api/internal/repository"
	"go.uber.org/zap"
)

// AuditLogService records and queries the append-only audit trail.
// Entries are never updated or deleted once written.
type AuditLogService struct {
	auditRepo   *repository.AuditLogRepository
	permissions *PermissionService
	logger      *zap.Logger
}

// NewAuditLogService creates a new audit log service
func NewAuditLogService(auditRepo *repository.AuditLogRepository, permissions *PermissionService, logger *zap.Logger) *AuditLogService {
	return &AuditLogService{
		auditRepo:   auditRepo,
		permissions: permissions,
		logger:      logger,
	}
}

// Record writes an audit entry for an action on a contract. The acting
// user's ID and display name are snapshotted from the request context so
// entries stay readable after the user account is deleted. Without an
// authenticated user it writes nothing and returns ErrUserContextRequired;
// anonymous audit rows never exist.
func (s *AuditLogService) Record(ctx context.Context, contractID *uuid.UUID, action domain.AuditAction, details string) error {
	userCtx, ok := auth.FromContext(ctx)
	if !ok || userCtx == nil {
		return ErrUserContextRequired
	}

	entry := &domain.AuditLog{
		ContractID: contractID,
		UserID:     userCtx.UserID.String(),
		UserName:   userCtx.DisplayName,
		Action:     action,
		Details:    details,
		CreatedAt:  time.Now(),
	}

	if err := s.auditRepo.Create(ctx, entry); err != nil {
		s.logger.Error("failed to write audit log entry",
			zap.String("action", string(action)),
			zap.Error(err))
		return fmt.Errorf("failed to write audit log entry: %w", err)
	}
	return nil
}

// RecordLogin writes a login audit entry for the given user.
func (s *AuditLogService) RecordLogin(ctx context.Context, user *domain.User) {
	entry := &domain.AuditLog{
		UserID:    user.ID.String(),
		UserName:  user.Name,
		Action:    domain.AuditActionLogin,
		Details:   fmt.Sprintf("User %s logged in", user.Email),
		CreatedAt: time.Now(),
	}
	if err := s.auditRepo.Create(ctx, entry); err != nil {
		s.logger.Error("failed to write login audit entry",
			zap.String("user_id", user.ID.String()),
			zap.Error(err))
	}
}

// AuditLogQueryParams represents query parameters for listing audit logs
type AuditLogQueryParams struct {
	ContractID *uuid.UUID
	UserID     string
	Action     *domain.AuditAction
	StartTime  *time.Time
	EndTime    *time.Time
	Page       int
	PageSize   int
}

// List retrieves audit logs with filters, newest first.
func (s *AuditLogService) List(ctx context.Context, params AuditLogQueryParams) (*domain.PaginatedResponse, error) {
	if err := s.permissions.RequirePermission(ctx, domain.RoleManager); err != nil {
		return nil, err
	}

	page, pageSize := clampPage(params.Page, params.PageSize)
	filter := &repository.AuditLogFilter{
		ContractID: params.ContractID,
		UserID:     params.UserID,
		Action:     params.Action,
		StartTime:  params.StartTime,
		EndTime:    params.EndTime,
	}

	logs, total, err := s.auditRepo.List(ctx, filter, page, pageSize)
	if err != nil {
		return nil, fmt.Errorf("failed to list audit logs: %w", err)
	}

	dtos := make([]domain.AuditLogDTO, len(logs))
	for i := range logs {
		dtos[i] = domain.NewAuditLogDTO(&logs[i])
	}
	return paginated(dtos, total, page, pageSize), nil
}

// ListForContract returns the newest audit entries for one contract.
func (s *AuditLogService) ListForContract(ctx context.Context, contractID uuid.UUID, limit int) ([]domain.AuditLogDTO, error) {
	if err := s.permissions.RequirePermission(ctx, domain.RoleViewer); err != nil {
		return nil, err
	}

	if limit <= 0 || limit > 200 {
		limit = 50
	}
	logs, err := s.auditRepo.ListByContract(ctx, contractID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list audit logs for contract: %w", err)
	}

	dtos := make([]domain.AuditLogDTO, len(logs))
	for i := range logs {
		dtos[i] = domain.NewAuditLogDTO(&logs[i])
	}
	return dtos, nil
}

// GetStats returns per-action entry counts for a time range.
func (s *AuditLogService) GetStats(ctx context.Context, start, end time.Time) (map[domain.AuditAction]int64, error) {
	if err := s.permissions.RequirePermission(ctx, domain.RoleManager); err != nil {
		return nil, err
	}
	return s.auditRepo.CountByAction(ctx, start, end)
}
