package service

import (
	"context"

	"github.com/mowgliph/pacta-api/internal/auth"
	"github.com/mowgliph/pacta-api/internal/domain"
	"go.uber.org/zap"
)

// PermissionService evaluates role-based access decisions. Roles form a
// strict hierarchy (viewer < editor < manager < admin) and a higher role
// always covers a lower requirement.
type PermissionService struct {
	logger *zap.Logger
}

// NewPermissionService creates a new permission service
func NewPermissionService(logger *zap.Logger) *PermissionService {
	return &PermissionService{logger: logger}
}

// CheckPermission reports whether the authenticated user in ctx satisfies
// the required role. Requests without a user context are denied.
func (s *PermissionService) CheckPermission(ctx context.Context, required domain.UserRole) bool {
	userCtx, ok := auth.FromContext(ctx)
	if !ok {
		return false
	}
	return userCtx.HasPermission(required)
}

// RequirePermission returns ErrUserContextRequired when no user is
// authenticated and ErrPermissionDenied when the role is insufficient.
func (s *PermissionService) RequirePermission(ctx context.Context, required domain.UserRole) error {
	userCtx, ok := auth.FromContext(ctx)
	if !ok {
		return ErrUserContextRequired
	}
	if !userCtx.HasPermission(required) {
		s.logger.Debug("permission denied",
			zap.String("user_id", userCtx.UserID.String()),
			zap.String("role", string(userCtx.Role)),
			zap.String("required", string(required)),
		)
		return ErrPermissionDenied
	}
	return nil
}
