package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"

	"github.com/mowgliph/pacta-api/internal/domain"
	"github.com/mowgliph/pacta-api/internal/testutil"
)

func TestCheckPermission(t *testing.T) {
	permissions := NewPermissionService(zap.NewNop())

	assert.True(t, permissions.CheckPermission(testutil.ContextWithRole(domain.RoleAdmin), domain.RoleManager))
	assert.True(t, permissions.CheckPermission(testutil.ContextWithRole(domain.RoleEditor), domain.RoleEditor))
	assert.False(t, permissions.CheckPermission(testutil.ContextWithRole(domain.RoleViewer), domain.RoleEditor))

	// No authenticated user denies everything, viewer included.
	assert.False(t, permissions.CheckPermission(context.Background(), domain.RoleViewer))
}

func TestRequirePermission(t *testing.T) {
	permissions := NewPermissionService(zap.NewNop())

	assert.NoError(t, permissions.RequirePermission(testutil.ContextWithRole(domain.RoleManager), domain.RoleEditor))
	assert.ErrorIs(t, permissions.RequirePermission(testutil.ContextWithRole(domain.RoleViewer), domain.RoleManager), ErrPermissionDenied)
	assert.ErrorIs(t, permissions.RequirePermission(context.Background(), domain.RoleViewer), ErrUserContextRequired)
}
