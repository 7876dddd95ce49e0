package service

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mowgliph/pacta-api/internal/domain"
	"github.com/mowgliph/pacta-api/internal/testutil"
)

func TestAuditRecordSnapshotsUser(t *testing.T) {
	deps := newTestDeps(t)
	user := testutil.CreateTestUser(t, deps.db, "Recorded User", domain.RoleEditor, "a-strong-password")
	ctx := testutil.ContextForUser(user)
	contractID := uuid.New()

	require.NoError(t, deps.audit.Record(ctx, &contractID, domain.AuditActionUpdate, "Updated contract C-1"))

	logs, err := deps.auditRepo.ListByContract(context.Background(), contractID, 10)
	require.NoError(t, err)
	require.Len(t, logs, 1)
	assert.Equal(t, user.ID.String(), logs[0].UserID)
	assert.Equal(t, "Recorded User", logs[0].UserName)
	assert.Equal(t, domain.AuditActionUpdate, logs[0].Action)

	// The snapshot keeps the entry readable after the account is gone.
	require.NoError(t, deps.db.Delete(&domain.User{}, "id = ?", user.ID).Error)
	logs, err = deps.auditRepo.ListByContract(context.Background(), contractID, 10)
	require.NoError(t, err)
	require.Len(t, logs, 1)
	assert.Equal(t, "Recorded User", logs[0].UserName)
}

func TestAuditListRequiresManager(t *testing.T) {
	deps := newTestDeps(t)

	_, err := deps.audit.List(testutil.ContextWithRole(domain.RoleEditor), AuditLogQueryParams{Page: 1, PageSize: 20})
	assert.ErrorIs(t, err, ErrPermissionDenied)

	_, err = deps.audit.List(context.Background(), AuditLogQueryParams{Page: 1, PageSize: 20})
	assert.ErrorIs(t, err, ErrUserContextRequired)
}

func TestAuditListFilters(t *testing.T) {
	deps := newTestDeps(t)
	ctx := testutil.ContextWithRole(domain.RoleManager)
	contractID := uuid.New()

	require.NoError(t, deps.audit.Record(ctx, &contractID, domain.AuditActionCreate, "Created contract C-1"))
	require.NoError(t, deps.audit.Record(ctx, &contractID, domain.AuditActionDelete, "Deleted contract C-1"))
	require.NoError(t, deps.audit.Record(ctx, nil, domain.AuditActionExport, "Exported status_distribution as csv"))

	page, err := deps.audit.List(ctx, AuditLogQueryParams{Page: 1, PageSize: 20})
	require.NoError(t, err)
	assert.Equal(t, int64(3), page.Total)

	action := domain.AuditActionExport
	page, err = deps.audit.List(ctx, AuditLogQueryParams{Action: &action, Page: 1, PageSize: 20})
	require.NoError(t, err)
	assert.Equal(t, int64(1), page.Total)

	page, err = deps.audit.List(ctx, AuditLogQueryParams{ContractID: &contractID, Page: 1, PageSize: 20})
	require.NoError(t, err)
	assert.Equal(t, int64(2), page.Total)
}

func TestAuditGetStats(t *testing.T) {
	deps := newTestDeps(t)
	ctx := testutil.ContextWithRole(domain.RoleManager)
	contractID := uuid.New()

	require.NoError(t, deps.audit.Record(ctx, &contractID, domain.AuditActionCreate, "Created contract C-1"))
	require.NoError(t, deps.audit.Record(ctx, &contractID, domain.AuditActionUpdate, "Updated contract C-1"))
	require.NoError(t, deps.audit.Record(ctx, &contractID, domain.AuditActionUpdate, "Updated contract C-1 again"))

	stats, err := deps.audit.GetStats(ctx, time.Now().Add(-time.Hour), time.Now().Add(time.Hour))
	require.NoError(t, err)
	assert.Equal(t, int64(1), stats[domain.AuditActionCreate])
	assert.Equal(t, int64(2), stats[domain.AuditActionUpdate])
}

func TestAuditRecordRequiresUserContext(t *testing.T) {
	deps := newTestDeps(t)
	contractID := uuid.New()

	err := deps.audit.Record(context.Background(), &contractID, domain.AuditActionUpdate, "Updated contract C-1")
	assert.ErrorIs(t, err, ErrUserContextRequired)

	// Nothing may be written without an authenticated user.
	logs, err := deps.auditRepo.ListByContract(context.Background(), contractID, 10)
	require.NoError(t, err)
	assert.Empty(t, logs)
}
