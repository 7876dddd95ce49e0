package service

import (
	"testing"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/mowgliph/pacta-api/internal/repository"
	"github.com/mowgliph/pacta-api/internal/testutil"
)

type testDeps struct {
	db          *gorm.DB
	permissions *PermissionService
	audit       *AuditLogService
	auditRepo   *repository.AuditLogRepository
}

func newTestDeps(t *testing.T) *testDeps {
	t.Helper()

	db := testutil.SetupTestDB(t)
	permissions := NewPermissionService(zap.NewNop())
	auditRepo := repository.NewAuditLogRepository(db)
	return &testDeps{
		db:          db,
		permissions: permissions,
		audit:       NewAuditLogService(auditRepo, permissions, zap.NewNop()),
		auditRepo:   auditRepo,
	}
}
