package service

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/mowgliph/pacta-api/internal/domain"
	"github.com/mowgliph/pacta-api/internal/repository"
	"github.com/mowgliph/pacta-api/internal/testutil"
)

type contractEnv struct {
	*testDeps
	svc      *ContractService
	client   *domain.Client
	supplier *domain.Supplier
}

func newContractEnv(t *testing.T) *contractEnv {
	deps := newTestDeps(t)
	svc := NewContractService(
		repository.NewContractRepository(deps.db),
		repository.NewClientRepository(deps.db),
		repository.NewSupplierRepository(deps.db),
		deps.permissions,
		deps.audit,
		zap.NewNop(),
	)
	return &contractEnv{
		testDeps: deps,
		svc:      svc,
		client:   testutil.CreateTestClient(t, deps.db, "Acme Industrial"),
		supplier: testutil.CreateTestSupplier(t, deps.db, "Global Parts"),
	}
}

func (e *contractEnv) createRequest() *domain.CreateContractRequest {
	start := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	return &domain.CreateContractRequest{
		ContractNumber: uuid.NewString(),
		Title:          "Maintenance agreement",
		ClientID:       e.client.ID,
		SupplierID:     e.supplier.ID,
		StartDate:      start,
		EndDate:        start.AddDate(1, 0, 0),
		Amount:         25000,
		Type:           domain.ContractTypeService,
		Status:         domain.ContractStatusActive,
	}
}

func TestContractCreate(t *testing.T) {
	env := newContractEnv(t)
	ctx := testutil.ContextWithRole(domain.RoleEditor)
	req := env.createRequest()

	dto, err := env.svc.Create(ctx, req, "editor-1")
	require.NoError(t, err)
	assert.Equal(t, req.ContractNumber, dto.ContractNumber)
	assert.Equal(t, req.Title, dto.Title)
	assert.Equal(t, domain.ContractStatusActive, dto.Status)

	logs, err := env.auditRepo.ListByContract(context.Background(), dto.ID, 10)
	require.NoError(t, err)
	require.Len(t, logs, 1)
	assert.Equal(t, domain.AuditActionCreate, logs[0].Action)
}

func TestContractCreateDefaultsToPending(t *testing.T) {
	env := newContractEnv(t)
	ctx := testutil.ContextWithRole(domain.RoleEditor)
	req := env.createRequest()
	req.Status = ""

	dto, err := env.svc.Create(ctx, req, "editor-1")
	require.NoError(t, err)
	assert.Equal(t, domain.ContractStatusPending, dto.Status)
}

func TestContractCreateValidation(t *testing.T) {
	env := newContractEnv(t)
	ctx := testutil.ContextWithRole(domain.RoleEditor)

	t.Run("end before start", func(t *testing.T) {
		req := env.createRequest()
		req.EndDate = req.StartDate.AddDate(0, 0, -1)
		_, err := env.svc.Create(ctx, req, "editor-1")
		assert.ErrorIs(t, err, ErrInvalidDateRange)
	})

	t.Run("invalid type", func(t *testing.T) {
		req := env.createRequest()
		req.Type = domain.ContractType("barter")
		_, err := env.svc.Create(ctx, req, "editor-1")
		assert.ErrorIs(t, err, ErrInvalidInput)
	})

	t.Run("duplicate number", func(t *testing.T) {
		req := env.createRequest()
		_, err := env.svc.Create(ctx, req, "editor-1")
		require.NoError(t, err)

		dup := env.createRequest()
		dup.ContractNumber = req.ContractNumber
		_, err = env.svc.Create(ctx, dup, "editor-1")
		assert.ErrorIs(t, err, ErrContractNumberTaken)
	})

	t.Run("unknown client", func(t *testing.T) {
		req := env.createRequest()
		req.ClientID = uuid.New()
		_, err := env.svc.Create(ctx, req, "editor-1")
		assert.ErrorIs(t, err, ErrContractPartyNotFound)
	})

	t.Run("unknown supplier", func(t *testing.T) {
		req := env.createRequest()
		req.SupplierID = uuid.New()
		_, err := env.svc.Create(ctx, req, "editor-1")
		assert.ErrorIs(t, err, ErrContractPartyNotFound)
	})
}

func TestContractCreatePermissions(t *testing.T) {
	env := newContractEnv(t)

	_, err := env.svc.Create(testutil.ContextWithRole(domain.RoleViewer), env.createRequest(), "viewer-1")
	assert.ErrorIs(t, err, ErrPermissionDenied)

	_, err = env.svc.Create(context.Background(), env.createRequest(), "nobody")
	assert.ErrorIs(t, err, ErrUserContextRequired)
}

func TestContractUpdate(t *testing.T) {
	env := newContractEnv(t)
	ctx := testutil.ContextWithRole(domain.RoleEditor)

	created, err := env.svc.Create(ctx, env.createRequest(), "editor-1")
	require.NoError(t, err)

	update := &domain.UpdateContractRequest{
		Title:     "Renegotiated agreement",
		StartDate: time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC),
		EndDate:   time.Date(2027, 6, 30, 0, 0, 0, 0, time.UTC),
		Amount:    40000,
		Type:      domain.ContractTypeService,
		Status:    domain.ContractStatusExpired,
	}
	dto, err := env.svc.Update(ctx, created.ID, update)
	require.NoError(t, err)
	assert.Equal(t, "Renegotiated agreement", dto.Title)
	assert.Equal(t, domain.ContractStatusExpired, dto.Status, "status follows the request, never the dates")
	assert.Equal(t, created.ContractNumber, dto.ContractNumber, "the contract number is immutable")

	t.Run("unknown contract", func(t *testing.T) {
		_, err := env.svc.Update(ctx, uuid.New(), update)
		assert.ErrorIs(t, err, ErrContractNotFound)
	})
}

func TestContractDeleteCascade(t *testing.T) {
	env := newContractEnv(t)
	editorCtx := testutil.ContextWithRole(domain.RoleEditor)
	managerCtx := testutil.ContextWithRole(domain.RoleManager)
	ctx := context.Background()

	created, err := env.svc.Create(editorCtx, env.createRequest(), "editor-1")
	require.NoError(t, err)

	contract := &domain.Contract{BaseModel: domain.BaseModel{ID: created.ID}}
	testutil.CreateTestSupplement(t, env.db, contract)
	notifRepo := repository.NewNotificationRepository(env.db)
	require.NoError(t, notifRepo.Create(ctx, &domain.Notification{
		ContractID:     created.ID,
		ContractNumber: created.ContractNumber,
		ContractTitle:  created.Title,
		Type:           expirationType(30),
		Threshold:      30,
		Message:        "fixture alert",
		Status:         domain.NotificationStatusUnread,
	}))

	require.NoError(t, env.svc.Delete(managerCtx, created.ID))

	_, err = env.svc.GetByID(managerCtx, created.ID)
	assert.ErrorIs(t, err, ErrContractNotFound)

	var supplementCount int64
	require.NoError(t, env.db.Model(&domain.Supplement{}).Where("contract_id = ?", created.ID).Count(&supplementCount).Error)
	assert.Equal(t, int64(0), supplementCount)

	remaining, err := notifRepo.ListByContract(ctx, created.ID)
	require.NoError(t, err)
	assert.Empty(t, remaining)

	// Audit entries survive the cascade as the historical record.
	logs, err := env.auditRepo.ListByContract(ctx, created.ID, 10)
	require.NoError(t, err)
	require.Len(t, logs, 2)
	actions := []domain.AuditAction{logs[0].Action, logs[1].Action}
	assert.Contains(t, actions, domain.AuditActionCreate)
	assert.Contains(t, actions, domain.AuditActionDelete)
}

func TestContractDeleteRequiresManager(t *testing.T) {
	env := newContractEnv(t)
	editorCtx := testutil.ContextWithRole(domain.RoleEditor)

	created, err := env.svc.Create(editorCtx, env.createRequest(), "editor-1")
	require.NoError(t, err)

	err = env.svc.Delete(editorCtx, created.ID)
	assert.ErrorIs(t, err, ErrPermissionDenied)
}

func TestContractList(t *testing.T) {
	env := newContractEnv(t)
	ctx := testutil.ContextWithRole(domain.RoleEditor)

	active := env.createRequest()
	_, err := env.svc.Create(ctx, active, "editor-1")
	require.NoError(t, err)

	pending := env.createRequest()
	pending.Status = domain.ContractStatusPending
	_, err = env.svc.Create(ctx, pending, "editor-1")
	require.NoError(t, err)

	page, err := env.svc.List(ctx, repository.ContractFilters{}, 1, 20, "", "")
	require.NoError(t, err)
	assert.Equal(t, int64(2), page.Total)

	status := domain.ContractStatusActive
	page, err = env.svc.List(ctx, repository.ContractFilters{Status: &status}, 1, 20, "", "")
	require.NoError(t, err)
	assert.Equal(t, int64(1), page.Total)
}
