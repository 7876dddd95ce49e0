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

type supplementEnv struct {
	*testDeps
	svc      *SupplementService
	contract *domain.Contract
}

func newSupplementEnv(t *testing.T) *supplementEnv {
	deps := newTestDeps(t)
	svc := NewSupplementService(
		repository.NewSupplementRepository(deps.db),
		repository.NewContractRepository(deps.db),
		deps.permissions,
		deps.audit,
		zap.NewNop(),
	)
	client := testutil.CreateTestClient(t, deps.db, "Supplement Client")
	supplier := testutil.CreateTestSupplier(t, deps.db, "Supplement Supplier")
	contract := testutil.CreateTestContract(t, deps.db, client, supplier, time.Now().AddDate(1, 0, 0))
	return &supplementEnv{testDeps: deps, svc: svc, contract: contract}
}

func supplementRequest(number string) *domain.CreateSupplementRequest {
	return &domain.CreateSupplementRequest{
		SupplementNumber: number,
		Description:      "Scope extension",
		EffectiveDate:    time.Date(2026, 4, 1, 0, 0, 0, 0, time.UTC),
		Modifications:    "Adds a second delivery site",
	}
}

func TestSupplementCreate(t *testing.T) {
	env := newSupplementEnv(t)
	ctx := testutil.ContextWithRole(domain.RoleEditor)

	dto, err := env.svc.Create(ctx, env.contract.ID, supplementRequest("SUP-001"), "editor-1")
	require.NoError(t, err)
	assert.Equal(t, "SUP-001", dto.SupplementNumber)
	assert.Equal(t, env.contract.ID, dto.ContractID)
	assert.Equal(t, domain.SupplementStatusDraft, dto.Status, "new supplements start as drafts")

	t.Run("unknown contract", func(t *testing.T) {
		_, err := env.svc.Create(ctx, uuid.New(), supplementRequest("SUP-002"), "editor-1")
		assert.ErrorIs(t, err, ErrContractNotFound)
	})

	t.Run("duplicate number on the same contract", func(t *testing.T) {
		_, err := env.svc.Create(ctx, env.contract.ID, supplementRequest("SUP-001"), "editor-1")
		assert.ErrorIs(t, err, ErrSupplementNumberTaken)
	})

	t.Run("viewer cannot create", func(t *testing.T) {
		_, err := env.svc.Create(testutil.ContextWithRole(domain.RoleViewer), env.contract.ID, supplementRequest("SUP-003"), "viewer-1")
		assert.ErrorIs(t, err, ErrPermissionDenied)
	})
}

func TestSupplementNumberScopedPerContract(t *testing.T) {
	env := newSupplementEnv(t)
	ctx := testutil.ContextWithRole(domain.RoleEditor)

	client := testutil.CreateTestClient(t, env.db, "Other Client")
	supplier := testutil.CreateTestSupplier(t, env.db, "Other Supplier")
	other := testutil.CreateTestContract(t, env.db, client, supplier, time.Now().AddDate(1, 0, 0))

	_, err := env.svc.Create(ctx, env.contract.ID, supplementRequest("SUP-001"), "editor-1")
	require.NoError(t, err)

	// The same number is fine on a different contract.
	_, err = env.svc.Create(ctx, other.ID, supplementRequest("SUP-001"), "editor-1")
	assert.NoError(t, err)
}

func TestSupplementGetUpdateDelete(t *testing.T) {
	env := newSupplementEnv(t)
	ctx := testutil.ContextWithRole(domain.RoleEditor)

	created, err := env.svc.Create(ctx, env.contract.ID, supplementRequest("SUP-010"), "editor-1")
	require.NoError(t, err)

	got, err := env.svc.GetByID(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, created.ID, got.ID)

	_, err = env.svc.GetByID(ctx, uuid.New())
	assert.ErrorIs(t, err, ErrSupplementNotFound)

	assert.ErrorIs(t, env.svc.Delete(ctx, created.ID), ErrPermissionDenied, "deletion needs the manager role")

	managerCtx := testutil.ContextWithRole(domain.RoleManager)
	require.NoError(t, env.svc.Delete(managerCtx, created.ID))
	_, err = env.svc.GetByID(ctx, created.ID)
	assert.ErrorIs(t, err, ErrSupplementNotFound)
}

func TestSupplementListByContract(t *testing.T) {
	env := newSupplementEnv(t)
	ctx := testutil.ContextWithRole(domain.RoleEditor)

	_, err := env.svc.Create(ctx, env.contract.ID, supplementRequest("SUP-020"), "editor-1")
	require.NoError(t, err)
	_, err = env.svc.Create(ctx, env.contract.ID, supplementRequest("SUP-021"), "editor-1")
	require.NoError(t, err)

	dtos, err := env.svc.ListByContract(ctx, env.contract.ID)
	require.NoError(t, err)
	assert.Len(t, dtos, 2)

	_, err = env.svc.ListByContract(context.Background(), env.contract.ID)
	assert.ErrorIs(t, err, ErrUserContextRequired)
}
