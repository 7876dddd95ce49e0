package service

import (
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

func newClientService(t *testing.T, deps *testDeps) *ClientService {
	t.Helper()
	return NewClientService(repository.NewClientRepository(deps.db), deps.permissions, zap.NewNop())
}

func TestClientCreateAndGet(t *testing.T) {
	deps := newTestDeps(t)
	svc := newClientService(t, deps)
	ctx := testutil.ContextWithRole(domain.RoleEditor)

	dto, err := svc.Create(ctx, &domain.CreateClientRequest{
		Name:    "Northwind Traders",
		Address: "12 Harbor Road",
		ReuCode: "REU-9001",
	}, "editor-1")
	require.NoError(t, err)
	assert.Equal(t, "Northwind Traders", dto.Name)

	got, err := svc.GetByID(ctx, dto.ID)
	require.NoError(t, err)
	assert.Equal(t, dto.ID, got.ID)

	_, err = svc.GetByID(ctx, uuid.New())
	assert.ErrorIs(t, err, ErrClientNotFound)
}

func TestClientDeleteBlockedWhileInUse(t *testing.T) {
	deps := newTestDeps(t)
	svc := newClientService(t, deps)
	ctx := testutil.ContextWithRole(domain.RoleManager)

	client := testutil.CreateTestClient(t, deps.db, "Busy Client")
	supplier := testutil.CreateTestSupplier(t, deps.db, "Some Supplier")
	contract := testutil.CreateTestContract(t, deps.db, client, supplier, time.Now().AddDate(1, 0, 0))

	err := svc.Delete(ctx, client.ID)
	assert.ErrorIs(t, err, ErrClientInUse)

	// Once the contract is gone the client can be removed.
	require.NoError(t, deps.db.Delete(&domain.Contract{}, "id = ?", contract.ID).Error)
	require.NoError(t, svc.Delete(ctx, client.ID))

	_, err = svc.GetByID(ctx, client.ID)
	assert.ErrorIs(t, err, ErrClientNotFound)
}

func TestClientDeleteRequiresManager(t *testing.T) {
	deps := newTestDeps(t)
	svc := newClientService(t, deps)
	client := testutil.CreateTestClient(t, deps.db, "Protected Client")

	err := svc.Delete(testutil.ContextWithRole(domain.RoleEditor), client.ID)
	assert.ErrorIs(t, err, ErrPermissionDenied)
}
