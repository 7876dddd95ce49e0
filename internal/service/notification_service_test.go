package service

import (
	"context"
	"fmt"
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

type notificationEnv struct {
	*testDeps
	svc       *NotificationService
	notifRepo *repository.NotificationRepository
	client    *domain.Client
	supplier  *domain.Supplier
}

func newNotificationEnv(t *testing.T) *notificationEnv {
	deps := newTestDeps(t)
	notifRepo := repository.NewNotificationRepository(deps.db)
	svc := NewNotificationService(
		notifRepo,
		repository.NewNotificationSettingsRepository(deps.db, domain.DefaultNotificationSettings()),
		repository.NewContractRepository(deps.db),
		deps.permissions,
		zap.NewNop(),
	)
	return &notificationEnv{
		testDeps:  deps,
		svc:       svc,
		notifRepo: notifRepo,
		client:    testutil.CreateTestClient(t, deps.db, "Notif Client"),
		supplier:  testutil.CreateTestSupplier(t, deps.db, "Notif Supplier"),
	}
}

func (e *notificationEnv) contractEndingIn(t *testing.T, days int) *domain.Contract {
	return testutil.CreateTestContract(t, e.db, e.client, e.supplier,
		time.Now().Add(time.Duration(days)*24*time.Hour))
}

func (e *notificationEnv) unreadAlert(t *testing.T, contract *domain.Contract) *domain.Notification {
	notification := &domain.Notification{
		ContractID:     contract.ID,
		ContractNumber: contract.ContractNumber,
		ContractTitle:  contract.Title,
		Type:           expirationType(30),
		Threshold:      30,
		Message:        "fixture alert",
		Status:         domain.NotificationStatusUnread,
	}
	require.NoError(t, e.notifRepo.Create(context.Background(), notification))
	return notification
}

func TestExpirationType(t *testing.T) {
	assert.Equal(t, "expiration_30", expirationType(30))
	assert.Equal(t, "expiration_7", expirationType(7))
}

func TestDaysUntil(t *testing.T) {
	now := time.Date(2026, 6, 1, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name string
		end  time.Time
		want int
	}{
		{"same instant", now, 0},
		{"one hour ahead rounds up", now.Add(time.Hour), 1},
		{"exactly one day", now.Add(24 * time.Hour), 1},
		{"a day and a half rounds up", now.Add(36 * time.Hour), 2},
		{"an hour ago is still today", now.Add(-time.Hour), 0},
		{"exactly one day ago", now.Add(-24 * time.Hour), -1},
		{"two days ago", now.Add(-48 * time.Hour), -2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, daysUntil(tt.end, now))
		})
	}
}

func TestGenerateExpirationAlerts(t *testing.T) {
	env := newNotificationEnv(t)
	ctx := context.Background()
	contract := env.contractEndingIn(t, 20)

	created, err := env.svc.GenerateExpirationAlerts(ctx, []domain.Contract{*contract}, domain.DefaultNotificationSettings())
	require.NoError(t, err)
	assert.Equal(t, 1, created, "20 days out crosses only the 30 day threshold")

	alerts, err := env.notifRepo.ListByContract(ctx, contract.ID)
	require.NoError(t, err)
	require.Len(t, alerts, 1)
	alert := alerts[0]
	assert.Equal(t, "expiration_30", alert.Type)
	assert.Equal(t, 30, alert.Threshold)
	assert.Equal(t, domain.NotificationStatusUnread, alert.Status)
	assert.Equal(t, contract.ContractNumber, alert.ContractNumber)
	assert.Equal(t, contract.Title, alert.ContractTitle)
	assert.Equal(t,
		fmt.Sprintf("Contract %q (%s) will expire in 20 days", contract.Title, contract.ContractNumber),
		alert.Message)
}

func TestGenerateExpirationAlertsCrossesAllThresholds(t *testing.T) {
	env := newNotificationEnv(t)
	ctx := context.Background()
	contract := env.contractEndingIn(t, 5)

	created, err := env.svc.GenerateExpirationAlerts(ctx, []domain.Contract{*contract}, domain.DefaultNotificationSettings())
	require.NoError(t, err)
	assert.Equal(t, 3, created, "5 days out crosses 30, 15 and 7")
}

func TestGenerateExpirationAlertsIdempotent(t *testing.T) {
	env := newNotificationEnv(t)
	ctx := context.Background()
	contract := env.contractEndingIn(t, 20)
	settings := domain.DefaultNotificationSettings()

	created, err := env.svc.GenerateExpirationAlerts(ctx, []domain.Contract{*contract}, settings)
	require.NoError(t, err)
	require.Equal(t, 1, created)

	created, err = env.svc.GenerateExpirationAlerts(ctx, []domain.Contract{*contract}, settings)
	require.NoError(t, err)
	assert.Equal(t, 0, created, "a second scan over the same state creates nothing")

	alerts, err := env.notifRepo.ListByContract(ctx, contract.ID)
	require.NoError(t, err)
	assert.Len(t, alerts, 1)
}

func TestGenerateExpirationAlertsNewThresholdsAsExpirationNears(t *testing.T) {
	env := newNotificationEnv(t)
	ctx := context.Background()
	contract := env.contractEndingIn(t, 20)
	settings := domain.DefaultNotificationSettings()

	created, err := env.svc.GenerateExpirationAlerts(ctx, []domain.Contract{*contract}, settings)
	require.NoError(t, err)
	require.Equal(t, 1, created)

	// Time passes: the same contract is now 5 days from expiring.
	contract.EndDate = time.Now().Add(5 * 24 * time.Hour)
	created, err = env.svc.GenerateExpirationAlerts(ctx, []domain.Contract{*contract}, settings)
	require.NoError(t, err)
	assert.Equal(t, 2, created, "only the newly crossed 15 and 7 day thresholds fire")
}

func TestGenerateExpirationAlertsSkips(t *testing.T) {
	env := newNotificationEnv(t)
	ctx := context.Background()
	settings := domain.DefaultNotificationSettings()

	t.Run("disabled settings", func(t *testing.T) {
		contract := env.contractEndingIn(t, 5)
		disabled := settings
		disabled.Enabled = false
		created, err := env.svc.GenerateExpirationAlerts(ctx, []domain.Contract{*contract}, disabled)
		require.NoError(t, err)
		assert.Equal(t, 0, created)
	})

	t.Run("non active contract", func(t *testing.T) {
		contract := testutil.CreateTestContract(t, env.db, env.client, env.supplier,
			time.Now().Add(5*24*time.Hour),
			func(c *domain.Contract) { c.Status = domain.ContractStatusPending })
		created, err := env.svc.GenerateExpirationAlerts(ctx, []domain.Contract{*contract}, settings)
		require.NoError(t, err)
		assert.Equal(t, 0, created)
	})

	t.Run("already expired contract", func(t *testing.T) {
		contract := env.contractEndingIn(t, -3)
		created, err := env.svc.GenerateExpirationAlerts(ctx, []domain.Contract{*contract}, settings)
		require.NoError(t, err)
		assert.Equal(t, 0, created)
	})
}

func TestMarkAsRead(t *testing.T) {
	env := newNotificationEnv(t)
	ctx := testutil.ContextWithRole(domain.RoleViewer)
	contract := env.contractEndingIn(t, 20)
	notification := env.unreadAlert(t, contract)

	dto, err := env.svc.MarkAsRead(ctx, notification.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.NotificationStatusRead, dto.Status)
	require.NotNil(t, dto.ReadAt)
	firstReadAt := *dto.ReadAt

	// Marking again is a no-op and keeps the original read time.
	dto, err = env.svc.MarkAsRead(ctx, notification.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.NotificationStatusRead, dto.Status)
	require.NotNil(t, dto.ReadAt)
	assert.Equal(t, firstReadAt, *dto.ReadAt)
}

func TestMarkAsAcknowledged(t *testing.T) {
	env := newNotificationEnv(t)
	ctx := testutil.ContextWithRole(domain.RoleViewer)
	contract := env.contractEndingIn(t, 20)

	t.Run("from unread stamps read time", func(t *testing.T) {
		notification := env.unreadAlert(t, contract)
		dto, err := env.svc.MarkAsAcknowledged(ctx, notification.ID)
		require.NoError(t, err)
		assert.Equal(t, domain.NotificationStatusAcknowledged, dto.Status)
		assert.NotNil(t, dto.ReadAt)
	})

	t.Run("never moves backwards", func(t *testing.T) {
		notification := env.unreadAlert(t, contract)
		_, err := env.svc.MarkAsAcknowledged(ctx, notification.ID)
		require.NoError(t, err)

		dto, err := env.svc.MarkAsRead(ctx, notification.ID)
		require.NoError(t, err)
		assert.Equal(t, domain.NotificationStatusAcknowledged, dto.Status)
	})

	t.Run("unknown notification", func(t *testing.T) {
		_, err := env.svc.MarkAsAcknowledged(ctx, uuid.New())
		assert.ErrorIs(t, err, ErrNotificationNotFound)
	})
}

func TestNotificationListAndCount(t *testing.T) {
	env := newNotificationEnv(t)
	ctx := testutil.ContextWithRole(domain.RoleViewer)
	contract := env.contractEndingIn(t, 20)
	env.unreadAlert(t, contract)
	read := env.unreadAlert(t, contract)
	_, err := env.svc.MarkAsRead(ctx, read.ID)
	require.NoError(t, err)

	count, err := env.svc.CountUnread(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)

	status := domain.NotificationStatusUnread
	page, err := env.svc.List(ctx, 1, 20, &status)
	require.NoError(t, err)
	assert.Equal(t, int64(1), page.Total)

	page, err = env.svc.List(ctx, 1, 20, nil)
	require.NoError(t, err)
	assert.Equal(t, int64(2), page.Total)
}

func TestNotificationRequiresUserContext(t *testing.T) {
	env := newNotificationEnv(t)

	_, err := env.svc.List(context.Background(), 1, 20, nil)
	assert.ErrorIs(t, err, ErrUserContextRequired)

	_, err = env.svc.MarkAsRead(context.Background(), uuid.New())
	assert.ErrorIs(t, err, ErrUserContextRequired)
}
