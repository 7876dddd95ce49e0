package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/mowgliph/pacta-api/internal/auth"
	"github.com/mowgliph/pacta-api/internal/domain"
	"github.com/mowgliph/pacta-api/internal/repository"
	"github.com/mowgliph/pacta-api/internal/service"
	"github.com/mowgliph/pacta-api/internal/testutil"
)

type notificationHandlerEnv struct {
	router    chi.Router
	notifRepo *repository.NotificationRepository
	contract  *domain.Contract
}

// injectRole places an authenticated user on every request, standing in
// for the JWT middleware.
func injectRole(role domain.UserRole) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := auth.WithUserContext(r.Context(), &auth.UserContext{
				UserID:      uuid.New(),
				DisplayName: "Test User",
				Role:        role,
			})
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func newNotificationHandlerEnv(t *testing.T, role domain.UserRole) *notificationHandlerEnv {
	t.Helper()

	db := testutil.SetupTestDB(t)
	notifRepo := repository.NewNotificationRepository(db)
	permissions := service.NewPermissionService(zap.NewNop())
	svc := service.NewNotificationService(
		notifRepo,
		repository.NewNotificationSettingsRepository(db, domain.DefaultNotificationSettings()),
		repository.NewContractRepository(db),
		permissions,
		zap.NewNop(),
	)
	h := NewNotificationHandler(svc, zap.NewNop())

	router := chi.NewRouter()
	router.Use(injectRole(role))
	router.Route("/notifications", func(r chi.Router) {
		r.Get("/", h.List)
		r.Get("/unread-count", h.UnreadCount)
		r.Post("/{id}/read", h.MarkAsRead)
		r.Post("/{id}/acknowledge", h.MarkAsAcknowledged)
	})

	client := testutil.CreateTestClient(t, db, "Handler Client")
	supplier := testutil.CreateTestSupplier(t, db, "Handler Supplier")
	contract := testutil.CreateTestContract(t, db, client, supplier, time.Now().Add(20*24*time.Hour))

	return &notificationHandlerEnv{router: router, notifRepo: notifRepo, contract: contract}
}

func (e *notificationHandlerEnv) createAlert(t *testing.T) *domain.Notification {
	t.Helper()
	notification := &domain.Notification{
		ContractID:     e.contract.ID,
		ContractNumber: e.contract.ContractNumber,
		ContractTitle:  e.contract.Title,
		Type:           "expiration_30",
		Threshold:      30,
		Message:        "fixture alert",
		Status:         domain.NotificationStatusUnread,
	}
	require.NoError(t, e.notifRepo.Create(context.Background(), notification))
	return notification
}

func (e *notificationHandlerEnv) do(method, path string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, nil)
	rec := httptest.NewRecorder()
	e.router.ServeHTTP(rec, req)
	return rec
}

func TestNotificationHandlerList(t *testing.T) {
	env := newNotificationHandlerEnv(t, domain.RoleViewer)
	env.createAlert(t)
	env.createAlert(t)

	rec := env.do(http.MethodGet, "/notifications?page=1&pageSize=20")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

	var page domain.PaginatedResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &page))
	assert.Equal(t, int64(2), page.Total)

	t.Run("invalid status filter", func(t *testing.T) {
		rec := env.do(http.MethodGet, "/notifications?status=archived")
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestNotificationHandlerUnreadCount(t *testing.T) {
	env := newNotificationHandlerEnv(t, domain.RoleViewer)
	env.createAlert(t)

	rec := env.do(http.MethodGet, "/notifications/unread-count")
	assert.Equal(t, http.StatusOK, rec.Code)

	var count domain.UnreadCountDTO
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &count))
	assert.Equal(t, int64(1), count.Count)
}

func TestNotificationHandlerMarkAsRead(t *testing.T) {
	env := newNotificationHandlerEnv(t, domain.RoleViewer)
	alert := env.createAlert(t)

	rec := env.do(http.MethodPost, "/notifications/"+alert.ID.String()+"/read")
	assert.Equal(t, http.StatusOK, rec.Code)

	var dto domain.NotificationDTO
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &dto))
	assert.Equal(t, domain.NotificationStatusRead, dto.Status)
	assert.NotNil(t, dto.ReadAt)

	t.Run("unknown id", func(t *testing.T) {
		rec := env.do(http.MethodPost, "/notifications/"+uuid.NewString()+"/read")
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})

	t.Run("malformed id", func(t *testing.T) {
		rec := env.do(http.MethodPost, "/notifications/not-a-uuid/read")
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestNotificationHandlerAcknowledge(t *testing.T) {
	env := newNotificationHandlerEnv(t, domain.RoleViewer)
	alert := env.createAlert(t)

	rec := env.do(http.MethodPost, "/notifications/"+alert.ID.String()+"/acknowledge")
	assert.Equal(t, http.StatusOK, rec.Code)

	var dto domain.NotificationDTO
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &dto))
	assert.Equal(t, domain.NotificationStatusAcknowledged, dto.Status)
}
