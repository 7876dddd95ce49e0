package service

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/mowgliph/pacta-api/internal/domain"
	"github.com/mowgliph/pacta-api/internal/repository"
	"github.com/mowgliph/pacta-api/internal/testutil"
)

type userEnv struct {
	*testDeps
	svc      *UserService
	userRepo *repository.UserRepository
}

func newUserEnv(t *testing.T) *userEnv {
	deps := newTestDeps(t)
	userRepo := repository.NewUserRepository(deps.db)
	return &userEnv{
		testDeps: deps,
		svc:      NewUserService(userRepo, deps.permissions, zap.NewNop()),
		userRepo: userRepo,
	}
}

func updateRequestFor(user *domain.User, role domain.UserRole) *domain.UpdateUserRequest {
	return &domain.UpdateUserRequest{
		Name:  user.Name,
		Email: user.Email,
		Role:  role,
	}
}

func TestUserCreate(t *testing.T) {
	env := newUserEnv(t)
	ctx := testutil.ContextWithRole(domain.RoleAdmin)

	dto, err := env.svc.Create(ctx, &domain.CreateUserRequest{
		Name:     "New Editor",
		Email:    "editor@example.com",
		Password: "a-strong-password",
		Role:     domain.RoleEditor,
	})
	require.NoError(t, err)
	assert.Equal(t, domain.RoleEditor, dto.Role)
	assert.Equal(t, domain.UserStatusActive, dto.Status)

	t.Run("invalid role", func(t *testing.T) {
		_, err := env.svc.Create(ctx, &domain.CreateUserRequest{
			Name:     "Bad Role",
			Email:    "bad@example.com",
			Password: "a-strong-password",
			Role:     domain.UserRole("owner"),
		})
		assert.ErrorIs(t, err, ErrInvalidRole)
	})

	t.Run("duplicate email", func(t *testing.T) {
		_, err := env.svc.Create(ctx, &domain.CreateUserRequest{
			Name:     "Duplicate",
			Email:    "editor@example.com",
			Password: "a-strong-password",
			Role:     domain.RoleViewer,
		})
		assert.ErrorIs(t, err, ErrEmailTaken)
	})

	t.Run("requires admin", func(t *testing.T) {
		_, err := env.svc.Create(testutil.ContextWithRole(domain.RoleManager), &domain.CreateUserRequest{
			Name:     "Not Allowed",
			Email:    "nope@example.com",
			Password: "a-strong-password",
			Role:     domain.RoleViewer,
		})
		assert.ErrorIs(t, err, ErrPermissionDenied)
	})
}

func TestUserUpdateLastAdminProtection(t *testing.T) {
	env := newUserEnv(t)
	ctx := testutil.ContextWithRole(domain.RoleAdmin)
	admin := testutil.CreateTestUser(t, env.db, "Only Admin", domain.RoleAdmin, "a-strong-password")

	_, err := env.svc.Update(ctx, admin.ID, updateRequestFor(admin, domain.RoleEditor))
	assert.ErrorIs(t, err, ErrCannotRemoveLastAdmin)

	// With a second admin in place the demotion goes through.
	testutil.CreateTestUser(t, env.db, "Second Admin", domain.RoleAdmin, "a-strong-password")
	dto, err := env.svc.Update(ctx, admin.ID, updateRequestFor(admin, domain.RoleEditor))
	require.NoError(t, err)
	assert.Equal(t, domain.RoleEditor, dto.Role)
}

func TestUserDeleteLastAdminProtection(t *testing.T) {
	env := newUserEnv(t)
	ctx := testutil.ContextWithRole(domain.RoleAdmin)
	admin := testutil.CreateTestUser(t, env.db, "Only Admin", domain.RoleAdmin, "a-strong-password")

	err := env.svc.Delete(ctx, admin.ID)
	assert.ErrorIs(t, err, ErrCannotRemoveLastAdmin)

	testutil.CreateTestUser(t, env.db, "Second Admin", domain.RoleAdmin, "a-strong-password")
	require.NoError(t, env.svc.Delete(ctx, admin.ID))

	_, err = env.svc.GetByID(ctx, admin.ID)
	assert.ErrorIs(t, err, ErrUserNotFound)
}

func TestUserDeleteUnknown(t *testing.T) {
	env := newUserEnv(t)
	ctx := testutil.ContextWithRole(domain.RoleAdmin)

	err := env.svc.Delete(ctx, uuid.New())
	assert.ErrorIs(t, err, ErrUserNotFound)
}

func TestChangePassword(t *testing.T) {
	env := newUserEnv(t)
	user := testutil.CreateTestUser(t, env.db, "Rotates Password", domain.RoleViewer, "old-password")
	ctx := testutil.ContextForUser(user)

	t.Run("wrong current password", func(t *testing.T) {
		err := env.svc.ChangePassword(ctx, &domain.ChangePasswordRequest{
			CurrentPassword: "not-the-password",
			NewPassword:     "new-password-123",
		})
		assert.ErrorIs(t, err, ErrInvalidCredentials)
	})

	t.Run("rotates the hash", func(t *testing.T) {
		err := env.svc.ChangePassword(ctx, &domain.ChangePasswordRequest{
			CurrentPassword: "old-password",
			NewPassword:     "new-password-123",
		})
		require.NoError(t, err)

		stored, err := env.userRepo.GetByID(context.Background(), user.ID)
		require.NoError(t, err)
		assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(stored.PasswordHash), []byte("new-password-123")))
	})

	t.Run("requires user context", func(t *testing.T) {
		err := env.svc.ChangePassword(context.Background(), &domain.ChangePasswordRequest{
			CurrentPassword: "old-password",
			NewPassword:     "new-password-123",
		})
		assert.ErrorIs(t, err, ErrUserContextRequired)
	})
}

func TestUserListPagination(t *testing.T) {
	env := newUserEnv(t)
	ctx := testutil.ContextWithRole(domain.RoleAdmin)
	for i := 0; i < 3; i++ {
		testutil.CreateTestUser(t, env.db, "Listed User", domain.RoleViewer, "a-strong-password")
	}

	page, err := env.svc.List(ctx, 1, 2)
	require.NoError(t, err)
	assert.Equal(t, int64(3), page.Total)
	assert.Equal(t, 2, page.PageSize)
	assert.Equal(t, 2, page.TotalPages)

	// Out of range parameters are clamped instead of failing.
	page, err = env.svc.List(ctx, 0, -1)
	require.NoError(t, err)
	assert.Equal(t, 1, page.Page)
	assert.Equal(t, 20, page.PageSize)
}
