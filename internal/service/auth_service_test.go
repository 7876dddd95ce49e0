package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/mowgliph/pacta-api/internal/auth"
	"github.com/mowgliph/pacta-api/internal/config"
	"github.com/mowgliph/pacta-api/internal/domain"
	"github.com/mowgliph/pacta-api/internal/repository"
	"github.com/mowgliph/pacta-api/internal/testutil"
)

type authEnv struct {
	*testDeps
	svc      *AuthService
	userRepo *repository.UserRepository
	tokens   *auth.TokenManager
}

func newAuthEnv(t *testing.T) *authEnv {
	deps := newTestDeps(t)
	userRepo := repository.NewUserRepository(deps.db)
	tokens := auth.NewTokenManager(&config.AuthConfig{
		JWTSecret: "test-secret-not-for-production",
		TokenTTL:  15,
		Issuer:    "pacta-test",
	})
	return &authEnv{
		testDeps: deps,
		svc:      NewAuthService(userRepo, tokens, deps.audit, zap.NewNop()),
		userRepo: userRepo,
		tokens:   tokens,
	}
}

func TestLogin(t *testing.T) {
	env := newAuthEnv(t)
	ctx := context.Background()
	user := testutil.CreateTestUser(t, env.db, "Maria Perez", domain.RoleManager, "correct-password")

	resp, err := env.svc.Login(ctx, &domain.LoginRequest{Email: user.Email, Password: "correct-password"})
	require.NoError(t, err)
	assert.NotEmpty(t, resp.Token)
	assert.Equal(t, user.ID, resp.User.ID)
	assert.Equal(t, domain.RoleManager, resp.User.Role)

	userCtx, err := env.tokens.ValidateToken(resp.Token)
	require.NoError(t, err)
	assert.Equal(t, user.ID, userCtx.UserID)

	// A successful login updates the last access stamp and leaves an
	// audit trail entry.
	reloaded, err := env.userRepo.GetByID(ctx, user.ID)
	require.NoError(t, err)
	assert.NotNil(t, reloaded.LastAccessAt)

	var loginCount int64
	require.NoError(t, env.db.Model(&domain.AuditLog{}).
		Where("action = ? AND user_id = ?", domain.AuditActionLogin, user.ID.String()).
		Count(&loginCount).Error)
	assert.Equal(t, int64(1), loginCount)
}

func TestLoginFailures(t *testing.T) {
	env := newAuthEnv(t)
	ctx := context.Background()
	user := testutil.CreateTestUser(t, env.db, "Maria Perez", domain.RoleManager, "correct-password")

	t.Run("unknown email", func(t *testing.T) {
		_, err := env.svc.Login(ctx, &domain.LoginRequest{Email: "nobody@example.com", Password: "whatever"})
		assert.ErrorIs(t, err, ErrInvalidCredentials)
	})

	t.Run("wrong password", func(t *testing.T) {
		_, err := env.svc.Login(ctx, &domain.LoginRequest{Email: user.Email, Password: "wrong-password"})
		assert.ErrorIs(t, err, ErrInvalidCredentials)
	})

	t.Run("inactive account", func(t *testing.T) {
		inactive := testutil.CreateTestUser(t, env.db, "Gone User", domain.RoleViewer, "correct-password")
		inactive.Status = domain.UserStatusInactive
		require.NoError(t, env.db.Save(inactive).Error)

		_, err := env.svc.Login(ctx, &domain.LoginRequest{Email: inactive.Email, Password: "correct-password"})
		assert.ErrorIs(t, err, ErrUserInactive)
	})
}

func TestRegisterFirstUserBecomesAdmin(t *testing.T) {
	env := newAuthEnv(t)
	ctx := context.Background()

	first, err := env.svc.Register(ctx, &domain.RegisterRequest{
		Name:     "First User",
		Email:    "first@example.com",
		Password: "a-strong-password",
	})
	require.NoError(t, err)
	assert.Equal(t, domain.RoleAdmin, first.Role)

	second, err := env.svc.Register(ctx, &domain.RegisterRequest{
		Name:     "Second User",
		Email:    "second@example.com",
		Password: "a-strong-password",
	})
	require.NoError(t, err)
	assert.Equal(t, domain.RoleViewer, second.Role)
}

func TestRegisterDuplicateEmail(t *testing.T) {
	env := newAuthEnv(t)
	ctx := context.Background()
	user := testutil.CreateTestUser(t, env.db, "Existing", domain.RoleViewer, "a-strong-password")

	_, err := env.svc.Register(ctx, &domain.RegisterRequest{
		Name:     "Impostor",
		Email:    user.Email,
		Password: "a-strong-password",
	})
	assert.ErrorIs(t, err, ErrEmailTaken)
}

func TestRegisterStoresPasswordAsHash(t *testing.T) {
	env := newAuthEnv(t)
	ctx := context.Background()

	dto, err := env.svc.Register(ctx, &domain.RegisterRequest{
		Name:     "Hash Check",
		Email:    "hash@example.com",
		Password: "a-strong-password",
	})
	require.NoError(t, err)

	stored, err := env.userRepo.GetByID(ctx, dto.ID)
	require.NoError(t, err)
	assert.NotEqual(t, "a-strong-password", stored.PasswordHash)

	_, err = env.svc.Login(ctx, &domain.LoginRequest{Email: "hash@example.com", Password: "a-strong-password"})
	assert.NoError(t, err)
}

func TestCurrentUser(t *testing.T) {
	env := newAuthEnv(t)
	user := testutil.CreateTestUser(t, env.db, "Maria Perez", domain.RoleManager, "correct-password")

	dto, err := env.svc.CurrentUser(testutil.ContextForUser(user))
	require.NoError(t, err)
	assert.Equal(t, user.ID, dto.ID)
	assert.Equal(t, user.Email, dto.Email)

	_, err = env.svc.CurrentUser(context.Background())
	assert.ErrorIs(t, err, ErrUserContextRequired)
}
