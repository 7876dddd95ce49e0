package auth

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mowgliph/pacta-api/internal/config"
	"github.com/mowgliph/pacta-api/internal/domain"
)

func newTestTokenManager(ttlMinutes int) *TokenManager {
	return NewTokenManager(&config.AuthConfig{
		JWTSecret: "test-secret-not-for-production",
		TokenTTL:  ttlMinutes,
		Issuer:    "pacta-test",
	})
}

func testUser() *domain.User {
	return &domain.User{
		BaseModel: domain.BaseModel{ID: uuid.New()},
		Name:      "Maria Perez",
		Email:     "maria@example.com",
		Role:      domain.RoleManager,
		Status:    domain.UserStatusActive,
	}
}

func TestTokenRoundtrip(t *testing.T) {
	manager := newTestTokenManager(15)
	user := testUser()

	token, expiresAt, err := manager.IssueToken(user)
	require.NoError(t, err)
	assert.NotEmpty(t, token)
	assert.False(t, expiresAt.IsZero())

	userCtx, err := manager.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, user.ID, userCtx.UserID)
	assert.Equal(t, user.Name, userCtx.DisplayName)
	assert.Equal(t, domain.RoleManager, userCtx.Role)
}

func TestValidateTokenRejectsExpired(t *testing.T) {
	manager := newTestTokenManager(-5)
	token, _, err := manager.IssueToken(testUser())
	require.NoError(t, err)

	_, err = manager.ValidateToken(token)
	assert.ErrorIs(t, err, ErrExpiredToken)
}

func TestValidateTokenRejectsWrongSecret(t *testing.T) {
	token, _, err := newTestTokenManager(15).IssueToken(testUser())
	require.NoError(t, err)

	other := NewTokenManager(&config.AuthConfig{
		JWTSecret: "a-different-secret",
		TokenTTL:  15,
		Issuer:    "pacta-test",
	})
	_, err = other.ValidateToken(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestValidateTokenRejectsWrongIssuer(t *testing.T) {
	token, _, err := newTestTokenManager(15).IssueToken(testUser())
	require.NoError(t, err)

	other := NewTokenManager(&config.AuthConfig{
		JWTSecret: "test-secret-not-for-production",
		TokenTTL:  15,
		Issuer:    "someone-else",
	})
	_, err = other.ValidateToken(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestUserContextHasPermission(t *testing.T) {
	editor := &UserContext{UserID: uuid.New(), Role: domain.RoleEditor}
	assert.True(t, editor.HasPermission(domain.RoleViewer))
	assert.True(t, editor.HasPermission(domain.RoleEditor))
	assert.False(t, editor.HasPermission(domain.RoleManager))

	var missing *UserContext
	assert.False(t, missing.HasPermission(domain.RoleViewer), "absent user context fails closed")
}
