package auth

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/mowgliph/pacta-api/internal/config"
	"github.com/mowgliph/pacta-api/internal/domain"
)

func newTestMiddleware() *Middleware {
	cfg := &config.Config{}
	cfg.Auth = config.AuthConfig{
		JWTSecret: "test-secret-not-for-production",
		TokenTTL:  15,
		Issuer:    "pacta-test",
	}
	return NewMiddleware(cfg, zap.NewNop())
}

func TestAuthenticate(t *testing.T) {
	mw := newTestMiddleware()
	user := testUser()
	token, _, err := newTestTokenManager(15).IssueToken(user)
	require.NoError(t, err)

	var captured *UserContext
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		captured, _ = FromContext(r.Context())
		w.WriteHeader(http.StatusOK)
	})

	req := httptest.NewRequest(http.MethodGet, "/api/v1/contracts", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	mw.Authenticate(next).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	require.NotNil(t, captured)
	assert.Equal(t, user.ID, captured.UserID)
	assert.Equal(t, user.Role, captured.Role)
}

func TestAuthenticateRejections(t *testing.T) {
	mw := newTestMiddleware()
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("handler must not run for unauthenticated requests")
	})

	tests := []struct {
		name   string
		header string
	}{
		{"missing header", ""},
		{"not a bearer token", "Basic dXNlcjpwYXNz"},
		{"garbage token", "Bearer not-a-jwt"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/api/v1/contracts", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			rec := httptest.NewRecorder()
			mw.Authenticate(next).ServeHTTP(rec, req)
			assert.Equal(t, http.StatusUnauthorized, rec.Code)
		})
	}
}

func TestRequireRole(t *testing.T) {
	mw := newTestMiddleware()
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	guarded := mw.RequireRole(domain.RoleManager)(next)

	serve := func(ctx *UserContext) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodDelete, "/api/v1/contracts/1", nil)
		if ctx != nil {
			req = req.WithContext(WithUserContext(req.Context(), ctx))
		}
		rec := httptest.NewRecorder()
		guarded.ServeHTTP(rec, req)
		return rec
	}

	assert.Equal(t, http.StatusOK, serve(&UserContext{Role: domain.RoleAdmin}).Code)
	assert.Equal(t, http.StatusOK, serve(&UserContext{Role: domain.RoleManager}).Code)
	assert.Equal(t, http.StatusForbidden, serve(&UserContext{Role: domain.RoleEditor}).Code)
	assert.Equal(t, http.StatusForbidden, serve(nil).Code)
}
