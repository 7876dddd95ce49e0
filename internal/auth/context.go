package auth

import (
	"context"

	"github.com/google/uuid"
	"github.com/mowgliph/pacta-api/internal/domain"
)

// UserContext holds authenticated user information
type UserContext struct {
	UserID      uuid.UUID
	DisplayName string
	Email       string
	Role        domain.UserRole
}

type contextKey string

const userContextKey contextKey = "userContext"

// WithUserContext adds user context to the context
func WithUserContext(ctx context.Context, user *UserContext) context.Context {
	return context.WithValue(ctx, userContextKey, user)
}

// FromContext extracts user context from the context
func FromContext(ctx context.Context) (*UserContext, bool) {
	user, ok := ctx.Value(userContextKey).(*UserContext)
	return user, ok
}

// HasPermission checks if the user's role satisfies the required role.
// Roles are strictly ordered: viewer < editor < manager < admin. A nil
// receiver fails closed.
func (u *UserContext) HasPermission(required domain.UserRole) bool {
	if u == nil {
		return false
	}
	return u.Role.Covers(required)
}

// IsAdmin checks if the user has the admin role
func (u *UserContext) IsAdmin() bool {
	return u != nil && u.Role == domain.RoleAdmin
}
