package usecase

import (
	"context"

	"cvtheque-backend/internal/domain"
	"cvtheque-backend/pkg/apperror"
)

// userIDFromContext reads the authenticated subject. Works with both Gin
// context (c.Set) and standard context.WithValue.
func userIDFromContext(ctx context.Context) string {
	if id, ok := ctx.Value(string(domain.KeyUserID)).(string); ok && id != "" {
		return id
	}
	if id, ok := ctx.Value(domain.KeyUserID).(string); ok {
		return id
	}
	return ""
}

func rolesFromContext(ctx context.Context) []string {
	if roles, ok := ctx.Value(string(domain.KeyUserRoles)).([]string); ok {
		return roles
	}
	if roles, ok := ctx.Value(domain.KeyUserRoles).([]string); ok {
		return roles
	}
	return nil
}

func hasRole(ctx context.Context, role string) bool {
	for _, r := range rolesFromContext(ctx) {
		if r == role {
			return true
		}
	}
	return false
}

// requireAdmin fails safe: no roles in context means no access.
func requireAdmin(ctx context.Context) error {
	if !hasRole(ctx, domain.RoleAdmin) {
		return apperror.Forbidden("Admin access required")
	}
	return nil
}
