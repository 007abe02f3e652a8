package middleware

import (
	"context"

	"github.com/google/uuid"
)

type contextKey string

const (
	ctxUserID contextKey = "auth_user_id"
	ctxRole   contextKey = "auth_role"
)

// UserIDFromContext returns the authenticated user id, or "" when absent.
func UserIDFromContext(ctx context.Context) string {
	if value, ok := ctx.Value(ctxUserID).(string); ok {
		return value
	}
	return ""
}

// UserUUIDFromContext parses the authenticated user id as a UUID.
func UserUUIDFromContext(ctx context.Context) (uuid.UUID, bool) {
	raw := UserIDFromContext(ctx)
	if raw == "" {
		return uuid.Nil, false
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, false
	}
	return id, true
}

// RoleFromContext returns the authenticated role, or "" when absent.
func RoleFromContext(ctx context.Context) string {
	if value, ok := ctx.Value(ctxRole).(string); ok {
		return value
	}
	return ""
}
