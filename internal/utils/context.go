package utils

import "context"

type contextKey string

const (
	UserIDKey   contextKey = "user_id"
	UserRoleKey contextKey = "role"
)

const (
	RoleUser  = "USER"
	RoleAdmin = "ADMIN"
)

// SetUserContext sets the caller identity into context (called by the auth
// middleware).
func SetUserContext(ctx context.Context, id int64, role string) context.Context {
	ctx = context.WithValue(ctx, UserIDKey, id)
	ctx = context.WithValue(ctx, UserRoleKey, role)
	return ctx
}

// GetUserIDFromContext retrieves the caller's user id safely.
func GetUserIDFromContext(ctx context.Context) (int64, bool) {
	id, ok := ctx.Value(UserIDKey).(int64)
	return id, ok
}

func GetUserRoleFromContext(ctx context.Context) string {
	role, _ := ctx.Value(UserRoleKey).(string)
	return role
}

func IsAdmin(ctx context.Context) bool {
	return GetUserRoleFromContext(ctx) == RoleAdmin
}
