package auth

import (
	"context"
)

// Context keys for authentication data
type contextKey string

const (
	// ContextKeyUsername is the context key for the authenticated username
	ContextKeyUsername contextKey = "username"
	// ContextKeyRole is the context key for the session role
	ContextKeyRole contextKey = "role"
)

// Session roles.
const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

// WithUsername adds the username to the context
func WithUsername(ctx context.Context, username string) context.Context {
	return context.WithValue(ctx, ContextKeyUsername, username)
}

// UsernameFromContext retrieves the username from the context
func UsernameFromContext(ctx context.Context) (string, bool) {
	username, ok := ctx.Value(ContextKeyUsername).(string)
	return username, ok
}

// WithRole adds the session role to the context
func WithRole(ctx context.Context, role string) context.Context {
	return context.WithValue(ctx, ContextKeyRole, role)
}

// RoleFromContext retrieves the session role from the context
func RoleFromContext(ctx context.Context) (string, bool) {
	role, ok := ctx.Value(ContextKeyRole).(string)
	return role, ok
}
