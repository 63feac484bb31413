package auth

import "context"

type contextKey struct{}

// WithUser attaches the connection's user to a context. The transport sets
// this once per request before dispatch; handlers read it for attribution.
func WithUser(ctx context.Context, user *User) context.Context {
	return context.WithValue(ctx, contextKey{}, user)
}

// UserFromContext returns the user attached by WithUser, or nil.
func UserFromContext(ctx context.Context) *User {
	user, _ := ctx.Value(contextKey{}).(*User)
	return user
}
