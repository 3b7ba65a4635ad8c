package auth

import "context"

type ctxKey struct{}

// Identity is the verified caller attached to the request context by
// the authentication middleware.
type Identity struct {
	UserID    string
	RoleID    string
	CompanyID string
}

func WithIdentity(ctx context.Context, id Identity) context.Context {
	return context.WithValue(ctx, ctxKey{}, id)
}

// IdentityFromContext returns the verified identity, if any.
func IdentityFromContext(ctx context.Context) (Identity, bool) {
	id, ok := ctx.Value(ctxKey{}).(Identity)
	return id, ok
}

// Subject returns the authenticated user id, or "" when the context
// carries no identity.
func Subject(ctx context.Context) string {
	id, _ := IdentityFromContext(ctx)
	return id.UserID
}
