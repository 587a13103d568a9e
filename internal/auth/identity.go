package auth

import (
	"context"

	"github.com/webmoto/storefront/types"
)

// Identity is what a session token proves about its holder.
type Identity struct {
	Username string
	Role     types.Role
	ID       string
}

type identityKey struct{}

// WithIdentity attaches the identity to ctx.
func WithIdentity(ctx context.Context, id Identity) context.Context {
	return context.WithValue(ctx, identityKey{}, id)
}

// IdentityFromContext returns the identity attached by the auth gate, if any.
func IdentityFromContext(ctx context.Context) (Identity, bool) {
	id, ok := ctx.Value(identityKey{}).(Identity)
	return id, ok
}
