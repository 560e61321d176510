package shared

import "context"

// Identity carries the authenticated actor and owning firm for a request.
// It is resolved by the auth gateway in front of this service; every
// ledger operation still receives the tenant id as an explicit argument,
// the context value only bridges the HTTP layer.
type Identity struct {
	TenantID int64
	UserID   int64
}

type identityContextKey struct{}

// ContextWithIdentity stores the resolved identity in context.
func ContextWithIdentity(ctx context.Context, id Identity) context.Context {
	return context.WithValue(ctx, identityContextKey{}, id)
}

// IdentityFromContext extracts the identity from context. The zero
// Identity is returned when no identity was resolved.
func IdentityFromContext(ctx context.Context) Identity {
	id, _ := ctx.Value(identityContextKey{}).(Identity)
	return id
}
