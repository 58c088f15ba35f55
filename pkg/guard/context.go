package guard

import "context"

// principalKey is a private type to prevent collisions with other context keys.
type principalKey struct{}

// WithPrincipal binds the authenticated principal to the request context.
func WithPrincipal(ctx context.Context, p *Principal) context.Context {
	return context.WithValue(ctx, principalKey{}, p)
}

// PrincipalFromContext retrieves the authenticated principal.
// Returns nil, false for unauthenticated requests.
func PrincipalFromContext(ctx context.Context) (*Principal, bool) {
	p, ok := ctx.Value(principalKey{}).(*Principal)
	return p, ok
}
