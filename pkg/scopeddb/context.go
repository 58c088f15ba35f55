package scopeddb

import "context"

// contextKey is a private type to prevent collisions with other context keys.
type contextKey struct{}

// WithScope binds a tenant-scoped data-access handle to the context for the
// duration of one request.
func WithScope(ctx context.Context, scope *Scope) context.Context {
	return context.WithValue(ctx, contextKey{}, scope)
}

// ScopeFromContext retrieves the scoped handle bound to the context.
// Returns nil, false if no scope is bound.
func ScopeFromContext(ctx context.Context) (*Scope, bool) {
	scope, ok := ctx.Value(contextKey{}).(*Scope)
	return scope, ok
}

// MustScope retrieves the scoped handle bound to the context and panics if
// there is none. Tenant-scoped data access outside a scoped request is a
// wiring defect, not a recoverable condition.
func MustScope(ctx context.Context) *Scope {
	scope, ok := ScopeFromContext(ctx)
	if !ok || scope == nil {
		panic("scopeddb: no scoped db handle in context (missing scope middleware)")
	}
	return scope
}
