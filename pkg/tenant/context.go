package tenant

import (
	"context"
	"log/slog"

	"github.com/google/uuid"
)

// contextKey is a private type to prevent collisions with other context keys.
type contextKey struct{}

// WithTenant binds a tenant to the context for the duration of one request.
// Context values follow the request's goroutine call graph, so concurrent
// requests never observe each other's tenant.
func WithTenant(ctx context.Context, tenant *Tenant) context.Context {
	return context.WithValue(ctx, contextKey{}, tenant)
}

// FromContext retrieves the tenant bound to the context.
// Returns nil, false if no tenant is bound.
func FromContext(ctx context.Context) (*Tenant, bool) {
	tenant, ok := ctx.Value(contextKey{}).(*Tenant)
	return tenant, ok
}

// IDFromContext retrieves just the tenant ID from the context.
// Returns zero UUID and false if no tenant is bound.
func IDFromContext(ctx context.Context) (uuid.UUID, bool) {
	tenant, ok := FromContext(ctx)
	if !ok || tenant == nil {
		return uuid.UUID{}, false
	}
	return tenant.ID, true
}

// MustFromContext retrieves the tenant bound to the context and panics if
// there is none. An absent tenant here means the middleware chain is
// miswired; that is a fatal defect, never a recoverable condition.
func MustFromContext(ctx context.Context) *Tenant {
	tenant, ok := FromContext(ctx)
	if !ok || tenant == nil {
		panic("tenant: no tenant in context (missing tenant middleware)")
	}
	return tenant
}

// LoggerExtractor returns a logger context extractor that stamps every log
// record produced within a tenant-scoped request with the tenant ID.
func LoggerExtractor() func(ctx context.Context) (slog.Attr, bool) {
	return func(ctx context.Context) (slog.Attr, bool) {
		if id, ok := IDFromContext(ctx); ok {
			return slog.String("tenant_id", id.String()), true
		}
		return slog.Attr{}, false
	}
}
