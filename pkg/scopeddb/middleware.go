package scopeddb

import (
	"net/http"

	"github.com/collectif/platform/pkg/tenant"
)

// Middleware binds a tenant-scoped data-access handle to every request that
// carries a resolved tenant. It must be mounted after the tenant middleware;
// requests without a tenant pass through without a scope, and any handler
// that then calls MustScope fails fast.
func Middleware(db DBTX) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if id, ok := tenant.IDFromContext(r.Context()); ok {
				ctx := WithScope(r.Context(), New(db, id))
				r = r.WithContext(ctx)
			}
			next.ServeHTTP(w, r)
		})
	}
}
