package tenant

import (
	"log/slog"
	"net/http"
	"strings"
	"time"
)

// Middleware resolves the tenant addressed by each inbound request and binds
// it to the request context. Requests without any tenant addressing signal
// pass through untouched; routes that must have a tenant are protected with
// RequireTenant. Suspended tenants are rejected here so downstream handlers
// only ever observe active tenants.
func Middleware(resolve Resolver, dir Directory, opts ...Option) func(http.Handler) http.Handler {
	cfg := &config{
		cache:        NewInMemoryCache(),
		cacheTTL:     5 * time.Minute,
		errorHandler: defaultErrorHandler,
	}
	for _, opt := range opts {
		opt(cfg)
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			for _, skip := range cfg.skipPaths {
				if strings.HasPrefix(r.URL.Path, skip) {
					next.ServeHTTP(w, r)
					return
				}
			}

			sig, err := resolve(r)
			if err != nil {
				cfg.errorHandler(w, r, err)
				return
			}
			if sig.Empty() {
				next.ServeHTTP(w, r)
				return
			}

			t, ok := cfg.cache.Get(r.Context(), sig.cacheKey())
			if !ok {
				t, err = Lookup(r.Context(), dir, sig)
				if err != nil {
					if cfg.logger != nil {
						cfg.logger.DebugContext(r.Context(), "tenant resolution failed",
							slog.String("signal", sig.Value), slog.Any("error", err))
					}
					cfg.errorHandler(w, r, err)
					return
				}
				cfg.cache.Set(r.Context(), sig.cacheKey(), t, cfg.cacheTTL)
			}

			// Status is re-checked on cache hits too; a suspension takes
			// effect no later than the cache TTL after it is recorded.
			if !t.Active() {
				cfg.errorHandler(w, r, ErrTenantSuspended)
				return
			}

			next.ServeHTTP(w, r.WithContext(WithTenant(r.Context(), t)))
		})
	}
}

// RequireTenant guards routes that cannot run without a resolved tenant.
func RequireTenant(errorHandler ErrorHandler) func(http.Handler) http.Handler {
	if errorHandler == nil {
		errorHandler = func(w http.ResponseWriter, r *http.Request, err error) {
			http.Error(w, "Tenant not found", http.StatusNotFound)
		}
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if t, ok := FromContext(r.Context()); !ok || t == nil {
				errorHandler(w, r, ErrNoTenantInContext)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// cacheKey namespaces cache entries by signal kind so a slug and a custom
// domain with the same text can never collide.
func (s Signal) cacheKey() string {
	switch s.Kind {
	case SignalSlug:
		return "slug:" + s.Value
	case SignalDomain:
		return "domain:" + s.Value
	case SignalID:
		return "id:" + s.Value
	default:
		return s.Value
	}
}
