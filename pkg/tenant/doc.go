// Package tenant implements tenant resolution and request scoping for the
// platform.
//
// Every inbound request is associated with exactly one tenant: the resolver
// extracts an addressing signal (trusted header, path slug, custom domain or
// subdomain), the directory maps it to a tenant record, and the middleware
// binds the tenant to the request context for its entire lifetime. All
// downstream code reads the tenant through FromContext without explicit
// parameter threading; concurrent requests never observe each other's
// tenant because context values follow each request's own call graph.
//
// Resolution precedence is header, then custom domain, then subdomain slug.
// The outcomes are discriminated sentinel errors rather than control-flow
// exceptions: ErrTenantNotFound maps to 404, ErrTenantSuspended to 403 and
// ErrInvalidIdentifier to 400. Code that requires a tenant and finds none
// uses MustFromContext, which panics: a missing tenant there is broken
// middleware wiring, not bad client input.
//
// Basic usage:
//
//	resolver := tenant.NewDefaultResolver(".example.com")
//	r := chi.NewRouter()
//	r.Use(tenant.Middleware(resolver, directory,
//		tenant.WithCache(tenant.NewRedisCache(redisClient, "")),
//		tenant.WithSkipPaths([]string{"/health"}),
//	))
//	r.Use(tenant.RequireTenant(nil))
//
// Handlers then read the current tenant:
//
//	t := tenant.MustFromContext(r.Context())
package tenant
