// Package scopeddb enforces tenant isolation at the query-construction
// layer.
//
// Tenant-owned tables (associations, campaigns, donations, pages, members)
// share one connection pool across all tenants; isolation comes entirely
// from per-query tenant filtering. A Scope wraps the pool bound to one
// tenant id and refuses to execute any statement that does not reference
// the @tenant_id named argument, then supplies that argument itself.
// Reads can therefore only match the bound tenant's rows, and writes are
// stamped with the bound tenant id. A caller-supplied tenant_id that
// diverges from the bound one is rejected with ErrCrossTenantWrite.
//
// Global entities (the tenant directory, unaffiliated principals) are
// accessed through the separately named Unscoped capability, never through
// a Scope, so the bypass cannot leak into tenant-scoped code paths.
//
// The Middleware binds a Scope to each request's context after tenant
// resolution; stores retrieve it with MustScope, which panics when the
// wiring is missing.
//
//	scope := scopeddb.MustScope(ctx)
//	rows, err := scope.Query(ctx,
//		`SELECT id, name FROM associations WHERE tenant_id = @tenant_id`,
//		nil)
package scopeddb
