// Package pg manages the platform's shared PostgreSQL connection pool:
// connection with retry, health probing, goose schema migrations and
// error classification helpers used by the stores.
//
// The pool is shared across all tenants. Tenant isolation is a
// query-construction concern handled by the scopeddb package, never by
// separate connections or schemas.
package pg
