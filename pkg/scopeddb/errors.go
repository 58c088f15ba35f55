package scopeddb

import "errors"

var (
	// ErrUnscopedQuery is returned when a statement executed through a Scope
	// does not reference the @tenant_id argument. This is a programming
	// defect: the query would bypass tenant isolation.
	ErrUnscopedQuery = errors.New("statement is not tenant-scoped")

	// ErrCrossTenantWrite is returned when a caller supplies a tenant_id
	// argument that diverges from the Scope's bound tenant. The operation is
	// rejected before reaching the database and is never silently corrected.
	ErrCrossTenantWrite = errors.New("cross-tenant write attempt")

	// ErrNoScopeInContext is returned when tenant-scoped data access is
	// attempted outside a request with a bound scope. Like a missing tenant,
	// this indicates broken middleware wiring.
	ErrNoScopeInContext = errors.New("no scoped db handle in context")
)
