package tenant

import "errors"

var (
	// ErrTenantNotFound is returned when no tenant matches the addressing
	// signal. Surfaced to clients as a not-found response.
	ErrTenantNotFound = errors.New("tenant not found")

	// ErrTenantSuspended is returned when the tenant resolved but has been
	// taken offline. Distinct from not-found so callers can answer 403.
	ErrTenantSuspended = errors.New("tenant is suspended")

	// ErrInvalidIdentifier is returned when the addressing signal is
	// malformed (bad slug characters, oversized value, invalid UUID).
	ErrInvalidIdentifier = errors.New("invalid tenant identifier")

	// ErrNoTenantInContext is returned when tenant-scoped code runs outside
	// the tenant middleware. This indicates broken request wiring, not bad
	// input, and must never be silently recovered.
	ErrNoTenantInContext = errors.New("no tenant in context")
)
