package guard

import "errors"

var (
	// ErrUnauthenticated is returned when no principal is present.
	ErrUnauthenticated = errors.New("authentication required")

	// ErrPrincipalInactive is returned for deactivated accounts.
	ErrPrincipalInactive = errors.New("principal is inactive")

	// ErrTenantMismatch is returned when an authenticated principal's tenant
	// affiliation diverges from the resolved request tenant. Valid
	// credentials, wrong tenant: an authorization failure, not an
	// authentication one.
	ErrTenantMismatch = errors.New("principal does not belong to the resolved tenant")

	// ErrInsufficientRole is returned when the principal belongs to the
	// tenant but lacks the role an operation requires.
	ErrInsufficientRole = errors.New("insufficient role")
)
