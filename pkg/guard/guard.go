package guard

import (
	"github.com/google/uuid"

	"github.com/collectif/platform/pkg/tenant"
)

// Role enumerates principal roles. Member and admin are tenant-level roles;
// platform-admin is reserved for unaffiliated platform operators.
type Role string

const (
	RoleMember        Role = "member"
	RoleAdmin         Role = "admin"
	RolePlatformAdmin Role = "platform_admin"
)

// Principal is an authenticated actor. TenantID is nil for global
// principals (platform operators) and set for tenant-affiliated members.
// The pairing (tenant, email) is unique; a global principal's email is
// unique among global principals.
type Principal struct {
	ID       uuid.UUID  `json:"id"`
	Email    string     `json:"email"`
	TenantID *uuid.UUID `json:"tenant_id,omitempty"`
	Role     Role       `json:"role"`
	Active   bool       `json:"active"`
}

// PlatformLevel reports whether the principal holds cross-tenant
// administrative privileges: elevated role with no tenant affiliation.
func (p *Principal) PlatformLevel() bool {
	return p.TenantID == nil && p.Role == RolePlatformAdmin
}

// Admin reports whether the principal may perform administrative mutations
// within its tenant.
func (p *Principal) Admin() bool {
	return p.Role == RoleAdmin || p.Role == RolePlatformAdmin
}

// Decision is the outcome of checking a principal against the resolved
// request tenant.
type Decision uint8

const (
	// DecisionDenied covers unauthenticated and inactive principals.
	DecisionDenied Decision = iota

	// DecisionMatched means the principal's affiliation equals the resolved
	// tenant; tenant-scoped operations may proceed.
	DecisionMatched

	// DecisionPlatformExempt means a platform-level principal is acting
	// within the resolved tenant's context. The exemption is from the
	// affiliation match only: all data access remains scoped to the
	// resolved tenant.
	DecisionPlatformExempt

	// DecisionMismatched means valid credentials for the wrong tenant.
	// This is an authorization failure, distinct from authentication
	// failure, and is logged as a security-relevant event.
	DecisionMismatched
)

func (d Decision) String() string {
	switch d {
	case DecisionMatched:
		return "matched"
	case DecisionPlatformExempt:
		return "platform_exempt"
	case DecisionMismatched:
		return "mismatched"
	default:
		return "denied"
	}
}

// Authorize cross-checks the principal's tenant affiliation against the
// resolved request tenant. A mismatch is reported, never silently corrected
// by switching the acting tenant.
func Authorize(p *Principal, t *tenant.Tenant) (Decision, error) {
	if p == nil {
		return DecisionDenied, ErrUnauthenticated
	}
	if !p.Active {
		return DecisionDenied, ErrPrincipalInactive
	}
	if t == nil {
		return DecisionDenied, tenant.ErrNoTenantInContext
	}

	if p.PlatformLevel() {
		return DecisionPlatformExempt, nil
	}
	if p.TenantID != nil && *p.TenantID == t.ID {
		return DecisionMatched, nil
	}
	return DecisionMismatched, ErrTenantMismatch
}
