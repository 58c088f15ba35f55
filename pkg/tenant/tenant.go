package tenant

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Status is the lifecycle state of a tenant. Tenants are never hard-deleted
// while dependent records exist; they are suspended instead.
type Status string

const (
	StatusPending   Status = "pending"
	StatusActive    Status = "active"
	StatusSuspended Status = "suspended"
)

// Tenant is the unit of isolation for the platform. Every association,
// campaign, donation and page belongs to exactly one tenant.
type Tenant struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	Slug      string    `json:"slug"`
	Domain    string    `json:"domain,omitempty"`
	Status    Status    `json:"status"`
	Settings  Settings  `json:"settings"`
	Theme     Theme     `json:"theme"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Active reports whether the tenant may serve requests.
func (t *Tenant) Active() bool {
	return t.Status == StatusActive
}

// Suspended reports whether the tenant has been taken offline by a platform
// operator. Suspended tenants resolve but must be rejected with a distinct
// outcome from "not found".
func (t *Tenant) Suspended() bool {
	return t.Status == StatusSuspended
}

// Directory is the persistent store of tenant records. Slug and domain are
// each globally unique, so every lookup returns at most one tenant.
// Implementations return ErrTenantNotFound when no record matches.
type Directory interface {
	BySlug(ctx context.Context, slug string) (*Tenant, error)
	ByDomain(ctx context.Context, domain string) (*Tenant, error)
	ByID(ctx context.Context, id uuid.UUID) (*Tenant, error)
}
