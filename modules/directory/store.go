package directory

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/collectif/platform/pkg/pg"
	"github.com/collectif/platform/pkg/scopeddb"
	"github.com/collectif/platform/pkg/tenant"
)

// Store persists tenant records. The tenants table is a global entity, so
// the store requires the explicit unscoped capability rather than a
// tenant-bound handle.
type Store struct {
	db *scopeddb.Unscoped
}

// NewStore constructs the tenant directory store.
func NewStore(db *scopeddb.Unscoped) *Store {
	return &Store{db: db}
}

var _ tenant.Directory = (*Store)(nil)

const tenantColumns = `id, name, slug, domain, status, settings, theme, created_at, updated_at`

func scanTenant(row pgx.Row) (*tenant.Tenant, error) {
	var t tenant.Tenant
	var domain *string
	err := row.Scan(&t.ID, &t.Name, &t.Slug, &domain, &t.Status, &t.Settings, &t.Theme, &t.CreatedAt, &t.UpdatedAt)
	if err != nil {
		if pg.IsNotFoundError(err) {
			return nil, tenant.ErrTenantNotFound
		}
		return nil, fmt.Errorf("scan tenant: %w", err)
	}
	if domain != nil {
		t.Domain = *domain
	}
	return &t, nil
}

// Create inserts a new tenant. Slug collisions surface as ErrSlugTaken and
// domain collisions as ErrDomainTaken so the provisioning service can retry.
func (s *Store) Create(ctx context.Context, t *tenant.Tenant) error {
	const q = `
		INSERT INTO tenants (id, name, slug, domain, status, settings, theme, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`

	var domain *string
	if t.Domain != "" {
		domain = &t.Domain
	}

	_, err := s.db.Exec(ctx, q, t.ID, t.Name, t.Slug, domain, t.Status, t.Settings, t.Theme, t.CreatedAt, t.UpdatedAt)
	if err != nil {
		if pg.IsDuplicateKeyError(err) {
			switch pg.ConstraintName(err) {
			case "tenants_slug_key":
				return ErrSlugTaken
			case "tenants_domain_key":
				return ErrDomainTaken
			}
		}
		return fmt.Errorf("insert tenant: %w", err)
	}
	return nil
}

// BySlug looks a tenant up by its subdomain label.
func (s *Store) BySlug(ctx context.Context, slug string) (*tenant.Tenant, error) {
	const q = `SELECT ` + tenantColumns + ` FROM tenants WHERE slug = $1`
	return scanTenant(s.db.QueryRow(ctx, q, slug))
}

// ByDomain looks a tenant up by its verified custom domain.
func (s *Store) ByDomain(ctx context.Context, domain string) (*tenant.Tenant, error) {
	const q = `SELECT ` + tenantColumns + ` FROM tenants WHERE domain = $1`
	return scanTenant(s.db.QueryRow(ctx, q, domain))
}

// ByID looks a tenant up by its primary key.
func (s *Store) ByID(ctx context.Context, id uuid.UUID) (*tenant.Tenant, error) {
	const q = `SELECT ` + tenantColumns + ` FROM tenants WHERE id = $1`
	return scanTenant(s.db.QueryRow(ctx, q, id))
}

// List returns all tenants, newest first. Platform administration only.
func (s *Store) List(ctx context.Context) ([]*tenant.Tenant, error) {
	const q = `SELECT ` + tenantColumns + ` FROM tenants ORDER BY created_at DESC`

	rows, err := s.db.Query(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("list tenants: %w", err)
	}
	defer rows.Close()

	var out []*tenant.Tenant
	for rows.Next() {
		t, err := scanTenant(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, rows.Err()
}

// SetStatus transitions a tenant's lifecycle state.
func (s *Store) SetStatus(ctx context.Context, id uuid.UUID, status tenant.Status) error {
	const q = `UPDATE tenants SET status = $2, updated_at = now() WHERE id = $1`

	tag, err := s.db.Exec(ctx, q, id, status)
	if err != nil {
		return fmt.Errorf("set tenant status: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return tenant.ErrTenantNotFound
	}
	return nil
}

// SetSlug renames a tenant's slug.
func (s *Store) SetSlug(ctx context.Context, id uuid.UUID, slug string) error {
	const q = `UPDATE tenants SET slug = $2, updated_at = now() WHERE id = $1`

	tag, err := s.db.Exec(ctx, q, id, slug)
	if err != nil {
		if pg.IsDuplicateKeyError(err) {
			return ErrSlugTaken
		}
		return fmt.Errorf("set tenant slug: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return tenant.ErrTenantNotFound
	}
	return nil
}

// SetDomain claims or clears a tenant's custom domain.
func (s *Store) SetDomain(ctx context.Context, id uuid.UUID, domain *string) error {
	const q = `UPDATE tenants SET domain = $2, updated_at = now() WHERE id = $1`

	tag, err := s.db.Exec(ctx, q, id, domain)
	if err != nil {
		if pg.IsDuplicateKeyError(err) {
			return ErrDomainTaken
		}
		return fmt.Errorf("set tenant domain: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return tenant.ErrTenantNotFound
	}
	return nil
}

// SaveSettings replaces the tenant's settings document.
func (s *Store) SaveSettings(ctx context.Context, id uuid.UUID, settings tenant.Settings) error {
	const q = `UPDATE tenants SET settings = $2, updated_at = now() WHERE id = $1`

	tag, err := s.db.Exec(ctx, q, id, settings)
	if err != nil {
		return fmt.Errorf("save tenant settings: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return tenant.ErrTenantNotFound
	}
	return nil
}

// SaveTheme replaces the tenant's theme document.
func (s *Store) SaveTheme(ctx context.Context, id uuid.UUID, theme tenant.Theme) error {
	const q = `UPDATE tenants SET theme = $2, updated_at = now() WHERE id = $1`

	tag, err := s.db.Exec(ctx, q, id, theme)
	if err != nil {
		return fmt.Errorf("save tenant theme: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return tenant.ErrTenantNotFound
	}
	return nil
}
