package directory

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/collectif/platform/pkg/slug"
	"github.com/collectif/platform/pkg/tenant"
)

// Storer is the persistence surface the directory service needs. The pgx
// Store satisfies it; tests use an in-memory fake.
type Storer interface {
	tenant.Directory
	Create(ctx context.Context, t *tenant.Tenant) error
	List(ctx context.Context) ([]*tenant.Tenant, error)
	SetStatus(ctx context.Context, id uuid.UUID, status tenant.Status) error
	SetSlug(ctx context.Context, id uuid.UUID, slug string) error
	SetDomain(ctx context.Context, id uuid.UUID, domain *string) error
	SaveSettings(ctx context.Context, id uuid.UUID, settings tenant.Settings) error
	SaveTheme(ctx context.Context, id uuid.UUID, theme tenant.Theme) error
}

// Service provisions and administers tenants. All operations here are
// platform-level; tenant-facing settings updates go through the handler
// with an admin guard.
type Service struct {
	store          Storer
	log            *slog.Logger
	platformSuffix string
}

// NewService constructs the directory service. platformSuffix is the
// platform's base domain (e.g. "donate.example"); custom domains under it
// are rejected because subdomain slugs already cover that space.
func NewService(store Storer, log *slog.Logger, platformSuffix string) *Service {
	return &Service{
		store:          store,
		log:            log,
		platformSuffix: strings.TrimPrefix(strings.ToLower(platformSuffix), "."),
	}
}

const slugRetries = 3

// Provision creates a tenant from a display name. The slug derives from the
// name; on collision a random suffix is appended and the insert retried.
func (s *Service) Provision(ctx context.Context, name string) (*tenant.Tenant, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, ErrInvalidName
	}

	base := slug.Make(name, slug.MaxLength(tenant.MaxIdentifierLength))
	candidate := base
	if candidate == "" {
		candidate = slug.Make(name, slug.MaxLength(tenant.MaxIdentifierLength), slug.WithSuffix(8))
	}

	now := time.Now().UTC()
	t := &tenant.Tenant{
		ID:        uuid.New(),
		Name:      name,
		Slug:      candidate,
		Status:    tenant.StatusActive,
		Settings:  tenant.DefaultSettings(),
		Theme:     tenant.DefaultTheme(),
		CreatedAt: now,
		UpdatedAt: now,
	}

	for attempt := 0; ; attempt++ {
		err := s.store.Create(ctx, t)
		if err == nil {
			s.log.InfoContext(ctx, "tenant provisioned",
				slog.String("tenant_id", t.ID.String()),
				slog.String("slug", t.Slug))
			return t, nil
		}
		if !errors.Is(err, ErrSlugTaken) || attempt >= slugRetries {
			return nil, fmt.Errorf("provision tenant: %w", err)
		}
		t.Slug = slug.Make(name, slug.MaxLength(tenant.MaxIdentifierLength), slug.WithSuffix(6))
	}
}

var slugValuePattern = regexp.MustCompile(`^[a-z0-9]([a-z0-9-]*[a-z0-9])?$`)

// RenameSlug changes a tenant's slug. Renames invalidate every link built
// on the old subdomain, so this is an explicit administrative operation,
// never a side effect of changing the display name.
func (s *Service) RenameSlug(ctx context.Context, id uuid.UUID, newSlug string) error {
	newSlug = strings.ToLower(strings.TrimSpace(newSlug))
	if len(newSlug) > tenant.MaxIdentifierLength || !slugValuePattern.MatchString(newSlug) {
		return ErrInvalidSlug
	}

	if err := s.store.SetSlug(ctx, id, newSlug); err != nil {
		return err
	}
	s.log.InfoContext(ctx, "tenant slug renamed",
		slog.String("tenant_id", id.String()),
		slog.String("slug", newSlug))
	return nil
}

// domainPattern accepts bare hostnames with at least two labels.
var domainPattern = regexp.MustCompile(`^[a-z0-9]([a-z0-9-]*[a-z0-9])?(\.[a-z0-9]([a-z0-9-]*[a-z0-9])?)+$`)

// ClaimDomain attaches a verified custom domain to the tenant. Domains under
// the platform suffix are rejected; those are served by subdomain slugs.
func (s *Service) ClaimDomain(ctx context.Context, id uuid.UUID, domain string) error {
	domain = strings.ToLower(strings.TrimSpace(domain))
	if !domainPattern.MatchString(domain) {
		return ErrInvalidDomain
	}
	if s.platformSuffix != "" && (domain == s.platformSuffix || strings.HasSuffix(domain, "."+s.platformSuffix)) {
		return ErrInvalidDomain
	}

	if err := s.store.SetDomain(ctx, id, &domain); err != nil {
		return err
	}
	s.log.InfoContext(ctx, "tenant domain claimed",
		slog.String("tenant_id", id.String()),
		slog.String("domain", domain))
	return nil
}

// ReleaseDomain clears the tenant's custom domain.
func (s *Service) ReleaseDomain(ctx context.Context, id uuid.UUID) error {
	return s.store.SetDomain(ctx, id, nil)
}

// Suspend takes the tenant offline. Resolution keeps finding it but requests
// are rejected with a suspension outcome distinct from "not found".
func (s *Service) Suspend(ctx context.Context, id uuid.UUID) error {
	if err := s.store.SetStatus(ctx, id, tenant.StatusSuspended); err != nil {
		return err
	}
	s.log.WarnContext(ctx, "tenant suspended", slog.String("tenant_id", id.String()))
	return nil
}

// Reactivate returns a suspended tenant to service.
func (s *Service) Reactivate(ctx context.Context, id uuid.UUID) error {
	if err := s.store.SetStatus(ctx, id, tenant.StatusActive); err != nil {
		return err
	}
	s.log.InfoContext(ctx, "tenant reactivated", slog.String("tenant_id", id.String()))
	return nil
}

// UpdateSettings persists a full settings document. The stored blob is
// always stamped with the current schema version.
func (s *Service) UpdateSettings(ctx context.Context, id uuid.UUID, settings tenant.Settings) error {
	settings.Version = tenant.SettingsVersion
	if settings.Locale == "" || settings.Currency == "" || settings.Timezone == "" {
		defaults := tenant.DefaultSettings()
		if settings.Locale == "" {
			settings.Locale = defaults.Locale
		}
		if settings.Currency == "" {
			settings.Currency = defaults.Currency
		}
		if settings.Timezone == "" {
			settings.Timezone = defaults.Timezone
		}
	}
	return s.store.SaveSettings(ctx, id, settings)
}

// UpdateTheme persists a full theme document.
func (s *Service) UpdateTheme(ctx context.Context, id uuid.UUID, theme tenant.Theme) error {
	theme.Version = tenant.ThemeVersion
	return s.store.SaveTheme(ctx, id, theme)
}

// Get returns a tenant by id.
func (s *Service) Get(ctx context.Context, id uuid.UUID) (*tenant.Tenant, error) {
	return s.store.ByID(ctx, id)
}

// List returns all tenants.
func (s *Service) List(ctx context.Context) ([]*tenant.Tenant, error) {
	return s.store.List(ctx)
}
