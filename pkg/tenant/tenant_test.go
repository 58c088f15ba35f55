package tenant_test

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/collectif/platform/pkg/tenant"
)

func createTestTenant(slug string, status tenant.Status) *tenant.Tenant {
	return &tenant.Tenant{
		ID:        uuid.New(),
		Name:      slug,
		Slug:      slug,
		Status:    status,
		Settings:  tenant.DefaultSettings(),
		Theme:     tenant.DefaultTheme(),
		CreatedAt: time.Now(),
		UpdatedAt: time.Now(),
	}
}

// stubDirectory is an in-memory Directory used across the package tests.
type stubDirectory struct {
	bySlug   map[string]*tenant.Tenant
	byDomain map[string]*tenant.Tenant
	byID     map[uuid.UUID]*tenant.Tenant
	calls    int
}

func newStubDirectory(tenants ...*tenant.Tenant) *stubDirectory {
	d := &stubDirectory{
		bySlug:   make(map[string]*tenant.Tenant),
		byDomain: make(map[string]*tenant.Tenant),
		byID:     make(map[uuid.UUID]*tenant.Tenant),
	}
	for _, t := range tenants {
		d.bySlug[t.Slug] = t
		if t.Domain != "" {
			d.byDomain[t.Domain] = t
		}
		d.byID[t.ID] = t
	}
	return d
}

func (d *stubDirectory) BySlug(ctx context.Context, slug string) (*tenant.Tenant, error) {
	d.calls++
	if t, ok := d.bySlug[slug]; ok {
		return t, nil
	}
	return nil, tenant.ErrTenantNotFound
}

func (d *stubDirectory) ByDomain(ctx context.Context, domain string) (*tenant.Tenant, error) {
	d.calls++
	if t, ok := d.byDomain[domain]; ok {
		return t, nil
	}
	return nil, tenant.ErrTenantNotFound
}

func (d *stubDirectory) ByID(ctx context.Context, id uuid.UUID) (*tenant.Tenant, error) {
	d.calls++
	if t, ok := d.byID[id]; ok {
		return t, nil
	}
	return nil, tenant.ErrTenantNotFound
}

func TestTenantStatus(t *testing.T) {
	t.Parallel()

	t.Run("active tenant", func(t *testing.T) {
		t.Parallel()

		tn := createTestTenant("acme", tenant.StatusActive)
		assert.True(t, tn.Active())
		assert.False(t, tn.Suspended())
	})

	t.Run("suspended tenant", func(t *testing.T) {
		t.Parallel()

		tn := createTestTenant("acme", tenant.StatusSuspended)
		assert.False(t, tn.Active())
		assert.True(t, tn.Suspended())
	})

	t.Run("pending tenant is not active", func(t *testing.T) {
		t.Parallel()

		tn := createTestTenant("acme", tenant.StatusPending)
		assert.False(t, tn.Active())
		assert.False(t, tn.Suspended())
	})
}

func TestSettingsDefaults(t *testing.T) {
	t.Parallel()

	t.Run("empty blob yields defaults", func(t *testing.T) {
		t.Parallel()

		var s tenant.Settings
		require.NoError(t, json.Unmarshal([]byte(`{}`), &s))
		assert.Equal(t, tenant.DefaultSettings(), s)
	})

	t.Run("null blob yields defaults", func(t *testing.T) {
		t.Parallel()

		var s tenant.Settings
		require.NoError(t, json.Unmarshal([]byte(`null`), &s))
		assert.Equal(t, tenant.DefaultSettings(), s)
	})

	t.Run("partial blob keeps known keys and defaults the rest", func(t *testing.T) {
		t.Parallel()

		var s tenant.Settings
		require.NoError(t, json.Unmarshal([]byte(`{"locale":"fr","currency":"USD"}`), &s))
		assert.Equal(t, "fr", s.Locale)
		assert.Equal(t, "USD", s.Currency)
		assert.Equal(t, "UTC", s.Timezone)
		assert.Equal(t, tenant.SettingsVersion, s.Version)
	})

	t.Run("version is stamped on decode", func(t *testing.T) {
		t.Parallel()

		var s tenant.Settings
		require.NoError(t, json.Unmarshal([]byte(`{"version":0,"locale":"de"}`), &s))
		assert.Equal(t, tenant.SettingsVersion, s.Version)
	})

	t.Run("unknown keys are dropped", func(t *testing.T) {
		t.Parallel()

		var s tenant.Settings
		require.NoError(t, json.Unmarshal([]byte(`{"locale":"es","legacy_flag":true}`), &s))
		assert.Equal(t, "es", s.Locale)
	})
}

func TestThemeDefaults(t *testing.T) {
	t.Parallel()

	t.Run("empty blob yields defaults", func(t *testing.T) {
		t.Parallel()

		var th tenant.Theme
		require.NoError(t, json.Unmarshal([]byte(`{}`), &th))
		assert.Equal(t, tenant.DefaultTheme(), th)
	})

	t.Run("partial blob defaults missing colors", func(t *testing.T) {
		t.Parallel()

		var th tenant.Theme
		require.NoError(t, json.Unmarshal([]byte(`{"logo_url":"https://cdn.example.com/acme.png"}`), &th))
		assert.Equal(t, "https://cdn.example.com/acme.png", th.LogoURL)
		assert.Equal(t, tenant.DefaultTheme().PrimaryColor, th.PrimaryColor)
		assert.Equal(t, tenant.DefaultTheme().AccentColor, th.AccentColor)
	})
}
