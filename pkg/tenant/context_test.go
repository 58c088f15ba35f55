package tenant_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/collectif/platform/pkg/tenant"
)

func TestWithTenant(t *testing.T) {
	t.Parallel()

	t.Run("binds tenant to context", func(t *testing.T) {
		t.Parallel()

		tn := createTestTenant("acme", tenant.StatusActive)
		ctx := tenant.WithTenant(context.Background(), tn)

		got, ok := tenant.FromContext(ctx)
		require.True(t, ok)
		assert.Equal(t, tn, got)
	})

	t.Run("overwrites existing tenant in context", func(t *testing.T) {
		t.Parallel()

		first := createTestTenant("acme", tenant.StatusActive)
		second := createTestTenant("globex", tenant.StatusActive)

		ctx := tenant.WithTenant(context.Background(), first)
		ctx = tenant.WithTenant(ctx, second)

		got, ok := tenant.FromContext(ctx)
		require.True(t, ok)
		assert.Equal(t, second, got)
	})
}

func TestFromContext(t *testing.T) {
	t.Parallel()

	t.Run("returns nil and false for empty context", func(t *testing.T) {
		t.Parallel()

		got, ok := tenant.FromContext(context.Background())
		assert.False(t, ok)
		assert.Nil(t, got)
	})

	t.Run("returns false for foreign context value", func(t *testing.T) {
		t.Parallel()

		type otherKey struct{}
		ctx := context.WithValue(context.Background(), otherKey{}, "not a tenant")

		got, ok := tenant.FromContext(ctx)
		assert.False(t, ok)
		assert.Nil(t, got)
	})
}

func TestIDFromContext(t *testing.T) {
	t.Parallel()

	t.Run("returns bound tenant ID", func(t *testing.T) {
		t.Parallel()

		tn := createTestTenant("acme", tenant.StatusActive)
		ctx := tenant.WithTenant(context.Background(), tn)

		id, ok := tenant.IDFromContext(ctx)
		require.True(t, ok)
		assert.Equal(t, tn.ID, id)
	})

	t.Run("returns zero UUID without tenant", func(t *testing.T) {
		t.Parallel()

		id, ok := tenant.IDFromContext(context.Background())
		assert.False(t, ok)
		assert.True(t, id.String() == "00000000-0000-0000-0000-000000000000")
	})
}

func TestMustFromContext(t *testing.T) {
	t.Parallel()

	t.Run("returns bound tenant", func(t *testing.T) {
		t.Parallel()

		tn := createTestTenant("acme", tenant.StatusActive)
		ctx := tenant.WithTenant(context.Background(), tn)

		assert.Equal(t, tn, tenant.MustFromContext(ctx))
	})

	t.Run("panics without tenant", func(t *testing.T) {
		t.Parallel()

		assert.Panics(t, func() {
			tenant.MustFromContext(context.Background())
		})
	})
}

func TestLoggerExtractor(t *testing.T) {
	t.Parallel()

	t.Run("emits tenant_id attribute when bound", func(t *testing.T) {
		t.Parallel()

		tn := createTestTenant("acme", tenant.StatusActive)
		ctx := tenant.WithTenant(context.Background(), tn)

		attr, ok := tenant.LoggerExtractor()(ctx)
		require.True(t, ok)
		assert.Equal(t, "tenant_id", attr.Key)
		assert.Equal(t, tn.ID.String(), attr.Value.String())
	})

	t.Run("emits nothing without tenant", func(t *testing.T) {
		t.Parallel()

		_, ok := tenant.LoggerExtractor()(context.Background())
		assert.False(t, ok)
	})
}
