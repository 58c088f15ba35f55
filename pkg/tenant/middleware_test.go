package tenant_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/collectif/platform/pkg/tenant"
)

func TestMiddleware(t *testing.T) {
	t.Parallel()

	newHandler := func(captured **tenant.Tenant) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if tn, ok := tenant.FromContext(r.Context()); ok {
				*captured = tn
			}
			w.WriteHeader(http.StatusOK)
		})
	}

	t.Run("resolves tenant from subdomain", func(t *testing.T) {
		t.Parallel()

		acme := createTestTenant("acme", tenant.StatusActive)
		dir := newStubDirectory(acme)

		var captured *tenant.Tenant
		mw := tenant.Middleware(tenant.NewDefaultResolver(".example.com"), dir,
			tenant.WithCache(tenant.NewNoOpCache()))
		srv := mw(newHandler(&captured))

		req := httptest.NewRequest("GET", "http://acme.example.com/", nil)
		rec := httptest.NewRecorder()
		srv.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code)
		require.NotNil(t, captured)
		assert.Equal(t, acme.ID, captured.ID)
	})

	t.Run("resolves tenant from custom domain", func(t *testing.T) {
		t.Parallel()

		acme := createTestTenant("acme", tenant.StatusActive)
		acme.Domain = "donate.acme.org"
		dir := newStubDirectory(acme)

		var captured *tenant.Tenant
		mw := tenant.Middleware(tenant.NewDefaultResolver(".example.com"), dir,
			tenant.WithCache(tenant.NewNoOpCache()))
		srv := mw(newHandler(&captured))

		req := httptest.NewRequest("GET", "http://donate.acme.org/", nil)
		rec := httptest.NewRecorder()
		srv.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code)
		require.NotNil(t, captured)
		assert.Equal(t, acme.ID, captured.ID)
	})

	t.Run("unknown host answers not found", func(t *testing.T) {
		t.Parallel()

		dir := newStubDirectory()
		mw := tenant.Middleware(tenant.NewDefaultResolver(".example.com"), dir,
			tenant.WithCache(tenant.NewNoOpCache()))
		srv := mw(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			t.Fatal("handler must not run for unknown tenant")
		}))

		req := httptest.NewRequest("GET", "http://unknown.example.com/", nil)
		rec := httptest.NewRecorder()
		srv.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusNotFound, rec.Code)
	})

	t.Run("suspended tenant answers forbidden", func(t *testing.T) {
		t.Parallel()

		acme := createTestTenant("acme", tenant.StatusSuspended)
		dir := newStubDirectory(acme)

		mw := tenant.Middleware(tenant.NewDefaultResolver(".example.com"), dir,
			tenant.WithCache(tenant.NewNoOpCache()))
		srv := mw(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			t.Fatal("handler must not run for suspended tenant")
		}))

		req := httptest.NewRequest("GET", "http://acme.example.com/", nil)
		rec := httptest.NewRecorder()
		srv.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusForbidden, rec.Code)
	})

	t.Run("malformed identifier answers bad request", func(t *testing.T) {
		t.Parallel()

		dir := newStubDirectory()
		mw := tenant.Middleware(tenant.NewDefaultResolver(".example.com"), dir,
			tenant.WithCache(tenant.NewNoOpCache()))
		srv := mw(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			t.Fatal("handler must not run for malformed identifier")
		}))

		req := httptest.NewRequest("GET", "http://api.example.com/", nil)
		req.Header.Set("X-Tenant-ID", "no spaces allowed")
		rec := httptest.NewRecorder()
		srv.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("request without signal passes through untenanted", func(t *testing.T) {
		t.Parallel()

		dir := newStubDirectory()
		var captured *tenant.Tenant
		ran := false
		mw := tenant.Middleware(tenant.NewDefaultResolver(".example.com"), dir,
			tenant.WithCache(tenant.NewNoOpCache()))
		srv := mw(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ran = true
			captured, _ = tenant.FromContext(r.Context())
		}))

		req := httptest.NewRequest("GET", "http://example.com/", nil)
		rec := httptest.NewRecorder()
		srv.ServeHTTP(rec, req)

		assert.True(t, ran)
		assert.Nil(t, captured)
	})

	t.Run("skip paths bypass resolution", func(t *testing.T) {
		t.Parallel()

		dir := newStubDirectory()
		ran := false
		mw := tenant.Middleware(tenant.NewDefaultResolver(".example.com"), dir,
			tenant.WithCache(tenant.NewNoOpCache()),
			tenant.WithSkipPaths([]string{"/health"}))
		srv := mw(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ran = true
		}))

		// Unknown subdomain would normally 404; the skip path short-circuits.
		req := httptest.NewRequest("GET", "http://ghost.example.com/health", nil)
		rec := httptest.NewRecorder()
		srv.ServeHTTP(rec, req)

		assert.True(t, ran)
		assert.Equal(t, 0, dir.calls)
	})

	t.Run("second request is served from cache", func(t *testing.T) {
		t.Parallel()

		acme := createTestTenant("acme", tenant.StatusActive)
		dir := newStubDirectory(acme)

		cache := tenant.NewInMemoryCache()
		defer cache.Close()

		mw := tenant.Middleware(tenant.NewDefaultResolver(".example.com"), dir,
			tenant.WithCache(cache))
		srv := mw(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))

		for range 2 {
			req := httptest.NewRequest("GET", "http://acme.example.com/", nil)
			rec := httptest.NewRecorder()
			srv.ServeHTTP(rec, req)
			assert.Equal(t, http.StatusOK, rec.Code)
		}

		assert.Equal(t, 1, dir.calls)
	})
}

func TestRequireTenant(t *testing.T) {
	t.Parallel()

	t.Run("passes when tenant is bound", func(t *testing.T) {
		t.Parallel()

		acme := createTestTenant("acme", tenant.StatusActive)
		ran := false
		srv := tenant.RequireTenant(nil)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ran = true
		}))

		req := httptest.NewRequest("GET", "http://acme.example.com/", nil)
		req = req.WithContext(tenant.WithTenant(req.Context(), acme))
		rec := httptest.NewRecorder()
		srv.ServeHTTP(rec, req)

		assert.True(t, ran)
	})

	t.Run("rejects when no tenant is bound", func(t *testing.T) {
		t.Parallel()

		srv := tenant.RequireTenant(nil)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			t.Fatal("handler must not run without tenant")
		}))

		req := httptest.NewRequest("GET", "http://example.com/", nil)
		rec := httptest.NewRecorder()
		srv.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusNotFound, rec.Code)
	})
}
