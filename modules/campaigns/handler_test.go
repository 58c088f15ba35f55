package campaigns_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/collectif/platform/modules/campaigns"
	"github.com/collectif/platform/pkg/tenant"
)

type fakeStore struct {
	mu   sync.Mutex
	byID map[uuid.UUID]*campaigns.Campaign
}

func newFakeStore() *fakeStore {
	return &fakeStore{byID: make(map[uuid.UUID]*campaigns.Campaign)}
}

func (f *fakeStore) Create(_ context.Context, c *campaigns.Campaign) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	cp := *c
	f.byID[c.ID] = &cp
	return nil
}

func (f *fakeStore) ByID(_ context.Context, id uuid.UUID) (*campaigns.Campaign, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	c, ok := f.byID[id]
	if !ok {
		return nil, campaigns.ErrNotFound
	}
	cp := *c
	return &cp, nil
}

func (f *fakeStore) List(_ context.Context) ([]*campaigns.Campaign, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]*campaigns.Campaign, 0, len(f.byID))
	for _, c := range f.byID {
		cp := *c
		out = append(out, &cp)
	}
	return out, nil
}

func (f *fakeStore) Update(_ context.Context, c *campaigns.Campaign) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.byID[c.ID]; !ok {
		return campaigns.ErrNotFound
	}
	cp := *c
	f.byID[c.ID] = &cp
	return nil
}

func (f *fakeStore) Delete(_ context.Context, id uuid.UUID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.byID[id]; !ok {
		return campaigns.ErrNotFound
	}
	delete(f.byID, id)
	return nil
}

func testTenant() *tenant.Tenant {
	return &tenant.Tenant{
		ID:       uuid.New(),
		Name:     "Acme",
		Slug:     "acme",
		Status:   tenant.StatusActive,
		Settings: tenant.DefaultSettings(),
		Theme:    tenant.DefaultTheme(),
	}
}

// withTenant injects a resolved tenant the way the tenant middleware would.
func withTenant(t *tenant.Tenant, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		next.ServeHTTP(w, r.WithContext(tenant.WithTenant(r.Context(), t)))
	})
}

func TestCreateDefaultsCurrencyFromTenantSettings(t *testing.T) {
	t.Parallel()

	store := newFakeStore()
	h := campaigns.NewHandler(store, "donate.example")
	router := withTenant(testTenant(), h.WriteRouter())

	body, _ := json.Marshal(map[string]any{"title": "Winter drive", "goal_amount": 500000})
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/", bytes.NewReader(body)))
	require.Equal(t, http.StatusCreated, rec.Code)

	var created struct {
		Data campaigns.Campaign `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &created))
	assert.Equal(t, "EUR", created.Data.Currency)
	assert.True(t, created.Data.Active)
	assert.Zero(t, created.Data.RaisedAmount)
}

func TestCreateRejectsInvalidInput(t *testing.T) {
	t.Parallel()

	h := campaigns.NewHandler(newFakeStore(), "donate.example")
	router := withTenant(testTenant(), h.WriteRouter())

	for name, body := range map[string]map[string]any{
		"missing title": {"goal_amount": 1000},
		"zero goal":     {"title": "x", "goal_amount": 0},
		"negative goal": {"title": "x", "goal_amount": -5},
	} {
		raw, _ := json.Marshal(body)
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/", bytes.NewReader(raw)))
		assert.Equal(t, http.StatusBadRequest, rec.Code, name)
	}
}

func TestShareURL(t *testing.T) {
	t.Parallel()

	h := campaigns.NewHandler(newFakeStore(), "donate.example")
	campaignID := uuid.New()

	t.Run("subdomain link without custom domain", func(t *testing.T) {
		t.Parallel()
		ctx := tenant.WithTenant(context.Background(), testTenant())
		assert.Equal(t,
			"https://acme.donate.example/campaigns/"+campaignID.String(),
			h.ShareURL(ctx, campaignID))
	})

	t.Run("custom domain link when claimed", func(t *testing.T) {
		t.Parallel()
		tn := testTenant()
		tn.Domain = "donate.acme.org"
		ctx := tenant.WithTenant(context.Background(), tn)
		assert.Equal(t,
			"https://donate.acme.org/campaigns/"+campaignID.String(),
			h.ShareURL(ctx, campaignID))
	})
}

func TestShareQR(t *testing.T) {
	t.Parallel()

	store := newFakeStore()
	c := &campaigns.Campaign{ID: uuid.New(), Title: "Drive", GoalAmount: 1000, Currency: "EUR"}
	require.NoError(t, store.Create(context.Background(), c))

	h := campaigns.NewHandler(store, "donate.example")
	router := withTenant(testTenant(), h.ReadRouter())

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/"+c.ID.String()+"/qr", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "image/png", rec.Header().Get("Content-Type"))
	// PNG magic bytes.
	assert.Equal(t, []byte{0x89, 'P', 'N', 'G'}, rec.Body.Bytes()[:4])

	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/"+uuid.NewString()+"/qr", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}
