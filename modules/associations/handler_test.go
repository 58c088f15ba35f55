package associations_test

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

	"github.com/collectif/platform/modules/associations"
)

type fakeStore struct {
	mu   sync.Mutex
	byID map[uuid.UUID]*associations.Association
}

func newFakeStore() *fakeStore {
	return &fakeStore{byID: make(map[uuid.UUID]*associations.Association)}
}

func (f *fakeStore) Create(_ context.Context, a *associations.Association) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	cp := *a
	f.byID[a.ID] = &cp
	return nil
}

func (f *fakeStore) ByID(_ context.Context, id uuid.UUID) (*associations.Association, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	a, ok := f.byID[id]
	if !ok {
		return nil, associations.ErrNotFound
	}
	cp := *a
	return &cp, nil
}

func (f *fakeStore) List(_ context.Context) ([]*associations.Association, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]*associations.Association, 0, len(f.byID))
	for _, a := range f.byID {
		cp := *a
		out = append(out, &cp)
	}
	return out, nil
}

func (f *fakeStore) Update(_ context.Context, a *associations.Association) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	existing, ok := f.byID[a.ID]
	if !ok {
		return associations.ErrNotFound
	}
	existing.Name = a.Name
	existing.Description = a.Description
	existing.Email = a.Email
	existing.Website = a.Website
	return nil
}

func (f *fakeStore) Delete(_ context.Context, id uuid.UUID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.byID[id]; !ok {
		return associations.ErrNotFound
	}
	delete(f.byID, id)
	return nil
}

func postJSON(t *testing.T, h http.Handler, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	raw, err := json.Marshal(body)
	require.NoError(t, err)
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(raw))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestCreateAndGet(t *testing.T) {
	t.Parallel()

	store := newFakeStore()
	h := associations.NewHandler(store)

	rec := postJSON(t, h.WriteRouter(), "/", map[string]string{
		"name":        "Les Amis du Quartier",
		"description": "Neighborhood support network",
	})
	require.Equal(t, http.StatusCreated, rec.Code)

	var created struct {
		Data associations.Association `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &created))
	assert.Equal(t, "Les Amis du Quartier", created.Data.Name)

	getRec := httptest.NewRecorder()
	h.ReadRouter().ServeHTTP(getRec, httptest.NewRequest(http.MethodGet, "/"+created.Data.ID.String(), nil))
	assert.Equal(t, http.StatusOK, getRec.Code)
}

func TestCreateRejectsEmptyName(t *testing.T) {
	t.Parallel()

	h := associations.NewHandler(newFakeStore())
	rec := postJSON(t, h.WriteRouter(), "/", map[string]string{"name": "   "})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestGetUnknown(t *testing.T) {
	t.Parallel()

	h := associations.NewHandler(newFakeStore())

	rec := httptest.NewRecorder()
	h.ReadRouter().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/"+uuid.NewString(), nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = httptest.NewRecorder()
	h.ReadRouter().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/not-a-uuid", nil))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestUpdateAndDelete(t *testing.T) {
	t.Parallel()

	store := newFakeStore()
	h := associations.NewHandler(store)

	rec := postJSON(t, h.WriteRouter(), "/", map[string]string{"name": "Acme"})
	require.Equal(t, http.StatusCreated, rec.Code)
	var created struct {
		Data associations.Association `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &created))
	id := created.Data.ID

	raw, err := json.Marshal(map[string]string{"name": "Acme Renamed"})
	require.NoError(t, err)
	upd := httptest.NewRequest(http.MethodPut, "/"+id.String(), bytes.NewReader(raw))
	updRec := httptest.NewRecorder()
	h.WriteRouter().ServeHTTP(updRec, upd)
	require.Equal(t, http.StatusOK, updRec.Code)

	got, err := store.ByID(context.Background(), id)
	require.NoError(t, err)
	assert.Equal(t, "Acme Renamed", got.Name)

	del := httptest.NewRequest(http.MethodDelete, "/"+id.String(), nil)
	delRec := httptest.NewRecorder()
	h.WriteRouter().ServeHTTP(delRec, del)
	require.Equal(t, http.StatusNoContent, delRec.Code)

	_, err = store.ByID(context.Background(), id)
	assert.ErrorIs(t, err, associations.ErrNotFound)
}
