package pages_test

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/collectif/platform/modules/pages"
	"github.com/collectif/platform/pkg/scopeddb"
)

// recordingDB captures executed statements so tests can assert on the
// tenant stamping without a database.
type recordingDB struct {
	sql  string
	args []any
}

func (r *recordingDB) Exec(_ context.Context, sql string, args ...any) (pgconn.CommandTag, error) {
	r.sql = sql
	r.args = args
	return pgconn.NewCommandTag("INSERT 0 1"), nil
}

func (r *recordingDB) Query(_ context.Context, sql string, args ...any) (pgx.Rows, error) {
	r.sql = sql
	r.args = args
	return nil, pgx.ErrNoRows
}

func (r *recordingDB) QueryRow(_ context.Context, sql string, args ...any) pgx.Row {
	r.sql = sql
	r.args = args
	return nil
}

func TestCreateStampsTenant(t *testing.T) {
	t.Parallel()

	db := &recordingDB{}
	tenantID := uuid.New()
	ctx := scopeddb.WithScope(context.Background(), scopeddb.New(db, tenantID))

	store := pages.NewStore()
	p := &pages.Page{
		ID:        uuid.New(),
		Slug:      "about",
		Title:     "About us",
		Blocks:    json.RawMessage(`{"blocks":[]}`),
		CreatedAt: time.Now().UTC(),
		UpdatedAt: time.Now().UTC(),
	}
	require.NoError(t, store.Create(ctx, p))

	assert.Equal(t, tenantID, p.TenantID, "tenant comes from the scope")
	require.Len(t, db.args, 1)
	named, ok := db.args[0].(pgx.NamedArgs)
	require.True(t, ok)
	assert.Equal(t, tenantID, named["tenant_id"])
	assert.Contains(t, db.sql, "@tenant_id")
}

func TestCreateRejectsInvalidSlug(t *testing.T) {
	t.Parallel()

	ctx := scopeddb.WithScope(context.Background(), scopeddb.New(&recordingDB{}, uuid.New()))
	store := pages.NewStore()

	err := store.Create(ctx, &pages.Page{ID: uuid.New(), Slug: "Bad Slug"})
	assert.ErrorIs(t, err, pages.ErrInvalidSlug)
}

func TestCreatePanicsWithoutScope(t *testing.T) {
	t.Parallel()

	store := pages.NewStore()
	assert.Panics(t, func() {
		_ = store.Create(context.Background(), &pages.Page{ID: uuid.New(), Slug: "about"})
	})
}
