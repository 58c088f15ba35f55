package associations

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/collectif/platform/pkg/pg"
	"github.com/collectif/platform/pkg/scopeddb"
)

// Store persists associations through the tenant-scoped handle bound to
// the request context.
type Store struct{}

// NewStore constructs the association store.
func NewStore() *Store {
	return &Store{}
}

const columns = `id, tenant_id, name, description, email, website, created_at, updated_at`

func scan(row pgx.Row) (*Association, error) {
	var a Association
	err := row.Scan(&a.ID, &a.TenantID, &a.Name, &a.Description, &a.Email, &a.Website, &a.CreatedAt, &a.UpdatedAt)
	if err != nil {
		if pg.IsNotFoundError(err) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("scan association: %w", err)
	}
	return &a, nil
}

// Create inserts an association into the current tenant. The tenant id is
// stamped by the scope, never taken from the value.
func (s *Store) Create(ctx context.Context, a *Association) error {
	const q = `
		INSERT INTO associations (id, tenant_id, name, description, email, website, created_at, updated_at)
		VALUES (@id, @tenant_id, @name, @description, @email, @website, @created_at, @updated_at)`

	scope := scopeddb.MustScope(ctx)
	a.TenantID = scope.TenantID()

	_, err := scope.Exec(ctx, q, pgx.NamedArgs{
		"id":          a.ID,
		"name":        a.Name,
		"description": a.Description,
		"email":       a.Email,
		"website":     a.Website,
		"created_at":  a.CreatedAt,
		"updated_at":  a.UpdatedAt,
	})
	if err != nil {
		return fmt.Errorf("insert association: %w", err)
	}
	return nil
}

// ByID returns an association of the current tenant.
func (s *Store) ByID(ctx context.Context, id uuid.UUID) (*Association, error) {
	const q = `SELECT ` + columns + ` FROM associations WHERE tenant_id = @tenant_id AND id = @id`

	row, err := scopeddb.MustScope(ctx).QueryRow(ctx, q, pgx.NamedArgs{"id": id})
	if err != nil {
		return nil, err
	}
	return scan(row)
}

// List returns the current tenant's associations.
func (s *Store) List(ctx context.Context) ([]*Association, error) {
	const q = `SELECT ` + columns + ` FROM associations WHERE tenant_id = @tenant_id ORDER BY created_at`

	rows, err := scopeddb.MustScope(ctx).Query(ctx, q, nil)
	if err != nil {
		return nil, fmt.Errorf("list associations: %w", err)
	}
	defer rows.Close()

	var out []*Association
	for rows.Next() {
		a, err := scan(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

// Update replaces the mutable fields of an association.
func (s *Store) Update(ctx context.Context, a *Association) error {
	const q = `
		UPDATE associations
		SET name = @name, description = @description, email = @email, website = @website, updated_at = now()
		WHERE tenant_id = @tenant_id AND id = @id`

	tag, err := scopeddb.MustScope(ctx).Exec(ctx, q, pgx.NamedArgs{
		"id":          a.ID,
		"name":        a.Name,
		"description": a.Description,
		"email":       a.Email,
		"website":     a.Website,
	})
	if err != nil {
		return fmt.Errorf("update association: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// Delete removes an association from the current tenant.
func (s *Store) Delete(ctx context.Context, id uuid.UUID) error {
	const q = `DELETE FROM associations WHERE tenant_id = @tenant_id AND id = @id`

	tag, err := scopeddb.MustScope(ctx).Exec(ctx, q, pgx.NamedArgs{"id": id})
	if err != nil {
		return fmt.Errorf("delete association: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
