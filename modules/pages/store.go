package pages

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/collectif/platform/pkg/pg"
	"github.com/collectif/platform/pkg/scopeddb"
)

// Store persists pages through the tenant-scoped handle. Page slugs are
// unique per tenant, not globally: two associations can both have an
// "about" page.
type Store struct{}

// NewStore constructs the page store.
func NewStore() *Store {
	return &Store{}
}

const columns = `id, tenant_id, slug, title, blocks, published, created_at, updated_at`

func scan(row pgx.Row) (*Page, error) {
	var p Page
	err := row.Scan(&p.ID, &p.TenantID, &p.Slug, &p.Title, &p.Blocks, &p.Published, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		if pg.IsNotFoundError(err) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("scan page: %w", err)
	}
	return &p, nil
}

// Create inserts a page into the current tenant.
func (s *Store) Create(ctx context.Context, p *Page) error {
	if !ValidSlug(p.Slug) {
		return ErrInvalidSlug
	}

	const q = `
		INSERT INTO pages (id, tenant_id, slug, title, blocks, published, created_at, updated_at)
		VALUES (@id, @tenant_id, @slug, @title, @blocks, @published, @created_at, @updated_at)`

	scope := scopeddb.MustScope(ctx)
	p.TenantID = scope.TenantID()

	_, err := scope.Exec(ctx, q, pgx.NamedArgs{
		"id":         p.ID,
		"slug":       p.Slug,
		"title":      p.Title,
		"blocks":     p.Blocks,
		"published":  p.Published,
		"created_at": p.CreatedAt,
		"updated_at": p.UpdatedAt,
	})
	if err != nil {
		if pg.IsDuplicateKeyError(err) {
			return ErrSlugTaken
		}
		return fmt.Errorf("insert page: %w", err)
	}
	return nil
}

// BySlug returns a page of the current tenant by its path segment.
func (s *Store) BySlug(ctx context.Context, slug string) (*Page, error) {
	const q = `SELECT ` + columns + ` FROM pages WHERE tenant_id = @tenant_id AND slug = @slug`

	row, err := scopeddb.MustScope(ctx).QueryRow(ctx, q, pgx.NamedArgs{"slug": slug})
	if err != nil {
		return nil, err
	}
	return scan(row)
}

// List returns the current tenant's pages.
func (s *Store) List(ctx context.Context) ([]*Page, error) {
	const q = `SELECT ` + columns + ` FROM pages WHERE tenant_id = @tenant_id ORDER BY slug`

	rows, err := scopeddb.MustScope(ctx).Query(ctx, q, nil)
	if err != nil {
		return nil, fmt.Errorf("list pages: %w", err)
	}
	defer rows.Close()

	var out []*Page
	for rows.Next() {
		p, err := scan(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

// Update replaces a page's content and publication state.
func (s *Store) Update(ctx context.Context, p *Page) error {
	const q = `
		UPDATE pages
		SET title = @title, blocks = @blocks, published = @published, updated_at = now()
		WHERE tenant_id = @tenant_id AND id = @id`

	tag, err := scopeddb.MustScope(ctx).Exec(ctx, q, pgx.NamedArgs{
		"id":        p.ID,
		"title":     p.Title,
		"blocks":    p.Blocks,
		"published": p.Published,
	})
	if err != nil {
		return fmt.Errorf("update page: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// Delete removes a page from the current tenant.
func (s *Store) Delete(ctx context.Context, id uuid.UUID) error {
	const q = `DELETE FROM pages WHERE tenant_id = @tenant_id AND id = @id`

	tag, err := scopeddb.MustScope(ctx).Exec(ctx, q, pgx.NamedArgs{"id": id})
	if err != nil {
		return fmt.Errorf("delete page: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
