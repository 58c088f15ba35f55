package campaigns

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/collectif/platform/pkg/pg"
	"github.com/collectif/platform/pkg/scopeddb"
)

// Store persists campaigns through the tenant-scoped handle.
type Store struct{}

// NewStore constructs the campaign store.
func NewStore() *Store {
	return &Store{}
}

const columns = `id, tenant_id, title, description, goal_amount, raised_amount, currency, active, ends_at, created_at, updated_at`

func scan(row pgx.Row) (*Campaign, error) {
	var c Campaign
	err := row.Scan(&c.ID, &c.TenantID, &c.Title, &c.Description, &c.GoalAmount, &c.RaisedAmount, &c.Currency, &c.Active, &c.EndsAt, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		if pg.IsNotFoundError(err) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("scan campaign: %w", err)
	}
	return &c, nil
}

// Create inserts a campaign into the current tenant.
func (s *Store) Create(ctx context.Context, c *Campaign) error {
	const q = `
		INSERT INTO campaigns (id, tenant_id, title, description, goal_amount, raised_amount, currency, active, ends_at, created_at, updated_at)
		VALUES (@id, @tenant_id, @title, @description, @goal_amount, @raised_amount, @currency, @active, @ends_at, @created_at, @updated_at)`

	scope := scopeddb.MustScope(ctx)
	c.TenantID = scope.TenantID()

	_, err := scope.Exec(ctx, q, pgx.NamedArgs{
		"id":            c.ID,
		"title":         c.Title,
		"description":   c.Description,
		"goal_amount":   c.GoalAmount,
		"raised_amount": c.RaisedAmount,
		"currency":      c.Currency,
		"active":        c.Active,
		"ends_at":       c.EndsAt,
		"created_at":    c.CreatedAt,
		"updated_at":    c.UpdatedAt,
	})
	if err != nil {
		return fmt.Errorf("insert campaign: %w", err)
	}
	return nil
}

// ByID returns a campaign of the current tenant.
func (s *Store) ByID(ctx context.Context, id uuid.UUID) (*Campaign, error) {
	const q = `SELECT ` + columns + ` FROM campaigns WHERE tenant_id = @tenant_id AND id = @id`

	row, err := scopeddb.MustScope(ctx).QueryRow(ctx, q, pgx.NamedArgs{"id": id})
	if err != nil {
		return nil, err
	}
	return scan(row)
}

// List returns the current tenant's campaigns, newest first.
func (s *Store) List(ctx context.Context) ([]*Campaign, error) {
	const q = `SELECT ` + columns + ` FROM campaigns WHERE tenant_id = @tenant_id ORDER BY created_at DESC`

	rows, err := scopeddb.MustScope(ctx).Query(ctx, q, nil)
	if err != nil {
		return nil, fmt.Errorf("list campaigns: %w", err)
	}
	defer rows.Close()

	var out []*Campaign
	for rows.Next() {
		c, err := scan(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

// Update replaces a campaign's mutable fields. The raised amount is not
// updatable here; it only moves through AddRaised.
func (s *Store) Update(ctx context.Context, c *Campaign) error {
	const q = `
		UPDATE campaigns
		SET title = @title, description = @description, goal_amount = @goal_amount,
		    currency = @currency, active = @active, ends_at = @ends_at, updated_at = now()
		WHERE tenant_id = @tenant_id AND id = @id`

	tag, err := scopeddb.MustScope(ctx).Exec(ctx, q, pgx.NamedArgs{
		"id":          c.ID,
		"title":       c.Title,
		"description": c.Description,
		"goal_amount": c.GoalAmount,
		"currency":    c.Currency,
		"active":      c.Active,
		"ends_at":     c.EndsAt,
	})
	if err != nil {
		return fmt.Errorf("update campaign: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// AddRaised atomically increments the raised amount when a donation
// succeeds.
func (s *Store) AddRaised(ctx context.Context, id uuid.UUID, amount int64) error {
	const q = `
		UPDATE campaigns
		SET raised_amount = raised_amount + @amount, updated_at = now()
		WHERE tenant_id = @tenant_id AND id = @id`

	tag, err := scopeddb.MustScope(ctx).Exec(ctx, q, pgx.NamedArgs{"id": id, "amount": amount})
	if err != nil {
		return fmt.Errorf("add raised amount: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// Delete removes a campaign from the current tenant.
func (s *Store) Delete(ctx context.Context, id uuid.UUID) error {
	const q = `DELETE FROM campaigns WHERE tenant_id = @tenant_id AND id = @id`

	tag, err := scopeddb.MustScope(ctx).Exec(ctx, q, pgx.NamedArgs{"id": id})
	if err != nil {
		return fmt.Errorf("delete campaign: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
