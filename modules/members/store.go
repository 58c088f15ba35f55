package members

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/collectif/platform/pkg/pg"
	"github.com/collectif/platform/pkg/scopeddb"
)

// Store is the tenant-scoped member store. Every query runs through the
// scoped handle bound to the request context, so a member of one
// association can never be read or written from another association's
// request.
type Store struct{}

// NewStore constructs the scoped member store.
func NewStore() *Store {
	return &Store{}
}

const memberColumns = `id, tenant_id, email, name, role, password_hash, active, created_at, updated_at`

func scanMember(row pgx.Row) (*Member, error) {
	var m Member
	err := row.Scan(&m.ID, &m.TenantID, &m.Email, &m.Name, &m.Role, &m.PasswordHash, &m.Active, &m.CreatedAt, &m.UpdatedAt)
	if err != nil {
		if pg.IsNotFoundError(err) {
			return nil, ErrMemberNotFound
		}
		return nil, fmt.Errorf("scan member: %w", err)
	}
	return &m, nil
}

// Create inserts a member into the current tenant. The (tenant, email)
// pairing is unique.
func (s *Store) Create(ctx context.Context, m *Member) error {
	const q = `
		INSERT INTO members (id, tenant_id, email, name, role, password_hash, active, created_at, updated_at)
		VALUES (@id, @tenant_id, @email, @name, @role, @password_hash, @active, @created_at, @updated_at)`

	_, err := scopeddb.MustScope(ctx).Exec(ctx, q, pgx.NamedArgs{
		"id":            m.ID,
		"email":         strings.ToLower(m.Email),
		"name":          m.Name,
		"role":          m.Role,
		"password_hash": m.PasswordHash,
		"active":        m.Active,
		"created_at":    m.CreatedAt,
		"updated_at":    m.UpdatedAt,
	})
	if err != nil {
		if pg.IsDuplicateKeyError(err) {
			return ErrEmailTaken
		}
		return fmt.Errorf("insert member: %w", err)
	}
	return nil
}

// ByID returns a member of the current tenant.
func (s *Store) ByID(ctx context.Context, id uuid.UUID) (*Member, error) {
	const q = `SELECT ` + memberColumns + ` FROM members WHERE tenant_id = @tenant_id AND id = @id`

	row, err := scopeddb.MustScope(ctx).QueryRow(ctx, q, pgx.NamedArgs{"id": id})
	if err != nil {
		return nil, err
	}
	return scanMember(row)
}

// ByEmail returns a member of the current tenant by email, case-insensitive.
func (s *Store) ByEmail(ctx context.Context, email string) (*Member, error) {
	const q = `SELECT ` + memberColumns + ` FROM members WHERE tenant_id = @tenant_id AND email = @email`

	row, err := scopeddb.MustScope(ctx).QueryRow(ctx, q, pgx.NamedArgs{"email": strings.ToLower(email)})
	if err != nil {
		return nil, err
	}
	return scanMember(row)
}

// List returns the current tenant's members ordered by creation time.
func (s *Store) List(ctx context.Context) ([]*Member, error) {
	const q = `SELECT ` + memberColumns + ` FROM members WHERE tenant_id = @tenant_id ORDER BY created_at`

	rows, err := scopeddb.MustScope(ctx).Query(ctx, q, nil)
	if err != nil {
		return nil, fmt.Errorf("list members: %w", err)
	}
	defer rows.Close()

	var out []*Member
	for rows.Next() {
		m, err := scanMember(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, m)
	}
	return out, rows.Err()
}

// SetRole changes a member's role within the current tenant.
func (s *Store) SetRole(ctx context.Context, id uuid.UUID, role string) error {
	const q = `UPDATE members SET role = @role, updated_at = now() WHERE tenant_id = @tenant_id AND id = @id`

	tag, err := scopeddb.MustScope(ctx).Exec(ctx, q, pgx.NamedArgs{"id": id, "role": role})
	if err != nil {
		return fmt.Errorf("set member role: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrMemberNotFound
	}
	return nil
}

// SetActive enables or disables a member's account.
func (s *Store) SetActive(ctx context.Context, id uuid.UUID, active bool) error {
	const q = `UPDATE members SET active = @active, updated_at = now() WHERE tenant_id = @tenant_id AND id = @id`

	tag, err := scopeddb.MustScope(ctx).Exec(ctx, q, pgx.NamedArgs{"id": id, "active": active})
	if err != nil {
		return fmt.Errorf("set member active: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrMemberNotFound
	}
	return nil
}

// UpdatePassword replaces a member's password hash.
func (s *Store) UpdatePassword(ctx context.Context, id uuid.UUID, hash string) error {
	const q = `UPDATE members SET password_hash = @password_hash, updated_at = now() WHERE tenant_id = @tenant_id AND id = @id`

	tag, err := scopeddb.MustScope(ctx).Exec(ctx, q, pgx.NamedArgs{"id": id, "password_hash": hash})
	if err != nil {
		return fmt.Errorf("update member password: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrMemberNotFound
	}
	return nil
}
