package members

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/collectif/platform/pkg/pg"
	"github.com/collectif/platform/pkg/scopeddb"
)

// GlobalStore reads members across tenant boundaries. It exists for exactly
// two callers: token verification, which only has a member id, and platform
// operator login, which targets members with no tenant affiliation. It
// requires the explicit unscoped capability.
type GlobalStore struct {
	db *scopeddb.Unscoped
}

// NewGlobalStore constructs the global member store.
func NewGlobalStore(db *scopeddb.Unscoped) *GlobalStore {
	return &GlobalStore{db: db}
}

// ByID returns any member by primary key, regardless of tenant. Used to
// rebuild the principal from a session token; the access guard still
// checks the affiliation against the request tenant afterwards.
func (s *GlobalStore) ByID(ctx context.Context, id uuid.UUID) (*Member, error) {
	const q = `SELECT ` + memberColumns + ` FROM members WHERE id = $1`
	return scanMember(s.db.QueryRow(ctx, q, id))
}

// PlatformByEmail returns a platform operator account: a member with no
// tenant affiliation.
func (s *GlobalStore) PlatformByEmail(ctx context.Context, email string) (*Member, error) {
	const q = `SELECT ` + memberColumns + ` FROM members WHERE tenant_id IS NULL AND email = $1`
	return scanMember(s.db.QueryRow(ctx, q, strings.ToLower(email)))
}

// CreatePlatformOperator inserts a member with no tenant affiliation.
// Platform operator emails are unique among unaffiliated members.
func (s *GlobalStore) CreatePlatformOperator(ctx context.Context, m *Member) error {
	const q = `
		INSERT INTO members (id, tenant_id, email, name, role, password_hash, active, created_at, updated_at)
		VALUES ($1, NULL, $2, $3, $4, $5, $6, $7, $8)`

	_, err := s.db.Exec(ctx, q, m.ID, strings.ToLower(m.Email), m.Name, m.Role, m.PasswordHash, m.Active, m.CreatedAt, m.UpdatedAt)
	if err != nil {
		if pg.IsDuplicateKeyError(err) {
			return ErrEmailTaken
		}
		return fmt.Errorf("insert platform operator: %w", err)
	}
	return nil
}
