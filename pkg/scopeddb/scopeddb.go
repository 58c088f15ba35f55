package scopeddb

import (
	"context"
	"fmt"
	"regexp"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// tenantArg is the named argument every scoped statement must reference.
const tenantArg = "tenant_id"

// tenantArgPattern matches the placeholder on an identifier boundary, so a
// longer name such as @tenant_ids does not satisfy the scoping check.
var tenantArgPattern = regexp.MustCompile(`@` + tenantArg + `\b`)

// DBTX is the minimal pgx execution surface the scoping layer wraps.
// Both *pgxpool.Pool and pgx.Tx satisfy it, so scoped stores work the same
// inside and outside transactions.
type DBTX interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// Scope is a data-access handle bound to exactly one tenant. Every
// statement executed through it must reference the @tenant_id named
// argument, and the Scope supplies that argument itself: a caller can
// neither omit the tenant filter nor smuggle in a different tenant's id.
type Scope struct {
	db       DBTX
	tenantID uuid.UUID
}

// New binds a data-access handle to the given tenant.
func New(db DBTX, tenantID uuid.UUID) *Scope {
	return &Scope{db: db, tenantID: tenantID}
}

// TenantID returns the tenant this handle is bound to.
func (s *Scope) TenantID() uuid.UUID {
	return s.tenantID
}

// bind validates the statement and stamps the bound tenant id into the
// named arguments. A statement without @tenant_id is a defect
// (ErrUnscopedQuery); an explicit diverging tenant_id argument is a
// cross-tenant write attempt and is rejected, never silently corrected.
func (s *Scope) bind(sql string, args pgx.NamedArgs) (pgx.NamedArgs, error) {
	if !tenantArgPattern.MatchString(sql) {
		return nil, fmt.Errorf("%w: statement does not reference @tenant_id", ErrUnscopedQuery)
	}

	if args == nil {
		args = pgx.NamedArgs{}
	}
	if supplied, ok := args[tenantArg]; ok {
		id, valid := supplied.(uuid.UUID)
		if !valid || id != s.tenantID {
			return nil, fmt.Errorf("%w: bound tenant %s, supplied %v", ErrCrossTenantWrite, s.tenantID, supplied)
		}
	}
	args[tenantArg] = s.tenantID

	return args, nil
}

// Exec runs a mutation constrained to the bound tenant.
func (s *Scope) Exec(ctx context.Context, sql string, args pgx.NamedArgs) (pgconn.CommandTag, error) {
	bound, err := s.bind(sql, args)
	if err != nil {
		return pgconn.CommandTag{}, err
	}
	return s.db.Exec(ctx, sql, bound)
}

// Query runs a read constrained to the bound tenant.
func (s *Scope) Query(ctx context.Context, sql string, args pgx.NamedArgs) (pgx.Rows, error) {
	bound, err := s.bind(sql, args)
	if err != nil {
		return nil, err
	}
	return s.db.Query(ctx, sql, bound)
}

// QueryRow runs a single-row read constrained to the bound tenant.
func (s *Scope) QueryRow(ctx context.Context, sql string, args pgx.NamedArgs) (pgx.Row, error) {
	bound, err := s.bind(sql, args)
	if err != nil {
		return nil, err
	}
	return s.db.QueryRow(ctx, sql, bound), nil
}

// Unscoped is the explicitly named capability for global entities: the
// tenant directory itself and principals with no tenant affiliation. It is
// a distinct type so an unscoped handle can never be passed where a Scope
// is expected, and tenant-scoped code paths never receive one by accident.
type Unscoped struct {
	db DBTX
}

// NewUnscoped wraps a data-access handle without tenant constraints.
func NewUnscoped(db DBTX) *Unscoped {
	return &Unscoped{db: db}
}

func (u *Unscoped) Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error) {
	return u.db.Exec(ctx, sql, args...)
}

func (u *Unscoped) Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error) {
	return u.db.Query(ctx, sql, args...)
}

func (u *Unscoped) QueryRow(ctx context.Context, sql string, args ...any) pgx.Row {
	return u.db.QueryRow(ctx, sql, args...)
}
