package members

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/collectif/platform/pkg/guard"
	"github.com/collectif/platform/pkg/jwt"
	"github.com/collectif/platform/pkg/scopeddb"
)

// MemberStorer is the tenant-scoped persistence surface of the service.
type MemberStorer interface {
	Create(ctx context.Context, m *Member) error
	ByID(ctx context.Context, id uuid.UUID) (*Member, error)
	ByEmail(ctx context.Context, email string) (*Member, error)
	List(ctx context.Context) ([]*Member, error)
	SetRole(ctx context.Context, id uuid.UUID, role string) error
	SetActive(ctx context.Context, id uuid.UUID, active bool) error
	UpdatePassword(ctx context.Context, id uuid.UUID, hash string) error
}

// PrincipalStorer is the cross-tenant lookup surface used by token
// verification and platform operator login.
type PrincipalStorer interface {
	ByID(ctx context.Context, id uuid.UUID) (*Member, error)
	PlatformByEmail(ctx context.Context, email string) (*Member, error)
}

// Service implements member management and credential authentication.
type Service struct {
	store    MemberStorer
	global   PrincipalStorer
	tokens   *jwt.Service
	tokenTTL time.Duration
	log      *slog.Logger
}

// NewService constructs the members service.
func NewService(store MemberStorer, global PrincipalStorer, tokens *jwt.Service, tokenTTL time.Duration, log *slog.Logger) *Service {
	if tokenTTL <= 0 {
		tokenTTL = 24 * time.Hour
	}
	return &Service{store: store, global: global, tokens: tokens, tokenTTL: tokenTTL, log: log}
}

var emailPattern = regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[^@\s]+$`)

const minPasswordLength = 8

// Register creates a member within the current tenant. The tenant comes
// from the scoped handle, never from the request body.
func (s *Service) Register(ctx context.Context, email, name, password string, role guard.Role) (*Member, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if !emailPattern.MatchString(email) {
		return nil, ErrInvalidEmail
	}
	if len(password) < minPasswordLength {
		return nil, ErrWeakPassword
	}
	// Affiliated members carry tenant-level roles only; platform_admin is
	// reserved for unaffiliated operators and can never be granted here.
	switch role {
	case "":
		role = guard.RoleMember
	case guard.RoleMember, guard.RoleAdmin:
	default:
		return nil, fmt.Errorf("%w: %q", ErrInvalidRole, role)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	tenantID := scopeddb.MustScope(ctx).TenantID()
	now := time.Now().UTC()
	m := &Member{
		ID:           uuid.New(),
		TenantID:     &tenantID,
		Email:        email,
		Name:         strings.TrimSpace(name),
		Role:         role,
		PasswordHash: string(hash),
		Active:       true,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := s.store.Create(ctx, m); err != nil {
		return nil, err
	}

	s.log.InfoContext(ctx, "member registered",
		slog.String("member_id", m.ID.String()),
		slog.String("role", string(m.Role)))
	return m, nil
}

// Login authenticates a member of the current tenant and issues a session
// token. Lookup failures and bad passwords collapse into one error so the
// response does not reveal which emails exist.
func (s *Service) Login(ctx context.Context, email, password string) (string, *Member, error) {
	m, err := s.store.ByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, ErrMemberNotFound) {
			return "", nil, ErrInvalidCredentials
		}
		return "", nil, err
	}
	return s.finishLogin(ctx, m, password)
}

// PlatformLogin authenticates a platform operator. It runs outside any
// tenant scope; the issued token carries no tenant affiliation.
func (s *Service) PlatformLogin(ctx context.Context, email, password string) (string, *Member, error) {
	m, err := s.global.PlatformByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, ErrMemberNotFound) {
			return "", nil, ErrInvalidCredentials
		}
		return "", nil, err
	}
	return s.finishLogin(ctx, m, password)
}

func (s *Service) finishLogin(ctx context.Context, m *Member, password string) (string, *Member, error) {
	if err := bcrypt.CompareHashAndPassword([]byte(m.PasswordHash), []byte(password)); err != nil {
		s.log.WarnContext(ctx, "login failed", slog.String("member_id", m.ID.String()))
		return "", nil, ErrInvalidCredentials
	}
	if !m.Active {
		return "", nil, ErrInactiveMember
	}

	token, err := s.issueToken(m)
	if err != nil {
		return "", nil, err
	}

	s.log.InfoContext(ctx, "member logged in", slog.String("member_id", m.ID.String()))
	return token, m, nil
}

func (s *Service) issueToken(m *Member) (string, error) {
	now := time.Now()
	claims := jwt.Claims{
		Subject:   m.ID.String(),
		Issuer:    "collectif",
		ExpiresAt: now.Add(s.tokenTTL).Unix(),
		IssuedAt:  now.Unix(),
		Email:     m.Email,
		Role:      string(m.Role),
	}
	if m.TenantID != nil {
		claims.TenantID = m.TenantID.String()
	}
	return s.tokens.Generate(claims)
}

// ChangePassword verifies the current password before storing a new hash.
func (s *Service) ChangePassword(ctx context.Context, id uuid.UUID, current, next string) error {
	if len(next) < minPasswordLength {
		return ErrWeakPassword
	}

	m, err := s.store.ByID(ctx, id)
	if err != nil {
		return err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(m.PasswordHash), []byte(current)); err != nil {
		return ErrInvalidCredentials
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(next), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}
	return s.store.UpdatePassword(ctx, id, string(hash))
}

// VerifyToken parses a session token and rebuilds the principal from the
// member record, so role and active state are always current rather than
// what the token was issued with.
func (s *Service) VerifyToken(ctx context.Context, token string) (*guard.Principal, error) {
	var claims jwt.Claims
	if err := s.tokens.Parse(token, &claims); err != nil {
		return nil, err
	}

	id, err := uuid.Parse(claims.Subject)
	if err != nil {
		return nil, jwt.ErrInvalidToken
	}

	m, err := s.global.ByID(ctx, id)
	if err != nil {
		if errors.Is(err, ErrMemberNotFound) {
			return nil, jwt.ErrInvalidToken
		}
		return nil, err
	}
	return m.Principal(), nil
}

// List returns the current tenant's members.
func (s *Service) List(ctx context.Context) ([]*Member, error) {
	return s.store.List(ctx)
}

// Get returns a member of the current tenant.
func (s *Service) Get(ctx context.Context, id uuid.UUID) (*Member, error) {
	return s.store.ByID(ctx, id)
}

// SetRole changes a member's role within the current tenant.
func (s *Service) SetRole(ctx context.Context, id uuid.UUID, role guard.Role) error {
	switch role {
	case guard.RoleMember, guard.RoleAdmin:
		return s.store.SetRole(ctx, id, string(role))
	default:
		return fmt.Errorf("%w: %q", ErrInvalidRole, role)
	}
}

// Deactivate disables a member's account without deleting the record.
func (s *Service) Deactivate(ctx context.Context, id uuid.UUID) error {
	return s.store.SetActive(ctx, id, false)
}

// Activate re-enables a member's account.
func (s *Service) Activate(ctx context.Context, id uuid.UUID) error {
	return s.store.SetActive(ctx, id, true)
}
