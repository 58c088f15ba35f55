package members

import (
	"time"

	"github.com/google/uuid"

	"github.com/collectif/platform/pkg/guard"
)

// Member is an account on the platform. TenantID is set for association
// members and staff; it is nil only for platform operators, who live
// outside every tenant boundary.
type Member struct {
	ID           uuid.UUID  `json:"id"`
	TenantID     *uuid.UUID `json:"tenant_id,omitempty"`
	Email        string     `json:"email"`
	Name         string     `json:"name"`
	Role         guard.Role `json:"role"`
	PasswordHash string     `json:"-"`
	Active       bool       `json:"active"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`
}

// Principal converts the member into its authorization identity.
func (m *Member) Principal() *guard.Principal {
	return &guard.Principal{
		ID:       m.ID,
		Email:    m.Email,
		TenantID: m.TenantID,
		Role:     m.Role,
		Active:   m.Active,
	}
}
