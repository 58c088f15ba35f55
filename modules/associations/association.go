package associations

import (
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Association is an organization profile owned by a tenant. A tenant
// typically manages one association but federations carry several.
type Association struct {
	ID          uuid.UUID `json:"id"`
	TenantID    uuid.UUID `json:"tenant_id"`
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
	Email       string    `json:"email,omitempty"`
	Website     string    `json:"website,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

var (
	ErrNotFound    = errors.New("associations: association not found")
	ErrInvalidName = errors.New("associations: name is required")
)

// Validate checks the mutable fields before persisting.
func (a *Association) Validate() error {
	if strings.TrimSpace(a.Name) == "" {
		return ErrInvalidName
	}
	return nil
}
