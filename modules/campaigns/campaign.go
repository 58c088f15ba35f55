package campaigns

import (
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Campaign is a tenant-owned fundraising drive. Monetary amounts are in
// minor units of the campaign currency.
type Campaign struct {
	ID           uuid.UUID  `json:"id"`
	TenantID     uuid.UUID  `json:"tenant_id"`
	Title        string     `json:"title"`
	Description  string     `json:"description,omitempty"`
	GoalAmount   int64      `json:"goal_amount"`
	RaisedAmount int64      `json:"raised_amount"`
	Currency     string     `json:"currency"`
	Active       bool       `json:"active"`
	EndsAt       *time.Time `json:"ends_at,omitempty"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`
}

var (
	ErrNotFound      = errors.New("campaigns: campaign not found")
	ErrInvalidTitle  = errors.New("campaigns: title is required")
	ErrInvalidAmount = errors.New("campaigns: goal must be positive")
)

// Validate checks the mutable fields before persisting.
func (c *Campaign) Validate() error {
	if strings.TrimSpace(c.Title) == "" {
		return ErrInvalidTitle
	}
	if c.GoalAmount <= 0 {
		return ErrInvalidAmount
	}
	return nil
}
