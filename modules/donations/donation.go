package donations

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

// Status is the settlement state of a donation. Donations are created
// pending and settle exactly once, to succeeded or failed.
type Status string

const (
	StatusPending   Status = "pending"
	StatusSucceeded Status = "succeeded"
	StatusFailed    Status = "failed"
)

// Donation is one giving intent against a tenant's campaign. Amount is in
// minor units of the currency.
type Donation struct {
	ID         uuid.UUID `json:"id"`
	TenantID   uuid.UUID `json:"tenant_id"`
	CampaignID uuid.UUID `json:"campaign_id"`
	Amount     int64     `json:"amount"`
	Currency   string    `json:"currency"`
	DonorName  string    `json:"donor_name,omitempty"`
	DonorEmail string    `json:"donor_email,omitempty"`
	Status     Status    `json:"status"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

var (
	ErrNotFound          = errors.New("donations: donation not found")
	ErrInvalidAmount     = errors.New("donations: amount must be positive")
	ErrAlreadySettled    = errors.New("donations: donation already settled")
	ErrInvalidStatus     = errors.New("donations: invalid status")
	ErrInvalidSignature  = errors.New("donations: invalid webhook signature")
	ErrSignatureExpired  = errors.New("donations: webhook signature expired")
	ErrUnknownEventShape = errors.New("donations: malformed webhook event")
)

// Settled reports whether the donation reached a terminal state.
func (d *Donation) Settled() bool {
	return d.Status != StatusPending
}
