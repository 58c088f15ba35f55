package donations

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/collectif/platform/modules/campaigns"
	"github.com/collectif/platform/pkg/email"
	"github.com/collectif/platform/pkg/tenant"
)

// DonationStorer is the persistence surface of the service.
type DonationStorer interface {
	Create(ctx context.Context, d *Donation) error
	ByID(ctx context.Context, id uuid.UUID) (*Donation, error)
	List(ctx context.Context) ([]*Donation, error)
	ListByCampaign(ctx context.Context, campaignID uuid.UUID) ([]*Donation, error)
	Settle(ctx context.Context, id uuid.UUID, status Status) error
}

// CampaignStorer is the slice of the campaign store the service needs:
// existence checks on donate and the raised-amount increment on success.
type CampaignStorer interface {
	ByID(ctx context.Context, id uuid.UUID) (*campaigns.Campaign, error)
	AddRaised(ctx context.Context, id uuid.UUID, amount int64) error
}

// Service implements the donation flow: a public giving intent, settlement
// by processor webhook, and the receipt email on success.
type Service struct {
	store     DonationStorer
	campaigns CampaignStorer
	mail      email.Sender
	log       *slog.Logger
}

// NewService constructs the donations service.
func NewService(store DonationStorer, campaignStore CampaignStorer, mail email.Sender, log *slog.Logger) *Service {
	return &Service{store: store, campaigns: campaignStore, mail: mail, log: log}
}

// DonateParams is the public giving intent from a tenant's donation page.
type DonateParams struct {
	CampaignID uuid.UUID `json:"campaign_id"`
	Amount     int64     `json:"amount"`
	DonorName  string    `json:"donor_name"`
	DonorEmail string    `json:"donor_email"`
}

// Donate records a pending donation against an active campaign of the
// current tenant. The currency always comes from the campaign, never from
// the request.
func (s *Service) Donate(ctx context.Context, p DonateParams) (*Donation, error) {
	if p.Amount <= 0 {
		return nil, ErrInvalidAmount
	}

	c, err := s.campaigns.ByID(ctx, p.CampaignID)
	if err != nil {
		return nil, err
	}
	if !c.Active {
		return nil, fmt.Errorf("%w: campaign is closed", campaigns.ErrNotFound)
	}

	now := time.Now().UTC()
	d := &Donation{
		ID:         uuid.New(),
		CampaignID: c.ID,
		Amount:     p.Amount,
		Currency:   c.Currency,
		DonorName:  p.DonorName,
		DonorEmail: p.DonorEmail,
		Status:     StatusPending,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	if err := s.store.Create(ctx, d); err != nil {
		return nil, err
	}

	s.log.InfoContext(ctx, "donation created",
		slog.String("donation_id", d.ID.String()),
		slog.String("campaign_id", c.ID.String()),
		slog.Int64("amount", d.Amount))
	return d, nil
}

// Settle applies a processor outcome to a pending donation. On success the
// campaign's raised amount is incremented and, when the tenant has receipts
// enabled, a receipt email goes out. Receipt failures are logged, not
// returned: the settlement already happened.
func (s *Service) Settle(ctx context.Context, id uuid.UUID, status Status) (*Donation, error) {
	if err := s.store.Settle(ctx, id, status); err != nil {
		return nil, err
	}

	d, err := s.store.ByID(ctx, id)
	if err != nil {
		return nil, err
	}

	s.log.InfoContext(ctx, "donation settled",
		slog.String("donation_id", d.ID.String()),
		slog.String("status", string(d.Status)))

	if d.Status != StatusSucceeded {
		return d, nil
	}

	if err := s.campaigns.AddRaised(ctx, d.CampaignID, d.Amount); err != nil {
		return nil, fmt.Errorf("increment raised amount: %w", err)
	}

	if err := s.sendReceipt(ctx, d); err != nil {
		s.log.ErrorContext(ctx, "receipt delivery failed",
			slog.String("donation_id", d.ID.String()),
			slog.Any("error", err))
	}
	return d, nil
}

func (s *Service) sendReceipt(ctx context.Context, d *Donation) error {
	if d.DonorEmail == "" {
		return nil
	}
	t := tenant.MustFromContext(ctx)
	if !t.Settings.DonationReceipts {
		return nil
	}

	msg, err := receiptMessage(t, d)
	if err != nil {
		return err
	}
	return s.mail.Send(ctx, msg)
}

// Get returns a donation of the current tenant.
func (s *Service) Get(ctx context.Context, id uuid.UUID) (*Donation, error) {
	return s.store.ByID(ctx, id)
}

// List returns the current tenant's donations.
func (s *Service) List(ctx context.Context) ([]*Donation, error) {
	return s.store.List(ctx)
}

// ListByCampaign returns a campaign's donations.
func (s *Service) ListByCampaign(ctx context.Context, campaignID uuid.UUID) ([]*Donation, error) {
	return s.store.ListByCampaign(ctx, campaignID)
}
