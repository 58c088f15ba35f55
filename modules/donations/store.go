package donations

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/collectif/platform/pkg/pg"
	"github.com/collectif/platform/pkg/scopeddb"
)

// Store persists donations through the tenant-scoped handle.
type Store struct{}

// NewStore constructs the donation store.
func NewStore() *Store {
	return &Store{}
}

const columns = `id, tenant_id, campaign_id, amount, currency, donor_name, donor_email, status, created_at, updated_at`

func scan(row pgx.Row) (*Donation, error) {
	var d Donation
	err := row.Scan(&d.ID, &d.TenantID, &d.CampaignID, &d.Amount, &d.Currency, &d.DonorName, &d.DonorEmail, &d.Status, &d.CreatedAt, &d.UpdatedAt)
	if err != nil {
		if pg.IsNotFoundError(err) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("scan donation: %w", err)
	}
	return &d, nil
}

// Create inserts a pending donation into the current tenant.
func (s *Store) Create(ctx context.Context, d *Donation) error {
	const q = `
		INSERT INTO donations (id, tenant_id, campaign_id, amount, currency, donor_name, donor_email, status, created_at, updated_at)
		VALUES (@id, @tenant_id, @campaign_id, @amount, @currency, @donor_name, @donor_email, @status, @created_at, @updated_at)`

	scope := scopeddb.MustScope(ctx)
	d.TenantID = scope.TenantID()

	_, err := scope.Exec(ctx, q, pgx.NamedArgs{
		"id":          d.ID,
		"campaign_id": d.CampaignID,
		"amount":      d.Amount,
		"currency":    d.Currency,
		"donor_name":  d.DonorName,
		"donor_email": d.DonorEmail,
		"status":      d.Status,
		"created_at":  d.CreatedAt,
		"updated_at":  d.UpdatedAt,
	})
	if err != nil {
		if pg.IsForeignKeyViolationError(err) {
			return fmt.Errorf("%w: campaign does not exist", ErrNotFound)
		}
		return fmt.Errorf("insert donation: %w", err)
	}
	return nil
}

// ByID returns a donation of the current tenant.
func (s *Store) ByID(ctx context.Context, id uuid.UUID) (*Donation, error) {
	const q = `SELECT ` + columns + ` FROM donations WHERE tenant_id = @tenant_id AND id = @id`

	row, err := scopeddb.MustScope(ctx).QueryRow(ctx, q, pgx.NamedArgs{"id": id})
	if err != nil {
		return nil, err
	}
	return scan(row)
}

// ListByCampaign returns a campaign's donations, newest first.
func (s *Store) ListByCampaign(ctx context.Context, campaignID uuid.UUID) ([]*Donation, error) {
	const q = `SELECT ` + columns + ` FROM donations WHERE tenant_id = @tenant_id AND campaign_id = @campaign_id ORDER BY created_at DESC`

	rows, err := scopeddb.MustScope(ctx).Query(ctx, q, pgx.NamedArgs{"campaign_id": campaignID})
	if err != nil {
		return nil, fmt.Errorf("list donations: %w", err)
	}
	defer rows.Close()

	return collect(rows)
}

// List returns the current tenant's donations, newest first.
func (s *Store) List(ctx context.Context) ([]*Donation, error) {
	const q = `SELECT ` + columns + ` FROM donations WHERE tenant_id = @tenant_id ORDER BY created_at DESC`

	rows, err := scopeddb.MustScope(ctx).Query(ctx, q, nil)
	if err != nil {
		return nil, fmt.Errorf("list donations: %w", err)
	}
	defer rows.Close()

	return collect(rows)
}

func collect(rows pgx.Rows) ([]*Donation, error) {
	var out []*Donation
	for rows.Next() {
		d, err := scan(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, d)
	}
	return out, rows.Err()
}

// Settle moves a pending donation to a terminal status. The pending guard
// is in the statement itself, so a donation settles at most once even
// under concurrent webhook deliveries.
func (s *Store) Settle(ctx context.Context, id uuid.UUID, status Status) error {
	if status != StatusSucceeded && status != StatusFailed {
		return fmt.Errorf("%w: %q", ErrInvalidStatus, status)
	}

	const q = `
		UPDATE donations
		SET status = @status, updated_at = now()
		WHERE tenant_id = @tenant_id AND id = @id AND status = 'pending'`

	tag, err := scopeddb.MustScope(ctx).Exec(ctx, q, pgx.NamedArgs{"id": id, "status": status})
	if err != nil {
		return fmt.Errorf("settle donation: %w", err)
	}
	if tag.RowsAffected() == 0 {
		if _, lookupErr := s.ByID(ctx, id); errors.Is(lookupErr, ErrNotFound) {
			return ErrNotFound
		}
		return ErrAlreadySettled
	}
	return nil
}
