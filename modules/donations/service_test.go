package donations_test

import (
	"context"
	"io"
	"log/slog"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/collectif/platform/modules/campaigns"
	"github.com/collectif/platform/modules/donations"
	"github.com/collectif/platform/pkg/email"
	"github.com/collectif/platform/pkg/tenant"
)

type fakeDonationStore struct {
	mu   sync.Mutex
	byID map[uuid.UUID]*donations.Donation
}

func newFakeDonationStore() *fakeDonationStore {
	return &fakeDonationStore{byID: make(map[uuid.UUID]*donations.Donation)}
}

func (f *fakeDonationStore) Create(_ context.Context, d *donations.Donation) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	cp := *d
	f.byID[d.ID] = &cp
	return nil
}

func (f *fakeDonationStore) ByID(_ context.Context, id uuid.UUID) (*donations.Donation, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	d, ok := f.byID[id]
	if !ok {
		return nil, donations.ErrNotFound
	}
	cp := *d
	return &cp, nil
}

func (f *fakeDonationStore) List(_ context.Context) ([]*donations.Donation, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]*donations.Donation, 0, len(f.byID))
	for _, d := range f.byID {
		cp := *d
		out = append(out, &cp)
	}
	return out, nil
}

func (f *fakeDonationStore) ListByCampaign(_ context.Context, campaignID uuid.UUID) ([]*donations.Donation, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []*donations.Donation
	for _, d := range f.byID {
		if d.CampaignID == campaignID {
			cp := *d
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (f *fakeDonationStore) Settle(_ context.Context, id uuid.UUID, status donations.Status) error {
	if status != donations.StatusSucceeded && status != donations.StatusFailed {
		return donations.ErrInvalidStatus
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	d, ok := f.byID[id]
	if !ok {
		return donations.ErrNotFound
	}
	if d.Status != donations.StatusPending {
		return donations.ErrAlreadySettled
	}
	d.Status = status
	return nil
}

type fakeCampaignStore struct {
	mu     sync.Mutex
	byID   map[uuid.UUID]*campaigns.Campaign
	raised map[uuid.UUID]int64
}

func newFakeCampaignStore() *fakeCampaignStore {
	return &fakeCampaignStore{
		byID:   make(map[uuid.UUID]*campaigns.Campaign),
		raised: make(map[uuid.UUID]int64),
	}
}

func (f *fakeCampaignStore) add(c *campaigns.Campaign) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.byID[c.ID] = c
}

func (f *fakeCampaignStore) ByID(_ context.Context, id uuid.UUID) (*campaigns.Campaign, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	c, ok := f.byID[id]
	if !ok {
		return nil, campaigns.ErrNotFound
	}
	cp := *c
	return &cp, nil
}

func (f *fakeCampaignStore) AddRaised(_ context.Context, id uuid.UUID, amount int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.byID[id]; !ok {
		return campaigns.ErrNotFound
	}
	f.raised[id] += amount
	return nil
}

type recordingSender struct {
	mu   sync.Mutex
	sent []email.Message
}

func (r *recordingSender) Send(_ context.Context, msg email.Message) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sent = append(r.sent, msg)
	return nil
}

type fixture struct {
	svc       *donations.Service
	store     *fakeDonationStore
	campaigns *fakeCampaignStore
	mail      *recordingSender
	campaign  *campaigns.Campaign
	ctx       context.Context
}

func newFixture(t *testing.T, receiptsEnabled bool) *fixture {
	t.Helper()

	store := newFakeDonationStore()
	campaignStore := newFakeCampaignStore()
	mail := &recordingSender{}
	log := slog.New(slog.NewTextHandler(io.Discard, nil))

	c := &campaigns.Campaign{
		ID:         uuid.New(),
		Title:      "Winter drive",
		GoalAmount: 500000,
		Currency:   "EUR",
		Active:     true,
	}
	campaignStore.add(c)

	tn := &tenant.Tenant{
		ID:       uuid.New(),
		Name:     "Acme",
		Slug:     "acme",
		Status:   tenant.StatusActive,
		Settings: tenant.DefaultSettings(),
	}
	tn.Settings.DonationReceipts = receiptsEnabled

	return &fixture{
		svc:       donations.NewService(store, campaignStore, mail, log),
		store:     store,
		campaigns: campaignStore,
		mail:      mail,
		campaign:  c,
		ctx:       tenant.WithTenant(context.Background(), tn),
	}
}

func TestDonate(t *testing.T) {
	t.Parallel()

	t.Run("creates pending donation with campaign currency", func(t *testing.T) {
		t.Parallel()

		f := newFixture(t, true)
		d, err := f.svc.Donate(f.ctx, donations.DonateParams{
			CampaignID: f.campaign.ID,
			Amount:     2500,
			DonorName:  "Marie",
			DonorEmail: "marie@example.org",
		})
		require.NoError(t, err)
		assert.Equal(t, donations.StatusPending, d.Status)
		assert.Equal(t, "EUR", d.Currency)
		assert.False(t, d.Settled())
	})

	t.Run("rejects non-positive amounts", func(t *testing.T) {
		t.Parallel()

		f := newFixture(t, true)
		for _, amount := range []int64{0, -100} {
			_, err := f.svc.Donate(f.ctx, donations.DonateParams{CampaignID: f.campaign.ID, Amount: amount})
			assert.ErrorIs(t, err, donations.ErrInvalidAmount)
		}
	})

	t.Run("rejects unknown campaign", func(t *testing.T) {
		t.Parallel()

		f := newFixture(t, true)
		_, err := f.svc.Donate(f.ctx, donations.DonateParams{CampaignID: uuid.New(), Amount: 100})
		assert.ErrorIs(t, err, campaigns.ErrNotFound)
	})

	t.Run("rejects closed campaign", func(t *testing.T) {
		t.Parallel()

		f := newFixture(t, true)
		f.campaign.Active = false
		f.campaigns.add(f.campaign)

		_, err := f.svc.Donate(f.ctx, donations.DonateParams{CampaignID: f.campaign.ID, Amount: 100})
		assert.ErrorIs(t, err, campaigns.ErrNotFound)
	})
}

func TestSettle(t *testing.T) {
	t.Parallel()

	donate := func(t *testing.T, f *fixture, donorEmail string) *donations.Donation {
		t.Helper()
		d, err := f.svc.Donate(f.ctx, donations.DonateParams{
			CampaignID: f.campaign.ID,
			Amount:     2500,
			DonorEmail: donorEmail,
		})
		require.NoError(t, err)
		return d
	}

	t.Run("success increments raised and sends receipt", func(t *testing.T) {
		t.Parallel()

		f := newFixture(t, true)
		d := donate(t, f, "marie@example.org")

		settled, err := f.svc.Settle(f.ctx, d.ID, donations.StatusSucceeded)
		require.NoError(t, err)
		assert.Equal(t, donations.StatusSucceeded, settled.Status)
		assert.Equal(t, int64(2500), f.campaigns.raised[f.campaign.ID])

		require.Len(t, f.mail.sent, 1)
		msg := f.mail.sent[0]
		assert.Equal(t, "marie@example.org", msg.To)
		assert.Contains(t, msg.BodyHTML, "25.00 EUR")
		assert.Contains(t, msg.BodyHTML, "Acme")
	})

	t.Run("no receipt when tenant disabled receipts", func(t *testing.T) {
		t.Parallel()

		f := newFixture(t, false)
		d := donate(t, f, "marie@example.org")

		_, err := f.svc.Settle(f.ctx, d.ID, donations.StatusSucceeded)
		require.NoError(t, err)
		assert.Empty(t, f.mail.sent)
	})

	t.Run("no receipt without donor email", func(t *testing.T) {
		t.Parallel()

		f := newFixture(t, true)
		d := donate(t, f, "")

		_, err := f.svc.Settle(f.ctx, d.ID, donations.StatusSucceeded)
		require.NoError(t, err)
		assert.Empty(t, f.mail.sent)
	})

	t.Run("failure does not touch raised amount", func(t *testing.T) {
		t.Parallel()

		f := newFixture(t, true)
		d := donate(t, f, "marie@example.org")

		settled, err := f.svc.Settle(f.ctx, d.ID, donations.StatusFailed)
		require.NoError(t, err)
		assert.Equal(t, donations.StatusFailed, settled.Status)
		assert.Zero(t, f.campaigns.raised[f.campaign.ID])
		assert.Empty(t, f.mail.sent)
	})

	t.Run("settles at most once", func(t *testing.T) {
		t.Parallel()

		f := newFixture(t, true)
		d := donate(t, f, "")

		_, err := f.svc.Settle(f.ctx, d.ID, donations.StatusSucceeded)
		require.NoError(t, err)
		_, err = f.svc.Settle(f.ctx, d.ID, donations.StatusSucceeded)
		assert.ErrorIs(t, err, donations.ErrAlreadySettled)
		assert.Equal(t, int64(2500), f.campaigns.raised[f.campaign.ID], "raised counted once")
	})

	t.Run("unknown donation", func(t *testing.T) {
		t.Parallel()

		f := newFixture(t, true)
		_, err := f.svc.Settle(f.ctx, uuid.New(), donations.StatusSucceeded)
		assert.ErrorIs(t, err, donations.ErrNotFound)
	})
}
