package deal_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/riftlabs/riftotc/internal/deal"
	"github.com/riftlabs/riftotc/internal/deal/memory"
	"github.com/riftlabs/riftotc/internal/models"
)

const (
	sellerAddr = "0x1111111111111111111111111111111111111111"
	buyerAddr  = "0x2222222222222222222222222222222222222222"
)

// fakeClock advances only when told to.
type fakeClock struct {
	now time.Time
}

func (c *fakeClock) Now() time.Time {
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.now = c.now.Add(d)
}

func newTestService() (*deal.Service, *fakeClock) {
	clock := &fakeClock{now: time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)}
	return deal.NewService(memory.NewStore(), clock.Now), clock
}

func validParams() deal.CreateParams {
	return deal.CreateParams{
		SellerAddress: sellerAddr,
		TokenID:       "uniswap",
		TokenSymbol:   "UNI",
		TokenAmount:   10_000,
		PricePerToken: 6.38,
		Discount:      15,
		LockPeriod:    4,
	}
}

func TestService_Create(t *testing.T) {
	svc, clock := newTestService()
	ctx := context.Background()

	d, err := svc.Create(ctx, validParams(), nil)
	require.NoError(t, err)

	assert.Equal(t, models.DealStatusOpen, d.Status)
	assert.Contains(t, d.ID, "deal_")
	assert.Equal(t, clock.now, d.CreatedAt)
	assert.InDelta(t, 63_800, d.TotalCost, 0.01)
	assert.InDelta(t, 75_058.82, d.MarketValue, 0.01)
	assert.Nil(t, d.FundedAt)
	assert.Nil(t, d.UnlockAt)

	stored, err := svc.Get(ctx, d.ID)
	require.NoError(t, err)
	assert.Equal(t, d.ID, stored.ID)
}

func TestService_CreateValidation(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*deal.CreateParams)
	}{
		{"missing seller", func(p *deal.CreateParams) { p.SellerAddress = "" }},
		{"missing token", func(p *deal.CreateParams) { p.TokenID = "" }},
		{"zero amount", func(p *deal.CreateParams) { p.TokenAmount = 0 }},
		{"negative price", func(p *deal.CreateParams) { p.PricePerToken = -1 }},
		{"discount above cap", func(p *deal.CreateParams) { p.Discount = 60 }},
		{"unsupported lock period", func(p *deal.CreateParams) { p.LockPeriod = 3 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, _ := newTestService()
			params := validParams()
			tt.mutate(&params)

			_, err := svc.Create(context.Background(), params, nil)
			assert.ErrorIs(t, err, deal.ErrInvalidInput)
		})
	}
}

func TestService_Accept(t *testing.T) {
	svc, clock := newTestService()
	ctx := context.Background()

	d, err := svc.Create(ctx, validParams(), nil)
	require.NoError(t, err)

	funded, err := svc.Accept(ctx, d.ID, buyerAddr)
	require.NoError(t, err)

	assert.Equal(t, models.DealStatusFunded, funded.Status)
	assert.Equal(t, buyerAddr, funded.BuyerAddress)
	require.NotNil(t, funded.FundedAt)
	require.NotNil(t, funded.UnlockAt)
	assert.Equal(t, clock.now, *funded.FundedAt)
	assert.Equal(t, clock.now.Add(4*7*24*time.Hour), *funded.UnlockAt)

	// A funded deal cannot be accepted twice.
	_, err = svc.Accept(ctx, d.ID, "0x3333333333333333333333333333333333333333")
	assert.ErrorIs(t, err, deal.ErrInvalidState)

	// The failed second accept must not have overwritten the buyer.
	stored, err := svc.Get(ctx, d.ID)
	require.NoError(t, err)
	assert.Equal(t, buyerAddr, stored.BuyerAddress)
}

func TestService_Claim(t *testing.T) {
	svc, clock := newTestService()
	ctx := context.Background()

	d, err := svc.Create(ctx, validParams(), nil)
	require.NoError(t, err)
	_, err = svc.Accept(ctx, d.ID, buyerAddr)
	require.NoError(t, err)

	t.Run("before unlock", func(t *testing.T) {
		clock.Advance(4*7*24*time.Hour - time.Minute)

		_, err := svc.Claim(ctx, d.ID)
		assert.ErrorIs(t, err, deal.ErrLockNotExpired)

		stored, err := svc.Get(ctx, d.ID)
		require.NoError(t, err)
		assert.Equal(t, models.DealStatusFunded, stored.Status)
	})

	t.Run("after unlock", func(t *testing.T) {
		clock.Advance(2 * time.Minute)

		claimed, err := svc.Claim(ctx, d.ID)
		require.NoError(t, err)
		assert.Equal(t, models.DealStatusCompleted, claimed.Status)
	})

	t.Run("claiming twice", func(t *testing.T) {
		_, err := svc.Claim(ctx, d.ID)
		assert.ErrorIs(t, err, deal.ErrInvalidState)
	})
}

func TestService_ClaimOpenDeal(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()

	d, err := svc.Create(ctx, validParams(), nil)
	require.NoError(t, err)

	_, err = svc.Claim(ctx, d.ID)
	assert.ErrorIs(t, err, deal.ErrInvalidState)
}

func TestService_Cancel(t *testing.T) {
	ctx := context.Background()

	t.Run("seller cancels open deal", func(t *testing.T) {
		svc, _ := newTestService()
		d, err := svc.Create(ctx, validParams(), nil)
		require.NoError(t, err)

		cancelled, err := svc.Cancel(ctx, d.ID, sellerAddr)
		require.NoError(t, err)
		assert.Equal(t, models.DealStatusCancelled, cancelled.Status)
	})

	t.Run("stranger cannot cancel", func(t *testing.T) {
		svc, _ := newTestService()
		d, err := svc.Create(ctx, validParams(), nil)
		require.NoError(t, err)

		_, err = svc.Cancel(ctx, d.ID, buyerAddr)
		assert.ErrorIs(t, err, deal.ErrNotSeller)

		stored, err := svc.Get(ctx, d.ID)
		require.NoError(t, err)
		assert.Equal(t, models.DealStatusOpen, stored.Status)
	})

	t.Run("funded deal is locked in", func(t *testing.T) {
		svc, _ := newTestService()
		d, err := svc.Create(ctx, validParams(), nil)
		require.NoError(t, err)
		_, err = svc.Accept(ctx, d.ID, buyerAddr)
		require.NoError(t, err)

		_, err = svc.Cancel(ctx, d.ID, sellerAddr)
		assert.ErrorIs(t, err, deal.ErrInvalidState)
	})

	t.Run("missing deal", func(t *testing.T) {
		svc, _ := newTestService()
		_, err := svc.Cancel(ctx, "deal_missing", sellerAddr)
		assert.ErrorIs(t, err, deal.ErrNotFound)
	})
}

func TestService_List(t *testing.T) {
	svc, clock := newTestService()
	ctx := context.Background()

	first, err := svc.Create(ctx, validParams(), nil)
	require.NoError(t, err)

	clock.Advance(time.Hour)
	second, err := svc.Create(ctx, validParams(), nil)
	require.NoError(t, err)

	_, err = svc.Accept(ctx, second.ID, buyerAddr)
	require.NoError(t, err)

	all, err := svc.List(ctx, "")
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, second.ID, all[0].ID, "newest first")
	assert.Equal(t, first.ID, all[1].ID)

	open, err := svc.List(ctx, models.DealStatusOpen)
	require.NoError(t, err)
	require.Len(t, open, 1)
	assert.Equal(t, first.ID, open[0].ID)
}

func TestService_SeedDemoDeals(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()

	require.NoError(t, svc.SeedDemoDeals(ctx))

	deals, err := svc.List(ctx, "")
	require.NoError(t, err)
	require.Len(t, deals, 3)

	for _, d := range deals {
		assert.Equal(t, models.DealStatusOpen, d.Status)
		assert.True(t, models.ValidLockPeriod(d.LockPeriod))
	}
}
