package memory

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/riftlabs/riftotc/internal/deal"
	"github.com/riftlabs/riftotc/internal/models"
)

func newDeal(id string, createdAt time.Time) *models.Deal {
	return &models.Deal{
		ID:            id,
		Status:        models.DealStatusOpen,
		SellerAddress: "0xseller",
		TokenID:       "uniswap",
		TokenSymbol:   "UNI",
		TokenAmount:   100,
		PricePerToken: 6.38,
		Discount:      15,
		LockPeriod:    4,
		CreatedAt:     createdAt,
	}
}

func TestStore_InsertAndGet(t *testing.T) {
	store := NewStore()
	ctx := context.Background()

	d := newDeal("deal_1", time.Now())
	require.NoError(t, store.Insert(ctx, d))

	got, err := store.Get(ctx, "deal_1")
	require.NoError(t, err)
	assert.Equal(t, d.ID, got.ID)

	t.Run("duplicate id rejected", func(t *testing.T) {
		assert.ErrorIs(t, store.Insert(ctx, newDeal("deal_1", time.Now())), deal.ErrInvalidInput)
	})

	t.Run("missing id rejected", func(t *testing.T) {
		assert.ErrorIs(t, store.Insert(ctx, &models.Deal{}), deal.ErrInvalidInput)
	})

	t.Run("unknown deal", func(t *testing.T) {
		_, err := store.Get(ctx, "deal_unknown")
		assert.ErrorIs(t, err, deal.ErrNotFound)
	})
}

func TestStore_CopySemantics(t *testing.T) {
	store := NewStore()
	ctx := context.Background()

	d := newDeal("deal_1", time.Now())
	require.NoError(t, store.Insert(ctx, d))

	// Mutating the inserted value must not leak into the store.
	d.Status = models.DealStatusCancelled

	got, err := store.Get(ctx, "deal_1")
	require.NoError(t, err)
	assert.Equal(t, models.DealStatusOpen, got.Status)

	// Mutating a retrieved value must not leak either.
	got.Status = models.DealStatusFunded

	again, err := store.Get(ctx, "deal_1")
	require.NoError(t, err)
	assert.Equal(t, models.DealStatusOpen, again.Status)
}

func TestStore_List(t *testing.T) {
	store := NewStore()
	ctx := context.Background()
	base := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)

	old := newDeal("deal_old", base)
	mid := newDeal("deal_mid", base.Add(time.Hour))
	mid.Status = models.DealStatusFunded
	fresh := newDeal("deal_new", base.Add(2*time.Hour))

	for _, d := range []*models.Deal{old, mid, fresh} {
		require.NoError(t, store.Insert(ctx, d))
	}

	all, err := store.List(ctx, "")
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, []string{"deal_new", "deal_mid", "deal_old"}, []string{all[0].ID, all[1].ID, all[2].ID})

	funded, err := store.List(ctx, models.DealStatusFunded)
	require.NoError(t, err)
	require.Len(t, funded, 1)
	assert.Equal(t, "deal_mid", funded[0].ID)
}

func TestStore_Update(t *testing.T) {
	store := NewStore()
	ctx := context.Background()

	require.NoError(t, store.Insert(ctx, newDeal("deal_1", time.Now())))

	t.Run("successful mutation is committed", func(t *testing.T) {
		updated, err := store.Update(ctx, "deal_1", func(d *models.Deal) error {
			d.Status = models.DealStatusFunded
			return nil
		})
		require.NoError(t, err)
		assert.Equal(t, models.DealStatusFunded, updated.Status)

		stored, err := store.Get(ctx, "deal_1")
		require.NoError(t, err)
		assert.Equal(t, models.DealStatusFunded, stored.Status)
	})

	t.Run("failed mutation leaves the record untouched", func(t *testing.T) {
		sentinel := errors.New("rejected")
		_, err := store.Update(ctx, "deal_1", func(d *models.Deal) error {
			d.Status = models.DealStatusCancelled
			return sentinel
		})
		assert.ErrorIs(t, err, sentinel)

		stored, err := store.Get(ctx, "deal_1")
		require.NoError(t, err)
		assert.Equal(t, models.DealStatusFunded, stored.Status)
	})

	t.Run("unknown deal", func(t *testing.T) {
		_, err := store.Update(ctx, "deal_unknown", func(*models.Deal) error { return nil })
		assert.ErrorIs(t, err, deal.ErrNotFound)
	})
}

// Two buyers racing to accept the same deal: exactly one wins.
func TestStore_ConcurrentUpdate(t *testing.T) {
	store := NewStore()
	ctx := context.Background()

	require.NoError(t, store.Insert(ctx, newDeal("deal_1", time.Now())))

	const attempts = 32
	var wg sync.WaitGroup
	errCh := make(chan error, attempts)

	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := store.Update(ctx, "deal_1", func(d *models.Deal) error {
				if d.Status != models.DealStatusOpen {
					return deal.ErrInvalidState
				}
				d.Status = models.DealStatusFunded
				return nil
			})
			errCh <- err
		}()
	}
	wg.Wait()
	close(errCh)

	var wins int
	for err := range errCh {
		if err == nil {
			wins++
		} else {
			assert.ErrorIs(t, err, deal.ErrInvalidState)
		}
	}
	assert.Equal(t, 1, wins)
}
