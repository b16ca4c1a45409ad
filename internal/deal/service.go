package deal

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/riftlabs/riftotc/internal/models"
)

// Service owns every mutation of a deal's status, buyer, funded_at and
// unlock_at fields. All other fields are set once at creation. Transitions
// are total functions over (deal, action, now); the clock is injectable for
// deterministic lock-expiry tests.
type Service struct {
	store Store
	now   func() time.Time
}

// CreateParams 创建交易的入参
type CreateParams struct {
	SellerAddress string  `json:"seller_address"`
	TokenID       string  `json:"token_id"`
	TokenSymbol   string  `json:"token_symbol"`
	TokenAmount   float64 `json:"token_amount"`
	PricePerToken float64 `json:"price_per_token"` // post-discount
	Discount      float64 `json:"discount"`
	LockPeriod    int     `json:"lock_period"`
}

func NewService(store Store, now func() time.Time) *Service {
	if now == nil {
		now = time.Now
	}
	return &Service{store: store, now: now}
}

func newDealID() string {
	return "deal_" + strings.ReplaceAll(uuid.NewString(), "-", "")[:12]
}

// Validate checks create parameters against the documented bounds.
func (p *CreateParams) Validate() error {
	switch {
	case p.SellerAddress == "":
		return fmt.Errorf("%w: seller_address is required", ErrInvalidInput)
	case p.TokenID == "" || p.TokenSymbol == "":
		return fmt.Errorf("%w: token_id and token_symbol are required", ErrInvalidInput)
	case p.TokenAmount <= 0:
		return fmt.Errorf("%w: token_amount must be positive", ErrInvalidInput)
	case p.PricePerToken <= 0:
		return fmt.Errorf("%w: price_per_token must be positive", ErrInvalidInput)
	case p.Discount < 0 || p.Discount > 50:
		return fmt.Errorf("%w: discount must be within [0,50]", ErrInvalidInput)
	case !models.ValidLockPeriod(p.LockPeriod):
		return fmt.Errorf("%w: lock_period must be 1, 4 or 8 weeks", ErrInvalidInput)
	}
	return nil
}

// Create opens a new deal. Total cost and market value are derived from the
// caller-supplied post-discount price, not from a live market fetch; the
// analysis snapshot, if any, is attached immutably.
func (s *Service) Create(ctx context.Context, params CreateParams, analysis *models.TokenAnalysis) (*models.Deal, error) {
	if err := params.Validate(); err != nil {
		return nil, err
	}

	marketPrice := params.PricePerToken / (1 - params.Discount/100)

	d := &models.Deal{
		ID:            newDealID(),
		Status:        models.DealStatusOpen,
		SellerAddress: params.SellerAddress,
		TokenID:       params.TokenID,
		TokenSymbol:   params.TokenSymbol,
		TokenAmount:   params.TokenAmount,
		PricePerToken: params.PricePerToken,
		Discount:      params.Discount,
		LockPeriod:    params.LockPeriod,
		TotalCost:     params.TokenAmount * params.PricePerToken,
		MarketValue:   params.TokenAmount * marketPrice,
		CreatedAt:     s.now().UTC(),
		Analysis:      analysis,
	}

	if err := s.store.Insert(ctx, d); err != nil {
		return nil, fmt.Errorf("failed to store deal: %w", err)
	}
	return d, nil
}

// Get retrieves a single deal.
func (s *Service) Get(ctx context.Context, id string) (*models.Deal, error) {
	return s.store.Get(ctx, id)
}

// List returns deals newest-first, optionally filtered by status.
func (s *Service) List(ctx context.Context, status string) ([]*models.Deal, error) {
	return s.store.List(ctx, status)
}

// Accept funds an open deal: the buyer's payment enters escrow and the lock
// window starts. Fails with ErrInvalidState from any non-open status.
func (s *Service) Accept(ctx context.Context, id, buyerAddress string) (*models.Deal, error) {
	if buyerAddress == "" {
		return nil, fmt.Errorf("%w: buyer_address is required", ErrInvalidInput)
	}

	return s.store.Update(ctx, id, func(d *models.Deal) error {
		if d.Status != models.DealStatusOpen {
			return fmt.Errorf("%w: cannot accept a %s deal", ErrInvalidState, d.Status)
		}

		fundedAt := s.now().UTC()
		unlockAt := fundedAt.Add(time.Duration(d.LockPeriod) * 7 * 24 * time.Hour)

		d.Status = models.DealStatusFunded
		d.BuyerAddress = buyerAddress
		d.FundedAt = &fundedAt
		d.UnlockAt = &unlockAt
		return nil
	})
}

// Claim releases escrowed tokens to the buyer once the lock has expired.
// Before unlock_at it fails with ErrLockNotExpired and changes nothing;
// claiming again later simply retries the same transition.
func (s *Service) Claim(ctx context.Context, id string) (*models.Deal, error) {
	return s.store.Update(ctx, id, func(d *models.Deal) error {
		if d.Status != models.DealStatusFunded {
			return fmt.Errorf("%w: cannot claim a %s deal", ErrInvalidState, d.Status)
		}
		if d.UnlockAt != nil && s.now().UTC().Before(*d.UnlockAt) {
			return ErrLockNotExpired
		}

		d.Status = models.DealStatusCompleted
		return nil
	})
}

// Cancel withdraws an open deal. Only the seller may cancel; once funded the
// deal is locked in.
func (s *Service) Cancel(ctx context.Context, id, sellerAddress string) (*models.Deal, error) {
	return s.store.Update(ctx, id, func(d *models.Deal) error {
		if d.Status != models.DealStatusOpen {
			return fmt.Errorf("%w: only open deals can be cancelled", ErrInvalidState)
		}
		if d.SellerAddress != sellerAddress {
			return ErrNotSeller
		}

		d.Status = models.DealStatusCancelled
		return nil
	})
}

// SeedDemoDeals creates a few example deals so a fresh instance has
// something to show. Errors are returned for the first failing insert.
func (s *Service) SeedDemoDeals(ctx context.Context) error {
	demos := []CreateParams{
		{
			SellerAddress: "0x1234567890abcdef1234567890abcdef12345678",
			TokenID:       "uniswap",
			TokenSymbol:   "UNI",
			TokenAmount:   10000,
			PricePerToken: 6.38,
			Discount:      15,
			LockPeriod:    4,
		},
		{
			SellerAddress: "0xabcdef1234567890abcdef1234567890abcdef12",
			TokenID:       "arbitrum",
			TokenSymbol:   "ARB",
			TokenAmount:   50000,
			PricePerToken: 0.66,
			Discount:      22,
			LockPeriod:    8,
		},
		{
			SellerAddress: "0x9876543210fedcba9876543210fedcba98765432",
			TokenID:       "aave",
			TokenSymbol:   "AAVE",
			TokenAmount:   500,
			PricePerToken: 85.0,
			Discount:      10,
			LockPeriod:    1,
		},
	}

	for _, params := range demos {
		if _, err := s.Create(ctx, params, nil); err != nil {
			return fmt.Errorf("failed to seed demo deal for %s: %w", params.TokenID, err)
		}
	}
	return nil
}
