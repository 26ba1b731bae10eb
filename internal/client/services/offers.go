package services

import (
	"context"
	"strings"
	"time"

	"github.com/dmitrijs2005/gophconcierge/internal/client/codes"
	"github.com/dmitrijs2005/gophconcierge/internal/client/collection"
	"github.com/dmitrijs2005/gophconcierge/internal/client/models"
	"github.com/dmitrijs2005/gophconcierge/internal/client/storage"
)

// OfferClaimStore keeps a user's claimed offers.
//
// A claim is active until it is redeemed or its expiry passes. Expiry is
// never written as a status: read paths treat a stale active claim as
// expired, and Load drops it from the persisted set. Redeemed claims are
// kept for the savings history.
type OfferClaimStore struct {
	base
	items *collection.Store[models.ClaimedOffer]
}

// NewOfferClaimStore returns the claimed offers of userID. Expired claims
// are pruned on Load.
func NewOfferClaimStore(deps Deps, userID string) *OfferClaimStore {
	s := &OfferClaimStore{base: newBase("offers", userID, deps)}
	s.items = collection.New[models.ClaimedOffer](
		s.deps.Adapter,
		storage.Key(s.deps.KeyPrefix, storage.DomainClaimedOffers, userID),
		collection.WithValidator(validateAll[models.ClaimedOffer]),
		collection.WithLoadFilter(s.prune),
	)
	return s
}

func (s *OfferClaimStore) Load(ctx context.Context) { s.items.Load(ctx) }
func (s *OfferClaimStore) IsLoading() bool { return s.items.IsLoading() }
func (s *OfferClaimStore) Err() string { return s.items.Err() }
func (s *OfferClaimStore) ClearError() { s.items.ClearError() }

// ClaimOffer claims offer and issues its redemption code. It fails with
// ErrAlreadyClaimed while a previous claim of the offer is not expired.
func (s *OfferClaimStore) ClaimOffer(ctx context.Context, offer models.Offer) (*models.ClaimedOffer, error) {
	s.wait()

	if offer.ID == "" {
		return nil, s.finish(ctx, "claim", invalid("offer id is empty"))
	}

	now := s.now()
	expiresAt := now.Add(s.deps.ClaimWindow)
	if !offer.ValidUntil.IsZero() && offer.ValidUntil.Before(expiresAt) {
		expiresAt = offer.ValidUntil
	}
	if !expiresAt.After(now) {
		return nil, s.finish(ctx, "claim", ErrOfferExpired)
	}

	var claim models.ClaimedOffer
	err := s.items.Update(ctx, func(prev []models.ClaimedOffer) ([]models.ClaimedOffer, error) {
		taken := make(map[string]struct{}, len(prev))
		for _, c := range prev {
			if c.OfferID == offer.ID && c.EffectiveStatus(now) != models.OfferExpired {
				return nil, ErrAlreadyClaimed
			}
			taken[c.RedemptionCode] = struct{}{}
		}

		code, err := s.deps.Codes.UniqueCode(offer.StoreSlug, taken)
		if err != nil {
			return nil, err
		}

		qr, err := codes.EncodePayload(codes.Payload{
			OfferID:        offer.ID,
			RedemptionCode: code,
			StoreSlug:      offer.StoreSlug,
			ValidUntil:     expiresAt,
			Timestamp:      now.UnixMilli(),
		})
		if err != nil {
			return nil, err
		}

		claim = models.ClaimedOffer{
			ID:             codes.NewID(),
			OfferID:        offer.ID,
			OfferTitle:     offer.Title,
			OfferValue:     offer.Value,
			StoreName:      offer.StoreName,
			StoreSlug:      offer.StoreSlug,
			ClaimedAt:      now,
			ExpiresAt:      expiresAt,
			Status:         models.OfferActive,
			RedemptionCode: code,
			QRCodeData:     qr,
			Terms:          strings.Join(offer.Terms, "; "),
		}
		return append(prev, claim), nil
	})
	if err != nil {
		return nil, s.finish(ctx, "claim", err)
	}
	return &claim, s.finish(ctx, "claim", nil)
}

type redeemOptions struct {
	savings float64
}

type RedeemOption func(*redeemOptions)

// WithSavings records the discount actually granted at the point of sale.
func WithSavings(amount float64) RedeemOption {
	return func(o *redeemOptions) { o.savings = amount }
}

// RedeemOffer moves an active claim to redeemed. Whether a claim past its
// expiry may still be redeemed depends on the store's RedeemPolicy.
func (s *OfferClaimStore) RedeemOffer(ctx context.Context, claimID, location string, opts ...RedeemOption) error {
	s.wait()

	var o redeemOptions
	for _, opt := range opts {
		opt(&o)
	}
	if o.savings < 0 {
		return s.finish(ctx, "redeem", invalid("savings must not be negative"))
	}

	now := s.now()
	err := s.items.Update(ctx, func(prev []models.ClaimedOffer) ([]models.ClaimedOffer, error) {
		for i := range prev {
			c := &prev[i]
			if c.ID != claimID {
				continue
			}
			switch c.EffectiveStatus(now) {
			case models.OfferRedeemed:
				return nil, ErrAlreadyRedeemed
			case models.OfferExpired:
				if c.Status != models.OfferActive || s.deps.RedeemPolicy == RedeemRejectExpired {
					return nil, ErrOfferExpired
				}
			}
			c.Status = models.OfferRedeemed
			c.RedeemedAt = &now
			c.RedeemedLocation = strings.TrimSpace(location)
			c.SavingsAmount = o.savings
			return prev, nil
		}
		return nil, ErrNotFound
	})
	return s.finish(ctx, "redeem", err)
}

// ActiveOffers lists claims that are active and not yet expired at now.
func (s *OfferClaimStore) ActiveOffers(now time.Time) []models.ClaimedOffer {
	return s.items.Filter(func(c models.ClaimedOffer) bool {
		return c.EffectiveStatus(now) == models.OfferActive
	})
}

func (s *OfferClaimStore) RedeemedOffers() []models.ClaimedOffer {
	return s.items.Filter(func(c models.ClaimedOffer) bool { return c.Status == models.OfferRedeemed })
}

// TotalSavings sums the recorded savings of redeemed claims.
func (s *OfferClaimStore) TotalSavings() float64 {
	var total float64
	for _, c := range s.RedeemedOffers() {
		total += c.SavingsAmount
	}
	return total
}

func (s *OfferClaimStore) EffectiveStatus(claim models.ClaimedOffer, now time.Time) models.OfferStatus {
	return claim.EffectiveStatus(now)
}

func (s *OfferClaimStore) Get(claimID string) (*models.ClaimedOffer, bool) {
	return s.find(func(c models.ClaimedOffer) bool { return c.ID == claimID })
}

// FindByCode looks a claim up by its redemption code, ignoring case.
func (s *OfferClaimStore) FindByCode(code string) (*models.ClaimedOffer, bool) {
	code = strings.TrimSpace(code)
	return s.find(func(c models.ClaimedOffer) bool { return strings.EqualFold(c.RedemptionCode, code) })
}

func (s *OfferClaimStore) All() []models.ClaimedOffer {
	return s.items.Items()
}

func (s *OfferClaimStore) find(pred func(models.ClaimedOffer) bool) (*models.ClaimedOffer, bool) {
	c, ok := s.items.Find(pred)
	if !ok {
		return nil, false
	}
	return &c, true
}

func (s *OfferClaimStore) reset() { s.items.Reset() }

// prune drops claims that expired without being redeemed.
func (s *OfferClaimStore) prune(items []models.ClaimedOffer) []models.ClaimedOffer {
	now := s.now()
	kept := make([]models.ClaimedOffer, 0, len(items))
	for _, c := range items {
		if c.EffectiveStatus(now) == models.OfferExpired {
			continue
		}
		kept = append(kept, c)
	}

	if n := len(items) - len(kept); n > 0 {
		s.deps.Metrics.PrunedClaims(n)
		s.log.Info(context.Background(), "pruned expired claims", "count", n)
	}
	return kept
}
