package models

import (
	"fmt"
	"time"
)

type OfferStatus string

const (
	OfferActive   OfferStatus = "active"
	OfferRedeemed OfferStatus = "redeemed"
	OfferExpired  OfferStatus = "expired"
)

func (s OfferStatus) Valid() bool {
	switch s {
	case OfferActive, OfferRedeemed, OfferExpired:
		return true
	}
	return false
}

type ClaimedOffer struct {
	ID               string      `json:"id"`
	OfferID          string      `json:"offerId"`
	OfferTitle       string      `json:"offerTitle"`
	OfferValue       string      `json:"offerValue"`
	StoreName        string      `json:"storeName"`
	StoreSlug        string      `json:"storeSlug"`
	ClaimedAt        time.Time   `json:"claimedAt"`
	ExpiresAt        time.Time   `json:"expiresAt"`
	Status           OfferStatus `json:"status"`
	RedemptionCode   string      `json:"redemptionCode"`
	QRCodeData       string      `json:"qrCodeData"`
	RedeemedAt       *time.Time  `json:"redeemedAt,omitempty"`
	RedeemedLocation string      `json:"redeemedLocation,omitempty"`
	SavingsAmount    float64     `json:"savingsAmount"`
	Terms            string      `json:"terms"`
}

func (c ClaimedOffer) Validate() error {
	if c.ID == "" || c.OfferID == "" || c.RedemptionCode == "" {
		return ErrMissingID
	}
	if !c.Status.Valid() {
		return fmt.Errorf("%w: %q", ErrUnknownStatus, c.Status)
	}
	return nil
}

// EffectiveStatus derives the status at now: an active claim whose expiry
// has passed reads as expired. Nothing is written back.
func (c ClaimedOffer) EffectiveStatus(now time.Time) OfferStatus {
	if c.Status == OfferActive && !c.ExpiresAt.After(now) {
		return OfferExpired
	}
	return c.Status
}
