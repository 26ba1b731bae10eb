package codes

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"
)

var ErrInvalidPayload = errors.New("invalid redemption payload")

// Payload is what a point of sale reads from an offer's QR code.
type Payload struct {
	OfferID        string    `json:"offerId"`
	RedemptionCode string    `json:"redemptionCode"`
	StoreSlug      string    `json:"storeSlug"`
	ValidUntil     time.Time `json:"validUntil"`
	// Timestamp is the claim time in Unix milliseconds.
	Timestamp int64 `json:"timestamp"`
}

func EncodePayload(p Payload) (string, error) {
	b, err := json.Marshal(p)
	if err != nil {
		return "", fmt.Errorf("failed to encode payload: %w", err)
	}
	return string(b), nil
}

func DecodePayload(s string) (Payload, error) {
	var p Payload
	if err := json.Unmarshal([]byte(s), &p); err != nil {
		return Payload{}, fmt.Errorf("%w: %v", ErrInvalidPayload, err)
	}
	if p.OfferID == "" || p.RedemptionCode == "" {
		return Payload{}, fmt.Errorf("%w: missing offer id or code", ErrInvalidPayload)
	}
	return p, nil
}
