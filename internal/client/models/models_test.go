package models

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseDateTime(t *testing.T) {
	loc := time.FixedZone("EST", -5*3600)

	got, err := ParseDateTime("2025-02-15", "19:00", loc)
	require.NoError(t, err)
	assert.True(t, got.Equal(time.Date(2025, 2, 15, 19, 0, 0, 0, loc)))

	got, err = ParseDateTime(" 2025-02-15 ", "", loc)
	require.NoError(t, err)
	assert.True(t, got.Equal(time.Date(2025, 2, 15, 0, 0, 0, 0, loc)))

	_, err = ParseDateTime("15/02/2025", "", loc)
	require.ErrorIs(t, err, ErrBadDate)

	_, err = ParseDateTime("2025-02-15", "7pm", loc)
	require.ErrorIs(t, err, ErrBadDate)
}

func TestClaimedOffer_EffectiveStatus(t *testing.T) {
	exp := time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)
	c := ClaimedOffer{Status: OfferActive, ExpiresAt: exp}

	assert.Equal(t, OfferActive, c.EffectiveStatus(exp.Add(-time.Second)))
	assert.Equal(t, OfferExpired, c.EffectiveStatus(exp))
	assert.Equal(t, OfferExpired, c.EffectiveStatus(exp.Add(time.Hour)))

	c.Status = OfferRedeemed
	assert.Equal(t, OfferRedeemed, c.EffectiveStatus(exp.Add(time.Hour)))
}

func TestBookingStatus(t *testing.T) {
	assert.True(t, BookingConfirmed.Active())
	assert.True(t, BookingPending.Active())
	assert.False(t, BookingCancelled.Active())
	assert.True(t, BookingCancelled.Valid())
	assert.False(t, BookingStatus("archived").Valid())
}

func TestValidate(t *testing.T) {
	assert.NoError(t, EventBooking{ID: "b1", EventID: "e1", Status: BookingConfirmed}.Validate())
	assert.ErrorIs(t, EventBooking{ID: "b1", Status: BookingConfirmed}.Validate(), ErrMissingID)
	assert.ErrorIs(t, EventBooking{ID: "b1", EventID: "e1", Status: "done"}.Validate(), ErrUnknownStatus)

	assert.ErrorIs(t, ConciergeBooking{ID: "c1", Status: BookingPending}.Validate(), ErrMissingID)
	assert.ErrorIs(t, FavoriteStore{ID: "f1"}.Validate(), ErrMissingID)
	assert.ErrorIs(t, ClaimedOffer{ID: "c1", OfferID: "o1", RedemptionCode: "X", Status: "void"}.Validate(), ErrUnknownStatus)
}

func TestClaimedOffer_JSONLayout(t *testing.T) {
	redeemed := time.Date(2025, 2, 2, 10, 0, 0, 0, time.UTC)
	c := ClaimedOffer{
		ID: "c1", OfferID: "off-1", Status: OfferRedeemed, RedemptionCode: "ABCD-EFGH",
		RedeemedAt: &redeemed, RedeemedLocation: "Worth Ave",
	}

	b, err := json.Marshal(c)
	require.NoError(t, err)

	var m map[string]any
	require.NoError(t, json.Unmarshal(b, &m))
	for _, k := range []string{"offerId", "claimedAt", "expiresAt", "redemptionCode", "qrCodeData", "redeemedAt", "redeemedLocation", "savingsAmount"} {
		assert.Contains(t, m, k)
	}
	assert.Equal(t, "2025-02-02T10:00:00Z", m["redeemedAt"])
}
