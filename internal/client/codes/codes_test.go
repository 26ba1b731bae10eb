package codes

import (
	"bytes"
	"errors"
	"regexp"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type errReader struct{}

func (errReader) Read([]byte) (int, error) { return 0, errors.New("entropy gone") }

func zeros(n int) *bytes.Reader { return bytes.NewReader(make([]byte, n)) }

func TestNewID_IsUUID(t *testing.T) {
	id := NewID()
	_, err := uuid.Parse(id)
	require.NoError(t, err)
	assert.NotEqual(t, id, NewID())
}

func TestRedemptionCode_Format(t *testing.T) {
	g := NewGenerator()
	re := regexp.MustCompile(`^[` + Alphabet + `]{4}-[` + Alphabet + `]{4}$`)

	for range 200 {
		code, err := g.RedemptionCode("")
		require.NoError(t, err)
		require.Regexp(t, re, code)
		require.False(t, strings.ContainsAny(code, "0O1IL"), code)
	}
}

func TestRedemptionCode_SlugPrefix(t *testing.T) {
	g := NewGenerator(WithRand(zeros(64)))

	code, err := g.RedemptionCode("chanel-worth-ave")
	require.NoError(t, err)
	assert.Equal(t, "CHA-2222-2222", code)

	code, err = g.RedemptionCode("-é-7b")
	require.NoError(t, err)
	assert.Equal(t, "7B-2222-2222", code)
}

func TestRedemptionCode_RejectsBiasedBytes(t *testing.T) {
	// 255 is above the rejection limit and must be skipped.
	stream := append([]byte{255, 1, 2, 3, 4, 5, 6, 7}, make([]byte, 8)...)
	g := NewGenerator(WithRand(bytes.NewReader(stream)))

	code, err := g.RedemptionCode("")
	require.NoError(t, err)
	assert.Equal(t, "3456-2222", code)
}

func TestRedemptionCode_RandError(t *testing.T) {
	g := NewGenerator(WithRand(errReader{}))

	_, err := g.RedemptionCode("")
	require.ErrorContains(t, err, "entropy gone")
}

func TestUniqueCode_SkipsOwnCodes(t *testing.T) {
	// First draw is taken, second is free.
	stream := append(make([]byte, 8), 1, 1, 1, 1, 1, 1, 1, 1)
	g := NewGenerator(WithRand(bytes.NewReader(stream)))

	code, err := g.UniqueCode("", map[string]struct{}{"2222-2222": {}})
	require.NoError(t, err)
	assert.Equal(t, "3333-3333", code)
}

func TestUniqueCode_Exhausted(t *testing.T) {
	g := NewGenerator(WithRand(zeros(1024)), WithAttempts(3))

	_, err := g.UniqueCode("", map[string]struct{}{"2222-2222": {}})
	require.ErrorIs(t, err, ErrCodeSpaceExhausted)
}

func TestPayload_EncodeDecode(t *testing.T) {
	p := Payload{
		OfferID:        "off-1",
		RedemptionCode: "CHA-2222-2222",
		StoreSlug:      "chanel",
		ValidUntil:     time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC),
		Timestamp:      1738368000000,
	}

	s, err := EncodePayload(p)
	require.NoError(t, err)
	assert.Contains(t, s, `"offerId":"off-1"`)

	got, err := DecodePayload(s)
	require.NoError(t, err)
	assert.Equal(t, p, got)
}

func TestDecodePayload_Invalid(t *testing.T) {
	for _, s := range []string{"", "not json", `{"offerId":"x"}`} {
		_, err := DecodePayload(s)
		assert.ErrorIs(t, err, ErrInvalidPayload, s)
	}
}

func TestRenderQR(t *testing.T) {
	png, err := RenderQR(`{"offerId":"off-1"}`, 128)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(png, []byte("\x89PNG")))

	s, err := RenderQRTerminal("CHA-2222-2222")
	require.NoError(t, err)
	assert.NotEmpty(t, strings.TrimSpace(s))
}
