// Package codes generates record identifiers, human-typeable redemption
// codes and the payload embedded in an offer's QR code.
//
// Redemption codes are hard to guess but are not security tokens.
package codes

import (
	"crypto/rand"
	"errors"
	"fmt"
	"io"
	"strings"
	"unicode"

	"github.com/google/uuid"
)

// Alphabet omits characters that are easy to misread: 0, O, 1, I and L.
const Alphabet = "23456789ABCDEFGHJKMNPQRSTUVWXYZ"

const (
	groupLen        = 4
	groups          = 2
	prefixLen       = 3
	DefaultAttempts = 16
)

var ErrCodeSpaceExhausted = errors.New("could not generate a unique redemption code")

// NewID returns a random opaque record identifier.
func NewID() string {
	return uuid.NewString()
}

type Generator struct {
	rand     io.Reader
	attempts int
}

type Option func(*Generator)

// WithRand replaces the randomness source, e.g. with a fixed stream in tests.
func WithRand(r io.Reader) Option {
	return func(g *Generator) { g.rand = r }
}

// WithAttempts bounds UniqueCode retries; values below 1 keep the default.
func WithAttempts(n int) Option {
	return func(g *Generator) {
		if n > 0 {
			g.attempts = n
		}
	}
}

func NewGenerator(opts ...Option) *Generator {
	g := &Generator{rand: rand.Reader, attempts: DefaultAttempts}
	for _, o := range opts {
		o(g)
	}
	return g
}

// RedemptionCode returns a code like "K7QM-28XD", prefixed with the first
// letters of slug when it has any ("chanel-worth-ave" gives "CHA-K7QM-28XD").
func (g *Generator) RedemptionCode(slug string) (string, error) {
	parts := make([]string, 0, groups+1)
	if p := slugPrefix(slug); p != "" {
		parts = append(parts, p)
	}
	for range groups {
		s, err := g.randomString(groupLen)
		if err != nil {
			return "", fmt.Errorf("failed to generate code: %w", err)
		}
		parts = append(parts, s)
	}
	return strings.Join(parts, "-"), nil
}

// UniqueCode draws codes until one is not in existing.
func (g *Generator) UniqueCode(slug string, existing map[string]struct{}) (string, error) {
	for range g.attempts {
		code, err := g.RedemptionCode(slug)
		if err != nil {
			return "", err
		}
		if _, taken := existing[code]; !taken {
			return code, nil
		}
	}
	return "", ErrCodeSpaceExhausted
}

// randomString draws n characters from Alphabet without modulo bias.
func (g *Generator) randomString(n int) (string, error) {
	const limit = 256 - 256%len(Alphabet)

	out := make([]byte, 0, n)
	buf := make([]byte, n)
	for len(out) < n {
		if _, err := io.ReadFull(g.rand, buf); err != nil {
			return "", err
		}
		for _, b := range buf {
			if int(b) >= limit {
				continue
			}
			out = append(out, Alphabet[int(b)%len(Alphabet)])
			if len(out) == n {
				break
			}
		}
	}
	return string(out), nil
}

func slugPrefix(slug string) string {
	var b strings.Builder
	for _, r := range slug {
		if b.Len() == prefixLen {
			break
		}
		if r < unicode.MaxASCII && (unicode.IsLetter(r) || unicode.IsDigit(r)) {
			b.WriteRune(unicode.ToUpper(r))
		}
	}
	return b.String()
}
