// Package identity turns the external auth service's tokens into the
// opaque user identity that namespaces every persisted key.
package identity

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var (
	ErrInvalidToken = errors.New("invalid token")
	ErrTokenExpired = errors.New("token expired")
	ErrEmptySecret  = errors.New("token secret is empty")
)

// Identity is the current user as seen by the engine.
type Identity struct {
	UserID          string
	IsAuthenticated bool
}

func Anonymous() Identity {
	return Identity{}
}

func Authenticated(userID string) Identity {
	return Identity{UserID: userID, IsAuthenticated: userID != ""}
}

// Claims carries the user id next to the registered claims.
type Claims struct {
	jwt.RegisteredClaims
	UserID string
}

// IssueToken signs an HS256 token for userID valid for ttl.
func IssueToken(userID string, secret []byte, ttl time.Duration) (string, error) {
	if len(secret) == 0 {
		return "", ErrEmptySecret
	}
	now := time.Now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
		UserID: userID,
	})

	s, err := token.SignedString(secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}
	return s, nil
}

type Verifier struct {
	secret []byte
	now    func() time.Time
}

func NewVerifier(secret []byte) *Verifier {
	return &Verifier{secret: secret, now: time.Now}
}

// WithClock returns a copy of v that validates expiry against now.
func (v *Verifier) WithClock(now func() time.Time) *Verifier {
	c := *v
	c.now = now
	return &c
}

// Verify parses an HS256 token and returns the authenticated identity.
func (v *Verifier) Verify(tokenString string) (Identity, error) {
	if len(v.secret) == 0 {
		return Anonymous(), ErrEmptySecret
	}

	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (any, error) {
		return v.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(v.now),
	)
	if errors.Is(err, jwt.ErrTokenExpired) {
		return Anonymous(), ErrTokenExpired
	}
	if err != nil {
		return Anonymous(), fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	if !token.Valid || claims.UserID == "" {
		return Anonymous(), ErrInvalidToken
	}

	return Authenticated(claims.UserID), nil
}
