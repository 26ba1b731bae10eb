package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/dmitrijs2005/gophconcierge/internal/client/codes"
	"github.com/dmitrijs2005/gophconcierge/internal/client/repositories/kv"
	"github.com/dmitrijs2005/gophconcierge/internal/client/storage"
	"github.com/dmitrijs2005/gophconcierge/internal/logging"
	"github.com/dmitrijs2005/gophconcierge/internal/metrics"
)

const (
	DefaultKeyPrefix   = "gc"
	DefaultClaimWindow = 30 * 24 * time.Hour
)

// RedeemPolicy decides whether a claim may be redeemed after it expired.
type RedeemPolicy string

const (
	RedeemAllowExpired  RedeemPolicy = "allow"
	RedeemRejectExpired RedeemPolicy = "reject"
)

// ParseRedeemPolicy parses a configured policy; empty means RedeemAllowExpired.
func ParseRedeemPolicy(s string) (RedeemPolicy, error) {
	switch p := RedeemPolicy(strings.ToLower(strings.TrimSpace(s))); p {
	case "", RedeemAllowExpired:
		return RedeemAllowExpired, nil
	case RedeemRejectExpired:
		return p, nil
	default:
		return "", fmt.Errorf("%w: redeem policy %q", ErrInvalidInput, s)
	}
}

// Deps are the collaborators shared by every store of a session. Zero
// fields are replaced with defaults by the constructors.
type Deps struct {
	Adapter *storage.Adapter
	Logger  logging.Logger
	Metrics *metrics.Recorder
	Codes   *codes.Generator

	Clock    func() time.Time
	Location *time.Location

	// Delay is waited before each mutating operation validates and
	// applies its change. It cannot be cancelled.
	Delay time.Duration

	KeyPrefix    string
	ClaimWindow  time.Duration
	RedeemPolicy RedeemPolicy
}

func (d Deps) withDefaults() Deps {
	if d.Logger == nil {
		d.Logger = logging.Discard()
	}
	if d.Adapter == nil {
		d.Adapter = storage.NewAdapter(kv.NewMemoryRepository(), d.Logger, storage.WithMetrics(d.Metrics))
	}
	if d.Codes == nil {
		d.Codes = codes.NewGenerator()
	}
	if d.Clock == nil {
		d.Clock = time.Now
	}
	if d.Location == nil {
		d.Location = time.Local
	}
	if d.KeyPrefix == "" {
		d.KeyPrefix = DefaultKeyPrefix
	}
	if d.ClaimWindow <= 0 {
		d.ClaimWindow = DefaultClaimWindow
	}
	if d.RedeemPolicy == "" {
		d.RedeemPolicy = RedeemAllowExpired
	}
	return d
}

// base carries what every domain store needs besides its collection.
type base struct {
	name string
	deps Deps
	log  logging.Logger
}

func newBase(name, userID string, deps Deps) base {
	deps = deps.withDefaults()
	return base{
		name: name,
		deps: deps,
		log:  deps.Logger.With("store", name, "user_id", userID),
	}
}

func (b *base) now() time.Time {
	return b.deps.Clock()
}

// wait simulates the remote round trip of a mutating operation.
func (b *base) wait() {
	if b.deps.Delay > 0 {
		time.Sleep(b.deps.Delay)
	}
}

// finish records the outcome of op and returns err unchanged.
func (b *base) finish(ctx context.Context, op string, err error) error {
	b.deps.Metrics.Operation(b.name, op, resultOf(err))
	switch {
	case err == nil:
		b.log.Debug(ctx, op+" ok")
	case resultOf(err) == metrics.ResultError:
		b.log.Error(ctx, op+" failed", "err", err)
	default:
		b.log.Debug(ctx, op+" refused", "reason", err)
	}
	return err
}

// validateAll is the load validator shared by the stores.
func validateAll[T interface{ Validate() error }](items []T) error {
	for i, it := range items {
		if err := it.Validate(); err != nil {
			return fmt.Errorf("item %d: %w", i, err)
		}
	}
	return nil
}

func invalid(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInvalidInput, fmt.Sprintf(format, args...))
}
