// Package storage is the keyed JSON persistence boundary between the
// per-user collections and the raw kv repository.
//
// Failures are logged and counted here. Reads hand the error back so a
// caller can tell a missing key from an unreadable one; writes and removals
// only report success, keeping the in-memory state the source of truth for
// the session.
package storage

import (
	"context"
	"encoding/json"
	"strings"

	"github.com/dmitrijs2005/gophconcierge/internal/client/repositories/kv"
	"github.com/dmitrijs2005/gophconcierge/internal/logging"
	"github.com/dmitrijs2005/gophconcierge/internal/metrics"
)

// Key domains, one per collection.
const (
	DomainEventBookings     = "event_bookings"
	DomainConciergeBookings = "concierge_bookings"
	DomainFavorites         = "favorites"
	DomainClaimedOffers     = "claimed_offers"
)

// Domains lists every collection domain in a stable order.
var Domains = []string{
	DomainEventBookings,
	DomainConciergeBookings,
	DomainFavorites,
	DomainClaimedOffers,
}

// Key builds "<prefix>_<domain>_<userID>".
func Key(prefix, domain, userID string) string {
	return strings.Join([]string{prefix, domain, userID}, "_")
}

// Adapter stores JSON values in a kv.Repository, logging and counting
// every storage failure.
type Adapter struct {
	repo    kv.Repository
	log     logging.Logger
	metrics *metrics.Recorder
}

type Option func(*Adapter)

func WithMetrics(m *metrics.Recorder) Option {
	return func(a *Adapter) { a.metrics = m }
}

// NewAdapter wraps repo. A nil log discards output.
func NewAdapter(repo kv.Repository, log logging.Logger, opts ...Option) *Adapter {
	if log == nil {
		log = logging.Discard()
	}
	a := &Adapter{repo: repo, log: log}
	for _, o := range opts {
		o(a)
	}
	return a
}

// ReadRaw returns the stored bytes for key. ok is false and err nil when
// the key is absent. A storage error is logged and returned with ok false.
func (a *Adapter) ReadRaw(ctx context.Context, key string) (b []byte, ok bool, err error) {
	b, err = a.repo.Get(ctx, key)
	if err != nil {
		a.metrics.PersistenceFailure("read")
		a.log.Error(ctx, "storage read failed", "key", key, "err", err)
		return nil, false, err
	}
	if b == nil {
		return nil, false, nil
	}
	return b, true, nil
}

// WriteRaw stores b under key and reports success.
func (a *Adapter) WriteRaw(ctx context.Context, key string, b []byte) bool {
	if err := a.repo.Set(ctx, key, b); err != nil {
		a.metrics.PersistenceFailure("write")
		a.log.Error(ctx, "storage write failed", "key", key, "err", err)
		return false
	}
	return true
}

// Remove deletes key and reports success. Removing an absent key succeeds.
func (a *Adapter) Remove(ctx context.Context, key string) bool {
	if err := a.repo.Delete(ctx, key); err != nil {
		a.metrics.PersistenceFailure("remove")
		a.log.Error(ctx, "storage remove failed", "key", key, "err", err)
		return false
	}
	return true
}

// Logger returns the adapter's logger so collections log through the same sink.
func (a *Adapter) Logger() logging.Logger {
	return a.log
}

// WriteJSON encodes v and stores it under key, reporting success.
func WriteJSON[T any](ctx context.Context, a *Adapter, key string, v T) bool {
	b, err := json.Marshal(v)
	if err != nil {
		a.log.Error(ctx, "failed to encode value", "key", key, "err", err)
		return false
	}
	return a.WriteRaw(ctx, key, b)
}
