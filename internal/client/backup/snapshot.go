package backup

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"path"
	"time"

	"github.com/dmitrijs2005/gophconcierge/internal/client/codes"
	"github.com/dmitrijs2005/gophconcierge/internal/client/collection"
	"github.com/dmitrijs2005/gophconcierge/internal/client/models"
	"github.com/dmitrijs2005/gophconcierge/internal/client/repositories/kv"
	"github.com/dmitrijs2005/gophconcierge/internal/client/services"
	"github.com/dmitrijs2005/gophconcierge/internal/client/storage"
	"github.com/dmitrijs2005/gophconcierge/internal/logging"
)

const snapshotVersion = 1

var (
	ErrUserMismatch       = errors.New("snapshot belongs to another user")
	ErrUnsupportedVersion = errors.New("unsupported snapshot version")
	ErrWipeIncomplete     = errors.New("some collections could not be removed")
)

// Sink stores and retrieves snapshot blobs by key.
type Sink interface {
	Put(ctx context.Context, key string, data []byte) error
	Get(ctx context.Context, key string) ([]byte, error)
}

type Snapshot struct {
	Version           int                       `json:"version"`
	UserID            string                    `json:"userId"`
	ExportedAt        time.Time                 `json:"exportedAt"`
	EventBookings     []models.EventBooking     `json:"eventBookings"`
	ConciergeBookings []models.ConciergeBooking `json:"conciergeBookings"`
	Favorites         []models.FavoriteStore    `json:"favorites"`
	ClaimedOffers     []models.ClaimedOffer     `json:"claimedOffers"`
}

type Exporter struct {
	sink Sink
	log  logging.Logger
	now  func() time.Time
}

func NewExporter(sink Sink, log logging.Logger) *Exporter {
	if log == nil {
		log = logging.Discard()
	}
	return &Exporter{sink: sink, log: log, now: time.Now}
}

// WithClock returns a copy of e that stamps snapshots with now.
func (e *Exporter) WithClock(now func() time.Time) *Exporter {
	c := *e
	c.now = now
	return &c
}

// Export writes the session's current collections and returns the key.
func (e *Exporter) Export(ctx context.Context, s *services.Session) (string, error) {
	now := e.now().UTC()
	snap := Snapshot{
		Version:           snapshotVersion,
		UserID:            s.UserID,
		ExportedAt:        now,
		EventBookings:     orEmpty(s.Events.All()),
		ConciergeBookings: orEmpty(s.Concierge.All()),
		Favorites:         orEmpty(s.Favorites.All()),
		ClaimedOffers:     orEmpty(s.Offers.All()),
	}

	data, err := json.MarshalIndent(snap, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to encode snapshot: %w", err)
	}

	key := ObjectKey(s.UserID, now, codes.NewID())
	if err := e.sink.Put(ctx, key, data); err != nil {
		return "", fmt.Errorf("failed to store snapshot %s: %w", key, err)
	}

	e.log.Info(ctx, "snapshot exported", "user_id", s.UserID, "key", key, "bytes", len(data))
	return key, nil
}

// ObjectKey builds exports/<userId>/<yyyy>/<mm>/<dd>/<id>.json.
func ObjectKey(userID string, at time.Time, id string) string {
	return path.Join("exports", userID, at.Format("2006"), at.Format("01"), at.Format("02"), id+".json")
}

// Load fetches and decodes the snapshot stored under key.
func Load(ctx context.Context, sink Sink, key string) (*Snapshot, error) {
	data, err := sink.Get(ctx, key)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch snapshot %s: %w", key, err)
	}

	var snap Snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return nil, fmt.Errorf("failed to decode snapshot %s: %w", key, err)
	}
	if snap.Version != snapshotVersion {
		return nil, fmt.Errorf("%w: %d", ErrUnsupportedVersion, snap.Version)
	}
	return &snap, nil
}

// Restore overwrites userID's four collections with snap in one atomic
// write. Open sessions must be reloaded to see the result.
func Restore(ctx context.Context, repo kv.Repository, prefix, userID string, snap *Snapshot) error {
	if snap.UserID != userID {
		return ErrUserMismatch
	}

	values := make(map[string][]byte, len(storage.Domains))
	add := func(domain string, encode func() ([]byte, error)) error {
		b, err := encode()
		if err != nil {
			return fmt.Errorf("failed to encode %s: %w", domain, err)
		}
		values[storage.Key(prefix, domain, userID)] = b
		return nil
	}

	if err := errors.Join(
		add(storage.DomainEventBookings, func() ([]byte, error) { return collection.Encode(snap.EventBookings) }),
		add(storage.DomainConciergeBookings, func() ([]byte, error) { return collection.Encode(snap.ConciergeBookings) }),
		add(storage.DomainFavorites, func() ([]byte, error) { return collection.Encode(snap.Favorites) }),
		add(storage.DomainClaimedOffers, func() ([]byte, error) { return collection.Encode(snap.ClaimedOffers) }),
	); err != nil {
		return err
	}

	if err := repo.SetMany(ctx, values); err != nil {
		return fmt.Errorf("failed to restore snapshot: %w", err)
	}
	return nil
}

// Wipe removes every collection of userID. It tries all domains and
// fails with ErrWipeIncomplete naming the ones that could not be removed.
func Wipe(ctx context.Context, adapter *storage.Adapter, prefix, userID string) error {
	var failed []string
	for _, d := range storage.Domains {
		if !adapter.Remove(ctx, storage.Key(prefix, d, userID)) {
			failed = append(failed, d)
		}
	}
	if len(failed) > 0 {
		return fmt.Errorf("%w: %v", ErrWipeIncomplete, failed)
	}
	return nil
}

func orEmpty[T any](items []T) []T {
	if items == nil {
		return []T{}
	}
	return items
}
