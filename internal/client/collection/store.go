package collection

import (
	"context"
	"encoding/json"
	"slices"
	"sync"

	"github.com/dmitrijs2005/gophconcierge/internal/client/storage"
	"github.com/dmitrijs2005/gophconcierge/internal/logging"
)

// Advisory error texts reported by Err.
const (
	// ErrSaveText is set when a snapshot could not be persisted.
	ErrSaveText = "failed to save changes"
	// ErrLoadText is set when the stored snapshot could not be read. The
	// store keeps its writes back until a later Load succeeds.
	ErrLoadText = "failed to load saved data"
)

// Store is a typed, write-through list persisted under a single key.
// All methods are safe for concurrent use. Mutations are serialized, so
// a check made inside Update always sees every completed mutation.
type Store[T any] struct {
	adapter *storage.Adapter
	key     string
	log     logging.Logger

	version    int
	migrations map[int]MigrateFunc
	validate   func([]T) error
	filter     func([]T) []T

	mu    sync.Mutex
	items []T
	// degraded is set while the stored snapshot is unread; persisting
	// then would overwrite data that was never loaded.
	degraded bool

	statusMu sync.RWMutex
	loading  bool
	errText  string
}

// Option configures a Store at construction.
type Option[T any] func(*Store[T])

// WithValidator rejects a decoded collection; rejected data is discarded.
func WithValidator[T any](fn func([]T) error) Option[T] {
	return func(s *Store[T]) { s.validate = fn }
}

// WithLoadFilter drops items right after a successful load. The filter may
// only remove items; when it does, the pruned snapshot is written back.
func WithLoadFilter[T any](fn func([]T) []T) Option[T] {
	return func(s *Store[T]) { s.filter = fn }
}

// WithMigration registers the upgrade from schema version from to from+1.
// The store's current version is one past the highest registered migration.
func WithMigration[T any](from int, fn MigrateFunc) Option[T] {
	return func(s *Store[T]) {
		s.migrations[from] = fn
		if from+1 > s.version {
			s.version = from + 1
		}
	}
}

// New returns an empty store persisted under key. Call Load to read the
// stored snapshot.
func New[T any](adapter *storage.Adapter, key string, opts ...Option[T]) *Store[T] {
	s := &Store[T]{
		adapter:    adapter,
		key:        key,
		log:        adapter.Logger().With("key", key),
		version:    baseVersion,
		migrations: make(map[int]MigrateFunc),
		items:      []T{},
	}
	for _, o := range opts {
		o(s)
	}
	return s
}

// Key is the storage key the store reads and writes.
func (s *Store[T]) Key() string { return s.key }

// Version is the schema version written by this store.
func (s *Store[T]) Version() int { return s.version }

// Load replaces the in-memory items with the persisted snapshot. Anything
// that does not decode into a valid collection leaves the store empty.
// When storage cannot be read the store is left empty, Err reports
// ErrLoadText and nothing is written until a later Load succeeds.
func (s *Store[T]) Load(ctx context.Context) {
	s.setLoading(true)
	defer s.setLoading(false)

	s.mu.Lock()
	defer s.mu.Unlock()

	s.items = []T{}

	raw, ok, err := s.adapter.ReadRaw(ctx, s.key)
	if err != nil {
		s.log.Warn(ctx, "stored collection unreadable, writes suspended", "err", err)
		s.degraded = true
		s.setError(ErrLoadText)
		return
	}
	if s.degraded {
		s.degraded = false
		s.clearErrorIf(ErrLoadText)
	}
	if !ok {
		s.log.Debug(ctx, "no stored collection")
		return
	}

	env, err := decodeEnvelope(raw)
	if err != nil {
		s.log.Warn(ctx, "discarding malformed collection", "err", err)
		return
	}

	itemsRaw, err := upgrade(env, s.version, s.migrations)
	if err != nil {
		s.log.Warn(ctx, "discarding collection", "version", env.Version, "err", err)
		return
	}

	var items []T
	if err := json.Unmarshal(itemsRaw, &items); err != nil {
		s.log.Warn(ctx, "discarding malformed collection", "err", err)
		return
	}
	if items == nil {
		items = []T{}
	}

	if s.validate != nil {
		if err := s.validate(items); err != nil {
			s.log.Warn(ctx, "discarding invalid collection", "err", err)
			return
		}
	}

	dirty := env.Version != s.version
	if s.filter != nil {
		before := len(items)
		items = s.filter(items)
		if items == nil {
			items = []T{}
		}
		dirty = dirty || len(items) != before
	}

	s.items = items
	if dirty {
		s.persistLocked(ctx)
	}
}

// Replace sets the items and persists them. It reports whether the
// snapshot was stored.
func (s *Store[T]) Replace(ctx context.Context, items []T) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.items = cloneOrEmpty(items)
	return s.persistLocked(ctx)
}

// Mutate applies fn to a copy of the items and persists the result.
func (s *Store[T]) Mutate(ctx context.Context, fn func(prev []T) []T) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.items = cloneOrEmpty(fn(slices.Clone(s.items)))
	return s.persistLocked(ctx)
}

// Update is Mutate for transformations that may refuse. When fn returns an
// error the items are left untouched and the error is returned unchanged.
// A persistence failure is not an error here; see Err.
func (s *Store[T]) Update(ctx context.Context, fn func(prev []T) ([]T, error)) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	next, err := fn(slices.Clone(s.items))
	if err != nil {
		return err
	}
	s.items = cloneOrEmpty(next)
	s.persistLocked(ctx)
	return nil
}

// Reset drops the in-memory items and status without touching storage.
func (s *Store[T]) Reset() {
	s.mu.Lock()
	s.items = []T{}
	s.degraded = false
	s.mu.Unlock()
	s.ClearError()
}

// Items returns a copy of the current items.
func (s *Store[T]) Items() []T {
	s.mu.Lock()
	defer s.mu.Unlock()
	return slices.Clone(s.items)
}

// Filter returns the items matching pred, in stored order.
func (s *Store[T]) Filter(pred func(T) bool) []T {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := []T{}
	for _, it := range s.items {
		if pred(it) {
			out = append(out, it)
		}
	}
	return out
}

// Find returns the first item matching pred.
func (s *Store[T]) Find(pred func(T) bool) (T, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, it := range s.items {
		if pred(it) {
			return it, true
		}
	}
	var zero T
	return zero, false
}

// Len is the number of items held in memory.
func (s *Store[T]) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.items)
}

// IsLoading reports whether a Load is in progress.
func (s *Store[T]) IsLoading() bool {
	s.statusMu.RLock()
	defer s.statusMu.RUnlock()
	return s.loading
}

// Err returns the advisory error text, empty when there is none.
func (s *Store[T]) Err() string {
	s.statusMu.RLock()
	defer s.statusMu.RUnlock()
	return s.errText
}

// ClearError drops the advisory error.
func (s *Store[T]) ClearError() {
	s.statusMu.Lock()
	s.errText = ""
	s.statusMu.Unlock()
}

func (s *Store[T]) clearErrorIf(text string) {
	s.statusMu.Lock()
	if s.errText == text {
		s.errText = ""
	}
	s.statusMu.Unlock()
}

func (s *Store[T]) setLoading(v bool) {
	s.statusMu.Lock()
	s.loading = v
	s.statusMu.Unlock()
}

func (s *Store[T]) setError(text string) {
	s.statusMu.Lock()
	s.errText = text
	s.statusMu.Unlock()
}

// persistLocked writes the current snapshot. Callers hold s.mu. The write
// is detached from ctx cancellation so a completed mutation is never lost
// to an abandoned caller.
func (s *Store[T]) persistLocked(ctx context.Context) bool {
	if s.degraded {
		s.log.Warn(ctx, "not saving changes over unread collection")
		s.setError(ErrLoadText)
		return false
	}

	ctx = context.WithoutCancel(ctx)

	items, err := json.Marshal(s.items)
	if err != nil {
		s.log.Error(ctx, "failed to encode collection", "err", err)
		s.setError(ErrSaveText)
		return false
	}

	if !storage.WriteJSON(ctx, s.adapter, s.key, envelope{Version: s.version, Items: items}) {
		s.setError(ErrSaveText)
		return false
	}
	return true
}

func cloneOrEmpty[T any](items []T) []T {
	if items == nil {
		return []T{}
	}
	return slices.Clone(items)
}
