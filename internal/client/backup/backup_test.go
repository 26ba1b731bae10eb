package backup

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/dmitrijs2005/gophconcierge/internal/client/models"
	"github.com/dmitrijs2005/gophconcierge/internal/client/repositories/kv"
	"github.com/dmitrijs2005/gophconcierge/internal/client/services"
	"github.com/dmitrijs2005/gophconcierge/internal/client/storage"
	"github.com/dmitrijs2005/gophconcierge/internal/logging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var exportTime = time.Date(2025, 2, 3, 9, 30, 0, 0, time.UTC)

type memSink struct {
	mu   sync.Mutex
	data map[string][]byte
	err  error
}

func newMemSink() *memSink { return &memSink{data: map[string][]byte{}} }

func (s *memSink) Put(_ context.Context, key string, data []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return s.err
	}
	s.data[key] = append([]byte(nil), data...)
	return nil
}

func (s *memSink) Get(_ context.Context, key string) ([]byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	b, ok := s.data[key]
	if !ok {
		return nil, os.ErrNotExist
	}
	return b, nil
}

func newDeps(repo kv.Repository) services.Deps {
	return services.Deps{
		Adapter:  storage.NewAdapter(repo, logging.Discard()),
		Clock:    func() time.Time { return exportTime },
		Location: time.UTC,
	}
}

func seededSession(t *testing.T, repo kv.Repository, userID string) *services.Session {
	t.Helper()
	ctx := context.Background()

	s := services.NewSession(newDeps(repo), userID)
	s.Load(ctx)

	_, err := s.Events.BookEvent(ctx, models.Event{ID: "ev-1", Title: "Spring Preview", Date: "2025-03-10", Time: "19:00"}, 2, "")
	require.NoError(t, err)
	_, err = s.Concierge.BookService(ctx, models.ConciergeService{Type: "personal-shopping", Title: "Personal Shopping"},
		models.ConciergeRequest{Date: "2025-03-12", Time: "11:00"})
	require.NoError(t, err)
	_, err = s.Favorites.AddFavorite(ctx, models.Store{ID: "st-1", Name: "Chanel", Slug: "chanel", Category: "fashion"})
	require.NoError(t, err)
	_, err = s.Offers.ClaimOffer(ctx, models.Offer{ID: "of-1", Title: "10% off", StoreSlug: "chanel"})
	require.NoError(t, err)
	return s
}

func TestObjectKey(t *testing.T) {
	assert.Equal(t, "exports/u1/2025/02/03/abc.json", ObjectKey("u1", exportTime, "abc"))
}

func TestExport_WritesSnapshot(t *testing.T) {
	sink := newMemSink()
	s := seededSession(t, kv.NewMemoryRepository(), "u1")

	key, err := NewExporter(sink, nil).WithClock(func() time.Time { return exportTime }).Export(context.Background(), s)
	require.NoError(t, err)
	assert.Regexp(t, `^exports/u1/2025/02/03/[0-9a-f-]{36}\.json$`, key)

	snap, err := Load(context.Background(), sink, key)
	require.NoError(t, err)
	assert.Equal(t, "u1", snap.UserID)
	assert.True(t, snap.ExportedAt.Equal(exportTime))
	assert.Len(t, snap.EventBookings, 1)
	assert.Len(t, snap.ConciergeBookings, 1)
	assert.Len(t, snap.Favorites, 1)
	assert.Len(t, snap.ClaimedOffers, 1)
}

func TestExport_EmptySessionHasEmptyArrays(t *testing.T) {
	sink := newMemSink()
	s := services.NewSession(newDeps(kv.NewMemoryRepository()), "u1")
	s.Load(context.Background())

	key, err := NewExporter(sink, nil).Export(context.Background(), s)
	require.NoError(t, err)

	var raw map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(sink.data[key], &raw))
	for _, f := range []string{"eventBookings", "conciergeBookings", "favorites", "claimedOffers"} {
		assert.JSONEq(t, `[]`, string(raw[f]), f)
	}
}

func TestExport_SinkError(t *testing.T) {
	sink := newMemSink()
	sink.err = errors.New("disk full")
	s := services.NewSession(newDeps(kv.NewMemoryRepository()), "u1")

	_, err := NewExporter(sink, nil).Export(context.Background(), s)
	require.ErrorIs(t, err, sink.err)
}

func TestRestore_RoundTrip(t *testing.T) {
	ctx := context.Background()
	sink := newMemSink()
	src := seededSession(t, kv.NewMemoryRepository(), "u1")

	key, err := NewExporter(sink, nil).Export(ctx, src)
	require.NoError(t, err)
	snap, err := Load(ctx, sink, key)
	require.NoError(t, err)

	dst := kv.NewMemoryRepository()
	require.NoError(t, Restore(ctx, dst, services.DefaultKeyPrefix, "u1", snap))

	restored := services.NewSession(newDeps(dst), "u1")
	restored.Load(ctx)
	assert.Empty(t, restored.Err())
	assert.Equal(t, src.Events.All(), restored.Events.All())
	assert.Equal(t, src.Favorites.All(), restored.Favorites.All())
	assert.True(t, restored.Offers.ActiveOffers(exportTime)[0].ExpiresAt.Equal(src.Offers.All()[0].ExpiresAt))
	assert.Len(t, restored.Concierge.Active(), 1)
}

func TestRestore_RejectsOtherUser(t *testing.T) {
	repo := kv.NewMemoryRepository()
	err := Restore(context.Background(), repo, "gc", "bob", &Snapshot{Version: 1, UserID: "alice"})
	require.ErrorIs(t, err, ErrUserMismatch)

	for _, d := range storage.Domains {
		v, err := repo.Get(context.Background(), storage.Key("gc", d, "bob"))
		require.NoError(t, err)
		assert.Nil(t, v, d)
	}
}

func TestLoad_Errors(t *testing.T) {
	ctx := context.Background()
	sink := newMemSink()
	sink.data["bad"] = []byte("{")
	sink.data["future"] = []byte(`{"version":9,"userId":"u1"}`)

	_, err := Load(ctx, sink, "missing")
	require.ErrorIs(t, err, os.ErrNotExist)

	_, err = Load(ctx, sink, "bad")
	require.Error(t, err)

	_, err = Load(ctx, sink, "future")
	require.ErrorIs(t, err, ErrUnsupportedVersion)
}

func TestWipe_RemovesAllDomains(t *testing.T) {
	ctx := context.Background()
	repo := kv.NewMemoryRepository()
	seededSession(t, repo, "u1")
	seededSession(t, repo, "u2")

	require.NoError(t, Wipe(ctx, storage.NewAdapter(repo, nil), services.DefaultKeyPrefix, "u1"))

	for _, d := range storage.Domains {
		v, err := repo.Get(ctx, storage.Key(services.DefaultKeyPrefix, d, "u1"))
		require.NoError(t, err)
		assert.Nil(t, v, d)

		v, err = repo.Get(ctx, storage.Key(services.DefaultKeyPrefix, d, "u2"))
		require.NoError(t, err)
		assert.NotNil(t, v, d)
	}
}

type failingDeletes struct {
	*kv.MemoryRepository
}

func (failingDeletes) Delete(context.Context, string) error { return errors.New("read-only database") }

func TestWipe_ReportsFailedDomains(t *testing.T) {
	ctx := context.Background()
	repo := failingDeletes{kv.NewMemoryRepository()}
	seededSession(t, repo, "u1")

	err := Wipe(ctx, storage.NewAdapter(repo, nil), services.DefaultKeyPrefix, "u1")
	require.ErrorIs(t, err, ErrWipeIncomplete)
	assert.Contains(t, err.Error(), storage.DomainFavorites)

	v, err := repo.Get(ctx, storage.Key(services.DefaultKeyPrefix, storage.DomainFavorites, "u1"))
	require.NoError(t, err)
	assert.NotNil(t, v)
}

func TestFileSink_PutGet(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	sink := NewFileSink(dir)

	require.NoError(t, sink.Put(ctx, "exports/u1/2025/02/03/a.json", []byte(`{}`)))
	_, err := os.Stat(filepath.Join(dir, "exports", "u1", "2025", "02", "03", "a.json"))
	require.NoError(t, err)

	b, err := sink.Get(ctx, "exports/u1/2025/02/03/a.json")
	require.NoError(t, err)
	assert.Equal(t, `{}`, string(b))
}

func TestFileSink_RejectsEscapingKeys(t *testing.T) {
	sink := NewFileSink(t.TempDir())
	ctx := context.Background()

	require.Error(t, sink.Put(ctx, "../outside.json", []byte("x")))
	require.Error(t, sink.Put(ctx, "/abs.json", []byte("x")))
	_, err := sink.Get(ctx, "a/../../b.json")
	require.Error(t, err)
}

func TestFileSink_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := NewFileSink(t.TempDir()).Put(ctx, "a.json", nil)
	require.ErrorIs(t, err, context.Canceled)
}
