package services

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/dmitrijs2005/gophconcierge/internal/client/repositories/kv"
	"github.com/dmitrijs2005/gophconcierge/internal/client/storage"
	"github.com/dmitrijs2005/gophconcierge/internal/metrics"
	"github.com/stretchr/testify/require"
)

type testClock struct {
	mu  sync.Mutex
	now time.Time
}

func newClock(t time.Time) *testClock { return &testClock{now: t} }

func (c *testClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *testClock) Set(t time.Time) {
	c.mu.Lock()
	c.now = t
	c.mu.Unlock()
}

func (c *testClock) Add(d time.Duration) {
	c.mu.Lock()
	c.now = c.now.Add(d)
	c.mu.Unlock()
}

// brokenRepo fails every write while broken is set.
type brokenRepo struct {
	*kv.MemoryRepository

	mu     sync.Mutex
	broken bool
	writes int
}

func (r *brokenRepo) Set(ctx context.Context, key string, value []byte) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.writes++
	if r.broken {
		return errors.New("storage disabled")
	}
	return r.MemoryRepository.Set(ctx, key, value)
}

func (r *brokenRepo) setBroken(v bool) {
	r.mu.Lock()
	r.broken = v
	r.mu.Unlock()
}

func (r *brokenRepo) writeCount() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.writes
}

type fixture struct {
	deps    Deps
	repo    *brokenRepo
	clock   *testClock
	metrics *metrics.Recorder
}

var feb1 = time.Date(2025, 2, 1, 12, 0, 0, 0, time.UTC)

func newFixture(t *testing.T) *fixture {
	t.Helper()

	repo := &brokenRepo{MemoryRepository: kv.NewMemoryRepository()}
	clock := newClock(feb1)
	rec := metrics.New()

	return &fixture{
		deps: Deps{
			Adapter:  storage.NewAdapter(repo, nil, storage.WithMetrics(rec)),
			Metrics:  rec,
			Clock:    clock.Now,
			Location: time.UTC,
		},
		repo:    repo,
		clock:   clock,
		metrics: rec,
	}
}

func (f *fixture) stored(t *testing.T, key string) []byte {
	t.Helper()
	b, err := f.repo.Get(context.Background(), key)
	require.NoError(t, err)
	return b
}
