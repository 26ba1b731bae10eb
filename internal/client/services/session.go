package services

import (
	"context"
	"strings"
	"sync"

	"github.com/dmitrijs2005/gophconcierge/internal/client/identity"
)

// Session owns the four stores of one signed-in user.
type Session struct {
	UserID string

	Events    *EventBookingStore
	Concierge *ConciergeBookingStore
	Favorites *FavoritesStore
	Offers    *OfferClaimStore
}

// NewSession builds the stores of userID without loading them.
func NewSession(deps Deps, userID string) *Session {
	deps = deps.withDefaults()
	return &Session{
		UserID:    userID,
		Events:    NewEventBookingStore(deps, userID),
		Concierge: NewConciergeBookingStore(deps, userID),
		Favorites: NewFavoritesStore(deps, userID),
		Offers:    NewOfferClaimStore(deps, userID),
	}
}

// Load loads every store concurrently and waits for all of them.
func (s *Session) Load(ctx context.Context) {
	var wg sync.WaitGroup
	for _, load := range []func(context.Context){
		s.Events.Load, s.Concierge.Load, s.Favorites.Load, s.Offers.Load,
	} {
		wg.Add(1)
		go func() {
			defer wg.Done()
			load(ctx)
		}()
	}
	wg.Wait()
}

// IsLoading reports whether any store is still loading.
func (s *Session) IsLoading() bool {
	return s.Events.IsLoading() || s.Concierge.IsLoading() || s.Favorites.IsLoading() || s.Offers.IsLoading()
}

// Err joins the advisory errors of the stores, empty when there are none.
func (s *Session) Err() string {
	var msgs []string
	for _, e := range []struct{ name, err string }{
		{"events", s.Events.Err()},
		{"concierge", s.Concierge.Err()},
		{"favorites", s.Favorites.Err()},
		{"offers", s.Offers.Err()},
	} {
		if e.err != "" {
			msgs = append(msgs, e.name+": "+e.err)
		}
	}
	return strings.Join(msgs, "; ")
}

// ClearErrors drops the advisory error of every store.
func (s *Session) ClearErrors() {
	s.Events.ClearError()
	s.Concierge.ClearError()
	s.Favorites.ClearError()
	s.Offers.ClearError()
}

func (s *Session) close() {
	s.Events.reset()
	s.Concierge.reset()
	s.Favorites.reset()
	s.Offers.reset()
}

// SessionManager holds at most one session at a time.
type SessionManager struct {
	deps Deps

	mu      sync.Mutex
	current *Session
}

// NewSessionManager returns a manager with no open session.
func NewSessionManager(deps Deps) *SessionManager {
	return &SessionManager{deps: deps.withDefaults()}
}

// SignIn opens and loads the session for id. Signing in as the current user
// returns the open session; signing in as someone else closes it first.
func (m *SessionManager) SignIn(ctx context.Context, id identity.Identity) (*Session, error) {
	if !id.IsAuthenticated || id.UserID == "" {
		return nil, ErrNotAuthenticated
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if m.current != nil {
		if m.current.UserID == id.UserID {
			return m.current, nil
		}
		m.closeLocked(ctx)
	}

	s := NewSession(m.deps, id.UserID)
	s.Load(ctx)
	m.current = s
	m.deps.Logger.Info(ctx, "session opened", "user_id", id.UserID)
	return s, nil
}

// Current returns the open session, if any.
func (m *SessionManager) Current() (*Session, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.current, m.current != nil
}

// SignOut drops the in-memory state of the current session. Persisted data
// is kept for the user's next sign-in.
func (m *SessionManager) SignOut(ctx context.Context) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.closeLocked(ctx)
}

func (m *SessionManager) closeLocked(ctx context.Context) {
	if m.current == nil {
		return
	}
	m.current.close()
	m.deps.Logger.Info(ctx, "session closed", "user_id", m.current.UserID)
	m.current = nil
}
