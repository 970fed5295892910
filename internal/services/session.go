package services

import (
	"context"
	"sync"
	"time"

	"sixshop/internal/metrics"
	"sixshop/internal/securestore"
)

// Session is the state owned by one browser session.
type Session struct {
	ID       string
	Cart     *CartService
	Wishlist *WishlistService
	Filter   *FilterService

	mu       sync.Mutex
	lastSeen time.Time
}

func (s *Session) touch(now time.Time) {
	s.mu.Lock()
	s.lastSeen = now
	s.mu.Unlock()
}

func (s *Session) idleSince(now time.Time) time.Duration {
	s.mu.Lock()
	defer s.mu.Unlock()
	return now.Sub(s.lastSeen)
}

// SessionRegistry creates sessions on first use and hydrates their carts
// from the encrypted store.
type SessionRegistry struct {
	store   *securestore.Store
	metrics *metrics.Metrics
	now     func() time.Time

	mu       sync.Mutex
	sessions map[string]*Session
}

func NewSessionRegistry(store *securestore.Store, m *metrics.Metrics) *SessionRegistry {
	return &SessionRegistry{store: store, metrics: m, now: time.Now, sessions: map[string]*Session{}}
}

func (r *SessionRegistry) Get(ctx context.Context, sid string) *Session {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := r.now()
	if s, ok := r.sessions[sid]; ok {
		s.touch(now)
		return s
	}
	slot := r.store.Slot(securestore.SessionSlot(sid))
	s := &Session{
		ID:       sid,
		Cart:     NewCartService(ctx, slot, r.metrics),
		Wishlist: NewWishlistService(),
		Filter:   NewFilterService(),
		lastSeen: now,
	}
	r.sessions[sid] = s
	r.metrics.SetSessions(len(r.sessions))
	return s
}

func (r *SessionRegistry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.sessions)
}

// Sweep forgets sessions idle longer than maxIdle. Their carts stay
// persisted; wishlists and filters are dropped.
func (r *SessionRegistry) Sweep(maxIdle time.Duration) int {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := r.now()
	n := 0
	for id, s := range r.sessions {
		if s.idleSince(now) > maxIdle {
			delete(r.sessions, id)
			n++
		}
	}
	r.metrics.SetSessions(len(r.sessions))
	return n
}

// RunSweeper sweeps every interval until ctx is done.
func (r *SessionRegistry) RunSweeper(ctx context.Context, interval, maxIdle time.Duration) {
	t := time.NewTicker(interval)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			r.Sweep(maxIdle)
		}
	}
}
