package services

import (
	"slices"
	"sync"
	"time"

	"sixshop/internal/domain"
)

// WishlistService is a session-scoped set of saved products, kept in
// insertion order. It is not persisted.
type WishlistService struct {
	mu    sync.Mutex
	items []domain.WishlistEntry
	now   func() time.Time
}

func NewWishlistService() *WishlistService {
	return &WishlistService{items: []domain.WishlistEntry{}, now: time.Now}
}

func (s *WishlistService) index(id int) int {
	return slices.IndexFunc(s.items, func(e domain.WishlistEntry) bool { return e.ID == id })
}

// Add saves p unless it is already saved. Reports whether it was inserted.
func (s *WishlistService) Add(p domain.Product) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.index(p.ID) >= 0 {
		return false
	}
	s.items = append(s.items, domain.WishlistEntry{Product: p, AddedAt: s.now()})
	return true
}

// Remove drops id if saved. Reports whether anything was removed.
func (s *WishlistService) Remove(id int) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	i := s.index(id)
	if i < 0 {
		return false
	}
	s.items = slices.Delete(s.items, i, i+1)
	return true
}

func (s *WishlistService) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.items = []domain.WishlistEntry{}
}

func (s *WishlistService) Contains(id int) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.index(id) >= 0
}

func (s *WishlistService) Count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.items)
}

func (s *WishlistService) Items() []domain.WishlistEntry {
	s.mu.Lock()
	defer s.mu.Unlock()
	return slices.Clone(s.items)
}
