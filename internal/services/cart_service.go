package services

import (
	"context"
	"slices"
	"sync"

	"sixshop/internal/domain"
	"sixshop/internal/metrics"
)

// CartPersister is the durability port of the cart. Load never fails;
// Save errors are already logged by the implementation.
type CartPersister interface {
	Load(ctx context.Context) []domain.CartLineItem
	Save(ctx context.Context, items []domain.CartLineItem) error
}

// CartService owns one cart. Every mutation persists before returning.
type CartService struct {
	mu      sync.Mutex
	items   []domain.CartLineItem
	store   CartPersister
	metrics *metrics.Metrics
}

// NewCartService hydrates the cart from store.
func NewCartService(ctx context.Context, store CartPersister, m *metrics.Metrics) *CartService {
	return &CartService{items: store.Load(ctx), store: store, metrics: m}
}

func (s *CartService) index(id int) int {
	return slices.IndexFunc(s.items, func(it domain.CartLineItem) bool { return it.ID == id })
}

// persist must be called with s.mu held.
func (s *CartService) persist(ctx context.Context, op string) {
	s.metrics.CartMutation(op)
	_ = s.store.Save(ctx, slices.Clone(s.items))
}

// Add puts qty units of p in the cart (qty < 1 counts as 1). An existing
// line is re-priced at p.Price.
func (s *CartService) Add(ctx context.Context, p domain.Product, qty int) {
	if qty < 1 {
		qty = 1
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	if i := s.index(p.ID); i >= 0 {
		it := &s.items[i]
		it.Quantity += qty
		it.TotalPrice = float64(it.Quantity) * p.Price
		it.Point = it.Quantity * p.ID
	} else {
		s.items = append(s.items, domain.CartLineItem{
			Product:    p,
			Quantity:   qty,
			TotalPrice: float64(qty) * p.Price,
			Point:      qty * p.ID,
		})
	}
	s.persist(ctx, "add")
}

// Decrement removes one unit of id, dropping the line at zero. Unknown ids
// are ignored.
func (s *CartService) Decrement(ctx context.Context, id int, price float64) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if i := s.index(id); i >= 0 {
		it := &s.items[i]
		if it.Quantity > 1 {
			it.Quantity--
			it.TotalPrice = float64(it.Quantity) * price
			it.Point = it.Quantity * id
		} else {
			s.items = slices.Delete(s.items, i, i+1)
		}
	}
	s.persist(ctx, "decrement")
}

func (s *CartService) Remove(ctx context.Context, id int) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if i := s.index(id); i >= 0 {
		s.items = slices.Delete(s.items, i, i+1)
	}
	s.persist(ctx, "remove")
}

func (s *CartService) Clear(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.items = []domain.CartLineItem{}
	s.persist(ctx, "clear")
}

// Items returns a snapshot of the cart.
func (s *CartService) Items() []domain.CartLineItem {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]domain.CartLineItem, len(s.items))
	copy(out, s.items)
	return out
}

func (s *CartService) Line(id int) (domain.CartLineItem, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if i := s.index(id); i >= 0 {
		return s.items[i], true
	}
	return domain.CartLineItem{}, false
}

type CartView struct {
	Items  []domain.CartLineItem `json:"items"`
	Totals domain.Totals         `json:"totals"`
}

func (s *CartService) View() CartView {
	items := s.Items()
	return CartView{Items: items, Totals: Summarize(items)}
}
