package services_test

import (
	"context"
	"reflect"
	"sync"
	"testing"

	"sixshop/internal/domain"
	"sixshop/internal/repos"
	"sixshop/internal/securestore"
	"sixshop/internal/services"
)

// memStore records every save so tests can check persistence per mutation.
type memStore struct {
	mu    sync.Mutex
	saved []domain.CartLineItem
	saves int
}

func (m *memStore) Load(context.Context) []domain.CartLineItem {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]domain.CartLineItem, len(m.saved))
	copy(out, m.saved)
	return out
}

func (m *memStore) Save(_ context.Context, items []domain.CartLineItem) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.saved = items
	m.saves++
	return nil
}

func TestCart_WorkedExample(t *testing.T) {
	ctx := context.Background()
	st := &memStore{}
	cart := services.NewCartService(ctx, st, nil)
	p := domain.Product{ID: 1, Title: "Shirt", Price: 10}

	check := func(step string, items int, price float64, points int) {
		t.Helper()
		got := services.Summarize(cart.Items())
		want := domain.Totals{Items: items, Price: price, Points: points}
		if got != want {
			t.Fatalf("%s: want %+v, got %+v", step, want, got)
		}
	}

	check("empty", 0, 0, 0)
	cart.Add(ctx, p, 1)
	check("add 1", 1, 10, 1)
	cart.Add(ctx, p, 2)
	check("add 2", 3, 30, 3)
	cart.Decrement(ctx, 1, 10)
	check("decrement", 2, 20, 2)
	cart.Remove(ctx, 1)
	check("remove", 0, 0, 0)

	if st.saves != 4 {
		t.Fatalf("want one save per mutation (4), got %d", st.saves)
	}
}

func TestCart_AddAggregatesAndReprices(t *testing.T) {
	ctx := context.Background()
	cart := services.NewCartService(ctx, &memStore{}, nil)

	cart.Add(ctx, domain.Product{ID: 7, Price: 5}, 0) // defaults to 1
	cart.Add(ctx, domain.Product{ID: 7, Price: 5}, 3)
	cart.Add(ctx, domain.Product{ID: 7, Price: 6}, 1)

	items := cart.Items()
	if len(items) != 1 {
		t.Fatalf("want exactly one line per id, got %d", len(items))
	}
	it := items[0]
	if it.Quantity != 5 || it.TotalPrice != 30 || it.Point != 35 {
		t.Fatalf("want qty=5 total=30 point=35, got %+v", it)
	}
}

func TestCart_DecrementToRemovalAndUnknownID(t *testing.T) {
	ctx := context.Background()
	st := &memStore{}
	cart := services.NewCartService(ctx, st, nil)
	cart.Add(ctx, domain.Product{ID: 2, Price: 4}, 3)

	for i := 0; i < 3; i++ {
		cart.Decrement(ctx, 2, 4)
	}
	if _, ok := cart.Line(2); ok {
		t.Fatal("line should be gone after decrementing its full quantity")
	}

	before := st.saves
	cart.Decrement(ctx, 99, 1)
	cart.Remove(ctx, 99)
	if len(cart.Items()) != 0 {
		t.Fatal("unknown id mutated the cart")
	}
	if st.saves != before+2 {
		t.Fatalf("no-op mutations still persist: want %d saves, got %d", before+2, st.saves)
	}
}

func TestCart_ItemsIsSnapshot(t *testing.T) {
	ctx := context.Background()
	cart := services.NewCartService(ctx, &memStore{}, nil)
	cart.Add(ctx, domain.Product{ID: 1, Price: 1}, 1)

	snap := cart.Items()
	snap[0].Quantity = 42
	if it, _ := cart.Line(1); it.Quantity != 1 {
		t.Fatalf("snapshot write leaked into cart: %+v", it)
	}
}

func TestCart_ClearThenReloadIsEmpty(t *testing.T) {
	ctx := context.Background()
	codec, err := securestore.NewCodec("test-key")
	if err != nil {
		t.Fatal(err)
	}
	store := securestore.NewStore(repos.NewMemoryKV(), codec, "", nil)

	cart := services.NewCartService(ctx, store, nil)
	cart.Add(ctx, domain.Product{ID: 3, Title: "Ring", Price: 9.5}, 2)

	rehydrated := services.NewCartService(ctx, store, nil)
	if !reflect.DeepEqual(rehydrated.Items(), cart.Items()) {
		t.Fatalf("hydrated cart differs: %+v vs %+v", rehydrated.Items(), cart.Items())
	}

	cart.Clear(ctx)
	if got := store.Load(ctx); len(got) != 0 {
		t.Fatalf("want empty after clear, got %+v", got)
	}
}

func TestSelectors_DoNotMutate(t *testing.T) {
	items := []domain.CartLineItem{
		{Product: domain.Product{ID: 1}, Quantity: 2, TotalPrice: 3.5, Point: 2},
		{Product: domain.Product{ID: 4}, Quantity: 1, TotalPrice: 1.25, Point: 4},
	}
	orig := make([]domain.CartLineItem, len(items))
	copy(orig, items)

	if services.TotalItems(items) != 3 || services.TotalPrice(items) != 4.75 || services.TotalPoints(items) != 6 {
		t.Fatalf("bad totals")
	}
	if !reflect.DeepEqual(items, orig) {
		t.Fatal("selectors mutated their input")
	}
	if got := services.Summarize(nil); got != (domain.Totals{}) {
		t.Fatalf("empty cart totals should be zero, got %+v", got)
	}
}

func TestWishlist_SetSemantics(t *testing.T) {
	w := services.NewWishlistService()
	a := domain.Product{ID: 1, Title: "A"}
	b := domain.Product{ID: 2, Title: "B"}

	if !w.Add(a) || !w.Add(b) || w.Add(a) {
		t.Fatal("add should insert once per id")
	}
	if w.Count() != 2 || !w.Contains(2) {
		t.Fatalf("want 2 entries, got %d", w.Count())
	}
	if w.Remove(3) {
		t.Fatal("removing an absent id should be a no-op")
	}
	if !w.Remove(1) || w.Contains(1) {
		t.Fatal("remove failed")
	}
	if items := w.Items(); len(items) != 1 || items[0].ID != 2 {
		t.Fatalf("unexpected items %+v", items)
	}
	w.Clear()
	if w.Count() != 0 {
		t.Fatal("clear failed")
	}
}
