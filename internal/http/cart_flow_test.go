package handlers_test

import (
	"context"
	"net/http"
	"testing"

	"sixshop/internal/securestore"
)

func TestCartFlow(t *testing.T) {
	env := newTestEnv(t)
	sid := env.newSession(t)

	env.do(t, "POST", "/api/v1/cart", map[string]any{"productId": 1, "qty": 2}, sid)
	resp, raw := env.do(t, "POST", "/api/v1/cart", map[string]any{"productId": 3}, sid)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("add: %d %s", resp.StatusCode, raw)
	}
	cart := decode[cartBody](t, raw)
	if len(cart.Items) != 2 || cart.Items[0].ID != 1 || cart.Items[1].ID != 3 {
		t.Fatalf("unexpected lines %+v", cart.Items)
	}
	if cart.Items[0].TotalPrice != 20 || cart.Items[0].Point != 2 {
		t.Fatalf("line 1 wrong: %+v", cart.Items[0])
	}
	if cart.Totals.Items != 3 || cart.Totals.Price != 22.5 || cart.Totals.Points != 5 {
		t.Fatalf("totals wrong: %+v", cart.Totals)
	}

	// same product again aggregates into one line
	_, raw = env.do(t, "POST", "/api/v1/cart", map[string]any{"productId": 3, "qty": 1}, sid)
	cart = decode[cartBody](t, raw)
	if len(cart.Items) != 2 || cart.Items[1].Quantity != 2 || cart.Items[1].TotalPrice != 5 {
		t.Fatalf("aggregate failed: %+v", cart.Items)
	}

	_, raw = env.do(t, "POST", "/api/v1/cart/1/decrement", nil, sid)
	cart = decode[cartBody](t, raw)
	if cart.Items[0].Quantity != 1 || cart.Items[0].TotalPrice != 10 || cart.Items[0].Point != 1 {
		t.Fatalf("decrement failed: %+v", cart.Items[0])
	}
	_, raw = env.do(t, "POST", "/api/v1/cart/1/decrement", nil, sid)
	cart = decode[cartBody](t, raw)
	if len(cart.Items) != 1 || cart.Items[0].ID != 3 {
		t.Fatalf("line at quantity 1 should be dropped: %+v", cart.Items)
	}

	_, raw = env.do(t, "DELETE", "/api/v1/cart/3", nil, sid)
	if cart = decode[cartBody](t, raw); len(cart.Items) != 0 || cart.Totals.Items != 0 {
		t.Fatalf("remove failed: %+v", cart)
	}
}

func TestCartUnknownIDsAreNoOps(t *testing.T) {
	env := newTestEnv(t)
	sid := env.newSession(t)
	env.do(t, "POST", "/api/v1/cart", map[string]any{"productId": 2}, sid)

	for _, path := range []string{"/api/v1/cart/77/decrement", "/api/v1/cart/77"} {
		method := "POST"
		if path == "/api/v1/cart/77" {
			method = "DELETE"
		}
		resp, raw := env.do(t, method, path, nil, sid)
		if resp.StatusCode != http.StatusOK {
			t.Fatalf("%s %s: want 200, got %d", method, path, resp.StatusCode)
		}
		if cart := decode[cartBody](t, raw); len(cart.Items) != 1 {
			t.Fatalf("cart changed by unknown id: %+v", cart)
		}
	}

	// adding a product missing from the catalog is a 404
	if resp, _ := env.do(t, "POST", "/api/v1/cart", map[string]any{"productId": 404}, sid); resp.StatusCode != http.StatusNotFound {
		t.Fatalf("want 404, got %d", resp.StatusCode)
	}
}

func TestCartQuantityIsClamped(t *testing.T) {
	env := newTestEnv(t)
	sid := env.newSession(t)
	_, raw := env.do(t, "POST", "/api/v1/cart", map[string]any{"productId": 2, "qty": 5000}, sid)
	if cart := decode[cartBody](t, raw); cart.Items[0].Quantity != 50 {
		t.Fatalf("want clamp to 50, got %d", cart.Items[0].Quantity)
	}
}

func TestCartClearAndPersistence(t *testing.T) {
	env := newTestEnv(t)
	sid := env.newSession(t)
	env.do(t, "POST", "/api/v1/cart", map[string]any{"productId": 9, "qty": 3}, sid)

	// the encrypted slot holds what the session shows
	stored := env.store.Slot(securestore.SessionSlot(sid)).Load(context.Background())
	if len(stored) != 1 || stored[0].Quantity != 3 {
		t.Fatalf("slot not written: %+v", stored)
	}

	// a swept session comes back with its cart
	if n := env.sessions.Sweep(-1); n != 1 {
		t.Fatalf("want 1 swept, got %d", n)
	}
	_, raw := env.do(t, "GET", "/api/v1/cart", nil, sid)
	if cart := decode[cartBody](t, raw); cart.Totals.Items != 3 || cart.Totals.Price != 192 {
		t.Fatalf("cart not rehydrated: %+v", cart)
	}

	_, raw = env.do(t, "DELETE", "/api/v1/cart", nil, sid)
	if cart := decode[cartBody](t, raw); len(cart.Items) != 0 {
		t.Fatalf("clear failed: %+v", cart)
	}
	if stored := env.store.Slot(securestore.SessionSlot(sid)).Load(context.Background()); len(stored) != 0 {
		t.Fatalf("cleared cart still stored: %+v", stored)
	}
}

func TestCartsAreScopedToSession(t *testing.T) {
	env := newTestEnv(t)
	a, b := env.newSession(t), env.newSession(t)
	if a == b {
		t.Fatal("sessions share a sid")
	}
	env.do(t, "POST", "/api/v1/cart", map[string]any{"productId": 1}, a)
	_, raw := env.do(t, "GET", "/api/v1/cart", nil, b)
	if cart := decode[cartBody](t, raw); len(cart.Items) != 0 {
		t.Fatalf("session b sees a's cart: %+v", cart)
	}
}

func TestWishlistFlow(t *testing.T) {
	env := newTestEnv(t)
	sid := env.newSession(t)

	type wishBody struct {
		Items []struct {
			ID int `json:"id"`
		} `json:"items"`
		Count int `json:"count"`
	}

	env.do(t, "POST", "/api/v1/wishlist", map[string]any{"productId": 2}, sid)
	_, raw := env.do(t, "POST", "/api/v1/wishlist", map[string]any{"productId": 2}, sid)
	if w := decode[wishBody](t, raw); w.Count != 1 {
		t.Fatalf("duplicate save should be ignored: %+v", w)
	}
	env.do(t, "POST", "/api/v1/wishlist", map[string]any{"productId": 9}, sid)

	_, raw = env.do(t, "DELETE", "/api/v1/wishlist/2", nil, sid)
	w := decode[wishBody](t, raw)
	if w.Count != 1 || w.Items[0].ID != 9 {
		t.Fatalf("unsave failed: %+v", w)
	}
	if resp, _ := env.do(t, "DELETE", "/api/v1/wishlist/55", nil, sid); resp.StatusCode != http.StatusOK {
		t.Fatalf("unknown id should be a no-op, got %d", resp.StatusCode)
	}
	_, raw = env.do(t, "DELETE", "/api/v1/wishlist", nil, sid)
	if w := decode[wishBody](t, raw); w.Count != 0 {
		t.Fatalf("clear failed: %+v", w)
	}
}
