package handlers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	html "github.com/gofiber/template/html/v2"

	"sixshop/internal/domain"
	"sixshop/internal/http/handlers"
	"sixshop/internal/repos"
	"sixshop/internal/securestore"
	"sixshop/internal/services"
)

type stubSource struct {
	products []domain.Product
	err      error
}

func (s *stubSource) Fetch(context.Context) ([]domain.Product, error) { return s.products, s.err }

func fixtureCatalog() []domain.Product {
	return []domain.Product{
		{ID: 1, Title: "Canvas Backpack", Price: 10, Category: "men's clothing", Rating: domain.Rating{Rate: 3.9, Count: 120}},
		{ID: 2, Title: "Slim Fit Tee", Price: 4.5, Category: "men's clothing", Rating: domain.Rating{Rate: 4.1, Count: 259}},
		{ID: 3, Title: "USB Cable", Price: 2.5, Category: "electronics", Rating: domain.Rating{Rate: 4.7, Count: 500}},
		{ID: 9, Title: "Portable Drive", Price: 64, Category: "electronics", Rating: domain.Rating{Rate: 3.3, Count: 203}},
	}
}

type testEnv struct {
	app      *fiber.App
	src      *stubSource
	catalog  *services.CatalogService
	sessions *services.SessionRegistry
	store    *securestore.Store
}

// newTestEnv wires the real routes over :memory: SQLite and an in-memory
// cart slot, without the global middleware stack.
func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	db, err := repos.OpenDB(":memory:")
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	codec, err := securestore.NewCodec("test-key")
	if err != nil {
		t.Fatal(err)
	}
	store := securestore.NewStore(repos.NewMemoryKV(), codec, securestore.DefaultSlot, nil)
	src := &stubSource{products: fixtureCatalog()}
	catalogSvc := services.NewCatalogService(src, repos.NewProductRepo(db), nil)
	if err := catalogSvc.Refresh(context.Background()); err != nil {
		t.Fatalf("refresh: %v", err)
	}
	sessions := services.NewSessionRegistry(store, nil)
	checkoutSvc := services.NewCheckoutService(repos.NewReceiptRepo(db), nil)

	engine := html.New("../../web/templates", ".html")
	app := fiber.New(fiber.Config{Views: engine, ErrorHandler: handlers.ErrorHandler})
	app.Use(requestid.New())
	handlers.NewDeps(catalogSvc, checkoutSvc, sessions).Mount(app)

	return &testEnv{app: app, src: src, catalog: catalogSvc, sessions: sessions, store: store}
}

// do sends body as JSON (when non-nil) with the given sid cookie.
func (e *testEnv) do(t *testing.T, method, path string, body any, sid string) (*http.Response, []byte) {
	t.Helper()
	var rd io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			t.Fatal(err)
		}
		rd = bytes.NewReader(b)
	}
	req := httptest.NewRequest(method, path, rd)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if sid != "" {
		req.AddCookie(&http.Cookie{Name: "sid", Value: sid})
	}
	resp, err := e.app.Test(req, -1)
	if err != nil {
		t.Fatalf("%s %s: %v", method, path, err)
	}
	raw, _ := io.ReadAll(resp.Body)
	return resp, raw
}

// newSession makes a first request and returns the issued sid.
func (e *testEnv) newSession(t *testing.T) string {
	t.Helper()
	resp, _ := e.do(t, "GET", "/api/v1/cart", nil, "")
	for _, c := range resp.Cookies() {
		if c.Name == "sid" {
			return c.Value
		}
	}
	t.Fatal("sid cookie not issued")
	return ""
}

type cartBody struct {
	Items []struct {
		ID         int     `json:"id"`
		Quantity   int     `json:"quantity"`
		TotalPrice float64 `json:"totalPrice"`
		Point      int     `json:"point"`
	} `json:"items"`
	Totals domain.Totals `json:"totals"`
}

func decode[T any](t *testing.T, raw []byte) T {
	t.Helper()
	var v T
	if err := json.Unmarshal(raw, &v); err != nil {
		t.Fatalf("decode %s: %v", raw, err)
	}
	return v
}

type logEntry struct {
	Level  string         `json:"level"`
	Action string         `json:"action"`
	SID    string         `json:"sid"`
	Fields map[string]any `json:"fields"`
}

type lockedBuf struct {
	b  *bytes.Buffer
	mu *sync.Mutex
}

func (l *lockedBuf) Write(p []byte) (int, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.b.Write(p)
}

func captureLogs(t *testing.T, fn func()) []logEntry {
	t.Helper()
	var buf bytes.Buffer
	var mu sync.Mutex
	oldW := log.Writer()
	oldFlags := log.Flags()
	log.SetOutput(&lockedBuf{b: &buf, mu: &mu})
	log.SetFlags(0)
	defer func() {
		log.SetOutput(oldW)
		log.SetFlags(oldFlags)
	}()

	fn()

	var entries []logEntry
	for _, line := range strings.Split(strings.TrimSpace(buf.String()), "\n") {
		var e logEntry
		if err := json.Unmarshal([]byte(strings.TrimSpace(line)), &e); err == nil {
			entries = append(entries, e)
		}
	}
	return entries
}

func hasAction(entries []logEntry, action string) bool {
	for _, e := range entries {
		if e.Action == action {
			return true
		}
	}
	return false
}
