package services

import (
	"context"
	"slices"
	"sync"

	"sixshop/internal/catalog"
	"sixshop/internal/domain"
	applog "sixshop/internal/log"
	"sixshop/internal/metrics"
	"sixshop/internal/repos"
)

// CatalogStatus is the three-state fetch flag shown by the UI.
type CatalogStatus string

const (
	CatalogPending CatalogStatus = "pending"
	CatalogError   CatalogStatus = "error"
	CatalogSuccess CatalogStatus = "success"
)

type CatalogSnapshot struct {
	Status     CatalogStatus    `json:"status"`
	Error      string           `json:"error,omitempty"`
	Products   []domain.Product `json:"-"`
	Categories []string         `json:"categories"`
	Count      int              `json:"count"`
	FromCache  bool             `json:"fromCache,omitempty"`
}

type CatalogService struct {
	Source  catalog.Source
	Cache   *repos.ProductRepo
	Metrics *metrics.Metrics

	mu   sync.RWMutex
	snap CatalogSnapshot
}

func NewCatalogService(src catalog.Source, cache *repos.ProductRepo, m *metrics.Metrics) *CatalogService {
	return &CatalogService{
		Source:  src,
		Cache:   cache,
		Metrics: m,
		snap:    CatalogSnapshot{Status: CatalogPending, Categories: []string{}},
	}
}

// Refresh fetches the catalog. On failure the last cached catalog is
// served when there is one.
func (s *CatalogService) Refresh(ctx context.Context) error {
	s.mu.Lock()
	s.snap.Status = CatalogPending
	s.snap.Error = ""
	s.mu.Unlock()

	products, err := s.Source.Fetch(ctx)
	if err == nil {
		if s.Cache != nil {
			if cerr := s.Cache.ReplaceAll(ctx, products); cerr != nil {
				applog.Warn(nil, "catalog.cache.fail", cerr, nil)
			}
		}
		s.set(products, CatalogSuccess, "", false)
		s.Metrics.CatalogRefreshed(string(CatalogSuccess))
		applog.Info(nil, "catalog.refresh", map[string]any{"count": len(products)})
		return nil
	}

	if s.Cache != nil {
		if cached, cerr := s.Cache.All(ctx); cerr == nil && len(cached) > 0 {
			s.set(cached, CatalogSuccess, "", true)
			s.Metrics.CatalogRefreshed("cache")
			applog.Warn(nil, "catalog.refresh.cached", err, map[string]any{"count": len(cached)})
			return nil
		}
	}
	s.mu.Lock()
	s.snap.Status = CatalogError
	s.snap.Error = err.Error()
	s.mu.Unlock()
	s.Metrics.CatalogRefreshed(string(CatalogError))
	applog.Error(nil, "catalog.refresh.fail", err, nil)
	return err
}

func (s *CatalogService) set(products []domain.Product, st CatalogStatus, msg string, cached bool) {
	if products == nil {
		products = []domain.Product{}
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.snap = CatalogSnapshot{
		Status:     st,
		Error:      msg,
		Products:   products,
		Categories: catalog.Categories(products),
		Count:      len(products),
		FromCache:  cached,
	}
}

// Snapshot returns the current catalog state. Products must not be mutated.
func (s *CatalogService) Snapshot() CatalogSnapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.snap
}

func (s *CatalogService) Product(id int) (domain.Product, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	i := slices.IndexFunc(s.snap.Products, func(p domain.Product) bool { return p.ID == id })
	if i < 0 {
		return domain.Product{}, domain.ErrNotFound
	}
	return s.snap.Products[i], nil
}

// View applies f to the current catalog.
func (s *CatalogService) View(f FilterState) []domain.Product {
	return ApplyFilter(s.Snapshot().Products, f)
}

// HasCategory reports whether c is "all" or a known category.
func (s *CatalogService) HasCategory(c string) bool {
	if c == domain.CategoryAll {
		return true
	}
	return slices.Contains(s.Snapshot().Categories, c)
}
