package services

import (
	"cmp"
	"slices"
	"strings"
	"sync"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"sixshop/internal/domain"
)

type SortMode string

const (
	SortRelevance    SortMode = "relevance"
	SortAZ           SortMode = "a_z"
	SortZA           SortMode = "z_a"
	SortHighest      SortMode = "highest"
	SortLowest       SortMode = "lowest"
	SortTopRated     SortMode = "top_rated"
	SortMostReviewed SortMode = "most_reviewed"
)

var sortModes = []SortMode{SortRelevance, SortHighest, SortLowest, SortAZ, SortZA, SortTopRated, SortMostReviewed}

// SortModes lists the accepted modes in menu order.
func SortModes() []SortMode { return slices.Clone(sortModes) }

func ParseSortMode(s string) (SortMode, error) {
	m := SortMode(strings.ToLower(strings.TrimSpace(s)))
	if slices.Contains(sortModes, m) {
		return m, nil
	}
	return "", domain.ErrBadSortKey
}

type FilterState struct {
	Category string   `json:"category"`
	Search   string   `json:"search"`
	SortBy   SortMode `json:"sortBy"`
}

func DefaultFilter() FilterState {
	return FilterState{Category: domain.CategoryAll, Search: "", SortBy: SortRelevance}
}

// FilterService holds one session's filter state. Never persisted.
type FilterService struct {
	mu    sync.Mutex
	state FilterState
}

func NewFilterService() *FilterService { return &FilterService{state: DefaultFilter()} }

func (s *FilterService) State() FilterState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

func (s *FilterService) SetCategory(category string) FilterState {
	s.mu.Lock()
	defer s.mu.Unlock()
	if category == "" {
		category = domain.CategoryAll
	}
	s.state.Category = category
	return s.state
}

func (s *FilterService) SetSearch(search string) FilterState {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state.Search = search
	return s.state
}

func (s *FilterService) SetSort(m SortMode) FilterState {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state.SortBy = m
	return s.state
}

func (s *FilterService) Reset() FilterState {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state = DefaultFilter()
	return s.state
}

// ApplyFilter returns the products matching f in f.SortBy order. The input
// is never reordered; equal keys keep catalog order.
func ApplyFilter(products []domain.Product, f FilterState) []domain.Product {
	search := strings.ToLower(f.Search)
	out := make([]domain.Product, 0, len(products))
	for _, p := range products {
		if f.Category != "" && f.Category != domain.CategoryAll && p.Category != f.Category {
			continue
		}
		if !strings.Contains(strings.ToLower(p.Title), search) {
			continue
		}
		out = append(out, p)
	}

	switch f.SortBy {
	case SortAZ, SortZA:
		// Collators keep scratch buffers; one per call.
		col := collate.New(language.English)
		dir := 1
		if f.SortBy == SortZA {
			dir = -1
		}
		slices.SortStableFunc(out, func(a, b domain.Product) int {
			return dir * col.CompareString(a.Title, b.Title)
		})
	case SortHighest:
		slices.SortStableFunc(out, func(a, b domain.Product) int { return cmp.Compare(b.Price, a.Price) })
	case SortLowest:
		slices.SortStableFunc(out, func(a, b domain.Product) int { return cmp.Compare(a.Price, b.Price) })
	case SortTopRated:
		slices.SortStableFunc(out, func(a, b domain.Product) int { return cmp.Compare(b.Rating.Rate, a.Rating.Rate) })
	case SortMostReviewed:
		slices.SortStableFunc(out, func(a, b domain.Product) int { return cmp.Compare(b.Rating.Count, a.Rating.Count) })
	}
	return out
}
