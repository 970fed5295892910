// Package catalog fetches the read-only product catalog.
package catalog

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/gofiber/fiber/v2"
	"gopkg.in/yaml.v3"

	"sixshop/internal/domain"
)

// Source yields the full catalog in catalog order.
type Source interface {
	Fetch(ctx context.Context) ([]domain.Product, error)
}

// HTTPSource GETs a JSON array of products from a catalog API.
type HTTPSource struct {
	URL     string
	Timeout time.Duration
}

func NewHTTPSource(url string, timeout time.Duration) *HTTPSource {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &HTTPSource{URL: url, Timeout: timeout}
}

func (s *HTTPSource) Fetch(ctx context.Context) ([]domain.Product, error) {
	timeout := s.Timeout
	if dl, ok := ctx.Deadline(); ok {
		if left := time.Until(dl); left < timeout {
			timeout = left
		}
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if timeout <= 0 {
		return nil, context.DeadlineExceeded
	}

	a := fiber.Get(s.URL)
	a.Timeout(timeout)
	a.Set(fiber.HeaderAccept, fiber.MIMEApplicationJSON)
	code, body, errs := a.Bytes()
	if len(errs) > 0 {
		return nil, fmt.Errorf("catalog fetch: %w", errors.Join(errs...))
	}
	if code < 200 || code > 299 {
		return nil, fmt.Errorf("catalog fetch: unexpected status %d", code)
	}
	var out []domain.Product
	if err := json.Unmarshal(body, &out); err != nil {
		return nil, fmt.Errorf("catalog decode: %w", err)
	}
	return out, nil
}

// FileSource reads products from a YAML seed file:
//
//	products:
//	  - id: 1
//	    title: ...
type FileSource struct {
	Path string
}

type seedFile struct {
	Products []domain.Product `yaml:"products"`
}

func (s *FileSource) Fetch(ctx context.Context) ([]domain.Product, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	b, err := os.ReadFile(s.Path)
	if err != nil {
		return nil, fmt.Errorf("catalog seed: %w", err)
	}
	var f seedFile
	if err := yaml.Unmarshal(b, &f); err != nil {
		return nil, fmt.Errorf("catalog seed %s: %w", s.Path, err)
	}
	return f.Products, nil
}

// Categories returns the distinct categories of products in first-seen order.
func Categories(products []domain.Product) []string {
	seen := make(map[string]struct{}, 8)
	out := []string{}
	for _, p := range products {
		if _, ok := seen[p.Category]; ok || p.Category == "" {
			continue
		}
		seen[p.Category] = struct{}{}
		out = append(out, p.Category)
	}
	return out
}
