package handlers

import (
	"github.com/gofiber/fiber/v2"

	"sixshop/internal/services"
	"sixshop/internal/validate"
)

type FilterHandler struct {
	Catalog *services.CatalogService
}

type filterRequest struct {
	Category string `json:"category" form:"category"`
	Search   string `json:"search" form:"search"`
	SortBy   string `json:"sortBy" form:"sortBy"`
}

func filterBody(f services.FilterState) fiber.Map {
	return fiber.Map{"filter": f, "sortModes": services.SortModes()}
}

// GET /api/v1/filter
func (h *FilterHandler) State(c *fiber.Ctx) error {
	return c.JSON(filterBody(sessionOf(c).Filter.State()))
}

// POST /api/v1/filter/category
func (h *FilterHandler) SetCategory(c *fiber.Ctx) error {
	var req filterRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "category", "invalid body")
	}
	cat, ok := h.category(req.Category)
	if !ok {
		return badRequest(c, "category", "unknown category")
	}
	return c.JSON(filterBody(sessionOf(c).Filter.SetCategory(cat)))
}

// POST /api/v1/filter/search
func (h *FilterHandler) SetSearch(c *fiber.Ctx) error {
	var req filterRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "search", "invalid body")
	}
	q, ok := validate.Search(req.Search)
	if !ok {
		return badRequest(c, "search", "invalid search")
	}
	return c.JSON(filterBody(sessionOf(c).Filter.SetSearch(q)))
}

// POST /api/v1/filter/sort
func (h *FilterHandler) SetSort(c *fiber.Ctx) error {
	var req filterRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "sortBy", "invalid body")
	}
	m, err := services.ParseSortMode(req.SortBy)
	if err != nil {
		return badRequest(c, "sortBy", "unknown sort mode")
	}
	return c.JSON(filterBody(sessionOf(c).Filter.SetSort(m)))
}

// POST /api/v1/filter/reset
func (h *FilterHandler) Reset(c *fiber.Ctx) error {
	return c.JSON(filterBody(sessionOf(c).Filter.Reset()))
}

// GET /api/v1/products?category=&q=&sort=
// Query parameters that are present update the session filter first.
func (h *FilterHandler) Products(c *fiber.Ctx) error {
	fs := sessionOf(c).Filter
	if raw, set := query(c, "category"); set {
		cat, ok := h.category(raw)
		if !ok {
			return badRequest(c, "category", "unknown category")
		}
		fs.SetCategory(cat)
	}
	if raw, set := query(c, "q"); set {
		q, ok := validate.Search(raw)
		if !ok {
			return badRequest(c, "q", "invalid search")
		}
		fs.SetSearch(q)
	}
	if raw, set := query(c, "sort"); set {
		m, err := services.ParseSortMode(raw)
		if err != nil {
			return badRequest(c, "sort", "unknown sort mode")
		}
		fs.SetSort(m)
	}

	f := fs.State()
	snap := h.Catalog.Snapshot()
	products := services.ApplyFilter(snap.Products, f)
	return c.JSON(fiber.Map{
		"status":   snap.Status,
		"filter":   f,
		"products": products,
		"count":    len(products),
	})
}

// category accepts "", "all", or a category present in the catalog.
func (h *FilterHandler) category(raw string) (string, bool) {
	if raw == "" {
		return "", true
	}
	cat, ok := validate.Category(raw)
	if !ok || !h.Catalog.HasCategory(cat) {
		return "", false
	}
	return cat, true
}

func query(c *fiber.Ctx, key string) (string, bool) {
	v := c.Context().QueryArgs().Peek(key)
	if v == nil {
		return "", false
	}
	return string(v), true
}
