package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"sixshop/internal/domain"
	applog "sixshop/internal/log"
	"sixshop/internal/services"
	"sixshop/internal/validate"
)

type WishlistHandler struct {
	Catalog *services.CatalogService
}

func wishlistBody(w *services.WishlistService) fiber.Map {
	return fiber.Map{"items": w.Items(), "count": w.Count()}
}

// GET /api/v1/wishlist
func (h *WishlistHandler) List(c *fiber.Ctx) error {
	return c.JSON(wishlistBody(sessionOf(c).Wishlist))
}

// POST /api/v1/wishlist
func (h *WishlistHandler) Save(c *fiber.Ctx) error {
	var req addRequest
	if err := c.BodyParser(&req); err != nil || req.ProductID < 1 {
		return badRequest(c, "productId", "missing productId")
	}
	p, err := h.Catalog.Product(req.ProductID)
	if errors.Is(err, domain.ErrNotFound) {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "product not found"})
	}
	if err != nil {
		return err
	}
	w := sessionOf(c).Wishlist
	if w.Add(p) {
		applog.Audit(c, "wishlist.save", map[string]any{"product": p.ID})
	}
	return c.JSON(wishlistBody(w))
}

// DELETE /api/v1/wishlist/:id
func (h *WishlistHandler) Unsave(c *fiber.Ctx) error {
	id, ok := validate.ID(c.Params("id"))
	if !ok {
		return badRequest(c, "id", "invalid product id")
	}
	w := sessionOf(c).Wishlist
	if w.Remove(id) {
		applog.Audit(c, "wishlist.unsave", map[string]any{"product": id})
	}
	return c.JSON(wishlistBody(w))
}

// DELETE /api/v1/wishlist
func (h *WishlistHandler) Clear(c *fiber.Ctx) error {
	w := sessionOf(c).Wishlist
	w.Clear()
	return c.JSON(wishlistBody(w))
}
