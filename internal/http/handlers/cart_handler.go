package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"sixshop/internal/domain"
	applog "sixshop/internal/log"
	"sixshop/internal/services"
	"sixshop/internal/validate"
)

type CartHandler struct {
	Catalog *services.CatalogService
}

type addRequest struct {
	ProductID int `json:"productId" form:"productId"`
	Qty       int `json:"qty" form:"qty"`
}

// GET /api/v1/cart
func (h *CartHandler) View(c *fiber.Ctx) error {
	return c.JSON(sessionOf(c).Cart.View())
}

// POST /api/v1/cart
func (h *CartHandler) Add(c *fiber.Ctx) error {
	var req addRequest
	if err := c.BodyParser(&req); err != nil || req.ProductID < 1 {
		return badRequest(c, "productId", "missing productId")
	}
	// price always comes from the catalog, never from the client
	p, err := h.Catalog.Product(req.ProductID)
	if errors.Is(err, domain.ErrNotFound) {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "product not found"})
	}
	if err != nil {
		return err
	}
	qty := validate.ClampQty(req.Qty)
	sess := sessionOf(c)
	sess.Cart.Add(c.UserContext(), p, qty)
	applog.Info(c, "cart.add", map[string]any{"product": p.ID, "qty": qty})
	return c.JSON(sess.Cart.View())
}

// POST /api/v1/cart/:id/decrement
func (h *CartHandler) Decrement(c *fiber.Ctx) error {
	id, ok := validate.ID(c.Params("id"))
	if !ok {
		return badRequest(c, "id", "invalid product id")
	}
	sess := sessionOf(c)
	price := 0.0
	if line, found := sess.Cart.Line(id); found {
		price = line.Price
	}
	if p, err := h.Catalog.Product(id); err == nil {
		price = p.Price
	}
	sess.Cart.Decrement(c.UserContext(), id, price)
	return c.JSON(sess.Cart.View())
}

// DELETE /api/v1/cart/:id
func (h *CartHandler) Remove(c *fiber.Ctx) error {
	id, ok := validate.ID(c.Params("id"))
	if !ok {
		return badRequest(c, "id", "invalid product id")
	}
	sess := sessionOf(c)
	sess.Cart.Remove(c.UserContext(), id)
	return c.JSON(sess.Cart.View())
}

// DELETE /api/v1/cart
func (h *CartHandler) Clear(c *fiber.Ctx) error {
	sess := sessionOf(c)
	sess.Cart.Clear(c.UserContext())
	applog.Info(c, "cart.clear", nil)
	return c.JSON(sess.Cart.View())
}
