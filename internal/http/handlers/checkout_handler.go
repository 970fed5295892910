package handlers

import (
	"database/sql"
	"errors"

	"github.com/gofiber/fiber/v2"

	"sixshop/internal/domain"
	applog "sixshop/internal/log"
	"sixshop/internal/services"
)

type CheckoutHandler struct {
	Checkout *services.CheckoutService
}

// POST /api/v1/checkout
func (h *CheckoutHandler) Place(c *fiber.Ctx) error {
	sess := sessionOf(c)
	rc, err := h.Checkout.Place(c.UserContext(), sess.ID, sess.Cart)
	if errors.Is(err, domain.ErrEmptyCart) {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "cart is empty"})
	}
	if err != nil {
		return err
	}
	c.Set(fiber.HeaderLocation, "/receipt/"+rc.ID)
	return c.Status(fiber.StatusCreated).JSON(rc)
}

// GET /receipt/:id
func (h *CheckoutHandler) Receipt(c *fiber.Ctx) error {
	id := c.Params("id")
	rc, owner, err := h.Checkout.Get(c.UserContext(), id)
	if errors.Is(err, sql.ErrNoRows) || errors.Is(err, domain.ErrNotFound) {
		return c.Status(fiber.StatusNotFound).Render("notfound", fiber.Map{"Message": "Receipt not found"})
	}
	if err != nil {
		return err
	}
	if sid, _ := c.Locals("sid").(string); sid != owner {
		applog.Security(c, "access.denied.receipt", map[string]any{"receipt_id": id})
		return c.Status(fiber.StatusNotFound).Render("notfound", fiber.Map{"Message": "Receipt not found"})
	}
	return render(c, "receipt", fiber.Map{"Receipt": rc})
}

// GET /api/v1/receipts
func (h *CheckoutHandler) History(c *fiber.Ctx) error {
	list, err := h.Checkout.History(c.UserContext(), sessionOf(c).ID)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"receipts": list})
}
