package handlers

import (
	"github.com/gofiber/fiber/v2"

	applog "sixshop/internal/log"
	"sixshop/internal/services"
)

type CatalogHandler struct {
	Catalog *services.CatalogService
}

// GET /api/v1/catalog
func (h *CatalogHandler) Status(c *fiber.Ctx) error {
	return c.JSON(h.Catalog.Snapshot())
}

// POST /api/v1/catalog/refresh
func (h *CatalogHandler) Refresh(c *fiber.Ctx) error {
	if err := h.Catalog.Refresh(c.UserContext()); err != nil {
		applog.Warn(c, "catalog.refresh.request", err, nil)
		snap := h.Catalog.Snapshot()
		// the upstream error text is not echoed to the client
		snap.Error = "catalog unavailable"
		return c.Status(fiber.StatusBadGateway).JSON(snap)
	}
	return c.JSON(h.Catalog.Snapshot())
}
