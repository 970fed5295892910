package handlers

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/limiter"

	applog "sixshop/internal/log"
	"sixshop/internal/services"
)

type Deps struct {
	Sessions *services.SessionRegistry

	CatalogHandler  *CatalogHandler
	FilterHandler   *FilterHandler
	CartHandler     *CartHandler
	WishlistHandler *WishlistHandler
	CheckoutHandler *CheckoutHandler
}

func NewDeps(catalog *services.CatalogService, checkout *services.CheckoutService, sessions *services.SessionRegistry) *Deps {
	return &Deps{
		Sessions:        sessions,
		CatalogHandler:  &CatalogHandler{Catalog: catalog},
		FilterHandler:   &FilterHandler{Catalog: catalog},
		CartHandler:     &CartHandler{Catalog: catalog},
		WishlistHandler: &WishlistHandler{Catalog: catalog},
		CheckoutHandler: &CheckoutHandler{Checkout: checkout},
	}
}

// Mount registers the storefront routes on app.
func (d *Deps) Mount(app *fiber.App) {
	withSession := WithSession(d.Sessions)

	api := app.Group("/api/v1", withSession)

	// Catalog
	api.Get("/catalog", d.CatalogHandler.Status)
	api.Post("/catalog/refresh", limiter.New(limiter.Config{
		Max:        3,
		Expiration: time.Minute,
		KeyGenerator: func(c *fiber.Ctx) string {
			return c.IP() + "|refresh"
		},
		LimitReached: func(c *fiber.Ctx) error {
			applog.Security(c, "rate.refresh.hit", nil)
			return c.Status(fiber.StatusTooManyRequests).JSON(fiber.Map{"error": "rate limit exceeded, retry soon"})
		},
	}), d.CatalogHandler.Refresh)

	// Browse
	api.Get("/products", d.FilterHandler.Products)
	api.Get("/filter", d.FilterHandler.State)
	api.Post("/filter/category", d.FilterHandler.SetCategory)
	api.Post("/filter/search", d.FilterHandler.SetSearch)
	api.Post("/filter/sort", d.FilterHandler.SetSort)
	api.Post("/filter/reset", d.FilterHandler.Reset)

	// Cart
	api.Get("/cart", d.CartHandler.View)
	api.Post("/cart", d.CartHandler.Add)
	api.Delete("/cart", d.CartHandler.Clear)
	api.Post("/cart/:id/decrement", d.CartHandler.Decrement)
	api.Delete("/cart/:id", d.CartHandler.Remove)

	// Wishlist
	api.Get("/wishlist", d.WishlistHandler.List)
	api.Post("/wishlist", d.WishlistHandler.Save)
	api.Delete("/wishlist", d.WishlistHandler.Clear)
	api.Delete("/wishlist/:id", d.WishlistHandler.Unsave)

	// Checkout
	api.Post("/checkout", d.CheckoutHandler.Place)
	api.Get("/receipts", d.CheckoutHandler.History)
	app.Get("/receipt/:id", withSession, d.CheckoutHandler.Receipt)
}
