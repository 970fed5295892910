package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	applog "sixshop/internal/log"
	"sixshop/internal/services"
	"sixshop/internal/validate"
)

func ensureSID(c *fiber.Ctx) string {
	sid := c.Cookies("sid")
	if sid != "" && !validate.SessionID(sid) {
		applog.Security(c, "validation.fail", map[string]any{"field": "sid"})
		sid = ""
	}
	if sid == "" {
		sid = uuid.NewString()
		c.Cookie(&fiber.Cookie{
			Name:     "sid",
			Value:    sid,
			Path:     "/",
			HTTPOnly: true,
			SameSite: fiber.CookieSameSiteLaxMode,
			Secure:   false, // enable true behind TLS
		})
	}
	return sid
}

// WithSession attaches the caller's session (created on first use).
func WithSession(reg *services.SessionRegistry) fiber.Handler {
	return func(c *fiber.Ctx) error {
		sid := ensureSID(c)
		c.Locals("sid", sid)
		c.Locals("session", reg.Get(c.UserContext(), sid))
		return c.Next()
	}
}

func sessionOf(c *fiber.Ctx) *services.Session {
	s, _ := c.Locals("session").(*services.Session)
	return s
}

func badRequest(c *fiber.Ctx, field, msg string) error {
	applog.Security(c, "validation.fail", map[string]any{"field": field})
	return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": msg})
}
