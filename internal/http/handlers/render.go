package handlers

import (
	"errors"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/utils"

	applog "sixshop/internal/log"
)

func render(c *fiber.Ctx, tmpl string, data fiber.Map) error {
	if data == nil {
		data = fiber.Map{}
	}
	if tok, _ := c.Locals("csrf").(string); tok != "" {
		data["CSRFToken"] = tok
	}
	return c.Render(tmpl, data)
}

// ErrorHandler logs err and answers with a friendly message. /api paths get
// JSON, everything else the notfound page. Error text is never echoed.
func ErrorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	var fe *fiber.Error
	if errors.As(err, &fe) {
		code = fe.Code
	}
	msg := "Something went wrong. Please try again."
	if code < fiber.StatusInternalServerError {
		msg = utils.StatusMessage(code)
		applog.Warn(c, "request.error", err, map[string]any{"code": code})
	} else {
		applog.Error(c, "server.error", err, nil)
	}

	if strings.HasPrefix(c.Path(), "/api/") {
		return c.Status(code).JSON(fiber.Map{"error": msg})
	}
	if rerr := c.Status(code).Render("notfound", fiber.Map{"Message": msg}); rerr != nil {
		return c.Status(code).SendString(msg)
	}
	return nil
}
