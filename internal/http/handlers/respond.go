package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	applog "shopkart/internal/log"
	"shopkart/internal/services"
)

// ok writes the standard success envelope. Extra payload keys are
// merged beside success/message.
func ok(c *fiber.Ctx, status int, message string, payload fiber.Map) error {
	body := fiber.Map{"success": true, "message": message}
	for k, v := range payload {
		body[k] = v
	}
	return c.Status(status).JSON(body)
}

// fail maps the service error taxonomy onto HTTP statuses. The message
// field stays stable and human-readable; raw detail only appears in
// the error field for 500s.
func fail(c *fiber.Ctx, action string, err error) error {
	var ve *services.ValidationError
	var ce *services.ConflictError
	var ge *services.GatewayError

	switch {
	case errors.As(err, &ve):
		applog.Security(c, action+".validation.fail", map[string]any{"field": ve.Field})
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"success": false, "message": ve.Message})
	case errors.As(err, &ce):
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{"success": false, "message": ce.Message})
	case errors.Is(err, services.ErrNotFound):
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"success": false, "message": "Resource not found"})
	case errors.Is(err, services.ErrAuthRequired):
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"success": false, "message": "Sign in to continue"})
	case errors.As(err, &ge):
		// Gateway failures surface verbatim, no retries.
		applog.Error(c, action+".gateway.fail", err, nil)
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"success": false, "message": ge.Error()})
	default:
		applog.Error(c, action+".fail", err, nil)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"success": false,
			"message": "Something went wrong. Please try again.",
			"error":   err.Error(),
		})
	}
}
