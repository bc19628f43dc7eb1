package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	applog "shopkart/internal/log"
	"shopkart/internal/services"
	"shopkart/internal/validate"
)

// AuthHandler is the collaborator surface that binds a session cookie
// to a user so downstream middleware can attach {id, role}.
type AuthHandler struct {
	Auth *services.AuthService
}

func ensureSID(c *fiber.Ctx) string {
	sid := c.Cookies("sid")
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

type loginRequest struct {
	Email    string `json:"email" form:"email"`
	Password string `json:"password" form:"password"`
}

func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var req loginRequest
	if err := c.BodyParser(&req); err != nil {
		return fail(c, "auth.login", &services.ValidationError{Field: "body", Message: "Malformed login request"})
	}
	email, okEmail := validate.Email(req.Email)
	if !okEmail {
		return fail(c, "auth.login", &services.ValidationError{Field: "email", Message: "A valid email is required"})
	}

	sid := ensureSID(c)
	u, err := h.Auth.Login(sid, email, req.Password)
	if err != nil {
		applog.Security(c, "auth.login.fail", map[string]any{"email": email})
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"success": false, "message": "Invalid email or password"})
	}
	applog.Audit(c, "auth.login", map[string]any{"user_id": u.ID})
	return ok(c, fiber.StatusOK, "Signed in", fiber.Map{"user": u})
}

func (h *AuthHandler) Logout(c *fiber.Ctx) error {
	if sid := c.Cookies("sid"); sid != "" {
		if err := h.Auth.Logout(sid); err != nil {
			return fail(c, "auth.logout", err)
		}
	}
	return ok(c, fiber.StatusOK, "Signed out", nil)
}
