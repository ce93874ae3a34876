package routes

import (
	"github.com/gofiber/fiber/v2"

	"github.com/roofline/roofline/internal/auth"
)

// RegisterAuthRoutes wires the signup and login endpoints. All of them are
// public; a bearer token only exists after verification or login.
func RegisterAuthRoutes(r fiber.Router, h *auth.Handler) {
	group := r.Group("/auth")
	group.Post("/signup", h.Signup)
	group.Post("/resend-otp", h.ResendOTP)
	group.Post("/verify-otp", h.VerifyOTP)
	group.Post("/login", h.Login)
}
