package routes

import (
	"github.com/gofiber/fiber/v2"

	"github.com/roofline/roofline/internal/identity"
)

// RegisterProfileRoutes wires account profile endpoints. The caller's own
// profile requires a bearer token; lookup by id is public.
func RegisterProfileRoutes(r fiber.Router, h *identity.Handler, guard fiber.Handler) {
	group := r.Group("/user")
	group.Get("/profile", guard, h.Profile)
	group.Put("/profile", guard, h.UpdateProfile)
	group.Get("/profile/:accountId", h.PublicProfile)
}
