package routes

import (
	"github.com/gofiber/fiber/v2"

	"github.com/roofline/roofline/internal/listing"
)

// RegisterListingRoutes wires listing endpoints. Reads are public; every
// mutation passes through the bearer guard before the ownership check in the
// service layer. Creation additionally goes through the idempotency cache
// when one is configured.
func RegisterListingRoutes(r fiber.Router, h *listing.Handler, guard fiber.Handler, idem fiber.Handler) {
	group := r.Group("/listings")
	group.Get("/", h.List)
	group.Get("/mine", guard, h.Mine)
	group.Get("/:listingId", h.Get)
	if idem != nil {
		group.Post("/", guard, idem, h.Create)
	} else {
		group.Post("/", guard, h.Create)
	}
	group.Put("/:listingId", guard, h.Update)
	group.Delete("/:listingId", guard, h.Delete)
}
