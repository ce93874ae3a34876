package listing

import (
	"errors"
	"net/http"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/roofline/roofline/internal/middleware"
)

// Handler exposes listing HTTP endpoints.
type Handler struct {
	service *Service
}

// NewHandler builds a listing HTTP handler.
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

type listingRequest struct {
	Title       string `json:"title"`
	Price       string `json:"price"`
	Location    string `json:"location"`
	Description string `json:"description"`
	Type        string `json:"type"`
	Category    string `json:"category"`
}

type listingResponse struct {
	ID          string    `json:"id"`
	OwnerID     string    `json:"owner_id"`
	Title       string    `json:"title"`
	Price       string    `json:"price"`
	Location    string    `json:"location"`
	Description string    `json:"description"`
	Type        string    `json:"type"`
	Category    string    `json:"category"`
	CreatedAt   time.Time `json:"created_at"`
}

// Create publishes a listing owned by the authenticated caller.
func (h *Handler) Create(c *fiber.Ctx) error {
	callerID, _ := c.Locals(middleware.AccountIDKey).(string)
	if callerID == "" {
		return fiber.NewError(http.StatusUnauthorized, "unauthorized")
	}
	var req listingRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, err.Error())
	}
	listing, err := h.service.Create(c.UserContext(), callerID, toInput(req))
	if err != nil {
		return listingError(err)
	}
	return c.Status(http.StatusCreated).JSON(toResponse(listing))
}

// Get returns a single listing. Public.
func (h *Handler) Get(c *fiber.Ctx) error {
	listing, err := h.service.Get(c.UserContext(), c.Params("listingId"))
	if err != nil {
		return listingError(err)
	}
	return c.Status(http.StatusOK).JSON(toResponse(listing))
}

// List returns published listings, optionally filtered. Public.
func (h *Handler) List(c *fiber.Ctx) error {
	filter := Filter{
		Type:     c.Query("type"),
		Category: c.Query("category"),
		Location: c.Query("location"),
	}
	listings, err := h.service.List(c.UserContext(), filter)
	if err != nil {
		return listingError(err)
	}
	return c.Status(http.StatusOK).JSON(toResponses(listings))
}

// Mine returns the caller's own listings.
func (h *Handler) Mine(c *fiber.Ctx) error {
	callerID, _ := c.Locals(middleware.AccountIDKey).(string)
	if callerID == "" {
		return fiber.NewError(http.StatusUnauthorized, "unauthorized")
	}
	listings, err := h.service.Mine(c.UserContext(), callerID)
	if err != nil {
		return listingError(err)
	}
	return c.Status(http.StatusOK).JSON(toResponses(listings))
}

// Update edits a listing the caller owns.
func (h *Handler) Update(c *fiber.Ctx) error {
	callerID, _ := c.Locals(middleware.AccountIDKey).(string)
	if callerID == "" {
		return fiber.NewError(http.StatusUnauthorized, "unauthorized")
	}
	var req listingRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, err.Error())
	}
	listing, err := h.service.Update(c.UserContext(), callerID, c.Params("listingId"), toInput(req))
	if err != nil {
		return listingError(err)
	}
	return c.Status(http.StatusOK).JSON(toResponse(listing))
}

// Delete removes a listing the caller owns.
func (h *Handler) Delete(c *fiber.Ctx) error {
	callerID, _ := c.Locals(middleware.AccountIDKey).(string)
	if callerID == "" {
		return fiber.NewError(http.StatusUnauthorized, "unauthorized")
	}
	if err := h.service.Delete(c.UserContext(), callerID, c.Params("listingId")); err != nil {
		return listingError(err)
	}
	return c.Status(http.StatusOK).JSON(fiber.Map{"status": "deleted"})
}

func listingError(err error) error {
	switch {
	case errors.Is(err, ErrNotFound):
		return fiber.NewError(http.StatusNotFound, ErrNotFound.Error())
	case errors.Is(err, ErrForbidden):
		return fiber.NewError(http.StatusForbidden, ErrForbidden.Error())
	default:
		return fiber.NewError(http.StatusInternalServerError, "operation failed")
	}
}

func toInput(req listingRequest) Input {
	return Input{
		Title:       req.Title,
		Price:       req.Price,
		Location:    req.Location,
		Description: req.Description,
		Type:        req.Type,
		Category:    req.Category,
	}
}

func toResponse(listing Listing) listingResponse {
	return listingResponse{
		ID:          listing.ID,
		OwnerID:     listing.OwnerID,
		Title:       listing.Title,
		Price:       listing.Price,
		Location:    listing.Location,
		Description: listing.Description,
		Type:        listing.Type,
		Category:    listing.Category,
		CreatedAt:   listing.CreatedAt,
	}
}

func toResponses(listings []Listing) []listingResponse {
	out := make([]listingResponse, 0, len(listings))
	for _, listing := range listings {
		out = append(out, toResponse(listing))
	}
	return out
}
