package identity

import (
	"errors"
	"net/http"

	"github.com/gofiber/fiber/v2"
)

// Handler exposes profile endpoints.
type Handler struct {
	service *Service
}

// NewHandler constructs an identity HTTP handler.
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

type profileResponse struct {
	ID           string `json:"id"`
	Email        string `json:"email"`
	Username     string `json:"username"`
	FullName     string `json:"full_name,omitempty"`
	MobileNumber string `json:"mobile_number,omitempty"`
	Bio          string `json:"bio,omitempty"`
	City         string `json:"city,omitempty"`
	State        string `json:"state,omitempty"`
	Verified     bool   `json:"verified"`
}

type updateProfileRequest struct {
	FullName     string `json:"full_name"`
	MobileNumber string `json:"mobile_number"`
	Bio          string `json:"bio"`
	City         string `json:"city"`
	State        string `json:"state"`
}

// Profile returns the authenticated caller's own profile.
func (h *Handler) Profile(c *fiber.Ctx) error {
	accountID, _ := c.Locals("account_id").(string)
	if accountID == "" {
		return fiber.NewError(http.StatusUnauthorized, "unauthorized")
	}
	account, err := h.service.Profile(c.UserContext(), accountID)
	if err != nil {
		return profileError(err)
	}
	return c.Status(http.StatusOK).JSON(toProfileResponse(account))
}

// UpdateProfile applies changes to the caller's own profile.
func (h *Handler) UpdateProfile(c *fiber.Ctx) error {
	accountID, _ := c.Locals("account_id").(string)
	if accountID == "" {
		return fiber.NewError(http.StatusUnauthorized, "unauthorized")
	}
	var req updateProfileRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, err.Error())
	}
	account, err := h.service.UpdateProfile(c.UserContext(), accountID, ProfileUpdate{
		FullName:     req.FullName,
		MobileNumber: req.MobileNumber,
		Bio:          req.Bio,
		City:         req.City,
		State:        req.State,
	})
	if err != nil {
		return profileError(err)
	}
	return c.Status(http.StatusOK).JSON(toProfileResponse(account))
}

// PublicProfile returns any account's profile by id. Readable without a token.
func (h *Handler) PublicProfile(c *fiber.Ctx) error {
	account, err := h.service.Profile(c.UserContext(), c.Params("accountId"))
	if err != nil {
		return profileError(err)
	}
	return c.Status(http.StatusOK).JSON(toProfileResponse(account))
}

func profileError(err error) error {
	if errors.Is(err, ErrNotFound) {
		return fiber.NewError(http.StatusNotFound, "account not found")
	}
	return fiber.NewError(http.StatusInternalServerError, "operation failed")
}

func toProfileResponse(account Account) profileResponse {
	return profileResponse{
		ID:           account.ID,
		Email:        account.Email,
		Username:     account.Username,
		FullName:     account.FullName,
		MobileNumber: account.MobileNumber,
		Bio:          account.Bio,
		City:         account.City,
		State:        account.State,
		Verified:     account.Verified,
	}
}
