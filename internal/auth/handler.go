package auth

import (
	"errors"
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/roofline/roofline/internal/signup"
)

// Handler exposes the signup and login endpoints.
type Handler struct {
	signups *signup.Service
	svc     *Service
}

// NewHandler builds the auth HTTP handler.
func NewHandler(signups *signup.Service, svc *Service) *Handler {
	return &Handler{signups: signups, svc: svc}
}

const deliveryWarning = "verification code could not be delivered, request a resend"

type signupRequest struct {
	Email    string `json:"email"`
	Username string `json:"username"`
	Password string `json:"password"`
}

type otpRequest struct {
	Email string `json:"email"`
	OTP   string `json:"otp"`
}

type loginRequest struct {
	UsernameOrEmail string `json:"username_or_email"`
	Password        string `json:"password"`
}

type messageResponse struct {
	Message string `json:"message"`
	Warning string `json:"warning,omitempty"`
}

type tokenResponse struct {
	Token string `json:"token"`
}

// Signup starts the two-phase signup and mails a verification code. The code
// is never part of the response body.
func (h *Handler) Signup(c *fiber.Ctx) error {
	var req signupRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, err.Error())
	}
	if req.Email == "" || req.Password == "" {
		return fiber.NewError(http.StatusBadRequest, "email and password are required")
	}
	delivery, err := h.signups.Begin(c.UserContext(), signup.BeginInput{
		Email:    req.Email,
		Username: req.Username,
		Password: req.Password,
	})
	if err != nil {
		return signupError(err)
	}
	resp := messageResponse{Message: "verification code sent"}
	if !delivery.Delivered {
		resp.Warning = deliveryWarning
	}
	return c.Status(http.StatusOK).JSON(resp)
}

// ResendOTP replaces the pending code and mails the new one.
func (h *Handler) ResendOTP(c *fiber.Ctx) error {
	var req otpRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, err.Error())
	}
	delivery, err := h.signups.Resend(c.UserContext(), req.Email)
	if err != nil {
		return signupError(err)
	}
	resp := messageResponse{Message: "verification code resent"}
	if !delivery.Delivered {
		resp.Warning = deliveryWarning
	}
	return c.Status(http.StatusOK).JSON(resp)
}

// VerifyOTP checks the submitted code, creates the account, and returns the
// bearer token for it.
func (h *Handler) VerifyOTP(c *fiber.Ctx) error {
	var req otpRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, err.Error())
	}
	token, err := h.signups.Verify(c.UserContext(), req.Email, req.OTP)
	if err != nil {
		return signupError(err)
	}
	return c.Status(http.StatusOK).JSON(tokenResponse{Token: token})
}

// Login validates credentials and returns a bearer token.
func (h *Handler) Login(c *fiber.Ctx) error {
	var req loginRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, err.Error())
	}
	token, err := h.svc.Login(c.UserContext(), req.UsernameOrEmail, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, ErrNoAccount):
			return fiber.NewError(http.StatusNotFound, "account not found, please sign up first")
		case errors.Is(err, ErrInvalidCredentials):
			return fiber.NewError(http.StatusUnauthorized, ErrInvalidCredentials.Error())
		default:
			return fiber.NewError(http.StatusInternalServerError, "operation failed")
		}
	}
	return c.Status(http.StatusOK).JSON(tokenResponse{Token: token})
}

// signupError maps signup failures onto distinct statuses so clients can tell
// "wrong code" from "expired" from "no such signup" and retry accordingly.
func signupError(err error) error {
	switch {
	case errors.Is(err, signup.ErrAccountExists):
		return fiber.NewError(http.StatusConflict, signup.ErrAccountExists.Error())
	case errors.Is(err, signup.ErrNoPending):
		return fiber.NewError(http.StatusNotFound, signup.ErrNoPending.Error())
	case errors.Is(err, signup.ErrInvalidCode):
		return fiber.NewError(http.StatusBadRequest, signup.ErrInvalidCode.Error())
	case errors.Is(err, signup.ErrCodeExpired):
		return fiber.NewError(http.StatusBadRequest, signup.ErrCodeExpired.Error())
	default:
		return fiber.NewError(http.StatusInternalServerError, "operation failed")
	}
}
