package middleware

import (
	"net/http"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/roofline/roofline/internal/auth"
	"github.com/roofline/roofline/internal/identity"
)

// Locals keys set by RequireAccount for downstream handlers.
const (
	AccountIDKey    = "account_id"
	AccountEmailKey = "account_email"
)

// RequireAccount validates the bearer token and resolves its subject to an
// account before any business logic runs. Everything on a protected route
// past this middleware can assume an authenticated caller.
func RequireAccount(tokens *auth.TokenService, accounts identity.Repository) fiber.Handler {
	return func(c *fiber.Ctx) error {
		authz := c.Get(fiber.HeaderAuthorization)
		if !strings.HasPrefix(authz, "Bearer ") {
			return fiber.NewError(http.StatusUnauthorized, "missing bearer token")
		}
		tokenStr := strings.TrimSpace(authz[len("Bearer "):])
		// Browsers that read a token out of empty storage send the literal
		// string "null"; treat it the same as no token at all.
		if tokenStr == "" || strings.EqualFold(tokenStr, "null") {
			return fiber.NewError(http.StatusUnauthorized, "missing bearer token")
		}

		subject, err := tokens.Validate(tokenStr)
		if err != nil {
			return fiber.NewError(http.StatusUnauthorized, "invalid token")
		}

		account, err := accounts.FindByEmail(c.UserContext(), subject)
		if err != nil {
			return fiber.NewError(http.StatusUnauthorized, "account not found")
		}

		c.Locals(AccountIDKey, account.ID)
		c.Locals(AccountEmailKey, account.Email)
		return c.Next()
	}
}
