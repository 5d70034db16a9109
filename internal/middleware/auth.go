package middleware

import (
	"errors"
	"strings"

	"github.com/Henryk91/get-company-info/internal/services"
	"github.com/gofiber/fiber/v2"
)

const identityKey = "identity"

// AuthRequired resolves the bearer token through provider and stores the
// identity on the request. Inactive users get 400, anything else 401.
func AuthRequired(provider services.AuthProvider) fiber.Handler {
	return func(c *fiber.Ctx) error {
		authHeader := c.Get(fiber.HeaderAuthorization)
		if authHeader == "" {
			return unauthorized(c, "Not authenticated")
		}

		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") || parts[1] == "" {
			return unauthorized(c, "Invalid authorization header format")
		}

		identity, err := provider.Authenticate(c.UserContext(), parts[1])
		if err != nil {
			if errors.Is(err, services.ErrInactiveUser) {
				return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
					"error": "Inactive user",
				})
			}
			if errors.Is(err, services.ErrInvalidToken) {
				return unauthorized(c, "Could not validate credentials")
			}
			return err
		}

		c.Locals(identityKey, identity)
		c.Locals("userID", identity.UserID)
		return c.Next()
	}
}

// GetIdentity returns the identity stored by AuthRequired, or nil
func GetIdentity(c *fiber.Ctx) *services.Identity {
	identity, _ := c.Locals(identityKey).(*services.Identity)
	return identity
}

func unauthorized(c *fiber.Ctx, msg string) error {
	c.Set(fiber.HeaderWWWAuthenticate, "Bearer")
	return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
		"error": msg,
	})
}
