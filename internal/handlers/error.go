package handlers

import (
	"errors"

	"github.com/Henryk91/get-company-info/internal/logger"
	"github.com/Henryk91/get-company-info/internal/services"
	"github.com/gofiber/fiber/v2"
)

// ErrorResponse represents an error response
type ErrorResponse struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}

// ErrorHandler is the custom error handler for Fiber
func ErrorHandler(c *fiber.Ctx, err error) error {
	var fe *fiber.Error
	if errors.As(err, &fe) {
		return c.Status(fe.Code).JSON(ErrorResponse{
			Error: fe.Message,
		})
	}
	return respondError(c, err)
}

// respondError maps service errors onto HTTP statuses
func respondError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, services.ErrNotFound):
		return c.Status(fiber.StatusNotFound).JSON(ErrorResponse{Error: "Search query not found"})
	case errors.Is(err, services.ErrPermissionDenied):
		return c.Status(fiber.StatusForbidden).JSON(ErrorResponse{Error: "You are not permitted to fetch new results"})
	case errors.Is(err, services.ErrInvalidInput):
		return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{Error: "Invalid request", Details: err.Error()})
	case errors.Is(err, services.ErrInactiveUser):
		return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{Error: "Inactive user"})
	case errors.Is(err, services.ErrUserExists):
		return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{Error: "Username or email already registered"})
	case errors.Is(err, services.ErrInvalidCredentials):
		c.Set(fiber.HeaderWWWAuthenticate, "Bearer")
		return c.Status(fiber.StatusUnauthorized).JSON(ErrorResponse{Error: "Incorrect username or password"})
	case errors.Is(err, services.ErrInvalidToken):
		c.Set(fiber.HeaderWWWAuthenticate, "Bearer")
		return c.Status(fiber.StatusUnauthorized).JSON(ErrorResponse{Error: "Could not validate credentials"})
	case errors.Is(err, services.ErrProviderUnavailable):
		return c.Status(fiber.StatusBadGateway).JSON(ErrorResponse{Error: "Error fetching places: " + err.Error()})
	}

	logger.GetLogger("http").Errorw("request failed",
		"method", c.Method(),
		"path", c.Path(),
		"error", err,
	)
	return c.Status(fiber.StatusInternalServerError).JSON(ErrorResponse{
		Error: "Internal Server Error",
	})
}
