package handlers

import (
	"github.com/Henryk91/get-company-info/internal/database"
	"github.com/gofiber/fiber/v2"
)

// Root godoc
// @Summary API banner
// @Tags health
// @Produce json
// @Success 200 {object} map[string]string
// @Router / [get]
func Root(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"message": "Company Info API",
		"version": "1.0.0",
	})
}

// HealthCheck godoc
// @Summary Health check endpoint
// @Description Returns the health status of the API
// @Tags health
// @Accept json
// @Produce json
// @Success 200 {object} map[string]string
// @Router /healthz [get]
func HealthCheck(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"status": "healthy",
	})
}

// ReadinessCheck godoc
// @Summary Readiness check endpoint
// @Description Reports whether the database is reachable
// @Tags health
// @Produce json
// @Success 200 {object} map[string]string
// @Failure 503 {object} map[string]string
// @Router /readiness [get]
func ReadinessCheck(db *database.DB) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if err := db.Ping(); err != nil {
			return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{
				"status":   "unavailable",
				"database": err.Error(),
			})
		}
		return c.JSON(fiber.Map{
			"status":   "ready",
			"database": "ok",
		})
	}
}

func SetupHealthRoutes(app *fiber.App, db *database.DB) {
	app.Get("/", Root)
	app.Get("/health", HealthCheck)
	app.Get("/healthz", HealthCheck)
	app.Get("/readiness", ReadinessCheck(db))
}
