package handlers

import (
	"github.com/Henryk91/get-company-info/internal/config"
	"github.com/Henryk91/get-company-info/internal/database"
	"github.com/Henryk91/get-company-info/internal/middleware"
	"github.com/Henryk91/get-company-info/internal/services"
	"github.com/gofiber/fiber/v2"
)

type PlacesHandler struct {
	service *services.PlacesService
}

func NewPlacesHandler(db *database.DB, cfg *config.Config, provider services.PlacesProvider) *PlacesHandler {
	return &PlacesHandler{
		service: services.NewPlacesService(db, cfg, provider),
	}
}

func SetupPlacesRoutes(router fiber.Router, db *database.DB, cfg *config.Config, provider services.PlacesProvider) {
	h := NewPlacesHandler(db, cfg, provider)

	router.Use(middleware.AuthRequired(services.NewAuthService(db, cfg)))

	router.Post("/search", h.Search)
	router.Post("/refresh", h.Refresh)
	router.Get("/queries", h.ListQueries)
	router.Get("/queries/:id", h.GetQuery)
	router.Delete("/queries/:id", h.DeleteQuery)
	router.Get("/queries/:id/places", h.ListPlaces)
}

// Search godoc
// @Summary Search places by category in a city
// @Description Served from the caller's cache when present; otherwise fetched from the provider
// @Tags places
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body services.SearchRequest true "City, category and optional max_details"
// @Success 200 {object} models.SearchQuery
// @Failure 403 {object} ErrorResponse
// @Failure 502 {object} ErrorResponse
// @Router /api/places/search [post]
func (h *PlacesHandler) Search(c *fiber.Ctx) error {
	var req services.SearchRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{Error: "Invalid request body"})
	}

	query, err := h.service.Search(c.UserContext(), middleware.GetIdentity(c), &req)
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(query)
}

// Refresh godoc
// @Summary Refresh a cached search
// @Tags places
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body services.RefreshRequest true "Refresh options"
// @Success 200 {object} models.SearchQuery
// @Failure 404 {object} ErrorResponse
// @Router /api/places/refresh [post]
func (h *PlacesHandler) Refresh(c *fiber.Ctx) error {
	var req services.RefreshRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{Error: "Invalid request body"})
	}

	query, err := h.service.Refresh(c.UserContext(), middleware.GetIdentity(c), &req)
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(query)
}

// ListQueries godoc
// @Summary List the caller's searches
// @Tags places
// @Produce json
// @Security BearerAuth
// @Success 200 {array} models.SearchQuery
// @Router /api/places/queries [get]
func (h *PlacesHandler) ListQueries(c *fiber.Ctx) error {
	queries, err := h.service.ListQueries(c.UserContext(), middleware.GetIdentity(c).UserID)
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(queries)
}

// GetQuery godoc
// @Summary Get one search with its places
// @Tags places
// @Produce json
// @Security BearerAuth
// @Param id path int true "Search query ID"
// @Success 200 {object} models.SearchQuery
// @Failure 404 {object} ErrorResponse
// @Router /api/places/queries/{id} [get]
func (h *PlacesHandler) GetQuery(c *fiber.Ctx) error {
	id, err := queryID(c)
	if err != nil {
		return err
	}

	query, err := h.service.GetQuery(c.UserContext(), middleware.GetIdentity(c).UserID, id)
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(query)
}

// DeleteQuery godoc
// @Summary Delete a search and its places
// @Tags places
// @Security BearerAuth
// @Param id path int true "Search query ID"
// @Success 204
// @Failure 404 {object} ErrorResponse
// @Router /api/places/queries/{id} [delete]
func (h *PlacesHandler) DeleteQuery(c *fiber.Ctx) error {
	id, err := queryID(c)
	if err != nil {
		return err
	}

	if err := h.service.DeleteQuery(c.UserContext(), middleware.GetIdentity(c).UserID, id); err != nil {
		return respondError(c, err)
	}

	return c.SendStatus(fiber.StatusNoContent)
}

// ListPlaces godoc
// @Summary List places of a search
// @Tags places
// @Produce json
// @Security BearerAuth
// @Param id path int true "Search query ID"
// @Success 200 {array} models.Place
// @Failure 404 {object} ErrorResponse
// @Router /api/places/queries/{id}/places [get]
func (h *PlacesHandler) ListPlaces(c *fiber.Ctx) error {
	id, err := queryID(c)
	if err != nil {
		return err
	}

	places, err := h.service.ListPlaces(c.UserContext(), middleware.GetIdentity(c).UserID, id)
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(places)
}

func queryID(c *fiber.Ctx) (uint, error) {
	id, err := c.ParamsInt("id")
	if err != nil || id <= 0 {
		return 0, fiber.NewError(fiber.StatusBadRequest, "Invalid search query ID")
	}
	return uint(id), nil
}
