package handlers

import (
	"github.com/Henryk91/get-company-info/internal/config"
	"github.com/Henryk91/get-company-info/internal/database"
	"github.com/Henryk91/get-company-info/internal/middleware"
	"github.com/Henryk91/get-company-info/internal/services"
	"github.com/gofiber/fiber/v2"
)

type AuthHandler struct {
	service *services.AuthService
}

func NewAuthHandler(db *database.DB, cfg *config.Config) *AuthHandler {
	return &AuthHandler{
		service: services.NewAuthService(db, cfg),
	}
}

func SetupAuthRoutes(router fiber.Router, db *database.DB, cfg *config.Config) {
	h := NewAuthHandler(db, cfg)

	router.Post("/register", h.Register)
	router.Post("/login", h.Login)
	router.Get("/me", middleware.AuthRequired(h.service), h.Me)
}

// Register godoc
// @Summary Register a new user
// @Tags auth
// @Accept json
// @Produce json
// @Param request body services.RegisterRequest true "Username, email and password"
// @Success 201 {object} services.UserResponse
// @Failure 400 {object} ErrorResponse
// @Router /api/auth/register [post]
func (h *AuthHandler) Register(c *fiber.Ctx) error {
	var req services.RegisterRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{Error: "Invalid request body"})
	}

	user, err := h.service.Register(c.UserContext(), &req)
	if err != nil {
		return respondError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(services.NewUserResponse(user))
}

// Login godoc
// @Summary Exchange credentials for a bearer token
// @Description Accepts an OAuth2 password form or JSON; username may be the email address
// @Tags auth
// @Accept x-www-form-urlencoded,json
// @Produce json
// @Param request body services.LoginRequest true "Credentials"
// @Success 200 {object} services.TokenResponse
// @Failure 401 {object} ErrorResponse
// @Router /api/auth/login [post]
func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var req services.LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{Error: "Invalid request body"})
	}

	token, err := h.service.Login(c.UserContext(), &req)
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(token)
}

// Me godoc
// @Summary Current user
// @Tags auth
// @Produce json
// @Security BearerAuth
// @Success 200 {object} services.UserResponse
// @Router /api/auth/me [get]
func (h *AuthHandler) Me(c *fiber.Ctx) error {
	identity := middleware.GetIdentity(c)

	user, err := h.service.GetUser(c.UserContext(), identity.UserID)
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(services.NewUserResponse(user))
}
