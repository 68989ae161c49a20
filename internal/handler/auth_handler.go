package handler

import (
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/taskhive/backend/internal/auth"
	"github.com/taskhive/backend/internal/dto"
	"github.com/taskhive/backend/internal/middleware"
	"github.com/taskhive/backend/internal/repository"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// AuthHandler is the identity collaborator's front door: it exchanges
// credentials for a session cookie carrying {userId, name}.
type AuthHandler struct {
	userRepo   *repository.UserRepository
	jwtService *auth.JWTService
	expiry     time.Duration
	secure     bool
}

func NewAuthHandler(userRepo *repository.UserRepository, jwtService *auth.JWTService, expiry time.Duration, secure bool) *AuthHandler {
	return &AuthHandler{
		userRepo:   userRepo,
		jwtService: jwtService,
		expiry:     expiry,
		secure:     secure,
	}
}

// Login - POST /api/auth/login
func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var req dto.LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.Fail("Invalid request body"))
	}

	user, err := h.userRepo.FindByEmail(req.Email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.Fail("Invalid email or password"))
		}
		return c.Status(fiber.StatusInternalServerError).JSON(dto.Fail("Something went wrong"))
	}
	if !user.IsActive {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.Fail("Account is deactivated"))
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.Fail("Invalid email or password"))
	}

	token, err := h.jwtService.GenerateToken(user.ID, user.Name)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.Fail("Something went wrong"))
	}

	c.Cookie(&fiber.Cookie{
		Name:     "token",
		Value:    token,
		Expires:  time.Now().Add(h.expiry),
		HTTPOnly: true,
		Secure:   h.secure,
		SameSite: "Strict",
	})

	return c.JSON(dto.Response{
		Status:  true,
		Message: "Login successful",
		User:    &dto.UserResponse{ID: user.ID, Name: user.Name, Email: user.Email},
	})
}

// Logout - POST /api/auth/logout
func (h *AuthHandler) Logout(c *fiber.Ctx) error {
	c.Cookie(&fiber.Cookie{
		Name:     "token",
		Value:    "",
		Expires:  time.Now().Add(-time.Hour),
		HTTPOnly: true,
		Secure:   h.secure,
		SameSite: "Strict",
	})
	return c.JSON(dto.Success("Logged out"))
}

// Me - GET /api/auth/me
func (h *AuthHandler) Me(c *fiber.Ctx) error {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.Fail("Not authorized. Try login again."))
	}

	user, err := h.userRepo.FindByID(userID)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.Fail("Not authorized. Try login again."))
	}

	return c.JSON(dto.Response{
		Status: true,
		User:   &dto.UserResponse{ID: user.ID, Name: user.Name, Email: user.Email},
	})
}
