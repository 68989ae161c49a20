package middleware

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/taskhive/backend/internal/auth"
	"github.com/taskhive/backend/internal/dto"
)

type AuthMiddleware struct {
	jwtService *auth.JWTService
}

func NewAuthMiddleware(jwtService *auth.JWTService) *AuthMiddleware {
	return &AuthMiddleware{jwtService: jwtService}
}

// Required authenticates the request from the session cookie, falling back
// to a Bearer header, and puts the identity context (userID, userName) in
// locals.
func (m *AuthMiddleware) Required() fiber.Handler {
	return func(c *fiber.Ctx) error {
		tokenString := m.extractToken(c)
		if tokenString == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.Fail("Not authorized. Try login again."))
		}

		claims, err := m.jwtService.ValidateToken(tokenString)
		if err != nil {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.Fail("Not authorized. Try login again."))
		}

		userID, err := uuid.Parse(claims.Sub)
		if err != nil {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.Fail("Not authorized. Try login again."))
		}

		c.Locals("userID", userID)
		c.Locals("userName", claims.Name)

		return c.Next()
	}
}

func (m *AuthMiddleware) extractToken(c *fiber.Ctx) string {
	if cookie := c.Cookies("token"); cookie != "" {
		return cookie
	}
	authHeader := c.Get("Authorization")
	if strings.HasPrefix(authHeader, "Bearer ") {
		return strings.TrimPrefix(authHeader, "Bearer ")
	}
	return ""
}

func (m *AuthMiddleware) GetJWTService() *auth.JWTService {
	return m.jwtService
}

// GetUserID returns the authenticated user id from locals.
func GetUserID(c *fiber.Ctx) (uuid.UUID, bool) {
	id, ok := c.Locals("userID").(uuid.UUID)
	return id, ok
}

// GetUserName returns the authenticated display name from locals.
func GetUserName(c *fiber.Ctx) string {
	name, _ := c.Locals("userName").(string)
	return name
}
