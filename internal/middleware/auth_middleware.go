package middleware

import (
	"log"
	"strings"

	"coffeetip/internal/handlers"
	"coffeetip/internal/services"

	"github.com/gofiber/fiber/v2"
)

// AuthRequired checks for a valid session token, delivered either as the
// HTTP-only auth cookie or as an Authorization bearer header, and stores the
// authenticated user's id and username in the request context.
func AuthRequired(authService *services.AuthService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		tokenString := c.Cookies(handlers.AuthCookieName)
		if tokenString == "" {
			authHeader := c.Get("Authorization")
			parts := strings.SplitN(authHeader, " ", 2)
			if len(parts) == 2 && parts[0] == "Bearer" {
				tokenString = parts[1]
			}
		}
		if tokenString == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"success": false,
				"error":   "INVALID_CREDENTIALS",
				"message": "A session cookie or bearer token is required",
			})
		}

		claims, err := authService.ValidateToken(tokenString)
		if err != nil {
			log.Printf("Session token validation failed: %v", err)
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"success": false,
				"error":   "INVALID_CREDENTIALS",
				"message": "Invalid or expired token",
			})
		}

		// JWT numeric claims decode as float64.
		userID, ok := claims["user_id"].(float64)
		if !ok {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"success": false,
				"error":   "INVALID_CREDENTIALS",
				"message": "Invalid or expired token",
			})
		}
		c.Locals("user_id", uint(userID))
		c.Locals("username", claims["username"])

		return c.Next()
	}
}
