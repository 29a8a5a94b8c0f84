package middleware

import (
	"strings"

	"github.com/gofiber/fiber/v2"
)

type TokenValidator interface {
	ValidateAccessToken(token string) (string, error)
}

type AdminKeyChecker interface {
	CheckAdminKey(key string) error
}

// Auth requires a valid bearer token and stores its subject in
// c.Locals("subject").
func Auth(tokens TokenValidator) fiber.Handler {
	return func(c *fiber.Ctx) error {
		authHeader := c.Get("Authorization")
		if authHeader == "" {
			return c.Status(401).JSON(fiber.Map{"error": "missing authorization header"})
		}

		tokenString := strings.TrimPrefix(authHeader, "Bearer ")
		if tokenString == authHeader {
			return c.Status(401).JSON(fiber.Map{"error": "invalid authorization format"})
		}

		subject, err := tokens.ValidateAccessToken(tokenString)
		if err != nil {
			return c.Status(401).JSON(fiber.Map{"error": "invalid or expired token"})
		}

		c.Locals("subject", subject)
		return c.Next()
	}
}

func AdminKey(keys AdminKeyChecker) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if err := keys.CheckAdminKey(c.Get("X-Admin-Key")); err != nil {
			return c.Status(403).JSON(fiber.Map{"error": "invalid admin key"})
		}
		return c.Next()
	}
}
