package middleware

import (
	"github.com/gofiber/fiber/v2"

	"learning_platform/backend/config"
	"learning_platform/backend/services"
	"learning_platform/backend/utils"
)

const actorKey = "actor"

// AuthMiddleware admits requests carrying a valid bearer token and stores the
// caller as a services.Actor.
func AuthMiddleware(cfg *config.Config) fiber.Handler {
	return func(c *fiber.Ctx) error {
		token, ok := utils.ExtractBearerToken(c.Get(fiber.HeaderAuthorization))
		if !ok {
			return utils.Error(c, fiber.StatusUnauthorized, "Invalid token")
		}
		claims, err := utils.ParseJWTToken(token, cfg)
		if err != nil {
			return utils.Error(c, fiber.StatusUnauthorized, "Invalid token")
		}

		c.Locals(actorKey, services.Actor{UserID: claims.UserID, Role: claims.Role})
		return c.Next()
	}
}

// RequireRole rejects callers whose token carries another role.
func RequireRole(role string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if CurrentActor(c).Role != role {
			return utils.Error(c, fiber.StatusForbidden, "Forbidden")
		}
		return c.Next()
	}
}

// CurrentActor returns the caller stored by AuthMiddleware, or the zero Actor.
func CurrentActor(c *fiber.Ctx) services.Actor {
	actor, _ := c.Locals(actorKey).(services.Actor)
	return actor
}
