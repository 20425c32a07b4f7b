package middleware

import (
	"github.com/VladKovDev/tguser-api/internal/auth"
	"github.com/gofiber/fiber/v2"
)

const ClaimsKey = "auth_claims"

// Bearer rejects requests without a valid bearer token before any handler
// looks at the body.
func Bearer(svc *auth.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		token := auth.BearerToken(c.Get(fiber.HeaderAuthorization))
		claims, err := svc.Authenticate(c.UserContext(), token)
		if err != nil {
			return err
		}
		c.Locals(ClaimsKey, claims)
		return c.Next()
	}
}

func Claims(c *fiber.Ctx) *auth.Claims {
	claims, ok := c.Locals(ClaimsKey).(*auth.Claims)
	if !ok {
		return nil
	}
	return claims
}
