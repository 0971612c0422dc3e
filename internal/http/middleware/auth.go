package middleware

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"dataroom/internal/auth"
	"dataroom/internal/model"
)

// UserLocalKey is the key under which the authenticated user is stored in
// Fiber's context locals.
const UserLocalKey = "auth_user"

// Auth returns a middleware that authenticates every request through the
// pipeline and stores the resolved user in context locals. Failures are
// returned as-is for the central error handler to map.
func Auth(pipeline *auth.Pipeline) fiber.Handler {
	return func(c *fiber.Ctx) error {
		user, err := pipeline.Authenticate(c.UserContext(), c.Get(fiber.HeaderAuthorization), ClientIP(c))
		if err != nil {
			return err
		}
		c.Locals(UserLocalKey, user)
		return c.Next()
	}
}

// UserFromCtx returns the authenticated user stored by Auth.
func UserFromCtx(c *fiber.Ctx) *model.User {
	if user, ok := c.Locals(UserLocalKey).(*model.User); ok {
		return user
	}
	return nil
}

// ClientIP identifies the caller for rate limiting, honoring proxy headers
// before falling back to the peer address.
func ClientIP(c *fiber.Ctx) string {
	if fwd := c.Get("X-Forwarded-For"); fwd != "" {
		if ip, _, found := strings.Cut(fwd, ","); found || ip != "" {
			return strings.TrimSpace(ip)
		}
	}
	if ip := c.Get("X-Real-IP"); ip != "" {
		return ip
	}
	return c.IP()
}
