package middleware

import (
	"strings"

	"github.com/gofiber/fiber/v2"
)

// StaffEmailLocalKey is the key used to store the authenticated staff email
// in Fiber's context locals.
const StaffEmailLocalKey = "staff_email"

// TokenVerifier checks a bearer token and returns the subject it was issued to.
type TokenVerifier func(token string) (string, error)

// RequireStaff guards dashboard routes. It expects an
// "Authorization: Bearer <token>" header; requests without a valid token get
// 401 with the standard error envelope via the global error handler.
func RequireStaff(verify TokenVerifier) fiber.Handler {
	return func(c *fiber.Ctx) error {
		header := c.Get(fiber.HeaderAuthorization)
		const prefix = "Bearer "
		if !strings.HasPrefix(header, prefix) {
			return fiber.NewError(fiber.StatusUnauthorized, "missing bearer token")
		}
		subject, err := verify(strings.TrimSpace(header[len(prefix):]))
		if err != nil {
			return fiber.NewError(fiber.StatusUnauthorized, "invalid token")
		}
		c.Locals(StaffEmailLocalKey, subject)
		return c.Next()
	}
}
