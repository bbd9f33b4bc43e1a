package middleware

import "github.com/gofiber/fiber/v2"

const (
	// RoleHeader carries the caller's role, set by the authenticating
	// gateway in front of this service.
	RoleHeader = "X-User-Role"
	// RoleLocalKey is the key used to store the role in Fiber's context locals.
	RoleLocalKey = "user_role"
)

// RequireRole rejects requests whose role header does not match the required
// role. Authentication itself happens upstream; this only enforces the role
// claim on guarded routes.
func RequireRole(role string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		got := c.Get(RoleHeader)
		c.Locals(RoleLocalKey, got)
		if got != role {
			rid, _ := c.Locals(RequestIDLocalKey).(string)
			return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
				"request_id": rid,
				"error": fiber.Map{
					"code":    "FORBIDDEN",
					"message": "insufficient role",
				},
			})
		}
		return c.Next()
	}
}
