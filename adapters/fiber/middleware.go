// Package fiber applies the navigation guard server-side for the hosted
// admin shell: the same decisions the in-process guard makes become HTTP
// redirects.
package fiber

import (
	"github.com/gofiber/fiber/v3"

	"github.com/markap/adminkit/router"
)

// GuardMiddleware evaluates every request path against the route guard and
// answers guard redirects with a 302 before any handler runs.
func GuardMiddleware(sess router.Session, guard *router.Guard) fiber.Handler {
	return func(c fiber.Ctx) error {
		decision := guard.Evaluate(sess, c.OriginalURL())
		if decision.Allowed {
			return c.Next()
		}
		return c.Redirect().Status(fiber.StatusFound).To(decision.RedirectTo)
	}
}

// RequireAuth protects JSON API routes of the shell itself: no redirect
// dance, just a 401 when the session is gone.
func RequireAuth(sess router.Session) fiber.Handler {
	return func(c fiber.Ctx) error {
		if !sess.IsAuthenticated() {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "unauthorized",
			})
		}
		return c.Next()
	}
}
