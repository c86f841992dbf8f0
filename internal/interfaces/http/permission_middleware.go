package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/retail-api/internal/domain/access"
)

// Require evalúa el predicado con el método y el actor de la petición.
// Debe ir DESPUÉS de AuthMiddleware u OptionalAuth. Anónimo denegado -> 401; autenticado denegado -> 403.
func Require(pred access.Predicate) fiber.Handler {
	return func(c *fiber.Ctx) error {
		d := pred(c.Method(), GetActor(c))
		if !d.Allowed() {
			return denyResponse(c, d)
		}
		return c.Next()
	}
}
