package http

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/retail-api/internal/application/dto"
	"github.com/jhoicas/retail-api/internal/domain/access"
	"github.com/jhoicas/retail-api/internal/domain/entity"
	"github.com/jhoicas/retail-api/pkg/jwt"
)

// Locals keys para la identidad del token en Fiber.
const (
	LocalUserID = "user_id"
	LocalRole   = "role"
	LocalStaff  = "staff"
	LocalError  = "error" // error interno respondido como 500
)

// AuthMiddleware valida el Bearer Token JWT y carga UserID, Role y Staff en c.Locals.
func AuthMiddleware(jwtSecret string) fiber.Handler {
	return authMiddleware(jwtSecret, true)
}

// OptionalAuth como AuthMiddleware pero deja pasar peticiones sin Authorization (lectura anónima).
// Un token presente pero inválido sigue respondiendo 401.
func OptionalAuth(jwtSecret string) fiber.Handler {
	return authMiddleware(jwtSecret, false)
}

func authMiddleware(jwtSecret string, required bool) fiber.Handler {
	return func(c *fiber.Ctx) error {
		authHeader := c.Get(fiber.HeaderAuthorization)
		if authHeader == "" {
			if !required {
				return c.Next()
			}
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "MISSING_TOKEN", Message: "Authentication credentials were not provided."})
		}
		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "INVALID_TOKEN", Message: "formato: Bearer <token>"})
		}
		tokenString := strings.TrimSpace(parts[1])
		if tokenString == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "MISSING_TOKEN", Message: "token vacío"})
		}
		claims, err := jwt.Parse(jwtSecret, tokenString)
		if err != nil {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "INVALID_TOKEN", Message: "token inválido o expirado"})
		}
		c.Locals(LocalUserID, claims.UserID)
		c.Locals(LocalRole, claims.Role)
		c.Locals(LocalStaff, claims.Staff)
		return c.Next()
	}
}

// GetUserID devuelve el UserID del contexto (después del middleware de auth).
func GetUserID(c *fiber.Ctx) string {
	s, _ := c.Locals(LocalUserID).(string)
	return s
}

// GetRole devuelve el rol del token ("" si la petición es anónima).
func GetRole(c *fiber.Ctx) entity.Role {
	s, _ := c.Locals(LocalRole).(string)
	return entity.Role(s)
}

// GetActor arma el actor de la petición; nil si es anónima.
func GetActor(c *fiber.Ctx) *access.Actor {
	userID := GetUserID(c)
	if userID == "" {
		return nil
	}
	staff, _ := c.Locals(LocalStaff).(bool)
	return &access.Actor{UserID: userID, Role: GetRole(c), Staff: staff}
}
