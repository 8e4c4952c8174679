package http

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/tochman/visinv-api/internal/application/dto"
	"github.com/tochman/visinv-api/pkg/jwt"
)

// Locals keys para UserID y OrganizationID en Fiber.
const (
	LocalUserID         = "user_id"
	LocalOrganizationID = "organization_id"
)

// AuthMiddleware valida el Bearer Token JWT y extrae UserID y OrganizationID
// a c.Locals. Todo el aislamiento de tenant cuelga del organization_id del
// token: las capas de abajo lo reciben como parámetro explícito.
func AuthMiddleware(jwtSecret string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		authHeader := c.Get("Authorization")
		if authHeader == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "MISSING_TOKEN", Message: "Authorization header requerido"})
		}
		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "INVALID_TOKEN", Message: "formato: Bearer <token>"})
		}
		tokenString := strings.TrimSpace(parts[1])
		if tokenString == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "MISSING_TOKEN", Message: "token vacío"})
		}
		userID, organizationID, err := jwt.Parse(jwtSecret, tokenString)
		if err != nil {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "INVALID_TOKEN", Message: "token inválido o expirado"})
		}
		if organizationID == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "MISSING_ORGANIZATION", Message: "token sin organización"})
		}
		c.Locals(LocalUserID, userID)
		c.Locals(LocalOrganizationID, organizationID)
		return c.Next()
	}
}

// GetUserID devuelve el UserID del contexto (después del middleware de auth).
func GetUserID(c *fiber.Ctx) string {
	v := c.Locals(LocalUserID)
	if v == nil {
		return ""
	}
	s, _ := v.(string)
	return s
}

// GetOrganizationID devuelve el OrganizationID del contexto (después del middleware de auth).
func GetOrganizationID(c *fiber.Ctx) string {
	v := c.Locals(LocalOrganizationID)
	if v == nil {
		return ""
	}
	s, _ := v.(string)
	return s
}
