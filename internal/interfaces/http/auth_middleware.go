package http

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/sri-facturacion/internal/application/dto"
	"github.com/jhoicas/sri-facturacion/pkg/jwt"
)

// Locals keys para ClientID y RUC del emisor en Fiber.
const (
	LocalClientID   = "client_id"
	LocalEmitterRUC = "ruc_emisor"
)

// AuthMiddleware valida el Bearer Token JWT y extrae ClientID y RUC del emisor a c.Locals.
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
		claims, err := jwt.Parse(jwtSecret, tokenString)
		if err != nil {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "INVALID_TOKEN", Message: "token inválido o expirado"})
		}
		c.Locals(LocalClientID, claims.ClientID)
		c.Locals(LocalEmitterRUC, claims.EmitterRUC)
		return c.Next()
	}
}

// GetClientID devuelve el ClientID del contexto (después del middleware de auth).
func GetClientID(c *fiber.Ctx) string {
	s, _ := c.Locals(LocalClientID).(string)
	return s
}

// GetEmitterRUC devuelve el RUC al que está restringido el token; vacío si no tiene restricción.
func GetEmitterRUC(c *fiber.Ctx) string {
	s, _ := c.Locals(LocalEmitterRUC).(string)
	return s
}

// CanEmitFor indica si el token del contexto puede operar sobre comprobantes del RUC indicado.
func CanEmitFor(c *fiber.Ctx, ruc string) bool {
	allowed := GetEmitterRUC(c)
	return allowed == "" || allowed == ruc
}
