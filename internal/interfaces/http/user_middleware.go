package http

import (
	"context"
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/AchrafRT/sales-crm/internal/application/dto"
	"github.com/AchrafRT/sales-crm/internal/domain"
	"github.com/AchrafRT/sales-crm/internal/domain/entity"
)

// LocalUser key del usuario cargado por ActiveUser.
const LocalUser = "user"

// userLoader contrato mínimo para cargar al actor. Lo implementa *engine.Reader.
type userLoader interface {
	User(ctx context.Context, id string) (*entity.User, error)
}

// ActiveUser carga el usuario del token y rechaza cuentas inexistentes o deshabilitadas.
// Debe usarse DESPUÉS de AuthMiddleware.
//
// Comportamiento:
//   - 401 → usuario del token ya no existe.
//   - 403 → usuario deshabilitado (disable_user posterior a la emisión del token).
//   - 503 → fallo al leer el almacén de usuarios.
func ActiveUser(users userLoader) fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID := GetUserID(c)
		if userID == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "user_id no encontrado en el token"})
		}
		u, err := users.User(c.UserContext(), userID)
		if err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "usuario inexistente"})
			}
			return c.Status(fiber.StatusServiceUnavailable).JSON(dto.ErrorResponse{Code: "USER_CHECK_FAILED", Message: "no se pudo verificar el usuario, intente más tarde"})
		}
		if !u.Active {
			return c.Status(fiber.StatusForbidden).JSON(dto.ErrorResponse{Code: "USER_DISABLED", Message: "cuenta deshabilitada"})
		}
		c.Locals(LocalUser, u)
		return c.Next()
	}
}

// GetUser devuelve el usuario cargado por ActiveUser.
func GetUser(c *fiber.Ctx) *entity.User {
	u, _ := c.Locals(LocalUser).(*entity.User)
	return u
}
