package http

import (
	"context"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"

	"github.com/jhoicas/pos-backoffice/internal/application/dto"
	"github.com/jhoicas/pos-backoffice/internal/domain"
)

// viewChecker es el contrato mínimo para verificar vistas del paquete contratado.
// Lo implementa *usecase.PackageUseCase.
type viewChecker interface {
	ViewAllowed(ctx context.Context, businessID, view string) (bool, error)
}

// RequireView verifica que el paquete del negocio de la sesión habilite la vista.
// Debe usarse después de AuthMiddleware y RequireBusiness. El super-admin no se filtra.
//
// Comportamiento:
//   - 403 Forbidden: vista no incluida en el paquete, o negocio inactivo.
//   - 503 Service Unavailable: fallo al consultar el catálogo.
func RequireView(view string, checker viewChecker) fiber.Handler {
	return func(c *fiber.Ctx) error {
		sess := GetSession(c)
		if sess == nil {
			return respondError(c, domain.ErrUnauthorized)
		}
		if sess.IsSuperAdmin() {
			return c.Next()
		}

		allowed, err := checker.ViewAllowed(c.UserContext(), sess.BusinessID(), view)
		if err != nil {
			log.Error().Err(err).Str("business_id", sess.BusinessID()).Str("view", view).Msg("verificar vista")
			return c.Status(fiber.StatusServiceUnavailable).JSON(dto.ErrorResponse{
				Code:    "VIEW_CHECK_FAILED",
				Message: "no se pudo verificar la vista, intente más tarde",
			})
		}
		if !allowed {
			return c.Status(fiber.StatusForbidden).JSON(dto.ErrorResponse{
				Code:    "VIEW_DISABLED",
				Message: "la vista '" + view + "' no está incluida en el paquete del negocio",
			})
		}
		return c.Next()
	}
}
