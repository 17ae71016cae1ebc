package http

import (
	"context"
	"errors"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/pos-backoffice/internal/application/auth"
	"github.com/jhoicas/pos-backoffice/internal/application/dto"
	"github.com/jhoicas/pos-backoffice/internal/domain"
)

// LocalSession clave de Locals donde queda la sesión resuelta.
const LocalSession = "session"

// sessionResolver es lo que necesita AuthMiddleware; lo implementa *auth.AuthUseCase.
type sessionResolver interface {
	Resolve(token string) (*auth.Session, error)
}

// privilegeAuthorizer decide con datos al día si la sesión puede ejercer un privilegio.
type privilegeAuthorizer interface {
	Authorize(ctx context.Context, sess *auth.Session, privilegeID string) error
}

// AuthMiddleware valida el Bearer Token y carga la sesión a la que apunta en c.Locals.
func AuthMiddleware(resolver sessionResolver) fiber.Handler {
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
		sess, err := resolver.Resolve(tokenString)
		if err != nil {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "INVALID_TOKEN", Message: "token inválido, expirado o sesión cerrada"})
		}
		c.Locals(LocalSession, sess)
		return c.Next()
	}
}

// GetSession devuelve la sesión del contexto (después de AuthMiddleware).
func GetSession(c *fiber.Ctx) *auth.Session {
	sess, _ := c.Locals(LocalSession).(*auth.Session)
	return sess
}

// GetRole rol del usuario de la sesión; "" sin sesión.
func GetRole(c *fiber.Ctx) string {
	if sess := GetSession(c); sess != nil {
		if u := sess.User(); u != nil {
			return u.Role
		}
	}
	return ""
}

// RequireRole deja pasar solo a los roles indicados. El super-admin pasa siempre.
func RequireRole(roles ...string) fiber.Handler {
	allowed := make(map[string]struct{}, len(roles))
	for _, r := range roles {
		allowed[r] = struct{}{}
	}
	return func(c *fiber.Ctx) error {
		sess := GetSession(c)
		if sess == nil {
			return respondError(c, domain.ErrUnauthorized)
		}
		if sess.IsSuperAdmin() {
			return c.Next()
		}
		if _, ok := allowed[GetRole(c)]; !ok {
			return c.Status(fiber.StatusForbidden).JSON(dto.ErrorResponse{Code: "FORBIDDEN", Message: "rol sin acceso a este recurso"})
		}
		return c.Next()
	}
}

// RequireSuperAdmin deja pasar solo al super-admin.
func RequireSuperAdmin() fiber.Handler {
	return func(c *fiber.Ctx) error {
		sess := GetSession(c)
		if sess == nil {
			return respondError(c, domain.ErrUnauthorized)
		}
		if !sess.IsSuperAdmin() {
			return c.Status(fiber.StatusForbidden).JSON(dto.ErrorResponse{Code: "FORBIDDEN", Message: "solo el super-admin"})
		}
		return c.Next()
	}
}

// RequireBusiness exige un negocio cargado en la sesión (el propio o el administrado por el super-admin).
func RequireBusiness() fiber.Handler {
	return func(c *fiber.Ctx) error {
		sess := GetSession(c)
		if sess == nil {
			return respondError(c, domain.ErrUnauthorized)
		}
		if sess.BusinessID() == "" {
			return respondError(c, domain.ErrNoBusinessSelected)
		}
		return c.Next()
	}
}

// RequirePrivilege exige el privilegio con datos al día.
func RequirePrivilege(authz privilegeAuthorizer, privilegeID string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		sess := GetSession(c)
		if sess == nil {
			return respondError(c, domain.ErrUnauthorized)
		}
		if err := checkPrivilege(c.UserContext(), authz, sess, privilegeID); err != nil {
			return respondError(c, err)
		}
		return c.Next()
	}
}

// checkPrivilege gerentes y super-admin administran el negocio completo: pasan aunque su grupo
// no conceda el privilegio. El rol se relee en Authorize, así que un gerente degradado ya no pasa.
func checkPrivilege(ctx context.Context, authz privilegeAuthorizer, sess *auth.Session, privilegeID string) error {
	if sess.IsSuperAdmin() {
		return nil
	}
	err := authz.Authorize(ctx, sess, privilegeID)
	if errors.Is(err, domain.ErrForbidden) && sess.IsManager() {
		return nil
	}
	return err
}
