package http

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/pos-backoffice/internal/application/auth"
	"github.com/jhoicas/pos-backoffice/internal/application/dto"
	"github.com/jhoicas/pos-backoffice/internal/application/usecase"
)

// AuthHandler maneja login, logout y el contexto de la sesión.
type AuthHandler struct {
	uc *auth.AuthUseCase
}

// NewAuthHandler construye el handler de auth.
func NewAuthHandler(uc *auth.AuthUseCase) *AuthHandler {
	return &AuthHandler{uc: uc}
}

// confirmer traduce ?confirm=true a la confirmación de la operación destructiva.
func confirmer(c *fiber.Ctx) usecase.Confirmer {
	var q dto.ConfirmQuery
	if err := c.QueryParser(&q); err != nil || !q.Confirm {
		return usecase.NeverConfirm
	}
	return usecase.AlwaysConfirm
}

// Login godoc
// @Summary      Iniciar sesión
// @Description  "admin" entra como super-admin; el resto necesita business_id de un negocio activo.
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body  dto.LoginRequest  true  "username, password, business_id"
// @Success      200   {object}  dto.LoginResponse
// @Failure      401   {object}  dto.ErrorResponse
// @Failure      403   {object}  dto.ErrorResponse
// @Router       /api/auth/login [post]
func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var in dto.LoginRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	if strings.TrimSpace(in.Username) == "" || in.Password == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "username y password son requeridos"})
	}
	out, _, err := h.uc.Open(c.UserContext(), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// Logout godoc
// @Summary      Cerrar sesión
// @Description  Con una venta en curso responde 428 salvo que se envíe ?confirm=true.
// @Tags         auth
// @Param        confirm  query  bool  false  "descartar la venta en curso"
// @Success      204
// @Failure      428  {object}  dto.ErrorResponse
// @Router       /api/auth/logout [post]
func (h *AuthHandler) Logout(c *fiber.Ctx) error {
	if err := h.uc.Close(c.UserContext(), GetSession(c), confirmer(c)); err != nil {
		return respondError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// Me godoc
// @Summary      Sesión actual
// @Tags         auth
// @Produce      json
// @Success      200  {object}  dto.SessionResponse
// @Router       /api/auth/me [get]
func (h *AuthHandler) Me(c *fiber.Ctx) error {
	sess := GetSession(c)
	if err := h.uc.Refresh(c.UserContext(), sess); err != nil {
		return respondError(c, err)
	}
	return c.JSON(auth.ToSessionResponse(sess))
}

// SwitchBusiness godoc
// @Summary      Cambiar negocio administrado (super-admin)
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body  dto.SwitchBusinessRequest  true  "business_id; vacío deja de administrar"
// @Success      200   {object}  dto.SessionResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/auth/business [put]
func (h *AuthHandler) SwitchBusiness(c *fiber.Ctx) error {
	var in dto.SwitchBusinessRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	sess := GetSession(c)
	if err := h.uc.SwitchManagedBusiness(c.UserContext(), sess, in.BusinessID); err != nil {
		return respondError(c, err)
	}
	return c.JSON(auth.ToSessionResponse(sess))
}

// ChangePassword godoc
// @Summary      Cambiar contraseña del super-admin
// @Tags         auth
// @Accept       json
// @Param        body  body  dto.ChangePasswordRequest  true  "current_password, new_password"
// @Success      204
// @Failure      401  {object}  dto.ErrorResponse
// @Router       /api/auth/password [put]
func (h *AuthHandler) ChangePassword(c *fiber.Ctx) error {
	var in dto.ChangePasswordRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	if err := h.uc.ChangeSuperAdminPassword(c.UserContext(), GetSession(c), in); err != nil {
		return respondError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// SetSaleState godoc
// @Summary      Marcar o limpiar la venta en curso
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body  dto.SaleStateRequest  true  "in_progress"
// @Success      200   {object}  dto.SessionResponse
// @Router       /api/auth/sale [put]
func (h *AuthHandler) SetSaleState(c *fiber.Ctx) error {
	var in dto.SaleStateRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	sess := GetSession(c)
	if err := sess.MarkSaleInProgress(in.InProgress); err != nil {
		return respondError(c, err)
	}
	return c.JSON(auth.ToSessionResponse(sess))
}
