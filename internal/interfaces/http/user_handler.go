package http

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/pos-backoffice/internal/application/auth"
	"github.com/jhoicas/pos-backoffice/internal/application/dto"
	"github.com/jhoicas/pos-backoffice/internal/application/usecase"
	"github.com/jhoicas/pos-backoffice/internal/domain"
	"github.com/jhoicas/pos-backoffice/internal/domain/entity"
)

// UserHandler usuarios del negocio de la sesión.
type UserHandler struct {
	uc *usecase.UserUseCase
}

// NewUserHandler construye el handler.
func NewUserHandler(uc *usecase.UserUseCase) *UserHandler {
	return &UserHandler{uc: uc}
}

// List godoc
// @Summary      Listar usuarios del negocio
// @Tags         users
// @Produce      json
// @Success      200  {array}  dto.UserResponse
// @Router       /api/users [get]
func (h *UserHandler) List(c *fiber.Ctx) error {
	out, err := h.uc.ListUsers(c.UserContext(), GetSession(c).BusinessID())
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// GetByID godoc
// @Summary      Obtener usuario
// @Tags         users
// @Produce      json
// @Param        id   path  string  true  "ID del usuario"
// @Success      200  {object}  dto.UserResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/users/{id} [get]
func (h *UserHandler) GetByID(c *fiber.Ctx) error {
	out, err := h.uc.GetUser(c.UserContext(), GetSession(c).BusinessID(), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// Create godoc
// @Summary      Crear usuario
// @Tags         users
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateUserRequest  true  "username, password, role, group_id"
// @Success      201   {object}  dto.UserResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Failure      422   {object}  dto.ErrorResponse
// @Router       /api/users [post]
func (h *UserHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateUserRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	if strings.TrimSpace(in.Username) == "" || in.Password == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "username y password son requeridos"})
	}
	sess := GetSession(c)
	if !canAssignRoles(sess) && ((in.Role != "" && in.Role != entity.RoleSeller) || strings.TrimSpace(in.GroupID) != "") {
		return respondError(c, domain.ErrForbidden)
	}
	out, err := h.uc.CreateUser(c.UserContext(), sess.BusinessID(), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// Update godoc
// @Summary      Actualizar usuario
// @Description  Solo un gerente o el super-admin cambian roles o grupos, o editan la cuenta de un gerente; un gerente no cambia su propio rol.
// @Tags         users
// @Accept       json
// @Produce      json
// @Param        id    path  string                 true  "ID del usuario"
// @Param        body  body  dto.UpdateUserRequest  true  "campos a cambiar"
// @Success      200   {object}  dto.UserResponse
// @Failure      403   {object}  dto.ErrorResponse
// @Router       /api/users/{id} [put]
func (h *UserHandler) Update(c *fiber.Ctx) error {
	var in dto.UpdateUserRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	sess := GetSession(c)
	id := c.Params("id")
	if in.Role != nil || in.GroupID != nil || !canAssignRoles(sess) {
		current, err := h.uc.GetUser(c.UserContext(), sess.BusinessID(), id)
		if err != nil {
			return respondError(c, err)
		}
		if !mayUpdateUser(sess, current, in) {
			return respondError(c, domain.ErrForbidden)
		}
	}
	out, err := h.uc.UpdateUser(c.UserContext(), sess.BusinessID(), id, in)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// Delete godoc
// @Summary      Eliminar usuario
// @Tags         users
// @Param        id       path   string  true   "ID del usuario"
// @Param        confirm  query  bool    false  "confirmación"
// @Success      204
// @Failure      422  {object}  dto.ErrorResponse
// @Failure      428  {object}  dto.ErrorResponse
// @Router       /api/users/{id} [delete]
func (h *UserHandler) Delete(c *fiber.Ctx) error {
	sess := GetSession(c)
	err := h.uc.DeleteUser(c.UserContext(), sess.BusinessID(), sess.User().ID, c.Params("id"), confirmer(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

func canAssignRoles(sess *auth.Session) bool {
	return sess.IsSuperAdmin() || sess.IsManager()
}

// mayUpdateUser decide si la sesión puede aplicar in sobre current. Quien solo tiene el privilegio de
// usuarios no cambia roles ni grupos (eso le daría privilegios) ni toca cuentas de gerentes.
func mayUpdateUser(sess *auth.Session, current *dto.UserResponse, in dto.UpdateUserRequest) bool {
	roleChange := in.Role != nil && *in.Role != current.Role
	if roleChange && sess.User().ID == current.ID {
		return false
	}
	if canAssignRoles(sess) {
		return true
	}
	groupChange := in.GroupID != nil && strings.TrimSpace(*in.GroupID) != current.GroupID
	return !roleChange && !groupChange && current.Role != entity.RoleManager
}
