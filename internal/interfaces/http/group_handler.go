package http

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/pos-backoffice/internal/application/dto"
	"github.com/jhoicas/pos-backoffice/internal/application/usecase"
)

// GroupHandler grupos de privilegios del negocio de la sesión.
type GroupHandler struct {
	uc *usecase.GroupUseCase
}

// NewGroupHandler construye el handler.
func NewGroupHandler(uc *usecase.GroupUseCase) *GroupHandler {
	return &GroupHandler{uc: uc}
}

// Catalog godoc
// @Summary      Catálogo de privilegios por categoría
// @Tags         groups
// @Produce      json
// @Success      200  {array}  dto.PrivilegeCategoryResponse
// @Router       /api/privileges [get]
func (h *GroupHandler) Catalog(c *fiber.Ctx) error {
	return c.JSON(usecase.PrivilegeCatalog())
}

// List godoc
// @Summary      Listar grupos
// @Tags         groups
// @Produce      json
// @Success      200  {array}  dto.GroupResponse
// @Router       /api/groups [get]
func (h *GroupHandler) List(c *fiber.Ctx) error {
	out, err := h.uc.ListGroups(c.UserContext(), GetSession(c).BusinessID())
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// Create godoc
// @Summary      Crear grupo
// @Tags         groups
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateGroupRequest  true  "name, description"
// @Success      201   {object}  dto.GroupResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/groups [post]
func (h *GroupHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateGroupRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	if strings.TrimSpace(in.Name) == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "name es requerido"})
	}
	out, err := h.uc.CreateGroup(c.UserContext(), GetSession(c).BusinessID(), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// Update godoc
// @Summary      Actualizar grupo
// @Tags         groups
// @Accept       json
// @Produce      json
// @Param        id    path  string                  true  "ID del grupo"
// @Param        body  body  dto.UpdateGroupRequest  true  "campos a cambiar"
// @Success      200   {object}  dto.GroupResponse
// @Router       /api/groups/{id} [put]
func (h *GroupHandler) Update(c *fiber.Ctx) error {
	var in dto.UpdateGroupRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	out, err := h.uc.UpdateGroup(c.UserContext(), GetSession(c).BusinessID(), c.Params("id"), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// SetPrivileges godoc
// @Summary      Reemplazar privilegios del grupo
// @Tags         groups
// @Accept       json
// @Produce      json
// @Param        id    path  string                         true  "ID del grupo"
// @Param        body  body  dto.SetGroupPrivilegesRequest  true  "privilege_ids"
// @Success      200   {object}  dto.GroupResponse
// @Router       /api/groups/{id}/privileges [put]
func (h *GroupHandler) SetPrivileges(c *fiber.Ctx) error {
	var in dto.SetGroupPrivilegesRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	out, err := h.uc.SetGroupPrivileges(c.UserContext(), GetSession(c).BusinessID(), c.Params("id"), in.PrivilegeIDs)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// Delete godoc
// @Summary      Eliminar grupo
// @Tags         groups
// @Param        id       path   string  true   "ID del grupo"
// @Param        confirm  query  bool    false  "confirmación"
// @Success      204
// @Failure      409  {object}  dto.ErrorResponse
// @Failure      428  {object}  dto.ErrorResponse
// @Router       /api/groups/{id} [delete]
func (h *GroupHandler) Delete(c *fiber.Ctx) error {
	if err := h.uc.DeleteGroup(c.UserContext(), GetSession(c).BusinessID(), c.Params("id"), confirmer(c)); err != nil {
		return respondError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}
