package http

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/pos-backoffice/internal/application/dto"
	"github.com/jhoicas/pos-backoffice/internal/application/usecase"
)

// BusinessHandler alta y administración de negocios (super-admin).
type BusinessHandler struct {
	uc *usecase.BusinessUseCase
}

// NewBusinessHandler construye el handler.
func NewBusinessHandler(uc *usecase.BusinessUseCase) *BusinessHandler {
	return &BusinessHandler{uc: uc}
}

// Create godoc
// @Summary      Crear negocio con su primer gerente
// @Tags         businesses
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateBusinessRequest  true  "Datos del negocio"
// @Success      201   {object}  dto.CreateBusinessResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      422   {object}  dto.ErrorResponse
// @Router       /api/businesses [post]
func (h *BusinessHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateBusinessRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	if strings.TrimSpace(in.Name) == "" || in.PackageID == "" || in.ManagerUsername == "" || in.ManagerPassword == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Code:    "VALIDATION",
			Message: "name, package_id, manager_username y manager_password son requeridos",
		})
	}
	out, err := h.uc.CreateBusiness(c.UserContext(), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// GetByID godoc
// @Summary      Obtener negocio
// @Tags         businesses
// @Produce      json
// @Param        id   path  string  true  "ID del negocio"
// @Success      200  {object}  dto.BusinessResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/businesses/{id} [get]
func (h *BusinessHandler) GetByID(c *fiber.Ctx) error {
	out, err := h.uc.GetBusiness(c.UserContext(), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// List godoc
// @Summary      Listar negocios
// @Tags         businesses
// @Produce      json
// @Success      200  {array}  dto.BusinessResponse
// @Router       /api/businesses [get]
func (h *BusinessHandler) List(c *fiber.Ctx) error {
	out, err := h.uc.ListBusinesses(c.UserContext())
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// Update godoc
// @Summary      Actualizar negocio
// @Tags         businesses
// @Accept       json
// @Produce      json
// @Param        id    path  string                     true  "ID del negocio"
// @Param        body  body  dto.UpdateBusinessRequest  true  "name, is_active"
// @Success      200   {object}  dto.BusinessResponse
// @Router       /api/businesses/{id} [put]
func (h *BusinessHandler) Update(c *fiber.Ctx) error {
	var in dto.UpdateBusinessRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	out, err := h.uc.UpdateBusiness(c.UserContext(), c.Params("id"), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// Delete godoc
// @Summary      Eliminar negocio con sus usuarios y grupos
// @Tags         businesses
// @Param        id       path   string  true   "ID del negocio"
// @Param        confirm  query  bool    false  "confirmación"
// @Success      204
// @Failure      428  {object}  dto.ErrorResponse
// @Router       /api/businesses/{id} [delete]
func (h *BusinessHandler) Delete(c *fiber.Ctx) error {
	if err := h.uc.DeleteBusiness(c.UserContext(), c.Params("id"), confirmer(c)); err != nil {
		return respondError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// Renew godoc
// @Summary      Renovar suscripción
// @Description  Con la suscripción vigente la renovación queda pendiente; vencida se aplica de inmediato.
// @Tags         businesses
// @Accept       json
// @Produce      json
// @Param        id    path  string                        true  "ID del negocio"
// @Param        body  body  dto.RenewSubscriptionRequest  true  "package_id"
// @Success      200   {object}  dto.BusinessResponse
// @Router       /api/businesses/{id}/renew [post]
func (h *BusinessHandler) Renew(c *fiber.Ctx) error {
	var in dto.RenewSubscriptionRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	out, err := h.uc.RenewSubscription(c.UserContext(), c.Params("id"), in.PackageID)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}
