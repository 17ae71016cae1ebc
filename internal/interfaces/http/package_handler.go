package http

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/pos-backoffice/internal/application/dto"
	"github.com/jhoicas/pos-backoffice/internal/application/usecase"
)

// PackageHandler catálogo de paquetes de suscripción.
type PackageHandler struct {
	uc *usecase.PackageUseCase
}

// NewPackageHandler construye el handler.
func NewPackageHandler(uc *usecase.PackageUseCase) *PackageHandler {
	return &PackageHandler{uc: uc}
}

// List godoc
// @Summary      Listar paquetes
// @Tags         packages
// @Produce      json
// @Success      200  {array}  dto.PackageResponse
// @Router       /api/packages [get]
func (h *PackageHandler) List(c *fiber.Ctx) error {
	out, err := h.uc.ListPackages(c.UserContext())
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// GetByID godoc
// @Summary      Obtener paquete
// @Tags         packages
// @Produce      json
// @Param        id   path  string  true  "ID del paquete (SUB-001)"
// @Success      200  {object}  dto.PackageResponse
// @Router       /api/packages/{id} [get]
func (h *PackageHandler) GetByID(c *fiber.Ctx) error {
	out, err := h.uc.GetPackage(c.UserContext(), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// Create godoc
// @Summary      Crear paquete
// @Tags         packages
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreatePackageRequest  true  "Datos del paquete"
// @Success      201   {object}  dto.PackageResponse
// @Router       /api/packages [post]
func (h *PackageHandler) Create(c *fiber.Ctx) error {
	var in dto.CreatePackageRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	if strings.TrimSpace(in.Name) == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "name es requerido"})
	}
	out, err := h.uc.CreatePackage(c.UserContext(), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// Update godoc
// @Summary      Actualizar paquete
// @Tags         packages
// @Accept       json
// @Produce      json
// @Param        id    path  string                    true  "ID del paquete"
// @Param        body  body  dto.UpdatePackageRequest  true  "campos a cambiar"
// @Success      200   {object}  dto.PackageResponse
// @Router       /api/packages/{id} [put]
func (h *PackageHandler) Update(c *fiber.Ctx) error {
	var in dto.UpdatePackageRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	out, err := h.uc.UpdatePackage(c.UserContext(), c.Params("id"), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// Delete godoc
// @Summary      Eliminar paquete
// @Tags         packages
// @Param        id       path   string  true   "ID del paquete"
// @Param        confirm  query  bool    false  "confirmación"
// @Success      204
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/packages/{id} [delete]
func (h *PackageHandler) Delete(c *fiber.Ctx) error {
	if err := h.uc.DeletePackage(c.UserContext(), c.Params("id"), confirmer(c)); err != nil {
		return respondError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}
