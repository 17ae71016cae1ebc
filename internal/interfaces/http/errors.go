package http

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"

	"github.com/jhoicas/pos-backoffice/internal/application/dto"
	"github.com/jhoicas/pos-backoffice/internal/domain"
)

// errorMapping traduce un error de dominio a status HTTP y código estable para la UI.
type errorMapping struct {
	err    error
	status int
	code   string
}

var errorMappings = []errorMapping{
	{domain.ErrNotFound, fiber.StatusNotFound, "NOT_FOUND"},
	{domain.ErrInvalidInput, fiber.StatusBadRequest, "VALIDATION"},
	{domain.ErrInvalidCredentials, fiber.StatusUnauthorized, "INVALID_CREDENTIALS"},
	{domain.ErrUnauthorized, fiber.StatusUnauthorized, "UNAUTHORIZED"},
	{domain.ErrForbidden, fiber.StatusForbidden, "FORBIDDEN"},
	{domain.ErrBusinessInactiveOrMissing, fiber.StatusForbidden, "BUSINESS_INACTIVE"},

	{domain.ErrDuplicateName, fiber.StatusConflict, "DUPLICATE_NAME"},
	{domain.ErrDuplicateUsername, fiber.StatusConflict, "DUPLICATE_USERNAME"},
	{domain.ErrGroupInUse, fiber.StatusConflict, "GROUP_IN_USE"},
	{domain.ErrPackageInUse, fiber.StatusConflict, "PACKAGE_IN_USE"},

	{domain.ErrReservedUsername, fiber.StatusUnprocessableEntity, "RESERVED_USERNAME"},
	{domain.ErrLastManager, fiber.StatusUnprocessableEntity, "LAST_MANAGER"},
	{domain.ErrSelfDelete, fiber.StatusUnprocessableEntity, "SELF_DELETE"},
	{domain.ErrNoBusinessSelected, fiber.StatusUnprocessableEntity, "NO_BUSINESS_SELECTED"},
	{domain.ErrFiscalYearNotExpired, fiber.StatusUnprocessableEntity, "FISCAL_YEAR_NOT_EXPIRED"},
	{domain.ErrUnknownCounter, fiber.StatusUnprocessableEntity, "UNKNOWN_COUNTER"},

	{domain.ErrSaleInProgress, fiber.StatusPreconditionRequired, "SALE_IN_PROGRESS"},
	{domain.ErrCancelled, fiber.StatusPreconditionRequired, "CONFIRMATION_REQUIRED"},
}

// respondError escribe la respuesta de error. Lo que no es un error de dominio conocido es 500
// y se registra; el mensaje interno no se expone.
func respondError(c *fiber.Ctx, err error) error {
	for _, m := range errorMappings {
		if errors.Is(err, m.err) {
			return c.Status(m.status).JSON(dto.ErrorResponse{Code: m.code, Message: err.Error()})
		}
	}
	log.Error().Err(err).Str("method", c.Method()).Str("path", c.Path()).Msg("error interno")
	return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: "error interno"})
}

func badBody(c *fiber.Ctx) error {
	return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
}
