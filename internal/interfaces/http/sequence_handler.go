package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/pos-backoffice/internal/application/dto"
	"github.com/jhoicas/pos-backoffice/internal/application/usecase"
	"github.com/jhoicas/pos-backoffice/internal/domain"
	"github.com/jhoicas/pos-backoffice/internal/domain/entity"
	"github.com/jhoicas/pos-backoffice/internal/domain/privilege"
)

// SequenceHandler consecutivos de documentos y año fiscal del negocio de la sesión.
type SequenceHandler struct {
	ledger *usecase.SequenceLedger
	authz  privilegeAuthorizer
	views  viewChecker
}

// NewSequenceHandler construye el handler.
func NewSequenceHandler(ledger *usecase.SequenceLedger, authz privilegeAuthorizer, views viewChecker) *SequenceHandler {
	return &SequenceHandler{ledger: ledger, authz: authz, views: views}
}

// State godoc
// @Summary      Año fiscal y próximos consecutivos
// @Tags         sequences
// @Produce      json
// @Success      200  {object}  dto.SequenceStateResponse
// @Router       /api/sequences [get]
func (h *SequenceHandler) State(c *fiber.Ctx) error {
	out, err := h.ledger.State(c.UserContext(), GetSession(c).BusinessID())
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// Next godoc
// @Summary      Emitir el siguiente consecutivo
// @Description  Exige el privilegio del tipo de documento y que el paquete del negocio lo habilite.
// @Tags         sequences
// @Produce      json
// @Param        counter  path  string  true  "invoice, purchase_invoice, credit_note, ..."
// @Success      201  {object}  dto.SequenceResponse
// @Failure      403  {object}  dto.ErrorResponse
// @Failure      422  {object}  dto.ErrorResponse
// @Router       /api/sequences/{counter}/next [post]
func (h *SequenceHandler) Next(c *fiber.Ctx) error {
	counter := entity.Counter(c.Params("counter"))
	privID, ok := privilege.ForCounter(counter)
	if !ok {
		return respondError(c, domain.ErrUnknownCounter)
	}
	sess := GetSession(c)
	ctx := c.UserContext()
	if err := checkPrivilege(ctx, h.authz, sess, privID); err != nil {
		return respondError(c, err)
	}
	if !sess.IsSuperAdmin() {
		allowed, err := h.views.ViewAllowed(ctx, sess.BusinessID(), privID)
		if err != nil {
			return respondError(c, err)
		}
		if !allowed {
			return c.Status(fiber.StatusForbidden).JSON(dto.ErrorResponse{
				Code:    "VIEW_DISABLED",
				Message: "el paquete del negocio no incluye '" + privID + "'",
			})
		}
	}
	out, err := h.ledger.NextDocumentNumber(ctx, sess.BusinessID(), counter)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// OpenFiscalYear godoc
// @Summary      Abrir el siguiente año fiscal
// @Description  Reinicia todos los consecutivos en 1. Falla si el año actual aún no terminó.
// @Tags         sequences
// @Produce      json
// @Param        confirm  query  bool  false  "confirmación"
// @Success      200  {object}  dto.SequenceStateResponse
// @Failure      422  {object}  dto.ErrorResponse
// @Failure      428  {object}  dto.ErrorResponse
// @Router       /api/sequences/fiscal-year [post]
func (h *SequenceHandler) OpenFiscalYear(c *fiber.Ctx) error {
	out, err := h.ledger.OpenNewFiscalYear(c.UserContext(), GetSession(c).BusinessID(), confirmer(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}
