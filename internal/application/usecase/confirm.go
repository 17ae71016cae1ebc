package usecase

import (
	"context"

	"github.com/jhoicas/pos-backoffice/internal/domain"
)

// Confirmer pregunta sí/no antes de confirmar una operación destructiva.
type Confirmer interface {
	Confirm(ctx context.Context, action string) bool
}

// ConfirmFunc adapta una función a Confirmer.
type ConfirmFunc func(ctx context.Context, action string) bool

// Confirm implementa Confirmer.
func (f ConfirmFunc) Confirm(ctx context.Context, action string) bool { return f(ctx, action) }

// AlwaysConfirm acepta todo (p. ej. ?confirm=true en HTTP).
var AlwaysConfirm Confirmer = ConfirmFunc(func(context.Context, string) bool { return true })

// NeverConfirm rechaza todo.
var NeverConfirm Confirmer = ConfirmFunc(func(context.Context, string) bool { return false })

// Confirmed devuelve domain.ErrCancelled si no hay confirmador o si responde que no.
func Confirmed(ctx context.Context, c Confirmer, action string) error {
	if c == nil || !c.Confirm(ctx, action) {
		return domain.ErrCancelled
	}
	return nil
}
