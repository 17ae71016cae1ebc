package repository

import (
	"context"

	"github.com/jhoicas/pos-backoffice/internal/domain/entity"
)

// UserRepository define el puerto de persistencia para los usuarios de un negocio (DIP).
// Se guarda la lista completa del negocio; una carga sin datos previos devuelve lista vacía, no error.
type UserRepository interface {
	LoadUsers(ctx context.Context, businessID string) ([]*entity.User, error)
	SaveUsers(ctx context.Context, businessID string, users []*entity.User) error
}
