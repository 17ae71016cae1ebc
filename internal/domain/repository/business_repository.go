package repository

import (
	"context"

	"github.com/jhoicas/pos-backoffice/internal/domain/entity"
)

// BusinessRepository define el puerto de persistencia para el listado global de negocios.
// Se escribe negocio por negocio: ninguna escritura toca filas de otros negocios.
// GetBusiness devuelve domain.ErrNotFound si el negocio no existe.
type BusinessRepository interface {
	LoadBusinesses(ctx context.Context) ([]*entity.Business, error)
	GetBusiness(ctx context.Context, id string) (*entity.Business, error)
	SaveBusiness(ctx context.Context, business *entity.Business) error
	DeleteBusiness(ctx context.Context, id string) error
}

// BusinessTxRunner ejecuta fn en exclusión mutua sobre un negocio, también entre instancias del
// servicio, con un repositorio atado a esa transacción. Leer, modificar y guardar dentro de fn es
// atómico; si fn retorna error no queda nada persistido.
type BusinessTxRunner interface {
	RunBusiness(ctx context.Context, businessID string, fn func(repo BusinessRepository) error) error
}
