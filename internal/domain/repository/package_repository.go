package repository

import (
	"context"

	"github.com/jhoicas/pos-backoffice/internal/domain/entity"
)

// PackageRepository define el puerto de persistencia para el catálogo de paquetes de suscripción.
type PackageRepository interface {
	LoadPackages(ctx context.Context) ([]*entity.SubscriptionPackage, error)
	SavePackages(ctx context.Context, packages []*entity.SubscriptionPackage) error
}
