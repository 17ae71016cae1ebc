package repository

import (
	"context"

	"github.com/jhoicas/pos-backoffice/internal/domain/entity"
)

// GroupRepository define el puerto de persistencia para grupos y sus privilegios asignados.
type GroupRepository interface {
	LoadGroups(ctx context.Context, businessID string) ([]*entity.Group, error)
	SaveGroups(ctx context.Context, businessID string, groups []*entity.Group) error
	LoadGroupPrivileges(ctx context.Context, businessID string) ([]entity.GroupPrivilege, error)
	SaveGroupPrivileges(ctx context.Context, businessID string, grants []entity.GroupPrivilege) error
}
