package memory

import (
	"context"
	"fmt"

	"github.com/jhoicas/pos-backoffice/internal/domain/entity"
	"github.com/jhoicas/pos-backoffice/internal/domain/repository"
)

// RunTenant ejecuta fn sobre una copia de los datos del negocio y la confirma solo si fn no falla.
// El store queda bloqueado durante fn: fn debe usar los repositorios recibidos, no el Store.
func (s *Store) RunTenant(ctx context.Context, businessID string, fn func(users repository.UserRepository, groups repository.GroupRepository) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	tx := &tenantTx{
		store:      s,
		businessID: businessID,
		users:      cloneUsers(s.users[businessID]),
		groups:     cloneGroups(s.groups[businessID]),
		grants:     cloneGrants(s.grants[businessID]),
	}
	if err := fn(tx, tx); err != nil {
		return err
	}
	s.users[businessID] = tx.users
	s.groups[businessID] = tx.groups
	s.grants[businessID] = tx.grants
	return nil
}

// tenantTx implementa los repositorios de un negocio sobre datos preparados (staged).
type tenantTx struct {
	store      *Store
	businessID string
	users      []*entity.User
	groups     []*entity.Group
	grants     []entity.GroupPrivilege
}

func (tx *tenantTx) scope(businessID string) error {
	if businessID != tx.businessID {
		return fmt.Errorf("memory tx: negocio %q fuera de la transacción de %q", businessID, tx.businessID)
	}
	return nil
}

func (tx *tenantTx) LoadUsers(_ context.Context, businessID string) ([]*entity.User, error) {
	if err := tx.scope(businessID); err != nil {
		return nil, err
	}
	if err := tx.store.fail(OpLoadUsers); err != nil {
		return nil, err
	}
	return cloneUsers(tx.users), nil
}

func (tx *tenantTx) SaveUsers(_ context.Context, businessID string, users []*entity.User) error {
	if err := tx.scope(businessID); err != nil {
		return err
	}
	if err := tx.store.fail(OpSaveUsers); err != nil {
		return err
	}
	tx.users = cloneUsers(users)
	return nil
}

func (tx *tenantTx) LoadGroups(_ context.Context, businessID string) ([]*entity.Group, error) {
	if err := tx.scope(businessID); err != nil {
		return nil, err
	}
	if err := tx.store.fail(OpLoadGroups); err != nil {
		return nil, err
	}
	return cloneGroups(tx.groups), nil
}

func (tx *tenantTx) SaveGroups(_ context.Context, businessID string, groups []*entity.Group) error {
	if err := tx.scope(businessID); err != nil {
		return err
	}
	if err := tx.store.fail(OpSaveGroups); err != nil {
		return err
	}
	tx.groups = cloneGroups(groups)
	return nil
}

func (tx *tenantTx) LoadGroupPrivileges(_ context.Context, businessID string) ([]entity.GroupPrivilege, error) {
	if err := tx.scope(businessID); err != nil {
		return nil, err
	}
	if err := tx.store.fail(OpLoadGrants); err != nil {
		return nil, err
	}
	return cloneGrants(tx.grants), nil
}

func (tx *tenantTx) SaveGroupPrivileges(_ context.Context, businessID string, grants []entity.GroupPrivilege) error {
	if err := tx.scope(businessID); err != nil {
		return err
	}
	if err := tx.store.fail(OpSaveGrants); err != nil {
		return err
	}
	tx.grants = cloneGrants(grants)
	return nil
}
