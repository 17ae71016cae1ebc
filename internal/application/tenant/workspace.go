// Package tenant mantiene en memoria los datos cargados de cada negocio (usuarios, grupos y privilegios
// asignados) y canaliza toda mutación por un único escritor que relee, modifica y persiste dentro de la
// transacción del negocio. El listado de negocios (BusinessBook) siempre se lee del repositorio.
package tenant

import (
	"context"
	"fmt"
	"sync"

	"github.com/jhoicas/pos-backoffice/internal/domain/entity"
	"github.com/jhoicas/pos-backoffice/internal/domain/privilege"
	"github.com/jhoicas/pos-backoffice/internal/domain/repository"
)

// Scope indica qué listas escribe una mutación.
type Scope uint8

const (
	ScopeUsers Scope = 1 << iota
	ScopeGroups
	ScopeGrants

	ScopeAll = ScopeUsers | ScopeGroups | ScopeGrants
)

// State datos de un negocio que una mutación puede modificar (copia de trabajo).
type State struct {
	Users  []*entity.User
	Groups []*entity.Group
	Grants []entity.GroupPrivilege
}

func (s *State) clone() *State {
	out := &State{
		Users:  make([]*entity.User, 0, len(s.Users)),
		Groups: make([]*entity.Group, 0, len(s.Groups)),
		Grants: append([]entity.GroupPrivilege(nil), s.Grants...),
	}
	for _, u := range s.Users {
		out.Users = append(out.Users, u.Clone())
	}
	for _, g := range s.Groups {
		out.Groups = append(out.Groups, g.Clone())
	}
	return out
}

// Workspace datos cargados de un negocio.
type Workspace struct {
	mu         sync.RWMutex
	businessID string
	state      *State
	tx         repository.TenantTxRunner
}

// BusinessID negocio al que pertenece el workspace.
func (w *Workspace) BusinessID() string { return w.businessID }

// Users devuelve copias de los usuarios del negocio.
func (w *Workspace) Users() []*entity.User {
	w.mu.RLock()
	defer w.mu.RUnlock()
	out := make([]*entity.User, 0, len(w.state.Users))
	for _, u := range w.state.Users {
		out = append(out, u.Clone())
	}
	return out
}

// User busca un usuario por ID. nil si no existe.
func (w *Workspace) User(id string) *entity.User {
	w.mu.RLock()
	defer w.mu.RUnlock()
	for _, u := range w.state.Users {
		if u.ID == id {
			return u.Clone()
		}
	}
	return nil
}

// UserByUsername busca sin distinguir mayúsculas. nil si no existe.
func (w *Workspace) UserByUsername(username string) *entity.User {
	w.mu.RLock()
	defer w.mu.RUnlock()
	for _, u := range w.state.Users {
		if entity.SameName(u.Username, username) {
			return u.Clone()
		}
	}
	return nil
}

// Groups devuelve copias de los grupos del negocio.
func (w *Workspace) Groups() []*entity.Group {
	w.mu.RLock()
	defer w.mu.RUnlock()
	out := make([]*entity.Group, 0, len(w.state.Groups))
	for _, g := range w.state.Groups {
		out = append(out, g.Clone())
	}
	return out
}

// Group busca un grupo por ID. nil si no existe.
func (w *Workspace) Group(id string) *entity.Group {
	w.mu.RLock()
	defer w.mu.RUnlock()
	for _, g := range w.state.Groups {
		if g.ID == id {
			return g.Clone()
		}
	}
	return nil
}

// GroupPrivileges privilegios asignados al grupo (vacío si no tiene o no existe).
func (w *Workspace) GroupPrivileges(groupID string) privilege.Set {
	w.mu.RLock()
	defer w.mu.RUnlock()
	set := privilege.NewSet()
	for _, gp := range w.state.Grants {
		if gp.GroupID == groupID {
			set[gp.PrivilegeID] = struct{}{}
		}
	}
	return set
}

// Mutate relee el estado dentro de la transacción del negocio, aplica fn sobre él y lo persiste en esa
// misma transacción. Solo si confirma se publica en memoria; así una instancia con datos viejos nunca
// pisa lo que escribió otra. Un error de fn se devuelve tal cual y no cambia nada.
func (w *Workspace) Mutate(ctx context.Context, scope Scope, fn func(st *State) error) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	var (
		next  *State
		fnErr error
	)
	err := w.tx.RunTenant(ctx, w.businessID, func(users repository.UserRepository, groups repository.GroupRepository) error {
		fresh, err := loadState(ctx, w.businessID, users, groups)
		if err != nil {
			return err
		}
		if fnErr = fn(fresh); fnErr != nil {
			return fnErr
		}
		if scope&ScopeUsers != 0 {
			if err := users.SaveUsers(ctx, w.businessID, fresh.Users); err != nil {
				return err
			}
		}
		if scope&ScopeGroups != 0 {
			if err := groups.SaveGroups(ctx, w.businessID, fresh.Groups); err != nil {
				return err
			}
		}
		if scope&ScopeGrants != 0 {
			if err := groups.SaveGroupPrivileges(ctx, w.businessID, fresh.Grants); err != nil {
				return err
			}
		}
		next = fresh
		return nil
	})
	if fnErr != nil {
		return fnErr
	}
	if err != nil {
		return fmt.Errorf("persistir negocio %s: %w", w.businessID, err)
	}
	w.state = next.clone()
	return nil
}

func loadState(ctx context.Context, businessID string, users repository.UserRepository, groups repository.GroupRepository) (*State, error) {
	us, err := users.LoadUsers(ctx, businessID)
	if err != nil {
		return nil, fmt.Errorf("cargar usuarios de %s: %w", businessID, err)
	}
	gs, err := groups.LoadGroups(ctx, businessID)
	if err != nil {
		return nil, fmt.Errorf("cargar grupos de %s: %w", businessID, err)
	}
	grants, err := groups.LoadGroupPrivileges(ctx, businessID)
	if err != nil {
		return nil, fmt.Errorf("cargar privilegios de %s: %w", businessID, err)
	}
	return &State{Users: us, Groups: gs, Grants: grants}, nil
}
