package usecase

import (
	"context"
	"fmt"
	"strings"

	"github.com/rs/zerolog"

	"github.com/jhoicas/pos-backoffice/internal/application/dto"
	"github.com/jhoicas/pos-backoffice/internal/application/tenant"
	"github.com/jhoicas/pos-backoffice/internal/domain"
	"github.com/jhoicas/pos-backoffice/internal/domain/entity"
	"github.com/jhoicas/pos-backoffice/internal/domain/privilege"
	"github.com/jhoicas/pos-backoffice/pkg/idgen"
)

// GroupUseCase grupos de un negocio y los privilegios asignados a cada uno.
// Es el único punto que resuelve qué puede hacer un usuario.
type GroupUseCase struct {
	clock
	tenants *tenant.Registry
	log     zerolog.Logger
}

// NewGroupUseCase construye el caso de uso sobre el registro de negocios cargados.
func NewGroupUseCase(tenants *tenant.Registry, log zerolog.Logger) *GroupUseCase {
	return &GroupUseCase{tenants: tenants, log: log}
}

// CreateGroup crea un grupo. Devuelve domain.ErrDuplicateName si el nombre ya existe en el negocio
// (sin distinguir mayúsculas).
func (uc *GroupUseCase) CreateGroup(ctx context.Context, businessID string, in dto.CreateGroupRequest) (*dto.GroupResponse, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return nil, fmt.Errorf("%w: el nombre del grupo es obligatorio", domain.ErrInvalidInput)
	}
	ws, err := uc.tenants.Open(ctx, businessID)
	if err != nil {
		return nil, err
	}
	now := uc.Now()
	group := &entity.Group{
		ID:          idgen.New(idgen.PrefixGroup),
		BusinessID:  businessID,
		Name:        name,
		Description: strings.TrimSpace(in.Description),
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	err = ws.Mutate(ctx, tenant.ScopeGroups, func(st *tenant.State) error {
		if nameTaken(st.Groups, name, "") {
			return domain.ErrDuplicateName
		}
		st.Groups = append(st.Groups, group)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return entityToGroupResponse(group, privilege.NewSet()), nil
}

// UpdateGroup renombra o cambia la descripción de un grupo.
func (uc *GroupUseCase) UpdateGroup(ctx context.Context, businessID, groupID string, in dto.UpdateGroupRequest) (*dto.GroupResponse, error) {
	ws, err := uc.tenants.Open(ctx, businessID)
	if err != nil {
		return nil, err
	}
	var updated *entity.Group
	err = ws.Mutate(ctx, tenant.ScopeGroups, func(st *tenant.State) error {
		g := findGroup(st.Groups, groupID)
		if g == nil {
			return domain.ErrNotFound
		}
		if in.Name != nil {
			name := strings.TrimSpace(*in.Name)
			if name == "" {
				return fmt.Errorf("%w: el nombre del grupo es obligatorio", domain.ErrInvalidInput)
			}
			if nameTaken(st.Groups, name, groupID) {
				return domain.ErrDuplicateName
			}
			g.Name = name
		}
		if in.Description != nil {
			g.Description = strings.TrimSpace(*in.Description)
		}
		g.UpdatedAt = uc.Now()
		updated = g.Clone()
		return nil
	})
	if err != nil {
		return nil, err
	}
	return entityToGroupResponse(updated, ws.GroupPrivileges(groupID)), nil
}

// DeleteGroup elimina el grupo y todos sus privilegios en una sola escritura.
// Devuelve domain.ErrGroupInUse si algún usuario del negocio lo referencia.
func (uc *GroupUseCase) DeleteGroup(ctx context.Context, businessID, groupID string, confirm Confirmer) error {
	ws, err := uc.tenants.Open(ctx, businessID)
	if err != nil {
		return err
	}
	g := ws.Group(groupID)
	if g == nil {
		return domain.ErrNotFound
	}
	if groupReferenced(ws.Users(), groupID) {
		return domain.ErrGroupInUse
	}
	if err := Confirmed(ctx, confirm, "eliminar grupo "+g.Name); err != nil {
		return err
	}

	err = ws.Mutate(ctx, tenant.ScopeGroups|tenant.ScopeGrants, func(st *tenant.State) error {
		// revalidar: pudo cambiar mientras se pedía confirmación
		if findGroup(st.Groups, groupID) == nil {
			return domain.ErrNotFound
		}
		if groupReferenced(st.Users, groupID) {
			return domain.ErrGroupInUse
		}
		groups := st.Groups[:0]
		for _, x := range st.Groups {
			if x.ID != groupID {
				groups = append(groups, x)
			}
		}
		st.Groups = groups
		st.Grants = withoutGroupGrants(st.Grants, groupID)
		return nil
	})
	if err != nil {
		return err
	}
	uc.log.Info().Str("business_id", businessID).Str("group_id", groupID).Msg("grupo eliminado")
	return nil
}

// SetGroupPrivileges reemplaza el conjunto completo de privilegios del grupo. Es idempotente.
func (uc *GroupUseCase) SetGroupPrivileges(ctx context.Context, businessID, groupID string, privilegeIDs []string) (*dto.GroupResponse, error) {
	set := privilege.NewSet()
	for _, id := range privilegeIDs {
		id = strings.TrimSpace(id)
		if !privilege.Exists(id) {
			return nil, fmt.Errorf("%w: privilegio desconocido %q", domain.ErrInvalidInput, id)
		}
		set[id] = struct{}{}
	}
	ws, err := uc.tenants.Open(ctx, businessID)
	if err != nil {
		return nil, err
	}
	var group *entity.Group
	err = ws.Mutate(ctx, tenant.ScopeGrants, func(st *tenant.State) error {
		g := findGroup(st.Groups, groupID)
		if g == nil {
			return domain.ErrNotFound
		}
		group = g.Clone()
		st.Grants = withoutGroupGrants(st.Grants, groupID)
		for _, id := range set.Slice() {
			st.Grants = append(st.Grants, entity.GroupPrivilege{GroupID: groupID, PrivilegeID: id, BusinessID: businessID})
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return entityToGroupResponse(group, set), nil
}

// ListGroups grupos del negocio con sus privilegios.
func (uc *GroupUseCase) ListGroups(ctx context.Context, businessID string) ([]dto.GroupResponse, error) {
	ws, err := uc.tenants.Open(ctx, businessID)
	if err != nil {
		return nil, err
	}
	groups := ws.Groups()
	out := make([]dto.GroupResponse, 0, len(groups))
	for _, g := range groups {
		out = append(out, *entityToGroupResponse(g, ws.GroupPrivileges(g.ID)))
	}
	return out, nil
}

// GroupPrivileges privilegios asignados a un grupo.
func (uc *GroupUseCase) GroupPrivileges(ctx context.Context, businessID, groupID string) (privilege.Set, error) {
	ws, err := uc.tenants.Open(ctx, businessID)
	if err != nil {
		return nil, err
	}
	if ws.Group(groupID) == nil {
		return nil, domain.ErrNotFound
	}
	return ws.GroupPrivileges(groupID), nil
}

// ResolvePrivileges conjunto de privilegios efectivo del usuario: todos para el super-admin,
// vacío sin grupo, y los del grupo en otro caso.
func (uc *GroupUseCase) ResolvePrivileges(ctx context.Context, user *entity.User) (privilege.Set, error) {
	if user == nil {
		return privilege.NewSet(), nil
	}
	if user.SuperAdmin {
		return privilege.All(), nil
	}
	if user.GroupID == "" {
		return privilege.NewSet(), nil
	}
	ws, err := uc.tenants.Open(ctx, user.BusinessID)
	if err != nil {
		return nil, err
	}
	return ws.GroupPrivileges(user.GroupID), nil
}

func findGroup(groups []*entity.Group, id string) *entity.Group {
	for _, g := range groups {
		if g.ID == id {
			return g
		}
	}
	return nil
}

func nameTaken(groups []*entity.Group, name, exceptID string) bool {
	for _, g := range groups {
		if g.ID != exceptID && entity.SameName(g.Name, name) {
			return true
		}
	}
	return false
}

func groupReferenced(users []*entity.User, groupID string) bool {
	for _, u := range users {
		if u.GroupID == groupID {
			return true
		}
	}
	return false
}

func withoutGroupGrants(grants []entity.GroupPrivilege, groupID string) []entity.GroupPrivilege {
	out := make([]entity.GroupPrivilege, 0, len(grants))
	for _, gp := range grants {
		if gp.GroupID != groupID {
			out = append(out, gp)
		}
	}
	return out
}
