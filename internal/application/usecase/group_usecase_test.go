package usecase_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/pos-backoffice/internal/application/dto"
	"github.com/jhoicas/pos-backoffice/internal/application/usecase"
	"github.com/jhoicas/pos-backoffice/internal/domain"
	"github.com/jhoicas/pos-backoffice/internal/domain/entity"
	"github.com/jhoicas/pos-backoffice/internal/domain/privilege"
	"github.com/jhoicas/pos-backoffice/internal/infrastructure/memory"
)

// ──────────────────────────────────────────────────────────────────────────────
// CreateGroup / UpdateGroup
// ──────────────────────────────────────────────────────────────────────────────

func TestCreateGroup_NombreDuplicadoSinDistinguirMayusculas(t *testing.T) {
	ctx := context.Background()
	f := newTenantFixture(t)
	f.mustGroup(t, "biz-1", "Cajeros")

	_, err := f.groups.CreateGroup(ctx, "biz-1", dto.CreateGroupRequest{Name: "CAJEROS"})
	assert.ErrorIs(t, err, domain.ErrDuplicateName)

	_, err = f.groups.CreateGroup(ctx, "biz-2", dto.CreateGroupRequest{Name: "CAJEROS"})
	assert.NoError(t, err, "el mismo nombre en otro negocio es válido")
}

func TestCreateGroup_NombreVacio(t *testing.T) {
	f := newTenantFixture(t)
	_, err := f.groups.CreateGroup(context.Background(), "biz-1", dto.CreateGroupRequest{Name: "   "})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestUpdateGroup_RenombrarAOtroExistente(t *testing.T) {
	ctx := context.Background()
	f := newTenantFixture(t)
	f.mustGroup(t, "biz-1", "Cajeros")
	g := f.mustGroup(t, "biz-1", "Bodega")

	name := "cajeros"
	_, err := f.groups.UpdateGroup(ctx, "biz-1", g.ID, dto.UpdateGroupRequest{Name: &name})
	assert.ErrorIs(t, err, domain.ErrDuplicateName)

	same := "BODEGA"
	desc := "inventario"
	out, err := f.groups.UpdateGroup(ctx, "biz-1", g.ID, dto.UpdateGroupRequest{Name: &same, Description: &desc})
	require.NoError(t, err, "renombrarse a sí mismo cambiando mayúsculas es válido")
	assert.Equal(t, "BODEGA", out.Name)
	assert.Equal(t, "inventario", out.Description)
}

// ──────────────────────────────────────────────────────────────────────────────
// SetGroupPrivileges / ResolvePrivileges
// ──────────────────────────────────────────────────────────────────────────────

func TestSetGroupPrivileges_RoundTripEIdempotente(t *testing.T) {
	ctx := context.Background()
	f := newTenantFixture(t)
	g := f.mustGroup(t, "biz-1", "Cajeros")
	u := f.mustUser(t, "biz-1", "ana", entity.RoleSeller, g.ID)
	want := privilege.NewSet(privilege.SalesPOS, privilege.InventoryView)

	for i := 0; i < 2; i++ {
		_, err := f.groups.SetGroupPrivileges(ctx, "biz-1", g.ID, []string{privilege.SalesPOS, privilege.InventoryView})
		require.NoError(t, err)

		got, err := f.groups.ResolvePrivileges(ctx, f.userEntity(t, "biz-1", u.ID))
		require.NoError(t, err)
		assert.True(t, want.Equal(got), "iteración %d: %v", i, got.Slice())
	}
	grants, _ := f.store.LoadGroupPrivileges(ctx, "biz-1")
	assert.Len(t, grants, 2, "sin tripletas duplicadas")
}

func TestSetGroupPrivileges_ReemplazaNoAcumula(t *testing.T) {
	ctx := context.Background()
	f := newTenantFixture(t)
	g := f.mustGroup(t, "biz-1", "Cajeros")

	_, err := f.groups.SetGroupPrivileges(ctx, "biz-1", g.ID, []string{privilege.SalesPOS, privilege.SalesReturns})
	require.NoError(t, err)
	out, err := f.groups.SetGroupPrivileges(ctx, "biz-1", g.ID, []string{privilege.InventoryView})
	require.NoError(t, err)
	assert.Equal(t, []string{privilege.InventoryView}, out.Privileges)

	set, err := f.groups.GroupPrivileges(ctx, "biz-1", g.ID)
	require.NoError(t, err)
	assert.True(t, privilege.NewSet(privilege.InventoryView).Equal(set))
}

func TestSetGroupPrivileges_Errores(t *testing.T) {
	ctx := context.Background()
	f := newTenantFixture(t)
	g := f.mustGroup(t, "biz-1", "Cajeros")

	_, err := f.groups.SetGroupPrivileges(ctx, "biz-1", g.ID, []string{"no.existe"})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = f.groups.SetGroupPrivileges(ctx, "biz-1", "grp-x", []string{privilege.SalesPOS})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestResolvePrivileges_SinGrupoYSuperAdmin(t *testing.T) {
	ctx := context.Background()
	f := newTenantFixture(t)
	u := f.mustUser(t, "biz-1", "ana", entity.RoleSeller, "")

	got, err := f.groups.ResolvePrivileges(ctx, f.userEntity(t, "biz-1", u.ID))
	require.NoError(t, err)
	assert.Empty(t, got)

	all, err := f.groups.ResolvePrivileges(ctx, &entity.User{ID: "root", Username: "admin", SuperAdmin: true})
	require.NoError(t, err)
	assert.True(t, privilege.All().Equal(all))
}

// ──────────────────────────────────────────────────────────────────────────────
// DeleteGroup
// ──────────────────────────────────────────────────────────────────────────────

func TestDeleteGroup_EnUso(t *testing.T) {
	ctx := context.Background()
	f := newTenantFixture(t)
	g := f.mustGroup(t, "biz-1", "Cajeros")
	f.mustUser(t, "biz-1", "ana", entity.RoleSeller, g.ID)

	err := f.groups.DeleteGroup(ctx, "biz-1", g.ID, usecase.AlwaysConfirm)
	assert.ErrorIs(t, err, domain.ErrGroupInUse)
}

func TestDeleteGroup_EliminaPrivilegiosYUsuarioQuedaSinPermisos(t *testing.T) {
	ctx := context.Background()
	f := newTenantFixture(t)
	g := f.mustGroup(t, "biz-1", "Cajeros")
	_, err := f.groups.SetGroupPrivileges(ctx, "biz-1", g.ID, []string{privilege.SalesPOS})
	require.NoError(t, err)
	u := f.mustUser(t, "biz-1", "ana", entity.RoleSeller, g.ID)

	empty := ""
	_, err = f.users.UpdateUser(ctx, "biz-1", u.ID, dto.UpdateUserRequest{GroupID: &empty})
	require.NoError(t, err)

	require.NoError(t, f.groups.DeleteGroup(ctx, "biz-1", g.ID, usecase.AlwaysConfirm))

	groups, _ := f.store.LoadGroups(ctx, "biz-1")
	grants, _ := f.store.LoadGroupPrivileges(ctx, "biz-1")
	assert.Empty(t, groups)
	assert.Empty(t, grants)

	got, err := f.groups.ResolvePrivileges(ctx, f.userEntity(t, "biz-1", u.ID))
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestDeleteGroup_ConfirmacionRechazada(t *testing.T) {
	ctx := context.Background()
	f := newTenantFixture(t)
	g := f.mustGroup(t, "biz-1", "Cajeros")

	assert.ErrorIs(t, f.groups.DeleteGroup(ctx, "biz-1", g.ID, usecase.NeverConfirm), domain.ErrCancelled)
	assert.ErrorIs(t, f.groups.DeleteGroup(ctx, "biz-1", g.ID, nil), domain.ErrCancelled)

	var asked string
	confirm := usecase.ConfirmFunc(func(_ context.Context, action string) bool {
		asked = action
		return false
	})
	_ = f.groups.DeleteGroup(ctx, "biz-1", g.ID, confirm)
	assert.Contains(t, asked, "Cajeros")

	list, err := f.groups.ListGroups(ctx, "biz-1")
	require.NoError(t, err)
	assert.Len(t, list, 1)
}

func TestDeleteGroup_FalloDePersistenciaNoDejaEstadoParcial(t *testing.T) {
	ctx := context.Background()
	f := newTenantFixture(t)
	g := f.mustGroup(t, "biz-1", "Cajeros")
	_, err := f.groups.SetGroupPrivileges(ctx, "biz-1", g.ID, []string{privilege.SalesPOS})
	require.NoError(t, err)

	f.store.FailOn(memory.OpSaveGrants, errDisk)
	err = f.groups.DeleteGroup(ctx, "biz-1", g.ID, usecase.AlwaysConfirm)
	require.ErrorIs(t, err, errDisk)
	f.store.ClearFailures()

	list, err := f.groups.ListGroups(ctx, "biz-1")
	require.NoError(t, err)
	require.Len(t, list, 1, "el grupo sigue en memoria")
	assert.Equal(t, []string{privilege.SalesPOS}, list[0].Privileges)

	groups, _ := f.store.LoadGroups(ctx, "biz-1")
	grants, _ := f.store.LoadGroupPrivileges(ctx, "biz-1")
	assert.Len(t, groups, 1)
	assert.Len(t, grants, 1)
}

func TestGruposYUsuarios_NegocioInexistente(t *testing.T) {
	ctx := context.Background()
	f := newTenantFixture(t)

	_, err := f.groups.CreateGroup(ctx, "biz-x", dto.CreateGroupRequest{Name: "Caja"})
	assert.ErrorIs(t, err, domain.ErrNotFound)

	_, err = f.users.CreateUser(ctx, "biz-x", dto.CreateUserRequest{Username: "ana", Password: "clave"})
	assert.ErrorIs(t, err, domain.ErrNotFound)

	users, _ := f.store.LoadUsers(ctx, "biz-x")
	assert.Empty(t, users, "no se crean datos para un negocio que no existe")
}
