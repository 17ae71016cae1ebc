package usecase_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/pos-backoffice/internal/application/dto"
	"github.com/jhoicas/pos-backoffice/internal/application/usecase"
	"github.com/jhoicas/pos-backoffice/internal/domain"
	"github.com/jhoicas/pos-backoffice/internal/domain/entity"
	"github.com/jhoicas/pos-backoffice/internal/infrastructure/memory"
)

func createBusiness(t *testing.T, f *fixture, name string) *dto.CreateBusinessResponse {
	t.Helper()
	out, err := f.biz.CreateBusiness(context.Background(), dto.CreateBusinessRequest{
		Name: name, PackageID: "SUB-001", ManagerUsername: "gerente", ManagerPassword: "clave",
	})
	require.NoError(t, err)
	return out
}

// ──────────────────────────────────────────────────────────────────────────────
// CreateBusiness
// ──────────────────────────────────────────────────────────────────────────────

func TestCreateBusiness_ConPrimerGerente(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	f.mustPackage(t, "Básico", 2)

	out := createBusiness(t, f, "Tienda Centro")
	assert.True(t, out.Business.IsActive)
	assert.Equal(t, 2025, out.Business.FiscalYear)
	assert.Equal(t, fixedNow.AddDate(2, 0, 0), out.Business.SubscriptionEnd)
	assert.Equal(t, int64(1), out.Business.Seeds[string(entity.CounterInvoice)])
	assert.Len(t, out.Business.Seeds, len(entity.Counters))
	assert.Equal(t, entity.RoleManager, out.Manager.Role)

	users, err := f.users.ListUsers(ctx, out.Business.ID)
	require.NoError(t, err)
	require.Len(t, users, 1)
	assert.Equal(t, "gerente", users[0].Username)
}

func TestCreateBusiness_Errores(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	f.mustPackage(t, "Básico", 1)

	_, err := f.biz.CreateBusiness(ctx, dto.CreateBusinessRequest{Name: "X", PackageID: "SUB-404", ManagerUsername: "g", ManagerPassword: "c"})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = f.biz.CreateBusiness(ctx, dto.CreateBusinessRequest{Name: "X", PackageID: "SUB-001", ManagerUsername: "ADMIN", ManagerPassword: "c"})
	assert.ErrorIs(t, err, domain.ErrReservedUsername)

	list, err := f.biz.ListBusinesses(ctx)
	require.NoError(t, err)
	assert.Empty(t, list)
}

func TestCreateBusiness_FalloAlCrearGerenteDescartaNegocio(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	f.mustPackage(t, "Básico", 1)
	f.store.FailOn(memory.OpSaveUsers, errDisk)

	_, err := f.biz.CreateBusiness(ctx, dto.CreateBusinessRequest{Name: "X", PackageID: "SUB-001", ManagerUsername: "g", ManagerPassword: "c"})
	require.ErrorIs(t, err, errDisk)

	list, err := f.biz.ListBusinesses(ctx)
	require.NoError(t, err)
	assert.Empty(t, list)
}

// ──────────────────────────────────────────────────────────────────────────────
// Update / Delete
// ──────────────────────────────────────────────────────────────────────────────

func TestUpdateBusiness(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	f.mustPackage(t, "Básico", 1)
	created := createBusiness(t, f, "Tienda")

	name := "Tienda Norte"
	off := false
	out, err := f.biz.UpdateBusiness(ctx, created.Business.ID, dto.UpdateBusinessRequest{Name: &name, IsActive: &off})
	require.NoError(t, err)
	assert.Equal(t, "Tienda Norte", out.Name)
	assert.False(t, out.IsActive)

	blank := " "
	_, err = f.biz.UpdateBusiness(ctx, created.Business.ID, dto.UpdateBusinessRequest{Name: &blank})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = f.biz.UpdateBusiness(ctx, "biz-x", dto.UpdateBusinessRequest{Name: &name})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestDeleteBusiness_EliminaDatosDelNegocio(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	f.mustPackage(t, "Básico", 1)
	created := createBusiness(t, f, "Tienda")
	id := created.Business.ID
	f.mustGroup(t, id, "Caja")

	assert.ErrorIs(t, f.biz.DeleteBusiness(ctx, id, usecase.NeverConfirm), domain.ErrCancelled)
	require.NoError(t, f.biz.DeleteBusiness(ctx, id, usecase.AlwaysConfirm))

	_, err := f.biz.GetBusiness(ctx, id)
	assert.ErrorIs(t, err, domain.ErrNotFound)
	users, _ := f.store.LoadUsers(ctx, id)
	groups, _ := f.store.LoadGroups(ctx, id)
	assert.Empty(t, users)
	assert.Empty(t, groups)
}

func TestDeleteBusiness_FalloAlQuitarNegocioConservaSusDatos(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	f.mustPackage(t, "Básico", 1)
	created := createBusiness(t, f, "Tienda")
	id := created.Business.ID

	f.store.FailOn(memory.OpSaveBusinesses, errDisk)
	require.ErrorIs(t, f.biz.DeleteBusiness(ctx, id, usecase.AlwaysConfirm), errDisk)
	f.store.ClearFailures()

	_, err := f.biz.GetBusiness(ctx, id)
	require.NoError(t, err)
	users, _ := f.store.LoadUsers(ctx, id)
	assert.Len(t, users, 1, "el negocio conserva su gerente")
	listed, err := f.users.ListUsers(ctx, id)
	require.NoError(t, err)
	assert.Len(t, listed, 1)
}

func TestDeleteBusiness_FalloAlBorrarDatosRestauraNegocio(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	f.mustPackage(t, "Básico", 1)
	created := createBusiness(t, f, "Tienda")
	id := created.Business.ID

	f.store.FailOn(memory.OpSaveUsers, errDisk)
	require.ErrorIs(t, f.biz.DeleteBusiness(ctx, id, usecase.AlwaysConfirm), errDisk)
	f.store.ClearFailures()

	biz, err := f.biz.GetBusiness(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, created.Business.Seeds, biz.Seeds)
	users, _ := f.store.LoadUsers(ctx, id)
	assert.Len(t, users, 1)
}

// ──────────────────────────────────────────────────────────────────────────────
// Suscripciones
// ──────────────────────────────────────────────────────────────────────────────

func TestRenewSubscription_VigenteQuedaPendiente(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	f.mustPackage(t, "Básico", 1)
	pro := f.mustPackage(t, "Pro", 2)
	created := createBusiness(t, f, "Tienda")
	end := created.Business.SubscriptionEnd

	out, err := f.biz.RenewSubscription(ctx, created.Business.ID, pro.ID)
	require.NoError(t, err)
	assert.Equal(t, "SUB-001", out.PackageID, "la suscripción actual no cambia")
	assert.Equal(t, pro.ID, out.FuturePackageID)
	require.NotNil(t, out.FutureSubscriptionEnd)
	assert.Equal(t, end.AddDate(2, 0, 0), *out.FutureSubscriptionEnd)
}

func TestRenewSubscription_VencidaAplicaYReactiva(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	f.mustPackage(t, "Básico", 1)
	created := createBusiness(t, f, "Tienda")

	later := fixedNow.AddDate(2, 0, 0)
	f.biz.SetClock(func() time.Time { return later })
	changed, err := f.biz.ProcessExpirations(ctx)
	require.NoError(t, err)
	require.Len(t, changed, 1)
	assert.False(t, changed[0].IsActive)

	out, err := f.biz.RenewSubscription(ctx, created.Business.ID, "SUB-001")
	require.NoError(t, err)
	assert.True(t, out.IsActive)
	assert.Equal(t, later.AddDate(1, 0, 0), out.SubscriptionEnd)
	assert.Empty(t, out.FuturePackageID)
}

func TestProcessExpirations_PromueveRenovacionPendiente(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	f.mustPackage(t, "Básico", 1)
	pro := f.mustPackage(t, "Pro", 1)
	created := createBusiness(t, f, "Tienda")
	_, err := f.biz.RenewSubscription(ctx, created.Business.ID, pro.ID)
	require.NoError(t, err)

	changed, err := f.biz.ProcessExpirations(ctx)
	require.NoError(t, err)
	assert.Empty(t, changed, "nada vence todavía")

	f.biz.SetClock(func() time.Time { return fixedNow.AddDate(1, 0, 1) })
	changed, err = f.biz.ProcessExpirations(ctx)
	require.NoError(t, err)
	require.Len(t, changed, 1)
	assert.True(t, changed[0].IsActive)
	assert.Equal(t, pro.ID, changed[0].PackageID)
	assert.Equal(t, fixedNow.AddDate(2, 0, 0), changed[0].SubscriptionEnd)
	assert.Nil(t, changed[0].FutureSubscriptionEnd)
}

func TestCreateBusiness_NoUsaPaqueteQueSeEstaEliminando(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	p := f.mustPackage(t, "Básico", 1)

	var (
		created *dto.CreateBusinessResponse
		errC    error
		done    = make(chan struct{})
	)
	confirm := usecase.ConfirmFunc(func(context.Context, string) bool {
		go func() {
			defer close(done)
			created, errC = f.biz.CreateBusiness(ctx, dto.CreateBusinessRequest{
				Name: "Tienda", PackageID: p.ID, ManagerUsername: "gerente", ManagerPassword: "clave",
			})
		}()
		select {
		case <-done:
		case <-time.After(100 * time.Millisecond):
		}
		return true
	})
	require.NoError(t, f.packages.DeletePackage(ctx, p.ID, confirm))
	<-done

	require.ErrorIs(t, errC, domain.ErrInvalidInput)
	assert.Nil(t, created)
	list, err := f.biz.ListBusinesses(ctx)
	require.NoError(t, err)
	assert.Empty(t, list, "ningún negocio quedó apuntando al paquete eliminado")
}
