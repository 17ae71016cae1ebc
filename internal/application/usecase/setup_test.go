package usecase_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/jhoicas/pos-backoffice/internal/application/credential"
	"github.com/jhoicas/pos-backoffice/internal/application/dto"
	"github.com/jhoicas/pos-backoffice/internal/application/tenant"
	"github.com/jhoicas/pos-backoffice/internal/application/usecase"
	"github.com/jhoicas/pos-backoffice/internal/domain/entity"
	"github.com/jhoicas/pos-backoffice/internal/infrastructure/memory"
)

var errDisk = errors.New("disco lleno")

// fixedNow 2025-06-15, el "año real" de los escenarios de año fiscal.
var fixedNow = time.Date(2025, time.June, 15, 10, 0, 0, 0, time.UTC)

type fixture struct {
	store    *memory.Store
	tenants  *tenant.Registry
	book     *tenant.BusinessBook
	groups   *usecase.GroupUseCase
	users    *usecase.UserUseCase
	ledger   *usecase.SequenceLedger
	packages *usecase.PackageUseCase
	biz      *usecase.BusinessUseCase
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	store := memory.New()
	book := tenant.NewBusinessBook(store, store)
	tenants := tenant.NewRegistry(book, store, store, store)
	hasher := credential.NewBcrypt(bcrypt.MinCost)
	log := zerolog.Nop()

	f := &fixture{
		store:   store,
		tenants: tenants,
		book:    book,
		groups:  usecase.NewGroupUseCase(tenants, log),
		users:   usecase.NewUserUseCase(tenants, hasher, log),
		ledger:  usecase.NewSequenceLedger(book, log),
	}
	f.packages = usecase.NewPackageUseCase(store, book, log)
	f.biz = usecase.NewBusinessUseCase(book, tenants, f.users, f.packages, log)

	now := func() time.Time { return fixedNow }
	f.groups.SetClock(now)
	f.users.SetClock(now)
	f.ledger.SetClock(now)
	f.packages.SetClock(now)
	f.biz.SetClock(now)
	return f
}

// newTenantFixture fixture con los negocios biz-1 y biz-2 ya dados de alta.
func newTenantFixture(t *testing.T) *fixture {
	t.Helper()
	f := newFixture(t)
	f.seedBusiness(t, "biz-1", fixedNow.Year())
	f.seedBusiness(t, "biz-2", fixedNow.Year())
	return f
}

// seedBusiness registra un negocio activo directamente en el libro.
func (f *fixture) seedBusiness(t *testing.T, id string, fiscalYear int) {
	t.Helper()
	require.NoError(t, f.book.Add(context.Background(), &entity.Business{
		ID:              id,
		Name:            "Negocio " + id,
		IsActive:        true,
		PackageID:       "SUB-001",
		SubscriptionEnd: fixedNow.AddDate(1, 0, 0),
		FiscalYear:      fiscalYear,
		Seeds:           entity.NewSeeds(),
	}))
}

func (f *fixture) mustUser(t *testing.T, businessID, username, role, groupID string) *dto.UserResponse {
	t.Helper()
	u, err := f.users.CreateUser(context.Background(), businessID, dto.CreateUserRequest{
		Username: username, Password: "secreto", Role: role, GroupID: groupID,
	})
	require.NoError(t, err)
	return u
}

func (f *fixture) mustGroup(t *testing.T, businessID, name string) *dto.GroupResponse {
	t.Helper()
	g, err := f.groups.CreateGroup(context.Background(), businessID, dto.CreateGroupRequest{Name: name})
	require.NoError(t, err)
	return g
}

func (f *fixture) mustPackage(t *testing.T, name string, years int, views ...string) *dto.PackageResponse {
	t.Helper()
	p, err := f.packages.CreatePackage(context.Background(), dto.CreatePackageRequest{
		Name: name, Price: decimal.RequireFromString("199000.00"), DurationYears: years, AllowedViews: views,
	})
	require.NoError(t, err)
	return p
}

// userEntity lee el usuario tal como lo ve el workspace (con grupo y negocio).
func (f *fixture) userEntity(t *testing.T, businessID, userID string) *entity.User {
	t.Helper()
	ws, err := f.tenants.Open(context.Background(), businessID)
	require.NoError(t, err)
	u := ws.User(userID)
	require.NotNil(t, u)
	return u
}
