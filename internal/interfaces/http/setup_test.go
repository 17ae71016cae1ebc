package http_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/jhoicas/pos-backoffice/internal/application/auth"
	"github.com/jhoicas/pos-backoffice/internal/application/credential"
	"github.com/jhoicas/pos-backoffice/internal/application/dto"
	"github.com/jhoicas/pos-backoffice/internal/application/tenant"
	"github.com/jhoicas/pos-backoffice/internal/application/usecase"
	"github.com/jhoicas/pos-backoffice/internal/domain/privilege"
	"github.com/jhoicas/pos-backoffice/internal/infrastructure/memory"
	apphttp "github.com/jhoicas/pos-backoffice/internal/interfaces/http"
)

// ──────────────────────────────────────────────────────────────────────────────
// Helpers de test
// ──────────────────────────────────────────────────────────────────────────────

const (
	managerUsername = "gerente"
	managerPassword = "clave-gerente"
)

type apiFixture struct {
	app      *fiber.App
	users    *usecase.UserUseCase
	groups   *usecase.GroupUseCase
	packages *usecase.PackageUseCase
	biz      *usecase.BusinessUseCase

	businessID string
	managerID  string
}

// newAPI arma la API completa sobre el almacenamiento en memoria con un negocio activo cuyo
// paquete habilita usuarios, grupos, ventas y cierre de año.
func newAPI(t *testing.T) *apiFixture {
	t.Helper()
	store := memory.New()
	book := tenant.NewBusinessBook(store, store)
	tenants := tenant.NewRegistry(book, store, store, store)
	hasher := credential.NewBcrypt(bcrypt.MinCost)
	log := zerolog.Nop()

	f := &apiFixture{
		users:  usecase.NewUserUseCase(tenants, hasher, log),
		groups: usecase.NewGroupUseCase(tenants, log),
	}
	f.packages = usecase.NewPackageUseCase(store, book, log)
	f.biz = usecase.NewBusinessUseCase(book, tenants, f.users, f.packages, log)
	authUC := auth.NewAuthUseCase(auth.Deps{
		Businesses: book,
		Tenants:    tenants,
		Groups:     f.groups,
		Admin:      store,
		Pointers:   store,
		Hasher:     hasher,
		Sessions:   auth.NewSessions(time.Hour),
	}, auth.JWTConfig{Secret: "test-secret-key-for-unit-tests", ExpMinutes: 60, Issuer: "pos-test"}, log)

	f.app = fiber.New()
	apphttp.Router(f.app, apphttp.RouterDeps{
		AuthUC:     authUC,
		UserUC:     f.users,
		GroupUC:    f.groups,
		Ledger:     usecase.NewSequenceLedger(book, log),
		BusinessUC: f.biz,
		PackageUC:  f.packages,
	})

	f.businessID, f.managerID = f.newBusiness(t, "Tienda Centro",
		privilege.UsersManage, privilege.GroupsManage, privilege.SalesPOS, privilege.FiscalYearClose)
	return f
}

// newBusiness crea paquete y negocio con su gerente; devuelve IDs de negocio y gerente.
func (f *apiFixture) newBusiness(t *testing.T, name string, views ...string) (string, string) {
	t.Helper()
	ctx := context.Background()
	pkg, err := f.packages.CreatePackage(ctx, dto.CreatePackageRequest{
		Name: "Plan " + name, Price: decimal.RequireFromString("150000.00"), DurationYears: 1, AllowedViews: views,
	})
	require.NoError(t, err)
	out, err := f.biz.CreateBusiness(ctx, dto.CreateBusinessRequest{
		Name: name, PackageID: pkg.ID, ManagerUsername: managerUsername, ManagerPassword: managerPassword,
	})
	require.NoError(t, err)
	return out.Business.ID, out.Manager.ID
}

// seller crea un vendedor; con privs crea además un grupo con esos privilegios y lo asigna.
func (f *apiFixture) seller(t *testing.T, username string, privs ...string) *dto.UserResponse {
	t.Helper()
	ctx := context.Background()
	in := dto.CreateUserRequest{Username: username, Password: "clave-vendedor"}
	if len(privs) > 0 {
		g, err := f.groups.CreateGroup(ctx, f.businessID, dto.CreateGroupRequest{Name: "Grupo " + username})
		require.NoError(t, err)
		_, err = f.groups.SetGroupPrivileges(ctx, f.businessID, g.ID, privs)
		require.NoError(t, err)
		in.GroupID = g.ID
	}
	u, err := f.users.CreateUser(ctx, f.businessID, in)
	require.NoError(t, err)
	return u
}

// login devuelve el header Authorization listo para usar.
func (f *apiFixture) login(t *testing.T, username, password, businessID string) string {
	t.Helper()
	resp := f.do(t, http.MethodPost, "/api/auth/login", "", dto.LoginRequest{
		Username: username, Password: password, BusinessID: businessID,
	})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("login %s: status %d: %s", username, resp.StatusCode, readBody(t, resp))
	}
	out := decode[dto.LoginResponse](t, resp)
	require.NotEmpty(t, out.Token)
	return "Bearer " + out.Token
}

func (f *apiFixture) loginManager(t *testing.T) string {
	return f.login(t, managerUsername, managerPassword, f.businessID)
}

func (f *apiFixture) loginAdmin(t *testing.T) string {
	return f.login(t, "admin", "admin", "")
}

// do lanza la petición y devuelve la respuesta; body se serializa a JSON si no es nil.
func (f *apiFixture) do(t *testing.T, method, path, authHeader string, body any) *http.Response {
	t.Helper()
	var r io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		r = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, r)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}
	resp, err := f.app.Test(req, -1)
	require.NoError(t, err)
	t.Cleanup(func() { resp.Body.Close() })
	return resp
}

func decode[T any](t *testing.T, resp *http.Response) T {
	t.Helper()
	var out T
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	return out
}

func readBody(t *testing.T, resp *http.Response) string {
	t.Helper()
	raw, _ := io.ReadAll(resp.Body)
	return string(raw)
}

func errorCode(t *testing.T, resp *http.Response) string {
	t.Helper()
	return decode[dto.ErrorResponse](t, resp).Code
}

func newRequest(method, path string) *http.Request {
	return httptest.NewRequest(method, path, nil)
}
