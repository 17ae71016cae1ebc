package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/pos-backoffice/internal/application/auth"
	"github.com/jhoicas/pos-backoffice/internal/application/usecase"
	"github.com/jhoicas/pos-backoffice/internal/domain/entity"
	"github.com/jhoicas/pos-backoffice/internal/domain/privilege"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	AuthUC     *auth.AuthUseCase
	UserUC     *usecase.UserUseCase
	GroupUC    *usecase.GroupUseCase
	Ledger     *usecase.SequenceLedger
	BusinessUC *usecase.BusinessUseCase
	PackageUC  *usecase.PackageUseCase
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	api := app.Group("/api")

	// Auth (público)
	authHandler := NewAuthHandler(deps.AuthUC)
	api.Post("/auth/login", authHandler.Login)

	// Rutas protegidas (requieren Bearer Token de una sesión abierta)
	protected := api.Group("/", AuthMiddleware(deps.AuthUC))

	me := protected.Group("/auth")
	me.Get("/me", authHandler.Me)
	me.Post("/logout", authHandler.Logout)
	me.Put("/sale", authHandler.SetSaleState)
	me.Put("/business", RequireSuperAdmin(), authHandler.SwitchBusiness)
	me.Put("/password", RequireSuperAdmin(), authHandler.ChangePassword)

	groupHandler := NewGroupHandler(deps.GroupUC)
	protected.Get("/privileges", groupHandler.Catalog)

	// Administración de negocios y paquetes (super-admin)
	businessHandler := NewBusinessHandler(deps.BusinessUC)
	businesses := protected.Group("/businesses", RequireSuperAdmin())
	businesses.Get("/", businessHandler.List)
	businesses.Post("/", businessHandler.Create)
	businesses.Get("/:id", businessHandler.GetByID)
	businesses.Put("/:id", businessHandler.Update)
	businesses.Delete("/:id", businessHandler.Delete)
	businesses.Post("/:id/renew", businessHandler.Renew)

	packageHandler := NewPackageHandler(deps.PackageUC)
	packages := protected.Group("/packages", RequireSuperAdmin())
	packages.Get("/", packageHandler.List)
	packages.Post("/", packageHandler.Create)
	packages.Get("/:id", packageHandler.GetByID)
	packages.Put("/:id", packageHandler.Update)
	packages.Delete("/:id", packageHandler.Delete)

	// Negocio de la sesión: el propio o el que administra el super-admin
	users := protected.Group("/users",
		RequireBusiness(),
		RequireView(privilege.UsersManage, deps.PackageUC),
		RequirePrivilege(deps.AuthUC, privilege.UsersManage),
	)
	userHandler := NewUserHandler(deps.UserUC)
	users.Get("/", userHandler.List)
	users.Post("/", userHandler.Create)
	users.Get("/:id", userHandler.GetByID)
	users.Put("/:id", userHandler.Update)
	users.Delete("/:id", RequireRole(entity.RoleManager), userHandler.Delete)

	groups := protected.Group("/groups",
		RequireBusiness(),
		RequireView(privilege.GroupsManage, deps.PackageUC),
		RequirePrivilege(deps.AuthUC, privilege.GroupsManage),
	)
	groups.Get("/", groupHandler.List)
	groups.Post("/", groupHandler.Create)
	groups.Put("/:id", groupHandler.Update)
	groups.Put("/:id/privileges", groupHandler.SetPrivileges)
	groups.Delete("/:id", groupHandler.Delete)

	sequenceHandler := NewSequenceHandler(deps.Ledger, deps.AuthUC, deps.PackageUC)
	sequences := protected.Group("/sequences", RequireBusiness())
	sequences.Get("/", sequenceHandler.State)
	sequences.Post("/fiscal-year",
		RequireView(privilege.FiscalYearClose, deps.PackageUC),
		RequirePrivilege(deps.AuthUC, privilege.FiscalYearClose),
		sequenceHandler.OpenFiscalYear,
	)
	sequences.Post("/:counter/next", sequenceHandler.Next)
}
