package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/contrib/swagger"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/jhoicas/pos-backoffice/internal/application/auth"
	"github.com/jhoicas/pos-backoffice/internal/application/credential"
	"github.com/jhoicas/pos-backoffice/internal/application/tenant"
	"github.com/jhoicas/pos-backoffice/internal/application/usecase"
	"github.com/jhoicas/pos-backoffice/internal/domain/repository"
	"github.com/jhoicas/pos-backoffice/internal/infrastructure/memory"
	"github.com/jhoicas/pos-backoffice/internal/infrastructure/postgres"
	infraredis "github.com/jhoicas/pos-backoffice/internal/infrastructure/redis"
	"github.com/jhoicas/pos-backoffice/internal/infrastructure/scheduler"
	httpRouter "github.com/jhoicas/pos-backoffice/internal/interfaces/http"
	"github.com/jhoicas/pos-backoffice/pkg/config"
	"github.com/jhoicas/pos-backoffice/pkg/logger"
)

const swaggerFile = "./docs/swagger.json"

// stores puertos de persistencia según el driver configurado.
type stores struct {
	users      repository.UserRepository
	groups     repository.GroupRepository
	businesses repository.BusinessRepository
	packages   repository.PackageRepository
	admin      repository.AdminRepository
	pointers   repository.SessionRepository
	tx         repository.TenantTxRunner
	bizTx      repository.BusinessTxRunner
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:   cfg.App.Env,
		Level: cfg.App.LogLevel,
	})
	log.Info().
		Str("env", cfg.App.Env).
		Str("app", cfg.App.Name).
		Str("storage", cfg.App.StorageDriver).
		Msg("iniciando aplicación")

	ctx := context.Background()

	var st stores
	switch cfg.App.StorageDriver {
	case config.StoragePostgres:
		pool, err := postgres.NewPool(ctx, cfg.DB)
		if err != nil {
			log.Fatal().Err(err).Msg("conexión a PostgreSQL")
		}
		defer pool.Close()
		if err := postgres.EnsureSchema(ctx, pool); err != nil {
			log.Fatal().Err(err).Msg("crear esquema")
		}
		st = postgresStores(pool)
	default:
		mem := memory.New()
		st = stores{users: mem, groups: mem, businesses: mem, packages: mem, admin: mem, pointers: mem, tx: mem, bizTx: mem}
		log.Warn().Msg("almacenamiento en memoria: los datos se pierden al reiniciar")
	}

	if cfg.Redis.Enabled() {
		client, err := infraredis.NewClient(ctx, cfg.Redis)
		if err != nil {
			log.Fatal().Err(err).Msg("conexión a Redis")
		}
		defer client.Close()
		ttl := time.Duration(cfg.Redis.TTLMinutes) * time.Minute
		st.pointers = infraredis.NewPointerStore(client, ttl, log.Component("redis"))
	}

	hasher := credential.NewBcrypt(cfg.Security.BcryptCost)
	book := tenant.NewBusinessBook(st.businesses, st.bizTx)
	tenants := tenant.NewRegistry(book, st.users, st.groups, st.tx)

	groupUC := usecase.NewGroupUseCase(tenants, log.Component("groups"))
	userUC := usecase.NewUserUseCase(tenants, hasher, log.Component("users"))
	ledger := usecase.NewSequenceLedger(book, log.Component("ledger"))
	packageUC := usecase.NewPackageUseCase(st.packages, book, log.Component("packages"))
	businessUC := usecase.NewBusinessUseCase(book, tenants, userUC, packageUC, log.Component("businesses"))

	sessions := auth.NewSessions(time.Duration(cfg.JWT.Expiration) * time.Minute)
	authUC := auth.NewAuthUseCase(auth.Deps{
		Businesses: book,
		Tenants:    tenants,
		Groups:     groupUC,
		Admin:      st.admin,
		Pointers:   st.pointers,
		Hasher:     hasher,
		Sessions:   sessions,
	}, auth.JWTConfig{
		Secret:     cfg.JWT.Secret,
		ExpMinutes: cfg.JWT.Expiration,
		Issuer:     cfg.JWT.Issuer,
	}, log.Component("auth"))

	jobs := scheduler.New(businessUC, sessions, log.Component("scheduler"))
	if err := jobs.Start(cfg.Subscription.Cron); err != nil {
		log.Fatal().Err(err).Msg("iniciar scheduler")
	}
	// Una pasada al arrancar por si el proceso estuvo caído a la hora programada.
	jobs.RunExpirations()

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 10,
		IdleTimeout:  time.Second * 60,
	})
	app.Use(recover.New())

	// Swagger UI en local: http://localhost:<port>/docs
	if _, err := os.Stat(swaggerFile); err == nil {
		app.Use(swagger.New(swagger.Config{
			BasePath: "/",
			FilePath: swaggerFile,
			Path:     "docs",
			Title:    "POS Backoffice API",
		}))
	}

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": cfg.App.Name})
	})

	httpRouter.Router(app, httpRouter.RouterDeps{
		AuthUC:     authUC,
		UserUC:     userUC,
		GroupUC:    groupUC,
		Ledger:     ledger,
		BusinessUC: businessUC,
		PackageUC:  packageUC,
	})

	go func() {
		addr := cfg.HTTP.Addr()
		log.Info().Str("addr", addr).Msg("servidor HTTP escuchando")
		if err := app.Listen(addr); err != nil {
			log.Error().Err(err).Msg("servidor HTTP finalizado")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("señal de apagado recibida, cerrando servidor...")
	jobs.Stop()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("apagado del servidor")
	}

	log.Info().Msg("aplicación detenida")
}

func postgresStores(pool *pgxpool.Pool) stores {
	settings := postgres.NewSettingsRepository(pool)
	txRunner := postgres.NewTxRunner(pool)
	return stores{
		users:      postgres.NewUserRepository(pool),
		groups:     postgres.NewGroupRepository(pool),
		businesses: postgres.NewBusinessRepository(pool),
		packages:   postgres.NewPackageRepository(pool),
		admin:      settings,
		pointers:   settings,
		tx:         txRunner,
		bizTx:      txRunner,
	}
}
