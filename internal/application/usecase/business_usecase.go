package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/rs/zerolog"

	"github.com/jhoicas/pos-backoffice/internal/application/dto"
	"github.com/jhoicas/pos-backoffice/internal/application/tenant"
	"github.com/jhoicas/pos-backoffice/internal/domain"
	"github.com/jhoicas/pos-backoffice/internal/domain/entity"
	"github.com/jhoicas/pos-backoffice/pkg/idgen"
)

// errBusinessNotFound distingue, dentro de WithPackage, un negocio inexistente de un paquete inexistente.
var errBusinessNotFound = errors.New("negocio no encontrado")

// BusinessUseCase alta y administración de negocios y sus suscripciones (super-admin).
type BusinessUseCase struct {
	clock
	book     *tenant.BusinessBook
	tenants  *tenant.Registry
	users    *UserUseCase
	packages *PackageUseCase
	log      zerolog.Logger
}

// NewBusinessUseCase construye el caso de uso.
func NewBusinessUseCase(book *tenant.BusinessBook, tenants *tenant.Registry, users *UserUseCase, packages *PackageUseCase, log zerolog.Logger) *BusinessUseCase {
	return &BusinessUseCase{book: book, tenants: tenants, users: users, packages: packages, log: log}
}

// CreateBusiness crea el negocio activo (año fiscal actual, consecutivos en 1) junto con su primer gerente.
// Si el gerente no se puede crear, el negocio se descarta.
func (uc *BusinessUseCase) CreateBusiness(ctx context.Context, in dto.CreateBusinessRequest) (*dto.CreateBusinessResponse, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return nil, fmt.Errorf("%w: el nombre del negocio es obligatorio", domain.ErrInvalidInput)
	}
	if strings.TrimSpace(in.ManagerUsername) == "" || in.ManagerPassword == "" {
		return nil, fmt.Errorf("%w: usuario y contraseña del gerente son obligatorios", domain.ErrInvalidInput)
	}
	if entity.IsReservedUsername(in.ManagerUsername) {
		return nil, domain.ErrReservedUsername
	}
	var biz *entity.Business
	err := uc.packages.WithPackage(ctx, in.PackageID, func(pkg *entity.SubscriptionPackage) error {
		now := uc.Now()
		biz = &entity.Business{
			ID:              idgen.New(idgen.PrefixBusiness),
			Name:            name,
			IsActive:        true,
			PackageID:       pkg.ID,
			SubscriptionEnd: now.AddDate(pkg.DurationYears, 0, 0),
			FiscalYear:      now.Year(),
			Seeds:           entity.NewSeeds(),
			CreatedAt:       now,
			UpdatedAt:       now,
		}
		return uc.book.Add(ctx, biz)
	})
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, fmt.Errorf("%w: el paquete %q no existe", domain.ErrInvalidInput, in.PackageID)
		}
		return nil, err
	}
	manager, err := uc.users.CreateUser(ctx, biz.ID, dto.CreateUserRequest{
		Username: in.ManagerUsername,
		Password: in.ManagerPassword,
		Role:     entity.RoleManager,
	})
	if err != nil {
		uc.tenants.Evict(biz.ID)
		if rbErr := uc.book.Remove(ctx, biz.ID); rbErr != nil {
			uc.log.Error().Err(rbErr).Str("business_id", biz.ID).Msg("no se pudo descartar el negocio sin gerente")
		}
		return nil, err
	}
	uc.log.Info().Str("business_id", biz.ID).Str("package_id", biz.PackageID).Msg("negocio creado")
	return &dto.CreateBusinessResponse{Business: *entityToBusinessResponse(biz), Manager: *manager}, nil
}

// UpdateBusiness cambia nombre o estado de un negocio.
func (uc *BusinessUseCase) UpdateBusiness(ctx context.Context, id string, in dto.UpdateBusinessRequest) (*dto.BusinessResponse, error) {
	var name string
	if in.Name != nil {
		name = strings.TrimSpace(*in.Name)
		if name == "" {
			return nil, fmt.Errorf("%w: el nombre del negocio es obligatorio", domain.ErrInvalidInput)
		}
	}
	updated, err := uc.book.Update(ctx, id, func(b *entity.Business) error {
		if in.Name != nil {
			b.Name = name
		}
		if in.IsActive != nil {
			b.IsActive = *in.IsActive
		}
		b.UpdatedAt = uc.Now()
		return nil
	})
	if err != nil {
		return nil, err
	}
	return entityToBusinessResponse(updated), nil
}

// DeleteBusiness elimina el negocio con sus usuarios, grupos y privilegios asignados. Primero sale
// del listado; si luego no se pueden borrar sus datos, el negocio se restaura intacto.
func (uc *BusinessUseCase) DeleteBusiness(ctx context.Context, id string, confirm Confirmer) error {
	biz, err := uc.book.Get(ctx, id)
	if err != nil {
		return err
	}
	if err := Confirmed(ctx, confirm, "eliminar negocio "+biz.Name); err != nil {
		return err
	}
	ws, err := uc.tenants.Open(ctx, id)
	if err != nil {
		return err
	}
	if err := uc.book.Remove(ctx, id); err != nil {
		return err
	}
	err = ws.Mutate(ctx, tenant.ScopeAll, func(st *tenant.State) error {
		st.Users, st.Groups, st.Grants = nil, nil, nil
		return nil
	})
	if err != nil {
		if rbErr := uc.book.Add(ctx, biz); rbErr != nil {
			uc.log.Error().Err(rbErr).Str("business_id", id).Msg("no se pudo restaurar el negocio tras fallar el borrado de sus datos")
		}
		return err
	}
	uc.tenants.Evict(id)
	uc.log.Info().Str("business_id", id).Msg("negocio eliminado")
	return nil
}

// ListBusinesses todos los negocios.
func (uc *BusinessUseCase) ListBusinesses(ctx context.Context) ([]dto.BusinessResponse, error) {
	list, err := uc.book.List(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]dto.BusinessResponse, 0, len(list))
	for _, b := range list {
		out = append(out, *entityToBusinessResponse(b))
	}
	return out, nil
}

// GetBusiness un negocio por ID.
func (uc *BusinessUseCase) GetBusiness(ctx context.Context, id string) (*dto.BusinessResponse, error) {
	biz, err := uc.book.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	return entityToBusinessResponse(biz), nil
}

// RenewSubscription renueva con el paquete indicado. Si la suscripción actual sigue vigente la
// renovación queda pendiente hasta su vencimiento.
func (uc *BusinessUseCase) RenewSubscription(ctx context.Context, id, packageID string) (*dto.BusinessResponse, error) {
	var updated *entity.Business
	err := uc.packages.WithPackage(ctx, packageID, func(pkg *entity.SubscriptionPackage) error {
		now := uc.Now()
		var err error
		updated, err = uc.book.Update(ctx, id, func(b *entity.Business) error {
			b.Renew(pkg, now)
			return nil
		})
		if errors.Is(err, domain.ErrNotFound) {
			return errBusinessNotFound
		}
		return err
	})
	if err != nil {
		switch {
		case errors.Is(err, errBusinessNotFound):
			return nil, domain.ErrNotFound
		case errors.Is(err, domain.ErrNotFound):
			return nil, fmt.Errorf("%w: el paquete %q no existe", domain.ErrInvalidInput, packageID)
		}
		return nil, err
	}
	uc.log.Info().
		Str("business_id", id).
		Str("package_id", packageID).
		Bool("deferred", updated.HasFutureSubscription()).
		Msg("suscripción renovada")
	return entityToBusinessResponse(updated), nil
}

// ProcessExpirations promueve renovaciones pendientes de suscripciones vencidas y desactiva los
// negocios vencidos sin renovación. Devuelve los negocios modificados.
func (uc *BusinessUseCase) ProcessExpirations(ctx context.Context) ([]dto.BusinessResponse, error) {
	now := uc.Now()
	changed, err := uc.book.UpdateAll(ctx, func(b *entity.Business) bool {
		return b.Expire(now)
	})
	if err != nil {
		return nil, err
	}
	out := make([]dto.BusinessResponse, 0, len(changed))
	for _, b := range changed {
		uc.log.Info().
			Str("business_id", b.ID).
			Bool("active", b.IsActive).
			Str("package_id", b.PackageID).
			Msg("vencimiento de suscripción procesado")
		out = append(out, *entityToBusinessResponse(b))
	}
	return out, nil
}
