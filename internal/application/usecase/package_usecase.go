package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/rs/zerolog"

	"github.com/jhoicas/pos-backoffice/internal/application/dto"
	"github.com/jhoicas/pos-backoffice/internal/application/tenant"
	"github.com/jhoicas/pos-backoffice/internal/domain"
	"github.com/jhoicas/pos-backoffice/internal/domain/entity"
	"github.com/jhoicas/pos-backoffice/internal/domain/privilege"
	"github.com/jhoicas/pos-backoffice/internal/domain/repository"
)

// PackageUseCase catálogo de paquetes de suscripción (global, lo administra el super-admin).
type PackageUseCase struct {
	clock
	mu   sync.Mutex // serializa cambios del catálogo y las asignaciones de paquetes a negocios
	repo repository.PackageRepository
	book *tenant.BusinessBook
	log  zerolog.Logger
}

// NewPackageUseCase construye el caso de uso.
func NewPackageUseCase(repo repository.PackageRepository, book *tenant.BusinessBook, log zerolog.Logger) *PackageUseCase {
	return &PackageUseCase{repo: repo, book: book, log: log}
}

// CreatePackage crea un paquete con el siguiente ID disponible.
func (uc *PackageUseCase) CreatePackage(ctx context.Context, in dto.CreatePackageRequest) (*dto.PackageResponse, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return nil, fmt.Errorf("%w: el nombre del paquete es obligatorio", domain.ErrInvalidInput)
	}
	if err := validatePackageTerms(in.DurationYears, in.AllowedViews); err != nil {
		return nil, err
	}
	if in.Price.IsNegative() {
		return nil, fmt.Errorf("%w: el precio no puede ser negativo", domain.ErrInvalidInput)
	}

	uc.mu.Lock()
	defer uc.mu.Unlock()
	list, err := uc.repo.LoadPackages(ctx)
	if err != nil {
		return nil, err
	}
	now := uc.Now()
	pkg := &entity.SubscriptionPackage{
		ID:            entity.NextPackageID(list),
		Name:          name,
		Price:         in.Price,
		DurationYears: in.DurationYears,
		Features:      cleanList(in.Features),
		AllowedViews:  cleanList(in.AllowedViews),
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	if err := uc.repo.SavePackages(ctx, append(list, pkg)); err != nil {
		return nil, err
	}
	return entityToPackageResponse(pkg), nil
}

// UpdatePackage aplica un patch. Las listas reemplazan a las actuales cuando vienen informadas.
func (uc *PackageUseCase) UpdatePackage(ctx context.Context, id string, in dto.UpdatePackageRequest) (*dto.PackageResponse, error) {
	uc.mu.Lock()
	defer uc.mu.Unlock()
	list, err := uc.repo.LoadPackages(ctx)
	if err != nil {
		return nil, err
	}
	i := packageIndex(list, id)
	if i < 0 {
		return nil, domain.ErrNotFound
	}
	pkg := list[i].Clone()
	if in.Name != nil {
		name := strings.TrimSpace(*in.Name)
		if name == "" {
			return nil, fmt.Errorf("%w: el nombre del paquete es obligatorio", domain.ErrInvalidInput)
		}
		pkg.Name = name
	}
	if in.Price != nil {
		if in.Price.IsNegative() {
			return nil, fmt.Errorf("%w: el precio no puede ser negativo", domain.ErrInvalidInput)
		}
		pkg.Price = *in.Price
	}
	if in.DurationYears != nil {
		pkg.DurationYears = *in.DurationYears
	}
	if in.Features != nil {
		pkg.Features = cleanList(in.Features)
	}
	if in.AllowedViews != nil {
		pkg.AllowedViews = cleanList(in.AllowedViews)
	}
	if err := validatePackageTerms(pkg.DurationYears, pkg.AllowedViews); err != nil {
		return nil, err
	}
	pkg.UpdatedAt = uc.Now()
	list[i] = pkg
	if err := uc.repo.SavePackages(ctx, list); err != nil {
		return nil, err
	}
	return entityToPackageResponse(pkg), nil
}

// DeletePackage elimina un paquete. Devuelve domain.ErrPackageInUse si algún negocio lo usa
// en su suscripción actual o en la pendiente.
func (uc *PackageUseCase) DeletePackage(ctx context.Context, id string, confirm Confirmer) error {
	uc.mu.Lock()
	defer uc.mu.Unlock()
	list, err := uc.repo.LoadPackages(ctx)
	if err != nil {
		return err
	}
	i := packageIndex(list, id)
	if i < 0 {
		return domain.ErrNotFound
	}
	businesses, err := uc.book.List(ctx)
	if err != nil {
		return err
	}
	for _, b := range businesses {
		if b.References(id) {
			return domain.ErrPackageInUse
		}
	}
	if err := Confirmed(ctx, confirm, "eliminar paquete "+id); err != nil {
		return err
	}
	list = append(list[:i], list[i+1:]...)
	if err := uc.repo.SavePackages(ctx, list); err != nil {
		return err
	}
	uc.log.Info().Str("package_id", id).Msg("paquete eliminado")
	return nil
}

// ListPackages todos los paquetes.
func (uc *PackageUseCase) ListPackages(ctx context.Context) ([]dto.PackageResponse, error) {
	list, err := uc.repo.LoadPackages(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]dto.PackageResponse, 0, len(list))
	for _, p := range list {
		out = append(out, *entityToPackageResponse(p))
	}
	return out, nil
}

// GetPackage un paquete por ID.
func (uc *PackageUseCase) GetPackage(ctx context.Context, id string) (*dto.PackageResponse, error) {
	pkg, err := uc.Package(ctx, id)
	if err != nil {
		return nil, err
	}
	return entityToPackageResponse(pkg), nil
}

// Package devuelve la entidad (para altas y renovaciones de negocios).
func (uc *PackageUseCase) Package(ctx context.Context, id string) (*entity.SubscriptionPackage, error) {
	list, err := uc.repo.LoadPackages(ctx)
	if err != nil {
		return nil, err
	}
	if i := packageIndex(list, id); i >= 0 {
		return list[i], nil
	}
	return nil, domain.ErrNotFound
}

// WithPackage ejecuta fn con el paquete bajo el lock del catálogo, de modo que DeletePackage no puede
// eliminarlo mientras se asigna a un negocio. domain.ErrNotFound si el paquete no existe.
func (uc *PackageUseCase) WithPackage(ctx context.Context, id string, fn func(pkg *entity.SubscriptionPackage) error) error {
	uc.mu.Lock()
	defer uc.mu.Unlock()
	pkg, err := uc.Package(ctx, id)
	if err != nil {
		return err
	}
	return fn(pkg)
}

// ViewAllowed informa si el paquete del negocio habilita la vista.
// Devuelve false (sin error) si el negocio está inactivo o su paquete ya no existe.
// Devuelve error solo si el negocio no existe o ante fallos de infraestructura.
func (uc *PackageUseCase) ViewAllowed(ctx context.Context, businessID, view string) (bool, error) {
	biz, err := uc.book.Get(ctx, businessID)
	if err != nil {
		return false, err
	}
	if !biz.IsActive {
		return false, nil
	}
	pkg, err := uc.Package(ctx, biz.PackageID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return false, nil
		}
		return false, err
	}
	return pkg.Allows(view), nil
}

func validatePackageTerms(years int, views []string) error {
	if years < 1 {
		return fmt.Errorf("%w: la duración debe ser de al menos un año", domain.ErrInvalidInput)
	}
	for _, v := range views {
		if v = strings.TrimSpace(v); v != "" && !privilege.Exists(v) {
			return fmt.Errorf("%w: vista desconocida %q", domain.ErrInvalidInput, v)
		}
	}
	return nil
}

func packageIndex(list []*entity.SubscriptionPackage, id string) int {
	for i, p := range list {
		if p.ID == id {
			return i
		}
	}
	return -1
}

// cleanList recorta, descarta vacíos y duplicados conservando el orden.
func cleanList(in []string) []string {
	out := make([]string, 0, len(in))
	seen := make(map[string]bool, len(in))
	for _, s := range in {
		s = strings.TrimSpace(s)
		if s == "" || seen[s] {
			continue
		}
		seen[s] = true
		out = append(out, s)
	}
	return out
}
