package entity

import (
	"time"

	"github.com/jhoicas/pos-backoffice/internal/domain"
)

// Business representa un negocio (tenant) con sus datos aislados.
type Business struct {
	ID              string
	Name            string
	IsActive        bool
	PackageID       string
	SubscriptionEnd time.Time
	FiscalYear      int
	Seeds           Seeds

	// Renovación comprada mientras la suscripción actual sigue vigente; se aplica al vencer.
	FuturePackageID       string
	FutureSubscriptionEnd *time.Time

	CreatedAt time.Time
	UpdatedAt time.Time
}

// Clone copia profunda: las operaciones mutan una copia y la confirman solo si persistir funcionó.
func (b *Business) Clone() *Business {
	if b == nil {
		return nil
	}
	out := *b
	out.Seeds = b.Seeds.Clone()
	if b.FutureSubscriptionEnd != nil {
		t := *b.FutureSubscriptionEnd
		out.FutureSubscriptionEnd = &t
	}
	return &out
}

// Take devuelve el consecutivo actual del documento y deja el siguiente listo.
func (b *Business) Take(c Counter) (int64, error) {
	if !c.Valid() {
		return 0, domain.ErrUnknownCounter
	}
	b.Seeds = b.Seeds.Normalize()
	v := b.Seeds[c]
	b.Seeds[c] = v + 1
	return v, nil
}

// OpenNewFiscalYear avanza el año fiscal en 1 y reinicia todos los consecutivos.
// Solo se permite cuando el año fiscal del negocio es anterior al año calendario de now.
func (b *Business) OpenNewFiscalYear(now time.Time) error {
	if b.FiscalYear >= now.Year() {
		return domain.ErrFiscalYearNotExpired
	}
	b.FiscalYear++
	b.Seeds = NewSeeds()
	b.UpdatedAt = now
	return nil
}

// SubscriptionActive informa si la suscripción actual cubre el instante dado.
func (b *Business) SubscriptionActive(now time.Time) bool {
	return now.Before(b.SubscriptionEnd)
}

// HasFutureSubscription informa si hay una renovación pendiente.
func (b *Business) HasFutureSubscription() bool {
	return b.FuturePackageID != "" && b.FutureSubscriptionEnd != nil
}

// References informa si el negocio usa el paquete, en la suscripción actual o en la pendiente.
func (b *Business) References(packageID string) bool {
	return b.PackageID == packageID || b.FuturePackageID == packageID
}

// Renew aplica una renovación. Si la suscripción actual sigue vigente queda como futura
// (empieza al terminar la actual); si no, reemplaza a la actual desde now.
func (b *Business) Renew(pkg *SubscriptionPackage, now time.Time) {
	if b.SubscriptionActive(now) {
		end := b.SubscriptionEnd.AddDate(pkg.DurationYears, 0, 0)
		b.FuturePackageID = pkg.ID
		b.FutureSubscriptionEnd = &end
	} else {
		b.PackageID = pkg.ID
		b.SubscriptionEnd = now.AddDate(pkg.DurationYears, 0, 0)
		b.FuturePackageID = ""
		b.FutureSubscriptionEnd = nil
		b.IsActive = true
	}
	b.UpdatedAt = now
}

// Expire procesa el vencimiento: promueve la renovación pendiente o desactiva el negocio.
// Devuelve true si hubo cambios.
func (b *Business) Expire(now time.Time) bool {
	if b.SubscriptionActive(now) {
		return false
	}
	if b.HasFutureSubscription() {
		b.PackageID = b.FuturePackageID
		b.SubscriptionEnd = *b.FutureSubscriptionEnd
		b.FuturePackageID = ""
		b.FutureSubscriptionEnd = nil
		b.UpdatedAt = now
		return true
	}
	if !b.IsActive {
		return false
	}
	b.IsActive = false
	b.UpdatedAt = now
	return true
}
