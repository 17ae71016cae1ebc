package entity

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// PackageIDPrefix prefijo de los IDs de paquete (SUB-001, SUB-002, ...).
const PackageIDPrefix = "SUB-"

// SubscriptionPackage plan de suscripción que el super-admin asigna a los negocios.
type SubscriptionPackage struct {
	ID            string
	Name          string
	Price         decimal.Decimal
	DurationYears int
	Features      []string
	AllowedViews  []string // vistas/privilegios que el plan habilita
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// Allows informa si el plan habilita la vista.
func (p *SubscriptionPackage) Allows(view string) bool {
	for _, v := range p.AllowedViews {
		if v == view {
			return true
		}
	}
	return false
}

// Clone copia el paquete, incluidas las listas.
func (p *SubscriptionPackage) Clone() *SubscriptionPackage {
	if p == nil {
		return nil
	}
	out := *p
	out.Features = append([]string(nil), p.Features...)
	out.AllowedViews = append([]string(nil), p.AllowedViews...)
	return &out
}

// FormatPackageID arma el ID con ceros a la izquierda.
func FormatPackageID(n int) string {
	return fmt.Sprintf("%s%03d", PackageIDPrefix, n)
}

// ParsePackageNumber extrae el número de un ID SUB-NNN.
func ParsePackageNumber(id string) (int, bool) {
	if !strings.HasPrefix(id, PackageIDPrefix) {
		return 0, false
	}
	n, err := strconv.Atoi(strings.TrimPrefix(id, PackageIDPrefix))
	if err != nil || n < 0 {
		return 0, false
	}
	return n, true
}

// NextPackageID devuelve el ID siguiente al máximo existente.
func NextPackageID(existing []*SubscriptionPackage) string {
	max := 0
	for _, p := range existing {
		if n, ok := ParsePackageNumber(p.ID); ok && n > max {
			max = n
		}
	}
	return FormatPackageID(max + 1)
}
