// Package idgen genera identificadores únicos para entidades nuevas (usuarios, grupos, negocios, paquetes).
package idgen

import "github.com/google/uuid"

// New devuelve prefix + un UUIDv7 (marca de tiempo en milisegundos + contador monótono + bits aleatorios).
// Dos llamadas seguidas nunca devuelven el mismo valor dentro del proceso. No falla: si el generador v7
// no está disponible se usa un UUIDv4.
func New(prefix string) string {
	id, err := uuid.NewV7()
	if err != nil {
		return prefix + uuid.NewString()
	}
	return prefix + id.String()
}

// Prefijos usados para legibilidad en logs.
const (
	PrefixUser     = "usr-"
	PrefixGroup    = "grp-"
	PrefixBusiness = "biz-"
	PrefixSession  = "ses-"
)
