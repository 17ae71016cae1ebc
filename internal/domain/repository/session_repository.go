package repository

import "context"

// SessionRepository guarda el puntero "negocio administrado actualmente" de cada usuario que puede
// administrar negocios ajenos (el super-admin). businessID vacío borra el puntero.
type SessionRepository interface {
	GetManagingBusinessID(ctx context.Context, ownerID string) (string, error)
	SaveManagingBusinessID(ctx context.Context, ownerID, businessID string) error
}
