package repository

import "context"

// AdminRepository guarda el hash de la contraseña del super-admin.
// LoadSuperAdminHash devuelve "" (sin error) si nunca se guardó uno.
type AdminRepository interface {
	LoadSuperAdminHash(ctx context.Context) (string, error)
	SaveSuperAdminHash(ctx context.Context, hash string) error
}
