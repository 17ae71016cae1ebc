package repository

import "context"

// TenantTxRunner ejecuta fn con repositorios atados a una transacción sobre los datos de un negocio.
// Si fn retorna error no queda ningún cambio persistido (usuarios, grupos y privilegios van juntos).
type TenantTxRunner interface {
	RunTenant(ctx context.Context, businessID string, fn func(users UserRepository, groups GroupRepository) error) error
}
