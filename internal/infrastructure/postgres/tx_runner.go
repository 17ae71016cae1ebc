package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/jhoicas/pos-backoffice/internal/domain/repository"
)

var (
	_ repository.TenantTxRunner   = (*TxRunner)(nil)
	_ repository.BusinessTxRunner = (*TxRunner)(nil)
)

// TxRunner ejecuta callbacks dentro de una transacción PostgreSQL.
type TxRunner struct {
	pool *pgxpool.Pool
}

// NewTxRunner construye el runner con el pool.
func NewTxRunner(pool *pgxpool.Pool) *TxRunner {
	return &TxRunner{pool: pool}
}

// RunTenant inicia una transacción, ejecuta fn con repos de usuarios y grupos atados a la tx y hace
// Commit o Rollback. Se usa para que borrar un grupo y sus privilegios sea una sola escritura.
func (r *TxRunner) RunTenant(ctx context.Context, businessID string, fn func(
	users repository.UserRepository,
	groups repository.GroupRepository,
) error) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	// serializa escrituras concurrentes del mismo negocio entre procesos
	if _, err := tx.Exec(ctx, `SELECT pg_advisory_xact_lock(hashtext($1))`, businessID); err != nil {
		return fmt.Errorf("lock negocio %s: %w", businessID, err)
	}

	if err := fn(NewUserRepository(tx), NewGroupRepository(tx)); err != nil {
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}

// RunBusiness ejecuta fn con un BusinessRepo atado a la tx, bajo un lock del negocio compartido por
// todas las instancias. fn debe releer el negocio dentro de la tx: así dos instancias nunca emiten el
// mismo consecutivo ni pisan el cambio de la otra.
func (r *TxRunner) RunBusiness(ctx context.Context, businessID string, fn func(repo repository.BusinessRepository) error) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if _, err := tx.Exec(ctx, `SELECT pg_advisory_xact_lock(hashtext('business:' || $1))`, businessID); err != nil {
		return fmt.Errorf("lock registro del negocio %s: %w", businessID, err)
	}

	if err := fn(NewBusinessRepository(tx)); err != nil {
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}
