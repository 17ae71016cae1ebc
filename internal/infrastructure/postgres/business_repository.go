package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/pos-backoffice/internal/domain"
	"github.com/jhoicas/pos-backoffice/internal/domain/entity"
	"github.com/jhoicas/pos-backoffice/internal/domain/repository"
)

var _ repository.BusinessRepository = (*BusinessRepo)(nil)

// BusinessRepo implementación de BusinessRepository (usable con pool o tx).
type BusinessRepo struct {
	q Querier
}

// NewBusinessRepository construye el adaptador. Pasar pool o tx (Querier).
func NewBusinessRepository(q Querier) *BusinessRepo {
	return &BusinessRepo{q: q}
}

// LoadBusinesses lista todos los negocios.
func (r *BusinessRepo) LoadBusinesses(ctx context.Context) ([]*entity.Business, error) {
	query := `
		SELECT id, name, is_active, package_id, subscription_end, fiscal_year, seeds,
		       future_package_id, future_subscription_end, created_at, updated_at
		FROM businesses ORDER BY created_at, id`
	rows, err := r.q.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list businesses: %w", err)
	}
	defer rows.Close()

	out := make([]*entity.Business, 0)
	for rows.Next() {
		b, err := scanBusiness(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, b)
	}
	return out, rows.Err()
}

// GetBusiness lee un negocio; domain.ErrNotFound si no existe.
func (r *BusinessRepo) GetBusiness(ctx context.Context, id string) (*entity.Business, error) {
	query := `
		SELECT id, name, is_active, package_id, subscription_end, fiscal_year, seeds,
		       future_package_id, future_subscription_end, created_at, updated_at
		FROM businesses WHERE id = $1`
	b, err := scanBusiness(r.q.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return b, nil
}

// SaveBusiness inserta o actualiza un solo negocio.
func (r *BusinessRepo) SaveBusiness(ctx context.Context, b *entity.Business) error {
	seeds, err := json.Marshal(b.Seeds.Clone().Normalize())
	if err != nil {
		return fmt.Errorf("encode seeds %s: %w", b.ID, err)
	}
	query := `
		INSERT INTO businesses (id, name, is_active, package_id, subscription_end, fiscal_year, seeds,
		                        future_package_id, future_subscription_end, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		ON CONFLICT (id) DO UPDATE SET
			name = EXCLUDED.name,
			is_active = EXCLUDED.is_active,
			package_id = EXCLUDED.package_id,
			subscription_end = EXCLUDED.subscription_end,
			fiscal_year = EXCLUDED.fiscal_year,
			seeds = EXCLUDED.seeds,
			future_package_id = EXCLUDED.future_package_id,
			future_subscription_end = EXCLUDED.future_subscription_end,
			updated_at = EXCLUDED.updated_at`
	_, err = r.q.Exec(ctx, query,
		b.ID, b.Name, b.IsActive, b.PackageID, b.SubscriptionEnd, b.FiscalYear, seeds,
		b.FuturePackageID, b.FutureSubscriptionEnd, b.CreatedAt, b.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("upsert business %s: %w", b.ID, err)
	}
	return nil
}

// DeleteBusiness borra la fila del negocio (sus usuarios y grupos se borran por RunTenant).
func (r *BusinessRepo) DeleteBusiness(ctx context.Context, id string) error {
	tag, err := r.q.Exec(ctx, `DELETE FROM businesses WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete business %s: %w", id, err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

type pgxScanner interface {
	Scan(dest ...any) error
}

func scanBusiness(row pgxScanner) (*entity.Business, error) {
	var (
		b     entity.Business
		seeds []byte
	)
	err := row.Scan(
		&b.ID, &b.Name, &b.IsActive, &b.PackageID, &b.SubscriptionEnd, &b.FiscalYear, &seeds,
		&b.FuturePackageID, &b.FutureSubscriptionEnd, &b.CreatedAt, &b.UpdatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("scan business: %w", err)
	}
	raw := map[entity.Counter]int64{}
	if len(seeds) > 0 {
		if err := json.Unmarshal(seeds, &raw); err != nil {
			return nil, fmt.Errorf("decode seeds %s: %w", b.ID, err)
		}
	}
	b.Seeds = entity.Seeds(raw).Normalize()
	return &b, nil
}
