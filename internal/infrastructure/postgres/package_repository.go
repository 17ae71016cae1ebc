package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/pos-backoffice/internal/domain/entity"
	"github.com/jhoicas/pos-backoffice/internal/domain/repository"
)

var _ repository.PackageRepository = (*PackageRepo)(nil)

// PackageRepo catálogo de paquetes de suscripción.
type PackageRepo struct {
	q Querier
}

// NewPackageRepository construye el adaptador. Pasar pool o tx (Querier).
func NewPackageRepository(q Querier) *PackageRepo {
	return &PackageRepo{q: q}
}

// LoadPackages lista los paquetes ordenados por ID.
func (r *PackageRepo) LoadPackages(ctx context.Context) ([]*entity.SubscriptionPackage, error) {
	query := `
		SELECT id, name, price, duration_years, features, allowed_views, created_at, updated_at
		FROM subscription_packages ORDER BY id`
	rows, err := r.q.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list packages: %w", err)
	}
	defer rows.Close()

	out := make([]*entity.SubscriptionPackage, 0)
	for rows.Next() {
		var p entity.SubscriptionPackage
		if err := rows.Scan(
			&p.ID, &p.Name, &p.Price, &p.DurationYears, &p.Features, &p.AllowedViews, &p.CreatedAt, &p.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan package: %w", err)
		}
		out = append(out, &p)
	}
	return out, rows.Err()
}

// SavePackages reemplaza el catálogo completo.
func (r *PackageRepo) SavePackages(ctx context.Context, packages []*entity.SubscriptionPackage) error {
	return inTx(ctx, r.q, func(tx pgx.Tx) error {
		ids := make([]string, 0, len(packages))
		for _, p := range packages {
			ids = append(ids, p.ID)
		}
		if _, err := tx.Exec(ctx, `DELETE FROM subscription_packages WHERE NOT (id = ANY($1))`, ids); err != nil {
			return fmt.Errorf("delete packages: %w", err)
		}
		query := `
			INSERT INTO subscription_packages (id, name, price, duration_years, features, allowed_views, created_at, updated_at)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
			ON CONFLICT (id) DO UPDATE SET
				name = EXCLUDED.name,
				price = EXCLUDED.price,
				duration_years = EXCLUDED.duration_years,
				features = EXCLUDED.features,
				allowed_views = EXCLUDED.allowed_views,
				updated_at = EXCLUDED.updated_at`
		for _, p := range packages {
			features := p.Features
			if features == nil {
				features = []string{}
			}
			views := p.AllowedViews
			if views == nil {
				views = []string{}
			}
			if _, err := tx.Exec(ctx, query,
				p.ID, p.Name, p.Price, p.DurationYears, features, views, p.CreatedAt, p.UpdatedAt,
			); err != nil {
				return fmt.Errorf("upsert package %s: %w", p.ID, err)
			}
		}
		return nil
	})
}
