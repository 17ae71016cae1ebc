package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/pos-backoffice/internal/domain"
	"github.com/jhoicas/pos-backoffice/internal/domain/entity"
	"github.com/jhoicas/pos-backoffice/internal/domain/repository"
)

var _ repository.GroupRepository = (*GroupRepo)(nil)

// GroupRepo grupos y privilegios asignados (usable con pool o tx).
type GroupRepo struct {
	q Querier
}

// NewGroupRepository construye el adaptador. Pasar pool o tx (Querier).
func NewGroupRepository(q Querier) *GroupRepo {
	return &GroupRepo{q: q}
}

// LoadGroups grupos del negocio.
func (r *GroupRepo) LoadGroups(ctx context.Context, businessID string) ([]*entity.Group, error) {
	query := `
		SELECT id, business_id, name, description, created_at, updated_at
		FROM groups WHERE business_id = $1 ORDER BY created_at, id`
	rows, err := r.q.Query(ctx, query, businessID)
	if err != nil {
		return nil, fmt.Errorf("list groups: %w", err)
	}
	defer rows.Close()

	out := make([]*entity.Group, 0)
	for rows.Next() {
		var g entity.Group
		if err := rows.Scan(&g.ID, &g.BusinessID, &g.Name, &g.Description, &g.CreatedAt, &g.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan group: %w", err)
		}
		out = append(out, &g)
	}
	return out, rows.Err()
}

// SaveGroups reemplaza los grupos del negocio. Borrar un grupo borra sus privilegios (ON DELETE CASCADE).
func (r *GroupRepo) SaveGroups(ctx context.Context, businessID string, groups []*entity.Group) error {
	return inTx(ctx, r.q, func(tx pgx.Tx) error {
		ids := make([]string, 0, len(groups))
		for _, g := range groups {
			ids = append(ids, g.ID)
		}
		if _, err := tx.Exec(ctx, `DELETE FROM groups WHERE business_id = $1 AND NOT (id = ANY($2))`, businessID, ids); err != nil {
			return fmt.Errorf("delete groups: %w", err)
		}
		query := `
			INSERT INTO groups (id, business_id, name, description, created_at, updated_at)
			VALUES ($1, $2, $3, $4, $5, $6)
			ON CONFLICT (id) DO UPDATE SET
				name = EXCLUDED.name,
				description = EXCLUDED.description,
				updated_at = EXCLUDED.updated_at`
		for _, g := range groups {
			if _, err := tx.Exec(ctx, query, g.ID, businessID, g.Name, g.Description, g.CreatedAt, g.UpdatedAt); err != nil {
				if isUniqueViolation(err) {
					return domain.ErrDuplicateName
				}
				return fmt.Errorf("upsert group %s: %w", g.ID, err)
			}
		}
		return nil
	})
}

// LoadGroupPrivileges privilegios asignados a los grupos del negocio.
func (r *GroupRepo) LoadGroupPrivileges(ctx context.Context, businessID string) ([]entity.GroupPrivilege, error) {
	query := `
		SELECT group_id, privilege_id, business_id
		FROM group_privileges WHERE business_id = $1 ORDER BY group_id, privilege_id`
	rows, err := r.q.Query(ctx, query, businessID)
	if err != nil {
		return nil, fmt.Errorf("list group privileges: %w", err)
	}
	defer rows.Close()

	out := make([]entity.GroupPrivilege, 0)
	for rows.Next() {
		var gp entity.GroupPrivilege
		if err := rows.Scan(&gp.GroupID, &gp.PrivilegeID, &gp.BusinessID); err != nil {
			return nil, fmt.Errorf("scan group privilege: %w", err)
		}
		out = append(out, gp)
	}
	return out, rows.Err()
}

// SaveGroupPrivileges reemplaza todas las asignaciones del negocio.
func (r *GroupRepo) SaveGroupPrivileges(ctx context.Context, businessID string, grants []entity.GroupPrivilege) error {
	return inTx(ctx, r.q, func(tx pgx.Tx) error {
		if _, err := tx.Exec(ctx, `DELETE FROM group_privileges WHERE business_id = $1`, businessID); err != nil {
			return fmt.Errorf("delete group privileges: %w", err)
		}
		if len(grants) == 0 {
			return nil
		}
		rows := make([][]any, 0, len(grants))
		for _, gp := range grants {
			rows = append(rows, []any{gp.GroupID, gp.PrivilegeID, businessID})
		}
		_, err := tx.CopyFrom(ctx,
			pgx.Identifier{"group_privileges"},
			[]string{"group_id", "privilege_id", "business_id"},
			pgx.CopyFromRows(rows),
		)
		if err != nil {
			return fmt.Errorf("insert group privileges: %w", err)
		}
		return nil
	})
}
