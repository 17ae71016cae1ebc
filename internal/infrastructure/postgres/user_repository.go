package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/pos-backoffice/internal/domain"
	"github.com/jhoicas/pos-backoffice/internal/domain/entity"
	"github.com/jhoicas/pos-backoffice/internal/domain/repository"
)

var _ repository.UserRepository = (*UserRepo)(nil)

// UserRepo implementación del puerto UserRepository sobre PostgreSQL (usable con pool o tx).
type UserRepo struct {
	q Querier
}

// NewUserRepository construye el adaptador de persistencia para usuarios. Pasar pool o tx (Querier).
func NewUserRepository(q Querier) *UserRepo {
	return &UserRepo{q: q}
}

// LoadUsers usuarios del negocio.
func (r *UserRepo) LoadUsers(ctx context.Context, businessID string) ([]*entity.User, error) {
	query := `
		SELECT id, business_id, username, password_hash, role, COALESCE(group_id, ''), created_at, updated_at
		FROM users WHERE business_id = $1 ORDER BY created_at, id`
	rows, err := r.q.Query(ctx, query, businessID)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	defer rows.Close()

	out := make([]*entity.User, 0)
	for rows.Next() {
		var u entity.User
		if err := rows.Scan(
			&u.ID, &u.BusinessID, &u.Username, &u.PasswordHash, &u.Role, &u.GroupID,
			&u.CreatedAt, &u.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan user: %w", err)
		}
		out = append(out, &u)
	}
	return out, rows.Err()
}

// SaveUsers reemplaza los usuarios del negocio.
func (r *UserRepo) SaveUsers(ctx context.Context, businessID string, users []*entity.User) error {
	return inTx(ctx, r.q, func(tx pgx.Tx) error {
		ids := make([]string, 0, len(users))
		for _, u := range users {
			ids = append(ids, u.ID)
		}
		if _, err := tx.Exec(ctx, `DELETE FROM users WHERE business_id = $1 AND NOT (id = ANY($2))`, businessID, ids); err != nil {
			return fmt.Errorf("delete users: %w", err)
		}
		query := `
			INSERT INTO users (id, business_id, username, password_hash, role, group_id, created_at, updated_at)
			VALUES ($1, $2, $3, $4, $5, NULLIF($6, ''), $7, $8)
			ON CONFLICT (id) DO UPDATE SET
				username = EXCLUDED.username,
				password_hash = EXCLUDED.password_hash,
				role = EXCLUDED.role,
				group_id = EXCLUDED.group_id,
				updated_at = EXCLUDED.updated_at`
		for _, u := range users {
			_, err := tx.Exec(ctx, query,
				u.ID, businessID, u.Username, u.PasswordHash, u.Role, u.GroupID, u.CreatedAt, u.UpdatedAt,
			)
			if err != nil {
				if isUniqueViolation(err) {
					return domain.ErrDuplicateUsername
				}
				return fmt.Errorf("upsert user %s: %w", u.ID, err)
			}
		}
		return nil
	})
}
