package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/pos-backoffice/internal/domain/repository"
)

var (
	_ repository.AdminRepository   = (*SettingsRepo)(nil)
	_ repository.SessionRepository = (*SettingsRepo)(nil)
)

const (
	keySuperAdminHash   = "super_admin_hash"
	keyManagingBusiness = "managing_business:"
)

// SettingsRepo valores sueltos clave/valor: digest del super-admin y negocio administrado
// (cuando no hay Redis).
type SettingsRepo struct {
	q Querier
}

// NewSettingsRepository construye el adaptador. Pasar pool o tx (Querier).
func NewSettingsRepository(q Querier) *SettingsRepo {
	return &SettingsRepo{q: q}
}

// LoadSuperAdminHash digest guardado; "" si nunca se guardó.
func (r *SettingsRepo) LoadSuperAdminHash(ctx context.Context) (string, error) {
	return r.get(ctx, keySuperAdminHash)
}

// SaveSuperAdminHash guarda el digest del super-admin.
func (r *SettingsRepo) SaveSuperAdminHash(ctx context.Context, hash string) error {
	return r.set(ctx, keySuperAdminHash, hash)
}

// GetManagingBusinessID negocio administrado por ownerID; "" si no hay.
func (r *SettingsRepo) GetManagingBusinessID(ctx context.Context, ownerID string) (string, error) {
	return r.get(ctx, keyManagingBusiness+ownerID)
}

// SaveManagingBusinessID guarda o, con businessID vacío, borra el negocio administrado.
func (r *SettingsRepo) SaveManagingBusinessID(ctx context.Context, ownerID, businessID string) error {
	if businessID == "" {
		if _, err := r.q.Exec(ctx, `DELETE FROM app_settings WHERE key = $1`, keyManagingBusiness+ownerID); err != nil {
			return fmt.Errorf("delete setting: %w", err)
		}
		return nil
	}
	return r.set(ctx, keyManagingBusiness+ownerID, businessID)
}

func (r *SettingsRepo) get(ctx context.Context, key string) (string, error) {
	var v string
	err := r.q.QueryRow(ctx, `SELECT value FROM app_settings WHERE key = $1`, key).Scan(&v)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return "", nil
		}
		return "", fmt.Errorf("get setting %s: %w", key, err)
	}
	return v, nil
}

func (r *SettingsRepo) set(ctx context.Context, key, value string) error {
	query := `
		INSERT INTO app_settings (key, value) VALUES ($1, $2)
		ON CONFLICT (key) DO UPDATE SET value = EXCLUDED.value`
	if _, err := r.q.Exec(ctx, query, key, value); err != nil {
		return fmt.Errorf("set setting %s: %w", key, err)
	}
	return nil
}
