package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	goredis "github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/jhoicas/pos-backoffice/internal/domain/repository"
	"github.com/jhoicas/pos-backoffice/pkg/config"
)

var _ repository.SessionRepository = (*PointerStore)(nil)

const keyPrefix = "pos:managing_business:"

// NewClient abre la conexión y verifica con PING.
func NewClient(ctx context.Context, cfg config.RedisConfig) (*goredis.Client, error) {
	client := goredis.NewClient(&goredis.Options{
		Addr:     cfg.Addr(),
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("conectar a redis %s: %w", cfg.Addr(), err)
	}
	return client, nil
}

// PointerStore guarda en Redis el negocio administrado por cada dueño. El valor expira tras ttl
// sin escrituras; ttl <= 0 lo deja sin vencimiento.
type PointerStore struct {
	client goredis.Cmdable
	ttl    time.Duration
	log    zerolog.Logger
}

// NewPointerStore construye el adaptador.
func NewPointerStore(client goredis.Cmdable, ttl time.Duration, log zerolog.Logger) *PointerStore {
	return &PointerStore{client: client, ttl: ttl, log: log}
}

// Key clave Redis del puntero de ownerID.
func Key(ownerID string) string { return keyPrefix + ownerID }

// GetManagingBusinessID negocio administrado; "" si no hay o venció.
func (s *PointerStore) GetManagingBusinessID(ctx context.Context, ownerID string) (string, error) {
	val, err := s.client.Get(ctx, Key(ownerID)).Result()
	if errors.Is(err, goredis.Nil) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("leer puntero de %s: %w", ownerID, err)
	}
	return val, nil
}

// SaveManagingBusinessID guarda el puntero; businessID vacío lo borra.
func (s *PointerStore) SaveManagingBusinessID(ctx context.Context, ownerID, businessID string) error {
	if businessID == "" {
		if err := s.client.Del(ctx, Key(ownerID)).Err(); err != nil {
			return fmt.Errorf("borrar puntero de %s: %w", ownerID, err)
		}
		s.log.Debug().Str("owner_id", ownerID).Msg("puntero de negocio borrado")
		return nil
	}
	if err := s.client.Set(ctx, Key(ownerID), businessID, s.ttl).Err(); err != nil {
		return fmt.Errorf("guardar puntero de %s: %w", ownerID, err)
	}
	s.log.Debug().Str("owner_id", ownerID).Str("business_id", businessID).Msg("puntero de negocio guardado")
	return nil
}
