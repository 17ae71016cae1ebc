package redis_test

import (
	"context"
	"errors"
	"testing"
	"time"

	goredis "github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/pos-backoffice/internal/infrastructure/redis"
)

// fakeRedis implementa solo los comandos que usa PointerStore.
type fakeRedis struct {
	goredis.Cmdable
	data    map[string]string
	lastTTL time.Duration
	err     error
}

func newFakeRedis() *fakeRedis { return &fakeRedis{data: map[string]string{}} }

func (f *fakeRedis) Get(_ context.Context, key string) *goredis.StringCmd {
	if f.err != nil {
		return goredis.NewStringResult("", f.err)
	}
	v, ok := f.data[key]
	if !ok {
		return goredis.NewStringResult("", goredis.Nil)
	}
	return goredis.NewStringResult(v, nil)
}

func (f *fakeRedis) Set(_ context.Context, key string, value interface{}, ttl time.Duration) *goredis.StatusCmd {
	if f.err != nil {
		return goredis.NewStatusResult("", f.err)
	}
	f.data[key] = value.(string)
	f.lastTTL = ttl
	return goredis.NewStatusResult("OK", nil)
}

func (f *fakeRedis) Del(_ context.Context, keys ...string) *goredis.IntCmd {
	var n int64
	for _, k := range keys {
		if _, ok := f.data[k]; ok {
			delete(f.data, k)
			n++
		}
	}
	return goredis.NewIntResult(n, nil)
}

func TestPointerStore_GuardarLeerBorrar(t *testing.T) {
	ctx := context.Background()
	fake := newFakeRedis()
	s := redis.NewPointerStore(fake, time.Hour, zerolog.Nop())

	got, err := s.GetManagingBusinessID(ctx, "usr-super-admin")
	require.NoError(t, err)
	assert.Empty(t, got, "sin clave no hay puntero")

	require.NoError(t, s.SaveManagingBusinessID(ctx, "usr-super-admin", "biz-1"))
	assert.Equal(t, "biz-1", fake.data[redis.Key("usr-super-admin")])
	assert.Equal(t, time.Hour, fake.lastTTL)

	got, err = s.GetManagingBusinessID(ctx, "usr-super-admin")
	require.NoError(t, err)
	assert.Equal(t, "biz-1", got)

	require.NoError(t, s.SaveManagingBusinessID(ctx, "usr-super-admin", ""))
	assert.Empty(t, fake.data)
}

func TestPointerStore_ErrorDeRedisSePropaga(t *testing.T) {
	ctx := context.Background()
	fake := newFakeRedis()
	fake.err = errors.New("connection refused")
	s := redis.NewPointerStore(fake, 0, zerolog.Nop())

	_, err := s.GetManagingBusinessID(ctx, "usr-super-admin")
	assert.ErrorIs(t, err, fake.err)
	assert.ErrorIs(t, s.SaveManagingBusinessID(ctx, "usr-super-admin", "biz-1"), fake.err)
}
