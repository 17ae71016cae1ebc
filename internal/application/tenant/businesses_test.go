package tenant_test

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/pos-backoffice/internal/application/tenant"
	"github.com/jhoicas/pos-backoffice/internal/domain"
	"github.com/jhoicas/pos-backoffice/internal/domain/entity"
	"github.com/jhoicas/pos-backoffice/internal/infrastructure/memory"
)

// ──────────────────────────────────────────────────────────────────────────────
// BusinessBook
// ──────────────────────────────────────────────────────────────────────────────

func newBook(t *testing.T) (*tenant.BusinessBook, *memory.Store) {
	t.Helper()
	store := memory.New()
	book := tenant.NewBusinessBook(store, store)
	require.NoError(t, book.Add(context.Background(), &entity.Business{
		ID: "biz-1", Name: "Tienda", IsActive: true, FiscalYear: 2024, Seeds: entity.NewSeeds(),
	}))
	return book, store
}

func TestBook_GetInexistente(t *testing.T) {
	book, _ := newBook(t)
	_, err := book.Get(context.Background(), "biz-x")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestBook_UpdateTomaConsecutivo(t *testing.T) {
	ctx := context.Background()
	book, store := newBook(t)

	var got int64
	_, err := book.Update(ctx, "biz-1", func(b *entity.Business) error {
		v, err := b.Take(entity.CounterInvoice)
		got = v
		return err
	})
	require.NoError(t, err)
	assert.Equal(t, int64(1), got)

	persisted, err := store.GetBusiness(ctx, "biz-1")
	require.NoError(t, err)
	assert.Equal(t, int64(2), persisted.Seeds[entity.CounterInvoice])
}

func TestBook_FalloDeGuardadoRestaura(t *testing.T) {
	ctx := context.Background()
	book, store := newBook(t)
	store.FailOn(memory.OpSaveBusinesses, errDisk)

	_, err := book.Update(ctx, "biz-1", func(b *entity.Business) error {
		_, err := b.Take(entity.CounterInvoice)
		return err
	})
	require.ErrorIs(t, err, errDisk)

	biz, err := book.Get(ctx, "biz-1")
	require.NoError(t, err)
	assert.Equal(t, int64(1), biz.Seeds[entity.CounterInvoice], "el consecutivo no avanzó")
}

func TestBook_ConsecutivosUnicosEnConcurrencia(t *testing.T) {
	ctx := context.Background()
	book, _ := newBook(t)

	const n = 50
	var (
		wg   sync.WaitGroup
		mu   sync.Mutex
		seen = make(map[int64]bool)
	)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			var v int64
			_, err := book.Update(ctx, "biz-1", func(b *entity.Business) error {
				var err error
				v, err = b.Take(entity.CounterLocalSaleInvoice)
				return err
			})
			if err != nil {
				return
			}
			mu.Lock()
			seen[v] = true
			mu.Unlock()
		}()
	}
	wg.Wait()

	assert.Len(t, seen, n)
	for i := int64(1); i <= n; i++ {
		assert.True(t, seen[i], "falta el consecutivo %d", i)
	}
}

func TestBook_RemoveYUpdateAll(t *testing.T) {
	ctx := context.Background()
	book, _ := newBook(t)
	require.NoError(t, book.Add(ctx, &entity.Business{ID: "biz-2", Name: "Otra", IsActive: true, Seeds: entity.NewSeeds()}))
	assert.ErrorIs(t, book.Add(ctx, &entity.Business{ID: "biz-2"}), domain.ErrDuplicateName)

	changed, err := book.UpdateAll(ctx, func(b *entity.Business) bool {
		if b.ID != "biz-2" {
			return false
		}
		b.IsActive = false
		return true
	})
	require.NoError(t, err)
	require.Len(t, changed, 1)
	assert.Equal(t, "biz-2", changed[0].ID)

	require.NoError(t, book.Remove(ctx, "biz-2"))
	assert.ErrorIs(t, book.Remove(ctx, "biz-2"), domain.ErrNotFound)

	list, err := book.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "biz-1", list[0].ID)
}

func TestBook_DosInstanciasSobreElMismoAlmacen(t *testing.T) {
	ctx := context.Background()
	a, store := newBook(t)
	b := tenant.NewBusinessBook(store, store)

	take := func(book *tenant.BusinessBook) int64 {
		var v int64
		_, err := book.Update(ctx, "biz-1", func(biz *entity.Business) error {
			var err error
			v, err = biz.Take(entity.CounterInvoice)
			return err
		})
		require.NoError(t, err)
		return v
	}
	assert.Equal(t, int64(1), take(a))
	assert.Equal(t, int64(2), take(b), "la segunda instancia relee el consecutivo")

	require.NoError(t, a.Add(ctx, &entity.Business{ID: "biz-2", Name: "Otra", IsActive: true, Seeds: entity.NewSeeds()}))
	assert.Equal(t, int64(3), take(b))

	list, err := store.LoadBusinesses(ctx)
	require.NoError(t, err)
	assert.Len(t, list, 2, "escribir un negocio no borra los que agregó otra instancia")

	_, err = b.Get(ctx, "biz-2")
	assert.NoError(t, err)
}

func TestBook_ConsecutivosUnicosEntreInstancias(t *testing.T) {
	ctx := context.Background()
	a, store := newBook(t)
	b := tenant.NewBusinessBook(store, store)

	const n = 40
	var (
		wg   sync.WaitGroup
		mu   sync.Mutex
		seen = make(map[int64]int)
	)
	for i := 0; i < n; i++ {
		book := a
		if i%2 == 1 {
			book = b
		}
		wg.Add(1)
		go func() {
			defer wg.Done()
			var v int64
			_, err := book.Update(ctx, "biz-1", func(biz *entity.Business) error {
				var err error
				v, err = biz.Take(entity.CounterInvoice)
				return err
			})
			if err != nil {
				return
			}
			mu.Lock()
			seen[v]++
			mu.Unlock()
		}()
	}
	wg.Wait()

	assert.Len(t, seen, n)
	for v, count := range seen {
		assert.Equal(t, 1, count, "consecutivo %d repetido", v)
	}
}

func TestBook_RemoveFallidoConservaNegocio(t *testing.T) {
	ctx := context.Background()
	book, store := newBook(t)
	store.FailOn(memory.OpSaveBusinesses, errDisk)

	require.ErrorIs(t, book.Remove(ctx, "biz-1"), errDisk)
	store.ClearFailures()
	_, err := book.Get(ctx, "biz-1")
	assert.NoError(t, err)
}
