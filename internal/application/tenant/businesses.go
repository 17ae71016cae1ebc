package tenant

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/jhoicas/pos-backoffice/internal/domain"
	"github.com/jhoicas/pos-backoffice/internal/domain/entity"
	"github.com/jhoicas/pos-backoffice/internal/domain/repository"
)

// BusinessBook listado global de negocios. No guarda copia propia: cada lectura va al repositorio y
// cada mutación relee el negocio dentro de RunBusiness, que lo bloquea también entre instancias.
// Así dos llamadas concurrentes nunca observan el mismo consecutivo, estén o no en el mismo proceso.
type BusinessBook struct {
	mu   sync.Mutex // evita contención sobre el lock del repositorio dentro del proceso
	repo repository.BusinessRepository
	tx   repository.BusinessTxRunner
}

// NewBusinessBook construye el libro sobre los puertos de persistencia.
func NewBusinessBook(repo repository.BusinessRepository, tx repository.BusinessTxRunner) *BusinessBook {
	return &BusinessBook{repo: repo, tx: tx}
}

// List devuelve todos los negocios.
func (b *BusinessBook) List(ctx context.Context) ([]*entity.Business, error) {
	list, err := b.repo.LoadBusinesses(ctx)
	if err != nil {
		return nil, fmt.Errorf("cargar negocios: %w", err)
	}
	return list, nil
}

// Get devuelve el negocio o domain.ErrNotFound.
func (b *BusinessBook) Get(ctx context.Context, id string) (*entity.Business, error) {
	biz, err := b.repo.GetBusiness(ctx, id)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("cargar negocio %s: %w", id, err)
	}
	return biz, nil
}

// Add agrega un negocio nuevo y persiste.
func (b *BusinessBook) Add(ctx context.Context, biz *entity.Business) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.tx.RunBusiness(ctx, biz.ID, func(repo repository.BusinessRepository) error {
		_, err := repo.GetBusiness(ctx, biz.ID)
		switch {
		case err == nil:
			return domain.ErrDuplicateName
		case !errors.Is(err, domain.ErrNotFound):
			return fmt.Errorf("cargar negocio %s: %w", biz.ID, err)
		}
		if err := repo.SaveBusiness(ctx, biz.Clone()); err != nil {
			return fmt.Errorf("guardar negocio: %w", err)
		}
		return nil
	})
}

// Remove elimina un negocio y persiste.
func (b *BusinessBook) Remove(ctx context.Context, id string) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.tx.RunBusiness(ctx, id, func(repo repository.BusinessRepository) error {
		if err := repo.DeleteBusiness(ctx, id); err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				return domain.ErrNotFound
			}
			return fmt.Errorf("eliminar negocio: %w", err)
		}
		return nil
	})
}

// Update relee el negocio, aplica fn sobre él y persiste. Si fn o la persistencia fallan el negocio
// queda como estaba. Devuelve la copia actualizada.
func (b *BusinessBook) Update(ctx context.Context, id string, fn func(biz *entity.Business) error) (*entity.Business, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.update(ctx, id, func(biz *entity.Business) (bool, error) {
		return true, fn(biz)
	})
}

// UpdateAll aplica fn a cada negocio (fn devuelve true si lo modificó). Cada negocio se relee y se
// persiste por separado; ante un error se devuelven los ya guardados junto con el error.
func (b *BusinessBook) UpdateAll(ctx context.Context, fn func(biz *entity.Business) bool) ([]*entity.Business, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	list, err := b.repo.LoadBusinesses(ctx)
	if err != nil {
		return nil, fmt.Errorf("cargar negocios: %w", err)
	}
	var changed []*entity.Business
	for _, biz := range list {
		updated, err := b.update(ctx, biz.ID, func(c *entity.Business) (bool, error) {
			return fn(c), nil
		})
		if errors.Is(err, domain.ErrNotFound) {
			continue // eliminado por otra instancia
		}
		if err != nil {
			return changed, err
		}
		if updated != nil {
			changed = append(changed, updated)
		}
	}
	return changed, nil
}

// update requiere b.mu tomado. Devuelve nil (sin error) si fn no modificó el negocio.
func (b *BusinessBook) update(ctx context.Context, id string, fn func(biz *entity.Business) (bool, error)) (*entity.Business, error) {
	var out *entity.Business
	err := b.tx.RunBusiness(ctx, id, func(repo repository.BusinessRepository) error {
		biz, err := repo.GetBusiness(ctx, id)
		if err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				return domain.ErrNotFound
			}
			return fmt.Errorf("cargar negocio %s: %w", id, err)
		}
		changed, err := fn(biz)
		if err != nil || !changed {
			return err
		}
		if err := repo.SaveBusiness(ctx, biz); err != nil {
			return fmt.Errorf("guardar negocio: %w", err)
		}
		out = biz.Clone()
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}
