package tenant

import (
	"context"
	"sync"

	"github.com/jhoicas/pos-backoffice/internal/domain/repository"
)

// Registry comparte un Workspace por negocio entre todas las sesiones que lo usan.
type Registry struct {
	mu     sync.Mutex
	book   *BusinessBook
	users  repository.UserRepository
	groups repository.GroupRepository
	tx     repository.TenantTxRunner
	spaces map[string]*Workspace
}

// NewRegistry construye el registro con los puertos de persistencia. book valida que el negocio exista
// antes de abrir su workspace.
func NewRegistry(book *BusinessBook, users repository.UserRepository, groups repository.GroupRepository, tx repository.TenantTxRunner) *Registry {
	return &Registry{
		book:   book,
		users:  users,
		groups: groups,
		tx:     tx,
		spaces: make(map[string]*Workspace),
	}
}

// Open devuelve el workspace del negocio, cargándolo si aún no está en memoria.
// Devuelve domain.ErrNotFound si el negocio no existe. Si la carga falla no se registra nada.
func (r *Registry) Open(ctx context.Context, businessID string) (*Workspace, error) {
	r.mu.Lock()
	if ws, ok := r.spaces[businessID]; ok {
		r.mu.Unlock()
		return ws, nil
	}
	r.mu.Unlock()

	ws, err := r.load(ctx, businessID)
	if err != nil {
		return nil, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if existing, ok := r.spaces[businessID]; ok {
		return existing, nil
	}
	r.spaces[businessID] = ws
	return ws, nil
}

// Evict descarta el workspace en memoria (p. ej. al eliminar el negocio).
func (r *Registry) Evict(businessID string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.spaces, businessID)
}

func (r *Registry) load(ctx context.Context, businessID string) (*Workspace, error) {
	if _, err := r.book.Get(ctx, businessID); err != nil {
		return nil, err
	}
	st, err := loadState(ctx, businessID, r.users, r.groups)
	if err != nil {
		return nil, err
	}
	return &Workspace{
		businessID: businessID,
		state:      st,
		tx:         r.tx,
	}, nil
}
