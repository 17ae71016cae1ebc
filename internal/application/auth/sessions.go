package auth

import (
	"sync"
	"time"

	"github.com/jhoicas/pos-backoffice/pkg/idgen"
)

// Sessions sesiones abiertas en el proceso, indexadas por el ID que viaja como jti del token.
type Sessions struct {
	mu    sync.Mutex
	ttl   time.Duration
	now   func() time.Time
	items map[string]*Session
}

// NewSessions crea el registro; ttl es la vida de una sesión sin renovar.
func NewSessions(ttl time.Duration) *Sessions {
	return &Sessions{ttl: ttl, now: time.Now, items: make(map[string]*Session)}
}

// SetClock reemplaza el reloj (tests).
func (r *Sessions) SetClock(now func() time.Time) { r.now = now }

// Create abre una sesión nueva sin autenticar.
func (r *Sessions) Create() *Session {
	s := NewSession(idgen.New(idgen.PrefixSession))
	s.setExpiry(r.now().Add(r.ttl))
	r.mu.Lock()
	r.items[s.ID()] = s
	r.mu.Unlock()
	return s
}

// Get devuelve la sesión si existe y no expiró. Las expiradas se descartan.
func (r *Sessions) Get(id string) (*Session, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.items[id]
	if !ok {
		return nil, false
	}
	if r.now().After(s.ExpiresAt()) {
		delete(r.items, id)
		return nil, false
	}
	return s, true
}

func (r *Sessions) Remove(id string) {
	r.mu.Lock()
	delete(r.items, id)
	r.mu.Unlock()
}

// Sweep descarta las sesiones expiradas y devuelve cuántas eliminó.
func (r *Sessions) Sweep() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	now := r.now()
	n := 0
	for id, s := range r.items {
		if now.After(s.ExpiresAt()) {
			delete(r.items, id)
			n++
		}
	}
	return n
}

func (r *Sessions) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.items)
}
