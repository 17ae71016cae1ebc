package auth

import (
	"sync"
	"time"

	"github.com/jhoicas/pos-backoffice/internal/application/tenant"
	"github.com/jhoicas/pos-backoffice/internal/domain"
	"github.com/jhoicas/pos-backoffice/internal/domain/entity"
	"github.com/jhoicas/pos-backoffice/internal/domain/privilege"
)

// State estado de la sesión.
type State int

const (
	StateUnauthenticated State = iota
	StateSuperAdmin
	StateBusinessUser
)

func (s State) String() string {
	switch s {
	case StateSuperAdmin:
		return "super_admin"
	case StateBusinessUser:
		return "business_user"
	default:
		return "unauthenticated"
	}
}

// Session contexto de un usuario autenticado: quién es, qué negocio administra y qué puede hacer.
// Las transiciones las hace AuthUseCase; op las serializa y mu protege los campos.
type Session struct {
	id string
	op sync.Mutex
	mu sync.RWMutex

	state          State
	user           *entity.User
	businessID     string
	workspace      *tenant.Workspace
	privileges     privilege.Set
	saleInProgress bool
	expiresAt      time.Time
}

// snapshot contexto completo que se publica de una sola vez al terminar una transición.
type snapshot struct {
	state      State
	user       *entity.User
	businessID string
	workspace  *tenant.Workspace
	privileges privilege.Set
}

// NewSession crea una sesión sin autenticar.
func NewSession(id string) *Session {
	return &Session{id: id, privileges: privilege.NewSet()}
}

func (s *Session) ID() string { return s.id }

func (s *Session) State() State {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state
}

// User copia del usuario autenticado (nil sin autenticar).
func (s *Session) User() *entity.User {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.user.Clone()
}

// BusinessID negocio activo: el propio para usuarios de negocio, el administrado para el super-admin.
func (s *Session) BusinessID() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.businessID
}

// Workspace datos cargados del negocio activo (nil si no hay).
func (s *Session) Workspace() *tenant.Workspace {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.workspace
}

// Privileges copia del último conjunto de privilegios resuelto.
func (s *Session) Privileges() privilege.Set {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return privilege.NewSet(s.privileges.Slice()...)
}

// Can consulta el último conjunto resuelto. Para una decisión con datos al día usar AuthUseCase.Authorize.
func (s *Session) Can(privilegeID string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.privileges.Has(privilegeID)
}

func (s *Session) IsSuperAdmin() bool { return s.State() == StateSuperAdmin }

// IsManager informa si el usuario de negocio tiene rol gerente.
func (s *Session) IsManager() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state == StateBusinessUser && s.user.IsManager()
}

func (s *Session) SaleInProgress() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.saleInProgress
}

// MarkSaleInProgress marca o limpia la venta sin confirmar. Solo aplica a usuarios de negocio.
func (s *Session) MarkSaleInProgress(v bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state != StateBusinessUser {
		return domain.ErrForbidden
	}
	s.saleInProgress = v
	return nil
}

func (s *Session) ExpiresAt() time.Time {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.expiresAt
}

func (s *Session) setExpiry(t time.Time) {
	s.mu.Lock()
	s.expiresAt = t
	s.mu.Unlock()
}

func (s *Session) apply(next snapshot) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state = next.state
	s.user = next.user
	s.businessID = next.businessID
	s.workspace = next.workspace
	s.privileges = next.privileges
	if s.privileges == nil {
		s.privileges = privilege.NewSet()
	}
	s.saleInProgress = false
}

func (s *Session) current() snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return snapshot{
		state:      s.state,
		user:       s.user.Clone(),
		businessID: s.businessID,
		workspace:  s.workspace,
		privileges: s.privileges,
	}
}

// refresh actualiza usuario y privilegios sin tocar el resto del contexto.
func (s *Session) refresh(u *entity.User, privs privilege.Set) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.user = u
	s.privileges = privs
}

func (s *Session) reset() {
	s.apply(snapshot{state: StateUnauthenticated})
}
