// Package memory implementa todos los puertos de persistencia en memoria del proceso.
// Es el almacenamiento por defecto en desarrollo y el que usan los tests (con inyección de fallos).
package memory

import (
	"context"
	"fmt"
	"sync"

	"github.com/jhoicas/pos-backoffice/internal/domain"
	"github.com/jhoicas/pos-backoffice/internal/domain/entity"
	"github.com/jhoicas/pos-backoffice/internal/domain/repository"
)

var (
	_ repository.UserRepository     = (*Store)(nil)
	_ repository.GroupRepository    = (*Store)(nil)
	_ repository.BusinessRepository = (*Store)(nil)
	_ repository.PackageRepository  = (*Store)(nil)
	_ repository.AdminRepository    = (*Store)(nil)
	_ repository.SessionRepository  = (*Store)(nil)
	_ repository.TenantTxRunner     = (*Store)(nil)
	_ repository.BusinessTxRunner   = (*Store)(nil)
)

// Op identifica una operación del store para inyectar fallos.
type Op string

// Operaciones sobre las que se pueden inyectar fallos.
const (
	OpLoadUsers      Op = "load_users"
	OpSaveUsers      Op = "save_users"
	OpLoadGroups     Op = "load_groups"
	OpSaveGroups     Op = "save_groups"
	OpLoadGrants     Op = "load_group_privileges"
	OpSaveGrants     Op = "save_group_privileges"
	OpLoadBusinesses Op = "load_businesses"
	OpSaveBusinesses Op = "save_businesses"
	OpLoadPackages   Op = "load_packages"
	OpSavePackages   Op = "save_packages"
	OpLoadAdminHash  Op = "load_admin_hash"
	OpSaveAdminHash  Op = "save_admin_hash"
	OpLoadPointer    Op = "load_pointer"
	OpSavePointer    Op = "save_pointer"
)

// Store guarda copias profundas: nada de lo que devuelve comparte memoria con su estado interno.
type Store struct {
	mu         sync.Mutex
	bizMu      sync.Mutex // RunBusiness
	users      map[string][]*entity.User
	groups     map[string][]*entity.Group
	grants     map[string][]entity.GroupPrivilege
	businesses []*entity.Business
	packages   []*entity.SubscriptionPackage
	adminHash  string
	pointers   map[string]string
	failures   map[Op]error
}

// New crea un store vacío.
func New() *Store {
	return &Store{
		users:    make(map[string][]*entity.User),
		groups:   make(map[string][]*entity.Group),
		grants:   make(map[string][]entity.GroupPrivilege),
		pointers: make(map[string]string),
		failures: make(map[Op]error),
	}
}

// FailOn hace que la operación falle con err hasta que se llame ClearFailures.
func (s *Store) FailOn(op Op, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failures[op] = err
}

// ClearFailures elimina los fallos inyectados.
func (s *Store) ClearFailures() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failures = make(map[Op]error)
}

// fail requiere s.mu tomado.
func (s *Store) fail(op Op) error {
	if err, ok := s.failures[op]; ok {
		return fmt.Errorf("memory %s: %w", op, err)
	}
	return nil
}

// ── usuarios ─────────────────────────────────────────────────────────────────

func (s *Store) LoadUsers(_ context.Context, businessID string) ([]*entity.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.fail(OpLoadUsers); err != nil {
		return nil, err
	}
	return cloneUsers(s.users[businessID]), nil
}

func (s *Store) SaveUsers(_ context.Context, businessID string, users []*entity.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.fail(OpSaveUsers); err != nil {
		return err
	}
	s.users[businessID] = cloneUsers(users)
	return nil
}

// ── grupos ───────────────────────────────────────────────────────────────────

func (s *Store) LoadGroups(_ context.Context, businessID string) ([]*entity.Group, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.fail(OpLoadGroups); err != nil {
		return nil, err
	}
	return cloneGroups(s.groups[businessID]), nil
}

func (s *Store) SaveGroups(_ context.Context, businessID string, groups []*entity.Group) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.fail(OpSaveGroups); err != nil {
		return err
	}
	s.groups[businessID] = cloneGroups(groups)
	return nil
}

func (s *Store) LoadGroupPrivileges(_ context.Context, businessID string) ([]entity.GroupPrivilege, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.fail(OpLoadGrants); err != nil {
		return nil, err
	}
	return cloneGrants(s.grants[businessID]), nil
}

func (s *Store) SaveGroupPrivileges(_ context.Context, businessID string, grants []entity.GroupPrivilege) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.fail(OpSaveGrants); err != nil {
		return err
	}
	s.grants[businessID] = cloneGrants(grants)
	return nil
}

// ── negocios y paquetes ──────────────────────────────────────────────────────

func (s *Store) LoadBusinesses(_ context.Context) ([]*entity.Business, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.fail(OpLoadBusinesses); err != nil {
		return nil, err
	}
	return cloneBusinesses(s.businesses), nil
}

func (s *Store) GetBusiness(_ context.Context, id string) (*entity.Business, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.fail(OpLoadBusinesses); err != nil {
		return nil, err
	}
	if i := s.businessIndex(id); i >= 0 {
		return s.businesses[i].Clone(), nil
	}
	return nil, domain.ErrNotFound
}

// SaveBusiness inserta o reemplaza un negocio. OpSaveBusinesses también hace fallar DeleteBusiness.
func (s *Store) SaveBusiness(_ context.Context, business *entity.Business) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.fail(OpSaveBusinesses); err != nil {
		return err
	}
	if i := s.businessIndex(business.ID); i >= 0 {
		s.businesses[i] = business.Clone()
		return nil
	}
	s.businesses = append(s.businesses, business.Clone())
	return nil
}

func (s *Store) DeleteBusiness(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.fail(OpSaveBusinesses); err != nil {
		return err
	}
	i := s.businessIndex(id)
	if i < 0 {
		return domain.ErrNotFound
	}
	s.businesses = append(s.businesses[:i:i], s.businesses[i+1:]...)
	return nil
}

// RunBusiness serializa fn entre todos los usuarios del store. Las escrituras de fn son de una sola
// operación, así que no hace falta stage: si fallan no se aplica nada.
func (s *Store) RunBusiness(_ context.Context, _ string, fn func(repo repository.BusinessRepository) error) error {
	s.bizMu.Lock()
	defer s.bizMu.Unlock()
	return fn(s)
}

// businessIndex requiere s.mu tomado.
func (s *Store) businessIndex(id string) int {
	for i, b := range s.businesses {
		if b.ID == id {
			return i
		}
	}
	return -1
}

func (s *Store) LoadPackages(_ context.Context) ([]*entity.SubscriptionPackage, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.fail(OpLoadPackages); err != nil {
		return nil, err
	}
	return clonePackages(s.packages), nil
}

func (s *Store) SavePackages(_ context.Context, packages []*entity.SubscriptionPackage) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.fail(OpSavePackages); err != nil {
		return err
	}
	s.packages = clonePackages(packages)
	return nil
}

// ── super-admin y sesión ─────────────────────────────────────────────────────

func (s *Store) LoadSuperAdminHash(_ context.Context) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.fail(OpLoadAdminHash); err != nil {
		return "", err
	}
	return s.adminHash, nil
}

func (s *Store) SaveSuperAdminHash(_ context.Context, hash string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.fail(OpSaveAdminHash); err != nil {
		return err
	}
	s.adminHash = hash
	return nil
}

func (s *Store) GetManagingBusinessID(_ context.Context, ownerID string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.fail(OpLoadPointer); err != nil {
		return "", err
	}
	return s.pointers[ownerID], nil
}

func (s *Store) SaveManagingBusinessID(_ context.Context, ownerID, businessID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.fail(OpSavePointer); err != nil {
		return err
	}
	if businessID == "" {
		delete(s.pointers, ownerID)
		return nil
	}
	s.pointers[ownerID] = businessID
	return nil
}
