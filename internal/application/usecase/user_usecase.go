package usecase

import (
	"context"
	"fmt"
	"strings"

	"github.com/rs/zerolog"

	"github.com/jhoicas/pos-backoffice/internal/application/credential"
	"github.com/jhoicas/pos-backoffice/internal/application/dto"
	"github.com/jhoicas/pos-backoffice/internal/application/tenant"
	"github.com/jhoicas/pos-backoffice/internal/domain"
	"github.com/jhoicas/pos-backoffice/internal/domain/entity"
	"github.com/jhoicas/pos-backoffice/pkg/idgen"
)

// UserUseCase aplica reglas de negocio para usuarios. No valida quién llama: eso lo hace la sesión.
type UserUseCase struct {
	clock
	tenants *tenant.Registry
	hasher  credential.Hasher
	log     zerolog.Logger
}

// NewUserUseCase construye el caso de uso con el registro de negocios y el hasher de contraseñas.
func NewUserUseCase(tenants *tenant.Registry, hasher credential.Hasher, log zerolog.Logger) *UserUseCase {
	return &UserUseCase{tenants: tenants, hasher: hasher, log: log}
}

// CreateUser crea un usuario en el negocio. El rol por defecto es vendedor.
// Devuelve domain.ErrReservedUsername para "admin" y domain.ErrDuplicateUsername si el nombre ya existe.
func (uc *UserUseCase) CreateUser(ctx context.Context, businessID string, in dto.CreateUserRequest) (*dto.UserResponse, error) {
	username := strings.TrimSpace(in.Username)
	if username == "" {
		return nil, fmt.Errorf("%w: el nombre de usuario es obligatorio", domain.ErrInvalidInput)
	}
	if entity.IsReservedUsername(username) {
		return nil, domain.ErrReservedUsername
	}
	if in.Password == "" {
		return nil, fmt.Errorf("%w: la contraseña es obligatoria", domain.ErrInvalidInput)
	}
	role := strings.TrimSpace(in.Role)
	if role == "" {
		role = entity.RoleSeller
	}
	if !entity.ValidRole(role) {
		return nil, fmt.Errorf("%w: rol %q no permitido", domain.ErrInvalidInput, role)
	}

	ws, err := uc.tenants.Open(ctx, businessID)
	if err != nil {
		return nil, err
	}
	// hash fuera del lock del negocio: bcrypt es lento
	hash, err := uc.hasher.Hash(in.Password)
	if err != nil {
		return nil, err
	}
	now := uc.Now()
	user := &entity.User{
		ID:           idgen.New(idgen.PrefixUser),
		BusinessID:   businessID,
		Username:     username,
		PasswordHash: hash,
		Role:         role,
		GroupID:      strings.TrimSpace(in.GroupID),
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	err = ws.Mutate(ctx, tenant.ScopeUsers, func(st *tenant.State) error {
		if usernameTaken(st.Users, username, "") {
			return domain.ErrDuplicateUsername
		}
		if user.GroupID != "" && findGroup(st.Groups, user.GroupID) == nil {
			return fmt.Errorf("%w: el grupo no existe", domain.ErrInvalidInput)
		}
		st.Users = append(st.Users, user)
		return nil
	})
	if err != nil {
		return nil, err
	}
	uc.log.Info().Str("business_id", businessID).Str("user_id", user.ID).Str("role", role).Msg("usuario creado")
	return ToUserResponse(user), nil
}

// UpdateUser aplica un patch. Una contraseña ausente o vacía conserva el hash actual.
func (uc *UserUseCase) UpdateUser(ctx context.Context, businessID, userID string, in dto.UpdateUserRequest) (*dto.UserResponse, error) {
	var username, role string
	if in.Username != nil {
		username = strings.TrimSpace(*in.Username)
		if username == "" {
			return nil, fmt.Errorf("%w: el nombre de usuario es obligatorio", domain.ErrInvalidInput)
		}
		if entity.IsReservedUsername(username) {
			return nil, domain.ErrReservedUsername
		}
	}
	if in.Role != nil {
		role = strings.TrimSpace(*in.Role)
		if !entity.ValidRole(role) {
			return nil, fmt.Errorf("%w: rol %q no permitido", domain.ErrInvalidInput, role)
		}
	}
	var hash string
	if in.Password != nil && *in.Password != "" {
		h, err := uc.hasher.Hash(*in.Password)
		if err != nil {
			return nil, err
		}
		hash = h
	}

	ws, err := uc.tenants.Open(ctx, businessID)
	if err != nil {
		return nil, err
	}
	var updated *entity.User
	err = ws.Mutate(ctx, tenant.ScopeUsers, func(st *tenant.State) error {
		u := findUser(st.Users, userID)
		if u == nil {
			return domain.ErrNotFound
		}
		if in.Username != nil {
			if usernameTaken(st.Users, username, userID) {
				return domain.ErrDuplicateUsername
			}
			u.Username = username
		}
		if hash != "" {
			u.PasswordHash = hash
		}
		if in.Role != nil {
			u.Role = role
		}
		if in.GroupID != nil {
			gid := strings.TrimSpace(*in.GroupID)
			if gid != "" && findGroup(st.Groups, gid) == nil {
				return fmt.Errorf("%w: el grupo no existe", domain.ErrInvalidInput)
			}
			u.GroupID = gid
		}
		u.UpdatedAt = uc.Now()
		updated = u.Clone()
		return nil
	})
	if err != nil {
		return nil, err
	}
	return ToUserResponse(updated), nil
}

// DeleteUser elimina un usuario. actorUserID es el usuario de la sesión que lo pide.
// Devuelve domain.ErrSelfDelete si es el mismo y domain.ErrLastManager si es el último gerente.
func (uc *UserUseCase) DeleteUser(ctx context.Context, businessID, actorUserID, userID string, confirm Confirmer) error {
	ws, err := uc.tenants.Open(ctx, businessID)
	if err != nil {
		return err
	}
	u := ws.User(userID)
	if u == nil {
		return domain.ErrNotFound
	}
	if err := checkUserDeletable(ws.Users(), u, actorUserID); err != nil {
		return err
	}
	if err := Confirmed(ctx, confirm, "eliminar usuario "+u.Username); err != nil {
		return err
	}

	err = ws.Mutate(ctx, tenant.ScopeUsers, func(st *tenant.State) error {
		target := findUser(st.Users, userID)
		if target == nil {
			return domain.ErrNotFound
		}
		if err := checkUserDeletable(st.Users, target, actorUserID); err != nil {
			return err
		}
		users := make([]*entity.User, 0, len(st.Users)-1)
		for _, x := range st.Users {
			if x.ID != userID {
				users = append(users, x)
			}
		}
		st.Users = users
		return nil
	})
	if err != nil {
		return err
	}
	uc.log.Info().Str("business_id", businessID).Str("user_id", userID).Str("actor_id", actorUserID).Msg("usuario eliminado")
	return nil
}

// ListUsers usuarios del negocio.
func (uc *UserUseCase) ListUsers(ctx context.Context, businessID string) ([]dto.UserResponse, error) {
	ws, err := uc.tenants.Open(ctx, businessID)
	if err != nil {
		return nil, err
	}
	users := ws.Users()
	out := make([]dto.UserResponse, 0, len(users))
	for _, u := range users {
		out = append(out, *ToUserResponse(u))
	}
	return out, nil
}

// GetUser un usuario del negocio.
func (uc *UserUseCase) GetUser(ctx context.Context, businessID, userID string) (*dto.UserResponse, error) {
	ws, err := uc.tenants.Open(ctx, businessID)
	if err != nil {
		return nil, err
	}
	u := ws.User(userID)
	if u == nil {
		return nil, domain.ErrNotFound
	}
	return ToUserResponse(u), nil
}

func checkUserDeletable(users []*entity.User, target *entity.User, actorUserID string) error {
	if target.ID == actorUserID {
		return domain.ErrSelfDelete
	}
	if !target.IsManager() {
		return nil
	}
	managers := 0
	for _, u := range users {
		if u.IsManager() {
			managers++
		}
	}
	if managers <= 1 {
		return domain.ErrLastManager
	}
	return nil
}

func findUser(users []*entity.User, id string) *entity.User {
	for _, u := range users {
		if u.ID == id {
			return u
		}
	}
	return nil
}

func usernameTaken(users []*entity.User, username, exceptID string) bool {
	for _, u := range users {
		if u.ID != exceptID && entity.SameName(u.Username, username) {
			return true
		}
	}
	return false
}
