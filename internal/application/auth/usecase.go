package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/rs/zerolog"

	"github.com/jhoicas/pos-backoffice/internal/application/credential"
	"github.com/jhoicas/pos-backoffice/internal/application/dto"
	"github.com/jhoicas/pos-backoffice/internal/application/tenant"
	"github.com/jhoicas/pos-backoffice/internal/application/usecase"
	"github.com/jhoicas/pos-backoffice/internal/domain"
	"github.com/jhoicas/pos-backoffice/internal/domain/entity"
	"github.com/jhoicas/pos-backoffice/internal/domain/privilege"
	"github.com/jhoicas/pos-backoffice/internal/domain/repository"
	"github.com/jhoicas/pos-backoffice/pkg/jwt"
)

// SuperAdminID ID fijo del super-admin (no pertenece a ningún negocio).
const SuperAdminID = "usr-super-admin"

// bootstrapPassword contraseña implícita del super-admin mientras no se guarde una propia.
const bootstrapPassword = "admin"

// JWTConfig configuración para generación de tokens.
type JWTConfig struct {
	Secret     string
	ExpMinutes int
	Issuer     string
}

// Deps dependencias de AuthUseCase.
type Deps struct {
	Businesses *tenant.BusinessBook
	Tenants    *tenant.Registry
	Groups     *usecase.GroupUseCase
	Admin      repository.AdminRepository
	Pointers   repository.SessionRepository
	Hasher     credential.Hasher
	Sessions   *Sessions
}

// AuthUseCase casos de uso de autenticación y de la máquina de estados de la sesión.
type AuthUseCase struct {
	Deps
	jwtCfg JWTConfig
	log    zerolog.Logger

	bootstrapOnce   sync.Once
	bootstrapDigest string
	bootstrapErr    error
}

// NewAuthUseCase construye el caso de uso de auth.
func NewAuthUseCase(d Deps, jwtCfg JWTConfig, log zerolog.Logger) *AuthUseCase {
	return &AuthUseCase{Deps: d, jwtCfg: jwtCfg, log: log}
}

// ──────────────────────────────────────────────────────────────────────────────
// Sesiones con token
// ──────────────────────────────────────────────────────────────────────────────

// Open crea una sesión, hace login y emite el token. Si el login falla la sesión se descarta.
func (uc *AuthUseCase) Open(ctx context.Context, in dto.LoginRequest) (*dto.LoginResponse, *Session, error) {
	sess := uc.Sessions.Create()
	if err := uc.Login(ctx, sess, in); err != nil {
		uc.Sessions.Remove(sess.ID())
		return nil, nil, err
	}
	token, err := uc.IssueToken(sess)
	if err != nil {
		uc.Sessions.Remove(sess.ID())
		return nil, nil, err
	}
	return &dto.LoginResponse{Token: token, Session: ToSessionResponse(sess)}, sess, nil
}

// Resolve valida el token y devuelve su sesión. domain.ErrUnauthorized si no es válido o la sesión ya no existe.
func (uc *AuthUseCase) Resolve(token string) (*Session, error) {
	id, err := jwt.Parse(uc.jwtCfg.Secret, token)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrUnauthorized, err)
	}
	sess, ok := uc.Sessions.Get(id.SessionID)
	if !ok || sess.State() == StateUnauthenticated {
		return nil, domain.ErrUnauthorized
	}
	return sess, nil
}

// Close hace logout y descarta la sesión.
func (uc *AuthUseCase) Close(ctx context.Context, sess *Session, confirm usecase.Confirmer) error {
	if err := uc.Logout(ctx, sess, confirm); err != nil {
		return err
	}
	uc.Sessions.Remove(sess.ID())
	return nil
}

// IssueToken firma un JWT cuyo jti es el ID de la sesión.
func (uc *AuthUseCase) IssueToken(sess *Session) (string, error) {
	u := sess.User()
	if u == nil {
		return "", domain.ErrUnauthorized
	}
	return jwt.Generate(uc.jwtCfg.Secret, jwt.Identity{
		SessionID:  sess.ID(),
		UserID:     u.ID,
		BusinessID: u.BusinessID,
		Role:       u.Role,
		SuperAdmin: u.SuperAdmin,
	}, uc.jwtCfg.Issuer, uc.jwtCfg.ExpMinutes)
}

// ──────────────────────────────────────────────────────────────────────────────
// Transiciones
// ──────────────────────────────────────────────────────────────────────────────

// Login autentica en la sesión. "admin" entra como super-admin sin negocio; el resto necesita
// un negocio seleccionado y activo. Si algo falla la sesión conserva su contexto anterior.
func (uc *AuthUseCase) Login(ctx context.Context, sess *Session, in dto.LoginRequest) error {
	sess.op.Lock()
	defer sess.op.Unlock()

	username := strings.TrimSpace(in.Username)
	var (
		next snapshot
		err  error
	)
	if entity.IsReservedUsername(username) {
		next, err = uc.loginSuperAdmin(ctx, in.Password)
	} else {
		next, err = uc.loginBusinessUser(ctx, strings.TrimSpace(in.BusinessID), username, in.Password)
	}
	if err != nil {
		uc.log.Warn().Err(err).Str("username", username).Str("business_id", in.BusinessID).Msg("login rechazado")
		return err
	}
	sess.apply(next)
	uc.log.Info().
		Str("session_id", sess.ID()).
		Str("user_id", next.user.ID).
		Str("business_id", next.businessID).
		Stringer("state", next.state).
		Msg("login")
	return nil
}

func (uc *AuthUseCase) loginSuperAdmin(ctx context.Context, password string) (snapshot, error) {
	digest, err := uc.superAdminDigest(ctx)
	if err != nil {
		return snapshot{}, err
	}
	if !uc.Hasher.Verify(password, digest) {
		return snapshot{}, domain.ErrInvalidCredentials
	}
	next := snapshot{
		state:      StateSuperAdmin,
		user:       superAdminUser(),
		privileges: privilege.All(),
	}
	uc.restoreManagedBusiness(ctx, &next)
	return next, nil
}

// restoreManagedBusiness vuelve a abrir el último negocio administrado si todavía existe.
// Un fallo aquí no impide el login: el super-admin queda sin negocio seleccionado.
func (uc *AuthUseCase) restoreManagedBusiness(ctx context.Context, next *snapshot) {
	id, err := uc.Pointers.GetManagingBusinessID(ctx, SuperAdminID)
	if err != nil {
		uc.log.Warn().Err(err).Msg("no se pudo leer el negocio administrado")
		return
	}
	if id == "" {
		return
	}
	if _, err := uc.Businesses.Get(ctx, id); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			_ = uc.Pointers.SaveManagingBusinessID(ctx, SuperAdminID, "")
		}
		return
	}
	ws, err := uc.Tenants.Open(ctx, id)
	if err != nil {
		uc.log.Warn().Err(err).Str("business_id", id).Msg("no se pudo cargar el negocio administrado")
		return
	}
	next.businessID = id
	next.workspace = ws
}

func (uc *AuthUseCase) loginBusinessUser(ctx context.Context, businessID, username, password string) (snapshot, error) {
	if businessID == "" {
		return snapshot{}, domain.ErrNoBusinessSelected
	}
	biz, err := uc.Businesses.Get(ctx, businessID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return snapshot{}, domain.ErrBusinessInactiveOrMissing
		}
		return snapshot{}, err
	}
	if !biz.IsActive {
		return snapshot{}, domain.ErrBusinessInactiveOrMissing
	}
	ws, err := uc.Tenants.Open(ctx, businessID)
	if err != nil {
		return snapshot{}, err
	}
	u := ws.UserByUsername(username)
	if u == nil || !uc.Hasher.Verify(password, u.PasswordHash) {
		return snapshot{}, domain.ErrInvalidCredentials
	}
	privs, err := uc.Groups.ResolvePrivileges(ctx, u)
	if err != nil {
		return snapshot{}, err
	}
	return snapshot{
		state:      StateBusinessUser,
		user:       u,
		businessID: businessID,
		workspace:  ws,
		privileges: privs,
	}, nil
}

// superAdminDigest digest guardado o, si nunca se guardó uno, el de la contraseña por defecto.
func (uc *AuthUseCase) superAdminDigest(ctx context.Context) (string, error) {
	h, err := uc.Admin.LoadSuperAdminHash(ctx)
	if err != nil {
		return "", err
	}
	if h != "" {
		return h, nil
	}
	uc.bootstrapOnce.Do(func() {
		uc.bootstrapDigest, uc.bootstrapErr = uc.Hasher.Hash(bootstrapPassword)
		uc.log.Warn().Msg("el super-admin usa la contraseña por defecto; cámbiela cuanto antes")
	})
	return uc.bootstrapDigest, uc.bootstrapErr
}

// Logout vuelve la sesión a no autenticada. Con una venta en curso solo procede si se confirma
// descartarla; si no, devuelve domain.ErrSaleInProgress.
func (uc *AuthUseCase) Logout(ctx context.Context, sess *Session, confirm usecase.Confirmer) error {
	sess.op.Lock()
	defer sess.op.Unlock()

	if sess.SaleInProgress() {
		if err := usecase.Confirmed(ctx, confirm, "descartar la venta en curso"); err != nil {
			return domain.ErrSaleInProgress
		}
	}
	prev := sess.current()
	sess.reset()
	if prev.user != nil {
		uc.log.Info().Str("session_id", sess.ID()).Str("user_id", prev.user.ID).Msg("logout")
	}
	return nil
}

// SwitchManagedBusiness cambia el negocio que administra el super-admin. Llamarlo con el negocio
// activo no hace nada; con "" deja de administrar. Si la carga falla el contexto no cambia.
func (uc *AuthUseCase) SwitchManagedBusiness(ctx context.Context, sess *Session, businessID string) error {
	sess.op.Lock()
	defer sess.op.Unlock()

	if sess.State() != StateSuperAdmin {
		return domain.ErrForbidden
	}
	businessID = strings.TrimSpace(businessID)
	if businessID == sess.BusinessID() {
		return nil
	}
	next := sess.current()
	next.businessID, next.workspace = "", nil
	if businessID != "" {
		if _, err := uc.Businesses.Get(ctx, businessID); err != nil {
			return err
		}
		ws, err := uc.Tenants.Open(ctx, businessID)
		if err != nil {
			return err
		}
		next.businessID, next.workspace = businessID, ws
	}
	if err := uc.Pointers.SaveManagingBusinessID(ctx, SuperAdminID, businessID); err != nil {
		return fmt.Errorf("guardar negocio administrado: %w", err)
	}
	sess.apply(next)
	uc.log.Info().Str("session_id", sess.ID()).Str("business_id", businessID).Msg("negocio administrado cambiado")
	return nil
}

// ChangeSuperAdminPassword guarda un digest nuevo para el super-admin y retira la contraseña por defecto.
func (uc *AuthUseCase) ChangeSuperAdminPassword(ctx context.Context, sess *Session, in dto.ChangePasswordRequest) error {
	if sess.State() != StateSuperAdmin {
		return domain.ErrForbidden
	}
	if in.NewPassword == "" {
		return fmt.Errorf("%w: la contraseña nueva es obligatoria", domain.ErrInvalidInput)
	}
	digest, err := uc.superAdminDigest(ctx)
	if err != nil {
		return err
	}
	if !uc.Hasher.Verify(in.CurrentPassword, digest) {
		return domain.ErrInvalidCredentials
	}
	h, err := uc.Hasher.Hash(in.NewPassword)
	if err != nil {
		return err
	}
	if err := uc.Admin.SaveSuperAdminHash(ctx, h); err != nil {
		return err
	}
	uc.log.Info().Msg("contraseña del super-admin actualizada")
	return nil
}

// ──────────────────────────────────────────────────────────────────────────────
// Autorización
// ──────────────────────────────────────────────────────────────────────────────

// Refresh vuelve a leer el usuario y sus privilegios desde el negocio cargado.
// domain.ErrUnauthorized si el usuario ya no existe.
func (uc *AuthUseCase) Refresh(ctx context.Context, sess *Session) error {
	switch sess.State() {
	case StateUnauthenticated:
		return domain.ErrUnauthorized
	case StateSuperAdmin:
		return nil
	}
	ws := sess.Workspace()
	cur := sess.User()
	if ws == nil || cur == nil {
		return domain.ErrUnauthorized
	}
	u := ws.User(cur.ID)
	if u == nil {
		return domain.ErrUnauthorized
	}
	privs, err := uc.Groups.ResolvePrivileges(ctx, u)
	if err != nil {
		return err
	}
	sess.refresh(u, privs)
	return nil
}

// Authorize decide con datos al día si la sesión puede ejercer el privilegio.
// domain.ErrUnauthorized sin sesión válida; domain.ErrForbidden si el privilegio no está concedido.
func (uc *AuthUseCase) Authorize(ctx context.Context, sess *Session, privilegeID string) error {
	if err := uc.Refresh(ctx, sess); err != nil {
		return err
	}
	if !sess.Can(privilegeID) {
		return domain.ErrForbidden
	}
	return nil
}

// ToSessionResponse estado de la sesión para la UI.
func ToSessionResponse(sess *Session) dto.SessionResponse {
	out := dto.SessionResponse{
		ID:             sess.ID(),
		State:          sess.State().String(),
		BusinessID:     sess.BusinessID(),
		Privileges:     sess.Privileges().Slice(),
		SaleInProgress: sess.SaleInProgress(),
	}
	if u := usecase.ToUserResponse(sess.User()); u != nil {
		out.User = *u
	}
	return out
}

func superAdminUser() *entity.User {
	return &entity.User{
		ID:         SuperAdminID,
		Username:   entity.SuperAdminUsername,
		Role:       entity.RoleSuperAdmin,
		SuperAdmin: true,
	}
}
