package entity

import (
	"strings"
	"time"
)

// Roles conocidos. El conjunto de roles de personal es abierto: cualquier texto no vacío es válido.
const (
	RoleSeller      = "seller"
	RoleManager     = "manager"
	RoleAccountant  = "accountant"
	RoleStorekeeper = "storekeeper"
	RoleSuperAdmin  = "super_admin"
)

// SuperAdminUsername nombre reservado globalmente para el super-admin.
const SuperAdminUsername = "admin"

// User representa un usuario de un negocio. El super-admin no pertenece a ningún negocio.
type User struct {
	ID           string
	BusinessID   string // vacío para el super-admin
	Username     string
	PasswordHash string // nunca en texto plano
	Role         string
	GroupID      string // opcional
	SuperAdmin   bool
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// IsManager informa si el usuario tiene el rol de gerente.
func (u *User) IsManager() bool { return u != nil && u.Role == RoleManager }

// Clone copia el usuario.
func (u *User) Clone() *User {
	if u == nil {
		return nil
	}
	out := *u
	return &out
}

// ValidRole valida un rol asignable a usuarios de negocio.
func ValidRole(role string) bool {
	role = strings.TrimSpace(role)
	return role != "" && role != RoleSuperAdmin
}

// IsReservedUsername informa si el nombre está reservado para el super-admin.
func IsReservedUsername(username string) bool {
	return FoldName(username) == SuperAdminUsername
}
