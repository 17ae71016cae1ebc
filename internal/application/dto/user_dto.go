package dto

import "time"

// CreateUserRequest entrada para crear un usuario (password en texto, se hashea en use case).
type CreateUserRequest struct {
	Username string `json:"username" validate:"required,max=100"`
	Password string `json:"password" validate:"required"`
	Role     string `json:"role" validate:"omitempty,max=50"`
	GroupID  string `json:"group_id,omitempty"`
}

// UpdateUserRequest patch de usuario: cada campo es opcional. Password vacío conserva el hash actual.
// GroupID con "" quita el grupo.
type UpdateUserRequest struct {
	Username *string `json:"username,omitempty"`
	Password *string `json:"password,omitempty"`
	Role     *string `json:"role,omitempty"`
	GroupID  *string `json:"group_id,omitempty"`
}

// UserResponse salida de un usuario (sin password).
type UserResponse struct {
	ID         string    `json:"id"`
	BusinessID string    `json:"business_id,omitempty"`
	Username   string    `json:"username"`
	Role       string    `json:"role"`
	GroupID    string    `json:"group_id,omitempty"`
	SuperAdmin bool      `json:"super_admin,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}
