package dto

// LoginRequest entrada para login. BusinessID es obligatorio salvo para el super-admin.
type LoginRequest struct {
	Username   string `json:"username" validate:"required"`
	Password   string `json:"password" validate:"required"`
	BusinessID string `json:"business_id,omitempty"`
}

// LoginResponse token JWT y contexto de la sesión abierta.
type LoginResponse struct {
	Token   string          `json:"token"`
	Session SessionResponse `json:"session"`
}

// SessionResponse estado de la sesión actual.
type SessionResponse struct {
	ID             string       `json:"id"`
	State          string       `json:"state"`
	User           UserResponse `json:"user"`
	BusinessID     string       `json:"business_id,omitempty"`
	Privileges     []string     `json:"privileges"`
	SaleInProgress bool         `json:"sale_in_progress"`
}

// SwitchBusinessRequest cambio de negocio administrado (super-admin). Vacío deja de administrar.
type SwitchBusinessRequest struct {
	BusinessID string `json:"business_id"`
}

// ChangePasswordRequest cambio de contraseña del super-admin.
type ChangePasswordRequest struct {
	CurrentPassword string `json:"current_password" validate:"required"`
	NewPassword     string `json:"new_password" validate:"required"`
}

// SaleStateRequest marca o limpia la venta en curso de la sesión.
type SaleStateRequest struct {
	InProgress bool `json:"in_progress"`
}
