package dto

import "time"

// CreateGroupRequest entrada para crear un grupo.
type CreateGroupRequest struct {
	Name        string `json:"name" validate:"required,max=100"`
	Description string `json:"description,omitempty"`
}

// UpdateGroupRequest patch de grupo.
type UpdateGroupRequest struct {
	Name        *string `json:"name,omitempty"`
	Description *string `json:"description,omitempty"`
}

// SetGroupPrivilegesRequest reemplaza el conjunto completo de privilegios del grupo.
type SetGroupPrivilegesRequest struct {
	PrivilegeIDs []string `json:"privilege_ids"`
}

// GroupResponse salida de un grupo con sus privilegios.
type GroupResponse struct {
	ID          string    `json:"id"`
	BusinessID  string    `json:"business_id"`
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
	Privileges  []string  `json:"privileges"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// PrivilegeResponse entrada del catálogo.
type PrivilegeResponse struct {
	ID          string `json:"id"`
	Category    string `json:"category"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
}

// PrivilegeCategoryResponse catálogo agrupado por categoría para la UI.
type PrivilegeCategoryResponse struct {
	Category   string              `json:"category"`
	Privileges []PrivilegeResponse `json:"privileges"`
}
