package dto

import "time"

// CreateBusinessRequest alta de negocio con su primer gerente.
type CreateBusinessRequest struct {
	Name            string `json:"name" validate:"required,max=200"`
	PackageID       string `json:"package_id" validate:"required"`
	ManagerUsername string `json:"manager_username" validate:"required"`
	ManagerPassword string `json:"manager_password" validate:"required"`
}

// UpdateBusinessRequest patch de negocio.
type UpdateBusinessRequest struct {
	Name     *string `json:"name,omitempty"`
	IsActive *bool   `json:"is_active,omitempty"`
}

// RenewSubscriptionRequest renovación de suscripción.
type RenewSubscriptionRequest struct {
	PackageID string `json:"package_id" validate:"required"`
}

// BusinessResponse salida de un negocio.
type BusinessResponse struct {
	ID                    string           `json:"id"`
	Name                  string           `json:"name"`
	IsActive              bool             `json:"is_active"`
	PackageID             string           `json:"package_id"`
	SubscriptionEnd       time.Time        `json:"subscription_end"`
	FiscalYear            int              `json:"fiscal_year"`
	Seeds                 map[string]int64 `json:"seeds"`
	FuturePackageID       string           `json:"future_package_id,omitempty"`
	FutureSubscriptionEnd *time.Time       `json:"future_subscription_end,omitempty"`
	CreatedAt             time.Time        `json:"created_at"`
	UpdatedAt             time.Time        `json:"updated_at"`
}

// CreateBusinessResponse negocio creado y su gerente.
type CreateBusinessResponse struct {
	Business BusinessResponse `json:"business"`
	Manager  UserResponse     `json:"manager"`
}
