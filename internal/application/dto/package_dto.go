package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// CreatePackageRequest alta de paquete de suscripción.
type CreatePackageRequest struct {
	Name          string          `json:"name" validate:"required"`
	Price         decimal.Decimal `json:"price"`
	DurationYears int             `json:"duration_years" validate:"min=1"`
	Features      []string        `json:"features"`
	AllowedViews  []string        `json:"allowed_views"`
}

// UpdatePackageRequest patch de paquete.
type UpdatePackageRequest struct {
	Name          *string          `json:"name,omitempty"`
	Price         *decimal.Decimal `json:"price,omitempty"`
	DurationYears *int             `json:"duration_years,omitempty"`
	Features      []string         `json:"features,omitempty"`
	AllowedViews  []string         `json:"allowed_views,omitempty"`
}

// PackageResponse salida de un paquete.
type PackageResponse struct {
	ID            string          `json:"id"`
	Name          string          `json:"name"`
	Price         decimal.Decimal `json:"price"`
	DurationYears int             `json:"duration_years"`
	Features      []string        `json:"features"`
	AllowedViews  []string        `json:"allowed_views"`
	CreatedAt     time.Time       `json:"created_at"`
	UpdatedAt     time.Time       `json:"updated_at"`
}
