package usecase

import (
	"github.com/jhoicas/pos-backoffice/internal/application/dto"
	"github.com/jhoicas/pos-backoffice/internal/domain/entity"
	"github.com/jhoicas/pos-backoffice/internal/domain/privilege"
)

// ToUserResponse mapea un usuario a su salida sin hash.
func ToUserResponse(u *entity.User) *dto.UserResponse {
	if u == nil {
		return nil
	}
	return &dto.UserResponse{
		ID:         u.ID,
		BusinessID: u.BusinessID,
		Username:   u.Username,
		Role:       u.Role,
		GroupID:    u.GroupID,
		SuperAdmin: u.SuperAdmin,
		CreatedAt:  u.CreatedAt,
		UpdatedAt:  u.UpdatedAt,
	}
}

func entityToGroupResponse(g *entity.Group, privs privilege.Set) *dto.GroupResponse {
	return &dto.GroupResponse{
		ID:          g.ID,
		BusinessID:  g.BusinessID,
		Name:        g.Name,
		Description: g.Description,
		Privileges:  privs.Slice(),
		CreatedAt:   g.CreatedAt,
		UpdatedAt:   g.UpdatedAt,
	}
}

func seedsToMap(s entity.Seeds) map[string]int64 {
	out := make(map[string]int64, len(s))
	for k, v := range s.Normalize() {
		out[string(k)] = v
	}
	return out
}

func entityToBusinessResponse(b *entity.Business) *dto.BusinessResponse {
	return &dto.BusinessResponse{
		ID:                    b.ID,
		Name:                  b.Name,
		IsActive:              b.IsActive,
		PackageID:             b.PackageID,
		SubscriptionEnd:       b.SubscriptionEnd,
		FiscalYear:            b.FiscalYear,
		Seeds:                 seedsToMap(b.Seeds),
		FuturePackageID:       b.FuturePackageID,
		FutureSubscriptionEnd: b.FutureSubscriptionEnd,
		CreatedAt:             b.CreatedAt,
		UpdatedAt:             b.UpdatedAt,
	}
}

func entityToPackageResponse(p *entity.SubscriptionPackage) *dto.PackageResponse {
	return &dto.PackageResponse{
		ID:            p.ID,
		Name:          p.Name,
		Price:         p.Price,
		DurationYears: p.DurationYears,
		Features:      append([]string{}, p.Features...),
		AllowedViews:  append([]string{}, p.AllowedViews...),
		CreatedAt:     p.CreatedAt,
		UpdatedAt:     p.UpdatedAt,
	}
}

// PrivilegeCatalog catálogo agrupado por categoría, en el orden de la UI.
func PrivilegeCatalog() []dto.PrivilegeCategoryResponse {
	groups := privilege.ByCategory()
	out := make([]dto.PrivilegeCategoryResponse, 0, len(groups))
	for _, g := range groups {
		items := make([]dto.PrivilegeResponse, 0, len(g.Privileges))
		for _, p := range g.Privileges {
			items = append(items, dto.PrivilegeResponse{ID: p.ID, Category: p.Category, Name: p.Name, Description: p.Description})
		}
		out = append(out, dto.PrivilegeCategoryResponse{Category: g.Category, Privileges: items})
	}
	return out
}
