package memory

import "github.com/jhoicas/pos-backoffice/internal/domain/entity"

func cloneUsers(in []*entity.User) []*entity.User {
	if len(in) == 0 {
		return []*entity.User{}
	}
	out := make([]*entity.User, 0, len(in))
	for _, u := range in {
		out = append(out, u.Clone())
	}
	return out
}

func cloneGroups(in []*entity.Group) []*entity.Group {
	if len(in) == 0 {
		return []*entity.Group{}
	}
	out := make([]*entity.Group, 0, len(in))
	for _, g := range in {
		out = append(out, g.Clone())
	}
	return out
}

func cloneGrants(in []entity.GroupPrivilege) []entity.GroupPrivilege {
	return append([]entity.GroupPrivilege{}, in...)
}

func cloneBusinesses(in []*entity.Business) []*entity.Business {
	if len(in) == 0 {
		return []*entity.Business{}
	}
	out := make([]*entity.Business, 0, len(in))
	for _, b := range in {
		out = append(out, b.Clone())
	}
	return out
}

func clonePackages(in []*entity.SubscriptionPackage) []*entity.SubscriptionPackage {
	if len(in) == 0 {
		return []*entity.SubscriptionPackage{}
	}
	out := make([]*entity.SubscriptionPackage, 0, len(in))
	for _, p := range in {
		out = append(out, p.Clone())
	}
	return out
}
