package entity

import "time"

// Group agrupa privilegios asignables a usuarios de un negocio.
type Group struct {
	ID          string
	BusinessID  string
	Name        string // único por negocio sin distinguir mayúsculas
	Description string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// Clone copia el grupo.
func (g *Group) Clone() *Group {
	if g == nil {
		return nil
	}
	out := *g
	return &out
}

// GroupPrivilege relación grupo ↔ privilegio dentro de un negocio.
type GroupPrivilege struct {
	GroupID     string
	PrivilegeID string
	BusinessID  string
}
