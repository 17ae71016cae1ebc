package entity

// Privilege acción o vista que puede habilitarse por grupo. Catálogo global de solo lectura.
type Privilege struct {
	ID          string
	Category    string
	Name        string
	Description string
}
